package main

import (
	"fmt"
	"io"
	"os"

	"github.com/iwvelando/tokenomics-planner/internal/config"
	"github.com/iwvelando/tokenomics-planner/internal/planner"
	"github.com/iwvelando/tokenomics-planner/internal/schedule"
	"github.com/iwvelando/tokenomics-planner/pkg/client"
	"github.com/iwvelando/tokenomics-planner/pkg/constants"
	"github.com/iwvelando/tokenomics-planner/pkg/output"
	"github.com/iwvelando/tokenomics-planner/pkg/validation"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type simulateOptions struct {
	configPath    string
	outputFormat  string
	logLevel      string
	edits         []string
	horizonMonths int
	serverURL     string
	exportPath    string
}

// SimulateCmd loads a plan, applies command-line edits and prints its unlock
// schedule.
func SimulateCmd() *cobra.Command {
	opts := &simulateOptions{}

	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Simulate the unlock schedule of a plan",
		Long: `Load a plan from a YAML configuration, apply any --set edits in order and
print the resulting allocation, metrics, warnings and monthly unlock schedule.

Edits use the form key=value, for example:

  --set totalSupply=500000000
  --set teamAndAdvisors.percentage=15
  --set treasury.vestingMonths=60`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSimulate(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.configPath, "config", constants.DefaultConfigFile, "path to the plan configuration file")
	cmd.Flags().StringVar(&opts.outputFormat, "output-format", "", "output format: pretty, csv or json (overrides the config file)")
	bindLogLevelFlag(cmd.Flags(), &opts.logLevel)
	cmd.Flags().StringArrayVar(&opts.edits, "set", nil, "edit applied to the plan as key=value; may be repeated")
	cmd.Flags().IntVar(&opts.horizonMonths, "horizon", 0, "number of months to simulate (overrides the config file)")
	cmd.Flags().StringVar(&opts.serverURL, "server", "", "compute the plan on a running planner server instead of locally")
	cmd.Flags().StringVar(&opts.exportPath, "export", "", "write the edited plan as YAML to this path")

	return cmd
}

func runSimulate(cmd *cobra.Command, opts *simulateOptions) error {
	conf, err := config.LoadConfiguration(opts.configPath)
	if err != nil {
		return err
	}

	logger, err := initializeLogger(conf.Logging, opts.logLevel)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer func() {
		_ = logger.Sync()
	}()

	format := conf.Output.Format
	if opts.outputFormat != "" {
		format = opts.outputFormat
	}
	if err := validation.ValidateOutputFormat(format); err != nil {
		return err
	}

	if err := validation.ValidateHorizon(opts.horizonMonths); err != nil {
		return err
	}
	horizon := conf.HorizonMonths()
	if opts.horizonMonths > 0 {
		horizon = opts.horizonMonths
	}

	for _, warning := range conf.ValidateConfiguration() {
		logger.Warn("configuration warning",
			zap.String("op", "main.runSimulate"),
			zap.String("warning", warning),
		)
	}

	state, err := conf.ToState()
	if err != nil {
		return err
	}
	state, err = applyEdits(state, opts.edits)
	if err != nil {
		return err
	}
	logger.Debug("plan loaded",
		zap.String("op", "main.runSimulate"),
		zap.String("config", opts.configPath),
		zap.Int("edits", len(opts.edits)),
		zap.Int("horizonMonths", horizon),
	)

	if opts.exportPath != "" {
		if err := exportPlan(opts.exportPath, config.FromState(state, horizon)); err != nil {
			return err
		}
		logger.Info("plan exported",
			zap.String("op", "main.runSimulate"),
			zap.String("path", opts.exportPath),
		)
	}

	var snap planner.Snapshot
	if opts.serverURL != "" {
		plan, err := client.New(opts.serverURL).Simulate(cmd.Context(), config.FromState(state, horizon))
		if err != nil {
			return fmt.Errorf("remote simulation failed: %w", err)
		}
		logger.Debug("plan computed remotely",
			zap.String("op", "main.runSimulate"),
			zap.String("server", opts.serverURL),
			zap.String("requestId", plan.RequestID),
			zap.String("duration", plan.Duration),
		)
		snap = plan.Snapshot
	} else {
		snap = state.Compute(schedule.NewSimulator(logger, horizon))
	}

	return render(cmd.OutOrStdout(), format, snap)
}

// applyEdits parses and applies key=value edits in order.
func applyEdits(state planner.State, exprs []string) (planner.State, error) {
	edits := make([]planner.Edit, 0, len(exprs))
	for _, expr := range exprs {
		edit, err := planner.ParseEdit(expr)
		if err != nil {
			return state, err
		}
		edits = append(edits, edit)
	}
	return state.ApplyAll(edits)
}

func exportPlan(path string, doc config.Document) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create export file %s: %w", path, err)
	}
	if err := doc.Export(file); err != nil {
		_ = file.Close()
		return err
	}
	return file.Close()
}

func render(w io.Writer, format string, snap planner.Snapshot) error {
	switch format {
	case constants.OutputFormatCSV:
		output.CsvFormat(w, snap)
	case constants.OutputFormatJSON:
		return output.JSONFormat(w, snap)
	default:
		output.PrettyFormat(w, snap)
	}
	return nil
}
