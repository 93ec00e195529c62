// Package config defines the data structures related to configuration and
// includes functions for loading, validating and exporting a plan.
package config

import (
	"fmt"
	"io"
	"strings"

	"github.com/iwvelando/tokenomics-planner/internal/planner"
	"github.com/iwvelando/tokenomics-planner/internal/schedule"
	"github.com/iwvelando/tokenomics-planner/pkg/allocation"
	"github.com/iwvelando/tokenomics-planner/pkg/constants"
	"github.com/iwvelando/tokenomics-planner/pkg/validation"
	"github.com/spf13/viper"
	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"
)

// Configuration holds all configuration for tokenomics-planner.
type Configuration struct {
	Token       schedule.GlobalParameters        `yaml:"token" mapstructure:"token"`
	Allocations map[string]allocation.Allocation `yaml:"allocations,omitempty" mapstructure:"allocations"`
	Schedule    ScheduleConfig                   `yaml:"schedule,omitempty" mapstructure:"schedule"`
	Logging     LoggingConfig                    `yaml:"logging,omitempty" mapstructure:"logging"`
	Output      OutputConfig                     `yaml:"output,omitempty" mapstructure:"output"`
}

// ScheduleConfig holds simulation options.
type ScheduleConfig struct {
	HorizonMonths int `json:"horizonMonths,omitempty" yaml:"horizonMonths,omitempty" mapstructure:"horizonMonths"`
}

// LoggingConfig holds logging configuration options
type LoggingConfig struct {
	Level      string `yaml:"level,omitempty" mapstructure:"level"`           // debug, info, warn, error
	Format     string `yaml:"format,omitempty" mapstructure:"format"`         // json, console
	OutputFile string `yaml:"outputFile,omitempty" mapstructure:"outputFile"` // optional file output
}

// OutputConfig holds output format configuration options
type OutputConfig struct {
	Format string `yaml:"format,omitempty" mapstructure:"format"` // pretty, csv, json
}

// newViper returns an isolated viper instance with defaults and environment
// overrides, e.g. TOKENOMICS_TOKEN_TOTALSUPPLY.
func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(constants.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("token.totalSupply", constants.DefaultTotalSupply)
	v.SetDefault("token.initialTokenPrice", constants.DefaultInitialTokenPrice)
	v.SetDefault("schedule.horizonMonths", constants.DefaultHorizonMonths)
	v.SetDefault("logging.level", constants.DefaultLogLevel)
	v.SetDefault("logging.format", constants.LogFormatJSON)
	v.SetDefault("output.format", constants.OutputFormatPretty)
	return v
}

// LoadConfiguration takes a file path as input and loads the YAML-formatted
// configuration there.
func LoadConfiguration(configPath string) (*Configuration, error) {
	v := newViper()
	v.SetConfigFile(configPath)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file, %w", err)
	}

	return decode(v)
}

// LoadConfigurationFromReader loads a YAML-formatted configuration from r.
func LoadConfigurationFromReader(r io.Reader) (*Configuration, error) {
	v := newViper()

	if err := v.ReadConfig(r); err != nil {
		return nil, fmt.Errorf("error reading config, %w", err)
	}

	return decode(v)
}

func decode(v *viper.Viper) (*Configuration, error) {
	var configuration Configuration
	if err := v.Unmarshal(&configuration); err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %w", err)
	}

	if err := configuration.Validate(); err != nil {
		return nil, err
	}

	return &configuration, nil
}

// Validate reports every configuration error at once.
func (c *Configuration) Validate() error {
	var err error

	if _, dErr := c.Distribution(); dErr != nil {
		err = multierr.Append(err, dErr)
	}
	err = multierr.Append(err, validation.ValidateHorizon(c.Schedule.HorizonMonths))
	if c.Output.Format != "" {
		err = multierr.Append(err, validation.ValidateOutputFormat(c.Output.Format))
	}
	err = multierr.Append(err, validation.ValidateLogging(c.Logging.Level, c.Logging.Format))

	return err
}

// Distribution returns the configured allocations. An absent allocations
// section selects the default distribution; categories missing from a present
// section are zero.
func (c *Configuration) Distribution() (allocation.Distribution, error) {
	if c.Allocations == nil {
		return allocation.DefaultDistribution(), nil
	}
	return allocation.FromMap(c.Allocations)
}

// HorizonMonths returns the configured horizon, falling back to the default.
func (c *Configuration) HorizonMonths() int {
	if c.Schedule.HorizonMonths <= 0 {
		return constants.DefaultHorizonMonths
	}
	return c.Schedule.HorizonMonths
}

// Document returns the portable form of the configured plan.
func (c *Configuration) Document() (Document, error) {
	dist, err := c.Distribution()
	if err != nil {
		return Document{}, err
	}
	return Document{
		Token:       c.Token,
		Allocations: dist,
		Schedule:    ScheduleConfig{HorizonMonths: c.HorizonMonths()},
	}, nil
}

// ToState converts the configuration into a clamped planner state.
func (c *Configuration) ToState() (planner.State, error) {
	doc, err := c.Document()
	if err != nil {
		return planner.State{}, err
	}
	return doc.State(), nil
}

// ValidateConfiguration performs general validation of the configuration and returns warnings
func (c *Configuration) ValidateConfiguration() []string {
	doc, err := c.Document()
	if err != nil {
		return []string{err.Error()}
	}
	return doc.Warnings()
}

// Document is the plan without process settings. It is the body of the HTTP
// API and the format of YAML exports.
type Document struct {
	Token       schedule.GlobalParameters `json:"token" yaml:"token"`
	Allocations allocation.Distribution   `json:"allocations" yaml:"allocations"`
	Schedule    ScheduleConfig            `json:"schedule" yaml:"schedule"`
}

// DefaultDocument returns the document of the default plan.
func DefaultDocument() Document {
	return FromState(planner.New(), constants.DefaultHorizonMonths)
}

// FromState renders a planner state as a document.
func FromState(s planner.State, horizonMonths int) Document {
	return Document{
		Token:       s.Parameters,
		Allocations: s.Distribution,
		Schedule:    ScheduleConfig{HorizonMonths: horizonMonths},
	}
}

// State converts the document into a planner state, clamping every value into
// range. Over-allocation is preserved.
func (d Document) State() planner.State {
	return planner.State{
		Parameters:   d.Token,
		Distribution: d.Allocations,
	}.Sanitize()
}

// HorizonMonths returns the document's horizon, falling back to the default.
func (d Document) HorizonMonths() int {
	if d.Schedule.HorizonMonths <= 0 {
		return constants.DefaultHorizonMonths
	}
	return d.Schedule.HorizonMonths
}

// Warnings returns the non-fatal problems of the document: values that will
// be clamped, allocations not totalling 100% and vesting past the horizon.
func (d Document) Warnings() []string {
	warnings := validation.ValidateParameters(d.Token.TotalSupply, d.Token.InitialTokenPrice)

	horizon := d.HorizonMonths()
	d.Allocations.Each(func(c allocation.Category, a allocation.Allocation) {
		warnings = append(warnings, validation.ValidateAllocation(c.String(), a, horizon)...)
	})

	total := d.State().Distribution.DecimalTotal().InexactFloat64()
	if warning := validation.ValidateTotal(total); warning != "" {
		warnings = append(warnings, warning)
	}

	return warnings
}

// Export writes the document as YAML with categories in canonical order.
func (d Document) Export(w io.Writer) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	if err := encoder.Encode(d); err != nil {
		return fmt.Errorf("failed to encode plan: %w", err)
	}
	return encoder.Close()
}
