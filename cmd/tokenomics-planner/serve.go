package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/iwvelando/tokenomics-planner/internal/server"
	"github.com/iwvelando/tokenomics-planner/pkg/constants"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const readHeaderTimeout = 10 * time.Second

type serveOptions struct {
	configPath string
	address    string
	logLevel   string
}

// ServeCmd runs the planner HTTP API until interrupted.
func ServeCmd() *cobra.Command {
	opts := &serveOptions{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the planner HTTP API",
		Long: `Serve the planner API, the live WebSocket editing session and the
Prometheus metrics endpoint. The server shuts down gracefully on SIGINT or SIGTERM.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.configPath, "config", constants.DefaultServerConfigFile, "path to the server configuration file")
	cmd.Flags().StringVar(&opts.address, "address", "", "listen address (overrides the config file)")
	bindLogLevelFlag(cmd.Flags(), &opts.logLevel)

	return cmd
}

func runServe(cmd *cobra.Command, opts *serveOptions) error {
	cfg, err := server.LoadConfig(opts.configPath)
	if err != nil {
		return err
	}
	if opts.address != "" {
		cfg.Address = opts.address
	}

	logger, err := initializeLogger(cfg.Logging, opts.logLevel)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer func() {
		_ = logger.Sync()
	}()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	listener, err := net.Listen("tcp", cfg.Address)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", cfg.Address, err)
	}

	return serve(ctx, logger, cfg, listener)
}

// serve runs the API on listener until ctx is done, then drains in-flight
// requests for the configured grace period.
func serve(ctx context.Context, logger *zap.Logger, cfg *server.Config, listener net.Listener) error {
	srv := &http.Server{
		Handler:           server.NewHandler(logger, cfg.BodySizeBytes(), version, server.WithHorizonMonths(cfg.HorizonMonths)),
		ReadHeaderTimeout: readHeaderTimeout,
	}

	group, groupCtx := errgroup.WithContext(ctx)

	group.Go(func() error {
		logger.Info("server listening",
			zap.String("op", "main.serve"),
			zap.String("address", listener.Addr().String()),
			zap.String("maxBodySize", cfg.MaxBodySize),
			zap.Int("horizonMonths", cfg.HorizonMonths),
			zap.String("version", version),
		)
		if err := srv.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	})

	group.Go(func() error {
		<-groupCtx.Done()

		logger.Info("shutting down server",
			zap.String("op", "main.serve"),
			zap.Duration("gracePeriod", cfg.ShutdownGracePeriod()),
		)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownGracePeriod())
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown failed: %w", err)
		}
		return nil
	})

	return group.Wait()
}
