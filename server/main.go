package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gofiber/fiber/v3"
	"github.com/spf13/cobra"

	"github.com/meikuraledutech/pipeline/api"
	"github.com/meikuraledutech/pipeline/config"
	"github.com/meikuraledutech/pipeline/mockllm"
)

const (
	shutdownTimeout = 5 * time.Second
	shutdownRetry   = 50 * time.Millisecond
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		configPath string
		addr       string
		verbose    bool
	)

	cmd := &cobra.Command{
		Use:          "pipelined",
		Short:        "Validate editor pipelines over HTTP",
		Long:         `pipelined serves the pipeline editor backend: graph validation (node/edge counts and DAG check) and a mock LLM endpoint.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Addr = addr
			}

			level := cfg.Level()
			if verbose {
				level = log.DebugLevel
			}
			logger := log.NewWithOptions(os.Stderr, log.Options{
				ReportTimestamp: true,
				TimeFormat:      "15:04:05.00",
				Level:           level,
				Prefix:          "pipelined",
			})

			if err := serve(cmd.Context(), cfg, logger); err != nil {
				logger.Error("server stopped", "err", err)
				return err
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "path to a YAML or TOML config file")
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides config)")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	return cmd
}

// serve runs the HTTP server until ctx is canceled.
func serve(ctx context.Context, cfg *config.Config, logger *log.Logger) error {
	app := api.New(cfg, logger, mockllm.New())

	errc := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", cfg.Addr)
		errc <- app.Listen(cfg.Addr, fiber.ListenConfig{DisableStartupMessage: true})
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	for {
		if err := app.ShutdownWithTimeout(shutdownTimeout); err != nil {
			return err
		}
		// A shutdown that lands before Listen starts serving is a no-op,
		// so repeat until Listen returns.
		select {
		case err := <-errc:
			if err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		case <-time.After(shutdownRetry):
		}
	}
}
