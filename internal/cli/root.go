package cli

import (
	"context"
	"fmt"
	"time"

	"careerpilot/internal/api"
	"careerpilot/internal/common"
	"careerpilot/internal/config"
	"careerpilot/internal/errors"
	"careerpilot/internal/observability"

	"github.com/spf13/cobra"
)

// Define custom private types for context keys.
type configKeyType struct{}
type loggerKeyType struct{}

// Use variables of these types as the keys.
var configKey = configKeyType{}
var loggerKey = loggerKeyType{}

var rootCmd = &cobra.Command{
	Use:   "careerpilot",
	Short: "A CLI client for the career-coaching backend",
	Long: `Careerpilot talks to the career-coaching backend: upload and manage
resumes, tailor a resume for a specific posting, generate a personalized
career plan, build STAR interview stories, and manage saved comparisons.`,
}

func Execute(ctx context.Context, cfg *config.Config, logger *errors.Logger) error {
	// Attach the config and logger to the context, making them available to all subcommands
	ctx = context.WithValue(ctx, configKey, cfg)
	ctx = context.WithValue(ctx, loggerKey, logger)
	rootCmd.SetContext(ctx)
	return rootCmd.Execute()
}

// getConfigFromContext is a helper function to get config from context
func getConfigFromContext(ctx context.Context) *config.Config {
	if cfg, ok := ctx.Value(configKey).(*config.Config); ok {
		return cfg
	}
	panic("config not found in context") // Should not happen if properly initialized
}

// getLoggerFromContext is a helper function to get logger from context
func getLoggerFromContext(ctx context.Context) *errors.Logger {
	if logger, ok := ctx.Value(loggerKey).(*errors.Logger); ok {
		return logger
	}
	panic("logger not found in context") // Should not happen if properly initialized
}

// appServices bundles the per-command backend client with its supporting
// pieces: observability, token rotation, and output handling.
type appServices struct {
	client  *api.Client
	metrics *observability.Metrics
	output  *common.OutputHandler
}

// newAppServices builds the backend client for one command invocation. The
// returned cleanup stops the token watcher and flushes observability; callers
// defer it.
func newAppServices(cmd *cobra.Command) (*appServices, func(), error) {
	cfg := getConfigFromContext(cmd.Context())
	logger := getLoggerFromContext(cmd.Context())

	obsManager, err := observability.NewObservabilityManager(
		observability.GetObservabilityConfig(cfg, Version), cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize observability: %w", err)
	}

	client, err := api.NewClient(api.Options{
		BaseURL:   cfg.API.BaseURL,
		Token:     cfg.API.Token,
		Timeout:   cfg.API.Timeout,
		Transport: obsManager.HTTPTransport(nil),
		Breaker: api.BreakerOptions{
			Enabled:          cfg.API.CircuitBreaker.Enabled,
			MaxRequests:      cfg.API.CircuitBreaker.MaxRequests,
			Interval:         cfg.API.CircuitBreaker.Interval,
			Timeout:          cfg.API.CircuitBreaker.Timeout,
			MinRequests:      cfg.API.CircuitBreaker.MinRequests,
			FailureThreshold: cfg.API.CircuitBreaker.FailureThreshold,
		},
	}, logger)
	if err != nil {
		return nil, nil, err
	}

	var watcher *config.TokenWatcher
	if cfg.API.TokenFile != "" {
		watcher, err = config.NewTokenWatcher(cfg.API.TokenFile, 0, func(token string) {
			client.SetToken(token)
			logger.Info("Backend API token reloaded")
		}, logger)
		if err != nil {
			logger.Warn("Token watcher unavailable", "error", err)
		} else if err := watcher.Start(); err != nil {
			logger.Warn("Failed to start token watcher", "error", err)
			watcher = nil
		}
	}

	cleanup := func() {
		if watcher != nil && watcher.IsRunning() {
			if err := watcher.Stop(); err != nil {
				logger.Warn("Failed to stop token watcher", "error", err)
			}
		}
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := obsManager.Shutdown(shutdownCtx); err != nil {
			logger.Warn("Observability shutdown failed", "error", err)
		}
	}

	return &appServices{
		client:  client,
		metrics: obsManager.GetMetrics(),
		output:  common.NewOutputHandler(logger),
	}, cleanup, nil
}

// applyFormatDefaults fills in the configured default format and validates the
// result. Commands with a format flag call this from PreRunE.
func applyFormatDefaults(cmd *cobra.Command, cmdConfig *common.CommandConfig) error {
	cfg := getConfigFromContext(cmd.Context())
	if cmdConfig.OutputFormat == "" {
		cmdConfig.OutputFormat = cfg.App.DefaultFormat
	}
	return common.ValidateOutputFormat(cmdConfig.OutputFormat, cfg.App.SupportedFormats)
}

// formatCompletion completes the --format flag from the configured formats.
func formatCompletion(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	cfg := getConfigFromContext(cmd.Context())
	return cfg.App.SupportedFormats, cobra.ShellCompDirectiveNoFileComp
}

func init() {
	rootCmd.AddCommand(planCmd)
	rootCmd.AddCommand(resumeCmd)
	rootCmd.AddCommand(tailorCmd)
	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(storiesCmd)
	rootCmd.AddCommand(savedCmd)
	rootCmd.AddCommand(versionCmd)
}
