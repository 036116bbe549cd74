package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/iwvelando/loan-calculator/internal/config"
	"github.com/iwvelando/loan-calculator/internal/server"
	"github.com/iwvelando/loan-calculator/pkg/constants"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newServeCmd(opts *rootOptions) *cobra.Command {
	var (
		serverConfigPath string
		address          string
		maxUploadSize    string
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the calculators as a JSON HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			serverConfig, err := server.LoadConfig(serverConfigPath)
			if err != nil {
				return err
			}
			if err := applyServeOverrides(serverConfig, address, maxUploadSize); err != nil {
				return err
			}

			rt, err := loadRuntime(cmd, opts)
			if err != nil {
				return err
			}
			defer rt.sync()

			// A logging section in the server config takes over from the
			// calculator config.
			logger := rt.logger
			if serverConfig.Logging != (config.LoggingConfig{}) {
				logger, err = initializeLogger(serverConfig.Logging, opts.logLevel)
				if err != nil {
					return err
				}
				defer func() {
					_ = logger.Sync()
				}()
			}

			handlerOpts := server.Options{
				MaxUploadSize: serverConfig.UploadSizeBytes(),
				Version:       version,
			}
			if serverConfig.RateLimit.Enabled() {
				limiter := server.NewRateLimiter(serverConfig.RateLimit.Requests, serverConfig.RateLimit.Window())
				defer limiter.Stop()
				handlerOpts.Limiter = limiter
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			logger.Info("loan calculator API configured",
				zap.String("op", "main.serve"),
				zap.String("address", serverConfig.Address),
				zap.Int64("maxUploadSize", serverConfig.UploadSizeBytes()),
				zap.Int("rateLimitRequests", serverConfig.RateLimit.Requests),
			)
			return server.Run(ctx, serverConfig.Address, server.NewHandler(logger, rt.calc, handlerOpts), logger)
		},
	}
	cmd.Flags().StringVar(&serverConfigPath, "server-config", constants.DefaultServerConfigFile, "path to server configuration file")
	cmd.Flags().StringVar(&address, "address", "", "listen address override, e.g. :8080")
	cmd.Flags().StringVar(&maxUploadSize, "max-upload-size", "", "request body limit override, e.g. 128K")
	return cmd
}

// applyServeOverrides applies command line flags on top of the server config.
func applyServeOverrides(serverConfig *server.Config, address, maxUploadSize string) error {
	if address != "" {
		serverConfig.Address = address
	}
	if maxUploadSize == "" {
		return nil
	}
	size, err := server.ParseSize(maxUploadSize)
	if err != nil {
		return fmt.Errorf("invalid --max-upload-size: %w", err)
	}
	if size <= 0 {
		return fmt.Errorf("invalid --max-upload-size: %q must be positive", maxUploadSize)
	}
	serverConfig.SetUploadSizeBytes(size)
	return nil
}
