package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/vep-annotation-client/internal/config"
	"github.com/vep-annotation-client/internal/domain"
	"github.com/vep-annotation-client/internal/service"
	"github.com/vep-annotation-client/pkg/vep"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCommand().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "vepcli",
		Short:         "Annotate, recode and validate genomic variant notations",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(newAnnotateCommand())
	root.AddCommand(newRecodeCommand())
	root.AddCommand(newValidateCommand())
	return root
}

func newAnnotateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "annotate <notation>",
		Short: "Fetch consequence annotations for a variant notation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := buildService()
			if err != nil {
				return err
			}
			result, err := svc.AnnotateVariant(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printJSON(cmd, result)
		},
	}
}

func newRecodeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "recode <notation>",
		Short: "Convert a variant notation into its equivalent representations",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := buildService()
			if err != nil {
				return err
			}
			forms, err := svc.RecodeVariant(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printJSON(cmd, forms)
		},
	}
}

func newValidateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <notation>",
		Short: "Validate a variant notation, with correction hints on rejection",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := buildService()
			if err != nil {
				return err
			}
			outcome := svc.ValidateVariant(cmd.Context(), args[0])
			return printJSON(cmd, outcome)
		},
	}
}

// buildService wires config, logging, the tiered cache and the breaker
// transport into the validation facade. Redis being down is not fatal; the
// in-process cache tier carries the session.
func buildService() (*service.VariantValidationService, error) {
	configManager, err := config.NewManager()
	if err != nil {
		return nil, err
	}
	if err := configManager.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	cfg := configManager.GetConfig()

	logger, err := buildLogger(cfg.Logging)
	if err != nil {
		return nil, err
	}

	memory, err := vep.NewMemoryCache(cfg.Cache.MemorySize)
	if err != nil {
		return nil, err
	}
	primary, err := vep.NewRedisCache(cfg.Cache)
	if err != nil {
		logger.WithError(err).Warn("Redis cache unavailable, using in-process cache only")
		primary = nil
	}
	cache := vep.NewTieredCache(primary, memory, logger)

	transport := vep.NewBreakerDoer(&http.Client{Timeout: cfg.VEP.Timeout}, logger)

	client := vep.NewClient(vep.ClientConfig{
		BaseURL:            cfg.VEP.BaseURL,
		Timeout:            cfg.VEP.Timeout,
		RequestsPerSecond:  cfg.VEP.RequestsPerSecond,
		MaxRetries:         cfg.VEP.MaxRetries,
		RetryBackoffFactor: cfg.VEP.RetryBackoffFactor,
		CacheTTL:           cfg.Cache.TTL,
	}, transport, cache, logger)

	return service.NewVariantValidationService(client, logger), nil
}

func buildLogger(cfg domain.LoggingConfig) (*logrus.Logger, error) {
	logger := logrus.New()

	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
	}
	logger.SetLevel(level)

	if cfg.Format == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	}
	logger.SetOutput(os.Stderr)

	return logger, nil
}

func printJSON(cmd *cobra.Command, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return nil
}
