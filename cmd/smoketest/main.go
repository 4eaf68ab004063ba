package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"j2systems/internal/smoke"
)

const defaultBaseURL = "http://localhost:8000/api"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCommand().ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var (
		baseURL string
		settle  time.Duration
		verbose bool
	)

	cmd := &cobra.Command{
		Use:          "smoketest",
		Short:        "Run HTTP smoke checks against a deployed contact API",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			logCfg := zap.NewDevelopmentConfig()
			if !verbose {
				logCfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
			}
			logger, err := logCfg.Build()
			if err != nil {
				return fmt.Errorf("failed to create logger: %w", err)
			}
			defer func() { _ = logger.Sync() }()

			runner := smoke.NewRunner(baseURL, logger.Sugar())
			runner.SettleDelay = settle
			report := runner.Run(cmd.Context())
			report.Print(cmd.OutOrStdout())

			if !report.OK() {
				return fmt.Errorf("%d of %d checks failed", report.Failed(), len(report.Results))
			}
			return nil
		},
	}

	if env := os.Getenv("SMOKE_BASE_URL"); env != "" {
		baseURL = env
	} else {
		baseURL = defaultBaseURL
	}
	cmd.Flags().StringVar(&baseURL, "base-url", baseURL, "API base URL including the /api prefix (env SMOKE_BASE_URL)")
	cmd.Flags().DurationVar(&settle, "settle", time.Second, "Delay before the final persistence check")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Log every check as it runs")

	return cmd
}
