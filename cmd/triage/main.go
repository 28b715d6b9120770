// Command triage runs Nigerian public-health triage assessments from the
// terminal or serves the web intake.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"triage-advisor/internal/config"
	"triage-advisor/internal/logging"
	"triage-advisor/internal/pipeline"
)

var (
	configPath string
	logLevel   string

	cfg    *config.Config
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "triage",
	Short: "Nigerian Health Triage Advisor",
	Long: `Triage screens a patient's symptoms for emergencies, then runs five advisory
stages (triage, maternal and child health, medicines, health finance and an
action plan) against a hosted language model.

Critical symptoms never reach the model: the emergency notice with the 112
number is returned immediately.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Read(configPath)
		if err != nil {
			return err
		}
		if logLevel != "" {
			cfg.Log.Level = logLevel
		}
		logger, err = logging.New(cfg.Log.Level)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", os.Getenv("TRIAGE_CONFIG"), "YAML config file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error (default from config)")

	rootCmd.AddCommand(serveCmd, assessCmd, classifyCmd, demoCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		var callErr *pipeline.ExternalCallError
		if errors.As(err, &callErr) {
			fmt.Fprintln(os.Stderr, callErr.Remediation())
		}
		stop()
		os.Exit(1)
	}
}
