// Package main provides the entry point for the prediction engine.
package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/yourusername/predictsports-engine/internal/config"
	"github.com/yourusername/predictsports-engine/internal/logger"
)

// Build information - set via ldflags
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

var (
	configFile string
	cfg        *config.Config
	appLog     *logrus.Logger
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "config/config.yaml", "Path to configuration file")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(predictCmd)
	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(featuresCmd)
	rootCmd.AddCommand(versionCmd)
}

var rootCmd = &cobra.Command{
	Use:   "engine",
	Short: "Football match prediction engine",
	Long: `Predicts home win, draw and away win probabilities, likely scorelines and
goal markets for a fixture by combining five heuristic models.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == versionCmd.Name() {
			return nil
		}
		secretsOverlay, err := loadConfig(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}

		appLog = logger.NewLogger(cfg.App.LogLevel, cfg.App.Environment)
		if cmd.Name() != serveCmd.Name() {
			// keep stdout clean for JSON output
			appLog.SetOutput(cmd.ErrOrStderr())
			appLog.SetLevel(logrus.WarnLevel)
		}
		logger.NewAuditLogger(appLog).LogConfigLoaded(cfg.App.Environment, configFile, secretsOverlay)
		return nil
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("Error: %v", err)
	}
}

// loadConfig reads, overlays and validates the configuration. It reports
// whether AWS secrets were applied.
func loadConfig(ctx context.Context) (bool, error) {
	var err error
	cfg, err = config.LoadWithDefaults(configFile)
	if err != nil {
		return false, err
	}
	// PREDICTSPORTS_CONFIG_PATH wins over --config
	if err := config.ReloadFromEnv(cfg); err != nil {
		return false, err
	}

	secretsOverlay := false
	if os.Getenv("AWS_SECRETS_ENABLED") == "true" {
		region := os.Getenv("AWS_REGION")
		secretName := os.Getenv("AWS_SECRET_NAME")
		if region == "" || secretName == "" {
			return false, fmt.Errorf("AWS_REGION and AWS_SECRET_NAME must be set when AWS_SECRETS_ENABLED is true")
		}
		if err := config.LoadSecretsFromAWS(ctx, cfg, region, secretName); err != nil {
			return false, fmt.Errorf("failed to load secrets: %w", err)
		}
		secretsOverlay = true
	}

	if err := config.Validate(cfg); err != nil {
		return false, err
	}
	if err := config.ValidateEnvironment(cfg); err != nil {
		return false, err
	}
	return secretsOverlay, nil
}
