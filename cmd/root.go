package cmd

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/siggen-go/siggen/sim"
	"github.com/siggen-go/siggen/sim/detector"
)

var (
	logLevel   string // Log verbosity level
	configPath string // Detector YAML config
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "siggen",
	Short: "Field and drift velocity queries for germanium detector crystals",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level, err := logrus.ParseLevel(logLevel)
		if err != nil {
			return fmt.Errorf("invalid log level %q: %w", logLevel, err)
		}
		logrus.SetLevel(level)
		return nil
	},
	SilenceUsage: true,
}

// loadDetector reads the detector config at path and builds the detector.
func loadDetector(path string) (*detector.Detector, error) {
	if path == "" {
		return nil, fmt.Errorf("detector config not provided (--config)")
	}
	cfg, err := sim.LoadDetectorConfig(path)
	if err != nil {
		return nil, err
	}
	return detector.New(cfg)
}

// Execute runs the CLI root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log", "warn", "Log level (trace, debug, info, warn, error, fatal, panic)")
	rootCmd.AddCommand(velocityCmd)
	rootCmd.AddCommand(driftCmd)
	rootCmd.AddCommand(scanCmd)
}
