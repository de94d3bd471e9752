// Package commands wires the kundali command tree: the long-running
// HTTP server plus the one-shot chart, panchanga, verify and version
// commands. Every subcommand runs after the shared setup hook, so .env
// loading and logger initialization happen exactly once.
package commands

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/okian/kundali/pkg/logger"
)

const version = "1.0.0"

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "kundali",
	Short: "Sidereal birth chart computation service",
	Long: `Kundali computes sidereal (Vedic) birth charts: planetary positions,
house placements, panchanga attributes, divisional charts and the
vimshottari dasha timeline.

Configuration layers defaults, an optional YAML or TOML file named by
KUNDALI_CONFIG, and KUNDALI_* environment variables, in that order.

Examples:
  kundali serve                                  # Start the HTTP API
  kundali chart --year 1990 --month 1 --day 15 \
    --hour 13 --minute 30 --timezone America/New_York \
    --latitude 40.7128 --longitude -74.0060      # One chart in the terminal
  kundali verify --count 500                     # Stress-check invariants`,
	Version:           version,
	PersistentPreRunE: setup,
}

// setup runs before every subcommand: the optional .env file first so
// config.Load sees whatever it set, then the logger.
func setup(_ *cobra.Command, _ []string) error {
	// A missing .env file is the normal case.
	_ = godotenv.Load()

	if err := logger.Init(); err != nil {
		return fmt.Errorf("initialize logging: %w", err)
	}
	return nil
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	defer func() {
		_ = logger.Sync()
	}()
	return rootCmd.Execute()
}
