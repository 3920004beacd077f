package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version is set at build time via -ldflags.
var Version = "dev"

var (
	cfgFile   string
	logFormat string
)

var rootCmd = &cobra.Command{
	Use:   "weatherd",
	Short: "Weather-cache daemon backed by OpenWeatherMap",
	Long: `weatherd answers city- or coordinate-based weather queries over HTTP,
fetching current conditions from OpenWeatherMap, normalizing them into a
stable JSON shape, and caching city readings in SQLite or PostgreSQL so
repeat queries inside the freshness window never leave the process.`,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file path")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "json", "log format (text or json)")
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
