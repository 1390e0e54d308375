package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/aretw0/lattice/internal/config"
	"github.com/aretw0/lattice/internal/logging"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "lattice",
	Short: "Lattice renders nested cell pages and resolves interactions on them",
	Long: `Lattice renders a page made of nested cells, each one optionally backed by a
content plugin, and resolves focus, mode and insertion rules against it.

A page is either a YAML/JSON file or a directory of Markdown documents, one per cell.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	flags := rootCmd.PersistentFlags()
	flags.String("config", config.DefaultFile, "Settings file")
	flags.StringP("source", "s", "", "Page file or directory (overrides the settings file)")
	flags.String("root", "", "Cell to render from")
	flags.String("mode", "", "Initial mode: preview, edit, resize or layout")
	flags.String("lang", "", "Active language")
	flags.String("log-level", "", "Log level: debug, info, warn or error")
	flags.String("log-format", "", "Log format: text or json")
	flags.String("redis", "", "Redis address of a shared store")
}

// loadConfig reads the settings file and applies flag overrides.
// A positional argument names the source when --source is not set.
func loadConfig(cmd *cobra.Command, args []string) (config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return cfg, err
	}

	override := func(flag string, dst *string) {
		if cmd.Flags().Changed(flag) {
			*dst, _ = cmd.Flags().GetString(flag)
		}
	}
	override("source", &cfg.Source)
	override("root", &cfg.Root)
	override("mode", &cfg.Mode)
	override("lang", &cfg.Language)
	override("log-level", &cfg.Log.Level)
	override("log-format", &cfg.Log.Format)
	override("redis", &cfg.Redis.Addr)

	if !cmd.Flags().Changed("source") && len(args) > 0 {
		cfg.Source = args[0]
	}
	return cfg, cfg.Validate()
}

func newLogger(cfg config.Config) *slog.Logger {
	level, err := logging.ParseLevel(cfg.Log.Level)
	if err != nil {
		level = slog.LevelInfo
	}
	return logging.New(level, cfg.Log.Format, os.Stderr)
}
