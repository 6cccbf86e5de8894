// internal/cli/root.go
// Package voxbench provides the command-line interface for the voxbench
// application.
package voxbench

import (
	"os"
	"strconv"

	"github.com/mwiater/voxbench/internal/appconfig"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile       string
	currentConfig *appconfig.Config
)

var rootCmd = &cobra.Command{
	Use:   "voxbench",
	Short: "voxbench — speech-to-speech latency benchmark for agent runtimes",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// 1) Load and validate the config file.
		cfg, err := appconfig.Load(cfgFile)
		if err != nil {
			return err
		}

		// 2) If the user did NOT set a flag, copy the config value into the
		//    flag so both pflags and viper reflect the same, final value.
		fromConfig := map[string]string{
			"debug":      strconv.FormatBool(cfg.Debug),
			"tui":        strconv.FormatBool(cfg.TUI),
			"iterations": strconv.Itoa(cfg.Iterations),
			"profile":    cfg.Profile,
			"output":     cfg.OutputDir,
			"dataset":    cfg.DatasetPath,
			"audio":      cfg.AudioPath,
		}
		for name, value := range fromConfig {
			if !cmd.Flags().Changed(name) {
				_ = cmd.Flags().Set(name, value)
			}
		}

		// 3) Materialize the fully merged configuration (flags > config) into
		//    currentConfig so other packages see a stable snapshot.
		cfg.Debug = viper.GetBool("debug")
		cfg.TUI = viper.GetBool("tui")
		cfg.Iterations = viper.GetInt("iterations")
		cfg.Profile = viper.GetString("profile")
		cfg.OutputDir = viper.GetString("output")
		cfg.DatasetPath = viper.GetString("dataset")
		cfg.AudioPath = viper.GetString("audio")
		currentConfig = &cfg

		return nil
	},
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	// --config (defaults to the standard path)
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", appconfig.DefaultConfigPath, "config file (e.g., config/config.json)")

	// Persistent flags available to all commands
	rootCmd.PersistentFlags().Bool("debug", false, "log capability request/response payloads")
	rootCmd.PersistentFlags().Bool("tui", false, "render live progress as a TUI")
	rootCmd.PersistentFlags().Int("iterations", 0, "iterations per (mode, sample) pair")
	rootCmd.PersistentFlags().String("profile", "", "voice profile (groq or elevenlabs)")
	rootCmd.PersistentFlags().String("output", "", "report output directory")
	rootCmd.PersistentFlags().String("dataset", "", "dataset JSON file")
	rootCmd.PersistentFlags().String("audio", "", "single audio file (used when no dataset is set)")

	// Bind flags to Viper keys (flags override config)
	_ = viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	_ = viper.BindPFlag("tui", rootCmd.PersistentFlags().Lookup("tui"))
	_ = viper.BindPFlag("iterations", rootCmd.PersistentFlags().Lookup("iterations"))
	_ = viper.BindPFlag("profile", rootCmd.PersistentFlags().Lookup("profile"))
	_ = viper.BindPFlag("output", rootCmd.PersistentFlags().Lookup("output"))
	_ = viper.BindPFlag("dataset", rootCmd.PersistentFlags().Lookup("dataset"))
	_ = viper.BindPFlag("audio", rootCmd.PersistentFlags().Lookup("audio"))
}

// GetConfig returns the loaded application configuration for other packages.
func GetConfig() *appconfig.Config {
	return currentConfig
}

// DebugEnabled reflects the merged Viper state.
func DebugEnabled() bool { return viper.GetBool("debug") }
