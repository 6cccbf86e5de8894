// internal/cli/show_config.go
package voxbench

import (
	"fmt"

	"github.com/k0kubun/pp"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// showCmd groups read-only inspection subcommands.
var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Inspect resolved settings",
}

// showConfigCmd implements 'show config', which prints the merged
// configuration after flag overrides have been applied.
var showConfigCmd = &cobra.Command{
	Use:   "config",
	Short: "Show config settings",
	Long:  `Show config settings ensuring that the JSON config is loaded properly and overridden by flags accordingly.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg := GetConfig()
		if cfg == nil {
			fmt.Println("No config loaded.")
			return
		}
		fmt.Printf("Config file: %s\n\n", cfg.ConfigPath)

		fmt.Println("Merged flag state:")
		fmt.Printf("  Debug:      %v\n", viper.GetBool("debug"))
		fmt.Printf("  TUI:        %v\n", viper.GetBool("tui"))
		fmt.Printf("  Iterations: %v\n", viper.GetInt("iterations"))
		fmt.Printf("  Profile:    %v\n", viper.GetString("profile"))
		fmt.Println()
		pp.Println(cfg)
	},
}

func init() {
	rootCmd.AddCommand(showCmd)
	showCmd.AddCommand(showConfigCmd)
}
