package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/zappay/zappay-backend/pkg/config"
)

// configurationShowCmd represents the configuration show command
var configurationShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show connection configuration attributes and their sources",
	Long: `Show connection configuration attributes and their sources.

Each attribute is reported with the source it was taken from: the
environment (including any loaded dotenv files) or the built-in default.
Passwords are masked.

Example:
  zappayctl configuration show
  zappayctl configuration show --output yaml`,
	Run: func(cmd *cobra.Command, args []string) {
		output, _ := cmd.Flags().GetString("output")

		if err := showConfiguration(output); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to show configuration: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	configurationCmd.AddCommand(configurationShowCmd)
	configurationShowCmd.Flags().StringP("output", "o", "text", "Output format (text, json or yaml)")
}

func showConfiguration(output string) error {
	cfg := config.Resolve(config.OSEnv)

	switch output {
	case "json":
		jsonOutput, err := cfg.FormatJSON()
		if err != nil {
			return err
		}
		fmt.Println(jsonOutput)
	case "yaml":
		yamlOutput, err := cfg.FormatYAML()
		if err != nil {
			return err
		}
		fmt.Print(yamlOutput)
	case "text":
		fmt.Print(cfg.FormatText())
	default:
		return fmt.Errorf("unknown output format %q", output)
	}
	return nil
}
