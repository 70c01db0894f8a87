package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/meigma/unfurl/cmd/unfurl/cli/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage unfurl configuration",
	Long: `View and modify unfurl configuration.

Without arguments, displays the current effective configuration.
Use subcommands to view the config path or set configuration values.`,
	RunE: runConfigShow,
}

func init() {
	configCmd.AddCommand(configPathCmd)
	configCmd.AddCommand(configSetCmd)
	rootCmd.AddCommand(configCmd)
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Show configuration file path",
	RunE: func(_ *cobra.Command, _ []string) error {
		configDir, err := config.Dir()
		if err != nil {
			return err
		}
		fmt.Println(filepath.Join(configDir, "config.yaml"))
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Long: `Set a configuration value in the config file.

Examples:
  unfurl config set extract.buffer_size 1MiB
  unfurl config set extract.concurrency 8`,
	Args: cobra.ExactArgs(2),
	RunE: func(_ *cobra.Command, args []string) error {
		key, value := args[0], args[1]
		viper.Set(key, value)

		configDir, err := config.Dir()
		if err != nil {
			return err
		}
		if err := os.MkdirAll(configDir, 0o750); err != nil {
			return err
		}

		configPath := filepath.Join(configDir, "config.yaml")
		if err := viper.WriteConfigAs(configPath); err != nil {
			return fmt.Errorf("write config: %w", err)
		}

		fmt.Printf("Updated %s = %v\n", key, value)
		return nil
	},
}

func runConfigShow(_ *cobra.Command, _ []string) error {
	settings := viper.AllSettings()
	data, err := yaml.Marshal(settings)
	if err != nil {
		return err
	}
	fmt.Print(string(data))
	return nil
}
