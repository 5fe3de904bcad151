package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/thoreinstein/jitsi/internal/config"
	"github.com/thoreinstein/jitsi/internal/editor"
	"github.com/thoreinstein/jitsi/internal/errors"
)

// configPath is the file written by "config set". Replaced in tests.
var configPath = config.DefaultPath

func init() {
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configUnsetCmd)
	configCmd.AddCommand(configListCmd)
	configCmd.AddCommand(configEditCmd)
	rootCmd.AddCommand(configCmd)
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage launcher configuration",
	Long: `Manage the launcher configuration stored in config.yaml.

Without a subcommand, lists the effective configuration: the file merged
with JITSI_* environment variables and defaults.`,
	Example: `  # List the effective configuration
  jitsi config

  # Pin the home directory name
  jitsi config set home_dir_name Jitsi-Work

  # Enable the health endpoint
  jitsi config set healthcheck.port 8089

See Also: jitsi dirs, jitsi doctor`,
	RunE: runConfigList,
}

var configGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Get a configuration value",
	Long:  `Print the effective value of a single key. Supports dot notation for nested keys.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(c *cobra.Command, args []string) error {
		return runConfigGet(c.OutOrStdout(), args[0])
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Long: `Write a value to config.yaml. The file is validated before it is
replaced, so an invalid value leaves it untouched.`,
	Args: cobra.ExactArgs(2),
	RunE: func(c *cobra.Command, args []string) error {
		if err := config.Set(configPath(), args[0], args[1]); err != nil {
			return errors.NewConfigError(err)
		}
		fmt.Fprintf(c.OutOrStdout(), "Set %s = %s\n", args[0], args[1])
		return nil
	},
}

var configUnsetCmd = &cobra.Command{
	Use:   "unset <key>",
	Short: "Remove a configuration value",
	Args:  cobra.ExactArgs(1),
	RunE: func(c *cobra.Command, args []string) error {
		if err := config.Unset(configPath(), args[0]); err != nil {
			return errors.NewConfigError(err)
		}
		fmt.Fprintf(c.OutOrStdout(), "Unset %s\n", args[0])
		return nil
	},
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all configuration",
	Long:  `List the effective configuration in YAML format.`,
	Args:  cobra.NoArgs,
	RunE:  runConfigList,
}

var configEditCmd = &cobra.Command{
	Use:   "edit",
	Short: "Open configuration in $EDITOR",
	Long: `Open config.yaml in your editor. JITSI_EDITOR, EDITOR and VISUAL are
consulted in that order, then nano and vi.`,
	Args: cobra.NoArgs,
	RunE: func(c *cobra.Command, _ []string) error {
		path := configPath()
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return errors.NewUserError(
				errors.Newf("config file not found at %s", path),
				"Run: jitsi config set <key> <value>")
		}
		fmt.Fprintf(c.OutOrStdout(), "Location: %s\n", path)
		return editor.New().Open(path)
	},
}

func runConfigGet(w io.Writer, key string) error {
	if !viper.IsSet(key) {
		fmt.Fprintln(w, "not set")
		return nil
	}
	fmt.Fprintln(w, viper.GetString(key))
	return nil
}

func runConfigList(c *cobra.Command, _ []string) error {
	conf, err := loadedConfig()
	if err != nil {
		return err
	}
	return writeConfigYAML(c.OutOrStdout(), conf)
}

func writeConfigYAML(w io.Writer, conf *config.Config) error {
	data, err := yaml.Marshal(conf)
	if err != nil {
		return errors.Wrap(err, "marshaling config")
	}
	_, err = w.Write(data)
	return errors.Wrap(err, "writing config")
}
