// Package commands implements the CLI commands for jitsi.
package commands

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/thoreinstein/jitsi/internal/config"
	"github.com/thoreinstein/jitsi/internal/errors"
)

// cfg holds the loaded configuration. It is nil when loading failed.
var cfg *config.Config

// configLoadErr holds any error that occurred during config loading.
var configLoadErr error

func init() {
	cobra.OnInitialize(initConfig)

	// Silence errors and usage so main controls error output
	rootCmd.SilenceErrors = true
	rootCmd.SilenceUsage = true
}

func initConfig() {
	config.Init()
	// Capture load errors for later reporting
	cfg, configLoadErr = config.Load("")
}

// loadedConfig returns the configuration or a user-facing config error.
func loadedConfig() (*config.Config, error) {
	if configLoadErr != nil {
		return nil, errors.NewConfigError(configLoadErr)
	}
	if cfg == nil {
		return nil, errors.NewConfigError(errors.New("configuration not loaded"))
	}
	return cfg, nil
}

// configFileUsed reports the config file viper read, if any.
func configFileUsed() string {
	return viper.ConfigFileUsed()
}

var rootCmd = &cobra.Command{
	Use:   "jitsi [flags] [uri...]",
	Short: "Launch Jitsi",
	Long: `Launch Jitsi.

The launcher resolves the user's home directory, makes sure only one
instance owns it and starts the built-in modules. When another instance
is already running, the arguments (for example sip: URIs) are handed to it
and this process exits.

Launch flags:
  -h, --help            show launch help and exit
  -v, --version         print the version and exit
  -m, --multiple        do not take the single-instance lock
  -d, --debug           increase log verbosity (repeatable)
      --log-format      log format: text, json
      --log-file        write JSON logs to this file

Home directory locations are taken from JITSI_HOME_DIR_LOCATION,
JITSI_CACHE_DIR_LOCATION, JITSI_LOG_DIR_LOCATION and JITSI_HOME_DIR_NAME,
or the matching keys in config.yaml.`,
	Example: `  # Start the launcher
  jitsi

  # Hand a call URI to the running instance
  jitsi sip:alice@example.com

  # Start a second, independent instance
  jitsi --multiple

  See Also: jitsi dirs, jitsi doctor`,
	// The raw argument vector is parsed by launchargs so it can be forwarded
	// verbatim to a running instance.
	DisableFlagParsing: true,
	Args:               cobra.ArbitraryArgs,
	RunE:               runLaunch,
}

// Execute runs the root command.
func Execute() error {
	return errors.Wrap(rootCmd.Execute(), "executing root command")
}
