package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/thoreinstein/jitsi/internal/errors"
	"github.com/thoreinstein/jitsi/internal/paths"
)

// EnvPrefix is prepended to every environment variable viper consults.
const EnvPrefix = "JITSI"

// Keys holding the home directory pins. Their environment forms are the
// JITSI_* variables exported by paths.Dirs.Export.
const (
	KeyHomeDirLocation  = "home_dir_location"
	KeyCacheDirLocation = "cache_dir_location"
	KeyLogDirLocation   = "log_dir_location"
	KeyHomeDirName      = "home_dir_name"
)

// DefaultDialTimeout bounds how long a second launch waits on the running
// instance.
const DefaultDialTimeout = 5 * time.Second

// Config represents the launcher configuration.
type Config struct {
	HomeDirLocation  string `mapstructure:"home_dir_location" yaml:"home_dir_location,omitempty"`
	CacheDirLocation string `mapstructure:"cache_dir_location" yaml:"cache_dir_location,omitempty"`
	LogDirLocation   string `mapstructure:"log_dir_location" yaml:"log_dir_location,omitempty"`
	HomeDirName      string `mapstructure:"home_dir_name" yaml:"home_dir_name,omitempty"`

	Log         LogConfig         `mapstructure:"log" yaml:"log"`
	Healthcheck HealthcheckConfig `mapstructure:"healthcheck" yaml:"healthcheck"`
	Instance    InstanceConfig    `mapstructure:"instance" yaml:"instance"`
}

// LogConfig controls the launcher logger.
type LogConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

// HealthcheckConfig controls the loopback health endpoint. Port 0 disables it.
type HealthcheckConfig struct {
	Port int `mapstructure:"port" yaml:"port"`
}

// InstanceConfig controls the single-instance handshake.
type InstanceConfig struct {
	DialTimeout time.Duration `mapstructure:"dial_timeout" yaml:"dial_timeout"`
}

// Pins returns the explicitly configured home directory values.
func (c *Config) Pins() paths.Pins {
	return paths.Pins{
		ProfileLocation: c.HomeDirLocation,
		CacheLocation:   c.CacheDirLocation,
		LogLocation:     c.LogDirLocation,
		Name:            c.HomeDirName,
	}
}

// Init resets viper and installs the launcher's search paths, environment
// binding and defaults. Call it once at startup before Load.
func Init() {
	viper.Reset()

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	viper.AddConfigPath(".")
	viper.AddConfigPath(paths.LauncherConfigDir())

	viper.SetEnvPrefix(EnvPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// Pins have no defaults; binding them lets Unmarshal see the
	// environment without a config file.
	for _, key := range []string{KeyHomeDirLocation, KeyCacheDirLocation, KeyLogDirLocation, KeyHomeDirName} {
		_ = viper.BindEnv(key)
	}

	viper.SetDefault("log.level", "info")
	viper.SetDefault("log.format", "text")
	viper.SetDefault("healthcheck.port", 0)
	viper.SetDefault("instance.dial_timeout", DefaultDialTimeout)
}

// Load reads the configuration file.
// If path is provided, it reads from that specific file.
// If path is empty, it searches in the default locations and falls back to
// defaults and the environment when no file is found.
func Load(path string) (*Config, error) {
	if path != "" {
		viper.SetConfigFile(path)
	}

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, errors.Wrap(err, "reading config file")
		}
		if path != "" {
			return nil, errors.Wrapf(err, "config file not found at %s", path)
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "unmarshaling config")
	}

	if errs := Validate(&cfg); len(errs) > 0 {
		return nil, errors.Wrap(errs[0], "validating config")
	}

	return &cfg, nil
}

// Pins returns the home directory pins from the current viper state.
func Pins() paths.Pins {
	return paths.Pins{
		ProfileLocation: viper.GetString(KeyHomeDirLocation),
		CacheLocation:   viper.GetString(KeyCacheDirLocation),
		LogLocation:     viper.GetString(KeyLogDirLocation),
		Name:            viper.GetString(KeyHomeDirName),
	}
}
