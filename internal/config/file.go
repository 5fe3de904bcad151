package config

import (
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/spf13/viper"

	"github.com/thoreinstein/jitsi/internal/errors"
	"github.com/thoreinstein/jitsi/internal/paths"
	"github.com/thoreinstein/jitsi/pkg/fileutil"
)

// FileName is the config file name searched for by Init.
const FileName = "config.yaml"

// ErrUnknownKey indicates a key that is not part of the configuration.
var ErrUnknownKey = errors.Wrap(errors.ErrInvalidConfig, "unknown key")

// Keys lists every configuration key in display order.
var Keys = []string{
	KeyHomeDirLocation,
	KeyCacheDirLocation,
	KeyLogDirLocation,
	KeyHomeDirName,
	"log.level",
	"log.format",
	"healthcheck.port",
	"instance.dial_timeout",
}

// DefaultPath returns the config file in the launcher's own config
// directory.
func DefaultPath() string {
	return filepath.Join(paths.LauncherConfigDir(), FileName)
}

// Set stores key=value in the config file at path, creating the file and
// its directory when missing. The result is validated before it is written;
// defaults and environment values are never written.
func Set(path, key, value string) error {
	return update(path, key, func(settings map[string]any) {
		if n, err := strconv.Atoi(value); err == nil {
			setKey(settings, key, n)
			return
		}
		setKey(settings, key, value)
	})
}

// Unset removes key from the config file at path.
func Unset(path, key string) error {
	return update(path, key, func(settings map[string]any) {
		deleteKey(settings, key)
	})
}

func update(path, key string, apply func(settings map[string]any)) error {
	if !slices.Contains(Keys, key) {
		return errors.Wrapf(ErrUnknownKey, "%q", key)
	}

	settings := map[string]any{}
	if _, err := os.Stat(path); err == nil {
		if err := fileutil.ReadYAML(path, &settings); err != nil {
			return errors.Wrap(err, "reading config file")
		}
		if settings == nil {
			settings = map[string]any{}
		}
	}

	apply(settings)

	v := viper.New()
	if err := v.MergeConfigMap(settings); err != nil {
		return errors.Wrap(err, "merging config")
	}
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return errors.Wrap(err, "unmarshaling config")
	}
	if errs := Validate(&cfg); len(errs) > 0 {
		return errors.Wrap(errs[0], "validating config")
	}

	if err := paths.EnsureDir(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrap(err, "creating config directory")
	}
	if err := fileutil.AtomicWriteYAML(path, settings, 0o644); err != nil {
		return errors.Wrap(err, "writing config file")
	}
	return nil
}

// setKey stores value under a dotted key in a nested settings map.
func setKey(m map[string]any, key string, value any) {
	head, rest, nested := strings.Cut(key, ".")
	if !nested {
		m[key] = value
		return
	}
	child, ok := m[head].(map[string]any)
	if !ok {
		child = map[string]any{}
		m[head] = child
	}
	setKey(child, rest, value)
}

// deleteKey removes a dotted key from a nested settings map, dropping
// parents left empty.
func deleteKey(m map[string]any, key string) {
	head, rest, nested := strings.Cut(key, ".")
	if !nested {
		delete(m, key)
		return
	}
	child, ok := m[head].(map[string]any)
	if !ok {
		return
	}
	deleteKey(child, rest)
	if len(child) == 0 {
		delete(m, head)
	}
}
