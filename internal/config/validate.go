package config

import (
	"path/filepath"
	"strings"

	"github.com/thoreinstein/jitsi/internal/errors"
	"github.com/thoreinstein/jitsi/internal/logging"
)

// Validation errors for configuration fields.
var (
	// ErrInvalidPath indicates a path value is malformed.
	ErrInvalidPath = errors.Wrap(errors.ErrInvalidConfig, "invalid path")

	// ErrInvalidName indicates the home directory name is not a single path element.
	ErrInvalidName = errors.Wrap(errors.ErrInvalidConfig, "invalid home directory name")

	// ErrInvalidPort indicates the healthcheck port is out of range.
	ErrInvalidPort = errors.Wrap(errors.ErrInvalidConfig, "port must be between 0 and 65535")

	// ErrInvalidTimeout indicates a negative timeout.
	ErrInvalidTimeout = errors.Wrap(errors.ErrInvalidConfig, "timeout must not be negative")
)

// Validate checks a Config for validity.
// Returns nil if valid, or a slice of validation errors.
func Validate(cfg *Config) []error {
	if cfg == nil {
		return []error{errors.New("config is nil")}
	}

	var errs []error

	for _, f := range []struct {
		field string
		path  string
	}{
		{KeyHomeDirLocation, cfg.HomeDirLocation},
		{KeyCacheDirLocation, cfg.CacheDirLocation},
		{KeyLogDirLocation, cfg.LogDirLocation},
	} {
		if err := validatePath(f.path); err != nil {
			errs = append(errs, &PathError{Field: f.field, Path: f.path, Err: err})
		}
	}

	if n := cfg.HomeDirName; n != "" {
		if strings.ContainsRune(n, '\x00') || strings.ContainsAny(n, `/\`) || n == "." || n == ".." {
			errs = append(errs, &PathError{Field: KeyHomeDirName, Path: n, Err: ErrInvalidName})
		}
	}

	if _, err := logging.ParseLevel(cfg.Log.Level); err != nil {
		errs = append(errs, err)
	}
	if _, err := logging.ParseFormat(cfg.Log.Format); err != nil {
		errs = append(errs, err)
	}

	if cfg.Healthcheck.Port < 0 || cfg.Healthcheck.Port > 65535 {
		errs = append(errs, errors.Wrapf(ErrInvalidPort, "healthcheck.port %d", cfg.Healthcheck.Port))
	}
	if cfg.Instance.DialTimeout < 0 {
		errs = append(errs, errors.Wrapf(ErrInvalidTimeout, "instance.dial_timeout %s", cfg.Instance.DialTimeout))
	}

	return errs
}

// validatePath checks if a path string is well-formed.
// It does not check if the path exists, only that it's syntactically valid.
func validatePath(path string) error {
	// Empty paths are valid (they mean "derive it")
	if path == "" {
		return nil
	}

	if strings.ContainsRune(path, '\x00') {
		return ErrInvalidPath
	}

	cleaned := filepath.Clean(path)
	if cleaned == "" || cleaned == "." {
		return ErrInvalidPath
	}

	return nil
}

// PathError represents an error for a specific path field.
type PathError struct {
	Field string
	Path  string
	Err   error
}

func (e *PathError) Error() string {
	return e.Field + ": " + e.Err.Error() + ": " + e.Path
}

func (e *PathError) Unwrap() error {
	return e.Err
}
