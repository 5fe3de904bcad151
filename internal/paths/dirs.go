package paths

import (
	"os"
	"path/filepath"

	"github.com/adrg/xdg"

	"github.com/thoreinstein/jitsi/internal/errors"
)

// Environment variable names carrying the committed home directory values.
// They double as the pins read by the config layer.
const (
	EnvHomeDirLocation  = "JITSI_HOME_DIR_LOCATION"
	EnvCacheDirLocation = "JITSI_CACHE_DIR_LOCATION"
	EnvLogDirLocation   = "JITSI_LOG_DIR_LOCATION"
	EnvHomeDirName      = "JITSI_HOME_DIR_NAME"
)

// LogSubdir is the directory under <log>/<name> holding application logs.
const LogSubdir = "log"

// Env is the slice of the process environment the resolver consults.
type Env struct {
	// Platform is the reported platform identifier, e.g. "Windows 11".
	Platform string
	// UserHome is the user's home directory.
	UserHome string
	// Getenv looks up environment variables. Nil means no variables are set.
	Getenv func(string) string
}

func (e Env) lookup(key string) string {
	if e.Getenv == nil {
		return ""
	}
	return e.Getenv(key)
}

// SystemEnv describes the running process.
func SystemEnv() Env {
	return Env{
		Platform: CurrentPlatform(),
		UserHome: systemUserHome(),
		Getenv:   os.Getenv,
	}
}

// systemUserHome prefers the XDG view of the home directory and falls back to
// the OS lookup when that is empty.
func systemUserHome() string {
	if xdg.Home != "" {
		return xdg.Home
	}
	home, err := ResolveHome()
	if err != nil {
		return ""
	}
	return home
}

// Pins are externally fixed home directory values. An empty field is unset.
type Pins struct {
	ProfileLocation string
	CacheLocation   string
	LogLocation     string
	Name            string
}

// Complete reports whether all four values are pinned.
func (p Pins) Complete() bool {
	return p.ProfileLocation != "" && p.CacheLocation != "" &&
		p.LogLocation != "" && p.Name != ""
}

// Dirs is the resolved home directory configuration. Values are set once
// by Resolve and handed to every subsystem; nothing mutates them afterwards.
type Dirs struct {
	ProfileLocation string `json:"profile_location" yaml:"profile_location"`
	CacheLocation   string `json:"cache_location" yaml:"cache_location"`
	LogLocation     string `json:"log_location" yaml:"log_location"`
	Name            string `json:"name" yaml:"name"`
}

// Home returns <profile>/<name>, the directory holding the user profile.
// The single-instance lock is scoped to it.
func (d Dirs) Home() string {
	return filepath.Join(d.ProfileLocation, d.Name)
}

// CacheDir returns <cache>/<name>.
func (d Dirs) CacheDir() string {
	return filepath.Join(d.CacheLocation, d.Name)
}

// LogDir returns <log>/<name>/log.
func (d Dirs) LogDir() string {
	return filepath.Join(d.LogLocation, d.Name, LogSubdir)
}

// Valid reports whether every field is set.
func (d Dirs) Valid() bool {
	return Pins(d).Complete()
}

// Export publishes the values as JITSI_* environment variables so child
// processes observe the committed configuration.
func (d Dirs) Export(setenv func(key, value string) error) error {
	if !d.Valid() {
		return errors.Wrap(ErrInvalidPath, "exporting incomplete home directories")
	}
	for _, kv := range [][2]string{
		{EnvHomeDirLocation, d.ProfileLocation},
		{EnvCacheDirLocation, d.CacheLocation},
		{EnvLogDirLocation, d.LogLocation},
		{EnvHomeDirName, d.Name},
	} {
		if err := setenv(kv[0], kv[1]); err != nil {
			return errors.Wrapf(err, "setting %s", kv[0])
		}
	}
	return nil
}
