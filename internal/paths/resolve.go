package paths

import (
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/thoreinstein/jitsi/internal/logging"
)

// LegacyDirNames are earlier home directory names, checked in order when
// the branded default does not exist yet.
var LegacyDirNames = []string{".sip-communicator", "SIP Communicator"}

// LegacyConfigFiles mark a real profile directory on MAC, where an updater
// may have created a bare "Jitsi" directory for its downloads.
var LegacyConfigFiles = []string{"sip-communicator.properties", "jitsi.properties"}

// Resolver computes the home directory configuration.
type Resolver struct {
	fs         afero.Fs
	env        Env
	logger     *slog.Logger
	skipLogDir bool
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithFs sets the filesystem used for existence checks and the log
// directory. Defaults to the OS filesystem.
func WithFs(fs afero.Fs) Option {
	return func(r *Resolver) { r.fs = fs }
}

// WithEnv overrides the process environment.
func WithEnv(env Env) Option {
	return func(r *Resolver) { r.env = env }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(r *Resolver) { r.logger = l }
}

// WithoutLogDir makes Resolve side-effect free. Commands that only report
// on the directories use it so a missing log directory stays visible.
func WithoutLogDir() Option {
	return func(r *Resolver) { r.skipLogDir = true }
}

// NewResolver creates a Resolver for the running process unless overridden.
func NewResolver(opts ...Option) *Resolver {
	r := &Resolver{
		fs:     afero.NewOsFs(),
		env:    SystemEnv(),
		logger: logging.NewDiscard(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// OS returns the classification of the resolver's platform.
func (r *Resolver) OS() OperatingSystem {
	return Classify(r.env.Platform)
}

// Resolve returns the home directory configuration.
//
// When every value is pinned the pins are returned unchanged. Otherwise the
// OS conventions supply the unset values, then two legacy stages may move
// the profile to a directory left behind by an earlier release. Pinned
// values are never overridden by derived ones, except that the legacy
// stages may relocate the profile when the name is not forced. Unless
// WithoutLogDir is set, the log directory is created on a best-effort basis.
func (r *Resolver) Resolve(pins Pins) Dirs {
	var dirs Dirs
	if pins.Complete() {
		dirs = Dirs(pins)
	} else {
		forced := pins.Name != ""
		dirs = r.osDefaults(pins)
		if !forced {
			dirs = r.legacyDefault(dirs)
		}
		dirs = r.legacyNames(dirs)
	}

	if !r.skipLogDir {
		r.ensureLogDir(dirs)
	}
	return dirs
}

// osDefaults fills unset values from the OS conventions. An empty profile
// falls back to the user home; empty cache and log locations fall back to
// the profile.
func (r *Resolver) osDefaults(pins Pins) Dirs {
	conv := conventionsFor(r.OS())

	profile := conv.profile(r.env)
	if profile == "" {
		profile = r.env.UserHome
	}
	cache := conv.cache(r.env)
	if cache == "" {
		cache = profile
	}
	logLoc := conv.log(r.env)
	if logLoc == "" {
		logLoc = profile
	}

	d := Dirs{
		ProfileLocation: firstNonEmpty(pins.ProfileLocation, profile),
		CacheLocation:   firstNonEmpty(pins.CacheLocation, cache),
		LogLocation:     firstNonEmpty(pins.LogLocation, logLoc),
		Name:            firstNonEmpty(pins.Name, conv.defaultName),
	}
	r.logger.Debug("os defaults", "os", r.OS(), "profile", d.ProfileLocation, "name", d.Name)
	return d
}

// legacyDefault switches to <home>/.jitsi when the computed profile is
// absent and that directory exists.
func (r *Resolver) legacyDefault(d Dirs) Dirs {
	if r.isDir(d.ProfileLocation, d.Name) || !r.isDir(r.env.UserHome, DottedName) {
		return d
	}
	r.logger.Debug("using legacy default home", "location", r.env.UserHome, "name", DottedName)
	d.ProfileLocation = r.env.UserHome
	d.Name = DottedName
	return d
}

// legacyNames adopts the first legacy directory name that exists, checked
// under the current profile location before the user home. It only runs
// for the branded name and only when that directory does not exist.
func (r *Resolver) legacyNames(d Dirs) Dirs {
	if d.Name != "" && d.Name != BrandedName {
		return d
	}
	if r.homeExists(d.ProfileLocation, d.Name) {
		return d
	}
	for _, name := range LegacyDirNames {
		if r.homeExists(d.ProfileLocation, name) {
			r.logger.Debug("using legacy home name", "location", d.ProfileLocation, "name", name)
			d.Name = name
			return d
		}
		if r.homeExists(r.env.UserHome, name) {
			r.logger.Debug("using legacy home name", "location", r.env.UserHome, "name", name)
			d.Name = name
			d.ProfileLocation = r.env.UserHome
			return d
		}
	}
	return d
}

// homeExists reports whether parent/name holds a profile. On MAC the
// directory must contain one of LegacyConfigFiles; elsewhere being a
// directory is enough.
func (r *Resolver) homeExists(parent, name string) bool {
	if parent == "" || name == "" {
		return false
	}
	if r.OS() != OSMac {
		return r.isDir(parent, name)
	}
	for _, f := range LegacyConfigFiles {
		if ok, _ := afero.Exists(r.fs, filepath.Join(parent, name, f)); ok {
			return true
		}
	}
	return false
}

func (r *Resolver) isDir(parent, name string) bool {
	if parent == "" || name == "" {
		return false
	}
	ok, err := afero.IsDir(r.fs, filepath.Join(parent, name))
	return err == nil && ok
}

func (r *Resolver) ensureLogDir(d Dirs) {
	if err := r.fs.MkdirAll(d.LogDir(), 0o755); err != nil && !os.IsExist(err) {
		r.logger.Warn("could not create log directory", "path", d.LogDir(), "error", err)
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
