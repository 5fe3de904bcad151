package doctor

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/afero"

	"github.com/thoreinstein/jitsi/internal/errors"
	"github.com/thoreinstein/jitsi/internal/instance"
	"github.com/thoreinstein/jitsi/internal/modules"
	"github.com/thoreinstein/jitsi/internal/paths"
)

// HomeDirCheck verifies the resolved home directory is a writable directory.
type HomeDirCheck struct {
	fs   afero.Fs
	dirs paths.Dirs
}

var _ Check = (*HomeDirCheck)(nil)

// NewHomeDirCheck creates a home directory check.
func NewHomeDirCheck(fs afero.Fs, dirs paths.Dirs) *HomeDirCheck {
	return &HomeDirCheck{fs: fs, dirs: dirs}
}

func (c *HomeDirCheck) Name() string       { return "home-directory" }
func (c *HomeDirCheck) Category() Category { return CategoryFilesystem }

func (c *HomeDirCheck) Run() *CheckResult {
	home := c.dirs.Home()
	result := &CheckResult{
		Name:     c.Name(),
		Category: c.Category(),
		Details: map[string]any{
			"path":             home,
			"profile_location": c.dirs.ProfileLocation,
			"name":             c.dirs.Name,
		},
	}

	info, err := c.fs.Stat(home)
	switch {
	case os.IsNotExist(err):
		result.Status = SeverityInfo
		result.Message = "home directory does not exist yet; it is created on first launch"
		return result
	case err != nil:
		result.Status = SeverityError
		result.Message = fmt.Sprintf("cannot stat home directory: %v", err)
		return result
	case !info.IsDir():
		result.Status = SeverityError
		result.Message = "expected directory but found file"
		result.FixHint = "remove or rename " + home
		return result
	}

	f, err := afero.TempFile(c.fs, home, ".doctor-*")
	if err != nil {
		result.Status = SeverityError
		result.Message = "home directory is not writable"
		result.FixHint = "chmod 700 " + home
		return result
	}
	name := f.Name()
	f.Close()
	_ = c.fs.Remove(name)

	result.Status = SeverityPass
	result.Message = "home directory is writable"
	return result
}

// LogDirCheck verifies <log>/<name>/log exists and can create it.
type LogDirCheck struct {
	fs      afero.Fs
	dirs    paths.Dirs
	missing bool
}

var (
	_ Check = (*LogDirCheck)(nil)
	_ Fixer = (*LogDirCheck)(nil)
)

// NewLogDirCheck creates a log directory check.
func NewLogDirCheck(fs afero.Fs, dirs paths.Dirs) *LogDirCheck {
	return &LogDirCheck{fs: fs, dirs: dirs}
}

func (c *LogDirCheck) Name() string       { return "log-directory" }
func (c *LogDirCheck) Category() Category { return CategoryFilesystem }

func (c *LogDirCheck) Run() *CheckResult {
	dir := c.dirs.LogDir()
	result := &CheckResult{
		Name:     c.Name(),
		Category: c.Category(),
		Details:  map[string]any{"path": dir},
	}
	c.missing = false

	info, err := c.fs.Stat(dir)
	switch {
	case os.IsNotExist(err):
		c.missing = true
		result.Status = SeverityWarning
		result.Message = "log directory is missing"
		result.Fixable = true
		result.FixHint = "jitsi doctor --fix"
	case err != nil:
		result.Status = SeverityError
		result.Message = fmt.Sprintf("cannot stat log directory: %v", err)
	case !info.IsDir():
		result.Status = SeverityError
		result.Message = "expected directory but found file"
		result.FixHint = "remove or rename " + dir
	default:
		result.Status = SeverityPass
		result.Message = "log directory exists"
	}
	return result
}

func (c *LogDirCheck) CanFix() bool { return c.missing }

func (c *LogDirCheck) Fix() []FixResult {
	if !c.missing {
		return nil
	}
	dir := c.dirs.LogDir()
	if err := c.fs.MkdirAll(dir, 0o755); err != nil {
		return []FixResult{{
			Path:        dir,
			Description: fmt.Sprintf("failed to create: %v", err),
			Error:       errors.Wrapf(err, "creating %s", dir),
		}}
	}
	c.missing = false
	return []FixResult{{Path: dir, Fixed: true, Description: "created"}}
}

// InstanceLockCheck reports whether another launcher owns the home directory.
type InstanceLockCheck struct {
	dir   string
	probe func(dir string) (instance.Record, bool, error)
}

var _ Check = (*InstanceLockCheck)(nil)

// NewInstanceLockCheck creates an instance lock check for the home directory dir.
func NewInstanceLockCheck(dir string) *InstanceLockCheck {
	return &InstanceLockCheck{dir: dir, probe: instance.Probe}
}

func (c *InstanceLockCheck) Name() string       { return "instance-lock" }
func (c *InstanceLockCheck) Category() Category { return CategoryRuntime }

func (c *InstanceLockCheck) Run() *CheckResult {
	result := &CheckResult{Name: c.Name(), Category: c.Category()}

	rec, held, err := c.probe(c.dir)
	switch {
	case err != nil:
		result.Status = SeverityWarning
		result.Message = fmt.Sprintf("cannot inspect instance lock: %v", err)
		result.FixHint = "launch with --multiple to bypass the lock"
	case held:
		result.Status = SeverityInfo
		result.Message = fmt.Sprintf("a launcher is running (pid %d)", rec.PID)
		result.Details = map[string]any{
			"pid":     rec.PID,
			"address": rec.Address,
			"started": rec.Started,
		}
	default:
		result.Status = SeverityPass
		result.Message = "no running instance"
	}
	return result
}

// ModuleRegistryCheck verifies the compiled-in modules can all be installed.
type ModuleRegistryCheck struct {
	registry *modules.Registry
}

var _ Check = (*ModuleRegistryCheck)(nil)

// NewModuleRegistryCheck creates a module registry check.
func NewModuleRegistryCheck(registry *modules.Registry) *ModuleRegistryCheck {
	return &ModuleRegistryCheck{registry: registry}
}

func (c *ModuleRegistryCheck) Name() string       { return "module-registry" }
func (c *ModuleRegistryCheck) Category() Category { return CategoryModules }

func (c *ModuleRegistryCheck) Run() *CheckResult {
	all := c.registry.All()
	concrete := c.registry.Concrete()
	result := &CheckResult{
		Name:     c.Name(),
		Category: c.Category(),
		Details: map[string]any{
			"modules":  len(all),
			"concrete": len(concrete),
		},
	}

	if dups := c.registry.Duplicates(); len(dups) > 0 {
		result.Status = SeverityError
		result.Message = "duplicate module origins: " + strings.Join(dups, ", ")
		return result
	}
	if len(concrete) == 0 {
		result.Status = SeverityWarning
		result.Message = "no installable modules"
		return result
	}

	result.Status = SeverityPass
	result.Message = fmt.Sprintf("%d modules registered", len(concrete))
	return result
}

// ConfigCheck reports the outcome of loading the launcher configuration.
type ConfigCheck struct {
	file string
	err  error
}

var _ Check = (*ConfigCheck)(nil)

// NewConfigCheck creates a config check from the file viper used (empty
// when none was found) and the load error.
func NewConfigCheck(file string, loadErr error) *ConfigCheck {
	return &ConfigCheck{file: file, err: loadErr}
}

func (c *ConfigCheck) Name() string       { return "config" }
func (c *ConfigCheck) Category() Category { return CategoryConfig }

func (c *ConfigCheck) Run() *CheckResult {
	result := &CheckResult{Name: c.Name(), Category: c.Category()}
	if c.file != "" {
		result.Details = map[string]any{"file": c.file}
	}

	switch {
	case c.err != nil:
		result.Status = SeverityError
		result.Message = c.err.Error()
		result.FixHint = "fix the value or remove it to use the default"
	case c.file == "":
		result.Status = SeverityPass
		result.Message = "no config file; using defaults and environment"
	default:
		result.Status = SeverityPass
		result.Message = "config file is valid"
	}
	return result
}
