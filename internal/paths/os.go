package paths

import (
	"path/filepath"
	"runtime"
	"strings"
)

// OperatingSystem classifies the host for directory conventions.
type OperatingSystem int

// The closed set of operating system classes.
const (
	OSOther OperatingSystem = iota
	OSMac
	OSWindows
)

// BrandedName is the home directory name used on platforms with
// per-application directories (MAC and WINDOWS).
const BrandedName = "Jitsi"

// DottedName is the home directory name used on every other platform, and
// the legacy-compatibility name checked under the user home.
const DottedName = ".jitsi"

// String returns the classification name.
func (o OperatingSystem) String() string {
	switch o {
	case OSMac:
		return "mac"
	case OSWindows:
		return "windows"
	case OSOther:
		return "other"
	}
	return "unknown"
}

// Classify maps a reported platform identifier (for example "Mac OS X" or
// "Windows 11") to an OperatingSystem by substring match. Anything
// unrecognized is OSOther.
func Classify(platform string) OperatingSystem {
	switch {
	case strings.Contains(platform, "Mac"):
		return OSMac
	case strings.Contains(platform, "Windows"):
		return OSWindows
	default:
		return OSOther
	}
}

// PlatformName returns the platform identifier reported for a GOOS value.
func PlatformName(goos string) string {
	switch goos {
	case "darwin":
		return "Mac OS X"
	case "windows":
		return "Windows"
	case "":
		return "unknown"
	default:
		return strings.ToUpper(goos[:1]) + goos[1:]
	}
}

// CurrentPlatform returns the platform identifier of the running process.
func CurrentPlatform() string {
	return PlatformName(runtime.GOOS)
}

// locationFunc derives a base location from the environment. An empty
// result means the platform has no opinion.
type locationFunc func(env Env) string

// conventions is the per-OS function table.
type conventions struct {
	profile     locationFunc
	cache       locationFunc
	log         locationFunc
	defaultName string
}

func userHome(env Env) string { return env.UserHome }

func underHome(elem ...string) locationFunc {
	return func(env Env) string {
		if env.UserHome == "" {
			return ""
		}
		return filepath.Join(append([]string{env.UserHome}, elem...)...)
	}
}

func fromEnv(key string) locationFunc {
	return func(env Env) string {
		return env.lookup(key)
	}
}

// conventionsFor returns the function table for o. Every OperatingSystem
// value has a case; the panic only fires for values outside the set.
func conventionsFor(o OperatingSystem) conventions {
	switch o {
	case OSMac:
		return conventions{
			profile:     underHome("Library", "Application Support"),
			cache:       underHome("Library", "Caches"),
			log:         underHome("Library", "Logs"),
			defaultName: BrandedName,
		}
	case OSWindows:
		return conventions{
			profile:     fromEnv("APPDATA"),
			cache:       fromEnv("LOCALAPPDATA"),
			log:         fromEnv("LOCALAPPDATA"),
			defaultName: BrandedName,
		}
	case OSOther:
		return conventions{
			profile:     userHome,
			cache:       userHome,
			log:         userHome,
			defaultName: DottedName,
		}
	}
	panic("paths: unknown operating system " + o.String())
}

// DefaultName returns the home directory name o uses when none is pinned.
func (o OperatingSystem) DefaultName() string {
	return conventionsFor(o).defaultName
}
