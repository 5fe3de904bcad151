package modules

import (
	"github.com/thoreinstein/jitsi/internal/modules/healthcheck"
	"github.com/thoreinstein/jitsi/internal/modules/settings"
	"github.com/thoreinstein/jitsi/internal/modules/signals"
	"github.com/thoreinstein/jitsi/internal/modules/uri"
)

// Builtin is the definitive list of modules compiled into the launcher, in
// install order.
func Builtin() []Descriptor {
	return []Descriptor{
		{
			Name:        "settings",
			Origin:      "builtin:settings",
			Description: "Persists user settings in settings.toml under the home directory",
			New:         settings.New,
		},
		{
			Name:        "signals",
			Origin:      "builtin:signals",
			Description: "Stops the launcher on SIGINT and SIGTERM",
			New:         signals.New,
		},
		{
			Name:        "uri",
			Origin:      "builtin:uri",
			Description: "Dispatches launch URIs, including ones forwarded by later launches",
			New:         uri.New,
		},
		{
			Name:        "healthcheck",
			Origin:      "builtin:healthcheck",
			Description: "Serves bundle states on a loopback /healthz endpoint",
			New:         healthcheck.New,
		},
	}
}
