package commands

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/jitsi/cmd"
	"github.com/thoreinstein/jitsi/internal/config"
	"github.com/thoreinstein/jitsi/internal/errors"
	"github.com/thoreinstein/jitsi/internal/instance"
	"github.com/thoreinstein/jitsi/internal/launch"
	"github.com/thoreinstein/jitsi/internal/launchargs"
	"github.com/thoreinstein/jitsi/internal/logging"
	"github.com/thoreinstein/jitsi/internal/modules"
	"github.com/thoreinstein/jitsi/internal/modules/healthcheck"
	"github.com/thoreinstein/jitsi/internal/modules/uri"
	"github.com/thoreinstein/jitsi/internal/paths"
	"github.com/thoreinstein/jitsi/internal/progress"
)

// launcher runs the boot sequence: resolve directories, pass the gate,
// start the modules.
type launcher struct {
	stdout io.Writer
	stderr io.Writer

	// resolverOpts are applied after the logger option.
	resolverOpts []paths.Option
	// registry defaults to the built-in modules.
	registry *modules.Registry
	setenv   func(key, value string) error
}

func runLaunch(c *cobra.Command, args []string) error {
	conf, err := loadedConfig()
	if err != nil {
		return err
	}
	l := &launcher{
		stdout: c.OutOrStdout(),
		stderr: c.ErrOrStderr(),
		setenv: os.Setenv,
	}
	return l.run(c.Context(), conf, args)
}

func (l *launcher) run(ctx context.Context, conf *config.Config, args []string) error {
	if ctx == nil {
		ctx = context.Background()
	}

	// Argument errors are reported by the gate; only the logging flags are
	// needed this early.
	opts, _ := launchargs.Parse(args)
	level, format := logSettings(conf, opts)
	logger := logging.New(logging.Config{Level: level, Format: format, Output: l.stderr})

	resolver := paths.NewResolver(append([]paths.Option{paths.WithLogger(logger)}, l.resolverOpts...)...)
	dirs := resolver.Resolve(conf.Pins())

	// The log file lives under the resolved directories, so everything
	// from here on is also recorded there.
	if f, err := openLogFile(dirs, opts.LogFile); err != nil {
		logger.Warn("log file disabled", "error", err)
	} else {
		defer f.Close()
		logger = logging.New(logging.Config{Level: level, Format: format, Output: l.stderr, File: f})
	}
	ctx = logging.NewContext(ctx, logger)

	logger.Info("home directory",
		"home", dirs.ProfileLocation,
		"cache", dirs.CacheLocation,
		"log", dirs.LogLocation,
		"dir", dirs.Name)
	if err := dirs.Export(l.setenv); err != nil {
		logger.Warn("could not export home directory", "error", err)
	}

	handler := launchargs.NewHandler(l.stdout, l.stderr, cmd.Summary())
	lock := instance.New(dirs.Home(),
		instance.WithDialTimeout(conf.Instance.DialTimeout),
		instance.WithLogger(logger.With(logging.ComponentKey, "instance")))
	if err := launch.NewGate(handler, lock, logger).Check(ctx, args); err != nil {
		return err
	}
	defer func() {
		if err := lock.Release(); err != nil {
			logger.Warn("releasing instance lock", "error", err)
		}
	}()

	parsed := handler.Options()
	services := map[string]any{
		uri.ServiceLaunchURIs:   parsed.URIs,
		healthcheck.ServicePort: conf.Healthcheck.Port,
	}
	if !parsed.Multiple {
		services[uri.ServiceForwarded] = lock.Forwarded()
	}

	orchestrator := modules.NewOrchestrator(modules.Options{
		Registry: l.registry,
		Dirs:     dirs,
		Progress: progress.New(l.stdout),
		Services: services,
	})
	if err := orchestrator.Run(ctx); err != nil {
		return errors.NewSystemError(err, "Run: jitsi doctor")
	}
	return nil
}

// logSettings merges the configured log settings with the launch flags.
// Flags win.
func logSettings(conf *config.Config, opts launchargs.Options) (slog.Level, logging.Format) {
	level, err := logging.ParseLevel(conf.Log.Level)
	if err != nil {
		level = slog.LevelInfo
	}
	if opts.Debug > 0 {
		level = logging.LevelFromVerbosity(opts.Debug)
	}

	name := conf.Log.Format
	if opts.LogFormat != "" {
		name = opts.LogFormat
	}
	format, err := logging.ParseFormat(name)
	if err != nil {
		format = logging.FormatText
	}
	return level, format
}

// openLogFile opens override when set, otherwise the log file inside the
// resolved log directory.
func openLogFile(dirs paths.Dirs, override string) (*os.File, error) {
	if override == "" {
		return logging.OpenFile(dirs.LogDir())
	}
	f, err := os.OpenFile(override, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, errors.Wrap(err, "opening log file")
	}
	return f, nil
}
