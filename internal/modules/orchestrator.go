package modules

import (
	"context"
	"log/slog"

	"github.com/thoreinstein/jitsi/internal/errors"
	"github.com/thoreinstein/jitsi/internal/framework"
	"github.com/thoreinstein/jitsi/internal/logging"
	"github.com/thoreinstein/jitsi/internal/paths"
)

// Start levels used for the boot.
const (
	BeginningStartLevel = 3
	BundleStartLevel    = 2
)

// Reporter is told how many bundles were installed before the framework
// starts.
type Reporter interface {
	Begin(total int, ctx *framework.Context)
}

// Options configures an Orchestrator.
type Options struct {
	Registry *Registry
	Dirs     paths.Dirs
	Logger   *slog.Logger
	Progress Reporter
	// Services are registered on the framework context before any module
	// is installed.
	Services map[string]any
}

// Orchestrator boots the module framework.
type Orchestrator struct {
	opts Options
}

// NewOrchestrator creates an Orchestrator. A nil registry means the
// built-in modules. A nil logger means the one carried by the Run context.
func NewOrchestrator(opts Options) *Orchestrator {
	if opts.Registry == nil {
		opts.Registry = DefaultRegistry()
	}
	return &Orchestrator{opts: opts}
}

// Run installs every concrete module, starts the framework and blocks until
// it stops. Cancelling ctx stops the framework.
func (o *Orchestrator) Run(ctx context.Context) error {
	logger := o.opts.Logger
	if logger == nil {
		logger = logging.FromContext(ctx)
	}
	fw := framework.New(framework.Options{
		BeginningStartLevel: BeginningStartLevel,
		Dirs:                o.opts.Dirs,
		Logger:              logger,
	})
	if err := fw.Init(); err != nil {
		return errors.Wrap(err, "initializing framework")
	}
	fctx := fw.Context()

	for name, svc := range o.opts.Services {
		if err := fctx.RegisterService(name, svc); err != nil {
			return err
		}
	}

	for _, d := range o.opts.Registry.Concrete() {
		b, err := fw.Install(d.Origin, d.New)
		if err != nil {
			return errors.Wrapf(err, "installing module %s", d.Name)
		}
		if err := b.SetStartLevel(BundleStartLevel); err != nil {
			return err
		}
		logger.Debug("module installed", "module", d.Name, "bundle", b.ID())
	}

	if o.opts.Progress != nil {
		o.opts.Progress.Begin(len(fctx.Bundles()), fctx)
	}

	go func() {
		select {
		case <-ctx.Done():
			logger.Debug("launch context done, stopping framework")
			if err := fw.Stop(); err != nil {
				logger.Warn("framework stop failed", "error", err)
			}
		case <-fctx.Done():
		}
	}()

	if err := fw.Start(ctx); err != nil {
		_ = fw.Stop()
		return errors.Wrap(err, "starting framework")
	}

	ev, err := fw.WaitForStop(0)
	if err != nil {
		return err
	}
	if ev.Err != nil {
		return errors.Wrap(ev.Err, "stopping modules")
	}
	return nil
}
