package framework

import (
	"context"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/thoreinstein/jitsi/internal/errors"
	"github.com/thoreinstein/jitsi/internal/logging"
	"github.com/thoreinstein/jitsi/internal/paths"
)

// Sentinel errors for framework operations.
var (
	ErrNotInitialized  = errors.New("framework not initialized")
	ErrDuplicateOrigin = errors.New("bundle origin already installed")
	ErrStopTimeout     = errors.New("timed out waiting for framework stop")
)

// DefaultBundleStartLevel is the start level of a freshly installed bundle.
const DefaultBundleStartLevel = 1

// Options configures a Framework.
type Options struct {
	// BeginningStartLevel is the active start level Start raises to.
	// Values below 1 mean 1.
	BeginningStartLevel int
	Dirs                paths.Dirs
	Logger              *slog.Logger
}

// Framework owns the installed bundles and their lifecycle.
type Framework struct {
	beginning int
	dirs      paths.Dirs
	logger    *slog.Logger

	// lifecycle serializes Start and Stop.
	lifecycle sync.Mutex

	mu        sync.Mutex
	ctx       *Context
	bundles   []*Bundle
	byOrigin  map[string]*Bundle
	nextID    int64
	active    int
	started   []*Bundle
	stopped   bool
	stopEvent Event
	done      chan struct{}
}

// New creates a framework. Call Init before installing bundles.
func New(opts Options) *Framework {
	if opts.BeginningStartLevel < 1 {
		opts.BeginningStartLevel = 1
	}
	if opts.Logger == nil {
		opts.Logger = logging.NewDiscard()
	}
	return &Framework{
		beginning: opts.BeginningStartLevel,
		dirs:      opts.Dirs,
		logger:    opts.Logger.With(logging.ComponentKey, "framework"),
		byOrigin:  make(map[string]*Bundle),
		nextID:    1,
		done:      make(chan struct{}),
	}
}

// Init prepares the framework context. Calling it again is a no-op.
func (f *Framework) Init() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.ctx == nil {
		f.ctx = newContext(f)
		f.logger.Debug("framework initialized", "beginning_start_level", f.beginning)
	}
	return nil
}

// Context returns the framework context, or nil before Init.
func (f *Framework) Context() *Context {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.ctx
}

// Install adds a bundle in the Installed state.
func (f *Framework) Install(origin string, factory Factory) (*Bundle, error) {
	f.mu.Lock()
	if f.ctx == nil {
		f.mu.Unlock()
		return nil, ErrNotInitialized
	}
	if factory == nil {
		f.mu.Unlock()
		return nil, errors.Newf("bundle %s has no factory", origin)
	}
	if _, ok := f.byOrigin[origin]; ok {
		f.mu.Unlock()
		return nil, errors.Wrapf(ErrDuplicateOrigin, "%s", origin)
	}
	b := &Bundle{
		id:         f.nextID,
		origin:     origin,
		factory:    factory,
		startLevel: DefaultBundleStartLevel,
		state:      StateInstalled,
	}
	f.nextID++
	f.bundles = append(f.bundles, b)
	f.byOrigin[origin] = b
	ctx := f.ctx
	f.mu.Unlock()

	f.logger.Log(context.Background(), logging.LevelTrace, "bundle installed", "bundle", b.String())
	ctx.publish(Event{Type: EventBundleInstalled, Bundle: b})
	return b, nil
}

// Bundles returns the installed bundles in install order.
func (f *Framework) Bundles() []*Bundle {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]*Bundle, len(f.bundles))
	copy(out, f.bundles)
	return out
}

// StartLevel returns the active start level; 0 until Start.
func (f *Framework) StartLevel() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.active
}

// Start raises the active start level and starts eligible bundles. A
// failing activator does not stop the others. Cancelling ctx between
// bundles aborts with ctx's error.
func (f *Framework) Start(ctx context.Context) error {
	f.lifecycle.Lock()
	defer f.lifecycle.Unlock()

	f.mu.Lock()
	if f.ctx == nil {
		f.mu.Unlock()
		return ErrNotInitialized
	}
	if f.stopped {
		f.mu.Unlock()
		return errors.New("framework already stopped")
	}
	f.active = f.beginning
	fctx := f.ctx
	pending := make([]*Bundle, 0, len(f.bundles))
	for _, b := range f.bundles {
		if b.State() == StateInstalled && b.StartLevel() <= f.active {
			pending = append(pending, b)
		}
	}
	f.mu.Unlock()

	sort.SliceStable(pending, func(i, j int) bool {
		return pending[i].StartLevel() < pending[j].StartLevel()
	})

	for _, b := range pending {
		if err := ctx.Err(); err != nil {
			return err
		}
		f.startBundle(fctx, b)
	}

	f.logger.Debug("framework started", "start_level", f.beginning, "bundles", len(pending))
	fctx.publish(Event{Type: EventFrameworkStarted})
	return nil
}

func (f *Framework) startBundle(fctx *Context, b *Bundle) {
	b.setState(StateStarting)
	act := b.factory()

	err := act.Start(fctx)
	if err != nil {
		b.setState(StateResolved)
		f.logger.Error("bundle failed to start", "bundle", b.String(), "error", err)
		fctx.publish(Event{Type: EventBundleFailed, Bundle: b, Err: err})
		return
	}

	b.mu.Lock()
	b.activator = act
	b.state = StateActive
	b.mu.Unlock()

	f.mu.Lock()
	f.started = append(f.started, b)
	f.mu.Unlock()

	f.logger.Log(context.Background(), logging.LevelTrace, "bundle started", "bundle", b.String())
	fctx.publish(Event{Type: EventBundleStarted, Bundle: b})
}

// Stop stops active bundles in reverse start order and releases
// WaitForStop. Later calls return nil without doing anything.
func (f *Framework) Stop() error {
	f.lifecycle.Lock()
	defer f.lifecycle.Unlock()

	f.mu.Lock()
	if f.stopped {
		f.mu.Unlock()
		return nil
	}
	f.stopped = true
	fctx := f.ctx
	started := f.started
	f.started = nil
	f.mu.Unlock()

	var firstErr error
	for i := len(started) - 1; i >= 0; i-- {
		b := started[i]
		b.setState(StateStopping)
		b.mu.Lock()
		act := b.activator
		b.activator = nil
		b.mu.Unlock()

		err := act.Stop(fctx)
		b.setState(StateResolved)
		if err != nil {
			f.logger.Warn("bundle failed to stop", "bundle", b.String(), "error", err)
			if firstErr == nil {
				firstErr = errors.Wrapf(err, "stopping %s", b.origin)
			}
		}
		fctx.publish(Event{Type: EventBundleStopped, Bundle: b, Err: err})
	}

	ev := Event{Type: EventFrameworkStopped, Err: firstErr}
	f.mu.Lock()
	f.stopEvent = ev
	f.active = 0
	f.mu.Unlock()

	if fctx != nil {
		fctx.publish(ev)
	}
	close(f.done)
	f.logger.Debug("framework stopped")
	return firstErr
}

// WaitForStop blocks until the framework has stopped and returns the stop
// event. A zero timeout waits indefinitely.
func (f *Framework) WaitForStop(timeout time.Duration) (Event, error) {
	if timeout <= 0 {
		<-f.done
	} else {
		t := time.NewTimer(timeout)
		defer t.Stop()
		select {
		case <-f.done:
		case <-t.C:
			return Event{}, ErrStopTimeout
		}
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.stopEvent, nil
}
