// Package uri hands launch URIs to whichever module claims their scheme.
// URIs come from the command line of this launch and from later launches
// forwarded by the instance lock.
package uri

import (
	"log/slog"
	"net/url"
	"strings"
	"sync"

	"github.com/thoreinstein/jitsi/internal/errors"
	"github.com/thoreinstein/jitsi/internal/framework"
	"github.com/thoreinstein/jitsi/internal/launchargs"
	"github.com/thoreinstein/jitsi/internal/logging"
)

// Service names read and published by the module.
const (
	// ServiceLaunchURIs holds the []string of URIs given to this launch.
	ServiceLaunchURIs = "launch.uris"
	// ServiceForwarded holds the <-chan []string of forwarded argument vectors.
	ServiceForwarded = "instance.forwarded"
	// ServiceName is the *Dispatcher.
	ServiceName = "uri.dispatcher"
)

// ErrInvalidURI is returned for arguments without a scheme.
var ErrInvalidURI = errors.New("invalid launch uri")

// HandlerFunc handles one URI.
type HandlerFunc func(u *url.URL) error

// Dispatcher routes URIs by scheme.
type Dispatcher struct {
	logger *slog.Logger

	mu       sync.RWMutex
	handlers map[string]HandlerFunc
}

// NewDispatcher creates a Dispatcher. URIs without a handler are logged.
func NewDispatcher(logger *slog.Logger) *Dispatcher {
	return &Dispatcher{logger: logger, handlers: make(map[string]HandlerFunc)}
}

// Handle registers h for scheme, replacing any earlier handler.
func (d *Dispatcher) Handle(scheme string, h HandlerFunc) {
	d.mu.Lock()
	d.handlers[strings.ToLower(scheme)] = h
	d.mu.Unlock()
}

// Dispatch parses raw and passes it to the handler for its scheme.
func (d *Dispatcher) Dispatch(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return errors.Wrapf(ErrInvalidURI, "%q: %v", raw, err)
	}
	if u.Scheme == "" {
		return errors.Wrapf(ErrInvalidURI, "%q has no scheme", raw)
	}

	d.mu.RLock()
	h, ok := d.handlers[strings.ToLower(u.Scheme)]
	d.mu.RUnlock()
	if !ok {
		d.logger.Info("no handler for launch uri", "scheme", u.Scheme, "uri", raw)
		return nil
	}
	return h(u)
}

// DispatchAll dispatches each URI, logging failures.
func (d *Dispatcher) DispatchAll(uris []string) {
	for _, raw := range uris {
		if err := d.Dispatch(raw); err != nil {
			d.logger.Warn("launch uri not handled", "uri", raw, "error", err)
		}
	}
}

// Module consumes launch URIs.
type Module struct {
	d    *Dispatcher
	done chan struct{}
	wg   sync.WaitGroup
}

// New returns the uri activator.
func New() framework.Activator {
	return &Module{}
}

// Start publishes the dispatcher. URIs from this launch are dispatched once
// every module has started; forwarded ones as they arrive.
func (m *Module) Start(ctx *framework.Context) error {
	m.d = NewDispatcher(ctx.Logger().With(logging.ComponentKey, "uri"))
	m.done = make(chan struct{})
	if err := ctx.RegisterService(ServiceName, m.d); err != nil {
		return err
	}

	if svc, ok := ctx.Service(ServiceLaunchURIs); ok {
		if initial, ok := svc.([]string); ok && len(initial) > 0 {
			var once sync.Once
			ctx.AddListener(func(ev framework.Event) {
				if ev.Type == framework.EventFrameworkStarted {
					once.Do(func() { m.d.DispatchAll(initial) })
				}
			})
		}
	}

	if svc, ok := ctx.Service(ServiceForwarded); ok {
		if ch, ok := svc.(<-chan []string); ok {
			m.wg.Add(1)
			go m.consume(ch)
		}
	}
	return nil
}

func (m *Module) consume(ch <-chan []string) {
	defer m.wg.Done()
	for {
		select {
		case args, ok := <-ch:
			if !ok {
				return
			}
			opts, err := launchargs.Parse(args)
			if err != nil {
				m.d.logger.Warn("ignoring forwarded arguments", "error", err)
				continue
			}
			m.d.logger.Debug("forwarded launch", "uris", len(opts.URIs))
			m.d.DispatchAll(opts.URIs)
		case <-m.done:
			return
		}
	}
}

// Stop ends forwarded URI handling.
func (m *Module) Stop(*framework.Context) error {
	if m.done != nil {
		close(m.done)
		m.wg.Wait()
	}
	return nil
}
