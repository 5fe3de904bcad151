package framework

import (
	"log/slog"
	"sync"

	"github.com/thoreinstein/jitsi/internal/errors"
	"github.com/thoreinstein/jitsi/internal/paths"
)

// ErrDuplicateService is returned when a service name is registered twice.
var ErrDuplicateService = errors.New("service already registered")

// Context is the framework's face towards modules.
type Context struct {
	fw *Framework

	mu        sync.RWMutex
	services  map[string]any
	listeners []Listener
}

func newContext(fw *Framework) *Context {
	return &Context{fw: fw, services: make(map[string]any)}
}

// Dirs returns the resolved home directories.
func (c *Context) Dirs() paths.Dirs { return c.fw.dirs }

// Logger returns the framework logger.
func (c *Context) Logger() *slog.Logger { return c.fw.logger }

// Bundles returns the installed bundles in install order.
func (c *Context) Bundles() []*Bundle { return c.fw.Bundles() }

// RegisterService publishes svc under name.
func (c *Context) RegisterService(name string, svc any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.services[name]; ok {
		return errors.Wrapf(ErrDuplicateService, "%q", name)
	}
	c.services[name] = svc
	return nil
}

// Service looks up a service by name.
func (c *Context) Service(name string) (any, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	svc, ok := c.services[name]
	return svc, ok
}

// AddListener subscribes l to framework events.
func (c *Context) AddListener(l Listener) {
	c.mu.Lock()
	c.listeners = append(c.listeners, l)
	c.mu.Unlock()
}

func (c *Context) publish(ev Event) {
	c.mu.RLock()
	ls := make([]Listener, len(c.listeners))
	copy(ls, c.listeners)
	c.mu.RUnlock()
	for _, l := range ls {
		l(ev)
	}
}

// Stop asks the framework to shut down. It returns immediately, so a module
// may call it from its own Start.
func (c *Context) Stop() {
	go func() {
		if err := c.fw.Stop(); err != nil {
			c.fw.logger.Warn("framework stop failed", "error", err)
		}
	}()
}

// Done is closed once the framework has stopped.
func (c *Context) Done() <-chan struct{} { return c.fw.done }
