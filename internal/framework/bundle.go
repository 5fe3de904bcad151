package framework

import (
	"fmt"
	"sync"

	"github.com/thoreinstein/jitsi/internal/errors"
)

// State is a bundle lifecycle state.
type State int

const (
	StateInstalled State = iota
	StateStarting
	StateActive
	StateStopping
	StateResolved
)

func (s State) String() string {
	switch s {
	case StateInstalled:
		return "installed"
	case StateStarting:
		return "starting"
	case StateActive:
		return "active"
	case StateStopping:
		return "stopping"
	case StateResolved:
		return "resolved"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// Activator is implemented by every module.
type Activator interface {
	Start(ctx *Context) error
	Stop(ctx *Context) error
}

// Factory creates a fresh Activator for a bundle.
type Factory func() Activator

// ErrInvalidStartLevel is returned by SetStartLevel for levels below 1.
var ErrInvalidStartLevel = errors.New("start level must be at least 1")

// Bundle is an installed module.
type Bundle struct {
	id      int64
	origin  string
	factory Factory

	mu         sync.Mutex
	startLevel int
	state      State
	activator  Activator
}

// ID returns the install id. IDs start at 1 and increase with each Install.
func (b *Bundle) ID() int64 { return b.id }

// Origin returns the location the bundle was installed from.
func (b *Bundle) Origin() string { return b.origin }

// StartLevel returns the bundle's start level.
func (b *Bundle) StartLevel() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.startLevel
}

// SetStartLevel changes the bundle's start level. It takes effect on the
// next Framework.Start.
func (b *Bundle) SetStartLevel(n int) error {
	if n < 1 {
		return errors.Wrapf(ErrInvalidStartLevel, "bundle %s: %d", b.origin, n)
	}
	b.mu.Lock()
	b.startLevel = n
	b.mu.Unlock()
	return nil
}

// State returns the bundle's current state.
func (b *Bundle) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

func (b *Bundle) setState(s State) {
	b.mu.Lock()
	b.state = s
	b.mu.Unlock()
}

func (b *Bundle) String() string {
	return fmt.Sprintf("%d:%s", b.id, b.origin)
}
