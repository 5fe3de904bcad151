// Package signals stops the framework on SIGINT or SIGTERM.
package signals

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/thoreinstein/jitsi/internal/framework"
	"github.com/thoreinstein/jitsi/internal/logging"
)

// Module relays termination signals to Context.Stop.
type Module struct {
	notify func(c chan<- os.Signal, sig ...os.Signal)
	reset  func(c chan<- os.Signal)

	ch   chan os.Signal
	done chan struct{}
}

// New returns the signals activator.
func New() framework.Activator {
	return &Module{notify: signal.Notify, reset: signal.Stop}
}

func (m *Module) Start(ctx *framework.Context) error {
	m.ch = make(chan os.Signal, 1)
	m.done = make(chan struct{})
	m.notify(m.ch, os.Interrupt, syscall.SIGTERM)

	logger := ctx.Logger().With(logging.ComponentKey, "signals")
	go func() {
		select {
		case sig := <-m.ch:
			logger.Info("shutting down", "signal", sig.String())
			ctx.Stop()
		case <-m.done:
		}
	}()
	return nil
}

func (m *Module) Stop(*framework.Context) error {
	m.reset(m.ch)
	close(m.done)
	return nil
}
