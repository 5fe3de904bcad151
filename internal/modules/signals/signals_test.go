package signals

import (
	"context"
	"os"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thoreinstein/jitsi/internal/framework"
	"github.com/thoreinstein/jitsi/internal/logging"
)

func TestSignalStopsFramework(t *testing.T) {
	var captured chan<- os.Signal
	var registered []os.Signal
	m := &Module{
		notify: func(c chan<- os.Signal, sig ...os.Signal) {
			captured = c
			registered = sig
		},
		reset: func(chan<- os.Signal) {},
	}

	fw := framework.New(framework.Options{BeginningStartLevel: 1, Logger: logging.ForTest(t)})
	require.NoError(t, fw.Init())
	_, err := fw.Install("builtin:signals", func() framework.Activator { return m })
	require.NoError(t, err)
	require.NoError(t, fw.Start(context.Background()))

	assert.Equal(t, []os.Signal{os.Interrupt, syscall.SIGTERM}, registered)
	captured <- syscall.SIGTERM

	ev, err := fw.WaitForStop(2 * time.Second)
	require.NoError(t, err)
	assert.Equal(t, framework.EventFrameworkStopped, ev.Type)
}

func TestStopWithoutSignal(t *testing.T) {
	reset := false
	m := &Module{
		notify: func(chan<- os.Signal, ...os.Signal) {},
		reset:  func(chan<- os.Signal) { reset = true },
	}

	fw := framework.New(framework.Options{BeginningStartLevel: 1})
	require.NoError(t, fw.Init())
	_, err := fw.Install("builtin:signals", func() framework.Activator { return m })
	require.NoError(t, err)
	require.NoError(t, fw.Start(context.Background()))
	require.NoError(t, fw.Stop())

	assert.True(t, reset)
}
