package modules

import (
	"bytes"
	"context"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/thoreinstein/jitsi/internal/errors"
	"github.com/thoreinstein/jitsi/internal/framework"
	"github.com/thoreinstein/jitsi/internal/logging"
)

type mockReporter struct {
	mock.Mock
}

func (m *mockReporter) Begin(total int, ctx *framework.Context) {
	m.Called(total, ctx)
}

type trace struct {
	mu    sync.Mutex
	calls []string
}

func (tr *trace) add(s string) {
	tr.mu.Lock()
	tr.calls = append(tr.calls, s)
	tr.mu.Unlock()
}

func (tr *trace) list() []string {
	tr.mu.Lock()
	defer tr.mu.Unlock()
	return append([]string(nil), tr.calls...)
}

type traced struct {
	name string
	tr   *trace
	stop bool
}

func (a *traced) Start(ctx *framework.Context) error {
	a.tr.add("start " + a.name)
	if a.stop {
		ctx.Stop()
	}
	return nil
}

func (a *traced) Stop(*framework.Context) error {
	a.tr.add("stop " + a.name)
	return nil
}

func descriptor(name string, tr *trace, stop bool) Descriptor {
	return Descriptor{
		Name:   name,
		Origin: "test:" + name,
		New:    func() framework.Activator { return &traced{name: name, tr: tr, stop: stop} },
	}
}

func TestRun_InstallsConcreteAndStartsOnce(t *testing.T) {
	tr := &trace{}
	abstract := descriptor("B", tr, false)
	abstract.Abstract = true
	reg := NewRegistry(descriptor("A", tr, false), abstract, descriptor("C", tr, true))

	rep := &mockReporter{}
	rep.On("Begin", 2, mock.Anything).Run(func(args mock.Arguments) {
		fctx := args.Get(1).(*framework.Context)
		bundles := fctx.Bundles()
		require.Len(t, bundles, 2)
		for _, b := range bundles {
			assert.Equal(t, framework.StateInstalled, b.State(), "nothing starts before every module is installed")
			assert.Equal(t, BundleStartLevel, b.StartLevel())
		}
		assert.Equal(t, "test:A", bundles[0].Origin())
		assert.Equal(t, "test:C", bundles[1].Origin())
		tr.add("begin")
	}).Once()

	o := NewOrchestrator(Options{Registry: reg, Logger: logging.ForTest(t), Progress: rep})
	require.NoError(t, o.Run(context.Background()))

	rep.AssertExpectations(t)
	assert.Equal(t, []string{"begin", "start A", "start C", "stop C", "stop A"}, tr.list())
}

func TestRun_InstallErrorAborts(t *testing.T) {
	tr := &trace{}
	reg := NewRegistry(descriptor("A", tr, false), descriptor("A", tr, false))
	rep := &mockReporter{}

	err := NewOrchestrator(Options{Registry: reg, Progress: rep}).Run(context.Background())

	require.Error(t, err)
	assert.True(t, errors.Is(err, framework.ErrDuplicateOrigin))
	rep.AssertNotCalled(t, "Begin", mock.Anything, mock.Anything)
	assert.Empty(t, tr.list(), "no module starts after a failed install")
}

func TestRun_ContextCancelStops(t *testing.T) {
	tr := &trace{}
	reg := NewRegistry(descriptor("A", tr, false))
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- NewOrchestrator(Options{Registry: reg}).Run(ctx) }()

	assert.Eventually(t, func() bool { return len(tr.list()) == 1 }, 2*time.Second, 10*time.Millisecond)
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
	assert.Equal(t, []string{"start A", "stop A"}, tr.list())
}

func TestRun_RegistersServices(t *testing.T) {
	var got any
	reg := NewRegistry(Descriptor{
		Name:   "services",
		Origin: "test:services",
		New: func() framework.Activator {
			return hook{fn: func(ctx *framework.Context) {
				got, _ = ctx.Service("launch.uris")
				ctx.Stop()
			}}
		},
	})

	err := NewOrchestrator(Options{
		Registry: reg,
		Services: map[string]any{"launch.uris": []string{"sip:x"}},
	}).Run(context.Background())

	require.NoError(t, err)
	assert.Equal(t, []string{"sip:x"}, got)
}

type hook struct{ fn func(*framework.Context) }

func (h hook) Start(ctx *framework.Context) error {
	h.fn(ctx)
	return nil
}

func (hook) Stop(*framework.Context) error { return nil }

func TestRun_LoggerFromContext(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.New(logging.Config{Level: slog.LevelDebug, Format: logging.FormatJSON, Output: &buf})
	ctx := logging.NewContext(context.Background(), logger)

	tr := &trace{}
	reg := NewRegistry(descriptor("A", tr, true))
	require.NoError(t, NewOrchestrator(Options{Registry: reg}).Run(ctx))

	assert.Contains(t, buf.String(), `"msg":"module installed"`)
	assert.Contains(t, buf.String(), `"module":"A"`)
}
