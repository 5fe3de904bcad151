package healthcheck

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thoreinstein/jitsi/internal/framework"
	"github.com/thoreinstein/jitsi/internal/logging"
)

func freePort(t *testing.T) int {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()
	return ln.Addr().(*net.TCPAddr).Port
}

func start(t *testing.T, port any) (*framework.Framework, *Module) {
	t.Helper()
	fw := framework.New(framework.Options{BeginningStartLevel: 1, Logger: logging.ForTest(t)})
	require.NoError(t, fw.Init())
	if port != nil {
		require.NoError(t, fw.Context().RegisterService(ServicePort, port))
	}
	m := &Module{}
	_, err := fw.Install("builtin:healthcheck", func() framework.Activator { return m })
	require.NoError(t, err)
	require.NoError(t, fw.Start(context.Background()))
	t.Cleanup(func() { _ = fw.Stop() })
	return fw, m
}

func TestDisabled(t *testing.T) {
	for name, port := range map[string]any{"missing": nil, "zero": 0, "wrong type": "8080"} {
		t.Run(name, func(t *testing.T) {
			_, m := start(t, port)
			assert.Empty(t, m.Addr())
		})
	}
}

func TestEndpoint(t *testing.T) {
	_, m := start(t, freePort(t))
	require.NotEmpty(t, m.Addr())

	resp, err := http.Get("http://" + m.Addr() + Path)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var rep Report
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&rep))
	assert.Equal(t, "ok", rep.Status)
	require.Len(t, rep.Bundles, 1)
	assert.Equal(t, "builtin:healthcheck", rep.Bundles[0].Origin)
	assert.Equal(t, "active", rep.Bundles[0].State)

	post, err := http.Post("http://"+m.Addr()+Path, "text/plain", nil)
	require.NoError(t, err)
	post.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, post.StatusCode)
}

type idle struct{}

func (idle) Start(*framework.Context) error { return nil }
func (idle) Stop(*framework.Context) error  { return nil }

func TestBuild_Degraded(t *testing.T) {
	fw := framework.New(framework.Options{BeginningStartLevel: 1})
	require.NoError(t, fw.Init())
	b, err := fw.Install("test:later", func() framework.Activator { return idle{} })
	require.NoError(t, err)
	require.NoError(t, b.SetStartLevel(5))
	require.NoError(t, fw.Start(context.Background()))

	rep := Build(fw.Bundles())
	assert.Equal(t, "degraded", rep.Status)
	assert.Equal(t, "installed", rep.Bundles[0].State)
}
