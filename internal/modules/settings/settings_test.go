package settings

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thoreinstein/jitsi/internal/framework"
	"github.com/thoreinstein/jitsi/internal/logging"
	"github.com/thoreinstein/jitsi/internal/paths"
)

func TestStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", FileName)

	s, err := Open(path)
	require.NoError(t, err)
	assert.Empty(t, s.Keys())

	s.Set("net.java.sip.communicator.impl.gui.main.configforms.SHOW", "true")
	s.Set("a", "1")
	require.NoError(t, s.Save())

	reopened, err := Open(path)
	require.NoError(t, err)
	v, ok := reopened.Get("a")
	assert.True(t, ok)
	assert.Equal(t, "1", v)
	assert.Equal(t, []string{"a", "net.java.sip.communicator.impl.gui.main.configforms.SHOW"}, reopened.Keys())

	reopened.Delete("a")
	_, ok = reopened.Get("a")
	assert.False(t, ok)
}

func TestStore_SaveSkipsCleanDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	s, err := Open(path)
	require.NoError(t, err)

	require.NoError(t, s.Save())
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err), "nothing changed, nothing written")
}

func TestOpen_Malformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, os.WriteFile(path, []byte("launches = = 3\n"), 0o600))

	_, err := Open(path)
	assert.Error(t, err)
}

func TestModule(t *testing.T) {
	dirs := paths.Dirs{ProfileLocation: t.TempDir(), CacheLocation: t.TempDir(), LogLocation: t.TempDir(), Name: "Jitsi"}
	fw := framework.New(framework.Options{BeginningStartLevel: 1, Dirs: dirs, Logger: logging.ForTest(t)})
	require.NoError(t, fw.Init())

	at := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	_, err := fw.Install("builtin:settings", func() framework.Activator {
		return &Module{now: func() time.Time { return at }}
	})
	require.NoError(t, err)
	require.NoError(t, fw.Start(context.Background()))

	svc, ok := fw.Context().Service(ServiceName)
	require.True(t, ok)
	store := svc.(*Store)
	store.Set("theme", "dark")
	require.NoError(t, fw.Stop())

	onDisk, err := Open(filepath.Join(dirs.Home(), FileName))
	require.NoError(t, err)
	snap := onDisk.Snapshot()
	assert.Equal(t, 1, snap.Launches)
	assert.True(t, at.Equal(snap.LastLaunch))
	assert.Equal(t, "dark", snap.Properties["theme"])
}
