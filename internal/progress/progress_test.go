package progress

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thoreinstein/jitsi/internal/errors"
	"github.com/thoreinstein/jitsi/internal/framework"
)

type activator struct{ err error }

func (a activator) Start(*framework.Context) error { return a.err }
func (a activator) Stop(*framework.Context) error  { return nil }

func TestReporter(t *testing.T) {
	var out bytes.Buffer
	f := framework.New(framework.Options{BeginningStartLevel: 1})
	require.NoError(t, f.Init())

	_, err := f.Install("builtin:a", func() framework.Activator { return activator{} })
	require.NoError(t, err)
	_, err = f.Install("builtin:b", func() framework.Activator { return activator{err: errors.New("no disk")} })
	require.NoError(t, err)

	r := New(&out)
	r.Begin(len(f.Bundles()), f.Context())
	require.NoError(t, f.Start(context.Background()))

	assert.Equal(t, "[1/2] started builtin:a\n[2/2] failed builtin:b: no disk\nall modules started\n", out.String())
	assert.Equal(t, 2, r.Count())
}
