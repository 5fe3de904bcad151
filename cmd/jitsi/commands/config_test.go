package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thoreinstein/jitsi/internal/config"
	"github.com/thoreinstein/jitsi/internal/errors"
)

func useConfigPath(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "jitsi", config.FileName)
	old := configPath
	configPath = func() string { return path }
	t.Cleanup(func() { configPath = old })
	return path
}

func TestConfigSetAndUnset(t *testing.T) {
	t.Chdir(t.TempDir())
	path := useConfigPath(t)

	out, err := executeCommand(t, "config", "set", "log.format", "json")
	require.NoError(t, err)
	assert.Equal(t, "Set log.format = json\n", out)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "format: json")

	_, err = executeCommand(t, "config", "unset", "log.format")
	require.NoError(t, err)
	data, err = os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "format")
}

func TestConfigSet_Invalid(t *testing.T) {
	t.Chdir(t.TempDir())
	path := useConfigPath(t)

	_, err := executeCommand(t, "config", "set", "healthcheck.port", "70000")
	require.Error(t, err)
	assert.Equal(t, errors.ExitUser, errors.ExitCode(err))
	assert.NoFileExists(t, path)
}

func TestConfigEdit_MissingFile(t *testing.T) {
	t.Chdir(t.TempDir())
	useConfigPath(t)

	_, err := executeCommand(t, "config", "edit")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config file not found")
}

func TestRunConfigGet(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)
	viper.Set("log.level", "debug")

	var buf bytes.Buffer
	require.NoError(t, runConfigGet(&buf, "log.level"))
	assert.Equal(t, "debug\n", buf.String())

	buf.Reset()
	require.NoError(t, runConfigGet(&buf, "home_dir_name"))
	assert.Equal(t, "not set\n", buf.String())
}

func TestWriteConfigYAML(t *testing.T) {
	conf := &config.Config{
		HomeDirName: "Jitsi",
		Log:         config.LogConfig{Level: "info", Format: "text"},
		Instance:    config.InstanceConfig{DialTimeout: 5 * time.Second},
	}

	var buf bytes.Buffer
	require.NoError(t, writeConfigYAML(&buf, conf))
	out := buf.String()
	assert.Contains(t, out, "home_dir_name: Jitsi")
	assert.Contains(t, out, "dial_timeout: 5s")
	assert.False(t, strings.Contains(out, "home_dir_location"), "empty pins are omitted")
}
