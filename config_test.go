package simdash

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/jd3nn1s/simdash/shm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fullConfig = `
PollIntervalMs = 20
SharedMemoryPath = "/tmp/r3e"

[UDP]
Server = "127.0.0.1"
Port = 5000

[WebSocket]
Address = "0.0.0.0:8070"
Path = "/r3e"
`

func TestLoadConfigFromReader(t *testing.T) {
	config, err := LoadConfigFromReader(strings.NewReader(fullConfig))
	require.NoError(t, err)
	assert.Equal(t, 20*time.Millisecond, config.PollInterval())
	assert.Equal(t, "/tmp/r3e", config.SharedMemoryPath)
	require.NotNil(t, config.UDP)
	assert.Equal(t, "127.0.0.1", config.UDP.Server)
	assert.Equal(t, 5000, config.UDP.Port)
	require.NotNil(t, config.WebSocket)
	assert.Equal(t, "0.0.0.0:8070", config.WebSocket.Address)
	assert.Equal(t, "/r3e", config.WebSocket.Path)
}

func TestConfigDefaults(t *testing.T) {
	config, err := LoadConfigFromReader(strings.NewReader(""))
	require.NoError(t, err)
	assert.Equal(t, defaultPollInterval, config.PollInterval())
	assert.Equal(t, shm.DefaultPath, config.SharedMemoryPath)
	assert.Nil(t, config.UDP)
	assert.Nil(t, config.WebSocket)
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "simdash.toml")
	require.NoError(t, os.WriteFile(path, []byte(fullConfig), 0o644))
	config, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/r3e", config.SharedMemoryPath)

	_, err = LoadConfig(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)
}

func TestLoadConfigInvalid(t *testing.T) {
	_, err := LoadConfigFromReader(strings.NewReader("PollIntervalMs = \"fast\""))
	assert.Error(t, err)
}
