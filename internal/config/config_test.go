package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/lingua/internal/remote"
)

// isolate points Load at an empty config file and a missing .env so the
// host's files cannot leak into a test.
func isolate(t *testing.T) Options {
	t.Helper()
	return Options{
		ConfigFile: writeFile(t, "config.yaml", "{}\n"),
		EnvFile:    filepath.Join(t.TempDir(), "missing.env"),
	}
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(isolate(t))
	require.NoError(t, err)

	def := DefaultConfig()
	assert.Equal(t, def.SyncInterval, cfg.SyncInterval)
	assert.Equal(t, remote.KindNone, cfg.Remote.Kind)
	assert.Equal(t, def.Remote.Retry, cfg.Remote.Retry)
	assert.Equal(t, def.Remote.Timeout, cfg.Remote.Timeout)
	assert.Empty(t, cfg.DBPath)
}

func TestLoad_Env(t *testing.T) {
	t.Setenv("LINGUA_LANGUAGE", "sr")
	t.Setenv("LINGUA_SYNC_INTERVAL", "90s")
	t.Setenv("LINGUA_REMOTE_KIND", "HTTP")
	t.Setenv("LINGUA_REMOTE_URL", "https://sync.example.com")
	t.Setenv("LINGUA_REMOTE_TOKEN", "secret")
	t.Setenv("LINGUA_REMOTE_RETRY_ATTEMPTS", "5")

	opts := isolate(t)
	opts.ConfigFile = writeFile(t, "config.yaml", "language: de\n")

	cfg, err := Load(opts)
	require.NoError(t, err)

	assert.Equal(t, "sr", cfg.Language, "environment beats config file")
	assert.Equal(t, 90*time.Second, cfg.SyncInterval)
	assert.Equal(t, remote.KindHTTP, cfg.Remote.Kind)
	assert.Equal(t, "https://sync.example.com", cfg.Remote.HTTP.BaseURL)
	assert.Equal(t, "secret", cfg.Remote.HTTP.Token)
	assert.Equal(t, 5, cfg.Remote.Retry.MaxAttempts)
}

func TestLoad_ConfigFile(t *testing.T) {
	opts := isolate(t)
	opts.ConfigFile = writeFile(t, "config.yaml", `
language: de
db: /tmp/lingua-test.db
remote:
  kind: dir
  dir: /tmp/lingua-sync
  timeout: 10s
`)

	cfg, err := Load(opts)
	require.NoError(t, err)
	assert.Equal(t, "de", cfg.Language)
	assert.Equal(t, "/tmp/lingua-test.db", cfg.DBPath)
	assert.Equal(t, remote.KindDir, cfg.Remote.Kind)
	assert.Equal(t, "/tmp/lingua-sync", cfg.Remote.Dir)
	assert.Equal(t, 10*time.Second, cfg.Remote.Timeout)
}

func TestLoad_EnvFile(t *testing.T) {
	const key = "LINGUA_REMOTE_DIR"
	t.Cleanup(func() { os.Unsetenv(key) })

	opts := isolate(t)
	opts.EnvFile = writeFile(t, ".env", "LINGUA_REMOTE_KIND=dir\nLINGUA_REMOTE_DIR=/srv/lingua\n")
	t.Cleanup(func() { os.Unsetenv("LINGUA_REMOTE_KIND") })

	cfg, err := Load(opts)
	require.NoError(t, err)
	assert.Equal(t, remote.KindDir, cfg.Remote.Kind)
	assert.Equal(t, "/srv/lingua", cfg.Remote.Dir)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"http without url", map[string]string{"LINGUA_REMOTE_KIND": "http"}},
		{"unknown kind", map[string]string{"LINGUA_REMOTE_KIND": "ftp"}},
		{"negative interval", map[string]string{"LINGUA_SYNC_INTERVAL": "-1m"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			for k, v := range tc.env {
				t.Setenv(k, v)
			}
			_, err := Load(isolate(t))
			assert.Error(t, err)
		})
	}
}

func TestLoad_MissingConfigFile(t *testing.T) {
	opts := isolate(t)
	opts.ConfigFile = filepath.Join(t.TempDir(), "nope.yaml")
	_, err := Load(opts)
	assert.Error(t, err)
}

func TestDeviceID_Persists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state", "device-id")

	first, err := deviceIDAt(path)
	require.NoError(t, err)
	require.NotEmpty(t, first)

	second, err := deviceIDAt(path)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestDeviceID_KeepsExisting(t *testing.T) {
	path := writeFile(t, "device-id", "  laptop-1 \n")
	id, err := deviceIDAt(path)
	require.NoError(t, err)
	assert.Equal(t, "laptop-1", id)
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	return p
}
