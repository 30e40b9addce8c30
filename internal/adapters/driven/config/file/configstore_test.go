package file

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campusquery/campusquery-cli/internal/core/ports/driven"
)

func TestNewConfigStore_Success(t *testing.T) {
	tmpDir := t.TempDir()

	store, err := NewConfigStore(tmpDir)

	require.NoError(t, err)
	require.NotNil(t, store)
	assert.Equal(t, filepath.Join(tmpDir, "config.toml"), store.Path())
}

func TestConfigStore_SetAndGet(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Set(driven.ConfigKeyBackendURL, "http://localhost:8000"))

	val, ok := store.Get(driven.ConfigKeyBackendURL)
	assert.True(t, ok)
	assert.Equal(t, "http://localhost:8000", val)
}

func TestConfigStore_TypedGetters(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Set(driven.ConfigKeyBackendURL, "http://localhost:8000"))
	require.NoError(t, store.Set(driven.ConfigKeyBackendTimeout, 60))
	require.NoError(t, store.Set("debug", true))

	assert.Equal(t, "http://localhost:8000", store.GetString(driven.ConfigKeyBackendURL))
	assert.Equal(t, 60, store.GetInt(driven.ConfigKeyBackendTimeout))
	assert.True(t, store.GetBool("debug"))

	// Missing keys return zero values.
	assert.Equal(t, "", store.GetString("nonexistent"))
	assert.Equal(t, 0, store.GetInt("nonexistent"))
	assert.False(t, store.GetBool("nonexistent"))

	// Type mismatches return zero values.
	assert.Equal(t, "", store.GetString(driven.ConfigKeyBackendTimeout))
	assert.Equal(t, 0, store.GetInt(driven.ConfigKeyBackendURL))
	assert.False(t, store.GetBool(driven.ConfigKeyBackendURL))
}

func TestConfigStore_Persistence(t *testing.T) {
	tmpDir := t.TempDir()

	store1, err := NewConfigStore(tmpDir)
	require.NoError(t, err)
	require.NoError(t, store1.Set(driven.ConfigKeyBackendURL, "http://backend:9000"))
	require.NoError(t, store1.Set(driven.ConfigKeyBackendTimeout, 30))

	// A fresh instance loads values from disk.
	store2, err := NewConfigStore(tmpDir)
	require.NoError(t, err)
	assert.Equal(t, "http://backend:9000", store2.GetString(driven.ConfigKeyBackendURL))
	assert.Equal(t, 30, store2.GetInt(driven.ConfigKeyBackendTimeout))
}

func TestConfigStore_NestedKeysFlattened(t *testing.T) {
	tmpDir := t.TempDir()

	content := []byte("[backend]\nurl = \"http://backend:9000\"\ntimeout_seconds = 45\n\n[session]\nname = \"campus\"\n")
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "config.toml"), content, 0600))

	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	assert.Equal(t, "http://backend:9000", store.GetString(driven.ConfigKeyBackendURL))
	assert.Equal(t, 45, store.GetInt(driven.ConfigKeyBackendTimeout))
	assert.Equal(t, "campus", store.GetString(driven.ConfigKeySessionName))
}

func TestConfigStore_LoadCorruptedFile(t *testing.T) {
	tmpDir := t.TempDir()

	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "config.toml"), []byte("not toml {{{[["), 0600))

	store, err := NewConfigStore(tmpDir)
	assert.Error(t, err)
	assert.Nil(t, store)
}

func TestConfigStore_LoadNonExistent(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	val, ok := store.Get("any_key")
	assert.False(t, ok)
	assert.Nil(t, val)
}

func TestConfigStore_FilePermissions(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Set("test", "value"))

	info, err := os.Stat(store.Path())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestConfigStore_Watch_ReloadsOnChange(t *testing.T) {
	tmpDir := t.TempDir()
	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	reloaded := make(chan struct{}, 1)
	require.NoError(t, store.Watch(func() {
		select {
		case reloaded <- struct{}{}:
		default:
		}
	}))
	defer store.StopWatch()

	content := []byte("[backend]\nurl = \"http://changed:9000\"\n")
	require.NoError(t, os.WriteFile(store.Path(), content, 0600))

	select {
	case <-reloaded:
	case <-time.After(5 * time.Second):
		t.Fatal("config reload was not observed")
	}

	assert.Equal(t, "http://changed:9000", store.GetString(driven.ConfigKeyBackendURL))
}

func TestConfigStore_StopWatch_Idempotent(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Watch(nil))
	store.StopWatch()
	store.StopWatch()
}
