package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/dmitrijs2005/jobkeeper/internal/syncer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	orig := os.Args
	defer func() { os.Args = orig }()
	os.Args = []string{"cmd"}

	cfg := LoadConfig()

	assert.Equal(t, "", cfg.FirestoreProjectID)
	assert.Equal(t, "jobkeeper.db", cfg.DatabasePath)
	assert.Equal(t, syncer.DefaultDebounce, cfg.SyncDebounce)
	assert.Equal(t, syncer.DefaultThrottle, cfg.SyncThrottle)
}

func TestLoadConfig_JsonOverlay(t *testing.T) {
	orig := os.Args
	defer func() { os.Args = orig }()

	path := filepath.Join(t.TempDir(), "cfg.json")
	data := `{
		"firestore_project_id": "my-project",
		"database_path": "/tmp/jobs.db",
		"sync_debounce": "2s",
		"sync_throttle": 60000000000
	}`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o600))

	os.Args = []string{"cmd", "-c", path}
	cfg := LoadConfig()

	assert.Equal(t, "my-project", cfg.FirestoreProjectID)
	assert.Equal(t, "/tmp/jobs.db", cfg.DatabasePath)
	assert.Equal(t, 2*time.Second, cfg.SyncDebounce)
	assert.Equal(t, time.Minute, cfg.SyncThrottle)
}

func TestLoadConfig_FlagsTakePrecedence(t *testing.T) {
	orig := os.Args
	defer func() { os.Args = orig }()

	path := filepath.Join(t.TempDir(), "cfg.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"database_path": "from-json.db"}`), 0o600))

	os.Args = []string{"cmd", "-c", path, "-d", "from-flag.db", "-p", "flag-project"}
	cfg := LoadConfig()

	assert.Equal(t, "from-flag.db", cfg.DatabasePath)
	assert.Equal(t, "flag-project", cfg.FirestoreProjectID)
}
