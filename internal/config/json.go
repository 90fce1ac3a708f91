package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/jobkeeper/internal/flagx"
	"github.com/dmitrijs2005/jobkeeper/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. It relies on
// timex.Duration so JSON can specify intervals either as strings like "30s"
// or as integer nanoseconds.
type JsonConfig struct {
	FirestoreProjectID string         `json:"firestore_project_id"`
	DatabasePath       string         `json:"database_path"`
	SyncDebounce       timex.Duration `json:"sync_debounce"`
	SyncThrottle       timex.Duration `json:"sync_throttle"`
}

// parseJson overlays Config with values loaded from a JSON file. The file
// path comes from the -c/-config flags; if absent, nothing is loaded.
// Read or unmarshal errors panic (caller may recover if desired).
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.FirestoreProjectID != "" {
		cfg.FirestoreProjectID = jc.FirestoreProjectID
	}
	if jc.DatabasePath != "" {
		cfg.DatabasePath = jc.DatabasePath
	}
	if jc.SyncDebounce.Duration > 0 {
		cfg.SyncDebounce = jc.SyncDebounce.Duration
	}
	if jc.SyncThrottle.Duration > 0 {
		cfg.SyncThrottle = jc.SyncThrottle.Duration
	}
}
