package draft

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// MediaRef points at an uploaded asset attached to the working copy.
type MediaRef struct {
	AssetID   int64  `json:"asset_id"`
	MediaType string `json:"media_type"`
}

// Snapshot is the autosave payload for one composer session. It is
// superseded wholesale on every save; there is no merging.
type Snapshot struct {
	Title         string     `json:"title"`
	Content       string     `json:"content"`
	Comment       string     `json:"comment"`
	Media         []MediaRef `json:"media"`
	Hashtags      []string   `json:"hashtags"`
	ScheduledDate *time.Time `json:"scheduled_date"`
	Timezone      string     `json:"timezone"`
	LastSaved     time.Time  `json:"last_saved"`
}

// HasContent reports whether the snapshot is worth keeping: a non-empty
// body after trimming whitespace, or at least one attached asset.
func (s Snapshot) HasContent() bool {
	return strings.TrimSpace(s.Content) != "" || len(s.Media) > 0
}

type Store interface {
	// Load returns the most recently saved snapshot. Missing or corrupt
	// data is treated as absent: the zero snapshot comes back, never an
	// error.
	Load() Snapshot
	Save(s Snapshot) error
	Clear() error
}

// fileStore keeps one JSON-encoded snapshot at a fixed path.
type fileStore struct {
	path string
}

func NewFileStore(path string) Store {
	return &fileStore{path: path}
}

func (f *fileStore) Load() Snapshot {
	var s Snapshot
	data, err := os.ReadFile(f.path)
	if err != nil {
		return Snapshot{}
	}
	if err := json.Unmarshal(data, &s); err != nil {
		return Snapshot{}
	}
	return s
}

func (f *fileStore) Save(s Snapshot) error {
	data, err := json.Marshal(s)
	if err != nil {
		return err
	}

	// Write-then-rename so a crash mid-save never leaves a torn snapshot.
	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, f.path)
}

func (f *fileStore) Clear() error {
	err := os.Remove(f.path)
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// SnapshotPath returns the well-known location of a composer session's
// snapshot inside dir.
func SnapshotPath(dir, key string) string {
	return filepath.Join(dir, "composer_draft_"+key+".json")
}
