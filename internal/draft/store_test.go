package draft

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testStore(t *testing.T) Store {
	t.Helper()
	return NewFileStore(SnapshotPath(t.TempDir(), "42"))
}

func TestFileStoreRoundTrip(t *testing.T) {
	store := testStore(t)

	at := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	saved := Snapshot{
		Title:         "Launch week",
		Content:       "We shipped it #launch",
		Comment:       "Links in the docs",
		Media:         []MediaRef{{AssetID: 7, MediaType: "image"}},
		Hashtags:      []string{"#launch"},
		ScheduledDate: &at,
		Timezone:      "America/New_York",
		LastSaved:     time.Date(2026, 3, 9, 12, 30, 0, 0, time.UTC),
	}

	require.NoError(t, store.Save(saved))
	assert.Equal(t, saved, store.Load())
}

func TestFileStoreLoadMissing(t *testing.T) {
	store := testStore(t)
	assert.Equal(t, Snapshot{}, store.Load())
}

func TestFileStoreLoadCorrupt(t *testing.T) {
	path := SnapshotPath(t.TempDir(), "42")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	store := NewFileStore(path)
	assert.Equal(t, Snapshot{}, store.Load(), "corrupt data is treated as absent")
}

func TestFileStoreClear(t *testing.T) {
	store := testStore(t)
	require.NoError(t, store.Save(Snapshot{Content: "keep me"}))
	require.NoError(t, store.Clear())
	assert.Equal(t, Snapshot{}, store.Load())
}

func TestFileStoreClearWhenEmpty(t *testing.T) {
	store := testStore(t)
	assert.NoError(t, store.Clear())
}

func TestFileStoreSaveOverwrites(t *testing.T) {
	store := testStore(t)
	require.NoError(t, store.Save(Snapshot{Content: "first"}))
	require.NoError(t, store.Save(Snapshot{Content: "second"}))
	assert.Equal(t, "second", store.Load().Content, "most recent write wins")
}

func TestSnapshotHasContent(t *testing.T) {
	assert.False(t, Snapshot{}.HasContent())
	assert.False(t, Snapshot{Content: "   \n\t "}.HasContent())
	assert.True(t, Snapshot{Content: "x"}.HasContent())
	assert.True(t, Snapshot{Media: []MediaRef{{AssetID: 1}}}.HasContent())
}

func TestSnapshotPath(t *testing.T) {
	assert.Equal(t, filepath.Join("/var/drafts", "composer_draft_9.json"), SnapshotPath("/var/drafts", "9"))
}
