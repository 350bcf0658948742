package composer

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prasadk19/postdeck/internal/draft"
	"github.com/prasadk19/postdeck/internal/models"
)

type memStore struct {
	snapshot draft.Snapshot
	present  bool
	clears   int
}

func (s *memStore) Load() draft.Snapshot {
	if !s.present {
		return draft.Snapshot{}
	}
	return s.snapshot
}

func (s *memStore) Save(snap draft.Snapshot) error {
	s.snapshot = snap
	s.present = true
	return nil
}

func (s *memStore) Clear() error {
	s.snapshot = draft.Snapshot{}
	s.present = false
	s.clears++
	return nil
}

type spyPersister struct {
	mu      sync.Mutex
	calls   []*models.Post
	media   [][]draft.MediaRef
	nextID  int64
	err     error
	block   chan struct{} // when set, SavePost waits before returning
	started chan struct{}
}

func (p *spyPersister) SavePost(ctx context.Context, post *models.Post, media []draft.MediaRef) (int64, error) {
	p.mu.Lock()
	p.calls = append(p.calls, post)
	p.media = append(p.media, media)
	p.mu.Unlock()

	if p.started != nil {
		close(p.started)
		p.started = nil
	}
	if p.block != nil {
		<-p.block
	}
	if p.err != nil {
		return 0, p.err
	}
	p.nextID++
	return p.nextID, nil
}

func (p *spyPersister) callCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.calls)
}

func newTestComposer(s draft.Snapshot) (*Composer, *memStore, *spyPersister) {
	store := &memStore{}
	persister := &spyPersister{}
	c := New(1, store, persister)
	c.Update(s)
	return c, store, persister
}

func TestValidLengthBoundaries(t *testing.T) {
	body := strings.Repeat("a", models.MaxContentLength)
	assert.NoError(t, ValidLength(draft.Snapshot{Content: body}))
	assert.Equal(t, ErrContentTooLong, ValidLength(draft.Snapshot{Content: body + "a"}))

	comment := strings.Repeat("b", models.MaxFirstCommentLength)
	assert.NoError(t, ValidLength(draft.Snapshot{Comment: comment}))
	assert.Equal(t, ErrCommentTooLong, ValidLength(draft.Snapshot{Comment: comment + "b"}))
}

func TestHasContentTruthTable(t *testing.T) {
	assert.False(t, draft.Snapshot{}.HasContent())
	assert.False(t, draft.Snapshot{Content: " \t\n"}.HasContent())
	assert.True(t, draft.Snapshot{Content: "a"}.HasContent())
	assert.True(t, draft.Snapshot{Media: []draft.MediaRef{{AssetID: 1, MediaType: "image"}}}.HasContent())
}

func TestSchedulable(t *testing.T) {
	now := time.Date(2026, 4, 1, 12, 0, 0, 0, time.UTC)

	assert.Equal(t, ErrNoScheduleTime, Schedulable(nil, now))

	past := now.Add(-time.Minute)
	assert.Equal(t, ErrScheduleInPast, Schedulable(&past, now))

	assert.NoError(t, Schedulable(&now, now), "present is allowed")

	future := now.Add(time.Hour)
	assert.NoError(t, Schedulable(&future, now))
}

func TestValidMediaMix(t *testing.T) {
	images := make([]draft.MediaRef, models.MaxImageAttachments)
	for i := range images {
		images[i] = draft.MediaRef{AssetID: int64(i + 1), MediaType: models.MediaTypeImage}
	}
	assert.NoError(t, ValidMediaMix(images))
	assert.Equal(t, ErrTooManyImages, ValidMediaMix(append(images, draft.MediaRef{AssetID: 11, MediaType: models.MediaTypeImage})))

	twoVideos := []draft.MediaRef{
		{AssetID: 1, MediaType: models.MediaTypeVideo},
		{AssetID: 2, MediaType: models.MediaTypeVideo},
	}
	assert.Equal(t, ErrMultipleVideos, ValidMediaMix(twoVideos))

	twoPDFs := []draft.MediaRef{
		{AssetID: 1, MediaType: models.MediaTypePDF},
		{AssetID: 2, MediaType: models.MediaTypePDF},
	}
	assert.Equal(t, ErrMultiplePDFs, ValidMediaMix(twoPDFs))

	mixed := []draft.MediaRef{
		{AssetID: 1, MediaType: models.MediaTypeImage},
		{AssetID: 2, MediaType: models.MediaTypeVideo},
		{AssetID: 3, MediaType: models.MediaTypePDF},
	}
	assert.NoError(t, ValidMediaMix(mixed))
}

func TestSaveDraftRequiresContent(t *testing.T) {
	c, _, persister := newTestComposer(draft.Snapshot{Content: "   "})

	_, err := c.SaveDraft(context.Background())

	assert.Equal(t, ErrNoContent, err)
	assert.Zero(t, persister.callCount(), "validation failures never reach persistence")
}

func TestSaveDraftSkipsLengthRules(t *testing.T) {
	c, _, persister := newTestComposer(draft.Snapshot{
		Content: strings.Repeat("a", models.MaxContentLength+500),
	})

	id, err := c.SaveDraft(context.Background())

	require.NoError(t, err, "drafts may exceed the publish limits")
	assert.Equal(t, int64(1), id)
	assert.Equal(t, models.PostStatusDraft, persister.calls[0].Status)
}

func TestSaveDraftKeepsLocalStateOnFailure(t *testing.T) {
	c, store, persister := newTestComposer(draft.Snapshot{Content: "keep me"})
	require.NoError(t, store.Save(c.Snapshot()))
	persister.err = errors.New("network down")

	_, err := c.SaveDraft(context.Background())

	var pe *PersistenceError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, "keep me", c.Snapshot().Content, "composer stays editable")
	assert.True(t, store.present, "local draft is never cleared on failure")
	assert.Zero(t, store.clears)
}

func TestSaveDraftThenResaveUpdatesSamePost(t *testing.T) {
	c, _, persister := newTestComposer(draft.Snapshot{Content: "v1"})

	id1, err := c.SaveDraft(context.Background())
	require.NoError(t, err)

	c.Update(draft.Snapshot{Content: "v2"})
	_, err = c.SaveDraft(context.Background())
	require.NoError(t, err)

	require.Equal(t, 2, persister.callCount())
	assert.Zero(t, persister.calls[0].ID)
	assert.Equal(t, id1, persister.calls[1].ID, "second save targets the persisted draft")
}

func TestScheduleWithoutTimestamp(t *testing.T) {
	c, _, persister := newTestComposer(draft.Snapshot{Content: "hello"})

	_, err := c.Schedule(context.Background(), time.Time{}, "UTC")

	assert.Equal(t, ErrNoScheduleTime, err)
	assert.Zero(t, persister.callCount(), "rejected before any persistence call")
}

func TestScheduleRejectsBadTimezone(t *testing.T) {
	c, _, persister := newTestComposer(draft.Snapshot{Content: "hello"})

	_, err := c.Schedule(context.Background(), time.Now().Add(time.Hour), "Mars/Olympus")

	assert.Equal(t, ErrBadTimezone, err)
	assert.Zero(t, persister.callCount())
}

func TestScheduleSuccessClearsSnapshot(t *testing.T) {
	c, store, persister := newTestComposer(draft.Snapshot{Content: "hello #later"})
	require.NoError(t, store.Save(c.Snapshot()))

	at := time.Now().Add(2 * time.Hour).UTC()
	id, err := c.Schedule(context.Background(), at, "Europe/Berlin")

	require.NoError(t, err)
	assert.Equal(t, int64(1), id)
	require.Equal(t, 1, persister.callCount())
	assert.Equal(t, models.PostStatusScheduled, persister.calls[0].Status)
	require.NotNil(t, persister.calls[0].ScheduledFor)
	assert.Equal(t, at, *persister.calls[0].ScheduledFor)
	assert.Equal(t, "Europe/Berlin", persister.calls[0].Timezone)

	assert.False(t, store.present, "server copy is authoritative after dispatch")
	assert.Empty(t, c.Snapshot().Content)
}

func TestScheduleFailureKeepsSnapshot(t *testing.T) {
	c, store, persister := newTestComposer(draft.Snapshot{Content: "hello"})
	require.NoError(t, store.Save(c.Snapshot()))
	persister.err = errors.New("permission denied")

	_, err := c.Schedule(context.Background(), time.Now().Add(time.Hour), "UTC")

	var pe *PersistenceError
	require.ErrorAs(t, err, &pe)
	assert.True(t, store.present)
	assert.Equal(t, "hello", c.Snapshot().Content)
}

func TestPublishNowScenario(t *testing.T) {
	c, store, persister := newTestComposer(draft.Snapshot{
		Content:  "Hello #test",
		Hashtags: []string{"#test"},
	})
	require.NoError(t, store.Save(c.Snapshot()))

	dispatchTime := time.Date(2026, 6, 2, 9, 30, 0, 0, time.UTC)
	c.now = func() time.Time { return dispatchTime }

	_, err := c.PublishNow(context.Background())

	require.NoError(t, err)
	require.Equal(t, 1, persister.callCount(), "persistence called exactly once")
	post := persister.calls[0]
	assert.Equal(t, models.PostStatusPublished, post.Status)
	require.NotNil(t, post.PublishedAt)
	assert.Equal(t, dispatchTime, *post.PublishedAt)
	assert.False(t, store.present, "local draft cleared on success")
}

func TestPublishNowEnforcesLength(t *testing.T) {
	c, _, persister := newTestComposer(draft.Snapshot{
		Content: strings.Repeat("a", models.MaxContentLength+1),
	})

	_, err := c.PublishNow(context.Background())

	assert.Equal(t, ErrContentTooLong, err)
	assert.Zero(t, persister.callCount())
}

func TestDispatchMutualExclusion(t *testing.T) {
	c, _, persister := newTestComposer(draft.Snapshot{Content: "hello"})
	persister.block = make(chan struct{})
	persister.started = make(chan struct{})
	started := persister.started

	errs := make(chan error, 1)
	go func() {
		_, err := c.PublishNow(context.Background())
		errs <- err
	}()
	<-started

	_, err := c.SaveDraft(context.Background())
	assert.Equal(t, ErrDispatchInFlight, err)

	close(persister.block)
	require.NoError(t, <-errs)
	assert.Equal(t, 1, persister.callCount(), "never two concurrent persistence calls")
}

func TestDiscardClearsEverything(t *testing.T) {
	c, store, _ := newTestComposer(draft.Snapshot{Content: "scrap this"})
	require.NoError(t, store.Save(c.Snapshot()))

	require.NoError(t, c.Discard())

	assert.False(t, store.present)
	assert.Empty(t, c.Snapshot().Content)
}

func TestPostTypeFor(t *testing.T) {
	assert.Equal(t, models.PostTypeText, postTypeFor(nil))
	assert.Equal(t, models.PostTypeImage, postTypeFor([]draft.MediaRef{{MediaType: models.MediaTypeImage}}))
	assert.Equal(t, models.PostTypeVideo, postTypeFor([]draft.MediaRef{{MediaType: models.MediaTypeVideo}}))
	assert.Equal(t, models.PostTypeDocument, postTypeFor([]draft.MediaRef{{MediaType: models.MediaTypePDF}}))
}

func TestManagerSessionLifecycle(t *testing.T) {
	m := NewManager(t.TempDir(), &spyPersister{}, time.Hour)

	c1 := m.Get(7)
	c2 := m.Get(7)
	assert.Same(t, c1, c2, "one session per user")

	m.Release(7)
	c3 := m.Get(7)
	assert.NotSame(t, c1, c3, "a new post begins a fresh composing instance")

	m.Shutdown()
}
