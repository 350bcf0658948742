package composer

import (
	"context"
	"sync"
	"time"

	"github.com/lib/pq"
	"github.com/prasadk19/postdeck/internal/draft"
	"github.com/prasadk19/postdeck/internal/models"
)

// Persister is the remote side of a dispatch. SavePost inserts the post
// when post.ID is zero and updates it otherwise; media carries the
// attached assets in display order.
type Persister interface {
	SavePost(ctx context.Context, post *models.Post, media []draft.MediaRef) (int64, error)
}

// Composer holds one in-progress post. It is the only writer of its draft
// snapshot, validates the composed content, and executes exactly one
// terminal action per dispatch: draft, scheduled, or published. There is
// no way back to composing from a terminal state; a new post means a new
// Composer.
type Composer struct {
	userID int64
	store  draft.Store
	posts  Persister
	now    func() time.Time

	mu       sync.Mutex
	inFlight bool
	snapshot draft.Snapshot
	postID   int64 // remote id once a draft has been persisted
}

func New(userID int64, store draft.Store, posts Persister) *Composer {
	return &Composer{
		userID:   userID,
		store:    store,
		posts:    posts,
		now:      time.Now,
		snapshot: store.Load(),
	}
}

// Snapshot returns the current working copy.
func (c *Composer) Snapshot() draft.Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshot
}

// Update replaces the working copy wholesale. Later writes win; there is
// no merging with what was there before.
func (c *Composer) Update(s draft.Snapshot) {
	c.mu.Lock()
	defer c.mu.Unlock()
	s.LastSaved = c.snapshot.LastSaved
	c.snapshot = s
}

// Discard drops the working copy and its stored snapshot.
func (c *Composer) Discard() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.snapshot = draft.Snapshot{}
	c.postID = 0
	return c.store.Clear()
}

// SaveDraft persists the working copy with status draft. Only content
// presence is required; length and schedule rules do not apply to drafts.
// On failure the local snapshot is untouched and the user can retry.
func (c *Composer) SaveDraft(ctx context.Context) (int64, error) {
	if err := c.beginDispatch(); err != nil {
		return 0, err
	}
	defer c.endDispatch()

	s := c.Snapshot()
	if !s.HasContent() {
		return 0, ErrNoContent
	}

	id, err := c.persist(ctx, s, models.PostStatusDraft, nil, "")
	if err != nil {
		return 0, &PersistenceError{Op: "save draft", Err: err}
	}

	c.mu.Lock()
	c.postID = id
	c.mu.Unlock()
	return id, nil
}

// Schedule persists the working copy with status scheduled for the given
// time. On success the local snapshot is cleared: the server copy is
// authoritative from here on.
func (c *Composer) Schedule(ctx context.Context, at time.Time, timezone string) (int64, error) {
	if err := c.beginDispatch(); err != nil {
		return 0, err
	}
	defer c.endDispatch()

	s := c.Snapshot()
	if err := validateDispatch(s); err != nil {
		return 0, err
	}
	if err := Schedulable(&at, c.now()); err != nil {
		return 0, err
	}
	if timezone != "" {
		if _, err := time.LoadLocation(timezone); err != nil {
			return 0, ErrBadTimezone
		}
	}

	id, err := c.persist(ctx, s, models.PostStatusScheduled, &at, timezone)
	if err != nil {
		return 0, &PersistenceError{Op: "schedule post", Err: err}
	}

	c.clearAfterDispatch()
	return id, nil
}

// PublishNow persists the working copy with status published and a publish
// timestamp equal to dispatch time, then clears the local snapshot.
func (c *Composer) PublishNow(ctx context.Context) (int64, error) {
	if err := c.beginDispatch(); err != nil {
		return 0, err
	}
	defer c.endDispatch()

	s := c.Snapshot()
	if err := validateDispatch(s); err != nil {
		return 0, err
	}

	id, err := c.persist(ctx, s, models.PostStatusPublished, nil, "")
	if err != nil {
		return 0, &PersistenceError{Op: "publish post", Err: err}
	}

	c.clearAfterDispatch()
	return id, nil
}

func (c *Composer) persist(ctx context.Context, s draft.Snapshot, status string, scheduledFor *time.Time, timezone string) (int64, error) {
	c.mu.Lock()
	postID := c.postID
	c.mu.Unlock()

	post := &models.Post{
		ID:           postID,
		UserID:       c.userID,
		Title:        s.Title,
		Content:      s.Content,
		FirstComment: s.Comment,
		PostType:     postTypeFor(s.Media),
		Hashtags:     pq.StringArray(s.Hashtags),
		Status:       status,
		ScheduledFor: scheduledFor,
		Timezone:     timezone,
	}
	if status == models.PostStatusPublished {
		at := c.now()
		post.PublishedAt = &at
	}
	return c.posts.SavePost(ctx, post, s.Media)
}

func (c *Composer) clearAfterDispatch() {
	c.mu.Lock()
	c.snapshot = draft.Snapshot{}
	c.postID = 0
	c.mu.Unlock()
	// Best effort: the dispatch already succeeded and the server copy is
	// authoritative, so a failed clear only leaves a stale file behind.
	_ = c.store.Clear()
}

func (c *Composer) beginDispatch() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.inFlight {
		return ErrDispatchInFlight
	}
	c.inFlight = true
	return nil
}

func (c *Composer) endDispatch() {
	c.mu.Lock()
	c.inFlight = false
	c.mu.Unlock()
}

func validateDispatch(s draft.Snapshot) error {
	if !s.HasContent() {
		return ErrNoContent
	}
	if err := ValidLength(s); err != nil {
		return err
	}
	return ValidMediaMix(s.Media)
}

// ValidLength checks the body and first-comment limits, boundary inclusive.
func ValidLength(s draft.Snapshot) error {
	if len([]rune(s.Content)) > models.MaxContentLength {
		return ErrContentTooLong
	}
	if len([]rune(s.Comment)) > models.MaxFirstCommentLength {
		return ErrCommentTooLong
	}
	return nil
}

// Schedulable requires a present-or-future timestamp. Scheduling with no
// timestamp is rejected before any persistence call.
func Schedulable(at *time.Time, now time.Time) error {
	if at == nil || at.IsZero() {
		return ErrNoScheduleTime
	}
	if at.Before(now) {
		return ErrScheduleInPast
	}
	return nil
}

// ValidMediaMix enforces the attachment limits: at most 10 images, one
// video, one PDF.
func ValidMediaMix(media []draft.MediaRef) error {
	var images, videos, pdfs int
	for _, m := range media {
		switch m.MediaType {
		case models.MediaTypeImage:
			images++
		case models.MediaTypeVideo:
			videos++
		case models.MediaTypePDF:
			pdfs++
		}
	}
	if images > models.MaxImageAttachments {
		return ErrTooManyImages
	}
	if videos > 1 {
		return ErrMultipleVideos
	}
	if pdfs > 1 {
		return ErrMultiplePDFs
	}
	return nil
}

func postTypeFor(media []draft.MediaRef) string {
	for _, m := range media {
		switch m.MediaType {
		case models.MediaTypeVideo:
			return models.PostTypeVideo
		case models.MediaTypePDF, models.MediaTypeDocument:
			return models.PostTypeDocument
		}
	}
	if len(media) > 0 {
		return models.PostTypeImage
	}
	return models.PostTypeText
}
