package models

import (
	"time"

	"github.com/lib/pq"
)

type Post struct {
	ID           int64          `db:"id" json:"id"`
	UserID       int64          `db:"user_id" json:"user_id"`
	Title        string         `db:"title" json:"title"`
	Content      string         `db:"content" json:"content"`
	FirstComment string         `db:"first_comment" json:"first_comment"`
	PostType     string         `db:"post_type" json:"post_type"`
	Hashtags     pq.StringArray `db:"hashtags" json:"hashtags"`
	Status       string         `db:"status" json:"status"` // draft, scheduled, published, failed
	ScheduledFor *time.Time     `db:"scheduled_for" json:"scheduled_for"`
	Timezone     string         `db:"timezone" json:"timezone"`
	PublishedAt  *time.Time     `db:"published_at" json:"published_at"`
	CreatedAt    time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time      `db:"updated_at" json:"updated_at"`
}

type PostMedia struct {
	PostID       int64     `db:"post_id" json:"post_id"`
	AssetID      int64     `db:"asset_id" json:"asset_id"`
	DisplayOrder int       `db:"display_order" json:"display_order"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

const (
	PostStatusDraft     = "draft"
	PostStatusScheduled = "scheduled"
	PostStatusPublished = "published"
	PostStatusFailed    = "failed"
)

const (
	PostTypeText     = "text"
	PostTypeImage    = "image"
	PostTypeVideo    = "video"
	PostTypeDocument = "document"
)

// Limits enforced before any post is persisted.
const (
	MaxContentLength      = 3000
	MaxFirstCommentLength = 1250
	MaxImageAttachments   = 10
)
