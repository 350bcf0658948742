package models

import (
	"encoding/json"
	"time"

	"github.com/lib/pq"
)

type Settings struct {
	ID                   int64           `db:"id" json:"id"`
	UserID               int64           `db:"user_id" json:"user_id"`
	DefaultHashtags      pq.StringArray  `db:"default_hashtags" json:"default_hashtags"`
	AutoAddFirstComment  bool            `db:"auto_add_first_comment" json:"auto_add_first_comment"`
	DefaultFirstComment  string          `db:"default_first_comment" json:"default_first_comment"`
	NotificationSettings json.RawMessage `db:"notification_settings" json:"notification_settings"`
	OptimalPostingTimes  json.RawMessage `db:"optimal_posting_times" json:"optimal_posting_times"`
	CreatedAt            time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt            time.Time       `db:"updated_at" json:"updated_at"`
}
