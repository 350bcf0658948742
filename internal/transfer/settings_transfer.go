package transfer

import "encoding/json"

type SettingsUpdate struct {
	DefaultHashtags      []string        `json:"default_hashtags"`
	AutoAddFirstComment  bool            `json:"auto_add_first_comment"`
	DefaultFirstComment  string          `json:"default_first_comment"`
	NotificationSettings json.RawMessage `json:"notification_settings"`
	OptimalPostingTimes  json.RawMessage `json:"optimal_posting_times"`
}
