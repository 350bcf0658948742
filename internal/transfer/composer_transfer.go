package transfer

// ComposerUpdate carries the working copy of the composer from the client.
// Media entries reference previously uploaded assets by id, in display order.
type ComposerUpdate struct {
	Title        string   `json:"title"`
	Content      string   `json:"content"`
	FirstComment string   `json:"first_comment"`
	Hashtags     []string `json:"hashtags"`
	MediaIDs     []int64  `json:"media_ids"`
}

type ScheduleRequest struct {
	ScheduledFor string `json:"scheduled_for"` // RFC 3339
	Timezone     string `json:"timezone"`
}

type RescheduleRequest struct {
	PostID       int64  `json:"post_id"`
	ScheduledFor string `json:"scheduled_for"`
	Timezone     string `json:"timezone"`
}
