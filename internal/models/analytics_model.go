package models

import "time"

// AnalyticsSample is one periodic measurement of a published post's
// engagement. Samples are append-only; a post may have zero or many.
type AnalyticsSample struct {
	ID             int64     `db:"id" json:"id"`
	PostID         int64     `db:"post_id" json:"post_id"`
	Impressions    int64     `db:"impressions" json:"impressions"`
	Clicks         int64     `db:"clicks" json:"clicks"`
	Likes          int64     `db:"likes" json:"likes"`
	Comments       int64     `db:"comments" json:"comments"`
	Shares         int64     `db:"shares" json:"shares"`
	EngagementRate float64   `db:"engagement_rate" json:"engagement_rate"`
	Reach          int64     `db:"reach" json:"reach"`
	CollectedAt    time.Time `db:"collected_at" json:"collected_at"`
}
