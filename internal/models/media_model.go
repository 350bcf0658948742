package models

import (
	"time"

	"github.com/lib/pq"
)

type MediaAsset struct {
	ID               int64          `db:"id" json:"id"`
	UserID           int64          `db:"user_id" json:"user_id"`
	FileName         string         `db:"file_name" json:"file_name"`
	OriginalFilename string         `db:"original_filename" json:"original_filename"`
	FileSize         int64          `db:"file_size" json:"file_size"`
	MediaType        string         `db:"media_type" json:"media_type"` // image, video, pdf, document
	FileURL          string         `db:"file_url" json:"file_url"`
	Width            int            `db:"width" json:"width"`
	Height           int            `db:"height" json:"height"`
	DurationSecs     int            `db:"duration_secs" json:"duration_secs"`
	Tags             pq.StringArray `db:"tags" json:"tags"`
	UsageCount       int            `db:"usage_count" json:"usage_count"`
	UploadedAt       time.Time      `db:"uploaded_at" json:"uploaded_at"`
}

const (
	MediaTypeImage    = "image"
	MediaTypeVideo    = "video"
	MediaTypePDF      = "pdf"
	MediaTypeDocument = "document"
)
