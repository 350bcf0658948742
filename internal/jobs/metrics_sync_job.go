package jobs

import (
	"context"
	"log"

	"github.com/prasadk19/postdeck/internal/models"
	"github.com/prasadk19/postdeck/internal/repository"
	"github.com/prasadk19/postdeck/internal/service"
)

// MetricsSyncJob periodically collects fresh engagement samples for every
// published post of every connected user. Samples are append-only, so each
// run adds one point to the trend data.
type MetricsSyncJob struct {
	cr repository.ConnectionRepository
	pr repository.PostRepository
	as service.AnalyticsService
	li service.LinkedInService
}

func NewMetricsSyncJob(
	cr repository.ConnectionRepository,
	pr repository.PostRepository,
	as service.AnalyticsService,
	li service.LinkedInService) *MetricsSyncJob {
	return &MetricsSyncJob{
		cr: cr,
		pr: pr,
		as: as,
		li: li,
	}
}

func (j *MetricsSyncJob) SyncMetrics() {
	ctx := context.Background()

	connections, err := j.cr.ListActive(ctx)
	if err != nil {
		log.Printf("Error listing active connections: %v", err)
		return
	}

	for _, conn := range connections {
		posts, err := j.pr.ListByUserID(ctx, conn.UserID, models.PostStatusPublished)
		if err != nil {
			log.Printf("Error listing published posts for user %d: %v", conn.UserID, err)
			continue
		}

		for _, post := range posts {
			sample, err := j.li.FetchMetrics(ctx, conn, post)
			if err != nil {
				log.Printf("Error fetching metrics for post %d: %v", post.ID, err)
				continue
			}
			if err := j.as.RecordSample(ctx, sample); err != nil {
				log.Printf("Error recording sample for post %d: %v", post.ID, err)
			}
		}
	}
}
