package service

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/prasadk19/postdeck/internal/analytics"
	"github.com/prasadk19/postdeck/internal/models"
	"github.com/prasadk19/postdeck/internal/repository"
)

type AnalyticsService interface {
	Summary(ctx context.Context, userID int64, dateRange string) (analytics.EngagementStats, error)
	Trends(ctx context.Context, userID int64, dateRange, timezone string) ([]analytics.DailyTrend, error)
	HashtagLeaderboard(ctx context.Context, userID int64, limit int) ([]analytics.HashtagStats, error)
	OptimalTimes(ctx context.Context, userID int64) ([]analytics.TimeSlot, error)
	TopPosts(ctx context.Context, userID int64, limit int) ([]*models.Post, error)
	RecordSample(ctx context.Context, sample *models.AnalyticsSample) error
}

type analyticsService struct {
	pr repository.PostRepository
	ar repository.AnalyticsRepository
}

func NewAnalyticsService(pr repository.PostRepository, ar repository.AnalyticsRepository) AnalyticsService {
	return &analyticsService{
		pr: pr,
		ar: ar,
	}
}

// sinceFor maps the dashboard's range selector onto a cutoff. Unknown
// values fall back to 30 days, matching the dashboard default.
func sinceFor(dateRange string) time.Time {
	days := 30
	switch dateRange {
	case "7d":
		days = 7
	case "30d":
		days = 30
	case "90d":
		days = 90
	}
	return time.Now().AddDate(0, 0, -days)
}

// engagements loads the user's published posts in range together with
// their samples, shaped for the pure aggregation functions.
func (s *analyticsService) engagements(ctx context.Context, userID int64, since time.Time) ([]analytics.PostEngagement, error) {
	posts, err := s.pr.ListPublishedSince(ctx, userID, since)
	if err != nil {
		return nil, fmt.Errorf("error loading published posts: %w", err)
	}

	out := make([]analytics.PostEngagement, 0, len(posts))
	for _, p := range posts {
		samples, err := s.ar.ListByPostID(ctx, p.ID)
		if err != nil {
			return nil, fmt.Errorf("error loading samples for post %d: %w", p.ID, err)
		}

		pe := analytics.PostEngagement{
			PostID:   p.ID,
			Hashtags: p.Hashtags,
		}
		if p.PublishedAt != nil {
			pe.PublishedAt = *p.PublishedAt
		}
		for _, sm := range samples {
			pe.Samples = append(pe.Samples, toSample(sm))
		}
		out = append(out, pe)
	}
	return out, nil
}

func toSample(s *models.AnalyticsSample) analytics.Sample {
	return analytics.Sample{
		PostID:         s.PostID,
		Impressions:    s.Impressions,
		Clicks:         s.Clicks,
		Likes:          s.Likes,
		Comments:       s.Comments,
		Shares:         s.Shares,
		EngagementRate: s.EngagementRate,
		Reach:          s.Reach,
		CollectedAt:    s.CollectedAt,
	}
}

func (s *analyticsService) Summary(ctx context.Context, userID int64, dateRange string) (analytics.EngagementStats, error) {
	posts, err := s.engagements(ctx, userID, sinceFor(dateRange))
	if err != nil {
		return analytics.EngagementStats{}, err
	}
	return analytics.Summarize(posts), nil
}

func (s *analyticsService) Trends(ctx context.Context, userID int64, dateRange, timezone string) ([]analytics.DailyTrend, error) {
	loc := time.UTC
	if timezone != "" {
		var err error
		loc, err = time.LoadLocation(timezone)
		if err != nil {
			slog.Info(err.Error())
			return nil, fmt.Errorf("unknown timezone %q", timezone)
		}
	}

	rows, err := s.ar.ListForUserSince(ctx, userID, sinceFor(dateRange))
	if err != nil {
		return nil, fmt.Errorf("error loading samples: %w", err)
	}

	samples := make([]analytics.Sample, 0, len(rows))
	for _, r := range rows {
		samples = append(samples, toSample(r))
	}
	return analytics.TrendsByDay(samples, loc), nil
}

func (s *analyticsService) HashtagLeaderboard(ctx context.Context, userID int64, limit int) ([]analytics.HashtagStats, error) {
	if limit <= 0 {
		limit = 20
	}

	posts, err := s.engagements(ctx, userID, sinceFor("90d"))
	if err != nil {
		return nil, err
	}
	return analytics.HashtagLeaderboard(posts, limit), nil
}

func (s *analyticsService) OptimalTimes(ctx context.Context, userID int64) ([]analytics.TimeSlot, error) {
	posts, err := s.engagements(ctx, userID, sinceFor("90d"))
	if err != nil {
		return nil, err
	}
	return analytics.OptimalPostingSlots(posts), nil
}

// TopPosts ranks the user's published posts by the engagement rate of
// their latest sample. Posts without samples are left out.
func (s *analyticsService) TopPosts(ctx context.Context, userID int64, limit int) ([]*models.Post, error) {
	if limit <= 0 {
		limit = 10
	}

	posts, err := s.pr.ListPublishedSince(ctx, userID, sinceFor("90d"))
	if err != nil {
		return nil, fmt.Errorf("error loading published posts: %w", err)
	}

	type ranked struct {
		post *models.Post
		rate float64
	}
	var rankedPosts []ranked
	for _, p := range posts {
		samples, err := s.ar.ListByPostID(ctx, p.ID)
		if err != nil {
			return nil, fmt.Errorf("error loading samples for post %d: %w", p.ID, err)
		}
		if len(samples) == 0 {
			continue
		}
		// ListByPostID returns newest first.
		rankedPosts = append(rankedPosts, ranked{post: p, rate: samples[0].EngagementRate})
	}

	sort.SliceStable(rankedPosts, func(i, j int) bool {
		return rankedPosts[i].rate > rankedPosts[j].rate
	})

	if len(rankedPosts) > limit {
		rankedPosts = rankedPosts[:limit]
	}
	out := make([]*models.Post, 0, len(rankedPosts))
	for _, r := range rankedPosts {
		out = append(out, r.post)
	}
	return out, nil
}

func (s *analyticsService) RecordSample(ctx context.Context, sample *models.AnalyticsSample) error {
	if sample.PostID == 0 {
		return fmt.Errorf("sample has no post id")
	}
	if _, err := s.ar.Insert(ctx, sample); err != nil {
		return fmt.Errorf("error recording sample: %w", err)
	}
	return nil
}
