package repository

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/prasadk19/postdeck/internal/models"
)

type AnalyticsRepository interface {
	// Insert appends a sample. Samples are immutable once collected.
	Insert(ctx context.Context, s *models.AnalyticsSample) (int64, error)
	ListByPostID(ctx context.Context, postID int64) ([]*models.AnalyticsSample, error)
	ListForUserSince(ctx context.Context, userID int64, since time.Time) ([]*models.AnalyticsSample, error)
}

type analyticsRepository struct {
	db *sql.DB
}

func NewAnalyticsRepository(db *sql.DB) AnalyticsRepository {
	return &analyticsRepository{db: db}
}

const sampleColumns = `id, post_id, impressions, clicks, likes, comments, shares, engagement_rate, reach, collected_at`

func scanSample(row interface{ Scan(...any) error }) (*models.AnalyticsSample, error) {
	var s models.AnalyticsSample
	err := row.Scan(&s.ID, &s.PostID, &s.Impressions, &s.Clicks, &s.Likes,
		&s.Comments, &s.Shares, &s.EngagementRate, &s.Reach, &s.CollectedAt)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *analyticsRepository) Insert(ctx context.Context, s *models.AnalyticsSample) (int64, error) {
	query := `
		INSERT INTO post_analytics (post_id, impressions, clicks, likes, comments, shares, engagement_rate, reach, collected_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id
	`

	collectedAt := s.CollectedAt
	if collectedAt.IsZero() {
		collectedAt = time.Now()
	}

	var id int64
	err := r.db.QueryRowContext(ctx, query, s.PostID, s.Impressions, s.Clicks, s.Likes,
		s.Comments, s.Shares, s.EngagementRate, s.Reach, collectedAt).Scan(&id)
	if err != nil {
		slog.Info(err.Error())
		return 0, err
	}

	return id, nil
}

func (r *analyticsRepository) ListByPostID(ctx context.Context, postID int64) ([]*models.AnalyticsSample, error) {
	query := `SELECT ` + sampleColumns + ` FROM post_analytics WHERE post_id = $1 ORDER BY collected_at DESC`
	return r.querySamples(ctx, query, postID)
}

func (r *analyticsRepository) ListForUserSince(ctx context.Context, userID int64, since time.Time) ([]*models.AnalyticsSample, error) {
	query := `
		SELECT a.id, a.post_id, a.impressions, a.clicks, a.likes, a.comments, a.shares, a.engagement_rate, a.reach, a.collected_at
		FROM post_analytics a
		JOIN posts p ON p.id = a.post_id
		WHERE p.user_id = $1 AND a.collected_at >= $2
		ORDER BY a.collected_at ASC
	`
	return r.querySamples(ctx, query, userID, since)
}

func (r *analyticsRepository) querySamples(ctx context.Context, query string, args ...any) ([]*models.AnalyticsSample, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer rows.Close()

	var samples []*models.AnalyticsSample
	for rows.Next() {
		s, err := scanSample(rows)
		if err != nil {
			slog.Info(err.Error())
			return nil, err
		}
		samples = append(samples, s)
	}
	if err = rows.Err(); err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	return samples, nil
}
