package repository

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/prasadk19/postdeck/internal/models"
)

type SettingsRepository interface {
	GetByUserID(ctx context.Context, userID int64) (*models.Settings, bool, error)
	Create(ctx context.Context, s *models.Settings) (int64, error)
	Update(ctx context.Context, s *models.Settings, userID int64) error
}

type settingsRepository struct {
	db *sql.DB
}

func NewSettingsRepository(db *sql.DB) SettingsRepository {
	return &settingsRepository{db: db}
}

func (r *settingsRepository) GetByUserID(ctx context.Context, userID int64) (*models.Settings, bool, error) {
	query := `
		SELECT id, user_id, default_hashtags, auto_add_first_comment, default_first_comment, notification_settings, optimal_posting_times, created_at, updated_at
		FROM user_settings
		WHERE user_id = $1
	`
	row := r.db.QueryRowContext(ctx, query, userID)

	var s models.Settings
	err := row.Scan(&s.ID, &s.UserID, &s.DefaultHashtags, &s.AutoAddFirstComment,
		&s.DefaultFirstComment, &s.NotificationSettings, &s.OptimalPostingTimes,
		&s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, false, nil
		}
		slog.Info(err.Error())
		return nil, false, err
	}

	return &s, true, nil
}

func (r *settingsRepository) Create(ctx context.Context, s *models.Settings) (int64, error) {
	query := `
		INSERT INTO user_settings (user_id, default_hashtags, auto_add_first_comment, default_first_comment, notification_settings, optimal_posting_times)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`

	var id int64
	err := r.db.QueryRowContext(ctx, query, s.UserID, s.DefaultHashtags, s.AutoAddFirstComment,
		s.DefaultFirstComment, []byte(s.NotificationSettings), []byte(s.OptimalPostingTimes)).Scan(&id)
	if err != nil {
		slog.Info(err.Error())
		return 0, err
	}

	return id, nil
}

func (r *settingsRepository) Update(ctx context.Context, s *models.Settings, userID int64) error {
	query := `
		UPDATE user_settings
		SET default_hashtags = $1,
			auto_add_first_comment = $2,
			default_first_comment = $3,
			notification_settings = $4,
			optimal_posting_times = $5,
			updated_at = $6
		WHERE user_id = $7
	`
	_, err := r.db.ExecContext(ctx, query, s.DefaultHashtags, s.AutoAddFirstComment,
		s.DefaultFirstComment, []byte(s.NotificationSettings), []byte(s.OptimalPostingTimes),
		time.Now(), userID)
	if err != nil {
		slog.Info(err.Error())
		return err
	}

	return nil
}
