package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/lib/pq"

	"github.com/prasadk19/postdeck/internal/models"
	"github.com/prasadk19/postdeck/internal/repository"
	"github.com/prasadk19/postdeck/internal/transfer"
)

type SettingsService interface {
	GetSettingsInfo(ctx context.Context, userID int64) (*models.Settings, error)
	UpdateSettings(ctx context.Context, userID int64, update *transfer.SettingsUpdate) error
}

type settingsService struct {
	sr repository.SettingsRepository
}

func NewSettingsService(sr repository.SettingsRepository) SettingsService {
	return &settingsService{
		sr: sr,
	}
}

var defaultNotificationSettings = json.RawMessage(`{"scheduled_post_reminder":true,"post_published":true,"post_failed":true,"weekly_analytics":true}`)

// GetSettingsInfo returns the user's settings, creating the defaults the
// first time they are asked for.
func (s *settingsService) GetSettingsInfo(ctx context.Context, userID int64) (*models.Settings, error) {
	settings, exists, err := s.sr.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if exists {
		return settings, nil
	}

	defaults := &models.Settings{
		UserID:               userID,
		DefaultHashtags:      pq.StringArray{"#LinkedIn", "#Business", "#Professional"},
		NotificationSettings: defaultNotificationSettings,
		OptimalPostingTimes:  json.RawMessage(`[]`),
	}

	id, err := s.sr.Create(ctx, defaults)
	if err != nil {
		return nil, fmt.Errorf("error creating default settings: %w", err)
	}
	defaults.ID = id

	return defaults, nil
}

func (s *settingsService) UpdateSettings(ctx context.Context, userID int64, update *transfer.SettingsUpdate) error {
	// Creates the row if this user never loaded settings before.
	if _, err := s.GetSettingsInfo(ctx, userID); err != nil {
		return err
	}

	settings := &models.Settings{
		DefaultHashtags:      pq.StringArray(update.DefaultHashtags),
		AutoAddFirstComment:  update.AutoAddFirstComment,
		DefaultFirstComment:  update.DefaultFirstComment,
		NotificationSettings: update.NotificationSettings,
		OptimalPostingTimes:  update.OptimalPostingTimes,
	}
	if settings.NotificationSettings == nil {
		settings.NotificationSettings = defaultNotificationSettings
	}
	if settings.OptimalPostingTimes == nil {
		settings.OptimalPostingTimes = json.RawMessage(`[]`)
	}

	if err := s.sr.Update(ctx, settings, userID); err != nil {
		return fmt.Errorf("error updating settings: %w", err)
	}
	return nil
}
