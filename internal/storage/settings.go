package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"wedding-memories/internal/apperr"
	"wedding-memories/internal/models"
)

// GetSetting decodes the JSON value stored under key into v.
// A missing key returns apperr.ErrNotFound.
func (s *Storage) GetSetting(ctx context.Context, key string, v any) error {
	var raw string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM settings WHERE key = $1`, key).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("setting %s: %w", key, apperr.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("failed to read setting %s: %w", key, err)
	}
	if err := json.Unmarshal([]byte(raw), v); err != nil {
		return fmt.Errorf("failed to unmarshal setting %s: %w", key, err)
	}
	return nil
}

// PutSetting stores v as JSON under key, replacing any previous value
func (s *Storage) PutSetting(ctx context.Context, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal setting %s: %w", key, err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO settings (key, value, updated_at) VALUES ($1, $2, $3)
		ON CONFLICT (key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, string(data), s.now(),
	)
	if err != nil {
		return fmt.Errorf("failed to save setting %s: %w", key, err)
	}
	return nil
}

// GetMusicSettings returns the background music settings. When none are
// stored the defaults are returned with apperr.ErrNotFound.
func (s *Storage) GetMusicSettings(ctx context.Context) (models.MusicSettings, error) {
	settings := models.DefaultMusicSettings()
	if err := s.GetSetting(ctx, models.MusicSettingsKey, &settings); err != nil {
		return models.DefaultMusicSettings(), err
	}
	return settings, nil
}

func (s *Storage) SaveMusicSettings(ctx context.Context, m models.MusicSettings) error {
	return s.PutSetting(ctx, models.MusicSettingsKey, m)
}
