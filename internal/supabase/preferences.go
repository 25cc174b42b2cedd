package supabase

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"pipeline-board/internal/models"
)

const preferencesTable = "user_preferences"

// PreferenceStore keeps one board layout row per user.
type PreferenceStore struct {
	client *Client
}

func NewPreferenceStore(client *Client) *PreferenceStore {
	return &PreferenceStore{client: client}
}

func (s *PreferenceStore) GetPreference(ctx context.Context, userID uuid.UUID) (*models.ViewPreference, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var rows []models.ViewPreference
	_, err := s.client.Supabase.From(preferencesTable).
		Select("user_id, column_widths, minimized_columns, maximized_column", "", false).
		Eq("user_id", userID.String()).
		ExecuteTo(&rows)
	if err != nil {
		return nil, fmt.Errorf("failed to get preferences: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return &rows[0], nil
}

func (s *PreferenceStore) UpsertPreference(ctx context.Context, pref models.ViewPreference) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	_, _, err := s.client.Supabase.From(preferencesTable).
		Upsert(pref, "user_id", "minimal", "").
		Execute()
	if err != nil {
		return fmt.Errorf("failed to save preferences: %w", err)
	}
	return nil
}
