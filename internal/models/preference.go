package models

import "github.com/google/uuid"

// ViewPreference is the persisted board layout of one user.
type ViewPreference struct {
	UserID           uuid.UUID      `json:"user_id"`
	ColumnWidths     map[string]int `json:"column_widths"`
	MinimizedColumns []string       `json:"minimized_columns"`
	MaximizedColumn  *string        `json:"maximized_column"`
}
