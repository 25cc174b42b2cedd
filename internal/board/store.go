package board

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"pipeline-board/internal/models"
)

// LeadStore is the remote lead table the board mirrors.
type LeadStore interface {
	ListLeads(ctx context.Context) ([]models.Lead, error)
	// CreateLead writes the lead and its items, replacing any row with the
	// same id.
	CreateLead(ctx context.Context, lead models.Lead) error
	UpdateLead(ctx context.Context, id uuid.UUID, fields map[string]interface{}) error
	DeleteLeads(ctx context.Context, ids []uuid.UUID) error

	InsertDeletedLeads(ctx context.Context, snapshots []models.DeletedLead) error
	ListDeletedLeads(ctx context.Context) ([]models.DeletedLead, error)
	// GetDeletedLead returns nil, nil when no such entry exists.
	GetDeletedLead(ctx context.Context, id uuid.UUID) (*models.DeletedLead, error)
	RemoveDeletedLead(ctx context.Context, id uuid.UUID) error
}

// ChangeFeed delivers a notification whenever a watched table changes.
// The channel is closed when ctx is done.
type ChangeFeed interface {
	Subscribe(ctx context.Context) (<-chan models.Change, error)
}

var (
	ErrLeadNotFound    = errors.New("lead not found")
	ErrUnknownTarget   = errors.New("unknown drop target")
	ErrForbidden       = errors.New("not allowed for this role")
	ErrRestoreExpired  = errors.New("restore window has passed")
	ErrDeletedNotFound = errors.New("deleted lead not found")
	ErrRemote          = errors.New("remote store failure")
)

// RemoteError wraps a failed store call. errors.Is(err, ErrRemote) holds for
// every RemoteError.
type RemoteError struct {
	Op  string
	Err error
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("failed to %s: %v", e.Op, e.Err)
}

func (e *RemoteError) Unwrap() error {
	return e.Err
}

func (e *RemoteError) Is(target error) bool {
	return target == ErrRemote
}
