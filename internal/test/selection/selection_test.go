package selection_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pipeline-board/internal/board"
	"pipeline-board/internal/models"
	"pipeline-board/internal/selection"
	"pipeline-board/internal/test/testutil"
)

type failingDeleter struct {
	calls int
}

func (d *failingDeleter) SoftDelete(ctx context.Context, ids []uuid.UUID) error {
	d.calls++
	return testutil.ErrUnavailable
}

func TestToggle_RequiresSelectionMode(t *testing.T) {
	s := selection.New()

	err := s.Toggle(uuid.New(), true)
	assert.ErrorIs(t, err, selection.ErrNotActive)
	assert.Equal(t, 0, s.Len())
}

func TestToggle_IsIdempotent(t *testing.T) {
	s := selection.New()
	s.Enter()
	a, b := uuid.New(), uuid.New()

	require.NoError(t, s.Toggle(a, true))
	require.NoError(t, s.Toggle(a, true))
	require.NoError(t, s.Toggle(b, true))
	assert.Equal(t, []uuid.UUID{a, b}, s.Selected())

	require.NoError(t, s.Toggle(a, false))
	require.NoError(t, s.Toggle(a, false))
	assert.Equal(t, []uuid.UUID{b}, s.Selected())
	assert.False(t, s.Contains(a))
	assert.True(t, s.Contains(b))
}

func TestExit_ClearsSelection(t *testing.T) {
	s := selection.New()
	s.Enter()
	require.NoError(t, s.Toggle(uuid.New(), true))

	s.Exit()
	assert.False(t, s.Active())
	assert.Equal(t, 0, s.Len())
}

func TestBulkSoftDelete_EmptySelection(t *testing.T) {
	s := selection.New()
	s.Enter()
	d := &failingDeleter{}

	_, err := s.BulkSoftDelete(context.Background(), d)
	assert.ErrorIs(t, err, selection.ErrEmptySelection)
	assert.Equal(t, 0, d.calls)
}

func TestBulkSoftDelete_TrashesSelectedLeads(t *testing.T) {
	now := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)
	a := testutil.NewLead("Ann", models.StatusLeads)
	b := testutil.NewLead("Bob", models.StatusMockupDone)
	c := testutil.Paid(testutil.NewLead("Cid", models.StatusProduction))
	keep := testutil.NewLead("Dee", models.StatusLeads)
	store := testutil.NewFakeStore(a, b, c, keep)

	ctrl := board.NewController(store, testutil.NewFakeFeed(),
		models.Session{UserID: uuid.New(), Role: models.RoleSales},
		board.WithClock(func() time.Time { return now }),
		board.WithNotifier(&testutil.RecordingNotifier{}),
	)
	require.NoError(t, ctrl.Load(context.Background()))

	s := selection.New()
	s.Enter()
	for _, lead := range []models.Lead{a, b, c} {
		require.NoError(t, s.Toggle(lead.ID, true))
	}

	n, err := s.BulkSoftDelete(context.Background(), ctrl)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	deleted := store.Deleted()
	require.Len(t, deleted, 3)
	for _, d := range deleted {
		assert.Equal(t, now.Add(30*24*time.Hour), d.RestoreDeadline)
	}

	leads := ctrl.Leads()
	require.Len(t, leads, 1)
	assert.Equal(t, keep.ID, leads[0].ID)

	assert.Equal(t, 0, s.Len())
	assert.False(t, s.Active())
}

func TestBulkSoftDelete_FailureKeepsSelection(t *testing.T) {
	s := selection.New()
	s.Enter()
	ids := []uuid.UUID{uuid.New(), uuid.New(), uuid.New()}
	for _, id := range ids {
		require.NoError(t, s.Toggle(id, true))
	}

	_, err := s.BulkSoftDelete(context.Background(), &failingDeleter{})

	assert.ErrorIs(t, err, selection.ErrBulkDelete)
	assert.True(t, errors.Is(err, testutil.ErrUnavailable))
	assert.True(t, s.Active())
	assert.Equal(t, ids, s.Selected())
}
