// Package layout derives the visible board columns and tracks each user's
// column display state.
package layout

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"pipeline-board/internal/board"
	"pipeline-board/internal/logging"
	"pipeline-board/internal/models"
)

const (
	MinWidth       = 250
	MaxWidth       = 600
	DefaultWidth   = 320
	MinimizedWidth = 60
	MaximizedWidth = 960

	saveTimeout = 10 * time.Second
)

var ErrUnknownColumn = errors.New("unknown column")

type ColumnState int

const (
	StateNormal ColumnState = iota
	StateMinimized
	StateMaximized
)

func (s ColumnState) String() string {
	switch s {
	case StateMinimized:
		return "minimized"
	case StateMaximized:
		return "maximized"
	default:
		return "normal"
	}
}

// PreferenceStore persists one ViewPreference per user.
type PreferenceStore interface {
	// GetPreference returns nil, nil when the user has none yet.
	GetPreference(ctx context.Context, userID uuid.UUID) (*models.ViewPreference, error)
	UpsertPreference(ctx context.Context, pref models.ViewPreference) error
}

// Manager owns one user's column widths and display states. Every mutation
// schedules a save; saves inside the delay window are coalesced into one.
type Manager struct {
	store  PreferenceStore
	userID uuid.UUID
	delay  time.Duration

	// saveMu orders writes so the last one to land carries the newest state.
	saveMu sync.Mutex

	mu        sync.Mutex
	widths    map[models.Status]int
	states    map[models.Status]ColumnState
	maximized models.Status
	timer     *time.Timer
	pending   bool
}

func NewManager(store PreferenceStore, userID uuid.UUID, saveDelay time.Duration) *Manager {
	m := &Manager{
		store:  store,
		userID: userID,
		delay:  saveDelay,
	}
	m.reset()
	return m
}

func (m *Manager) reset() {
	m.widths = make(map[models.Status]int, len(models.Stages))
	m.states = make(map[models.Status]ColumnState, len(models.Stages))
	for _, s := range models.Stages {
		m.widths[s] = DefaultWidth
		m.states[s] = StateNormal
	}
	m.maximized = ""
}

// Load reads the stored preference. A user without one gets the defaults,
// which are written back immediately.
func (m *Manager) Load(ctx context.Context) error {
	pref, err := m.store.GetPreference(ctx, m.userID)
	if err != nil {
		return &board.RemoteError{Op: "read layout preferences", Err: err}
	}

	m.mu.Lock()
	m.reset()
	if pref == nil {
		snapshot := m.preferenceLocked()
		m.mu.Unlock()
		m.saveMu.Lock()
		defer m.saveMu.Unlock()
		if err := m.store.UpsertPreference(ctx, snapshot); err != nil {
			return &board.RemoteError{Op: "create default preferences", Err: err}
		}
		return nil
	}
	defer m.mu.Unlock()

	// Stored widths are kept as saved; clamping only happens on resize.
	for key, w := range pref.ColumnWidths {
		if s := models.Status(key); s.Valid() {
			m.widths[s] = w
		}
	}
	for _, key := range pref.MinimizedColumns {
		if s := models.Status(key); s.Valid() {
			m.states[s] = StateMinimized
		}
	}
	if pref.MaximizedColumn != nil {
		if s := models.Status(*pref.MaximizedColumn); s.Valid() {
			m.setMaximizedLocked(s)
		}
	}
	return nil
}

func (m *Manager) State(col models.Status) ColumnState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.states[col]
}

// Width is the configured width, whatever the display state.
func (m *Manager) Width(col models.Status) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.widths[col]
}

// DisplayWidth is the width a column is drawn at.
func (m *Manager) DisplayWidth(col models.Status) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.displayWidthLocked(col)
}

func (m *Manager) displayWidthLocked(col models.Status) int {
	switch m.states[col] {
	case StateMinimized:
		return MinimizedWidth
	case StateMaximized:
		return MaximizedWidth
	default:
		return m.widths[col]
	}
}

// Maximized returns the maximized column, if any.
func (m *Manager) Maximized() (models.Status, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.maximized, m.maximized != ""
}

// setMaximizedLocked is the only place a column becomes maximized; any
// previous holder drops back to normal first.
func (m *Manager) setMaximizedLocked(col models.Status) {
	if m.maximized != "" && m.maximized != col {
		m.states[m.maximized] = StateNormal
	}
	m.states[col] = StateMaximized
	m.maximized = col
}

func (m *Manager) setStateLocked(col models.Status, state ColumnState) {
	if state == StateMaximized {
		m.setMaximizedLocked(col)
		return
	}
	if m.maximized == col {
		m.maximized = ""
	}
	m.states[col] = state
}

func (m *Manager) transition(ctx context.Context, col models.Status, state ColumnState) error {
	if !col.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownColumn, col)
	}
	m.mu.Lock()
	m.setStateLocked(col, state)
	m.mu.Unlock()
	return m.schedule(ctx)
}

func (m *Manager) Minimize(ctx context.Context, col models.Status) error {
	return m.transition(ctx, col, StateMinimized)
}

func (m *Manager) Maximize(ctx context.Context, col models.Status) error {
	return m.transition(ctx, col, StateMaximized)
}

// Restore returns a column to its normal, configured-width display.
func (m *Manager) Restore(ctx context.Context, col models.Status) error {
	return m.transition(ctx, col, StateNormal)
}

func (m *Manager) ToggleMinimize(ctx context.Context, col models.Status) error {
	if m.State(col) == StateMinimized {
		return m.Restore(ctx, col)
	}
	return m.Minimize(ctx, col)
}

func (m *Manager) ToggleMaximize(ctx context.Context, col models.Status) error {
	if m.State(col) == StateMaximized {
		return m.Restore(ctx, col)
	}
	return m.Maximize(ctx, col)
}

// Resize stores a new width clamped to [MinWidth, MaxWidth] and returns it.
// It is called for every pointer move of a drag.
func (m *Manager) Resize(ctx context.Context, col models.Status, width int) (int, error) {
	if !col.Valid() {
		return 0, fmt.Errorf("%w: %q", ErrUnknownColumn, col)
	}
	if width < MinWidth {
		width = MinWidth
	}
	if width > MaxWidth {
		width = MaxWidth
	}

	m.mu.Lock()
	m.widths[col] = width
	m.mu.Unlock()
	return width, m.schedule(ctx)
}

// Preference returns the persisted form of the current state.
func (m *Manager) Preference() models.ViewPreference {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.preferenceLocked()
}

func (m *Manager) preferenceLocked() models.ViewPreference {
	pref := models.ViewPreference{
		UserID:           m.userID,
		ColumnWidths:     make(map[string]int, len(m.widths)),
		MinimizedColumns: []string{},
	}
	for _, s := range models.Stages {
		pref.ColumnWidths[string(s)] = m.widths[s]
		if m.states[s] == StateMinimized {
			pref.MinimizedColumns = append(pref.MinimizedColumns, string(s))
		}
	}
	if m.maximized != "" {
		key := string(m.maximized)
		pref.MaximizedColumn = &key
	}
	return pref
}

// schedule saves now when there is no delay, otherwise (re)arms the timer.
func (m *Manager) schedule(ctx context.Context) error {
	m.mu.Lock()
	m.pending = true
	if m.delay <= 0 {
		m.mu.Unlock()
		return m.Flush(ctx)
	}
	defer m.mu.Unlock()
	if m.timer != nil {
		m.timer.Stop()
	}
	m.timer = time.AfterFunc(m.delay, m.saveAsync)
	return nil
}

func (m *Manager) saveAsync() {
	ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
	defer cancel()
	if err := m.Flush(ctx); err != nil {
		logging.LogError("preference_save", err, map[string]interface{}{
			"user_id": m.userID.String(),
		})
	}
}

// Flush writes a pending save right away. The snapshot is taken only once
// any earlier write has returned.
func (m *Manager) Flush(ctx context.Context) error {
	m.saveMu.Lock()
	defer m.saveMu.Unlock()

	m.mu.Lock()
	if !m.pending {
		m.mu.Unlock()
		return nil
	}
	m.pending = false
	if m.timer != nil {
		m.timer.Stop()
		m.timer = nil
	}
	pref := m.preferenceLocked()
	m.mu.Unlock()

	if err := m.store.UpsertPreference(ctx, pref); err != nil {
		m.mu.Lock()
		m.pending = true
		m.mu.Unlock()
		return &board.RemoteError{Op: "store layout preferences", Err: err}
	}
	return nil
}

// ColumnView is a stage column ready to draw.
type ColumnView struct {
	StageColumn
	State        ColumnState
	Width        int
	DisplayWidth int
}

// View combines the filtered columns with this user's display state.
func (m *Manager) View(leads []models.Lead, f Filter) []ColumnView {
	cols := Columns(leads, f)

	m.mu.Lock()
	defer m.mu.Unlock()
	views := make([]ColumnView, len(cols))
	for i, col := range cols {
		views[i] = ColumnView{
			StageColumn:  col,
			State:        m.states[col.Status],
			Width:        m.widths[col.Status],
			DisplayWidth: m.displayWidthLocked(col.Status),
		}
	}
	return views
}
