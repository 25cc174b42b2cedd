package services

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"pipeline-board/internal/board"
	"pipeline-board/internal/layout"
	"pipeline-board/internal/models"
	"pipeline-board/internal/selection"
)

// Workspace is everything one signed-in user works with: their board
// mirror, their column layout and their bulk selection.
type Workspace struct {
	Board     *board.Controller
	Layout    *layout.Manager
	Selection *selection.Set

	cancel   context.CancelFunc
	lastUsed time.Time
}

func (w *Workspace) close(ctx context.Context) {
	w.cancel()
	if err := w.Layout.Flush(ctx); err != nil {
		logrus.WithError(err).Warn("Failed to flush preferences on close")
	}
}

// BoardService hands out one Workspace per user, created on first use.
type BoardService struct {
	store     board.LeadStore
	feed      board.ChangeFeed
	prefs     layout.PreferenceStore
	saveDelay time.Duration
	opts      []board.Option
	now       func() time.Time

	mu         sync.Mutex
	workspaces map[uuid.UUID]*Workspace
}

func NewBoardService(
	store board.LeadStore,
	feed board.ChangeFeed,
	prefs layout.PreferenceStore,
	saveDelay time.Duration,
	opts ...board.Option,
) *BoardService {
	return &BoardService{
		store:      store,
		feed:       feed,
		prefs:      prefs,
		saveDelay:  saveDelay,
		opts:       opts,
		now:        time.Now,
		workspaces: make(map[uuid.UUID]*Workspace),
	}
}

// SetClock replaces the clock used to track workspace idle time.
func (s *BoardService) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

// lookup must be called with s.mu held. A hit counts as use.
func (s *BoardService) lookup(session models.Session) (*Workspace, bool) {
	ws, ok := s.workspaces[session.UserID]
	if !ok || ws.Board.Session().Role != session.Role {
		return nil, false
	}
	ws.lastUsed = s.now()
	return ws, true
}

// Workspace returns the user's workspace. A new one is subscribed to the
// change feed before its first load so no change can slip in between.
func (s *BoardService) Workspace(ctx context.Context, session models.Session) (*Workspace, error) {
	s.mu.Lock()
	if ws, ok := s.lookup(session); ok {
		s.mu.Unlock()
		return ws, nil
	}
	s.mu.Unlock()

	ws, err := s.open(ctx, session)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	if existing, ok := s.lookup(session); ok {
		// Another request opened it first.
		s.mu.Unlock()
		ws.cancel()
		return existing, nil
	}
	stale := s.workspaces[session.UserID]
	ws.lastUsed = s.now()
	s.workspaces[session.UserID] = ws
	s.mu.Unlock()

	if stale != nil {
		// Role changed since the stale workspace was opened.
		stale.close(ctx)
	}

	logrus.WithFields(logrus.Fields{
		"user_id": session.UserID.String(),
		"role":    string(session.Role),
	}).Info("Opened board workspace")
	return ws, nil
}

func (s *BoardService) open(ctx context.Context, session models.Session) (*Workspace, error) {
	subCtx, cancel := context.WithCancel(context.Background())

	ctrl := board.NewController(s.store, s.feed, session, s.opts...)
	if err := ctrl.Subscribe(subCtx); err != nil {
		cancel()
		return nil, err
	}
	if err := ctrl.Load(ctx); err != nil {
		cancel()
		return nil, err
	}

	lm := layout.NewManager(s.prefs, session.UserID, s.saveDelay)
	if err := lm.Load(ctx); err != nil {
		cancel()
		return nil, err
	}

	return &Workspace{
		Board:     ctrl,
		Layout:    lm,
		Selection: selection.New(),
		cancel:    cancel,
	}, nil
}

func (s *BoardService) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.workspaces)
}

// EvictIdle closes the workspaces nobody has used for ttl and returns how
// many were closed. A user coming back gets a freshly loaded workspace.
func (s *BoardService) EvictIdle(ctx context.Context, ttl time.Duration) int {
	s.mu.Lock()
	cutoff := s.now().Add(-ttl)
	var idle []*Workspace
	for userID, ws := range s.workspaces {
		if ws.lastUsed.After(cutoff) {
			continue
		}
		idle = append(idle, ws)
		delete(s.workspaces, userID)
	}
	s.mu.Unlock()

	for _, ws := range idle {
		ws.close(ctx)
	}
	if len(idle) > 0 {
		logrus.WithField("count", len(idle)).Info("Evicted idle board workspaces")
	}
	return len(idle)
}

// RunEviction calls EvictIdle every interval until ctx is done.
func (s *BoardService) RunEviction(ctx context.Context, ttl, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			flushCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			s.EvictIdle(flushCtx, ttl)
			cancel()
		}
	}
}

// Close stops every workspace and writes out pending layout changes.
func (s *BoardService) Close(ctx context.Context) {
	s.mu.Lock()
	all := s.workspaces
	s.workspaces = make(map[uuid.UUID]*Workspace)
	s.mu.Unlock()

	for _, ws := range all {
		ws.close(ctx)
	}
}
