// Package board holds the authoritative in-memory view of the leads a user
// can see, keeps it in step with the remote store, and applies stage moves.
//
// Reconciliation is coarse: every change notification and every
// failed write triggers a full reload. The last reload to finish wins.
package board

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"pipeline-board/internal/models"
)

const defaultRestoreWindow = 30 * 24 * time.Hour

type Controller struct {
	store    LeadStore
	feed     ChangeFeed
	session  models.Session
	notifier Notifier

	now           func() time.Time
	restoreWindow time.Duration
	backoffs      []time.Duration
	maxRetries    int

	mu     sync.RWMutex
	leads  []models.Lead
	loaded bool
}

type Option func(*Controller)

func WithNotifier(n Notifier) Option {
	return func(c *Controller) { c.notifier = n }
}

func WithClock(now func() time.Time) Option {
	return func(c *Controller) { c.now = now }
}

func WithRestoreWindow(d time.Duration) Option {
	return func(c *Controller) { c.restoreWindow = d }
}

// WithRetryBackoff sets the waits between delete retries during a bulk
// soft delete.
func WithRetryBackoff(backoffs []time.Duration, maxRetries int) Option {
	return func(c *Controller) {
		c.backoffs = backoffs
		c.maxRetries = maxRetries
	}
}

func NewController(store LeadStore, feed ChangeFeed, session models.Session, opts ...Option) *Controller {
	c := &Controller{
		store:         store,
		feed:          feed,
		session:       session,
		notifier:      LogNotifier{},
		now:           time.Now,
		restoreWindow: defaultRestoreWindow,
		backoffs:      defaultBackoffs,
		maxRetries:    len(defaultBackoffs),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Controller) Session() models.Session {
	return c.session
}

// Load replaces the in-memory collection with a fresh fetch. On failure the
// previous collection is kept as is.
func (c *Controller) Load(ctx context.Context) error {
	fetched, err := c.store.ListLeads(ctx)
	if err != nil {
		return &RemoteError{Op: "load leads", Err: err}
	}

	visible := make([]models.Lead, 0, len(fetched))
	for _, lead := range fetched {
		if c.session.CanSee(lead.Status) {
			visible = append(visible, lead)
		}
	}

	c.mu.Lock()
	c.leads = visible
	c.loaded = true
	c.mu.Unlock()
	return nil
}

// Subscribe reloads the board on every change notification until ctx is
// done. Notifications are handled one at a time in arrival order.
func (c *Controller) Subscribe(ctx context.Context) error {
	changes, err := c.feed.Subscribe(ctx)
	if err != nil {
		return &RemoteError{Op: "subscribe to lead changes", Err: err}
	}

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case _, ok := <-changes:
				if !ok {
					return
				}
				if err := c.Load(ctx); err != nil {
					c.notify(Notice{Level: NoticeError, Message: "Could not refresh board: " + err.Error()})
				}
			}
		}
	}()
	return nil
}

func (c *Controller) Loaded() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.loaded
}

// Leads returns a copy of the current collection, newest first.
func (c *Controller) Leads() []models.Lead {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]models.Lead, len(c.leads))
	for i, lead := range c.leads {
		out[i] = lead.Clone()
	}
	return out
}

func (c *Controller) Lead(id uuid.UUID) (models.Lead, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if i := c.indexOf(id); i >= 0 {
		return c.leads[i].Clone(), true
	}
	return models.Lead{}, false
}

// indexOf must be called with mu held.
func (c *Controller) indexOf(id uuid.UUID) int {
	for i := range c.leads {
		if c.leads[i].ID == id {
			return i
		}
	}
	return -1
}

func (c *Controller) notify(n Notice) {
	if c.notifier != nil {
		c.notifier.Notify(c.session, n)
	}
}

// resync reloads after a failed write. A failing reload leaves whatever is
// in memory until the next notification.
func (c *Controller) resync(ctx context.Context) {
	if err := c.Load(ctx); err != nil {
		c.notify(Notice{Level: NoticeError, Message: "Could not refresh board: " + err.Error()})
	}
}
