package supabase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/lib/pq"
	"github.com/sirupsen/logrus"
	"pipeline-board/internal/logging"
	"pipeline-board/internal/models"
)

// NotifyChannel is the Postgres channel the lead triggers publish on. The
// payload is the name of the table that changed.
const NotifyChannel = "board_changes"

// ResyncTable marks a notification sent after the listener reconnected;
// changes may have been missed, so subscribers reload everything.
const ResyncTable = "*"

const (
	minReconnectInterval = 10 * time.Second
	maxReconnectInterval = time.Minute
	pingInterval         = 90 * time.Second
	subscriberBuffer     = 32
)

// RealtimeClient fans Postgres change notifications out to every board
// subscribed to it.
type RealtimeClient struct {
	dbURL string

	mu          sync.Mutex
	nextID      int
	subscribers map[int]chan models.Change
}

func NewRealtimeClient(dbURL string) *RealtimeClient {
	return &RealtimeClient{
		dbURL:       dbURL,
		subscribers: make(map[int]chan models.Change),
	}
}

// Subscribe returns a channel of changes that is closed when ctx is done.
func (r *RealtimeClient) Subscribe(ctx context.Context) (<-chan models.Change, error) {
	ch := make(chan models.Change, subscriberBuffer)

	r.mu.Lock()
	id := r.nextID
	r.nextID++
	r.subscribers[id] = ch
	r.mu.Unlock()

	go func() {
		<-ctx.Done()
		r.mu.Lock()
		delete(r.subscribers, id)
		close(ch)
		r.mu.Unlock()
	}()

	return ch, nil
}

func (r *RealtimeClient) SubscriberCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.subscribers)
}

// Broadcast delivers change to every subscriber without blocking. A
// subscriber with a full buffer already has a reload queued, so the extra
// notification is dropped.
func (r *RealtimeClient) Broadcast(change models.Change) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, ch := range r.subscribers {
		select {
		case ch <- change:
		default:
			logrus.WithFields(logrus.Fields{
				"subscriber": id,
				"table":      change.Table,
			}).Debug("Subscriber busy, notification dropped")
		}
	}
}

// Run listens on NotifyChannel until ctx is done.
func (r *RealtimeClient) Run(ctx context.Context) error {
	listener := pq.NewListener(r.dbURL, minReconnectInterval, maxReconnectInterval,
		func(ev pq.ListenerEventType, err error) {
			if err != nil {
				logging.LogError("realtime_listener", err, map[string]interface{}{
					"event": int(ev),
				})
			}
		})
	defer listener.Close()

	if err := listener.Listen(NotifyChannel); err != nil {
		return fmt.Errorf("failed to listen on %s: %w", NotifyChannel, err)
	}
	logrus.WithField("channel", NotifyChannel).Info("Listening for board changes")

	for {
		select {
		case <-ctx.Done():
			return nil
		case n := <-listener.Notify:
			if n == nil {
				// Connection was re-established.
				r.Broadcast(models.Change{Table: ResyncTable})
				continue
			}
			r.Broadcast(models.Change{Table: n.Extra})
		case <-time.After(pingInterval):
			go func() {
				if err := listener.Ping(); err != nil {
					logging.LogError("realtime_ping", err, nil)
				}
			}()
		}
	}
}
