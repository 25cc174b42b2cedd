// Package selection tracks the cards picked for a bulk action.
package selection

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
)

var (
	ErrNotActive      = errors.New("selection mode is not active")
	ErrEmptySelection = errors.New("no leads selected")
	ErrBulkDelete     = errors.New("bulk delete failed")
)

// Deleter moves leads to the trash.
type Deleter interface {
	SoftDelete(ctx context.Context, ids []uuid.UUID) error
}

// Set is an ordered set of lead ids plus the selection-mode flag.
type Set struct {
	mu     sync.Mutex
	active bool
	order  []uuid.UUID
	ids    map[uuid.UUID]struct{}
}

func New() *Set {
	return &Set{ids: make(map[uuid.UUID]struct{})}
}

func (s *Set) Enter() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.active = true
}

// Exit leaves selection mode and drops every selected id.
func (s *Set) Exit() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.active = false
	s.clearLocked()
}

func (s *Set) clearLocked() {
	s.order = nil
	s.ids = make(map[uuid.UUID]struct{})
}

func (s *Set) Active() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active
}

// Toggle adds or removes id. Repeating the same call changes nothing.
func (s *Set) Toggle(id uuid.UUID, selected bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.active {
		return ErrNotActive
	}

	_, present := s.ids[id]
	switch {
	case selected && !present:
		s.ids[id] = struct{}{}
		s.order = append(s.order, id)
	case !selected && present:
		delete(s.ids, id)
		for i, v := range s.order {
			if v == id {
				s.order = append(s.order[:i], s.order[i+1:]...)
				break
			}
		}
	}
	return nil
}

func (s *Set) Contains(id uuid.UUID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.ids[id]
	return ok
}

// Selected returns the ids in the order they were picked.
func (s *Set) Selected() []uuid.UUID {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]uuid.UUID, len(s.order))
	copy(out, s.order)
	return out
}

func (s *Set) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.order)
}

// BulkSoftDelete trashes every selected lead. The set is cleared and
// selection mode left only once the delete has committed; on failure the
// selection stays so the user can retry.
func (s *Set) BulkSoftDelete(ctx context.Context, d Deleter) (int, error) {
	ids := s.Selected()
	if len(ids) == 0 {
		return 0, ErrEmptySelection
	}

	if err := d.SoftDelete(ctx, ids); err != nil {
		return 0, fmt.Errorf("%w: %w", ErrBulkDelete, err)
	}

	s.mu.Lock()
	s.active = false
	s.clearLocked()
	s.mu.Unlock()
	return len(ids), nil
}
