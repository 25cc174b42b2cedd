// Package testutil holds in-memory stand-ins for the remote stores used by
// the package tests.
package testutil

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"pipeline-board/internal/board"
	"pipeline-board/internal/models"
)

var ErrUnavailable = errors.New("store unavailable")

func Ptr[T any](v T) *T {
	return &v
}

// NewLead builds a lead with one item worth 100 in the given stage.
func NewLead(name string, status models.Status) models.Lead {
	id := uuid.New()
	return models.Lead{
		ID:               id,
		OrderID:          "ORD-" + id.String()[:8],
		CustomerName:     name,
		Phone:            "555-0100",
		Status:           status,
		LastStatusChange: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		CreatedAt:        time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		OrderItems: []models.OrderItem{{
			ID:          uuid.New(),
			LeadID:      id,
			ProductType: "Frame",
			Quantity:    1,
			Price:       decimal.NewFromInt(100),
		}},
	}
}

// Paid sets both payment fields.
func Paid(lead models.Lead) models.Lead {
	lead.PaymentType = Ptr(models.PaymentFull)
	lead.DeliveryMethod = Ptr(models.DeliveryCourier)
	return lead
}

type Update struct {
	ID     uuid.UUID
	Fields map[string]interface{}
}

// FakeStore is an in-memory board.LeadStore. Successful writes are applied
// so a following ListLeads reflects them.
type FakeStore struct {
	mu sync.Mutex

	leads   []models.Lead
	deleted []models.DeletedLead

	ListFunc         func(call int) ([]models.Lead, error)
	ListErr          error
	CreateErr        error
	CreateItemsErr   error
	UpdateErr        error
	DeleteErr        error
	InsertDeletedErr error
	RemoveDeletedErr error

	listCalls   int
	deleteCalls int
	updates     []Update
}

var _ board.LeadStore = (*FakeStore)(nil)

func NewFakeStore(leads ...models.Lead) *FakeStore {
	return &FakeStore{leads: leads}
}

func (s *FakeStore) ListLeads(ctx context.Context) ([]models.Lead, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listCalls++
	if s.ListFunc != nil {
		return s.ListFunc(s.listCalls)
	}
	if s.ListErr != nil {
		return nil, s.ListErr
	}
	out := make([]models.Lead, len(s.leads))
	for i, lead := range s.leads {
		out[i] = lead.Clone()
	}
	return out, nil
}

func (s *FakeStore) CreateLead(ctx context.Context, lead models.Lead) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.CreateErr != nil {
		return s.CreateErr
	}
	// CreateItemsErr leaves the lead row written without its items.
	row := lead.Clone()
	if s.CreateItemsErr != nil {
		row.OrderItems = nil
	}
	replaced := false
	for i := range s.leads {
		if s.leads[i].ID == row.ID {
			s.leads[i] = row
			replaced = true
			break
		}
	}
	if !replaced {
		s.leads = append([]models.Lead{row}, s.leads...)
	}
	return s.CreateItemsErr
}

func (s *FakeStore) UpdateLead(ctx context.Context, id uuid.UUID, fields map[string]interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.updates = append(s.updates, Update{ID: id, Fields: fields})
	if s.UpdateErr != nil {
		return s.UpdateErr
	}
	for i := range s.leads {
		if s.leads[i].ID != id {
			continue
		}
		for key, v := range fields {
			switch key {
			case "status":
				s.leads[i].Status = v.(models.Status)
			case "customer_name":
				s.leads[i].CustomerName = v.(string)
			case "phone":
				s.leads[i].Phone = v.(string)
			case "notes":
				s.leads[i].Notes = v.(string)
			case "payment_type":
				s.leads[i].PaymentType = Ptr(v.(models.PaymentType))
			case "delivery_method":
				s.leads[i].DeliveryMethod = Ptr(v.(models.DeliveryMethod))
			case "courier_name":
				s.leads[i].CourierName = Ptr(v.(string))
			case "tracking_number":
				s.leads[i].TrackingNumber = Ptr(v.(string))
			}
		}
	}
	return nil
}

func (s *FakeStore) DeleteLeads(ctx context.Context, ids []uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deleteCalls++
	if s.DeleteErr != nil {
		return s.DeleteErr
	}
	kept := s.leads[:0:0]
	for _, lead := range s.leads {
		drop := false
		for _, id := range ids {
			if lead.ID == id {
				drop = true
				break
			}
		}
		if !drop {
			kept = append(kept, lead)
		}
	}
	s.leads = kept
	return nil
}

func (s *FakeStore) InsertDeletedLeads(ctx context.Context, snapshots []models.DeletedLead) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.InsertDeletedErr != nil {
		return s.InsertDeletedErr
	}
	s.deleted = append(s.deleted, snapshots...)
	return nil
}

func (s *FakeStore) ListDeletedLeads(ctx context.Context) ([]models.DeletedLead, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.DeletedLead, len(s.deleted))
	copy(out, s.deleted)
	return out, nil
}

func (s *FakeStore) GetDeletedLead(ctx context.Context, id uuid.UUID) (*models.DeletedLead, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, d := range s.deleted {
		if d.ID == id {
			d := d
			return &d, nil
		}
	}
	return nil, nil
}

func (s *FakeStore) RemoveDeletedLead(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.RemoveDeletedErr != nil {
		return s.RemoveDeletedErr
	}
	for i, d := range s.deleted {
		if d.ID == id {
			s.deleted = append(s.deleted[:i], s.deleted[i+1:]...)
			break
		}
	}
	return nil
}

// AddDeleted seeds a trash entry.
func (s *FakeStore) AddDeleted(d models.DeletedLead) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deleted = append(s.deleted, d)
}

func (s *FakeStore) StoredLeads() []models.Lead {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Lead, len(s.leads))
	copy(out, s.leads)
	return out
}

func (s *FakeStore) Deleted() []models.DeletedLead {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.DeletedLead, len(s.deleted))
	copy(out, s.deleted)
	return out
}

func (s *FakeStore) Updates() []Update {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Update, len(s.updates))
	copy(out, s.updates)
	return out
}

func (s *FakeStore) ListCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.listCalls
}

func (s *FakeStore) DeleteCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.deleteCalls
}

// FakeFeed is a board.ChangeFeed driven by Send.
type FakeFeed struct {
	mu    sync.Mutex
	chans map[int]chan models.Change
	next  int
	Err   error
}

var _ board.ChangeFeed = (*FakeFeed)(nil)

func NewFakeFeed() *FakeFeed {
	return &FakeFeed{chans: make(map[int]chan models.Change)}
}

func (f *FakeFeed) Subscribe(ctx context.Context) (<-chan models.Change, error) {
	if f.Err != nil {
		return nil, f.Err
	}
	ch := make(chan models.Change, 16)
	f.mu.Lock()
	id := f.next
	f.next++
	f.chans[id] = ch
	f.mu.Unlock()

	go func() {
		<-ctx.Done()
		f.mu.Lock()
		delete(f.chans, id)
		close(ch)
		f.mu.Unlock()
	}()
	return ch, nil
}

func (f *FakeFeed) Send(change models.Change) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, ch := range f.chans {
		ch <- change
	}
}

func (f *FakeFeed) Subscribers() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.chans)
}

// FakePreferences is an in-memory layout.PreferenceStore.
type FakePreferences struct {
	mu      sync.Mutex
	prefs   map[uuid.UUID]models.ViewPreference
	upserts int

	GetErr    error
	UpsertErr error
}

func NewFakePreferences() *FakePreferences {
	return &FakePreferences{prefs: make(map[uuid.UUID]models.ViewPreference)}
}

func (p *FakePreferences) GetPreference(ctx context.Context, userID uuid.UUID) (*models.ViewPreference, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.GetErr != nil {
		return nil, p.GetErr
	}
	pref, ok := p.prefs[userID]
	if !ok {
		return nil, nil
	}
	return &pref, nil
}

func (p *FakePreferences) UpsertPreference(ctx context.Context, pref models.ViewPreference) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.upserts++
	if p.UpsertErr != nil {
		return p.UpsertErr
	}
	p.prefs[pref.UserID] = pref
	return nil
}

// Put seeds a stored preference without counting it as an upsert.
func (p *FakePreferences) Put(pref models.ViewPreference) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.prefs[pref.UserID] = pref
}

func (p *FakePreferences) Stored(userID uuid.UUID) (models.ViewPreference, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	pref, ok := p.prefs[userID]
	return pref, ok
}

func (p *FakePreferences) Upserts() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.upserts
}

// RecordingNotifier keeps every notice it is given.
type RecordingNotifier struct {
	mu      sync.Mutex
	notices []board.Notice
}

func (r *RecordingNotifier) Notify(session models.Session, n board.Notice) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notices = append(r.notices, n)
}

func (r *RecordingNotifier) Notices() []board.Notice {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]board.Notice, len(r.notices))
	copy(out, r.notices)
	return out
}

// Levels returns the level of each notice in order.
func (r *RecordingNotifier) Levels() []board.NoticeLevel {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]board.NoticeLevel, len(r.notices))
	for i, n := range r.notices {
		out[i] = n.Level
	}
	return out
}
