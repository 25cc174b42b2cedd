package supabase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/supabase-community/postgrest-go"
	"pipeline-board/internal/models"
)

const (
	leadsTable        = "leads"
	orderItemsTable   = "order_items"
	deletedLeadsTable = "deleted_leads"

	leadWithItems = "*, order_items(*)"
)

// LeadStore reads and writes the lead tables through PostgREST.
type LeadStore struct {
	client *Client
}

func NewLeadStore(client *Client) *LeadStore {
	return &LeadStore{client: client}
}

// leadRow is a lead as stored, without the embedded order items.
type leadRow struct {
	ID               uuid.UUID              `json:"id"`
	OrderID          string                 `json:"order_id"`
	CustomerName     string                 `json:"customer_name"`
	Phone            string                 `json:"phone"`
	Email            string                 `json:"email"`
	Address          string                 `json:"address"`
	Notes            string                 `json:"notes"`
	Status           models.Status          `json:"status"`
	PaymentType      *models.PaymentType    `json:"payment_type"`
	DeliveryMethod   *models.DeliveryMethod `json:"delivery_method"`
	CourierName      *string                `json:"courier_name"`
	TrackingNumber   *string                `json:"tracking_number"`
	LastStatusChange time.Time              `json:"last_status_change"`
	CreatedBy        *uuid.UUID             `json:"created_by"`
	CreatedAt        time.Time              `json:"created_at"`
}

func toLeadRow(l models.Lead) leadRow {
	return leadRow{
		ID:               l.ID,
		OrderID:          l.OrderID,
		CustomerName:     l.CustomerName,
		Phone:            l.Phone,
		Email:            l.Email,
		Address:          l.Address,
		Notes:            l.Notes,
		Status:           l.Status,
		PaymentType:      l.PaymentType,
		DeliveryMethod:   l.DeliveryMethod,
		CourierName:      l.CourierName,
		TrackingNumber:   l.TrackingNumber,
		LastStatusChange: l.LastStatusChange,
		CreatedBy:        l.CreatedBy,
		CreatedAt:        l.CreatedAt,
	}
}

func idStrings(ids []uuid.UUID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.String()
	}
	return out
}

func (s *LeadStore) ListLeads(ctx context.Context) ([]models.Lead, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var leads []models.Lead
	_, err := s.client.Supabase.From(leadsTable).
		Select(leadWithItems, "", false).
		Order("created_at", &postgrest.OrderOpts{Ascending: false}).
		ExecuteTo(&leads)
	if err != nil {
		return nil, fmt.Errorf("failed to list leads: %w", err)
	}
	return leads, nil
}

// CreateLead upserts the lead row and then its items, both keyed on id, so a
// call that failed between the two writes can be repeated.
func (s *LeadStore) CreateLead(ctx context.Context, lead models.Lead) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	_, _, err := s.client.Supabase.From(leadsTable).
		Upsert(toLeadRow(lead), "id", "minimal", "").
		Execute()
	if err != nil {
		return fmt.Errorf("failed to create lead: %w", err)
	}

	if len(lead.OrderItems) == 0 {
		return nil
	}
	items := make([]models.OrderItem, len(lead.OrderItems))
	for i, item := range lead.OrderItems {
		item.LeadID = lead.ID
		if item.ID == uuid.Nil {
			item.ID = uuid.New()
		}
		items[i] = item
	}
	_, _, err = s.client.Supabase.From(orderItemsTable).
		Upsert(items, "id", "minimal", "").
		Execute()
	if err != nil {
		return fmt.Errorf("failed to create order items for %s: %w", lead.OrderID, err)
	}
	return nil
}

func (s *LeadStore) UpdateLead(ctx context.Context, id uuid.UUID, fields map[string]interface{}) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	_, _, err := s.client.Supabase.From(leadsTable).
		Update(fields, "minimal", "").
		Eq("id", id.String()).
		Execute()
	if err != nil {
		return fmt.Errorf("failed to update lead: %w", err)
	}
	return nil
}

// DeleteLeads removes leads; their order items go with them (ON DELETE CASCADE).
func (s *LeadStore) DeleteLeads(ctx context.Context, ids []uuid.UUID) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	_, _, err := s.client.Supabase.From(leadsTable).
		Delete("minimal", "").
		In("id", idStrings(ids)).
		Execute()
	if err != nil {
		return fmt.Errorf("failed to delete leads: %w", err)
	}
	return nil
}

func (s *LeadStore) InsertDeletedLeads(ctx context.Context, snapshots []models.DeletedLead) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	_, _, err := s.client.Supabase.From(deletedLeadsTable).
		Insert(snapshots, false, "", "minimal", "").
		Execute()
	if err != nil {
		return fmt.Errorf("failed to insert deleted leads: %w", err)
	}
	return nil
}

func (s *LeadStore) ListDeletedLeads(ctx context.Context) ([]models.DeletedLead, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var deleted []models.DeletedLead
	_, err := s.client.Supabase.From(deletedLeadsTable).
		Select("*", "", false).
		Order("deleted_at", &postgrest.OrderOpts{Ascending: false}).
		ExecuteTo(&deleted)
	if err != nil {
		return nil, fmt.Errorf("failed to list deleted leads: %w", err)
	}
	return deleted, nil
}

func (s *LeadStore) GetDeletedLead(ctx context.Context, id uuid.UUID) (*models.DeletedLead, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var rows []models.DeletedLead
	_, err := s.client.Supabase.From(deletedLeadsTable).
		Select("*", "", false).
		Eq("id", id.String()).
		ExecuteTo(&rows)
	if err != nil {
		return nil, fmt.Errorf("failed to get deleted lead: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return &rows[0], nil
}

func (s *LeadStore) RemoveDeletedLead(ctx context.Context, id uuid.UUID) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	_, _, err := s.client.Supabase.From(deletedLeadsTable).
		Delete("minimal", "").
		Eq("id", id.String()).
		Execute()
	if err != nil {
		return fmt.Errorf("failed to remove deleted lead: %w", err)
	}
	return nil
}
