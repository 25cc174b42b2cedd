package board

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"pipeline-board/internal/models"
)

func newOrderID(id uuid.UUID) string {
	return "ORD-" + strings.ToUpper(strings.ReplaceAll(id.String(), "-", "")[:8])
}

// CreateLead inserts a new lead in the first stage and reloads the board.
func (c *Controller) CreateLead(ctx context.Context, req models.CreateLeadRequest) (*models.Lead, error) {
	if !c.session.CanEditLeads() {
		return nil, ErrForbidden
	}

	now := c.now()
	id := uuid.New()
	createdBy := c.session.UserID
	lead := models.Lead{
		ID:               id,
		OrderID:          newOrderID(id),
		CustomerName:     req.CustomerName,
		Phone:            req.Phone,
		Email:            req.Email,
		Address:          req.Address,
		Notes:            req.Notes,
		Status:           models.StatusLeads,
		PaymentType:      req.PaymentType,
		DeliveryMethod:   req.DeliveryMethod,
		LastStatusChange: now,
		CreatedBy:        &createdBy,
		CreatedAt:        now,
	}
	for _, in := range req.Items {
		lead.OrderItems = append(lead.OrderItems, models.OrderItem{
			ID:          uuid.New(),
			LeadID:      id,
			ProductType: in.ProductType,
			Variant:     in.Variant,
			Size:        in.Size,
			Quantity:    in.Quantity,
			Price:       in.Price,
		})
	}

	if err := c.store.CreateLead(ctx, lead); err != nil {
		return nil, &RemoteError{Op: "create lead", Err: err}
	}
	c.notify(Notice{Level: NoticeSuccess, Message: "Order " + lead.OrderID + " created", LeadID: lead.OrderID})
	c.resync(ctx)
	return &lead, nil
}

// UpdateFields writes dialog edits. Status is never part of an edit.
func (c *Controller) UpdateFields(ctx context.Context, id uuid.UUID, req models.UpdateLeadRequest) (*models.Lead, error) {
	if !c.session.CanEditLeads() {
		return nil, ErrForbidden
	}
	return c.update(ctx, id, req.Fields(), "update lead")
}

// UpdateTracking records the courier and tracking number of a shipment.
func (c *Controller) UpdateTracking(ctx context.Context, id uuid.UUID, req models.TrackingRequest) (*models.Lead, error) {
	if !c.session.CanUpdateTracking() {
		return nil, ErrForbidden
	}
	fields := map[string]interface{}{
		"courier_name":    req.CourierName,
		"tracking_number": req.TrackingNumber,
	}
	return c.update(ctx, id, fields, "update tracking")
}

func (c *Controller) update(ctx context.Context, id uuid.UUID, fields map[string]interface{}, op string) (*models.Lead, error) {
	lead, ok := c.Lead(id)
	if !ok {
		return nil, ErrLeadNotFound
	}
	if len(fields) == 0 {
		return &lead, nil
	}

	if err := c.store.UpdateLead(ctx, id, fields); err != nil {
		c.resync(ctx)
		return nil, &RemoteError{Op: op, Err: err}
	}
	c.resync(ctx)

	if updated, ok := c.Lead(id); ok {
		return &updated, nil
	}
	return &lead, nil
}
