package board

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"pipeline-board/internal/models"
	"pipeline-board/internal/rules"
)

// DropTarget is where a card was dropped: a column, or another card whose
// stage the dragged card adopts. Status wins when both are set.
type DropTarget struct {
	Status     models.Status
	OverLeadID uuid.UUID
}

type TransitionResult struct {
	Lead    models.Lead
	From    models.Status
	To      models.Status
	Changed bool
	Warning string
}

// resolveTarget must be called with mu held.
func (c *Controller) resolveTarget(target DropTarget) (models.Status, error) {
	if target.Status != "" {
		if !target.Status.Valid() {
			return "", fmt.Errorf("%w: %q", ErrUnknownTarget, target.Status)
		}
		return target.Status, nil
	}
	if target.OverLeadID != uuid.Nil {
		if i := c.indexOf(target.OverLeadID); i >= 0 {
			return c.leads[i].Status, nil
		}
	}
	return "", ErrUnknownTarget
}

// BeginTransition moves a lead to the dropped stage. The move is applied in
// memory before the remote write; if the write fails the board is reloaded
// from the store rather than rolled back field by field.
func (c *Controller) BeginTransition(ctx context.Context, leadID uuid.UUID, target DropTarget) (*TransitionResult, error) {
	c.mu.Lock()
	idx := c.indexOf(leadID)
	if idx < 0 {
		c.mu.Unlock()
		return nil, ErrLeadNotFound
	}
	to, err := c.resolveTarget(target)
	if err != nil {
		c.mu.Unlock()
		return nil, err
	}

	lead := c.leads[idx]
	from := lead.Status
	if to == from {
		c.mu.Unlock()
		return &TransitionResult{Lead: lead.Clone(), From: from, To: to}, nil
	}

	if err := rules.CanTransition(lead, to); err != nil {
		c.mu.Unlock()
		c.notify(Notice{Level: NoticeWarning, Message: err.Error(), LeadID: lead.OrderID})
		return nil, err
	}

	c.leads[idx].Status = to
	c.leads[idx].LastStatusChange = c.now()
	moved := c.leads[idx].Clone()
	c.mu.Unlock()

	if err := c.store.UpdateLead(ctx, leadID, map[string]interface{}{"status": to}); err != nil {
		c.notify(Notice{Level: NoticeError, Message: "Failed to move order, refreshing board", LeadID: lead.OrderID})
		c.resync(ctx)
		return nil, &RemoteError{Op: "update lead status", Err: err}
	}

	warning := rules.DeliveryWarning(moved, to)
	c.notify(Notice{
		Level:   NoticeSuccess,
		Message: fmt.Sprintf("Order %s moved to %s", moved.OrderID, to.Label()),
		LeadID:  moved.OrderID,
	})
	if warning != "" {
		c.notify(Notice{Level: NoticeWarning, Message: warning, LeadID: moved.OrderID})
	}

	return &TransitionResult{
		Lead:    moved,
		From:    from,
		To:      to,
		Changed: true,
		Warning: warning,
	}, nil
}
