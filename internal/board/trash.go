package board

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"pipeline-board/internal/models"
)

// SoftDelete moves leads to the trash. Snapshots are written first; the
// live rows are only deleted once every snapshot is stored. A failed delete
// is retried, since deleting an already deleted row is harmless.
func (c *Controller) SoftDelete(ctx context.Context, ids []uuid.UUID) error {
	if !c.session.CanEditLeads() {
		return ErrForbidden
	}

	now := c.now()
	c.mu.RLock()
	snapshots := make([]models.DeletedLead, 0, len(ids))
	targets := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		i := c.indexOf(id)
		if i < 0 {
			continue
		}
		lead := c.leads[i]
		blob, err := json.Marshal(lead)
		if err != nil {
			c.mu.RUnlock()
			return fmt.Errorf("failed to snapshot lead %s: %w", lead.OrderID, err)
		}
		snapshots = append(snapshots, models.DeletedLead{
			ID:              uuid.New(),
			LeadID:          lead.ID,
			OrderID:         lead.OrderID,
			CustomerName:    lead.CustomerName,
			Snapshot:        blob,
			DeletedBy:       c.session.UserID,
			DeletedAt:       now,
			RestoreDeadline: now.Add(c.restoreWindow),
		})
		targets = append(targets, lead.ID)
	}
	c.mu.RUnlock()

	if len(targets) == 0 {
		return ErrLeadNotFound
	}

	if err := c.store.InsertDeletedLeads(ctx, snapshots); err != nil {
		return &RemoteError{Op: "store deleted lead snapshots", Err: err}
	}

	err := retryWithBackoff(ctx, c.backoffs, c.maxRetries, func() error {
		return c.store.DeleteLeads(ctx, targets)
	})
	if err != nil {
		c.resync(ctx)
		return &RemoteError{Op: "delete leads", Err: err}
	}

	c.mu.Lock()
	kept := c.leads[:0:0]
	for _, lead := range c.leads {
		if !containsID(targets, lead.ID) {
			kept = append(kept, lead)
		}
	}
	c.leads = kept
	c.mu.Unlock()

	c.notify(Notice{Level: NoticeSuccess, Message: fmt.Sprintf("%d order(s) moved to trash", len(targets))})
	return nil
}

func containsID(ids []uuid.UUID, id uuid.UUID) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

func (c *Controller) canManageDeleted(d models.DeletedLead) bool {
	return c.session.IsAdmin() || d.DeletedBy == c.session.UserID
}

// ListDeleted returns the trash entries this user may restore that are
// still inside their restore window.
func (c *Controller) ListDeleted(ctx context.Context) ([]models.DeletedLead, error) {
	all, err := c.store.ListDeletedLeads(ctx)
	if err != nil {
		return nil, &RemoteError{Op: "list deleted leads", Err: err}
	}

	now := c.now()
	out := make([]models.DeletedLead, 0, len(all))
	for _, d := range all {
		if d.Restorable(now) && c.canManageDeleted(d) {
			out = append(out, d)
		}
	}
	return out, nil
}

// Restore puts a trashed lead back on the board with its original id,
// order number, stage and items.
func (c *Controller) Restore(ctx context.Context, deletedID uuid.UUID) (*models.Lead, error) {
	d, err := c.store.GetDeletedLead(ctx, deletedID)
	if err != nil {
		return nil, &RemoteError{Op: "get deleted lead", Err: err}
	}
	if d == nil {
		return nil, ErrDeletedNotFound
	}
	if !c.canManageDeleted(*d) {
		return nil, ErrForbidden
	}
	if !d.Restorable(c.now()) {
		return nil, ErrRestoreExpired
	}

	lead, err := d.Lead()
	if err != nil {
		return nil, fmt.Errorf("failed to decode snapshot of %s: %w", d.OrderID, err)
	}

	if err := c.store.CreateLead(ctx, lead); err != nil {
		return nil, &RemoteError{Op: "restore lead", Err: err}
	}
	if err := c.store.RemoveDeletedLead(ctx, d.ID); err != nil {
		// The lead is live again; a leftover trash row only costs a duplicate entry.
		c.notify(Notice{Level: NoticeWarning, Message: "Order restored but trash entry could not be removed", LeadID: d.OrderID})
	}

	c.notify(Notice{Level: NoticeSuccess, Message: "Order " + lead.OrderID + " restored", LeadID: lead.OrderID})
	c.resync(ctx)
	return &lead, nil
}
