package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// DeletedLead is the trash entry written before a lead is removed. Snapshot
// holds the full Lead (items included) as JSON.
type DeletedLead struct {
	ID              uuid.UUID       `json:"id"`
	LeadID          uuid.UUID       `json:"lead_id"`
	OrderID         string          `json:"order_id"`
	CustomerName    string          `json:"customer_name"`
	Snapshot        json.RawMessage `json:"snapshot"`
	DeletedBy       uuid.UUID       `json:"deleted_by"`
	DeletedAt       time.Time       `json:"deleted_at"`
	RestoreDeadline time.Time       `json:"restore_deadline"`
}

func (d DeletedLead) Restorable(now time.Time) bool {
	return now.Before(d.RestoreDeadline)
}

func (d DeletedLead) Lead() (Lead, error) {
	var lead Lead
	err := json.Unmarshal(d.Snapshot, &lead)
	return lead, err
}
