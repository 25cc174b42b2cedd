package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type LeadResponse struct {
	Lead
	TotalValue         decimal.Decimal `json:"total_value"`
	MissingPaymentInfo bool            `json:"missing_payment_info"`
}

type ColumnResponse struct {
	Status       Status         `json:"status"`
	Label        string         `json:"label"`
	State        string         `json:"state"`
	Width        int            `json:"width"`
	DisplayWidth int            `json:"display_width"`
	Count        int            `json:"count"`
	Leads        []LeadResponse `json:"leads"`
}

type BoardResponse struct {
	Columns            []ColumnResponse `json:"columns"`
	MissingPaymentInfo int              `json:"missing_payment_info"`
	SelectionActive    bool             `json:"selection_active"`
	SelectedLeadIDs    []string         `json:"selected_lead_ids"`
}

type MoveResponse struct {
	Lead    LeadResponse `json:"lead"`
	From    Status       `json:"from"`
	To      Status       `json:"to"`
	Changed bool         `json:"changed"`
	Warning string       `json:"warning,omitempty"`
}

type PreferenceResponse struct {
	ColumnWidths     map[string]int `json:"column_widths"`
	MinimizedColumns []string       `json:"minimized_columns"`
	MaximizedColumn  *string        `json:"maximized_column"`
}

type ResizeResponse struct {
	Status Status `json:"status"`
	Width  int    `json:"width"`
}

type SelectionResponse struct {
	Active          bool     `json:"active"`
	SelectedLeadIDs []string `json:"selected_lead_ids"`
}

type BulkDeleteResponse struct {
	Deleted int `json:"deleted"`
}

type DeletedLeadSummary struct {
	ID              string    `json:"id"`
	LeadID          string    `json:"lead_id"`
	OrderID         string    `json:"order_id"`
	CustomerName    string    `json:"customer_name"`
	DeletedAt       time.Time `json:"deleted_at"`
	RestoreDeadline time.Time `json:"restore_deadline"`
}

type TrashResponse struct {
	Items []DeletedLeadSummary `json:"items"`
}

type StageStatsResponse struct {
	Status Status          `json:"status"`
	Label  string          `json:"label"`
	Count  int             `json:"count"`
	Value  decimal.Decimal `json:"value"`
}

type StatsResponse struct {
	Stages             []StageStatsResponse `json:"stages"`
	TotalLeads         int                  `json:"total_leads"`
	TotalValue         decimal.Decimal      `json:"total_value"`
	MissingPaymentInfo int                  `json:"missing_payment_info"`
	ByPaymentType      map[string]int       `json:"by_payment_type"`
	Unpaid             int                  `json:"unpaid"`
}

type Attachment struct {
	Filename    string `json:"filename"`
	StoragePath string `json:"storage_path"`
	URL         string `json:"url"`
}

type AttachmentsResponse struct {
	Files []Attachment `json:"files"`
}

type HealthResponse struct {
	Status     string `json:"status"`
	Workspaces int    `json:"workspaces"`
}
