package models

import "github.com/shopspring/decimal"

type OrderItemInput struct {
	ProductType string          `json:"product_type" validate:"required,max=100"`
	Variant     string          `json:"variant,omitempty" validate:"omitempty,max=100"`
	Size        string          `json:"size,omitempty" validate:"omitempty,max=50"`
	Quantity    int             `json:"quantity" validate:"required,gt=0"`
	Price       decimal.Decimal `json:"price"`
}

type CreateLeadRequest struct {
	CustomerName   string           `json:"customer_name" validate:"required,max=200"`
	Phone          string           `json:"phone" validate:"required,max=32"`
	Email          string           `json:"email,omitempty" validate:"omitempty,email"`
	Address        string           `json:"address,omitempty" validate:"omitempty,max=500"`
	Notes          string           `json:"notes,omitempty"`
	PaymentType    *PaymentType     `json:"payment_type,omitempty" validate:"omitempty,oneof=full_payment partial_payment cod"`
	DeliveryMethod *DeliveryMethod  `json:"delivery_method,omitempty" validate:"omitempty,oneof=courier store_collection"`
	Items          []OrderItemInput `json:"items" validate:"dive"`
}

// UpdateLeadRequest carries dialog edits. Nil fields are left untouched.
// Status is not editable here; stage changes go through the move endpoint.
type UpdateLeadRequest struct {
	CustomerName   *string         `json:"customer_name,omitempty" validate:"omitempty,min=1,max=200"`
	Phone          *string         `json:"phone,omitempty" validate:"omitempty,min=1,max=32"`
	Email          *string         `json:"email,omitempty" validate:"omitempty,email"`
	Address        *string         `json:"address,omitempty" validate:"omitempty,max=500"`
	Notes          *string         `json:"notes,omitempty"`
	PaymentType    *PaymentType    `json:"payment_type,omitempty" validate:"omitempty,oneof=full_payment partial_payment cod"`
	DeliveryMethod *DeliveryMethod `json:"delivery_method,omitempty" validate:"omitempty,oneof=courier store_collection"`
}

// Fields returns the column/value pairs to write.
func (r UpdateLeadRequest) Fields() map[string]interface{} {
	fields := make(map[string]interface{})
	if r.CustomerName != nil {
		fields["customer_name"] = *r.CustomerName
	}
	if r.Phone != nil {
		fields["phone"] = *r.Phone
	}
	if r.Email != nil {
		fields["email"] = *r.Email
	}
	if r.Address != nil {
		fields["address"] = *r.Address
	}
	if r.Notes != nil {
		fields["notes"] = *r.Notes
	}
	if r.PaymentType != nil {
		fields["payment_type"] = *r.PaymentType
	}
	if r.DeliveryMethod != nil {
		fields["delivery_method"] = *r.DeliveryMethod
	}
	return fields
}

type TrackingRequest struct {
	CourierName    string `json:"courier_name" validate:"required,max=100"`
	TrackingNumber string `json:"tracking_number" validate:"required,max=100"`
}

// MoveRequest is a drop: either onto a column or onto another card.
type MoveRequest struct {
	TargetStatus Status `json:"target_status,omitempty"`
	OverLeadID   string `json:"over_lead_id,omitempty" validate:"omitempty,uuid"`
}

type ResizeRequest struct {
	Width int `json:"width"`
}

type ToggleSelectionRequest struct {
	LeadID   string `json:"lead_id" validate:"required,uuid"`
	Selected bool   `json:"selected"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
