package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Status is a pipeline stage. The wire values are stored verbatim in the
// leads.status column.
type Status string

const (
	StatusLeads          Status = "leads"
	StatusPhotosReceived Status = "photos_received"
	StatusMockupDone     Status = "mockup_done"
	StatusPriceShared    Status = "price_shared"
	StatusPaymentDone    Status = "payment_done"
	StatusProduction     Status = "production"
	StatusDelivered      Status = "delivered"
)

// Stages lists every status in board order.
var Stages = []Status{
	StatusLeads,
	StatusPhotosReceived,
	StatusMockupDone,
	StatusPriceShared,
	StatusPaymentDone,
	StatusProduction,
	StatusDelivered,
}

var stageLabels = map[Status]string{
	StatusLeads:          "Leads",
	StatusPhotosReceived: "Photos Received",
	StatusMockupDone:     "Mockup Done",
	StatusPriceShared:    "Price Shared",
	StatusPaymentDone:    "Payment Done",
	StatusProduction:     "Production",
	StatusDelivered:      "Delivered",
}

func (s Status) Valid() bool {
	_, ok := stageLabels[s]
	return ok
}

func (s Status) Label() string {
	return stageLabels[s]
}

// Position returns the zero-based index of the stage, or -1.
func (s Status) Position() int {
	for i, st := range Stages {
		if st == s {
			return i
		}
	}
	return -1
}

type PaymentType string

const (
	PaymentFull    PaymentType = "full_payment"
	PaymentPartial PaymentType = "partial_payment"
	PaymentCOD     PaymentType = "cod"
)

func (p PaymentType) Valid() bool {
	switch p {
	case PaymentFull, PaymentPartial, PaymentCOD:
		return true
	}
	return false
}

type DeliveryMethod string

const (
	DeliveryCourier         DeliveryMethod = "courier"
	DeliveryStoreCollection DeliveryMethod = "store_collection"
)

func (d DeliveryMethod) Valid() bool {
	return d == DeliveryCourier || d == DeliveryStoreCollection
}

// Lead is one customer order on the board, joined with its order items.
type Lead struct {
	ID               uuid.UUID       `json:"id"`
	OrderID          string          `json:"order_id"`
	CustomerName     string          `json:"customer_name"`
	Phone            string          `json:"phone"`
	Email            string          `json:"email,omitempty"`
	Address          string          `json:"address,omitempty"`
	Notes            string          `json:"notes,omitempty"`
	Status           Status          `json:"status"`
	PaymentType      *PaymentType    `json:"payment_type"`
	DeliveryMethod   *DeliveryMethod `json:"delivery_method"`
	CourierName      *string         `json:"courier_name"`
	TrackingNumber   *string         `json:"tracking_number"`
	LastStatusChange time.Time       `json:"last_status_change"`
	CreatedBy        *uuid.UUID      `json:"created_by"`
	CreatedAt        time.Time       `json:"created_at"`
	OrderItems       []OrderItem     `json:"order_items"`
}

type OrderItem struct {
	ID          uuid.UUID       `json:"id"`
	LeadID      uuid.UUID       `json:"lead_id"`
	ProductType string          `json:"product_type"`
	Variant     string          `json:"variant,omitempty"`
	Size        string          `json:"size,omitempty"`
	Quantity    int             `json:"quantity"`
	Price       decimal.Decimal `json:"price"`
}

func (i OrderItem) Subtotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Total is the order value: sum of price x quantity over all items.
func (l Lead) Total() decimal.Decimal {
	total := decimal.Zero
	for _, item := range l.OrderItems {
		total = total.Add(item.Subtotal())
	}
	return total
}

func (l Lead) HasPaymentType() bool {
	return l.PaymentType != nil && *l.PaymentType != ""
}

func (l Lead) HasDeliveryMethod() bool {
	return l.DeliveryMethod != nil && *l.DeliveryMethod != ""
}

// Clone returns a copy that shares no slices or pointers with l.
func (l Lead) Clone() Lead {
	c := l
	if l.OrderItems != nil {
		c.OrderItems = make([]OrderItem, len(l.OrderItems))
		copy(c.OrderItems, l.OrderItems)
	}
	if l.PaymentType != nil {
		v := *l.PaymentType
		c.PaymentType = &v
	}
	if l.DeliveryMethod != nil {
		v := *l.DeliveryMethod
		c.DeliveryMethod = &v
	}
	if l.CourierName != nil {
		v := *l.CourierName
		c.CourierName = &v
	}
	if l.TrackingNumber != nil {
		v := *l.TrackingNumber
		c.TrackingNumber = &v
	}
	if l.CreatedBy != nil {
		v := *l.CreatedBy
		c.CreatedBy = &v
	}
	return c
}
