// Package rules decides whether a lead may enter a stage. Everything here is
// a pure function of the lead and the target stage.
package rules

import (
	"fmt"

	"github.com/google/uuid"
	"pipeline-board/internal/models"
)

const (
	ReasonPaymentTypeRequired = "payment type required"

	warningDeliveryMethodMissing = "delivery method not set"
)

// Rejection is returned when a transition precondition is not met.
type Rejection struct {
	LeadID uuid.UUID
	Target models.Status
	Reason string
}

func (r *Rejection) Error() string {
	return fmt.Sprintf("cannot move to %s: %s", r.Target, r.Reason)
}

// RequiresPaymentInfo reports whether entering the stage needs a payment type.
func RequiresPaymentInfo(target models.Status) bool {
	return target == models.StatusProduction || target == models.StatusDelivered
}

// CanTransition returns nil when the lead may move to target, or a
// *Rejection explaining why not. Only payment_type is a hard gate;
// delivery_method is reported by DeliveryWarning instead.
func CanTransition(lead models.Lead, target models.Status) error {
	if RequiresPaymentInfo(target) && !lead.HasPaymentType() {
		return &Rejection{
			LeadID: lead.ID,
			Target: target,
			Reason: ReasonPaymentTypeRequired,
		}
	}
	return nil
}

// DeliveryWarning returns a non-blocking notice for leads entering a
// payment-gated stage without a delivery method, or "".
func DeliveryWarning(lead models.Lead, target models.Status) string {
	if RequiresPaymentInfo(target) && !lead.HasDeliveryMethod() {
		return warningDeliveryMethodMissing
	}
	return ""
}

// MissingPaymentInfo flags leads past payment that still lack a payment
// type or a delivery method.
func MissingPaymentInfo(lead models.Lead) bool {
	switch lead.Status {
	case models.StatusPaymentDone, models.StatusProduction, models.StatusDelivered:
		return !lead.HasPaymentType() || !lead.HasDeliveryMethod()
	}
	return false
}
