package rules_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pipeline-board/internal/models"
	"pipeline-board/internal/rules"
	"pipeline-board/internal/test/testutil"
)

func TestCanTransition_PaymentGatedStages(t *testing.T) {
	lead := testutil.NewLead("Ann", models.StatusPaymentDone)

	for _, target := range []models.Status{models.StatusProduction, models.StatusDelivered} {
		err := rules.CanTransition(lead, target)
		require.Error(t, err, target)

		var rejection *rules.Rejection
		require.True(t, errors.As(err, &rejection))
		assert.Equal(t, rules.ReasonPaymentTypeRequired, rejection.Reason)
		assert.Equal(t, target, rejection.Target)
		assert.Equal(t, lead.ID, rejection.LeadID)
	}
}

func TestCanTransition_UngatedStagesAlwaysAllowed(t *testing.T) {
	lead := testutil.NewLead("Ann", models.StatusProduction)

	for _, target := range models.Stages {
		if rules.RequiresPaymentInfo(target) {
			continue
		}
		assert.NoError(t, rules.CanTransition(lead, target), target)
	}
}

func TestCanTransition_EmptyPaymentTypeCountsAsMissing(t *testing.T) {
	lead := testutil.NewLead("Ann", models.StatusPaymentDone)
	lead.PaymentType = testutil.Ptr(models.PaymentType(""))

	assert.Error(t, rules.CanTransition(lead, models.StatusProduction))
}

func TestCanTransition_DeliveryMethodIsNotAGate(t *testing.T) {
	lead := testutil.NewLead("Ann", models.StatusPaymentDone)
	lead.PaymentType = testutil.Ptr(models.PaymentCOD)

	assert.NoError(t, rules.CanTransition(lead, models.StatusDelivered))
	assert.Equal(t, "delivery method not set", rules.DeliveryWarning(lead, models.StatusDelivered))
	assert.Empty(t, rules.DeliveryWarning(lead, models.StatusMockupDone))

	lead.DeliveryMethod = testutil.Ptr(models.DeliveryStoreCollection)
	assert.Empty(t, rules.DeliveryWarning(lead, models.StatusDelivered))
}

func TestRejection_Error(t *testing.T) {
	err := rules.CanTransition(testutil.NewLead("Ann", models.StatusLeads), models.StatusProduction)
	assert.EqualError(t, err, "cannot move to production: payment type required")
}

func TestMissingPaymentInfo(t *testing.T) {
	tests := []struct {
		name   string
		status models.Status
		paid   bool
		want   bool
	}{
		{"early stage without payment", models.StatusPriceShared, false, false},
		{"payment done without payment", models.StatusPaymentDone, false, true},
		{"production without payment", models.StatusProduction, false, true},
		{"delivered with payment", models.StatusDelivered, true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lead := testutil.NewLead("Ann", tt.status)
			if tt.paid {
				lead = testutil.Paid(lead)
			}
			assert.Equal(t, tt.want, rules.MissingPaymentInfo(lead))
		})
	}
}

func TestMissingPaymentInfo_PartialInfo(t *testing.T) {
	lead := testutil.NewLead("Ann", models.StatusProduction)
	lead.PaymentType = testutil.Ptr(models.PaymentPartial)

	assert.True(t, rules.MissingPaymentInfo(lead))
}
