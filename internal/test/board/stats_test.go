package board_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pipeline-board/internal/board"
	"pipeline-board/internal/models"
	"pipeline-board/internal/test/testutil"
)

func TestSummarize(t *testing.T) {
	a := testutil.NewLead("Ann", models.StatusLeads)
	b := testutil.Paid(testutil.NewLead("Bob", models.StatusProduction))
	b.OrderItems[0].Quantity = 3
	b.OrderItems[0].Price = decimal.RequireFromString("19.99")
	c := testutil.NewLead("Cid", models.StatusPaymentDone)

	stats := board.Summarize([]models.Lead{a, b, c})

	assert.Equal(t, 3, stats.TotalLeads)
	assert.True(t, decimal.RequireFromString("259.97").Equal(stats.TotalValue))
	assert.Equal(t, 1, stats.MissingPaymentInfo)
	assert.Equal(t, 2, stats.Unpaid)
	assert.Equal(t, 1, stats.ByPaymentType[models.PaymentFull])

	require.Len(t, stats.Stages, len(models.Stages))
	for i, st := range stats.Stages {
		assert.Equal(t, models.Stages[i], st.Status)
	}
	production := stats.Stages[models.StatusProduction.Position()]
	assert.Equal(t, 1, production.Count)
	assert.True(t, decimal.RequireFromString("59.97").Equal(production.Value))
}

func TestSummarize_Empty(t *testing.T) {
	stats := board.Summarize(nil)

	assert.Equal(t, 0, stats.TotalLeads)
	assert.True(t, stats.TotalValue.IsZero())
	for _, st := range stats.Stages {
		assert.Equal(t, 0, st.Count)
	}
}
