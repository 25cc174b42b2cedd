package board

import (
	"github.com/shopspring/decimal"
	"pipeline-board/internal/models"
	"pipeline-board/internal/rules"
)

type StageStats struct {
	Status models.Status
	Count  int
	Value  decimal.Decimal
}

type Stats struct {
	Stages             []StageStats
	TotalLeads         int
	TotalValue         decimal.Decimal
	MissingPaymentInfo int
	ByPaymentType      map[models.PaymentType]int
	Unpaid             int
}

// Summarize computes per-stage counts and order values.
func Summarize(leads []models.Lead) Stats {
	byStage := make(map[models.Status]*StageStats, len(models.Stages))
	stats := Stats{
		Stages:        make([]StageStats, len(models.Stages)),
		TotalValue:    decimal.Zero,
		ByPaymentType: make(map[models.PaymentType]int),
	}
	for i, s := range models.Stages {
		stats.Stages[i] = StageStats{Status: s, Value: decimal.Zero}
		byStage[s] = &stats.Stages[i]
	}

	for _, lead := range leads {
		total := lead.Total()
		stats.TotalLeads++
		stats.TotalValue = stats.TotalValue.Add(total)

		if st, ok := byStage[lead.Status]; ok {
			st.Count++
			st.Value = st.Value.Add(total)
		}
		if rules.MissingPaymentInfo(lead) {
			stats.MissingPaymentInfo++
		}
		if lead.HasPaymentType() {
			stats.ByPaymentType[*lead.PaymentType]++
		} else {
			stats.Unpaid++
		}
	}
	return stats
}

func (c *Controller) Stats() Stats {
	return Summarize(c.Leads())
}
