package layout

import (
	"strings"

	"pipeline-board/internal/models"
	"pipeline-board/internal/rules"
)

const filterAll = "all"

// Filter narrows the board. Zero values match everything.
type Filter struct {
	Search             string
	ProductType        string
	Status             models.Status
	MissingPaymentOnly bool
}

func (f Filter) matchesSearch(lead models.Lead) bool {
	term := strings.ToLower(strings.TrimSpace(f.Search))
	if term == "" {
		return true
	}
	return strings.Contains(strings.ToLower(lead.CustomerName), term) ||
		strings.Contains(strings.ToLower(lead.OrderID), term) ||
		strings.Contains(strings.ToLower(lead.Phone), term)
}

func (f Filter) matchesProductType(lead models.Lead) bool {
	if f.ProductType == "" || f.ProductType == filterAll {
		return true
	}
	for _, item := range lead.OrderItems {
		if strings.EqualFold(item.ProductType, f.ProductType) {
			return true
		}
	}
	return false
}

func (f Filter) matchesStatus(lead models.Lead) bool {
	if f.Status == "" || f.Status == filterAll {
		return true
	}
	return lead.Status == f.Status
}

func (f Filter) matchesPayment(lead models.Lead) bool {
	return !f.MissingPaymentOnly || rules.MissingPaymentInfo(lead)
}

func (f Filter) Matches(lead models.Lead) bool {
	return f.matchesSearch(lead) &&
		f.matchesProductType(lead) &&
		f.matchesStatus(lead) &&
		f.matchesPayment(lead)
}

// Apply returns the matching leads in their original order.
func Apply(leads []models.Lead, f Filter) []models.Lead {
	out := make([]models.Lead, 0, len(leads))
	for _, lead := range leads {
		if f.Matches(lead) {
			out = append(out, lead)
		}
	}
	return out
}

// StageColumn is the set of filtered leads in one stage.
type StageColumn struct {
	Status models.Status
	Label  string
	Leads  []models.Lead
}

// Columns groups the filtered leads into one column per stage, in stage order.
func Columns(leads []models.Lead, f Filter) []StageColumn {
	filtered := Apply(leads, f)
	cols := make([]StageColumn, len(models.Stages))
	for i, s := range models.Stages {
		cols[i] = StageColumn{Status: s, Label: s.Label(), Leads: []models.Lead{}}
	}
	for _, lead := range filtered {
		if pos := lead.Status.Position(); pos >= 0 {
			cols[pos].Leads = append(cols[pos].Leads, lead)
		}
	}
	return cols
}

// MissingPaymentCount counts leads past payment with incomplete payment info.
func MissingPaymentCount(leads []models.Lead) int {
	n := 0
	for _, lead := range leads {
		if rules.MissingPaymentInfo(lead) {
			n++
		}
	}
	return n
}
