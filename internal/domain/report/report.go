// Package report derives read-only views from tracking collections. Every
// function is pure and recomputed on each call; empty input gives zero
// totals and empty lists, never nil.
package report

import (
	"slices"

	"github.com/shopspring/decimal"

	"github.com/rpggio/byggkoll/internal/domain/tracking"
)

// TypeHours is the hour total for one work type.
type TypeHours struct {
	WorkType tracking.WorkType `json:"workType"`
	Hours    float64           `json:"hours"`
}

// ProjectHours sums the hours reported against projectID.
func ProjectHours(entries []tracking.TimeEntry, projectID string) float64 {
	total := decimal.Zero
	for _, e := range entries {
		if e.ProjectID == projectID {
			total = total.Add(decimal.NewFromFloat(e.Hours))
		}
	}
	return hoursFloat(total)
}

// ProjectCost sums the material amounts booked against projectID.
func ProjectCost(materials []tracking.MaterialCost, projectID string) float64 {
	total := decimal.Zero
	for _, m := range materials {
		if m.ProjectID == projectID {
			total = total.Add(decimal.NewFromFloat(m.Amount))
		}
	}
	return moneyFloat(total)
}

// SumHours totals the hours of entries.
func SumHours(entries []tracking.TimeEntry) float64 {
	total := decimal.Zero
	for _, e := range entries {
		total = total.Add(decimal.NewFromFloat(e.Hours))
	}
	return hoursFloat(total)
}

// SumAmounts totals the amounts of materials.
func SumAmounts(materials []tracking.MaterialCost) float64 {
	total := decimal.Zero
	for _, m := range materials {
		total = total.Add(decimal.NewFromFloat(m.Amount))
	}
	return moneyFloat(total)
}

// EntriesForProject returns the entries for projectID in stored order.
func EntriesForProject(entries []tracking.TimeEntry, projectID string) []tracking.TimeEntry {
	return filter(entries, func(e tracking.TimeEntry) bool { return e.ProjectID == projectID })
}

// MaterialsForProject returns the material costs for projectID in stored order.
func MaterialsForProject(materials []tracking.MaterialCost, projectID string) []tracking.MaterialCost {
	return filter(materials, func(m tracking.MaterialCost) bool { return m.ProjectID == projectID })
}

// HoursByType totals entries per work type, in tracking.WorkTypes order.
// Every known type is present, zero or not. Labels outside the known set
// follow in name order, so the rows always add up to SumHours.
func HoursByType(entries []tracking.TimeEntry) []TypeHours {
	sums := make(map[tracking.WorkType]decimal.Decimal, len(tracking.WorkTypes))
	var unknown []tracking.WorkType
	for _, e := range entries {
		if _, seen := sums[e.WorkType]; !seen && !e.WorkType.Valid() {
			unknown = append(unknown, e.WorkType)
		}
		sums[e.WorkType] = sums[e.WorkType].Add(decimal.NewFromFloat(e.Hours))
	}
	slices.Sort(unknown)

	out := make([]TypeHours, 0, len(tracking.WorkTypes)+len(unknown))
	for _, wt := range append(slices.Clone(tracking.WorkTypes), unknown...) {
		out = append(out, TypeHours{WorkType: wt, Hours: hoursFloat(sums[wt])})
	}
	return out
}

func filter[T any](list []T, keep func(T) bool) []T {
	out := []T{}
	for _, item := range list {
		if keep(item) {
			out = append(out, item)
		}
	}
	return out
}

func hoursFloat(d decimal.Decimal) float64 {
	return d.InexactFloat64()
}

// moneyFloat rounds currency to öre.
func moneyFloat(d decimal.Decimal) float64 {
	return d.Round(2).InexactFloat64()
}
