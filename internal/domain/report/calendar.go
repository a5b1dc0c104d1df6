package report

import (
	"cmp"
	"slices"

	"github.com/shopspring/decimal"

	"github.com/rpggio/byggkoll/internal/domain/tracking"
)

// CalendarFilter narrows the calendar. Zero fields match everything; From and
// To are inclusive YYYY-MM-DD bounds.
type CalendarFilter struct {
	From      string
	To        string
	Worker    string
	ProjectID string
}

// Matches reports whether e passes the filter.
func (f CalendarFilter) Matches(e tracking.TimeEntry) bool {
	if f.From != "" && e.Date < f.From {
		return false
	}
	if f.To != "" && e.Date > f.To {
		return false
	}
	if f.Worker != "" && e.WorkerName != f.Worker {
		return false
	}
	if f.ProjectID != "" && e.ProjectID != f.ProjectID {
		return false
	}
	return true
}

// FilterEntries returns the entries passing f in stored order.
func FilterEntries(entries []tracking.TimeEntry, f CalendarFilter) []tracking.TimeEntry {
	return filter(entries, f.Matches)
}

// CalendarDay is the reported time for one date.
type CalendarDay struct {
	Date       string      `json:"date"`
	TotalHours float64     `json:"totalHours"`
	Workers    []WorkerDay `json:"workers"`
}

// WorkerDay is one worker's entries on a date.
type WorkerDay struct {
	WorkerName string               `json:"workerName"`
	Hours      float64              `json:"hours"`
	Entries    []tracking.TimeEntry `json:"entries"`
}

// Calendar groups matching entries by date, then by worker name. Days are in
// ascending date order and workers in name order. Entries keep their stored
// order within a worker.
func Calendar(entries []tracking.TimeEntry, f CalendarFilter) []CalendarDay {
	byDate := map[string]map[string][]tracking.TimeEntry{}
	for _, e := range entries {
		if !f.Matches(e) {
			continue
		}
		workers, ok := byDate[e.Date]
		if !ok {
			workers = map[string][]tracking.TimeEntry{}
			byDate[e.Date] = workers
		}
		workers[e.WorkerName] = append(workers[e.WorkerName], e)
	}

	days := make([]CalendarDay, 0, len(byDate))
	for date, workers := range byDate {
		day := CalendarDay{Date: date, Workers: make([]WorkerDay, 0, len(workers))}
		dayTotal := decimal.Zero
		for name, list := range workers {
			hours := decimal.Zero
			for _, e := range list {
				hours = hours.Add(decimal.NewFromFloat(e.Hours))
			}
			dayTotal = dayTotal.Add(hours)
			day.Workers = append(day.Workers, WorkerDay{WorkerName: name, Hours: hoursFloat(hours), Entries: list})
		}
		slices.SortFunc(day.Workers, func(a, b WorkerDay) int { return cmp.Compare(a.WorkerName, b.WorkerName) })
		day.TotalHours = hoursFloat(dayTotal)
		days = append(days, day)
	}
	slices.SortFunc(days, func(a, b CalendarDay) int { return cmp.Compare(a.Date, b.Date) })
	return days
}
