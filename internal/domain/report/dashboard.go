package report

import (
	"cmp"
	"slices"

	"github.com/shopspring/decimal"

	"github.com/rpggio/byggkoll/internal/domain/tracking"
)

// ProjectStat is the hour and cost total for one project id.
type ProjectStat struct {
	ProjectID string  `json:"projectId"`
	Name      string  `json:"name"`
	Known     bool    `json:"known"`
	Hours     float64 `json:"hours"`
	Cost      float64 `json:"cost"`
}

// WorkerHours is the hour total for one worker name.
type WorkerHours struct {
	WorkerName string  `json:"workerName"`
	Hours      float64 `json:"hours"`
}

// Dashboard aggregates every entry and material cost.
type Dashboard struct {
	TotalHours    float64       `json:"totalHours"`
	TotalCost     float64       `json:"totalCost"`
	EntryCount    int           `json:"entryCount"`
	MaterialCount int           `json:"materialCount"`
	HoursByType   []TypeHours   `json:"hoursByType"`
	Projects      []ProjectStat `json:"projects"`
	Workers       []WorkerHours `json:"workers"`
}

type projectSums struct {
	hours decimal.Decimal
	cost  decimal.Decimal
}

// BuildDashboard computes totals by work type, by project and by worker.
// Known projects come first in project order, followed by project ids that
// only appear on records, sorted by id. Workers are listed by name and
// include registered workers without hours.
func BuildDashboard(snap tracking.Snapshot) Dashboard {
	d := Dashboard{
		EntryCount:    len(snap.Entries),
		MaterialCount: len(snap.Materials),
		HoursByType:   HoursByType(snap.Entries),
		Projects:      []ProjectStat{},
		Workers:       []WorkerHours{},
	}

	totalHours, totalCost := decimal.Zero, decimal.Zero
	perProject := map[string]*projectSums{}
	perWorker := map[string]decimal.Decimal{}
	sums := func(id string) *projectSums {
		s, ok := perProject[id]
		if !ok {
			s = &projectSums{}
			perProject[id] = s
		}
		return s
	}

	for _, e := range snap.Entries {
		h := decimal.NewFromFloat(e.Hours)
		totalHours = totalHours.Add(h)
		s := sums(e.ProjectID)
		s.hours = s.hours.Add(h)
		perWorker[e.WorkerName] = perWorker[e.WorkerName].Add(h)
	}
	for _, m := range snap.Materials {
		a := decimal.NewFromFloat(m.Amount)
		totalCost = totalCost.Add(a)
		s := sums(m.ProjectID)
		s.cost = s.cost.Add(a)
	}
	d.TotalHours = hoursFloat(totalHours)
	d.TotalCost = moneyFloat(totalCost)

	known := map[string]bool{}
	for _, p := range snap.Projects {
		known[p.ID] = true
		s := sums(p.ID)
		d.Projects = append(d.Projects, ProjectStat{
			ProjectID: p.ID, Name: p.Name, Known: true,
			Hours: hoursFloat(s.hours), Cost: moneyFloat(s.cost),
		})
	}
	var dangling []ProjectStat
	for id, s := range perProject {
		if known[id] {
			continue
		}
		dangling = append(dangling, ProjectStat{ProjectID: id, Hours: hoursFloat(s.hours), Cost: moneyFloat(s.cost)})
	}
	slices.SortFunc(dangling, func(a, b ProjectStat) int { return cmp.Compare(a.ProjectID, b.ProjectID) })
	d.Projects = append(d.Projects, dangling...)

	for _, w := range snap.Workers {
		if _, ok := perWorker[w.Name]; !ok {
			perWorker[w.Name] = decimal.Zero
		}
	}
	for name, hours := range perWorker {
		d.Workers = append(d.Workers, WorkerHours{WorkerName: name, Hours: hoursFloat(hours)})
	}
	slices.SortFunc(d.Workers, func(a, b WorkerHours) int { return cmp.Compare(a.WorkerName, b.WorkerName) })
	return d
}
