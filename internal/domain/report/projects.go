package report

import "github.com/rpggio/byggkoll/internal/domain/tracking"

// ProjectCard summarizes one project for the project overview.
type ProjectCard struct {
	Project       tracking.Project `json:"project"`
	TotalHours    float64          `json:"totalHours"`
	TotalCost     float64          `json:"totalCost"`
	EntryCount    int              `json:"entryCount"`
	MaterialCount int              `json:"materialCount"`
}

// ProjectCards returns a card per project, in project order.
func ProjectCards(snap tracking.Snapshot) []ProjectCard {
	cards := make([]ProjectCard, 0, len(snap.Projects))
	for _, p := range snap.Projects {
		entries := EntriesForProject(snap.Entries, p.ID)
		materials := MaterialsForProject(snap.Materials, p.ID)
		cards = append(cards, ProjectCard{
			Project:       p,
			TotalHours:    ProjectHours(entries, p.ID),
			TotalCost:     ProjectCost(materials, p.ID),
			EntryCount:    len(entries),
			MaterialCount: len(materials),
		})
	}
	return cards
}

// ProjectLog is the drill-down view of a single project.
type ProjectLog struct {
	Project     tracking.Project        `json:"project"`
	Known       bool                    `json:"known"`
	Entries     []tracking.TimeEntry    `json:"entries"`
	Materials   []tracking.MaterialCost `json:"materials"`
	HoursByType []TypeHours             `json:"hoursByType"`
	TotalHours  float64                 `json:"totalHours"`
	TotalCost   float64                 `json:"totalCost"`
}

// BuildProjectLog collects everything booked against projectID. A project id
// that is not in the project list still yields its entries and materials,
// with Known set to false.
func BuildProjectLog(snap tracking.Snapshot, projectID string) ProjectLog {
	log := ProjectLog{Project: tracking.Project{ID: projectID}}
	for _, p := range snap.Projects {
		if p.ID == projectID {
			log.Project = p
			log.Known = true
			break
		}
	}

	log.Entries = EntriesForProject(snap.Entries, projectID)
	log.Materials = MaterialsForProject(snap.Materials, projectID)
	log.HoursByType = HoursByType(log.Entries)
	log.TotalHours = SumHours(log.Entries)
	log.TotalCost = SumAmounts(log.Materials)
	return log
}
