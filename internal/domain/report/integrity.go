package report

import (
	"cmp"
	"slices"
	"strings"

	"github.com/agnivade/levenshtein"

	"github.com/rpggio/byggkoll/internal/domain/tracking"
)

// Issue kinds.
const (
	IssueUnknownProject = "unknown_project"
	IssueUnknownWorker  = "unknown_worker"
)

// Collections named in issues.
const (
	CollectionEntries   = "entries"
	CollectionMaterials = "materials"
)

// maxSuggestionDistance is the largest edit distance offered as a suggestion.
const maxSuggestionDistance = 2

// Issue is a record whose reference does not resolve.
type Issue struct {
	Kind        string   `json:"kind"`
	Collection  string   `json:"collection"`
	RecordID    string   `json:"recordId"`
	Reference   string   `json:"reference"`
	Suggestions []string `json:"suggestions"`
}

// IntegrityReport lists dangling references. It is advisory; references are
// allowed to dangle.
type IntegrityReport struct {
	Issues []Issue `json:"issues"`
}

// Integrity finds entries and materials pointing at unknown projects or
// unknown worker names. Worker issues suggest registered names within a
// small case-insensitive edit distance. Empty worker names are not reported.
func Integrity(snap tracking.Snapshot) IntegrityReport {
	projects := map[string]bool{}
	for _, p := range snap.Projects {
		projects[p.ID] = true
	}
	workers := map[string]bool{}
	for _, w := range snap.Workers {
		workers[w.Name] = true
	}

	report := IntegrityReport{Issues: []Issue{}}
	check := func(collection, id, projectID, workerName string) {
		if !projects[projectID] {
			report.Issues = append(report.Issues, Issue{
				Kind: IssueUnknownProject, Collection: collection, RecordID: id,
				Reference: projectID, Suggestions: []string{},
			})
		}
		if workerName != "" && !workers[workerName] {
			report.Issues = append(report.Issues, Issue{
				Kind: IssueUnknownWorker, Collection: collection, RecordID: id,
				Reference: workerName, Suggestions: SuggestWorkers(snap.Workers, workerName),
			})
		}
	}
	for _, e := range snap.Entries {
		check(CollectionEntries, e.ID, e.ProjectID, e.WorkerName)
	}
	for _, m := range snap.Materials {
		check(CollectionMaterials, m.ID, m.ProjectID, m.WorkerName)
	}
	return report
}

// SuggestWorkers returns registered worker names close to name, nearest first.
func SuggestWorkers(workers []tracking.Worker, name string) []string {
	type candidate struct {
		name     string
		distance int
	}
	target := strings.ToLower(strings.TrimSpace(name))
	var found []candidate
	for _, w := range workers {
		d := levenshtein.ComputeDistance(target, strings.ToLower(w.Name))
		if d <= maxSuggestionDistance {
			found = append(found, candidate{name: w.Name, distance: d})
		}
	}
	slices.SortStableFunc(found, func(a, b candidate) int { return cmp.Compare(a.distance, b.distance) })

	out := make([]string, 0, len(found))
	for _, c := range found {
		if !slices.Contains(out, c.name) {
			out = append(out, c.name)
		}
	}
	return out
}
