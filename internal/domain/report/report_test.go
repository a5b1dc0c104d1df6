package report

import (
	"testing"

	"github.com/rpggio/byggkoll/internal/domain/tracking"
	"github.com/stretchr/testify/require"
)

func entry(id, date, projectID, worker string, hours float64, wt tracking.WorkType) tracking.TimeEntry {
	return tracking.TimeEntry{ID: id, Date: date, ProjectID: projectID, Hours: hours, WorkType: wt, WorkerName: worker}
}

func fixture() tracking.Snapshot {
	return tracking.Snapshot{
		Projects: []tracking.Project{
			{ID: "proj-1", Code: "P1", Name: "Skolan"},
			{ID: "proj-2", Code: "P2", Name: "Badhuset"},
		},
		Workers: []tracking.Worker{{ID: "w1", Name: "Patrik"}, {ID: "w2", Name: "Rickard"}},
		Entries: []tracking.TimeEntry{
			entry("e3", "2024-03-12", "proj-9", "Patrk", 1, tracking.WorkTravel),
			entry("e2", "2024-03-11", "proj-1", "Rickard", 2, tracking.WorkOvertime),
			entry("e1", "2024-03-11", "proj-1", "Patrik", 3, tracking.WorkNormal),
		},
		Materials: []tracking.MaterialCost{
			{ID: "m2", ProjectID: "proj-1", Date: "2024-03-11", Amount: 0.2, WorkerName: "Patrik"},
			{ID: "m1", ProjectID: "proj-1", Date: "2024-03-10", Amount: 0.1},
		},
	}
}

func TestProjectHours(t *testing.T) {
	snap := fixture()
	require.Equal(t, 5.0, ProjectHours(snap.Entries, "proj-1"))
	require.Equal(t, 0.0, ProjectHours(snap.Entries, "proj-2"))
	require.Equal(t, 0.0, ProjectHours(nil, "proj-1"))
}

func TestProjectCost_NoFloatDrift(t *testing.T) {
	require.Equal(t, 0.3, ProjectCost(fixture().Materials, "proj-1"))
}

func TestSublists(t *testing.T) {
	snap := fixture()

	entries := EntriesForProject(snap.Entries, "proj-1")
	require.Len(t, entries, 2)
	require.Equal(t, "e2", entries[0].ID, "stored order kept")

	require.NotNil(t, EntriesForProject(snap.Entries, "nope"))
	require.Empty(t, EntriesForProject(snap.Entries, "nope"))
	require.Empty(t, MaterialsForProject(snap.Materials, "nope"))
	require.Len(t, MaterialsForProject(snap.Materials, "proj-1"), 2)
}

func TestHoursByType(t *testing.T) {
	got := HoursByType(fixture().Entries)
	require.Len(t, got, len(tracking.WorkTypes))
	require.Equal(t, TypeHours{WorkType: tracking.WorkNormal, Hours: 3}, got[0])
	require.Equal(t, TypeHours{WorkType: tracking.WorkOvertime, Hours: 2}, got[1])
	require.Equal(t, TypeHours{WorkType: tracking.WorkTravel, Hours: 1}, got[2])
	require.Equal(t, 0.0, got[4].Hours)
}

func TestHoursByType_UnknownLabelsKeepTotal(t *testing.T) {
	entries := []tracking.TimeEntry{
		entry("e1", "2024-03-11", "proj-1", "Patrik", 4, tracking.WorkType("Normal")),
		entry("e2", "2024-03-11", "proj-1", "Patrik", 1, tracking.WorkATA),
		entry("e3", "2024-03-12", "proj-1", "Patrik", 2, tracking.WorkType("Helgtid")),
		entry("e4", "2024-03-13", "proj-1", "Patrik", 0.5, tracking.WorkType("Normal")),
	}

	got := HoursByType(entries)
	require.Len(t, got, len(tracking.WorkTypes)+2)
	require.Equal(t, TypeHours{WorkType: "Helgtid", Hours: 2}, got[len(tracking.WorkTypes)])
	require.Equal(t, TypeHours{WorkType: "Normal", Hours: 4.5}, got[len(tracking.WorkTypes)+1])

	sum := 0.0
	for _, th := range got {
		sum += th.Hours
	}
	require.Equal(t, SumHours(entries), sum)
	require.Equal(t, 7.5, BuildDashboard(tracking.Snapshot{Entries: entries}).TotalHours)
}

func TestHoursAreNotRounded(t *testing.T) {
	entries := []tracking.TimeEntry{
		entry("e1", "2024-03-11", "proj-1", "Patrik", 0.125, tracking.WorkNormal),
		entry("e2", "2024-03-11", "proj-1", "Patrik", 0.001, tracking.WorkNormal),
	}
	require.Equal(t, 0.126, ProjectHours(entries, "proj-1"))
	require.Equal(t, 0.126, SumHours(entries))
	require.Equal(t, 0.126, HoursByType(entries)[0].Hours)

	days := Calendar(entries, CalendarFilter{})
	require.Equal(t, 0.126, days[0].TotalHours)
	require.Equal(t, 0.126, days[0].Workers[0].Hours)

	d := BuildDashboard(tracking.Snapshot{Entries: entries})
	require.Equal(t, 0.126, d.TotalHours)
	require.Equal(t, 0.126, d.Projects[0].Hours)
	require.Equal(t, 0.126, d.Workers[0].Hours)
}

func TestCostsRoundToOre(t *testing.T) {
	materials := []tracking.MaterialCost{
		{ID: "m1", ProjectID: "proj-1", Amount: 10.004},
		{ID: "m2", ProjectID: "proj-1", Amount: 0.002},
	}
	require.Equal(t, 10.01, ProjectCost(materials, "proj-1"))
	require.Equal(t, 10.01, SumAmounts(materials))
}

func TestProjectCards(t *testing.T) {
	cards := ProjectCards(fixture())
	require.Len(t, cards, 2)
	require.Equal(t, "proj-1", cards[0].Project.ID)
	require.Equal(t, 5.0, cards[0].TotalHours)
	require.Equal(t, 0.3, cards[0].TotalCost)
	require.Equal(t, 2, cards[0].EntryCount)
	require.Equal(t, 2, cards[0].MaterialCount)
	require.Equal(t, 0.0, cards[1].TotalHours)

	require.Empty(t, ProjectCards(tracking.Snapshot{}))
	require.NotNil(t, ProjectCards(tracking.Snapshot{}))
}

func TestBuildProjectLog(t *testing.T) {
	log := BuildProjectLog(fixture(), "proj-1")
	require.True(t, log.Known)
	require.Equal(t, "Skolan", log.Project.Name)
	require.Len(t, log.Entries, 2)
	require.Len(t, log.Materials, 2)
	require.Equal(t, 5.0, log.TotalHours)
	require.Equal(t, 0.3, log.TotalCost)

	dangling := BuildProjectLog(fixture(), "proj-9")
	require.False(t, dangling.Known)
	require.Equal(t, "proj-9", dangling.Project.ID)
	require.Len(t, dangling.Entries, 1)
	require.Empty(t, dangling.Materials)
}

func TestCalendar(t *testing.T) {
	days := Calendar(fixture().Entries, CalendarFilter{})
	require.Len(t, days, 2)

	require.Equal(t, "2024-03-11", days[0].Date)
	require.Equal(t, 5.0, days[0].TotalHours)
	require.Len(t, days[0].Workers, 2)
	require.Equal(t, "Patrik", days[0].Workers[0].WorkerName)
	require.Equal(t, 3.0, days[0].Workers[0].Hours)
	require.Equal(t, "Rickard", days[0].Workers[1].WorkerName)

	require.Equal(t, "2024-03-12", days[1].Date)
}

func TestCalendar_Filters(t *testing.T) {
	entries := fixture().Entries

	days := Calendar(entries, CalendarFilter{Worker: "Rickard"})
	require.Len(t, days, 1)
	require.Equal(t, 2.0, days[0].TotalHours)

	days = Calendar(entries, CalendarFilter{From: "2024-03-12", To: "2024-03-31"})
	require.Len(t, days, 1)
	require.Equal(t, "2024-03-12", days[0].Date)

	days = Calendar(entries, CalendarFilter{ProjectID: "unknown"})
	require.NotNil(t, days)
	require.Empty(t, days)

	require.Empty(t, Calendar(nil, CalendarFilter{}))
}

func TestBuildDashboard(t *testing.T) {
	d := BuildDashboard(fixture())
	require.Equal(t, 6.0, d.TotalHours)
	require.Equal(t, 0.3, d.TotalCost)
	require.Equal(t, 3, d.EntryCount)
	require.Equal(t, 2, d.MaterialCount)

	require.Equal(t, []ProjectStat{
		{ProjectID: "proj-1", Name: "Skolan", Known: true, Hours: 5, Cost: 0.3},
		{ProjectID: "proj-2", Name: "Badhuset", Known: true},
		{ProjectID: "proj-9", Hours: 1},
	}, d.Projects)

	require.Equal(t, []WorkerHours{
		{WorkerName: "Patrik", Hours: 3},
		{WorkerName: "Patrk", Hours: 1},
		{WorkerName: "Rickard", Hours: 2},
	}, d.Workers)
}

func TestBuildDashboard_Empty(t *testing.T) {
	d := BuildDashboard(tracking.Snapshot{})
	require.Zero(t, d.TotalHours)
	require.Zero(t, d.TotalCost)
	require.NotNil(t, d.Projects)
	require.NotNil(t, d.Workers)
	require.Len(t, d.HoursByType, len(tracking.WorkTypes))
}

func TestIntegrity(t *testing.T) {
	report := Integrity(fixture())
	require.Equal(t, []Issue{
		{Kind: IssueUnknownProject, Collection: CollectionEntries, RecordID: "e3", Reference: "proj-9", Suggestions: []string{}},
		{Kind: IssueUnknownWorker, Collection: CollectionEntries, RecordID: "e3", Reference: "Patrk", Suggestions: []string{"Patrik"}},
	}, report.Issues)

	clean := fixture()
	clean.Entries = clean.Entries[1:]
	require.Empty(t, Integrity(clean).Issues)
}

func TestSuggestWorkers(t *testing.T) {
	workers := []tracking.Worker{{Name: "Patrik"}, {Name: "Rickard"}, {Name: "Patrick"}}
	require.Equal(t, []string{"Patrik", "Patrick"}, SuggestWorkers(workers, "patrik"))
	require.Empty(t, SuggestWorkers(workers, "Anna"))
}
