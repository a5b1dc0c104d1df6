package mcp

import (
	"context"
	"log/slog"
	"strings"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/rpggio/byggkoll/internal/domain/report"
	"github.com/rpggio/byggkoll/internal/domain/tracking"
)

type tools struct {
	store  Tracker
	logger *slog.Logger
}

func registerTools(server *sdkmcp.Server, t *tools) {
	// Session
	sdkmcp.AddTool(server, &sdkmcp.Tool{Name: "login", Description: "Start a local session. Any email is accepted; the password is never stored."}, t.login)
	sdkmcp.AddTool(server, &sdkmcp.Tool{Name: "logout", Description: "End the current session"}, t.logout)
	sdkmcp.AddTool(server, &sdkmcp.Tool{Name: "whoami", Description: "Show the logged-in user, if any"}, t.whoami)
	sdkmcp.AddTool(server, &sdkmcp.Tool{Name: "update_profile", Description: "Change name or email of the logged-in user"}, t.updateProfile)

	// Administration
	sdkmcp.AddTool(server, &sdkmcp.Tool{Name: "list_projects", Description: "List all projects"}, t.listProjects)
	sdkmcp.AddTool(server, &sdkmcp.Tool{Name: "add_project", Description: "Add a project at the end of the list"}, t.addProject)
	sdkmcp.AddTool(server, &sdkmcp.Tool{Name: "remove_project", Description: "Remove a project. Its entries and materials are kept."}, t.removeProject)
	sdkmcp.AddTool(server, &sdkmcp.Tool{Name: "list_workers", Description: "List all workers"}, t.listWorkers)
	sdkmcp.AddTool(server, &sdkmcp.Tool{Name: "add_worker", Description: "Add a worker at the end of the list"}, t.addWorker)
	sdkmcp.AddTool(server, &sdkmcp.Tool{Name: "remove_worker", Description: "Remove a worker. Reported names are kept."}, t.removeWorker)

	// Time entries
	sdkmcp.AddTool(server, &sdkmcp.Tool{Name: "list_entries", Description: "List time entries, newest first, optionally filtered"}, t.listEntries)
	sdkmcp.AddTool(server, &sdkmcp.Tool{Name: "add_entry", Description: "Report hours against a project"}, t.addEntry)
	sdkmcp.AddTool(server, &sdkmcp.Tool{Name: "update_entry", Description: "Change fields of a time entry. Omitted fields are kept."}, t.updateEntry)
	sdkmcp.AddTool(server, &sdkmcp.Tool{Name: "delete_entry", Description: "Delete a time entry"}, t.deleteEntry)

	// Materials
	sdkmcp.AddTool(server, &sdkmcp.Tool{Name: "list_materials", Description: "List material costs, newest first. Receipts are served over HTTP at /attachments/{id}."}, t.listMaterials)
	sdkmcp.AddTool(server, &sdkmcp.Tool{Name: "add_material", Description: "Book a material cost, optionally with a receipt"}, t.addMaterial)
	sdkmcp.AddTool(server, &sdkmcp.Tool{Name: "delete_material", Description: "Delete a material cost"}, t.deleteMaterial)

	// Views
	sdkmcp.AddTool(server, &sdkmcp.Tool{Name: "project_cards", Description: "Total hours and cost per project"}, t.projectCards)
	sdkmcp.AddTool(server, &sdkmcp.Tool{Name: "project_log", Description: "Entries, materials and hours by work type for one project"}, t.projectLog)
	sdkmcp.AddTool(server, &sdkmcp.Tool{Name: "calendar", Description: "Reported time grouped by date and worker"}, t.calendar)
	sdkmcp.AddTool(server, &sdkmcp.Tool{Name: "dashboard", Description: "Totals by work type, project and worker"}, t.dashboard)
	sdkmcp.AddTool(server, &sdkmcp.Tool{Name: "integrity_report", Description: "Entries and materials that reference unknown projects or workers"}, t.integrityReport)
	sdkmcp.AddTool(server, &sdkmcp.Tool{Name: "reload", Description: "Re-read every collection from storage"}, t.reload)
}

// warning turns a persistence failure into a response warning. Any other
// error is returned for the tool to fail with.
func (t *tools) warning(err error) (string, error) {
	if err == nil {
		return "", nil
	}
	if tracking.IsPersistWarning(err) {
		return "change applied but not saved: " + err.Error(), nil
	}
	return "", toolError(err)
}

func (t *tools) session(warning string) SessionResponse {
	user, ok := t.store.CurrentUser()
	if !ok {
		return SessionResponse{Warning: warning}
	}
	return SessionResponse{LoggedIn: true, User: &user, Warning: warning}
}

// defaultWorker fills an empty worker name from the session user.
func defaultWorker(ctx context.Context, name string) string {
	if name != "" {
		return name
	}
	if user, ok := getUser(ctx); ok {
		return user.Name
	}
	return ""
}

func (t *tools) login(ctx context.Context, _ *sdkmcp.CallToolRequest, in LoginParams) (*sdkmcp.CallToolResult, SessionResponse, error) {
	email := strings.TrimSpace(in.Email)
	if email == "" {
		return nil, SessionResponse{}, toolError(tracking.ErrInvalidInput)
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		name, _, _ = strings.Cut(email, "@")
	}

	err := t.store.SetCurrentUser(ctx, &tracking.User{Email: email, Name: name, Password: in.Password})
	warning, err := t.warning(err)
	if err != nil {
		return nil, SessionResponse{}, err
	}
	t.logger.Info("user logged in", "email", email)
	return nil, t.session(warning), nil
}

func (t *tools) logout(ctx context.Context, _ *sdkmcp.CallToolRequest, _ EmptyParams) (*sdkmcp.CallToolResult, SessionResponse, error) {
	warning, err := t.warning(t.store.SetCurrentUser(ctx, nil))
	if err != nil {
		return nil, SessionResponse{}, err
	}
	return nil, t.session(warning), nil
}

func (t *tools) whoami(_ context.Context, _ *sdkmcp.CallToolRequest, _ EmptyParams) (*sdkmcp.CallToolResult, SessionResponse, error) {
	return nil, t.session(""), nil
}

func (t *tools) updateProfile(ctx context.Context, _ *sdkmcp.CallToolRequest, in UpdateProfileParams) (*sdkmcp.CallToolResult, SessionResponse, error) {
	user, ok := t.store.CurrentUser()
	if !ok {
		return nil, SessionResponse{}, toolError(ErrNotLoggedIn)
	}
	if in.Name != nil {
		user.Name = strings.TrimSpace(*in.Name)
	}
	if in.Email != nil {
		user.Email = strings.TrimSpace(*in.Email)
	}
	if user.Email == "" {
		return nil, SessionResponse{}, toolError(tracking.ErrInvalidInput)
	}

	warning, err := t.warning(t.store.UpdateCurrentUser(ctx, user))
	if err != nil {
		return nil, SessionResponse{}, err
	}
	return nil, t.session(warning), nil
}

func (t *tools) listProjects(_ context.Context, _ *sdkmcp.CallToolRequest, _ EmptyParams) (*sdkmcp.CallToolResult, ProjectsResponse, error) {
	return nil, ProjectsResponse{Projects: t.store.Projects()}, nil
}

func (t *tools) addProject(ctx context.Context, _ *sdkmcp.CallToolRequest, in AddProjectParams) (*sdkmcp.CallToolResult, ProjectResponse, error) {
	proj, err := t.store.AddProject(ctx, tracking.CreateProjectRequest{
		Code:     in.Code,
		Name:     in.Name,
		Client:   in.Client,
		Location: in.Location,
	})
	warning, err := t.warning(err)
	if err != nil {
		return nil, ProjectResponse{}, err
	}
	return nil, ProjectResponse{Project: proj, Warning: warning}, nil
}

func (t *tools) removeProject(ctx context.Context, _ *sdkmcp.CallToolRequest, in IDParams) (*sdkmcp.CallToolResult, RemovedResponse, error) {
	return t.removed(t.store.RemoveProject(ctx, in.ID))
}

func (t *tools) listWorkers(_ context.Context, _ *sdkmcp.CallToolRequest, _ EmptyParams) (*sdkmcp.CallToolResult, WorkersResponse, error) {
	return nil, WorkersResponse{Workers: t.store.Workers()}, nil
}

func (t *tools) addWorker(ctx context.Context, _ *sdkmcp.CallToolRequest, in AddWorkerParams) (*sdkmcp.CallToolResult, WorkerResponse, error) {
	worker, err := t.store.AddWorker(ctx, in.Name)
	warning, err := t.warning(err)
	if err != nil {
		return nil, WorkerResponse{}, err
	}
	return nil, WorkerResponse{Worker: worker, Warning: warning}, nil
}

func (t *tools) removeWorker(ctx context.Context, _ *sdkmcp.CallToolRequest, in IDParams) (*sdkmcp.CallToolResult, RemovedResponse, error) {
	return t.removed(t.store.RemoveWorker(ctx, in.ID))
}

func (t *tools) removed(ok bool, err error) (*sdkmcp.CallToolResult, RemovedResponse, error) {
	warning, err := t.warning(err)
	if err != nil {
		return nil, RemovedResponse{}, err
	}
	return nil, RemovedResponse{Removed: ok, Warning: warning}, nil
}

func (t *tools) listEntries(_ context.Context, _ *sdkmcp.CallToolRequest, in ListEntriesParams) (*sdkmcp.CallToolResult, EntriesResponse, error) {
	entries := report.FilterEntries(t.store.Entries(), report.CalendarFilter{
		From:      in.From,
		To:        in.To,
		Worker:    in.Worker,
		ProjectID: in.ProjectID,
	})
	return nil, EntriesResponse{Entries: entries, TotalHours: report.SumHours(entries)}, nil
}

func (t *tools) addEntry(ctx context.Context, _ *sdkmcp.CallToolRequest, in AddEntryParams) (*sdkmcp.CallToolResult, EntryResponse, error) {
	entry, err := t.store.AddEntry(ctx, tracking.CreateEntryRequest{
		Date:        in.Date,
		ProjectID:   in.ProjectID,
		Hours:       in.Hours,
		WorkType:    tracking.WorkType(in.WorkType),
		Description: in.Description,
		WorkerName:  defaultWorker(ctx, in.WorkerName),
	})
	warning, err := t.warning(err)
	if err != nil {
		return nil, EntryResponse{}, err
	}
	return nil, EntryResponse{Entry: entry, Warning: warning}, nil
}

func (t *tools) updateEntry(ctx context.Context, _ *sdkmcp.CallToolRequest, in UpdateEntryParams) (*sdkmcp.CallToolResult, UpdateEntryResponse, error) {
	patch := tracking.EntryPatch{
		Date:        in.Date,
		ProjectID:   in.ProjectID,
		Hours:       in.Hours,
		Description: in.Description,
		WorkerName:  in.WorkerName,
	}
	if in.WorkType != nil {
		wt := tracking.WorkType(*in.WorkType)
		patch.WorkType = &wt
	}

	entry, ok, err := t.store.UpdateEntry(ctx, in.ID, patch)
	warning, err := t.warning(err)
	if err != nil {
		return nil, UpdateEntryResponse{}, err
	}
	if !ok {
		return nil, UpdateEntryResponse{}, nil
	}
	return nil, UpdateEntryResponse{Updated: true, Entry: &entry, Warning: warning}, nil
}

func (t *tools) deleteEntry(ctx context.Context, _ *sdkmcp.CallToolRequest, in IDParams) (*sdkmcp.CallToolResult, RemovedResponse, error) {
	return t.removed(t.store.DeleteEntry(ctx, in.ID))
}

func (t *tools) listMaterials(_ context.Context, _ *sdkmcp.CallToolRequest, in ListMaterialsParams) (*sdkmcp.CallToolResult, MaterialsResponse, error) {
	materials := t.store.Materials()
	if in.ProjectID != "" {
		materials = report.MaterialsForProject(materials, in.ProjectID)
	}
	return nil, MaterialsResponse{Materials: toMaterialViews(materials), TotalCost: report.SumAmounts(materials)}, nil
}

func (t *tools) addMaterial(ctx context.Context, _ *sdkmcp.CallToolRequest, in AddMaterialParams) (*sdkmcp.CallToolResult, MaterialResponse, error) {
	cost, err := t.store.AddMaterial(ctx, tracking.CreateMaterialRequest{
		ProjectID:   in.ProjectID,
		Date:        in.Date,
		Description: in.Description,
		Amount:      in.Amount,
		WorkerName:  defaultWorker(ctx, in.WorkerName),
		FileName:    in.FileName,
		FileData:    in.FileData,
	})
	warning, err := t.warning(err)
	if err != nil {
		return nil, MaterialResponse{}, err
	}
	return nil, MaterialResponse{Material: toMaterialView(cost), Warning: warning}, nil
}

func (t *tools) deleteMaterial(ctx context.Context, _ *sdkmcp.CallToolRequest, in IDParams) (*sdkmcp.CallToolResult, RemovedResponse, error) {
	return t.removed(t.store.DeleteMaterial(ctx, in.ID))
}

func (t *tools) projectCards(_ context.Context, _ *sdkmcp.CallToolRequest, _ EmptyParams) (*sdkmcp.CallToolResult, ProjectCardsResponse, error) {
	return nil, ProjectCardsResponse{Cards: report.ProjectCards(t.store.Snapshot())}, nil
}

func (t *tools) projectLog(_ context.Context, _ *sdkmcp.CallToolRequest, in ProjectLogParams) (*sdkmcp.CallToolResult, ProjectLogResponse, error) {
	log := report.BuildProjectLog(t.store.Snapshot(), in.ProjectID)
	return nil, ProjectLogResponse{
		Project:     log.Project,
		Known:       log.Known,
		Entries:     log.Entries,
		Materials:   toMaterialViews(log.Materials),
		HoursByType: log.HoursByType,
		TotalHours:  log.TotalHours,
		TotalCost:   log.TotalCost,
	}, nil
}

func (t *tools) calendar(_ context.Context, _ *sdkmcp.CallToolRequest, in CalendarParams) (*sdkmcp.CallToolResult, CalendarResponse, error) {
	days := report.Calendar(t.store.Entries(), report.CalendarFilter{
		From:      in.From,
		To:        in.To,
		Worker:    in.Worker,
		ProjectID: in.ProjectID,
	})
	return nil, CalendarResponse{Days: days}, nil
}

func (t *tools) dashboard(_ context.Context, _ *sdkmcp.CallToolRequest, _ EmptyParams) (*sdkmcp.CallToolResult, report.Dashboard, error) {
	return nil, report.BuildDashboard(t.store.Snapshot()), nil
}

func (t *tools) integrityReport(_ context.Context, _ *sdkmcp.CallToolRequest, _ EmptyParams) (*sdkmcp.CallToolResult, report.IntegrityReport, error) {
	return nil, report.Integrity(t.store.Snapshot()), nil
}

func (t *tools) reload(ctx context.Context, _ *sdkmcp.CallToolRequest, _ EmptyParams) (*sdkmcp.CallToolResult, ReloadResponse, error) {
	t.store.Reload(ctx)
	snap := t.store.Snapshot()
	_, loggedIn := t.store.CurrentUser()
	t.logger.Info("collections reloaded", "entries", len(snap.Entries), "materials", len(snap.Materials))
	return nil, ReloadResponse{
		Projects:  len(snap.Projects),
		Workers:   len(snap.Workers),
		Entries:   len(snap.Entries),
		Materials: len(snap.Materials),
		LoggedIn:  loggedIn,
	}, nil
}
