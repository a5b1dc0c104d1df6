package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/rpggio/byggkoll/internal/domain/report"
	"github.com/rpggio/byggkoll/internal/domain/tracking"
	"github.com/rpggio/byggkoll/internal/repository/mocks"
	"github.com/rpggio/byggkoll/internal/seed"
	"github.com/rpggio/byggkoll/internal/slots"
)

func newTestStore(t *testing.T) *tracking.Store {
	t.Helper()
	adapter := slots.NewAdapter(slots.NewMemoryBackend(), nil)
	return tracking.NewStore(context.Background(), adapter, nil, tracking.WithDefaults(seed.Builtin()))
}

func connect(t *testing.T, store Tracker, requireLogin bool) *sdkmcp.ClientSession {
	t.Helper()
	ctx := context.Background()

	server := NewServer(Config{Store: store, RequireLogin: requireLogin})
	serverTransport, clientTransport := sdkmcp.NewInMemoryTransports()
	serverSession, err := server.Connect(ctx, serverTransport, nil)
	require.NoError(t, err)

	client := sdkmcp.NewClient(&sdkmcp.Implementation{Name: "test-client", Version: "1.0.0"}, nil)
	session, err := client.Connect(ctx, clientTransport, nil)
	require.NoError(t, err)

	t.Cleanup(func() {
		session.Close()
		serverSession.Close()
	})
	return session
}

func callRaw(t *testing.T, cs *sdkmcp.ClientSession, name string, args map[string]any) *sdkmcp.CallToolResult {
	t.Helper()
	if args == nil {
		args = map[string]any{}
	}
	result, err := cs.CallTool(context.Background(), &sdkmcp.CallToolParams{Name: name, Arguments: args})
	require.NoError(t, err, "CallTool %s failed", name)
	return result
}

func resultText(t *testing.T, result *sdkmcp.CallToolResult) string {
	t.Helper()
	for _, content := range result.Content {
		if text, ok := content.(*sdkmcp.TextContent); ok {
			return text.Text
		}
	}
	t.Fatal("result has no text content")
	return ""
}

func callTool[T any](t *testing.T, cs *sdkmcp.ClientSession, name string, args map[string]any) T {
	t.Helper()
	result := callRaw(t, cs, name, args)
	require.False(t, result.IsError, "tool %s returned error: %s", name, resultText(t, result))

	var out T
	require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &out))
	return out
}

func callToolError(t *testing.T, cs *sdkmcp.ClientSession, name string, args map[string]any) string {
	t.Helper()
	result := callRaw(t, cs, name, args)
	require.True(t, result.IsError, "tool %s should fail", name)
	return resultText(t, result)
}

func TestServer_ListsAllTools(t *testing.T) {
	cs := connect(t, newTestStore(t), false)

	res, err := cs.ListTools(context.Background(), nil)
	require.NoError(t, err)

	var names []string
	for _, tool := range res.Tools {
		names = append(names, tool.Name)
	}
	require.ElementsMatch(t, []string{
		"login", "logout", "whoami", "update_profile",
		"list_projects", "add_project", "remove_project",
		"list_workers", "add_worker", "remove_worker",
		"list_entries", "add_entry", "update_entry", "delete_entry",
		"list_materials", "add_material", "delete_material",
		"project_cards", "project_log", "calendar", "dashboard",
		"integrity_report", "reload",
	}, names)
}

func TestServer_DocResources(t *testing.T) {
	cs := connect(t, newTestStore(t), false)
	ctx := context.Background()

	res, err := cs.ListResources(ctx, nil)
	require.NoError(t, err)
	require.Len(t, res.Resources, len(docResources))

	read, err := cs.ReadResource(ctx, &sdkmcp.ReadResourceParams{URI: "byggkoll://docs/work-types"})
	require.NoError(t, err)
	require.Len(t, read.Contents, 1)
	require.Contains(t, read.Contents[0].Text, "ÄTA-arbete")
}

func TestServer_SessionLifecycle(t *testing.T) {
	store := newTestStore(t)
	cs := connect(t, store, false)

	who := callTool[SessionResponse](t, cs, "whoami", nil)
	require.False(t, who.LoggedIn)

	login := callTool[SessionResponse](t, cs, "login", map[string]any{"email": "patrik@example.se", "password": "hemligt"})
	require.True(t, login.LoggedIn)
	require.Equal(t, "patrik", login.User.Name)
	require.Empty(t, login.User.Password)

	updated := callTool[SessionResponse](t, cs, "update_profile", map[string]any{"name": "Patrik S"})
	require.Equal(t, "Patrik S", updated.User.Name)
	require.Equal(t, "patrik@example.se", updated.User.Email)

	logout := callTool[SessionResponse](t, cs, "logout", nil)
	require.False(t, logout.LoggedIn)

	msg := callToolError(t, cs, "update_profile", map[string]any{"name": "X"})
	require.Contains(t, msg, "NOT_LOGGED_IN")

	msg = callToolError(t, cs, "login", map[string]any{"email": "  "})
	require.Contains(t, msg, "INVALID_INPUT")
}

func TestServer_LoginGate(t *testing.T) {
	cs := connect(t, newTestStore(t), true)

	msg := callToolError(t, cs, "list_projects", nil)
	require.Contains(t, msg, "NOT_LOGGED_IN")

	who := callTool[SessionResponse](t, cs, "whoami", nil)
	require.False(t, who.LoggedIn)

	callTool[SessionResponse](t, cs, "login", map[string]any{"email": "anna@example.se", "name": "Anna"})
	projects := callTool[ProjectsResponse](t, cs, "list_projects", nil)
	require.Equal(t, seed.Builtin().Projects, projects.Projects)
}

func TestServer_EntryWorkflow(t *testing.T) {
	store := newTestStore(t)
	cs := connect(t, store, false)
	callTool[SessionResponse](t, cs, "login", map[string]any{"email": "rickard@example.se", "name": "Rickard"})

	added := callTool[EntryResponse](t, cs, "add_entry", map[string]any{
		"date": "2024-03-11", "project_id": "1", "hours": 7.5, "work_type": "Normaltid", "description": "Rördragning",
	})
	require.NotEmpty(t, added.Entry.ID)
	require.Equal(t, "Rickard", added.Entry.WorkerName, "worker defaults to session user")
	require.Empty(t, added.Warning)

	callTool[EntryResponse](t, cs, "add_entry", map[string]any{
		"date": "2024-03-12", "project_id": "1", "hours": 2, "work_type": "Restid", "worker_name": "Patrik",
	})

	updated := callTool[UpdateEntryResponse](t, cs, "update_entry", map[string]any{"id": added.Entry.ID, "hours": 5})
	require.True(t, updated.Updated)
	require.Equal(t, 5.0, updated.Entry.Hours)
	require.Equal(t, "Rördragning", updated.Entry.Description)

	missing := callTool[UpdateEntryResponse](t, cs, "update_entry", map[string]any{"id": "nope", "hours": 1})
	require.False(t, missing.Updated)
	require.Nil(t, missing.Entry)

	list := callTool[EntriesResponse](t, cs, "list_entries", map[string]any{"worker": "Rickard"})
	require.Len(t, list.Entries, 1)
	require.Equal(t, 5.0, list.TotalHours)

	cards := callTool[ProjectCardsResponse](t, cs, "project_cards", nil)
	require.Len(t, cards.Cards, 1)
	require.Equal(t, 7.0, cards.Cards[0].TotalHours)

	cal := callTool[CalendarResponse](t, cs, "calendar", map[string]any{"from": "2024-03-12"})
	require.Len(t, cal.Days, 1)
	require.Equal(t, "Patrik", cal.Days[0].Workers[0].WorkerName)

	msg := callToolError(t, cs, "add_entry", map[string]any{
		"date": "2024-03-11", "project_id": "1", "hours": -1, "work_type": "Normaltid",
	})
	require.Contains(t, msg, "INVALID_INPUT")

	removed := callTool[RemovedResponse](t, cs, "delete_entry", map[string]any{"id": added.Entry.ID})
	require.True(t, removed.Removed)
	removed = callTool[RemovedResponse](t, cs, "delete_entry", map[string]any{"id": added.Entry.ID})
	require.False(t, removed.Removed)
	require.Len(t, store.Entries(), 1)
}

func TestServer_MaterialsHideReceiptData(t *testing.T) {
	cs := connect(t, newTestStore(t), false)

	added := callTool[MaterialResponse](t, cs, "add_material", map[string]any{
		"project_id": "1", "date": "2024-03-11", "description": "Kopparrör", "amount": 1249.5,
		"file_name": "kvitto.png", "file_data": "data:image/png;base64,aGVq",
	})
	require.True(t, added.Material.HasAttachment)

	result := callRaw(t, cs, "list_materials", map[string]any{"project_id": "1"})
	require.False(t, result.IsError)
	require.NotContains(t, resultText(t, result), "aGVq")

	var list MaterialsResponse
	require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &list))
	require.Len(t, list.Materials, 1)
	require.Equal(t, 1249.5, list.TotalCost)

	log := callTool[ProjectLogResponse](t, cs, "project_log", map[string]any{"project_id": "1"})
	require.True(t, log.Known)
	require.Equal(t, 1249.5, log.TotalCost)
	require.Len(t, log.HoursByType, len(tracking.WorkTypes))

	removed := callTool[RemovedResponse](t, cs, "delete_material", map[string]any{"id": added.Material.ID})
	require.True(t, removed.Removed)
}

func TestServer_AdministrationAndReports(t *testing.T) {
	store := newTestStore(t)
	cs := connect(t, store, false)

	worker := callTool[WorkerResponse](t, cs, "add_worker", map[string]any{"name": "Anna"})
	workers := callTool[WorkersResponse](t, cs, "list_workers", nil)
	require.Len(t, workers.Workers, 3)
	require.Equal(t, worker.Worker, workers.Workers[2])

	proj := callTool[ProjectResponse](t, cs, "add_project", map[string]any{"name": "Skolan", "code": "P2024-02"})
	callTool[EntryResponse](t, cs, "add_entry", map[string]any{
		"date": "2024-04-02", "project_id": proj.Project.ID, "hours": 4, "work_type": "ÄTA-arbete", "worker_name": "Ana",
	})
	removed := callTool[RemovedResponse](t, cs, "remove_project", map[string]any{"id": proj.Project.ID})
	require.True(t, removed.Removed)

	dash := callTool[report.Dashboard](t, cs, "dashboard", nil)
	require.Equal(t, 4.0, dash.TotalHours)

	integrity := callTool[report.IntegrityReport](t, cs, "integrity_report", nil)
	require.Len(t, integrity.Issues, 2)
	require.Equal(t, report.IssueUnknownProject, integrity.Issues[0].Kind)
	require.Equal(t, []string{"Anna"}, integrity.Issues[1].Suggestions)

	removed = callTool[RemovedResponse](t, cs, "remove_worker", map[string]any{"id": worker.Worker.ID})
	require.True(t, removed.Removed)

	reloaded := callTool[ReloadResponse](t, cs, "reload", nil)
	require.Equal(t, ReloadResponse{Projects: 1, Workers: 2, Entries: 1}, reloaded)
}

func TestServer_PersistFailureIsWarning(t *testing.T) {
	ctx := context.Background()
	slotStore := &mocks.SlotStore{}
	slotStore.On("Decode", mock.Anything, mock.Anything, mock.Anything).Return(slots.ErrEmpty)
	slotStore.On("Save", mock.Anything, mock.Anything, mock.Anything).Return(errors.New("quota exceeded"))
	store := tracking.NewStore(ctx, slotStore, nil)

	cs := connect(t, store, false)
	out := callTool[WorkerResponse](t, cs, "add_worker", map[string]any{"name": "Anna"})
	require.Equal(t, "Anna", out.Worker.Name)
	require.Contains(t, out.Warning, "quota exceeded")
	require.Len(t, store.Workers(), 1)
}

func TestMapError(t *testing.T) {
	require.Nil(t, MapError(nil))
	require.Nil(t, MapError(errors.New("other")))
	require.Equal(t, "INVALID_INPUT", MapError(tracking.ErrInvalidInput).Code)
	require.Equal(t, "NOT_LOGGED_IN", MapError(ErrNotLoggedIn).Code)
	require.Equal(t, "NO_ATTACHMENT", MapError(tracking.ErrNoAttachment).Code)
}
