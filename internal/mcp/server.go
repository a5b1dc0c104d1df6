package mcp

import (
	"context"
	"log/slog"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/rpggio/byggkoll/internal/domain/tracking"
)

// Tracker is the store surface the tools need.
type Tracker interface {
	Reload(ctx context.Context)
	Snapshot() tracking.Snapshot
	Projects() []tracking.Project
	Workers() []tracking.Worker
	Entries() []tracking.TimeEntry
	Materials() []tracking.MaterialCost

	AddEntry(ctx context.Context, req tracking.CreateEntryRequest) (tracking.TimeEntry, error)
	UpdateEntry(ctx context.Context, id string, patch tracking.EntryPatch) (tracking.TimeEntry, bool, error)
	DeleteEntry(ctx context.Context, id string) (bool, error)
	AddMaterial(ctx context.Context, req tracking.CreateMaterialRequest) (tracking.MaterialCost, error)
	DeleteMaterial(ctx context.Context, id string) (bool, error)
	AddProject(ctx context.Context, req tracking.CreateProjectRequest) (tracking.Project, error)
	RemoveProject(ctx context.Context, id string) (bool, error)
	AddWorker(ctx context.Context, name string) (tracking.Worker, error)
	RemoveWorker(ctx context.Context, id string) (bool, error)

	SetCurrentUser(ctx context.Context, user *tracking.User) error
	UpdateCurrentUser(ctx context.Context, user tracking.User) error
	CurrentUser() (tracking.User, bool)
}

// Config contains server configuration.
type Config struct {
	Store        Tracker
	RequireLogin bool
	Logger       *slog.Logger
}

// NewServer creates and configures an MCP server with all tools and middleware.
func NewServer(cfg Config) *sdkmcp.Server {
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.DiscardHandler)
	}

	server := sdkmcp.NewServer(&sdkmcp.Implementation{
		Name:    "byggkoll",
		Version: "0.1.0",
	}, &sdkmcp.ServerOptions{
		Instructions: serverInstructions,
		Logger:       cfg.Logger,
	})

	registerDocResources(server)

	// Receiving middleware runs in slice order.
	receiving := []sdkmcp.Middleware{
		sessionUserMiddleware(cfg.Store),
		trafficLoggingMiddleware(cfg.Logger, "inbound"),
	}
	if cfg.RequireLogin {
		receiving = append(receiving, loginGateMiddleware())
	}
	server.AddReceivingMiddleware(receiving...)
	server.AddSendingMiddleware(trafficLoggingMiddleware(cfg.Logger, "outbound"))

	registerTools(server, &tools{store: cfg.Store, logger: cfg.Logger})

	return server
}
