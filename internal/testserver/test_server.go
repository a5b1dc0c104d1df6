package testserver

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/require"

	"github.com/rpggio/byggkoll/internal/domain/tracking"
	"github.com/rpggio/byggkoll/internal/mcp"
	"github.com/rpggio/byggkoll/internal/seed"
	"github.com/rpggio/byggkoll/internal/slots"
	"github.com/rpggio/byggkoll/internal/sqlite"
	"github.com/rpggio/byggkoll/internal/transport"
)

// TestServer is a complete in-process stack: sqlite slots, store, MCP server
// and HTTP router.
type TestServer struct {
	Server *httptest.Server
	DB     *sqlite.DB
	Store  *tracking.Store
}

// New starts a server backed by an in-memory database seeded with the
// built-in projects and workers.
func New(t *testing.T, requireLogin bool) *TestServer {
	t.Helper()
	ctx := context.Background()

	db, err := sqlite.Open(":memory:")
	require.NoError(t, err)

	adapter := slots.NewAdapter(sqlite.NewSlotRepository(db), nil)
	store := tracking.NewStore(ctx, adapter, nil, tracking.WithDefaults(seed.Builtin()))

	mcpServer := mcp.NewServer(mcp.Config{Store: store, RequireLogin: requireLogin})
	server := httptest.NewServer(transport.NewServer(transport.Options{
		MCP:          transport.NewMCPHandler(mcpServer),
		Attachments:  store,
		RequireLogin: requireLogin,
	}))

	t.Cleanup(func() {
		server.Close()
		_ = db.Close()
	})

	return &TestServer{Server: server, DB: db, Store: store}
}

// Connect opens an MCP client session over streamable HTTP.
func (ts *TestServer) Connect(t *testing.T) *sdkmcp.ClientSession {
	t.Helper()

	client := sdkmcp.NewClient(&sdkmcp.Implementation{Name: "test-client", Version: "1.0.0"}, nil)
	session, err := client.Connect(context.Background(), &sdkmcp.StreamableClientTransport{
		Endpoint: ts.Server.URL + "/mcp",
	}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { session.Close() })
	return session
}

// CallTool calls a tool, requires success and decodes its JSON result into out.
func CallTool(t *testing.T, session *sdkmcp.ClientSession, name string, args map[string]any, out any) {
	t.Helper()
	if args == nil {
		args = map[string]any{}
	}

	result, err := session.CallTool(context.Background(), &sdkmcp.CallToolParams{Name: name, Arguments: args})
	require.NoError(t, err, "CallTool %s failed", name)
	for _, content := range result.Content {
		text, ok := content.(*sdkmcp.TextContent)
		if !ok {
			continue
		}
		require.False(t, result.IsError, "tool %s returned error: %s", name, text.Text)
		if out != nil {
			require.NoError(t, json.Unmarshal([]byte(text.Text), out))
		}
		return
	}
	t.Fatalf("tool %s returned no text content", name)
}
