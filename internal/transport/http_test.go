package transport

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rpggio/byggkoll/internal/domain/tracking"
)

type attachmentStore struct {
	materials map[string]tracking.MaterialCost
	user      *tracking.User
}

func (s attachmentStore) Material(id string) (tracking.MaterialCost, bool) {
	cost, ok := s.materials[id]
	return cost, ok
}

func (s attachmentStore) CurrentUser() (tracking.User, bool) {
	if s.user == nil {
		return tracking.User{}, false
	}
	return *s.user, true
}

func getAttachment(t *testing.T, server *httptest.Server, id string) (*http.Response, string) {
	t.Helper()
	resp, err := http.Get(server.URL + "/attachments/" + id)
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	require.NoError(t, err)
	return resp, string(body)
}

func newTestServer(t *testing.T, opts Options) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(NewServer(opts))
	t.Cleanup(server.Close)
	return server
}

func TestHTTPServer_Health(t *testing.T) {
	server := newTestServer(t, Options{})

	resp, err := http.Get(server.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.Equal(t, "ok", string(body))
}

func TestHTTPServer_MCPRouteAndSession(t *testing.T) {
	var gotSession string
	mcpHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotSession, _ = SessionIDFromContext(r.Context())
		w.WriteHeader(http.StatusAccepted)
	})
	server := newTestServer(t, Options{MCP: mcpHandler})

	req, err := http.NewRequest(http.MethodPost, server.URL+"/mcp", bytes.NewBufferString(`{}`))
	require.NoError(t, err)
	req.Header.Set("Mcp-Session-Id", "sess1")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusAccepted, resp.StatusCode)
	require.Equal(t, "sess1", gotSession)
}

func TestHTTPServer_Attachments(t *testing.T) {
	materials := attachmentStore{materials: map[string]tracking.MaterialCost{
		"m1": {ID: "m1", FileName: "kvitto.png", FileData: "data:image/png;base64,aGVq"},
		"m2": {ID: "m2"},
		"m3": {ID: "m3", FileName: "trasig.pdf", FileData: "data:application/pdf;base64,@@@"},
	}}
	server := newTestServer(t, Options{Attachments: materials})

	resp, body := getAttachment(t, server, "m1")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "image/png", resp.Header.Get("Content-Type"))
	require.Equal(t, `attachment; filename=kvitto.png`, resp.Header.Get("Content-Disposition"))
	require.Equal(t, "nosniff", resp.Header.Get("X-Content-Type-Options"))
	require.Equal(t, "hej", body)

	for id, status := range map[string]int{
		"m2":      http.StatusNotFound,
		"m3":      http.StatusUnprocessableEntity,
		"missing": http.StatusNotFound,
	} {
		resp, err := http.Get(server.URL + "/attachments/" + id)
		require.NoError(t, err)
		resp.Body.Close()
		require.Equal(t, status, resp.StatusCode, id)
	}
}

func TestHTTPServer_AttachmentsNeverServeActiveContent(t *testing.T) {
	script := "PHNjcmlwdD5hbGVydCgxKTwvc2NyaXB0Pg==" // <script>alert(1)</script>
	materials := attachmentStore{materials: map[string]tracking.MaterialCost{
		"html": {ID: "html", FileData: "data:text/html;base64," + script},
		"svg":  {ID: "svg", FileName: "logo.svg", FileData: "data:image/svg+xml;base64," + script},
		"raw":  {ID: "raw", FileData: script},
	}}
	server := newTestServer(t, Options{Attachments: materials})

	for id, disposition := range map[string]string{
		"html": `attachment; filename=html`,
		"svg":  `attachment; filename=logo.svg`,
		"raw":  `attachment; filename=raw`,
	} {
		resp, body := getAttachment(t, server, id)
		require.Equal(t, http.StatusOK, resp.StatusCode, id)
		require.Equal(t, "application/octet-stream", resp.Header.Get("Content-Type"), id)
		require.Equal(t, disposition, resp.Header.Get("Content-Disposition"), id)
		require.Equal(t, "nosniff", resp.Header.Get("X-Content-Type-Options"), id)
		require.Equal(t, "<script>alert(1)</script>", body, id)
	}
}

func TestHTTPServer_AttachmentsRequireLogin(t *testing.T) {
	materials := map[string]tracking.MaterialCost{
		"m1": {ID: "m1", FileName: "kvitto.pdf", FileData: "data:application/pdf;base64,aGVq"},
	}

	locked := newTestServer(t, Options{Attachments: attachmentStore{materials: materials}, RequireLogin: true})
	resp, _ := getAttachment(t, locked, "m1")
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	user := &tracking.User{ID: "u1", Email: "patrik@example.se"}
	open := newTestServer(t, Options{Attachments: attachmentStore{materials: materials, user: user}, RequireLogin: true})
	resp, body := getAttachment(t, open, "m1")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	require.Equal(t, "hej", body)
}

func TestRequestLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	handler := RequestLogger(logger)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))
	req := httptest.NewRequest(http.MethodGet, "/health", nil).WithContext(context.Background())
	handler.ServeHTTP(httptest.NewRecorder(), req)

	require.Contains(t, buf.String(), "path=/health")
	require.Contains(t, buf.String(), "status=418")
}
