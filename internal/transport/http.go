package transport

import (
	"errors"
	"log/slog"
	"mime"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/rpggio/byggkoll/internal/domain/tracking"
)

// AttachmentSource looks up material costs by id and reports the session
// user for the login requirement.
type AttachmentSource interface {
	Material(id string) (tracking.MaterialCost, bool)
	CurrentUser() (tracking.User, bool)
}

// Options configures the HTTP router.
type Options struct {
	MCP          http.Handler
	Attachments  AttachmentSource
	RequireLogin bool
	Logger       *slog.Logger
}

// Server wires HTTP handlers.
type Server struct {
	attachments  AttachmentSource
	requireLogin bool
	logger       *slog.Logger
}

// inlineSafeTypes are the receipt types served with their own content type.
// Everything else goes out as application/octet-stream.
var inlineSafeTypes = map[string]bool{
	"application/pdf": true,
	"image/gif":       true,
	"image/jpeg":      true,
	"image/png":       true,
	"image/webp":      true,
}

// NewMCPHandler serves server over the streamable HTTP transport.
func NewMCPHandler(server *sdkmcp.Server) http.Handler {
	return sdkmcp.NewStreamableHTTPHandler(
		func(*http.Request) *sdkmcp.Server { return server },
		&sdkmcp.StreamableHTTPOptions{
			Stateless:      false,
			SessionTimeout: 30 * time.Minute,
		},
	)
}

// NewServer creates an HTTP server router with middleware.
func NewServer(opts Options) *chi.Mux {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(SessionMiddleware)
	r.Use(RequestLogger(logger))

	srv := &Server{attachments: opts.Attachments, requireLogin: opts.RequireLogin, logger: logger}

	if opts.MCP != nil {
		r.Handle("/mcp", opts.MCP)
		r.Handle("/mcp/*", opts.MCP)
	}
	r.Get("/health", srv.handleHealth)
	if opts.Attachments != nil {
		r.Get("/attachments/{id}", srv.handleAttachment)
	}

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleAttachment(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.attachments.CurrentUser(); s.requireLogin && !ok {
		http.Error(w, "not logged in", http.StatusUnauthorized)
		return
	}

	id := chi.URLParam(r, "id")
	material, ok := s.attachments.Material(id)
	if !ok {
		http.Error(w, "material not found", http.StatusNotFound)
		return
	}

	contentType, data, err := material.Attachment()
	switch {
	case errors.Is(err, tracking.ErrNoAttachment):
		http.Error(w, "material has no attachment", http.StatusNotFound)
		return
	case err != nil:
		s.logger.Warn("undecodable attachment", "id", id, "error", err)
		http.Error(w, "attachment cannot be decoded", http.StatusUnprocessableEntity)
		return
	}

	fileName := material.FileName
	if fileName == "" {
		fileName = id
	}
	w.Header().Set("Content-Type", servedContentType(contentType))
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": fileName}))
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func servedContentType(stored string) string {
	mediaType, _, err := mime.ParseMediaType(stored)
	if err != nil || !inlineSafeTypes[mediaType] {
		return "application/octet-stream"
	}
	return mediaType
}
