package mcp

import (
	"context"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/rpggio/byggkoll/internal/domain/tracking"
)

type contextKey int

const (
	userKey contextKey = iota
)

// getUser extracts the session user placed by sessionUserMiddleware.
func getUser(ctx context.Context) (tracking.User, bool) {
	user, ok := ctx.Value(userKey).(tracking.User)
	return user, ok
}

// openTools may be called without a session.
var openTools = map[string]bool{
	"login":  true,
	"whoami": true,
}

// sessionUserMiddleware looks up the current session user for every request.
func sessionUserMiddleware(store Tracker) sdkmcp.Middleware {
	return func(next sdkmcp.MethodHandler) sdkmcp.MethodHandler {
		return func(ctx context.Context, method string, req sdkmcp.Request) (sdkmcp.Result, error) {
			if user, ok := store.CurrentUser(); ok {
				ctx = context.WithValue(ctx, userKey, user)
			}
			return next(ctx, method, req)
		}
	}
}

// loginGateMiddleware rejects tool calls other than openTools while nobody is
// logged in. The rejection is a tool error so clients can show it.
func loginGateMiddleware() sdkmcp.Middleware {
	return func(next sdkmcp.MethodHandler) sdkmcp.MethodHandler {
		return func(ctx context.Context, method string, req sdkmcp.Request) (sdkmcp.Result, error) {
			if method != "tools/call" {
				return next(ctx, method, req)
			}
			call, ok := req.(*sdkmcp.CallToolRequest)
			if !ok || call.Params == nil || openTools[call.Params.Name] {
				return next(ctx, method, req)
			}
			if _, loggedIn := getUser(ctx); loggedIn {
				return next(ctx, method, req)
			}
			apiErr := MapError(ErrNotLoggedIn)
			return &sdkmcp.CallToolResult{
				IsError: true,
				Content: []sdkmcp.Content{&sdkmcp.TextContent{Text: apiErr.Error()}},
			}, nil
		}
	}
}
