package auth

import (
	"context"
	"strings"
)

type contextKey string

const (
	terminalIDKey contextKey = "terminal_id"
	tokenKey      contextKey = "token"
)

// HeaderTerminalID names the terminal a request comes from.
const HeaderTerminalID = "X-Terminal-ID"

func WithTerminalID(ctx context.Context, terminalID string) context.Context {
	return context.WithValue(ctx, terminalIDKey, terminalID)
}

func GetTerminalID(ctx context.Context) string {
	if val, ok := ctx.Value(terminalIDKey).(string); ok {
		return val
	}
	return ""
}

// WithToken stores the employee token that is forwarded to the store API.
func WithToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, tokenKey, token)
}

func GetToken(ctx context.Context) string {
	if val, ok := ctx.Value(tokenKey).(string); ok {
		return val
	}
	return ""
}

// BearerToken extracts the token from an Authorization header value.
func BearerToken(header string) (string, bool) {
	const prefix = "Bearer "
	if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return "", false
	}
	token := strings.TrimSpace(header[len(prefix):])
	return token, token != ""
}
