package handler

import (
	"context"
	"crypto/subtle"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/fekuna/omnipos-pos-service/internal/auth"
	"github.com/fekuna/omnipos-pos-service/internal/model"
	"github.com/fekuna/omnipos-pos-service/internal/session"
	"github.com/fekuna/omnipos-pos-service/internal/terminal"
	"github.com/fekuna/omnipos-pos-service/pkg/logger"
)

// Sessions is the part of the session manager the HTTP layer needs.
type Sessions interface {
	Init(ctx context.Context, terminalID, token string) (*model.Session, error)
	Current(ctx context.Context, terminalID string) (*model.Session, error)
	Clear(ctx context.Context, terminalID string) error
}

const sessionKey = "session"

// RequireTerminal reads X-Terminal-ID into the request context.
func RequireTerminal() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			terminalID := c.Request().Header.Get(auth.HeaderTerminalID)
			if terminalID == "" {
				return terminal.ErrTerminalRequired
			}
			ctx := auth.WithTerminalID(c.Request().Context(), terminalID)
			if l, ok := loggerFrom(ctx); ok {
				ctx = logger.WithContext(ctx, l.With(zap.String("terminal_id", terminalID)))
			}
			c.SetRequest(c.Request().WithContext(ctx))
			return next(c)
		}
	}
}

// RequireSession admits a request only when it carries the bearer token the
// terminal's session was opened with. That token is then forwarded to the
// store API.
func RequireSession(sessions Sessions) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx := c.Request().Context()
			token, ok := auth.BearerToken(c.Request().Header.Get(echo.HeaderAuthorization))
			if !ok {
				return session.ErrSessionRequired
			}

			s, err := sessions.Current(ctx, auth.GetTerminalID(ctx))
			if err != nil {
				return err
			}
			if subtle.ConstantTimeCompare([]byte(token), []byte(s.Token)) != 1 {
				return session.ErrInvalidToken
			}

			c.Set(sessionKey, s)
			c.SetRequest(c.Request().WithContext(auth.WithToken(ctx, s.Token)))
			return next(c)
		}
	}
}

func loggerFrom(ctx context.Context) (logger.ZapLogger, bool) {
	l := logger.FromContext(ctx, nil)
	return l, l != nil
}
