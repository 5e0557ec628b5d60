// Package session keeps the signed-in employee of each terminal.
package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/fekuna/omnipos-pos-service/internal/model"
	"github.com/fekuna/omnipos-pos-service/pkg/apperror"
	"github.com/fekuna/omnipos-pos-service/pkg/cache"
	"github.com/fekuna/omnipos-pos-service/pkg/logger"
)

const (
	MsgSessionRequired = "session.required"
	MsgInvalidToken    = "session.invalid_token"
)

var (
	ErrSessionRequired = apperror.New(apperror.CodeUnauthenticated, MsgSessionRequired, "no session on this terminal")
	ErrInvalidToken    = apperror.New(apperror.CodeUnauthenticated, MsgInvalidToken, "employee token is invalid or expired")
)

const keyPrefix = "pos:session:"

// Manager stores sessions in Redis until their token expires.
type Manager struct {
	cache  *cache.RedisClient
	secret []byte
	logger logger.ZapLogger
	now    func() time.Time
}

func NewManager(cache *cache.RedisClient, secret string, log logger.ZapLogger) *Manager {
	return &Manager{
		cache:  cache,
		secret: []byte(secret),
		logger: log,
		now:    time.Now,
	}
}

func key(terminalID string) string {
	return keyPrefix + terminalID
}

// Init opens a session for terminalID, replacing any previous one.
func (m *Manager) Init(ctx context.Context, terminalID, token string) (*model.Session, error) {
	claims, err := ValidateToken(m.secret, token)
	if err != nil {
		m.logger.Warn("rejected employee token", zap.String("terminal_id", terminalID), zap.Error(err))
		return nil, ErrInvalidToken
	}

	s := &model.Session{
		TerminalID: terminalID,
		Token:      token,
		Employee: model.Employee{
			ID:   claims.Subject,
			Name: claims.Name,
			Role: claims.Role,
		},
		ExpiresAt: claims.ExpiresAt.Time,
	}

	ttl := s.ExpiresAt.Sub(m.now())
	if ttl <= 0 {
		return nil, ErrInvalidToken
	}
	if err := m.cache.SetJSON(ctx, key(terminalID), stored{Session: *s, Token: token}, ttl); err != nil {
		return nil, fmt.Errorf("store session: %w", err)
	}

	m.logger.Info("session started",
		zap.String("terminal_id", terminalID),
		zap.String("employee_id", s.Employee.ID),
	)
	return s, nil
}

// stored keeps the token next to the session; model.Session hides it from JSON.
type stored struct {
	Session model.Session `json:"session"`
	Token   string        `json:"token"`
}

// Current returns the terminal's session or ErrSessionRequired.
func (m *Manager) Current(ctx context.Context, terminalID string) (*model.Session, error) {
	var st stored
	if err := m.cache.GetJSON(ctx, key(terminalID), &st); err != nil {
		if errors.Is(err, cache.ErrCacheMiss) {
			return nil, ErrSessionRequired
		}
		return nil, fmt.Errorf("load session: %w", err)
	}
	s := st.Session
	s.Token = st.Token
	return &s, nil
}

// Clear ends the terminal's session. Clearing a terminal without one is not an error.
func (m *Manager) Clear(ctx context.Context, terminalID string) error {
	if err := m.cache.Delete(ctx, key(terminalID)); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	m.logger.Info("session cleared", zap.String("terminal_id", terminalID))
	return nil
}
