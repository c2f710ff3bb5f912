// Package session hands out the bearer tokens that tie a browser to its cart.
package session

import (
	"context"
	"errors"
	"io"
	"log"
	"time"

	"github.com/google/uuid"
)

var ErrInvalidToken = errors.New("invalid token")

const DefaultTTL = 24 * time.Hour

// Session is what a client receives when it starts shopping.
type Session struct {
	Token     string    `json:"token"`
	SessionID string    `json:"sessionId"`
	ExpiresAt time.Time `json:"expiresAt"`
}

type Service struct {
	tokens   *tokenManager
	ttl      time.Duration
	onExpire func(sessionID string)
	logger   *log.Logger
}

// New builds a session service. onExpire, when set, is called for every
// session whose token was swept after expiring.
func New(ttl time.Duration, onExpire func(sessionID string), logger *log.Logger) *Service {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Service{
		tokens:   newTokenManager(time.Now),
		ttl:      ttl,
		onExpire: onExpire,
		logger:   logger,
	}
}

func (s *Service) Issue(ctx context.Context) (Session, error) {
	s.sweep()
	id := uuid.NewString()
	token, expiresAt, err := s.tokens.Issue(id, s.ttl)
	if err != nil {
		return Session{}, err
	}
	return Session{Token: token, SessionID: id, ExpiresAt: expiresAt}, nil
}

func (s *Service) Lookup(ctx context.Context, token string) (string, error) {
	if token == "" {
		return "", ErrInvalidToken
	}
	meta, ok, expired := s.tokens.Validate(token)
	if expired != "" {
		s.release([]string{expired})
	}
	if !ok {
		return "", ErrInvalidToken
	}
	return meta.SessionID, nil
}

func (s *Service) TTLSeconds() int {
	return int(s.ttl.Seconds())
}

func (s *Service) sweep() {
	s.release(s.tokens.Sweep())
}

func (s *Service) release(expired []string) {
	if len(expired) == 0 {
		return
	}
	s.logger.Printf("sessions: expired count=%d", len(expired))
	if s.onExpire == nil {
		return
	}
	for _, id := range expired {
		s.onExpire(id)
	}
}
