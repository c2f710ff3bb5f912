package session

import (
	"crypto/rand"
	"encoding/base64"
	"sync"
	"time"
)

type tokenMeta struct {
	SessionID string
	ExpiresAt time.Time
}

type tokenManager struct {
	mu     sync.RWMutex
	tokens map[string]tokenMeta
	now    func() time.Time
}

func newTokenManager(now func() time.Time) *tokenManager {
	return &tokenManager{
		tokens: make(map[string]tokenMeta),
		now:    now,
	}
}

func (m *tokenManager) Issue(sessionID string, ttl time.Duration) (string, time.Time, error) {
	token, err := randomToken()
	if err != nil {
		return "", time.Time{}, err
	}
	meta := tokenMeta{
		SessionID: sessionID,
		ExpiresAt: m.now().Add(ttl),
	}
	m.mu.Lock()
	m.tokens[token] = meta
	m.mu.Unlock()
	return token, meta.ExpiresAt, nil
}

// Validate resolves a live token. An expired token is removed and its
// session id returned as expired so the caller can release the session.
func (m *tokenManager) Validate(token string) (meta tokenMeta, ok bool, expired string) {
	m.mu.RLock()
	meta, ok = m.tokens[token]
	m.mu.RUnlock()
	if !ok {
		return tokenMeta{}, false, ""
	}
	if m.now().After(meta.ExpiresAt) {
		m.mu.Lock()
		_, still := m.tokens[token]
		delete(m.tokens, token)
		m.mu.Unlock()
		if !still {
			// Swept concurrently; the sweeper reports it.
			return tokenMeta{}, false, ""
		}
		return tokenMeta{}, false, meta.SessionID
	}
	return meta, true, ""
}

// Sweep drops expired tokens and returns the sessions they belonged to.
func (m *tokenManager) Sweep() []string {
	now := m.now()
	var expired []string
	m.mu.Lock()
	for token, meta := range m.tokens {
		if now.After(meta.ExpiresAt) {
			delete(m.tokens, token)
			expired = append(expired, meta.SessionID)
		}
	}
	m.mu.Unlock()
	return expired
}

func randomToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
