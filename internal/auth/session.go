package auth

import (
	"context"
	"errors"
	"time"

	"github.com/shinshu-solutions/shinshu-web/internal/shared"
)

// DefaultSessionTTL is the fixed lifetime of a session. The cookie max-age
// must stay in lockstep with this value; there is no sliding renewal.
const DefaultSessionTTL = 7 * 24 * time.Hour

// SessionManager creates, resolves and destroys sessions against the store
// and enforces expiry. It holds no in-process state beyond configuration.
type SessionManager struct {
	repo Repository
	ttl  time.Duration
	now  func() time.Time
}

// NewSessionManager constructs a SessionManager. A non-positive ttl falls
// back to DefaultSessionTTL.
func NewSessionManager(repo Repository, ttl time.Duration) *SessionManager {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &SessionManager{repo: repo, ttl: ttl, now: time.Now}
}

// Create issues a new session for the user and returns its token. Every login
// gets its own row; concurrent sessions per user are allowed.
func (m *SessionManager) Create(ctx context.Context, userID string) (string, error) {
	id := NewSessionID()
	expiresAt := m.now().Add(m.ttl)
	if err := m.repo.InsertSession(ctx, id, userID, expiresAt); err != nil {
		return "", err
	}
	return id, nil
}

// Resolve returns the user view for a valid session. A session that is
// absent, expired or owned by a deactivated user uniformly yields
// shared.ErrNotAuthenticated; the causes are deliberately not distinguished.
// Storage failures propagate unchanged.
func (m *SessionManager) Resolve(ctx context.Context, sessionID string) (*shared.UserView, error) {
	if sessionID == "" {
		return nil, shared.ErrNotAuthenticated
	}
	view, err := m.repo.FindValidSession(ctx, sessionID, m.now())
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.ErrNotAuthenticated
		}
		return nil, err
	}
	return view, nil
}

// Destroy removes the session. Destroying a never-issued or already-destroyed
// session succeeds.
func (m *SessionManager) Destroy(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}
	return m.repo.DeleteSession(ctx, sessionID)
}

// SweepExpired deletes expired session rows. Expired sessions already fail
// Resolve, so the sweep is store hygiene, not a correctness requirement.
func (m *SessionManager) SweepExpired(ctx context.Context) (int64, error) {
	return m.repo.DeleteExpiredSessions(ctx, m.now())
}

// TTL exposes the configured session lifetime.
func (m *SessionManager) TTL() time.Duration {
	return m.ttl
}
