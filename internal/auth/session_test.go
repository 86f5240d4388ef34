package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/shinshu-solutions/shinshu-web/internal/shared"
)

type memoryRepo struct {
	users    map[string]*User // keyed by email
	sessions map[string]Session

	lastLogin map[string]time.Time

	failFind      error
	failSession   error
	failLastLogin error
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{
		users:     make(map[string]*User),
		sessions:  make(map[string]Session),
		lastLogin: make(map[string]time.Time),
	}
}

func (r *memoryRepo) addUser(u *User) {
	r.users[u.Email] = u
}

func (r *memoryRepo) FindActiveUserByEmail(ctx context.Context, email string) (*User, error) {
	if r.failFind != nil {
		return nil, r.failFind
	}
	u, ok := r.users[email]
	if !ok || !u.IsActive {
		return nil, shared.ErrNotFound
	}
	return u, nil
}

func (r *memoryRepo) UpdateLastLogin(ctx context.Context, userID string, at time.Time) error {
	if r.failLastLogin != nil {
		return r.failLastLogin
	}
	r.lastLogin[userID] = at
	return nil
}

func (r *memoryRepo) InsertSession(ctx context.Context, id, userID string, expiresAt time.Time) error {
	if r.failSession != nil {
		return r.failSession
	}
	r.sessions[id] = Session{ID: id, UserID: userID, ExpiresAt: expiresAt}
	return nil
}

func (r *memoryRepo) FindValidSession(ctx context.Context, id string, now time.Time) (*shared.UserView, error) {
	if r.failSession != nil {
		return nil, r.failSession
	}
	sess, ok := r.sessions[id]
	if !ok || !sess.ExpiresAt.After(now) {
		return nil, shared.ErrNotFound
	}
	for _, u := range r.users {
		if u.ID == sess.UserID {
			if !u.IsActive {
				return nil, shared.ErrNotFound
			}
			return &shared.UserView{ID: u.ID, Email: u.Email, Name: u.Name, Role: u.Role}, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *memoryRepo) DeleteSession(ctx context.Context, id string) error {
	if r.failSession != nil {
		return r.failSession
	}
	delete(r.sessions, id)
	return nil
}

func (r *memoryRepo) DeleteExpiredSessions(ctx context.Context, now time.Time) (int64, error) {
	if r.failSession != nil {
		return 0, r.failSession
	}
	var removed int64
	for id, sess := range r.sessions {
		if !sess.ExpiresAt.After(now) {
			delete(r.sessions, id)
			removed++
		}
	}
	return removed, nil
}

var _ Repository = (*memoryRepo)(nil)

func activeUser() *User {
	return &User{
		ID:       "u-1",
		Email:    "owner@example.com",
		Name:     "Owner",
		Role:     "admin",
		IsActive: true,
	}
}

func TestSessionCreateAndResolve(t *testing.T) {
	repo := newMemoryRepo()
	repo.addUser(activeUser())
	manager := NewSessionManager(repo, time.Hour)

	id, err := manager.Create(context.Background(), "u-1")
	require.NoError(t, err)
	require.Len(t, id, 64)

	view, err := manager.Resolve(context.Background(), id)
	require.NoError(t, err)
	require.Equal(t, "u-1", view.ID)
	require.Equal(t, "owner@example.com", view.Email)
}

func TestSessionResolveEmptyID(t *testing.T) {
	manager := NewSessionManager(newMemoryRepo(), time.Hour)
	_, err := manager.Resolve(context.Background(), "")
	require.ErrorIs(t, err, shared.ErrNotAuthenticated)
}

func TestSessionResolveUnknownID(t *testing.T) {
	manager := NewSessionManager(newMemoryRepo(), time.Hour)
	_, err := manager.Resolve(context.Background(), NewSessionID())
	require.ErrorIs(t, err, shared.ErrNotAuthenticated)
}

func TestSessionResolveExpired(t *testing.T) {
	repo := newMemoryRepo()
	repo.addUser(activeUser())
	manager := NewSessionManager(repo, time.Hour)

	current := time.Now()
	manager.now = func() time.Time { return current }

	id, err := manager.Create(context.Background(), "u-1")
	require.NoError(t, err)

	// Just before expiry the session still resolves.
	current = current.Add(time.Hour - time.Second)
	_, err = manager.Resolve(context.Background(), id)
	require.NoError(t, err)

	current = current.Add(2 * time.Second)
	_, err = manager.Resolve(context.Background(), id)
	require.ErrorIs(t, err, shared.ErrNotAuthenticated)
}

func TestSessionResolveDeactivatedOwner(t *testing.T) {
	repo := newMemoryRepo()
	user := activeUser()
	repo.addUser(user)
	manager := NewSessionManager(repo, time.Hour)

	id, err := manager.Create(context.Background(), "u-1")
	require.NoError(t, err)

	user.IsActive = false
	_, err = manager.Resolve(context.Background(), id)
	require.ErrorIs(t, err, shared.ErrNotAuthenticated)
}

func TestSessionResolveStorageError(t *testing.T) {
	repo := newMemoryRepo()
	boom := errors.New("connection reset")
	repo.failSession = boom
	manager := NewSessionManager(repo, time.Hour)

	_, err := manager.Resolve(context.Background(), NewSessionID())
	require.ErrorIs(t, err, boom)
	require.NotErrorIs(t, err, shared.ErrNotAuthenticated)
}

func TestSessionDestroyIdempotent(t *testing.T) {
	repo := newMemoryRepo()
	repo.addUser(activeUser())
	manager := NewSessionManager(repo, time.Hour)

	id, err := manager.Create(context.Background(), "u-1")
	require.NoError(t, err)

	require.NoError(t, manager.Destroy(context.Background(), id))
	require.NoError(t, manager.Destroy(context.Background(), id))
	require.NoError(t, manager.Destroy(context.Background(), ""))

	_, err = manager.Resolve(context.Background(), id)
	require.ErrorIs(t, err, shared.ErrNotAuthenticated)
}

func TestSessionConcurrentPerUser(t *testing.T) {
	repo := newMemoryRepo()
	repo.addUser(activeUser())
	manager := NewSessionManager(repo, time.Hour)

	first, err := manager.Create(context.Background(), "u-1")
	require.NoError(t, err)
	second, err := manager.Create(context.Background(), "u-1")
	require.NoError(t, err)
	require.NotEqual(t, first, second)

	require.NoError(t, manager.Destroy(context.Background(), first))

	// The remaining session is unaffected.
	_, err = manager.Resolve(context.Background(), second)
	require.NoError(t, err)
}

func TestSweepExpired(t *testing.T) {
	repo := newMemoryRepo()
	repo.addUser(activeUser())
	manager := NewSessionManager(repo, time.Hour)

	current := time.Now()
	manager.now = func() time.Time { return current }

	expired, err := manager.Create(context.Background(), "u-1")
	require.NoError(t, err)
	current = current.Add(30 * time.Minute)
	live, err := manager.Create(context.Background(), "u-1")
	require.NoError(t, err)

	current = current.Add(45 * time.Minute)
	removed, err := manager.SweepExpired(context.Background())
	require.NoError(t, err)
	require.Equal(t, int64(1), removed)

	_, err = manager.Resolve(context.Background(), expired)
	require.ErrorIs(t, err, shared.ErrNotAuthenticated)
	_, err = manager.Resolve(context.Background(), live)
	require.NoError(t, err)
}

func TestSessionTTLDefault(t *testing.T) {
	manager := NewSessionManager(newMemoryRepo(), 0)
	require.Equal(t, DefaultSessionTTL, manager.TTL())
}
