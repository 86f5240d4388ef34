package users

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/shinshu-solutions/shinshu-web/internal/auth"
	"github.com/shinshu-solutions/shinshu-web/internal/shared"
)

type memoryUserRepo struct {
	users  map[string]*User
	hashes map[string]string
}

func newMemoryUserRepo() *memoryUserRepo {
	return &memoryUserRepo{users: make(map[string]*User), hashes: make(map[string]string)}
}

func (r *memoryUserRepo) ListUsers(ctx context.Context) ([]User, error) {
	out := make([]User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, *u)
	}
	return out, nil
}

func (r *memoryUserRepo) CreateUser(ctx context.Context, id, email, passwordHash, name, role string) error {
	for _, u := range r.users {
		if u.Email == email {
			return shared.ErrDuplicate
		}
	}
	r.users[id] = &User{ID: id, Email: email, Name: name, Role: role, IsActive: true}
	r.hashes[id] = passwordHash
	return nil
}

func (r *memoryUserRepo) SetActive(ctx context.Context, id string, active bool) error {
	u, ok := r.users[id]
	if !ok {
		return shared.ErrNotFound
	}
	u.IsActive = active
	return nil
}

func (r *memoryUserRepo) FindByID(ctx context.Context, id string) (*User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	copied := *u
	return &copied, nil
}

var _ RepositoryPort = (*memoryUserRepo)(nil)

func TestCreateUserHashesPassword(t *testing.T) {
	repo := newMemoryUserRepo()
	service := NewService(repo)

	user, err := service.CreateUser(context.Background(), "new@example.com", "plain-password", "New User", "")
	require.NoError(t, err)
	require.NotEmpty(t, user.ID)
	require.Equal(t, "admin", user.Role, "role defaults to admin")
	require.True(t, user.IsActive)

	hash := repo.hashes[user.ID]
	require.NotEqual(t, "plain-password", hash)
	require.True(t, auth.CheckPassword("plain-password", hash))
}

func TestCreateUserDuplicateEmail(t *testing.T) {
	repo := newMemoryUserRepo()
	service := NewService(repo)

	_, err := service.CreateUser(context.Background(), "dup@example.com", "pw", "First", "admin")
	require.NoError(t, err)
	_, err = service.CreateUser(context.Background(), "dup@example.com", "pw", "Second", "admin")
	require.ErrorIs(t, err, shared.ErrDuplicate)
}

func TestSetActive(t *testing.T) {
	repo := newMemoryUserRepo()
	service := NewService(repo)

	user, err := service.CreateUser(context.Background(), "user@example.com", "pw", "User", "editor")
	require.NoError(t, err)

	deactivated, err := service.SetActive(context.Background(), user.ID, false)
	require.NoError(t, err)
	require.False(t, deactivated.IsActive)

	reactivated, err := service.SetActive(context.Background(), user.ID, true)
	require.NoError(t, err)
	require.True(t, reactivated.IsActive)

	_, err = service.SetActive(context.Background(), "no-such-id", false)
	require.ErrorIs(t, err, shared.ErrNotFound)
}
