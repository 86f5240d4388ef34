package users

import (
	"context"

	"github.com/google/uuid"

	"github.com/shinshu-solutions/shinshu-web/internal/auth"
)

// RepositoryPort defines data access methods for users.
type RepositoryPort interface {
	ListUsers(ctx context.Context) ([]User, error)
	CreateUser(ctx context.Context, id, email, passwordHash, name, role string) error
	SetActive(ctx context.Context, id string, active bool) error
	FindByID(ctx context.Context, id string) (*User, error)
}

// Service handles user management business logic.
type Service struct {
	repo RepositoryPort
}

// NewService builds a Service instance.
func NewService(repo RepositoryPort) *Service {
	return &Service{repo: repo}
}

// ListUsers returns all users.
func (s *Service) ListUsers(ctx context.Context) ([]User, error) {
	return s.repo.ListUsers(ctx)
}

// CreateUser hashes the password and inserts the account. Role defaults to
// "admin"; the core imposes no role vocabulary.
func (s *Service) CreateUser(ctx context.Context, email, password, name, role string) (*User, error) {
	if role == "" {
		role = "admin"
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, err
	}
	id := uuid.NewString()
	if err := s.repo.CreateUser(ctx, id, email, hash, name, role); err != nil {
		return nil, err
	}
	return s.repo.FindByID(ctx, id)
}

// SetActive activates or deactivates an account. Deactivating blocks future
// logins immediately and makes the user's existing sessions stop resolving,
// without touching session rows or password data.
func (s *Service) SetActive(ctx context.Context, id string, active bool) (*User, error) {
	if err := s.repo.SetActive(ctx, id, active); err != nil {
		return nil, err
	}
	return s.repo.FindByID(ctx, id)
}
