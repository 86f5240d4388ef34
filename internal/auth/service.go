package auth

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/shinshu-solutions/shinshu-web/internal/shared"
)

// Service wraps authentication business rules.
type Service struct {
	repo   Repository
	logger *slog.Logger
}

// NewService constructs a new Service.
func NewService(repo Repository, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{repo: repo, logger: logger}
}

// Authenticate validates email/password credentials and returns the public
// view of the account. Unknown email, deactivated account and wrong password
// all collapse into shared.ErrInvalidCredentials; storage failures propagate
// as-is so callers never report them as a credential rejection.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*shared.UserView, error) {
	user, err := s.repo.FindActiveUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.ErrInvalidCredentials
		}
		return nil, err
	}
	if !CheckPassword(password, user.PasswordHash) {
		return nil, shared.ErrInvalidCredentials
	}
	// Best effort: a failed last-login update must not block the login.
	if err := s.repo.UpdateLastLogin(ctx, user.ID, time.Now().UTC()); err != nil {
		s.logger.Warn("update last login", slog.String("user_id", user.ID), slog.Any("error", err))
	}
	return &shared.UserView{
		ID:    user.ID,
		Email: user.Email,
		Name:  user.Name,
		Role:  user.Role,
	}, nil
}
