package ports

import (
	"context"

	"github.com/identato/auth-service/internal/core/domain"
)

// UserRepository is the credential store contract. The core never persists
// principals directly; it issues at most one read and, for registration, one
// write per call.
type UserRepository interface {
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
}
