package ports

import (
	"context"

	"github.com/identato/auth-service/internal/core/domain"
)

// RegisterInput carries the fields of a registration request.
type RegisterInput struct {
	FirstName       string
	LastName        string
	Email           string
	Password        string
	ConfirmPassword string
}

// TokenPair is the result of a successful login or refresh.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// AuthService orchestrates registration and the login/refresh token flows.
type AuthService interface {
	RegisterUser(ctx context.Context, in RegisterInput) (*domain.User, error)
	RegisterAdmin(ctx context.Context, in RegisterInput) (*domain.User, error)
	Login(ctx context.Context, email, password string) (TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (TokenPair, error)
}

// PasswordHasher is the one-way credential verifier: hashes are never
// reversible and comparison happens against the stored hash only.
type PasswordHasher interface {
	Hash(plain string) (string, error)
	Matches(plain, hash string) bool
}

// AttemptLimiter throttles repeated failed logins per email. Implementations
// are optional collaborators; a nil limiter disables throttling.
type AttemptLimiter interface {
	TooMany(ctx context.Context, email string) (bool, error)
	RecordFailure(ctx context.Context, email string) error
	Reset(ctx context.Context, email string) error
}
