package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/identato/auth-service/internal/core/domain"
	"github.com/identato/auth-service/internal/core/ports"
)

// AuthService implements registration and the login/refresh token flows.
type AuthService struct {
	repo    ports.UserRepository
	tokens  ports.TokenService
	hasher  ports.PasswordHasher
	limiter ports.AttemptLimiter
	log     zerolog.Logger
}

// NewAuthService wires the credential store, token service and hasher.
// limiter may be nil, which disables failed-login throttling.
func NewAuthService(repo ports.UserRepository, tokens ports.TokenService, hasher ports.PasswordHasher, limiter ports.AttemptLimiter, log zerolog.Logger) *AuthService {
	return &AuthService{repo: repo, tokens: tokens, hasher: hasher, limiter: limiter, log: log}
}

func (s *AuthService) RegisterUser(ctx context.Context, in ports.RegisterInput) (*domain.User, error) {
	return s.register(ctx, in, domain.RoleUser)
}

func (s *AuthService) RegisterAdmin(ctx context.Context, in ports.RegisterInput) (*domain.User, error) {
	return s.register(ctx, in, domain.RoleAdmin)
}

func (s *AuthService) register(ctx context.Context, in ports.RegisterInput, role string) (*domain.User, error) {
	if in.Password != in.ConfirmPassword {
		return nil, domain.ErrPasswordMismatch
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	user := &domain.User{
		UUID:         uuid.NewString(),
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Email:        in.Email,
		PasswordHash: hash,
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	created, err := s.repo.Create(ctx, user)
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (ports.TokenPair, error) {
	if s.limiter != nil {
		blocked, err := s.limiter.TooMany(ctx, email)
		if err != nil {
			// Throttling must not take logins down with it.
			s.log.Warn().Err(err).Msg("attempt limiter unavailable")
		} else if blocked {
			return ports.TokenPair{}, domain.ErrTooManyAttempts
		}
	}

	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return ports.TokenPair{}, err
	}

	if !s.hasher.Matches(password, user.PasswordHash) {
		s.recordFailure(ctx, email)
		return ports.TokenPair{}, domain.ErrInvalidCredentials
	}

	if s.limiter != nil {
		if err := s.limiter.Reset(ctx, email); err != nil {
			s.log.Warn().Err(err).Msg("attempt limiter reset failed")
		}
	}

	access, err := s.tokens.IssueAccessToken(user)
	if err != nil {
		return ports.TokenPair{}, err
	}
	refresh, err := s.tokens.IssueRefreshToken(user, map[string]any{})
	if err != nil {
		return ports.TokenPair{}, err
	}

	return ports.TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

// Refresh exchanges a still-valid refresh token for a new access token. The
// refresh token itself is echoed back unchanged; rotation is a pending
// product decision.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (ports.TokenPair, error) {
	email, err := s.tokens.ExtractEmail(refreshToken)
	if err != nil {
		return ports.TokenPair{}, err
	}

	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return ports.TokenPair{}, err
	}

	ok, err := s.tokens.IsValid(refreshToken, user)
	if err != nil {
		return ports.TokenPair{}, err
	}
	if !ok {
		return ports.TokenPair{}, domain.ErrTokenInvalid
	}

	access, err := s.tokens.IssueAccessToken(user)
	if err != nil {
		return ports.TokenPair{}, err
	}

	return ports.TokenPair{AccessToken: access, RefreshToken: refreshToken}, nil
}

func (s *AuthService) recordFailure(ctx context.Context, email string) {
	if s.limiter == nil {
		return
	}
	if err := s.limiter.RecordFailure(ctx, email); err != nil {
		s.log.Warn().Err(err).Msg("attempt limiter record failed")
	}
}
