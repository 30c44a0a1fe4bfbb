package service

import (
	"encoding/base64"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/identato/auth-service/internal/core/domain"
)

const (
	tokenIssuer       = "app-service"
	defaultAccessTTL  = 24 * time.Hour
	defaultRefreshTTL = 7 * 24 * time.Hour
)

// TokenService signs and parses HS256 bearer tokens with a single
// process-wide symmetric key. Issuance has no side effects; a token is a
// pure function of the principal, the current time and the key.
type TokenService struct {
	key        []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
}

// NewTokenService decodes the base64 signing secret once and reuses the
// resulting key for every sign and verify call. The key never appears in
// logs or error messages.
func NewTokenService(secret string, accessTTL, refreshTTL time.Duration) (*TokenService, error) {
	if secret == "" {
		return nil, errors.New("token: signing secret is empty")
	}
	key, err := base64.StdEncoding.DecodeString(secret)
	if err != nil {
		return nil, errors.New("token: signing secret is not valid base64")
	}
	if accessTTL <= 0 {
		accessTTL = defaultAccessTTL
	}
	if refreshTTL <= 0 {
		refreshTTL = defaultRefreshTTL
	}
	return &TokenService{key: key, accessTTL: accessTTL, refreshTTL: refreshTTL}, nil
}

func (s *TokenService) IssueAccessToken(user *domain.User) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":        user.Username(),
		"iat":        now.Unix(),
		"exp":        now.Add(s.accessTTL).Unix(),
		"iss":        tokenIssuer,
		"user_id":    user.UUID,
		"user_role":  user.Role,
		"user_email": user.Email,
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.key)
}

func (s *TokenService) IssueRefreshToken(user *domain.User, extra map[string]any) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{}
	for k, v := range extra {
		claims[k] = v
	}
	claims["sub"] = user.Username()
	claims["iat"] = now.Unix()
	claims["exp"] = now.Add(s.refreshTTL).Unix()
	claims["iss"] = tokenIssuer
	// The refresh flow resolves the principal from this claim; without it a
	// refresh token could never be exchanged.
	claims["user_email"] = user.Email
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.key)
}

func (s *TokenService) ExtractSubject(token string) (string, error) {
	claims, err := s.parse(token)
	if err != nil {
		return "", err
	}
	sub, _ := claims["sub"].(string)
	return sub, nil
}

func (s *TokenService) ExtractEmail(token string) (string, error) {
	claims, err := s.parse(token)
	if err != nil {
		return "", err
	}
	email, _ := claims["user_email"].(string)
	return email, nil
}

// IsValid reports whether the signature verifies, the subject matches the
// principal's username and the expiry is strictly in the future. A token
// without an exp claim never validates. Expired or tampered tokens yield
// (false, nil); only input that cannot be parsed at all yields an error.
func (s *TokenService) IsValid(token string, user *domain.User) (bool, error) {
	claims := jwt.MapClaims{}
	tkn, err := jwt.ParseWithClaims(token, claims, s.keyFunc, jwt.WithExpirationRequired())
	switch {
	case err == nil && tkn.Valid:
	case errors.Is(err, jwt.ErrTokenExpired),
		errors.Is(err, jwt.ErrTokenSignatureInvalid),
		errors.Is(err, jwt.ErrTokenRequiredClaimMissing):
		return false, nil
	default:
		return false, domain.ErrTokenMalformed
	}

	sub, _ := claims["sub"].(string)
	return sub == user.Username(), nil
}

// parse verifies the signature but skips claim validation so that claims can
// still be read from an expired token.
func (s *TokenService) parse(token string) (jwt.MapClaims, error) {
	claims := jwt.MapClaims{}
	if _, err := jwt.ParseWithClaims(token, claims, s.keyFunc, jwt.WithoutClaimsValidation()); err != nil {
		return nil, domain.ErrTokenMalformed
	}
	return claims, nil
}

func (s *TokenService) keyFunc(t *jwt.Token) (any, error) {
	if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
		return nil, jwt.ErrTokenSignatureInvalid
	}
	return s.key, nil
}
