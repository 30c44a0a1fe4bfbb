package service

import (
	"encoding/base64"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/identato/auth-service/internal/core/domain"
)

var testKey = []byte("0123456789abcdef0123456789abcdef")

func testSecret() string {
	return base64.StdEncoding.EncodeToString(testKey)
}

func newTestTokenService(t *testing.T) *TokenService {
	t.Helper()
	s, err := NewTokenService(testSecret(), time.Hour, 24*time.Hour)
	if err != nil {
		t.Fatalf("NewTokenService: %v", err)
	}
	return s
}

func testUser() *domain.User {
	return &domain.User{
		UUID:      "9f4c1e9a-1111-2222-3333-444455556666",
		FirstName: "Alice",
		LastName:  "Smith",
		Email:     "alice@example.com",
		Role:      domain.RoleUser,
	}
}

func signTestToken(t *testing.T, claims jwt.MapClaims, key []byte) string {
	t.Helper()
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(key)
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func TestNewTokenService_RejectsBadSecret(t *testing.T) {
	if _, err := NewTokenService("", time.Hour, time.Hour); err == nil {
		t.Fatalf("expected error for empty secret")
	}
	if _, err := NewTokenService("not base64!!!", time.Hour, time.Hour); err == nil {
		t.Fatalf("expected error for undecodable secret")
	}
}

func TestTokenService_AccessTokenClaims(t *testing.T) {
	svc := newTestTokenService(t)
	user := testUser()

	token, err := svc.IssueAccessToken(user)
	if err != nil {
		t.Fatalf("IssueAccessToken: %v", err)
	}

	sub, err := svc.ExtractSubject(token)
	if err != nil {
		t.Fatalf("ExtractSubject: %v", err)
	}
	if sub != "AliceSmith" {
		t.Fatalf("expected subject AliceSmith, got %q", sub)
	}

	email, err := svc.ExtractEmail(token)
	if err != nil {
		t.Fatalf("ExtractEmail: %v", err)
	}
	if email != user.Email {
		t.Fatalf("expected email %q, got %q", user.Email, email)
	}

	claims := jwt.MapClaims{}
	if _, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) { return testKey, nil }); err != nil {
		t.Fatalf("parse issued token: %v", err)
	}
	if claims["iss"] != "app-service" {
		t.Fatalf("unexpected issuer: %v", claims["iss"])
	}
	if claims["user_role"] != domain.RoleUser {
		t.Fatalf("unexpected role claim: %v", claims["user_role"])
	}
	if claims["user_id"] != user.UUID {
		t.Fatalf("unexpected id claim: %v", claims["user_id"])
	}
}

func TestTokenService_RefreshTokenMergesExtraClaims(t *testing.T) {
	svc := newTestTokenService(t)
	user := testUser()

	token, err := svc.IssueRefreshToken(user, map[string]any{"session": "abc"})
	if err != nil {
		t.Fatalf("IssueRefreshToken: %v", err)
	}

	claims := jwt.MapClaims{}
	if _, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) { return testKey, nil }); err != nil {
		t.Fatalf("parse refresh token: %v", err)
	}
	if claims["session"] != "abc" {
		t.Fatalf("extra claim not merged: %v", claims["session"])
	}
	if claims["sub"] != user.Username() {
		t.Fatalf("unexpected subject: %v", claims["sub"])
	}
	if claims["user_email"] != user.Email {
		t.Fatalf("refresh token missing email claim: %v", claims["user_email"])
	}
}

func TestTokenService_IsValid_FreshToken(t *testing.T) {
	svc := newTestTokenService(t)
	user := testUser()

	token, err := svc.IssueAccessToken(user)
	if err != nil {
		t.Fatalf("IssueAccessToken: %v", err)
	}

	ok, err := svc.IsValid(token, user)
	if err != nil {
		t.Fatalf("IsValid: %v", err)
	}
	if !ok {
		t.Fatalf("expected fresh token to be valid")
	}
}

func TestTokenService_IsValid_Expired(t *testing.T) {
	svc := newTestTokenService(t)
	user := testUser()

	token := signTestToken(t, jwt.MapClaims{
		"sub": user.Username(),
		"iat": time.Now().Add(-2 * time.Hour).Unix(),
		"exp": time.Now().Add(-time.Minute).Unix(),
	}, testKey)

	ok, err := svc.IsValid(token, user)
	if err != nil {
		t.Fatalf("expired token should not error: %v", err)
	}
	if ok {
		t.Fatalf("expected expired token to be invalid")
	}
}

func TestTokenService_IsValid_MissingExpiry(t *testing.T) {
	svc := newTestTokenService(t)
	user := testUser()

	token := signTestToken(t, jwt.MapClaims{
		"sub": user.Username(),
		"iat": time.Now().Unix(),
	}, testKey)

	ok, err := svc.IsValid(token, user)
	if err != nil {
		t.Fatalf("token without exp should not error: %v", err)
	}
	if ok {
		t.Fatalf("expected token without exp to be invalid")
	}
}

func TestTokenService_IsValid_SubjectMismatch(t *testing.T) {
	svc := newTestTokenService(t)

	token, err := svc.IssueAccessToken(testUser())
	if err != nil {
		t.Fatalf("IssueAccessToken: %v", err)
	}

	other := testUser()
	other.FirstName = "Bob"

	ok, err := svc.IsValid(token, other)
	if err != nil {
		t.Fatalf("subject mismatch should not error: %v", err)
	}
	if ok {
		t.Fatalf("expected token for another principal to be invalid")
	}
}

func TestTokenService_IsValid_WrongKey(t *testing.T) {
	svc := newTestTokenService(t)
	user := testUser()

	token := signTestToken(t, jwt.MapClaims{
		"sub": user.Username(),
		"exp": time.Now().Add(time.Hour).Unix(),
	}, []byte("another-key-entirely-0123456789a"))

	ok, err := svc.IsValid(token, user)
	if err != nil {
		t.Fatalf("wrong-key token should not error: %v", err)
	}
	if ok {
		t.Fatalf("expected token signed with another key to be invalid")
	}
}

func TestTokenService_Tampering(t *testing.T) {
	svc := newTestTokenService(t)
	user := testUser()

	token, err := svc.IssueAccessToken(user)
	if err != nil {
		t.Fatalf("IssueAccessToken: %v", err)
	}

	raw := []byte(token)
	mid := len(raw) / 2
	if raw[mid] == 'A' {
		raw[mid] = 'B'
	} else {
		raw[mid] = 'A'
	}
	tampered := string(raw)

	if _, err := svc.ExtractSubject(tampered); !errors.Is(err, domain.ErrTokenMalformed) {
		t.Fatalf("expected ErrTokenMalformed, got %v", err)
	}
	if _, err := svc.ExtractEmail(tampered); !errors.Is(err, domain.ErrTokenMalformed) {
		t.Fatalf("expected ErrTokenMalformed, got %v", err)
	}
	if ok, _ := svc.IsValid(tampered, user); ok {
		t.Fatalf("expected tampered token to be invalid")
	}
}

func TestTokenService_Extract_Malformed(t *testing.T) {
	svc := newTestTokenService(t)

	if _, err := svc.ExtractSubject("not-a-token"); !errors.Is(err, domain.ErrTokenMalformed) {
		t.Fatalf("expected ErrTokenMalformed, got %v", err)
	}
}

func TestTokenService_Extract_MissingClaim(t *testing.T) {
	svc := newTestTokenService(t)

	token := signTestToken(t, jwt.MapClaims{
		"iat": time.Now().Unix(),
		"exp": time.Now().Add(time.Hour).Unix(),
	}, testKey)

	email, err := svc.ExtractEmail(token)
	if err != nil {
		t.Fatalf("verified token without user_email should not error: %v", err)
	}
	if email != "" {
		t.Fatalf("expected empty email, got %q", email)
	}

	sub, err := svc.ExtractSubject(token)
	if err != nil {
		t.Fatalf("verified token without sub should not error: %v", err)
	}
	if sub != "" {
		t.Fatalf("expected empty subject, got %q", sub)
	}
}
