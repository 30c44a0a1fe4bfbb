package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/identato/auth-service/internal/core/domain"
	"github.com/identato/auth-service/internal/core/ports"
)

type stubAuthService struct {
	registerUserFn  func(ctx context.Context, in ports.RegisterInput) (*domain.User, error)
	registerAdminFn func(ctx context.Context, in ports.RegisterInput) (*domain.User, error)
	loginFn         func(ctx context.Context, email, password string) (ports.TokenPair, error)
	refreshFn       func(ctx context.Context, token string) (ports.TokenPair, error)
}

func (s *stubAuthService) RegisterUser(ctx context.Context, in ports.RegisterInput) (*domain.User, error) {
	return s.registerUserFn(ctx, in)
}

func (s *stubAuthService) RegisterAdmin(ctx context.Context, in ports.RegisterInput) (*domain.User, error) {
	return s.registerAdminFn(ctx, in)
}

func (s *stubAuthService) Login(ctx context.Context, email, password string) (ports.TokenPair, error) {
	return s.loginFn(ctx, email, password)
}

func (s *stubAuthService) Refresh(ctx context.Context, token string) (ports.TokenPair, error) {
	return s.refreshFn(ctx, token)
}

func newTestContext(t *testing.T, method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	e.Validator = NewValidator()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	return resp
}

func TestAuthHandler_RegisterUser_Success(t *testing.T) {
	stub := &stubAuthService{
		registerUserFn: func(_ context.Context, in ports.RegisterInput) (*domain.User, error) {
			if in.Email != "a@x.com" || in.Password != "p1" || in.ConfirmPassword != "p1" {
				t.Fatalf("unexpected input: %+v", in)
			}
			return &domain.User{
				UUID:      "uuid-1",
				FirstName: in.FirstName,
				LastName:  in.LastName,
				Email:     in.Email,
				Role:      domain.RoleUser,
			}, nil
		},
	}
	h := NewAuthHandler(stub)

	c, rec := newTestContext(t, http.MethodPost, "/auth/user/register",
		`{"firstName":"Alice","lastName":"Smith","email":"a@x.com","password":"p1","confirmPassword":"p1"}`)

	if err := h.RegisterUser(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	resp := decodeEnvelope(t, rec)
	if resp["isSuccess"] != true {
		t.Fatalf("expected isSuccess=true: %+v", resp)
	}
	if resp["statusCode"] != float64(http.StatusOK) {
		t.Fatalf("unexpected statusCode: %v", resp["statusCode"])
	}
	if resp["message"] != "User registered successfully" {
		t.Fatalf("unexpected message: %v", resp["message"])
	}

	data, ok := resp["data"].(map[string]any)
	if !ok {
		t.Fatalf("expected data object, got %+v", resp["data"])
	}
	if data["uuid"] != "uuid-1" || data["userEmail"] != "a@x.com" {
		t.Fatalf("unexpected data payload: %+v", data)
	}
	if _, leaked := data["password"]; leaked {
		t.Fatalf("password must not appear in the response")
	}
}

func TestAuthHandler_RegisterAdmin_Success(t *testing.T) {
	stub := &stubAuthService{
		registerAdminFn: func(_ context.Context, in ports.RegisterInput) (*domain.User, error) {
			return &domain.User{UUID: "uuid-2", Email: in.Email, Role: domain.RoleAdmin}, nil
		},
	}
	h := NewAuthHandler(stub)

	c, rec := newTestContext(t, http.MethodPost, "/auth/admin/register",
		`{"firstName":"Root","lastName":"Admin","email":"root@x.com","password":"p1","confirmPassword":"p1"}`)

	if err := h.RegisterAdmin(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	resp := decodeEnvelope(t, rec)
	if resp["message"] != "Admin registered successfully" {
		t.Fatalf("unexpected message: %v", resp["message"])
	}
}

func TestAuthHandler_Register_PasswordMismatchPropagates(t *testing.T) {
	stub := &stubAuthService{
		registerUserFn: func(context.Context, ports.RegisterInput) (*domain.User, error) {
			return nil, domain.ErrPasswordMismatch
		},
	}
	h := NewAuthHandler(stub)

	c, _ := newTestContext(t, http.MethodPost, "/auth/user/register",
		`{"firstName":"Alice","lastName":"Smith","email":"a@x.com","password":"p1","confirmPassword":"p2"}`)

	err := h.RegisterUser(c)
	if !errors.Is(err, domain.ErrPasswordMismatch) {
		t.Fatalf("expected ErrPasswordMismatch, got %v", err)
	}
}

func TestAuthHandler_Register_InvalidPayload(t *testing.T) {
	stub := &stubAuthService{
		registerUserFn: func(context.Context, ports.RegisterInput) (*domain.User, error) {
			t.Fatalf("service should not be called")
			return nil, nil
		},
	}
	h := NewAuthHandler(stub)

	c, _ := newTestContext(t, http.MethodPost, "/auth/user/register", "not-json")

	err := h.RegisterUser(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 HTTPError, got %v", err)
	}
}

func TestAuthHandler_Register_MissingFields(t *testing.T) {
	stub := &stubAuthService{
		registerUserFn: func(context.Context, ports.RegisterInput) (*domain.User, error) {
			t.Fatalf("service should not be called")
			return nil, nil
		},
	}
	h := NewAuthHandler(stub)

	c, _ := newTestContext(t, http.MethodPost, "/auth/user/register", `{"email":"not-an-email"}`)

	err := h.RegisterUser(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 HTTPError, got %v", err)
	}
}

func TestAuthHandler_Login_Success(t *testing.T) {
	stub := &stubAuthService{
		loginFn: func(_ context.Context, email, pwd string) (ports.TokenPair, error) {
			if email != "a@x.com" || pwd != "p1" {
				t.Fatalf("unexpected args: %s %s", email, pwd)
			}
			return ports.TokenPair{AccessToken: "acc", RefreshToken: "ref"}, nil
		},
	}
	h := NewAuthHandler(stub)

	c, rec := newTestContext(t, http.MethodPost, "/auth/login", `{"email":"a@x.com","password":"p1"}`)

	if err := h.Login(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	resp := decodeEnvelope(t, rec)
	data, _ := resp["data"].(map[string]any)
	if data["access_token"] != "acc" || data["refresh_token"] != "ref" {
		t.Fatalf("unexpected token payload: %+v", data)
	}
	if resp["message"] != "Login successful" {
		t.Fatalf("unexpected message: %v", resp["message"])
	}
}

func TestAuthHandler_Login_InvalidCredentialsPropagates(t *testing.T) {
	stub := &stubAuthService{
		loginFn: func(context.Context, string, string) (ports.TokenPair, error) {
			return ports.TokenPair{}, domain.ErrInvalidCredentials
		},
	}
	h := NewAuthHandler(stub)

	c, _ := newTestContext(t, http.MethodPost, "/auth/login", `{"email":"a@x.com","password":"bad"}`)

	err := h.Login(c)
	if !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthHandler_Refresh_EchoesToken(t *testing.T) {
	stub := &stubAuthService{
		refreshFn: func(_ context.Context, token string) (ports.TokenPair, error) {
			if token != "refresh-1" {
				t.Fatalf("unexpected token: %s", token)
			}
			return ports.TokenPair{AccessToken: "acc-2", RefreshToken: token}, nil
		},
	}
	h := NewAuthHandler(stub)

	c, rec := newTestContext(t, http.MethodPost, "/auth/refresh-token", `{"token":"refresh-1"}`)

	if err := h.Refresh(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	resp := decodeEnvelope(t, rec)
	data, _ := resp["data"].(map[string]any)
	if data["refresh_token"] != "refresh-1" {
		t.Fatalf("refresh token must be returned unchanged: %+v", data)
	}
	if data["access_token"] != "acc-2" {
		t.Fatalf("expected new access token: %+v", data)
	}
}

func TestAuthHandler_Refresh_InvalidTokenPropagates(t *testing.T) {
	stub := &stubAuthService{
		refreshFn: func(context.Context, string) (ports.TokenPair, error) {
			return ports.TokenPair{}, domain.ErrTokenInvalid
		},
	}
	h := NewAuthHandler(stub)

	c, _ := newTestContext(t, http.MethodPost, "/auth/refresh-token", `{"token":"expired"}`)

	err := h.Refresh(c)
	if !errors.Is(err, domain.ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid, got %v", err)
	}
}
