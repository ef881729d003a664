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

	"github.com/rioadmin/account-service/internal/api/middleware"
	"github.com/rioadmin/account-service/internal/core/domain"
)

type stubAuthService struct {
	registerFn   func(ctx context.Context, username, email, password string) (*domain.User, error)
	loginFn      func(ctx context.Context, email, password string) (string, *domain.User, error)
	adminLoginFn func(ctx context.Context, username, password string) (string, *domain.Principal, error)
}

func (s *stubAuthService) Register(ctx context.Context, username, email, password string) (*domain.User, error) {
	return s.registerFn(ctx, username, email, password)
}

func (s *stubAuthService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	return s.loginFn(ctx, email, password)
}

func (s *stubAuthService) AdminLogin(ctx context.Context, username, password string) (string, *domain.Principal, error) {
	return s.adminLoginFn(ctx, username, password)
}

func newEcho() *echo.Echo {
	e := echo.New()
	e.Validator = NewValidator()
	return e
}

func jsonRequest(e *echo.Echo, method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func expectHTTPError(t *testing.T, err error, code int) {
	t.Helper()
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != code {
		t.Fatalf("expected HTTP %d, got %v", code, err)
	}
}

func TestAuthHandler_Register_Success(t *testing.T) {
	stub := &stubAuthService{
		registerFn: func(ctx context.Context, username, email, password string) (*domain.User, error) {
			if username != "alice" || email != "a@example.com" || password != "secret1" {
				t.Fatalf("unexpected args: %s %s %s", username, email, password)
			}
			return &domain.User{ID: "u1", Username: username, Email: email, Role: domain.RoleUser, IsActive: true, PasswordHash: "hash"}, nil
		},
	}
	c, rec := jsonRequest(newEcho(), http.MethodPost, "/api/auth/register",
		`{"username":"alice","email":"a@example.com","password":"secret1"}`)

	if err := NewAuthHandler(stub).Register(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	if strings.Contains(rec.Body.String(), "hash") {
		t.Fatalf("password hash leaked: %s", rec.Body.String())
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	user, ok := resp["user"].(map[string]any)
	if !ok || user["username"] != "alice" || user["role"] != "user" || user["balance"] != 0.0 {
		t.Fatalf("unexpected user payload: %+v", resp)
	}
}

func TestAuthHandler_Register_UserExists(t *testing.T) {
	stub := &stubAuthService{
		registerFn: func(context.Context, string, string, string) (*domain.User, error) {
			return nil, domain.ErrUserExists
		},
	}
	c, _ := jsonRequest(newEcho(), http.MethodPost, "/api/auth/register",
		`{"username":"bob","email":"bob@example.com","password":"secret1"}`)

	if err := NewAuthHandler(stub).Register(c); !errors.Is(err, domain.ErrUserExists) {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
}

func TestAuthHandler_Register_InvalidPayload(t *testing.T) {
	stub := &stubAuthService{
		registerFn: func(context.Context, string, string, string) (*domain.User, error) {
			t.Fatalf("should not be called")
			return nil, nil
		},
	}
	h := NewAuthHandler(stub)

	for _, body := range []string{"not-json", `{"username":"bob"}`, `{"username":"bob","email":"nope","password":"secret1"}`} {
		c, _ := jsonRequest(newEcho(), http.MethodPost, "/api/auth/register", body)
		expectHTTPError(t, h.Register(c), http.StatusBadRequest)
	}
}

func TestAuthHandler_Login_Success(t *testing.T) {
	stub := &stubAuthService{
		loginFn: func(ctx context.Context, email, password string) (string, *domain.User, error) {
			if email != "alice@example.com" || password != "secret" {
				t.Fatalf("unexpected args: %s %s", email, password)
			}
			return "token123", &domain.User{ID: "u1", Username: "alice", Role: domain.RoleUser}, nil
		},
	}
	c, rec := jsonRequest(newEcho(), http.MethodPost, "/api/auth/login", `{"email":"alice@example.com","password":"secret"}`)

	if err := NewAuthHandler(stub).Login(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["token"] != "token123" {
		t.Fatalf("expected token, got %v", resp["token"])
	}
}

func TestAuthHandler_Login_Errors(t *testing.T) {
	for _, want := range []error{domain.ErrInvalidCredentials, domain.ErrAccountDeactivated} {
		stub := &stubAuthService{
			loginFn: func(context.Context, string, string) (string, *domain.User, error) {
				return "", nil, want
			},
		}
		c, _ := jsonRequest(newEcho(), http.MethodPost, "/api/auth/login", `{"email":"alice@example.com","password":"bad"}`)

		if err := NewAuthHandler(stub).Login(c); !errors.Is(err, want) {
			t.Fatalf("expected %v, got %v", want, err)
		}
	}
}

func TestAuthHandler_Login_InvalidPayload(t *testing.T) {
	stub := &stubAuthService{
		loginFn: func(context.Context, string, string) (string, *domain.User, error) {
			t.Fatalf("should not be called")
			return "", nil, nil
		},
	}
	c, _ := jsonRequest(newEcho(), http.MethodPost, "/api/auth/login", "{")

	expectHTTPError(t, NewAuthHandler(stub).Login(c), http.StatusBadRequest)
}

func TestAuthHandler_AdminLogin(t *testing.T) {
	stub := &stubAuthService{
		adminLoginFn: func(ctx context.Context, username, password string) (string, *domain.Principal, error) {
			if username != "AdminRio" || password != "RioBoss" {
				return "", nil, domain.ErrInvalidCredentials
			}
			return "admintoken", domain.NewAdminPrincipal(username), nil
		},
	}
	h := NewAuthHandler(stub)

	c, rec := jsonRequest(newEcho(), http.MethodPost, "/api/admin/login", `{"username":"AdminRio","password":"RioBoss"}`)
	if err := h.AdminLogin(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	var resp adminLoginResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.Token != "admintoken" || resp.Admin.Role != domain.RoleAdmin || resp.Admin.Username != "AdminRio" {
		t.Fatalf("unexpected response: %+v", resp)
	}

	c, _ = jsonRequest(newEcho(), http.MethodPost, "/api/admin/login", `{"username":"AdminRio","password":"nope"}`)
	if err := h.AdminLogin(c); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthHandler_Dashboard(t *testing.T) {
	h := NewAuthHandler(&stubAuthService{})

	c, _ := jsonRequest(newEcho(), http.MethodGet, "/api/auth/dashboard", "")
	if err := h.Dashboard(c); !errors.Is(err, domain.ErrMissingToken) {
		t.Fatalf("expected ErrMissingToken without principal, got %v", err)
	}

	c, rec := jsonRequest(newEcho(), http.MethodGet, "/api/auth/dashboard", "")
	c.Set(middleware.PrincipalKey, domain.NewUserPrincipal(&domain.User{ID: "u1", Username: "alice", Role: domain.RoleUser, Balance: 12.5}))
	if err := h.Dashboard(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	var resp principalResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.ID != "u1" || resp.Kind != "stored_user" || resp.User == nil || resp.User.Balance != 12.5 {
		t.Fatalf("unexpected response: %+v", resp)
	}
}
