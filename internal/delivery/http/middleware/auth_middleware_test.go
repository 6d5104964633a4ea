package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"mediconnect/internal/delivery/dto"
	"mediconnect/internal/domain/entity"

	"github.com/google/uuid"
)

// stubAuthUsecase resolves exactly one token.
type stubAuthUsecase struct {
	validToken string
	principal  entity.Principal
}

func (s *stubAuthUsecase) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.UserResponse, error) {
	return nil, nil
}

func (s *stubAuthUsecase) Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error) {
	return nil, nil
}

func (s *stubAuthUsecase) Logout(ctx context.Context, token string) error {
	return nil
}

func (s *stubAuthUsecase) Authenticate(ctx context.Context, token string) (*entity.Principal, error) {
	if token == s.validToken {
		p := s.principal
		return &p, nil
	}
	return nil, nil
}

func (s *stubAuthUsecase) CurrentUser(ctx context.Context, principal entity.Principal) (*dto.UserResponse, error) {
	return nil, nil
}

const testCookieName = "MEDICONNECT_SESSION"

func newTestMiddleware() (*AuthMiddleware, entity.Principal, string) {
	principal := entity.Principal{
		UserID: uuid.New(),
		Role:   entity.RolePatient,
		Email:  "patient@example.com",
	}
	token := uuid.NewString()
	m := NewAuthMiddleware(&stubAuthUsecase{validToken: token, principal: principal}, testCookieName)
	return m, principal, token
}

func okHandler(t *testing.T, wantPrincipal *entity.Principal) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if wantPrincipal != nil {
			got, ok := GetPrincipalFromContext(r.Context())
			if !ok {
				t.Error("principal missing from context")
			} else if got.UserID != wantPrincipal.UserID {
				t.Errorf("principal UserID = %s, want %s", got.UserID, wantPrincipal.UserID)
			}
		}
		w.WriteHeader(http.StatusOK)
	})
}

func TestAuthMiddlewareExemptPaths(t *testing.T) {
	m, _, _ := newTestMiddleware()

	for _, path := range []string{"/api/health", "/api/auth/login", "/api/auth/register", "/"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()

		m.Authenticate(okHandler(t, nil)).ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Errorf("%s: status = %d, want 200 without a session", path, rec.Code)
		}
	}
}

func TestAuthMiddlewareMissingToken(t *testing.T) {
	m, _, _ := newTestMiddleware()

	req := httptest.NewRequest(http.MethodGet, "/api/appointments/my-appointments", nil)
	rec := httptest.NewRecorder()

	m.Authenticate(okHandler(t, nil)).ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}

func TestAuthMiddlewareUnknownToken(t *testing.T) {
	m, _, _ := newTestMiddleware()

	req := httptest.NewRequest(http.MethodGet, "/api/appointments/my-appointments", nil)
	req.AddCookie(&http.Cookie{Name: testCookieName, Value: "bogus"})
	rec := httptest.NewRecorder()

	m.Authenticate(okHandler(t, nil)).ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}

func TestAuthMiddlewareValidCookie(t *testing.T) {
	m, principal, token := newTestMiddleware()

	req := httptest.NewRequest(http.MethodGet, "/api/appointments/my-appointments", nil)
	req.AddCookie(&http.Cookie{Name: testCookieName, Value: token})
	rec := httptest.NewRecorder()

	m.Authenticate(okHandler(t, &principal)).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
}

func TestAuthMiddlewareBearerFallback(t *testing.T) {
	m, principal, token := newTestMiddleware()

	req := httptest.NewRequest(http.MethodGet, "/api/appointments/my-appointments", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()

	m.Authenticate(okHandler(t, &principal)).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
}

func TestRequireRole(t *testing.T) {
	principal := entity.Principal{UserID: uuid.New(), Role: entity.RolePatient}

	handler := RequireRole(entity.RoleDoctor)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/doctor/dashboard", nil)
	req = req.WithContext(context.WithValue(req.Context(), PrincipalKey, principal))
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Errorf("patient on doctor route: status = %d, want 403", rec.Code)
	}

	principal.Role = entity.RoleDoctor
	req = httptest.NewRequest(http.MethodGet, "/api/doctor/dashboard", nil)
	req = req.WithContext(context.WithValue(req.Context(), PrincipalKey, principal))
	rec = httptest.NewRecorder()

	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("doctor on doctor route: status = %d, want 200", rec.Code)
	}
}
