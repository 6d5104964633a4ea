package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"mediconnect/internal/delivery/dto"
	"mediconnect/internal/domain/entity"
	"mediconnect/internal/usecase"
	"mediconnect/pkg/validator"
)

// failingAuthUsecase returns fixed errors so handler status mapping can
// be checked without a database.
type failingAuthUsecase struct {
	registerErr error
	loginErr    error
}

func (s *failingAuthUsecase) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.UserResponse, error) {
	return nil, s.registerErr
}

func (s *failingAuthUsecase) Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error) {
	return nil, s.loginErr
}

func (s *failingAuthUsecase) Logout(ctx context.Context, token string) error {
	return nil
}

func (s *failingAuthUsecase) Authenticate(ctx context.Context, token string) (*entity.Principal, error) {
	return nil, nil
}

func (s *failingAuthUsecase) CurrentUser(ctx context.Context, principal entity.Principal) (*dto.UserResponse, error) {
	return nil, nil
}

func newAuthHandler(au usecase.AuthUsecase) *AuthHandler {
	return NewAuthHandler(au, validator.NewValidator(), "MEDICONNECT_SESSION", 24*time.Hour)
}

func TestLoginInvalidCredentialsReturnsBadRequest(t *testing.T) {
	h := newAuthHandler(&failingAuthUsecase{loginErr: usecase.ErrInvalidCredentials})

	body := `{"email":"patient@example.com","password":"wrong-password"}`
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(body))
	rec := httptest.NewRecorder()

	h.Login(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("login with bad credentials status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
	if len(rec.Result().Cookies()) != 0 {
		t.Error("failed login must not set a session cookie")
	}
}

func TestRegisterDuplicateEmailReturnsBadRequest(t *testing.T) {
	h := newAuthHandler(&failingAuthUsecase{registerErr: usecase.ErrEmailAlreadyExists})

	body := `{"first_name":"Jane","last_name":"Doe","email":"taken@example.com","password":"secret123","role":"PATIENT"}`
	req := httptest.NewRequest(http.MethodPost, "/api/auth/register", strings.NewReader(body))
	rec := httptest.NewRecorder()

	h.Register(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("register with duplicate email status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}
