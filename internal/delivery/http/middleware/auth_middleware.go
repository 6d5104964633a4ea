package middleware

import (
	"context"
	"net/http"
	"strings"

	"mediconnect/internal/domain/entity"
	"mediconnect/internal/usecase"
	"mediconnect/pkg/response"
)

type contextKey string

const (
	PrincipalKey contextKey = "principal"
	TokenKey     contextKey = "session_token"
)

// exemptPaths are reachable without a session.
var exemptPaths = map[string]bool{
	"/":                  true,
	"/api/health":        true,
	"/api/auth/login":    true,
	"/api/auth/register": true,
}

type AuthMiddleware struct {
	authUsecase usecase.AuthUsecase
	cookieName  string
}

func NewAuthMiddleware(authUsecase usecase.AuthUsecase, cookieName string) *AuthMiddleware {
	return &AuthMiddleware{
		authUsecase: authUsecase,
		cookieName:  cookieName,
	}
}

// Authenticate resolves the session token into a Principal and stores
// it on the request context. Every failure mode, absent, malformed,
// unknown or expired token, produces the same 401 body so callers
// cannot probe token validity.
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if m.exempt(r.URL.Path) {
			next.ServeHTTP(w, r)
			return
		}

		token := m.extractToken(r)
		if token == "" {
			response.NotAuthenticated(w)
			return
		}

		principal, err := m.authUsecase.Authenticate(r.Context(), token)
		if err != nil {
			response.InternalServerError(w, "Failed to validate session")
			return
		}
		if principal == nil {
			response.NotAuthenticated(w)
			return
		}

		ctx := context.WithValue(r.Context(), PrincipalKey, *principal)
		ctx = context.WithValue(ctx, TokenKey, token)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (m *AuthMiddleware) exempt(path string) bool {
	if exemptPaths[path] {
		return true
	}
	return strings.HasPrefix(path, "/static/") || strings.HasPrefix(path, "/assets/")
}

// extractToken prefers the session cookie and falls back to a bearer
// header for non-browser clients.
func (m *AuthMiddleware) extractToken(r *http.Request) string {
	if cookie, err := r.Cookie(m.cookieName); err == nil && cookie.Value != "" {
		return cookie.Value
	}

	authHeader := r.Header.Get("Authorization")
	parts := strings.Split(authHeader, " ")
	if len(parts) == 2 && parts[0] == "Bearer" {
		return parts[1]
	}
	return ""
}

// GetPrincipalFromContext extracts the authenticated principal.
func GetPrincipalFromContext(ctx context.Context) (entity.Principal, bool) {
	principal, ok := ctx.Value(PrincipalKey).(entity.Principal)
	return principal, ok
}

// GetTokenFromContext extracts the raw session token.
func GetTokenFromContext(ctx context.Context) (string, bool) {
	token, ok := ctx.Value(TokenKey).(string)
	return token, ok
}
