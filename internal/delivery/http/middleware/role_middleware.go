package middleware

import (
	"net/http"

	"mediconnect/internal/domain/entity"
	"mediconnect/internal/policy"
	"mediconnect/pkg/response"
)

// RequireRole gates a route to principals holding any of the given
// roles. It assumes Authenticate already ran.
func RequireRole(roles ...entity.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal, ok := GetPrincipalFromContext(r.Context())
			if !ok {
				response.NotAuthenticated(w)
				return
			}

			if !policy.HasRole(principal, roles...) {
				response.Forbidden(w, "You don't have permission to access this resource")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RequirePatient is a convenience middleware for patient-only endpoints
func RequirePatient(next http.Handler) http.Handler {
	return RequireRole(entity.RolePatient)(next)
}

// RequireDoctor is a convenience middleware for doctor-only endpoints
func RequireDoctor(next http.Handler) http.Handler {
	return RequireRole(entity.RoleDoctor)(next)
}

// RequirePharmacy is a convenience middleware for pharmacy-only endpoints
func RequirePharmacy(next http.Handler) http.Handler {
	return RequireRole(entity.RolePharmacy)(next)
}
