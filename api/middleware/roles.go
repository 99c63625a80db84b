package middleware

import (
	"net/http"

	"github.com/doctorpiscinas/storefront-backend/api/responses"
	"github.com/doctorpiscinas/storefront-backend/pkg/enums"
	pkgerrors "github.com/doctorpiscinas/storefront-backend/pkg/errors"
	"github.com/doctorpiscinas/storefront-backend/pkg/logger"
)

// RequireRole admits back-office requests whose token role is one of allowed.
// Auth must run first.
func RequireRole(logg *logger.Logger, allowed ...enums.AdminRole) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			role, err := enums.ParseAdminRole(RoleFromContext(r.Context()))
			if err != nil || !roleAllowed(role, allowed) {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeForbidden, "back-office role required"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func roleAllowed(role enums.AdminRole, allowed []enums.AdminRole) bool {
	for _, candidate := range allowed {
		if candidate == role {
			return true
		}
	}
	return false
}
