package middleware

import (
	"net/http"
	"strings"

	"github.com/doctorpiscinas/storefront-backend/api/responses"
	pkgerrors "github.com/doctorpiscinas/storefront-backend/pkg/errors"
	"github.com/doctorpiscinas/storefront-backend/pkg/logger"
)

// CartSessionHeader carries the opaque shopper cart session.
const CartSessionHeader = "X-Cart-Session"

const maxCartSessionLength = 64

// CartSession binds the shopper's cart session to the request, minting a new
// one when the header is absent or malformed. The effective id is echoed back
// on every response.
func CartSession(mint func() (string, error), logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sessionID := strings.TrimSpace(r.Header.Get(CartSessionHeader))
			if !validCartSession(sessionID) {
				minted, err := mint()
				if err != nil {
					responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint cart session"))
					return
				}
				sessionID = minted
			}

			w.Header().Set(CartSessionHeader, sessionID)

			ctx := WithCartSession(r.Context(), sessionID)
			if logg != nil {
				ctx = logg.WithCartSession(ctx, sessionID)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func validCartSession(value string) bool {
	if value == "" || len(value) > maxCartSessionLength {
		return false
	}
	for _, r := range value {
		switch {
		case r >= '0' && r <= '9', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r == '-', r == '_':
		default:
			return false
		}
	}
	return true
}
