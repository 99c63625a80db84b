package auth

import (
	"github.com/golang-jwt/jwt/v5"

	"github.com/doctorpiscinas/storefront-backend/pkg/enums"
)

// AccessTokenPayload captures the data available when minting a JWT.
type AccessTokenPayload struct {
	Email string
	Role  enums.AdminRole
	JTI   string
}

// AccessTokenClaims represents the typed JWT issued to back-office users.
type AccessTokenClaims struct {
	Email string          `json:"email"`
	Role  enums.AdminRole `json:"role"`
	jwt.RegisteredClaims
}
