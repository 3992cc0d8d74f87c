package auth

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// AccessTokenPayload captures the data available when minting a JWT.
type AccessTokenPayload struct {
	UserID        uuid.UUID
	StorefrontKey string
	JTI           string
}

// AccessTokenClaims represents the typed JWT issued to clients. The
// registered claim ID carries the session identifier.
type AccessTokenClaims struct {
	UserID        uuid.UUID `json:"user_id"`
	StorefrontKey string    `json:"storefront_key,omitempty"`
	jwt.RegisteredClaims
}
