package middleware

import (
	"net/http"
	"strings"

	"github.com/luisromero/bidhaus-backend/api/responses"
	pkgAuth "github.com/luisromero/bidhaus-backend/pkg/auth"
	"github.com/luisromero/bidhaus-backend/pkg/auth/session"
	"github.com/luisromero/bidhaus-backend/pkg/config"
	pkgerrors "github.com/luisromero/bidhaus-backend/pkg/errors"
	"github.com/luisromero/bidhaus-backend/pkg/logger"
	"github.com/luisromero/bidhaus-backend/pkg/tenant"
)

// Auth validates a bearer token and seeds the request context with the claims.
func Auth(cfg config.JWTConfig, verifier session.AccessSessionChecker, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, err := Authenticate(cfg, verifier, r)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}

			ctx := WithUserID(r.Context(), claims.UserID.String())
			ctx = WithSessionID(ctx, claims.ID)
			if claims.StorefrontKey != "" {
				ctx = tenant.WithStorefront(ctx, claims.StorefrontKey)
			}

			if logg != nil {
				ctx = logg.WithUserID(ctx, claims.UserID.String())
				if claims.StorefrontKey != "" {
					ctx = logg.WithStorefrontKey(ctx, claims.StorefrontKey)
				}
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// Authenticate extracts and verifies the bearer token on the request. The
// stream gateway reuses it before upgrading the socket.
func Authenticate(cfg config.JWTConfig, verifier session.AccessSessionChecker, r *http.Request) (*pkgAuth.AccessTokenClaims, error) {
	token := bearerToken(r)
	if token == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials")
	}

	claims, err := pkgAuth.ParseAccessToken(cfg, token)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid token")
	}

	if claims.ID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing session id")
	}

	if verifier != nil {
		ok, err := verifier.HasSession(r.Context(), claims.ID)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "validate session")
		}
		if !ok {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "session unavailable")
		}
	}

	return claims, nil
}

// bearerToken reads the token from the Authorization header, falling back
// to the access_token query parameter for websocket clients that cannot
// set headers.
func bearerToken(r *http.Request) string {
	raw := strings.TrimSpace(r.Header.Get("Authorization"))
	if raw != "" {
		if strings.HasPrefix(strings.ToLower(raw), "bearer ") {
			return strings.TrimSpace(raw[7:])
		}
		return raw
	}
	return strings.TrimSpace(r.URL.Query().Get("access_token"))
}
