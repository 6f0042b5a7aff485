package auth

import (
	"context"
	"net/http"

	"lume-api/internal/apierr"
	"lume-api/internal/utils"
)

type contextKey string

const claimsKey contextKey = "auth_claims"

// Middleware verifies the bearer token, checks the logout denylist
// and puts the claims into the request context.
func Middleware(secret string, denylist *Denylist) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenString, err := ExtractTokenFromRequest(r)
			if err != nil {
				utils.WriteError(w, apierr.ErrUnauthorized)
				return
			}

			claims, err := ValidateToken(secret, tokenString)
			if err != nil {
				utils.WriteError(w, apierr.ErrUnauthorized)
				return
			}

			if denylist != nil {
				revoked, err := denylist.IsRevoked(r.Context(), claims.ID)
				if err == nil && revoked {
					utils.WriteError(w, apierr.ErrUnauthorized)
					return
				}
			}

			ctx := context.WithValue(r.Context(), claimsKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// OptionalMiddleware parses a bearer token when the request carries
// one but never rejects the request. Anonymous callers pass through
// without claims.
func OptionalMiddleware(secret string, denylist *Denylist) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenString, err := ExtractTokenFromRequest(r)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}

			claims, err := ValidateToken(secret, tokenString)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}
			if denylist != nil {
				if revoked, err := denylist.IsRevoked(r.Context(), claims.ID); err == nil && revoked {
					next.ServeHTTP(w, r)
					return
				}
			}

			ctx := context.WithValue(r.Context(), claimsKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRole guards a route group behind one of the given roles.
// Must run after Middleware.
func RequireRole(roles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims := FromContext(r.Context())
			if claims == nil {
				utils.WriteError(w, apierr.ErrUnauthorized)
				return
			}
			for _, role := range roles {
				if claims.Role == role {
					next.ServeHTTP(w, r)
					return
				}
			}
			utils.WriteError(w, apierr.ErrForbidden)
		})
	}
}

// FromContext returns the verified claims, or nil outside an
// authenticated request.
func FromContext(ctx context.Context) *Claims {
	if claims, ok := ctx.Value(claimsKey).(*Claims); ok {
		return claims
	}
	return nil
}
