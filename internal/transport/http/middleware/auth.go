package middleware

import (
	"context"
	"net/http"
	"strings"

	jwtinfra "github.com/go-commerce-api/internal/infrastructure/jwt"
)

type contextKey string

const claimsKey contextKey = "claims"

// Access-token cookie names, one per role so a browser can hold a buyer and a
// seller session side by side.
const (
	UserAccessCookie   = "access_token"
	SellerAccessCookie = "seller-access-token"
)

// Auth returns middleware that resolves the access token from the Bearer
// header or, failing that, either role's access cookie, and injects the
// verified claims into context.
func Auth(provider *jwtinfra.Provider) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenStr := bearerToken(r)
			if tokenStr == "" {
				tokenStr = cookieToken(r)
			}
			if tokenStr == "" {
				writeJSONError(w, http.StatusUnauthorized, "missing credentials")
				return
			}
			claims, err := provider.VerifyAccess(tokenStr)
			if err != nil {
				writeJSONError(w, http.StatusUnauthorized, "invalid or expired token")
				return
			}
			ctx := context.WithValue(r.Context(), claimsKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ClaimsFromContext extracts JWT claims from the request context.
func ClaimsFromContext(ctx context.Context) (*jwtinfra.Claims, bool) {
	c, ok := ctx.Value(claimsKey).(*jwtinfra.Claims)
	return c, ok
}

func bearerToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}
	return ""
}

func cookieToken(r *http.Request) string {
	for _, name := range []string{UserAccessCookie, SellerAccessCookie} {
		if c, err := r.Cookie(name); err == nil && c.Value != "" {
			return c.Value
		}
	}
	return ""
}
