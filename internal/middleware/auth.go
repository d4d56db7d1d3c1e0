package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/nikhilsahu/tasklist-api/internal/models"
)

// contextKey avoids collisions with other packages' context values.
type contextKey string

const (
	principalKey contextKey = "principal"
	tokenKey     contextKey = "token"
)

// IdentityResolver resolves a bearer token into the principal it names.
type IdentityResolver interface {
	Resolve(ctx context.Context, token string) (*models.User, error)
}

// RequireAuth validates the Authorization header and injects the
// principal and raw token into the request context. Every failure —
// missing header, malformed header, bad token, deleted user — gets the
// same 401 challenge, so callers cannot probe which check failed.
func RequireAuth(resolver IdentityResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			user, err := resolver.Resolve(r.Context(), token)
			if err != nil {
				w.Header().Set("WWW-Authenticate", "Bearer")
				http.Error(w, `{"error":"could not validate credentials"}`, http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), principalKey, user)
			ctx = context.WithValue(ctx, tokenKey, token)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// bearerToken extracts the token from an "Authorization: Bearer <token>"
// header, or returns "" if the header is missing or malformed.
func bearerToken(r *http.Request) string {
	parts := strings.SplitN(r.Header.Get("Authorization"), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return parts[1]
}

// PrincipalFrom returns the authenticated user stored by RequireAuth.
func PrincipalFrom(ctx context.Context) (*models.User, bool) {
	user, ok := ctx.Value(principalKey).(*models.User)
	return user, ok
}

// TokenFrom returns the raw bearer token stored by RequireAuth.
func TokenFrom(ctx context.Context) string {
	token, _ := ctx.Value(tokenKey).(string)
	return token
}
