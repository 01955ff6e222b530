package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// contextKey is an unexported type used for context keys in this package.
// A package-private key type prevents other packages from reading or
// shadowing the identity we store in the request context.
type contextKey string

const claimsKey contextKey = "claims"

// TOKEN TRANSPORT:
// The frontend sends the session claim in the Authorization header:
//
//	Authorization: Bearer <jwt>
//
// extractClaims distinguishes four failure modes, each surfaced with its own
// message so the client can tell "log in" apart from "session expired":
//   - header absent          → "no token provided"
//   - not two-part "Bearer x" → "invalid token format"
//   - past validity window   → "token expired"
//   - bad signature/claims   → "invalid token"
func extractClaims(r *http.Request, tokens *TokenService) (*Claims, error) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return nil, errors.New("no token provided")
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
		return nil, errors.New("invalid token format, expected: Bearer <token>")
	}

	claims, err := tokens.Validate(parts[1])
	if err != nil {
		if errors.Is(err, ErrTokenExpired) {
			return nil, errors.New("token expired")
		}
		return nil, errors.New("invalid token")
	}

	return claims, nil
}

// RequireAuth is a middleware that enforces authentication on protected
// routes. On success the verified claims are stored in the request context;
// on any failure the chain stops with a 401 and the reason in the body.
func RequireAuth(tokens *TokenService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, err := extractClaims(r, tokens)
			if err != nil {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				fmt.Fprintf(w, `{"error":"unauthorized","message":%q}`, err.Error())
				return
			}

			ctx := context.WithValue(r.Context(), claimsKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// OptionalAuth extracts the caller's identity if a valid token is present but
// never blocks the request. Used on public feed routes where an authenticated
// viewer additionally gets their own "userLiked" flag per post.
func OptionalAuth(tokens *TokenService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if claims, err := extractClaims(r, tokens); err == nil {
				r = r.WithContext(context.WithValue(r.Context(), claimsKey, claims))
			}
			next.ServeHTTP(w, r)
		})
	}
}

// ClaimsFromContext retrieves the verified session claims from the request
// context. Returns (nil, false) for anonymous requests.
func ClaimsFromContext(ctx context.Context) (*Claims, bool) {
	c, ok := ctx.Value(claimsKey).(*Claims)
	return c, ok && c != nil
}

// UserIDFromContext is a shorthand for the common case of only needing the
// caller's user ID.
func UserIDFromContext(ctx context.Context) (string, bool) {
	c, ok := ClaimsFromContext(ctx)
	if !ok {
		return "", false
	}
	return c.UserID(), true
}
