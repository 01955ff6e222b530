// Package auth provides JWT session claims, password hashing, OTP generation,
// and the bearer-token middleware for the blog API.
//
// SESSION MODEL:
// A session is a stateless signed claim — the server stores nothing. The JWT
// carries the user ID ("sub") and role, is signed with an HMAC secret, and is
// valid for 7 days. The trade-off is deliberate: no server-side session store,
// but also no server-initiated revocation. A token stays valid for its full
// window even after a password change; logout is purely client-side deletion.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenTTL is the validity window of an issued session claim.
const TokenTTL = 7 * 24 * time.Hour

const issuer = "kickstart-blog"

// Sentinel errors returned by Validate. The middleware maps both to 401 but
// with distinct messages, so an expired client session and a corrupt token
// are distinguishable to the frontend.
var (
	ErrTokenExpired = errors.New("auth: token expired")
	ErrTokenInvalid = errors.New("auth: invalid token")
)

// Claims is what a verified token asserts: who the caller is and what role
// they hold. The user ID travels in the standard "sub" claim; role is a
// custom claim.
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// UserID returns the subject of the claim.
func (c *Claims) UserID() string { return c.Subject }

// TokenService issues and verifies session claims.
//
// It holds the HMAC secret used to sign and verify tokens. The same secret
// must be used for both operations.
type TokenService struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenService creates a TokenService with the given secret.
// The secret should be at least 32 bytes of random data in production.
func NewTokenService(secret string) (*TokenService, error) {
	if len(secret) < 16 {
		return nil, errors.New("auth: JWT secret must be at least 16 characters")
	}
	return &TokenService{secret: []byte(secret), ttl: TokenTTL}, nil
}

// Generate creates and signs a session claim for the given user.
//
// Signing algorithm: HS256 (HMAC-SHA256) — symmetric, same key signs and
// verifies. An empty role defaults to "author", matching what the rest of the
// system assumes.
func (s *TokenService) Generate(userID, role string) (string, error) {
	return s.generateAt(userID, role, time.Now(), s.ttl)
}

// GenerateWithDuration creates a token with a custom validity window.
// Used by tests to mint already-expired tokens.
func (s *TokenService) GenerateWithDuration(userID, role string, d time.Duration) (string, error) {
	return s.generateAt(userID, role, time.Now(), d)
}

func (s *TokenService) generateAt(userID, role string, now time.Time, d time.Duration) (string, error) {
	if userID == "" {
		return "", errors.New("auth: cannot issue token without a user id")
	}
	if role == "" {
		role = "author"
	}

	c := Claims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(d)),
			Issuer:    issuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("auth: signing token: %w", err)
	}

	return signed, nil
}

// Validate parses and verifies a JWT string and returns its claims.
//
// Checks performed by the jwt library:
//   - signature is valid (token wasn't tampered with)
//   - token is not past its expiry
//   - issuer matches (rejects tokens minted by other apps sharing a secret)
//   - algorithm is HS256 (prevents algorithm-confusion attacks)
//
// Returns ErrTokenExpired for a well-formed but stale token, ErrTokenInvalid
// for everything else.
func (s *TokenService) Validate(tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(
		tokenStr,
		&Claims{},
		func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("auth: unexpected signing method: %v", token.Header["alg"])
			}
			return s.secret, nil
		},
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, fmt.Errorf("%w: %v", ErrTokenInvalid, err)
	}

	c, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrTokenInvalid
	}

	if c.Subject == "" {
		return nil, fmt.Errorf("%w: token has no subject", ErrTokenInvalid)
	}

	return c, nil
}
