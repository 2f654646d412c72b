package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken covers bad signatures, malformed input, and expired tokens.
// Expiry is deliberately not reported as a distinct condition.
var ErrInvalidToken = errors.New("invalid token")

// TokenTTL is how long an issued token stays valid. There is no revocation;
// a leaked token remains usable until this window closes.
const TokenTTL = 30 * 24 * time.Hour

// Claims is the signed claim set carried by a bearer token. Plan and email
// are snapshots from login time and may drift from the live account.
type Claims struct {
	jwt.RegisteredClaims
	Email string `json:"email"`
	Plan  string `json:"plan"`
}

// UserID returns the subject of the token.
func (c *Claims) UserID() string {
	return c.Subject
}

// TokenManager issues and verifies signed bearer tokens.
type TokenManager struct {
	secret []byte
}

// NewTokenManager creates a manager with the provided signing secret.
func NewTokenManager(secret string) *TokenManager {
	return &TokenManager{secret: []byte(secret)}
}

// Issue signs a token for the given user. CPU-bound, no side effects.
func (t *TokenManager) Issue(userID, email, plan string) (string, error) {
	now := time.Now()
	c := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(TokenTTL)),
		},
		Email: email,
		Plan:  plan,
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	return tok.SignedString(t.secret)
}

// Verify parses and validates a token string, returning its claims.
func (t *TokenManager) Verify(token string) (*Claims, error) {
	tok, err := jwt.ParseWithClaims(token, &Claims{}, func(tok *jwt.Token) (any, error) {
		if _, ok := tok.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return t.secret, nil
	})
	if err != nil {
		return nil, ErrInvalidToken
	}
	c, ok := tok.Claims.(*Claims)
	if !ok || !tok.Valid {
		return nil, ErrInvalidToken
	}
	return c, nil
}
