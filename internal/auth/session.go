// Package auth issues and verifies bearer session tokens, hashes passwords,
// and decides which roles may reach which routes.
//
// Tokens are HS256-signed JWTs carrying {user_id, role} and a fixed expiry
// (seven days by default). There is no refresh or revocation: a token stays
// valid until it expires.
package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/swadrive/swadrive-backend/internal/domain"
)

var (
	// ErrTokenExpired is returned for a well-formed token past its expiry.
	ErrTokenExpired = errors.New("token expired")
	// ErrTokenMalformed is returned for tokens that fail parsing or
	// signature verification, or that carry an unusable identity.
	ErrTokenMalformed = errors.New("token malformed")
)

// Identity is the caller identity recovered from a verified token.
type Identity struct {
	UserID string
	Role   domain.Role
}

type sessionClaims struct {
	UserID string      `json:"user_id"`
	Role   domain.Role `json:"role"`
	jwt.RegisteredClaims
}

// Issuer signs and verifies session tokens with a shared secret.
type Issuer struct {
	secret []byte
	ttl    time.Duration

	// Now is the clock used for issuing and validating. Defaults to time.Now.
	Now func() time.Time
}

// NewIssuer returns an Issuer that signs with secret and stamps tokens with
// the given lifetime.
func NewIssuer(secret string, ttl time.Duration) *Issuer {
	return &Issuer{secret: []byte(secret), ttl: ttl, Now: time.Now}
}

// Issue returns a signed token for id, valid for the configured TTL.
func (i *Issuer) Issue(id Identity) (string, error) {
	now := i.Now()
	claims := sessionClaims{
		UserID: id.UserID,
		Role:   id.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   id.UserID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
}

// Verify checks the token's signature and expiry and returns the identity
// it carries. Only HS256 is accepted.
func (i *Issuer) Verify(token string) (Identity, error) {
	var claims sessionClaims
	_, err := jwt.ParseWithClaims(token, &claims,
		func(*jwt.Token) (any, error) { return i.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(i.Now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Identity{}, ErrTokenExpired
		}
		return Identity{}, ErrTokenMalformed
	}
	if claims.UserID == "" || !claims.Role.Valid() {
		return Identity{}, ErrTokenMalformed
	}
	return Identity{UserID: claims.UserID, Role: claims.Role}, nil
}
