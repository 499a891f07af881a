package auth

import (
	"errors"
	"strings"

	"github.com/swadrive/swadrive-backend/internal/domain"
)

var (
	// ErrUnauthenticated means no credentials were presented.
	ErrUnauthenticated = errors.New("no token provided")
	// ErrInvalidToken means credentials were presented but did not verify.
	ErrInvalidToken = errors.New("invalid token")
	// ErrForbidden means the caller's role may not use the route.
	ErrForbidden = errors.New("access denied: wrong role")
)

// Access is the requirement a route places on its caller.
type Access uint8

const (
	// Public routes need no token.
	Public Access = iota
	// Authenticated routes accept any verified caller.
	Authenticated
	// CustomerOnly routes accept verified customers.
	CustomerOnly
	// HelperOnly routes accept verified helpers.
	HelperOnly
)

// Allows reports whether a caller with role r satisfies a.
func (a Access) Allows(r domain.Role) bool {
	switch a {
	case Public, Authenticated:
		return true
	case CustomerOnly:
		return r == domain.RoleCustomer
	case HelperOnly:
		return r == domain.RoleHelper
	}
	return false
}

func (a Access) String() string {
	switch a {
	case Public:
		return "public"
	case Authenticated:
		return "authenticated"
	case CustomerOnly:
		return "customer"
	case HelperOnly:
		return "helper"
	}
	return "unknown"
}

// Guard authenticates bearer headers and authorizes them against an Access.
type Guard struct {
	Issuer *Issuer
}

// NewGuard returns a Guard backed by iss.
func NewGuard(iss *Issuer) *Guard { return &Guard{Issuer: iss} }

// Authenticate extracts and verifies the token in an Authorization header
// value of the form "Bearer <token>".
func (g *Guard) Authenticate(header string) (Identity, error) {
	header = strings.TrimSpace(header)
	if header == "" {
		return Identity{}, ErrUnauthenticated
	}
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
		return Identity{}, ErrInvalidToken
	}
	id, err := g.Issuer.Verify(strings.TrimSpace(token))
	if err != nil {
		return Identity{}, errors.Join(ErrInvalidToken, err)
	}
	return id, nil
}

// Check authenticates header unless a is Public, then authorizes the
// resulting identity. Public routes return a zero Identity and no error.
func (g *Guard) Check(header string, a Access) (Identity, error) {
	if a == Public {
		return Identity{}, nil
	}
	id, err := g.Authenticate(header)
	if err != nil {
		return Identity{}, err
	}
	if !a.Allows(id.Role) {
		return id, ErrForbidden
	}
	return id, nil
}
