// Package services – AccountService
//
// AccountService is the credential store: it registers users with a bcrypt
// password hash and logs them in, issuing a session token on both paths.
// Emails are case-folded before storage and lookup.
package services

import (
	"context"
	"errors"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"gorm.io/gorm"

	"github.com/swadrive/swadrive-backend/internal/auth"
	"github.com/swadrive/swadrive-backend/internal/domain"
	"github.com/swadrive/swadrive-backend/internal/observability"
	"github.com/swadrive/swadrive-backend/internal/repo"
)

// RegisterInput carries the fields accepted at registration.
type RegisterInput struct {
	FullName string
	Email    string
	Phone    string
	Password string
	Role     string // empty means customer
}

// AccountService registers and authenticates users.
type AccountService struct {
	DB     *gorm.DB
	Issuer *auth.Issuer

	// BcryptCost is the hashing cost for new passwords.
	BcryptCost int
}

// NewAccountService constructs an AccountService.
func NewAccountService(db *gorm.DB, iss *auth.Issuer, bcryptCost int) *AccountService {
	return &AccountService{DB: db, Issuer: iss, BcryptCost: bcryptCost}
}

// Register creates a user and returns it together with a session token.
// A taken email yields ErrDuplicateEmail; an unknown role ErrInvalidRole.
func (s *AccountService) Register(ctx context.Context, in RegisterInput) (u *domain.User, token string, err error) {
	ctx, span := observability.StartSpan(ctx, "services/AccountService", "Register")
	defer func() { observability.EndSpan(span, err) }()

	role, ok := domain.ParseRole(in.Role)
	if !ok {
		return nil, "", ErrInvalidRole
	}
	email := normalizeEmail(in.Email)
	if email == "" || in.Password == "" {
		return nil, "", ErrInvalidCredentials
	}

	hash, err := auth.HashPassword(in.Password, s.BcryptCost)
	if err != nil {
		return nil, "", err
	}
	u = &domain.User{
		FullName:     cleanLine(in.FullName),
		Email:        email,
		Phone:        strings.TrimSpace(in.Phone),
		PasswordHash: hash,
		Role:         role,
	}
	if err := repo.CreateUser(ctx, s.DB, u); err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			return nil, "", ErrDuplicateEmail
		}
		return nil, "", err
	}
	span.SetAttributes(attribute.String("user.id", u.ID), attribute.String("user.role", string(role)))

	token, err = s.Issuer.Issue(auth.Identity{UserID: u.ID, Role: u.Role})
	if err != nil {
		return nil, "", err
	}
	return u, token, nil
}

// Login verifies email and password and returns the user with a fresh token.
// Unknown emails yield ErrUserNotFound and mismatched passwords
// ErrWrongPassword; both paths perform one bcrypt comparison.
func (s *AccountService) Login(ctx context.Context, email, password string) (u *domain.User, token string, err error) {
	ctx, span := observability.StartSpan(ctx, "services/AccountService", "Login")
	defer func() { observability.EndSpan(span, err) }()

	u, err = repo.GetUserByEmail(ctx, s.DB, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			auth.BurnPasswordCheck(password)
			return nil, "", ErrUserNotFound
		}
		return nil, "", err
	}
	if !auth.CheckPassword(u.PasswordHash, password) {
		return nil, "", ErrWrongPassword
	}

	token, err = s.Issuer.Issue(auth.Identity{UserID: u.ID, Role: u.Role})
	if err != nil {
		return nil, "", err
	}
	return u, token, nil
}
