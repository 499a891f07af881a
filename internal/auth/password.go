package auth

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// ErrEmptyPassword is returned when hashing a blank password.
var ErrEmptyPassword = errors.New("password is empty")

// decoyHash is compared against when the account does not exist, so a
// missing user costs about as much as a wrong password.
var decoyHash, _ = bcrypt.GenerateFromPassword([]byte("swadrive-decoy"), bcrypt.DefaultCost)

// HashPassword returns the bcrypt hash of password at the given cost.
func HashPassword(password string, cost int) (string, error) {
	if password == "" {
		return "", ErrEmptyPassword
	}
	h, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(h), nil
}

// CheckPassword reports whether password matches hash in constant time.
func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// BurnPasswordCheck performs a comparison against a fixed hash and discards
// the result.
func BurnPasswordCheck(password string) {
	_ = bcrypt.CompareHashAndPassword(decoyHash, []byte(password))
}
