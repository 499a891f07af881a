package repo

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

// ErrNotFound is returned when a requested record does not exist.
// It aliases gorm.ErrRecordNotFound for convenience and consistency
// across the service layer and handlers.
var ErrNotFound = gorm.ErrRecordNotFound

// ErrDuplicate indicates a unique constraint rejected an insert.
var ErrDuplicate = errors.New("duplicate")

// ErrIllegalTransition is returned for a status change the lifecycle
// does not allow. No row is touched.
var ErrIllegalTransition = errors.New("illegal status transition")

// isUniqueViolation recognizes unique-key failures across drivers. The pure-Go
// SQLite driver and MySQL often return plain-text errors that gorm does not
// translate into gorm.ErrDuplicatedKey.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	low := strings.ToLower(err.Error())
	return strings.Contains(low, "unique constraint failed") ||
		strings.Contains(low, "constraint failed: unique") ||
		strings.Contains(low, "duplicate entry") ||
		strings.Contains(low, "duplicate key value")
}
