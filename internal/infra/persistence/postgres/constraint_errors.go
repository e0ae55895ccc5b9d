package postgres

import (
	"strings"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// PostgreSQL unique_violation SQLSTATE.
const uniqueViolationCode = "23505"

// isUniqueConstraintViolation recognises duplicate keys whether or not GORM translated the driver error.
func isUniqueConstraintViolation(err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}

	errMsg := strings.ToLower(err.Error())

	return strings.Contains(errMsg, uniqueViolationCode) ||
		strings.Contains(errMsg, "duplicate key")
}
