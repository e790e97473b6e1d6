package services

import (
	"errors"
	"fmt"

	"github.com/lib/pq"
)

var (
	ErrUnauthorized       = errors.New("session is invalid or expired")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrNotFound           = errors.New("document not found")
	ErrConflict           = errors.New("document already exists")
)

// ValidationError carries a message that is safe to show to the user.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func validationError(format string, args ...interface{}) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

const uniqueViolation = "23505"

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}
