package services

import (
	"context"
	"errors"
	"fmt"

	"school-admin/auth"
	"school-admin/database"
)

var (
	ErrNotAuthenticated = errors.New("user not authenticated")
	ErrValidation       = errors.New("validation failed")
	ErrClassNotFound    = errors.New("class not found")
	ErrTeacherNotFound  = errors.New("teacher not found")
	ErrStudentNotFound  = errors.New("student not found")
	ErrQuoteNotFound    = errors.New("price quote not found")
)

// requireSession is checked before every mutating call.
func requireSession(ctx context.Context) (*auth.Session, error) {
	session := auth.SessionFromContext(ctx)
	if session == nil {
		return nil, ErrNotAuthenticated
	}
	return session, nil
}

func validationError(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// notFoundAs replaces a missing-row error with the entity specific sentinel.
func notFoundAs(err error, sentinel error) error {
	err = database.TranslateError(err)
	if errors.Is(err, database.ErrNotFound) {
		return sentinel
	}
	return err
}
