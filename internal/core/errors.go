package core

import "errors"

var (
	ErrInvalidUsername    = errors.New("invalid username")
	ErrDuplicateUsername  = errors.New("username already exists")
	ErrPasswordMismatch   = errors.New("passwords do not match")
	ErrWeakPassword       = errors.New("password does not meet requirements")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrUnauthenticated    = errors.New("authentication required")

	ErrInvalidAmount      = errors.New("invalid amount")
	ErrInvalidKind        = errors.New("invalid transaction kind")
	ErrInvalidDate        = errors.New("invalid date")
	ErrInvalidCategory    = errors.New("invalid category")
	ErrInvalidDescription = errors.New("description too long (max 200 characters)")
	ErrInvalidLimit       = errors.New("invalid budget limit")
	ErrInvalidPeriod      = errors.New("invalid period")

	ErrNotFound  = errors.New("not found")
	ErrForbidden = errors.New("not owned by user")
)

// ErrorClass groups domain errors by how a caller should react to them.
type ErrorClass string

const (
	ClassValidation ErrorClass = "validation"
	ClassAuth       ErrorClass = "auth"
	ClassOwnership  ErrorClass = "ownership"
	ClassNotFound   ErrorClass = "not_found"
	ClassInternal   ErrorClass = "internal"
)

var validationErrors = []error{
	ErrInvalidUsername, ErrDuplicateUsername, ErrPasswordMismatch, ErrWeakPassword,
	ErrInvalidAmount, ErrInvalidKind, ErrInvalidDate, ErrInvalidCategory,
	ErrInvalidDescription, ErrInvalidLimit, ErrInvalidPeriod,
}

// Classify reports the class of err. Unknown errors are internal.
func Classify(err error) ErrorClass {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrInvalidCredentials), errors.Is(err, ErrUnauthenticated):
		return ClassAuth
	case errors.Is(err, ErrForbidden):
		return ClassOwnership
	case errors.Is(err, ErrNotFound):
		return ClassNotFound
	}
	for _, target := range validationErrors {
		if errors.Is(err, target) {
			return ClassValidation
		}
	}
	return ClassInternal
}
