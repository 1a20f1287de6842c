package http

import (
	"errors"
	"fmt"
	"net/http"
	"slices"

	"fintrack/internal/core"
	"fintrack/internal/log"
)

const msgInternal = "Something went wrong. Please try again."

// errorType maps a domain error class onto the log's error_type values.
func errorType(err error) string {
	switch core.Classify(err) {
	case core.ClassValidation:
		return log.ErrorTypeValidation
	case core.ClassAuth:
		return log.ErrorTypeAuth
	case core.ClassOwnership:
		return log.ErrorTypeOwnership
	case core.ClassNotFound:
		return log.ErrorTypeNotFound
	default:
		return log.ErrorTypeInternal
	}
}

// logFailure records a failed operation. User mistakes log at warn level,
// everything else at error.
func logFailure(r *http.Request, component, op string, err error) {
	sl := log.NewStructuredLogger(log.FromContext(r.Context()))
	et := errorType(err)
	if et == log.ErrorTypeInternal {
		sl.LogError(r.Context(), "Request failed", err, component, op, et)
		return
	}
	log.FromContext(r.Context()).WithComponent(component).WarnContext(r.Context(), "Request rejected",
		log.FieldOperation, op,
		log.FieldError, err.Error(),
		log.FieldErrorType, et)
}

// registrationMessage explains why a registration was refused.
func registrationMessage(err error) string {
	var pwErr *core.PasswordError
	switch {
	case errors.Is(err, core.ErrDuplicateUsername):
		return "Username already exists. Please choose a different one."
	case errors.Is(err, core.ErrPasswordMismatch):
		return "Passwords do not match."
	case errors.As(err, &pwErr):
		if slices.Contains(pwErr.Missing, "at least 8 characters") {
			return "Password must be at least 8 characters long."
		}
		if slices.Contains(pwErr.Missing, "at most 72 bytes") {
			return "Password must be at most 72 bytes long."
		}
		return "Password must contain an uppercase letter, a number, and a special character."
	case errors.Is(err, core.ErrWeakPassword):
		return "Password must contain an uppercase letter, a number, and a special character."
	case errors.Is(err, core.ErrInvalidUsername):
		return "Please choose a username between 1 and 80 characters."
	default:
		return msgInternal
	}
}

// transactionMessage explains why a transaction change was refused. verb is
// "edit" or "delete" and only matters for missing or foreign rows.
func transactionMessage(err error, verb string) string {
	switch core.Classify(err) {
	case core.ClassNotFound, core.ClassOwnership:
		return fmt.Sprintf("Transaction not found or you do not have permission to %s it.", verb)
	case core.ClassValidation:
		return fmt.Sprintf("An error occurred: %v. Please ensure all fields are correct.", err)
	default:
		return msgInternal
	}
}

// apiStatus maps a domain error to a JSON API status code.
func apiStatus(err error) int {
	switch core.Classify(err) {
	case core.ClassValidation:
		return http.StatusBadRequest
	case core.ClassAuth:
		return http.StatusUnauthorized
	case core.ClassOwnership, core.ClassNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
