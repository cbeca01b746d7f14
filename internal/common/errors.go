package common

import (
	"errors"
	"net/http"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
)

// Auth service taxonomy.
var (
	ErrMissingField       = errors.New("required fields are missing")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrDuplicateUsername  = errors.New("username already exists")
	ErrDuplicateEmail     = errors.New("email already exists")
	ErrInvalidToken       = errors.New("invalid token")
	ErrUserNotFound       = errors.New("user not found")
	ErrInternal           = errors.New("internal server error")
)

var (
	ErrNotFound        = errors.New("requested resource not found")
	ErrUnauthorized    = errors.New("unauthorized access")
	ErrForbidden       = errors.New("forbidden access")
	ErrBadRequest      = errors.New("bad request")
	ErrConflict        = errors.New("resource conflict")
	ErrValidation      = errors.New("validation failed")
	ErrTooManyAttempts = errors.New("too many failed login attempts")

	ErrDuplicateRollNumber = errors.New("roll number already exists in class")
)

// publicMessages are the caller-visible texts for sentinels returned unadorned.
var publicMessages = []struct {
	err     error
	message string
}{
	{ErrInvalidCredentials, "Invalid username or password"},
	{ErrDuplicateUsername, "Username already exists"},
	{ErrDuplicateEmail, "Email already exists"},
	{ErrDuplicateRollNumber, "Roll number already exists in this class"},
	{ErrInvalidToken, "Invalid token"},
	{ErrUserNotFound, "User not found"},
	{ErrForbidden, "Insufficient permissions"},
	{ErrTooManyAttempts, "Too many failed login attempts, try again later"},
	{ErrMissingField, "Required fields are missing"},
	{ErrNotFound, "Resource not found"},
	{ErrUnauthorized, "Unauthorized"},
	{ErrBadRequest, "Bad request"},
	{ErrConflict, "Resource already exists"},
	{ErrValidation, "Validation failed"},
}

// Error attaches a caller-visible message to one of the sentinel kinds above.
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.Kind }

// NewError returns an error that matches kind with errors.Is and reports message to callers.
func NewError(kind error, message string) error {
	return &Error{Kind: kind, Message: message}
}

// HTTPStatusFromError maps domain errors to HTTP status codes.
func HTTPStatusFromError(err error) int {
	if err == nil {
		return http.StatusOK
	}
	switch {
	case errors.Is(err, ErrMissingField), errors.Is(err, ErrBadRequest), errors.Is(err, ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, ErrInvalidCredentials), errors.Is(err, ErrInvalidToken),
		errors.Is(err, ErrUserNotFound), errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrDuplicateUsername), errors.Is(err, ErrDuplicateEmail),
		errors.Is(err, ErrDuplicateRollNumber), errors.Is(err, ErrConflict):
		return http.StatusConflict
	case errors.Is(err, ErrTooManyAttempts):
		return http.StatusTooManyRequests
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
		return http.StatusConflict
	}

	return http.StatusInternalServerError
}

// MessageFromError returns the message that may be shown to a caller.
// Anything that maps to a 500 is reported generically.
func MessageFromError(err error) string {
	if err == nil {
		return ""
	}
	if HTTPStatusFromError(err) == http.StatusInternalServerError {
		return "Internal server error"
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	for _, pm := range publicMessages {
		if errors.Is(err, pm.err) {
			return pm.message
		}
	}
	return "Request failed"
}
