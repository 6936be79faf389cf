package authsdk

import (
	"fmt"
	"net/http"

	"github.com/quillworks/quill/pkg/httpx"
)

// Machine-readable error codes shared between the services and the SDK.
const (
	ErrorCodeUnauthenticated    = "unauthenticated"
	ErrorCodeInvalidToken       = "invalid_token"
	ErrorCodeTokenExpired       = "token_expired"
	ErrorCodeInvalidCredentials = "invalid_credentials"
	ErrorCodeRefreshRequired    = "refresh_required"
	ErrorCodeRefreshInvalid     = "refresh_invalid"
	ErrorCodeUserNotFound       = "user_not_found"
	ErrorCodeForbidden          = "forbidden"
	ErrorCodeNotFound           = "not_found"
	ErrorCodeEmailExists        = "email_exists"
	ErrorCodeValidationFailed   = "validation_failed"
	ErrorCodeServerError        = "server_error"
)

// Error is the wire error type for both services. It implements the error
// interface and is used by the servers (to write HTTP responses) and by the
// SDK client (to represent decoded failures). The HTTP status is a property
// of the code, not of the call site.
type Error struct {
	// StatusCode is the HTTP status for this error.
	StatusCode int `json:"-"`

	// Code is the machine-readable discriminant, e.g. "refresh_invalid".
	Code string `json:"error"`

	// Message is a human-readable description.
	Message string `json:"message"`

	// Fields carries per-field validation messages for validation_failed.
	Fields map[string]string `json:"fields,omitempty"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// WriteError writes this Error to an HTTP response writer. The token_expired
// case additionally advertises itself via WWW-Authenticate so cooperating
// clients know the request is retryable after a refresh.
func (e *Error) WriteError(w http.ResponseWriter) {
	if e.Code == ErrorCodeTokenExpired {
		w.Header().Set("WWW-Authenticate", httpx.BearerTokenExpired)
	}
	httpx.NoCache(w)
	httpx.WriteJSON(w, e.StatusCode, e)
}

var (
	// ErrUnauthenticated is returned when no access-token cookie accompanies
	// a protected request.
	ErrUnauthenticated = &Error{
		StatusCode: http.StatusUnauthorized,
		Code:       ErrorCodeUnauthenticated,
		Message:    "not authenticated",
	}

	// ErrInvalidToken is returned for malformed or badly signed access tokens.
	ErrInvalidToken = &Error{
		StatusCode: http.StatusUnauthorized,
		Code:       ErrorCodeInvalidToken,
		Message:    "invalid access token",
	}

	// ErrTokenExpired is returned when the access token is past its expiry.
	// Unlike ErrInvalidToken this is retryable: refresh, then replay.
	ErrTokenExpired = &Error{
		StatusCode: http.StatusUnauthorized,
		Code:       ErrorCodeTokenExpired,
		Message:    "expired access token",
	}

	// ErrInvalidSubject is returned when a verified token carries no subject
	// claim. That's tampering, not expiry, hence 403 and no refresh signal.
	ErrInvalidSubject = &Error{
		StatusCode: http.StatusForbidden,
		Code:       ErrorCodeInvalidToken,
		Message:    "access token has no subject",
	}

	// ErrInvalidCredentials is returned on login with a wrong email/password.
	ErrInvalidCredentials = &Error{
		StatusCode: http.StatusUnauthorized,
		Code:       ErrorCodeInvalidCredentials,
		Message:    "incorrect credentials",
	}

	// ErrRefreshRequired is returned when the refresh endpoint is called
	// without a refresh-token cookie.
	ErrRefreshRequired = &Error{
		StatusCode: http.StatusUnauthorized,
		Code:       ErrorCodeRefreshRequired,
		Message:    "refresh token is required",
	}

	// ErrRefreshInvalid is returned when the presented refresh token is not
	// in the store, which also covers replay of an already-rotated token.
	ErrRefreshInvalid = &Error{
		StatusCode: http.StatusForbidden,
		Code:       ErrorCodeRefreshInvalid,
		Message:    "refresh token not found",
	}

	// ErrUserNotFound is returned when a refresh token's owner no longer exists.
	ErrUserNotFound = &Error{
		StatusCode: http.StatusForbidden,
		Code:       ErrorCodeUserNotFound,
		Message:    "user not found",
	}

	// ErrForbidden is returned when authorization is denied.
	ErrForbidden = &Error{
		StatusCode: http.StatusForbidden,
		Code:       ErrorCodeForbidden,
		Message:    "forbidden",
	}

	// ErrNotFound is returned when the target resource does not exist.
	ErrNotFound = &Error{
		StatusCode: http.StatusNotFound,
		Code:       ErrorCodeNotFound,
		Message:    "not found",
	}

	// ErrEmailExists is returned on registration with a taken email.
	ErrEmailExists = &Error{
		StatusCode: http.StatusConflict,
		Code:       ErrorCodeEmailExists,
		Message:    "email already exists",
	}

	// ErrServer is the generic fallback; internals are logged, never echoed.
	ErrServer = &Error{
		StatusCode: http.StatusInternalServerError,
		Code:       ErrorCodeServerError,
		Message:    "internal server error",
	}
)

// NewValidationError builds a validation_failed error carrying per-field
// messages. Validation rejects malformed bodies before any core logic runs.
func NewValidationError(fields map[string]string) *Error {
	return &Error{
		StatusCode: http.StatusBadRequest,
		Code:       ErrorCodeValidationFailed,
		Message:    "request validation failed",
		Fields:     fields,
	}
}
