package apperrors

import (
	"errors"
	"net/http"
)

var (
	// ErrNotFound is returned when a listing does not exist or is soft-deleted.
	ErrNotFound = errors.New("listing not found")
	// ErrUserNotFound is returned when a user record does not exist.
	ErrUserNotFound = errors.New("user not found")
	// ErrConflict is returned when a unique field collides on registration.
	ErrConflict = errors.New("email or username already registered")
	// ErrInvalidCredentials is returned when email or password is incorrect.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrUnauthenticated is returned when no valid identity is bound to the request.
	ErrUnauthenticated = errors.New("authentication required")
	// ErrNoToken is returned when the Authorization header carries no bearer token.
	ErrNoToken = errors.New("no token provided")
	// ErrUserInactive is returned when the token subject's account is deactivated.
	ErrUserInactive = errors.New("user account is deactivated")
	// ErrForbidden is returned when the identity's role is not allowed.
	ErrForbidden = errors.New("insufficient permissions")
	// ErrTokenExpired is returned when a token is past its expiry.
	ErrTokenExpired = errors.New("token has expired")
	// ErrTokenInvalid is returned on signature, issuer or audience mismatch.
	ErrTokenInvalid = errors.New("token is invalid")
	// ErrTokenMalformed is returned when a token cannot be parsed at all.
	ErrTokenMalformed = errors.New("token is malformed")
)

// FieldError describes a single invalid input field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError carries per-field detail for malformed input.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	return "validation failed"
}

// ErrorResponse represents a standardized error response.
type ErrorResponse struct {
	Error  string       `json:"error"`
	Code   string       `json:"code"`
	Fields []FieldError `json:"fields,omitempty"`
}

// HTTPError represents an HTTP error with status code.
type HTTPError struct {
	StatusCode int
	Message    string
	Code       string
	Fields     []FieldError
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates a new HTTP error.
func NewHTTPError(statusCode int, message, code string) *HTTPError {
	return &HTTPError{
		StatusCode: statusCode,
		Message:    message,
		Code:       code,
	}
}

// ToErrorResponse converts an HTTPError to ErrorResponse.
func (e *HTTPError) ToErrorResponse() ErrorResponse {
	return ErrorResponse{
		Error:  e.Message,
		Code:   e.Code,
		Fields: e.Fields,
	}
}

// MapErrorToHTTP maps domain errors to HTTP errors.
func MapErrorToHTTP(err error) *HTTPError {
	var verr *ValidationError
	if errors.As(err, &verr) {
		return &HTTPError{
			StatusCode: http.StatusBadRequest,
			Message:    verr.Error(),
			Code:       "VALIDATION_ERROR",
			Fields:     verr.Fields,
		}
	}

	switch {
	case errors.Is(err, ErrNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error(), "LISTING_NOT_FOUND")
	case errors.Is(err, ErrUserNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error(), "USER_NOT_FOUND")
	case errors.Is(err, ErrConflict):
		return NewHTTPError(http.StatusConflict, err.Error(), "DUPLICATE_USER")
	case errors.Is(err, ErrInvalidCredentials):
		return NewHTTPError(http.StatusUnauthorized, err.Error(), "INVALID_CREDENTIALS")
	case errors.Is(err, ErrNoToken):
		return NewHTTPError(http.StatusUnauthorized, err.Error(), "NO_TOKEN")
	case errors.Is(err, ErrTokenExpired):
		return NewHTTPError(http.StatusUnauthorized, err.Error(), "TOKEN_EXPIRED")
	case errors.Is(err, ErrTokenInvalid):
		return NewHTTPError(http.StatusUnauthorized, err.Error(), "TOKEN_INVALID")
	case errors.Is(err, ErrTokenMalformed):
		return NewHTTPError(http.StatusUnauthorized, err.Error(), "TOKEN_MALFORMED")
	case errors.Is(err, ErrUserInactive):
		return NewHTTPError(http.StatusUnauthorized, err.Error(), "ACCOUNT_DEACTIVATED")
	case errors.Is(err, ErrUnauthenticated):
		return NewHTTPError(http.StatusUnauthorized, err.Error(), "UNAUTHENTICATED")
	case errors.Is(err, ErrForbidden):
		return NewHTTPError(http.StatusForbidden, err.Error(), "FORBIDDEN")
	default:
		return NewHTTPError(http.StatusInternalServerError, "internal server error", "INTERNAL_ERROR")
	}
}
