package identity

import (
	"errors"
	"net/http"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountUnverified  = errors.New("account unverified")
	ErrTokenExpired       = errors.New("token expired")
	ErrTokenAlreadyUsed   = errors.New("token already used")
	ErrTokenInvalid       = errors.New("token invalid")
	ErrNetworkUnavailable = errors.New("network unavailable")
	ErrServerError        = errors.New("server error")
)

// Error is the uniform failure shape of the adapter.
type Error struct {
	// Err is one of the package sentinels.
	Err error
	// Message is the backend's human-readable explanation, possibly empty.
	Message string
	// Status is the HTTP status, 0 for transport failures.
	Status int
}

func (e *Error) Error() string {
	if e.Message == "" {
		return e.Err.Error()
	}
	return e.Err.Error() + ": " + e.Message
}

func (e *Error) Unwrap() error { return e.Err }

var errorCodes = map[string]error{
	"invalid_credentials": ErrInvalidCredentials,
	"account_unverified":  ErrAccountUnverified,
	"email_not_verified":  ErrAccountUnverified,
	"token_expired":       ErrTokenExpired,
	"token_already_used":  ErrTokenAlreadyUsed,
	"token_used":          ErrTokenAlreadyUsed,
	"token_invalid":       ErrTokenInvalid,
	"invalid_token":       ErrTokenInvalid,
}

// mapError normalises a non-2xx response. An explicit error code wins over
// the status.
func mapError(status int, code, message string) *Error {
	if sentinel, ok := errorCodes[code]; ok {
		return &Error{Err: sentinel, Message: message, Status: status}
	}

	var sentinel error
	switch {
	case status == http.StatusUnauthorized:
		sentinel = ErrInvalidCredentials
	case status == http.StatusForbidden:
		sentinel = ErrAccountUnverified
	case status == http.StatusConflict:
		sentinel = ErrTokenAlreadyUsed
	case status == http.StatusGone:
		sentinel = ErrTokenExpired
	case status == http.StatusServiceUnavailable, status == http.StatusBadGateway, status == http.StatusGatewayTimeout:
		sentinel = ErrNetworkUnavailable
	default:
		sentinel = ErrServerError
	}
	return &Error{Err: sentinel, Message: message, Status: status}
}
