package auth

import (
	"errors"

	"github.com/dmitrijs2005/dealership/internal/client/identity"
	"github.com/dmitrijs2005/dealership/internal/common"
)

var (
	ErrBusy      = errors.New("another operation is in progress")
	ErrNotReady  = errors.New("session not initialised")
	ErrThrottled = errors.New("too many requests")
	ErrStorage   = errors.New("local storage failure")
)

// FormError is what the controller reports to views: a message fit for the
// user plus the underlying cause for errors.Is.
type FormError struct {
	Err     error
	Message string
}

func (e *FormError) Error() string { return e.Message }

func (e *FormError) Unwrap() error { return e.Err }

func formError(err error) *FormError {
	var fe *FormError
	if errors.As(err, &fe) {
		return fe
	}
	return &FormError{Err: err, Message: userMessage(err)}
}

func userMessage(err error) string {
	switch {
	case errors.Is(err, identity.ErrInvalidCredentials):
		return "Incorrect email or password."
	case errors.Is(err, identity.ErrAccountUnverified):
		return "Please verify your email address before signing in."
	case errors.Is(err, identity.ErrTokenExpired):
		return "This link has expired. Please request a new one."
	case errors.Is(err, identity.ErrTokenAlreadyUsed):
		return "This link has already been used."
	case errors.Is(err, identity.ErrTokenInvalid):
		return "This link is not valid."
	case errors.Is(err, identity.ErrNetworkUnavailable):
		return "Cannot reach the server. Check your connection and try again."
	case errors.Is(err, identity.ErrServerError):
		return "Something went wrong on our side. Please try again."
	case errors.Is(err, ErrBusy):
		return "Please wait for the current request to finish."
	case errors.Is(err, ErrNotReady):
		return "Still starting up, please try again in a moment."
	case errors.Is(err, ErrThrottled):
		return "Please wait a little before asking for another email."
	case errors.Is(err, common.ErrorInvalidInput):
		return "Please check the form and try again."
	default:
		return "Something went wrong. Please try again."
	}
}
