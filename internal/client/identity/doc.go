// Package identity talks to the identity-provider backend on behalf of the
// session controller.
//
// # Overview
//
//  1. A transport-agnostic contract (Provider): Login, Register, GoogleLogin,
//     RequestPasswordReset, ResetPassword, VerifyEmail, ResendVerification.
//  2. An HTTP/JSON implementation (HTTPClient) that maps backend responses
//     onto a closed error taxonomy.
//  3. GoogleDeviceFlow, which obtains a Google ID-token assertion from a
//     terminal using the OAuth 2.0 device authorization grant.
//
// # Error Handling
//
// Every failure matches exactly one sentinel with errors.Is:
// ErrInvalidCredentials, ErrAccountUnverified, ErrTokenExpired,
// ErrTokenAlreadyUsed, ErrTokenInvalid, ErrNetworkUnavailable, ErrServerError.
// The concrete value is an *Error carrying the backend's message, if any.
//
// Nothing here retries. Timeouts are the http.Client's.
package identity
