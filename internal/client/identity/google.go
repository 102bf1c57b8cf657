package identity

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/oauth2"
)

var ErrNoIDToken = errors.New("google did not return an id_token")

// GoogleConfig holds the OAuth client registration used for the device flow.
// The URLs are overridable for tests.
type GoogleConfig struct {
	ClientID      string
	ClientSecret  string
	DeviceAuthURL string
	TokenURL      string
}

// GoogleDeviceFlow obtains the Google ID token that GoogleLogin expects as
// its assertion. The user approves the request on another device.
type GoogleDeviceFlow struct {
	cfg    *oauth2.Config
	prompt func(userCode, verificationURI string)
}

// NewGoogleDeviceFlow builds the flow; prompt is called once with the code
// the user has to enter and where to enter it.
func NewGoogleDeviceFlow(c GoogleConfig, prompt func(userCode, verificationURI string)) *GoogleDeviceFlow {
	return &GoogleDeviceFlow{
		cfg: &oauth2.Config{
			ClientID:     c.ClientID,
			ClientSecret: c.ClientSecret,
			Scopes:       []string{"openid", "email", "profile"},
			Endpoint: oauth2.Endpoint{
				DeviceAuthURL: c.DeviceAuthURL,
				TokenURL:      c.TokenURL,
				AuthStyle:     oauth2.AuthStyleInParams,
			},
		},
		prompt: prompt,
	}
}

// Assertion runs the device authorization grant to completion and returns
// the ID token. It blocks until the user approves, the code expires, or ctx
// is done.
func (g *GoogleDeviceFlow) Assertion(ctx context.Context) (string, error) {
	da, err := g.cfg.DeviceAuth(ctx)
	if err != nil {
		return "", fmt.Errorf("google device authorization: %w", err)
	}

	g.prompt(da.UserCode, da.VerificationURI)

	tok, err := g.cfg.DeviceAccessToken(ctx, da)
	if err != nil {
		return "", fmt.Errorf("google device token: %w", err)
	}

	idToken, _ := tok.Extra("id_token").(string)
	if idToken == "" {
		return "", ErrNoIDToken
	}
	return idToken, nil
}
