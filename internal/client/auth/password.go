package auth

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/dealership/internal/client/identity"
)

// ForgotPassword asks the backend to email a reset link. The answer is the
// same whether or not the address is registered.
func (c *Controller) ForgotPassword(ctx context.Context, email string) error {
	if err := validateInput(emailInput{Email: email}); err != nil {
		return err
	}
	if !c.resetLimiter.Allow() {
		return formError(ErrThrottled)
	}
	if err := c.provider.RequestPasswordReset(ctx, email); err != nil {
		return c.fail(ctx, "forgot password", err)
	}
	return nil
}

// ResetPassword consumes a reset token. Success signs the user out
// everywhere on this client; they log in again with the new password.
func (c *Controller) ResetPassword(ctx context.Context, token, password string) error {
	if err := validateInput(passwordInput{Token: token, Password: password}); err != nil {
		return err
	}
	if err := c.begin(); err != nil {
		return err
	}
	defer c.end()

	// One attempt per token, successful or not. A failed reset needs a
	// fresh link.
	c.verifyMu.Lock()
	_, used := c.usedResets[token]
	c.usedResets[token] = struct{}{}
	c.verifyMu.Unlock()
	if used {
		return formError(identity.ErrTokenAlreadyUsed)
	}

	if _, err := c.provider.ResetPassword(ctx, token, password); err != nil {
		return c.fail(ctx, "reset password", err)
	}

	err := c.store.Clear(ctx)
	c.setState(StateAnonymous, nil)
	c.nav.Navigate(PathLogin)
	if err != nil {
		return c.fail(ctx, "reset password", fmt.Errorf("%w: %v", ErrStorage, err))
	}
	return nil
}

// ResendVerification asks for a fresh verification email, at most once per
// ResendInterval.
func (c *Controller) ResendVerification(ctx context.Context, email string) error {
	if err := validateInput(emailInput{Email: email}); err != nil {
		return err
	}
	if !c.resendLimiter.Allow() {
		return formError(ErrThrottled)
	}
	if err := c.provider.ResendVerification(ctx, email); err != nil {
		return c.fail(ctx, "resend verification", err)
	}
	return nil
}
