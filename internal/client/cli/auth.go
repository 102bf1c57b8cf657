package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/dealership/internal/client/auth"
	"github.com/dmitrijs2005/dealership/internal/client/identity"
	"github.com/dmitrijs2005/dealership/internal/common"
)

// getSimpleText, getPassword and getConfirmation are indirections used to
// facilitate testing.
var (
	getSimpleText   = GetSimpleText
	getPassword     = GetPassword
	getConfirmation = GetConfirmation
)

var (
	errGoogleDisabled   = errors.New("google sign-in is not configured")
	errPasswordMismatch = errors.New("passwords do not match")
)

// Login prompts for credentials and the two remember choices, then signs in.
// A page that sent the user here is reopened on success.
func (a *App) Login(ctx context.Context, _ []string) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword("Enter password", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	rememberMe, rememberDevice, err := a.rememberChoices()
	if err != nil {
		return err
	}

	_, err = a.ctrl.Login(ctx, auth.LoginInput{
		Email:          email,
		Password:       string(password),
		RememberMe:     rememberMe,
		RememberDevice: rememberDevice,
		ReturnTo:       a.pendingReturn(),
	})
	if err != nil {
		return err
	}
	a.setReturn("")
	a.greet()
	return nil
}

// GoogleLogin runs the Google device flow and signs in with the ID token.
func (a *App) GoogleLogin(ctx context.Context, _ []string) error {
	if a.google == nil {
		return errGoogleDisabled
	}

	assertion, err := a.google.Assertion(ctx)
	if err != nil {
		return err
	}

	rememberMe, rememberDevice, err := a.rememberChoices()
	if err != nil {
		return err
	}

	_, err = a.ctrl.GoogleLogin(ctx, auth.GoogleLoginInput{
		Assertion:      assertion,
		RememberMe:     rememberMe,
		RememberDevice: rememberDevice,
		ReturnTo:       a.pendingReturn(),
	})
	if err != nil {
		return err
	}
	a.setReturn("")
	a.greet()
	return nil
}

func (a *App) rememberChoices() (rememberMe, rememberDevice bool, err error) {
	if rememberMe, err = getConfirmation(a.reader, "Keep me signed in on this computer?", a.out); err != nil {
		return false, false, err
	}
	if rememberDevice, err = getConfirmation(a.reader, "Trust this device?", a.out); err != nil {
		return false, false, err
	}
	return rememberMe, rememberDevice, nil
}

func (a *App) greet() {
	if snap := a.ctrl.Snapshot(); snap.Account != nil {
		fmt.Fprintf(a.out, "Welcome, %s!\n", snap.Account.DisplayName())
	}
}

// Register creates a customer account. The account stays unusable until the
// emailed link is confirmed with "verify <token>".
func (a *App) Register(ctx context.Context, _ []string) error {
	var seed identity.ProfileSeed
	var err error

	if seed.Email, err = getSimpleText(a.reader, "Enter email", a.out); err != nil {
		return err
	}
	if seed.FirstName, err = getSimpleText(a.reader, "First name", a.out); err != nil {
		return err
	}
	if seed.LastName, err = getSimpleText(a.reader, "Last name", a.out); err != nil {
		return err
	}
	if seed.Phone, err = getSimpleText(a.reader, "Phone (optional, e.g. +15551234567)", a.out); err != nil {
		return err
	}

	password, err := a.newPassword()
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)
	seed.Password = string(password)

	if err := a.ctrl.Register(ctx, seed); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Account created. We sent a verification link to %s; run: verify <token>\n", seed.Email)
	return nil
}

// newPassword asks twice and returns the password if both entries match.
func (a *App) newPassword() ([]byte, error) {
	password, err := getPassword("Choose a password", a.out)
	if err != nil {
		return nil, err
	}
	again, err := getPassword("Repeat the password", a.out)
	if err != nil {
		common.WipeByteArray(password)
		return nil, err
	}
	defer common.WipeByteArray(again)

	if string(password) != string(again) {
		common.WipeByteArray(password)
		return nil, errPasswordMismatch
	}
	return password, nil
}

// Verify consumes an email-verification token. Without a token it only
// reminds the user to check their inbox.
func (a *App) Verify(ctx context.Context, args []string) error {
	var token string
	if len(args) > 0 {
		token = args[0]
	}

	out := a.ctrl.VerifyEmail(ctx, token)
	fmt.Fprintln(a.out, out.Message)
	if out.Redirect != "" {
		fmt.Fprintf(a.out, "Taking you to %s shortly...\n", out.Redirect)
	}
	return nil
}

// Resend asks for another verification email, defaulting to the address
// that is awaiting verification.
func (a *App) Resend(ctx context.Context, args []string) error {
	email, err := a.emailFor(args)
	if err != nil {
		return err
	}
	if err := a.ctrl.ResendVerification(ctx, email); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "If that address is waiting for verification, a new link is on its way.")
	return nil
}

func (a *App) Forgot(ctx context.Context, args []string) error {
	email, err := a.emailFor(args)
	if err != nil {
		return err
	}
	if err := a.ctrl.ForgotPassword(ctx, email); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "If an account exists for that address, a reset link has been sent.")
	return nil
}

func (a *App) emailFor(args []string) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	if snap := a.ctrl.Snapshot(); snap.State == auth.StateAwaitingVerification && snap.Account != nil {
		return snap.Account.Email, nil
	}
	return getSimpleText(a.reader, "Enter email", a.out)
}

// Reset sets a new password with the token from the reset email. The user
// is signed out afterwards and logs in with the new password.
func (a *App) Reset(ctx context.Context, args []string) error {
	var token string
	var err error
	if len(args) > 0 {
		token = args[0]
	} else if token, err = getSimpleText(a.reader, "Enter reset token", a.out); err != nil {
		return err
	}

	password, err := a.newPassword()
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	if err := a.ctrl.ResetPassword(ctx, token, string(password)); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Password changed. Please log in with your new password.")
	return nil
}

// Logout clears the stored session. Device trust is left alone.
func (a *App) Logout(ctx context.Context, _ []string) error {
	if err := a.ctrl.Logout(ctx); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Signed out.")
	return nil
}

func (a *App) ForgetDevice(ctx context.Context, _ []string) error {
	if err := a.ctrl.ForgetDevice(ctx); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "This device is no longer trusted.")
	return nil
}
