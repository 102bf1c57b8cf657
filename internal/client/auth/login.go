package auth

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/dealership/internal/client/identity"
	"github.com/dmitrijs2005/dealership/internal/client/models"
)

type LoginInput struct {
	Email          string `validate:"required,email"`
	Password       string `validate:"required"`
	RememberMe     bool
	RememberDevice bool
	// ReturnTo is the page that sent the user to the login form.
	ReturnTo string
}

type GoogleLoginInput struct {
	Assertion      string `validate:"required"`
	RememberMe     bool
	RememberDevice bool
	ReturnTo       string
}

// Login signs in with email and password and returns the path navigated to.
// On failure nothing is stored and the state is unchanged.
func (c *Controller) Login(ctx context.Context, in LoginInput) (string, error) {
	if err := validateInput(in); err != nil {
		return "", err
	}
	if err := c.begin(); err != nil {
		return "", err
	}
	defer c.end()

	desc, err := c.devices.Descriptor(ctx)
	if err != nil {
		return "", c.fail(ctx, "login", fmt.Errorf("%w: %v", ErrStorage, err))
	}

	rec, err := c.provider.Login(ctx, in.Email, in.Password, desc)
	if err != nil {
		return "", c.fail(ctx, "login", err)
	}
	return c.establish(ctx, rec, desc, in.RememberMe, in.RememberDevice, in.ReturnTo)
}

// GoogleLogin exchanges a Google ID token for a session. Same rules as Login.
func (c *Controller) GoogleLogin(ctx context.Context, in GoogleLoginInput) (string, error) {
	if err := validateInput(in); err != nil {
		return "", err
	}
	if err := c.begin(); err != nil {
		return "", err
	}
	defer c.end()

	desc, err := c.devices.Descriptor(ctx)
	if err != nil {
		return "", c.fail(ctx, "google login", fmt.Errorf("%w: %v", ErrStorage, err))
	}

	rec, err := c.provider.GoogleLogin(ctx, in.Assertion, desc)
	if err != nil {
		return "", c.fail(ctx, "google login", err)
	}
	return c.establish(ctx, rec, desc, in.RememberMe, in.RememberDevice, in.ReturnTo)
}

func (c *Controller) establish(ctx context.Context, rec *models.SessionRecord, desc models.DeviceDescriptor, rememberMe, rememberDevice bool, returnTo string) (string, error) {
	if err := c.store.Save(ctx, *rec, rememberMe); err != nil {
		return "", c.fail(ctx, "save session", fmt.Errorf("%w: %v", ErrStorage, err))
	}
	if rememberDevice {
		if err := c.devices.Remember(ctx, desc); err != nil {
			c.logger.Warn(ctx, "could not remember device", "error", err)
		}
	}

	saved := *rec
	saved.Persistent = rememberMe
	c.setState(StateAuthenticated, &saved)

	dest := c.destination(rec.Account.Role, returnTo)
	c.logger.Info(ctx, "signed in", "role", rec.Account.Role, "persistent", rememberMe)
	c.nav.Navigate(dest)
	return dest, nil
}

// Register creates the account and waits for the emailed verification link.
// No session is stored, even if the backend issued one.
func (c *Controller) Register(ctx context.Context, seed identity.ProfileSeed) error {
	if err := validateInput(seed); err != nil {
		return err
	}
	if err := c.begin(); err != nil {
		return err
	}
	defer c.end()

	rec, err := c.provider.Register(ctx, seed)
	if err != nil {
		return c.fail(ctx, "register", err)
	}

	c.setStateAccount(StateAwaitingVerification, nil, &rec.Account)
	c.nav.Navigate(PathVerifyWaiting)
	return nil
}

// Logout clears both session tiers. Device trust is kept.
func (c *Controller) Logout(ctx context.Context) error {
	if err := c.begin(); err != nil {
		return err
	}
	defer c.end()

	err := c.store.Clear(ctx)
	c.setState(StateAnonymous, nil)
	c.nav.Navigate(PathHome)
	if err != nil {
		return c.fail(ctx, "logout", fmt.Errorf("%w: %v", ErrStorage, err))
	}
	return nil
}

// ForgetDevice drops the remembered-device record. The current session stays.
func (c *Controller) ForgetDevice(ctx context.Context) error {
	if err := c.devices.Forget(ctx); err != nil {
		return c.fail(ctx, "forget device", fmt.Errorf("%w: %v", ErrStorage, err))
	}
	return nil
}
