package auth

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/dealership/internal/client/models"
)

type VerifyStatus int

const (
	// VerifyWaiting means no token was given; the user should check their inbox.
	VerifyWaiting VerifyStatus = iota
	VerifySucceeded
	VerifyFailed
)

// VerifyOutcome is what the verification view shows. Redirect is set when
// the controller will navigate there after the redirect delay.
type VerifyOutcome struct {
	Status   VerifyStatus
	Message  string
	Redirect string
	Err      error
}

// verification is one attempt at consuming a token. done is closed when
// outcome is final.
type verification struct {
	done    chan struct{}
	outcome VerifyOutcome
}

// VerifyEmail consumes an email-verification token at most once. Repeated
// and concurrent calls with the same token share the first attempt's
// outcome; no second request is ever sent for it.
func (c *Controller) VerifyEmail(ctx context.Context, token string) VerifyOutcome {
	if token == "" {
		return VerifyOutcome{Status: VerifyWaiting, Message: "Check your inbox for a verification link."}
	}

	// An attempt is only recorded once the controller can run it.
	select {
	case <-c.ready:
	case <-ctx.Done():
		fe := formError(ErrNotReady)
		return VerifyOutcome{Status: VerifyFailed, Message: fe.Message, Err: fe.Err}
	}

	c.verifyMu.Lock()
	v, seen := c.verifications[token]
	if !seen {
		v = &verification{done: make(chan struct{})}
		c.verifications[token] = v
	}
	c.verifyMu.Unlock()

	if seen {
		select {
		case <-v.done:
			return v.outcome
		case <-ctx.Done():
			return VerifyOutcome{Status: VerifyFailed, Message: "Verification is still in progress.", Err: ctx.Err()}
		}
	}

	// The attempt outlives the caller: a late response must still land.
	v.outcome = c.verify(context.WithoutCancel(ctx), token)
	close(v.done)
	return v.outcome
}

func (c *Controller) verify(ctx context.Context, token string) VerifyOutcome {
	if err := c.acquire(ctx); err != nil {
		return VerifyOutcome{Status: VerifyFailed, Message: userMessage(err), Err: err}
	}
	defer c.end()

	res, err := c.provider.VerifyEmail(ctx, token)
	if err != nil {
		fe := c.fail(ctx, "verify email", err)
		return VerifyOutcome{Status: VerifyFailed, Message: fe.Message, Err: fe.Err}
	}

	if res.Session != nil {
		rec := *res.Session
		if err := c.store.Save(ctx, rec, false); err != nil {
			fe := c.fail(ctx, "save session", fmt.Errorf("%w: %v", ErrStorage, err))
			return VerifyOutcome{Status: VerifyFailed, Message: fe.Message, Err: fe.Err}
		}
		rec.Persistent = false
		c.setState(StateAuthenticated, &rec)

		dest := HomeFor(rec.Account.Role)
		c.redirectLater(dest)
		return VerifyOutcome{Status: VerifySucceeded, Message: "Your email is verified. You are signed in.", Redirect: dest}
	}

	if role, ok := c.refreshAccount(ctx, res.Account); ok {
		dest := HomeFor(role)
		c.redirectLater(dest)
		return VerifyOutcome{Status: VerifySucceeded, Message: "Your email is verified.", Redirect: dest}
	}

	c.setState(StateAnonymous, nil)
	c.redirectLater(PathLogin)
	return VerifyOutcome{Status: VerifySucceeded, Message: "Your email is verified. Please sign in.", Redirect: PathLogin}
}

// refreshAccount replaces the cached account of a signed-in user with the
// verified copy and rewrites the stored record in its tier. It reports false
// when nobody is signed in; the session is never touched in that case.
func (c *Controller) refreshAccount(ctx context.Context, acc models.Account) (models.Role, bool) {
	c.mu.RLock()
	if c.state != StateAuthenticated || c.session == nil {
		c.mu.RUnlock()
		return 0, false
	}
	rec := *c.session
	c.mu.RUnlock()

	if acc.ID == rec.Account.ID {
		rec.Account = acc
		if err := c.store.Save(ctx, rec, rec.Persistent); err != nil {
			c.logger.Warn(ctx, "could not update stored account", "error", err)
		}
		c.setState(StateAuthenticated, &rec)
	}
	return rec.Account.Role, true
}

func (c *Controller) redirectLater(path string) {
	c.afterFunc(c.opts.VerifyRedirectDelay, func() { c.nav.Navigate(path) })
}

