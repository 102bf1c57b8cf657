// Package guard decides, from a session snapshot alone, whether a page may be
// shown. Guards hold no state and never see errors.
package guard

import (
	"net/url"

	"github.com/dmitrijs2005/dealership/internal/client/auth"
	"github.com/dmitrijs2005/dealership/internal/client/models"
)

type Access int

const (
	AccessPublic Access = iota
	AccessAuthenticated
	AccessRole
	// AccessGuest pages (login, register) make no sense once signed in.
	AccessGuest
)

type Policy struct {
	Access Access
	Role   models.Role
}

var (
	Public        = Policy{Access: AccessPublic}
	Authenticated = Policy{Access: AccessAuthenticated}
	Guest         = Policy{Access: AccessGuest}
)

func RequireRole(r models.Role) Policy {
	return Policy{Access: AccessRole, Role: r}
}

type Kind int

const (
	Loading Kind = iota
	Render
	Redirect
)

func (k Kind) String() string {
	switch k {
	case Loading:
		return "loading"
	case Render:
		return "render"
	case Redirect:
		return "redirect"
	default:
		return "unknown"
	}
}

// Decision is the outcome of a guard. To is set for Redirect.
type Decision struct {
	Kind Kind
	To   string
}

// Evaluate applies p to the page at path.
func Evaluate(snap auth.Snapshot, p Policy, path string) Decision {
	if p.Access == AccessPublic {
		return Decision{Kind: Render}
	}
	if snap.State == auth.StateInitializing {
		return Decision{Kind: Loading}
	}

	signedIn := snap.State == auth.StateAuthenticated && snap.Account != nil

	switch p.Access {
	case AccessGuest:
		if signedIn {
			return Decision{Kind: Redirect, To: auth.HomeFor(snap.Role())}
		}
		return Decision{Kind: Render}
	case AccessAuthenticated:
		if !signedIn {
			return Decision{Kind: Redirect, To: LoginURL(path)}
		}
		return Decision{Kind: Render}
	case AccessRole:
		if !signedIn {
			return Decision{Kind: Redirect, To: LoginURL(path)}
		}
		if snap.Role() != p.Role {
			return Decision{Kind: Redirect, To: auth.PathHome}
		}
		return Decision{Kind: Render}
	default:
		return Decision{Kind: Redirect, To: auth.PathHome}
	}
}

// LoginURL is the login entry point that returns to next afterwards.
func LoginURL(next string) string {
	if next == "" || next == auth.PathHome {
		return auth.PathLogin
	}
	return auth.PathLogin + "?" + url.Values{"next": {next}}.Encode()
}

// ReturnTarget extracts the post-login destination from a login URL.
// Anything that is not a local absolute path is dropped.
func ReturnTarget(loginURL string) string {
	u, err := url.Parse(loginURL)
	if err != nil {
		return ""
	}
	next := u.Query().Get("next")
	if !isLocalPath(next) {
		return ""
	}
	return next
}

func isLocalPath(p string) bool {
	if len(p) == 0 || p[0] != '/' {
		return false
	}
	// "//host" and "/\host" are scheme-relative in browsers
	if len(p) > 1 && (p[1] == '/' || p[1] == '\\') {
		return false
	}
	return true
}
