package auth

import (
	"time"

	"github.com/dmitrijs2005/dealership/internal/client/models"
)

type State int

const (
	StateInitializing State = iota
	StateAnonymous
	StateAuthenticated
	StateAwaitingVerification
)

func (s State) String() string {
	switch s {
	case StateInitializing:
		return "initializing"
	case StateAnonymous:
		return "anonymous"
	case StateAuthenticated:
		return "authenticated"
	case StateAwaitingVerification:
		return "awaiting-verification"
	default:
		return "unknown"
	}
}

// Snapshot is the read-only view guards and views work from.
// Account is nil for Initializing and Anonymous.
type Snapshot struct {
	State     State
	Account   *models.Account
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// Role is the account's role when authenticated and zero otherwise.
func (s Snapshot) Role() models.Role {
	if s.State != StateAuthenticated || s.Account == nil {
		return 0
	}
	return s.Account.Role
}
