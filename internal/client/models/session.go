package models

import "time"

// SessionRecord is the persisted proof of authentication.
// Persistent selects the storage tier that holds it.
type SessionRecord struct {
	Token      string    `json:"token"`
	Account    Account   `json:"account"`
	IssuedAt   time.Time `json:"issued_at"`
	Persistent bool      `json:"persistent"`
}

// Valid reports structural validity only: a token and an account id.
// Freshness is the backend's call.
func (s *SessionRecord) Valid() bool {
	return s != nil && s.Token != "" && s.Account.ID != ""
}
