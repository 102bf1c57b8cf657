// Package models defines the client-side data models of the dealership
// session subsystem: accounts and roles, session records and device records.
package models

import (
	"errors"
	"fmt"
)

// Role is the closed set of account roles. The zero value is not a role.
type Role int

const (
	RoleCustomer Role = iota + 1
	RoleSales
	RoleAdmin
)

var ErrUnknownRole = errors.New("unknown role")

func (r Role) String() string {
	switch r {
	case RoleCustomer:
		return "customer"
	case RoleSales:
		return "sales"
	case RoleAdmin:
		return "admin"
	default:
		return fmt.Sprintf("Role(%d)", int(r))
	}
}

// ParseRole maps the backend's role string onto Role.
func ParseRole(s string) (Role, error) {
	switch s {
	case "customer":
		return RoleCustomer, nil
	case "sales":
		return RoleSales, nil
	case "admin":
		return RoleAdmin, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownRole, s)
	}
}

func (r Role) MarshalText() ([]byte, error) {
	if _, err := ParseRole(r.String()); err != nil {
		return nil, err
	}
	return []byte(r.String()), nil
}

func (r *Role) UnmarshalText(b []byte) error {
	parsed, err := ParseRole(string(b))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

// EmailAddress is one of the addresses attached to an account.
type EmailAddress struct {
	Address  string `json:"address"`
	Verified bool   `json:"verified"`
}

// Account is the client's cached copy of the authenticated identity.
// The backend owns it; the client keeps it for the lifetime of a session.
type Account struct {
	ID              string         `json:"id"`
	Email           string         `json:"email"`
	Emails          []EmailAddress `json:"emails,omitempty"`
	Role            Role           `json:"role"`
	EmailVerified   bool           `json:"email_verified"`
	ProfileComplete bool           `json:"profile_complete"`
	FirstName       string         `json:"first_name,omitempty"`
	LastName        string         `json:"last_name,omitempty"`
}

// DisplayName prefers the person's name and falls back to the email.
func (a Account) DisplayName() string {
	switch {
	case a.FirstName != "" && a.LastName != "":
		return a.FirstName + " " + a.LastName
	case a.FirstName != "":
		return a.FirstName
	default:
		return a.Email
	}
}
