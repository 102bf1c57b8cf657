package identity

import (
	"context"

	"github.com/dmitrijs2005/dealership/internal/client/models"
)

// ProfileSeed is what a new customer submits at registration.
type ProfileSeed struct {
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=8,max=128"`
	FirstName string `json:"first_name" validate:"required,max=64"`
	LastName  string `json:"last_name" validate:"required,max=64"`
	Phone     string `json:"phone,omitempty" validate:"omitempty,e164"`
}

// VerifyResult is the outcome of consuming an email-verification token.
// Session is nil when the backend verified the address without signing in.
type VerifyResult struct {
	Account models.Account
	Session *models.SessionRecord
}

// Provider is the identity backend as seen by the session controller.
type Provider interface {
	Login(ctx context.Context, email, password string, device models.DeviceDescriptor) (*models.SessionRecord, error)
	Register(ctx context.Context, seed ProfileSeed) (*models.SessionRecord, error)
	GoogleLogin(ctx context.Context, assertion string, device models.DeviceDescriptor) (*models.SessionRecord, error)
	RequestPasswordReset(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, token, newPassword string) (*models.SessionRecord, error)
	VerifyEmail(ctx context.Context, token string) (*VerifyResult, error)
	ResendVerification(ctx context.Context, email string) error
}
