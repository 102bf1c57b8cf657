// Package auth is the session controller of the dealership client: the one
// owner of "who is using this client right now".
//
// # States
//
//	Initializing ──Start──▶ Anonymous ◀──Logout/ResetPassword──┐
//	      │                    │  ▲                             │
//	      │                    │  └──device mismatch at Start   │
//	      └──Start─────────────┼──────────▶ Authenticated ──────┘
//	                           │                 ▲
//	                       Register              │ VerifyEmail (with session)
//	                           ▼                 │
//	                   AwaitingVerification ─────┘
//
// Every mutation goes through a Controller method. Guards and views read
// Snapshot or Subscribe and never see errors; the methods return *FormError
// values whose Message is safe to show to the user.
//
// # Concurrency
//
// User-triggered mutations (Login, GoogleLogin, Register, ResetPassword,
// Logout) hold a single operation slot; a second concurrent call fails with
// ErrBusy instead of interleaving. VerifyEmail queues for the slot instead,
// and is idempotent per token value for the lifetime of the Controller.
package auth
