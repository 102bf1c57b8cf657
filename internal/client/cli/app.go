package cli

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/dmitrijs2005/dealership/internal/client/auth"
	"github.com/dmitrijs2005/dealership/internal/client/config"
	"github.com/dmitrijs2005/dealership/internal/client/device"
	"github.com/dmitrijs2005/dealership/internal/client/guard"
	"github.com/dmitrijs2005/dealership/internal/client/identity"
	"github.com/dmitrijs2005/dealership/internal/client/migrations"
	"github.com/dmitrijs2005/dealership/internal/client/models"
	"github.com/dmitrijs2005/dealership/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/dealership/internal/client/session"
	"github.com/dmitrijs2005/dealership/internal/dbx"
	"github.com/dmitrijs2005/dealership/internal/filex"
	"github.com/dmitrijs2005/dealership/internal/logging"
)

// controller is the part of *auth.Controller the REPL drives.
type controller interface {
	Start(ctx context.Context) error
	Snapshot() auth.Snapshot
	Login(ctx context.Context, in auth.LoginInput) (string, error)
	GoogleLogin(ctx context.Context, in auth.GoogleLoginInput) (string, error)
	Register(ctx context.Context, seed identity.ProfileSeed) error
	VerifyEmail(ctx context.Context, token string) auth.VerifyOutcome
	ResendVerification(ctx context.Context, email string) error
	ForgotPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, token, password string) error
	Logout(ctx context.Context) error
	ForgetDevice(ctx context.Context) error
}

type deviceInfo interface {
	Descriptor(ctx context.Context) (models.DeviceDescriptor, error)
	Remembered(ctx context.Context) (*models.RememberedDevice, error)
}

type assertionSource interface {
	Assertion(ctx context.Context) (string, error)
}

type App struct {
	config  *config.Config
	ctrl    controller
	devices deviceInfo
	routes  *guard.Table
	google  assertionSource
	db      *sql.DB
	logger  logging.Logger
	reader  *bufio.Reader
	out     io.Writer

	mu       sync.Mutex
	location string
	returnTo string
}

// NewApp opens the local database under cfg.DataDir and wires the session
// controller to the identity backend at cfg.BackendURL.
func NewApp(ctx context.Context, c *config.Config, l logging.Logger) (*App, error) {
	if _, err := filex.EnsurePrivateDir(c.DataDir); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	db, err := dbx.OpenSQLite(ctx, c.DBPath(), migrations.Migrations)
	if err != nil {
		l.Error(ctx, "error initializing database", "error", err)
		return nil, err
	}

	repo := metadata.NewSQLiteRepository(db)
	devices := device.NewService(repo, device.CurrentEnvironment())
	store := session.NewStore(session.NewSQLiteTier(repo), session.NewMemoryTier(), l)
	provider := identity.NewHTTPClient(c.BackendURL, c.HTTPTimeout, l)
	routes := guard.NewTable(guard.Storefront)

	a := &App{
		config:   c,
		devices:  devices,
		routes:   routes,
		db:       db,
		logger:   l.With("module", "cli"),
		reader:   bufio.NewReader(os.Stdin),
		out:      newLockedWriter(os.Stdout),
		location: auth.PathHome,
	}
	a.ctrl = auth.NewController(provider, store, devices, a, l, auth.Options{
		VerifyRedirectDelay: c.VerifyRedirectDelay,
		ResendInterval:      c.ResendInterval,
		ReturnAllowed:       routes.Permits,
	})
	if c.GoogleEnabled() {
		a.google = identity.NewGoogleDeviceFlow(c.Google, a.promptDeviceCode)
	}
	return a, nil
}

// Run restores the previous session, shows the current page and serves
// commands until the user exits.
func (a *App) Run(ctx context.Context) error {
	defer a.Close()

	if err := a.ctrl.Start(ctx); err != nil {
		a.logger.Warn(ctx, "could not restore session", "error", err)
	}

	fmt.Fprintln(a.out, "Dealership client (type 'help' for commands)")
	a.show(a.currentLocation())
	runREPL(ctx, a, a.status, a.reader, a.out)
	return nil
}

func (a *App) Close() {
	if a.db != nil {
		_ = a.db.Close()
	}
}

// Navigate implements auth.Navigator.
func (a *App) Navigate(path string) {
	a.show(path)
}

func (a *App) isLoggedIn() bool {
	return a.ctrl.Snapshot().State == auth.StateAuthenticated
}

func (a *App) status() string {
	snap := a.ctrl.Snapshot()
	where := a.currentLocation()
	switch snap.State {
	case auth.StateAuthenticated:
		return fmt.Sprintf("%s [%s] %s", snap.Account.Email, snap.Role(), where)
	case auth.StateAwaitingVerification:
		return "(verify your email) " + where
	default:
		return snap.State.String() + " " + where
	}
}

func (a *App) currentLocation() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.location
}

func (a *App) setLocation(path string) {
	a.mu.Lock()
	a.location = path
	a.mu.Unlock()
}

func (a *App) pendingReturn() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.returnTo
}

func (a *App) setReturn(path string) {
	a.mu.Lock()
	a.returnTo = path
	a.mu.Unlock()
}

func (a *App) promptDeviceCode(userCode, verificationURI string) {
	fmt.Fprintf(a.out, "Open %s on any device and enter the code %s\n", verificationURI, userCode)
}
