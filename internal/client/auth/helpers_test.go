package auth

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/dealership/internal/client/device"
	"github.com/dmitrijs2005/dealership/internal/client/identity"
	"github.com/dmitrijs2005/dealership/internal/client/migrations"
	"github.com/dmitrijs2005/dealership/internal/client/models"
	"github.com/dmitrijs2005/dealership/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/dealership/internal/client/session"
	"github.com/dmitrijs2005/dealership/internal/dbx"
	"github.com/dmitrijs2005/dealership/internal/logging"
	"github.com/stretchr/testify/require"
)

var testEnv = device.Environment{Hostname: "showroom-01", Username: "dana", OS: "linux", Arch: "amd64"}

// fakeProvider answers every call from the configured funcs and counts calls.
type fakeProvider struct {
	mu    sync.Mutex
	calls map[string]int

	login    func(email, password string, d models.DeviceDescriptor) (*models.SessionRecord, error)
	google   func(assertion string, d models.DeviceDescriptor) (*models.SessionRecord, error)
	register func(seed identity.ProfileSeed) (*models.SessionRecord, error)
	verify   func(token string) (*identity.VerifyResult, error)
	reset    func(token, password string) (*models.SessionRecord, error)
	forgot   func(email string) error
	resend   func(email string) error
}

func newFakeProvider() *fakeProvider {
	return &fakeProvider{
		calls: make(map[string]int),
		login: func(email, _ string, _ models.DeviceDescriptor) (*models.SessionRecord, error) {
			return sessionFor(email, models.RoleCustomer), nil
		},
		google: func(_ string, _ models.DeviceDescriptor) (*models.SessionRecord, error) {
			return sessionFor("g@x.com", models.RoleCustomer), nil
		},
		register: func(seed identity.ProfileSeed) (*models.SessionRecord, error) {
			return &models.SessionRecord{Account: models.Account{ID: "new-1", Email: seed.Email, Role: models.RoleCustomer}}, nil
		},
		verify: func(string) (*identity.VerifyResult, error) {
			rec := sessionFor("a@x.com", models.RoleCustomer)
			return &identity.VerifyResult{Account: rec.Account, Session: rec}, nil
		},
		reset: func(string, string) (*models.SessionRecord, error) {
			return sessionFor("a@x.com", models.RoleCustomer), nil
		},
		forgot: func(string) error { return nil },
		resend: func(string) error { return nil },
	}
}

func (f *fakeProvider) count(op string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[op]
}

func (f *fakeProvider) hit(op string) {
	f.mu.Lock()
	f.calls[op]++
	f.mu.Unlock()
}

func (f *fakeProvider) Login(_ context.Context, email, password string, d models.DeviceDescriptor) (*models.SessionRecord, error) {
	f.hit("login")
	return f.login(email, password, d)
}

func (f *fakeProvider) Register(_ context.Context, seed identity.ProfileSeed) (*models.SessionRecord, error) {
	f.hit("register")
	return f.register(seed)
}

func (f *fakeProvider) GoogleLogin(_ context.Context, assertion string, d models.DeviceDescriptor) (*models.SessionRecord, error) {
	f.hit("google")
	return f.google(assertion, d)
}

func (f *fakeProvider) RequestPasswordReset(_ context.Context, email string) error {
	f.hit("forgot")
	return f.forgot(email)
}

func (f *fakeProvider) ResetPassword(_ context.Context, token, password string) (*models.SessionRecord, error) {
	f.hit("reset")
	return f.reset(token, password)
}

func (f *fakeProvider) VerifyEmail(_ context.Context, token string) (*identity.VerifyResult, error) {
	f.hit("verify")
	return f.verify(token)
}

func (f *fakeProvider) ResendVerification(_ context.Context, email string) error {
	f.hit("resend")
	return f.resend(email)
}

func sessionFor(email string, role models.Role) *models.SessionRecord {
	return &models.SessionRecord{
		Token:    "tok-" + email,
		Account:  models.Account{ID: "id-" + email, Email: email, Role: role, EmailVerified: true},
		IssuedAt: time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC),
	}
}

type recordingNavigator struct {
	mu    sync.Mutex
	paths []string
}

func (n *recordingNavigator) Navigate(path string) {
	n.mu.Lock()
	n.paths = append(n.paths, path)
	n.mu.Unlock()
}

func (n *recordingNavigator) last() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	if len(n.paths) == 0 {
		return ""
	}
	return n.paths[len(n.paths)-1]
}

// profile is one client installation: durable storage plus the process
// currently running on it. restart simulates a new process start.
type profile struct {
	t        *testing.T
	repo     *metadata.SQLiteRepository
	volatile *session.MemoryTier
	store    *session.Store
	devices  *device.Service
	provider *fakeProvider
	nav      *recordingNavigator
	ctrl     *Controller
	delays   []time.Duration
}

func newProfile(t *testing.T, name string) *profile {
	t.Helper()
	dsn := "file:" + strings.ReplaceAll(t.Name(), "/", "_") + "_" + name + "?mode=memory"
	db, err := dbx.OpenSQLite(context.Background(), dsn, migrations.Migrations)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	p := &profile{t: t, repo: metadata.NewSQLiteRepository(db), provider: newFakeProvider()}
	p.restart()
	return p
}

func (p *profile) restart() {
	p.volatile = session.NewMemoryTier()
	p.store = session.NewStore(session.NewSQLiteTier(p.repo), p.volatile, logging.Nop())
	p.devices = device.NewService(p.repo, testEnv)
	p.nav = &recordingNavigator{}
	p.ctrl = NewController(p.provider, p.store, p.devices, p.nav, logging.Nop(), Options{
		VerifyRedirectDelay: 2 * time.Second,
		ResendInterval:      time.Hour,
		ReturnAllowed: func(role models.Role, path string) bool {
			return !strings.HasPrefix(path, PathAdmin) || role == models.RoleAdmin
		},
	})
	p.ctrl.afterFunc = func(d time.Duration, f func()) {
		p.delays = append(p.delays, d)
		f()
	}
}

func (p *profile) started() *profile {
	p.t.Helper()
	require.NoError(p.t, p.ctrl.Start(context.Background()))
	return p
}

func (p *profile) stored() *models.SessionRecord {
	p.t.Helper()
	rec, err := p.store.Load(context.Background())
	require.NoError(p.t, err)
	return rec
}

func (p *profile) remembered() *models.RememberedDevice {
	p.t.Helper()
	rec, err := p.devices.Remembered(context.Background())
	require.NoError(p.t, err)
	return rec
}

func (p *profile) login(email string, rememberMe, rememberDevice bool) string {
	p.t.Helper()
	dest, err := p.ctrl.Login(context.Background(), LoginInput{
		Email: email, Password: "secret-pw", RememberMe: rememberMe, RememberDevice: rememberDevice,
	})
	require.NoError(p.t, err)
	return dest
}
