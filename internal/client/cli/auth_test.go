package cli

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/dealership/internal/client/auth"
	"github.com/dmitrijs2005/dealership/internal/client/guard"
	"github.com/dmitrijs2005/dealership/internal/client/identity"
	"github.com/dmitrijs2005/dealership/internal/client/models"
	"github.com/dmitrijs2005/dealership/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeCtrl records what the REPL asked of the controller.
type fakeCtrl struct {
	snap auth.Snapshot
	nav  auth.Navigator
	err  error

	loginIn     auth.LoginInput
	googleIn    auth.GoogleLoginInput
	seed        identity.ProfileSeed
	verifyToken string
	verifyOut   auth.VerifyOutcome
	resendEmail string
	forgotEmail string
	resetToken  string
	resetPw     string
	loggedOut   bool
	forgot      bool
}

func (f *fakeCtrl) Start(context.Context) error { return nil }
func (f *fakeCtrl) Snapshot() auth.Snapshot    { return f.snap }

func (f *fakeCtrl) Login(_ context.Context, in auth.LoginInput) (string, error) {
	f.loginIn = in
	if f.err != nil {
		return "", f.err
	}
	f.snap = auth.Snapshot{State: auth.StateAuthenticated, Account: &models.Account{ID: "1", Email: in.Email, FirstName: "Dana", Role: models.RoleCustomer}}
	dest := auth.PathHome
	if in.ReturnTo != "" {
		dest = in.ReturnTo
	}
	if f.nav != nil {
		f.nav.Navigate(dest)
	}
	return dest, nil
}

func (f *fakeCtrl) GoogleLogin(_ context.Context, in auth.GoogleLoginInput) (string, error) {
	f.googleIn = in
	if f.err != nil {
		return "", f.err
	}
	f.snap = auth.Snapshot{State: auth.StateAuthenticated, Account: &models.Account{ID: "1", Email: "g@x.com", Role: models.RoleCustomer}}
	return auth.PathHome, nil
}

func (f *fakeCtrl) Register(_ context.Context, seed identity.ProfileSeed) error {
	f.seed = seed
	if f.err == nil {
		f.snap = auth.Snapshot{State: auth.StateAwaitingVerification, Account: &models.Account{ID: "n", Email: seed.Email}}
	}
	return f.err
}

func (f *fakeCtrl) VerifyEmail(_ context.Context, token string) auth.VerifyOutcome {
	f.verifyToken = token
	return f.verifyOut
}

func (f *fakeCtrl) ResendVerification(_ context.Context, email string) error {
	f.resendEmail = email
	return f.err
}

func (f *fakeCtrl) ForgotPassword(_ context.Context, email string) error {
	f.forgotEmail = email
	return f.err
}

func (f *fakeCtrl) ResetPassword(_ context.Context, token, password string) error {
	f.resetToken, f.resetPw = token, password
	return f.err
}

func (f *fakeCtrl) Logout(context.Context) error {
	f.loggedOut = true
	f.snap = auth.Snapshot{State: auth.StateAnonymous}
	return f.err
}

func (f *fakeCtrl) ForgetDevice(context.Context) error {
	f.forgot = true
	return f.err
}

type fakeDevices struct {
	desc       models.DeviceDescriptor
	remembered *models.RememberedDevice
}

func (f *fakeDevices) Descriptor(context.Context) (models.DeviceDescriptor, error) {
	return f.desc, nil
}

func (f *fakeDevices) Remembered(context.Context) (*models.RememberedDevice, error) {
	return f.remembered, nil
}

type fakeGoogle struct {
	token string
	err   error
}

func (f fakeGoogle) Assertion(context.Context) (string, error) { return f.token, f.err }

func newTestApp(ctrl *fakeCtrl) (*App, *bytes.Buffer) {
	var out bytes.Buffer
	a := &App{
		ctrl:     ctrl,
		devices:  &fakeDevices{},
		routes:   guard.NewTable(guard.Storefront),
		logger:   logging.Nop(),
		reader:   bufio.NewReader(strings.NewReader("")),
		out:      &out,
		location: auth.PathHome,
	}
	ctrl.nav = a
	return a, &out
}

// stubInputs replaces the interactive prompts with canned answers, served in
// order.
func stubInputs(t *testing.T, texts []string, passwords []string, confirms []bool) {
	t.Helper()
	origST, origGP, origGC := getSimpleText, getPassword, getConfirmation
	t.Cleanup(func() {
		getSimpleText, getPassword, getConfirmation = origST, origGP, origGC
	})

	getSimpleText = func(_ *bufio.Reader, _ string, _ io.Writer) (string, error) {
		if len(texts) == 0 {
			return "", io.EOF
		}
		s := texts[0]
		texts = texts[1:]
		return s, nil
	}
	getPassword = func(_ string, _ io.Writer) ([]byte, error) {
		if len(passwords) == 0 {
			return nil, io.EOF
		}
		p := passwords[0]
		passwords = passwords[1:]
		return []byte(p), nil
	}
	getConfirmation = func(_ *bufio.Reader, _ string, _ io.Writer) (bool, error) {
		if len(confirms) == 0 {
			return false, io.EOF
		}
		c := confirms[0]
		confirms = confirms[1:]
		return c, nil
	}
}

func TestLogin_Success(t *testing.T) {
	ctrl := &fakeCtrl{snap: auth.Snapshot{State: auth.StateAnonymous}}
	a, out := newTestApp(ctrl)
	stubInputs(t, []string{"dana@x.com"}, []string{"pw-1"}, []bool{true, false})

	require.NoError(t, a.Login(context.Background(), nil))

	assert.Equal(t, auth.LoginInput{Email: "dana@x.com", Password: "pw-1", RememberMe: true}, ctrl.loginIn)
	assert.Contains(t, out.String(), "Welcome, Dana!")
}

func TestLogin_ReturnsToProtectedPage(t *testing.T) {
	ctrl := &fakeCtrl{snap: auth.Snapshot{State: auth.StateAnonymous}}
	a, out := newTestApp(ctrl)

	require.NoError(t, a.Open(context.Background(), []string{"/orders/7"}))
	assert.Contains(t, out.String(), "Please log in to continue.")
	assert.Equal(t, "/login?next=%2Forders%2F7", a.currentLocation())

	stubInputs(t, []string{"dana@x.com"}, []string{"pw"}, []bool{false, false})
	require.NoError(t, a.Login(context.Background(), nil))

	assert.Equal(t, "/orders/7", ctrl.loginIn.ReturnTo)
	assert.Equal(t, "/orders/7", a.currentLocation())
	assert.Empty(t, a.pendingReturn())
}

func TestLogin_ErrorKeepsReturnTarget(t *testing.T) {
	ctrl := &fakeCtrl{snap: auth.Snapshot{State: auth.StateAnonymous}, err: &auth.FormError{Err: identity.ErrInvalidCredentials, Message: "Incorrect email or password."}}
	a, _ := newTestApp(ctrl)
	a.setReturn("/favorites")
	stubInputs(t, []string{"dana@x.com"}, []string{"bad"}, []bool{false, false})

	err := a.Login(context.Background(), nil)
	require.ErrorIs(t, err, identity.ErrInvalidCredentials)
	assert.Equal(t, "/favorites", a.pendingReturn())
}

func TestLogin_InputError(t *testing.T) {
	ctrl := &fakeCtrl{}
	a, _ := newTestApp(ctrl)
	stubInputs(t, []string{"dana@x.com"}, nil, nil)

	require.ErrorIs(t, a.Login(context.Background(), nil), io.EOF)
	assert.Empty(t, ctrl.loginIn.Email)
}

func TestGoogleLogin(t *testing.T) {
	ctrl := &fakeCtrl{snap: auth.Snapshot{State: auth.StateAnonymous}}
	a, _ := newTestApp(ctrl)

	require.ErrorIs(t, a.GoogleLogin(context.Background(), nil), errGoogleDisabled)

	a.google = fakeGoogle{token: "id-token"}
	stubInputs(t, nil, nil, []bool{true, true})
	require.NoError(t, a.GoogleLogin(context.Background(), nil))
	assert.Equal(t, auth.GoogleLoginInput{Assertion: "id-token", RememberMe: true, RememberDevice: true}, ctrl.googleIn)

	a.google = fakeGoogle{err: errors.New("expired_token")}
	require.Error(t, a.GoogleLogin(context.Background(), nil))
}

func TestRegister(t *testing.T) {
	ctrl := &fakeCtrl{snap: auth.Snapshot{State: auth.StateAnonymous}}
	a, out := newTestApp(ctrl)
	stubInputs(t, []string{"new@x.com", "Ada", "Byron", ""}, []string{"long-enough", "long-enough"}, nil)

	require.NoError(t, a.Register(context.Background(), nil))
	assert.Equal(t, identity.ProfileSeed{Email: "new@x.com", Password: "long-enough", FirstName: "Ada", LastName: "Byron"}, ctrl.seed)
	assert.Contains(t, out.String(), "verify <token>")
}

func TestRegister_PasswordMismatch(t *testing.T) {
	ctrl := &fakeCtrl{}
	a, _ := newTestApp(ctrl)
	stubInputs(t, []string{"new@x.com", "Ada", "Byron", ""}, []string{"long-enough", "different"}, nil)

	require.ErrorIs(t, a.Register(context.Background(), nil), errPasswordMismatch)
	assert.Empty(t, ctrl.seed.Email)
}

func TestVerify(t *testing.T) {
	ctrl := &fakeCtrl{verifyOut: auth.VerifyOutcome{Status: auth.VerifySucceeded, Message: "Your email is verified.", Redirect: "/"}}
	a, out := newTestApp(ctrl)

	require.NoError(t, a.Verify(context.Background(), []string{"tok123"}))
	assert.Equal(t, "tok123", ctrl.verifyToken)
	assert.Contains(t, out.String(), "Your email is verified.")
	assert.Contains(t, out.String(), "Taking you to / shortly...")

	ctrl.verifyOut = auth.VerifyOutcome{Status: auth.VerifyWaiting, Message: "Check your inbox for a verification link."}
	require.NoError(t, a.Verify(context.Background(), nil))
	assert.Empty(t, ctrl.verifyToken)
}

func TestResend_DefaultsToPendingAddress(t *testing.T) {
	ctrl := &fakeCtrl{snap: auth.Snapshot{State: auth.StateAwaitingVerification, Account: &models.Account{Email: "new@x.com"}}}
	a, _ := newTestApp(ctrl)

	require.NoError(t, a.Resend(context.Background(), nil))
	assert.Equal(t, "new@x.com", ctrl.resendEmail)

	require.NoError(t, a.Resend(context.Background(), []string{"other@x.com"}))
	assert.Equal(t, "other@x.com", ctrl.resendEmail)
}

func TestForgot(t *testing.T) {
	ctrl := &fakeCtrl{snap: auth.Snapshot{State: auth.StateAnonymous}}
	a, out := newTestApp(ctrl)
	stubInputs(t, []string{"dana@x.com"}, nil, nil)

	require.NoError(t, a.Forgot(context.Background(), nil))
	assert.Equal(t, "dana@x.com", ctrl.forgotEmail)
	assert.Contains(t, out.String(), "If an account exists")
}

func TestReset(t *testing.T) {
	ctrl := &fakeCtrl{}
	a, _ := newTestApp(ctrl)
	stubInputs(t, []string{"rt-1"}, []string{"new-password", "new-password"}, nil)

	require.NoError(t, a.Reset(context.Background(), nil))
	assert.Equal(t, "rt-1", ctrl.resetToken)
	assert.Equal(t, "new-password", ctrl.resetPw)
}

func TestLogoutAndForgetDevice(t *testing.T) {
	ctrl := &fakeCtrl{snap: auth.Snapshot{State: auth.StateAuthenticated, Account: &models.Account{ID: "1"}}}
	a, out := newTestApp(ctrl)

	require.NoError(t, a.ForgetDevice(context.Background(), nil))
	assert.True(t, ctrl.forgot)
	require.NoError(t, a.Logout(context.Background(), nil))
	assert.True(t, ctrl.loggedOut)
	assert.Contains(t, out.String(), "Signed out.")
}

func TestOpen(t *testing.T) {
	ctrl := &fakeCtrl{snap: auth.Snapshot{State: auth.StateAuthenticated, Account: &models.Account{ID: "1", Role: models.RoleCustomer}}}
	a, out := newTestApp(ctrl)

	require.ErrorIs(t, a.Open(context.Background(), nil), errUsage)

	require.NoError(t, a.Open(context.Background(), []string{"cars/12"}))
	assert.Equal(t, "/cars/12", a.currentLocation())
	assert.Contains(t, out.String(), "== cars / 12 ==")

	require.NoError(t, a.Open(context.Background(), []string{"/admin"}))
	assert.Equal(t, "/", a.currentLocation())
	assert.Contains(t, out.String(), "== Home ==")
}

func TestOpen_LoadingWhileInitializing(t *testing.T) {
	ctrl := &fakeCtrl{snap: auth.Snapshot{State: auth.StateInitializing}}
	a, out := newTestApp(ctrl)

	require.NoError(t, a.Open(context.Background(), []string{"/orders"}))
	assert.Contains(t, out.String(), "Loading...")
	assert.Equal(t, "/", a.currentLocation())
}

func TestWhoami(t *testing.T) {
	ctrl := &fakeCtrl{snap: auth.Snapshot{
		State:     auth.StateAuthenticated,
		Account:   &models.Account{ID: "1", Email: "dana@x.com", FirstName: "Dana", Role: models.RoleSales},
		IssuedAt:  time.Now().Add(-time.Hour),
		ExpiresAt: time.Now().Add(2 * time.Hour),
	}}
	a, out := newTestApp(ctrl)

	require.NoError(t, a.Whoami(context.Background(), nil))
	got := out.String()
	assert.Contains(t, got, "authenticated")
	assert.Contains(t, got, "Dana <dana@x.com>")
	assert.Contains(t, got, "Role:     sales")
	assert.Contains(t, got, "Signed in 1 hour ago")
	assert.Contains(t, got, "Token expires 1 hour from now")
}

func TestDevice(t *testing.T) {
	a, out := newTestApp(&fakeCtrl{})
	devices := &fakeDevices{desc: models.DeviceDescriptor{DeviceID: "d-1", Name: "dealership-cli on box (linux/amd64)", Fingerprint: "ff"}}
	a.devices = devices

	require.NoError(t, a.Device(context.Background(), nil))
	assert.Contains(t, out.String(), "Trusted:     no")

	devices.remembered = &models.RememberedDevice{DeviceID: "d-1", SavedAt: time.Now()}
	require.NoError(t, a.Device(context.Background(), nil))
	assert.Contains(t, out.String(), "Trusted:     yes")

	devices.remembered = &models.RememberedDevice{DeviceID: "d-2"}
	require.NoError(t, a.Device(context.Background(), nil))
	assert.Contains(t, out.String(), "another device")
}

func TestStatus(t *testing.T) {
	ctrl := &fakeCtrl{snap: auth.Snapshot{State: auth.StateAnonymous}}
	a, _ := newTestApp(ctrl)
	assert.Equal(t, "anonymous /", a.status())

	ctrl.snap = auth.Snapshot{State: auth.StateAuthenticated, Account: &models.Account{Email: "a@x.com", Role: models.RoleAdmin}}
	assert.Equal(t, "a@x.com [admin] /", a.status())
	assert.True(t, a.isLoggedIn())
}
