package auth

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/dealership/internal/client/identity"
	"github.com/dmitrijs2005/dealership/internal/client/models"
	"github.com/dmitrijs2005/dealership/internal/logging"
	"golang.org/x/time/rate"
)

// SessionStore is the two-tier session storage the controller writes through.
type SessionStore interface {
	Save(ctx context.Context, rec models.SessionRecord, persistent bool) error
	Load(ctx context.Context) (*models.SessionRecord, error)
	Clear(ctx context.Context) error
}

// DeviceService supplies the device descriptor and the remembered-device record.
type DeviceService interface {
	Descriptor(ctx context.Context) (models.DeviceDescriptor, error)
	Remember(ctx context.Context, d models.DeviceDescriptor) error
	Remembered(ctx context.Context) (*models.RememberedDevice, error)
	Forget(ctx context.Context) error
}

type Options struct {
	// VerifyRedirectDelay is how long the verification result stays on
	// screen before the controller navigates on.
	VerifyRedirectDelay time.Duration
	// ResendInterval is the minimum spacing between verification or reset
	// emails requested from this client.
	ResendInterval time.Duration
	// ReturnAllowed reports whether role may be sent to path after login.
	// When nil, ReturnTo is ignored.
	ReturnAllowed func(role models.Role, path string) bool
}

type Controller struct {
	provider identity.Provider
	store    SessionStore
	devices  DeviceService
	nav      Navigator
	logger   logging.Logger
	opts     Options

	// ops is the single slot mutating operations hold while running.
	ops chan struct{}
	// ready is closed once Start has reconciled the stored session.
	ready     chan struct{}
	startOnce sync.Once

	resendLimiter *rate.Limiter
	resetLimiter  *rate.Limiter

	// afterFunc schedules delayed navigation; replaced in tests.
	afterFunc func(d time.Duration, f func())

	mu          sync.RWMutex
	state       State
	session     *models.SessionRecord
	account     *models.Account
	subscribers map[int]func(Snapshot)
	nextSub     int

	verifyMu      sync.Mutex
	verifications map[string]*verification
	usedResets    map[string]struct{}
}

func NewController(p identity.Provider, store SessionStore, devices DeviceService, nav Navigator, l logging.Logger, opts Options) *Controller {
	every := rate.Inf
	if opts.ResendInterval > 0 {
		every = rate.Every(opts.ResendInterval)
	}
	return &Controller{
		provider:      p,
		store:         store,
		devices:       devices,
		nav:           nav,
		logger:        l.With("module", "auth"),
		opts:          opts,
		ops:           make(chan struct{}, 1),
		ready:         make(chan struct{}),
		resendLimiter: rate.NewLimiter(every, 1),
		resetLimiter:  rate.NewLimiter(every, 1),
		afterFunc:     func(d time.Duration, f func()) { time.AfterFunc(d, f) },
		state:         StateInitializing,
		subscribers:   make(map[int]func(Snapshot)),
		verifications: make(map[string]*verification),
		usedResets:    make(map[string]struct{}),
	}
}

// Ready is closed when Start has finished.
func (c *Controller) Ready() <-chan struct{} {
	return c.ready
}

// Start loads the stored session and checks that it was issued to this
// device. It runs once; later calls return nil.
func (c *Controller) Start(ctx context.Context) error {
	var err error
	c.startOnce.Do(func() {
		defer close(c.ready)
		err = c.reconcile(ctx)
	})
	return err
}

func (c *Controller) reconcile(ctx context.Context) error {
	rec, err := c.store.Load(ctx)
	if err != nil {
		c.setState(StateAnonymous, nil)
		return fmt.Errorf("load session: %w", err)
	}
	if rec == nil {
		c.setState(StateAnonymous, nil)
		return nil
	}

	remembered, err := c.devices.Remembered(ctx)
	if err != nil {
		c.setState(StateAnonymous, nil)
		return fmt.Errorf("load remembered device: %w", err)
	}

	if remembered != nil {
		current, err := c.devices.Descriptor(ctx)
		if err != nil {
			c.setState(StateAnonymous, nil)
			return fmt.Errorf("load device descriptor: %w", err)
		}
		if remembered.DeviceID != current.DeviceID {
			c.logger.Debug(ctx, "stored session not bound to this device, discarding")
			c.setState(StateAnonymous, nil)
			return errors.Join(c.store.Clear(ctx), c.devices.Forget(ctx))
		}
	}

	c.setState(StateAuthenticated, rec)
	return nil
}

// Snapshot returns the current state. The account is a copy.
func (c *Controller) Snapshot() Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.snapshotLocked()
}

func (c *Controller) snapshotLocked() Snapshot {
	snap := Snapshot{State: c.state}
	if c.account != nil {
		acc := *c.account
		acc.Emails = append([]models.EmailAddress(nil), c.account.Emails...)
		snap.Account = &acc
	}
	if c.state == StateAuthenticated && c.session != nil {
		snap.IssuedAt = c.session.IssuedAt
		if exp, ok := identity.TokenExpiry(c.session.Token); ok {
			snap.ExpiresAt = exp
		}
	}
	return snap
}

// Subscribe registers fn to be called with every new snapshot, synchronously
// and in the goroutine that changed the state. The returned func removes it.
func (c *Controller) Subscribe(fn func(Snapshot)) func() {
	c.mu.Lock()
	id := c.nextSub
	c.nextSub++
	c.subscribers[id] = fn
	c.mu.Unlock()

	return func() {
		c.mu.Lock()
		delete(c.subscribers, id)
		c.mu.Unlock()
	}
}

// setState moves to state. rec is the session backing an authenticated state.
func (c *Controller) setState(state State, rec *models.SessionRecord) {
	c.setStateAccount(state, rec, nil)
}

func (c *Controller) setStateAccount(state State, rec *models.SessionRecord, acc *models.Account) {
	c.mu.Lock()
	c.state = state
	c.session = rec
	switch {
	case rec != nil:
		a := rec.Account
		c.account = &a
	case acc != nil:
		a := *acc
		c.account = &a
	default:
		c.account = nil
	}
	snap := c.snapshotLocked()
	subs := make([]func(Snapshot), 0, len(c.subscribers))
	for _, fn := range c.subscribers {
		subs = append(subs, fn)
	}
	c.mu.Unlock()

	for _, fn := range subs {
		fn(snap)
	}
}

// begin takes the operation slot without waiting.
func (c *Controller) begin() error {
	select {
	case <-c.ready:
	default:
		return formError(ErrNotReady)
	}
	select {
	case c.ops <- struct{}{}:
		return nil
	default:
		return formError(ErrBusy)
	}
}

// acquire waits for the operation slot.
func (c *Controller) acquire(ctx context.Context) error {
	select {
	case <-c.ready:
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case c.ops <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (c *Controller) end() {
	<-c.ops
}

func (c *Controller) fail(ctx context.Context, op string, err error) *FormError {
	fe := formError(err)
	c.logger.Info(ctx, op+" failed", "error", fe.Err)
	return fe
}

// destination is where role lands after signing in.
func (c *Controller) destination(role models.Role, returnTo string) string {
	if returnTo != "" && c.opts.ReturnAllowed != nil && c.opts.ReturnAllowed(role, returnTo) {
		return returnTo
	}
	return HomeFor(role)
}
