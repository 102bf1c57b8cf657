// Package device derives and persists this installation's identity: a stable
// device id, a readable descriptor, and the optional remembered-device record
// used for trust decisions at start-up.
package device

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"os/user"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/dealership/internal/client/models"
	"github.com/dmitrijs2005/dealership/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/dealership/internal/common"
	"github.com/google/uuid"
	"golang.org/x/crypto/blake2b"
)

const (
	keyDeviceID         = "device_id"
	keyRememberedDevice = "remembered_device"
)

// Environment describes the host the client runs on.
type Environment struct {
	Hostname string
	Username string
	OS       string
	Arch     string
}

// CurrentEnvironment inspects the running process.
func CurrentEnvironment() Environment {
	env := Environment{OS: runtime.GOOS, Arch: runtime.GOARCH}
	if h, err := os.Hostname(); err == nil {
		env.Hostname = h
	}
	if u, err := user.Current(); err == nil {
		env.Username = u.Username
	}
	return env
}

// Service owns the device_id and remembered_device keys.
type Service struct {
	repo metadata.Repository
	env  Environment
	now  func() time.Time

	mu sync.Mutex
	id string
}

func NewService(repo metadata.Repository, env Environment) *Service {
	return &Service{repo: repo, env: env, now: time.Now}
}

// Descriptor returns the device descriptor, minting and persisting the
// device id on the very first call. Later calls, in this process or the
// next, return the same id.
func (s *Service) Descriptor(ctx context.Context) (models.DeviceDescriptor, error) {
	id, err := s.deviceID(ctx)
	if err != nil {
		return models.DeviceDescriptor{}, err
	}

	return models.DeviceDescriptor{
		DeviceID:      id,
		Name:          s.name(),
		BrowserFamily: common.ClientFamily,
		OSFamily:      s.env.OS,
		Fingerprint:   Fingerprint(s.env),
		LastSeenAt:    s.now().UTC(),
	}, nil
}

func (s *Service) deviceID(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.id != "" {
		return s.id, nil
	}

	// read and mint in one transaction so two processes sharing a data
	// directory settle on the same id
	var id string
	err := s.repo.Update(ctx, func(ctx context.Context, repo metadata.Repository) error {
		raw, err := repo.Get(ctx, keyDeviceID)
		if err != nil {
			return err
		}
		if parsed, perr := uuid.ParseBytes(raw); raw != nil && perr == nil {
			id = parsed.String()
			return nil
		}

		id = uuid.NewString()
		return repo.Set(ctx, keyDeviceID, []byte(id))
	})
	if err != nil {
		return "", err
	}
	s.id = id
	return s.id, nil
}

func (s *Service) name() string {
	host := s.env.Hostname
	if host == "" {
		host = "unknown host"
	}
	return fmt.Sprintf("%s on %s (%s/%s)", common.ClientFamily, host, s.env.OS, s.env.Arch)
}

// Remember stores a trust assertion for d.
func (s *Service) Remember(ctx context.Context, d models.DeviceDescriptor) error {
	rec := models.RememberedDevice{DeviceID: d.DeviceID, SavedAt: s.now().UTC()}
	return metadata.SetJSON(ctx, s.repo, keyRememberedDevice, rec)
}

// Remembered returns the stored trust assertion, or nil if there is none.
// An unreadable record counts as none.
func (s *Service) Remembered(ctx context.Context) (*models.RememberedDevice, error) {
	var rec models.RememberedDevice
	ok, err := metadata.GetJSON(ctx, s.repo, keyRememberedDevice, &rec)
	switch {
	case errors.Is(err, common.ErrorCorruptRecord):
		return nil, nil
	case err != nil:
		return nil, err
	case !ok || rec.DeviceID == "":
		return nil, nil
	}
	return &rec, nil
}

// Forget removes the trust assertion. The device id is kept.
func (s *Service) Forget(ctx context.Context) error {
	return s.repo.Delete(ctx, keyRememberedDevice)
}

// Fingerprint is a BLAKE2b-256 digest of the host environment. It is sent as
// a hint alongside the device id and is not used for local decisions.
func Fingerprint(env Environment) string {
	sum := blake2b.Sum256([]byte(strings.Join([]string{env.Hostname, env.Username, env.OS, env.Arch}, "\x00")))
	return hex.EncodeToString(sum[:])
}
