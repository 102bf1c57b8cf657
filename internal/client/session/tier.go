package session

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/dealership/internal/client/repositories/metadata"
)

// Tier is one storage location for the encoded session record.
// Read returns (nil, nil) when the tier is empty.
type Tier interface {
	Name() string
	Read(ctx context.Context) ([]byte, error)
	Write(ctx context.Context, data []byte) error
	Erase(ctx context.Context) error
}

const keySession = "session"

// SQLiteTier is the persistent tier.
type SQLiteTier struct {
	repo metadata.Repository
}

func NewSQLiteTier(repo metadata.Repository) *SQLiteTier {
	return &SQLiteTier{repo: repo}
}

func (t *SQLiteTier) Name() string { return "persistent" }

func (t *SQLiteTier) Read(ctx context.Context) ([]byte, error) {
	return t.repo.Get(ctx, keySession)
}

func (t *SQLiteTier) Write(ctx context.Context, data []byte) error {
	return t.repo.Set(ctx, keySession, data)
}

func (t *SQLiteTier) Erase(ctx context.Context) error {
	return t.repo.Delete(ctx, keySession)
}

// MemoryTier is the volatile tier; it lives as long as the process.
type MemoryTier struct {
	mu   sync.Mutex
	data []byte
}

func NewMemoryTier() *MemoryTier {
	return &MemoryTier{}
}

func (t *MemoryTier) Name() string { return "volatile" }

func (t *MemoryTier) Read(_ context.Context) ([]byte, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.data == nil {
		return nil, nil
	}
	return append([]byte(nil), t.data...), nil
}

func (t *MemoryTier) Write(_ context.Context, data []byte) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.data = append([]byte(nil), data...)
	return nil
}

func (t *MemoryTier) Erase(_ context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.data = nil
	return nil
}
