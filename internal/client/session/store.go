package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/dealership/internal/client/models"
	"github.com/dmitrijs2005/dealership/internal/common"
	"github.com/dmitrijs2005/dealership/internal/logging"
)

// Store reads and writes the session record across the two tiers.
type Store struct {
	persistent Tier
	volatile   Tier
	logger     logging.Logger
}

func NewStore(persistent, volatile Tier, l logging.Logger) *Store {
	return &Store{persistent: persistent, volatile: volatile, logger: l.With("module", "session_store")}
}

// Save writes rec to the persistent tier when persistent is true, otherwise
// to the volatile one. The other tier is erased first; if that fails nothing
// is written.
func (s *Store) Save(ctx context.Context, rec models.SessionRecord, persistent bool) error {
	if !rec.Valid() {
		return fmt.Errorf("save session: %w", common.ErrorCorruptRecord)
	}
	rec.Persistent = persistent

	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}

	target, other := s.volatile, s.persistent
	if persistent {
		target, other = s.persistent, s.volatile
	}

	if err := other.Erase(ctx); err != nil {
		return fmt.Errorf("erase %s session tier: %w", other.Name(), err)
	}
	if err := target.Write(ctx, data); err != nil {
		return fmt.Errorf("write %s session tier: %w", target.Name(), err)
	}
	return nil
}

// Load returns the stored record or nil. The persistent tier wins if both
// tiers are somehow populated. A malformed record is reported as nil.
func (s *Store) Load(ctx context.Context) (*models.SessionRecord, error) {
	for _, tier := range []Tier{s.persistent, s.volatile} {
		data, err := tier.Read(ctx)
		if err != nil {
			return nil, fmt.Errorf("read %s session tier: %w", tier.Name(), err)
		}
		if data == nil {
			continue
		}
		return s.decode(ctx, tier, data), nil
	}
	return nil, nil
}

func (s *Store) decode(ctx context.Context, tier Tier, data []byte) *models.SessionRecord {
	var rec models.SessionRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		s.logger.Warn(ctx, "discarding undecodable session record", "tier", tier.Name(), "error", err)
		return nil
	}
	if !rec.Valid() {
		s.logger.Warn(ctx, "discarding incomplete session record", "tier", tier.Name())
		return nil
	}
	rec.Persistent = tier == s.persistent
	return &rec
}

// Clear erases both tiers, attempting each even if the other fails.
func (s *Store) Clear(ctx context.Context) error {
	var errs []error
	for _, tier := range []Tier{s.persistent, s.volatile} {
		if err := tier.Erase(ctx); err != nil {
			errs = append(errs, fmt.Errorf("erase %s session tier: %w", tier.Name(), err))
		}
	}
	return errors.Join(errs...)
}
