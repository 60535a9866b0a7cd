// Package keypool selects API credentials for billable calls.
package keypool

import (
	"context"

	"github.com/leadgrid/leadgrid/internal/db/models"
	"github.com/leadgrid/leadgrid/internal/logger"
)

// Store is the persistence surface the pool needs. Eligibility and ordering
// live in the store so every Acquire sees live counters, never a snapshot:
// a key disabled or capped mid-run drops out on the next call.
type Store interface {
	ListEligible(ctx context.Context) ([]models.Credential, error)
	RecordUsage(ctx context.Context, id uint) error
}

// Pool hands out credentials for one engine run. It is not safe for
// concurrent use; each run builds its own pool.
type Pool struct {
	store Store
	// demoted holds keys excluded for the remainder of this run after a
	// transient failure. The persisted status is left untouched.
	demoted map[uint]struct{}
}

// New creates a pool over the given credential store.
func New(store Store) *Pool {
	return &Pool{
		store:   store,
		demoted: make(map[uint]struct{}),
	}
}

// Acquire returns the eligible credential with the lowest monthly usage, or
// nil when none is eligible. A nil credential is not an error: it is the
// engine's pause signal. The error return is reserved for store failures.
func (p *Pool) Acquire(ctx context.Context) (*models.Credential, error) {
	creds, err := p.store.ListEligible(ctx)
	if err != nil {
		return nil, err
	}
	for i := range creds {
		if _, skip := p.demoted[creds[i].ID]; skip {
			continue
		}
		return &creds[i], nil
	}
	return nil, nil
}

// RecordUsage charges one call to the credential, persisted immediately.
func (p *Pool) RecordUsage(ctx context.Context, id uint) error {
	return p.store.RecordUsage(ctx, id)
}

// MarkError demotes a key for the remainder of this run. The exclusion is
// in-memory only; the next run re-derives eligibility from the store.
func (p *Pool) MarkError(id uint) {
	if _, ok := p.demoted[id]; ok {
		return
	}
	p.demoted[id] = struct{}{}
	logger.Warnf("credential %d demoted for the rest of this run", id)
}
