package wallet

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"
)

// sharedUnitLabel is the label of the process-wide shared unit.
const sharedUnitLabel = "shared"

// SingleStrategy backs every tenant with one shared, process-wide storage
// unit created lazily on first use. The shared unit is opened with an
// internal generated key; tenant wallet keys never reach the store and are
// only checked against per-tenant records for authorization.
type SingleStrategy struct {
	store Store
	group singleflight.Group

	mu        sync.RWMutex
	shared    *Unit
	sharedKey string
}

// NewSingleStrategy creates a strategy that shares one unit across tenants.
func NewSingleStrategy(store Store) *SingleStrategy {
	return &SingleStrategy{store: store}
}

// Name returns "single_wallet".
func (s *SingleStrategy) Name() string {
	return StrategySingleWallet
}

// Provision assigns the tenant to the shared unit, creating it on first use.
func (s *SingleStrategy) Provision(ctx context.Context, _, _, _ string) (*Unit, error) {
	return s.sharedUnit(ctx)
}

// Resolve returns the shared unit. The tenant's wallet key is ignored here;
// it is not opening material for the shared unit.
func (s *SingleStrategy) Resolve(ctx context.Context, _, _ string) (*Unit, error) {
	return s.sharedUnit(ctx)
}

// Release is a no-op: the shared unit lives for the process lifetime and is
// never destroyed by tenant removal.
func (s *SingleStrategy) Release(_ context.Context, _, _ string) error {
	return nil
}

// ChecksKeyAgainstStore returns false: tenant keys are policy checks only.
func (s *SingleStrategy) ChecksKeyAgainstStore() bool {
	return false
}

// sharedUnit returns the shared unit, creating it exactly once even under
// concurrent first use.
func (s *SingleStrategy) sharedUnit(ctx context.Context) (*Unit, error) {
	s.mu.RLock()
	unit := s.shared
	s.mu.RUnlock()
	if unit != nil {
		out := *unit
		return &out, nil
	}

	v, err, _ := s.group.Do("shared", func() (any, error) {
		s.mu.RLock()
		existing := s.shared
		s.mu.RUnlock()
		if existing != nil {
			return existing, nil
		}

		key := uuid.NewString()
		created, err := s.store.Create(ctx, CreateRequest{Label: sharedUnitLabel, WalletKey: key})
		if err != nil {
			return nil, err
		}

		s.mu.Lock()
		s.shared = created
		s.sharedKey = key
		s.mu.Unlock()
		return created, nil
	})
	if err != nil {
		return nil, err
	}

	out := *(v.(*Unit))
	return &out, nil
}

// Ensure SingleStrategy implements Strategy
var _ Strategy = (*SingleStrategy)(nil)
