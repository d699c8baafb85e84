package wallet

import "context"

// MultiStrategy gives every tenant its own dedicated storage unit. The
// wallet key is the material that opens the unit, so the store is the
// authority on key correctness.
type MultiStrategy struct {
	store Store
}

// NewMultiStrategy creates a strategy that provisions one unit per tenant.
func NewMultiStrategy(store Store) *MultiStrategy {
	return &MultiStrategy{store: store}
}

// Name returns "multi_wallet".
func (s *MultiStrategy) Name() string {
	return StrategyMultiWallet
}

// Provision creates a brand-new unit scoped to the tenant. Dedicated units
// are always key-protected.
func (s *MultiStrategy) Provision(ctx context.Context, tenantID, label, walletKey string) (*Unit, error) {
	if walletKey == "" {
		return nil, ErrWalletKeyRequired
	}
	if label == "" {
		label = tenantID
	}
	return s.store.Create(ctx, CreateRequest{Label: label, WalletKey: walletKey})
}

// Resolve opens the tenant's dedicated unit with the caller's key.
func (s *MultiStrategy) Resolve(ctx context.Context, unitID, walletKey string) (*Unit, error) {
	if walletKey == "" {
		return nil, ErrWalletKeyRequired
	}
	return s.store.Open(ctx, unitID, walletKey)
}

// Release destroys the tenant's dedicated unit.
func (s *MultiStrategy) Release(ctx context.Context, unitID, walletKey string) error {
	return s.store.Delete(ctx, unitID, walletKey)
}

// ChecksKeyAgainstStore returns true: the unit enforces its own key.
func (s *MultiStrategy) ChecksKeyAgainstStore() bool {
	return true
}

// Ensure MultiStrategy implements Strategy
var _ Strategy = (*MultiStrategy)(nil)
