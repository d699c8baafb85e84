package wallet

import (
	"context"
	"time"
)

// Unit is an opaque handle to a provisioned storage unit.
type Unit struct {
	// ID uniquely identifies the unit within the store.
	ID string

	// Label is the display label supplied at creation.
	Label string

	// CreatedAt is when the unit was provisioned.
	CreatedAt time.Time
}

// CreateRequest describes a storage unit to provision.
type CreateRequest struct {
	// Label is the display label for the unit.
	Label string

	// WalletKey protects the unit. When empty the unit is created without
	// caller-facing key material and manages its own.
	WalletKey string
}

// Store provisions, opens and destroys storage units. It is implemented by
// the host's storage engine.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Context: methods must honor cancellation/deadlines.
// - Errors: backend failures wrap ErrStorageUnavailable; unknown units
//   return ErrUnitNotFound; key failures return ErrWalletKeyRequired or
//   ErrWalletKeyMismatch.
type Store interface {
	// Create provisions a new storage unit.
	Create(ctx context.Context, req CreateRequest) (*Unit, error)

	// Open resolves an existing unit, verifying the wallet key when the
	// unit was created with one.
	Open(ctx context.Context, unitID, walletKey string) (*Unit, error)

	// Delete destroys a unit. The wallet key must open the unit.
	Delete(ctx context.Context, unitID, walletKey string) error
}

// KeyVerifier is an optional Store capability for checking a wallet key
// without opening the unit.
type KeyVerifier interface {
	// VerifyKey returns nil when the key opens the unit.
	VerifyKey(ctx context.Context, unitID, walletKey string) error
}
