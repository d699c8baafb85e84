package wallet

import "errors"

// Sentinel errors for storage and wallet-key handling.
var (
	// ErrStorageUnavailable indicates the storage backend could not be
	// reached or failed. Callers may retry after backoff; the package
	// itself never retries.
	ErrStorageUnavailable = errors.New("wallet: storage unavailable")

	// ErrUnitNotFound indicates the referenced storage unit does not exist.
	ErrUnitNotFound = errors.New("wallet: storage unit not found")

	// ErrWalletKeyRequired indicates no wallet key was supplied where one
	// is needed to open the storage unit.
	ErrWalletKeyRequired = errors.New("wallet: wallet key required")

	// ErrWalletKeyMismatch indicates the supplied wallet key does not
	// match the unit's key material or the recorded tenant key.
	ErrWalletKeyMismatch = errors.New("wallet: wallet key mismatch")
)
