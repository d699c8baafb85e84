package manager

import "errors"

// Sentinel errors for tenant lifecycle operations.
var (
	// ErrTenantNotFound indicates the tenant id is unknown, was removed,
	// or a token references a tenant that no longer exists.
	ErrTenantNotFound = errors.New("manager: tenant not found")

	// ErrUnneededWalletKey indicates a wallet key was supplied for a
	// tenant that does not use one.
	ErrUnneededWalletKey = errors.New("manager: wallet key provided but not needed")
)
