package manager

import (
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/jonwraymond/tenantkit/wallet"
)

// Tenant is the manager's record of a registered tenant.
type Tenant struct {
	// ID uniquely identifies the tenant. Assigned at creation, immutable.
	ID string

	// Label is the display label supplied at creation.
	Label string

	// WalletID references the storage unit backing the tenant.
	WalletID string

	// CreatedAt is when the tenant was registered.
	CreatedAt time.Time

	// keyHash is the bcrypt hash of the recorded wallet key. Only set
	// under strategies where the key is an authorization check rather
	// than storage opening material.
	keyHash []byte
}

// HasWalletKey reports whether a wallet key was recorded at creation.
func (t *Tenant) HasWalletKey() bool {
	return len(t.keyHash) != 0
}

// verifyWalletKey checks a caller-supplied key against the recorded hash.
func (t *Tenant) verifyWalletKey(walletKey string) error {
	if bcrypt.CompareHashAndPassword(t.keyHash, []byte(walletKey)) != nil {
		return wallet.ErrWalletKeyMismatch
	}
	return nil
}

// clone returns a copy safe to hand to callers.
func (t *Tenant) clone() *Tenant {
	out := *t
	out.keyHash = nil
	return &out
}
