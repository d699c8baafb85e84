package token

import "time"

// Claim keys used in encoded tokens.
const (
	ClaimTenantID  = "sub"
	ClaimWalletID  = "wallet_id"
	ClaimIssuedAt  = "iat"
	ClaimExpiresAt = "exp"
	ClaimIssuer    = "iss"
)

// reservedClaims are claim keys that callers can never override through
// Claims.Extra.
var reservedClaims = map[string]bool{
	ClaimTenantID:  true,
	ClaimWalletID:  true,
	ClaimIssuedAt:  true,
	ClaimExpiresAt: true,
	ClaimIssuer:    true,
}

// Claims is the claim set carried by an issued token.
type Claims struct {
	// TenantID identifies the tenant the token was issued to.
	TenantID string

	// WalletID references the storage unit backing the tenant.
	WalletID string

	// IssuedAt is when the token was minted. Stored at second precision.
	IssuedAt time.Time

	// ExpiresAt is when the token stops validating. A token is expired
	// once the current time reaches ExpiresAt; the boundary instant
	// itself does not validate.
	ExpiresAt time.Time

	// Extra carries caller-supplied claims. Entries keyed by a reserved
	// claim name are dropped during encoding.
	Extra map[string]any
}

// Expired reports whether the claims are expired at the given instant.
func (c Claims) Expired(now time.Time) bool {
	return !now.Before(c.ExpiresAt)
}
