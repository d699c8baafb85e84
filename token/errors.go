package token

import "errors"

// Sentinel errors for token encoding and decoding.
var (
	// ErrTokenExpired indicates the token's expiry timestamp has passed.
	ErrTokenExpired = errors.New("token: expired")

	// ErrTokenMalformed indicates the signature did not verify or a
	// required claim is missing.
	ErrTokenMalformed = errors.New("token: malformed")

	// ErrTokenInvalid indicates any other structural violation.
	ErrTokenInvalid = errors.New("token: invalid")

	// ErrSigningKey indicates the signing secret is absent or unusable.
	// This is a configuration defect; no tokens can be issued until the
	// secret is fixed.
	ErrSigningKey = errors.New("token: signing key unavailable")

	// ErrInvalidExpiry indicates an invalid expiry configuration.
	ErrInvalidExpiry = errors.New("token: invalid expiry configuration")
)
