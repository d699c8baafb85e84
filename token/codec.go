package token

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// KeyProvider supplies the secret used to sign and verify tokens.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Context: SigningKey should honor cancellation/deadlines.
// - Errors: an unavailable secret is an error; never return an empty key.
type KeyProvider interface {
	// SigningKey returns the signing secret.
	SigningKey(ctx context.Context) ([]byte, error)
}

// StaticKeyProvider provides a fixed signing secret.
type StaticKeyProvider struct {
	key []byte
}

// NewStaticKeyProvider creates a static key provider.
func NewStaticKeyProvider(key []byte) *StaticKeyProvider {
	return &StaticKeyProvider{key: key}
}

// SigningKey returns the static secret.
func (p *StaticKeyProvider) SigningKey(_ context.Context) ([]byte, error) {
	return p.key, nil
}

// CodecConfig configures the token codec.
type CodecConfig struct {
	// Issuer is recorded in the iss claim and verified on decode when set.
	Issuer string

	// Expiry controls the lifetime of minted tokens.
	// Default: 52 weeks.
	Expiry ExpiryConfig

	// Now overrides the clock, for tests.
	// Default: time.Now
	Now func() time.Time
}

// Codec signs and verifies tenant tokens using HMAC-SHA256.
type Codec struct {
	config CodecConfig
	keys   KeyProvider
}

// NewCodec creates a codec with the given configuration and key provider.
func NewCodec(config CodecConfig, keys KeyProvider) (*Codec, error) {
	if keys == nil {
		return nil, errors.New("token: key provider is required")
	}
	if err := config.Expiry.Validate(); err != nil {
		return nil, err
	}

	// Apply defaults
	config.Expiry = config.Expiry.withDefaults()
	if config.Now == nil {
		config.Now = time.Now
	}

	return &Codec{config: config, keys: keys}, nil
}

// Issue assembles the claim set for a tenant and signs it. Extra claims
// never override the reserved fields. The expiry is computed from the
// codec's configuration at call time and fixed into the token.
func (c *Codec) Issue(ctx context.Context, tenantID, walletID string, extra map[string]any) (string, Claims, error) {
	issued := c.config.Now().Truncate(time.Second)
	claims := Claims{
		TenantID:  tenantID,
		WalletID:  walletID,
		IssuedAt:  issued,
		ExpiresAt: issued.Add(c.config.Expiry.Duration()),
		Extra:     extra,
	}

	encoded, err := c.Encode(ctx, claims)
	if err != nil {
		return "", Claims{}, err
	}
	return encoded, claims, nil
}

// Encode signs the claim set and returns the token string.
func (c *Codec) Encode(ctx context.Context, claims Claims) (string, error) {
	key, err := c.keys.SigningKey(ctx)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrSigningKey, err)
	}
	if len(key) == 0 {
		return "", fmt.Errorf("%w: empty secret", ErrSigningKey)
	}

	mc := make(jwt.MapClaims, len(claims.Extra)+5)
	for k, v := range claims.Extra {
		if reservedClaims[k] {
			continue
		}
		mc[k] = v
	}
	mc[ClaimTenantID] = claims.TenantID
	mc[ClaimWalletID] = claims.WalletID
	mc[ClaimIssuedAt] = claims.IssuedAt.Unix()
	mc[ClaimExpiresAt] = claims.ExpiresAt.Unix()
	if c.config.Issuer != "" {
		mc[ClaimIssuer] = c.config.Issuer
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, mc).SignedString(key)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrSigningKey, err)
	}
	return signed, nil
}

// Decode verifies the token signature and expiry and returns its claims.
// Decoding is pure given a fixed secret; it does not check tenant liveness.
func (c *Codec) Decode(ctx context.Context, tokenString string) (Claims, error) {
	key, err := c.keys.SigningKey(ctx)
	if err != nil {
		return Claims{}, fmt.Errorf("%w: %v", ErrSigningKey, err)
	}
	if len(key) == 0 {
		return Claims{}, fmt.Errorf("%w: empty secret", ErrSigningKey)
	}

	opts := []jwt.ParserOption{
		jwt.WithTimeFunc(c.config.Now),
		jwt.WithExpirationRequired(),
	}
	if c.config.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(c.config.Issuer))
	}

	parsed, err := jwt.Parse(tokenString, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %q", t.Method.Alg())
		}
		return key, nil
	}, opts...)
	if err != nil {
		return Claims{}, mapParseError(err)
	}
	if !parsed.Valid {
		return Claims{}, ErrTokenInvalid
	}

	mc, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return Claims{}, fmt.Errorf("%w: unexpected claims type", ErrTokenMalformed)
	}
	return claimsFromMap(mc)
}

// mapParseError translates golang-jwt failures into this package's taxonomy.
func mapParseError(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return ErrTokenExpired
	case errors.Is(err, jwt.ErrTokenMalformed),
		errors.Is(err, jwt.ErrTokenSignatureInvalid),
		errors.Is(err, jwt.ErrTokenUnverifiable):
		return fmt.Errorf("%w: %v", ErrTokenMalformed, err)
	default:
		return fmt.Errorf("%w: %v", ErrTokenInvalid, err)
	}
}

// claimsFromMap extracts the typed claim set, requiring the reserved fields.
func claimsFromMap(mc jwt.MapClaims) (Claims, error) {
	tenantID, ok := mc[ClaimTenantID].(string)
	if !ok || tenantID == "" {
		return Claims{}, fmt.Errorf("%w: missing %s claim", ErrTokenMalformed, ClaimTenantID)
	}
	walletID, ok := mc[ClaimWalletID].(string)
	if !ok || walletID == "" {
		return Claims{}, fmt.Errorf("%w: missing %s claim", ErrTokenMalformed, ClaimWalletID)
	}
	issued, err := mc.GetIssuedAt()
	if err != nil || issued == nil {
		return Claims{}, fmt.Errorf("%w: missing %s claim", ErrTokenMalformed, ClaimIssuedAt)
	}
	expires, err := mc.GetExpirationTime()
	if err != nil || expires == nil {
		return Claims{}, fmt.Errorf("%w: missing %s claim", ErrTokenMalformed, ClaimExpiresAt)
	}

	claims := Claims{
		TenantID:  tenantID,
		WalletID:  walletID,
		IssuedAt:  issued.Time,
		ExpiresAt: expires.Time,
	}
	for k, v := range mc {
		if reservedClaims[k] {
			continue
		}
		if claims.Extra == nil {
			claims.Extra = make(map[string]any)
		}
		claims.Extra[k] = v
	}
	return claims, nil
}
