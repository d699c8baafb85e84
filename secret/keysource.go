package secret

import (
	"context"
	"errors"

	"github.com/jonwraymond/tenantkit/token"
)

// KeySource resolves a token signing key through a Resolver each time it
// is asked, so key rotation in the backing provider takes effect without
// a restart.
type KeySource struct {
	resolver *Resolver
	ref      string
}

// NewKeySource creates a key source for the given reference. The ref may
// be a "secretref:<provider>:<ref>" value or an environment-expandable
// string.
func NewKeySource(resolver *Resolver, ref string) *KeySource {
	if resolver == nil {
		resolver = NewResolver(nil)
	}
	return &KeySource{resolver: resolver, ref: ref}
}

// SigningKey resolves the reference and returns the key material.
func (s *KeySource) SigningKey(ctx context.Context) ([]byte, error) {
	v, err := s.resolver.ResolveValue(ctx, s.ref)
	if err != nil {
		return nil, err
	}
	if v == "" {
		return nil, errors.New("secret: signing key resolved to an empty value")
	}
	return []byte(v), nil
}

var _ token.KeyProvider = (*KeySource)(nil)
