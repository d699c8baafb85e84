package secret

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"sync"
)

// RefPrefix marks a value as a secret reference.
const RefPrefix = "secretref:"

var inlineSecretRefPattern = regexp.MustCompile(`secretref:([A-Za-z0-9_-]+):([^\s"']+)`)

// ParseSecretRef splits "secretref:<provider>:<ref>" into its parts.
func ParseSecretRef(value string) (provider, ref string, ok bool) {
	if !strings.HasPrefix(value, RefPrefix) {
		return "", "", false
	}
	rest := strings.TrimPrefix(value, RefPrefix)
	provider, ref, found := strings.Cut(rest, ":")
	if !found || provider == "" || ref == "" {
		return "", "", false
	}
	return provider, ref, true
}

// Resolver resolves secret references through registered providers.
// Providers are created lazily on first use and cached.
type Resolver struct {
	registry *Registry

	mu        sync.Mutex
	providers map[string]Provider
	configs   map[string]map[string]any
}

// NewResolver creates a resolver backed by the given registry. A nil
// registry uses DefaultRegistry.
func NewResolver(registry *Registry) *Resolver {
	if registry == nil {
		registry = DefaultRegistry
	}
	return &Resolver{
		registry:  registry,
		providers: make(map[string]Provider),
		configs:   make(map[string]map[string]any),
	}
}

// Configure records configuration for a provider, applied when the
// provider is first instantiated.
func (r *Resolver) Configure(provider string, cfg map[string]any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.configs[provider] = cfg
}

// ResolveValue resolves a single value.
//
// Values starting with "secretref:" are resolved through the named
// provider. Everything else goes through strict environment expansion,
// so "${VAR}" still works for non-reference values.
func (r *Resolver) ResolveValue(ctx context.Context, value string) (string, error) {
	if provider, ref, ok := ParseSecretRef(value); ok {
		return r.resolveSingle(ctx, provider, ref)
	}
	if strings.HasPrefix(value, RefPrefix) {
		return "", fmt.Errorf("malformed secret reference %q", value)
	}
	return ExpandEnvStrict(value)
}

// ResolveInline replaces every "secretref:<provider>:<ref>" occurrence
// embedded in s, leaving surrounding text intact. Useful for connection
// strings that embed a credential.
func (r *Resolver) ResolveInline(ctx context.Context, s string) (string, error) {
	var resolveErr error
	out := inlineSecretRefPattern.ReplaceAllStringFunc(s, func(match string) string {
		if resolveErr != nil {
			return match
		}
		sub := inlineSecretRefPattern.FindStringSubmatch(match)
		v, err := r.resolveSingle(ctx, sub[1], sub[2])
		if err != nil {
			resolveErr = err
			return match
		}
		return v
	})
	if resolveErr != nil {
		return "", resolveErr
	}
	return out, nil
}

func (r *Resolver) resolveSingle(ctx context.Context, providerName, ref string) (string, error) {
	provider, err := r.provider(providerName)
	if err != nil {
		return "", err
	}
	v, err := provider.Resolve(ctx, ref)
	if err != nil {
		return "", fmt.Errorf("resolve %s:%s: %w", providerName, ref, err)
	}
	return v, nil
}

func (r *Resolver) provider(name string) (Provider, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if p, ok := r.providers[name]; ok {
		return p, nil
	}
	p, err := r.registry.Create(name, r.configs[name])
	if err != nil {
		return nil, err
	}
	r.providers[name] = p
	return p, nil
}

// Close closes all instantiated providers.
func (r *Resolver) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var firstErr error
	for name, p := range r.providers {
		if err := p.Close(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("close provider %q: %w", name, err)
		}
		delete(r.providers, name)
	}
	return firstErr
}
