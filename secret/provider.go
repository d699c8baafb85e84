package secret

import (
	"context"
	"fmt"
	"os"
)

// Provider resolves secrets by reference string.
//
// Implementations must be safe for concurrent use and must not log secret values.
type Provider interface {
	Name() string
	Resolve(ctx context.Context, ref string) (string, error)
	Close() error
}

// EnvProvider resolves secrets from environment variables by name.
type EnvProvider struct{}

// NewEnvProvider creates an environment-backed provider.
func NewEnvProvider() *EnvProvider {
	return &EnvProvider{}
}

// Name returns "env".
func (p *EnvProvider) Name() string { return "env" }

// Resolve looks up the environment variable named by ref.
func (p *EnvProvider) Resolve(_ context.Context, ref string) (string, error) {
	v, ok := os.LookupEnv(ref)
	if !ok {
		return "", fmt.Errorf("secret: environment variable %q is not set", ref)
	}
	return v, nil
}

// Close is a no-op.
func (p *EnvProvider) Close() error { return nil }

// StaticProvider resolves secrets from a fixed map, for tests.
type StaticProvider struct {
	name   string
	values map[string]string
}

// NewStaticProvider creates a provider backed by the given values.
func NewStaticProvider(name string, values map[string]string) *StaticProvider {
	return &StaticProvider{name: name, values: values}
}

// Name returns the provider name.
func (p *StaticProvider) Name() string { return p.name }

// Resolve returns the value recorded for ref.
func (p *StaticProvider) Resolve(_ context.Context, ref string) (string, error) {
	v, ok := p.values[ref]
	if !ok {
		return "", fmt.Errorf("secret: %q has no value for %q", p.name, ref)
	}
	return v, nil
}

// Close is a no-op.
func (p *StaticProvider) Close() error { return nil }

// Ensure providers implement Provider
var (
	_ Provider = (*EnvProvider)(nil)
	_ Provider = (*StaticProvider)(nil)
)
