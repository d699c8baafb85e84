package wallet

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
)

// Strategy names for the built-in variants.
const (
	StrategyMultiWallet  = "multi_wallet"
	StrategySingleWallet = "single_wallet"
)

// Strategy decides which physical storage unit backs a tenant.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Context: methods must honor cancellation/deadlines.
// - Errors: unknown units return ErrUnitNotFound; backend failures wrap
//   ErrStorageUnavailable.
type Strategy interface {
	// Name returns the registered strategy name.
	Name() string

	// Provision returns the storage unit for a tenant being created.
	Provision(ctx context.Context, tenantID, label, walletKey string) (*Unit, error)

	// Resolve returns the storage unit backing an existing tenant.
	Resolve(ctx context.Context, unitID, walletKey string) (*Unit, error)

	// Release gives up a tenant's claim on its storage unit.
	Release(ctx context.Context, unitID, walletKey string) error

	// ChecksKeyAgainstStore reports whether wallet keys are authoritative
	// opening material verified by the store itself, rather than checked
	// against per-tenant records.
	ChecksKeyAgainstStore() bool
}

// StrategyFactory creates a Strategy bound to a store.
type StrategyFactory func(store Store) (Strategy, error)

// Registry manages strategy factories. Selection happens by configured
// name against this closed set; there is no dynamic loading.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]StrategyFactory
}

// NewRegistry creates an empty strategy registry.
func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]StrategyFactory)}
}

// Register adds a strategy factory.
func (r *Registry) Register(name string, factory StrategyFactory) error {
	if name == "" || factory == nil {
		return errors.New("wallet: invalid strategy registration")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.factories[name]; exists {
		return fmt.Errorf("wallet: strategy %q already registered", name)
	}
	r.factories[name] = factory
	return nil
}

// Create instantiates a strategy by name.
func (r *Registry) Create(name string, store Store) (Strategy, error) {
	r.mu.RLock()
	factory, ok := r.factories[name]
	r.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("wallet: strategy %q not found", name)
	}
	return factory(store)
}

// List returns registered strategy names.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DefaultRegistry is the global strategy registry with built-in variants.
var DefaultRegistry = NewRegistry()

// NewStrategy creates a strategy by name from the default registry.
func NewStrategy(name string, store Store) (Strategy, error) {
	return DefaultRegistry.Create(name, store)
}

func init() {
	_ = DefaultRegistry.Register(StrategyMultiWallet, func(store Store) (Strategy, error) {
		return NewMultiStrategy(store), nil
	})
	_ = DefaultRegistry.Register(StrategySingleWallet, func(store Store) (Strategy, error) {
		return NewSingleStrategy(store), nil
	})
}
