package wallet

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// TimeoutStore bounds every call to a wrapped Store with a deadline. A call
// that runs past the deadline fails with an error wrapping
// ErrStorageUnavailable and mutates no state on this side. It never
// retries.
type TimeoutStore struct {
	store   Store
	timeout time.Duration
}

// NewTimeoutStore wraps a store with a per-call timeout.
// A non-positive timeout defaults to 30 seconds.
func NewTimeoutStore(store Store, timeout time.Duration) *TimeoutStore {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &TimeoutStore{store: store, timeout: timeout}
}

// Create provisions a unit within the deadline.
func (s *TimeoutStore) Create(ctx context.Context, req CreateRequest) (*Unit, error) {
	var unit *Unit
	err := s.execute(ctx, func(ctx context.Context) error {
		u, err := s.store.Create(ctx, req)
		unit = u
		return err
	})
	if err != nil {
		return nil, err
	}
	return unit, nil
}

// Open resolves a unit within the deadline.
func (s *TimeoutStore) Open(ctx context.Context, unitID, walletKey string) (*Unit, error) {
	var unit *Unit
	err := s.execute(ctx, func(ctx context.Context) error {
		u, err := s.store.Open(ctx, unitID, walletKey)
		unit = u
		return err
	})
	if err != nil {
		return nil, err
	}
	return unit, nil
}

// Delete destroys a unit within the deadline.
func (s *TimeoutStore) Delete(ctx context.Context, unitID, walletKey string) error {
	return s.execute(ctx, func(ctx context.Context) error {
		return s.store.Delete(ctx, unitID, walletKey)
	})
}

// VerifyKey checks a wallet key within the deadline. When the wrapped store
// does not expose key verification, the check falls back to opening the
// unit.
func (s *TimeoutStore) VerifyKey(ctx context.Context, unitID, walletKey string) error {
	return s.execute(ctx, func(ctx context.Context) error {
		if kv, ok := s.store.(KeyVerifier); ok {
			return kv.VerifyKey(ctx, unitID, walletKey)
		}
		_, err := s.store.Open(ctx, unitID, walletKey)
		return err
	})
}

func (s *TimeoutStore) execute(ctx context.Context, op func(context.Context) error) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- op(ctx)
	}()

	select {
	case err := <-done:
		if errors.Is(err, context.DeadlineExceeded) {
			return fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
		}
		return err
	case <-ctx.Done():
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return fmt.Errorf("%w: store call exceeded %s", ErrStorageUnavailable, s.timeout)
		}
		return ctx.Err()
	}
}

// Ensure TimeoutStore implements Store and KeyVerifier
var (
	_ Store       = (*TimeoutStore)(nil)
	_ KeyVerifier = (*TimeoutStore)(nil)
)
