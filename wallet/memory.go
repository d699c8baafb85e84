package wallet

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// MemoryStore is an in-memory Store for tests and embedders without a
// storage backend. Wallet keys are stored as bcrypt hashes, never in the
// clear.
type MemoryStore struct {
	mu    sync.RWMutex
	units map[string]*memoryUnit
}

type memoryUnit struct {
	unit    Unit
	keyHash []byte // nil when the unit was created without a key
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{units: make(map[string]*memoryUnit)}
}

// Create provisions a new unit with a generated identifier.
func (s *MemoryStore) Create(_ context.Context, req CreateRequest) (*Unit, error) {
	var keyHash []byte
	if req.WalletKey != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(req.WalletKey), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		keyHash = hash
	}

	unit := Unit{
		ID:        uuid.NewString(),
		Label:     req.Label,
		CreatedAt: time.Now(),
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.units[unit.ID] = &memoryUnit{unit: unit, keyHash: keyHash}

	out := unit
	return &out, nil
}

// Open resolves a unit, enforcing its key material when present.
func (s *MemoryStore) Open(_ context.Context, unitID, walletKey string) (*Unit, error) {
	s.mu.RLock()
	entry, ok := s.units[unitID]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrUnitNotFound
	}

	if err := entry.checkKey(walletKey); err != nil {
		return nil, err
	}

	out := entry.unit
	return &out, nil
}

// Delete destroys a unit after verifying its key material.
func (s *MemoryStore) Delete(_ context.Context, unitID, walletKey string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.units[unitID]
	if !ok {
		return ErrUnitNotFound
	}
	if err := entry.checkKey(walletKey); err != nil {
		return err
	}

	delete(s.units, unitID)
	return nil
}

// VerifyKey checks a wallet key without opening the unit.
func (s *MemoryStore) VerifyKey(_ context.Context, unitID, walletKey string) error {
	s.mu.RLock()
	entry, ok := s.units[unitID]
	s.mu.RUnlock()
	if !ok {
		return ErrUnitNotFound
	}
	return entry.checkKey(walletKey)
}

// Count returns the number of units currently provisioned.
func (s *MemoryStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.units)
}

func (u *memoryUnit) checkKey(walletKey string) error {
	if u.keyHash == nil {
		return nil
	}
	if walletKey == "" {
		return ErrWalletKeyRequired
	}
	if bcrypt.CompareHashAndPassword(u.keyHash, []byte(walletKey)) != nil {
		return ErrWalletKeyMismatch
	}
	return nil
}

// Ensure MemoryStore implements Store and KeyVerifier
var (
	_ Store       = (*MemoryStore)(nil)
	_ KeyVerifier = (*MemoryStore)(nil)
)
