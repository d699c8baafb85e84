package manager

import "sync"

// keyedMutex provides one mutex per key so operations on the same tenant
// serialize while operations on different tenants proceed in parallel.
// Idle entries are removed once their last holder unlocks.
type keyedMutex struct {
	mu      sync.Mutex
	entries map[string]*keyedEntry
}

type keyedEntry struct {
	mu   sync.Mutex
	refs int
}

func newKeyedMutex() *keyedMutex {
	return &keyedMutex{entries: make(map[string]*keyedEntry)}
}

func (m *keyedMutex) lock(key string) {
	m.mu.Lock()
	entry, ok := m.entries[key]
	if !ok {
		entry = &keyedEntry{}
		m.entries[key] = entry
	}
	entry.refs++
	m.mu.Unlock()

	entry.mu.Lock()
}

func (m *keyedMutex) unlock(key string) {
	m.mu.Lock()
	entry := m.entries[key]
	entry.refs--
	if entry.refs == 0 {
		delete(m.entries, key)
	}
	m.mu.Unlock()

	entry.mu.Unlock()
}
