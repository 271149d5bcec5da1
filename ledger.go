package autoinject

import (
	"slices"
	"sync"
)

// Ledger records the modules that have already been scanned.
//
// A Ledger guarantees that each module identity is claimed at most once for
// as long as the Ledger lives. Hosts create one Ledger at startup and pass it
// to every AddInjectedServices call; tests create a fresh one per test.
// Entries are never removed.
//
// Ledger is safe for concurrent use.
type Ledger struct {
	mu      sync.Mutex
	claimed map[ModuleIdentity]struct{}
}

// NewLedger creates an empty Ledger.
func NewLedger() *Ledger {
	return &Ledger{
		claimed: make(map[ModuleIdentity]struct{}),
	}
}

// TryClaim marks id as processed. It returns true only for the call that
// inserted id; every other call for the same id returns false.
func (l *Ledger) TryClaim(id ModuleIdentity) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, ok := l.claimed[id]; ok {
		return false
	}

	l.claimed[id] = struct{}{}
	return true
}

// IsClaimed reports whether id has been claimed.
func (l *Ledger) IsClaimed(id ModuleIdentity) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	_, ok := l.claimed[id]
	return ok
}

// Len returns the number of claimed identities.
func (l *Ledger) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.claimed)
}

// Identities returns the claimed identities in sorted order.
func (l *Ledger) Identities() []ModuleIdentity {
	l.mu.Lock()
	ids := make([]ModuleIdentity, 0, len(l.claimed))
	for id := range l.claimed {
		ids = append(ids, id)
	}
	l.mu.Unlock()

	slices.Sort(ids)
	return ids
}
