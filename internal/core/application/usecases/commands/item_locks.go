package commands

import (
	"sync"

	"warehouse/internal/core/domain/model/kernel"
)

// ItemLocks serializes status changes per fulfillment item. Every advance
// acquires the item's lock before touching the aggregate, so two concurrent
// requests against the same item queue up instead of racing. Entries are
// reference counted and removed once the last holder releases.
type ItemLocks struct {
	mu    sync.Mutex
	locks map[kernel.UUID]*itemLock
}

type itemLock struct {
	mu   sync.Mutex
	refs int
}

// NewItemLocks creates an empty lock registry.
func NewItemLocks() *ItemLocks {
	return &ItemLocks{
		locks: make(map[kernel.UUID]*itemLock),
	}
}

// Lock acquires the lock for the given item, blocking while another holder
// has it. The returned function releases the lock and must always be called,
// typically via defer.
func (l *ItemLocks) Lock(itemID kernel.UUID) func() {
	l.mu.Lock()
	entry, ok := l.locks[itemID]
	if !ok {
		entry = &itemLock{}
		l.locks[itemID] = entry
	}
	entry.refs++
	l.mu.Unlock()

	entry.mu.Lock()

	return func() {
		entry.mu.Unlock()

		l.mu.Lock()
		entry.refs--
		if entry.refs == 0 {
			delete(l.locks, itemID)
		}
		l.mu.Unlock()
	}
}
