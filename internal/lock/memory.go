// internal/lock/memory.go
package lock

import (
	"context"
	"fmt"
	"sync"

	"micro-ledger/internal/domain"
)

// MemoryLocker serializes access to accounts within a single process.
// Each account is a one-slot channel; waiters give up when their context is done.
// Slots are never evicted.
type MemoryLocker struct {
	mu    sync.Mutex
	slots map[int64]chan struct{}
}

// NewMemoryLocker creates an empty MemoryLocker.
func NewMemoryLocker() *MemoryLocker {
	return &MemoryLocker{slots: make(map[int64]chan struct{})}
}

func (l *MemoryLocker) slot(accountID int64) chan struct{} {
	l.mu.Lock()
	defer l.mu.Unlock()
	ch, ok := l.slots[accountID]
	if !ok {
		ch = make(chan struct{}, 1)
		l.slots[accountID] = ch
	}
	return ch
}

// Lock blocks until every account is held or ctx is done. On failure nothing stays held.
func (l *MemoryLocker) Lock(ctx context.Context, accountIDs ...int64) (ReleaseFunc, error) {
	ordered := domain.LockOrder(accountIDs...)
	releases := make([]func(), 0, len(ordered))

	for _, id := range ordered {
		ch := l.slot(id)
		select {
		case ch <- struct{}{}:
			releases = append(releases, func() { <-ch })
		case <-ctx.Done():
			releaseAll(releases)
			return nil, fmt.Errorf("failed to lock account %d: %w", id, ctx.Err())
		}
	}

	var once sync.Once
	return func() { once.Do(func() { releaseAll(releases) }) }, nil
}
