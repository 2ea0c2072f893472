// internal/lock/locker.go
package lock

import "context"

// ReleaseFunc releases every lock taken by one Lock call. It is safe to call once.
type ReleaseFunc func()

// Locker grants exclusive access to a set of accounts for the duration of one money
// movement. Implementations acquire in domain.LockOrder and release in reverse, so two
// callers locking overlapping sets can never wait on each other in a cycle.
type Locker interface {
	Lock(ctx context.Context, accountIDs ...int64) (ReleaseFunc, error)
}

// releaseAll runs releases in reverse acquisition order.
func releaseAll(releases []func()) {
	for i := len(releases) - 1; i >= 0; i-- {
		releases[i]()
	}
}
