package lock

import (
	"context"
	"errors"
	"fmt"
)

// ErrNotAcquired is returned when the lock could not be taken before the
// context ended.
var ErrNotAcquired = errors.New("lock_not_acquired")

// Locker serializes work on one key across callers.
type Locker interface {
	Lock(ctx context.Context, key string) (release func(), err error)
}

// ResourceKey is the lock key of one bookable resource.
func ResourceKey(businessID, resourceID uint) string {
	return fmt.Sprintf("booking:resource:%d:%d", businessID, resourceID)
}
