package domain

import (
	"errors"
	"fmt"
)

// ErrNotFound is the "nothing happened" result of update/delete against a
// missing id. It is not treated as a hard failure by the services.
var ErrNotFound = errors.New("not found")

// PersistenceError: the store was unreachable or rejected the write. The
// owning transaction is aborted before this surfaces.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence: %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// NotificationError: the broker publish failed or was never confirmed. On the
// create path this aborts the transaction so no order is committed without a
// billing notification.
type NotificationError struct {
	Queue string
	Err   error
}

func (e *NotificationError) Error() string {
	return fmt.Sprintf("notification: publish to %s: %v", e.Queue, e.Err)
}

func (e *NotificationError) Unwrap() error { return e.Err }
