package zkcoord

import (
	"sync/atomic"
)

// WaitUntilDeleted blocks until path does not exist, returning
// immediately when it is already absent. The node may be deleted and
// recreated any number of times first; the call returns only after a
// check observes absence, with the observing watch armed at the moment
// of that check so no deletion can be missed in between.
//
// There is no timeout. A caller needing one can select on a timer and
// abandon the wait; the leftover one-shot listener fires at most once
// more and is ignored.
func (c *Client) WaitUntilDeleted(path string) error {
	if err := ValidatePath(path, false); err != nil {
		return err
	}

	// One channel per call so concurrent waiters on different paths
	// never interfere. Buffered: the final signal may come from the
	// driver's dispatch goroutine after the caller has given up.
	waiter := make(chan error, 1)
	var finished atomic.Bool

	finish := func(err error) {
		if finished.CompareAndSwap(false, true) {
			waiter <- err
		}
	}

	// check registers its own re-invocation with the dispatcher before
	// the driver answers (inside Exists), then looks at the current
	// state. Presence leaves the freshly armed one-shot watch to call
	// it again; absence completes the wait. After completion a stale
	// watch firing is a no-op and does not re-arm.
	var check func()
	check = func() {
		if finished.Load() {
			return
		}
		exists, _, err := c.Exists(path, WithExistsWatch(func(ev Event) {
			check()
		}))
		if err != nil {
			finish(err)
			return
		}
		if !exists {
			finish(nil)
		}
	}

	check()
	return <-waiter
}
