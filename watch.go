package zkcoord

import (
	"sync"
)

// watchRegistration is one pending one-shot interest in a path. It is
// consumed by the first event dispatched for that path, or cancelled
// when the operation that armed it failed before a watch was set.
type watchRegistration struct {
	path    string
	watcher func(ev Event)
}

// watchTable maps a node path to its pending one-shot registrations, in
// insertion order. Registration happens on client goroutines while
// dispatch happens on the driver's event goroutine, so every access
// goes through the mutex. Watchers run outside the lock: a watcher is
// allowed to re-register itself.
type watchTable struct {
	mut           sync.Mutex
	registrations map[string][]*watchRegistration
}

func newWatchTable() *watchTable {
	return &watchTable{
		registrations: map[string][]*watchRegistration{},
	}
}

func (t *watchTable) register(path string, watcher func(ev Event)) *watchRegistration {
	reg := &watchRegistration{
		path:    path,
		watcher: watcher,
	}

	t.mut.Lock()
	defer t.mut.Unlock()

	t.registrations[path] = append(t.registrations[path], reg)
	return reg
}

// cancel removes a registration that never got a server-side watch
// armed. A no-op if the registration was already consumed.
func (t *watchTable) cancel(reg *watchRegistration) {
	t.mut.Lock()
	defer t.mut.Unlock()

	regs := t.registrations[reg.path]
	for i, r := range regs {
		if r != reg {
			continue
		}
		regs = append(regs[:i], regs[i+1:]...)
		break
	}
	if len(regs) == 0 {
		delete(t.registrations, reg.path)
		return
	}
	t.registrations[reg.path] = regs
}

// dispatch consumes every registration pending for the event's path and
// invokes them in registration order. Removal happens before invocation
// so a watcher re-registering itself cannot receive the same event
// twice. Events for paths without listeners are dropped: the call site
// that armed the watch may already have progressed via a synchronous
// check.
func (t *watchTable) dispatch(ev Event) {
	t.mut.Lock()
	regs := t.registrations[ev.Path]
	delete(t.registrations, ev.Path)
	t.mut.Unlock()

	for _, reg := range regs {
		reg.watcher(ev)
	}
}

func (t *watchTable) pendingCount(path string) int {
	t.mut.Lock()
	defer t.mut.Unlock()
	return len(t.registrations[path])
}
