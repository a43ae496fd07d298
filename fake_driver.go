package zkcoord

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// FakeDriver is an in-memory Driver backed by a node tree, with
// versioned writes, sequential-suffix assignment and one-shot
// server-side watches. Operation callbacks run synchronously on the
// caller's goroutine; watch events fire after the tree lock is
// released, so a watcher may issue further blocking calls.
type FakeDriver struct {
	mut sync.Mutex

	root   *fakeNode
	state  State
	closed bool

	handler func(ev Event)

	existWatches map[string]bool
	dataWatches  map[string]bool
	childWatches map[string]bool
}

type fakeNode struct {
	data      []byte
	acl       []ACL
	ephemeral bool

	version  int32
	cversion int32
	aversion int32

	nextSeq  int64
	children map[string]*fakeNode
}

func newFakeNode(data []byte, acl []ACL, ephemeral bool) *fakeNode {
	return &fakeNode{
		data:      data,
		acl:       acl,
		ephemeral: ephemeral,
		children:  map[string]*fakeNode{},
	}
}

func (n *fakeNode) stat() Stat {
	var owner int64
	if n.ephemeral {
		owner = 1
	}
	return Stat{
		Version:        n.version,
		Cversion:       n.cversion,
		Aversion:       n.aversion,
		EphemeralOwner: owner,
		DataLength:     int32(len(n.data)),
		NumChildren:    int32(len(n.children)),
	}
}

func NewFakeDriver() *FakeDriver {
	return &FakeDriver{
		root:  newFakeNode(nil, WorldACL(PermAll), false),
		state: StateHasSession,

		existWatches: map[string]bool{},
		dataWatches:  map[string]bool{},
		childWatches: map[string]bool{},
	}
}

var _ Driver = &FakeDriver{}

func (d *FakeDriver) SetEventHandler(handler func(ev Event)) {
	d.mut.Lock()
	defer d.mut.Unlock()
	d.handler = handler
}

// State implements the connection-state query. After Close it fails
// with the typed ErrHandleClosed instead of a fragile message match.
func (d *FakeDriver) State() (State, error) {
	d.mut.Lock()
	defer d.mut.Unlock()

	if d.closed {
		return StateDisconnected, ErrHandleClosed
	}
	return d.state, nil
}

// SetState overrides the reported session state.
func (d *FakeDriver) SetState(st State) {
	d.mut.Lock()
	defer d.mut.Unlock()
	d.state = st
}

// Close marks the handle closed. Subsequent operations fail with
// CodeConnectionLoss and State fails with ErrHandleClosed.
func (d *FakeDriver) Close() {
	d.mut.Lock()
	defer d.mut.Unlock()
	d.closed = true
	d.state = StateDisconnected
}

func splitFakePath(path string) []string {
	if path == "/" {
		return nil
	}
	return strings.Split(path, "/")[1:]
}

func (d *FakeDriver) find(names []string) *fakeNode {
	node := d.root
	for _, name := range names {
		child, ok := node.children[name]
		if !ok {
			return nil
		}
		node = child
	}
	return node
}

// fire delivers events to the installed handler. Must be called
// without the mutex held.
func (d *FakeDriver) fire(events []Event) {
	d.mut.Lock()
	handler := d.handler
	d.mut.Unlock()

	if handler == nil {
		return
	}
	for _, ev := range events {
		handler(ev)
	}
}

func (d *FakeDriver) nodeChangedEvents(path string, evType EventType) []Event {
	var events []Event
	if d.existWatches[path] || d.dataWatches[path] {
		delete(d.existWatches, path)
		delete(d.dataWatches, path)
		events = append(events, Event{Type: evType, State: d.state, Path: path})
	}
	return events
}

func (d *FakeDriver) childrenChangedEvents(parent string) []Event {
	if !d.childWatches[parent] {
		return nil
	}
	delete(d.childWatches, parent)
	return []Event{{Type: EventNodeChildrenChanged, State: d.state, Path: parent}}
}

func (d *FakeDriver) Create(
	path string, data []byte, flags int32, acl []ACL,
	callback func(resp DriverCreateResponse),
) {
	d.mut.Lock()

	if d.closed {
		d.mut.Unlock()
		callback(DriverCreateResponse{Code: CodeConnectionLoss})
		return
	}

	names := splitFakePath(path)
	if len(names) == 0 {
		d.mut.Unlock()
		callback(DriverCreateResponse{Code: CodeNodeExists})
		return
	}

	parent := d.find(names[:len(names)-1])
	if parent == nil {
		d.mut.Unlock()
		callback(DriverCreateResponse{Code: CodeNoNode})
		return
	}
	if parent.ephemeral {
		d.mut.Unlock()
		callback(DriverCreateResponse{Code: CodeNoChildrenForEphemerals})
		return
	}

	name := names[len(names)-1]
	if flags&FlagSequence != 0 {
		name = fmt.Sprintf("%s%010d", name, parent.nextSeq)
		parent.nextSeq++
	}

	if _, ok := parent.children[name]; ok {
		d.mut.Unlock()
		callback(DriverCreateResponse{Code: CodeNodeExists})
		return
	}

	parent.children[name] = newFakeNode(data, acl, flags&FlagEphemeral != 0)
	parent.cversion++

	created := "/" + strings.Join(append(names[:len(names)-1], name), "/")
	parentPth := parentPath(created)

	events := d.nodeChangedEvents(created, EventNodeCreated)
	events = append(events, d.childrenChangedEvents(parentPth)...)

	d.mut.Unlock()

	callback(DriverCreateResponse{Code: CodeOk, Path: created})
	d.fire(events)
}

func (d *FakeDriver) Get(path string, watch bool, callback func(resp DriverGetResponse)) {
	d.mut.Lock()

	if d.closed {
		d.mut.Unlock()
		callback(DriverGetResponse{Code: CodeConnectionLoss})
		return
	}

	node := d.find(splitFakePath(path))
	if node == nil {
		d.mut.Unlock()
		callback(DriverGetResponse{Code: CodeNoNode})
		return
	}

	if watch {
		d.dataWatches[path] = true
	}
	resp := DriverGetResponse{Code: CodeOk, Data: node.data, Stat: node.stat()}

	d.mut.Unlock()
	callback(resp)
}

func (d *FakeDriver) Set(path string, data []byte, version int32, callback func(resp DriverSetResponse)) {
	d.mut.Lock()

	if d.closed {
		d.mut.Unlock()
		callback(DriverSetResponse{Code: CodeConnectionLoss})
		return
	}

	node := d.find(splitFakePath(path))
	if node == nil {
		d.mut.Unlock()
		callback(DriverSetResponse{Code: CodeNoNode})
		return
	}
	if version >= 0 && version != node.version {
		d.mut.Unlock()
		callback(DriverSetResponse{Code: CodeBadVersion})
		return
	}

	node.data = data
	node.version++

	resp := DriverSetResponse{Code: CodeOk, Stat: node.stat()}
	events := d.nodeChangedEvents(path, EventNodeDataChanged)

	d.mut.Unlock()

	callback(resp)
	d.fire(events)
}

func (d *FakeDriver) Exists(path string, watch bool, callback func(resp DriverExistsResponse)) {
	d.mut.Lock()

	if d.closed {
		d.mut.Unlock()
		callback(DriverExistsResponse{Code: CodeConnectionLoss})
		return
	}

	// An exist watch is armed atomically with the answer, present or
	// not, so a later creation is reported too.
	if watch {
		d.existWatches[path] = true
	}

	node := d.find(splitFakePath(path))
	if node == nil {
		d.mut.Unlock()
		callback(DriverExistsResponse{Code: CodeNoNode})
		return
	}

	resp := DriverExistsResponse{Code: CodeOk, Stat: node.stat()}
	d.mut.Unlock()
	callback(resp)
}

func (d *FakeDriver) Delete(path string, version int32, callback func(resp DriverDeleteResponse)) {
	d.mut.Lock()

	if d.closed {
		d.mut.Unlock()
		callback(DriverDeleteResponse{Code: CodeConnectionLoss})
		return
	}

	names := splitFakePath(path)
	if len(names) == 0 {
		d.mut.Unlock()
		callback(DriverDeleteResponse{Code: CodeBadArguments})
		return
	}

	parent := d.find(names[:len(names)-1])
	if parent == nil {
		d.mut.Unlock()
		callback(DriverDeleteResponse{Code: CodeNoNode})
		return
	}
	node, ok := parent.children[names[len(names)-1]]
	if !ok {
		d.mut.Unlock()
		callback(DriverDeleteResponse{Code: CodeNoNode})
		return
	}
	if version >= 0 && version != node.version {
		d.mut.Unlock()
		callback(DriverDeleteResponse{Code: CodeBadVersion})
		return
	}
	if len(node.children) > 0 {
		d.mut.Unlock()
		callback(DriverDeleteResponse{Code: CodeNotEmpty})
		return
	}

	delete(parent.children, names[len(names)-1])
	parent.cversion++

	events := d.nodeChangedEvents(path, EventNodeDeleted)
	if d.childWatches[path] {
		delete(d.childWatches, path)
		events = append(events, Event{Type: EventNodeDeleted, State: d.state, Path: path})
	}
	events = append(events, d.childrenChangedEvents(parentPath(path))...)

	d.mut.Unlock()

	callback(DriverDeleteResponse{Code: CodeOk})
	d.fire(events)
}

func (d *FakeDriver) Children(path string, watch bool, callback func(resp DriverChildrenResponse)) {
	d.mut.Lock()

	if d.closed {
		d.mut.Unlock()
		callback(DriverChildrenResponse{Code: CodeConnectionLoss})
		return
	}

	node := d.find(splitFakePath(path))
	if node == nil {
		d.mut.Unlock()
		callback(DriverChildrenResponse{Code: CodeNoNode})
		return
	}

	if watch {
		d.childWatches[path] = true
	}

	children := make([]string, 0, len(node.children))
	for name := range node.children {
		children = append(children, name)
	}
	sort.Strings(children)

	d.mut.Unlock()
	callback(DriverChildrenResponse{Code: CodeOk, Children: children})
}

func (d *FakeDriver) GetACL(path string, callback func(resp DriverGetACLResponse)) {
	d.mut.Lock()

	if d.closed {
		d.mut.Unlock()
		callback(DriverGetACLResponse{Code: CodeConnectionLoss})
		return
	}

	node := d.find(splitFakePath(path))
	if node == nil {
		d.mut.Unlock()
		callback(DriverGetACLResponse{Code: CodeNoNode})
		return
	}

	resp := DriverGetACLResponse{Code: CodeOk, ACL: node.acl, Stat: node.stat()}
	d.mut.Unlock()
	callback(resp)
}

func (d *FakeDriver) SetACL(path string, acl []ACL, version int32, callback func(resp DriverSetACLResponse)) {
	d.mut.Lock()

	if d.closed {
		d.mut.Unlock()
		callback(DriverSetACLResponse{Code: CodeConnectionLoss})
		return
	}

	node := d.find(splitFakePath(path))
	if node == nil {
		d.mut.Unlock()
		callback(DriverSetACLResponse{Code: CodeNoNode})
		return
	}
	if version >= 0 && version != node.aversion {
		d.mut.Unlock()
		callback(DriverSetACLResponse{Code: CodeBadVersion})
		return
	}

	node.acl = acl
	node.aversion++

	resp := DriverSetACLResponse{Code: CodeOk, Stat: node.stat()}
	d.mut.Unlock()
	callback(resp)
}
