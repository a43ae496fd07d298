// Package zkcoord is a convenience layer above a raw asynchronous
// coordination-service driver. It turns code-based callback responses
// into synchronous calls with typed errors, bridges one-shot watch
// notifications to call sites, and provides the recursive and blocking
// primitives (EnsurePath, RemoveTree, WaitUntilDeleted) that components
// such as distributed locks compose.
package zkcoord

import (
	"errors"
)

// Client is the synchronous facade over a Driver. All methods are safe
// for concurrent use; each blocks only for one driver round trip,
// except WaitUntilDeleted which blocks until the watched node is gone.
type Client struct {
	driver  Driver
	logger  Logger
	acl     []ACL
	watches *watchTable
}

// Option ...
type Option func(c *Client)

func WithLogger(l Logger) Option {
	return func(c *Client) {
		c.logger = l
	}
}

// WithDefaultACL sets the ACL attached to nodes created without an
// explicit WithACL option. The default is WorldACL(PermAll).
func WithDefaultACL(acl []ACL) Option {
	return func(c *Client) {
		c.acl = acl
	}
}

// NewClient wraps driver and installs the client's watch dispatcher as
// the driver's event sink.
func NewClient(driver Driver, options ...Option) *Client {
	c := &Client{
		driver:  driver,
		logger:  &defaultLoggerImpl{},
		acl:     WorldACL(PermAll),
		watches: newWatchTable(),
	}

	for _, option := range options {
		option(c)
	}

	driver.SetEventHandler(c.watches.dispatch)

	return c
}

type createOpts struct {
	mode CreateMode
	acl  []ACL
}

type CreateOption func(opts *createOpts)

// WithMode overrides the default ModeEphemeral create mode.
func WithMode(mode CreateMode) CreateOption {
	return func(opts *createOpts) {
		opts.mode = mode
	}
}

// WithACL overrides the client's default ACL for this create.
func WithACL(acl ...ACL) CreateOption {
	return func(opts *createOpts) {
		opts.acl = acl
	}
}

// Create makes a new node and returns the path the service assigned.
// With a sequential mode the returned path carries the sequence suffix
// and callers must use it, not the input path, from then on.
func (c *Client) Create(path string, data []byte, options ...CreateOption) (string, error) {
	opts := createOpts{
		mode: ModeEphemeral,
	}
	for _, fn := range options {
		fn(&opts)
	}

	if err := ValidatePath(path, opts.mode.IsSequential()); err != nil {
		return "", err
	}

	acl := opts.acl
	if len(acl) == 0 {
		acl = c.acl
	}

	var resp DriverCreateResponse
	done := make(chan struct{})
	c.driver.Create(path, data, opts.mode.flags(), acl, func(r DriverCreateResponse) {
		resp = r
		close(done)
	})
	<-done

	if resp.Code != CodeOk {
		return "", translateCode(resp.Code)
	}
	return resp.Path, nil
}

type getOpts struct {
	watch   bool
	watcher func(ev Event)
}

type GetOption func(opts *getOpts)

// WithGetWatch arms a one-shot watch for the next change to the node.
func WithGetWatch(watcher func(ev Event)) GetOption {
	return func(opts *getOpts) {
		if watcher == nil {
			return
		}
		opts.watch = true
		opts.watcher = watcher
	}
}

// Get returns the node's data and metadata.
func (c *Client) Get(path string, options ...GetOption) ([]byte, Stat, error) {
	opts := getOpts{
		watch: false,
	}
	for _, fn := range options {
		fn(&opts)
	}

	if err := ValidatePath(path, false); err != nil {
		return nil, Stat{}, err
	}

	// Register before issuing the request so an event arriving right
	// after the response cannot slip past the listener.
	var reg *watchRegistration
	if opts.watch {
		reg = c.watches.register(path, opts.watcher)
	}

	var resp DriverGetResponse
	done := make(chan struct{})
	c.driver.Get(path, opts.watch, func(r DriverGetResponse) {
		resp = r
		close(done)
	})
	<-done

	if resp.Code != CodeOk {
		if reg != nil {
			c.watches.cancel(reg)
		}
		return nil, Stat{}, translateCode(resp.Code)
	}
	return resp.Data, resp.Stat, nil
}

// Set writes data if version matches the node's current version, or
// unconditionally with version -1.
func (c *Client) Set(path string, data []byte, version int32) (Stat, error) {
	if err := ValidatePath(path, false); err != nil {
		return Stat{}, err
	}

	var resp DriverSetResponse
	done := make(chan struct{})
	c.driver.Set(path, data, version, func(r DriverSetResponse) {
		resp = r
		close(done)
	})
	<-done

	if resp.Code != CodeOk {
		return Stat{}, translateCode(resp.Code)
	}
	return resp.Stat, nil
}

type existsOpts struct {
	watch   bool
	watcher func(ev Event)
}

type ExistsOption func(opts *existsOpts)

// WithExistsWatch arms a one-shot watch for the next change to the
// node. Unlike the other watched operations the watch stays armed even
// when the node does not exist, reporting its later creation.
func WithExistsWatch(watcher func(ev Event)) ExistsOption {
	return func(opts *existsOpts) {
		if watcher == nil {
			return
		}
		opts.watch = true
		opts.watcher = watcher
	}
}

// Exists reports whether the node is present. Absence is a result, not
// an error: callers poll existence with this and must be able to tell
// "not there" apart from a failed call.
func (c *Client) Exists(path string, options ...ExistsOption) (bool, Stat, error) {
	opts := existsOpts{
		watch: false,
	}
	for _, fn := range options {
		fn(&opts)
	}

	if err := ValidatePath(path, false); err != nil {
		return false, Stat{}, err
	}

	var reg *watchRegistration
	if opts.watch {
		reg = c.watches.register(path, opts.watcher)
	}

	var resp DriverExistsResponse
	done := make(chan struct{})
	c.driver.Exists(path, opts.watch, func(r DriverExistsResponse) {
		resp = r
		close(done)
	})
	<-done

	switch resp.Code {
	case CodeOk:
		return true, resp.Stat, nil
	case CodeNoNode:
		// The server armed the watch anyway; keep the registration.
		return false, Stat{}, nil
	default:
		if reg != nil {
			c.watches.cancel(reg)
		}
		return false, Stat{}, translateCode(resp.Code)
	}
}

type deleteOpts struct {
	version int32
}

type DeleteOption func(opts *deleteOpts)

// WithVersion makes the delete conditional on the node's version.
func WithVersion(version int32) DeleteOption {
	return func(opts *deleteOpts) {
		opts.version = version
	}
}

// Delete removes the node. The default version of -1 skips the version
// check; callers wanting compare-and-delete pass WithVersion.
func (c *Client) Delete(path string, options ...DeleteOption) error {
	opts := deleteOpts{
		version: -1,
	}
	for _, fn := range options {
		fn(&opts)
	}

	if err := ValidatePath(path, false); err != nil {
		return err
	}

	var resp DriverDeleteResponse
	done := make(chan struct{})
	c.driver.Delete(path, opts.version, func(r DriverDeleteResponse) {
		resp = r
		close(done)
	})
	<-done

	if resp.Code != CodeOk {
		return translateCode(resp.Code)
	}
	return nil
}

type childrenOpts struct {
	watch   bool
	watcher func(ev Event)
}

type ChildrenOption func(opts *childrenOpts)

// WithChildrenWatch arms a one-shot watch for the next change to the
// node's child set.
func WithChildrenWatch(watcher func(ev Event)) ChildrenOption {
	return func(opts *childrenOpts) {
		if watcher == nil {
			return
		}
		opts.watch = true
		opts.watcher = watcher
	}
}

// Children lists the node's direct children, in no particular order.
func (c *Client) Children(path string, options ...ChildrenOption) ([]string, error) {
	opts := childrenOpts{
		watch: false,
	}
	for _, fn := range options {
		fn(&opts)
	}

	if err := ValidatePath(path, false); err != nil {
		return nil, err
	}

	var reg *watchRegistration
	if opts.watch {
		reg = c.watches.register(path, opts.watcher)
	}

	var resp DriverChildrenResponse
	done := make(chan struct{})
	c.driver.Children(path, opts.watch, func(r DriverChildrenResponse) {
		resp = r
		close(done)
	})
	<-done

	if resp.Code != CodeOk {
		if reg != nil {
			c.watches.cancel(reg)
		}
		return nil, translateCode(resp.Code)
	}
	return resp.Children, nil
}

// GetACL returns the node's ACL list and metadata.
func (c *Client) GetACL(path string) ([]ACL, Stat, error) {
	if err := ValidatePath(path, false); err != nil {
		return nil, Stat{}, err
	}

	var resp DriverGetACLResponse
	done := make(chan struct{})
	c.driver.GetACL(path, func(r DriverGetACLResponse) {
		resp = r
		close(done)
	})
	<-done

	if resp.Code != CodeOk {
		return nil, Stat{}, translateCode(resp.Code)
	}
	return resp.ACL, resp.Stat, nil
}

// SetACL replaces the node's ACL list. version is the ACL version
// (Stat.Aversion), not the data version; -1 skips the check.
func (c *Client) SetACL(path string, acl []ACL, version int32) (Stat, error) {
	if err := ValidatePath(path, false); err != nil {
		return Stat{}, err
	}

	var resp DriverSetACLResponse
	done := make(chan struct{})
	c.driver.SetACL(path, acl, version, func(r DriverSetACLResponse) {
		resp = r
		close(done)
	})
	<-done

	if resp.Code != CodeOk {
		return Stat{}, translateCode(resp.Code)
	}
	return resp.Stat, nil
}

// Connected reports whether the driver currently holds a live
// connection. A closed handle is a normal terminal state and yields
// (false, nil); any other driver failure is returned unchanged.
func (c *Client) Connected() (bool, error) {
	st, err := c.driver.State()
	if err != nil {
		if errors.Is(err, ErrHandleClosed) {
			return false, nil
		}
		return false, err
	}
	return st == StateConnected || st == StateHasSession, nil
}

// HasSession reports whether the driver holds an established session,
// with the same closed-handle tolerance as Connected.
func (c *Client) HasSession() (bool, error) {
	st, err := c.driver.State()
	if err != nil {
		if errors.Is(err, ErrHandleClosed) {
			return false, nil
		}
		return false, err
	}
	return st == StateHasSession, nil
}
