package zkcoord

// State is the connection state of the underlying driver session.
type State int32

const (
	StateDisconnected State = 0
	StateConnecting   State = 1
	StateConnected    State = 100
	StateHasSession   State = 101
	StateExpired      State = -112
)

// EventType describes the kind of change a watch event reports.
type EventType int32

const (
	EventNodeCreated         EventType = 1
	EventNodeDeleted         EventType = 2
	EventNodeDataChanged     EventType = 3
	EventNodeChildrenChanged EventType = 4
	EventSession             EventType = -1
)

// Event is a change notification delivered by the driver for a watched node.
type Event struct {
	Type  EventType
	State State
	Path  string // For non-session events, the path of the watched node.
}

// Stat is node metadata returned with most responses. It is passed
// through unchanged from the driver.
type Stat struct {
	Czxid          int64
	Mzxid          int64
	Ctime          int64
	Mtime          int64
	Version        int32
	Cversion       int32
	Aversion       int32
	EphemeralOwner int64
	DataLength     int32
	NumChildren    int32
	Pzxid          int64
}

// Flags understood by Driver.Create.
const (
	FlagEphemeral int32 = 1
	FlagSequence  int32 = 2
)

// CreateMode selects the node type for Create. The zero value is
// ModeEphemeral: the dominant use cases (membership, locks) want
// auto-cleanup when the session ends, so persistence is opt-in.
type CreateMode int

const (
	ModeEphemeral CreateMode = iota
	ModeEphemeralSequential
	ModePersistent
	ModePersistentSequential
)

// IsEphemeral reports whether nodes created with this mode are removed
// when the owning session ends.
func (m CreateMode) IsEphemeral() bool {
	return m == ModeEphemeral || m == ModeEphemeralSequential
}

// IsSequential reports whether the service appends a sequence suffix to
// the created path.
func (m CreateMode) IsSequential() bool {
	return m == ModeEphemeralSequential || m == ModePersistentSequential
}

func (m CreateMode) flags() int32 {
	switch m {
	case ModePersistent:
		return 0
	case ModePersistentSequential:
		return FlagSequence
	case ModeEphemeralSequential:
		return FlagEphemeral | FlagSequence
	default:
		return FlagEphemeral
	}
}

type DriverCreateResponse struct {
	Code ResultCode
	Path string
}

type DriverGetResponse struct {
	Code ResultCode
	Data []byte
	Stat Stat
}

type DriverSetResponse struct {
	Code ResultCode
	Stat Stat
}

type DriverExistsResponse struct {
	Code ResultCode
	Stat Stat
}

type DriverDeleteResponse struct {
	Code ResultCode
}

type DriverChildrenResponse struct {
	Code     ResultCode
	Children []string
}

type DriverGetACLResponse struct {
	Code ResultCode
	ACL  []ACL
	Stat Stat
}

type DriverSetACLResponse struct {
	Code ResultCode
	Stat Stat
}

// Driver is the raw asynchronous interface to the coordination service.
// Every operation completes by invoking its callback exactly once with a
// response carrying a ResultCode; the callback may run on the caller's
// goroutine or on a driver-owned one.
//
// Operations taking a watch flag arm a one-shot server-side watch
// atomically with the answer. Watch events are delivered to the handler
// installed with SetEventHandler, on a driver-owned goroutine from which
// further blocking client calls are permitted.
type Driver interface {
	Create(path string, data []byte, flags int32, acl []ACL, callback func(resp DriverCreateResponse))
	Get(path string, watch bool, callback func(resp DriverGetResponse))
	Set(path string, data []byte, version int32, callback func(resp DriverSetResponse))
	Exists(path string, watch bool, callback func(resp DriverExistsResponse))
	Delete(path string, version int32, callback func(resp DriverDeleteResponse))
	Children(path string, watch bool, callback func(resp DriverChildrenResponse))
	GetACL(path string, callback func(resp DriverGetACLResponse))
	SetACL(path string, acl []ACL, version int32, callback func(resp DriverSetACLResponse))

	// SetEventHandler installs the sink for watch events. It must be
	// called before any operation that arms a watch.
	SetEventHandler(handler func(ev Event))

	// State reports the current session state. Once the handle has been
	// closed it fails with ErrHandleClosed; any other error is
	// unexpected and fatal to the caller.
	State() (State, error)
}
