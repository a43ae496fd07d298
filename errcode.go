package zkcoord

import (
	"errors"
	"fmt"
)

// ResultCode is the integer status carried by every driver response.
// Zero denotes success; every other value maps to exactly one error
// through translateCode.
type ResultCode int32

// CodeOk is the success status. It is never translated into an error.
const CodeOk ResultCode = 0

// System-level result codes.
const (
	CodeSystemError          ResultCode = -1
	CodeRuntimeInconsistency ResultCode = -2
	CodeDataInconsistency    ResultCode = -3
	CodeConnectionLoss       ResultCode = -4
	CodeMarshallingError     ResultCode = -5
	CodeUnimplemented        ResultCode = -6
	CodeOperationTimeout     ResultCode = -7
	CodeBadArguments         ResultCode = -8
	CodeInvalidState         ResultCode = -9
)

// API-level result codes.
const (
	CodeAPIError                ResultCode = -100
	CodeNoNode                  ResultCode = -101
	CodeNoAuth                  ResultCode = -102
	CodeBadVersion              ResultCode = -103
	CodeNoChildrenForEphemerals ResultCode = -108
	CodeNodeExists              ResultCode = -110
	CodeNotEmpty                ResultCode = -111
	CodeSessionExpired          ResultCode = -112
	CodeInvalidACL              ResultCode = -114
	CodeAuthFailed              ResultCode = -115
	CodeClosing                 ResultCode = -116
	CodeNothing                 ResultCode = -117
	CodeSessionMoved            ResultCode = -118
)

var (
	// ErrNoNode indicates the node does not exist.
	ErrNoNode = errors.New("zkcoord: node does not exist")
	// ErrNodeExists indicates the node already exists.
	ErrNodeExists = errors.New("zkcoord: node already exists")
	// ErrBadVersion indicates a version-conditioned write lost the race.
	ErrBadVersion = errors.New("zkcoord: version conflict")
	// ErrNotEmpty indicates a delete on a node that still has children.
	ErrNotEmpty = errors.New("zkcoord: node has children")
	// ErrConnectionLoss indicates the request was interrupted by a
	// broken connection. The operation may or may not have been applied.
	ErrConnectionLoss = errors.New("zkcoord: connection loss")
	// ErrSessionExpired indicates the session is gone along with all of
	// its ephemeral nodes and watches.
	ErrSessionExpired = errors.New("zkcoord: session expired")
	// ErrSessionMoved indicates the session moved to another server.
	ErrSessionMoved = errors.New("zkcoord: session moved")
	// ErrNoAuth indicates the client is not authorized for the operation.
	ErrNoAuth = errors.New("zkcoord: not authorized")
	// ErrAuthFailed indicates the client could not be authenticated.
	ErrAuthFailed = errors.New("zkcoord: authentication failed")
	// ErrInvalidACL indicates a malformed ACL was supplied.
	ErrInvalidACL = errors.New("zkcoord: invalid ACL")
	// ErrNoChildrenForEphemerals indicates a create below an ephemeral node.
	ErrNoChildrenForEphemerals = errors.New("zkcoord: ephemeral nodes have no children")
	// ErrClosing indicates the driver is shutting down.
	ErrClosing = errors.New("zkcoord: closing")
	// ErrAPIError is the generic server-side API failure.
	ErrAPIError = errors.New("zkcoord: api error")

	// ErrHandleClosed is returned by Driver.State once the handle has
	// been closed. Connection-state queries on the client treat it as a
	// normal terminal condition, not a failure.
	ErrHandleClosed = errors.New("zkcoord: handle has been closed")

	// ErrInvalidPath indicates an operation was attempted on a
	// malformed path (e.g. empty, relative, double slash).
	ErrInvalidPath = errors.New("zkcoord: invalid path")
)

// KeeperError carries a result code that has no dedicated error value.
// It keeps translateCode total for codes introduced by newer servers.
type KeeperError struct {
	Code ResultCode
}

func (e *KeeperError) Error() string {
	return fmt.Sprintf("zkcoord: keeper failure (code %d)", e.Code)
}

var codeErrors = map[ResultCode]error{
	CodeConnectionLoss:          ErrConnectionLoss,
	CodeAPIError:                ErrAPIError,
	CodeNoNode:                  ErrNoNode,
	CodeNoAuth:                  ErrNoAuth,
	CodeBadVersion:              ErrBadVersion,
	CodeNoChildrenForEphemerals: ErrNoChildrenForEphemerals,
	CodeNodeExists:              ErrNodeExists,
	CodeNotEmpty:                ErrNotEmpty,
	CodeSessionExpired:          ErrSessionExpired,
	CodeInvalidACL:              ErrInvalidACL,
	CodeAuthFailed:              ErrAuthFailed,
	CodeClosing:                 ErrClosing,
	CodeSessionMoved:            ErrSessionMoved,
}

// translateCode maps a non-zero result code to its error value.
// Callers must check for CodeOk before calling.
func translateCode(code ResultCode) error {
	if err, ok := codeErrors[code]; ok {
		return err
	}
	return &KeeperError{Code: code}
}
