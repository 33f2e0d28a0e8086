package engine

import (
	"errors"
	"fmt"
)

// ValidationKind enumerates the local checks that block an operation
// before the backend is called.
type ValidationKind int

const (
	// EmptyURL means the install URL was blank after trimming.
	EmptyURL ValidationKind = iota + 1
	// EmptyToken means a credential retry was submitted without a token.
	EmptyToken
	// NotSyncable means the skill has no remote origin to sync from.
	NotSyncable
	// Malformed means the MCP payload is not valid JSON.
	Malformed
	// NotAnObject means the MCP payload is JSON but not an object.
	NotAnObject
	// MissingMcpServers means the payload has no "mcpServers" object.
	MissingMcpServers
	// SameSourceAndTarget means a bulk sync was asked to copy onto itself.
	SameSourceAndTarget
)

func (k ValidationKind) String() string {
	switch k {
	case EmptyURL:
		return "EmptyURL"
	case EmptyToken:
		return "EmptyToken"
	case NotSyncable:
		return "NotSyncable"
	case Malformed:
		return "Malformed"
	case NotAnObject:
		return "NotAnObject"
	case MissingMcpServers:
		return "MissingMcpServers"
	case SameSourceAndTarget:
		return "SameSourceAndTarget"
	default:
		return fmt.Sprintf("ValidationKind(%d)", int(k))
	}
}

// ValidationError is returned when input is rejected locally.
type ValidationError struct {
	Kind   ValidationKind
	Detail string
}

func (e *ValidationError) Error() string {
	if e.Detail != "" {
		return e.message() + ": " + e.Detail
	}
	return e.message()
}

func (e *ValidationError) message() string {
	switch e.Kind {
	case EmptyURL:
		return "URL is required"
	case EmptyToken:
		return "token is required"
	case NotSyncable:
		return "skill has no source URL to sync from"
	case Malformed:
		return "invalid JSON"
	case NotAnObject:
		return "JSON must be an object"
	case MissingMcpServers:
		return "JSON must contain an \"mcpServers\" object"
	case SameSourceAndTarget:
		return "source and target must be different"
	default:
		return "invalid input"
	}
}

func newValidationError(kind ValidationKind, detail string) *ValidationError {
	return &ValidationError{Kind: kind, Detail: detail}
}

// IsValidationError checks whether err is a *ValidationError and returns it.
func IsValidationError(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}

// HasValidationKind reports whether err is a ValidationError of the given kind.
func HasValidationKind(err error, kind ValidationKind) bool {
	ve, ok := IsValidationError(err)
	return ok && ve.Kind == kind
}

var (
	// ErrBusy is returned when a flow is asked to start while its own
	// operation is still running.
	ErrBusy = errors.New("operation already in progress")
	// ErrSyncUnavailable is returned when fewer than two agent sources of a
	// kind exist, so there is nothing to sync between.
	ErrSyncUnavailable = errors.New("sync needs at least two agent sources")
	// ErrAborted is returned when the credential prompt was dismissed.
	ErrAborted = errors.New("aborted")
)
