package framework

import (
	"fmt"
	"time"
)

// DispatchErrorKind classifies why a dispatch did not complete normally.
type DispatchErrorKind int

const (
	// ErrKindUnrecognisedCommand means no registry entry matched the parsed name.
	ErrKindUnrecognisedCommand DispatchErrorKind = iota
	// ErrKindLackingPermissions means the invoker's roles do not intersect the
	// command's required roles.
	ErrKindLackingPermissions
	// ErrKindWrongChannel means a guild-only command was invoked outside a guild.
	ErrKindWrongChannel
	// ErrKindRatelimited means the command's bucket denied the invocation.
	ErrKindRatelimited
	// ErrKindHandlerError means the command handler itself returned an error.
	ErrKindHandlerError
)

func (k DispatchErrorKind) String() string {
	switch k {
	case ErrKindUnrecognisedCommand:
		return "unrecognised command"
	case ErrKindLackingPermissions:
		return "lacking permissions"
	case ErrKindWrongChannel:
		return "wrong channel"
	case ErrKindRatelimited:
		return "ratelimited"
	case ErrKindHandlerError:
		return "handler error"
	}
	return "unknown"
}

// DispatchError is the classified failure of a single dispatch. All dispatch
// errors are caught at the dispatcher boundary and reported; none escape to
// terminate the event-processing goroutine.
type DispatchError struct {
	Kind DispatchErrorKind

	// Command is the parsed command name ("" if resolution never happened).
	Command string

	// RetryAfter is set for ErrKindRatelimited: time until the bucket would
	// allow the next invocation.
	RetryAfter time.Duration

	// Cause is set for ErrKindHandlerError.
	Cause error
}

func (e *DispatchError) Error() string {
	switch e.Kind {
	case ErrKindUnrecognisedCommand:
		return fmt.Sprintf("unrecognised command %q", e.Command)
	case ErrKindRatelimited:
		return fmt.Sprintf("command %q ratelimited, retry after %s", e.Command, e.RetryAfter)
	case ErrKindHandlerError:
		return fmt.Sprintf("command %q failed: %v", e.Command, e.Cause)
	}
	return fmt.Sprintf("command %q: %s", e.Command, e.Kind)
}

func (e *DispatchError) Unwrap() error { return e.Cause }
