package domain

import "fmt"

// ErrorKind enumerates the closed failure taxonomy. The numeric values are
// wire-stable and shared with external consumers of the same encoding.
type ErrorKind uint32

// Failure kinds. Every operation failure maps to exactly one of these.
const (
	KindPlanNotFound     ErrorKind = 1
	KindInvalidDate      ErrorKind = 2
	KindInvalidScore     ErrorKind = 3
	KindInvalidInput     ErrorKind = 4
	KindAlreadyCompleted ErrorKind = 5
	KindUnauthorized     ErrorKind = 6
)

// String returns the canonical name of the failure kind.
func (k ErrorKind) String() string {
	switch k {
	case KindPlanNotFound:
		return "plan_not_found"
	case KindInvalidDate:
		return "invalid_date"
	case KindInvalidScore:
		return "invalid_score"
	case KindInvalidInput:
		return "invalid_input"
	case KindAlreadyCompleted:
		return "already_completed"
	case KindUnauthorized:
		return "unauthorized"
	default:
		return fmt.Sprintf("unknown_error_%d", uint32(k))
	}
}

// Error is a typed operation failure. Two Errors match under errors.Is when
// their kinds are equal, so callers can test against the exported sentinels
// while implementations attach a specific reason.
type Error struct {
	Kind   ErrorKind
	Reason string
}

// Sentinel errors, one per failure kind.
var (
	ErrPlanNotFound     = &Error{Kind: KindPlanNotFound}
	ErrInvalidDate      = &Error{Kind: KindInvalidDate}
	ErrInvalidScore     = &Error{Kind: KindInvalidScore}
	ErrInvalidInput     = &Error{Kind: KindInvalidInput}
	ErrAlreadyCompleted = &Error{Kind: KindAlreadyCompleted}
	ErrUnauthorized     = &Error{Kind: KindUnauthorized}
)

// NewError constructs a failure of the given kind with a human-readable
// reason.
func NewError(kind ErrorKind, format string, args ...any) *Error {
	return &Error{Kind: kind, Reason: fmt.Sprintf(format, args...)}
}

func (e *Error) Error() string {
	if e.Reason == "" {
		return e.Kind.String()
	}
	return e.Kind.String() + ": " + e.Reason
}

// Is matches any *Error of the same kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

// Code returns the wire-stable numeric code of the failure.
func (e *Error) Code() uint32 { return uint32(e.Kind) }
