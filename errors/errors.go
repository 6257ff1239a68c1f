package errors

import (
	// Go internal packages
	"errors"
	"strings"
)

// Error defines a standard application error.
type Error struct {
	Kind    Kind   `json:"kind"`
	Message string `json:"message"`
	// Field names the offending input, if any.
	Field string `json:"field,omitempty"`
	// Wrapped underlying error.
	WrappedErr error `json:"-"`
}

// Error returns the string representation of the error message.
func (e *Error) Error() string {
	var b strings.Builder
	if e.Field != "" {
		b.WriteString(e.Field)
		b.WriteString(": ")
	}
	if e.Message != "" {
		b.WriteString(e.Message)
	} else {
		b.WriteString(e.Kind.String())
	}
	if e.WrappedErr != nil {
		b.WriteString(": ")
		b.WriteString(e.WrappedErr.Error())
	}
	return b.String()
}

// Unwrap returns the wrapped error.
func (e *Error) Unwrap() error {
	return e.WrappedErr
}

// Kind defines the kind or class of an error.
type Kind uint8

// Transport agnostic error "kinds"
const (
	Other       Kind = iota // Unclassified error
	Internal                // Internal error
	Invalid                 // Invalid input, validation error etc
	Unavailable             // A downstream collaborator (mail transport) failed
)

func (k Kind) String() string {
	switch k {
	case Other:
		return "unclassified error"
	case Internal:
		return "internal error"
	case Invalid:
		return "invalid input"
	case Unavailable:
		return "service unavailable"
	default:
		return "unknown error kind"
	}
}

// Field marks the input field an error refers to.
type Field string

// E builds an *Error from a mix of Kind, Field, error and message arguments.
func E(args ...interface{}) error {
	e := &Error{}
	for _, arg := range args {
		switch arg := arg.(type) {
		case Kind:
			e.Kind = arg
		case Field:
			e.Field = string(arg)
		case error:
			e.WrappedErr = arg
		case string:
			e.Message = arg
		}
	}
	return e
}

// KindOf returns the Kind of the first *Error in err's chain, or Other.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return Other
}

// NewInvalidParamsError creates a new invalid parameters error
func NewInvalidParamsError(field, msg string) error {
	return E(Invalid, Field(field), msg)
}

// NewUnavailableError wraps a downstream failure
func NewUnavailableError(msg string, err error) error {
	return E(Unavailable, msg, err)
}

var (
	As   = errors.As
	Is   = errors.Is
	New  = errors.New
	Join = errors.Join
)
