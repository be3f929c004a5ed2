// Package apperr implements the closed error taxonomy the backend contract
// and the reducer share: Io, NotARepository, Unsupported, and Backend
// failures, each carrying a message and an optional wrapped cause.
package apperr

import "fmt"

// Kind discriminates the Error union.
type Kind int

const (
	// KindIo covers filesystem/process-level failures unrelated to git
	// semantics: permission denied, path not found, and similar.
	KindIo Kind = iota
	// KindNotARepository means the target path is not (inside) a git
	// working directory.
	KindNotARepository
	// KindUnsupported means the operation is not implemented by this
	// backend, or not meaningful for the current repository state.
	KindUnsupported
	// KindBackend wraps a failed invocation of the underlying git backend;
	// Message is of the form "<command> failed: <stderr>".
	KindBackend
)

func (k Kind) String() string {
	switch k {
	case KindIo:
		return "io"
	case KindNotARepository:
		return "not_a_repository"
	case KindUnsupported:
		return "unsupported"
	case KindBackend:
		return "backend"
	default:
		return "unknown"
	}
}

// Error is the concrete type backing every apperr Kind.
type Error struct {
	Kind    Kind
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Message == "" {
		return e.Kind.String()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Cause }

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func Wrap(kind Kind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, Cause: cause}
}

// NotARepository builds a KindNotARepository error for the given path.
func NotARepository(path string) *Error {
	return New(KindNotARepository, fmt.Sprintf("not a git repository: %s", path))
}

// Backend builds a KindBackend error in the canonical "<command> failed:
// <stderr>" shape the reducer's command-log rendering expects.
func Backend(command, stderr string, cause error) *Error {
	msg := fmt.Sprintf("%s failed", command)
	if stderr != "" {
		msg = fmt.Sprintf("%s: %s", msg, stderr)
	}
	return Wrap(KindBackend, msg, cause)
}

// Unsupported builds a KindUnsupported error.
func Unsupported(message string) *Error {
	return New(KindUnsupported, message)
}

// Io wraps a filesystem/process error as KindIo.
func Io(message string, cause error) *Error {
	return Wrap(KindIo, message, cause)
}

// As reports whether err is (or wraps) an *Error of the given kind.
func As(err error, kind Kind) (*Error, bool) {
	var e *Error
	for err != nil {
		if ae, ok := err.(*Error); ok {
			e = ae
			break
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return nil, false
		}
		err = u.Unwrap()
	}
	if e == nil || e.Kind != kind {
		return nil, false
	}
	return e, true
}
