// Package apperr defines the error taxonomy shared by every WordPress
// operation: local precondition failures, parameter rejects, and remote
// HTTP failures all surface as a typed *Error.
package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies an Error.
type Kind int

const (
	// KindUnknown covers anything that does not match the taxonomy.
	KindUnknown Kind = iota
	// KindConfiguration means the site URL or credential material is missing.
	KindConfiguration
	// KindAuthentication means the session is not authenticated, or the
	// remote probe rejected the credentials.
	KindAuthentication
	// KindValidation means a parameter was rejected before any network call.
	KindValidation
	// KindRemote means WordPress returned an HTTP failure.
	KindRemote
)

// String returns the canonical name of the kind.
func (k Kind) String() string {
	switch k {
	case KindConfiguration:
		return "configuration"
	case KindAuthentication:
		return "authentication"
	case KindValidation:
		return "validation"
	case KindRemote:
		return "remote"
	default:
		return "unknown"
	}
}

// Error is the single error type crossing the wordpress package boundary.
// Status, StatusText and Body are populated only for KindRemote.
type Error struct {
	Kind       Kind
	Message    string
	Status     int
	StatusText string
	Body       string
}

func (e *Error) Error() string {
	if e.Kind == KindRemote {
		return fmt.Sprintf("wordpress: %d %s: %s", e.Status, e.StatusText, e.Message)
	}
	return e.Message
}

// Configuration builds a KindConfiguration error.
func Configuration(format string, args ...any) *Error {
	return &Error{Kind: KindConfiguration, Message: fmt.Sprintf(format, args...)}
}

// Authentication builds a KindAuthentication error.
func Authentication(format string, args ...any) *Error {
	return &Error{Kind: KindAuthentication, Message: fmt.Sprintf(format, args...)}
}

// Validation builds a KindValidation error.
func Validation(format string, args ...any) *Error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

// Remote builds a KindRemote error from an HTTP failure. The response body
// is preserved verbatim for caller inspection.
func Remote(status int, statusText, body string) *Error {
	msg := body
	if msg == "" {
		msg = "request failed"
	}
	return &Error{
		Kind:       KindRemote,
		Message:    msg,
		Status:     status,
		StatusText: statusText,
		Body:       body,
	}
}

// Wrap returns err unchanged when it is already an *Error, otherwise it is
// reduced to its message string as a KindUnknown error. Wrap(nil) is nil.
func Wrap(err error) error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return &Error{Kind: KindUnknown, Message: err.Error()}
}

// KindOf reports the kind of err, or KindUnknown for foreign errors.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// IsKind reports whether err is an *Error of the given kind.
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}
