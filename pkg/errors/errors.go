// Package errors defines the error taxonomy shared by every stage of the
// fetch pipeline. All failures surface as *Error values tagged with a Kind so
// callers can branch on the failure class without string matching.
package errors

import (
	"errors"
	"fmt"
)

// Kind classifies a pipeline failure.
type Kind int

const (
	// KindUnknown is reported by KindOf for errors that carry no *Error.
	KindUnknown Kind = iota
	// KindNoIdentifierFound means the input contained no 32-character store hash.
	KindNoIdentifierFound
	// KindResolutionExhausted means no binary cache answered the narinfo query with success.
	KindResolutionExhausted
	// KindArchiveUnavailable means the resolved archive URL did not answer with success.
	KindArchiveUnavailable
	// KindTransportFailure means the HTTP round trip itself failed.
	KindTransportFailure
	// KindFilesystemFailure means creating a directory or writing a file failed.
	KindFilesystemFailure
	// KindMalformedReference means metadata, archive contents or an entry name could not be interpreted.
	KindMalformedReference
)

// Sentinels for use with errors.Is. Any *Error matches the sentinel of its Kind.
var (
	ErrNoIdentifierFound   = fmt.Errorf("no store hash found")
	ErrResolutionExhausted = fmt.Errorf("not found in any binary cache")
	ErrArchiveUnavailable  = fmt.Errorf("archive not retrievable")
	ErrTransportFailure    = fmt.Errorf("transport failure")
	ErrFilesystemFailure   = fmt.Errorf("filesystem failure")
	ErrMalformedReference  = fmt.Errorf("malformed reference")
)

var sentinels = map[Kind]error{
	KindNoIdentifierFound:   ErrNoIdentifierFound,
	KindResolutionExhausted: ErrResolutionExhausted,
	KindArchiveUnavailable:  ErrArchiveUnavailable,
	KindTransportFailure:    ErrTransportFailure,
	KindFilesystemFailure:   ErrFilesystemFailure,
	KindMalformedReference:  ErrMalformedReference,
}

// String returns the name of the kind.
func (k Kind) String() string {
	switch k {
	case KindNoIdentifierFound:
		return "NoIdentifierFound"
	case KindResolutionExhausted:
		return "ResolutionExhausted"
	case KindArchiveUnavailable:
		return "ArchiveUnavailable"
	case KindTransportFailure:
		return "TransportFailure"
	case KindFilesystemFailure:
		return "FilesystemFailure"
	case KindMalformedReference:
		return "MalformedReference"
	default:
		return "Unknown"
	}
}

// Error is the tagged error returned by the pipeline. Subject names the
// input, hash, URL or path the failure is about. Err is the underlying cause
// and may be nil.
type Error struct {
	Kind    Kind
	Subject string
	Err     error
}

// New returns an *Error of the given kind.
func New(kind Kind, subject string, cause error) *Error {
	return &Error{Kind: kind, Subject: subject, Err: cause}
}

func (e *Error) Error() string {
	msg := e.Kind.String()
	if s, ok := sentinels[e.Kind]; ok {
		msg = s.Error()
	}
	if e.Subject != "" {
		msg = fmt.Sprintf("%s: %s", msg, e.Subject)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// Is reports whether target is the sentinel of e's Kind.
func (e *Error) Is(target error) bool {
	s, ok := sentinels[e.Kind]
	return ok && s == target
}

// KindOf returns the Kind of the outermost *Error in err's chain.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// Wrap wraps an error with additional context.
func Wrap(err error, msg string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", msg, err)
}

// Wrapf wraps an error with additional formatted context.
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}
