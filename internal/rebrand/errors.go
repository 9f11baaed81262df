package rebrand

import (
	"errors"
	"fmt"
)

// Kind classifies a rebranding failure.
type Kind int

const (
	Unknown Kind = iota
	// MissingInput: a required request field is absent.
	MissingInput
	// InvalidFormat: the document bytes are not a ZIP package.
	InvalidFormat
	// PartAccessFailure: a single part could not be read as text.
	// Reported as a warning; the part is skipped.
	PartAccessFailure
	// SerializationFailure: the package could not be re-packed.
	SerializationFailure
)

func (k Kind) String() string {
	switch k {
	case MissingInput:
		return "MissingInput"
	case InvalidFormat:
		return "InvalidFormat"
	case PartAccessFailure:
		return "PartAccessFailure"
	case SerializationFailure:
		return "SerializationFailure"
	default:
		return "Unknown"
	}
}

// Error is a rebranding failure with its kind and, for part-level
// failures, the part it concerns.
type Error struct {
	Kind Kind
	Part string
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	msg := e.Msg
	if e.Part != "" {
		msg = fmt.Sprintf("%s: %s", e.Part, msg)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf returns the Kind carried by err, or Unknown.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return Unknown
}

func partError(part string, err error) *Error {
	return &Error{Kind: PartAccessFailure, Part: part, Msg: "part skipped", Err: err}
}
