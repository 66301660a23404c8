package linalg

import (
	"fmt"
	"log"
)

// ErrorKind categorizes the fatal error conditions of the pipeline.
type ErrorKind int

const (
	// UnsupportedType: element type is not one of the four supported kinds.
	UnsupportedType ErrorKind = iota
	// InvalidShape: input is not a usable rank-2 matrix, or dimensions
	// disagree between factorization and right-hand side.
	InvalidShape
	// NonFinite: finiteness checking found a NaN or Inf element.
	NonFinite
	// InvalidArgument: the primitive rejected an argument, or an operation
	// mode was unknown.
	InvalidArgument
)

func (k ErrorKind) String() string {
	switch k {
	case UnsupportedType:
		return "UnsupportedType"
	case InvalidShape:
		return "InvalidShape"
	case NonFinite:
		return "NonFinite"
	case InvalidArgument:
		return "InvalidArgument"
	default:
		return "Unknown"
	}
}

// Error is a structured pipeline error. Fatal conditions abort the
// initiating call with no partial results.
type Error struct {
	Kind    ErrorKind
	Op      string // Operation that failed
	Message string // Human-readable message
	Arg     int    // 1-origin primitive argument index, when reported
}

func (e *Error) Error() string {
	if e.Arg != 0 {
		return fmt.Sprintf("linalg %s error in %s: %s (argument %d)",
			e.Kind.String(), e.Op, e.Message, e.Arg)
	}
	return fmt.Sprintf("linalg %s error in %s: %s", e.Kind.String(), e.Op, e.Message)
}

func newUnsupportedType(op string, msg string) error {
	return &Error{Kind: UnsupportedType, Op: op, Message: msg}
}

func newInvalidShape(op string, msg string) error {
	return &Error{Kind: InvalidShape, Op: op, Message: msg}
}

func newNonFinite(op string, msg string) error {
	return &Error{Kind: NonFinite, Op: op, Message: msg}
}

func newInvalidArgument(op string, msg string, arg int) error {
	return &Error{Kind: InvalidArgument, Op: op, Message: msg, Arg: arg}
}

// isKind reports whether err is a *Error of the given kind.
func isKind(err error, k ErrorKind) bool {
	e, ok := err.(*Error)
	return ok && e.Kind == k
}

// IsUnsupportedType reports whether err is an unsupported element type error.
func IsUnsupportedType(err error) bool { return isKind(err, UnsupportedType) }

// IsInvalidShape reports whether err is a shape or dimension error.
func IsInvalidShape(err error) bool { return isKind(err, InvalidShape) }

// IsNonFinite reports whether err is a finiteness check failure.
func IsNonFinite(err error) bool { return isKind(err, NonFinite) }

// IsInvalidArgument reports whether err is an invalid argument error.
func IsInvalidArgument(err error) bool { return isKind(err, InvalidArgument) }

// Warnf receives non-fatal diagnostics, currently only singular matrix
// reports from Factorize. Replace it to route or silence warnings.
var Warnf = log.Printf
