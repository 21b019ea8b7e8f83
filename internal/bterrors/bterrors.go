// Package bterrors defines the typed error kinds shared across the
// core: Parse, Crypto, Protocol, Io, and Invariant failures all wrap
// through the same Error type so callers can dispatch with errors.Is.
package bterrors

import "fmt"

// Kind classifies why an operation failed.
type Kind int

const (
	// Parse marks malformed bytes: bad varint, truncated message,
	// invalid SEC prefix, non-canonical DER, a point not on the curve.
	Parse Kind = iota
	// Crypto marks a cryptographic check that did not hold: an
	// invalid signature, a checksum mismatch, proof-of-work exceeding
	// target.
	Crypto
	// Protocol marks an unexpected P2P message, a magic/checksum
	// mismatch, or a failed handshake.
	Protocol
	// Io marks a socket or file failure: closed connection, read
	// timeout, file read error.
	Io
	// Invariant marks a precondition violated inside the core itself,
	// such as mixing field elements of different primes or a scalar
	// outside [1, n).
	Invariant
)

func (k Kind) String() string {
	switch k {
	case Parse:
		return "parse"
	case Crypto:
		return "crypto"
	case Protocol:
		return "protocol"
	case Io:
		return "io"
	case Invariant:
		return "invariant"
	default:
		return "unknown"
	}
}

// Error is a Kind-tagged error that wraps an underlying cause.
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Op, e.Kind)
	}
	return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Is lets errors.Is(err, bterrors.Parse) work by comparing Kind values
// directly against a Kind sentinel.
func (e *Error) Is(target error) bool {
	k, ok := target.(Kind)
	return ok && e.Kind == k
}

// Error implements the error interface for a bare Kind so that
// errors.Is(err, bterrors.Parse) can compare against the Kind itself.
func (k Kind) Error() string { return k.String() }

// New builds an Error of the given kind, wrapping err (which may be
// nil).
func New(kind Kind, op string, err error) *Error {
	return &Error{Kind: kind, Op: op, Err: err}
}

// Newf builds an Error of the given kind with a formatted message as
// the wrapped cause.
func Newf(kind Kind, op, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Op: op, Err: fmt.Errorf(format, args...)}
}
