package ruleerrors

import (
	"fmt"

	"github.com/pkg/errors"
)

// These constants are used to identify a specific RuleError.
var (
	// ErrNoTransactions indicates that a block header was requested for an
	// empty transaction set. This is a programmer error and is raised by
	// panicking rather than returned.
	ErrNoTransactions = newRuleError("ErrNoTransactions")

	// ErrMiningExhausted indicates that every nonce in the requested range was
	// tried without finding a proof whose score satisfies the difficulty
	// target. Callers should pick a new timestamp or nonce range.
	ErrMiningExhausted = newRuleError("ErrMiningExhausted")

	// ErrMalformedProof indicates that proof bytes do not have the width or
	// the structure required by the active network.
	ErrMalformedProof = newRuleError("ErrMalformedProof")

	// ErrTruncatedInput indicates that a decoder ran out of bytes before a
	// field of declared width was complete.
	ErrTruncatedInput = newRuleError("ErrTruncatedInput")

	// ErrGenesisConstruction indicates that a freshly built genesis header
	// does not satisfy the genesis predicate.
	ErrGenesisConstruction = newRuleError("ErrGenesisConstruction")

	// ErrTooManyLeaves indicates that a fixed depth merkle tree was given more
	// leaves than it can hold.
	ErrTooManyLeaves = newRuleError("ErrTooManyLeaves")

	// ErrInvalidProof indicates that a proof of succinct work did not verify
	// against its statement, or its score exceeds the difficulty target.
	ErrInvalidProof = newRuleError("ErrInvalidProof")

	// ErrMalformedSolution indicates that an encoded prover solution could
	// not be decoded.
	ErrMalformedSolution = newRuleError("ErrMalformedSolution")

	// ErrSizePrefixMismatch indicates that the length announced by an 8-byte
	// size prefix does not match the payload that follows it.
	ErrSizePrefixMismatch = newRuleError("ErrSizePrefixMismatch")
)

// RuleError identifies a class of consensus errors. RuleErrors are comparable
// so they can be matched with errors.Is after being wrapped.
type RuleError struct {
	message string
	inner   error
}

func (e RuleError) Error() string {
	if e.inner != nil {
		return e.message + ": " + e.inner.Error()
	}
	return e.message
}

func (e RuleError) Unwrap() error {
	return e.inner
}

func (e RuleError) Cause() error {
	return e.inner
}

func newRuleError(message string) RuleError {
	return RuleError{message: message, inner: nil}
}

// ErrProofWidth carries the details of a proof that has the wrong width.
type ErrProofWidth struct {
	Expected int
	Actual   int
}

func (e ErrProofWidth) Error() string {
	return fmt.Sprintf("proof is %d bytes, expected %d", e.Actual, e.Expected)
}

// NewErrProofWidth returns an ErrMalformedProof describing a width mismatch.
func NewErrProofWidth(expected, actual int) error {
	return errors.WithStack(RuleError{
		message: ErrMalformedProof.message,
		inner:   ErrProofWidth{Expected: expected, Actual: actual},
	})
}

// ErrTruncatedField carries the name and width of the field that could not
// be read in full.
type ErrTruncatedField struct {
	Field string
	Width int
}

func (e ErrTruncatedField) Error() string {
	return fmt.Sprintf("not enough bytes to read %s (%d bytes)", e.Field, e.Width)
}

// NewErrTruncatedField returns an ErrTruncatedInput describing the field that
// was cut short.
func NewErrTruncatedField(field string, width int) error {
	return errors.WithStack(RuleError{
		message: ErrTruncatedInput.message,
		inner:   ErrTruncatedField{Field: field, Width: width},
	})
}

// Is reports whether target is the RuleError of the same class, regardless
// of the details attached to e.
func (e RuleError) Is(target error) bool {
	other, ok := target.(RuleError)
	if !ok {
		return false
	}
	return e.message == other.message
}
