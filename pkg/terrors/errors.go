// Package terrors implements the error taxonomy shared by the einops
// pattern engine and the tensor kernel (spec §7): every failure the core
// raises is one of a small, fixed set of kinds, each wrapping a sentinel
// so callers can test with errors.Is while still getting a message that
// names the offending pattern, span, and observed-vs-expected shape.
//
// The shape follows the teacher's convention of per-package sentinel
// errors.New vars wrapped with fmt.Errorf("%w: ...", ...) at call sites
// (see github.com/hyperifyio/gnd's pkg/bitnet/errors and
// pkg/bitnet/tensor/errors.go), generalized into one taxonomy instead of
// one flat var block per package.
package terrors

import (
	"errors"
	"fmt"
)

// Kind identifies which of the seven error categories a failure belongs
// to. Kinds are nominal: two errors of the same Kind are not otherwise
// related.
type Kind int

const (
	// PatternParseError covers invalid characters, malformed arrows,
	// unbalanced parens, multiple arrows, and unexpected tokens.
	PatternParseError Kind = iota
	// PatternValidationError covers duplicate axes, multiple ellipses,
	// empty composites, invalid identifiers, output axes missing from
	// the input, and composites on a repeat input.
	PatternValidationError
	// ShapeError covers axis/shape mismatches: composite product
	// mismatch, multiple unknowns, non-1 singleton dims, broadcast
	// failures, matmul rank/inner mismatches, scalar matmul.
	ShapeError
	// AxisError covers repeat operations missing a size for a new axis,
	// or a non-positive/non-integer size.
	AxisError
	// DtypeError covers unsupported dtypes for an operation or
	// incompatible typed views.
	DtypeError
	// DeviceError covers an input handle on the wrong device, or an
	// output handle of the wrong size/device.
	DeviceError
	// IO covers write-length mismatches and allocation failures.
	IO
)

// Sentinels, one per Kind, usable with errors.Is.
var (
	ErrPatternParse      = errors.New("pattern parse error")
	ErrPatternValidation = errors.New("pattern validation error")
	ErrShape             = errors.New("shape error")
	ErrAxis              = errors.New("axis error")
	ErrDtype             = errors.New("dtype error")
	ErrDevice            = errors.New("device error")
	ErrIO                = errors.New("io error")
)

func sentinelFor(k Kind) error {
	switch k {
	case PatternParseError:
		return ErrPatternParse
	case PatternValidationError:
		return ErrPatternValidation
	case ShapeError:
		return ErrShape
	case AxisError:
		return ErrAxis
	case DtypeError:
		return ErrDtype
	case DeviceError:
		return ErrDevice
	case IO:
		return ErrIO
	default:
		return errors.New("unknown error")
	}
}

func (k Kind) String() string {
	switch k {
	case PatternParseError:
		return "PatternParseError"
	case PatternValidationError:
		return "PatternValidationError"
	case ShapeError:
		return "ShapeError"
	case AxisError:
		return "AxisError"
	case DtypeError:
		return "DtypeError"
	case DeviceError:
		return "DeviceError"
	case IO:
		return "IO"
	default:
		return "UnknownError"
	}
}

// Span marks a byte-offset range in a pattern source string, used to
// report where a parse or validation error occurred.
type Span struct {
	Start int
	End   int
}

// Error is the concrete error type raised throughout the core. Pattern
// and Span are empty/zero when the failure is not pattern-related (e.g.
// a kernel ShapeError from a matmul).
type Error struct {
	Kind    Kind
	Pattern string
	Span    Span
	Detail  string
}

func (e *Error) Error() string {
	if e.Pattern == "" {
		return fmt.Sprintf("%s: %s", e.Kind, e.Detail)
	}
	if e.Span == (Span{}) {
		return fmt.Sprintf("%s: %s (pattern %q)", e.Kind, e.Detail, e.Pattern)
	}
	return fmt.Sprintf("%s: %s (pattern %q, offset %d-%d)", e.Kind, e.Detail, e.Pattern, e.Span.Start, e.Span.End)
}

// Unwrap lets errors.Is(err, terrors.ErrShape) succeed regardless of the
// Detail/Pattern/Span carried by a specific *Error value.
func (e *Error) Unwrap() error {
	return sentinelFor(e.Kind)
}

// New builds an *Error with no pattern context, for kernel-level
// failures (dtype/device/shape mismatches that aren't about a pattern
// string).
func New(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Detail: fmt.Sprintf(format, args...)}
}

// NewAt builds an *Error carrying the pattern source and the span within
// it where the problem was detected.
func NewAt(kind Kind, pattern string, span Span, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Pattern: pattern, Span: span, Detail: fmt.Sprintf(format, args...)}
}

// WithPattern attaches pattern context to an existing error without a
// specific span, used when an error is raised from code that only knows
// the whole pattern (e.g. the resolver).
func WithPattern(kind Kind, pattern string, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Pattern: pattern, Detail: fmt.Sprintf(format, args...)}
}
