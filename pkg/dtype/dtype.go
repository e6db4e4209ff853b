// Package dtype implements the Dtype descriptor and element-typed Buffer
// views described in spec §3 ("Dtype", "Buffer") and §4.A.
//
// It is grounded on github.com/hyperifyio/gnd's pkg/bitnet/tensor, which
// hard-codes a single element type ([]int8 for ternary weights); this
// package generalizes that to the full dtype enum spec.md §3 asks for,
// using Go generics (the teacher predates this generalization, so there
// is no teacher code to adapt for the generic accessor — it is new code
// grounded in the teacher's "typed accessor over a byte buffer" shape).
package dtype

import "fmt"

// Dtype enumerates the scalar element types a Tensor can hold.
type Dtype uint8

const (
	I8 Dtype = iota
	U8
	I16
	U16
	I32
	U32
	F32
	F64
	I64
	U64
)

// Class identifies the arithmetic family a Dtype belongs to.
type Class int

const (
	// ClassInteger covers dtypes narrower than 64 bits: arithmetic on
	// these is promoted to a wider accumulator (f64) where the kernel
	// needs one, per spec §4.C.
	ClassInteger Class = iota
	// ClassFloat covers f32/f64.
	ClassFloat
	// ClassWide covers i64/u64, which use a dedicated arithmetic path
	// (including division-by-zero sentinels) rather than the generic
	// f64 promotion used for narrower integers.
	ClassWide
)

// All lists every Dtype, in declaration order. Used by the CLI to look
// up a --dtype flag value by name.
var All = []Dtype{I8, U8, I16, U16, I32, U32, F32, F64, I64, U64}

// Size returns the element size, in bytes.
func (d Dtype) Size() int {
	switch d {
	case I8, U8:
		return 1
	case I16, U16:
		return 2
	case I32, U32, F32:
		return 4
	case F64, I64, U64:
		return 8
	default:
		panic(fmt.Sprintf("dtype: unknown dtype %d", d))
	}
}

// Class reports which arithmetic family d belongs to.
func (d Dtype) Class() Class {
	switch d {
	case F32, F64:
		return ClassFloat
	case I64, U64:
		return ClassWide
	default:
		return ClassInteger
	}
}

// IsFloat reports whether d is a floating-point dtype.
func (d Dtype) IsFloat() bool { return d.Class() == ClassFloat }

// IsWide reports whether d is one of the 64-bit integer dtypes that use
// the dedicated wide-integer arithmetic path (spec §3, §4.C).
func (d Dtype) IsWide() bool { return d.Class() == ClassWide }

// Signed reports whether d's integer representation is signed. Floats
// are considered signed.
func (d Dtype) Signed() bool {
	switch d {
	case U8, U16, U32, U64:
		return false
	default:
		return true
	}
}

// WideExtremes returns the (+max, -max) sentinel pair spec §3/§4.C use
// for wide-integer division by zero. Only meaningful for I64/U64; for
// U64 the "negative" extreme collapses to 0 because unsigned values
// cannot be negative, mirroring how the reference runtime this spec is
// drawn from never actually surfaces a negative wide-integer sentinel
// for unsigned dtypes.
func (d Dtype) WideExtremes() (max, min int64) {
	switch d {
	case I64:
		return 1<<63 - 1, -(1<<63 - 1)
	case U64:
		// int64 cannot represent math.MaxUint64; callers needing the
		// unsigned sentinel use WideExtremesU64 instead.
		return 1<<63 - 1, 0
	default:
		panic(fmt.Sprintf("dtype: WideExtremes called on non-wide dtype %v", d))
	}
}

// WideExtremesU64 is the unsigned counterpart of WideExtremes, used by
// the U64 division path where the positive sentinel does not fit in an
// int64.
func WideExtremesU64() (max, min uint64) {
	return ^uint64(0), 0
}

func (d Dtype) String() string {
	switch d {
	case I8:
		return "i8"
	case U8:
		return "u8"
	case I16:
		return "i16"
	case U16:
		return "u16"
	case I32:
		return "i32"
	case U32:
		return "u32"
	case F32:
		return "f32"
	case F64:
		return "f64"
	case I64:
		return "i64"
	case U64:
		return "u64"
	default:
		return fmt.Sprintf("dtype(%d)", uint8(d))
	}
}
