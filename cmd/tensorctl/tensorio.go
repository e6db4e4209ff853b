package main

import (
	"encoding/json"
	"fmt"

	"github.com/hyperifyio/tensorcore/pkg/dtype"
	"github.com/hyperifyio/tensorcore/pkg/tensor"
)

// parseDtype maps a --dtype flag value to a dtype.Dtype, defaulting to
// f64 (the type a bare JSON number literal maps to most naturally).
func parseDtype(name string) (dtype.Dtype, error) {
	if name == "" {
		return dtype.F64, nil
	}
	for _, d := range dtype.All {
		if d.String() == name {
			return d, nil
		}
	}
	return 0, fmt.Errorf("unknown dtype %q (want one of i8,u8,i16,u16,i32,u32,f32,f64,i64,u64)", name)
}

// tensorFromJSON decodes a nested JSON array literal (e.g. "[[1,2],[3,4]]")
// into a tensor of the given dtype, inferring shape from nesting depth the
// way the spec's example scenarios write tensors (spec.md §8).
func tensorFromJSON(dt dtype.Dtype, literal string) (*tensor.Tensor, error) {
	var raw interface{}
	if err := json.Unmarshal([]byte(literal), &raw); err != nil {
		return nil, fmt.Errorf("invalid tensor literal: %w", err)
	}
	shape, flat, err := flatten(raw)
	if err != nil {
		return nil, err
	}
	return buildTensor(dt, shape, flat)
}

// flatten walks a nested []interface{}/float64 JSON value, validating that
// every level of nesting has uniform length, and returns the inferred
// shape plus the row-major flattened float64 values.
func flatten(v interface{}) ([]int, []float64, error) {
	switch x := v.(type) {
	case float64:
		return nil, []float64{x}, nil
	case []interface{}:
		if len(x) == 0 {
			return []int{0}, nil, nil
		}
		var shape []int
		var flat []float64
		for i, el := range x {
			s, f, err := flatten(el)
			if err != nil {
				return nil, nil, err
			}
			if i == 0 {
				shape = s
			} else if !equalInts(shape, s) {
				return nil, nil, fmt.Errorf("ragged tensor literal: element %d has shape %v, want %v", i, s, shape)
			}
			flat = append(flat, f...)
		}
		return append([]int{len(x)}, shape...), flat, nil
	default:
		return nil, nil, fmt.Errorf("tensor literal must be nested arrays of numbers, got %T", v)
	}
}

func equalInts(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func buildTensor(dt dtype.Dtype, shape []int, flat []float64) (*tensor.Tensor, error) {
	switch dt {
	case dtype.I8:
		return fromFloats[int8](dt, shape, flat)
	case dtype.U8:
		return fromFloats[uint8](dt, shape, flat)
	case dtype.I16:
		return fromFloats[int16](dt, shape, flat)
	case dtype.U16:
		return fromFloats[uint16](dt, shape, flat)
	case dtype.I32:
		return fromFloats[int32](dt, shape, flat)
	case dtype.U32:
		return fromFloats[uint32](dt, shape, flat)
	case dtype.F32:
		return fromFloats[float32](dt, shape, flat)
	case dtype.F64:
		return fromFloats[float64](dt, shape, flat)
	case dtype.I64:
		return fromFloats[int64](dt, shape, flat)
	case dtype.U64:
		return fromFloats[uint64](dt, shape, flat)
	default:
		return nil, fmt.Errorf("unsupported dtype %v", dt)
	}
}

func fromFloats[T dtype.Numeric](dt dtype.Dtype, shape []int, flat []float64) (*tensor.Tensor, error) {
	data := make([]T, len(flat))
	for i, v := range flat {
		data[i] = T(v)
	}
	return tensor.FromSlice(dt, data, shape)
}

// tensorToJSON renders t as a nested JSON array, the inverse of
// tensorFromJSON, for printing a CLI result.
func tensorToJSON(t *tensor.Tensor) (string, error) {
	v, err := toNested(t, t.Shape(), nil)
	if err != nil {
		return "", err
	}
	out, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

func toNested(t *tensor.Tensor, shape []int, prefix []int) (interface{}, error) {
	if len(shape) == 0 {
		v, err := t.Get(prefix)
		if err != nil {
			return nil, err
		}
		if t.Dtype().IsFloat() {
			return v, nil
		}
		return int64(v), nil
	}
	out := make([]interface{}, shape[0])
	for i := 0; i < shape[0]; i++ {
		child, err := toNested(t, shape[1:], append(append([]int(nil), prefix...), i))
		if err != nil {
			return nil, err
		}
		out[i] = child
	}
	return out, nil
}
