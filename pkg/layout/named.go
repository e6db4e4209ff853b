package layout

// Shape is a dimension-sized, row-major-strided shape with optional
// per-dimension names. The names are a diagnostic supplement (SPEC_FULL
// §3): the einops resolver attaches the axis name it bound to each
// output dimension so callers and the CLI can print readable shapes, but
// nothing in the core's correctness depends on them.
//
// Grounded on emer-etable's Shape
// (other_examples/.../etensor-shape.go.go): Shp/Strd/Nms fields, a
// SetShape constructor that infers row-major strides when none are
// given, and name-indexed lookups.
type Shape struct {
	Dims    []int
	Strides []int
	Names   []string
}

// New builds a Shape with row-major strides and empty names.
func New(dims []int) *Shape {
	return &Shape{
		Dims:    append([]int(nil), dims...),
		Strides: ComputeStrides(dims),
		Names:   make([]string, len(dims)),
	}
}

// NewWithStrides builds a Shape with explicit (possibly non-row-major,
// e.g. broadcast-expanded with stride 0) strides.
func NewWithStrides(dims, strides []int) *Shape {
	return &Shape{
		Dims:    append([]int(nil), dims...),
		Strides: append([]int(nil), strides...),
		Names:   make([]string, len(dims)),
	}
}

// Rank returns the number of dimensions.
func (s *Shape) Rank() int { return len(s.Dims) }

// Len returns the total element count.
func (s *Shape) Len() int { return Len(s.Dims) }

// IsContiguous reports whether s.Strides is the row-major stride set for
// s.Dims.
func (s *Shape) IsContiguous() bool { return IsContiguous(s.Dims, s.Strides) }

// WithNames returns a copy of s with Names set to names. len(names) must
// equal s.Rank(); a shorter slice is padded with empty strings.
func (s *Shape) WithNames(names []string) *Shape {
	out := &Shape{Dims: s.Dims, Strides: s.Strides, Names: make([]string, len(s.Dims))}
	copy(out.Names, names)
	return out
}

// DimName returns the name bound to dimension i, or "" if unnamed.
func (s *Shape) DimName(i int) string {
	if i < 0 || i >= len(s.Names) {
		return ""
	}
	return s.Names[i]
}

// DimIndexByName returns the index of the first dimension named name,
// or -1 if none matches.
func (s *Shape) DimIndexByName(name string) int {
	for i, n := range s.Names {
		if n == name {
			return i
		}
	}
	return -1
}

// Clone returns a deep copy of s.
func (s *Shape) Clone() *Shape {
	return &Shape{
		Dims:    append([]int(nil), s.Dims...),
		Strides: append([]int(nil), s.Strides...),
		Names:   append([]string(nil), s.Names...),
	}
}
