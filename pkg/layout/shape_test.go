package layout

import (
	"reflect"
	"testing"
)

func TestComputeStrides(t *testing.T) {
	tests := []struct {
		name  string
		shape []int
		want  []int
	}{
		{"rank1", []int{5}, []int{1}},
		{"rank2", []int{2, 3}, []int{3, 1}},
		{"rank3", []int{2, 4, 6}, []int{24, 6, 1}},
		{"scalar", []int{}, []int{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeStrides(tt.shape)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ComputeStrides(%v) = %v, want %v", tt.shape, got, tt.want)
			}
		})
	}
}

func TestIsContiguous(t *testing.T) {
	if !IsContiguous([]int{2, 3}, []int{3, 1}) {
		t.Error("expected row-major strides to be contiguous")
	}
	if IsContiguous([]int{2, 3}, []int{1, 2}) {
		t.Error("expected transposed strides to be non-contiguous")
	}
}

func TestBroadcastShapes(t *testing.T) {
	tests := []struct {
		name    string
		a, b    []int
		want    []int
		wantErr bool
	}{
		{"same shape", []int{2, 3}, []int{2, 3}, []int{2, 3}, false},
		{"row vector", []int{1, 3}, []int{2, 3}, []int{2, 3}, false},
		{"outer product", []int{4, 1}, []int{1, 5}, []int{4, 5}, false},
		{"rank mismatch pads", []int{3}, []int{2, 3}, []int{2, 3}, false},
		{"incompatible", []int{2, 3}, []int{2, 4}, nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := BroadcastShapes(tt.a, tt.b)
			if (err != nil) != tt.wantErr {
				t.Fatalf("BroadcastShapes(%v, %v) error = %v, wantErr %v", tt.a, tt.b, err, tt.wantErr)
			}
			if !tt.wantErr && !reflect.DeepEqual(got, tt.want) {
				t.Errorf("BroadcastShapes(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestFlatToCoordAndBack(t *testing.T) {
	shape := []int{2, 3, 4}
	stride := ComputeStrides(shape)
	for flat := 0; flat < Len(shape); flat++ {
		coord := FlatToCoord(flat, shape)
		got := CoordToFlat(coord, stride)
		if got != flat {
			t.Errorf("round-trip failed for flat=%d: coord=%v, back=%d", flat, coord, got)
		}
	}
}

func TestBroadcastIterDeterministicOrder(t *testing.T) {
	// add(ones([2,1]), ones([1,3])) should visit output coords in
	// row-major order, broadcasting the size-1 dims to index 0.
	outShape := []int{2, 3}
	it := NewIter(outShape, [][]int{{2, 1}, {1, 3}})

	var gotA, gotB [][]int
	var flats []int
	for {
		flat, coords, ok := it.Next()
		if !ok {
			break
		}
		flats = append(flats, flat)
		gotA = append(gotA, coords[0])
		gotB = append(gotB, coords[1])
	}

	wantFlats := []int{0, 1, 2, 3, 4, 5}
	if !reflect.DeepEqual(flats, wantFlats) {
		t.Fatalf("flat order = %v, want %v", flats, wantFlats)
	}

	wantA := [][]int{{0, 0}, {0, 0}, {0, 0}, {1, 0}, {1, 0}, {1, 0}}
	wantB := [][]int{{0, 0}, {0, 1}, {0, 2}, {0, 0}, {0, 1}, {0, 2}}
	if !reflect.DeepEqual(gotA, wantA) {
		t.Errorf("A coords = %v, want %v", gotA, wantA)
	}
	if !reflect.DeepEqual(gotB, wantB) {
		t.Errorf("B coords = %v, want %v", gotB, wantB)
	}
}

func TestNamedShape(t *testing.T) {
	s := New([]int{2, 3}).WithNames([]string{"h", "w"})
	if s.DimName(0) != "h" || s.DimName(1) != "w" {
		t.Fatalf("names not preserved: %v", s.Names)
	}
	if s.DimIndexByName("w") != 1 {
		t.Fatalf("DimIndexByName(w) = %d, want 1", s.DimIndexByName("w"))
	}
	if s.DimIndexByName("missing") != -1 {
		t.Fatalf("expected -1 for missing name")
	}
	if !s.IsContiguous() {
		t.Fatalf("freshly built shape should be contiguous")
	}
}
