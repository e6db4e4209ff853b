package dtype

import "testing"

func TestSize(t *testing.T) {
	tests := []struct {
		d    Dtype
		want int
	}{
		{I8, 1}, {U8, 1},
		{I16, 2}, {U16, 2},
		{I32, 4}, {U32, 4}, {F32, 4},
		{F64, 8}, {I64, 8}, {U64, 8},
	}
	for _, tt := range tests {
		t.Run(tt.d.String(), func(t *testing.T) {
			if got := tt.d.Size(); got != tt.want {
				t.Errorf("%v.Size() = %d, want %d", tt.d, got, tt.want)
			}
		})
	}
}

func TestClass(t *testing.T) {
	tests := []struct {
		d    Dtype
		want Class
	}{
		{I8, ClassInteger}, {U32, ClassInteger},
		{F32, ClassFloat}, {F64, ClassFloat},
		{I64, ClassWide}, {U64, ClassWide},
	}
	for _, tt := range tests {
		t.Run(tt.d.String(), func(t *testing.T) {
			if got := tt.d.Class(); got != tt.want {
				t.Errorf("%v.Class() = %v, want %v", tt.d, got, tt.want)
			}
		})
	}
}

func TestSigned(t *testing.T) {
	tests := []struct {
		d    Dtype
		want bool
	}{
		{I8, true}, {U8, false},
		{I64, true}, {U64, false},
		{F32, true},
	}
	for _, tt := range tests {
		if got := tt.d.Signed(); got != tt.want {
			t.Errorf("%v.Signed() = %v, want %v", tt.d, got, tt.want)
		}
	}
}

func TestWideExtremes(t *testing.T) {
	max, min := I64.WideExtremes()
	if max != 1<<63-1 || min != -(1<<63-1) {
		t.Errorf("I64.WideExtremes() = (%d, %d)", max, min)
	}

	maxU, minU := WideExtremesU64()
	if maxU != ^uint64(0) || minU != 0 {
		t.Errorf("WideExtremesU64() = (%d, %d)", maxU, minU)
	}
}
