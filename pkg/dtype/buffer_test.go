package dtype

import "testing"

func TestAllocateAndByteLen(t *testing.T) {
	b := Allocate(16)
	if b.ByteLen() != 16 {
		t.Fatalf("ByteLen() = %d, want 16", b.ByteLen())
	}
	if b.Disposed() {
		t.Fatalf("freshly allocated buffer reported as disposed")
	}
}

func TestDisposeIsIdempotent(t *testing.T) {
	b := Allocate(8)
	b.Dispose()
	if !b.Disposed() {
		t.Fatalf("buffer not disposed after Dispose()")
	}
	b.Dispose() // must not panic
}

func TestCloneIsIndependent(t *testing.T) {
	b := Allocate(4)
	view := MustTypedView[uint8](b)
	view[0] = 42

	clone := b.Clone()
	cloneView := MustTypedView[uint8](clone)
	cloneView[0] = 7

	if view[0] != 42 {
		t.Fatalf("mutating clone affected original: got %d, want 42", view[0])
	}
}

func TestWriteFromLengthMismatch(t *testing.T) {
	b := Allocate(4)
	if err := b.WriteFrom([]byte{1, 2, 3}); err == nil {
		t.Fatalf("expected error on length mismatch")
	}
	if err := b.WriteFrom([]byte{1, 2, 3, 4}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestTypedViewRejectsMisalignedLength(t *testing.T) {
	b := Allocate(6) // not a multiple of 4 (float32)
	if _, err := TypedView[float32](b); err == nil {
		t.Fatalf("expected DtypeError for misaligned buffer length")
	}
}

func TestTypedViewAliasesBuffer(t *testing.T) {
	b := Allocate(4 * 3)
	view, err := TypedView[float32](b)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(view) != 3 {
		t.Fatalf("len(view) = %d, want 3", len(view))
	}
	view[1] = 3.5

	view2 := MustTypedView[float32](b)
	if view2[1] != 3.5 {
		t.Fatalf("TypedView did not alias the buffer: got %v", view2[1])
	}
}
