package device

import "testing"

func TestAllocateReadWrite(t *testing.T) {
	d := New()
	h, err := d.Allocate(4)
	if err != nil {
		t.Fatalf("Allocate: %v", err)
	}

	want := []byte{1, 2, 3, 4}
	if err := d.Write(h, want); err != nil {
		t.Fatalf("Write: %v", err)
	}

	got, err := d.Read(h)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if len(got) != len(want) {
		t.Fatalf("Read returned %d bytes, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("byte %d: got %d, want %d", i, got[i], want[i])
		}
	}
}

func TestReadIsACopy(t *testing.T) {
	d := New()
	h, _ := d.Allocate(2)
	_ = d.Write(h, []byte{9, 9})

	got, _ := d.Read(h)
	got[0] = 0

	again, _ := d.Read(h)
	if again[0] != 9 {
		t.Fatalf("mutating a Read result affected the device's backing buffer")
	}
}

func TestWriteLengthMismatchErrors(t *testing.T) {
	d := New()
	h, _ := d.Allocate(4)
	if err := d.Write(h, []byte{1, 2}); err == nil {
		t.Fatal("expected an error writing 2 bytes into a 4-byte allocation")
	}
}

func TestAllocateNegativeLengthErrors(t *testing.T) {
	d := New()
	if _, err := d.Allocate(-1); err == nil {
		t.Fatal("expected an error for a negative byte length")
	}
}

func TestDisposeThenLookupErrors(t *testing.T) {
	d := New()
	h, _ := d.Allocate(4)
	d.Dispose(h)

	if _, err := d.Read(h); err == nil {
		t.Fatal("expected an error reading a disposed handle")
	}
	if err := d.Write(h, []byte{1, 2, 3, 4}); err == nil {
		t.Fatal("expected an error writing a disposed handle")
	}
}

func TestDisposeIsIdempotent(t *testing.T) {
	d := New()
	h, _ := d.Allocate(4)
	d.Dispose(h)
	d.Dispose(h) // must not panic
}

func TestDisposeUnknownHandleIsNoop(t *testing.T) {
	d := New()
	d.Dispose(Handle(999)) // must not panic
}

func TestUnknownHandleErrors(t *testing.T) {
	d := New()
	if _, err := d.Read(Handle(42)); err == nil {
		t.Fatal("expected an error reading a never-allocated handle")
	}
}

func TestAdoptRegistersBufferUnderFreshHandle(t *testing.T) {
	d := New()
	h1, _ := d.Allocate(4)
	_ = d.Write(h1, []byte{1, 2, 3, 4})
	buf, err := d.Buffer(h1)
	if err != nil {
		t.Fatalf("Buffer: %v", err)
	}

	h2 := d.Adopt(buf)
	if h2 == h1 {
		t.Fatalf("Adopt returned the same handle as the original allocation")
	}

	got, err := d.Read(h2)
	if err != nil {
		t.Fatalf("Read(h2): %v", err)
	}
	want := []byte{1, 2, 3, 4}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("byte %d: got %d, want %d", i, got[i], want[i])
		}
	}
}
