package dtype

import (
	"unsafe"

	"github.com/hyperifyio/tensorcore/pkg/terrors"
)

// Numeric lists every concrete Go type a Buffer's typed view can be cast
// to; it mirrors the Dtype enum one-for-one.
type Numeric interface {
	int8 | uint8 | int16 | uint16 | int32 | uint32 | float32 | float64 | int64 | uint64
}

// Buffer is an owned, byte-addressable contiguous region (spec §3,
// §4.A). Cloning produces an independent copy; a zero-length Buffer is a
// disposed handle.
type Buffer struct {
	data []byte
}

// Allocate returns a zero-filled Buffer of the given byte length.
func Allocate(byteLen int) *Buffer {
	if byteLen < 0 {
		byteLen = 0
	}
	return &Buffer{data: make([]byte, byteLen)}
}

// FromBytes wraps an existing byte slice as a Buffer without copying.
// The caller gives up ownership of data.
func FromBytes(data []byte) *Buffer {
	return &Buffer{data: data}
}

// ByteLen returns the buffer's length in bytes.
func (b *Buffer) ByteLen() int {
	if b == nil {
		return 0
	}
	return len(b.data)
}

// Disposed reports whether the buffer has been released (spec §3: "a
// zero-length buffer represents a disposed handle").
func (b *Buffer) Disposed() bool {
	return b == nil || len(b.data) == 0
}

// Clone returns an independent copy of the buffer's bytes.
func (b *Buffer) Clone() *Buffer {
	if b.Disposed() {
		return Allocate(0)
	}
	cp := make([]byte, len(b.data))
	copy(cp, b.data)
	return &Buffer{data: cp}
}

// ReadCopy returns a fresh copy of the buffer's bytes, per the Device
// contract (spec §6: "read(handle) -> bytes (returns a fresh copy)").
func (b *Buffer) ReadCopy() []byte {
	if b.Disposed() {
		return nil
	}
	cp := make([]byte, len(b.data))
	copy(cp, b.data)
	return cp
}

// WriteFrom overwrites the buffer's contents. The length of data must
// exactly match the buffer's byte length.
func (b *Buffer) WriteFrom(data []byte) error {
	if len(data) != len(b.data) {
		return terrors.New(terrors.IO, "write length mismatch: buffer is %d bytes, write is %d bytes", len(b.data), len(data))
	}
	copy(b.data, data)
	return nil
}

// Dispose replaces the buffer's contents with an empty slice. Safe to
// call more than once.
func (b *Buffer) Dispose() {
	if b == nil {
		return
	}
	b.data = nil
}

// Bytes exposes the raw backing slice. Callers within this module treat
// it as mutable only when they are the tensor's producer (spec §5); it
// must not be retained past the buffer's lifetime.
func (b *Buffer) Bytes() []byte {
	if b == nil {
		return nil
	}
	return b.data
}

// TypedView reinterprets the buffer's bytes as a slice of T. The
// buffer's byte length must be an exact multiple of sizeof(T); it is a
// DtypeError otherwise. The returned slice aliases the buffer: writes
// through it are writes to the buffer.
func TypedView[T Numeric](b *Buffer) ([]T, error) {
	var zero T
	elemSize := int(unsafe.Sizeof(zero))
	n := b.ByteLen()
	if n%elemSize != 0 {
		return nil, terrors.New(terrors.DtypeError, "buffer length %d is not a multiple of element size %d", n, elemSize)
	}
	count := n / elemSize
	if count == 0 {
		return []T{}, nil
	}
	return unsafe.Slice((*T)(unsafe.Pointer(&b.data[0])), count), nil
}

// MustTypedView is TypedView without an error return, for call sites
// that have already validated byte length against the requested dtype
// (e.g. freshly allocated tensors).
func MustTypedView[T Numeric](b *Buffer) []T {
	v, err := TypedView[T](b)
	if err != nil {
		panic(err)
	}
	return v
}
