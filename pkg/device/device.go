// Package device implements the reference Device collaborator spec §6
// describes as external to the core: allocate/read/write/dispose over
// opaque handles. The core (pkg/tensor, pkg/kernel, pkg/einops) never
// imports this package; it exists so the pkg/ops dispatcher and its
// tests have a concrete, in-process Device to hand tensors through at
// the boundary spec §3 calls out ("readers obtain read-only access via
// a copy at the boundary when crossing external interfaces").
//
// Grounded on the handle-table shape of github.com/hyperifyio/gnd's
// pkg/bitnet/internal/model.ModelLoader (a mutex-guarded registry handed
// out as opaque resources) generalized from one fixed model file to an
// arbitrary number of independently allocated buffers.
package device

import (
	"sync"

	"github.com/hyperifyio/tensorcore/pkg/dtype"
	"github.com/hyperifyio/tensorcore/pkg/terrors"
)

// Handle identifies a buffer allocated by a Device. The zero Handle is
// never issued by Allocate, so it can be used as a caller-side sentinel
// for "no handle".
type Handle int

// Device is an in-process reference implementation of the allocate/
// read/write/dispose contract spec §6 requires of the core's device
// collaborator. It is safe for concurrent use.
type Device struct {
	mu      sync.Mutex
	buffers map[Handle]*dtype.Buffer
	next    Handle
}

// New returns an empty Device with no allocated handles.
func New() *Device {
	return &Device{buffers: make(map[Handle]*dtype.Buffer)}
}

// Allocate reserves byteLen zero-filled bytes and returns a handle to
// them (spec §6: "allocate(byte_len) -> handle").
func (d *Device) Allocate(byteLen int) (Handle, error) {
	if byteLen < 0 {
		return 0, terrors.New(terrors.IO, "allocate: negative byte length %d", byteLen)
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.next++
	h := d.next
	d.buffers[h] = dtype.Allocate(byteLen)
	return h, nil
}

// Adopt registers an already-allocated buffer under a fresh handle
// without copying it. Used by in-process callers (pkg/ops) to hand a
// kernel's freshly materialized output buffer to a Device, per spec §5
// ("Device data allocated for an operation is owned by the caller after
// the op returns") — the buffer crosses from kernel-owned to
// device-owned without a copy, since both sides are in the same
// process.
func (d *Device) Adopt(buf *dtype.Buffer) Handle {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.next++
	h := d.next
	d.buffers[h] = buf
	return h
}

// Read returns a fresh copy of h's bytes (spec §6: "read(handle) ->
// bytes (returns a fresh copy)").
func (d *Device) Read(h Handle) ([]byte, error) {
	buf, err := d.lookup(h)
	if err != nil {
		return nil, err
	}
	return buf.ReadCopy(), nil
}

// Write overwrites h's contents with data, which must exactly match h's
// allocated byte length (spec §6: "write(handle, bytes) (validates
// length)").
func (d *Device) Write(h Handle, data []byte) error {
	buf, err := d.lookup(h)
	if err != nil {
		return err
	}
	return buf.WriteFrom(data)
}

// Dispose releases h, replacing its buffer with an empty one (spec §6:
// "dispose(handle) (replaces the buffer with an empty one; safe to call
// once)"). Disposing an already-disposed or unknown handle is a no-op.
func (d *Device) Dispose(h Handle) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if buf, ok := d.buffers[h]; ok {
		buf.Dispose()
		delete(d.buffers, h)
	}
}

// Buffer exposes the underlying dtype.Buffer for a handle, for
// in-process callers (pkg/ops) that want to build a tensor.Tensor view
// over device-owned memory without a read/write round trip. External
// collaborators crossing a real process/network boundary should use
// Read/Write instead (spec §3's "copy at the boundary" rule).
func (d *Device) Buffer(h Handle) (*dtype.Buffer, error) {
	return d.lookup(h)
}

func (d *Device) lookup(h Handle) (*dtype.Buffer, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	buf, ok := d.buffers[h]
	if !ok {
		return nil, terrors.New(terrors.DeviceError, "unknown or disposed handle %d", h)
	}
	return buf, nil
}
