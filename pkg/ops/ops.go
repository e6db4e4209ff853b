// Package ops implements the execute(op_descriptor, inputs[], output?)
// dispatcher spec §6 defines as the core's operation interface: it
// validates that every input (and the optional caller-supplied output)
// lives on the target Device, converts device handles to *tensor.Tensor
// views, dispatches to pkg/kernel/pkg/tensor/pkg/einops, and adopts the
// result back onto the Device.
//
// Grounded on the Engine/StdEng delegation shape of
// csotherden-gorgonia-mps's mps/engine.go (a descriptor dispatched
// through a small switch to a concrete backend) and on
// github.com/hyperifyio/gnd's pkg/core/interpreter_impl.go, whose
// Instruction→opcode→handler dispatch is the same "one descriptor, one
// switch, one handler per case" shape generalized here from string
// opcodes to a typed Kind enum.
package ops

import (
	"github.com/hyperifyio/tensorcore/pkg/device"
	"github.com/hyperifyio/tensorcore/pkg/dtype"
	"github.com/hyperifyio/tensorcore/pkg/einops"
	"github.com/hyperifyio/tensorcore/pkg/kernel"
	"github.com/hyperifyio/tensorcore/pkg/tensor"
	"github.com/hyperifyio/tensorcore/pkg/terrors"
)

// Kind enumerates the op_descriptor variants spec §6 lists.
type Kind int

const (
	Create Kind = iota
	Neg
	Abs
	Sin
	Cos
	Exp
	Log
	Sqrt
	Square
	Add
	Sub
	Mul
	Div
	Reshape
	View
	Flatten
	Slice
	Transpose
	Permute
	MatMul
	Softmax
	LogSoftmax
	Sum
	Mean
	EinopsRearrange
	EinopsReduce
	EinopsRepeat
)

// Descriptor carries op_descriptor plus whichever of its parameters
// Kind requires; only the fields relevant to Kind are read.
type Descriptor struct {
	Kind Kind

	// Create
	Dtype dtype.Dtype
	Shape []int
	Bytes []byte // optional initial payload, raw little-endian element bytes

	// Reshape/View/Flatten target shape (Flatten ignores this)
	TargetShape []int

	// Slice
	Starts, Ends []int

	// Transpose/Permute
	Perm []int

	// Softmax/LogSoftmax
	Axis int

	// Sum/Mean: nil means global reduction, non-nil empty means
	// identity copy, per spec §4.C.
	Axes     []int
	KeepDims bool

	// Einops*
	Pattern   string
	AxisSizes map[string]int
	ReduceOp  kernel.ReduceOp
}

// Tensor is the device-bound tensor handle Execute consumes and
// returns: a device.Handle plus the dtype/shape/stride/offset metadata
// spec §3 says a tensor handle carries, so that the same buffer can be
// reinterpreted by consecutive ops without a read/write round trip.
type Tensor struct {
	Dev    *device.Device
	Buf    device.Handle
	Dtype  dtype.Dtype
	Shape  []int
	Stride []int
	Offset int
}

// Execute runs the operation named by desc.Kind against inputs (and,
// for Create, no inputs) on dev, per spec §6. If output is non-nil, the
// result is written into its existing buffer instead of a freshly
// allocated one; output's device and byte length must match what the
// operation produces (a DeviceError/IO error otherwise).
func Execute(dev *device.Device, desc Descriptor, inputs []*Tensor, output *Tensor) (*Tensor, error) {
	for i, in := range inputs {
		if in.Dev != dev {
			return nil, terrors.New(terrors.DeviceError, "execute: input %d is on a different device", i)
		}
	}
	if output != nil && output.Dev != dev {
		return nil, terrors.New(terrors.DeviceError, "execute: output handle is on a different device")
	}

	ts := make([]*tensor.Tensor, len(inputs))
	for i, in := range inputs {
		t, err := toTensor(in)
		if err != nil {
			return nil, err
		}
		ts[i] = t
	}

	result, err := dispatch(desc, ts)
	if err != nil {
		return nil, err
	}

	if output == nil {
		return wrap(dev, result), nil
	}
	return writeInto(dev, output, result)
}

func dispatch(desc Descriptor, ts []*tensor.Tensor) (*tensor.Tensor, error) {
	switch desc.Kind {
	case Create:
		return create(desc)
	case Neg, Abs, Sin, Cos, Exp, Log, Sqrt, Square:
		return kernel.Unary(unaryOpOf(desc.Kind), arg(ts, 0))
	case Add, Sub, Mul, Div:
		return kernel.Binary(binaryOpOf(desc.Kind), arg(ts, 0), arg(ts, 1))
	case Reshape, View:
		return tensor.Reshape(arg(ts, 0), desc.TargetShape)
	case Flatten:
		return tensor.Flatten(arg(ts, 0))
	case Slice:
		return tensor.MaterializeSlice(arg(ts, 0), desc.Starts, desc.Ends)
	case Transpose:
		return tensor.Transpose(arg(ts, 0))
	case Permute:
		return tensor.Permute(arg(ts, 0), desc.Perm)
	case MatMul:
		return kernel.MatMul(arg(ts, 0), arg(ts, 1))
	case Softmax:
		return kernel.Softmax(arg(ts, 0), desc.Axis)
	case LogSoftmax:
		return kernel.LogSoftmax(arg(ts, 0), desc.Axis)
	case Sum:
		return kernel.Reduce(kernel.Sum, arg(ts, 0), desc.Axes, desc.KeepDims)
	case Mean:
		return kernel.Reduce(kernel.Mean, arg(ts, 0), desc.Axes, desc.KeepDims)
	case EinopsRearrange:
		return einops.Rearrange(arg(ts, 0), desc.Pattern, desc.AxisSizes)
	case EinopsReduce:
		return einops.Reduce(arg(ts, 0), desc.Pattern, desc.ReduceOp, desc.AxisSizes, desc.KeepDims)
	case EinopsRepeat:
		return einops.Repeat(arg(ts, 0), desc.Pattern, desc.AxisSizes)
	default:
		return nil, terrors.New(terrors.ShapeError, "execute: unrecognized op kind %d", desc.Kind)
	}
}

func arg(ts []*tensor.Tensor, i int) *tensor.Tensor {
	if i >= len(ts) {
		return nil
	}
	return ts[i]
}

func create(desc Descriptor) (*tensor.Tensor, error) {
	t := tensor.New(desc.Dtype, desc.Shape)
	if desc.Bytes != nil {
		if err := t.Buffer().WriteFrom(desc.Bytes); err != nil {
			return nil, err
		}
	}
	return t, nil
}

func unaryOpOf(k Kind) kernel.UnaryOp {
	switch k {
	case Neg:
		return kernel.Neg
	case Abs:
		return kernel.Abs
	case Square:
		return kernel.Square
	case Sqrt:
		return kernel.Sqrt
	case Exp:
		return kernel.Exp
	case Log:
		return kernel.Log
	case Sin:
		return kernel.Sin
	case Cos:
		return kernel.Cos
	default:
		panic("ops: unaryOpOf called on non-unary kind")
	}
}

func binaryOpOf(k Kind) kernel.BinaryOp {
	switch k {
	case Add:
		return kernel.Add
	case Sub:
		return kernel.Sub
	case Mul:
		return kernel.Mul
	case Div:
		return kernel.Div
	default:
		panic("ops: binaryOpOf called on non-binary kind")
	}
}

// toTensor builds a *tensor.Tensor view over t's device-owned buffer.
func toTensor(t *Tensor) (*tensor.Tensor, error) {
	buf, err := t.Dev.Buffer(t.Buf)
	if err != nil {
		return nil, err
	}
	return tensor.NewView(buf, t.Dtype, t.Shape, t.Stride, t.Offset), nil
}

// wrap adopts a freshly computed tensor's buffer onto dev without
// copying, per spec §5 ("Device data allocated for an operation is
// owned by the caller after the op returns").
func wrap(dev *device.Device, t *tensor.Tensor) *Tensor {
	h := dev.Adopt(t.Buffer())
	return &Tensor{Dev: dev, Buf: h, Dtype: t.Dtype(), Shape: t.Shape(), Stride: t.Stride(), Offset: t.Offset()}
}

// writeInto copies result's logical contents into output's existing
// buffer, validating that the byte lengths match first (spec §6: "If
// output is supplied, its device and byte length must match the
// declared output metadata").
func writeInto(dev *device.Device, output *Tensor, result *tensor.Tensor) (*Tensor, error) {
	contiguous := result
	if !result.IsContiguous() {
		contiguous = result.Clone()
	}
	outBuf, err := dev.Buffer(output.Buf)
	if err != nil {
		return nil, err
	}
	if outBuf.ByteLen() != contiguous.Buffer().ByteLen() {
		return nil, terrors.New(terrors.DeviceError, "execute: output buffer is %d bytes, result is %d bytes", outBuf.ByteLen(), contiguous.Buffer().ByteLen())
	}
	if err := dev.Write(output.Buf, contiguous.Buffer().Bytes()); err != nil {
		return nil, err
	}
	return &Tensor{
		Dev:    dev,
		Buf:    output.Buf,
		Dtype:  contiguous.Dtype(),
		Shape:  contiguous.Shape(),
		Stride: contiguous.Stride(),
		Offset: 0,
	}, nil
}
