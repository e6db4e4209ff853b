package plan

import (
	"github.com/hyperifyio/tensorcore/pkg/kernel"
	"github.com/hyperifyio/tensorcore/pkg/tensor"
	"github.com/hyperifyio/tensorcore/pkg/terrors"
)

// Execute runs p's steps against in, in order, and returns the final
// tensor. Each step dispatches to the corresponding pkg/tensor view
// operation or pkg/kernel primitive.
func Execute(p *Plan, in *tensor.Tensor) (*tensor.Tensor, error) {
	cur := in
	for _, step := range p.Steps {
		next, err := executeStep(step, cur)
		if err != nil {
			return nil, err
		}
		cur = next
	}
	return cur, nil
}

func executeStep(step Step, cur *tensor.Tensor) (*tensor.Tensor, error) {
	switch step.Kind {
	case Identity:
		return cur, nil
	case Reshape:
		return tensor.Reshape(cur, step.Shape)
	case Permute:
		return tensor.Permute(cur, step.Perm)
	case Expand:
		return tensor.Expand(cur, step.Shape)
	case ReduceStep:
		return kernel.Reduce(step.ReduceOp, cur, step.ReduceAxes, step.KeepDims)
	default:
		return nil, terrors.New(terrors.ShapeError, "unrecognized plan step kind %d", step.Kind)
	}
}
