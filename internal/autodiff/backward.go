package autodiff

import (
	"fmt"

	"github.com/zx0502/minpy/internal/tensor"
)

// Backward computes adjoints for the nodes of a finished trace by walking
// them in reverse topological order.
//
// Algorithm:
//  1. Assign seed to the output node (ones for a size-1 output when seed is nil)
//  2. Visit nodes by strictly decreasing ID
//  3. For each node holding an adjoint, apply its primitive's VJPs
//  4. Accumulate contributions into parents with the "add" primitive, so a
//     node consumed more than once receives every contribution
//
// nodes must come from Trace.Finish(output). The returned map holds the
// adjoint of every node something flowed into, keyed by node ID. The
// accumulation goes through primitives, so when adjoints are boxed by an
// enclosing trace the backward pass is itself recorded there.
func Backward(r *Registry, nodes []*Node, output *Node, seed Value) (map[int]Value, error) {
	if seed == nil {
		if output.Value.Size() != 1 {
			return nil, fmt.Errorf("%w: output shape %v", ErrNonScalarOutputWithoutSeed, output.Value.Shape())
		}
		seed = tensor.Ones(output.Value.Shape())
	} else if !seed.Shape().Equal(output.Value.Shape()) {
		return nil, fmt.Errorf("%w: seed %v, output %v", ErrSeedShape, seed.Shape(), output.Value.Shape())
	}

	add, err := r.Lookup("add")
	if err != nil {
		return nil, fmt.Errorf("accumulating adjoints: %w", err)
	}

	for _, n := range nodes {
		n.adjoint = nil
	}
	output.adjoint = seed

	args := make([]Value, 0, 4)
	for i := len(nodes) - 1; i >= 0; i-- {
		node := nodes[i]
		if node.adjoint == nil || node.IsLeaf() {
			continue
		}

		args = args[:0]
		for _, parent := range node.Parents {
			args = append(args, parent.Value)
		}

		for j, parent := range node.Parents {
			contrib := node.Prim.vjps[j](node.adjoint, node.Value, node.Attrs, args)
			if contrib == nil {
				continue
			}
			if !contrib.Shape().Equal(parent.Value.Shape()) {
				return nil, fmt.Errorf("%w: %q input %d: got %v, want %v",
					ErrVJPShape, node.Prim.name, j, contrib.Shape(), parent.Value.Shape())
			}
			if err := accumulate(add, parent, contrib); err != nil {
				return nil, err
			}
		}
	}

	adjoints := make(map[int]Value, len(nodes))
	for _, n := range nodes {
		if n.adjoint != nil {
			adjoints[n.ID] = n.adjoint
		}
	}
	return adjoints, nil
}

// accumulate adds contrib into the adjoint of n.
func accumulate(add *Primitive, n *Node, contrib Value) error {
	if n.adjoint == nil {
		n.adjoint = contrib
		return nil
	}
	sum, err := add.apply(Attrs{}, []Value{n.adjoint, contrib})
	if err != nil {
		return fmt.Errorf("accumulating adjoint of node %d: %w", n.ID, err)
	}
	n.adjoint = sum
	return nil
}
