package autodiff

import (
	"sync/atomic"
)

// traceLevels hands out increasing levels; a trace started later (an inner,
// nested trace) always has a larger level than the traces enclosing it.
var traceLevels atomic.Uint64

// Node is a vertex of the computation graph recorded by a Trace.
//
// Invariant: every parent has a strictly smaller ID than the node itself,
// so the graph is acyclic and ID order is a topological order.
type Node struct {
	ID      int        // Position in the trace
	Prim    *Primitive // Producing primitive, nil for leaves
	Attrs   Attrs      // Static parameters of the primitive call
	Parents []*Node    // Operand nodes, in argument order
	Value   Value      // Forward value, unboxed one level

	adjoint Value // Accumulated adjoint, nil until something flows in
}

// IsLeaf reports whether the node is an input rather than a primitive result.
func (n *Node) IsLeaf() bool {
	return n.Prim == nil
}

// Adjoint returns the adjoint accumulated by the last backward pass, or nil.
func (n *Node) Adjoint() Value {
	return n.adjoint
}

// Trace records the computation graph of one forward evaluation.
//
// A Trace is owned by a single Grad call: it is created when the call starts
// and closed when it returns. It is not safe for concurrent use, but
// independent traces never share state.
//
// Usage:
//
//	trace := NewTrace()
//	defer trace.Close()
//	x := trace.NewLeaf(input)
//	// ... apply primitives to x ...
//	nodes := trace.Finish(output.Node())
//	adjoints, err := Backward(DefaultRegistry, nodes, output.Node(), nil)
type Trace struct {
	level  uint64
	nodes  []*Node
	closed atomic.Bool
}

// NewTrace begins a new, empty trace context.
func NewTrace() *Trace {
	return &Trace{
		level: traceLevels.Add(1),
		nodes: make([]*Node, 0, 64), // Pre-allocate for common case
	}
}

// Level returns the nesting level of the trace.
func (t *Trace) Level() uint64 {
	return t.level
}

// NumNodes returns the number of recorded nodes, leaves included.
func (t *Trace) NumNodes() int {
	return len(t.nodes)
}

// Close ends the trace. Boxes of a closed trace are treated as the values
// they wrap by later primitive applications.
func (t *Trace) Close() {
	t.closed.Store(true)
}

// NewLeaf records v as an input of the traced computation and returns the
// boxed value to feed into the function being differentiated.
func (t *Trace) NewLeaf(v Value) *Box {
	return &Box{value: v, node: t.leaf(v), trace: t}
}

func (t *Trace) leaf(v Value) *Node {
	return t.record(nil, Attrs{}, nil, v)
}

func (t *Trace) record(p *Primitive, attrs Attrs, parents []*Node, value Value) *Node {
	n := &Node{
		ID:      len(t.nodes),
		Prim:    p,
		Attrs:   attrs,
		Parents: parents,
		Value:   value,
	}
	t.nodes = append(t.nodes, n)
	return n
}

// Finish returns the nodes reachable backward from output in topological
// order (ascending ID). Nodes that did not contribute to output are left out.
// It returns nil if output was not recorded by t.
func (t *Trace) Finish(output *Node) []*Node {
	if output == nil || output.ID >= len(t.nodes) || t.nodes[output.ID] != output {
		return nil
	}

	reachable := make([]bool, output.ID+1)
	reachable[output.ID] = true
	count := 0

	// Parents always precede their children, so one descending sweep marks
	// the whole ancestry.
	for id := output.ID; id >= 0; id-- {
		if !reachable[id] {
			continue
		}
		count++
		for _, p := range t.nodes[id].Parents {
			reachable[p.ID] = true
		}
	}

	order := make([]*Node, 0, count)
	for id, ok := range reachable {
		if ok {
			order = append(order, t.nodes[id])
		}
	}
	return order
}
