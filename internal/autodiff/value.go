package autodiff

import (
	"fmt"

	"github.com/zx0502/minpy/internal/tensor"
)

// Value is anything the engine can compute with. It is implemented by
// *tensor.Array (a concrete value) and *Box (a value being traced).
type Value interface {
	Shape() tensor.Shape
	Size() int
	NDim() int
}

var (
	_ Value = (*tensor.Array)(nil)
	_ Value = (*Box)(nil)
)

// Box is a value recorded in a trace. The wrapped value is one level
// unboxed: under nested differentiation it is itself a Box of an enclosing
// trace.
type Box struct {
	value Value
	node  *Node
	trace *Trace
}

// Shape returns the shape of the wrapped value.
func (b *Box) Shape() tensor.Shape {
	return b.value.Shape()
}

// Size returns the number of elements of the wrapped value.
func (b *Box) Size() int {
	return b.value.Size()
}

// NDim returns the number of dimensions of the wrapped value.
func (b *Box) NDim() int {
	return b.value.NDim()
}

// Unbox returns the wrapped value.
func (b *Box) Unbox() Value {
	return b.value
}

// Node returns the graph node that produced this value.
func (b *Box) Node() *Node {
	return b.node
}

// Trace returns the trace this value belongs to.
func (b *Box) Trace() *Trace {
	return b.trace
}

// String returns a human-readable representation of the box.
func (b *Box) String() string {
	return fmt.Sprintf("Box(%v, trace=%d, node=%d)", b.value, b.trace.level, b.node.ID)
}

// Concrete strips every level of boxing and returns the underlying array.
// It panics on Value implementations the engine does not know.
func Concrete(v Value) *tensor.Array {
	for {
		switch x := v.(type) {
		case *tensor.Array:
			return x
		case *Box:
			v = x.value
		default:
			panic(fmt.Errorf("%w: %T", ErrUnsupportedValue, v))
		}
	}
}

// live strips boxes whose trace has already been closed, so values that
// escaped a finished Grad call behave like the values they wrap.
func live(v Value) Value {
	for {
		b, ok := v.(*Box)
		if !ok || !b.trace.closed.Load() {
			return v
		}
		v = b.value
	}
}
