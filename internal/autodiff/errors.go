package autodiff

import (
	"errors"
	"fmt"
)

// Common errors.
var (
	ErrUnknownPrimitive           = errors.New("unknown primitive")
	ErrIncompleteDerivative       = errors.New("incomplete derivative rules")
	ErrDuplicatePrimitive         = errors.New("primitive already registered")
	ErrInvalidPrimitive           = errors.New("invalid primitive definition")
	ErrArity                      = errors.New("wrong number of arguments for primitive")
	ErrUnsupportedValue           = errors.New("unsupported value type")
	ErrNonScalarOutputWithoutSeed = errors.New("non-scalar output requires an explicit seed")
	ErrSeedShape                  = errors.New("seed shape does not match output shape")
	ErrVJPShape                   = errors.New("derivative rule returned wrong shape")
	ErrArgumentIndex              = errors.New("argument index out of range")
	ErrNilOutput                  = errors.New("function returned a nil value")
)

// ArgumentIndexError reports a differentiation target outside the argument list.
type ArgumentIndexError struct {
	Index   int // Requested argument index
	NumArgs int // Number of arguments actually passed
}

// Error implements the error interface.
func (e *ArgumentIndexError) Error() string {
	return fmt.Sprintf("argument index %d out of range for %d arguments", e.Index, e.NumArgs)
}

// Unwrap makes every ArgumentIndexError match ErrArgumentIndex.
func (e *ArgumentIndexError) Unwrap() error {
	return ErrArgumentIndex
}

// GradCheckError reports an element where the reverse-mode gradient and the
// finite-difference estimate disagree.
type GradCheckError struct {
	Argnum   int     // Argument being checked
	Index    int     // Flat element index within the argument
	Analytic float64 // Value from Grad
	Numeric  float64 // Central-difference estimate
}

// Error implements the error interface.
func (e *GradCheckError) Error() string {
	return fmt.Sprintf("gradient check failed for argument %d at element %d: analytic %g, numeric %g",
		e.Argnum, e.Index, e.Analytic, e.Numeric)
}
