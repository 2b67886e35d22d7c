package tensor

import (
	"errors"
	"fmt"
)

// Common errors.
var (
	ErrInvalidShape  = errors.New("invalid shape")
	ErrShapeMismatch = errors.New("shape mismatch")
	ErrAxis          = errors.New("axis out of range")
	ErrDataLength    = errors.New("data length does not match shape")
)

// ShapeError describes operands whose shapes an operation cannot combine.
type ShapeError struct {
	Op      string // Operation name (e.g., "dot", "broadcast")
	Left    Shape
	Right   Shape
	Details string
}

// Error implements the error interface.
func (e *ShapeError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: shapes %v and %v: %s", e.Op, e.Left, e.Right, e.Details)
	}
	return fmt.Sprintf("%s: shapes %v and %v are incompatible", e.Op, e.Left, e.Right)
}

// Unwrap makes every ShapeError match ErrShapeMismatch.
func (e *ShapeError) Unwrap() error {
	return ErrShapeMismatch
}
