package nn

import (
	"errors"
	"fmt"
)

// Common errors.
var (
	ErrLabel     = errors.New("invalid label")
	ErrArguments = errors.New("wrong arguments for loss function")
	ErrConfig    = errors.New("invalid network configuration")
	ErrStateDict = errors.New("state dict does not match network")
)

// LabelError reports a class label outside [0, NumClasses).
type LabelError struct {
	Row        int
	Label      int
	NumClasses int
}

// Error implements the error interface.
func (e *LabelError) Error() string {
	return fmt.Sprintf("label %d at row %d out of range for %d classes", e.Label, e.Row, e.NumClasses)
}

// Unwrap makes every LabelError match ErrLabel.
func (e *LabelError) Unwrap() error {
	return ErrLabel
}
