package serialization

import (
	"time"

	"github.com/zx0502/minpy/internal/tensor"
)

// Format constants.
const (
	MagicBytes      = "MNPY"
	FormatVersion   = 1
	HeaderAlignment = 64 // Array data starts on a 64-byte boundary
	FixedHeaderSize = 64
	ChecksumOffset  = 0x20
	ChecksumSize    = 32
	DTypeFloat64    = "float64"
	bytesPerElement = 8
)

// Flags for the .mnpy format.
const (
	FlagHasMetadata   uint32 = 1 << 0 // custom metadata included
	FlagHasCheckpoint uint32 = 1 << 1 // training state included
)

// StateDict maps parameter names to their values.
type StateDict map[string]*tensor.Array

// Header is the JSON header of a .mnpy file.
type Header struct {
	FormatVersion int               `json:"format_version"`
	Kind          string            `json:"kind"`       // Model kind, e.g. "TwoLayerNet"
	CreatedAt     time.Time         `json:"created_at"` // Set by Write when zero
	Arrays        []ArrayMeta       `json:"arrays"`     // Filled by Write
	Metadata      map[string]string `json:"metadata,omitempty"`
	Checkpoint    *CheckpointMeta   `json:"checkpoint,omitempty"`
}

// CheckpointMeta records the training state a checkpoint was taken at.
type CheckpointMeta struct {
	Epoch     int     `json:"epoch"`
	Loss      float64 `json:"loss"`
	ValAcc    float64 `json:"val_acc"`
	Optimizer string  `json:"optimizer"`
	LR        float64 `json:"lr"`
}

// ArrayMeta locates one array in the data section.
type ArrayMeta struct {
	Name   string `json:"name"`
	DType  string `json:"dtype"`
	Shape  []int  `json:"shape"`
	Offset int64  `json:"offset"` // Bytes from the start of the data section
	Size   int64  `json:"size"`   // Size in bytes
}

func paddingFor(pos int64) int64 {
	return (HeaderAlignment - pos%HeaderAlignment) % HeaderAlignment
}
