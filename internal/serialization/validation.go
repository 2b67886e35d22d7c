package serialization

import (
	"fmt"
	"sort"
	"strings"
)

// Validation limits.
const (
	MaxHeaderSize  = 16 * 1024 * 1024
	MaxArrayCount  = 10_000
	MaxNameLen     = 256
	MaxDataSize    = 1 << 32
	maxMetadataLen = 1 << 20
	maxElements    = MaxDataSize / bytesPerElement
)

// ValidateArrayName rejects empty names, names that are too long and names
// that contain path separators or control bytes.
func ValidateArrayName(name string) error {
	switch {
	case name == "":
		return &ValidationError{Err: ErrInvalidName, Details: "empty name"}
	case len(name) > MaxNameLen:
		return &ValidationError{Err: ErrInvalidName, Array: name,
			Details: fmt.Sprintf("length %d > max %d", len(name), MaxNameLen)}
	case strings.ContainsAny(name, "/\\\x00"):
		return &ValidationError{Err: ErrInvalidName, Array: name, Details: "contains a separator or null byte"}
	}
	return nil
}

// ValidateArrayOffsets checks that arrays neither overlap nor extend past
// the data section.
func ValidateArrayOffsets(arrays []ArrayMeta, dataSize int64) error {
	if len(arrays) > MaxArrayCount {
		return &ValidationError{Err: ErrTooManyArrays,
			Details: fmt.Sprintf("got %d, max %d", len(arrays), MaxArrayCount)}
	}

	sorted := make([]ArrayMeta, len(arrays))
	copy(sorted, arrays)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Offset < sorted[j].Offset
	})

	for i, a := range sorted {
		if a.Offset < 0 || a.Size < 0 || a.Size > dataSize || a.Offset > dataSize-a.Size {
			return &ValidationError{Err: ErrOutOfBounds, Array: a.Name,
				Details: fmt.Sprintf("offset %d + size %d outside data size %d", a.Offset, a.Size, dataSize)}
		}
		if i < len(sorted)-1 {
			next := sorted[i+1]
			if a.Offset+a.Size > next.Offset {
				return &ValidationError{Err: ErrOffsetOverlap, Array: a.Name, Array2: next.Name,
					Details: fmt.Sprintf("regions [%d-%d] and [%d-%d] overlap",
						a.Offset, a.Offset+a.Size, next.Offset, next.Offset+next.Size)}
			}
		}
	}
	return nil
}

// ValidateArrayMeta checks that an entry describes a float64 array whose
// byte size matches its shape.
func ValidateArrayMeta(a ArrayMeta) error {
	if a.DType != DTypeFloat64 {
		return &ValidationError{Err: ErrUnsupportedDType, Array: a.Name, Details: a.DType}
	}
	n := int64(1)
	for _, d := range a.Shape {
		if d < 0 {
			return &ValidationError{Err: ErrOutOfBounds, Array: a.Name,
				Details: fmt.Sprintf("negative dimension in shape %v", a.Shape)}
		}
		// Bound the element count before multiplying so it cannot wrap.
		if d > 0 && n > maxElements/int64(d) {
			return &ValidationError{Err: ErrOutOfBounds, Array: a.Name,
				Details: fmt.Sprintf("shape %v exceeds %d elements", a.Shape, maxElements)}
		}
		n *= int64(d)
	}
	if n*bytesPerElement != a.Size {
		return &ValidationError{Err: ErrOutOfBounds, Array: a.Name,
			Details: fmt.Sprintf("shape %v needs %d bytes, header says %d", a.Shape, n*bytesPerElement, a.Size)}
	}
	return nil
}

// ValidateHeader validates every array entry of h against a data section
// of dataSize bytes.
func ValidateHeader(h *Header, dataSize int64) error {
	seen := make(map[string]bool, len(h.Arrays))
	for _, a := range h.Arrays {
		if err := ValidateArrayName(a.Name); err != nil {
			return err
		}
		if seen[a.Name] {
			return &ValidationError{Err: ErrInvalidName, Array: a.Name, Details: "duplicate name"}
		}
		seen[a.Name] = true
		if err := ValidateArrayMeta(a); err != nil {
			return err
		}
	}

	metaLen := 0
	for k, v := range h.Metadata {
		metaLen += len(k) + len(v)
	}
	if metaLen > maxMetadataLen {
		return &ValidationError{Err: ErrHeaderTooLarge,
			Details: fmt.Sprintf("metadata of %d bytes", metaLen)}
	}

	return ValidateArrayOffsets(h.Arrays, dataSize)
}
