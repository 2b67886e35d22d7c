package serialization

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
	"sort"
	"time"
)

// Write encodes state into w. Arrays are laid out in name order; the
// Arrays and FormatVersion fields of header are overwritten.
func Write(w io.Writer, state StateDict, header Header) error {
	names := make([]string, 0, len(state))
	for name := range state {
		if err := ValidateArrayName(name); err != nil {
			return err
		}
		if state[name] == nil {
			return &ValidationError{Err: ErrInvalidName, Array: name, Details: "nil array"}
		}
		names = append(names, name)
	}
	sort.Strings(names)

	// Encode the data section first; the fixed header carries its checksum.
	var data bytes.Buffer
	header.Arrays = make([]ArrayMeta, 0, len(names))
	for _, name := range names {
		a := state[name]
		offset := int64(data.Len())
		buf := make([]byte, bytesPerElement)
		for _, v := range a.Data() {
			binary.LittleEndian.PutUint64(buf, math.Float64bits(v))
			data.Write(buf)
		}
		header.Arrays = append(header.Arrays, ArrayMeta{
			Name:   name,
			DType:  DTypeFloat64,
			Shape:  []int(a.Shape().Clone()),
			Offset: offset,
			Size:   int64(data.Len()) - offset,
		})
	}

	header.FormatVersion = FormatVersion
	if header.CreatedAt.IsZero() {
		header.CreatedAt = time.Now().UTC()
	}
	headerJSON, err := json.Marshal(header)
	if err != nil {
		return fmt.Errorf("failed to marshal header: %w", err)
	}
	if len(headerJSON) > MaxHeaderSize {
		return ErrHeaderTooLarge
	}

	flags := uint32(0)
	if len(header.Metadata) > 0 {
		flags |= FlagHasMetadata
	}
	if header.Checkpoint != nil {
		flags |= FlagHasCheckpoint
	}

	fixed := make([]byte, FixedHeaderSize)
	copy(fixed[0:4], MagicBytes)
	binary.LittleEndian.PutUint32(fixed[4:8], FormatVersion)
	binary.LittleEndian.PutUint32(fixed[8:12], flags)
	binary.LittleEndian.PutUint64(fixed[16:24], uint64(len(headerJSON)))
	binary.LittleEndian.PutUint64(fixed[24:32], uint64(data.Len()))
	checksum := ComputeChecksum(data.Bytes())
	copy(fixed[ChecksumOffset:ChecksumOffset+ChecksumSize], checksum[:])

	if _, err := w.Write(fixed); err != nil {
		return fmt.Errorf("failed to write fixed header: %w", err)
	}
	if _, err := w.Write(headerJSON); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	if padding := paddingFor(int64(FixedHeaderSize + len(headerJSON))); padding > 0 {
		if _, err := w.Write(make([]byte, padding)); err != nil {
			return fmt.Errorf("failed to write padding: %w", err)
		}
	}
	if _, err := w.Write(data.Bytes()); err != nil {
		return fmt.Errorf("failed to write array data: %w", err)
	}
	return nil
}

// Save writes state to a file at path, replacing any existing file.
func Save(path string, state StateDict, header Header) error {
	//nolint:gosec // G304: File path comes from user input, which is expected for model saving
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	if err := Write(file, state, header); err != nil {
		_ = file.Close() // Best effort close on error
		return err
	}
	return file.Close()
}
