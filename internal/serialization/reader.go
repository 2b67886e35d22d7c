package serialization

import (
	"bufio"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/zx0502/minpy/internal/tensor"
)

// ReaderOptions configures Read.
type ReaderOptions struct {
	SkipChecksumValidation bool // Skip the SHA-256 check of the data section
}

// Read decodes a state dict written by Write.
func Read(r io.Reader, opts ReaderOptions) (StateDict, Header, error) {
	var header Header

	fixed := make([]byte, FixedHeaderSize)
	if _, err := io.ReadFull(r, fixed); err != nil {
		return nil, header, fmt.Errorf("failed to read fixed header: %w", err)
	}
	if string(fixed[0:4]) != MagicBytes {
		return nil, header, ErrInvalidMagic
	}
	if version := binary.LittleEndian.Uint32(fixed[4:8]); version != FormatVersion {
		return nil, header, fmt.Errorf("%w: got %d, expected %d", ErrUnsupportedVersion, version, FormatVersion)
	}
	headerSize := binary.LittleEndian.Uint64(fixed[16:24])
	dataSize := binary.LittleEndian.Uint64(fixed[24:32])
	var stored [32]byte
	copy(stored[:], fixed[ChecksumOffset:ChecksumOffset+ChecksumSize])

	if headerSize > MaxHeaderSize {
		return nil, header, ErrHeaderTooLarge
	}
	if dataSize > MaxDataSize {
		return nil, header, fmt.Errorf("%w: data section of %d bytes", ErrOutOfBounds, dataSize)
	}

	headerJSON := make([]byte, headerSize)
	if _, err := io.ReadFull(r, headerJSON); err != nil {
		return nil, header, fmt.Errorf("failed to read header: %w", err)
	}
	if err := json.Unmarshal(headerJSON, &header); err != nil {
		return nil, header, fmt.Errorf("failed to parse header JSON: %w", err)
	}
	//nolint:gosec // G115: headerSize is bounded by MaxHeaderSize
	padding := paddingFor(int64(FixedHeaderSize) + int64(headerSize))
	if _, err := io.CopyN(io.Discard, r, padding); err != nil {
		return nil, header, fmt.Errorf("failed to skip padding: %w", err)
	}

	data := make([]byte, dataSize)
	if _, err := io.ReadFull(r, data); err != nil {
		return nil, header, fmt.Errorf("failed to read array data: %w", err)
	}
	if !opts.SkipChecksumValidation {
		if err := ValidateChecksum(ComputeChecksum(data), stored); err != nil {
			return nil, header, err
		}
	}

	//nolint:gosec // G115: dataSize is bounded by MaxDataSize
	if err := ValidateHeader(&header, int64(dataSize)); err != nil {
		return nil, header, fmt.Errorf("validation failed: %w", err)
	}

	state := make(StateDict, len(header.Arrays))
	for _, meta := range header.Arrays {
		values := make([]float64, meta.Size/bytesPerElement)
		chunk := data[meta.Offset : meta.Offset+meta.Size]
		for i := range values {
			values[i] = math.Float64frombits(binary.LittleEndian.Uint64(chunk[i*bytesPerElement:]))
		}
		a, err := tensor.New(values, tensor.Shape(meta.Shape))
		if err != nil {
			return nil, header, fmt.Errorf("array %q: %w", meta.Name, err)
		}
		state[meta.Name] = a
	}
	return state, header, nil
}

// Load reads a state dict from the file at path.
func Load(path string) (StateDict, Header, error) {
	//nolint:gosec // G304: File path comes from user input, which is expected for model loading
	file, err := os.Open(path)
	if err != nil {
		return nil, Header{}, fmt.Errorf("failed to open file: %w", err)
	}
	defer func() {
		_ = file.Close()
	}()
	return Read(bufio.NewReader(file), ReaderOptions{})
}
