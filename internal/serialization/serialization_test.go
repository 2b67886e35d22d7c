package serialization

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"errors"
	"math"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zx0502/minpy/internal/tensor"
)

func sampleState() StateDict {
	return StateDict{
		"W1": tensor.MustNew([]float64{1, -2, 3.5, 4, 5, 6}, tensor.Shape{2, 3}),
		"b1": tensor.Vector(0.25, -0.5, 1e-9),
		"s":  tensor.Scalar(42),
	}
}

func TestWriteRead_PreservesArrays(t *testing.T) {
	var buf bytes.Buffer
	header := Header{
		Kind:       "TwoLayerNet",
		Metadata:   map[string]string{"hidden_dim": "3"},
		Checkpoint: &CheckpointMeta{Epoch: 7, Loss: 0.31, Optimizer: "adam", LR: 1e-3},
	}
	require.NoError(t, Write(&buf, sampleState(), header))

	state, got, err := Read(&buf, ReaderOptions{})
	require.NoError(t, err)

	assert.Equal(t, "TwoLayerNet", got.Kind)
	assert.Equal(t, FormatVersion, got.FormatVersion)
	assert.Equal(t, "3", got.Metadata["hidden_dim"])
	require.NotNil(t, got.Checkpoint)
	assert.Equal(t, 7, got.Checkpoint.Epoch)
	assert.False(t, got.CreatedAt.IsZero())

	require.Len(t, state, 3)
	for name, want := range sampleState() {
		assert.True(t, want.Shape().Equal(state[name].Shape()), name)
		assert.Equal(t, want.Data(), state[name].Data(), name)
	}
}

func TestWrite_ArraysInNameOrder(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, sampleState(), Header{}))

	_, header, err := Read(&buf, ReaderOptions{})
	require.NoError(t, err)
	names := make([]string, len(header.Arrays))
	for i, a := range header.Arrays {
		names[i] = a.Name
	}
	assert.Equal(t, []string{"W1", "b1", "s"}, names)
	assert.Equal(t, int64(0), header.Arrays[0].Offset)
	assert.Equal(t, int64(48), header.Arrays[1].Offset)
}

func TestWrite_RejectsBadNames(t *testing.T) {
	var buf bytes.Buffer
	err := Write(&buf, StateDict{"../W1": tensor.Scalar(1)}, Header{})
	assert.ErrorIs(t, err, ErrInvalidName)

	err = Write(&buf, StateDict{"W1": nil}, Header{})
	assert.ErrorIs(t, err, ErrInvalidName)
}

func TestRead_DetectsCorruption(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, sampleState(), Header{}))
	raw := buf.Bytes()

	corrupt := append([]byte(nil), raw...)
	corrupt[len(corrupt)-1] ^= 0xFF
	_, _, err := Read(bytes.NewReader(corrupt), ReaderOptions{})
	assert.ErrorIs(t, err, ErrChecksumMismatch)

	_, _, err = Read(bytes.NewReader(corrupt), ReaderOptions{SkipChecksumValidation: true})
	assert.NoError(t, err)

	badMagic := append([]byte(nil), raw...)
	copy(badMagic, "NOPE")
	_, _, err = Read(bytes.NewReader(badMagic), ReaderOptions{})
	assert.ErrorIs(t, err, ErrInvalidMagic)

	badVersion := append([]byte(nil), raw...)
	badVersion[4] = 9
	_, _, err = Read(bytes.NewReader(badVersion), ReaderOptions{})
	assert.ErrorIs(t, err, ErrUnsupportedVersion)

	_, _, err = Read(bytes.NewReader(raw[:len(raw)-8]), ReaderOptions{})
	assert.Error(t, err)
}

func TestSaveLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "net.mnpy")
	require.NoError(t, Save(path, sampleState(), Header{Kind: "test"}))

	state, header, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "test", header.Kind)
	assert.Equal(t, 42.0, state["s"].Item())

	_, _, err = Load(filepath.Join(t.TempDir(), "missing.mnpy"))
	assert.Error(t, err)
}

func TestValidateArrayOffsets(t *testing.T) {
	tests := []struct {
		name    string
		arrays  []ArrayMeta
		wantErr error
	}{
		{
			name: "adjacent",
			arrays: []ArrayMeta{
				{Name: "a", Offset: 0, Size: 16},
				{Name: "b", Offset: 16, Size: 16},
			},
		},
		{
			name: "overlap",
			arrays: []ArrayMeta{
				{Name: "a", Offset: 0, Size: 16},
				{Name: "b", Offset: 8, Size: 16},
			},
			wantErr: ErrOffsetOverlap,
		},
		{
			name:    "past end",
			arrays:  []ArrayMeta{{Name: "a", Offset: 24, Size: 16}},
			wantErr: ErrOutOfBounds,
		},
		{
			name:    "negative",
			arrays:  []ArrayMeta{{Name: "a", Offset: -8, Size: 8}},
			wantErr: ErrOutOfBounds,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateArrayOffsets(tt.arrays, 32)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
			var verr *ValidationError
			assert.True(t, errors.As(err, &verr))
		})
	}
}

func TestValidateHeader(t *testing.T) {
	ok := ArrayMeta{Name: "w", DType: DTypeFloat64, Shape: []int{2}, Offset: 0, Size: 16}
	require.NoError(t, ValidateHeader(&Header{Arrays: []ArrayMeta{ok}}, 16))

	wrongSize := ok
	wrongSize.Size = 8
	assert.ErrorIs(t, ValidateHeader(&Header{Arrays: []ArrayMeta{wrongSize}}, 16), ErrOutOfBounds)

	wrongType := ok
	wrongType.DType = "int8"
	assert.ErrorIs(t, ValidateHeader(&Header{Arrays: []ArrayMeta{wrongType}}, 16), ErrUnsupportedDType)

	dup := ok
	dup.Offset = 16
	assert.ErrorIs(t, ValidateHeader(&Header{Arrays: []ArrayMeta{ok, dup}}, 32), ErrInvalidName)

	assert.ErrorIs(t, ValidateArrayName(""), ErrInvalidName)
	assert.ErrorIs(t, ValidateArrayName("a\x00b"), ErrInvalidName)
}

// encodeRaw lays out a file around an arbitrary header, with a valid
// checksum, so that Read reaches header validation.
func encodeRaw(t *testing.T, header Header, data []byte) []byte {
	t.Helper()
	headerJSON, err := json.Marshal(header)
	require.NoError(t, err)

	fixed := make([]byte, FixedHeaderSize)
	copy(fixed[0:4], MagicBytes)
	binary.LittleEndian.PutUint32(fixed[4:8], FormatVersion)
	binary.LittleEndian.PutUint64(fixed[16:24], uint64(len(headerJSON)))
	binary.LittleEndian.PutUint64(fixed[24:32], uint64(len(data)))
	sum := ComputeChecksum(data)
	copy(fixed[ChecksumOffset:], sum[:])

	var buf bytes.Buffer
	buf.Write(fixed)
	buf.Write(headerJSON)
	buf.Write(make([]byte, paddingFor(int64(FixedHeaderSize+len(headerJSON)))))
	buf.Write(data)
	return buf.Bytes()
}

func TestRead_RejectsOverflowingHeaders(t *testing.T) {
	tests := []struct {
		name string
		meta ArrayMeta
	}{
		{
			name: "offset near max int64",
			meta: ArrayMeta{Name: "w", DType: DTypeFloat64, Shape: []int{1}, Offset: math.MaxInt64 - 3, Size: 8},
		},
		{
			name: "size larger than data",
			meta: ArrayMeta{Name: "w", DType: DTypeFloat64, Shape: []int{1}, Offset: 0, Size: math.MaxInt64},
		},
		{
			name: "element count wraps to zero",
			meta: ArrayMeta{Name: "w", DType: DTypeFloat64, Shape: []int{1 << 32, 1 << 32}, Offset: 0, Size: 0},
		},
		{
			name: "element count beyond data limit",
			meta: ArrayMeta{Name: "w", DType: DTypeFloat64, Shape: []int{1 << 20, 1 << 20}, Offset: 0, Size: 8},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := encodeRaw(t, Header{FormatVersion: FormatVersion, Arrays: []ArrayMeta{tt.meta}}, make([]byte, 8))
			var (
				err    error
				panics bool
			)
			func() {
				defer func() { panics = recover() != nil }()
				_, _, err = Read(bytes.NewReader(raw), ReaderOptions{})
			}()
			require.False(t, panics)
			assert.ErrorIs(t, err, ErrOutOfBounds)
		})
	}
}
