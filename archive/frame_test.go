package archive

import (
	"bytes"
	"encoding/binary"
	"errors"
	"math"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFrame_RoundTrip(t *testing.T) {
	compressible := []byte(strings.Repeat("attribute-payload ", 512))
	random := []byte{0x13, 0x37, 0x00, 0xff, 0x42}

	tests := []struct {
		name        string
		payload     []byte
		compression Compression
	}{
		{"none", compressible, CompressionNone},
		{"lz4", compressible, CompressionLZ4},
		{"zstd", compressible, CompressionZSTD},
		{"lz4 incompressible", random, CompressionLZ4},
		{"zstd incompressible", random, CompressionZSTD},
		{"empty", nil, CompressionZSTD},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, WriteFrame(&buf, tt.payload, FrameOptions{Compression: tt.compression}))
			framed := bytes.Clone(buf.Bytes())

			got, err := ReadFrame(&buf)
			require.NoError(t, err)
			assert.Equal(t, len(tt.payload), len(got))
			assert.True(t, bytes.Equal(tt.payload, got))

			got, err = ParseFrame(framed)
			require.NoError(t, err)
			assert.True(t, bytes.Equal(tt.payload, got))
		})
	}
}

func TestFrame_CompressionShrinks(t *testing.T) {
	payload := []byte(strings.Repeat("a", 4096))

	var plain, packed bytes.Buffer
	require.NoError(t, WriteFrame(&plain, payload, FrameOptions{}))
	require.NoError(t, WriteFrame(&packed, payload, FrameOptions{Compression: CompressionZSTD}))
	assert.Less(t, packed.Len(), plain.Len())
}

func TestFrame_Corruption(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteFrame(&buf, []byte("some attribute bytes"), FrameOptions{}))
	framed := buf.Bytes()

	t.Run("flipped body byte", func(t *testing.T) {
		data := bytes.Clone(framed)
		data[len(data)-1] ^= 0xff

		_, err := ParseFrame(data)
		require.ErrorIs(t, err, ErrCorruptData)
		var cm *ChecksumMismatchError
		assert.True(t, errors.As(err, &cm))
	})

	t.Run("bad magic", func(t *testing.T) {
		data := bytes.Clone(framed)
		data[0] = 'X'

		_, err := ReadFrame(bytes.NewReader(data))
		require.ErrorIs(t, err, ErrCorruptData)
	})

	t.Run("truncated", func(t *testing.T) {
		_, err := ReadFrame(bytes.NewReader(framed[:len(framed)-3]))
		require.ErrorIs(t, err, ErrCorruptData)

		_, err = ParseFrame(framed[:10])
		require.ErrorIs(t, err, ErrCorruptData)
	})
}

// forgedFrame builds a frame header with the given lengths and a checksum that
// matches body, so only the length checks can reject it.
func forgedFrame(c Compression, rawLen, storedLen uint32, body []byte) []byte {
	header := make([]byte, frameHeaderSize)
	binary.LittleEndian.PutUint32(header[0:4], FrameMagic)
	binary.LittleEndian.PutUint32(header[4:8], FrameVersion)
	header[8] = byte(c)
	binary.LittleEndian.PutUint32(header[12:16], Checksum(body))
	binary.LittleEndian.PutUint32(header[16:20], rawLen)
	binary.LittleEndian.PutUint32(header[20:24], storedLen)
	return append(header, body...)
}

func allocatedDuring(fn func()) uint64 {
	var before, after runtime.MemStats
	runtime.GC()
	runtime.ReadMemStats(&before)
	fn()
	runtime.ReadMemStats(&after)
	return after.TotalAlloc - before.TotalAlloc
}

func TestFrame_ForgedLengths(t *testing.T) {
	const limit = 1 << 20

	t.Run("huge stored length on a short stream", func(t *testing.T) {
		data := forgedFrame(CompressionNone, 0xF0000000, 0xF0000000, nil)

		var err error
		allocated := allocatedDuring(func() {
			_, err = ReadFrame(bytes.NewReader(data))
		})
		require.ErrorIs(t, err, ErrCorruptData)
		assert.Less(t, allocated, uint64(limit))
	})

	t.Run("huge lz4 raw length", func(t *testing.T) {
		body := []byte{0x10, 'a', 0x01, 0x00}
		data := forgedFrame(CompressionLZ4, 0xF0000000, uint32(len(body)), body)

		var errParse, errRead error
		allocated := allocatedDuring(func() {
			_, errParse = ParseFrame(data)
			_, errRead = ReadFrame(bytes.NewReader(data))
		})
		require.ErrorIs(t, errParse, ErrCorruptData)
		require.ErrorIs(t, errRead, ErrCorruptData)
		assert.Less(t, allocated, uint64(limit))
	})

	t.Run("huge zstd raw length", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, WriteFrame(&buf, []byte(strings.Repeat("zstd ", 256)), FrameOptions{Compression: CompressionZSTD}))
		_, err := ParseFrame(buf.Bytes())
		require.NoError(t, err)
		body := buf.Bytes()[frameHeaderSize:]
		data := forgedFrame(CompressionZSTD, 0xF0000000, uint32(len(body)), body)

		allocated := allocatedDuring(func() {
			_, err = ParseFrame(data)
		})
		require.ErrorIs(t, err, ErrCorruptData)
		assert.Less(t, allocated, uint64(limit))
	})
}

func TestFrameLength(t *testing.T) {
	n, err := frameLength(1024)
	require.NoError(t, err)
	assert.Equal(t, uint32(1024), n)

	n, err = frameLength(math.MaxUint32)
	require.NoError(t, err)
	assert.Equal(t, uint32(math.MaxUint32), n)

	_, err = frameLength(math.MaxUint32 + 1)
	require.ErrorIs(t, err, ErrFrameTooLarge)

	_, err = frameLength(-1)
	require.ErrorIs(t, err, ErrFrameTooLarge)
}

func TestParseCompression(t *testing.T) {
	for _, c := range []Compression{CompressionNone, CompressionLZ4, CompressionZSTD} {
		got, err := ParseCompression(c.String())
		require.NoError(t, err)
		assert.Equal(t, c, got)
	}
	_, err := ParseCompression("brotli")
	require.Error(t, err)
}
