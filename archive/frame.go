package archive

import (
	"encoding/binary"
	"fmt"
	"hash/crc32"
	"io"
	"math"
	"sync"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

const (
	// FrameMagic identifies framed archive payloads (ASCII: "GATR").
	FrameMagic = 0x47415452
	// FrameVersion is the current frame header version.
	FrameVersion = 1

	frameHeaderSize = 24

	// maxLZ4Ratio bounds the expansion of an LZ4 block.
	maxLZ4Ratio = 255
	// zstdCapHint bounds the preallocated zstd output per body byte.
	zstdCapHint = 32
)

// Compression selects how a frame body is stored.
type Compression uint8

const (
	// CompressionNone stores the payload as is.
	CompressionNone Compression = 0
	// CompressionLZ4 uses LZ4 block compression (fast, good for hot data).
	CompressionLZ4 Compression = 1
	// CompressionZSTD uses ZSTD (better ratio, good for cold archives).
	CompressionZSTD Compression = 2
)

// String returns the configuration name of the compression.
func (c Compression) String() string {
	switch c {
	case CompressionNone:
		return "none"
	case CompressionLZ4:
		return "lz4"
	case CompressionZSTD:
		return "zstd"
	default:
		return fmt.Sprintf("compression(%d)", uint8(c))
	}
}

// ParseCompression maps a configuration name to a Compression.
func ParseCompression(s string) (Compression, error) {
	switch s {
	case "", "none":
		return CompressionNone, nil
	case "lz4":
		return CompressionLZ4, nil
	case "zstd":
		return CompressionZSTD, nil
	default:
		return CompressionNone, fmt.Errorf("archive: unknown compression %q", s)
	}
}

// FrameOptions configures WriteFrame.
type FrameOptions struct {
	Compression Compression
}

// crc32cTable is pre-computed for the Castagnoli polynomial.
var crc32cTable = crc32.MakeTable(crc32.Castagnoli)

// Checksum computes the CRC32-C of data.
func Checksum(data []byte) uint32 {
	return crc32.Checksum(data, crc32cTable)
}

var (
	zstdEncoderPool sync.Pool
	zstdDecoderPool sync.Pool
)

func getZstdEncoder() *zstd.Encoder {
	if v := zstdEncoderPool.Get(); v != nil {
		return v.(*zstd.Encoder)
	}
	enc, _ := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	return enc
}

func getZstdDecoder() *zstd.Decoder {
	if v := zstdDecoderPool.Get(); v != nil {
		return v.(*zstd.Decoder)
	}
	dec, _ := zstd.NewReader(nil)
	return dec
}

// WriteFrame writes payload behind a frame header.
//
// Layout (little-endian):
//
//	Magic       uint32
//	Version     uint32
//	Compression uint8, 3 bytes padding
//	Checksum    uint32  CRC32-C of the stored body
//	RawLength   uint32  payload length before compression
//	StoredLen   uint32  body length on disk
//	Body        [StoredLen]byte
//
// If compression does not shrink the payload it is stored uncompressed.
func WriteFrame(w io.Writer, payload []byte, opts FrameOptions) error {
	rawLen, err := frameLength(len(payload))
	if err != nil {
		return err
	}
	body, compression, err := compress(payload, opts.Compression)
	if err != nil {
		return err
	}
	storedLen, err := frameLength(len(body))
	if err != nil {
		return err
	}

	header := make([]byte, frameHeaderSize)
	binary.LittleEndian.PutUint32(header[0:4], FrameMagic)
	binary.LittleEndian.PutUint32(header[4:8], FrameVersion)
	header[8] = byte(compression)
	binary.LittleEndian.PutUint32(header[12:16], Checksum(body))
	binary.LittleEndian.PutUint32(header[16:20], rawLen)
	binary.LittleEndian.PutUint32(header[20:24], storedLen)

	if _, err := w.Write(header); err != nil {
		return err
	}
	_, err = w.Write(body)
	return err
}

// frameLength converts n to a 32-bit header length field.
func frameLength(n int) (uint32, error) {
	if n < 0 || uint64(n) > math.MaxUint32 {
		return 0, fmt.Errorf("%w: %d bytes exceeds the frame limit of %d", ErrFrameTooLarge, n, uint64(math.MaxUint32))
	}
	return uint32(n), nil
}

// ReadFrame reads and verifies one frame and returns the decompressed payload.
func ReadFrame(r io.Reader) ([]byte, error) {
	header := make([]byte, frameHeaderSize)
	if _, err := io.ReadFull(r, header); err != nil {
		return nil, fmt.Errorf("%w: frame header: %w", ErrCorruptData, err)
	}
	rawLen, storedLen, compression, checksum, err := parseHeader(header)
	if err != nil {
		return nil, err
	}

	// The header is untrusted: grow the body with the bytes actually read instead
	// of allocating storedLen up front.
	body, err := io.ReadAll(io.LimitReader(r, int64(storedLen)))
	if err != nil {
		return nil, fmt.Errorf("%w: frame body: %w", ErrCorruptData, err)
	}
	if uint32(len(body)) != storedLen {
		return nil, corruptf("frame body truncated: need %d bytes, have %d", storedLen, len(body))
	}
	return openBody(body, rawLen, compression, checksum)
}

// ParseFrame verifies a frame held in memory (e.g. a mapped file) and returns the
// payload. Uncompressed payloads alias data.
func ParseFrame(data []byte) ([]byte, error) {
	if len(data) < frameHeaderSize {
		return nil, corruptf("frame shorter than header (%d bytes)", len(data))
	}
	rawLen, storedLen, compression, checksum, err := parseHeader(data[:frameHeaderSize])
	if err != nil {
		return nil, err
	}
	rest := data[frameHeaderSize:]
	if uint32(len(rest)) < storedLen {
		return nil, corruptf("frame body truncated: need %d bytes, have %d", storedLen, len(rest))
	}
	return openBody(rest[:storedLen], rawLen, compression, checksum)
}

func parseHeader(header []byte) (rawLen, storedLen uint32, compression Compression, checksum uint32, err error) {
	magic := binary.LittleEndian.Uint32(header[0:4])
	if magic != FrameMagic {
		return 0, 0, 0, 0, corruptf("invalid magic 0x%08x", magic)
	}
	version := binary.LittleEndian.Uint32(header[4:8])
	if version != FrameVersion {
		return 0, 0, 0, 0, corruptf("unsupported frame version %d", version)
	}
	compression = Compression(header[8])
	checksum = binary.LittleEndian.Uint32(header[12:16])
	rawLen = binary.LittleEndian.Uint32(header[16:20])
	storedLen = binary.LittleEndian.Uint32(header[20:24])
	return rawLen, storedLen, compression, checksum, nil
}

func openBody(body []byte, rawLen uint32, compression Compression, checksum uint32) ([]byte, error) {
	if actual := Checksum(body); actual != checksum {
		return nil, &ChecksumMismatchError{Expected: checksum, Actual: actual}
	}
	payload, err := decompress(body, rawLen, compression)
	if err != nil {
		return nil, err
	}
	return payload, nil
}

func compress(payload []byte, c Compression) ([]byte, Compression, error) {
	if len(payload) == 0 {
		return payload, CompressionNone, nil
	}

	var out []byte
	switch c {
	case CompressionNone:
		return payload, CompressionNone, nil
	case CompressionLZ4:
		buf := make([]byte, lz4.CompressBlockBound(len(payload)))
		n, err := lz4.CompressBlock(payload, buf, nil)
		if err != nil {
			return nil, 0, err
		}
		out = buf[:n]
	case CompressionZSTD:
		enc := getZstdEncoder()
		out = enc.EncodeAll(payload, nil)
		zstdEncoderPool.Put(enc)
	default:
		return nil, 0, fmt.Errorf("archive: unknown compression %d", c)
	}

	// n == 0 means incompressible for LZ4.
	if len(out) == 0 || len(out) >= len(payload) {
		return payload, CompressionNone, nil
	}
	return out, c, nil
}

func decompress(body []byte, rawLen uint32, c Compression) ([]byte, error) {
	switch c {
	case CompressionNone:
		if uint32(len(body)) != rawLen {
			return nil, corruptf("stored length %d does not match raw length %d", len(body), rawLen)
		}
		return body, nil
	case CompressionLZ4:
		if uint64(rawLen) > maxLZ4Ratio*uint64(len(body)) {
			return nil, corruptf("raw length %d impossible for %d lz4 bytes", rawLen, len(body))
		}
		out := make([]byte, rawLen)
		n, err := lz4.UncompressBlock(body, out)
		if err != nil {
			return nil, fmt.Errorf("%w: lz4: %w", ErrCorruptData, err)
		}
		if uint32(n) != rawLen {
			return nil, corruptf("decompressed size %d, expected %d", n, rawLen)
		}
		return out, nil
	case CompressionZSTD:
		dec := getZstdDecoder()
		defer zstdDecoderPool.Put(dec)

		// DecodeAll grows dst as needed; the capacity hint is bounded so that a
		// forged rawLen cannot force a large allocation.
		out, err := dec.DecodeAll(body, make([]byte, 0, min(uint64(rawLen), zstdCapHint*uint64(len(body)))))
		if err != nil {
			return nil, fmt.Errorf("%w: zstd: %w", ErrCorruptData, err)
		}
		if uint32(len(out)) != rawLen {
			return nil, corruptf("decompressed size %d, expected %d", len(out), rawLen)
		}
		return out, nil
	default:
		return nil, corruptf("unknown compression %d", c)
	}
}
