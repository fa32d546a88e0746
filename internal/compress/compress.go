// Package compress implements the self-describing per-record frames written
// by compressed databases.
//
// Frame layout (little-endian):
//
//	Algorithm   (1 byte)  - Type used for Payload (None when stored raw)
//	RawSize     (4 bytes) - size of the decoded record
//	PayloadSize (4 bytes) - size of Payload
//	Checksum    (4 bytes) - CRC32C of the decoded record
//	Payload
//
// A frame whose compressed form is not meaningfully smaller than the input is
// stored raw, so decoding never costs more than a copy for incompressible data.
package compress

import (
	"encoding/binary"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/hupe1980/strucdb/internal/hash"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Type defines the compression algorithm used.
type Type uint8

const (
	// None stores records verbatim.
	None Type = 0
	// LZ4 uses LZ4 block compression (fast).
	LZ4 Type = 1
	// ZSTD uses zstd (better ratio).
	ZSTD Type = 2
)

// HeaderSize is the fixed frame header size in bytes.
const HeaderSize = 13

var (
	// ErrCorrupt is returned when a frame fails validation.
	ErrCorrupt = errors.New("compress: corrupt frame")
	// ErrUnknownType is returned for an unsupported algorithm.
	ErrUnknownType = errors.New("compress: unknown type")
)

func (t Type) String() string {
	switch t {
	case None:
		return "none"
	case LZ4:
		return "lz4"
	case ZSTD:
		return "zstd"
	default:
		return fmt.Sprintf("Type(%d)", uint8(t))
	}
}

// ParseType parses "none", "lz4" or "zstd".
func ParseType(s string) (Type, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none":
		return None, nil
	case "lz4":
		return LZ4, nil
	case "zstd":
		return ZSTD, nil
	default:
		return None, fmt.Errorf("%w: %q", ErrUnknownType, s)
	}
}

var (
	zstdEncoderPool sync.Pool
	zstdDecoderPool sync.Pool
)

func getZstdEncoder() *zstd.Encoder {
	if v := zstdEncoderPool.Get(); v != nil {
		return v.(*zstd.Encoder)
	}
	enc, _ := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault), zstd.WithEncoderConcurrency(1))
	return enc
}

func putZstdEncoder(enc *zstd.Encoder) {
	zstdEncoderPool.Put(enc)
}

func getZstdDecoder() *zstd.Decoder {
	if v := zstdDecoderPool.Get(); v != nil {
		return v.(*zstd.Decoder)
	}
	dec, _ := zstd.NewReader(nil, zstd.WithDecoderConcurrency(1))
	return dec
}

func putZstdDecoder(dec *zstd.Decoder) {
	zstdDecoderPool.Put(dec)
}

// AppendFrame encodes src with t and appends the frame to dst.
func AppendFrame(dst, src []byte, t Type) ([]byte, error) {
	var payload []byte
	algo := None

	switch t {
	case None:
	case LZ4:
		if len(src) == 0 {
			break
		}
		buf := make([]byte, lz4.CompressBlockBound(len(src)))
		n, err := lz4.CompressBlock(src, buf, nil)
		if err != nil {
			return dst, err
		}
		if n > 0 {
			payload, algo = buf[:n], LZ4
		}
	case ZSTD:
		enc := getZstdEncoder()
		payload, algo = enc.EncodeAll(src, nil), ZSTD
		putZstdEncoder(enc)
	default:
		return dst, fmt.Errorf("%w: %d", ErrUnknownType, t)
	}

	if algo != None && float64(len(payload)) > float64(len(src))*0.9 {
		payload, algo = nil, None
	}
	if algo == None {
		payload = src
	}

	var header [HeaderSize]byte
	header[0] = byte(algo)
	binary.LittleEndian.PutUint32(header[1:], uint32(len(src)))
	binary.LittleEndian.PutUint32(header[5:], uint32(len(payload)))
	binary.LittleEndian.PutUint32(header[9:], hash.CRC32C(src))

	dst = append(dst, header[:]...)
	return append(dst, payload...), nil
}

// DecodeFrame decodes a single frame produced by AppendFrame.
// The result may alias frame when the payload was stored raw.
func DecodeFrame(frame []byte) ([]byte, error) {
	if len(frame) < HeaderSize {
		return nil, fmt.Errorf("%w: %d bytes is shorter than the header", ErrCorrupt, len(frame))
	}

	algo := Type(frame[0])
	rawSize := binary.LittleEndian.Uint32(frame[1:])
	payloadSize := binary.LittleEndian.Uint32(frame[5:])
	checksum := binary.LittleEndian.Uint32(frame[9:])

	if uint64(len(frame)) != HeaderSize+uint64(payloadSize) {
		return nil, fmt.Errorf("%w: payload size %d does not match frame size %d", ErrCorrupt, payloadSize, len(frame))
	}
	payload := frame[HeaderSize:]

	var out []byte
	switch algo {
	case None:
		out = payload
	case LZ4:
		out = make([]byte, rawSize)
		n, err := lz4.UncompressBlock(payload, out)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrCorrupt, err)
		}
		out = out[:n]
	case ZSTD:
		dec := getZstdDecoder()
		decoded, err := dec.DecodeAll(payload, make([]byte, 0, rawSize))
		putZstdDecoder(dec)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrCorrupt, err)
		}
		out = decoded
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownType, algo)
	}

	if uint32(len(out)) != rawSize {
		return nil, fmt.Errorf("%w: decoded %d bytes, expected %d", ErrCorrupt, len(out), rawSize)
	}
	if hash.CRC32C(out) != checksum {
		return nil, fmt.Errorf("%w: checksum mismatch", ErrCorrupt)
	}
	return out, nil
}
