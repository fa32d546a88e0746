package compress

import (
	"bytes"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFrameRoundTrip(t *testing.T) {
	compressible := bytes.Repeat([]byte("ACDEFGHIKLMNPQRSTVWY"), 200)

	random := make([]byte, 4096)
	rand.New(rand.NewSource(1)).Read(random)

	for _, typ := range []Type{None, LZ4, ZSTD} {
		for name, input := range map[string][]byte{
			"empty":        {},
			"short":        []byte("MKV\n"),
			"compressible": compressible,
			"random":       random,
		} {
			t.Run(typ.String()+"/"+name, func(t *testing.T) {
				frame, err := AppendFrame(nil, input, typ)
				require.NoError(t, err)

				out, err := DecodeFrame(frame)
				require.NoError(t, err)
				assert.Equal(t, len(input), len(out))
				assert.True(t, bytes.Equal(input, out))
			})
		}
	}
}

func TestAppendFrame_Compresses(t *testing.T) {
	input := bytes.Repeat([]byte("DDDDVVVVPPPP"), 500)
	for _, typ := range []Type{LZ4, ZSTD} {
		frame, err := AppendFrame(nil, input, typ)
		require.NoError(t, err)
		assert.Less(t, len(frame), len(input)/2, typ.String())
		assert.Equal(t, byte(typ), frame[0])
	}
}

func TestAppendFrame_IncompressibleStoredRaw(t *testing.T) {
	input := make([]byte, 512)
	rand.New(rand.NewSource(7)).Read(input)

	frame, err := AppendFrame(nil, input, ZSTD)
	require.NoError(t, err)
	assert.Equal(t, byte(None), frame[0])
	assert.Equal(t, HeaderSize+len(input), len(frame))
}

func TestAppendFrame_Appends(t *testing.T) {
	dst := []byte("prefix")
	frame, err := AppendFrame(dst, []byte("abc"), None)
	require.NoError(t, err)
	assert.Equal(t, "prefix", string(frame[:6]))

	out, err := DecodeFrame(frame[6:])
	require.NoError(t, err)
	assert.Equal(t, "abc", string(out))
}

func TestDecodeFrame_Corrupt(t *testing.T) {
	_, err := DecodeFrame([]byte{1, 2})
	assert.ErrorIs(t, err, ErrCorrupt)

	frame, err := AppendFrame(nil, []byte("hello world"), None)
	require.NoError(t, err)

	flipped := append([]byte(nil), frame...)
	flipped[len(flipped)-1] ^= 0xff
	_, err = DecodeFrame(flipped)
	assert.ErrorIs(t, err, ErrCorrupt)

	_, err = DecodeFrame(frame[:len(frame)-1])
	assert.ErrorIs(t, err, ErrCorrupt)

	unknown := append([]byte(nil), frame...)
	unknown[0] = 9
	_, err = DecodeFrame(unknown)
	assert.ErrorIs(t, err, ErrUnknownType)
}

func TestParseType(t *testing.T) {
	for in, want := range map[string]Type{"": None, "none": None, "LZ4": LZ4, " zstd ": ZSTD} {
		got, err := ParseType(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := ParseType("brotli")
	assert.ErrorIs(t, err, ErrUnknownType)
}
