package cas

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
	"go.trai.ch/atlas/internal/core/domain"
	"go.trai.ch/zerr"
)

// codecTag identifies the codec of a stored entry.
// Tags are persisted in entry headers; changing them invalidates existing caches.
type codecTag uint8

const (
	tagNone codecTag = 0
	tagLZ4  codecTag = 1
	tagZstd codecTag = 2
)

// headerSize is the tag byte followed by the uncompressed length.
const headerSize = 5

var errIncompressible = errors.New("data is incompressible")

// zstd encoders and decoders are safe for concurrent use.
var (
	zstdEncoder *zstd.Encoder
	zstdDecoder *zstd.Decoder
)

func init() {
	var err error
	zstdEncoder, err = zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		panic("cas: zstd encoder initialization failed: " + err.Error())
	}

	zstdDecoder, err = zstd.NewReader(nil)
	if err != nil {
		panic("cas: zstd decoder initialization failed: " + err.Error())
	}
}

// encode frames data with a header, compressing it when that makes it smaller.
func encode(data []byte, compression domain.Compression) ([]byte, error) {
	if uint64(len(data)) > math.MaxUint32 {
		return nil, fmt.Errorf("entry of %d bytes exceeds the maximum entry size", len(data))
	}

	tag := tagNone
	payload := data

	var compressed []byte
	var err error
	switch compression {
	case domain.CompressionLZ4:
		compressed, err = compressLZ4(data)
		tag = tagLZ4
	case domain.CompressionZstd:
		compressed, err = compressZstd(data)
		tag = tagZstd
	default:
		err = errIncompressible
	}
	if err == nil {
		payload = compressed
	} else {
		tag = tagNone
	}

	out := make([]byte, headerSize+len(payload))
	out[0] = byte(tag)
	binary.LittleEndian.PutUint32(out[1:headerSize], uint32(len(data))) //nolint:gosec // Bounded above
	copy(out[headerSize:], payload)
	return out, nil
}

// decode reverses encode.
func decode(entry []byte) ([]byte, error) {
	if len(entry) < headerSize {
		return nil, zerr.With(domain.ErrStoreCorrupt, "reason", "short header")
	}

	tag := codecTag(entry[0])
	size := int(binary.LittleEndian.Uint32(entry[1:headerSize]))
	payload := entry[headerSize:]

	var (
		data []byte
		err  error
	)
	switch tag {
	case tagNone:
		if len(payload) != size {
			return nil, zerr.With(domain.ErrStoreCorrupt, "reason", "size mismatch")
		}
		data = payload
	case tagLZ4:
		data, err = decompressLZ4(payload, size)
	case tagZstd:
		data, err = decompressZstd(payload, size)
	default:
		return nil, zerr.With(domain.ErrStoreCorrupt, "tag", int(tag))
	}
	if err != nil {
		return nil, zerr.Wrap(err, domain.ErrStoreCorrupt.Error())
	}
	return data, nil
}

func compressLZ4(data []byte) ([]byte, error) {
	destination := make([]byte, lz4.CompressBlockBound(len(data)))

	written, err := lz4.CompressBlock(data, destination, nil)
	if err != nil {
		return nil, fmt.Errorf("lz4 compress: %w", err)
	}
	// CompressBlock reports zero for incompressible input.
	if written == 0 || written >= len(data) {
		return nil, errIncompressible
	}

	return destination[:written], nil
}

func decompressLZ4(compressed []byte, size int) ([]byte, error) {
	destination := make([]byte, size)
	read, err := lz4.UncompressBlock(compressed, destination)
	if err != nil {
		return nil, fmt.Errorf("lz4 decompress: %w", err)
	}
	if read != size {
		return nil, fmt.Errorf("lz4 decompress: got %d bytes, expected %d", read, size)
	}
	return destination, nil
}

func compressZstd(data []byte) ([]byte, error) {
	compressed := zstdEncoder.EncodeAll(data, nil)
	if len(compressed) >= len(data) {
		return nil, errIncompressible
	}
	return compressed, nil
}

func decompressZstd(compressed []byte, size int) ([]byte, error) {
	data, err := zstdDecoder.DecodeAll(compressed, make([]byte, 0, size))
	if err != nil {
		return nil, fmt.Errorf("zstd decompress: %w", err)
	}
	if len(data) != size {
		return nil, fmt.Errorf("zstd decompress: got %d bytes, expected %d", len(data), size)
	}
	return data, nil
}
