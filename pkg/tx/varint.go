package tx

import (
	"encoding/binary"

	"github.com/karpathy/cryptos/internal/bterrors"
)

// encodeVarint encodes value as Bitcoin's variable-length unsigned
// integer: values below 0xfd fit in one byte; larger values carry a
// one-byte prefix selecting the width of a little-endian tail.
func encodeVarint(value uint64) []byte {
	switch {
	case value < 0xfd:
		return []byte{byte(value)}
	case value <= 0xffff:
		buf := make([]byte, 3)
		buf[0] = 0xfd
		binary.LittleEndian.PutUint16(buf[1:], uint16(value))
		return buf
	case value <= 0xffffffff:
		buf := make([]byte, 5)
		buf[0] = 0xfe
		binary.LittleEndian.PutUint32(buf[1:], uint32(value))
		return buf
	default:
		buf := make([]byte, 9)
		buf[0] = 0xff
		binary.LittleEndian.PutUint64(buf[1:], value)
		return buf
	}
}

// decodeVarint reads a varint from the front of data, returning the
// value and the number of bytes consumed.
func decodeVarint(data []byte) (value uint64, consumed int, err error) {
	const op = "tx.decodeVarint"
	if len(data) == 0 {
		return 0, 0, bterrors.Newf(bterrors.Parse, op, "empty varint")
	}
	switch first := data[0]; {
	case first < 0xfd:
		return uint64(first), 1, nil
	case first == 0xfd:
		if len(data) < 3 {
			return 0, 0, bterrors.Newf(bterrors.Parse, op, "truncated 0xfd varint")
		}
		return uint64(binary.LittleEndian.Uint16(data[1:3])), 3, nil
	case first == 0xfe:
		if len(data) < 5 {
			return 0, 0, bterrors.Newf(bterrors.Parse, op, "truncated 0xfe varint")
		}
		return uint64(binary.LittleEndian.Uint32(data[1:5])), 5, nil
	default:
		if len(data) < 9 {
			return 0, 0, bterrors.Newf(bterrors.Parse, op, "truncated 0xff varint")
		}
		return binary.LittleEndian.Uint64(data[1:9]), 9, nil
	}
}
