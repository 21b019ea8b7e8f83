package p2p

import (
	"encoding/binary"

	"github.com/karpathy/cryptos/internal/bterrors"
	"github.com/karpathy/cryptos/pkg/block"
	"github.com/karpathy/cryptos/pkg/hash"
)

// ProtocolVersion is the protocol version this node advertises in its
// version and getheaders messages; the peer's own version is not
// checked against it.
const ProtocolVersion uint32 = 70015

// encodeVarint and decodeVarint are pkg/tx's varint codec,
// re-expressed here rather than imported so pkg/p2p does not have to
// depend on pkg/tx for a four-line wire primitive.
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

func decodeVarint(data []byte) (value uint64, consumed int, err error) {
	const op = "p2p.decodeVarint"
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

// VersionPayload is the body of a `version` message, trimmed to the
// fields this core actually inspects or must echo.
type VersionPayload struct {
	Version     uint32
	Services    uint64
	Timestamp   int64
	UserAgent   string
	StartHeight int32
}

// Encode serializes a minimal but wire-valid version payload: the
// address and nonce fields this core never reads are zero-filled.
func (v VersionPayload) Encode() []byte {
	out := make([]byte, 0, 86+len(v.UserAgent))
	var u32 [4]byte
	var u64 [8]byte
	var i64 [8]byte

	binary.LittleEndian.PutUint32(u32[:], v.Version)
	out = append(out, u32[:]...)
	binary.LittleEndian.PutUint64(u64[:], v.Services)
	out = append(out, u64[:]...)
	binary.LittleEndian.PutUint64(i64[:], uint64(v.Timestamp))
	out = append(out, i64[:]...)

	out = append(out, make([]byte, 26)...) // addr_recv: services(8)+ip(16)+port(2)
	out = append(out, make([]byte, 26)...) // addr_from: same shape
	out = append(out, make([]byte, 8)...)  // nonce

	out = append(out, encodeVarint(uint64(len(v.UserAgent)))...)
	out = append(out, []byte(v.UserAgent)...)

	var height [4]byte
	binary.LittleEndian.PutUint32(height[:], uint32(v.StartHeight))
	out = append(out, height[:]...)

	return out
}

// DecodeVersionPayload parses just enough of a peer's version message
// to learn its protocol version; the rest is skipped rather than
// fully modeled, since full-node parity is out of scope here.
func DecodeVersionPayload(data []byte) (VersionPayload, error) {
	const op = "p2p.DecodeVersionPayload"
	if len(data) < 20 {
		return VersionPayload{}, bterrors.Newf(bterrors.Parse, op, "version payload too short")
	}
	return VersionPayload{
		Version:   binary.LittleEndian.Uint32(data[0:4]),
		Services:  binary.LittleEndian.Uint64(data[4:12]),
		Timestamp: int64(binary.LittleEndian.Uint64(data[12:20])),
	}, nil
}

// PingPongPayload is the 8-byte nonce shared by `ping` and `pong`.
type PingPongPayload struct {
	Nonce uint64
}

func (p PingPongPayload) Encode() []byte {
	out := make([]byte, 8)
	binary.LittleEndian.PutUint64(out, p.Nonce)
	return out
}

func DecodePingPongPayload(data []byte) (PingPongPayload, error) {
	if len(data) != 8 {
		return PingPongPayload{}, bterrors.Newf(bterrors.Parse, "p2p.DecodePingPongPayload", "ping/pong payload must be 8 bytes")
	}
	return PingPongPayload{Nonce: binary.LittleEndian.Uint64(data)}, nil
}

// GetHeadersPayload requests headers starting after StartBlock, up
// to (and including) StopBlock — all zero meaning "as many as the
// peer will send".
type GetHeadersPayload struct {
	Version    uint32
	StartBlock hash.Hash256 // internal byte order
	StopBlock  hash.Hash256 // internal byte order, zero = no stop
}

func (g GetHeadersPayload) Encode() []byte {
	out := make([]byte, 0, 4+1+32+32)
	var u32 [4]byte
	binary.LittleEndian.PutUint32(u32[:], g.Version)
	out = append(out, u32[:]...)
	out = append(out, encodeVarint(1)...) // exactly one locator hash
	out = append(out, g.StartBlock[:]...)
	out = append(out, g.StopBlock[:]...)
	return out
}

// HeadersPayload is a peer's reply to getheaders: a run of block
// headers, each followed in the wire format by a tx-count byte this
// core always expects to be zero (no tx bodies requested).
type HeadersPayload struct {
	Headers []*block.Header
}

// DecodeHeadersPayload parses a `headers` message body: a varint
// count, then count entries of (80-byte header, 1-byte tx count). The
// tx-count byte is sliced off here, and a nonzero one is a Parse error.
func DecodeHeadersPayload(data []byte) (HeadersPayload, error) {
	const op = "p2p.DecodeHeadersPayload"
	count, n, err := decodeVarint(data)
	if err != nil {
		return HeadersPayload{}, err
	}
	offset := n

	out := HeadersPayload{Headers: make([]*block.Header, 0, count)}
	for i := uint64(0); i < count; i++ {
		if len(data)-offset < block.HeaderSize+1 {
			return HeadersPayload{}, bterrors.Newf(bterrors.Parse, op, "truncated header entry %d", i)
		}
		h, err := block.Parse(data[offset : offset+block.HeaderSize])
		if err != nil {
			return HeadersPayload{}, err
		}
		offset += block.HeaderSize

		txCount := data[offset]
		if txCount != 0 {
			return HeadersPayload{}, bterrors.Newf(bterrors.Parse, op, "header entry %d carries unexpected transactions", i)
		}
		offset++

		out.Headers = append(out.Headers, h)
	}
	return out, nil
}
