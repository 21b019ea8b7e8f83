// Package block implements Bitcoin's 80-byte block header: parse,
// serialize, id computation, compact-bits target math, and the
// difficulty retarget rule.
package block

import (
	"encoding/binary"

	"github.com/karpathy/cryptos/internal/bterrors"
	"github.com/karpathy/cryptos/pkg/hash"
)

// HeaderSize is the fixed wire size of a block header.
const HeaderSize = 80

// Header is a parsed Bitcoin block header.
type Header struct {
	Version    uint32
	PrevBlock  [32]byte // internal byte order
	MerkleRoot [32]byte // internal byte order
	Timestamp  uint32
	Bits       uint32
	Nonce      uint32
}

// Parse decodes an 80-byte header verbatim.
func Parse(data []byte) (*Header, error) {
	if len(data) != HeaderSize {
		return nil, bterrors.Newf(bterrors.Parse, "block.Parse", "header must be %d bytes, got %d", HeaderSize, len(data))
	}

	h := &Header{}
	h.Version = binary.LittleEndian.Uint32(data[0:4])
	copy(h.PrevBlock[:], data[4:36])
	copy(h.MerkleRoot[:], data[36:68])
	h.Timestamp = binary.LittleEndian.Uint32(data[68:72])
	h.Bits = binary.LittleEndian.Uint32(data[72:76])
	h.Nonce = binary.LittleEndian.Uint32(data[76:80])
	return h, nil
}

// Serialize encodes the header back to its 80-byte wire form.
func (h *Header) Serialize() []byte {
	out := make([]byte, HeaderSize)
	binary.LittleEndian.PutUint32(out[0:4], h.Version)
	copy(out[4:36], h.PrevBlock[:])
	copy(out[36:68], h.MerkleRoot[:])
	binary.LittleEndian.PutUint32(out[68:72], h.Timestamp)
	binary.LittleEndian.PutUint32(out[72:76], h.Bits)
	binary.LittleEndian.PutUint32(out[76:80], h.Nonce)
	return out
}

// ID is HASH256(header).
func (h *Header) ID() hash.Hash256 {
	return hash.Sum256(h.Serialize())
}
