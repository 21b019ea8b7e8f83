// Package p2p implements a single-peer Bitcoin wire connection:
// message framing, the version handshake, and a getheaders/headers
// walk.
package p2p

import (
	"encoding/binary"

	"github.com/karpathy/cryptos/internal/bterrors"
	"github.com/karpathy/cryptos/pkg/hash"
)

// Network magic bytes identifying which chain a connection speaks.
const (
	MagicMainnet uint32 = 0xD9B4BEF9
	MagicTestnet uint32 = 0x0709110B
)

// headerSize is the fixed framing header: magic(4) + command(12) +
// payload_len(4) + checksum(4).
const headerSize = 24

// commandSize is the NUL-padded ASCII command field width.
const commandSize = 12

// Message is one framed P2P message: a command name and its raw
// payload bytes.
type Message struct {
	Command string
	Payload []byte
}

// checksum is HASH256(payload)[:4].
func checksum(payload []byte) [4]byte {
	sum := hash.Sum256(payload)
	var out [4]byte
	copy(out[:], sum[:4])
	return out
}

// Encode frames m for the wire under the given network magic.
func (m Message) Encode(magic uint32) ([]byte, error) {
	if len(m.Command) > commandSize {
		return nil, bterrors.Newf(bterrors.Invariant, "p2p.Message.Encode", "command %q exceeds %d bytes", m.Command, commandSize)
	}

	out := make([]byte, headerSize+len(m.Payload))
	binary.LittleEndian.PutUint32(out[0:4], magic)
	copy(out[4:16], m.Command)
	binary.LittleEndian.PutUint32(out[16:20], uint32(len(m.Payload)))
	sum := checksum(m.Payload)
	copy(out[20:24], sum[:])
	copy(out[24:], m.Payload)
	return out, nil
}

// decodeHeader parses the 24-byte frame header, verifying magic, and
// returns the command name and declared payload length.
func decodeHeader(header []byte, magic uint32) (command string, payloadLen uint32, sum [4]byte, err error) {
	const op = "p2p.decodeHeader"
	if len(header) != headerSize {
		return "", 0, sum, bterrors.Newf(bterrors.Parse, op, "header must be %d bytes", headerSize)
	}
	gotMagic := binary.LittleEndian.Uint32(header[0:4])
	if gotMagic != magic {
		return "", 0, sum, bterrors.Newf(bterrors.Protocol, op, "magic mismatch: got 0x%08x, want 0x%08x", gotMagic, magic)
	}

	raw := header[4:16]
	end := len(raw)
	for i, b := range raw {
		if b == 0 {
			end = i
			break
		}
	}
	command = string(raw[:end])

	payloadLen = binary.LittleEndian.Uint32(header[16:20])
	copy(sum[:], header[20:24])
	return command, payloadLen, sum, nil
}

// verifyChecksum confirms payload matches the frame's declared
// checksum.
func verifyChecksum(payload []byte, want [4]byte) error {
	got := checksum(payload)
	if got != want {
		return bterrors.Newf(bterrors.Protocol, "p2p.verifyChecksum", "checksum mismatch")
	}
	return nil
}
