// Package script implements Bitcoin's script byte encoding and a
// stack machine sufficient to evaluate the P2PKH opcode subset. A
// script command is either an opcode or a data push — represented
// here as a tagged Command rather than a class hierarchy.
package script

import (
	"bytes"

	"github.com/karpathy/cryptos/internal/bterrors"
)

// Opcodes used by the P2PKH subset this core evaluates, plus the
// small-integer push opcodes OP_1..OP_16, which the engine executes
// as one-byte pushes of 1..16.
const (
	OP_0            byte = 0x00
	OP_PUSHDATA1    byte = 0x4c
	OP_PUSHDATA2    byte = 0x4d
	OP_PUSHDATA4    byte = 0x4e
	OP_1            byte = 0x51
	OP_16           byte = 0x60
	OP_VERIFY       byte = 0x69
	OP_DUP          byte = 0x76
	OP_EQUAL        byte = 0x87
	OP_EQUALVERIFY  byte = 0x88
	OP_HASH160      byte = 0xa9
	OP_CHECKSIG     byte = 0xac
)

// Command is one script element: either an opcode (Data == nil) or a
// data push (Data holds the pushed bytes, Op is unused).
type Command struct {
	Op   byte
	Data []byte
}

func (c Command) isPush() bool { return c.Data != nil }

// Script is an ordered sequence of commands.
type Script []Command

// DataPush returns a Command pushing data verbatim.
func DataPush(data []byte) Command { return Command{Data: data} }

// Op returns a Command for a bare opcode.
func Op(op byte) Command { return Command{Op: op, Data: nil} }

// Parse decodes a script body (no length prefix) into commands:
// single-byte opcodes, 0x01..0x4b as "push next k bytes",
// OP_PUSHDATA1/2/4 for longer pushes.
func Parse(body []byte) (Script, error) {
	var out Script
	i := 0
	for i < len(body) {
		op := body[i]
		i++

		switch {
		case op >= 1 && op <= 0x4b:
			n := int(op)
			if i+n > len(body) {
				return nil, bterrors.Newf(bterrors.Parse, "script.Parse", "push of %d bytes exceeds script bounds", n)
			}
			out = append(out, DataPush(append([]byte{}, body[i:i+n]...)))
			i += n

		case op == OP_PUSHDATA1:
			if i+1 > len(body) {
				return nil, bterrors.Newf(bterrors.Parse, "script.Parse", "truncated OP_PUSHDATA1 length")
			}
			n := int(body[i])
			i++
			if i+n > len(body) {
				return nil, bterrors.Newf(bterrors.Parse, "script.Parse", "OP_PUSHDATA1 exceeds script bounds")
			}
			out = append(out, DataPush(append([]byte{}, body[i:i+n]...)))
			i += n

		case op == OP_PUSHDATA2:
			if i+2 > len(body) {
				return nil, bterrors.Newf(bterrors.Parse, "script.Parse", "truncated OP_PUSHDATA2 length")
			}
			n := int(body[i]) | int(body[i+1])<<8
			i += 2
			if i+n > len(body) {
				return nil, bterrors.Newf(bterrors.Parse, "script.Parse", "OP_PUSHDATA2 exceeds script bounds")
			}
			out = append(out, DataPush(append([]byte{}, body[i:i+n]...)))
			i += n

		case op == OP_PUSHDATA4:
			if i+4 > len(body) {
				return nil, bterrors.Newf(bterrors.Parse, "script.Parse", "truncated OP_PUSHDATA4 length")
			}
			n := int(body[i]) | int(body[i+1])<<8 | int(body[i+2])<<16 | int(body[i+3])<<24
			i += 4
			if i+n > len(body) {
				return nil, bterrors.Newf(bterrors.Parse, "script.Parse", "OP_PUSHDATA4 exceeds script bounds")
			}
			out = append(out, DataPush(append([]byte{}, body[i:i+n]...)))
			i += n

		default:
			out = append(out, Op(op))
		}
	}
	return out, nil
}

// Serialize encodes the script body (no length prefix), the inverse
// of Parse.
func (s Script) Serialize() []byte {
	var buf bytes.Buffer
	for _, c := range s {
		if !c.isPush() {
			buf.WriteByte(c.Op)
			continue
		}
		n := len(c.Data)
		switch {
		case n <= 0x4b:
			buf.WriteByte(byte(n))
		case n <= 0xff:
			buf.WriteByte(OP_PUSHDATA1)
			buf.WriteByte(byte(n))
		case n <= 0xffff:
			buf.WriteByte(OP_PUSHDATA2)
			buf.WriteByte(byte(n))
			buf.WriteByte(byte(n >> 8))
		default:
			buf.WriteByte(OP_PUSHDATA4)
			buf.WriteByte(byte(n))
			buf.WriteByte(byte(n >> 8))
			buf.WriteByte(byte(n >> 16))
			buf.WriteByte(byte(n >> 24))
		}
		buf.Write(c.Data)
	}
	return buf.Bytes()
}

// P2PKHScriptPubKey builds the standard
// OP_DUP OP_HASH160 <pubkeyHash> OP_EQUALVERIFY OP_CHECKSIG output
// script for a 20-byte HASH160.
func P2PKHScriptPubKey(pubKeyHash []byte) Script {
	return Script{
		Op(OP_DUP),
		Op(OP_HASH160),
		DataPush(append([]byte{}, pubKeyHash...)),
		Op(OP_EQUALVERIFY),
		Op(OP_CHECKSIG),
	}
}

// PubKeyHashFromP2PKH extracts the pushed hash from a P2PKH
// scriptPubKey, or ok=false if the script does not match that shape.
func PubKeyHashFromP2PKH(s Script) (hash []byte, ok bool) {
	if len(s) != 5 {
		return nil, false
	}
	if s[0].Op != OP_DUP || s[1].Op != OP_HASH160 || !s[2].isPush() ||
		s[3].Op != OP_EQUALVERIFY || s[4].Op != OP_CHECKSIG {
		return nil, false
	}
	return s[2].Data, true
}
