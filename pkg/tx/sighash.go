package tx

import (
	"bytes"
	"encoding/binary"
	"math/big"

	"github.com/karpathy/cryptos/internal/bterrors"
	"github.com/karpathy/cryptos/pkg/hash"
	"github.com/karpathy/cryptos/pkg/script"
)

// SighashAll is the only sighash type this core signs or verifies.
const SighashAll uint32 = 0x00000001

// Sighash computes the legacy SIGHASH_ALL digest for signing or
// verifying input index i against its funding fundingScriptPubKey.
// Rather than mutating and restoring t, the modified serialization is
// built directly by a serializing walk that substitutes each input's
// script_sig (empty, except fundingScriptPubKey at index i).
func Sighash(t *Transaction, i int, fundingScriptPubKey script.Script) (*big.Int, error) {
	const op = "tx.Sighash"
	if i < 0 || i >= len(t.TxIns) {
		return nil, bterrors.Newf(bterrors.Invariant, op, "input index %d out of range", i)
	}

	var buf bytes.Buffer
	writeU32LE(&buf, t.Version)

	buf.Write(encodeVarint(uint64(len(t.TxIns))))
	for idx, in := range t.TxIns {
		buf.Write(in.PrevTx[:])
		writeU32LE(&buf, in.PrevIndex)

		var body []byte
		if idx == i {
			body = fundingScriptPubKey.Serialize()
		}
		buf.Write(encodeVarint(uint64(len(body))))
		buf.Write(body)

		writeU32LE(&buf, in.Sequence)
	}

	buf.Write(encodeVarint(uint64(len(t.TxOuts))))
	for _, out := range t.TxOuts {
		writeU64LE(&buf, uint64(out.Amount))
		body := out.ScriptPubKey.Serialize()
		buf.Write(encodeVarint(uint64(len(body))))
		buf.Write(body)
	}

	writeU32LE(&buf, t.LockTime)

	var typeBytes [4]byte
	binary.LittleEndian.PutUint32(typeBytes[:], SighashAll)
	buf.Write(typeBytes[:])

	digest := hash.Sum256(buf.Bytes())
	return new(big.Int).SetBytes(digest[:]), nil
}
