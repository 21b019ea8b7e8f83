// Package tx implements Bitcoin's transaction wire format — legacy
// and SegWit parse/serialize, legacy SIGHASH_ALL sighash, and P2PKH
// input validation.
package tx

import (
	"bytes"
	"encoding/binary"

	"github.com/karpathy/cryptos/internal/bterrors"
	"github.com/karpathy/cryptos/pkg/hash"
	"github.com/karpathy/cryptos/pkg/script"
)

// segwitMarker is the two bytes (0x00 0x01) that flag a SegWit
// serialization right after the version field.
var segwitMarker = [2]byte{0x00, 0x01}

// TxIn is one transaction input.
type TxIn struct {
	// PrevTx is the referenced transaction's id in the same raw,
	// un-reversed order Transaction.ID() produces — the wire format
	// carries it exactly that way, with no byte-swap; reversal is
	// display-only (see block.Header.DisplayID for the same rule
	// applied to block ids).
	PrevTx    [32]byte
	PrevIndex uint32
	ScriptSig script.Script
	Sequence  uint32
	Witness   [][]byte
}

// TxOut is one transaction output.
type TxOut struct {
	Amount       int64
	ScriptPubKey script.Script
}

// Transaction is a parsed Bitcoin transaction.
type Transaction struct {
	Version  uint32
	TxIns    []TxIn
	TxOuts   []TxOut
	LockTime uint32
	Segwit   bool
}

// Parse decodes a transaction from its wire representation: read
// version, detect the SegWit marker, read inputs and outputs, then
// (if SegWit) per-input witness stacks, then locktime.
func Parse(data []byte) (*Transaction, error) {
	const op = "tx.Parse"
	t := &Transaction{}

	if len(data) < 4 {
		return nil, bterrors.Newf(bterrors.Parse, op, "truncated version")
	}
	t.Version = binary.LittleEndian.Uint32(data[:4])
	rest := data[4:]

	if len(rest) >= 2 && rest[0] == segwitMarker[0] && rest[1] == segwitMarker[1] {
		t.Segwit = true
		rest = rest[2:]
	}

	nIn, n, err := decodeVarint(rest)
	if err != nil {
		return nil, err
	}
	rest = rest[n:]

	t.TxIns = make([]TxIn, nIn)
	for i := range t.TxIns {
		in, n, err := parseTxIn(rest)
		if err != nil {
			return nil, err
		}
		t.TxIns[i] = *in
		rest = rest[n:]
	}

	nOut, n, err := decodeVarint(rest)
	if err != nil {
		return nil, err
	}
	rest = rest[n:]

	t.TxOuts = make([]TxOut, nOut)
	for i := range t.TxOuts {
		out, n, err := parseTxOut(rest)
		if err != nil {
			return nil, err
		}
		t.TxOuts[i] = *out
		rest = rest[n:]
	}

	if t.Segwit {
		for i := range t.TxIns {
			w, n, err := parseWitness(rest)
			if err != nil {
				return nil, err
			}
			t.TxIns[i].Witness = w
			rest = rest[n:]
		}
	}

	if len(rest) < 4 {
		return nil, bterrors.Newf(bterrors.Parse, op, "truncated locktime")
	}
	t.LockTime = binary.LittleEndian.Uint32(rest[:4])

	return t, nil
}

func parseTxIn(data []byte) (*TxIn, int, error) {
	const op = "tx.parseTxIn"
	if len(data) < 36 {
		return nil, 0, bterrors.Newf(bterrors.Parse, op, "truncated outpoint")
	}
	var prevTx [32]byte
	copy(prevTx[:], data[:32])
	prevIndex := binary.LittleEndian.Uint32(data[32:36])
	offset := 36

	scriptLen, n, err := decodeVarint(data[offset:])
	if err != nil {
		return nil, 0, err
	}
	offset += n
	if uint64(len(data)-offset) < scriptLen {
		return nil, 0, bterrors.Newf(bterrors.Parse, op, "truncated script_sig")
	}
	scriptSig, err := script.Parse(data[offset : offset+int(scriptLen)])
	if err != nil {
		return nil, 0, err
	}
	offset += int(scriptLen)

	if len(data)-offset < 4 {
		return nil, 0, bterrors.Newf(bterrors.Parse, op, "truncated sequence")
	}
	sequence := binary.LittleEndian.Uint32(data[offset : offset+4])
	offset += 4

	return &TxIn{
		PrevTx:    prevTx,
		PrevIndex: prevIndex,
		ScriptSig: scriptSig,
		Sequence:  sequence,
	}, offset, nil
}

func parseTxOut(data []byte) (*TxOut, int, error) {
	const op = "tx.parseTxOut"
	if len(data) < 8 {
		return nil, 0, bterrors.Newf(bterrors.Parse, op, "truncated amount")
	}
	amount := int64(binary.LittleEndian.Uint64(data[:8]))
	offset := 8

	scriptLen, n, err := decodeVarint(data[offset:])
	if err != nil {
		return nil, 0, err
	}
	offset += n
	if uint64(len(data)-offset) < scriptLen {
		return nil, 0, bterrors.Newf(bterrors.Parse, op, "truncated script_pubkey")
	}
	scriptPubKey, err := script.Parse(data[offset : offset+int(scriptLen)])
	if err != nil {
		return nil, 0, err
	}
	offset += int(scriptLen)

	return &TxOut{Amount: amount, ScriptPubKey: scriptPubKey}, offset, nil
}

func parseWitness(data []byte) ([][]byte, int, error) {
	const op = "tx.parseWitness"
	count, n, err := decodeVarint(data)
	if err != nil {
		return nil, 0, err
	}
	offset := n
	items := make([][]byte, count)
	for i := range items {
		itemLen, n, err := decodeVarint(data[offset:])
		if err != nil {
			return nil, 0, err
		}
		offset += n
		if uint64(len(data)-offset) < itemLen {
			return nil, 0, bterrors.Newf(bterrors.Parse, op, "truncated witness item")
		}
		items[i] = append([]byte{}, data[offset:offset+int(itemLen)]...)
		offset += int(itemLen)
	}
	return items, offset, nil
}

// Serialize encodes the transaction in wire format, including the
// SegWit marker/flag and witness stacks when t.Segwit is set.
func (t *Transaction) Serialize() []byte {
	if !t.Segwit {
		return t.SerializeLegacy()
	}

	var buf bytes.Buffer
	writeU32LE(&buf, t.Version)
	buf.Write(segwitMarker[:])
	writeInsOuts(&buf, t.TxIns, t.TxOuts)
	for _, in := range t.TxIns {
		buf.Write(encodeVarint(uint64(len(in.Witness))))
		for _, item := range in.Witness {
			buf.Write(encodeVarint(uint64(len(item))))
			buf.Write(item)
		}
	}
	writeU32LE(&buf, t.LockTime)
	return buf.Bytes()
}

// SerializeLegacy encodes the transaction without the SegWit
// marker/flag/witness bytes — this is always the basis for the txid
// and for legacy sighash, even for SegWit transactions.
func (t *Transaction) SerializeLegacy() []byte {
	var buf bytes.Buffer
	writeU32LE(&buf, t.Version)
	writeInsOuts(&buf, t.TxIns, t.TxOuts)
	writeU32LE(&buf, t.LockTime)
	return buf.Bytes()
}

func writeInsOuts(buf *bytes.Buffer, ins []TxIn, outs []TxOut) {
	buf.Write(encodeVarint(uint64(len(ins))))
	for _, in := range ins {
		buf.Write(in.PrevTx[:])
		writeU32LE(buf, in.PrevIndex)
		body := in.ScriptSig.Serialize()
		buf.Write(encodeVarint(uint64(len(body))))
		buf.Write(body)
		writeU32LE(buf, in.Sequence)
	}

	buf.Write(encodeVarint(uint64(len(outs))))
	for _, out := range outs {
		writeU64LE(buf, uint64(out.Amount))
		body := out.ScriptPubKey.Serialize()
		buf.Write(encodeVarint(uint64(len(body))))
		buf.Write(body)
	}
}

func writeU32LE(buf *bytes.Buffer, v uint32) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	buf.Write(b[:])
}

func writeU64LE(buf *bytes.Buffer, v uint64) {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], v)
	buf.Write(b[:])
}

// ID returns the transaction id: HASH256 of the legacy serialization,
// which is computed identically for legacy and SegWit transactions.
func (t *Transaction) ID() hash.Hash256 {
	return hash.Sum256(t.SerializeLegacy())
}

// EstimateVSize returns the transaction's BIP141 virtual size in
// bytes: (weight + 3) / 4, where weight counts legacy bytes 4x and
// the marker/flag/witness bytes 1x. For a non-SegWit transaction this
// reduces to its plain serialized length.
func (t *Transaction) EstimateVSize() int {
	legacy := len(t.SerializeLegacy())
	if !t.Segwit {
		return legacy
	}

	witnessBytes := len(segwitMarker)
	for _, in := range t.TxIns {
		witnessBytes += len(encodeVarint(uint64(len(in.Witness))))
		for _, item := range in.Witness {
			witnessBytes += len(encodeVarint(uint64(len(item)))) + len(item)
		}
	}

	weight := legacy*4 + witnessBytes
	return (weight + 3) / 4
}
