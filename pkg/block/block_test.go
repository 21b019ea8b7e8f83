package block

import (
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/karpathy/cryptos/pkg/hash"
)

const genesisHeaderHex = "0100000000000000000000000000000000000000000000000000000000000000000000003ba3edfd7a7b12b27ac72c3e67768f617fc81bc3888a51323a9fb8aa4b1e5e4a29ab5f49ffff001d1dac2b7c"

func mustDecode(t *testing.T, h string) []byte {
	t.Helper()
	b, err := hex.DecodeString(h)
	require.NoError(t, err)
	return b
}

func TestParseSerializeRoundtrip(t *testing.T) {
	data := mustDecode(t, genesisHeaderHex)
	h, err := Parse(data)
	require.NoError(t, err)
	require.Equal(t, data, h.Serialize())
}

func TestGenesisBlockID(t *testing.T) {
	data := mustDecode(t, genesisHeaderHex)
	h, err := Parse(data)
	require.NoError(t, err)

	require.Equal(t, "000000000019d6689c085ae165831e934ff763ae46a2a6c172b3f1b60a8ce26f", h.DisplayID())
}

func TestGenesisBlockMeetsItsOwnTarget(t *testing.T) {
	data := mustDecode(t, genesisHeaderHex)
	h, err := Parse(data)
	require.NoError(t, err)
	require.True(t, h.CheckProofOfWork())
}

func TestParseRejectsWrongLength(t *testing.T) {
	_, err := Parse(make([]byte, 79))
	require.Error(t, err)
}

func TestTargetLowestDifficulty(t *testing.T) {
	target := Target(0x1d00ffff)
	require.Equal(t, "ffff0000000000000000000000000000000000000000000000000000", target.Text(16))
}

func TestBitsTargetRoundtrip(t *testing.T) {
	for _, bits := range []uint32{0x1d00ffff, 0x1b0404cb, 0x207fffff} {
		target := Target(bits)
		require.Equal(t, bits, bitsFromTarget(target))
	}
}

func TestRetargetNoChangeAtExactTimespan(t *testing.T) {
	const bits = 0x1b0404cb
	newBits := Retarget(0, twoWeeks, bits)
	require.Equal(t, uint32(bits), newBits)
}

func TestRetargetClampsToQuadrupleSpan(t *testing.T) {
	const bits = 0x1b0404cb
	fast := Retarget(0, twoWeeks/8, bits) // way faster than target: should clamp to /4
	slow := Retarget(0, twoWeeks*8, bits) // way slower: should clamp to *4
	require.Equal(t, Retarget(0, twoWeeks/4, bits), fast)
	require.Equal(t, Retarget(0, twoWeeks*4, bits), slow)
}

func TestMerkleRootSingleTxEqualsItself(t *testing.T) {
	txid := hash.Sum256([]byte("coinbase"))
	require.Equal(t, txid, MerkleRoot([]hash.Hash256{txid}))
}

func TestMerkleRootOddCountDuplicatesLast(t *testing.T) {
	a := hash.Sum256([]byte("tx-a"))
	b := hash.Sum256([]byte("tx-b"))
	c := hash.Sum256([]byte("tx-c"))

	got := MerkleRoot([]hash.Hash256{a, b, c})
	want := pairHash(pairHash(a, b), pairHash(c, c))
	require.Equal(t, want, got)
}

func TestHeaderCarriesComputedMerkleRoot(t *testing.T) {
	txid := hash.Sum256([]byte("only-tx-in-block"))
	h := &Header{
		Version:    1,
		MerkleRoot: MerkleRoot([]hash.Hash256{txid}),
		Timestamp:  1231006506,
		Bits:       0x1d00ffff,
	}
	serialized := h.Serialize()
	reparsed, err := Parse(serialized)
	require.NoError(t, err)
	require.Equal(t, h.MerkleRoot, reparsed.MerkleRoot)
}
