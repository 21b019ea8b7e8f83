package tx

import (
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/karpathy/cryptos/pkg/script"
)

const exampleTxHex = "0100000001813f79011acb80925dfe69b3def355fe914bd1d96a3f5f71bf8303c6a989c7d1000000006b483045022100ed81ff192e75a3fd2304004dcadb746fa5e24c5031ccfcf21320b0277457c98f02207a986d955c6e0cb35d446a89d3f56100f4d7f67801c31967743a9c8e10615bed01210349fc4e631e3624a545de3f89f5d8684c7b8138bd94bdd531d2e213bf016b278afeffffff02a135ef01000000001976a914bc3b654dca7e56b04dca18f2566cdaf02e8d9ada88ac99c39800000000001976a9141c4bc762dd5423e332166702cb75f40df79fea1288ac19430600"

func mustDecode(t *testing.T, h string) []byte {
	t.Helper()
	b, err := hex.DecodeString(h)
	require.NoError(t, err)
	return b
}

func TestParseClassicTransaction(t *testing.T) {
	data := mustDecode(t, exampleTxHex)
	transaction, err := Parse(data)
	require.NoError(t, err)

	require.Equal(t, uint32(1), transaction.Version)
	require.False(t, transaction.Segwit)
	require.Len(t, transaction.TxIns, 1)
	require.Equal(t, uint32(0), transaction.TxIns[0].PrevIndex)
	require.Equal(t, uint32(0xFFFFFFFE), transaction.TxIns[0].Sequence)
	require.Len(t, transaction.TxOuts, 2)
	require.Equal(t, int64(32454049), transaction.TxOuts[0].Amount)
	require.Equal(t, int64(10011545), transaction.TxOuts[1].Amount)
	require.Equal(t, uint32(410393), transaction.LockTime)
}

func TestParseClassicTransactionPrevTxIsRawWireOrder(t *testing.T) {
	data := mustDecode(t, exampleTxHex)
	transaction, err := Parse(data)
	require.NoError(t, err)

	// version(4) + varint input count(1, one input fits in a single
	// byte) = 5; the next 32 bytes are the outpoint hash exactly as it
	// appears on the wire, with no byte-swap.
	want := data[5:37]
	require.Equal(t, want, transaction.TxIns[0].PrevTx[:])
}

func TestParseSerializeRoundtrip(t *testing.T) {
	data := mustDecode(t, exampleTxHex)
	transaction, err := Parse(data)
	require.NoError(t, err)
	require.Equal(t, data, transaction.Serialize())
}

func TestSegwitMarkerSurvivesRoundtrip(t *testing.T) {
	pkHash := make([]byte, 20)
	transaction := &Transaction{
		Version: 1,
		Segwit:  true,
		TxIns: []TxIn{{
			PrevIndex: 0,
			ScriptSig: script.Script{},
			Sequence:  0xffffffff,
			Witness:   [][]byte{{0x01, 0x02}, {0x03}},
		}},
		TxOuts: []TxOut{{
			Amount:       1000,
			ScriptPubKey: script.P2PKHScriptPubKey(pkHash),
		}},
		LockTime: 0,
	}

	body := transaction.Serialize()
	parsed, err := Parse(body)
	require.NoError(t, err)
	require.True(t, parsed.Segwit)
	require.Equal(t, transaction.TxIns[0].Witness, parsed.TxIns[0].Witness)
	require.Equal(t, body, parsed.Serialize())
}

func TestIDIgnoresWitnessData(t *testing.T) {
	pkHash := make([]byte, 20)
	base := Transaction{
		Version: 1,
		TxIns: []TxIn{{
			PrevIndex: 0,
			ScriptSig: script.Script{},
			Sequence:  0xffffffff,
		}},
		TxOuts: []TxOut{{
			Amount:       1000,
			ScriptPubKey: script.P2PKHScriptPubKey(pkHash),
		}},
	}

	legacy := base
	legacy.Segwit = false

	segwit := base
	segwit.Segwit = true
	segwit.TxIns = []TxIn{{
		PrevIndex: 0,
		ScriptSig: script.Script{},
		Sequence:  0xffffffff,
		Witness:   [][]byte{{0xaa}},
	}}

	require.Equal(t, legacy.ID(), segwit.ID())
}

func TestEstimateVSizeMatchesLengthWhenNotSegwit(t *testing.T) {
	data := mustDecode(t, exampleTxHex)
	transaction, err := Parse(data)
	require.NoError(t, err)
	require.Equal(t, len(data), transaction.EstimateVSize())
}
