package keys

import (
	"encoding/hex"
	"math/big"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestMasteringBitcoinVector reproduces a well-known fixed-scalar test
// vector: a fixed secret scalar, its public point, and the resulting
// compressed mainnet address.
func TestMasteringBitcoinVector(t *testing.T) {
	secretHex := "3aba4162c7251c891207b747840551a71939b0de081f85c4e44cf7c13e41daa6"
	secret, ok := new(big.Int).SetString(secretHex, 16)
	require.True(t, ok)

	pk := &PrivateKey{Secret: secret}
	pub, err := pk.PublicKey()
	require.NoError(t, err)

	sec := pub.SECUncompressed()
	require.Equal(t, "5C0DE3B9C8AB18DD04E3511243EC2952002DBFADC864B9628910169D9B9B00EC",
		strings.ToUpper(hex.EncodeToString(sec[1:33])))
	require.Equal(t, "243BCEFDD4347074D44BD7356D6A53C495737DD96295E2A9374BF5F02EBFC176",
		strings.ToUpper(hex.EncodeToString(sec[33:65])))

	addr := pub.Address(MainnetVersion)
	require.Equal(t, "14cxpo3MBCYYWCgF74SWTdcmxipnGUsPw3", addr)
}

func TestSECRoundtripCompressedAndUncompressed(t *testing.T) {
	pk, err := NewRandomPrivateKeyOS()
	require.NoError(t, err)
	pub, err := pk.PublicKey()
	require.NoError(t, err)

	uncompressed := pub.SECUncompressed()
	parsed, err := ParseSEC(uncompressed)
	require.NoError(t, err)
	require.True(t, parsed.Point.Equal(pub.Point))

	compressed := pub.SECCompressed()
	parsed2, err := ParseSEC(compressed)
	require.NoError(t, err)
	require.True(t, parsed2.Point.Equal(pub.Point))
}

func TestBase58CheckRoundtrip(t *testing.T) {
	payload := []byte{0x00, 1, 2, 3, 4, 5}
	encoded := Base58CheckEncode(payload)
	decoded, err := Base58CheckDecode(encoded)
	require.NoError(t, err)
	require.Equal(t, payload, decoded)
}

func TestBase58CheckDetectsCorruption(t *testing.T) {
	payload := []byte{0x00, 1, 2, 3, 4, 5}
	encoded := Base58CheckEncode(payload)
	corrupted := []byte(encoded)
	if corrupted[0] == '1' {
		corrupted[0] = '2'
	} else {
		corrupted[0] = '1'
	}
	_, err := Base58CheckDecode(string(corrupted))
	require.Error(t, err)
}

func TestEntropyMixerRequiresFiveInputs(t *testing.T) {
	_, err := NewPrivateKeyFromEntropy([]string{"a", "b"})
	require.Error(t, err)
}

func TestEntropyMixerIsDeterministic(t *testing.T) {
	inputs := []string{"correct", "horse", "battery", "staple", "extra"}
	pk1, err := NewPrivateKeyFromEntropy(inputs)
	require.NoError(t, err)
	pk2, err := NewPrivateKeyFromEntropy(inputs)
	require.NoError(t, err)
	require.Equal(t, 0, pk1.Secret.Cmp(pk2.Secret))
}

func TestParseSECRejectsBadPrefix(t *testing.T) {
	_, err := ParseSEC([]byte{0x05, 1, 2, 3})
	require.Error(t, err)
}
