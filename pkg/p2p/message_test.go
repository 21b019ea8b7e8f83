package p2p

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeHeaderRoundtrip(t *testing.T) {
	msg := Message{Command: "verack", Payload: nil}
	framed, err := msg.Encode(MagicMainnet)
	require.NoError(t, err)
	require.Len(t, framed, headerSize)

	command, payloadLen, sum, err := decodeHeader(framed[:headerSize], MagicMainnet)
	require.NoError(t, err)
	require.Equal(t, "verack", command)
	require.Equal(t, uint32(0), payloadLen)
	require.NoError(t, verifyChecksum(nil, sum))
}

func TestEncodeRejectsOverlongCommand(t *testing.T) {
	msg := Message{Command: "this-command-name-is-too-long", Payload: nil}
	_, err := msg.Encode(MagicMainnet)
	require.Error(t, err)
}

func TestDecodeHeaderRejectsWrongMagic(t *testing.T) {
	msg := Message{Command: "ping", Payload: []byte{1, 2, 3, 4, 5, 6, 7, 8}}
	framed, err := msg.Encode(MagicMainnet)
	require.NoError(t, err)
	_, _, _, err = decodeHeader(framed[:headerSize], MagicTestnet)
	require.Error(t, err)
}

func TestVerifyChecksumRejectsTamperedPayload(t *testing.T) {
	msg := Message{Command: "ping", Payload: []byte{1, 2, 3, 4, 5, 6, 7, 8}}
	framed, err := msg.Encode(MagicMainnet)
	require.NoError(t, err)
	_, _, sum, err := decodeHeader(framed[:headerSize], MagicMainnet)
	require.NoError(t, err)

	tampered := []byte{1, 2, 3, 4, 5, 6, 7, 9}
	require.Error(t, verifyChecksum(tampered, sum))
}

func TestVarintRoundtrip(t *testing.T) {
	for _, v := range []uint64{0, 0xfc, 0xfd, 0xffff, 0x10000, 0xffffffff} {
		enc := encodeVarint(v)
		got, n, err := decodeVarint(enc)
		require.NoError(t, err)
		require.Equal(t, v, got)
		require.Equal(t, len(enc), n)
	}
}
