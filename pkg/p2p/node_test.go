package p2p

import (
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/karpathy/cryptos/pkg/block"
	"github.com/karpathy/cryptos/pkg/hash"
)

func pipeNodes() (client *Node, peer *Node) {
	a, b := net.Pipe()
	return &Node{conn: a, magic: MagicTestnet}, &Node{conn: b, magic: MagicTestnet}
}

func TestHandshakeRoundtrip(t *testing.T) {
	client, peer := pipeNodes()
	defer client.Close()
	defer peer.Close()

	done := make(chan error, 1)
	go func() {
		done <- client.Handshake(0, "cryptos-test/0.1")
	}()

	_, err := peer.WaitFor("version")
	require.NoError(t, err)
	require.NoError(t, peer.Send(Message{Command: "version", Payload: VersionPayload{Version: ProtocolVersion}.Encode()}))
	_, err = peer.WaitFor("verack")
	require.NoError(t, err)
	require.NoError(t, peer.Send(Message{Command: "verack"}))

	require.NoError(t, <-done)
}

func TestWaitForAnswersPingTransparently(t *testing.T) {
	client, peer := pipeNodes()
	defer client.Close()
	defer peer.Close()

	go func() {
		_ = peer.Send(Message{Command: "ping", Payload: PingPongPayload{Nonce: 42}.Encode()})
		_ = peer.Send(Message{Command: "verack"})
	}()

	go func() {
		msg, err := peer.WaitFor("pong")
		require.NoError(t, err)
		pp, err := DecodePingPongPayload(msg.Payload)
		require.NoError(t, err)
		require.Equal(t, uint64(42), pp.Nonce)
	}()

	msg, err := client.WaitFor("verack")
	require.NoError(t, err)
	require.Equal(t, "verack", msg.Command)
}

func TestWaitForSurfacesUnexpectedMessage(t *testing.T) {
	client, peer := pipeNodes()
	defer client.Close()
	defer peer.Close()

	go func() {
		_ = peer.Send(Message{Command: "inv", Payload: []byte{1}})
	}()

	_, err := client.WaitFor("verack")
	require.Error(t, err)
}

func TestFetchHeadersDecodesReply(t *testing.T) {
	client, peer := pipeNodes()
	defer client.Close()
	defer peer.Close()

	header := &block.Header{Version: 1, Bits: 0x1d00ffff}
	headerBytes := header.Serialize()

	go func() {
		_, err := peer.WaitFor("getheaders")
		require.NoError(t, err)
		payload := append(encodeVarint(1), headerBytes...)
		payload = append(payload, 0x00) // tx count
		require.NoError(t, peer.Send(Message{Command: "headers", Payload: payload}))
	}()

	headers, err := client.FetchHeaders(hash.Hash256{})
	require.NoError(t, err)
	require.Len(t, headers, 1)
	require.Equal(t, header.Bits, headers[0].Bits)
}

func TestFetchHeadersSendsStartBlockUnreversed(t *testing.T) {
	client, peer := pipeNodes()
	defer client.Close()
	defer peer.Close()

	var startBlock hash.Hash256
	for i := range startBlock {
		startBlock[i] = byte(i + 1) // distinguishable from its own byte-reversal
	}

	received := make(chan Message, 1)
	go func() {
		msg, err := peer.WaitFor("getheaders")
		require.NoError(t, err)
		received <- msg
		payload := encodeVarint(0) // empty headers reply
		require.NoError(t, peer.Send(Message{Command: "headers", Payload: payload}))
	}()

	_, err := client.FetchHeaders(startBlock)
	require.NoError(t, err)

	msg := <-received
	// version(4) + varint locator count(1, since it's always exactly
	// one hash) = 5, then the 32-byte StartBlock this asserts against.
	require.Equal(t, startBlock[:], msg.Payload[5:37], "getheaders must carry StartBlock in the same raw order ID() produces, not byte-reversed")
}

func TestNodeSetDeadline(t *testing.T) {
	client, peer := pipeNodes()
	defer client.Close()
	defer peer.Close()
	require.NoError(t, client.SetDeadline(time.Now().Add(time.Second)))
}
