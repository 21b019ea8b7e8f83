package p2p

import (
	"context"
	"io"
	"net"
	"time"

	"github.com/karpathy/cryptos/internal/bterrors"
	"github.com/karpathy/cryptos/pkg/block"
	"github.com/karpathy/cryptos/pkg/hash"
)

// Node owns a single blocking TCP connection to one peer: no
// parallel I/O, no background goroutine. Callers drive every read and
// write from their own goroutine.
type Node struct {
	conn  net.Conn
	magic uint32
}

// Dial opens a TCP connection to address, honoring ctx for
// cancellation and deadlines the way `zcash-lightwalletd`'s networked
// clients do — caller-configurable timeouts expressed through
// context.Context rather than a core-owned clock.
func Dial(ctx context.Context, address string, magic uint32) (*Node, error) {
	var dialer net.Dialer
	conn, err := dialer.DialContext(ctx, "tcp", address)
	if err != nil {
		log.Errorf("dial %s failed: %v", address, err)
		return nil, bterrors.New(bterrors.Io, "p2p.Dial", err)
	}
	log.Infof("connected to %s", address)
	return &Node{conn: conn, magic: magic}, nil
}

// Close closes the underlying connection; any in-flight read then
// fails, which is this core's only cancellation mechanism.
func (n *Node) Close() error {
	return n.conn.Close()
}

// SetDeadline forwards to the underlying connection, letting callers
// impose their own read/write timeouts.
func (n *Node) SetDeadline(t time.Time) error {
	return n.conn.SetDeadline(t)
}

// Send frames and writes msg.
func (n *Node) Send(msg Message) error {
	framed, err := msg.Encode(n.magic)
	if err != nil {
		return err
	}
	if _, err := n.conn.Write(framed); err != nil {
		return bterrors.New(bterrors.Io, "p2p.Node.Send", err)
	}
	return nil
}

// Receive blocks for one complete framed message.
func (n *Node) Receive() (Message, error) {
	const op = "p2p.Node.Receive"
	header := make([]byte, headerSize)
	if _, err := io.ReadFull(n.conn, header); err != nil {
		return Message{}, bterrors.New(bterrors.Io, op, err)
	}

	command, payloadLen, sum, err := decodeHeader(header, n.magic)
	if err != nil {
		return Message{}, err
	}

	payload := make([]byte, payloadLen)
	if _, err := io.ReadFull(n.conn, payload); err != nil {
		return Message{}, bterrors.New(bterrors.Io, op, err)
	}
	if err := verifyChecksum(payload, sum); err != nil {
		return Message{}, err
	}

	return Message{Command: command, Payload: payload}, nil
}

// WaitFor drains and dispatches incoming frames until one with
// command `want` arrives, replying to `ping` transparently in the
// meantime. Any other unexpected command is surfaced to the caller as
// a Protocol error.
func (n *Node) WaitFor(want string) (Message, error) {
	for {
		msg, err := n.Receive()
		if err != nil {
			return Message{}, err
		}
		if msg.Command == want {
			return msg, nil
		}
		if msg.Command == "ping" {
			pp, err := DecodePingPongPayload(msg.Payload)
			if err != nil {
				return Message{}, err
			}
			if err := n.Send(Message{Command: "pong", Payload: PingPongPayload{Nonce: pp.Nonce}.Encode()}); err != nil {
				return Message{}, err
			}
			continue
		}
		log.Warnf("unexpected message %q while waiting for %q", msg.Command, want)
		return Message{}, bterrors.Newf(bterrors.Protocol, "p2p.Node.WaitFor", "unexpected message %q while waiting for %q", msg.Command, want)
	}
}

// Handshake performs the version/verack exchange.
func (n *Node) Handshake(startHeight int32, userAgent string) error {
	version := VersionPayload{
		Version:     ProtocolVersion,
		Services:    0,
		Timestamp:   time.Now().Unix(),
		UserAgent:   userAgent,
		StartHeight: startHeight,
	}
	if err := n.Send(Message{Command: "version", Payload: version.Encode()}); err != nil {
		return err
	}
	if _, err := n.WaitFor("version"); err != nil {
		return err
	}
	if err := n.Send(Message{Command: "verack"}); err != nil {
		return err
	}
	if _, err := n.WaitFor("verack"); err != nil {
		return err
	}
	log.Debugf("handshake complete, user agent %q", userAgent)
	return nil
}

// FetchHeaders sends one getheaders request anchored at startBlock
// and returns the peer's reply: up to 2000 entries, each a header
// plus a tx-count byte this core requires to be zero.
func (n *Node) FetchHeaders(startBlock hash.Hash256) ([]*block.Header, error) {
	req := GetHeadersPayload{Version: ProtocolVersion, StartBlock: startBlock}
	if err := n.Send(Message{Command: "getheaders", Payload: req.Encode()}); err != nil {
		return nil, err
	}
	resp, err := n.WaitFor("headers")
	if err != nil {
		return nil, err
	}
	payload, err := DecodeHeadersPayload(resp.Payload)
	if err != nil {
		return nil, err
	}
	return payload.Headers, nil
}

// WalkHeaders repeatedly calls FetchHeaders, advancing the locator to
// the last header received, until minDepth headers have been
// accumulated or a reply returns no new headers.
func (n *Node) WalkHeaders(start hash.Hash256, minDepth int) ([]*block.Header, error) {
	var all []*block.Header
	cursor := start

	for len(all) < minDepth {
		batch, err := n.FetchHeaders(cursor)
		if err != nil {
			return nil, err
		}
		if len(batch) == 0 {
			break
		}
		all = append(all, batch...)
		cursor = batch[len(batch)-1].ID()
	}
	return all, nil
}
