package main

import (
	"context"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/karpathy/cryptos/internal/bterrors"
	"github.com/karpathy/cryptos/internal/config"
	"github.com/karpathy/cryptos/pkg/hash"
	"github.com/karpathy/cryptos/pkg/p2p"
)

const userAgent = "/cryptos:0.1.0/"

var walkHeadersCmd = &cobra.Command{
	Use:   "walkheaders <start_block_hash_hex> <min_depth>",
	Short: "dial the configured peer and walk its header chain from a starting block",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		const op = "cmd.walkheaders"

		startRaw, err := hex.DecodeString(args[0])
		if err != nil || len(startRaw) != 32 {
			return bterrors.New(bterrors.Parse, op, fmt.Errorf("start_block_hash_hex must be 32 bytes of hex"))
		}
		var start hash.Hash256
		copy(start[:], startRaw)

		var minDepth int
		if _, err := fmt.Sscanf(args[1], "%d", &minDepth); err != nil {
			return bterrors.New(bterrors.Parse, op, err)
		}

		cfg := config.Load()
		ctx, cancel := context.WithTimeout(cmd.Context(), time.Duration(cfg.DialTimeoutSec)*time.Second)
		defer cancel()

		node, err := p2p.Dial(ctx, cfg.PeerAddress, cfg.Magic())
		if err != nil {
			return err
		}
		defer node.Close()

		if err := node.SetDeadline(time.Now().Add(time.Duration(cfg.DialTimeoutSec) * time.Second)); err != nil {
			return bterrors.New(bterrors.Io, op, err)
		}
		if err := node.Handshake(0, userAgent); err != nil {
			return err
		}

		headers, err := node.WalkHeaders(start, minDepth)
		if err != nil {
			return err
		}

		for _, h := range headers {
			fmt.Println(h.DisplayID())
		}
		return nil
	},
}
