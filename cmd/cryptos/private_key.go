package main

import (
	"bufio"
	"fmt"
	"io"
	"math/big"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/karpathy/cryptos/internal/bterrors"
	"github.com/karpathy/cryptos/pkg/keys"
)

// masteringScalar is the worked example from concrete scenario 2: a
// fixed secret behind the `mastering` mode of both `private_key` and
// `getnewaddress`, which can be chained with `public_key <hex_scalar>`
// into a reproducible demo.
const masteringScalar = "3aba4162c7251c891207b747840551a71939b0de081f85c4e44cf7c13e41daa6"

var privateKeyCmd = &cobra.Command{
	Use:   "private_key [user|mastering]",
	Short: "print a new private key scalar as 0x-prefixed hex",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		mode := ""
		if len(args) == 1 {
			mode = args[0]
		}

		var pk *keys.PrivateKey
		var err error

		switch mode {
		case "":
			pk, err = keys.NewRandomPrivateKeyOS()
		case "user":
			pk, err = privateKeyFromKeyboardTiming(cmd.InOrStdin())
		case "mastering":
			scalar, ok := new(big.Int).SetString(masteringScalar, 16)
			if !ok {
				return bterrors.Newf(bterrors.Invariant, "private_key", "malformed mastering scalar constant")
			}
			pk = &keys.PrivateKey{Secret: scalar}
		default:
			return bterrors.Newf(bterrors.Parse, "private_key", "unknown mode %q, want \"user\" or \"mastering\"", mode)
		}
		if err != nil {
			return err
		}

		fmt.Printf("0x%x\n", pk.Secret)
		return nil
	},
}

// privateKeyFromKeyboardTiming collects five lines of user input,
// folding each line's text together with the wall-clock gap since the
// previous line into the entropy mixer — a terminal-friendly stand-in
// for the book's raw keystroke-timing capture, which would require
// putting the terminal into raw mode.
func privateKeyFromKeyboardTiming(in io.Reader) (*keys.PrivateKey, error) {
	scanner := bufio.NewScanner(in)

	var inputs []string
	last := time.Now()
	for i := 0; i < 5; i++ {
		fmt.Fprintf(os.Stderr, "type some text and press enter (%d/5): ", i+1)
		if !scanner.Scan() {
			return nil, bterrors.New(bterrors.Io, "private_key user", scanner.Err())
		}
		now := time.Now()
		inputs = append(inputs, fmt.Sprintf("%s|%d", scanner.Text(), now.Sub(last).Nanoseconds()))
		last = now
	}
	return keys.NewPrivateKeyFromEntropy(inputs)
}
