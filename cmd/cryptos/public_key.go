package main

import (
	"fmt"
	"math/big"

	"github.com/spf13/cobra"

	"github.com/karpathy/cryptos/internal/bterrors"
	"github.com/karpathy/cryptos/pkg/keys"
)

var publicKeyCmd = &cobra.Command{
	Use:   "public_key <hex_scalar>",
	Short: "derive and print a public key's X and Y coordinates in uppercase hex",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		scalar, ok := new(big.Int).SetString(args[0], 16)
		if !ok {
			return bterrors.Newf(bterrors.Parse, "public_key", "not a hex scalar: %q", args[0])
		}

		pub, err := (&keys.PrivateKey{Secret: scalar}).PublicKey()
		if err != nil {
			return err
		}

		fmt.Printf("X=%X\n", pub.Point.X.Value)
		fmt.Printf("Y=%X\n", pub.Point.Y.Value)
		return nil
	},
}
