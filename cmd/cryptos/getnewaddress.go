package main

import (
	"fmt"
	"math/big"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/karpathy/cryptos/internal/bterrors"
	"github.com/karpathy/cryptos/pkg/keys"
)

var getNewAddressCmd = &cobra.Command{
	Use:   "getnewaddress [user|mastering]",
	Short: "generate a private key and print its Base58Check address",
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
				return bterrors.Newf(bterrors.Invariant, "getnewaddress", "malformed mastering scalar constant")
			}
			pk = &keys.PrivateKey{Secret: scalar}
		default:
			return bterrors.Newf(bterrors.Parse, "getnewaddress", "unknown mode %q, want \"user\" or \"mastering\"", mode)
		}
		if err != nil {
			return err
		}

		pub, err := pk.PublicKey()
		if err != nil {
			return err
		}

		version := keys.MainnetVersion
		if viper.GetString("network") == "testnet" {
			version = keys.TestnetVersion
		}

		fmt.Println(pub.Address(version))
		return nil
	},
}
