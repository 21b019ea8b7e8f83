package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/karpathy/cryptos/internal/bterrors"
	"github.com/karpathy/cryptos/internal/sha256x"
)

var sha256Cmd = &cobra.Command{
	Use:   "sha256 <path>",
	Short: "print the hex SHA-256 digest of a file's contents",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return bterrors.New(bterrors.Io, "sha256", err)
		}
		digest := sha256x.Sum256(data)
		fmt.Printf("%x\n", digest)
		return nil
	},
}
