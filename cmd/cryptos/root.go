// Command cryptos is a thin cobra front end that formats the core
// packages' output as text. No wire-format or cryptographic logic
// lives here, only argument parsing and exit-code mapping.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/karpathy/cryptos/internal/bterrors"
	"github.com/karpathy/cryptos/internal/config"
	"github.com/karpathy/cryptos/internal/log"
	"github.com/karpathy/cryptos/pkg/block"
	"github.com/karpathy/cryptos/pkg/p2p"
	"github.com/karpathy/cryptos/pkg/tx"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "cryptos",
	Short: "cryptos is a from-scratch Bitcoin primitives toolkit",
	Long: `cryptos exposes the SHA-256, secp256k1/ECDSA, Base58Check
address, transaction, block header, and P2P primitives implemented in
this module as a set of small CLI subcommands.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./cryptos.yaml or $HOME/cryptos.yaml)")
	rootCmd.PersistentFlags().String("network", "mainnet", "bitcoin network: mainnet or testnet")
	rootCmd.PersistentFlags().String("peer-address", "seed.bitcoin.sipa.be:8333", "P2P peer host:port to dial")
	rootCmd.PersistentFlags().Int("dial-timeout-sec", 10, "P2P dial timeout, in seconds")
	rootCmd.PersistentFlags().String("log-level", "info", "subsystem log level: trace, debug, info, warn, error, critical")
	rootCmd.PersistentFlags().String("log-file", "", "write logs to this file instead of stderr")

	for key := range config.Defaults {
		flagName := key
		_ = viper.BindPFlag(flagName, rootCmd.PersistentFlags().Lookup(flagName))
		viper.SetDefault(flagName, config.Defaults[flagName])
	}

	rootCmd.AddCommand(getNewAddressCmd)
	rootCmd.AddCommand(sha256Cmd)
	rootCmd.AddCommand(privateKeyCmd)
	rootCmd.AddCommand(publicKeyCmd)
	rootCmd.AddCommand(walkHeadersCmd)
}

func initConfig() {
	if err := config.ReadFile(cfgFile); err != nil {
		fmt.Fprintln(os.Stderr, err)
	}

	cfg := config.Load()
	if cfg.LogFile != "" {
		if f, err := os.OpenFile(cfg.LogFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644); err == nil {
			log.SetOutput(f)
		}
	}

	p2p.UseLogger(log.NewSubsystemLogger(log.SubsystemP2P, cfg.LogLevel))
	tx.UseLogger(log.NewSubsystemLogger(log.SubsystemTx, cfg.LogLevel))
	block.UseLogger(log.NewSubsystemLogger(log.SubsystemBlock, cfg.LogLevel))
}

// Execute runs the root command, mapping any returned error to a
// non-zero exit code and a one-line message: the Kind of a
// bterrors.Error selects the exit status so scripts driving this CLI
// can distinguish a parse failure from an I/O failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(exitCodeFor(err))
	}
}

func exitCodeFor(err error) int {
	var be *bterrors.Error
	if !errors.As(err, &be) {
		return 1
	}
	switch be.Kind {
	case bterrors.Parse:
		return 1
	case bterrors.Crypto:
		return 2
	case bterrors.Protocol:
		return 3
	case bterrors.Io:
		return 4
	case bterrors.Invariant:
		return 5
	default:
		return 1
	}
}

func main() {
	Execute()
}
