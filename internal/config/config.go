// Package config binds this module's runtime settings to viper,
// following the flag/env/file precedence `zcash-lightwalletd`'s
// cmd/root.go wires up: cobra flags registered and bound to viper
// keys in init(), an optional config file layered underneath, and
// SetDefault providing the fallback for anything neither sets.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"

	"github.com/karpathy/cryptos/pkg/p2p"
)

// Config holds every value the CLI and p2p client need, read back out
// of viper once flags/env/file have all been layered in.
type Config struct {
	Network        string // "mainnet" or "testnet"
	PeerAddress    string
	DialTimeoutSec int
	LogLevel       string
	LogFile        string
}

// Load reads the current viper state into a Config.
func Load() Config {
	return Config{
		Network:        viper.GetString("network"),
		PeerAddress:    viper.GetString("peer-address"),
		DialTimeoutSec: viper.GetInt("dial-timeout-sec"),
		LogLevel:       viper.GetString("log-level"),
		LogFile:        viper.GetString("log-file"),
	}
}

// Magic returns the P2P network magic for the configured network,
// defaulting to mainnet for anything unrecognized rather than
// refusing to dial.
func (c Config) Magic() uint32 {
	if strings.EqualFold(c.Network, "testnet") {
		return p2p.MagicTestnet
	}
	return p2p.MagicMainnet
}

// Defaults is the key/value set cmd/cryptos pairs with viper.BindPFlag
// for each matching persistent flag, mirroring the BindPFlag/SetDefault
// pairing in `zcash-lightwalletd`'s cmd/root.go init().
var Defaults = map[string]interface{}{
	"network":          "mainnet",
	"peer-address":     "seed.bitcoin.sipa.be:8333",
	"dial-timeout-sec": 10,
	"log-level":        "info",
	"log-file":         "",
}

// ReadFile loads a config file if cfgFile names one, or otherwise
// looks for "cryptos.yaml" in the current directory and $HOME; a
// missing optional file is not an error.
func ReadFile(cfgFile string) error {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(home)
		}
		viper.AddConfigPath(".")
		viper.SetConfigName("cryptos")
	}

	viper.SetEnvPrefix("CRYPTOS")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return nil
		}
		return fmt.Errorf("config: %w", err)
	}
	return nil
}
