package tx

import "github.com/btcsuite/btclog"

var log btclog.Logger

func init() {
	log = btclog.Disabled
}

// UseLogger lets a CLI or service entry point wire a real logger into
// this package, replacing the default no-op.
func UseLogger(logger btclog.Logger) {
	log = logger
}
