package p2p

import "github.com/btcsuite/btclog"

// log is this package's subsystem logger, following the
// btcsuite convention: disabled until a caller supplies a real
// backend via UseLogger.
var log btclog.Logger

func init() {
	log = btclog.Disabled
}

// UseLogger lets a CLI or service entry point wire a real logger into
// this package, replacing the default no-op.
func UseLogger(logger btclog.Logger) {
	log = logger
}
