// Package log provides the subsystem logging facade shared across
// this module, following the btcsuite convention used throughout the
// wider Bitcoin Go ecosystem: a shared backend carved into one named
// logger per subsystem, defaulting to a disabled logger until the CLI
// entry point wires a real backend.
package log

import (
	"io"
	"os"

	"github.com/btcsuite/btclog"
)

// Subsystem tags, one per package-per-concern boundary.
const (
	SubsystemKeys   = "KEYS"
	SubsystemECDSA  = "SIGN"
	SubsystemScript = "SCPT"
	SubsystemTx     = "TX  "
	SubsystemBlock  = "BLCK"
	SubsystemP2P    = "P2P "
	SubsystemCLI    = "CLI "
)

var backend = btclog.NewBackend(os.Stderr)

// Disabled is btclog's no-op Logger, the value a package's logger
// holds until its UseLogger is called.
var Disabled = btclog.Disabled

// Logger returns the named subsystem's logger, carved from the shared
// backend.
func Logger(subsystem string) btclog.Logger {
	return backend.Logger(subsystem)
}

// SetOutput redirects every future subsystem logger's output to w —
// the CLI calls this once at startup if --log-file is set.
func SetOutput(w io.Writer) {
	backend = btclog.NewBackend(w)
}

// ParseLevel maps a human log-level name to btclog.Level, defaulting
// to Info for anything unrecognized rather than failing startup over
// a logging preference.
func ParseLevel(name string) btclog.Level {
	level, ok := btclog.LevelFromString(name)
	if !ok {
		return btclog.LevelInfo
	}
	return level
}

// NewSubsystemLogger builds a Logger for tag at the given level,
// ready to be handed to a package's UseLogger.
func NewSubsystemLogger(tag, levelName string) btclog.Logger {
	logger := Logger(tag)
	logger.SetLevel(ParseLevel(levelName))
	return logger
}
