package block

import (
	"encoding/hex"
	"math/big"

	"github.com/karpathy/cryptos/pkg/hash"
)

// retargetInterval is the number of blocks between difficulty
// adjustments.
const retargetInterval = 2016

// twoWeeks is the intended retarget timespan in seconds.
const twoWeeks = 14 * 24 * 60 * 60

// DisplayID renders the header's HASH256 id the way explorers and
// wallets do: the raw digest byte-reversed into the familiar
// big-endian-looking hex string.
func (h *Header) DisplayID() string {
	id := h.ID()
	return hex.EncodeToString(hash.ReverseBytes(id[:]))
}

// idAsLittleEndianInt interprets the raw HASH256 digest as a
// little-endian integer: Bitcoin stores hash digests in that order
// internally, and only reverses them for display (DisplayID above).
func idAsLittleEndianInt(id hash.Hash256) *big.Int {
	return new(big.Int).SetBytes(hash.ReverseBytes(id[:]))
}

// Target expands the compact `bits` encoding into a full target:
// mantissa * 256^(exponent-3), where bits = mantissa(3 bytes) with a
// one-byte exponent.
func Target(bits uint32) *big.Int {
	exponent := int(bits >> 24)
	mantissa := int64(bits & 0x00ffffff)

	target := big.NewInt(mantissa)
	shift := (exponent - 3) * 8
	if shift >= 0 {
		target.Lsh(target, uint(shift))
	} else {
		target.Rsh(target, uint(-shift))
	}
	return target
}

// bitsFromTarget re-encodes a target back into compact form, the
// inverse of Target.
func bitsFromTarget(target *big.Int) uint32 {
	if target.Sign() <= 0 {
		return 0
	}
	raw := target.Bytes()

	exponent := len(raw)
	var mantissa uint32
	switch {
	case len(raw) >= 3:
		mantissa = uint32(raw[0])<<16 | uint32(raw[1])<<8 | uint32(raw[2])
	case len(raw) == 2:
		mantissa = uint32(raw[0])<<16 | uint32(raw[1])<<8
	default:
		mantissa = uint32(raw[0]) << 16
	}

	// A set high bit would read as a negative mantissa in Bitcoin's
	// sign-magnitude compact form; shift one byte out to clear it.
	if mantissa&0x00800000 != 0 {
		mantissa >>= 8
		exponent++
	}

	return uint32(exponent)<<24 | mantissa
}

// CheckProofOfWork reports whether the header's id, read as a
// little-endian integer, is below its own target.
func (h *Header) CheckProofOfWork() bool {
	ok := idAsLittleEndianInt(h.ID()).Cmp(Target(h.Bits)) < 0
	if !ok {
		log.Warnf("header %s exceeds target for bits 0x%08x", h.DisplayID(), h.Bits)
	}
	return ok
}

// Retarget computes the new compact `bits` for the block that follows
// a 2016-block epoch, given the timestamps of the epoch's first and
// last headers and the epoch's current bits.
//
// This preserves a well-known consensus quirk: Bitcoin Core measures
// the timespan using the interval between blocks 0 and 2015 of the
// epoch (2015 block intervals, not 2016), rather than using the
// actual first block of the *next* epoch. Correcting this would
// produce a chain that forks from every real Bitcoin node, so the
// off-by-one is intentionally preserved rather than "fixed".
func Retarget(firstTimestamp, lastTimestamp, bits uint32) uint32 {
	timeDiff := int64(lastTimestamp) - int64(firstTimestamp)

	minTimespan := int64(twoWeeks / 4)
	maxTimespan := int64(twoWeeks * 4)
	switch {
	case timeDiff < minTimespan:
		timeDiff = minTimespan
	case timeDiff > maxTimespan:
		timeDiff = maxTimespan
	}

	newTarget := Target(bits)
	newTarget.Mul(newTarget, big.NewInt(timeDiff))
	newTarget.Div(newTarget, big.NewInt(twoWeeks))

	newBits := bitsFromTarget(newTarget)
	log.Debugf("retarget: timespan %ds, bits 0x%08x -> 0x%08x", timeDiff, bits, newBits)
	return newBits
}

// RetargetInterval and TwoWeeks export the consensus constants used
// by the caller driving a chain of headers through Retarget.
const (
	RetargetInterval = retargetInterval
	TwoWeeks         = twoWeeks
)
