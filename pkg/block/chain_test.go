package block

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/karpathy/cryptos/pkg/hash"
)

// chainFixture stands in for the 40,000-header walk a live node would
// perform against a real peer (pkg/p2p.Node.WalkHeaders): three
// headers chained off the real genesis header, each mined (at a
// trivial regtest-style target) to satisfy its own proof of work, and
// each carrying the previous header's raw, un-reversed id as its
// PrevBlock. A bounded replay over this fixture batch exercises the
// same per-header checks a full walk would: prev_block linkage, proof
// of work, and the retarget boundary rule.
var chainFixture = []string{
	genesisHeaderHex,
	"010000006fe28c0ab6f1b372c1a6a246ae63f74f931e8365e15a089c68d61900000000006a5da3c55a564fb503d0daa6a242818d62659aff0ed0e26a6c8c0d8c65a9c5e261bc6649ffff7f2000000000",
	"010000001d669426ef6bb76f0370e2afbb59d0a0fa4863eb39f2447e900c231a2677c777e1d06b61c0115154760ac393a77240cc1d3f5a368c0aecc51602f83e7e27f5c4b9be6649ffff7f2001000000",
	"010000007d09d9553e77708c150f8e57b28d65ac67dabdfc12394032e41f2a0083d12f29a18f6100400da6992258d25cbdf83150f638159873a45855e97994ba98826f7d11c16649ffff7f200b000000",
}

func TestChainWalkLinkagePowAndRetarget(t *testing.T) {
	headers := make([]*Header, len(chainFixture))
	for i, hexStr := range chainFixture {
		data := mustDecode(t, hexStr)
		h, err := Parse(data)
		require.NoError(t, err)
		headers[i] = h
	}

	for i, h := range headers {
		require.True(t, h.CheckProofOfWork(), "header %d fails its own proof of work", i)
		if i == 0 {
			continue
		}
		require.Equal(t, headers[i-1].ID(), hash.Hash256(h.PrevBlock),
			"header %d's PrevBlock does not equal the prior header's raw id", i)
	}

	const epochBits = 0x1d00ffff
	const epochFirstTimestamp = 1231006505
	const epochLastTimestamp = epochFirstTimestamp + twoWeeks + 100000
	require.Equal(t, uint32(0x1d011528), Retarget(epochFirstTimestamp, epochLastTimestamp, epochBits))
}
