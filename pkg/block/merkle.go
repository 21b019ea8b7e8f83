package block

import "github.com/karpathy/cryptos/pkg/hash"

// MerkleRoot folds a list of transaction ids into the single root
// hash committed in a block header's MerkleRoot field, following
// Bitcoin's odd-count rule: any level with an odd number of nodes
// duplicates its last entry before pairing up, rather than leaving it
// unpaired.
func MerkleRoot(txids []hash.Hash256) hash.Hash256 {
	if len(txids) == 0 {
		return hash.Hash256{}
	}

	level := make([]hash.Hash256, len(txids))
	copy(level, txids)

	for len(level) > 1 {
		var next []hash.Hash256
		for i := 0; i < len(level); i += 2 {
			left := level[i]
			right := left
			if i+1 < len(level) {
				right = level[i+1]
			}
			next = append(next, pairHash(left, right))
		}
		level = next
	}
	return level[0]
}

// pairHash is HASH256(left || right), the merkle tree's internal node
// combiner.
func pairHash(left, right hash.Hash256) hash.Hash256 {
	combined := make([]byte, 64)
	copy(combined[0:32], left[:])
	copy(combined[32:64], right[:])
	return hash.Sum256(combined)
}
