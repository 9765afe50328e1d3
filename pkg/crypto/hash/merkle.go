package hash

import "github.com/r3e-network/neo-go-core/pkg/util"

// MerkleRoot computes the merkle root of hashes per spec §3/§4.2/§8:
// empty list -> zero hash, singleton -> that hash, otherwise pairwise
// Hash256 with the last element duplicated on odd-length levels.
func MerkleRoot(hashes []util.Uint256) util.Uint256 {
	if len(hashes) == 0 {
		return util.Uint256Zero
	}
	if len(hashes) == 1 {
		return hashes[0]
	}

	level := make([]util.Uint256, len(hashes))
	copy(level, hashes)

	for len(level) > 1 {
		if len(level)%2 != 0 {
			level = append(level, level[len(level)-1])
		}
		next := make([]util.Uint256, len(level)/2)
		for i := range next {
			buf := make([]byte, 0, 64)
			buf = append(buf, level[2*i].BytesBE()...)
			buf = append(buf, level[2*i+1].BytesBE()...)
			next[i] = Hash256(buf)
		}
		level = next
	}
	return level[0]
}
