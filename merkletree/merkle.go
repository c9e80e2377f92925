// Package merkletree computes Merkle roots over 32-byte leaves using
// pair-hashing with last-leaf duplication on odd levels, the variant
// original_source/core/merkle.cpp implements and spec §4.3/§4.4 standardize
// on (the source carries a second, raw-concatenation variant that this core
// does not use).
package merkletree

import "github.com/aegenchain/aegen-core/cryptoutil"

// ZeroRoot is the root of an empty leaf set.
var ZeroRoot [32]byte

// Root computes the Merkle root of leaves. An empty slice yields the zero
// hash. Determinism: Root(leaves) == Root(leaves) always, and leaf order is
// significant — callers that need order-independence (e.g. state_root())
// must sort leaves before calling Root.
func Root(leaves [][32]byte) [32]byte {
	if len(leaves) == 0 {
		return ZeroRoot
	}
	level := make([][32]byte, len(leaves))
	copy(level, leaves)
	for len(level) > 1 {
		if len(level)%2 == 1 {
			level = append(level, level[len(level)-1])
		}
		next := make([][32]byte, len(level)/2)
		for i := 0; i < len(level); i += 2 {
			next[i/2] = cryptoutil.HashConcat(level[i][:], level[i+1][:])
		}
		level = next
	}
	return level[0]
}

// Proof is an inclusion proof: the sibling hash at each level from leaf to
// root, and a bit per level indicating whether the sibling sits on the
// right (true) or left (false) of the node being hashed up.
type Proof struct {
	Siblings  [][32]byte
	RightSide []bool
}

// ComputeProof builds an inclusion proof for leaves[index].
func ComputeProof(leaves [][32]byte, index int) Proof {
	var proof Proof
	level := make([][32]byte, len(leaves))
	copy(level, leaves)
	idx := index
	for len(level) > 1 {
		if len(level)%2 == 1 {
			level = append(level, level[len(level)-1])
		}
		var siblingIdx int
		var rightSide bool
		if idx%2 == 0 {
			siblingIdx = idx + 1
			rightSide = true
		} else {
			siblingIdx = idx - 1
			rightSide = false
		}
		proof.Siblings = append(proof.Siblings, level[siblingIdx])
		proof.RightSide = append(proof.RightSide, rightSide)
		next := make([][32]byte, len(level)/2)
		for i := 0; i < len(level); i += 2 {
			next[i/2] = cryptoutil.HashConcat(level[i][:], level[i+1][:])
		}
		level = next
		idx /= 2
	}
	return proof
}

// VerifyProof recomputes the root from leaf and proof and compares to root.
func VerifyProof(leaf [32]byte, proof Proof, root [32]byte) bool {
	cur := leaf
	for i, sib := range proof.Siblings {
		if proof.RightSide[i] {
			cur = cryptoutil.HashConcat(cur[:], sib[:])
		} else {
			cur = cryptoutil.HashConcat(sib[:], cur[:])
		}
	}
	return cur == root
}
