package merkletree

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/aegenchain/aegen-core/cryptoutil"
)

func leaf(s string) [32]byte {
	return cryptoutil.Hash([]byte(s))
}

func TestRootDeterministic(t *testing.T) {
	leaves := [][32]byte{leaf("a"), leaf("b"), leaf("c")}
	assert.Equal(t, Root(leaves), Root(leaves))
}

func TestOddLeavesDuplicateLast(t *testing.T) {
	leaves := [][32]byte{leaf("a"), leaf("b"), leaf("c")}
	withDup := [][32]byte{leaf("a"), leaf("b"), leaf("c"), leaf("c")}
	assert.Equal(t, Root(withDup), Root(leaves))
}

func TestEmptyRootIsZero(t *testing.T) {
	assert.Equal(t, ZeroRoot, Root(nil))
}

func TestProofRoundTrip(t *testing.T) {
	leaves := [][32]byte{leaf("a"), leaf("b"), leaf("c"), leaf("d"), leaf("e")}
	root := Root(leaves)
	for i := range leaves {
		proof := ComputeProof(leaves, i)
		assert.True(t, VerifyProof(leaves[i], proof, root), "index %d", i)
	}
}
