package consensus

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aegenchain/aegen-core/types"
)

// S4: consensus finalization, N=4, all honest.
func TestS4FinalizationAllHonest(t *testing.T) {
	committee := []string{"n0", "n1", "n2", "n3"}
	var blockHash [32]byte
	blockHash[0] = 0x42

	finalizedCount := 0
	nodes := make([]*Node, 4)
	for i, id := range committee {
		dir := t.TempDir()
		vl, err := OpenVoteLog(filepath.Join(dir, "votes.log"))
		require.NoError(t, err)
		t.Cleanup(func() { vl.Close() })
		nodes[i] = NewNode(id, committee, vl, nil, func([32]byte) { finalizedCount++ })
	}

	for _, n := range nodes {
		require.NoError(t, n.OnPrePrepare(1, blockHash))
	}

	for _, n := range nodes {
		for _, voter := range committee {
			if voter == n.selfID {
				continue
			}
			err := n.OnPrepare(types.Vote{VoterID: voter, BlockHash: blockHash, Approve: true, Phase: types.PhasePrepare})
			require.NoError(t, err)
		}
	}

	for _, n := range nodes {
		for _, voter := range committee {
			if voter == n.selfID {
				continue
			}
			_ = n.OnCommit(types.Vote{VoterID: voter, BlockHash: blockHash, Approve: true, Phase: types.PhaseCommit})
		}
	}

	assert.Equal(t, 4, finalizedCount)
}

func TestQuorumFormula(t *testing.T) {
	assert.Equal(t, 3, Quorum(4))
	assert.Equal(t, 1, Quorum(1))
	assert.Equal(t, 5, Quorum(7))
}

// S5: crash recovery must not allow a second Prepare cast for the same
// (height, blockHash).
func TestS5CrashRecoveryNoDoubleVote(t *testing.T) {
	committee := []string{"n0", "n1", "n2", "n3"}
	var blockHash [32]byte
	blockHash[0] = 0x7

	dir := t.TempDir()
	logPath := filepath.Join(dir, "votes.log")
	vl, err := OpenVoteLog(logPath)
	require.NoError(t, err)

	n := NewNode("n0", committee, vl, nil, nil)
	require.NoError(t, n.OnPrePrepare(1, blockHash))
	vl.Close()

	records, err := ReplayVoteLog(logPath)
	require.NoError(t, err)

	vl2, err := OpenVoteLog(logPath)
	require.NoError(t, err)
	t.Cleanup(func() { vl2.Close() })
	n2 := NewNode("n0", committee, vl2, nil, nil)
	n2.Recover(records)

	assert.Equal(t, 1, n2.VoteCount(types.PhasePrepare, blockHash))

	err = n2.castLocked(types.PhasePrepare, blockHash)
	assert.Error(t, err)
}
