package state

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/aegenchain/aegen-core/types"
)

// P4: state_root() is independent of insertion order.
func TestStateRootOrderIndependent(t *testing.T) {
	s1 := New(nil)
	s1.PutAccount("alice", types.AccountState{Nonce: 1, Balance: 100})
	s1.PutAccount("bob", types.AccountState{Nonce: 2, Balance: 200})

	s2 := New(nil)
	s2.PutAccount("bob", types.AccountState{Nonce: 2, Balance: 200})
	s2.PutAccount("alice", types.AccountState{Nonce: 1, Balance: 100})

	assert.Equal(t, s1.StateRoot(), s2.StateRoot())
}

func TestSnapshotRollback(t *testing.T) {
	s := New(nil)
	s.PutAccount("alice", types.AccountState{Nonce: 0, Balance: 100})
	handle := s.Snapshot()

	s.PutAccount("alice", types.AccountState{Nonce: 1, Balance: 50})
	assert.Equal(t, uint64(50), s.GetAccount("alice").Balance)

	s.Rollback(handle)
	assert.Equal(t, uint64(100), s.GetAccount("alice").Balance)
}

func TestSnapshotCommitKeepsChanges(t *testing.T) {
	s := New(nil)
	s.PutAccount("alice", types.AccountState{Nonce: 0, Balance: 100})
	handle := s.Snapshot()
	s.PutAccount("alice", types.AccountState{Nonce: 1, Balance: 75})
	assert.NoError(t, s.Commit(handle))
	assert.Equal(t, uint64(75), s.GetAccount("alice").Balance)
}

func TestDebugDumpContainsAccount(t *testing.T) {
	s := New(nil)
	s.PutAccount("alice", types.AccountState{Nonce: 0, Balance: 100})
	dump := s.DebugDump()
	assert.Contains(t, dump, "alice")
}
