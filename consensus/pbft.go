package consensus

import (
	"sync"

	"github.com/aegenchain/aegen-core/aerr"
	"github.com/aegenchain/aegen-core/types"
)

// BlockState is a single block's position in the PBFT phase state machine.
type BlockState int

const (
	StateIdle BlockState = iota
	StatePrepare
	StateCommit
	StateFinalized
)

// Quorum returns ⌊2N/3⌋+1 for a committee of size n, per spec §4.9/GLOSSARY.
func Quorum(n int) int {
	return (2*n)/3 + 1
}

type voteKey struct {
	phase     types.Phase
	blockHash [32]byte
}

// Node drives the per-block PBFT state machine. A single mutex covers the
// whole state machine; the design note calls for re-entrancy because a
// vote handler may synthesize and broadcast another vote within the same
// critical section (Prepare -> Commit). Go's sync.Mutex is not re-entrant,
// so instead of recursing through the locked public API, OnPrepare
// calls castLocked directly while still holding the lock; the vote-log
// append and the broadcast both run inside that single critical section.
type Node struct {
	mu sync.Mutex

	selfID     string
	committee  []string
	quorum     int
	voteLog    *VoteLog
	// broadcast must be non-blocking (e.g. enqueue onto a channel the
	// network handler drains) — it runs inside the state-machine lock, so
	// it must never perform socket I/O itself, per spec §5.
	broadcast  func(types.Vote)
	onFinalize func(blockHash [32]byte)

	state map[[32]byte]BlockState
	votes map[voteKey]map[string]bool
	cast  map[voteKey]bool // whether self has cast this (phase, blockHash) vote
	expectedHeight map[[32]byte]uint64
}

func NewNode(selfID string, committee []string, voteLog *VoteLog, broadcast func(types.Vote), onFinalize func([32]byte)) *Node {
	return &Node{
		selfID:     selfID,
		committee:  committee,
		quorum:     Quorum(len(committee)),
		voteLog:    voteLog,
		broadcast:  broadcast,
		onFinalize: onFinalize,
		state:      make(map[[32]byte]BlockState),
		votes:      make(map[voteKey]map[string]bool),
		cast:       make(map[voteKey]bool),
		expectedHeight: make(map[[32]byte]uint64),
	}
}

// Recover replays the durable vote log to rebuild in-memory tallies after a
// crash, per spec S5 — this prevents double-voting for any (phase,
// blockHash) the node already voted on before crashing.
func (n *Node) Recover(records []Record) {
	n.mu.Lock()
	defer n.mu.Unlock()
	for _, r := range records {
		n.tallyLocked(r.Phase, r.VoterID, r.BlockHash, r.Approve)
	}
}

func (n *Node) tallyLocked(phase types.Phase, voterID string, blockHash [32]byte, approve bool) {
	if !approve {
		return
	}
	k := voteKey{phase: phase, blockHash: blockHash}
	m, ok := n.votes[k]
	if !ok {
		m = make(map[string]bool)
		n.votes[k] = m
	}
	m[voterID] = true
	if voterID == n.selfID {
		n.cast[k] = true
	}
}

func (n *Node) countLocked(phase types.Phase, blockHash [32]byte) int {
	return len(n.votes[voteKey{phase: phase, blockHash: blockHash}])
}

// OnPrePrepare is the IDLE -> PREPARE transition: validateBlock must have
// already been performed by the caller (it needs the execution engine,
// which this package does not depend on); this method assumes the block
// is valid for height expectedHeight and moves it into PREPARE, logging
// and broadcasting this node's own Prepare vote.
func (n *Node) OnPrePrepare(height uint64, blockHash [32]byte) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.state[blockHash] != StateIdle {
		return aerr.NewConsensusError(aerr.PhaseMismatch, "not idle")
	}
	n.state[blockHash] = StatePrepare
	n.expectedHeight[blockHash] = height
	return n.castLocked(types.PhasePrepare, blockHash)
}

// OnPrepare handles an incoming Prepare vote. durably logs it, tallies it,
// and on reaching quorum while still in PREPARE, transitions to COMMIT and
// casts this node's own Commit vote within the same critical section.
func (n *Node) OnPrepare(v types.Vote) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.onVoteLocked(types.PhasePrepare, v, StatePrepare, StateCommit, func(bh [32]byte) error {
		return n.castLocked(types.PhaseCommit, bh)
	})
}

// OnCommit handles an incoming Commit vote; on quorum it finalizes the
// block, purges its vote tallies, and resets to IDLE.
func (n *Node) OnCommit(v types.Vote) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.onVoteLocked(types.PhaseCommit, v, StateCommit, StateFinalized, func(bh [32]byte) error {
		if n.onFinalize != nil {
			n.onFinalize(bh)
		}
		delete(n.votes, voteKey{phase: types.PhasePrepare, blockHash: bh})
		delete(n.votes, voteKey{phase: types.PhaseCommit, blockHash: bh})
		delete(n.cast, voteKey{phase: types.PhasePrepare, blockHash: bh})
		delete(n.cast, voteKey{phase: types.PhaseCommit, blockHash: bh})
		n.state[bh] = StateIdle
		return nil
	})
}

func (n *Node) onVoteLocked(phase types.Phase, v types.Vote, fromState, toState BlockState, onQuorum func([32]byte) error) error {
	if v.Phase != phase {
		return aerr.NewConsensusError(aerr.PhaseMismatch, "vote phase mismatch")
	}
	k := voteKey{phase: phase, blockHash: v.BlockHash}
	if m := n.votes[k]; m != nil && m[v.VoterID] {
		return aerr.NewConsensusError(aerr.DoubleVote, v.VoterID)
	}

	if err := n.voteLog.Append(phase, v.VoterID, v.BlockHash, v.Approve); err != nil {
		return err
	}
	n.tallyLocked(phase, v.VoterID, v.BlockHash, v.Approve)

	if n.countLocked(phase, v.BlockHash) >= n.quorum && n.state[v.BlockHash] == fromState {
		n.state[v.BlockHash] = toState
		return onQuorum(v.BlockHash)
	}
	return nil
}

// castLocked durably logs and broadcasts this node's own vote for
// (phase, blockHash), guarding against a double cast per (height,
// blockHash) as spec I5 requires.
func (n *Node) castLocked(phase types.Phase, blockHash [32]byte) error {
	k := voteKey{phase: phase, blockHash: blockHash}
	if n.cast[k] {
		return aerr.NewConsensusError(aerr.DoubleVote, "")
	}
	if err := n.voteLog.Append(phase, n.selfID, blockHash, true); err != nil {
		return err
	}
	n.tallyLocked(phase, n.selfID, blockHash, true)
	vote := types.Vote{VoterID: n.selfID, BlockHash: blockHash, Approve: true, Phase: phase}
	if n.broadcast != nil {
		n.broadcast(vote)
	}
	return nil
}

// StateOf returns the current phase-state of blockHash, for tests and
// diagnostics.
func (n *Node) StateOf(blockHash [32]byte) BlockState {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.state[blockHash]
}

// VoteCount returns the current tally for (phase, blockHash).
func (n *Node) VoteCount(phase types.Phase, blockHash [32]byte) int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.countLocked(phase, blockHash)
}
