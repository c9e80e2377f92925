// Package proposer implements the leader's block-building step: drain the
// mempool, validate and apply against a state snapshot, seal header roots,
// and sign. Grounded on the teacher's pbft.go handleClientRequest, which
// packages the pool's transactions into a block once the pool crosses its
// threshold; generalized here into an explicit propose(height) call.
package proposer

import (
	"time"

	"github.com/aegenchain/aegen-core/cryptoutil"
	"github.com/aegenchain/aegen-core/execution"
	"github.com/aegenchain/aegen-core/mempool"
	"github.com/aegenchain/aegen-core/merkletree"
	"github.com/aegenchain/aegen-core/types"
)

// Proposer builds candidate blocks for heights this node leads.
type Proposer struct {
	Pool    *mempool.Pool
	Engine  *execution.Engine
	Self    types.Address
	PrivKey [32]byte
}

func New(pool *mempool.Pool, engine *execution.Engine, self types.Address, privKey [32]byte) *Proposer {
	return &Proposer{Pool: pool, Engine: engine, Self: self, PrivKey: privKey}
}

// Propose builds a block at height, parented on prevHash with timestamp
// floor prevTime+1, per spec §4.7. It takes a state snapshot before
// draining the pool and returns the snapshot handle uncommitted — the
// caller must Commit the handle once Commit quorum lands, or Rollback it
// if consensus fails downstream, per the snapshot contract in §4.7.
func (p *Proposer) Propose(height uint64, prevTime uint64, prevHash [32]byte) (*types.Block, int, error) {
	snap := p.Engine.Store.Snapshot()

	now := uint64(time.Now().Unix())
	timestamp := prevTime + 1
	if now > timestamp {
		timestamp = now
	}

	candidates := p.Pool.Drain()
	included := make([]*types.Transaction, 0, len(candidates))
	for _, tx := range candidates {
		if err := p.Engine.Validate(tx); err != nil {
			continue
		}
		if _, err := p.Engine.Apply(tx, p.Self, height); err != nil {
			continue
		}
		included = append(included, tx)
	}

	hashes := make([][32]byte, len(included))
	for i, tx := range included {
		hashes[i] = tx.Hash
	}

	header := types.BlockHeader{
		Height:       height,
		Timestamp:    timestamp,
		PreviousHash: prevHash,
		TxRoot:       merkletree.Root(hashes),
		StateRoot:    p.Engine.Store.StateRoot(),
		Producer:     p.Self,
	}
	header.Signature = cryptoutil.Sign(hashHeader(&header), p.PrivKey)

	return &types.Block{Header: header, Txs: included}, snap, nil
}

// ProposeHeartbeat builds an empty heartbeat block per spec §5's
// every-10-seconds-of-silence rule: zero transactions, txRoot is the empty
// Merkle root, stateRoot is unchanged from the parent.
func (p *Proposer) ProposeHeartbeat(height uint64, prevTime uint64, prevHash [32]byte) *types.Block {
	now := uint64(time.Now().Unix())
	timestamp := prevTime + 1
	if now > timestamp {
		timestamp = now
	}
	header := types.BlockHeader{
		Height:       height,
		Timestamp:    timestamp,
		PreviousHash: prevHash,
		TxRoot:       merkletree.ZeroRoot,
		StateRoot:    p.Engine.Store.StateRoot(),
		Producer:     p.Self,
	}
	header.Signature = cryptoutil.Sign(hashHeader(&header), p.PrivKey)
	return &types.Block{Header: header, Txs: nil}
}

func hashHeader(h *types.BlockHeader) []byte {
	sum := cryptoutil.Hash(h.CanonicalHeader())
	return sum[:]
}
