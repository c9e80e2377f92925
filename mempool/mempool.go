// Package mempool buffers admitted, unsealed transactions in gasPrice
// priority order. Grounded on the teacher's pbft.go transaction pool
// (threshold-triggered block packaging), generalized into a standalone
// sorted buffer with a single mutex per spec §4.4/§5.
package mempool

import (
	"encoding/hex"
	"sort"
	"sync"

	"github.com/aegenchain/aegen-core/types"
)

// MaxPerProposal is the cap on transactions drained into a single block
// proposal.
const MaxPerProposal = 100

type entry struct {
	tx       *types.Transaction
	arrival  uint64
	requestKey string
}

// Pool is the gasPrice-priority-ordered transaction buffer. Writers hold the mutex
// only briefly, per spec §5.
type Pool struct {
	mu      sync.Mutex
	entries []entry
	seq     uint64
}

func New() *Pool {
	return &Pool{}
}

// Add admits tx iff it parses, has non-empty payload effect, and passes
// basic structural checks (non-empty sender, valid receiver shape). It
// returns the request key (hex of tx.hash) a caller can use to track
// admission, mirroring the external mempool-client RPC contract in §6.
func (p *Pool) Add(tx *types.Transaction) (requestKey string, admitted bool) {
	if tx == nil || tx.Sender.Empty() {
		return "", false
	}
	if !tx.HasPayloadEffect() {
		return "", false
	}
	if !tx.Receiver.Empty() && !tx.Receiver.Valid() {
		return "", false
	}

	key := hex.EncodeToString(tx.Hash[:])

	p.mu.Lock()
	defer p.mu.Unlock()
	p.seq++
	e := entry{tx: tx, arrival: p.seq, requestKey: key}
	idx := sort.Search(len(p.entries), func(i int) bool {
		if p.entries[i].tx.GasPrice != e.tx.GasPrice {
			return p.entries[i].tx.GasPrice < e.tx.GasPrice
		}
		return p.entries[i].arrival > e.arrival
	})
	p.entries = append(p.entries, entry{})
	copy(p.entries[idx+1:], p.entries[idx:])
	p.entries[idx] = e
	return key, true
}

// Pop removes and returns the highest gasPrice transaction (ties broken by
// arrival order), or nil if the pool is empty.
func (p *Pool) Pop() *types.Transaction {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.entries) == 0 {
		return nil
	}
	e := p.entries[0]
	p.entries = p.entries[1:]
	return e.tx
}

// Size returns the number of pending transactions.
func (p *Pool) Size() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.entries)
}

// Drain pops up to MaxPerProposal transactions for a block proposal.
func (p *Pool) Drain() []*types.Transaction {
	p.mu.Lock()
	defer p.mu.Unlock()
	n := len(p.entries)
	if n > MaxPerProposal {
		n = MaxPerProposal
	}
	out := make([]*types.Transaction, n)
	for i := 0; i < n; i++ {
		out[i] = p.entries[i].tx
	}
	p.entries = p.entries[n:]
	return out
}

// Readmit pushes a transaction back onto the pool, e.g. after a failed
// proposal. Re-admission after a proposal failure is the caller's
// responsibility per spec §4.4.
func (p *Pool) Readmit(tx *types.Transaction) {
	p.Add(tx)
}
