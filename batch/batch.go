// Package batch groups finalized blocks into settlement batches and
// formats the textual L1 settlement command, grounded on
// original_source/settlement/batch.cpp and bridge.cpp — the BATCH-%06d id
// format and the Pact-style s-expression command string are both fixed
// there and carried unchanged here (see SPEC_FULL.md §5.3).
package batch

import (
	"fmt"

	"github.com/aegenchain/aegen-core/cryptoutil"
	"github.com/aegenchain/aegen-core/types"
)

// Manager accumulates finalized blocks and cuts a Batch once pending
// reaches batchSize, per spec §4.10.
type Manager struct {
	batchSize int
	nextID    int
	pending   []*types.Block
}

func NewManager(batchSize int) *Manager {
	return &Manager{batchSize: batchSize, nextID: 1}
}

// PushFinalized appends a newly finalized block to the pending list.
func (m *Manager) PushFinalized(b *types.Block) {
	m.pending = append(m.pending, b)
}

// Ready reports whether enough blocks have accumulated to cut a batch.
func (m *Manager) Ready() bool {
	return len(m.pending) >= m.batchSize
}

// CreateBatch drains the pending list into a new Batch with
// batchRoot = H(concat(b.stateRoot for b in blocks)).
func (m *Manager) CreateBatch() *types.Batch {
	blocks := m.pending
	m.pending = nil

	parts := make([][]byte, len(blocks))
	for i, b := range blocks {
		sr := b.Header.StateRoot
		parts[i] = sr[:]
	}
	root := cryptoutil.HashConcat(parts...)

	id := fmt.Sprintf("BATCH-%06d", m.nextID)
	m.nextID++

	var start, end uint64
	if len(blocks) > 0 {
		start = blocks[0].Header.Height
		end = blocks[len(blocks)-1].Header.Height
	}

	return &types.Batch{
		ID:          id,
		Blocks:      blocks,
		BatchRoot:   root,
		StartHeight: start,
		EndHeight:   end,
	}
}
