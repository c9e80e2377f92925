package batch

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aegenchain/aegen-core/types"
)

func mkBlock(height uint64, root byte) *types.Block {
	var h types.BlockHeader
	h.Height = height
	h.StateRoot[0] = root
	return &types.Block{Header: h}
}

func TestBatchIDFormat(t *testing.T) {
	m := NewManager(2)
	m.PushFinalized(mkBlock(1, 0x1))
	m.PushFinalized(mkBlock(2, 0x2))
	require.True(t, m.Ready())

	b := m.CreateBatch()
	assert.Equal(t, "BATCH-000001", b.ID)
	assert.Equal(t, uint64(1), b.StartHeight)
	assert.Equal(t, uint64(2), b.EndHeight)
	assert.False(t, m.Ready())
}

func TestPactCommandFormat(t *testing.T) {
	cmd := GeneratePactCmd("BATCH-000001", "ab12", 3, 1, 3)
	assert.Equal(t, `(aegen.submit-batch "BATCH-000001" "ab12" 3 1 3)`, cmd)
}
