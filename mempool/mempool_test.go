package mempool

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/aegenchain/aegen-core/types"
)

func mkTx(sender string, amount, gasPrice uint64) *types.Transaction {
	tx := &types.Transaction{Sender: types.Address(sender), Receiver: "bob", Amount: amount, GasPrice: gasPrice}
	tx.ComputeHash()
	return tx
}

func TestPriorityOrderingByGasPrice(t *testing.T) {
	p := New()
	_, ok := p.Add(mkTx("alice", 1, 5))
	assert.True(t, ok)
	_, ok = p.Add(mkTx("bob2", 1, 10))
	assert.True(t, ok)
	_, ok = p.Add(mkTx("carol", 1, 1))
	assert.True(t, ok)

	first := p.Pop()
	assert.Equal(t, uint64(10), first.GasPrice)
	second := p.Pop()
	assert.Equal(t, uint64(5), second.GasPrice)
	third := p.Pop()
	assert.Equal(t, uint64(1), third.GasPrice)
}

func TestZeroEffectTxRejected(t *testing.T) {
	p := New()
	tx := &types.Transaction{Sender: "alice", Receiver: "bob", Amount: 0}
	tx.ComputeHash()
	_, ok := p.Add(tx)
	assert.False(t, ok)
}

func TestDrainCapsAtMax(t *testing.T) {
	p := New()
	for i := 0; i < MaxPerProposal+10; i++ {
		p.Add(mkTx("alice", 1, uint64(i)))
	}
	drained := p.Drain()
	assert.Len(t, drained, MaxPerProposal)
}
