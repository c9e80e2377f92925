package wireformat

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aegenchain/aegen-core/types"
)

// P2: round-trip.
func TestBlockRoundTrip(t *testing.T) {
	tx := &types.Transaction{Sender: "alice", Receiver: "bob", Amount: 5, Nonce: 1, GasLimit: 21000, GasPrice: 1, Data: []byte("hi")}
	tx.ComputeHash()

	b := &types.Block{
		Header: types.BlockHeader{Height: 7, Timestamp: 123, Producer: "alice"},
		Txs:    []*types.Transaction{tx},
	}
	wire := EncodeBlock(b)
	got, err := DecodeBlock(wire)
	require.NoError(t, err)

	assert.Equal(t, b.Header.Height, got.Header.Height)
	assert.Equal(t, b.Header.Timestamp, got.Header.Timestamp)
	assert.Equal(t, b.Header.Producer, got.Header.Producer)
	require.Len(t, got.Txs, 1)
	assert.Equal(t, tx.Hash, got.Txs[0].Hash)
	assert.Equal(t, tx.Data, got.Txs[0].Data)
}

func TestDecodeOverrunYieldsDecodeError(t *testing.T) {
	_, err := DecodeBlock([]byte{1, 2, 3})
	require.Error(t, err)
}
