package vm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aegenchain/aegen-core/types"
	"github.com/aegenchain/aegen-core/word256"
)

type memStorage struct {
	m map[[2]string]word256.Word
}

func newMemStorage() *memStorage { return &memStorage{m: make(map[[2]string]word256.Word)} }

func (s *memStorage) GetStorage(contract types.Address, key word256.Word) word256.Word {
	return s.m[[2]string{string(contract), key.ToHex()}]
}

func (s *memStorage) PutStorage(contract types.Address, key, val word256.Word) {
	s.m[[2]string{string(contract), key.ToHex()}] = val
}

// S6: VM arithmetic scenario.
func TestS6PushAddStop(t *testing.T) {
	code := []byte{byte(PUSH1), 0x10, byte(PUSH1), 0x20, byte(ADD), byte(STOP)}
	m := NewMachine(newMemStorage(), nil)
	result := m.Execute(code, Context{Self: "contract", GasLimit: 100000})

	require.True(t, result.Success)
	assert.Greater(t, result.GasUsed, uint64(0))
	assert.Less(t, result.GasUsed, uint64(100000))
}

func TestJumpToNonJumpdestFails(t *testing.T) {
	code := []byte{byte(PUSH1), 0x02, byte(JUMP), byte(STOP)}
	m := NewMachine(newMemStorage(), nil)
	result := m.Execute(code, Context{Self: "contract", GasLimit: 100000})
	assert.False(t, result.Success)
}

func TestStorageRoundTrip(t *testing.T) {
	// PUSH1 0x2a PUSH1 0x00 SSTORE PUSH1 0x00 SLOAD STOP
	code := []byte{
		byte(PUSH1), 0x2a,
		byte(PUSH1), 0x00,
		byte(SSTORE),
		byte(PUSH1), 0x00,
		byte(SLOAD),
		byte(STOP),
	}
	store := newMemStorage()
	m := NewMachine(store, nil)
	result := m.Execute(code, Context{Self: "contract", GasLimit: 100000})
	require.True(t, result.Success)
	assert.Equal(t, word256.FromUint64(0x2a), store.GetStorage("contract", word256.Zero))
}

func TestGasNeverExceedsLimit(t *testing.T) {
	code := []byte{byte(PUSH1), 0x01, byte(PUSH1), 0x02, byte(ADD), byte(STOP)}
	m := NewMachine(newMemStorage(), nil)
	for _, limit := range []uint64{0, 1, 5, 1000} {
		result := m.Execute(code, Context{Self: "c", GasLimit: limit})
		assert.LessOrEqual(t, result.GasUsed, limit)
	}
}
