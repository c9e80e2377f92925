package execution

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aegenchain/aegen-core/state"
	"github.com/aegenchain/aegen-core/types"
	"github.com/aegenchain/aegen-core/vm"
)

func newTestEngine() *Engine {
	store := state.New(nil)
	machine := vm.NewMachine(store, nil)
	return New(store, machine)
}

const (
	alice    = types.Address("alice")
	bob      = types.Address("bob")
	coinbase = types.Address("coinbase")
)

// S1 (as documented): intrinsic gas (21000) exceeding a 100 gasLimit is
// rejected with InsufficientGas rather than clamped — alice's state is
// unchanged and the tx is dropped.
func TestS1NativeTransferRejectedForLowGasLimit(t *testing.T) {
	e := newTestEngine()
	e.Store.PutAccount(alice, types.AccountState{Nonce: 0, Balance: 1_000_000})

	tx := &types.Transaction{Sender: alice, Receiver: bob, Amount: 5000, Nonce: 0, GasLimit: 100, GasPrice: 1}
	tx.ComputeHash()

	err := e.Validate(tx)
	require.Error(t, err)

	got := e.Store.GetAccount(alice)
	assert.Equal(t, types.AccountState{Nonce: 0, Balance: 1_000_000}, got)
}

func TestNativeTransferHappyPath(t *testing.T) {
	e := newTestEngine()
	e.Store.PutAccount(alice, types.AccountState{Nonce: 0, Balance: 1_000_000})

	tx := &types.Transaction{Sender: alice, Receiver: bob, Amount: 5000, Nonce: 0, GasLimit: 21000, GasPrice: 1}
	tx.ComputeHash()

	require.NoError(t, e.Validate(tx))
	receipt, err := e.Apply(tx, coinbase, 1)
	require.NoError(t, err)
	assert.Equal(t, types.StatusOK, receipt.Status)

	assert.Equal(t, types.AccountState{Nonce: 1, Balance: 1_000_000 - 5000 - 21000}, e.Store.GetAccount(alice))
	assert.Equal(t, types.AccountState{Nonce: 0, Balance: 5000}, e.Store.GetAccount(bob))
	assert.Equal(t, types.AccountState{Nonce: 0, Balance: 21000}, e.Store.GetAccount(coinbase))
}

// S2: invalid-nonce rejection.
func TestS2InvalidNonceRejection(t *testing.T) {
	e := newTestEngine()
	e.Store.PutAccount(alice, types.AccountState{Nonce: 0, Balance: 1_000_000})

	tx := &types.Transaction{Sender: alice, Receiver: bob, Amount: 50, Nonce: 5, GasLimit: 21000, GasPrice: 1}
	tx.ComputeHash()

	err := e.Validate(tx)
	require.Error(t, err)

	assert.Equal(t, types.AccountState{Nonce: 0, Balance: 1_000_000}, e.Store.GetAccount(alice))
}

// P1: conservation of balances on the success path.
func TestP1ConservationOfBalances(t *testing.T) {
	e := newTestEngine()
	e.Store.PutAccount(alice, types.AccountState{Nonce: 3, Balance: 500_000})
	e.Store.PutAccount(bob, types.AccountState{Nonce: 0, Balance: 10_000})
	e.Store.PutAccount(coinbase, types.AccountState{Nonce: 0, Balance: 0})

	before := e.Store.GetAccount(alice).Balance + e.Store.GetAccount(bob).Balance + e.Store.GetAccount(coinbase).Balance

	tx := &types.Transaction{Sender: alice, Receiver: bob, Amount: 1234, Nonce: 3, GasLimit: 30000, GasPrice: 2}
	tx.ComputeHash()
	require.NoError(t, e.Validate(tx))
	_, err := e.Apply(tx, coinbase, 1)
	require.NoError(t, err)

	after := e.Store.GetAccount(alice).Balance + e.Store.GetAccount(bob).Balance + e.Store.GetAccount(coinbase).Balance
	assert.Equal(t, before, after)
	assert.Equal(t, uint64(4), e.Store.GetAccount(alice).Nonce)
}
