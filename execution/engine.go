// Package execution implements transaction validation and application:
// nonce/balance/signature checks, gas accounting, VM dispatch, and receipt
// generation, per spec §4.5. Grounded on original_source/exec/
// execution_engine.cpp, extended with the refund/coinbase accounting and
// the single-accumulator collapse design note recommends for the
// sender==receiver==coinbase edge case.
package execution

import (
	"github.com/sirupsen/logrus"

	"github.com/aegenchain/aegen-core/aerr"
	"github.com/aegenchain/aegen-core/cryptoutil"
	"github.com/aegenchain/aegen-core/state"
	"github.com/aegenchain/aegen-core/types"
	"github.com/aegenchain/aegen-core/vm"
)

// IntrinsicGas is the fixed cost of a pure value transfer. Contract calls
// add whatever gas the VM reports consuming.
const IntrinsicGas = 21000

var log = logrus.WithField("component", "execution")

// Engine applies transactions against a state store, dispatching to a VM
// for contract calls and deployments.
type Engine struct {
	Store       *state.Store
	Machine     *vm.Machine
	SkipSigCheck bool // suppresses the warning for simple-name senders; they are never signature-checked either way
}

func New(store *state.Store, machine *vm.Machine) *Engine {
	return &Engine{Store: store, Machine: machine}
}

// Validate checks a transaction against the current state per spec §4.5.
func (e *Engine) Validate(tx *types.Transaction) error {
	if tx.Receiver != "" && !tx.Receiver.Valid() {
		return aerr.NewValidationError(aerr.BadAddress, "bad receiver address")
	}
	if !tx.Sender.Valid() {
		return aerr.NewValidationError(aerr.BadAddress, "bad sender address")
	}

	if tx.Sender.IsKeyBased() {
		pubHex, _ := tx.Sender.PubKeyHex()
		var pub [32]byte
		if n, err := hexDecodeStd(pub[:], pubHex); err != nil || n != 32 {
			return aerr.NewValidationError(aerr.BadSignature, "malformed sender pubkey")
		}
		if err := cryptoutil.VerifyOrError(tx.CanonicalUnsigned(), tx.Signature, pub); err != nil {
			return err
		}
	} else if !e.SkipSigCheck {
		log.WithField("sender", string(tx.Sender)).Warn("simple-name sender bypasses signature verification (test mode)")
	}

	sender := e.Store.GetAccount(tx.Sender)
	if tx.Nonce != sender.Nonce {
		return aerr.NewValidationError(aerr.NonceMismatch, "")
	}
	cost := tx.Amount + tx.GasLimit*tx.GasPrice
	if sender.Balance < cost {
		return aerr.NewValidationError(aerr.InsufficientBalance, "")
	}
	// S1: intrinsic gas (21000) exceeding gasLimit is rejected rather than
	// clamped — the conservative choice the spec allows implementers to pick.
	if tx.GasLimit < IntrinsicGas {
		return aerr.NewValidationError(aerr.InsufficientGas, "gasLimit below intrinsic gas")
	}
	return nil
}

// Apply performs the full transaction application pipeline: deduct,
// dispatch, refund/credit, receipt. It rolls back to the pre-call snapshot
// on VM revert but keeps the gas deduction and nonce increment, matching
// spec §4.5 step 4.
func (e *Engine) Apply(tx *types.Transaction, coinbase types.Address, blockNumber uint64) (*types.Receipt, error) {
	sender := e.Store.GetAccount(tx.Sender)
	sender.Balance -= tx.Amount + tx.GasLimit*tx.GasPrice
	sender.Nonce++
	e.Store.PutAccount(tx.Sender, sender)

	receipt := &types.Receipt{
		TxHash:      tx.Hash,
		BlockNumber: blockNumber,
		From:        tx.Sender,
		To:          tx.Receiver,
		Status:      types.StatusOK,
	}

	gasUsed := IntrinsicGas
	success := true
	var contractAddr types.Address
	var logs []types.Log
	var revertReason []byte

	if len(tx.Data) > 0 {
		snap := e.Store.Snapshot()
		if tx.IsDeployment() {
			contractAddr = deriveContractAddress(tx.Sender, tx.Nonce)
			result := e.Machine.Execute(tx.Data, vm.Context{Self: contractAddr, CallData: nil, GasLimit: tx.GasLimit - IntrinsicGas})
			gasUsed += int(result.GasUsed)
			if result.Success {
				e.Store.PutCode(contractAddr, result.ReturnData)
				logs = result.Logs
			} else {
				success = false
				revertReason = result.RevertData
				e.Store.Rollback(snap)
				snap = -1
			}
		} else {
			code := e.Store.GetCode(tx.Receiver)
			result := e.Machine.Execute(code, vm.Context{Self: tx.Receiver, CallData: tx.Data, GasLimit: tx.GasLimit - IntrinsicGas})
			gasUsed += int(result.GasUsed)
			if result.Success {
				logs = result.Logs
			} else {
				success = false
				revertReason = result.RevertData
				e.Store.Rollback(snap)
				snap = -1
			}
		}
		if snap != -1 {
			if err := e.Store.Commit(snap); err != nil {
				return nil, err
			}
		}
	}

	if uint64(gasUsed) > tx.GasLimit {
		gasUsed = int(tx.GasLimit)
	}
	actualGas := uint64(gasUsed)
	refund := (tx.GasLimit - actualGas) * tx.GasPrice

	sender = e.Store.GetAccount(tx.Sender)
	sender.Balance += refund
	e.Store.PutAccount(tx.Sender, sender)

	cb := e.Store.GetAccount(coinbase)
	cb.Balance += actualGas * tx.GasPrice
	e.Store.PutAccount(coinbase, cb)

	if success {
		if !tx.Receiver.Empty() {
			receiver := e.Store.GetAccount(tx.Receiver)
			receiver.Balance += tx.Amount
			e.Store.PutAccount(tx.Receiver, receiver)
		} else if tx.IsDeployment() {
			created := e.Store.GetAccount(contractAddr)
			created.Balance += tx.Amount
			e.Store.PutAccount(contractAddr, created)
		}
		receipt.Status = types.StatusOK
		receipt.ContractAddress = contractAddr
		receipt.Logs = logs
	} else {
		sender = e.Store.GetAccount(tx.Sender)
		sender.Balance += tx.Amount
		e.Store.PutAccount(tx.Sender, sender)
		receipt.Status = types.StatusRevert
		receipt.RevertReason = revertReason
	}
	receipt.GasUsed = actualGas

	return receipt, nil
}

// deriveContractAddress computes H(sender || nonce)[last 20 bytes] per spec
// §4.5 step 2, encoded as a k:<hex> address so it validates and round-trips
// through the same address shape as any other account.
func deriveContractAddress(sender types.Address, nonce uint64) types.Address {
	return contractAddressFromHash(cryptoutil.HashConcat([]byte(sender), encodeU64(nonce)))
}

func encodeU64(v uint64) []byte {
	var b [8]byte
	for i := 7; i >= 0; i-- {
		b[i] = byte(v)
		v >>= 8
	}
	return b[:]
}
