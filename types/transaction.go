package types

import (
	"encoding/binary"

	"github.com/aegenchain/aegen-core/cryptoutil"
)

// Transaction is a signed value-transfer or contract-call/deployment
// request. Receiver empty means contract deployment.
type Transaction struct {
	Sender    Address
	Receiver  Address
	Amount    uint64
	Nonce     uint64
	GasLimit  uint64
	GasPrice  uint64
	Data      []byte
	Signature [64]byte
	Hash      [32]byte
}

// CanonicalUnsigned returns the canonical serialization that excludes the
// signature — the preimage hashed for Transaction.Hash and for signature
// verification.
func (t *Transaction) CanonicalUnsigned() []byte {
	buf := make([]byte, 0, 64+len(t.Data))
	buf = append(buf, []byte(t.Sender)...)
	buf = append(buf, 0) // field separator, avoids ambiguous concatenation
	buf = append(buf, []byte(t.Receiver)...)
	buf = append(buf, 0)
	var scratch [8]byte
	for _, v := range []uint64{t.Amount, t.Nonce, t.GasLimit, t.GasPrice} {
		binary.BigEndian.PutUint64(scratch[:], v)
		buf = append(buf, scratch[:]...)
	}
	buf = append(buf, t.Data...)
	return buf
}

// ComputeHash fills t.Hash from the canonical unsigned serialization.
func (t *Transaction) ComputeHash() {
	t.Hash = cryptoutil.Hash(t.CanonicalUnsigned())
}

// IsDeployment reports whether this transaction deploys a contract.
func (t *Transaction) IsDeployment() bool {
	return t.Receiver.Empty()
}

// HasPayloadEffect reports the mempool admission condition: a transfer of
// non-zero value or a non-empty data payload.
func (t *Transaction) HasPayloadEffect() bool {
	return t.Amount > 0 || len(t.Data) > 0
}
