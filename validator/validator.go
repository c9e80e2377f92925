// Package validator re-executes a received block and checks its committed
// roots and producer authorization, per spec §4.8. Grounded on the
// teacher's pbft.go handlePrePrepare, which re-derives the block digest and
// checks the signature before voting Prepare.
package validator

import (
	"encoding/hex"

	"github.com/aegenchain/aegen-core/cryptoutil"
	"github.com/aegenchain/aegen-core/execution"
	"github.com/aegenchain/aegen-core/merkletree"
	"github.com/aegenchain/aegen-core/types"
)

// Committee is the round-robin leader schedule.
type Committee struct {
	Validators []string // IDs, ordered; IDs double as Address strings here
}

// LeaderFor returns the validator ID authorized to produce height's block
// for round r, leader = validators[r mod N].
func (c *Committee) LeaderFor(round uint64) string {
	if len(c.Validators) == 0 {
		return ""
	}
	return c.Validators[round%uint64(len(c.Validators))]
}

// Validator re-executes blocks against its own state store copy.
type Validator struct {
	Engine    *execution.Engine
	Committee *Committee
}

func New(engine *execution.Engine, committee *Committee) *Validator {
	return &Validator{Engine: engine, Committee: committee}
}

// ValidateBlock re-executes block per spec §4.8 and reports whether it is
// acceptable. On any mismatch or failure the state snapshot taken at entry
// is rolled back before returning false.
func (v *Validator) ValidateBlock(block *types.Block, round uint64, coinbase types.Address) bool {
	expectedLeader := v.Committee.LeaderFor(round)
	if expectedLeader != "" && string(block.Header.Producer) != expectedLeader {
		return false
	}

	sum := cryptoutil.Hash(block.Header.CanonicalHeader())
	pub, ok := producerPubKey(block.Header.Producer)
	if ok && !cryptoutil.Verify(sum[:], block.Header.Signature, pub) {
		return false
	}

	snap := v.Engine.Store.Snapshot()

	for _, tx := range block.Txs {
		if err := v.Engine.Validate(tx); err != nil {
			v.Engine.Store.Rollback(snap)
			return false
		}
		if _, err := v.Engine.Apply(tx, coinbase, block.Header.Height); err != nil {
			v.Engine.Store.Rollback(snap)
			return false
		}
	}

	hashes := block.TxHashes()
	gotTxRoot := merkletree.Root(hashes)
	gotStateRoot := v.Engine.Store.StateRoot()

	if gotTxRoot != block.Header.TxRoot || gotStateRoot != block.Header.StateRoot {
		v.Engine.Store.Rollback(snap)
		return false
	}

	if err := v.Engine.Store.Commit(snap); err != nil {
		return false
	}
	return true
}

func producerPubKey(addr types.Address) ([32]byte, bool) {
	pubHex, ok := addr.PubKeyHex()
	if !ok {
		return [32]byte{}, false
	}
	var pub [32]byte
	raw, err := hex.DecodeString(pubHex)
	if err != nil || len(raw) != 32 {
		return [32]byte{}, false
	}
	copy(pub[:], raw)
	return pub, true
}
