package types

import "encoding/binary"

// BlockHeader carries the block's identity and the roots committing its
// contents and resulting state.
type BlockHeader struct {
	Height       uint64
	Timestamp    uint64
	PreviousHash [32]byte
	StateRoot    [32]byte
	TxRoot       [32]byte
	Producer     Address
	Signature    [64]byte
}

// Block is a header plus its ordered transaction sequence.
type Block struct {
	Header BlockHeader
	Txs    []*Transaction
}

// CanonicalHeader returns the bytes hashed to produce the producer
// signature, H(header) per spec §4.7/§4.8 — everything in the header except
// the signature itself.
func (h *BlockHeader) CanonicalHeader() []byte {
	buf := make([]byte, 0, 8+8+32+32+32+len(h.Producer))
	var scratch [8]byte
	binary.BigEndian.PutUint64(scratch[:], h.Height)
	buf = append(buf, scratch[:]...)
	binary.BigEndian.PutUint64(scratch[:], h.Timestamp)
	buf = append(buf, scratch[:]...)
	buf = append(buf, h.PreviousHash[:]...)
	buf = append(buf, h.StateRoot[:]...)
	buf = append(buf, h.TxRoot[:]...)
	buf = append(buf, []byte(h.Producer)...)
	return buf
}

// TxHashes returns the ordered transaction hashes used to compute TxRoot.
func (b *Block) TxHashes() [][32]byte {
	out := make([][32]byte, len(b.Txs))
	for i, tx := range b.Txs {
		out[i] = tx.Hash
	}
	return out
}

// BlockStatus is the lifecycle state of a block under consensus.
type BlockStatus int

const (
	BlockPending BlockStatus = iota
	BlockFinalized
)
