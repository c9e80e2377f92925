package types

// Batch is an ordered set of finalized blocks emitted together as an L1
// audit anchor.
type Batch struct {
	ID         string
	Blocks     []*Block
	BatchRoot  [32]byte
	StartHeight uint64
	EndHeight   uint64
}
