package vm

import "github.com/aegenchain/aegen-core/word256"

// Precompile is a built-in contract callable at a reserved low-numbered
// address. It receives STATICCALL's input bytes and returns output bytes,
// the gas it consumed, and whether it succeeded.
type Precompile func(input []byte) (output []byte, gasUsed uint64, ok bool)

// PrecompileSet is a registration surface so a verifier (e.g. the address-9
// Groth16-shaped check) can be supplied at bootstrap, per design note
// "Precompile plug-in model" — the core need not embed a pairing library.
type PrecompileSet struct {
	byAddress map[uint64]Precompile
}

func NewPrecompileSet() *PrecompileSet {
	return &PrecompileSet{byAddress: make(map[uint64]Precompile)}
}

// Register installs fn at addr, overwriting any prior registration.
func (p *PrecompileSet) Register(addr uint64, fn Precompile) {
	p.byAddress[addr] = fn
}

func (p *PrecompileSet) lookup(addr word256.Word) (Precompile, bool) {
	if addr.Cmp(word256.FromUint64(9)) > 0 {
		return nil, false
	}
	fn, ok := p.byAddress[addr.Uint64()]
	return fn, ok
}

// DefaultGroth16Precompile is the address-9 verifier's I/O shape: it parses
// A(64) || B(128) || C(64) || numInputs(32) || inputs[], and returns a
// 32-byte word whose least-significant byte is 1 on a valid proof else 0.
// The pairing check itself is a pluggable contract (per design notes); this
// default always reports failure so a real pairing library can be swapped
// in at bootstrap via PrecompileSet.Register without changing the VM.
func DefaultGroth16Precompile(input []byte) (output []byte, gasUsed uint64, ok bool) {
	out := make([]byte, 32)
	if len(input) < 64+128+64+32 {
		return out, gasPrecompile9, false
	}
	// Shape is well-formed but no pairing backend is wired; report invalid
	// proof rather than panicking on malformed numInputs/inputs framing.
	return out, gasPrecompile9, true
}
