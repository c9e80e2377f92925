// Package word256 implements fixed-width 256-bit EVM-word arithmetic on top
// of github.com/holiman/uint256, adding the hex/byte I/O and shift-clamp
// semantics this core's execution engine and VM rely on.
package word256

import (
	"fmt"
	"strings"

	"github.com/holiman/uint256"
)

// Word is a 256-bit unsigned integer, EVM-word semantics.
type Word struct {
	v uint256.Int
}

// Zero is the additive identity.
var Zero = Word{}

// FromUint64 constructs a Word from a single u64, used for precompile
// addresses and small constants.
func FromUint64(x uint64) Word {
	var w Word
	w.v.SetUint64(x)
	return w
}

// FromBigEndianBytes parses a big-endian byte slice (up to 32 bytes) into a
// Word. Shorter slices are treated as left-zero-padded.
func FromBigEndianBytes(b []byte) Word {
	var w Word
	w.v.SetBytes(b)
	return w
}

// ToBigEndianBytes emits the Word as a 32-byte big-endian array.
func (w Word) ToBigEndianBytes() [32]byte {
	return w.v.Bytes32()
}

// FromHex parses a 0x-prefixed (or bare) hex string into a Word.
func FromHex(s string) (Word, error) {
	s = strings.TrimPrefix(s, "0x")
	s = strings.TrimPrefix(s, "0X")
	if s == "" {
		return Zero, nil
	}
	var v uint256.Int
	if err := v.SetFromHex("0x" + s); err != nil {
		return Zero, fmt.Errorf("word256: bad hex %q: %w", s, err)
	}
	return Word{v: v}, nil
}

// ToHex emits a 0x-prefixed hex string, no leading zeros (0x0 for zero).
func (w Word) ToHex() string {
	return w.v.Hex()
}

func (w Word) Add(o Word) Word {
	var r Word
	r.v.Add(&w.v, &o.v)
	return r
}

func (w Word) Sub(o Word) Word {
	var r Word
	r.v.Sub(&w.v, &o.v)
	return r
}

func (w Word) Mul(o Word) Word {
	var r Word
	r.v.Mul(&w.v, &o.v)
	return r
}

// Div performs unsigned division; division by zero yields 0 (EVM convention).
func (w Word) Div(o Word) Word {
	var r Word
	r.v.Div(&w.v, &o.v)
	return r
}

// Mod performs unsigned modulo; modulo by zero yields 0 (EVM convention).
func (w Word) Mod(o Word) Word {
	var r Word
	r.v.Mod(&w.v, &o.v)
	return r
}

func (w Word) And(o Word) Word {
	var r Word
	r.v.And(&w.v, &o.v)
	return r
}

func (w Word) Or(o Word) Word {
	var r Word
	r.v.Or(&w.v, &o.v)
	return r
}

func (w Word) Xor(o Word) Word {
	var r Word
	r.v.Xor(&w.v, &o.v)
	return r
}

func (w Word) Not() Word {
	var r Word
	r.v.Not(&w.v)
	return r
}

// Lsh performs a logical left shift; shifts >= 256 yield 0.
func (w Word) Lsh(bits uint) Word {
	var r Word
	if bits >= 256 {
		return Zero
	}
	r.v.Lsh(&w.v, bits)
	return r
}

// Rsh performs a logical right shift; shifts >= 256 yield 0.
func (w Word) Rsh(bits uint) Word {
	var r Word
	if bits >= 256 {
		return Zero
	}
	r.v.Rsh(&w.v, bits)
	return r
}

// Cmp returns -1, 0, or 1 comparing w and o as unsigned integers.
func (w Word) Cmp(o Word) int {
	return w.v.Cmp(&o.v)
}

func (w Word) IsZero() bool {
	return w.v.IsZero()
}

func (w Word) Uint64() uint64 {
	return w.v.Uint64()
}

func (w Word) String() string {
	return w.ToHex()
}
