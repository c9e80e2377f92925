// Package cryptoutil exposes the core's cryptographic primitive contracts:
// hashing, signing and address derivation (address validation is
// types.Address.Valid). Hashing uses
// blake2b; signing uses stdlib Ed25519 — both chosen to be binary-compatible
// with the signing interface the spec requires in deployment.
package cryptoutil

import (
	"golang.org/x/crypto/blake2b"
)

// Hash returns the 32-byte collision-resistant digest of b.
func Hash(b []byte) [32]byte {
	return blake2b.Sum256(b)
}

// HashConcat hashes the concatenation of parts without an intermediate
// allocation per part, used for merkle leaves and batch roots.
func HashConcat(parts ...[]byte) [32]byte {
	h, _ := blake2b.New256(nil)
	for _, p := range parts {
		h.Write(p)
	}
	var out [32]byte
	copy(out[:], h.Sum(nil))
	return out
}
