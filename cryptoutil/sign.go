package cryptoutil

import (
	"crypto/ed25519"
	"fmt"

	"github.com/aegenchain/aegen-core/aerr"
)

// GenerateKeypair produces a fresh Ed25519 private/public key pair.
func GenerateKeypair() (priv [32]byte, pub [32]byte, err error) {
	pubKey, privKey, err := ed25519.GenerateKey(nil)
	if err != nil {
		return priv, pub, fmt.Errorf("cryptoutil: generate keypair: %w", err)
	}
	copy(priv[:], privKey.Seed())
	copy(pub[:], pubKey)
	return priv, pub, nil
}

// DerivePublicKey recovers the public key from an Ed25519 seed.
func DerivePublicKey(privKey32 [32]byte) [32]byte {
	privKey := ed25519.NewKeyFromSeed(privKey32[:])
	var pub [32]byte
	copy(pub[:], privKey.Public().(ed25519.PublicKey))
	return pub
}

// Sign deterministically signs msg with privKey32, an Ed25519 seed.
func Sign(msg []byte, privKey32 [32]byte) [64]byte {
	privKey := ed25519.NewKeyFromSeed(privKey32[:])
	sig := ed25519.Sign(privKey, msg)
	var out [64]byte
	copy(out[:], sig)
	return out
}

// Verify reports whether sig64 is a valid Ed25519 signature of msg under
// pubKey32.
func Verify(msg []byte, sig64 [64]byte, pubKey32 [32]byte) bool {
	return ed25519.Verify(ed25519.PublicKey(pubKey32[:]), msg, sig64[:])
}

// VerifyOrError is Verify but returning the spec's BadSignature
// ValidationError on failure, for call sites that want a uniform error path.
func VerifyOrError(msg []byte, sig64 [64]byte, pubKey32 [32]byte) error {
	if !Verify(msg, sig64, pubKey32) {
		return aerr.NewValidationError(aerr.BadSignature, "signature does not verify")
	}
	return nil
}
