package cryptoutil

import "encoding/hex"

// DeriveAddress produces the k:<hex> address string for a public key,
// following original_source's AddressUtils::deriveFromPublicKey
// convention. It returns a plain string rather than types.Address so this
// package does not import types (types.Transaction.ComputeHash imports
// cryptoutil for hashing, so cryptoutil importing types back would be a
// cycle); callers wrap the result in types.Address where needed.
func DeriveAddress(pubKey32 [32]byte) string {
	return "k:" + hex.EncodeToString(pubKey32[:])
}
