package execution

import (
	"encoding/hex"

	"github.com/aegenchain/aegen-core/types"
)

// contractAddressFromHash takes the last 20 bytes of full and encodes them
// as a k:<hex> address, padded with leading zero bytes to the full 32-byte
// k: shape so validate_address accepts it uniformly with key-based
// accounts.
func contractAddressFromHash(full [32]byte) types.Address {
	var padded [32]byte
	copy(padded[12:], full[12:])
	return types.Address("k:" + hex.EncodeToString(padded[:]))
}

func hexDecodeStd(dst []byte, s string) (int, error) {
	return hex.Decode(dst, []byte(s))
}
