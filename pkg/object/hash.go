package object

import (
	"crypto/sha256"
	"encoding/hex"
)

// HashLen is the length in hex characters of an object hash.
const HashLen = 16

// Hash is a short hex-encoded content digest: SHA-256 of the object's
// serialized bytes, truncated to HashLen characters. Identical bytes always
// hash to the identical value; collisions are out of threat model.
type Hash string

// HashBytes computes the content hash of serialized object bytes.
func HashBytes(data []byte) Hash {
	sum := sha256.Sum256(data)
	return Hash(hex.EncodeToString(sum[:])[:HashLen])
}
