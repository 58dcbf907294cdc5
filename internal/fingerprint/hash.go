package fingerprint

import (
	"crypto/sha1"
	"encoding/hex"
	"fmt"
)

// Hash is an opaque, fixed-width fingerprint token: the first 10 bytes
// (20 hex characters, 80 bits) of the SHA-1 digest of "f1|f2|deltaT".
// It is a newtype over a byte array rather than a string so that
// equality and map-keying operate on a fixed representation. String
// gives the 20-hex-character text form, which is also what the SQL
// stores write to (and ParseHash reads back from) the hash column.
type Hash [10]byte

func (h Hash) String() string {
	return hex.EncodeToString(h[:])
}

// ParseHash decodes a hash's hex-text form, as stored in the hash
// column of every sqlstore-backed driver.
func ParseHash(text string) (Hash, error) {
	var h Hash
	decoded, err := hex.DecodeString(text)
	if err != nil {
		return h, fmt.Errorf("fingerprint: parse hash %q: %w", text, err)
	}
	if len(decoded) != len(h) {
		return h, fmt.Errorf("fingerprint: hash %q has wrong length %d, want %d", text, len(decoded), len(h))
	}
	copy(h[:], decoded)
	return h, nil
}

// computeHash derives the deterministic token for an (anchor-bin,
// target-bin, delta-frames) triple. Two calls with the same inputs
// always produce the same Hash, and the digest is stable across
// processes so that an on-disk index built by one run stays portable
// to another.
func computeHash(f1, f2, deltaT int) Hash {
	input := fmt.Sprintf("%d|%d|%d", f1, f2, deltaT)
	digest := sha1.Sum([]byte(input))

	var h Hash
	copy(h[:], digest[:len(h)])
	return h
}
