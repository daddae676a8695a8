package anonymize

import (
	"encoding/hex"
	"fmt"
	"math/big"

	"golang.org/x/crypto/blake2b"
)

// maxShift bounds the date shift derived from a patient hash to +/- 10
// years, per PS3.15 E.1's guidance that shifted dates should stay within a
// clinically plausible range of the original.
const maxShift = 365 * 10

const (
	minHashLength     = 8
	maxHashLength     = 64
	defaultHashLength = 16
)

// digest hashes input with a fixed, unkeyed 256-bit hash. BLAKE2b-256 is
// used in place of BLAKE3: any uniform, collision-resistant 256-bit hash is
// an acceptable substitute, and blake2b is the hash already reachable from
// this module's dependency tree.
func digest(input []byte) [32]byte {
	return blake2b.Sum256(input)
}

// hashString renders the digest of input as lowercase hex, truncated to
// length characters. A length of 0 selects defaultHashLength. The caller is
// responsible for validating length against [minHashLength, maxHashLength]
// ahead of time; hashString itself only clamps against the digest's actual
// hex width.
func hashString(input []byte, length int) string {
	if length <= 0 {
		length = defaultHashLength
	}
	sum := digest(input)
	encoded := hex.EncodeToString(sum[:])
	if length > len(encoded) {
		length = len(encoded)
	}
	return encoded[:length]
}

// hashToBigInt interprets the digest of input as a big-endian unsigned
// integer.
func hashToBigInt(input []byte) *big.Int {
	sum := digest(input)
	return new(big.Int).SetBytes(sum[:])
}

// digestDays reduces the digest of input to a signed day offset in
// [-maxShift, +maxShift], used to consistently shift every date-valued
// element for a given patient.
func digestDays(input []byte) int {
	n := hashToBigInt(input)
	mod := big.NewInt(int64(2*maxShift + 1))
	r := new(big.Int).Mod(n, mod)
	return int(r.Int64()) - maxShift
}

// validateHashLength checks a user-supplied Hash{length} against the
// [8, 64] bound the config schema requires.
func validateHashLength(length *int) error {
	if length == nil {
		return nil
	}
	if *length < minHashLength || *length > maxHashLength {
		return fmt.Errorf("%w: hash length %d out of range [%d, %d]", ErrConfigInvalid, *length, minHashLength, maxHashLength)
	}
	return nil
}
