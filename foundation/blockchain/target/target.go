// Package target implements the compact bits encoding of proof-of-work
// targets and the difficulty retargeting math.
package target

import (
	"fmt"
	"strconv"
	"strings"
)

// MaxTarget is the ceiling on how easy the puzzle may become. A compact
// value is one byte of exponent followed by three bytes of coefficient.
const MaxTarget Bits = 0x20ffffff

// Bits is the compact 4 byte form of a proof-of-work target. A block hash
// is acceptable when its compact value is numerically below the target.
type Bits uint32

// String returns the lowercase hex encoding of the compact value.
func (b Bits) String() string {
	return fmt.Sprintf("%08x", uint32(b))
}

// Parse converts a lowercase hex string into a compact target value.
func Parse(s string) (Bits, error) {
	v, err := strconv.ParseUint(strings.TrimPrefix(s, "0x"), 16, 32)
	if err != nil {
		return 0, fmt.Errorf("parsing target %q: %w", s, err)
	}

	return Bits(v), nil
}

// CompactValue reduces a hex encoded hash to its compact form. The hash is
// scanned for its first non-zero digit, the remainder is left padded with
// zeros until the leading six digits are stable and the whole is padded to
// an even length. The exponent is half the padded length, the coefficient
// the leading six digits.
func CompactValue(hash string) Bits {
	if strings.Trim(hash, "0") == "" {
		return 0
	}

	start := 0
	for i, c := range hash {
		if c != '0' {
			start = i
			break
		}
	}

	s := hash[start:]
	for len(s) < 6 {
		s = "0" + s
	}
	for strings.HasSuffix(s[:6], "0") {
		s = "0" + s
	}
	if len(s)%2 != 0 {
		s = "0" + s
	}

	v, err := strconv.ParseUint(fmt.Sprintf("%02x", len(s)/2)+s[:6], 16, 32)
	if err != nil {
		return 0
	}

	return Bits(v)
}

// Solved reports whether the specified hash satisfies the proof-of-work
// condition for the target.
func Solved(hash string, target Bits) bool {
	return CompactValue(hash) < target
}

// =============================================================================

// Difficulty computes the retarget multiplier from the elapsed seconds
// between the chain's first and last blocks against the expected span. The
// multiplier is floored at 1.0 so a fast chain can't drive the target to
// zero and deadlock block production.
func Difficulty(elapsed uint64, expected uint64) float64 {
	if expected == 0 {
		return 1
	}

	difficulty := float64(elapsed) / float64(expected)
	if difficulty < 1 {
		difficulty = 1
	}

	return difficulty
}

// Retarget applies the difficulty multiplier to the current target, capped
// at MaxTarget.
func Retarget(current Bits, difficulty float64) Bits {
	next := float64(current) * difficulty
	if next > float64(MaxTarget) {
		return MaxTarget
	}

	return Bits(next)
}
