package jsonio

import (
	"fmt"
	"math"
	"strconv"
)

// NonFinite selects how NaN and ±Inf are written.  These values have no
// JSON representation.
type NonFinite string

const (
	// NonFiniteLiteral writes NaN, Infinity, and -Infinity as bare
	// words.  The output is then not valid JSON.
	NonFiniteLiteral NonFinite = "literal"
	NonFiniteNull    NonFinite = "null"
	// NonFiniteString writes the literal spelling as a JSON string.
	NonFiniteString NonFinite = "string"
	NonFiniteError  NonFinite = "error"
)

func (n *NonFinite) Set(s string) error {
	switch NonFinite(s) {
	case "", NonFiniteLiteral:
		*n = NonFiniteLiteral
	case NonFiniteNull, NonFiniteString, NonFiniteError:
		*n = NonFinite(s)
	default:
		return fmt.Errorf("unknown non-finite float policy %q (values: literal, null, string, error)", s)
	}
	return nil
}

func (n NonFinite) String() string {
	if n == "" {
		return string(NonFiniteLiteral)
	}
	return string(n)
}

func (n *NonFinite) UnmarshalText(text []byte) error {
	return n.Set(string(text))
}

func nonFiniteSpelling(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case f > 0:
		return "Infinity"
	}
	return "-Infinity"
}

// appendFloat appends the shortest decimal text that round-trips f at the
// given bit size, using exponent notation only for magnitudes outside
// [1e-6, 1e21), the same as encoding/json.
func appendFloat(dst []byte, f float64, bits int) []byte {
	abs := math.Abs(f)
	format := byte('f')
	if abs != 0 {
		if bits == 64 && (abs < 1e-6 || abs >= 1e21) ||
			bits == 32 && (float32(abs) < 1e-6 || float32(abs) >= 1e21) {
			format = 'e'
		}
	}
	dst = strconv.AppendFloat(dst, f, format, -1, bits)
	if format == 'e' {
		// Clean up e-09 to e-9.
		n := len(dst)
		if n >= 4 && dst[n-4] == 'e' && dst[n-3] == '-' && dst[n-2] == '0' {
			dst[n-2] = dst[n-1]
			dst = dst[:n-1]
		}
	}
	return dst
}
