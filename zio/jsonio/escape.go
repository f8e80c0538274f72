package jsonio

import "unicode/utf8"

const hexdigits = "0123456789abcdef"

// AppendString appends s to dst as a quoted JSON string.  The quote,
// backslash, and the control characters \b, \f, \n, \r and \t get their
// short escapes, other control characters below 0x20 are written as
// \u00xx, and everything else is copied through as UTF-8.  Byte sequences
// that are not valid UTF-8 are replaced by U+FFFD.  Runs of characters
// that need no escaping are appended in one step.
func AppendString[T ~string | ~[]byte](dst []byte, s T) []byte {
	dst = append(dst, '"')
	var start int
	for i := 0; i < len(s); {
		c := s[i]
		if c < utf8.RuneSelf {
			if c >= 0x20 && c != '"' && c != '\\' {
				i++
				continue
			}
			dst = append(dst, s[start:i]...)
			if e := esc(c); e != 0 {
				dst = append(dst, '\\', e)
			} else {
				dst = append(dst, '\\', 'u', '0', '0', hexdigits[c>>4], hexdigits[c&0xf])
			}
			i++
			start = i
			continue
		}
		r, l := decodeRune(s[i:])
		if r == utf8.RuneError && l == 1 {
			dst = append(dst, s[start:i]...)
			dst = append(dst, "\uFFFD"...)
			i++
			start = i
			continue
		}
		i += l
	}
	dst = append(dst, s[start:]...)
	return append(dst, '"')
}

func esc(c byte) byte {
	switch c {
	case '\\':
		return '\\'
	case '"':
		return '"'
	case '\b':
		return 'b'
	case '\f':
		return 'f'
	case '\n':
		return 'n'
	case '\r':
		return 'r'
	case '\t':
		return 't'
	}
	return 0
}

func decodeRune[T ~string | ~[]byte](s T) (rune, int) {
	var buf [utf8.UTFMax]byte
	n := copy(buf[:], s)
	return utf8.DecodeRune(buf[:n])
}
