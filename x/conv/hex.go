package conv

const hexUpper = "0123456789ABCDEF"

// AppendHex2 appends b as two uppercase hex digits.
func AppendHex2(dst []byte, b uint8) []byte {
	return append(dst, hexUpper[b>>4], hexUpper[b&0xF])
}

// ParseHex2 parses exactly two uppercase hex digits.
// Lowercase is rejected so that a flipped case bit cannot alias a valid digit.
func ParseHex2(s []byte) (uint8, bool) {
	if len(s) != 2 {
		return 0, false
	}
	hi, ok := hexNibble(s[0])
	if !ok {
		return 0, false
	}
	lo, ok := hexNibble(s[1])
	if !ok {
		return 0, false
	}
	return hi<<4 | lo, true
}

func hexNibble(c byte) (uint8, bool) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', true
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, true
	}
	return 0, false
}
