package token

import (
	"fmt"
	"strings"
)

const (
	alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789+/"
	padChar  = '='

	// padIndex is the alphabet position reserved for the padding sentinel.
	padIndex = 64
	invalid  = 0xFF
)

var decodeMap = func() [256]byte {
	var m [256]byte
	for i := range m {
		m[i] = invalid
	}
	for i := 0; i < len(alphabet); i++ {
		m[alphabet[i]] = byte(i)
	}
	m[padChar] = padIndex
	return m
}()

// NormalizeBase64URL maps the URL-safe alphabet onto the standard one and pads
// the segment with '=' to a multiple of four characters.
func NormalizeBase64URL(segment string) string {
	s := strings.NewReplacer("-", "+", "_", "/").Replace(segment)
	if rem := len(s) % 4; rem != 0 {
		s += strings.Repeat(string(padChar), 4-rem)
	}
	return s
}

// DecodeBase64 decodes standard Base64 leniently. Characters outside the
// alphabet are dropped before decoding, and a trailing partial quartet yields
// whatever whole bytes it holds. It never fails; malformed input produces
// best-effort output.
//
// The first '=' ends the input outright. This departs from decoders that
// handle padding quartet by quartet and resume after it: "aGk=aGk=" decodes
// to "hi" here, not "hihi".
func DecodeBase64(input string) []byte {
	clean := make([]byte, 0, len(input))
	for i := 0; i < len(input); i++ {
		c := input[i]
		if c == padChar {
			break
		}
		if decodeMap[c] != invalid {
			clean = append(clean, c)
		}
	}

	out := make([]byte, 0, len(clean)*3/4+2)
	for i := 0; i < len(clean); i += 4 {
		var q [4]byte
		n := 0
		for ; n < 4 && i+n < len(clean); n++ {
			q[n] = decodeMap[clean[i+n]]
		}
		for k := n; k < 4; k++ {
			q[k] = padIndex
		}
		out = appendQuartet(out, q)
	}
	return out
}

// DecodeBase64Strict decodes standard Base64 and fails with ErrDecode on any
// character outside the alphabet, a length that is not a multiple of four, or
// padding anywhere but the last two positions of the final quartet.
func DecodeBase64Strict(input string) ([]byte, error) {
	if len(input)%4 != 0 {
		return nil, fmt.Errorf("%w: base64 length %d is not a multiple of 4", ErrDecode, len(input))
	}

	out := make([]byte, 0, len(input)*3/4)
	for i := 0; i < len(input); i += 4 {
		last := i+4 == len(input)

		var q [4]byte
		for k := 0; k < 4; k++ {
			c := input[i+k]
			v := decodeMap[c]
			if v == invalid {
				return nil, fmt.Errorf("%w: illegal base64 character %q at offset %d", ErrDecode, c, i+k)
			}
			if v == padIndex && (!last || k < 2) {
				return nil, fmt.Errorf("%w: unexpected padding at offset %d", ErrDecode, i+k)
			}
			q[k] = v
		}
		if q[2] == padIndex && q[3] != padIndex {
			return nil, fmt.Errorf("%w: unexpected data after padding at offset %d", ErrDecode, i+3)
		}
		out = appendQuartet(out, q)
	}
	return out, nil
}

// appendQuartet regroups four 6-bit values into up to three bytes. A padding
// value in the third or fourth slot suppresses the byte it would complete.
func appendQuartet(out []byte, q [4]byte) []byte {
	if q[0] == padIndex || q[1] == padIndex {
		return out
	}
	out = append(out, q[0]<<2|q[1]>>4)
	if q[2] == padIndex {
		return out
	}
	out = append(out, (q[1]&0x0F)<<4|q[2]>>2)
	if q[3] == padIndex {
		return out
	}
	return append(out, (q[2]&0x03)<<6|q[3])
}
