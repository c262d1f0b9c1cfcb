// Package token decodes the payload segment of compact three-segment session
// tokens without relying on encoding/base64 or a JWT library.
//
// Nothing here verifies a signature. Decoded claims are advisory and must not
// be used for authorization decisions; see internal/auth for the verified path.
package token

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidFormat is returned when a token does not have exactly three
	// dot-separated segments.
	ErrInvalidFormat = errors.New("token: invalid format")
	// ErrDecode is returned when the payload segment is not valid Base64 or
	// does not hold a JSON object.
	ErrDecode = errors.New("token: decode failed")
)

const bearerScheme = "bearer "

// Segments are the three parts of a compact token.
type Segments struct {
	Header    string
	Payload   string
	Signature string
}

// SplitToken strips an optional "Bearer " scheme and splits the token into
// its header, payload and signature segments.
func SplitToken(raw string) (Segments, error) {
	s := strings.TrimSpace(raw)
	if len(s) >= len(bearerScheme) && strings.EqualFold(s[:len(bearerScheme)], bearerScheme) {
		s = strings.TrimSpace(s[len(bearerScheme):])
	}
	if s == "" {
		return Segments{}, fmt.Errorf("%w: empty token", ErrInvalidFormat)
	}

	parts := strings.Split(s, ".")
	if len(parts) != 3 {
		return Segments{}, fmt.Errorf("%w: expected 3 segments, got %d", ErrInvalidFormat, len(parts))
	}
	return Segments{Header: parts[0], Payload: parts[1], Signature: parts[2]}, nil
}

// Decoder turns token payloads into claims maps.
// The zero value is a lenient decoder.
type Decoder struct {
	// Strict rejects payloads containing characters outside the Base64
	// alphabet or misplaced padding instead of skipping them.
	Strict bool
}

// DecodePayload splits the token, decodes its payload segment and parses it as
// a JSON object. Numbers are kept as json.Number.
func (d Decoder) DecodePayload(raw string) (map[string]any, error) {
	seg, err := SplitToken(raw)
	if err != nil {
		return nil, err
	}
	if seg.Payload == "" {
		return nil, fmt.Errorf("%w: empty payload segment", ErrDecode)
	}

	normalized := NormalizeBase64URL(seg.Payload)

	var data []byte
	if d.Strict {
		data, err = DecodeBase64Strict(normalized)
		if err != nil {
			return nil, err
		}
	} else {
		data = DecodeBase64(normalized)
	}

	return parseClaims(data)
}

// DecodePayload decodes with the default lenient Decoder.
func DecodePayload(raw string) (map[string]any, error) {
	return Decoder{}.DecodePayload(raw)
}

func parseClaims(data []byte) (map[string]any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var claims map[string]any
	if err := dec.Decode(&claims); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	if claims == nil {
		return nil, fmt.Errorf("%w: payload is not a JSON object", ErrDecode)
	}
	if dec.More() {
		return nil, fmt.Errorf("%w: trailing data after payload", ErrDecode)
	}
	return claims, nil
}
