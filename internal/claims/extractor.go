// Package claims looks up identity fields in decoded session token payloads.
//
// Lookups are advisory. They enrich outgoing requests with scoping identifiers
// and never gate access: every failure, from a malformed token to a missing
// field, is reported as "absent".
package claims

import (
	"encoding/json"
	"errors"
	"log/slog"
	"strconv"

	"society-platform/internal/token"
)

// Candidate keys in priority order. The backend is not consistent about field
// naming across endpoints.
var (
	UserIDKeys     = []string{"id", "userId", "user_id", "userID"}
	SocietyIDKeys  = []string{"societyId", "society_id", "societyID"}
	BuildingIDKeys = []string{"buildingId", "building_id", "buildingID"}
)

// Identity is the set of advisory identifiers carried by a token.
// Empty fields are absent.
type Identity struct {
	UserID     string `json:"user_id,omitempty"`
	SocietyID  string `json:"society_id,omitempty"`
	BuildingID string `json:"building_id,omitempty"`
}

// DecodeObserver is told why a decode was absorbed. Reason is one of
// "invalid_format" or "decode".
type DecodeObserver func(reason string)

// Extractor reads identifier fields from tokens.
type Extractor struct {
	decoder  token.Decoder
	logger   *slog.Logger
	observer DecodeObserver
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithStrictDecoding makes the underlying codec reject malformed Base64.
func WithStrictDecoding(strict bool) Option {
	return func(e *Extractor) { e.decoder.Strict = strict }
}

// WithLogger sets the logger used to report absorbed decode failures.
func WithLogger(l *slog.Logger) Option {
	return func(e *Extractor) { e.logger = l }
}

// WithDecodeObserver registers a hook called on every absorbed decode failure.
func WithDecodeObserver(o DecodeObserver) Option {
	return func(e *Extractor) { e.observer = o }
}

// NewExtractor returns an Extractor. Without options it decodes leniently and
// logs to slog.Default().
func NewExtractor(opts ...Option) *Extractor {
	e := &Extractor{logger: slog.Default()}
	for _, o := range opts {
		o(e)
	}
	return e
}

// Field returns the first of keys holding a non-null, non-empty value.
// The boolean is false when the token cannot be decoded or no key matches.
func (e *Extractor) Field(raw string, keys []string) (string, bool) {
	claims, ok := e.decode(raw)
	if !ok {
		return "", false
	}
	return lookup(claims, keys)
}

// UserID returns the user id claim.
func (e *Extractor) UserID(raw string) (string, bool) { return e.Field(raw, UserIDKeys) }

// SocietyID returns the society (tenant) id claim.
func (e *Extractor) SocietyID(raw string) (string, bool) { return e.Field(raw, SocietyIDKeys) }

// BuildingID returns the building (sub-unit) id claim.
func (e *Extractor) BuildingID(raw string) (string, bool) { return e.Field(raw, BuildingIDKeys) }

// Identity decodes the token once and returns every identifier it carries.
func (e *Extractor) Identity(raw string) Identity {
	claims, ok := e.decode(raw)
	if !ok {
		return Identity{}
	}
	var id Identity
	id.UserID, _ = lookup(claims, UserIDKeys)
	id.SocietyID, _ = lookup(claims, SocietyIDKeys)
	id.BuildingID, _ = lookup(claims, BuildingIDKeys)
	return id
}

func (e *Extractor) decode(raw string) (map[string]any, bool) {
	if raw == "" {
		return nil, false
	}
	claims, err := e.decoder.DecodePayload(raw)
	if err == nil {
		return claims, true
	}

	reason := "decode"
	if errors.Is(err, token.ErrInvalidFormat) {
		reason = "invalid_format"
	}
	if e.logger != nil {
		e.logger.Debug("token claims unavailable", "reason", reason, "err", err)
	}
	if e.observer != nil {
		e.observer(reason)
	}
	return nil, false
}

func lookup(claims map[string]any, keys []string) (string, bool) {
	for _, k := range keys {
		if s, ok := scalar(claims[k]); ok && s != "" {
			return s, true
		}
	}
	return "", false
}

// scalar renders JSON scalars as strings. Objects, arrays and null are not
// identifiers.
func scalar(v any) (string, bool) {
	switch x := v.(type) {
	case string:
		return x, true
	case json.Number:
		return x.String(), true
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64), true
	case bool:
		return strconv.FormatBool(x), true
	default:
		return "", false
	}
}
