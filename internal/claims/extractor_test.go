package claims

import (
	"encoding/base64"
	"encoding/json"
	"io"
	"log/slog"
	"testing"
)

const scenarioToken = "eyJhbGciOiJIUzI1NiJ9.eyJpZCI6InU1MDAxIiwic29jaWV0eUlkIjoiczEyMyJ9.sig"

func quietExtractor(opts ...Option) *Extractor {
	opts = append([]Option{WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))}, opts...)
	return NewExtractor(opts...)
}

func mint(t *testing.T, payload map[string]any) string {
	t.Helper()
	b, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return "eyJhbGciOiJub25lIn0." + base64.RawURLEncoding.EncodeToString(b) + ".sig"
}

func TestExtractor_ScenarioToken(t *testing.T) {
	e := quietExtractor()

	uid, ok := e.UserID(scenarioToken)
	if !ok || uid != "u5001" {
		t.Fatalf("user id: got %q (%v), want u5001", uid, ok)
	}
	sid, ok := e.SocietyID(scenarioToken)
	if !ok || sid != "s123" {
		t.Fatalf("society id: got %q (%v), want s123", sid, ok)
	}
	if bid, ok := e.BuildingID(scenarioToken); ok {
		t.Fatalf("building id should be absent, got %q", bid)
	}
}

func TestExtractor_MalformedTokensAreAbsent(t *testing.T) {
	var reasons []string
	e := quietExtractor(WithDecodeObserver(func(r string) { reasons = append(reasons, r) }))

	for _, tok := range []string{"abc.def", "", "a.b.c", "h.WzEsMl0.s"} {
		for _, keys := range [][]string{UserIDKeys, SocietyIDKeys, BuildingIDKeys} {
			if v, ok := e.Field(tok, keys); ok || v != "" {
				t.Fatalf("Field(%q) = %q, %v; want absent", tok, v, ok)
			}
		}
		if id := e.Identity(tok); id != (Identity{}) {
			t.Fatalf("Identity(%q) = %+v, want empty", tok, id)
		}
	}

	// the empty token short-circuits before decoding
	if len(reasons) != 12 {
		t.Fatalf("expected 12 observed failures, got %d: %v", len(reasons), reasons)
	}
	if reasons[0] != "invalid_format" || reasons[len(reasons)-1] != "decode" {
		t.Fatalf("unexpected reasons: %v", reasons)
	}
}

func TestExtractor_PriorityOrder(t *testing.T) {
	e := quietExtractor()

	tok := mint(t, map[string]any{"societyId": "first", "society_id": "second", "societyID": "third"})
	if v, _ := e.SocietyID(tok); v != "first" {
		t.Fatalf("expected societyId to win, got %q", v)
	}

	tok = mint(t, map[string]any{"societyID": "third", "society_id": "second"})
	if v, _ := e.SocietyID(tok); v != "second" {
		t.Fatalf("expected society_id to win over societyID, got %q", v)
	}

	tok = mint(t, map[string]any{"name": "x"})
	if v, ok := e.SocietyID(tok); ok {
		t.Fatalf("expected absent, got %q", v)
	}
}

func TestExtractor_SkipsNullEmptyAndComposite(t *testing.T) {
	e := quietExtractor()
	tok := mint(t, map[string]any{
		"id":      nil,
		"userId":  "",
		"user_id": map[string]any{"v": 1},
		"userID":  "u-4",
	})
	if v, _ := e.UserID(tok); v != "u-4" {
		t.Fatalf("expected u-4, got %q", v)
	}
}

func TestExtractor_NumericIdentifiers(t *testing.T) {
	e := quietExtractor()
	tok := "h.eyJ1c2VyX2lkIjo0Miwic29jaWV0eV9pZCI6InMtOSIsImJ1aWxkaW5nSUQiOiJiNyJ9.s"

	id := e.Identity(tok)
	want := Identity{UserID: "42", SocietyID: "s-9", BuildingID: "b7"}
	if id != want {
		t.Fatalf("Identity = %+v, want %+v", id, want)
	}
}

func TestExtractor_StrictDecoding(t *testing.T) {
	noisy := "h.eyJpZCI6InU1MDAxIn0*.s"
	if v, _ := quietExtractor().UserID(noisy); v != "u5001" {
		t.Fatalf("lenient extractor: got %q", v)
	}
	if v, ok := quietExtractor(WithStrictDecoding(true)).UserID(noisy); ok {
		t.Fatalf("strict extractor should report absent, got %q", v)
	}
}

func TestUnwrapStored(t *testing.T) {
	tests := map[string]string{
		`"` + scenarioToken + `"`: scenarioToken,
		scenarioToken:             scenarioToken,
		"  " + scenarioToken:      scenarioToken,
		`"broken\"`:               `"broken\"`,
		`""`:                      "",
		`"`:                       `"`,
	}
	for in, want := range tests {
		if got := UnwrapStored(in); got != want {
			t.Fatalf("UnwrapStored(%q) = %q, want %q", in, got, want)
		}
	}

	if uid, _ := quietExtractor().UserID(UnwrapStored(`"Bearer ` + scenarioToken + `"`)); uid != "u5001" {
		t.Fatalf("expected u5001 from double-encoded bearer token, got %q", uid)
	}
}
