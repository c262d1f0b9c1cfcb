package claims

import (
	"encoding/json"
	"strings"
)

// UnwrapStored undoes the double JSON encoding some clients apply when they
// persist the token, e.g. "\"eyJ...\"". Values that are not quoted, or that
// fail to unquote, are returned trimmed.
func UnwrapStored(raw string) string {
	s := strings.TrimSpace(raw)
	if len(s) < 2 || s[0] != '"' || s[len(s)-1] != '"' {
		return s
	}
	var out string
	if err := json.Unmarshal([]byte(s), &out); err != nil {
		return s
	}
	return strings.TrimSpace(out)
}
