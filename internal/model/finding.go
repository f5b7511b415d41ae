package model

import (
	"encoding/json"
	"fmt"
)

// Finding is one (message, severity) observation produced by a probe.
type Finding struct {
	Message  string   `json:"message"`
	Severity Severity `json:"severity"`
}

// UnmarshalJSON accepts both the canonical object form and the legacy
// two-element array form (["message", "severity"]) that serialized probe
// tuples take in stored records.
func (f *Finding) UnmarshalJSON(data []byte) error {
	type alias Finding
	var obj alias
	if err := json.Unmarshal(data, &obj); err == nil && len(data) > 0 && data[0] != '[' {
		f.Message = obj.Message
		f.Severity = ParseSeverity(string(obj.Severity))
		return nil
	}

	var pair []string
	if err := json.Unmarshal(data, &pair); err == nil {
		if len(pair) >= 2 {
			f.Message = pair[0]
			f.Severity = ParseSeverity(pair[1])
			return nil
		}
		if len(pair) == 1 {
			f.Message = pair[0]
			f.Severity = SeverityInfo
			return nil
		}
		return nil
	}

	return fmt.Errorf("finding: cannot decode %s", string(data))
}

// FindingFromAny decodes a finding from an already-unmarshaled JSON value
// (map, []any pair, or Finding). ok is false when v has no usable shape.
func FindingFromAny(v any) (Finding, bool) {
	switch t := v.(type) {
	case Finding:
		return t, true
	case map[string]any:
		msg, _ := t["message"].(string)
		sev, _ := t["severity"].(string)
		if msg == "" && sev == "" {
			return Finding{}, false
		}
		return Finding{Message: msg, Severity: ParseSeverity(sev)}, true
	case []any:
		if len(t) < 2 {
			return Finding{}, false
		}
		msg, ok1 := t[0].(string)
		sev, ok2 := t[1].(string)
		if !ok1 || !ok2 {
			return Finding{}, false
		}
		return Finding{Message: msg, Severity: ParseSeverity(sev)}, true
	}
	return Finding{}, false
}
