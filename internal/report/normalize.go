// Package report post-processes scan results for the renderers. The
// normalizer reshapes freshly produced or storage-flattened records
// into the canonical schema; the HTML renderer and scan diff consume
// the normalized form.
package report

import (
	"encoding/json"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/scanforge/scanforge/internal/assessor"
	"github.com/scanforge/scanforge/internal/model"
)

var (
	portNumberRe  = regexp.MustCompile(`Port (\d+)`)
	portServiceRe = regexp.MustCompile(`\((.*?)\)`)
)

// timestampLayouts are tried in order when formatting a string
// timestamp for display.
var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05.999999",
}

// Normalize produces the canonical report shape from a value that may
// be a fresh ScanResult, a stored record, or a legacy-flattened blob
// (JSON text, bare numeric risk score, network section as a raw finding
// list, flat lead_* columns). It is idempotent and never panics: a rule
// whose precondition does not hold is skipped, and any internal failure
// leaves the field as it was.
func Normalize(v any) (out map[string]any) {
	defer func() {
		if recover() != nil {
			if out == nil {
				out = map[string]any{}
			}
		}
	}()

	m := toMap(v)
	if m == nil {
		return map[string]any{}
	}

	mergeScanResults(m)
	normalizeNetwork(m)
	normalizeClientInfo(m)
	upgradeRiskAssessment(m)
	deriveRiskColor(m)
	synthesizeClientInfoFromLeadColumns(m)
	formatTimestamp(m)
	computeTotalIssues(m)

	return m
}

// toMap coerces the input into a fresh top-level map. Strings are
// parsed as JSON; unparsable input yields nil.
func toMap(v any) map[string]any {
	switch t := v.(type) {
	case nil:
		return nil
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[k] = val
		}
		return out
	case string:
		var parsed map[string]any
		if err := json.Unmarshal([]byte(t), &parsed); err != nil {
			return nil
		}
		return parsed
	case []byte:
		var parsed map[string]any
		if err := json.Unmarshal(t, &parsed); err != nil {
			return nil
		}
		return parsed
	case *model.ScanResult:
		if t == nil {
			return nil
		}
		return structToMap(t)
	case model.ScanResult:
		return structToMap(&t)
	}
	return nil
}

func structToMap(r *model.ScanResult) map[string]any {
	raw, err := json.Marshal(r)
	if err != nil {
		return nil
	}
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil
	}
	return m
}

// mergeScanResults parses a serialized scan_results field and merges
// its keys into the top level without overwriting anything already
// present. Tolerates legacy double-serialized records.
func mergeScanResults(m map[string]any) {
	raw, ok := m["scan_results"].(string)
	if !ok {
		return
	}
	var parsed any
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		return
	}
	// A doubly serialized record parses to a string the first time.
	if inner, ok := parsed.(string); ok {
		if err := json.Unmarshal([]byte(inner), &parsed); err != nil {
			return
		}
	}
	nested, ok := parsed.(map[string]any)
	if !ok {
		return
	}
	for k, val := range nested {
		if _, exists := m[k]; !exists {
			m[k] = val
		}
	}
}

// normalizeNetwork upgrades a raw finding list under "network" into the
// structured {open_ports, scan_results} shape, and guarantees the
// open_ports structure exists either way.
func normalizeNetwork(m map[string]any) {
	switch network := m["network"].(type) {
	case []any:
		var (
			portList []any
			details  []any
		)
		for _, raw := range network {
			f, ok := model.FindingFromAny(raw)
			if !ok {
				continue
			}
			if !strings.Contains(f.Message, "Port ") || !strings.Contains(f.Message, " is open") {
				continue
			}
			pm := portNumberRe.FindStringSubmatch(f.Message)
			if pm == nil {
				continue
			}
			port := atoiSafe(pm[1])
			service := "Unknown"
			if sm := portServiceRe.FindStringSubmatch(f.Message); sm != nil {
				service = sm[1]
			}
			portList = append(portList, port)
			details = append(details, map[string]any{
				"port":     port,
				"service":  service,
				"severity": string(f.Severity),
			})
		}
		m["network"] = map[string]any{
			"scan_results": network,
			"open_ports": map[string]any{
				"count":    len(portList),
				"list":     orEmptyList(portList),
				"details":  orEmptyList(details),
				"severity": string(portCountSeverity(len(portList))),
			},
		}
	case map[string]any:
		if _, ok := network["open_ports"]; !ok {
			network["open_ports"] = map[string]any{
				"count":    0,
				"list":     []any{},
				"details":  []any{},
				"severity": string(model.SeverityLow),
			}
		}
	case nil:
		// Templates index network.open_ports unconditionally, so the
		// zero structure is guaranteed even when the probe never ran.
		m["network"] = map[string]any{
			"open_ports": map[string]any{
				"count":    0,
				"list":     []any{},
				"details":  []any{},
				"severity": string(model.SeverityLow),
			},
		}
	}
}

func portCountSeverity(count int) model.Severity {
	switch {
	case count > 5:
		return model.SeverityHigh
	case count > 2:
		return model.SeverityMedium
	default:
		return model.SeverityLow
	}
}

// normalizeClientInfo fills os/browser from the user agent when absent.
func normalizeClientInfo(m map[string]any) {
	ci, ok := m["client_info"].(map[string]any)
	if !ok {
		return
	}
	ua := stringField(ci, "user_agent")
	if ua == "" {
		ua = stringField(m, "user_agent")
	}
	osMissing := unusable(ci["os"])
	browserMissing := unusable(ci["browser"])
	if !osMissing && !browserMissing {
		return
	}

	osInfo, browserInfo := DetectOSAndBrowser(ua)
	if osMissing {
		ci["os"] = osInfo
	}
	if browserMissing {
		ci["browser"] = browserInfo
	}
}

func unusable(v any) bool {
	s, ok := v.(string)
	if !ok {
		return v == nil
	}
	return s == "" || s == "N/A"
}

// upgradeRiskAssessment turns a bare numeric (or numeric-string) risk
// assessment into the full object, and backfills risk_level/color on an
// object that lacks them.
func upgradeRiskAssessment(m map[string]any) {
	switch risk := m["risk_assessment"].(type) {
	case float64, int, string:
		score, ok := asFloat(risk)
		if !ok {
			return
		}
		m["risk_assessment"] = map[string]any{
			"overall_score": score,
			"risk_level":    assessor.RiskLevel(int(score)),
			"color":         assessor.ScoreColor(int(score)),
		}
	case map[string]any:
		score, ok := asFloat(risk["overall_score"])
		if !ok {
			return
		}
		if _, has := risk["risk_level"]; !has {
			risk["risk_level"] = assessor.RiskLevel(int(score))
		}
		if _, has := risk["color"]; !has {
			risk["color"] = assessor.ScoreColor(int(score))
		}
	}
}

// deriveRiskColor sets the template-facing semantic color from the risk
// level, distinct from the hex color.
func deriveRiskColor(m map[string]any) {
	risk, ok := m["risk_assessment"].(map[string]any)
	if !ok {
		return
	}
	level := strings.ToLower(stringField(risk, "risk_level"))
	switch {
	case strings.Contains(level, "critical"):
		m["risk_color"] = "danger"
	case strings.Contains(level, "high"):
		m["risk_color"] = "warning"
	case strings.Contains(level, "medium"):
		m["risk_color"] = "info"
	default:
		m["risk_color"] = "success"
	}
}

// synthesizeClientInfoFromLeadColumns rebuilds client_info from the
// flat lead_* columns a storage row carries.
func synthesizeClientInfoFromLeadColumns(m map[string]any) {
	if _, ok := m["client_info"].(map[string]any); ok {
		return
	}
	ci := map[string]any{}
	for col, field := range map[string]string{
		"lead_name":    "name",
		"lead_email":   "email",
		"lead_company": "company",
		"lead_phone":   "phone",
	} {
		if v := stringField(m, col); v != "" {
			ci[field] = v
		}
	}
	if len(ci) == 0 {
		return
	}
	m["client_info"] = ci
	normalizeClientInfo(m)
}

// formatTimestamp adds human-readable formatted_date / formatted_time
// when the timestamp parses; silently skips otherwise.
func formatTimestamp(m map[string]any) {
	if _, done := m["formatted_date"]; done {
		return
	}

	var ts time.Time
	switch t := m["timestamp"].(type) {
	case time.Time:
		ts = t
	case string:
		for _, layout := range timestampLayouts {
			if parsed, err := time.Parse(layout, t); err == nil {
				ts = parsed
				break
			}
		}
	}
	if ts.IsZero() {
		return
	}
	m["formatted_date"] = ts.Format("January 2, 2006")
	m["formatted_time"] = ts.Format("3:04 PM")
}

// computeTotalIssues sums the four issue-count fields, defaulting each
// to zero.
func computeTotalIssues(m map[string]any) {
	risk, ok := m["risk_assessment"].(map[string]any)
	if !ok {
		return
	}
	total := 0
	for _, key := range []string{"critical_issues", "high_issues", "medium_issues", "low_issues"} {
		if v, ok := asFloat(risk[key]); ok {
			total += int(v)
		}
	}
	m["total_issues"] = total
}

func stringField(m map[string]any, key string) string {
	s, _ := m[key].(string)
	return s
}

func asFloat(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case int:
		return float64(t), true
	case string:
		if f, err := strconv.ParseFloat(t, 64); err == nil {
			return f, true
		}
	}
	return 0, false
}

func atoiSafe(s string) int {
	n := 0
	for _, r := range s {
		if r < '0' || r > '9' {
			return n
		}
		n = n*10 + int(r-'0')
	}
	return n
}

func orEmptyList(l []any) []any {
	if l == nil {
		return []any{}
	}
	return l
}
