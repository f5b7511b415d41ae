package report

import (
	"encoding/json"
	"reflect"
	"testing"
	"time"

	"github.com/scanforge/scanforge/internal/model"
)

func TestNormalizeNetworkFindingList(t *testing.T) {
	m := Normalize(map[string]any{
		"network": []any{
			[]any{"Port 21 is open (FTP)", "Critical"},
			[]any{"Port 443 is open (HTTPS)", "Low"},
		},
	})

	network, ok := m["network"].(map[string]any)
	if !ok {
		t.Fatalf("network = %T", m["network"])
	}
	openPorts := network["open_ports"].(map[string]any)
	if openPorts["count"] != 2 {
		t.Errorf("count = %v", openPorts["count"])
	}
	list := openPorts["list"].([]any)
	if len(list) != 2 || list[0] != 21 || list[1] != 443 {
		t.Errorf("list = %v", list)
	}
	// 2 ports: not >2, so Low.
	if openPorts["severity"] != "Low" {
		t.Errorf("severity = %v, want Low", openPorts["severity"])
	}
	if _, kept := network["scan_results"]; !kept {
		t.Error("original finding list must be preserved under scan_results")
	}
	details := openPorts["details"].([]any)
	first := details[0].(map[string]any)
	if first["service"] != "FTP" || first["severity"] != "Critical" {
		t.Errorf("details[0] = %v", first)
	}
}

func TestNormalizeBareNumericRisk(t *testing.T) {
	m := Normalize(map[string]any{"risk_assessment": float64(42)})
	risk := m["risk_assessment"].(map[string]any)
	if risk["overall_score"] != float64(42) {
		t.Errorf("overall_score = %v", risk["overall_score"])
	}
	if risk["risk_level"] != "Critical" || risk["color"] != "#dc3545" {
		t.Errorf("risk = %v", risk)
	}
	if m["risk_color"] != "danger" {
		t.Errorf("risk_color = %v", m["risk_color"])
	}
}

func TestNormalizeRiskMissingColor(t *testing.T) {
	m := Normalize(map[string]any{
		"risk_assessment": map[string]any{"overall_score": float64(85)},
	})
	risk := m["risk_assessment"].(map[string]any)
	if risk["color"] != "#5cb85c" || risk["risk_level"] != "Low-Medium" {
		t.Errorf("risk = %v", risk)
	}
	if m["risk_color"] != "success" {
		t.Errorf("risk_color = %v", m["risk_color"])
	}
}

func TestNormalizeUserAgentDerivation(t *testing.T) {
	const chromeUA = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"
	m := Normalize(map[string]any{
		"client_info": map[string]any{"name": "Jo"},
		"user_agent":  chromeUA,
	})
	ci := m["client_info"].(map[string]any)
	if ci["os"] != "Windows 10/11" || ci["browser"] != "Chrome" {
		t.Errorf("client_info = %v", ci)
	}
}

func TestNormalizeLeadColumns(t *testing.T) {
	m := Normalize(map[string]any{
		"lead_name":    "Jo",
		"lead_email":   "jo@example.com",
		"lead_company": "Acme",
	})
	ci, ok := m["client_info"].(map[string]any)
	if !ok {
		t.Fatalf("client_info = %T", m["client_info"])
	}
	if ci["name"] != "Jo" || ci["email"] != "jo@example.com" || ci["company"] != "Acme" {
		t.Errorf("client_info = %v", ci)
	}
}

func TestNormalizeJSONStringInput(t *testing.T) {
	m := Normalize(`{"target":"example.com","risk_assessment":55}`)
	if m["target"] != "example.com" {
		t.Errorf("target = %v", m["target"])
	}
	if Normalize("definitely not json") == nil {
		t.Error("unparsable input must yield an empty map, not nil")
	}
	if len(Normalize("nope{")) != 0 {
		t.Error("unparsable input should be empty")
	}
}

func TestNormalizeScanResultsMerge(t *testing.T) {
	inner, _ := json.Marshal(map[string]any{
		"target": "inner.example",
		"cms":    map[string]any{"detected": "WordPress"},
	})
	m := Normalize(map[string]any{
		"target":       "outer.example",
		"scan_results": string(inner),
	})
	// Existing keys never overwritten; new keys merged in.
	if m["target"] != "outer.example" {
		t.Errorf("target = %v", m["target"])
	}
	if _, ok := m["cms"].(map[string]any); !ok {
		t.Errorf("cms not merged: %v", m["cms"])
	}
}

func TestNormalizeTimestampFormatting(t *testing.T) {
	m := Normalize(map[string]any{"timestamp": "2026-08-27 14:30:00"})
	if m["formatted_date"] != "August 27, 2026" {
		t.Errorf("formatted_date = %v", m["formatted_date"])
	}
	if m["formatted_time"] != "2:30 PM" {
		t.Errorf("formatted_time = %v", m["formatted_time"])
	}

	m = Normalize(map[string]any{"timestamp": "not a date"})
	if _, ok := m["formatted_date"]; ok {
		t.Error("unparsable timestamp must be skipped silently")
	}
}

func TestNormalizeTotalIssues(t *testing.T) {
	m := Normalize(map[string]any{
		"risk_assessment": map[string]any{
			"overall_score":   float64(60),
			"critical_issues": float64(1),
			"high_issues":     float64(2),
			"medium_issues":   float64(3),
		},
	})
	if m["total_issues"] != 6 {
		t.Errorf("total_issues = %v", m["total_issues"])
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []map[string]any{
		{
			"network": []any{
				[]any{"Port 22 is open (SSH)", "Low"},
				[]any{"Port 80 is open (HTTP)", "Medium"},
				[]any{"Port 3389 is open (RDP)", "High"},
			},
			"risk_assessment": float64(73),
			"timestamp":       "2026-08-27 09:00:00",
			"user_agent":      "Mozilla/5.0 (Windows NT 10.0) Firefox/115.0",
			"lead_name":       "Jo",
		},
		{"risk_assessment": map[string]any{"overall_score": float64(50)}},
		{},
	}
	for i, in := range inputs {
		once := Normalize(in)
		twice := Normalize(once)
		if !reflect.DeepEqual(once, twice) {
			t.Errorf("input %d: normalize not idempotent\nonce:  %#v\ntwice: %#v", i, once, twice)
		}
	}
}

func TestNormalizeNeverReturnsNil(t *testing.T) {
	for _, in := range []any{nil, 42, []any{"x"}, "garbage", map[string]any{"network": "weird"}} {
		if Normalize(in) == nil {
			t.Errorf("Normalize(%v) returned nil", in)
		}
	}
}

func TestNormalizeFreshScanResult(t *testing.T) {
	r := &model.ScanResult{
		ScanID:    "s-1",
		Timestamp: time.Date(2026, 8, 27, 10, 0, 0, 0, time.UTC),
		Target:    "example.com",
		RiskAssessment: &model.RiskAssessment{
			OverallScore: 88, RiskLevel: "Low-Medium", Color: "#5cb85c",
			HighIssues: 1, LowIssues: 2,
		},
	}
	m := Normalize(r)
	if m["target"] != "example.com" {
		t.Errorf("target = %v", m["target"])
	}
	if m["total_issues"] != 3 {
		t.Errorf("total_issues = %v", m["total_issues"])
	}
	if m["formatted_date"] != "August 27, 2026" {
		t.Errorf("formatted_date = %v", m["formatted_date"])
	}
	np, ok := m["network"].(map[string]any)
	if !ok || np["open_ports"] == nil {
		t.Errorf("network zero structure missing: %v", m["network"])
	}
}
