package report

import (
	"strings"
	"testing"

	"github.com/scanforge/scanforge/internal/model"
)

func scanWithFindings(score int, findings ...model.Finding) *model.ScanResult {
	return &model.ScanResult{
		RiskAssessment:   &model.RiskAssessment{OverallScore: score},
		SensitiveContent: &model.SensitiveSection{Findings: findings},
	}
}

func TestCompare(t *testing.T) {
	before := scanWithFindings(60,
		model.Finding{Message: "/.env exposed", Severity: model.SeverityCritical},
		model.Finding{Message: "/admin accessible", Severity: model.SeverityMedium},
	)
	after := scanWithFindings(75,
		model.Finding{Message: "/admin accessible", Severity: model.SeverityMedium},
	)

	d := Compare(before, after)
	if d.ScoreDelta != 15 {
		t.Errorf("delta = %d", d.ScoreDelta)
	}
	if len(d.ResolvedFindings) != 1 || !strings.Contains(d.ResolvedFindings[0], "/.env exposed") {
		t.Errorf("resolved = %v", d.ResolvedFindings)
	}
	if len(d.NewFindings) != 0 {
		t.Errorf("new = %v", d.NewFindings)
	}
	if !strings.Contains(d.Unified, "- ") {
		t.Errorf("unified diff missing deletion:\n%s", d.Unified)
	}
}

func TestCompareNilScans(t *testing.T) {
	d := Compare(nil, nil)
	if d.ScoreDelta != 0 || len(d.NewFindings) != 0 {
		t.Errorf("got %+v", d)
	}
}
