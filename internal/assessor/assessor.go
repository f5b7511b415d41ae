// Package assessor turns merged probe results into a risk assessment:
// the overall 0-100 score, severity-weighted issue counts, service
// category buckets, recommendations and threat scenarios.
package assessor

import (
	"fmt"

	"github.com/scanforge/scanforge/internal/logging"
	"github.com/scanforge/scanforge/internal/model"
)

// Assessor is stateless apart from its logger; Assess can run for
// concurrent scans.
type Assessor struct {
	Logger logging.Logger
}

func New(logger logging.Logger) *Assessor {
	return &Assessor{Logger: logger.With(logging.Field{Key: "component", Value: "assessor"})}
}

// Assessment is everything the scorer derives from one scan.
type Assessment struct {
	Risk            *model.RiskAssessment
	Categories      map[string]*model.ServiceCategory
	Recommendations []string
	ThreatScenarios []string
}

// Assess scores the scan. It never panics on partial or error-stubbed
// sections; the orchestrator still guards the call and substitutes
// Fallback on any failure.
func (a *Assessor) Assess(result *model.ScanResult) *Assessment {
	findings := Flatten(result)

	penalty := 0
	counts := map[model.Severity]int{}
	for _, sf := range findings {
		counts[sf.Finding.Severity]++
		penalty += penaltyFor(sf.Finding.Severity)
	}

	score := 100 - penalty
	if score < 0 {
		score = 0
	}

	risk := &model.RiskAssessment{
		OverallScore:   score,
		RiskLevel:      RiskLevel(score),
		Color:          ScoreColor(score),
		CriticalIssues: counts[model.SeverityCritical],
		HighIssues:     counts[model.SeverityHigh],
		MediumIssues:   counts[model.SeverityMedium],
		LowIssues:      counts[model.SeverityLow],
	}

	a.Logger.Info("scan scored",
		logging.Field{Key: "scan_id", Value: result.ScanID},
		logging.Field{Key: "score", Value: score},
		logging.Field{Key: "risk_level", Value: risk.RiskLevel},
		logging.Field{Key: "findings", Value: len(findings)})

	return &Assessment{
		Risk:            risk,
		Categories:      Categorize(findings),
		Recommendations: Recommend(result),
		ThreatScenarios: ThreatScenarios(result),
	}
}

// penaltyFor charges the full severity weight for Medium and above and
// half weight below, so informational findings cannot drag a clean scan
// down.
func penaltyFor(s model.Severity) int {
	w := s.Weight()
	if s.AtLeast(model.SeverityMedium) {
		return w
	}
	return w / 2
}

// RiskLevel buckets a score into the aggregate per-scan label. Distinct
// from per-finding severity.
func RiskLevel(score int) string {
	switch {
	case score >= 90:
		return "Low"
	case score >= 80:
		return "Low-Medium"
	case score >= 70:
		return "Medium"
	case score >= 60:
		return "Medium-High"
	case score >= 50:
		return "High"
	}
	return "Critical"
}

// ScoreColor derives the report hex color from a score.
func ScoreColor(score int) string {
	switch {
	case score >= 90:
		return "#28a745"
	case score >= 80:
		return "#5cb85c"
	case score >= 70:
		return "#17a2b8"
	case score >= 60:
		return "#ffc107"
	case score >= 50:
		return "#fd7e14"
	}
	return "#dc3545"
}

// Fallback is substituted when scoring itself fails: a fixed middling
// assessment plus generic advice, so report generation always has
// something to render.
func Fallback() *Assessment {
	return &Assessment{
		Risk: &model.RiskAssessment{
			OverallScore: 50,
			RiskLevel:    "Medium",
			Color:        ScoreColor(50),
		},
		Categories:      Categorize(nil),
		Recommendations: append([]string(nil), genericRecommendations...),
	}
}

// SectionFinding is one finding tagged with the probe section it came
// from, the unit the scorer and categorizer work on.
type SectionFinding struct {
	Section string
	Finding model.Finding
}

// Flatten walks every probe section and collects its findings. Error
// stubs surface as High-severity findings, matching how probe failures
// are normalized.
func Flatten(r *model.ScanResult) []SectionFinding {
	if r == nil {
		return nil
	}
	var out []SectionFinding

	add := func(section string, findings []model.Finding, errStr string) {
		for _, f := range findings {
			out = append(out, SectionFinding{Section: section, Finding: f})
		}
		if errStr != "" {
			out = append(out, SectionFinding{Section: section, Finding: model.Finding{
				Message:  fmt.Sprintf("%s check failed: %s", section, errStr),
				Severity: model.SeverityHigh,
			}})
		}
	}

	if s := r.System; s != nil {
		add("system", s.Findings, s.Error)
	}
	if n := r.Network; n != nil {
		if n.OpenPorts != nil {
			for _, d := range n.OpenPorts.Details {
				out = append(out, SectionFinding{Section: "network", Finding: model.Finding{
					Message:  fmt.Sprintf("Port %d is open (%s)", d.Port, d.Service),
					Severity: d.Severity,
				}})
			}
		}
		add("gateway", n.Gateway, n.Error)
	}
	if s := r.EmailSecurity; s != nil {
		add("email_security", s.Findings, s.Error)
	}
	if s := r.SSLCertificate; s != nil {
		add("ssl_certificate", s.Findings, s.Error)
	}
	if s := r.SecurityHeaders; s != nil {
		add("security_headers", s.Findings, s.Error)
	}
	if s := r.CMS; s != nil {
		add("cms", s.Findings, s.Error)
	}
	if s := r.Cookies; s != nil {
		add("cookies", s.Findings, s.Error)
	}
	if s := r.Frameworks; s != nil {
		add("frameworks", s.Findings, s.Error)
	}
	if s := r.SensitiveContent; s != nil {
		add("sensitive_content", s.Findings, s.Error)
	}
	return out
}
