package report

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/scanforge/scanforge/internal/model"
)

// reportTemplate renders the normalized scan map into the standalone
// HTML report. It only reads fields the normalizer guarantees.
var reportTemplate = template.Must(template.New("report").Funcs(template.FuncMap{
	"severityClass": severityClass,
}).Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Security Report - {{.target}}</title>
<style>
body { font-family: -apple-system, "Segoe UI", Roboto, sans-serif; margin: 0; background: #f5f6f8; color: #212529; }
.container { max-width: 880px; margin: 2rem auto; padding: 0 1rem; }
.card { background: #fff; border-radius: 8px; box-shadow: 0 1px 3px rgba(0,0,0,.08); padding: 1.5rem; margin-bottom: 1.25rem; }
.score { font-size: 3rem; font-weight: 700; }
.badge { display: inline-block; padding: .25em .6em; border-radius: .25rem; color: #fff; font-size: .85rem; }
.badge-danger { background: #dc3545; } .badge-warning { background: #fd7e14; }
.badge-info { background: #17a2b8; } .badge-success { background: #28a745; }
table { width: 100%; border-collapse: collapse; }
td, th { padding: .5rem; border-bottom: 1px solid #dee2e6; text-align: left; }
ul { padding-left: 1.25rem; }
.sev-Critical { color: #dc3545; font-weight: 600; } .sev-High { color: #fd7e14; font-weight: 600; }
.sev-Medium { color: #b58900; } .sev-Low { color: #28a745; } .sev-Info { color: #6c757d; }
</style>
</head>
<body>
<div class="container">
  <div class="card">
    <h1>Security Scan Report</h1>
    <p>Target: <strong>{{.target}}</strong>{{with .formatted_date}} &middot; {{.}}{{end}}</p>
    {{with .risk_assessment}}
    <div class="score" style="color: {{.color}}">{{.overall_score}}<small>/100</small></div>
    <span class="badge badge-{{$.risk_color}}">{{.risk_level}} Risk</span>
    <p>{{$.total_issues}} issues found: {{.critical_issues}} critical, {{.high_issues}} high, {{.medium_issues}} medium, {{.low_issues}} low.</p>
    {{end}}
    {{with .industry}}{{with .benchmarks}}
    <p>Your score stands at the {{.percentile}}th percentile, {{.comparison}} the industry average of {{.avg_score}}.</p>
    {{end}}{{end}}
  </div>

  {{with .service_categories}}
  <div class="card">
    <h2>Service Categories</h2>
    <table>
      <tr><th>Category</th><th>Risk</th><th>Findings</th></tr>
      {{range $key, $cat := .}}
      <tr>
        <td>{{$cat.name}}</td>
        <td>{{$cat.risk_level}}</td>
        <td>
          {{if $cat.findings}}<ul>{{range $cat.findings}}
          <li class="{{severityClass .severity}}">{{.message}}</li>
          {{end}}</ul>{{else}}No issues detected{{end}}
        </td>
      </tr>
      {{end}}
    </table>
  </div>
  {{end}}

  {{with .network}}{{with .open_ports}}
  <div class="card">
    <h2>Open Ports</h2>
    <p class="{{severityClass .severity}}">{{.count}} open ports detected.</p>
    {{if .details}}
    <table>
      <tr><th>Port</th><th>Service</th><th>Severity</th></tr>
      {{range .details}}
      <tr><td>{{.port}}</td><td>{{.service}}</td><td class="{{severityClass .severity}}">{{.severity}}</td></tr>
      {{end}}
    </table>
    {{end}}
  </div>
  {{end}}{{end}}

  {{with .recommendations}}
  <div class="card">
    <h2>Recommendations</h2>
    <ul>{{range .}}<li>{{.}}</li>{{end}}</ul>
  </div>
  {{end}}

  {{with .threat_scenarios}}
  <div class="card">
    <h2>Threat Scenarios</h2>
    <ul>{{range .}}<li>{{.}}</li>{{end}}</ul>
  </div>
  {{end}}

  {{with .client_info}}
  <div class="card">
    <h2>Submitted By</h2>
    <p>{{.name}}{{with .company}} &middot; {{.}}{{end}}{{with .os}} &middot; {{.}}{{end}}{{with .browser}} / {{.}}{{end}}</p>
  </div>
  {{end}}
</div>
</body>
</html>
`))

func severityClass(v any) string {
	s, _ := v.(string)
	switch model.ParseSeverity(s) {
	case model.SeverityCritical:
		return "sev-Critical"
	case model.SeverityHigh:
		return "sev-High"
	case model.SeverityMedium:
		return "sev-Medium"
	case model.SeverityLow:
		return "sev-Low"
	}
	return "sev-Info"
}

// RenderHTML renders the full report from a normalized scan map.
func RenderHTML(normalized map[string]any) (string, error) {
	if normalized == nil {
		return "", fmt.Errorf("render report: nil scan")
	}
	var buf bytes.Buffer
	if err := reportTemplate.Execute(&buf, normalized); err != nil {
		return "", fmt.Errorf("render report: %w", err)
	}
	return buf.String(), nil
}

// RenderScan normalizes a ScanResult and renders it.
func RenderScan(result *model.ScanResult) (string, error) {
	return RenderHTML(Normalize(result))
}
