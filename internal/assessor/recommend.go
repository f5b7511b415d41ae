package assessor

import (
	"fmt"
	"strings"

	"github.com/scanforge/scanforge/internal/model"
)

var genericRecommendations = []string{
	"Implement regular security scanning and monitoring for early detection of vulnerabilities.",
	"Keep all software and systems updated with the latest security patches.",
	"Use strong, unique passwords and consider implementing multi-factor authentication where possible.",
}

// Recommend derives advisory strings from the scan, ordered network
// issues first, then web, then email. De-duplicated and padded with
// generic advice when fewer than three specific items apply.
func Recommend(r *model.ScanResult) []string {
	var recs []string
	seen := map[string]bool{}
	add := func(rec string) {
		if !seen[rec] {
			seen[rec] = true
			recs = append(recs, rec)
		}
	}

	// Network.
	if n := r.Network; n != nil && n.OpenPorts != nil && n.OpenPorts.Severity.AtLeast(model.SeverityHigh) {
		add("Close unnecessary open ports to reduce attack surface. Use a properly configured firewall.")
	}

	// Web.
	if s := r.SSLCertificate; s != nil && maxFindingSeverity(s.Findings).AtLeast(model.SeverityHigh) {
		add("Update your SSL/TLS certificate and ensure proper configuration with modern protocols.")
	}
	if s := r.SecurityHeaders; s != nil && maxFindingSeverity(s.Findings).AtLeast(model.SeverityHigh) {
		add("Implement missing security headers to protect against common web vulnerabilities.")
	}
	if s := r.CMS; s != nil && s.Detected != "" && maxFindingSeverity(s.Findings).AtLeast(model.SeverityHigh) {
		add(fmt.Sprintf("Update your %s installation to the latest version to patch security vulnerabilities.", s.Detected))
	}
	if s := r.SensitiveContent; s != nil && maxFindingSeverity(s.Findings).AtLeast(model.SeverityHigh) {
		add("Restrict access to sensitive directories and files that could expose configuration details.")
	}

	// Email.
	if s := r.EmailSecurity; s != nil {
		for _, f := range s.Findings {
			if !f.Severity.AtLeast(model.SeverityHigh) {
				continue
			}
			msg := strings.ToLower(f.Message)
			switch {
			case strings.Contains(msg, "spf"):
				add("Implement a proper SPF record with a hard fail (-all) policy to prevent email spoofing.")
			case strings.Contains(msg, "dmarc"):
				add("Set up a DMARC record with a 'reject' or 'quarantine' policy to enhance email security.")
			case strings.Contains(msg, "dkim"):
				add("Implement DKIM signing for your domain to authenticate outgoing emails.")
			}
		}
	}

	if len(recs) < 3 {
		for _, g := range genericRecommendations {
			add(g)
		}
	}
	return recs
}

func maxFindingSeverity(findings []model.Finding) model.Severity {
	max := model.SeverityInfo
	for _, f := range findings {
		max = model.MaxSeverity(max, f.Severity)
	}
	return max
}
