package assessor

import (
	"fmt"
	"strings"

	"github.com/scanforge/scanforge/internal/model"
)

// maxThreatScenarios caps how many narratives a report carries.
const maxThreatScenarios = 5

// ThreatScenarios synthesizes short narratives from the highest-risk
// findings. Always returns at least one scenario.
func ThreatScenarios(r *model.ScanResult) []string {
	var threats []string

	if s := r.EmailSecurity; s != nil {
		for _, f := range s.Findings {
			if strings.Contains(strings.ToLower(f.Message), "spf") && f.Severity.AtLeast(model.SeverityHigh) {
				threats = append(threats, "Email Spoofing Attack: without proper SPF records, attackers could send emails that appear to come from your domain, leading to successful phishing attacks against your customers or partners.")
				break
			}
		}
	}

	if s := r.SSLCertificate; s != nil && maxFindingSeverity(s.Findings) == model.SeverityCritical {
		threats = append(threats, "Man-in-the-Middle Attack: with an expired or improperly configured SSL certificate, attackers could intercept communications between your users and your website, potentially stealing sensitive information.")
	}

	if n := r.Network; n != nil && n.OpenPorts != nil && n.OpenPorts.Severity.AtLeast(model.SeverityHigh) {
		ports := map[int]bool{}
		for _, p := range n.OpenPorts.List {
			ports[p] = true
		}
		if ports[3389] {
			threats = append(threats, "Remote Desktop Brute Force Attack: with Remote Desktop Protocol exposed, attackers could attempt brute force password attacks to gain unauthorized access to your systems.")
		}
		if ports[21] || ports[23] {
			threats = append(threats, "Credential Theft via Unencrypted Protocols: use of unencrypted protocols like FTP or Telnet could allow attackers to capture login credentials through network sniffing.")
		}
	}

	if s := r.CMS; s != nil && s.Detected != "" && maxFindingSeverity(s.Findings).AtLeast(model.SeverityHigh) {
		threats = append(threats, fmt.Sprintf("%s Vulnerability Exploitation: outdated %s installations often contain known vulnerabilities that attackers can exploit to gain unauthorized access or inject malicious code.", s.Detected, s.Detected))
	}

	if s := r.SensitiveContent; s != nil && maxFindingSeverity(s.Findings).AtLeast(model.SeverityHigh) {
		threats = append(threats, "Sensitive Data Exposure: exposed configuration files, backup data, or development artifacts could provide attackers with valuable information to plan more targeted attacks.")
	}

	if len(threats) == 0 {
		threats = append(threats, "General Cyber Attack: even with no critical vulnerabilities detected, organizations remain targets for common attacks like phishing, social engineering, or exploitation of newly discovered vulnerabilities.")
	}
	if len(threats) > maxThreatScenarios {
		threats = threats[:maxThreatScenarios]
	}
	return threats
}
