package probes

import (
	"context"
	"fmt"
	"net"
	"regexp"
	"strings"

	"github.com/scanforge/scanforge/internal/logging"
	"github.com/scanforge/scanforge/internal/model"
)

// dkimSelectors are the well-known selector names probed for a DKIM key.
var dkimSelectors = []string{"default", "dkim", "mail", "email", "selector1", "selector2", "k1"}

var dmarcPolicyRe = regexp.MustCompile(`p=([^;\s]+)`)

// EmailProber checks a domain's mail authentication posture: SPF, DMARC,
// DKIM and the supporting DNS records.
type EmailProber struct {
	Resolver Resolver
	Logger   logging.Logger
}

func NewEmailProber(resolver Resolver, logger logging.Logger) *EmailProber {
	if resolver == nil {
		resolver = net.DefaultResolver
	}
	return &EmailProber{
		Resolver: resolver,
		Logger:   logger.With(logging.Field{Key: "component", Value: "probe.email"}),
	}
}

// Check runs the full email-security category for domain.
func (p *EmailProber) Check(ctx context.Context, domain string) Outcome {
	return Capture(func() ([]model.Finding, error) {
		findings := []model.Finding{
			p.checkSPF(ctx, domain),
			p.checkDMARC(ctx, domain),
			p.checkDKIM(ctx, domain),
		}
		findings = append(findings, p.checkDNS(ctx, domain)...)
		return findings, nil
	})
}

func (p *EmailProber) checkSPF(ctx context.Context, domain string) model.Finding {
	records, err := p.Resolver.LookupTXT(ctx, domain)
	if err != nil {
		return model.Finding{
			Message:  fmt.Sprintf("Error checking SPF: %v", err),
			Severity: model.SeverityHigh,
		}
	}

	var spf string
	for _, r := range records {
		if strings.HasPrefix(r, "v=spf1") {
			spf = r
			break
		}
	}
	if spf == "" {
		return model.Finding{Message: "No SPF record found", Severity: model.SeverityHigh}
	}

	switch {
	case strings.Contains(spf, "~all"):
		return model.Finding{
			Message:  fmt.Sprintf("SPF record found: %s (Soft fail)", spf),
			Severity: model.SeverityMedium,
		}
	case strings.Contains(spf, "-all"):
		return model.Finding{
			Message:  fmt.Sprintf("SPF record found: %s (Hard fail, secure)", spf),
			Severity: model.SeverityLow,
		}
	case strings.Contains(spf, "?all"):
		return model.Finding{
			Message:  fmt.Sprintf("SPF record found: %s (Neutral, not secure)", spf),
			Severity: model.SeverityHigh,
		}
	case strings.Contains(spf, "+all"):
		return model.Finding{
			Message:  fmt.Sprintf("SPF record found: %s (Allow all, very insecure)", spf),
			Severity: model.SeverityCritical,
		}
	}
	return model.Finding{
		Message:  fmt.Sprintf("SPF record found: %s (No explicit policy)", spf),
		Severity: model.SeverityMedium,
	}
}

func (p *EmailProber) checkDMARC(ctx context.Context, domain string) model.Finding {
	records, err := p.Resolver.LookupTXT(ctx, "_dmarc."+domain)
	if err != nil {
		// NXDOMAIN and lookup errors both mean no usable record.
		return model.Finding{Message: "No DMARC record found", Severity: model.SeverityHigh}
	}

	var dmarc string
	for _, r := range records {
		if strings.HasPrefix(r, "v=DMARC1") {
			dmarc = r
			break
		}
	}
	if dmarc == "" {
		return model.Finding{Message: "No DMARC record found", Severity: model.SeverityHigh}
	}

	policy := "none"
	if m := dmarcPolicyRe.FindStringSubmatch(dmarc); m != nil {
		policy = m[1]
	}
	switch policy {
	case "reject":
		return model.Finding{
			Message:  fmt.Sprintf("DMARC record found: %s (Policy: reject, secure)", dmarc),
			Severity: model.SeverityLow,
		}
	case "quarantine":
		return model.Finding{
			Message:  fmt.Sprintf("DMARC record found: %s (Policy: quarantine, medium security)", dmarc),
			Severity: model.SeverityMedium,
		}
	}
	return model.Finding{
		Message:  fmt.Sprintf("DMARC record found: %s (Policy: none, low security)", dmarc),
		Severity: model.SeverityHigh,
	}
}

func (p *EmailProber) checkDKIM(ctx context.Context, domain string) model.Finding {
	for _, selector := range dkimSelectors {
		name := selector + "._domainkey." + domain
		if records, err := p.Resolver.LookupTXT(ctx, name); err == nil && len(records) > 0 {
			return model.Finding{
				Message:  fmt.Sprintf("DKIM record found for selector '%s'", selector),
				Severity: model.SeverityLow,
			}
		}
	}
	return model.Finding{
		Message:  "No DKIM records found for common selectors",
		Severity: model.SeverityHigh,
	}
}

func (p *EmailProber) checkDNS(ctx context.Context, domain string) []model.Finding {
	var findings []model.Finding

	if addrs, err := p.Resolver.LookupHost(ctx, domain); err != nil || len(addrs) == 0 {
		findings = append(findings, model.Finding{
			Message:  "No A records found",
			Severity: model.SeverityHigh,
		})
	}
	if mx, err := p.Resolver.LookupMX(ctx, domain); err != nil || len(mx) == 0 {
		findings = append(findings, model.Finding{
			Message:  "No MX records found",
			Severity: model.SeverityMedium,
		})
	}
	if ns, err := p.Resolver.LookupNS(ctx, domain); err != nil || len(ns) == 0 {
		findings = append(findings, model.Finding{
			Message:  "No NS records found",
			Severity: model.SeverityHigh,
		})
	}
	if len(findings) == 0 {
		findings = append(findings, model.Finding{
			Message:  "DNS configuration looks healthy (A, MX and NS records present)",
			Severity: model.SeverityLow,
		})
	}
	return findings
}
