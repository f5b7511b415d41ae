package probes

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/scanforge/scanforge/internal/interfaces"
	"github.com/scanforge/scanforge/internal/logging"
	"github.com/scanforge/scanforge/internal/model"
)

// securityHeaderWeights scores the response headers a hardened site
// should send. Headers weighing >= 10 count as critical when missing.
var securityHeaderWeights = map[string]int{
	"Strict-Transport-Security":    20,
	"Content-Security-Policy":      20,
	"X-Frame-Options":              10,
	"X-Content-Type-Options":       10,
	"Referrer-Policy":              10,
	"Permissions-Policy":           10,
	"Cross-Origin-Resource-Policy": 8,
	"Cross-Origin-Opener-Policy":   8,
	"Cross-Origin-Embedder-Policy": 8,
	"X-XSS-Protection":             6,
}

// headerCheckOrder keeps findings in a stable report order.
var headerCheckOrder = []string{
	"Strict-Transport-Security",
	"Content-Security-Policy",
	"X-Frame-Options",
	"X-Content-Type-Options",
	"Referrer-Policy",
	"Permissions-Policy",
	"Cross-Origin-Resource-Policy",
	"Cross-Origin-Opener-Policy",
	"Cross-Origin-Embedder-Policy",
	"X-XSS-Protection",
}

// WebProber runs the TLS, header and cookie checks against a target's
// web origin.
type WebProber struct {
	Dialer       Dialer
	Client       interfaces.WebClient
	ProbeTimeout time.Duration
	Logger       logging.Logger

	// tlsDial is swappable in tests.
	tlsDial func(ctx context.Context, host string, timeout time.Duration) (*tls.ConnectionState, error)
}

func NewWebProber(dialer Dialer, client interfaces.WebClient, logger logging.Logger) *WebProber {
	if dialer == nil {
		dialer = &net.Dialer{}
	}
	p := &WebProber{
		Dialer:       dialer,
		Client:       client,
		ProbeTimeout: 3 * time.Second,
		Logger:       logger.With(logging.Field{Key: "component", Value: "probe.web"}),
	}
	p.tlsDial = p.defaultTLSDial
	return p
}

// Reachable reports whether host answers on port 80 or 443 within the
// probe timeout. The orchestrator skips every web check when both are
// closed.
func (p *WebProber) Reachable(ctx context.Context, host string) (http80, https443 bool) {
	http80 = p.dialOK(ctx, host, 80)
	https443 = p.dialOK(ctx, host, 443)
	p.Logger.Debug("web reachability",
		logging.Field{Key: "host", Value: host},
		logging.Field{Key: "http", Value: http80},
		logging.Field{Key: "https", Value: https443})
	return http80, https443
}

func (p *WebProber) dialOK(ctx context.Context, host string, port int) bool {
	dctx, cancel := context.WithTimeout(ctx, p.ProbeTimeout)
	defer cancel()
	conn, err := p.Dialer.DialContext(dctx, "tcp", net.JoinHostPort(host, fmt.Sprint(port)))
	if err != nil {
		return false
	}
	conn.Close()
	return true
}

// CheckSSL inspects the certificate served on host:443.
func (p *WebProber) CheckSSL(ctx context.Context, host string) *model.SSLSection {
	state, err := p.tlsDial(ctx, host, 10*time.Second)
	if err != nil {
		return &model.SSLSection{
			Error: err.Error(),
			Findings: []model.Finding{{
				Message:  fmt.Sprintf("Error checking certificate for %s: %v", host, err),
				Severity: model.SeverityHigh,
			}},
		}
	}

	section := &model.SSLSection{}
	if len(state.PeerCertificates) > 0 {
		cert := state.PeerCertificates[0]
		daysLeft := int(time.Until(cert.NotAfter).Hours() / 24)
		section.Issuer = cert.Issuer.CommonName
		section.Subject = cert.Subject.CommonName
		section.NotAfter = cert.NotAfter.Format("2006-01-02")
		section.DaysLeft = daysLeft

		switch {
		case daysLeft < 0:
			section.Findings = append(section.Findings, model.Finding{
				Message:  fmt.Sprintf("SSL certificate expired %d days ago", -daysLeft),
				Severity: model.SeverityCritical,
			})
		case daysLeft <= 30:
			section.Findings = append(section.Findings, model.Finding{
				Message:  fmt.Sprintf("SSL certificate expiring soon (%d days)", daysLeft),
				Severity: model.SeverityHigh,
			})
		default:
			section.Findings = append(section.Findings, model.Finding{
				Message:  fmt.Sprintf("SSL certificate valid until %s", section.NotAfter),
				Severity: model.SeverityLow,
			})
		}
	}

	version := tlsVersionName(state.Version)
	section.Protocols = []string{version}
	if state.Version < tls.VersionTLS12 {
		section.Findings = append(section.Findings, model.Finding{
			Message:  fmt.Sprintf("Using weak protocol (%s)", version),
			Severity: model.SeverityMedium,
		})
	}
	return section
}

func (p *WebProber) defaultTLSDial(ctx context.Context, host string, timeout time.Duration) (*tls.ConnectionState, error) {
	dctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	rawConn, err := p.Dialer.DialContext(dctx, "tcp", net.JoinHostPort(host, "443"))
	if err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}

	// Expired or mismatched certs are exactly what this probe reports
	// on, so verification is done by inspection, not the handshake.
	conn := tls.Client(rawConn, &tls.Config{
		ServerName:         host,
		InsecureSkipVerify: true,
		MinVersion:         tls.VersionTLS10,
	})
	defer conn.Close()

	if err := conn.HandshakeContext(dctx); err != nil {
		return nil, fmt.Errorf("tls handshake: %w", err)
	}
	state := conn.ConnectionState()
	return &state, nil
}

func tlsVersionName(v uint16) string {
	switch v {
	case tls.VersionTLS13:
		return "TLSv1.3"
	case tls.VersionTLS12:
		return "TLSv1.2"
	case tls.VersionTLS11:
		return "TLSv1.1"
	case tls.VersionTLS10:
		return "TLSv1.0"
	}
	return fmt.Sprintf("unknown (0x%04x)", v)
}

// CheckHeaders fetches the origin and grades its security headers.
func (p *WebProber) CheckHeaders(ctx context.Context, targetURL string) *model.HeadersSection {
	resp, err := p.Client.Do(ctx, &model.Request{URL: targetURL, FollowRedirects: true})
	if err != nil {
		return &model.HeadersSection{Error: err.Error()}
	}

	section := &model.HeadersSection{Present: map[string]string{}}
	for _, header := range headerCheckOrder {
		if v := resp.Headers.Get(header); v != "" {
			section.Present[header] = v
			continue
		}
		if securityHeaderWeights[header] >= 10 {
			section.Missing = append(section.Missing, header)
		}
	}

	score := headerScore(section.Present)
	severity := model.SeverityHigh
	switch {
	case score >= 80:
		severity = model.SeverityLow
	case score >= 50:
		severity = model.SeverityMedium
	}

	if len(section.Missing) > 0 {
		section.Findings = append(section.Findings, model.Finding{
			Message:  fmt.Sprintf("Missing critical security headers: %s", strings.Join(section.Missing, ", ")),
			Severity: severity,
		})
	} else {
		section.Findings = append(section.Findings, model.Finding{
			Message:  fmt.Sprintf("Security headers score: %d/100", score),
			Severity: severity,
		})
	}
	return section
}

func headerScore(present map[string]string) int {
	total, got := 0, 0
	for header, weight := range securityHeaderWeights {
		total += weight
		if _, ok := present[header]; ok {
			got += weight
		}
	}
	if total == 0 {
		return 0
	}
	return got * 100 / total
}

// CheckCookies grades the cookies set by the origin on their Secure,
// HttpOnly and SameSite attributes.
func (p *WebProber) CheckCookies(ctx context.Context, targetURL string) *model.CookiesSection {
	resp, err := p.Client.Do(ctx, &model.Request{URL: targetURL, FollowRedirects: true})
	if err != nil {
		return &model.CookiesSection{Error: err.Error()}
	}

	total := len(resp.Cookies)
	if total == 0 {
		return &model.CookiesSection{
			Count: 0,
			Findings: []model.Finding{{
				Message:  "No cookies set by the site",
				Severity: model.SeverityLow,
			}},
		}
	}

	secure, httpOnly, sameSite := 0, 0, 0
	for _, c := range resp.Cookies {
		if c.Secure {
			secure++
		}
		if c.HttpOnly {
			httpOnly++
		}
		if c.SameSite != http.SameSiteDefaultMode && c.SameSite != 0 {
			sameSite++
		}
	}

	score := (secure*40 + httpOnly*30 + sameSite*30) / total
	severity := model.SeverityHigh
	switch {
	case score >= 80:
		severity = model.SeverityLow
	case score >= 50:
		severity = model.SeverityMedium
	}

	return &model.CookiesSection{
		Count: total,
		Findings: []model.Finding{{
			Message: fmt.Sprintf("%d cookies analyzed: %d Secure, %d HttpOnly, %d SameSite (score %d/100)",
				total, secure, httpOnly, sameSite, score),
			Severity: severity,
		}},
	}
}
