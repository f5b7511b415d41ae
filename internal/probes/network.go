package probes

import (
	"context"
	"fmt"
	"net"
	"net/netip"
	"sort"
	"strings"
	"time"

	"github.com/scanforge/scanforge/internal/logging"
	"github.com/scanforge/scanforge/internal/model"
)

// Dialer is satisfied by *net.Dialer; tests inject fakes.
type Dialer interface {
	DialContext(ctx context.Context, network, address string) (net.Conn, error)
}

// DefaultScanPorts is the fixed port list the primary scan probes.
var DefaultScanPorts = []int{
	21, 22, 23, 25, 80, 110, 143, 443, 445, 993, 995,
	1433, 3306, 3389, 5900, 8080, 8443,
}

var highRiskPorts = map[int]string{
	3389: "Remote Desktop Protocol (RDP) - High security risk if exposed",
	21:   "FTP - Transmits credentials in plain text",
	23:   "Telnet - Insecure, transmits data in plain text",
	5900: "VNC - Remote desktop access, often lacks encryption",
	1433: "Microsoft SQL Server - Database access",
	3306: "MySQL Database - Potential attack vector if unprotected",
	445:  "SMB - Windows file sharing, historically vulnerable",
	139:  "NetBIOS - Windows networking, potential attack vector",
}

var mediumRiskPorts = map[int]string{
	80:   "HTTP - Web server without encryption",
	25:   "SMTP - Email transmission",
	110:  "POP3 - Email retrieval (older protocol)",
	143:  "IMAP - Email retrieval (often unencrypted)",
	8080: "Alternative HTTP port, often used for proxies or development",
}

// gatewayPortWarnings drives the gateway sub-scan: port -> service label
// and the severity an open finding carries.
var gatewayPortWarnings = map[int]struct {
	Service  string
	Severity model.Severity
}{
	21:   {"FTP (insecure)", model.SeverityHigh},
	23:   {"Telnet (insecure)", model.SeverityHigh},
	80:   {"HTTP (no encryption)", model.SeverityMedium},
	443:  {"HTTPS", model.SeverityLow},
	3389: {"Remote Desktop (RDP)", model.SeverityCritical},
	5900: {"VNC", model.SeverityHigh},
	22:   {"SSH", model.SeverityLow},
}

// NetworkProber runs the primary port scan and the gateway sub-scan.
type NetworkProber struct {
	Dialer      Dialer
	Ports       []int
	DialTimeout time.Duration
	Logger      logging.Logger
}

func NewNetworkProber(dialer Dialer, logger logging.Logger) *NetworkProber {
	if dialer == nil {
		dialer = &net.Dialer{}
	}
	return &NetworkProber{
		Dialer:      dialer,
		Ports:       DefaultScanPorts,
		DialTimeout: 1 * time.Second,
		Logger:      logger.With(logging.Field{Key: "component", Value: "probe.network"}),
	}
}

// PortScan dials each configured port and assembles the open-port
// summary. Unreachable ports are simply closed, not errors.
func (p *NetworkProber) PortScan(ctx context.Context, host string) *model.OpenPorts {
	var open []int
	for _, port := range p.Ports {
		if p.portOpen(ctx, host, port) {
			open = append(open, port)
		}
	}
	sort.Ints(open)

	details := make([]model.PortDetail, 0, len(open))
	for _, port := range open {
		details = append(details, portDetail(port))
	}
	// High-risk ports first in the report.
	sort.SliceStable(details, func(i, j int) bool {
		return details[i].Severity.Weight() > details[j].Severity.Weight()
	})

	p.Logger.Info("port scan complete",
		logging.Field{Key: "host", Value: host},
		logging.Field{Key: "open", Value: len(open)})

	return &model.OpenPorts{
		Count:    len(open),
		List:     open,
		Details:  details,
		Severity: OpenPortSeverity(len(open)),
	}
}

// OpenPortSeverity maps an open-port count onto an aggregate severity.
func OpenPortSeverity(count int) model.Severity {
	switch {
	case count > 5:
		return model.SeverityHigh
	case count > 2:
		return model.SeverityMedium
	default:
		return model.SeverityLow
	}
}

func portDetail(port int) model.PortDetail {
	if desc, ok := highRiskPorts[port]; ok {
		return model.PortDetail{Port: port, Service: desc, Severity: model.SeverityHigh}
	}
	if desc, ok := mediumRiskPorts[port]; ok {
		return model.PortDetail{Port: port, Service: desc, Severity: model.SeverityMedium}
	}
	return model.PortDetail{
		Port:     port,
		Service:  fmt.Sprintf("Unknown service on port %d", port),
		Severity: model.SeverityLow,
	}
}

func (p *NetworkProber) portOpen(ctx context.Context, host string, port int) bool {
	dctx, cancel := context.WithTimeout(ctx, p.DialTimeout)
	defer cancel()
	conn, err := p.Dialer.DialContext(dctx, "tcp", net.JoinHostPort(host, fmt.Sprint(port)))
	if err != nil {
		return false
	}
	conn.Close()
	return true
}

// GatewayScan guesses likely gateway addresses from the submitting
// client's IP and checks them for risky open ports. Runs after the
// primary port scan.
func (p *NetworkProber) GatewayScan(ctx context.Context, clientIP string) Outcome {
	return Capture(func() ([]model.Finding, error) {
		findings := []model.Finding{
			{Message: fmt.Sprintf("Client detected at IP: %s", orUnknown(clientIP)), Severity: model.SeverityInfo},
		}

		gateways, networkType := guessGateways(clientIP)
		findings = append(findings, model.Finding{
			Message:  fmt.Sprintf("Network type detected: %s", networkType),
			Severity: model.SeverityInfo,
		})

		if len(gateways) == 0 {
			findings = append(findings, model.Finding{
				Message:  "Could not identify gateway IPs to scan",
				Severity: model.SeverityMedium,
			})
			return findings, nil
		}

		findings = append(findings, model.Finding{
			Message:  fmt.Sprintf("Potential gateway IPs: %s", strings.Join(gateways, ", ")),
			Severity: model.SeverityInfo,
		})

		ports := make([]int, 0, len(gatewayPortWarnings))
		for port := range gatewayPortWarnings {
			ports = append(ports, port)
		}
		sort.Ints(ports)

		for _, gw := range gateways {
			for _, port := range ports {
				if !p.portOpen(ctx, gw, port) {
					continue
				}
				warn := gatewayPortWarnings[port]
				findings = append(findings, model.Finding{
					Message:  fmt.Sprintf("Port %d (%s) is open on %s", port, warn.Service, gw),
					Severity: warn.Severity,
				})
			}
		}
		return findings, nil
	})
}

// guessGateways derives candidate gateway addresses for private client
// IPs. Public and unparsable addresses produce no candidates.
func guessGateways(clientIP string) (gateways []string, networkType string) {
	addr, err := netip.ParseAddr(clientIP)
	if err != nil {
		return nil, "Unknown"
	}
	if !addr.IsPrivate() {
		return nil, "Public Network"
	}
	if !addr.Is4() {
		return nil, "Private Network"
	}

	octets := addr.As4()
	prefix := fmt.Sprintf("%d.%d.%d", octets[0], octets[1], octets[2])
	return []string{prefix + ".1", prefix + ".254"}, "Private Network"
}

func orUnknown(s string) string {
	if strings.TrimSpace(s) == "" {
		return "Unknown"
	}
	return s
}
