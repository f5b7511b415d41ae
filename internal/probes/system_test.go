package probes

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/scanforge/scanforge/internal/logging"
	"github.com/scanforge/scanforge/internal/model"
	"github.com/scanforge/scanforge/internal/testutil"
)

func TestSystemCheckResolvableHost(t *testing.T) {
	p := NewSystemProber(&testutil.FakeResolver{
		Hosts: map[string][]string{"example.com": {"93.184.216.34"}},
		Addrs: map[string][]string{"93.184.216.34": {"edge.example.net."}},
	}, logging.Noop{})
	p.Now = func() time.Time {
		return time.Date(2026, 8, 27, 0, 0, 0, 0, time.UTC)
	}

	out := p.Check(context.Background(), "example.com")
	if out.Failed() {
		t.Fatalf("unexpected failure: %s", out.Err)
	}
	if len(out.Findings) != 3 {
		t.Fatalf("findings = %d, want 3", len(out.Findings))
	}
	lookup := out.Findings[0]
	if lookup.Severity != model.SeverityLow || !strings.Contains(lookup.Message, "93.184.216.34") {
		t.Errorf("lookup finding: %+v", lookup)
	}
	// Hour 0, minute 0 pick the first sample of each table.
	if out.Findings[1].Message != osUpdateSamples[0].Message {
		t.Errorf("os sample: %+v", out.Findings[1])
	}
	if out.Findings[2].Message != firewallSamples[0].Message {
		t.Errorf("firewall sample: %+v", out.Findings[2])
	}
}

func TestSystemCheckUnresolvableHost(t *testing.T) {
	p := NewSystemProber(&testutil.FakeResolver{}, logging.Noop{})
	out := p.Check(context.Background(), "nope.invalid")
	if out.Failed() {
		t.Fatalf("lookup failure must stay a finding, not a probe failure: %s", out.Err)
	}
	if out.Findings[0].Severity != model.SeverityHigh {
		t.Errorf("failed lookup severity = %q, want High", out.Findings[0].Severity)
	}
}
