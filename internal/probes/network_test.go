package probes

import (
	"context"
	"strings"
	"testing"

	"github.com/scanforge/scanforge/internal/logging"
	"github.com/scanforge/scanforge/internal/model"
	"github.com/scanforge/scanforge/internal/testutil"
)

func TestPortScan(t *testing.T) {
	dialer := &testutil.FakeDialer{Open: map[string]bool{
		"example.com:80":  true,
		"example.com:443": true,
		"example.com:21":  true,
	}}
	p := NewNetworkProber(dialer, logging.Noop{})

	got := p.PortScan(context.Background(), "example.com")
	if got.Count != 3 {
		t.Fatalf("count = %d, want 3", got.Count)
	}
	if got.List[0] != 21 || got.List[1] != 80 || got.List[2] != 443 {
		t.Errorf("list = %v", got.List)
	}
	if got.Severity != model.SeverityMedium {
		t.Errorf("severity = %q, want Medium for 3 ports", got.Severity)
	}
	// High-risk FTP detail sorts ahead of the rest.
	if got.Details[0].Port != 21 || got.Details[0].Severity != model.SeverityHigh {
		t.Errorf("details[0] = %+v", got.Details[0])
	}
}

func TestOpenPortSeverityThresholds(t *testing.T) {
	cases := map[int]model.Severity{
		0: model.SeverityLow,
		2: model.SeverityLow,
		3: model.SeverityMedium,
		5: model.SeverityMedium,
		6: model.SeverityHigh,
	}
	for count, want := range cases {
		if got := OpenPortSeverity(count); got != want {
			t.Errorf("OpenPortSeverity(%d) = %q, want %q", count, got, want)
		}
	}
}

func TestGatewayScanPrivateClient(t *testing.T) {
	dialer := &testutil.FakeDialer{Open: map[string]bool{
		"192.168.1.1:3389": true,
	}}
	p := NewNetworkProber(dialer, logging.Noop{})

	out := p.GatewayScan(context.Background(), "192.168.1.57")
	if out.Failed() {
		t.Fatalf("unexpected failure: %s", out.Err)
	}

	var sawGuess, sawRDP bool
	for _, f := range out.Findings {
		if strings.Contains(f.Message, "192.168.1.1, 192.168.1.254") {
			sawGuess = true
		}
		if strings.Contains(f.Message, "Port 3389") {
			sawRDP = true
			if f.Severity != model.SeverityCritical {
				t.Errorf("RDP severity = %q, want Critical", f.Severity)
			}
		}
	}
	if !sawGuess || !sawRDP {
		t.Errorf("findings = %+v", out.Findings)
	}
}

func TestGatewayScanPublicClient(t *testing.T) {
	p := NewNetworkProber(&testutil.FakeDialer{}, logging.Noop{})
	out := p.GatewayScan(context.Background(), "8.8.8.8")
	if out.Failed() {
		t.Fatal(out.Err)
	}
	var sawSkip bool
	for _, f := range out.Findings {
		if strings.Contains(f.Message, "Could not identify gateway IPs") {
			sawSkip = true
		}
	}
	if !sawSkip {
		t.Errorf("public client should skip gateway scan, findings = %+v", out.Findings)
	}
	if len(p.Dialer.(*testutil.FakeDialer).Dialed()) != 0 {
		t.Error("public client must not trigger any dials")
	}
}

func TestGuessGateways(t *testing.T) {
	cases := []struct {
		ip      string
		want    []string
		netType string
	}{
		{"192.168.7.20", []string{"192.168.7.1", "192.168.7.254"}, "Private Network"},
		{"10.1.2.3", []string{"10.1.2.1", "10.1.2.254"}, "Private Network"},
		{"172.16.4.9", []string{"172.16.4.1", "172.16.4.254"}, "Private Network"},
		{"8.8.8.8", nil, "Public Network"},
		{"not-an-ip", nil, "Unknown"},
	}
	for _, c := range cases {
		got, netType := guessGateways(c.ip)
		if netType != c.netType {
			t.Errorf("guessGateways(%q) type = %q, want %q", c.ip, netType, c.netType)
		}
		if len(got) != len(c.want) {
			t.Errorf("guessGateways(%q) = %v, want %v", c.ip, got, c.want)
			continue
		}
		for i := range got {
			if got[i] != c.want[i] {
				t.Errorf("guessGateways(%q) = %v, want %v", c.ip, got, c.want)
			}
		}
	}
}
