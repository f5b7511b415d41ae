// Package testutil provides canned fakes for the pipeline's injectable
// dependencies.
package testutil

import (
	"context"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/scanforge/scanforge/internal/model"
)

// FakeResolver answers DNS lookups from fixed maps. Missing entries
// return a lookup error, like an NXDOMAIN would.
type FakeResolver struct {
	Hosts map[string][]string // host -> addrs
	Addrs map[string][]string // ip -> names
	TXT   map[string][]string
	MX    map[string][]*net.MX
	NS    map[string][]*net.NS
}

func (r *FakeResolver) LookupHost(_ context.Context, host string) ([]string, error) {
	if v, ok := r.Hosts[host]; ok {
		return v, nil
	}
	return nil, fmt.Errorf("lookup %s: no such host", host)
}

func (r *FakeResolver) LookupAddr(_ context.Context, addr string) ([]string, error) {
	if v, ok := r.Addrs[addr]; ok {
		return v, nil
	}
	return nil, fmt.Errorf("lookup %s: no such host", addr)
}

func (r *FakeResolver) LookupTXT(_ context.Context, name string) ([]string, error) {
	if v, ok := r.TXT[name]; ok {
		return v, nil
	}
	return nil, fmt.Errorf("lookup %s: no such host", name)
}

func (r *FakeResolver) LookupMX(_ context.Context, name string) ([]*net.MX, error) {
	if v, ok := r.MX[name]; ok {
		return v, nil
	}
	return nil, fmt.Errorf("lookup %s: no such host", name)
}

func (r *FakeResolver) LookupNS(_ context.Context, name string) ([]*net.NS, error) {
	if v, ok := r.NS[name]; ok {
		return v, nil
	}
	return nil, fmt.Errorf("lookup %s: no such host", name)
}

// FakeDialer succeeds only for addresses listed in Open
// ("host:port" form).
type FakeDialer struct {
	Open map[string]bool

	mu     sync.Mutex
	dialed []string
}

func (d *FakeDialer) DialContext(_ context.Context, _ string, address string) (net.Conn, error) {
	d.mu.Lock()
	d.dialed = append(d.dialed, address)
	d.mu.Unlock()
	if d.Open[address] {
		c, s := net.Pipe()
		go s.Close()
		return c, nil
	}
	return nil, fmt.Errorf("dial tcp %s: connection refused", address)
}

// Dialed returns every address dialed so far.
func (d *FakeDialer) Dialed() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]string(nil), d.dialed...)
}

// FakeWebClient serves canned responses per URL. URLs with no entry get
// an error, as an unreachable origin would.
type FakeWebClient struct {
	Responses map[string]*model.Response
	Err       error
}

func (c *FakeWebClient) Do(_ context.Context, req *model.Request) (*model.Response, error) {
	if c.Err != nil {
		return nil, c.Err
	}
	if resp, ok := c.Responses[req.URL]; ok {
		out := *resp
		out.Request = req
		out.FetchedAt = time.Now()
		return &out, nil
	}
	return nil, fmt.Errorf("fetch %s: connection refused", req.URL)
}

func (c *FakeWebClient) Close() error { return nil }

// MemStore is an in-memory Store for orchestrator and server tests.
type MemStore struct {
	mu      sync.Mutex
	nextID  int64
	Saved   []*model.ScanResult
	ByScan  map[string]map[string]any
	SaveErr error
}

func NewMemStore() *MemStore {
	return &MemStore{ByScan: map[string]map[string]any{}}
}

func (s *MemStore) SaveScanResult(_ context.Context, result *model.ScanResult) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.SaveErr != nil {
		return 0, s.SaveErr
	}
	s.nextID++
	s.Saved = append(s.Saved, result)
	return s.nextID, nil
}

func (s *MemStore) GetScanResult(_ context.Context, scanID string) (map[string]any, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if rec, ok := s.ByScan[scanID]; ok {
		return rec, nil
	}
	for _, r := range s.Saved {
		if r.ScanID == scanID {
			return map[string]any{"scan_id": r.ScanID, "target": r.Target}, nil
		}
	}
	return nil, nil
}

func (s *MemStore) ListScans(_ context.Context, limit int) ([]model.ScanSummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.ScanSummary
	for i := len(s.Saved) - 1; i >= 0 && (limit <= 0 || len(out) < limit); i-- {
		r := s.Saved[i]
		sum := model.ScanSummary{ScanID: r.ScanID, Target: r.Target, CreatedAt: r.Timestamp}
		if r.RiskAssessment != nil {
			sum.OverallScore = r.RiskAssessment.OverallScore
			sum.RiskLevel = r.RiskAssessment.RiskLevel
		}
		out = append(out, sum)
	}
	return out, nil
}

func (s *MemStore) ListScansByTarget(ctx context.Context, target string, limit int) ([]model.ScanSummary, error) {
	all, _ := s.ListScans(ctx, 0)
	var out []model.ScanSummary
	for _, sum := range all {
		if sum.Target == target && (limit <= 0 || len(out) < limit) {
			out = append(out, sum)
		}
	}
	return out, nil
}

func (s *MemStore) Stats(_ context.Context) (*model.DashboardStats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	stats := &model.DashboardStats{
		TotalScans:    len(s.Saved),
		RiskBreakdown: map[string]int{},
	}
	var sum float64
	for _, r := range s.Saved {
		if r.RiskAssessment != nil {
			sum += float64(r.RiskAssessment.OverallScore)
			stats.RiskBreakdown[r.RiskAssessment.RiskLevel]++
		}
	}
	if len(s.Saved) > 0 {
		stats.AverageScore = sum / float64(len(s.Saved))
	}
	return stats, nil
}

func (s *MemStore) Close() error { return nil }

// NullNotifier records notifications without sending anything.
type NullNotifier struct {
	mu   sync.Mutex
	Sent []string
}

func (n *NullNotifier) SendReport(_ context.Context, lead model.LeadData, _ *model.ScanResult, _ string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.Sent = append(n.Sent, lead.Email)
	return nil
}
