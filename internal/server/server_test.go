package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/scanforge/scanforge/internal/app"
	"github.com/scanforge/scanforge/internal/logging"
	"github.com/scanforge/scanforge/internal/model"
	"github.com/scanforge/scanforge/internal/testutil"
)

// fakeRunner returns a canned result and replays canned progress events.
type fakeRunner struct {
	lastLead model.LeadData
	result   *model.ScanResult
	events   []app.ProgressEvent
}

func (f *fakeRunner) RunScan(_ context.Context, lead model.LeadData, progress app.ProgressFunc) *model.ScanResult {
	f.lastLead = lead
	if progress != nil {
		for _, ev := range f.events {
			progress(ev)
		}
	}
	if f.result != nil {
		return f.result
	}
	return &model.ScanResult{ScanID: "scan-test", Target: lead.ResolveTarget()}
}

func newTestServer(t *testing.T, runner *fakeRunner, store *testutil.MemStore) *Server {
	t.Helper()
	if runner == nil {
		runner = &fakeRunner{}
	}
	if store == nil {
		store = testutil.NewMemStore()
	}
	s, err := NewServer(Config{Runner: runner, Store: store, Logger: logging.Noop{}})
	if err != nil {
		t.Fatalf("NewServer: %v", err)
	}
	return s
}

func TestSubmitScan(t *testing.T) {
	runner := &fakeRunner{}
	s := newTestServer(t, runner, nil)
	ts := httptest.NewServer(s)
	defer ts.Close()

	body := `{"name":"Jo","email":"jo@example.com","company":"Acme"}`
	req, _ := http.NewRequest(http.MethodPost, ts.URL+"/scans", strings.NewReader(body))
	req.Header.Set("X-Forwarded-For", "203.0.113.9, 10.0.0.1")
	req.Header.Set("User-Agent", "test-agent/1.0")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	var result model.ScanResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		t.Fatal(err)
	}
	if result.ScanID != "scan-test" || result.Target != "example.com" {
		t.Errorf("result = %+v", result)
	}
	if runner.lastLead.ClientIP != "203.0.113.9" {
		t.Errorf("client ip = %q", runner.lastLead.ClientIP)
	}
	if runner.lastLead.UserAgent != "test-agent/1.0" {
		t.Errorf("user agent = %q", runner.lastLead.UserAgent)
	}
}

func TestSubmitScanValidation(t *testing.T) {
	s := newTestServer(t, nil, nil)
	ts := httptest.NewServer(s)
	defer ts.Close()

	for name, body := range map[string]string{
		"no target or email": `{"name":"Jo"}`,
		"invalid json":       `{`,
	} {
		resp, err := http.Post(ts.URL+"/scans", "application/json", strings.NewReader(body))
		if err != nil {
			t.Fatal(err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("%s: status = %d", name, resp.StatusCode)
		}
	}
}

func TestListScans(t *testing.T) {
	store := testutil.NewMemStore()
	_, _ = store.SaveScanResult(context.Background(), &model.ScanResult{ScanID: "s1", Target: "a.com"})
	_, _ = store.SaveScanResult(context.Background(), &model.ScanResult{ScanID: "s2", Target: "b.com"})
	s := newTestServer(t, nil, store)
	ts := httptest.NewServer(s)
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/scans")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	var sums []model.ScanSummary
	if err := json.NewDecoder(resp.Body).Decode(&sums); err != nil {
		t.Fatal(err)
	}
	if len(sums) != 2 || sums[0].ScanID != "s2" {
		t.Errorf("sums = %+v", sums)
	}
}

func TestGetScanNotFound(t *testing.T) {
	s := newTestServer(t, nil, nil)
	ts := httptest.NewServer(s)
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/scans/nope")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d", resp.StatusCode)
	}
}

func TestGetScanNormalizesStoredRecord(t *testing.T) {
	store := testutil.NewMemStore()
	store.ByScan["s1"] = map[string]any{
		"scan_id":      "s1",
		"target":       "a.com",
		"risk_score":   42,
		"scan_results": `{"network": {"open_ports": {"count": 1, "list": [21]}}}`,
	}
	s := newTestServer(t, nil, store)
	ts := httptest.NewServer(s)
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/scans/s1")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	var m map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&m); err != nil {
		t.Fatal(err)
	}
	network, ok := m["network"].(map[string]any)
	if !ok {
		t.Fatalf("network not rehydrated: %v", m)
	}
	if _, ok := network["open_ports"]; !ok {
		t.Errorf("open_ports missing: %v", network)
	}
}

func TestGetReportServesStoredHTML(t *testing.T) {
	store := testutil.NewMemStore()
	store.ByScan["s1"] = map[string]any{
		"scan_id":              "s1",
		"target":               "a.com",
		"complete_html_report": "<html><body>stored report</body></html>",
	}
	s := newTestServer(t, nil, store)
	ts := httptest.NewServer(s)
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/scans/s1/report")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Errorf("content type = %q", ct)
	}
	buf := make([]byte, 4096)
	n, _ := resp.Body.Read(buf)
	if !strings.Contains(string(buf[:n]), "stored report") {
		t.Error("stored report not served")
	}
}

func TestDiffScans(t *testing.T) {
	mkRecord := func(id string, score int) map[string]any {
		result := model.ScanResult{
			ScanID:         id,
			Target:         "a.com",
			RiskAssessment: &model.RiskAssessment{OverallScore: score},
		}
		raw, _ := json.Marshal(result)
		return map[string]any{"scan_id": id, "target": "a.com", "scan_results": string(raw)}
	}
	store := testutil.NewMemStore()
	store.ByScan["old"] = mkRecord("old", 60)
	store.ByScan["new"] = mkRecord("new", 75)
	s := newTestServer(t, nil, store)
	ts := httptest.NewServer(s)
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/scans/old/diff/new")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	var out scanDiffResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatal(err)
	}
	if out.Diff == nil || out.Diff.ScoreDelta != 15 {
		t.Errorf("diff = %+v", out.Diff)
	}
}

func TestStats(t *testing.T) {
	store := testutil.NewMemStore()
	_, _ = store.SaveScanResult(context.Background(), &model.ScanResult{
		ScanID:         "s1",
		RiskAssessment: &model.RiskAssessment{OverallScore: 80, RiskLevel: "Low-Medium"},
	})
	s := newTestServer(t, nil, store)
	ts := httptest.NewServer(s)
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/stats")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	var stats model.DashboardStats
	if err := json.NewDecoder(resp.Body).Decode(&stats); err != nil {
		t.Fatal(err)
	}
	if stats.TotalScans != 1 || stats.RiskBreakdown["Low-Medium"] != 1 {
		t.Errorf("stats = %+v", stats)
	}
}

func TestScanWebSocketStreamsProgress(t *testing.T) {
	runner := &fakeRunner{
		events: []app.ProgressEvent{
			{ScanID: "scan-test", Stage: app.StageSystem, Status: app.StatusRunning},
			{ScanID: "scan-test", Stage: app.StageSystem, Status: app.StatusDone},
		},
	}
	s := newTestServer(t, runner, nil)
	ts := httptest.NewServer(s)
	defer ts.Close()

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws/scans"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer conn.Close()
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))

	if err := conn.WriteJSON(submitScanRequest{Email: "jo@example.com"}); err != nil {
		t.Fatal(err)
	}

	var first app.ProgressEvent
	if err := conn.ReadJSON(&first); err != nil {
		t.Fatal(err)
	}
	if first.Stage != app.StageSystem || first.Status != app.StatusRunning {
		t.Errorf("first event = %+v", first)
	}

	var second app.ProgressEvent
	if err := conn.ReadJSON(&second); err != nil {
		t.Fatal(err)
	}

	var final wsResultMessage
	if err := conn.ReadJSON(&final); err != nil {
		t.Fatal(err)
	}
	if final.Type != "result" || final.Result == nil || final.Result.ScanID != "scan-test" {
		t.Errorf("final = %+v", final)
	}
}
