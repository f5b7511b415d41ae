package store

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/scanforge/scanforge/internal/interfaces"
	"github.com/scanforge/scanforge/internal/model"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := New(":memory:", interfaces.NewTestLogger(false))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func testScan(scanID, target string, score int, level string) *model.ScanResult {
	return &model.ScanResult{
		ScanID:    scanID,
		Timestamp: time.Date(2026, 8, 27, 10, 0, 0, 0, time.UTC),
		Target:    target,
		ClientInfo: model.ClientInfo{
			Name: "Jo", Email: "jo@" + target, Company: "Acme", Phone: "555-0100",
		},
		RiskAssessment: &model.RiskAssessment{OverallScore: score, RiskLevel: level},
	}
}

func TestSaveAndGet(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	id, err := s.SaveScanResult(ctx, testScan("scan-1", "example.com", 72, "Medium"))
	if err != nil {
		t.Fatalf("SaveScanResult: %v", err)
	}
	if id == 0 {
		t.Error("expected nonzero row id")
	}

	rec, err := s.GetScanResult(ctx, "scan-1")
	if err != nil {
		t.Fatalf("GetScanResult: %v", err)
	}
	if rec == nil {
		t.Fatal("record not found")
	}
	if rec["target"] != "example.com" || rec["lead_email"] != "jo@example.com" {
		t.Errorf("flat columns wrong: %v", rec)
	}
	if rec["overall_score"] != 72 || rec["risk_level"] != "Medium" {
		t.Errorf("score columns wrong: %v", rec)
	}

	raw, ok := rec["scan_results"].(string)
	if !ok || raw == "" {
		t.Fatal("scan_results column missing")
	}
	var payload map[string]any
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		t.Fatalf("scan_results is not JSON: %v", err)
	}
	if payload["scan_id"] != "scan-1" {
		t.Errorf("payload scan_id = %v", payload["scan_id"])
	}
}

func TestGetUnknownScan(t *testing.T) {
	s := newTestStore(t)
	rec, err := s.GetScanResult(context.Background(), "nope")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec != nil {
		t.Errorf("unknown scan should be nil, got %v", rec)
	}
}

func TestSaveSameScanIDReplaces(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if _, err := s.SaveScanResult(ctx, testScan("scan-1", "a.com", 40, "Critical")); err != nil {
		t.Fatal(err)
	}
	if _, err := s.SaveScanResult(ctx, testScan("scan-1", "a.com", 85, "Low-Medium")); err != nil {
		t.Fatal(err)
	}

	rec, err := s.GetScanResult(ctx, "scan-1")
	if err != nil || rec == nil {
		t.Fatalf("get: %v %v", rec, err)
	}
	if rec["overall_score"] != 85 {
		t.Errorf("score = %v, want 85", rec["overall_score"])
	}
	list, err := s.ListScans(ctx, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 1 {
		t.Errorf("len = %d, want 1", len(list))
	}
}

func TestListScansOrderAndLimit(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	for i, target := range []string{"a.com", "b.com", "c.com"} {
		scan := testScan("scan-"+target, target, 60+i, "Medium")
		scan.Timestamp = scan.Timestamp.Add(time.Duration(i) * time.Minute)
		if _, err := s.SaveScanResult(ctx, scan); err != nil {
			t.Fatal(err)
		}
	}

	list, err := s.ListScans(ctx, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 2 {
		t.Fatalf("len = %d, want 2", len(list))
	}
	if list[0].Target != "c.com" || list[1].Target != "b.com" {
		t.Errorf("order wrong: %s, %s", list[0].Target, list[1].Target)
	}
}

func TestListScansByTarget(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	for _, id := range []string{"s1", "s2"} {
		if _, err := s.SaveScanResult(ctx, testScan(id, "a.com", 70, "Medium")); err != nil {
			t.Fatal(err)
		}
	}
	if _, err := s.SaveScanResult(ctx, testScan("s3", "b.com", 55, "High")); err != nil {
		t.Fatal(err)
	}

	list, err := s.ListScansByTarget(ctx, "a.com", 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 2 {
		t.Errorf("len = %d, want 2", len(list))
	}
	for _, sum := range list {
		if sum.Target != "a.com" {
			t.Errorf("unexpected target %s", sum.Target)
		}
	}
}

func TestStats(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if _, err := s.SaveScanResult(ctx, testScan("s1", "a.com", 90, "Low")); err != nil {
		t.Fatal(err)
	}
	if _, err := s.SaveScanResult(ctx, testScan("s2", "b.com", 50, "High")); err != nil {
		t.Fatal(err)
	}
	scan := testScan("s3", "c.com", 70, "Medium")
	scan.ClientInfo.Email = "jo@a.com" // duplicate lead
	if _, err := s.SaveScanResult(ctx, scan); err != nil {
		t.Fatal(err)
	}

	stats, err := s.Stats(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if stats.TotalScans != 3 {
		t.Errorf("total = %d", stats.TotalScans)
	}
	if stats.AverageScore != 70 {
		t.Errorf("avg = %v", stats.AverageScore)
	}
	if stats.RiskBreakdown["Low"] != 1 || stats.RiskBreakdown["High"] != 1 || stats.RiskBreakdown["Medium"] != 1 {
		t.Errorf("breakdown = %v", stats.RiskBreakdown)
	}
	if stats.DistinctLeads != 2 {
		t.Errorf("distinct leads = %d", stats.DistinctLeads)
	}
	if len(stats.RecentScans) != 3 {
		t.Errorf("recent = %d", len(stats.RecentScans))
	}
}

func TestStatsEmpty(t *testing.T) {
	s := newTestStore(t)
	stats, err := s.Stats(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if stats.TotalScans != 0 || stats.AverageScore != 0 {
		t.Errorf("empty stats: %+v", stats)
	}
}

func TestSaveNil(t *testing.T) {
	s := newTestStore(t)
	if _, err := s.SaveScanResult(context.Background(), nil); err == nil {
		t.Error("nil scan must error")
	}
}
