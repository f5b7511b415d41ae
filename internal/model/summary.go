package model

import "time"

// ScanSummary is the listing row for stored scans.
type ScanSummary struct {
	ID           int64     `json:"id"`
	ScanID       string    `json:"scan_id"`
	Target       string    `json:"target"`
	LeadName     string    `json:"lead_name,omitempty"`
	LeadEmail    string    `json:"lead_email,omitempty"`
	LeadCompany  string    `json:"lead_company,omitempty"`
	OverallScore int       `json:"overall_score"`
	RiskLevel    string    `json:"risk_level"`
	CreatedAt    time.Time `json:"created_at"`
}

// DashboardStats aggregates stored scans for the dashboard endpoint.
type DashboardStats struct {
	TotalScans     int            `json:"total_scans"`
	AverageScore   float64        `json:"average_score"`
	RiskBreakdown  map[string]int `json:"risk_breakdown"`
	RecentScans    []ScanSummary  `json:"recent_scans"`
	DistinctLeads  int            `json:"distinct_leads"`
	LatestScanTime time.Time      `json:"latest_scan_time,omitempty"`
}
