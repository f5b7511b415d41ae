package model

import "time"

// ScanResult is the canonical aggregate for one scan execution. It is
// created at orchestration start, filled in as each probe category
// completes, and finalized by the scorer and percentile calculator.
//
// Every probe section is a pointer: nil means the category never ran
// (skipped), a populated Error field means it ran and failed. Consumers
// must treat both the same way.
type ScanResult struct {
	ScanID    string    `json:"scan_id"`
	Timestamp time.Time `json:"timestamp"`
	Target    string    `json:"target"`

	ClientInfo ClientInfo    `json:"client_info"`
	Industry   *IndustryInfo `json:"industry,omitempty"`

	System           *SystemSection        `json:"system,omitempty"`
	Network          *NetworkSection       `json:"network,omitempty"`
	EmailSecurity    *EmailSecuritySection `json:"email_security,omitempty"`
	SSLCertificate   *SSLSection           `json:"ssl_certificate,omitempty"`
	SecurityHeaders  *HeadersSection       `json:"security_headers,omitempty"`
	CMS              *CMSSection           `json:"cms,omitempty"`
	Cookies          *CookiesSection       `json:"cookies,omitempty"`
	Frameworks       *FrameworksSection    `json:"frameworks,omitempty"`
	SensitiveContent *SensitiveSection     `json:"sensitive_content,omitempty"`

	// WebAccessibilityError marks the deliberate skip of all web checks
	// when the target answers on neither 80 nor 443. It is not a probe
	// error.
	WebAccessibilityError string `json:"web_accessibility_error,omitempty"`

	RiskAssessment    *RiskAssessment             `json:"risk_assessment,omitempty"`
	ServiceCategories map[string]*ServiceCategory `json:"service_categories,omitempty"`
	Recommendations   []string                    `json:"recommendations,omitempty"`
	ThreatScenarios   []string                    `json:"threat_scenarios,omitempty"`

	Percentile *Percentile `json:"percentile,omitempty"`

	CompleteHTMLReport      string `json:"complete_html_report,omitempty"`
	CompleteHTMLReportError string `json:"complete_html_report_error,omitempty"`
	DatabaseError           string `json:"database_error,omitempty"`
}

// ClientInfo is the submitter metadata attached to a scan. OS and
// browser are derived lazily from the user agent when not supplied.
type ClientInfo struct {
	Name      string `json:"name,omitempty"`
	Email     string `json:"email,omitempty"`
	Company   string `json:"company,omitempty"`
	Phone     string `json:"phone,omitempty"`
	OS        string `json:"os,omitempty"`
	Browser   string `json:"browser,omitempty"`
	UserAgent string `json:"user_agent,omitempty"`
	IP        string `json:"ip,omitempty"`
}

// IndustryInfo is the classification result plus, once scoring has run,
// the benchmark standing of this scan within that industry.
type IndustryInfo struct {
	Type             string   `json:"type"`
	Name             string   `json:"name"`
	Compliance       []string `json:"compliance"`
	CriticalControls []string `json:"critical_controls"`

	Benchmarks *Percentile `json:"benchmarks,omitempty"`
}

// Percentile is the industry-relative standing of a score.
type Percentile struct {
	Percentile int     `json:"percentile"`
	Comparison string  `json:"comparison"` // "above" or "below"
	Difference float64 `json:"difference"`
	AvgScore   float64 `json:"avg_score"`
}

// RiskAssessment is the scored summary of a scan.
type RiskAssessment struct {
	OverallScore   int    `json:"overall_score"`
	RiskLevel      string `json:"risk_level"`
	Color          string `json:"color"`
	CriticalIssues int    `json:"critical_issues"`
	HighIssues     int    `json:"high_issues"`
	MediumIssues   int    `json:"medium_issues"`
	LowIssues      int    `json:"low_issues"`
}

// ServiceCategory is one of the four fixed report buckets. The mapping
// always contains all four keys, zeroed on failure, because report
// templates index it unconditionally.
type ServiceCategory struct {
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Findings    []Finding `json:"findings"`
	RiskLevel   string    `json:"risk_level"`
	Score       int       `json:"score"`
	MaxScore    int       `json:"max_score"`
}

// Fixed service category keys.
const (
	CategoryEndpointSecurity = "endpoint_security"
	CategoryNetworkDefense   = "network_defense"
	CategoryDataProtection   = "data_protection"
	CategoryAccessManagement = "access_management"
)

// ServiceCategoryKeys lists the four fixed keys in report order.
var ServiceCategoryKeys = []string{
	CategoryEndpointSecurity,
	CategoryNetworkDefense,
	CategoryDataProtection,
	CategoryAccessManagement,
}

// SystemSection holds host-level findings (OS exposure, firewall posture).
type SystemSection struct {
	Findings []Finding `json:"findings,omitempty"`
	Error    string    `json:"error,omitempty"`
}

// NetworkSection holds the port scan and gateway sub-scan output.
type NetworkSection struct {
	OpenPorts   *OpenPorts `json:"open_ports,omitempty"`
	Gateway     []Finding  `json:"gateway,omitempty"`
	ScanResults []Finding  `json:"scan_results,omitempty"`
	Error       string     `json:"error,omitempty"`
}

// OpenPorts is the structured summary of discovered open ports.
type OpenPorts struct {
	Count    int          `json:"count"`
	List     []int        `json:"list"`
	Details  []PortDetail `json:"details"`
	Severity Severity     `json:"severity"`
}

// PortDetail is one open port with its service name and severity.
type PortDetail struct {
	Port     int      `json:"port"`
	Service  string   `json:"service,omitempty"`
	Severity Severity `json:"severity"`
}

// EmailSecuritySection holds SPF/DMARC/DKIM and mail-DNS findings.
type EmailSecuritySection struct {
	Findings []Finding `json:"findings,omitempty"`
	SPF      string    `json:"spf,omitempty"`
	DMARC    string    `json:"dmarc,omitempty"`
	DKIM     string    `json:"dkim,omitempty"`
	Error    string    `json:"error,omitempty"`
}

// SSLSection holds certificate findings.
type SSLSection struct {
	Findings  []Finding `json:"findings,omitempty"`
	Issuer    string    `json:"issuer,omitempty"`
	Subject   string    `json:"subject,omitempty"`
	NotAfter  string    `json:"not_after,omitempty"`
	DaysLeft  int       `json:"days_left,omitempty"`
	Protocols []string  `json:"protocols,omitempty"`
	Error     string    `json:"error,omitempty"`
}

// HeadersSection holds HTTP security-header findings.
type HeadersSection struct {
	Findings []Finding         `json:"findings,omitempty"`
	Present  map[string]string `json:"present,omitempty"`
	Missing  []string          `json:"missing,omitempty"`
	Error    string            `json:"error,omitempty"`
}

// CMSSection holds CMS fingerprinting output.
type CMSSection struct {
	Findings []Finding `json:"findings,omitempty"`
	Detected string    `json:"detected,omitempty"`
	Version  string    `json:"version,omitempty"`
	Error    string    `json:"error,omitempty"`
}

// CookiesSection holds cookie-attribute findings.
type CookiesSection struct {
	Findings []Finding `json:"findings,omitempty"`
	Count    int       `json:"count,omitempty"`
	Error    string    `json:"error,omitempty"`
}

// FrameworksSection holds JS framework and server fingerprinting output.
type FrameworksSection struct {
	Findings []Finding `json:"findings,omitempty"`
	Detected []string  `json:"detected,omitempty"`
	Error    string    `json:"error,omitempty"`
}

// SensitiveSection holds sensitive-path crawl output.
type SensitiveSection struct {
	Findings []Finding `json:"findings,omitempty"`
	Paths    []string  `json:"paths,omitempty"`
	Error    string    `json:"error,omitempty"`
}
