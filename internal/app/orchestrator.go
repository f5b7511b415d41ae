package app

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/scanforge/scanforge/internal/assessor"
	"github.com/scanforge/scanforge/internal/industry"
	"github.com/scanforge/scanforge/internal/interfaces"
	"github.com/scanforge/scanforge/internal/logging"
	"github.com/scanforge/scanforge/internal/model"
	"github.com/scanforge/scanforge/internal/probes"
	"github.com/scanforge/scanforge/internal/report"
	"github.com/scanforge/scanforge/internal/utils"
)

// Stage names, in execution order. Progress events carry these.
const (
	StageSystem     = "system"
	StageNetwork    = "network"
	StageEmail      = "email_security"
	StageWeb        = "web_security"
	StageScoring    = "scoring"
	StagePercentile = "percentile"
	StageReport     = "report"
	StagePersist    = "persist"
)

// Stage statuses.
const (
	StatusRunning = "running"
	StatusDone    = "done"
	StatusError   = "error"
	StatusSkipped = "skipped"
)

// ProgressEvent is one step of a running scan. Events are emitted inline
// from the scanning goroutine; consumers must not block.
type ProgressEvent struct {
	ScanID string `json:"scan_id"`
	Stage  string `json:"stage"`
	Status string `json:"status"`
	Detail string `json:"detail,omitempty"`
}

// ProgressFunc receives stage transitions during RunScan. May be nil.
type ProgressFunc func(ev ProgressEvent)

// Orchestrator runs the full scan pipeline: the fixed probe sequence with
// per-category failure isolation, then classification, scoring,
// percentile, report rendering, persistence and notification.
type Orchestrator struct {
	cfg      *Config
	store    interfaces.Store
	notifier interfaces.Notifier

	system  *probes.SystemProber
	network *probes.NetworkProber
	email   *probes.EmailProber
	web     *probes.WebProber
	content *probes.ContentProber

	assessor *assessor.Assessor
	logger   logging.Logger

	now   func() time.Time
	newID func() string
}

// NewOrchestrator wires the pipeline from already-constructed parts.
// store and notifier may be nil (persistence and notification are then
// skipped, with database_error recording the absence of a store only when
// a save was actually expected).
func NewOrchestrator(cfg *Config, deps Deps) *Orchestrator {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	logger := deps.Logger
	if logger == nil {
		logger = logging.Noop{}
	}
	network := probes.NewNetworkProber(deps.Dialer, logger)
	if len(cfg.ScanPorts) > 0 {
		network.Ports = cfg.ScanPorts
	}
	return &Orchestrator{
		cfg:      cfg,
		store:    deps.Store,
		notifier: deps.Notifier,
		system:   probes.NewSystemProber(deps.Resolver, logger),
		network:  network,
		email:    probes.NewEmailProber(deps.Resolver, logger),
		web:      probes.NewWebProber(deps.Dialer, deps.WebClient, logger),
		content:  probes.NewContentProber(deps.WebClient, logger),
		assessor: assessor.New(logger),
		logger:   logger.With(logging.Field{Key: "component", Value: "orchestrator"}),
		now:      time.Now,
		newID:    uuid.NewString,
	}
}

// Deps are the injectable collaborators of the orchestrator. Tests swap
// in fakes from internal/testutil.
type Deps struct {
	Store     interfaces.Store
	Notifier  interfaces.Notifier
	WebClient interfaces.WebClient
	Resolver  probes.Resolver
	Dialer    probes.Dialer
	Logger    logging.Logger
}

// RunScan executes one scan end to end. It always returns a ScanResult
// and never an error: every recoverable failure is recorded on the
// result itself. progress may be nil.
func (o *Orchestrator) RunScan(ctx context.Context, lead model.LeadData, progress ProgressFunc) *model.ScanResult {
	result := &model.ScanResult{
		ScanID:    o.newID(),
		Timestamp: o.now().UTC(),
	}
	emit := func(stage, status, detail string) {
		if progress != nil {
			// Error details can carry whole wrapped chains; keep stream
			// frames small.
			progress(ProgressEvent{
				ScanID: result.ScanID,
				Stage:  stage,
				Status: status,
				Detail: utils.Truncate(detail, 200),
			})
		}
	}

	host := lead.ResolveTarget()
	if normalized, err := utils.NormalizeHost(host); err == nil {
		host = normalized
	} else {
		o.logger.Warn("target normalization failed",
			logging.Field{Key: "target", Value: host},
			logging.Field{Key: "error", Value: err.Error()})
	}
	result.Target = host
	result.ClientInfo = clientInfoFromLead(lead)

	o.logger.Info("scan started",
		logging.Field{Key: "scan_id", Value: result.ScanID},
		logging.Field{Key: "target", Value: host})

	o.runSystem(ctx, result, host, emit)
	o.runNetwork(ctx, result, host, lead.ClientIP, emit)
	o.runEmail(ctx, result, lead.EmailDomain(), emit)
	o.runWeb(ctx, result, host, emit)

	result.Industry = o.classify(lead)

	o.score(result, emit)
	o.percentile(result, emit)
	o.render(result, emit)
	o.persist(ctx, result, emit)
	o.notify(ctx, lead, result)

	o.logger.Info("scan finished",
		logging.Field{Key: "scan_id", Value: result.ScanID},
		logging.Field{Key: "score", Value: overallScore(result)})
	return result
}

func clientInfoFromLead(lead model.LeadData) model.ClientInfo {
	info := model.ClientInfo{
		Name:      lead.Name,
		Email:     lead.Email,
		Company:   lead.Company,
		Phone:     lead.Phone,
		UserAgent: lead.UserAgent,
		IP:        lead.ClientIP,
		OS:        lead.ClientOS,
		Browser:   lead.ClientBR,
	}
	if info.OS == "" || info.Browser == "" {
		os, browser := report.DetectOSAndBrowser(lead.UserAgent)
		if info.OS == "" {
			info.OS = os
		}
		if info.Browser == "" {
			info.Browser = browser
		}
	}
	return info
}

func (o *Orchestrator) runSystem(ctx context.Context, result *model.ScanResult, host string, emit func(string, string, string)) {
	emit(StageSystem, StatusRunning, "")
	section := &model.SystemSection{}
	if msg := guard(func() {
		out := o.system.Check(ctx, host)
		if out.Failed() {
			section.Error = out.Err
			return
		}
		section.Findings = out.Findings
	}); msg != "" {
		section.Error = msg
	}
	result.System = section
	emit(StageSystem, sectionStatus(section.Error), section.Error)
}

func (o *Orchestrator) runNetwork(ctx context.Context, result *model.ScanResult, host, clientIP string, emit func(string, string, string)) {
	emit(StageNetwork, StatusRunning, "")
	section := &model.NetworkSection{}
	if msg := guard(func() {
		section.OpenPorts = o.network.PortScan(ctx, host)
	}); msg != "" {
		section.Error = msg
	}
	// Gateway sub-scan runs after the primary port scan; its own failure
	// is recorded as a finding-less gateway list, not a section error.
	if msg := guard(func() {
		out := o.network.GatewayScan(ctx, clientIP)
		if out.Failed() {
			section.Gateway = []model.Finding{out.ErrorFinding()}
			return
		}
		section.Gateway = out.Findings
	}); msg != "" {
		section.Gateway = []model.Finding{{Message: "Gateway scan failed: " + msg, Severity: model.SeverityHigh}}
	}
	result.Network = section
	emit(StageNetwork, sectionStatus(section.Error), section.Error)
}

func (o *Orchestrator) runEmail(ctx context.Context, result *model.ScanResult, domain string, emit func(string, string, string)) {
	if domain == "" {
		emit(StageEmail, StatusSkipped, "no submitter email")
		return
	}
	emit(StageEmail, StatusRunning, "")
	section := &model.EmailSecuritySection{}
	if msg := guard(func() {
		out := o.email.Check(ctx, domain)
		if out.Failed() {
			section.Error = out.Err
			return
		}
		section.Findings = out.Findings
	}); msg != "" {
		section.Error = msg
	}
	result.EmailSecurity = section
	emit(StageEmail, sectionStatus(section.Error), section.Error)
}

// runWeb gates all web checks on reachability of ports 80/443. An
// unreachable target is a deliberate skip recorded as
// web_accessibility_error, not a probe failure.
func (o *Orchestrator) runWeb(ctx context.Context, result *model.ScanResult, host string, emit func(string, string, string)) {
	emit(StageWeb, StatusRunning, "")

	var http80, https443 bool
	if msg := guard(func() {
		http80, https443 = o.web.Reachable(ctx, host)
	}); msg != "" {
		result.WebAccessibilityError = "Web accessibility check failed: " + msg
		emit(StageWeb, StatusError, result.WebAccessibilityError)
		return
	}
	if !http80 && !https443 {
		result.WebAccessibilityError = "Website not accessible on ports 80 or 443"
		emit(StageWeb, StatusSkipped, result.WebAccessibilityError)
		return
	}

	scheme := "http"
	if https443 {
		scheme = "https"
		if msg := guard(func() {
			result.SSLCertificate = o.web.CheckSSL(ctx, host)
		}); msg != "" {
			result.SSLCertificate = &model.SSLSection{Error: msg}
		}
	}
	targetURL := utils.TargetURL(scheme, host)

	if msg := guard(func() {
		result.SecurityHeaders = o.web.CheckHeaders(ctx, targetURL)
	}); msg != "" {
		result.SecurityHeaders = &model.HeadersSection{Error: msg}
	}
	if msg := guard(func() {
		result.Cookies = o.web.CheckCookies(ctx, targetURL)
	}); msg != "" {
		result.Cookies = &model.CookiesSection{Error: msg}
	}
	if msg := guard(func() {
		result.CMS = o.content.DetectCMS(ctx, targetURL)
	}); msg != "" {
		result.CMS = &model.CMSSection{Error: msg}
	}
	if msg := guard(func() {
		result.Frameworks = o.content.DetectFrameworks(ctx, targetURL)
	}); msg != "" {
		result.Frameworks = &model.FrameworksSection{Error: msg}
	}
	if msg := guard(func() {
		result.SensitiveContent = o.content.CrawlSensitive(ctx, targetURL)
	}); msg != "" {
		result.SensitiveContent = &model.SensitiveSection{Error: msg}
	}
	emit(StageWeb, StatusDone, "")
}

func (o *Orchestrator) classify(lead model.LeadData) *model.IndustryInfo {
	key := industry.Classify(lead.Company, lead.EmailDomain())
	b := industry.Lookup(key)
	return &model.IndustryInfo{
		Type:             key,
		Name:             b.Name,
		Compliance:       b.Compliance,
		CriticalControls: b.CriticalControls,
	}
}

// score runs the assessor under a recover guard; a scorer failure, or a
// scan where every probe category failed, substitutes the fixed fallback
// assessment and generic recommendations.
func (o *Orchestrator) score(result *model.ScanResult, emit func(string, string, string)) {
	emit(StageScoring, StatusRunning, "")
	var a *assessor.Assessment
	if allProbesFailed(result) {
		o.logger.Warn("every probe category failed, substituting fallback assessment",
			logging.Field{Key: "scan_id", Value: result.ScanID})
		a = assessor.Fallback()
		emit(StageScoring, StatusDone, "fallback assessment")
	} else if msg := guard(func() {
		a = o.assessor.Assess(result)
	}); msg != "" || a == nil {
		o.logger.Error("scoring failed, using fallback",
			logging.Field{Key: "scan_id", Value: result.ScanID},
			logging.Field{Key: "error", Value: msg})
		a = assessor.Fallback()
		emit(StageScoring, StatusError, msg)
	} else {
		emit(StageScoring, StatusDone, "")
	}
	result.RiskAssessment = a.Risk
	result.ServiceCategories = a.Categories
	result.Recommendations = a.Recommendations
	result.ThreatScenarios = a.ThreatScenarios
}

func (o *Orchestrator) percentile(result *model.ScanResult, emit func(string, string, string)) {
	emit(StagePercentile, StatusRunning, "")
	industryType := ""
	if result.Industry != nil {
		industryType = result.Industry.Type
	}
	if msg := guard(func() {
		p := industry.CalculatePercentile(float64(overallScore(result)), industryType)
		result.Percentile = &p
		if result.Industry != nil {
			result.Industry.Benchmarks = &p
		}
	}); msg != "" {
		emit(StagePercentile, StatusError, msg)
		return
	}
	emit(StagePercentile, StatusDone, "")
}

func (o *Orchestrator) render(result *model.ScanResult, emit func(string, string, string)) {
	emit(StageReport, StatusRunning, "")
	var html string
	var err error
	if msg := guard(func() {
		html, err = report.RenderScan(result)
	}); msg != "" {
		err = fmt.Errorf("%s", msg)
	}
	if err != nil {
		result.CompleteHTMLReportError = err.Error()
		emit(StageReport, StatusError, err.Error())
		return
	}
	result.CompleteHTMLReport = html
	emit(StageReport, StatusDone, "")
}

func (o *Orchestrator) persist(ctx context.Context, result *model.ScanResult, emit func(string, string, string)) {
	if o.store == nil {
		emit(StagePersist, StatusSkipped, "no store configured")
		return
	}
	emit(StagePersist, StatusRunning, "")
	if _, err := o.store.SaveScanResult(ctx, result); err != nil {
		result.DatabaseError = err.Error()
		o.logger.Error("scan persistence failed",
			logging.Field{Key: "scan_id", Value: result.ScanID},
			logging.Field{Key: "error", Value: err.Error()})
		emit(StagePersist, StatusError, err.Error())
		return
	}
	emit(StagePersist, StatusDone, "")
}

// notify is fire-and-forget: errors are logged, never recorded on the
// result.
func (o *Orchestrator) notify(ctx context.Context, lead model.LeadData, result *model.ScanResult) {
	if o.notifier == nil || lead.Email == "" {
		return
	}
	if err := o.notifier.SendReport(ctx, lead, result, result.CompleteHTMLReport); err != nil {
		o.logger.Warn("report notification failed",
			logging.Field{Key: "scan_id", Value: result.ScanID},
			logging.Field{Key: "error", Value: err.Error()})
	}
}

// guard runs fn and converts a panic into an error message. Empty string
// means fn completed.
func guard(fn func()) (msg string) {
	defer func() {
		if r := recover(); r != nil {
			msg = fmt.Sprint(r)
		}
	}()
	fn()
	return ""
}

func sectionStatus(errMsg string) string {
	if errMsg != "" {
		return StatusError
	}
	return StatusDone
}

// allProbesFailed reports whether every probe category that ran ended in
// an error stub. Skipped categories (nil sections, gated web checks) do
// not count either way. A scan in this state gets the fixed fallback
// assessment instead of a score computed from its own failure stubs.
func allProbesFailed(r *model.ScanResult) bool {
	ran, failed := 0, 0
	check := func(errStr string) {
		ran++
		if errStr != "" {
			failed++
		}
	}
	if r.System != nil {
		check(r.System.Error)
	}
	if r.Network != nil {
		check(r.Network.Error)
	}
	if r.EmailSecurity != nil {
		check(r.EmailSecurity.Error)
	}
	if r.SSLCertificate != nil {
		check(r.SSLCertificate.Error)
	}
	if r.SecurityHeaders != nil {
		check(r.SecurityHeaders.Error)
	}
	if r.CMS != nil {
		check(r.CMS.Error)
	}
	if r.Cookies != nil {
		check(r.Cookies.Error)
	}
	if r.Frameworks != nil {
		check(r.Frameworks.Error)
	}
	if r.SensitiveContent != nil {
		check(r.SensitiveContent.Error)
	}
	return ran > 0 && ran == failed
}

func overallScore(result *model.ScanResult) int {
	if result.RiskAssessment == nil {
		return 0
	}
	return result.RiskAssessment.OverallScore
}
