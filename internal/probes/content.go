package probes

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/scanforge/scanforge/internal/interfaces"
	"github.com/scanforge/scanforge/internal/logging"
	"github.com/scanforge/scanforge/internal/model"
)

// cmsPatterns fingerprints common content management systems. Checked
// in a fixed order; first match wins.
var cmsPatterns = []struct {
	Name     string
	Patterns []string
}{
	{"WordPress", []string{`<meta name="generator" content="WordPress`, "/wp-content/", "/wp-includes/"}},
	{"Joomla", []string{`<meta name="generator" content="Joomla`, "/media/jui/", "/media/system/js/"}},
	{"Drupal", []string{"Drupal.settings", "/sites/default/files/", "jQuery.extend(Drupal.settings"}},
	{"Magento", []string{"Mage.Cookies", "/skin/frontend/", "var BLANK_URL"}},
	{"Shopify", []string{"Shopify.theme", ".myshopify.com", "cdn.shopify.com"}},
	{"Wix", []string{"X-Wix-Published-Version", "X-Wix-Request-Id", "static.wixstatic.com"}},
}

var wpVersionRe = regexp.MustCompile(`<meta name="generator" content="WordPress ([0-9.]+)"`)

var frameworkPatterns = map[string][]string{
	"React":         {"reactroot", "react-app"},
	"Angular":       {"ng-app", "angular.module"},
	"Vue.js":        {"vue-app", "data-v-"},
	"jQuery":        {"jquery"},
	"Bootstrap":     {"bootstrap.min.css", "bootstrap.min.js"},
	"Laravel":       {"laravel", "csrf-token"},
	"Django":        {"csrfmiddlewaretoken", "__django"},
	"Ruby on Rails": {"csrf-param", `data-remote="true"`},
	"ASP.NET":       {"__VIEWSTATE", "__EVENTVALIDATION"},
	"Express.js":    {"express", "node_modules"},
}

// sensitivePaths are probed during the content crawl, most interesting
// first. The crawl stops after MaxPaths checks.
var sensitivePaths = []string{
	"/admin", "/login", "/wp-admin", "/administrator", "/backend",
	"/cpanel", "/phpmyadmin", "/config", "/backup", "/db",
	"/logs", "/test", "/dev", "/staging", "/.git", "/.env",
	"/robots.txt", "/sitemap.xml", "/config.php", "/wp-config.php",
}

// ContentProber fingerprints the target's CMS and frameworks and crawls
// for exposed sensitive paths.
type ContentProber struct {
	Client   interfaces.WebClient
	MaxPaths int
	Logger   logging.Logger
}

func NewContentProber(client interfaces.WebClient, logger logging.Logger) *ContentProber {
	return &ContentProber{
		Client:   client,
		MaxPaths: 15,
		Logger:   logger.With(logging.Field{Key: "component", Value: "probe.content"}),
	}
}

// DetectCMS fetches the origin page and matches it against known CMS
// fingerprints.
func (p *ContentProber) DetectCMS(ctx context.Context, targetURL string) *model.CMSSection {
	resp, err := p.Client.Do(ctx, &model.Request{URL: targetURL, FollowRedirects: true})
	if err != nil {
		return &model.CMSSection{Error: err.Error()}
	}
	html := string(resp.Body)

	var detected string
	for _, cms := range cmsPatterns {
		for _, pattern := range cms.Patterns {
			if strings.Contains(html, pattern) {
				detected = cms.Name
				break
			}
		}
		if detected != "" {
			break
		}
	}

	if detected == "" {
		return &model.CMSSection{
			Findings: []model.Finding{{
				Message:  "No known CMS detected",
				Severity: model.SeverityLow,
			}},
		}
	}

	section := &model.CMSSection{Detected: detected, Version: "Unknown"}
	if detected == "WordPress" {
		if m := wpVersionRe.FindStringSubmatch(html); m != nil {
			section.Version = m[1]
		}
	}

	severity := model.SeverityLow
	message := fmt.Sprintf("CMS detected: %s (version %s)", detected, section.Version)
	if detected == "WordPress" && section.Version != "Unknown" {
		if major, err := strconv.Atoi(strings.SplitN(section.Version, ".", 2)[0]); err == nil && major < 5 {
			severity = model.SeverityHigh
			message = fmt.Sprintf("WordPress %s is outdated and may contain security vulnerabilities", section.Version)
		}
	}
	section.Findings = []model.Finding{{Message: message, Severity: severity}}
	return section
}

// DetectFrameworks fingerprints web frameworks from the page markup and
// the X-Powered-By header.
func (p *ContentProber) DetectFrameworks(ctx context.Context, targetURL string) *model.FrameworksSection {
	resp, err := p.Client.Do(ctx, &model.Request{URL: targetURL, FollowRedirects: true})
	if err != nil {
		return &model.FrameworksSection{Error: err.Error()}
	}

	seen := map[string]bool{}
	if poweredBy := resp.Headers.Get("X-Powered-By"); poweredBy != "" {
		seen[poweredBy] = true
	}

	lower := strings.ToLower(string(resp.Body))
	for framework, patterns := range frameworkPatterns {
		for _, pattern := range patterns {
			if strings.Contains(lower, strings.ToLower(pattern)) {
				seen[framework] = true
				break
			}
		}
	}

	// Script sources often carry fingerprints the raw-text patterns
	// miss (versioned CDN paths and the like).
	if doc, err := goquery.NewDocumentFromReader(bytes.NewReader(resp.Body)); err == nil {
		doc.Find("script[src]").Each(func(_ int, s *goquery.Selection) {
			src, _ := s.Attr("src")
			src = strings.ToLower(src)
			switch {
			case strings.Contains(src, "jquery"):
				seen["jQuery"] = true
			case strings.Contains(src, "react"):
				seen["React"] = true
			case strings.Contains(src, "vue"):
				seen["Vue.js"] = true
			case strings.Contains(src, "angular"):
				seen["Angular"] = true
			case strings.Contains(src, "bootstrap"):
				seen["Bootstrap"] = true
			}
		})
	}

	detected := make([]string, 0, len(seen))
	for f := range seen {
		detected = append(detected, f)
	}
	sort.Strings(detected)

	section := &model.FrameworksSection{Detected: detected}
	if len(detected) == 0 {
		section.Findings = []model.Finding{{
			Message:  "No web frameworks identified",
			Severity: model.SeverityInfo,
		}}
	} else {
		section.Findings = []model.Finding{{
			Message:  fmt.Sprintf("Web technologies identified: %s", strings.Join(detected, ", ")),
			Severity: model.SeverityInfo,
		}}
	}
	return section
}

// CrawlSensitive probes the well-known sensitive paths under targetURL.
// Redirects are not followed so a 302 on /admin still counts as
// present.
func (p *ContentProber) CrawlSensitive(ctx context.Context, targetURL string) *model.SensitiveSection {
	base := strings.TrimSuffix(targetURL, "/")

	limit := p.MaxPaths
	if limit <= 0 || limit > len(sensitivePaths) {
		limit = len(sensitivePaths)
	}

	var found []string
	for _, path := range sensitivePaths[:limit] {
		resp, err := p.Client.Do(ctx, &model.Request{URL: base + path})
		if err != nil {
			continue
		}
		if resp.StatusCode < 400 {
			found = append(found, path)
		}
	}

	severity := model.SeverityLow
	switch {
	case len(found) > 5:
		severity = model.SeverityCritical
	case len(found) > 2:
		severity = model.SeverityHigh
	case len(found) > 0:
		severity = model.SeverityMedium
	}

	section := &model.SensitiveSection{Paths: found}
	if len(found) == 0 {
		section.Findings = []model.Finding{{
			Message:  "No sensitive paths exposed",
			Severity: severity,
		}}
	} else {
		section.Findings = []model.Finding{{
			Message:  fmt.Sprintf("%d potentially sensitive paths accessible: %s", len(found), strings.Join(found, ", ")),
			Severity: severity,
		}}
	}
	p.Logger.Info("sensitive content crawl complete",
		logging.Field{Key: "target", Value: targetURL},
		logging.Field{Key: "found", Value: len(found)})
	return section
}
