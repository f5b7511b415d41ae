package probes

import (
	"context"
	"net/http"
	"testing"

	"github.com/scanforge/scanforge/internal/logging"
	"github.com/scanforge/scanforge/internal/model"
	"github.com/scanforge/scanforge/internal/testutil"
)

const wpPage = `<html><head>
<meta name="generator" content="WordPress 4.9.8">
<link rel="stylesheet" href="/wp-content/themes/x/style.css">
<script src="https://cdn.example/jquery-3.6.0.min.js"></script>
</head><body></body></html>`

func TestDetectCMSWordPressOutdated(t *testing.T) {
	client := &testutil.FakeWebClient{Responses: map[string]*model.Response{
		"https://wp.test": {StatusCode: 200, Body: []byte(wpPage)},
	}}
	p := NewContentProber(client, logging.Noop{})

	got := p.DetectCMS(context.Background(), "https://wp.test")
	if got.Detected != "WordPress" || got.Version != "4.9.8" {
		t.Fatalf("got %+v", got)
	}
	if got.Findings[0].Severity != model.SeverityHigh {
		t.Errorf("outdated WordPress severity = %q, want High", got.Findings[0].Severity)
	}
}

func TestDetectCMSNone(t *testing.T) {
	client := &testutil.FakeWebClient{Responses: map[string]*model.Response{
		"https://plain.test": {StatusCode: 200, Body: []byte("<html><body>hi</body></html>")},
	}}
	p := NewContentProber(client, logging.Noop{})
	got := p.DetectCMS(context.Background(), "https://plain.test")
	if got.Detected != "" || got.Findings[0].Severity != model.SeverityLow {
		t.Errorf("got %+v", got)
	}
}

func TestDetectFrameworks(t *testing.T) {
	headers := http.Header{}
	headers.Set("X-Powered-By", "PHP/8.1")
	client := &testutil.FakeWebClient{Responses: map[string]*model.Response{
		"https://fw.test": {StatusCode: 200, Headers: headers, Body: []byte(wpPage)},
	}}
	p := NewContentProber(client, logging.Noop{})

	got := p.DetectFrameworks(context.Background(), "https://fw.test")
	want := map[string]bool{"PHP/8.1": true, "jQuery": true}
	for _, f := range got.Detected {
		delete(want, f)
	}
	if len(want) != 0 {
		t.Errorf("detected = %v, still missing %v", got.Detected, want)
	}
}

func TestCrawlSensitive(t *testing.T) {
	client := &testutil.FakeWebClient{Responses: map[string]*model.Response{
		"https://s.test/admin":      {StatusCode: 302},
		"https://s.test/.env":       {StatusCode: 200},
		"https://s.test/robots.txt": {StatusCode: 200},
		"https://s.test/login":      {StatusCode: 404},
	}}
	p := NewContentProber(client, logging.Noop{})
	p.MaxPaths = len(sensitivePaths)

	got := p.CrawlSensitive(context.Background(), "https://s.test/")
	if len(got.Paths) != 3 {
		t.Fatalf("paths = %v", got.Paths)
	}
	// 3 found: >2 -> High.
	if got.Findings[0].Severity != model.SeverityHigh {
		t.Errorf("severity = %q, want High", got.Findings[0].Severity)
	}
}

func TestCrawlSensitiveNothingExposed(t *testing.T) {
	p := NewContentProber(&testutil.FakeWebClient{Responses: map[string]*model.Response{}}, logging.Noop{})
	got := p.CrawlSensitive(context.Background(), "https://quiet.test")
	if len(got.Paths) != 0 || got.Findings[0].Severity != model.SeverityLow {
		t.Errorf("got %+v", got)
	}
}
