package report

import "testing"

func TestDetectOSAndBrowser(t *testing.T) {
	cases := []struct {
		ua, os, browser string
	}{
		{"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36", "Windows 10/11", "Chrome"},
		{"Mozilla/5.0 (Windows NT 6.1; rv:109.0) Gecko/20100101 Firefox/115.0", "Windows 7", "Firefox"},
		{"Mozilla/5.0 (Windows NT 10.0) AppleWebKit/537.36 Chrome/120.0 Safari/537.36 Edg/120.0", "Windows 10/11", "Edge"},
		{"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 Version/16.0 Safari/605.1.15", "macOS", "Safari"},
		{"Mozilla/5.0 (iPhone; CPU iPhone OS 16_0 like Mac OS X) AppleWebKit/605.1.15 Version/16.0 Mobile/15E148 Safari/604.1", "iOS", "Safari"},
		{"Mozilla/5.0 (Linux; Android 13; Pixel 7) AppleWebKit/537.36 Chrome/120.0 Mobile Safari/537.36", "Android", "Chrome"},
		{"Mozilla/5.0 (X11; Linux x86_64; rv:109.0) Gecko/20100101 Firefox/115.0", "Linux", "Firefox"},
		{"Mozilla/5.0 (compatible; MSIE 10.0; Windows NT 6.2; Trident/6.0)", "Windows 8", "Internet Explorer"},
		{"", "Unknown", "Unknown"},
	}
	for _, c := range cases {
		os, browser := DetectOSAndBrowser(c.ua)
		if os != c.os || browser != c.browser {
			t.Errorf("DetectOSAndBrowser(%q) = (%q, %q), want (%q, %q)", c.ua, os, browser, c.os, c.browser)
		}
	}
}
