package report

import "strings"

// windowsVersions maps NT version tokens to marketing names, newest
// first so the more specific token wins.
var windowsVersions = []struct{ token, name string }{
	{"Windows NT 10", "Windows 10/11"},
	{"Windows NT 6.3", "Windows 8.1"},
	{"Windows NT 6.2", "Windows 8"},
	{"Windows NT 6.1", "Windows 7"},
	{"Windows NT 6.0", "Windows Vista"},
	{"Windows NT 5.1", "Windows XP"},
}

// DetectOSAndBrowser derives OS and browser names from a raw user-agent
// string. Both default to "Unknown".
func DetectOSAndBrowser(userAgent string) (osInfo, browserInfo string) {
	osInfo, browserInfo = "Unknown", "Unknown"
	if userAgent == "" {
		return osInfo, browserInfo
	}

	switch {
	case strings.Contains(userAgent, "Windows"):
		osInfo = "Windows"
		for _, v := range windowsVersions {
			if strings.Contains(userAgent, v.token) {
				osInfo = v.name
				break
			}
		}
	case strings.Contains(userAgent, "Mac OS X"):
		if strings.Contains(userAgent, "iPhone") || strings.Contains(userAgent, "iPad") {
			osInfo = "iOS"
		} else {
			osInfo = "macOS"
		}
	case strings.Contains(userAgent, "Linux"):
		if strings.Contains(userAgent, "Android") {
			osInfo = "Android"
		} else {
			osInfo = "Linux"
		}
	case strings.Contains(userAgent, "FreeBSD"):
		osInfo = "FreeBSD"
	}

	// Order matters: Chrome-derived browsers embed each other's tokens.
	switch {
	case strings.Contains(userAgent, "Firefox/"):
		browserInfo = "Firefox"
	case strings.Contains(userAgent, "Edge/") || strings.Contains(userAgent, "Edg/"):
		browserInfo = "Edge"
	case strings.Contains(userAgent, "Chrome/") &&
		!strings.Contains(userAgent, "Chromium") &&
		!strings.Contains(userAgent, "Edge") &&
		!strings.Contains(userAgent, "Edg/"):
		browserInfo = "Chrome"
	case strings.Contains(userAgent, "Safari/") &&
		!strings.Contains(userAgent, "Chrome") &&
		!strings.Contains(userAgent, "Edge"):
		browserInfo = "Safari"
	case strings.Contains(userAgent, "MSIE") || strings.Contains(userAgent, "Trident/"):
		browserInfo = "Internet Explorer"
	case strings.Contains(userAgent, "Opera/") || strings.Contains(userAgent, "OPR/"):
		browserInfo = "Opera"
	}

	return osInfo, browserInfo
}
