// Package utils holds small helpers shared across the scan pipeline.
package utils

import (
	"fmt"
	"net/url"
	"strings"

	"golang.org/x/net/idna"
)

// NormalizeHost strips any scheme/path/port from raw and converts a
// unicode hostname to its punycode (ASCII) form. Returns an error for
// inputs with no usable host.
func NormalizeHost(raw string) (string, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return "", fmt.Errorf("normalize host: empty input")
	}
	if strings.Contains(s, "://") {
		u, err := url.Parse(s)
		if err != nil {
			return "", fmt.Errorf("normalize host: %w", err)
		}
		s = u.Hostname()
	} else {
		// Bare host, possibly with a path or port tacked on.
		if i := strings.IndexAny(s, "/?#"); i >= 0 {
			s = s[:i]
		}
		if h, _, ok := strings.Cut(s, ":"); ok {
			s = h
		}
	}
	s = strings.TrimSuffix(strings.ToLower(s), ".")
	if s == "" {
		return "", fmt.Errorf("normalize host: %q has no host part", raw)
	}
	ascii, err := idna.Lookup.ToASCII(s)
	if err != nil {
		return "", fmt.Errorf("normalize host %q: %w", raw, err)
	}
	return ascii, nil
}

// TargetURL builds an origin URL for host on the given scheme.
func TargetURL(scheme, host string) string {
	return scheme + "://" + host
}

// Truncate shortens s to at most n runes, appending an ellipsis when
// anything was cut.
func Truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
