// Package webclient provides pluggable HTTP fetch backends for the web
// probes. The default backend rides on net/http; a chromedp backend is
// available for targets that only render under a real browser.
package webclient

import (
	"time"

	"github.com/scanforge/scanforge/internal/model"
)

// Request and Response are re-exported so probe code can stay on one
// import.
type (
	Request  = model.Request
	Response = model.Response
)

// Config selects and tunes a fetch backend.
type Config struct {
	// Backend names the registered constructor. Empty selects nethttp.
	Backend string

	// Timeout bounds one fetch end to end. Zero means 30s.
	Timeout time.Duration

	// UserAgent is sent on every request when set.
	UserAgent string
}

func (c Config) timeout() time.Duration {
	if c.Timeout <= 0 {
		return 30 * time.Second
	}
	return c.Timeout
}
