package app

import (
	"github.com/scanforge/scanforge/internal/notify"
	"github.com/scanforge/scanforge/internal/webclient"
)

// Config contains the runtime configuration the pipeline needs. Server
// listen settings live in server.Config, which embeds this.
type Config struct {
	// DatabasePath is the SQLite file holding scan results.
	DatabasePath string

	// WebClientCfg selects and configures the HTTP fetching backend.
	WebClientCfg webclient.Config

	// NotifyCfg configures SMTP report delivery. Empty host means
	// log-only notification.
	NotifyCfg notify.Config

	// ScanPorts overrides the default port list when non-empty.
	ScanPorts []int
}

// DefaultConfig returns a Config populated with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		DatabasePath: "scanforge.db",
		WebClientCfg: webclient.Config{
			Backend: "nethttp",
		},
	}
}
