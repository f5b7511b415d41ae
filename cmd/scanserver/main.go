// Command scanserver starts the ScanForge HTTP API.
// Usage: go run ./cmd/scanserver [-addr :8080] [-db scanforge.db]
package main

import (
	"flag"
	"log"

	"github.com/scanforge/scanforge/internal/app"
	"github.com/scanforge/scanforge/internal/logging"
	"github.com/scanforge/scanforge/internal/server"
)

func main() {
	var (
		addr     = flag.String("addr", ":8080", "HTTP listen address")
		dbPath   = flag.String("db", "scanforge.db", "SQLite database path")
		backend  = flag.String("backend", "nethttp", "Web client backend: nethttp|chromedp")
		smtpHost = flag.String("smtp-host", "", "SMTP host for report delivery (empty = log only)")
		smtpPort = flag.Int("smtp-port", 587, "SMTP port")
		smtpUser = flag.String("smtp-user", "", "SMTP username")
		smtpPass = flag.String("smtp-pass", "", "SMTP password")
		smtpFrom = flag.String("smtp-from", "", "From address for report mail")
	)
	flag.Parse()

	cfg := app.DefaultConfig()
	cfg.DatabasePath = *dbPath
	cfg.WebClientCfg.Backend = *backend
	cfg.NotifyCfg.Host = *smtpHost
	cfg.NotifyCfg.Port = *smtpPort
	cfg.NotifyCfg.Username = *smtpUser
	cfg.NotifyCfg.Password = *smtpPass
	cfg.NotifyCfg.From = *smtpFrom

	logger := logging.NewStdoutLogger("scanserver")

	srv, err := server.NewServer(server.Config{
		ListenAddr: *addr,
		AppConfig:  cfg,
		Logger:     logger,
	})
	if err != nil {
		log.Fatalf("starting server: %v", err)
	}
	defer srv.Close()

	logger.Info("listening", logging.Field{Key: "addr", Value: *addr})
	if err := srv.HTTPServer().ListenAndServe(); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
