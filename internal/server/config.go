package server

import (
	"github.com/scanforge/scanforge/internal/app"
	"github.com/scanforge/scanforge/internal/interfaces"
	"github.com/scanforge/scanforge/internal/logging"
)

// Config holds the HTTP API settings.
type Config struct {
	// ListenAddr is the HTTP listen address, e.g. ":8080".
	ListenAddr string

	// AppConfig wires the scan pipeline. Defaults apply when nil.
	AppConfig *app.Config

	// Logger is optional; a stdout logger is used when nil.
	Logger logging.Logger

	// Runner and Store override the real pipeline and persistence.
	// Tests inject fakes here; production leaves them nil.
	Runner ScanRunner
	Store  interfaces.Store
}
