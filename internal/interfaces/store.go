package interfaces

import (
	"context"

	"github.com/scanforge/scanforge/internal/model"
)

// Store is the minimal cross-package contract for scan persistence.
// Implementations should be safe for concurrent use.
//
// Records loaded through GetScanResult may have been flattened by the
// storage schema (scan payload serialized into one column, lead fields
// kept as flat columns); callers are expected to pass loaded records
// through report.Normalize before handing them to renderers.
type Store interface {
	// SaveScanResult persists a finished scan and returns its row id.
	SaveScanResult(ctx context.Context, scan *model.ScanResult) (int64, error)

	// GetScanResult loads a stored scan by scan id. Returns nil, nil when
	// the scan is unknown.
	GetScanResult(ctx context.Context, scanID string) (map[string]any, error)

	// ListScans returns summaries of recent scans, newest first.
	ListScans(ctx context.Context, limit int) ([]model.ScanSummary, error)

	// ListScansByTarget returns summaries for one target, newest first.
	ListScansByTarget(ctx context.Context, target string, limit int) ([]model.ScanSummary, error)

	// Stats aggregates issue counts and score averages for the dashboard.
	Stats(ctx context.Context) (*model.DashboardStats, error)

	// Close releases resources used by the store.
	Close() error
}
