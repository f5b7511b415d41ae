package interfaces

import (
	"context"

	"github.com/scanforge/scanforge/internal/model"
)

// Notifier delivers a finished scan report to interested parties.
// Delivery is fire-and-forget from the pipeline's perspective: the
// orchestrator logs a returned error and moves on.
type Notifier interface {
	SendReport(ctx context.Context, lead model.LeadData, scan *model.ScanResult, html string) error
}
