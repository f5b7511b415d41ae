package interfaces

import (
	"context"

	"github.com/scanforge/scanforge/internal/model"
)

// WebClient abstracts HTTP(ish) fetching so probes can run against either
// a plain net/http backend or a headless browser.
type WebClient interface {
	Do(ctx context.Context, req *model.Request) (*model.Response, error)

	Close() error
}
