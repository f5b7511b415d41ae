package webclient

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"

	"github.com/scanforge/scanforge/internal/interfaces"
	"github.com/scanforge/scanforge/internal/logging"
)

func init() {
	RegisterBackend("chromedp", func(cfg Config, logger interfaces.Logger) (interfaces.WebClient, error) {
		return NewChromedpClient(cfg, logger)
	})
}

// ChromedpClient fetches pages through a headless Chrome instance. Only
// GET is supported; probes that need it are fingerprinting rendered
// pages, not posting forms.
type ChromedpClient struct {
	allocCtx    context.Context
	allocCancel context.CancelFunc
	timeout     time.Duration
	userAgent   string
	logger      logging.Logger
	closeOnce   sync.Once
}

func NewChromedpClient(cfg Config, logger logging.Logger) (*ChromedpClient, error) {
	componentLogger := logger.With(logging.Field{Key: "backend", Value: "chromedp"})

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
	)
	if cfg.UserAgent != "" {
		opts = append(opts, chromedp.UserAgent(cfg.UserAgent))
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), opts...)

	componentLogger.Info("created chromedp webclient",
		logging.Field{Key: "timeout", Value: cfg.timeout().String()})

	return &ChromedpClient{
		allocCtx:    allocCtx,
		allocCancel: allocCancel,
		timeout:     cfg.timeout(),
		userAgent:   cfg.UserAgent,
		logger:      componentLogger,
	}, nil
}

// Do navigates to req.URL in a fresh tab and returns the rendered DOM.
func (cc *ChromedpClient) Do(ctx context.Context, req *Request) (*Response, error) {
	if req == nil {
		return nil, fmt.Errorf("nil request")
	}
	if m := strings.ToUpper(req.Method); m != "" && m != http.MethodGet {
		return nil, fmt.Errorf("chromedp backend supports GET only, got %s", m)
	}

	tabCtx, cancelTab := chromedp.NewContext(cc.allocCtx)
	defer cancelTab()
	runCtx, cancelRun := context.WithTimeout(tabCtx, cc.timeout)
	defer cancelRun()

	// Capture the status and headers of the main document response.
	var (
		mu         sync.Mutex
		statusCode int
		headers    = make(http.Header)
	)
	chromedp.ListenTarget(runCtx, func(ev any) {
		resp, ok := ev.(*network.EventResponseReceived)
		if !ok || resp.Type != network.ResourceTypeDocument {
			return
		}
		mu.Lock()
		defer mu.Unlock()
		statusCode = int(resp.Response.Status)
		for k, v := range resp.Response.Headers {
			if s, ok := v.(string); ok {
				headers.Set(k, s)
			}
		}
	})

	cc.logger.Debug("navigating", logging.Field{Key: "url", Value: req.URL})

	var html string
	err := chromedp.Run(runCtx,
		network.Enable(),
		chromedp.Navigate(req.URL),
		chromedp.OuterHTML("html", &html, chromedp.ByQuery),
	)
	if err != nil {
		// Respect the caller's context over the per-fetch timeout.
		if ctx.Err() != nil {
			err = ctx.Err()
		}
		cc.logger.Warn("chromedp navigation failed",
			logging.Field{Key: "url", Value: req.URL},
			logging.Field{Key: "error", Value: err.Error()})
		return nil, fmt.Errorf("chromedp fetch: %w", err)
	}

	mu.Lock()
	defer mu.Unlock()
	if statusCode == 0 {
		statusCode = http.StatusOK
	}
	return &Response{
		Request:    req,
		Body:       []byte(html),
		Headers:    headers,
		StatusCode: statusCode,
		FetchedAt:  time.Now(),
	}, nil
}

func (cc *ChromedpClient) Close() error {
	cc.closeOnce.Do(func() {
		cc.logger.Info("closing chromedp webclient")
		cc.allocCancel()
	})
	return nil
}
