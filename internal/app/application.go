package app

import (
	"context"
	"errors"
	"net"

	"github.com/scanforge/scanforge/internal/interfaces"
	"github.com/scanforge/scanforge/internal/logging"
	"github.com/scanforge/scanforge/internal/notify"
	"github.com/scanforge/scanforge/internal/store"
	"github.com/scanforge/scanforge/internal/webclient"
)

// Application is the runtime container: config plus the shared services
// (store, web client, orchestrator). Pass Application into modules that
// need the global state rather than using package-level variables.
type Application struct {
	Config *Config
	Logger logging.Logger
	Store  interfaces.Store
	Orch   *Orchestrator

	client interfaces.WebClient
}

// netResolver adapts *net.Resolver to the probes.Resolver interface.
type netResolver struct {
	r *net.Resolver
}

func (n netResolver) LookupHost(ctx context.Context, host string) ([]string, error) {
	return n.r.LookupHost(ctx, host)
}

func (n netResolver) LookupAddr(ctx context.Context, addr string) ([]string, error) {
	return n.r.LookupAddr(ctx, addr)
}

func (n netResolver) LookupTXT(ctx context.Context, name string) ([]string, error) {
	return n.r.LookupTXT(ctx, name)
}

func (n netResolver) LookupMX(ctx context.Context, name string) ([]*net.MX, error) {
	return n.r.LookupMX(ctx, name)
}

func (n netResolver) LookupNS(ctx context.Context, name string) ([]*net.NS, error) {
	return n.r.LookupNS(ctx, name)
}

// NewApplication builds the full production wiring: SQLite store, the
// configured web client backend, an SMTP or log notifier, and the
// orchestrator on top of real network collaborators.
func NewApplication(cfg *Config, logger logging.Logger) (*Application, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if logger == nil {
		logger = logging.NewStdoutLogger("scanforge")
	}

	st, err := store.New(cfg.DatabasePath, logger)
	if err != nil {
		return nil, err
	}

	client, err := webclient.New(cfg.WebClientCfg, logger)
	if err != nil {
		st.Close()
		return nil, err
	}

	var notifier interfaces.Notifier
	if cfg.NotifyCfg.Host != "" {
		notifier, err = notify.NewSMTPNotifier(cfg.NotifyCfg, logger)
		if err != nil {
			client.Close()
			st.Close()
			return nil, err
		}
	} else {
		notifier = notify.NewLogNotifier(logger)
	}

	orch := NewOrchestrator(cfg, Deps{
		Store:     st,
		Notifier:  notifier,
		WebClient: client,
		Resolver:  netResolver{r: net.DefaultResolver},
		Dialer:    &net.Dialer{},
		Logger:    logger,
	})

	return &Application{
		Config: cfg,
		Logger: logger,
		Store:  st,
		Orch:   orch,
		client: client,
	}, nil
}

// Close releases the store and web client.
func (a *Application) Close() error {
	if a == nil {
		return errors.New("application is nil")
	}
	var firstErr error
	if a.client != nil {
		if err := a.client.Close(); err != nil {
			firstErr = err
		}
	}
	if a.Store != nil {
		if err := a.Store.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
