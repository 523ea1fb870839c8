package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/osse101/MarketCrafter_Go/internal/config"
	"github.com/osse101/MarketCrafter_Go/internal/fetch"
	"github.com/osse101/MarketCrafter_Go/internal/handler"
	"github.com/osse101/MarketCrafter_Go/internal/planner"
	"github.com/osse101/MarketCrafter_Go/internal/remote"
	"github.com/osse101/MarketCrafter_Go/internal/resolver"
	"github.com/osse101/MarketCrafter_Go/internal/server"
	"github.com/osse101/MarketCrafter_Go/internal/snapshot"
	"github.com/osse101/MarketCrafter_Go/internal/universalis"
	"github.com/osse101/MarketCrafter_Go/internal/worker"
	"github.com/osse101/MarketCrafter_Go/internal/xivapi"
)

// App holds every long-lived component of the server.
type App struct {
	Config        *config.Config
	Store         snapshot.Store
	Events        *EventSystem
	Catalog       *xivapi.Catalog
	Market        *universalis.Market
	Engine        *resolver.Engine
	Dispatcher    *fetch.Dispatcher
	Planner       planner.Service
	RefreshWorker *worker.RefreshWorker
	Server        *server.Server
}

// NewApp wires the components without starting any goroutine other than
// the event hub. On error everything opened so far is closed.
func NewApp(ctx context.Context, cfg *config.Config) (app *App, err error) {
	store, err := OpenStore(ctx, cfg)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			_ = store.Close()
		}
	}()

	events, err := InitializeEventSystem(cfg)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			events.Hub.Stop()
		}
	}()

	xivapiHTTP, err := remote.New(ProviderXIVAPI, remote.Config{
		BaseURL:     cfg.XIVAPIBaseURL,
		MinInterval: cfg.XIVAPIMinInterval,
		MaxRetries:  cfg.FetchMaxRetries,
		Timeout:     RemoteTimeout,
		UserAgent:   UserAgent,
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedCreateRemoteClient, err)
	}
	universalisHTTP, err := remote.New(ProviderUniversalis, remote.Config{
		BaseURL:     cfg.UniversalisBaseURL,
		MinInterval: cfg.UniversalisMinInterval,
		MaxRetries:  cfg.FetchMaxRetries,
		Timeout:     RemoteTimeout,
		UserAgent:   UserAgent,
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedCreateRemoteClient, err)
	}

	catalog := xivapi.NewCatalog(xivapi.NewClient(xivapiHTTP), store, cfg.CatalogTTL)
	market := universalis.NewMarket(universalis.NewClient(universalisHTTP), store, cfg.ListingsTTL, cfg.FreshListingsTTL)

	// The engine and the dispatcher reference each other
	engine := resolver.New(nil, events.Bus,
		resolver.WithRevenueFunc(resolver.RevenueFuncFor(cfg.RevenuePolicy)),
		resolver.WithSellerID(cfg.SellerID),
	)
	dispatcher := fetch.NewDispatcher(catalog, market, engine, fetch.Config{
		WorldID:      cfg.WorldID,
		DedupeWindow: cfg.RequestDedupeWindow,
		Workers:      cfg.FetchWorkers,
	})
	engine.SetRequester(dispatcher)

	plannerSvc := planner.NewService(catalog, engine, dispatcher, store, catalog, market)
	refreshWorker := worker.NewRefreshWorker(plannerSvc, cfg.RefreshInterval, cfg.AutoRefresh)

	srv := server.NewServer(server.Config{
		Port:           cfg.Port,
		APIKey:         cfg.APIKey,
		TrustedProxies: cfg.TrustedProxies,
		RateLimit: server.RateLimitConfig{
			RequestsPerSecond: cfg.RateLimitRPS,
			Burst:             cfg.RateLimitBurst,
			Window:            server.DefaultActivityWindow,
		},
		Build: handler.BuildInfo{
			Version:       cfg.Version,
			WorldID:       cfg.WorldID,
			RevenuePolicy: cfg.RevenuePolicy,
		},
	}, server.Deps{
		Planner:     plannerSvc,
		AutoRefresh: refreshWorker,
		Hub:         events.Hub,
		Readiness: map[string]handler.HealthChecker{
			ReadinessStore: handler.CheckFunc(func(ctx context.Context) error {
				_, err := store.List(ctx)
				return err
			}),
			ReadinessEngine: handler.CheckFunc(func(ctx context.Context) error {
				_, err := engine.KnownItems(ctx)
				return err
			}),
		},
	})

	return &App{
		Config:        cfg,
		Store:         store,
		Events:        events,
		Catalog:       catalog,
		Market:        market,
		Engine:        engine,
		Dispatcher:    dispatcher,
		Planner:       plannerSvc,
		RefreshWorker: refreshWorker,
		Server:        srv,
	}, nil
}

// Start loads the persisted caches, starts the engine, the fetch pools and
// the refresh worker, and reloads the job configuration. The job table
// needs the catalog, so a catalog outage only disables job levels.
func (a *App) Start(ctx context.Context) error {
	if err := a.Catalog.Load(ctx); err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedLoadSnapshot, err)
	}
	if err := a.Market.Load(ctx); err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedLoadSnapshot, err)
	}

	a.Engine.Start(ctx)
	a.Dispatcher.Start(ctx)

	if err := a.Planner.LoadJobs(ctx); err != nil {
		slog.Warn(LogMsgJobsLoadFailed, "error", err)
	}

	a.RefreshWorker.Start(ctx)

	slog.Info(LogMsgComponentsStarted,
		"catalog", a.Catalog.Stats(),
		"listings", a.Market.Len(),
		"auto_refresh", a.RefreshWorker.Enabled())
	return nil
}

// Run starts the app and serves HTTP until ctx is cancelled or the server
// fails, then shuts everything down.
func (a *App) Run(ctx context.Context) error {
	// Start only fails before any worker goroutine exists
	if err := a.Start(ctx); err != nil {
		a.Events.Hub.Stop()
		_ = a.Store.Close()
		return err
	}

	serveErr := make(chan error, 1)
	go func() { serveErr <- a.Server.Start() }()

	var err error
	select {
	case <-ctx.Done():
		slog.Info(LogMsgShutdownSignal)
	case err = <-serveErr:
	}

	a.Shutdown(context.WithoutCancel(ctx))
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// Shutdown stops every component within ShutdownTimeout.
func (a *App) Shutdown(parent context.Context) {
	ctx, cancel := context.WithTimeout(parent, ShutdownTimeout)
	defer cancel()

	components := ShutdownComponents{
		Server:        a.Server,
		RefreshWorker: a.RefreshWorker,
		Dispatcher:    a.Dispatcher,
		Engine:        a.Engine,
		Planner:       a.Planner,
		Hub:           a.Events.Hub,
		Store:         a.Store,
	}
	if a.Events.Notifier != nil {
		components.Notifier = a.Events.Notifier
	}
	GracefulShutdown(ctx, components)
}
