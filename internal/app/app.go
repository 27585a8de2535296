package app

import (
	"context"
	"crypto/tls"
	"fmt"
	"log/slog"
	"os"
	"sync"

	"github.com/niksmo/storefront/config"
	"github.com/niksmo/storefront/internal/adapter"
	"github.com/niksmo/storefront/internal/adapter/auth"
	"github.com/niksmo/storefront/internal/adapter/httphandler"
	"github.com/niksmo/storefront/internal/adapter/kafka"
	"github.com/niksmo/storefront/internal/adapter/localstore"
	"github.com/niksmo/storefront/internal/adapter/memory"
	"github.com/niksmo/storefront/internal/adapter/metrics"
	"github.com/niksmo/storefront/internal/adapter/redisstore"
	"github.com/niksmo/storefront/internal/adapter/storage"
	"github.com/niksmo/storefront/internal/adapter/support"
	"github.com/niksmo/storefront/internal/core/domain"
	"github.com/niksmo/storefront/internal/core/port"
	"github.com/niksmo/storefront/internal/core/pricing"
	"github.com/niksmo/storefront/internal/core/service"
	"github.com/niksmo/storefront/pkg/schema"
	"github.com/redis/go-redis/v9"
	"github.com/twmb/franz-go/pkg/sr"
)

type stateStorage interface {
	port.StateStorage
	Close() error
}

type events struct {
	orders     kafka.OrdersProducer
	activity   *kafka.ActivityEmitter
	popularity *kafka.PopularityProcessor
	view       *kafka.PopularityView
}

type App struct {
	ctx        context.Context
	cfg        config.Config
	tlsConfig  *tls.Config
	sqldb      *storage.SQLDB
	catalog    port.CatalogRepository
	state      stateStorage
	events     *events
	metrics    *metrics.Metrics
	service    service.Service
	httpServer httphandler.HTTPServer
	wg         sync.WaitGroup
}

func New(ctx context.Context, cfg config.Config) *App {
	app := &App{ctx: ctx, cfg: cfg}

	app.initLogger()
	app.initTLS()
	app.initCatalog()
	app.initState()
	app.initEvents()
	app.initMetrics()
	app.initCoreService()
	app.initInboundAdapters()

	return app
}

func (app *App) initLogger() {
	opts := &slog.HandlerOptions{Level: app.cfg.LogLevel}
	logger := slog.New(slog.NewJSONHandler(os.Stderr, opts))
	slog.SetDefault(logger)
}

func (app *App) initTLS() {
	b := app.cfg.Broker
	if !b.Enabled() || !b.TLSEnabled() {
		return
	}
	app.tlsConfig = adapter.MakeTLSConfig(b.TLS.CA, b.TLS.Cert, b.TLS.Key)
	kafka.UseTLS(app.tlsConfig)
}

func (app *App) initCatalog() {
	const op = "App.initCatalog"

	if app.cfg.Catalog.Source == config.CatalogMemory {
		app.catalog = memory.NewSeededCatalog(memory.LatencyOpt(app.cfg.Catalog.Latency))
		return
	}

	sqldb, err := storage.NewSQLDB(app.ctx, app.cfg.Catalog.SQLDB)
	if err != nil {
		app.fallDown(op, err)
	}
	app.sqldb = &sqldb
	app.catalog = storage.NewProductsRepository(sqldb)
}

func (app *App) initState() {
	const op = "App.initState"
	cfg := app.cfg.State

	if cfg.Backend == config.StateRedis {
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, DB: cfg.RedisDB})
		if err := client.Ping(app.ctx).Err(); err != nil {
			app.fallDown(op, err)
		}
		app.state = redisstore.New(client, redisstore.TTLOpt(cfg.RedisTTL))
		return
	}

	store, err := localstore.Open(localstore.Config{
		Path:     cfg.BadgerPath,
		InMemory: cfg.BadgerInMemory,
	})
	if err != nil {
		app.fallDown(op, err)
	}
	app.state = store
}

func (app *App) initEvents() {
	const op = "App.initEvents"
	b := app.cfg.Broker

	if !b.Enabled() {
		slog.Warn("broker is not configured, orders are only logged")
		return
	}

	srOpts := []sr.ClientOpt{sr.URLs(b.SchemaRegistryURLs...)}
	if app.tlsConfig != nil {
		srOpts = append(srOpts, sr.DialTLSConfig(app.tlsConfig))
	}
	srClient, err := sr.NewClient(srOpts...)
	if err != nil {
		app.fallDown(op, err)
	}

	orderSerde, err := schema.NewSerdeOrderPlacedV1(
		app.ctx,
		schema.SubjectOpt(b.Topics.Orders+"-value"),
		schema.SchemaIdentifierOpt(schema.NewSchemaCreater(srClient)),
	)
	if err != nil {
		app.fallDown(op, err)
	}

	orders, err := kafka.NewOrdersProducer(
		kafka.ProducerClientOpt(app.ctx, b.SeedBrokers, b.Topics.Orders, app.tlsConfig),
		kafka.ProducerEncoderOpt(orderSerde),
	)
	if err != nil {
		app.fallDown(op, err)
	}

	activity, err := kafka.NewActivityEmitter(kafka.ActivityEmitterConfig{
		SeedBrokers: b.SeedBrokers,
		Topic:       b.Topics.Activity,
	})
	if err != nil {
		app.fallDown(op, err)
	}

	popularity, err := kafka.NewPopularityProcessor(kafka.PopularityProcessorConfig{
		SeedBrokers:   b.SeedBrokers,
		ActivityTopic: b.Topics.Activity,
		Group:         b.PopularityGroup,
	})
	if err != nil {
		app.fallDown(op, err)
	}

	view, err := kafka.NewPopularityView(kafka.PopularityViewConfig{
		SeedBrokers: b.SeedBrokers,
		Group:       b.PopularityGroup,
	})
	if err != nil {
		app.fallDown(op, err)
	}

	app.events = &events{
		orders:     orders,
		activity:   activity,
		popularity: popularity,
		view:       view,
	}
}

func (app *App) initMetrics() {
	if app.cfg.Metrics.Enabled {
		app.metrics = metrics.New()
	}
}

func (app *App) initCoreService() {
	const op = "App.initCoreService"
	p := app.cfg.Pricing

	rules, err := pricing.NewRules(
		p.ShippingFee, p.FreeShippingThreshold, p.TaxRate, pricing.TaxBasis(p.TaxBasis),
	)
	if err != nil {
		app.fallDown(op, err)
	}

	var (
		sessionOpts = []service.SessionsOpt{
			service.CacheOpt(app.cfg.State.SessionsMax, app.cfg.State.SessionIdleTTL),
		}
		serviceOpts = []service.Opt{
			service.RulesOpt(rules),
			service.ItemsPerPageOpt(p.ItemsPerPage),
			service.ContactOpt(support.NewMockInbox(support.LatencyOpt(app.cfg.Contact.Latency))),
		}
		orders port.OrderPublisher = loggingPublisher{}
	)

	if app.metrics != nil {
		sessionOpts = append(sessionOpts, service.ActivityListenerOpt(app.metrics.ActivityListener()))
	}
	if app.events != nil {
		orders = app.events.orders
		sessionOpts = append(sessionOpts, service.ActivityListenerOpt(app.events.activity.Listener()))
		serviceOpts = append(serviceOpts, service.PopularityOpt(app.events.view))
	}

	authProvider := auth.NewMockProvider(auth.LatencyOpt(app.cfg.Auth.Latency))
	sessions := service.NewSessions(app.state, authProvider, sessionOpts...)
	app.service = service.New(app.catalog, sessions, orders, serviceOpts...)
}

func (app *App) initInboundAdapters() {
	var mc httphandler.MetricsCollector
	if app.metrics != nil {
		mc = app.metrics
	}

	handler := httphandler.NewRouter(app.service, mc)
	app.httpServer = httphandler.NewHTTPServer(
		app.cfg.HTTPServerAddr,
		handler,
		httphandler.RequestTimeoutOpt(app.cfg.RequestTimeout),
	)
}

func (app *App) Run(stopFn context.CancelFunc) {
	if app.events != nil {
		go app.events.view.Run(app.ctx)
		app.wg.Add(1)
		go app.events.popularity.Run(app.ctx, stopFn, &app.wg)
	}

	go app.httpServer.Run(stopFn)

	slog.Info("application is running")
}

func (app *App) Close(ctx context.Context) {
	slog.Info("application is closing...")

	app.httpServer.Close(ctx)

	if app.events != nil {
		app.wg.Wait()
		app.events.popularity.Close()
		app.events.activity.Close()
		app.events.orders.Close()
	}

	if err := app.state.Close(); err != nil {
		slog.Error("failed to close state storage", "err", err)
	}
	if app.sqldb != nil {
		app.sqldb.Close()
	}

	slog.Info("application is closed")
}

func (app *App) fallDown(op string, err error) {
	panic(fmt.Errorf("%s: %w", op, err))
}

// loggingPublisher stands in for the orders producer when no broker is
// configured.
type loggingPublisher struct{}

func (loggingPublisher) PublishOrder(_ context.Context, o domain.Order) error {
	slog.Info(
		"order placed",
		"orderID", o.ID,
		"session", o.SessionID,
		"total", o.Totals.Total.StringFixed(2),
		"nItems", len(o.Items),
	)
	return nil
}
