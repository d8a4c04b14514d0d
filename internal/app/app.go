package app

import (
	"context"
	"crypto/tls"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/niksmo/storefront/config"
	"github.com/niksmo/storefront/internal/adapter"
	"github.com/niksmo/storefront/internal/adapter/httphandler"
	"github.com/niksmo/storefront/internal/adapter/kafka"
	"github.com/niksmo/storefront/internal/adapter/umbraco"
	"github.com/niksmo/storefront/internal/core/service"
	"github.com/niksmo/storefront/internal/metrics"
	"github.com/niksmo/storefront/pkg/schema"
	"github.com/twmb/franz-go/pkg/kgo"
	"github.com/twmb/franz-go/pkg/sr"
)

// Listings read the collection before its products, so a request may
// spend two upstream timeouts.
const upstreamCallsPerRequest = 2

type upstream struct {
	commerce umbraco.Commerce
	content  umbraco.Content
}

type App struct {
	ctx        context.Context
	cfg        config.Config
	tlsConfig  *tls.Config
	metrics    *metrics.Registry
	serde      schema.Serde
	upstream   upstream
	producer   kafka.InvalidationProducer
	service    service.Service
	httpServer httphandler.HTTPServer
}

func New(ctx context.Context, cfg config.Config) *App {
	app := &App{ctx: ctx, cfg: cfg}

	app.initLogger()
	app.initMetrics()
	app.initTLS()
	app.initSerdes()
	app.initOutboundAdapters()
	app.initCoreService()
	app.initInboundAdapters()

	return app
}

func (app *App) initLogger() {
	opts := &slog.HandlerOptions{Level: app.cfg.LogLevel}
	logger := slog.New(slog.NewJSONHandler(os.Stderr, opts))
	slog.SetDefault(logger)
}

func (app *App) initMetrics() {
	if app.cfg.MetricsEnabled {
		app.metrics = metrics.NewRegistry()
	}
}

func (app *App) initTLS() {
	const op = "App.initTLS"

	t := app.cfg.Broker.TLS
	if t.CA == "" {
		return
	}

	tlsConfig, err := adapter.MakeTLSConfig(t.CA, t.Cert, t.Key)
	if err != nil {
		app.fallDown(op, err)
	}
	app.tlsConfig = tlsConfig
}

func (app *App) initSerdes() {
	const op = "App.initSerdes"

	srOpts := []sr.ClientOpt{sr.URLs(app.cfg.Broker.SchemaRegistryURLs...)}
	if app.tlsConfig != nil {
		srOpts = append(srOpts, sr.DialTLSConfig(app.tlsConfig))
	}

	srClient, err := sr.NewClient(srOpts...)
	if err != nil {
		app.fallDown(op, err)
	}

	serde, err := schema.NewSerdeInvalidationV1(
		app.ctx,
		schema.SubjectOpt(schema.TopicSubject(app.cfg.Broker.InvalidationTopic)),
		schema.SchemaIdentifierOpt(schema.NewRegistry(srClient)),
	)
	if err != nil {
		app.fallDown(op, err)
	}

	app.serde = serde
}

func (app *App) initOutboundAdapters() {
	const op = "App.initOutboundAdapters"

	umbracoCfg := app.cfg.Umbraco
	client := umbraco.NewClient(umbracoCfg, nil, app.metrics)
	reshaper := umbraco.NewReshaper(umbracoCfg.BaseURL, umbracoCfg.DefaultCurrency)

	app.upstream.commerce = umbraco.NewCommerce(client, reshaper, umbracoCfg.DefaultCurrency)
	app.upstream.content = umbraco.NewContent(client, reshaper)

	var extra []kgo.Opt
	if app.tlsConfig != nil {
		extra = append(extra, kgo.DialTLSConfig(app.tlsConfig))
	}

	producer, err := kafka.NewInvalidationProducer(
		kafka.ProducerClientOpt(
			app.ctx,
			app.cfg.Broker.SeedBrokers,
			app.cfg.Broker.InvalidationTopic,
			extra...,
		),
		kafka.ProducerEncoderOpt(app.serde),
		kafka.ProducerMetricsOpt(app.metrics),
	)
	if err != nil {
		app.fallDown(op, err)
	}

	app.producer = producer
}

func (app *App) initCoreService() {
	app.service = service.New(
		app.upstream.commerce,
		app.upstream.content,
		app.producer,
		app.cfg.RevalidationSecret,
	)
}

func (app *App) initInboundAdapters() {
	api := http.NewServeMux()
	httphandler.RegisterCarts(api, app.service)
	httphandler.RegisterCatalog(api, app.service)
	httphandler.RegisterContent(api, app.service)

	mux := http.NewServeMux()
	mux.Handle("/v1/", httphandler.AllowJSON(api))
	httphandler.RegisterRevalidate(mux, app.service)
	if app.metrics != nil {
		mux.Handle("GET /metrics", app.metrics.Handler())
	}

	requestTimeout := upstreamCallsPerRequest*app.cfg.Umbraco.RequestTimeout + time.Second
	app.httpServer = httphandler.NewHTTPServer(
		app.cfg.HTTPServerAddr,
		httphandler.WithRequestID(mux),
		requestTimeout,
	)
}

func (app *App) Run(stopFn context.CancelFunc) {
	go app.httpServer.Run(stopFn)

	slog.Info("application is running")
}

func (app *App) Close(ctx context.Context) {
	slog.Info("application is closing...")

	app.httpServer.Close(ctx)
	app.producer.Close()

	slog.Info("application is closed")
}

func (app *App) fallDown(op string, err error) {
	panic(fmt.Errorf("%s: %w", op, err))
}
