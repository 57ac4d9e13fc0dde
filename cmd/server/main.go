package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	catalogapp "github.com/verone/backoffice/internal/application/catalog"
	financeapp "github.com/verone/backoffice/internal/application/finance"
	insightapp "github.com/verone/backoffice/internal/application/insight"
	linkmeapp "github.com/verone/backoffice/internal/application/linkme"
	partnerapp "github.com/verone/backoffice/internal/application/partner"
	rentalapp "github.com/verone/backoffice/internal/application/rental"
	tradeapp "github.com/verone/backoffice/internal/application/trade"
	"github.com/verone/backoffice/internal/domain/trade"
	"github.com/verone/backoffice/internal/infrastructure/auth"
	"github.com/verone/backoffice/internal/infrastructure/cache"
	"github.com/verone/backoffice/internal/infrastructure/config"
	"github.com/verone/backoffice/internal/infrastructure/event"
	"github.com/verone/backoffice/internal/infrastructure/logger"
	"github.com/verone/backoffice/internal/infrastructure/persistence"
	"github.com/verone/backoffice/internal/infrastructure/printing"
	"github.com/verone/backoffice/internal/infrastructure/qonto"
	"github.com/verone/backoffice/internal/infrastructure/scheduler"
	"github.com/verone/backoffice/internal/infrastructure/storage"
	"github.com/verone/backoffice/internal/infrastructure/telemetry"
	"github.com/verone/backoffice/internal/interfaces/http/handler"
	"github.com/verone/backoffice/internal/interfaces/http/middleware"
	"github.com/verone/backoffice/internal/interfaces/http/router"
	"go.uber.org/zap"

	_ "github.com/verone/backoffice/docs"
)

//	@title			Verone Back-Office API
//	@version		1.0
//	@description	Back-office API: enseignes and organisations, LinkMe orders, invoicing, collections, contracts and insights.

//	@host		localhost:8080
//	@BasePath	/api/v1

//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Bearer token authentication. Format: "Bearer {token}"

// version is set at build time with -ldflags "-X main.version=..."
var version = "dev"

const (
	shutdownTimeout    = 30 * time.Second
	snapshotCacheTTL   = 24 * time.Hour
	healthCheckTimeout = 2 * time.Second
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting back-office service",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("version", version),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Tracing
	tracerProvider, err := telemetry.NewTracerProvider(ctx, telemetry.ConfigFrom(cfg.Telemetry, version), log)
	if err != nil {
		log.Fatal("Failed to initialize tracing", zap.Error(err))
	}
	metrics, err := telemetry.NewMetrics()
	if err != nil {
		log.Fatal("Failed to register metrics", zap.Error(err))
	}

	// Database
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, log, logger.MapGormLogLevel(cfg.Database.LogLevel))
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	dbTracing := telemetry.DefaultDBTracingConfig()
	dbTracing.Enabled = cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled
	dbTracing.DBName = cfg.Database.DBName
	if err := telemetry.RegisterDBTracing(db.DB, dbTracing, log); err != nil {
		log.Warn("Failed to enable database tracing", zap.Error(err))
	}
	log.Info("Database connected")

	// Cache, object storage, invoicing provider, PDF renderer
	store, err := cache.NewStore(cfg.Redis, cache.WithLogger(log))
	if err != nil {
		log.Fatal("Failed to initialize cache", zap.Error(err))
	}
	defer store.Close()

	documents, err := storage.New(&cfg.Storage, log)
	if err != nil {
		log.Fatal("Failed to initialize object storage", zap.Error(err))
	}
	if err := documents.EnsureBucket(ctx); err != nil {
		log.Warn("Document bucket unavailable", zap.Error(err))
	}

	qontoClient, err := qonto.NewClient(qonto.ConfigFrom(cfg.Qonto), log)
	if err != nil {
		log.Fatal("Failed to initialize Qonto client", zap.Error(err))
	}
	billing := qonto.NewProvider(qontoClient, log)

	var pdfRenderer printing.PDFRenderer = printing.DisabledRenderer{}
	if cfg.PDF.Enabled {
		chromeRenderer, err := printing.NewChromedpRenderer(printing.ChromedpConfigFrom(cfg.PDF, log))
		if err != nil {
			log.Fatal("Failed to initialize PDF renderer", zap.Error(err))
		}
		pdfRenderer = chromeRenderer
	}
	defer pdfRenderer.Close()
	contractRenderer, err := printing.NewContractDocumentRenderer(printing.NewTemplateEngine(), pdfRenderer)
	if err != nil {
		log.Fatal("Failed to load contract template", zap.Error(err))
	}

	// Worker pool
	jobs, err := scheduler.NewScheduler(scheduler.ConfigFrom(cfg.Scheduler), log)
	if err != nil {
		log.Fatal("Failed to create scheduler", zap.Error(err))
	}

	if cfg.LinkMe.ChannelID != "" {
		channelID, err := uuid.Parse(cfg.LinkMe.ChannelID)
		if err != nil {
			log.Fatal("Invalid LinkMe channel ID", zap.String("channel_id", cfg.LinkMe.ChannelID), zap.Error(err))
		}
		trade.LinkMeChannelID = channelID
	}

	// Repositories
	organisationRepo := persistence.NewGormOrganisationRepository(db.DB)
	enseigneRepo := persistence.NewGormEnseigneRepository(db.DB)
	affiliateRepo := persistence.NewGormAffiliateRepository(db.DB)
	selectionRepo := persistence.NewGormSelectionRepository(db.DB)
	salesOrderRepo := persistence.NewGormSalesOrderRepository(db.DB)
	customerDirectory := persistence.NewGormCustomerDirectory(db.DB)
	invoiceRepo := persistence.NewGormInvoiceRepository(db.DB)
	creditNoteRepo := persistence.NewGormCreditNoteRepository(db.DB)
	quoteRepo := persistence.NewGormQuoteRepository(db.DB)
	collectionRepo := persistence.NewGormCollectionRepository(db.DB)
	contractRepo := persistence.NewGormContractRepository(db.DB)

	// Domain events stay in process
	eventBus := event.NewInMemoryEventBus(log)
	if err := eventBus.Start(ctx); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}
	statsInvalidator := partnerapp.NewStatsInvalidator(store, log)
	eventBus.Subscribe(statsInvalidator, statsInvalidator.EventTypes()...)

	// Application services
	enseigneService := partnerapp.NewEnseigneService(enseigneRepo, organisationRepo, affiliateRepo, selectionRepo, salesOrderRepo, log)
	enseigneService.SetStatsCache(store, cfg.Redis.StatsTTL)
	enseigneService.SetEventPublisher(eventBus)
	organisationService := partnerapp.NewOrganisationService(organisationRepo, log)
	organisationService.SetEventPublisher(eventBus)
	affiliateService := linkmeapp.NewAffiliateService(affiliateRepo, enseigneRepo, organisationRepo)
	selectionService := linkmeapp.NewSelectionService(selectionRepo, affiliateRepo)
	orderService := tradeapp.NewLinkMeOrderService(salesOrderRepo, customerDirectory, log)
	orderService.SetEventPublisher(eventBus)
	invoiceService := financeapp.NewInvoiceService(invoiceRepo, creditNoteRepo, quoteRepo, billing, log,
		financeapp.WithPDFArchive(documents, billing),
		financeapp.WithJobSubmitter(jobs),
	)
	invoiceService.SetEventPublisher(eventBus)
	creditNoteService := financeapp.NewCreditNoteService(creditNoteRepo, invoiceRepo, billing, documents, billing, log)
	collectionService := catalogapp.NewCollectionService(collectionRepo, log)
	contractService := rentalapp.NewContractService(contractRepo, organisationRepo, contractRenderer, documents, log)
	predictionService := insightapp.NewPredictionService(salesOrderRepo, invoiceRepo, collectionRepo, contractRepo, log,
		insightapp.WithSnapshotCache(cache.NewSnapshotCache(store, snapshotCacheTTL)),
		insightapp.WithMetrics(metrics),
	)

	// Background work
	var predictionTrigger *scheduler.PeriodicTrigger
	if cfg.Scheduler.Enabled {
		if err := jobs.Start(ctx); err != nil {
			log.Fatal("Failed to start scheduler", zap.Error(err))
		}
		predictionTrigger = scheduler.NewPeriodicTrigger(insightapp.RunJobName, cfg.Scheduler.PredictionInterval, true,
			predictionService.Task(), jobs, log)
		if err := predictionTrigger.Start(ctx); err != nil {
			log.Fatal("Failed to start prediction trigger", zap.Error(err))
		}
		log.Info("Scheduler started",
			zap.Int("max_concurrent_jobs", cfg.Scheduler.MaxConcurrentJobs),
			zap.Duration("prediction_interval", cfg.Scheduler.PredictionInterval),
		)
	}

	// HTTP
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()

	engine := gin.New()
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	engine.Use(middleware.RequestID())
	engine.Use(logger.GinMiddleware(log))
	engine.Use(logger.Recovery(log))
	engine.Use(middleware.Tracing(cfg.Telemetry.ServiceName, tracerProvider.IsEnabled()))
	engine.Use(middleware.CORS(cfg.HTTP))
	engine.Use(middleware.Secure())
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))
	if cfg.Telemetry.MetricsEnabled {
		engine.Use(middleware.Metrics(metrics))
		engine.GET("/metrics", gin.WrapH(metrics.Handler()))
	}

	systemHandler := handler.NewSystemHandler(cfg.App.Name, version, map[string]handler.HealthCheck{
		"database": func(context.Context) error { return db.Ping() },
		"cache": func(ctx context.Context) error {
			_, err := store.GetJSON(ctx, "health", &struct{}{})
			return err
		},
	})
	engine.GET("/health", systemHandler.Health)
	engine.GET("/swagger/*any",
		middleware.SwaggerProtection(cfg.Swagger.Enabled, cfg.Swagger.AllowedIPs),
		ginSwagger.WrapHandler(swaggerFiles.Handler),
	)

	r := router.NewRouter(engine, router.WithAPIVersion("v1"))
	if cfg.JWT.Enabled {
		validator, err := auth.NewValidator(cfg.JWT)
		if err != nil {
			log.Fatal("Failed to initialize token validator", zap.Error(err))
		}
		authConfig := middleware.DefaultAuthConfig(validator)
		authConfig.Logger = log
		r.Use(middleware.Auth(authConfig))
	} else {
		log.Warn("JWT authentication disabled, API is open")
	}
	r.Use(middleware.TracingAttributes(), middleware.SpanErrorMarker())
	if cfg.HTTP.RateLimitEnabled {
		r.Use(middleware.RateLimit(middleware.RateLimitConfig{
			Counter: store,
			Limit:   cfg.HTTP.RateLimitRequests,
			Window:  cfg.HTTP.RateLimitWindow,
			Logger:  log,
		}))
	}

	groups := router.DomainGroups(router.Handlers{
		System:       systemHandler,
		Enseigne:     handler.NewEnseigneHandler(enseigneService),
		Organisation: handler.NewOrganisationHandler(organisationService),
		LinkMe:       handler.NewLinkMeHandler(affiliateService, selectionService),
		LinkMeOrder:  handler.NewLinkMeOrderHandler(orderService),
		Invoice:      handler.NewInvoiceHandler(invoiceService, creditNoteService),
		CreditNote:   handler.NewCreditNoteHandler(creditNoteService),
		Collection:   handler.NewCollectionHandler(collectionService),
		Contract:     handler.NewContractHandler(contractService),
		Insight:      handler.NewInsightHandler(predictionService),
	})
	routes := 0
	for _, g := range groups {
		r.Register(g)
		routes += len(g.Routes())
	}
	r.Setup()
	log.Info("Routes registered", zap.Int("count", routes), zap.String("base_path", r.BasePath()))

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}
	if predictionTrigger != nil {
		if err := predictionTrigger.Stop(shutdownCtx); err != nil {
			log.Warn("Prediction trigger stop failed", zap.Error(err))
		}
	}
	if jobs.IsRunning() {
		if err := jobs.Stop(shutdownCtx); err != nil {
			log.Warn("Scheduler stop failed", zap.Error(err))
		}
	}
	if err := eventBus.Stop(shutdownCtx); err != nil {
		log.Warn("Event bus stop failed", zap.Error(err))
	}
	if err := tracerProvider.Shutdown(shutdownCtx); err != nil {
		log.Warn("Tracer shutdown failed", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}
