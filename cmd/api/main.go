package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"

	appanalytics "github.com/jhoicas/pos-admin/internal/application/analytics"
	"github.com/jhoicas/pos-admin/internal/application/billing"
	"github.com/jhoicas/pos-admin/internal/application/ports"
	"github.com/jhoicas/pos-admin/internal/application/sales"
	"github.com/jhoicas/pos-admin/internal/application/seed"
	"github.com/jhoicas/pos-admin/internal/domain/repository"
	"github.com/jhoicas/pos-admin/internal/infrastructure/cache"
	"github.com/jhoicas/pos-admin/internal/infrastructure/memory"
	"github.com/jhoicas/pos-admin/internal/infrastructure/metrics"
	infrapdf "github.com/jhoicas/pos-admin/internal/infrastructure/pdf"
	"github.com/jhoicas/pos-admin/internal/infrastructure/postgres"
	"github.com/jhoicas/pos-admin/internal/infrastructure/ubl"
	httpRouter "github.com/jhoicas/pos-admin/internal/interfaces/http"
	"github.com/jhoicas/pos-admin/pkg/config"
	"github.com/jhoicas/pos-admin/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	// Montos como números JSON (21.6), no como strings.
	decimal.MarshalJSONWithoutQuotes = true

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.App.LogLevel,
		Service: cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("store", cfg.App.StoreDriver).
		Msg("iniciando aplicación")

	ctx := context.Background()

	var (
		txRunner repository.TxRunner
		repos    repository.Repositories
	)
	switch cfg.App.StoreDriver {
	case "memory":
		store := memory.New()
		if err := seed.Load(ctx, store, seed.Generate(seed.Options{Seed: uint64(time.Now().UnixNano())})); err != nil {
			log.Fatal().Err(err).Msg("cargar datos de ejemplo en memoria")
		}
		txRunner, repos = store, store.Repositories()
		log.Warn().Msg("store en memoria: los datos se pierden al reiniciar")
	default:
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a PostgreSQL")
		}
		defer pool.Close()
		if cfg.DB.AutoMigrate {
			if err := postgres.Migrate(ctx, pool, postgres.MigrateUp); err != nil {
				log.Fatal().Err(err).Msg("migraciones")
			}
		}
		txRunner, repos = postgres.NewTxRunner(pool), postgres.NewRepositories(pool)
	}

	// Caché del dashboard: Redis si está configurado y responde; si no, sin caché.
	var summaryCache ports.SummaryCache = cache.NoopSummaryCache{}
	if cfg.Redis.Enabled() {
		rc := cache.NewRedisSummaryCache(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
		err := rc.Ping(pingCtx)
		cancel()
		if err != nil {
			log.Warn().Err(err).Str("addr", cfg.Redis.Addr).Msg("Redis no disponible, dashboard sin caché")
			_ = rc.Close()
		} else {
			summaryCache = rc
			defer rc.Close()
		}
	}

	var (
		reg      *metrics.Registry
		recorder ports.Recorder = ports.NopRecorder{}
	)
	if cfg.Metrics.Enabled {
		reg = metrics.New(prometheus.Labels{"env": cfg.App.Env})
		recorder = reg
	}

	billingCfg := billing.Config{
		InvoiceTaxRate: cfg.Billing.InvoiceTaxRate,
		DueDays:        cfg.Billing.DueDays,
		CompanyName:    cfg.Billing.CompanyName,
	}

	deps := httpRouter.RouterDeps{
		DashboardUC:   appanalytics.NewDashboardUseCase(repos.Transactions, summaryCache, cfg.Redis.CacheTTL, recorder),
		TransactionUC: sales.NewTransactionUseCase(txRunner, repos.Transactions, summaryCache, recorder, cfg.Billing.TransactionTaxRate),
		InvoiceUC:     billing.NewInvoiceUseCase(txRunner, repos.Invoices, repos.Receipts, recorder, billingCfg),
		DocumentUC:    billing.NewDocumentUseCase(repos.Invoices, infrapdf.NewMarotoPDFGenerator(), ubl.NewInvoiceXMLBuilder(), billingCfg),
		ReceiptUC:     billing.NewReceiptUseCase(txRunner, repos.Receipts, recorder),
	}

	// Swagger UI en local: http://localhost:<port>/docs
	app := httpRouter.NewServer(httpRouter.ServerOptions{
		AppName:        cfg.App.Name,
		AllowedOrigins: cfg.HTTP.AllowedOrigins,
		Logger:         log.Component("http"),
		Metrics:        reg,
		SwaggerFile:    "./docs/swagger.json",
	}, deps)

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
