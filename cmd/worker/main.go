// Package main is the entry point for the stockpile background worker.
// It periodically reconciles the stock ledger against materialized
// balances and places integrity holds on divergent products.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"stockpile/internal/config"
	"stockpile/internal/domain/registers/stock"
	"stockpile/internal/infrastructure/storage/postgres"
	"stockpile/internal/infrastructure/storage/postgres/catalog_repo"
	"stockpile/internal/infrastructure/storage/postgres/register_repo"
	"stockpile/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(logger.Config{
		Level:       cfg.LogLevel,
		Development: cfg.IsDevelopment(),
	})
	if err != nil {
		fmt.Printf("failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	log.Info("starting stockpile worker")

	pool, err := postgres.NewPool(ctx, postgres.PoolConfig{
		DSN:               cfg.DatabaseURL,
		MaxConns:          cfg.DBMaxConns,
		MinConns:          cfg.DBMinConns,
		MaxConnLifetime:   cfg.DBConnLifetime,
		MaxConnIdleTime:   cfg.DBConnIdleTime,
		HealthCheckPeriod: cfg.DBHealthCheck,
		ConnectTimeout:    cfg.DBConnectTimeout,
	})
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()

	txManager := postgres.NewTxManager(pool)
	stockRepo := register_repo.NewStockRepo(txManager)
	productRepo := catalog_repo.NewProductRepo(txManager)
	stockService := stock.NewService(stockRepo, productRepo, txManager)

	worker := NewReconcileWorker(stockService, cfg.ReconcileInterval, log)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		worker.Run(ctx)
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down worker...")
	cancel()

	wg.Wait()
	log.Info("worker stopped")
}

// ReconcileWorker runs the ledger reconciliation on a fixed interval.
type ReconcileWorker struct {
	stock    *stock.Service
	interval time.Duration
	log      *logger.Logger
}

func NewReconcileWorker(stockService *stock.Service, interval time.Duration, log *logger.Logger) *ReconcileWorker {
	return &ReconcileWorker{
		stock:    stockService,
		interval: interval,
		log:      log.WithComponent("reconcile_worker"),
	}
}

// Run reconciles once at startup, then on every tick until the context
// is canceled.
func (w *ReconcileWorker) Run(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.reconcile(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.reconcile(ctx)
		}
	}
}

func (w *ReconcileWorker) reconcile(ctx context.Context) {
	started := time.Now()

	report, err := w.stock.Reconcile(ctx)
	if err != nil {
		w.log.Errorw("reconciliation failed", "error", err)
		return
	}

	if report.Clean {
		w.log.Infow("reconciliation clean",
			"products_checked", report.ProductsChecked,
			"duration_ms", time.Since(started).Milliseconds(),
		)
		return
	}

	// Divergences are reported and held, never auto-healed. An operator
	// investigates and releases the hold through the API.
	w.log.Warnw("reconciliation found divergences",
		"products_checked", report.ProductsChecked,
		"product_mismatches", len(report.Products),
		"balance_mismatches", len(report.Balances),
		"held_products", len(report.HeldProducts),
		"duration_ms", time.Since(started).Milliseconds(),
	)
}
