// Command server runs the StorePOS backend: the store registry, the
// per-store catalog and sales APIs and the analytics reports.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	appaccount "github.com/storepos/backend/internal/application/account"
	appcatalog "github.com/storepos/backend/internal/application/catalog"
	apppartner "github.com/storepos/backend/internal/application/partner"
	appreport "github.com/storepos/backend/internal/application/report"
	appsales "github.com/storepos/backend/internal/application/sales"
	appstore "github.com/storepos/backend/internal/application/store"
	"github.com/storepos/backend/internal/infrastructure/auth"
	"github.com/storepos/backend/internal/infrastructure/cache"
	"github.com/storepos/backend/internal/infrastructure/config"
	"github.com/storepos/backend/internal/infrastructure/logger"
	"github.com/storepos/backend/internal/infrastructure/persistence"
	"github.com/storepos/backend/internal/infrastructure/telemetry"
	"github.com/storepos/backend/internal/interfaces/http/handler"
	"github.com/storepos/backend/internal/interfaces/http/router"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "server: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer func() { _ = logger.Sync(log) }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	tracerProvider, err := telemetry.NewTracerProvider(ctx, telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		return fmt.Errorf("init telemetry: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tracerProvider.Shutdown(shutdownCtx); err != nil {
			log.Warn("tracer shutdown failed", zap.Error(err))
		}
	}()

	db, err := persistence.NewDatabase(&cfg.Database)
	if err != nil {
		return fmt.Errorf("connect registry database: %w", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Warn("registry database close failed", zap.Error(err))
		}
	}()

	registry := persistence.NewRegistry(&cfg.Database, db.DB, log, cfg.Telemetry.Enabled)
	defer func() {
		if err := registry.Close(); err != nil {
			log.Warn("registry close failed", zap.Error(err))
		}
	}()

	var reportCache *cache.ReportCache
	reportCache, err = cache.NewReportCache(cache.RedisConfig{
		Host:     cfg.Redis.Host,
		Port:     cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	}, cfg.Report.CacheTTL)
	if err != nil {
		// Reports degrade to uncached computation without Redis.
		log.Warn("report cache unavailable", zap.Error(err))
		reportCache = nil
	} else {
		defer func() {
			if err := reportCache.Close(); err != nil {
				log.Warn("report cache close failed", zap.Error(err))
			}
		}()
	}

	userRepo := persistence.NewGormUserRepository(db.DB)
	storeRepo := persistence.NewGormStoreRepository(db.DB)
	supplierRepo := persistence.NewGormSupplierRepository(db.DB)
	couponRepo := persistence.NewGormCouponRepository(db.DB)
	tenants := persistence.NewTenantReposProvider(registry)

	tokens := auth.NewTokenService(&cfg.JWT)
	ownership := auth.NewStoreOwnershipVerifier(storeRepo)

	authService := appaccount.NewAuthService(userRepo, tokens, log)
	storeService := appstore.NewStoreService(storeRepo, registry, log)
	productService := appcatalog.NewProductService(tenants)
	supplierService := apppartner.NewSupplierService(supplierRepo, tenants)
	couponService := appsales.NewCouponService(couponRepo)
	salesService := appsales.NewSalesService(tenants, couponRepo, reportCache, log)
	analyticsService := appreport.NewAnalyticsService(tenants, log)
	reportService := appreport.NewReportService(analyticsService, reportCache, cfg.Report.RecentSalesSize, log)

	mode := gin.DebugMode
	if cfg.App.Env == "production" {
		mode = gin.ReleaseMode
	}
	engine := router.New(router.Config{
		Mode:        mode,
		Logger:      log,
		Tokens:      tokens,
		Ownership:   ownership,
		Traced:      cfg.Telemetry.Enabled,
		ServiceName: cfg.Telemetry.ServiceName,
		Handlers: router.Handlers{
			System:   handler.NewSystemHandler(db),
			Auth:     handler.NewAuthHandler(authService),
			Store:    handler.NewStoreHandler(storeService),
			Product:  handler.NewProductHandler(productService),
			Supplier: handler.NewSupplierHandler(supplierService),
			Coupon:   handler.NewCouponHandler(couponService),
			Sale:     handler.NewSaleHandler(salesService),
			Report:   handler.NewReportHandler(reportService),
		},
	})
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			return fmt.Errorf("set trusted proxies: %w", err)
		}
	}

	server := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server listening",
			zap.String("addr", server.Addr),
			zap.String("env", cfg.App.Env))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
