// Package router assembles the gin engine: global middleware, public
// routes and the store-scoped API surface.
package router

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"

	"github.com/storepos/backend/internal/infrastructure/auth"
	"github.com/storepos/backend/internal/interfaces/http/handler"
	"github.com/storepos/backend/internal/interfaces/http/middleware"
)

// Handlers bundles every handler the router mounts
type Handlers struct {
	System   *handler.SystemHandler
	Auth     *handler.AuthHandler
	Store    *handler.StoreHandler
	Product  *handler.ProductHandler
	Supplier *handler.SupplierHandler
	Coupon   *handler.CouponHandler
	Sale     *handler.SaleHandler
	Report   *handler.ReportHandler
}

// Config holds everything required to assemble the engine
type Config struct {
	Mode        string
	Logger      *zap.Logger
	Tokens      *auth.TokenService
	Ownership   auth.OwnershipVerifier
	Handlers    Handlers
	Traced      bool
	ServiceName string
}

// New builds the gin engine with the full route table. Registration
// and login are the only public API routes; everything store-scoped
// sits behind authentication plus the ownership check, so a caller can
// never reach another owner's store data.
func New(cfg Config) *gin.Engine {
	if cfg.Mode != "" {
		gin.SetMode(cfg.Mode)
	}
	registerValidations()
	engine := gin.New()
	engine.Use(
		middleware.Recovery(cfg.Logger),
		middleware.RequestLogger(cfg.Logger),
	)
	if cfg.Traced {
		engine.Use(otelgin.Middleware(cfg.ServiceName))
	}

	engine.GET("/health", cfg.Handlers.System.Health)
	engine.GET("/system/info", cfg.Handlers.System.Info)

	api := engine.Group("/api/v1")

	accounts := api.Group("/auth")
	{
		accounts.POST("/register", cfg.Handlers.Auth.Register)
		accounts.POST("/login", cfg.Handlers.Auth.Login)
	}

	protected := api.Group("")
	protected.Use(middleware.Authentication(cfg.Tokens))

	stores := protected.Group("/stores")
	{
		stores.POST("", cfg.Handlers.Store.Create)
		stores.GET("", cfg.Handlers.Store.List)
	}

	scoped := stores.Group("/:store_id")
	scoped.Use(middleware.StoreScope(cfg.Ownership))
	{
		scoped.GET("", cfg.Handlers.Store.Get)
		scoped.PUT("", cfg.Handlers.Store.Update)
		scoped.DELETE("", cfg.Handlers.Store.Delete)

		products := scoped.Group("/products")
		{
			products.POST("", cfg.Handlers.Product.Create)
			products.GET("", cfg.Handlers.Product.List)
			products.GET("/:id", cfg.Handlers.Product.Get)
			products.PUT("/:id", cfg.Handlers.Product.Update)
			products.POST("/:id/stock", cfg.Handlers.Product.AdjustStock)
			products.GET("/:id/suppliers", cfg.Handlers.Supplier.ProductSuppliers)
			products.DELETE("/:id", cfg.Handlers.Product.Delete)
		}

		suppliers := scoped.Group("/suppliers")
		{
			suppliers.POST("", cfg.Handlers.Supplier.Create)
			suppliers.GET("", cfg.Handlers.Supplier.List)
			suppliers.GET("/:id", cfg.Handlers.Supplier.Get)
			suppliers.PUT("/:id", cfg.Handlers.Supplier.Update)
			suppliers.DELETE("/:id", cfg.Handlers.Supplier.Delete)
			suppliers.PUT("/:id/products/:product_id", cfg.Handlers.Supplier.LinkProduct)
			suppliers.DELETE("/:id/products/:product_id", cfg.Handlers.Supplier.UnlinkProduct)
		}

		coupons := scoped.Group("/coupons")
		{
			coupons.POST("", cfg.Handlers.Coupon.Create)
			coupons.GET("", cfg.Handlers.Coupon.List)
			coupons.GET("/:code", cfg.Handlers.Coupon.Get)
			coupons.POST("/:code/expire", cfg.Handlers.Coupon.Expire)
			coupons.DELETE("/:id", cfg.Handlers.Coupon.Delete)
		}

		salesRoutes := scoped.Group("/sales")
		{
			salesRoutes.POST("", cfg.Handlers.Sale.Record)
			salesRoutes.GET("", cfg.Handlers.Sale.List)
			salesRoutes.GET("/:id", cfg.Handlers.Sale.Get)
		}

		reports := scoped.Group("/reports")
		{
			reports.GET("/sales", cfg.Handlers.Report.Sales)
			reports.GET("/inventory", cfg.Handlers.Report.Inventory)
			reports.GET("/realtime", cfg.Handlers.Report.Realtime)
		}
	}

	return engine
}
