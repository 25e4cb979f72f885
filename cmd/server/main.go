package main

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"tradedesk-system/config"
	"tradedesk-system/internal/auth"
	"tradedesk-system/internal/database"
	"tradedesk-system/internal/httpserver/handlers"
	"tradedesk-system/internal/httpserver/middleware"
	"tradedesk-system/internal/services/analytics"
	"tradedesk-system/internal/services/catalog"
	"tradedesk-system/internal/services/sales"
	"tradedesk-system/internal/services/users"
)

func main() {
	cfg := config.LoadConfig()

	db, err := database.NewConnection(cfg.DB.DSN())
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	rdb := config.NewRedisClient(cfg.Redis)

	tokens := auth.NewTokenManager(cfg.JWTSecret)
	userSvc := users.NewService(db, tokens)
	catalogSvc := catalog.NewService(db, rdb)
	salesEngine := sales.NewEngine(db)
	analyticsSvc := analytics.NewService(db, rdb)

	authHandler := handlers.NewAuthHTTPHandler(userSvc)
	catalogHandler := handlers.NewCatalogHTTPHandler(catalogSvc)
	salesHandler := handlers.NewSalesHTTPHandler(salesEngine)
	analyticsHandler := handlers.NewAnalyticsHTTPHandler(analyticsSvc)
	adminHandler := handlers.NewAdminHTTPHandler(db, cfg.InitDBKey)

	r := gin.Default()

	r.Use(middleware.CORS())

	// --- Public routes ---
	public := r.Group("/")
	public.Use(middleware.RateLimit("20-M"))
	{
		public.POST("/auth/login", authHandler.Login)
		public.POST("/auth/register", authHandler.Register)
		public.POST("/init-db", adminHandler.InitDB)
	}

	// --- Protected routes ---
	protected := r.Group("/")
	protected.Use(middleware.JWTAuth(tokens, userSvc))
	{
		protected.GET("/products", catalogHandler.ListProducts)
		protected.POST("/products", catalogHandler.CreateProduct)
		protected.PUT("/products", catalogHandler.UpdateProduct)
		protected.DELETE("/products", catalogHandler.DeleteProduct)
		protected.GET("/products/price-history", catalogHandler.ProductPriceHistory)

		protected.GET("/categories", catalogHandler.ListCategories)
		protected.POST("/categories", catalogHandler.CreateCategory)

		protected.GET("/customers", catalogHandler.ListCustomers)
		protected.POST("/customers", catalogHandler.CreateCustomer)
		protected.PUT("/customers", catalogHandler.UpdateCustomer)
		protected.DELETE("/customers", catalogHandler.DeleteCustomer)

		protected.GET("/suppliers", catalogHandler.ListSuppliers)
		protected.POST("/suppliers", catalogHandler.CreateSupplier)
		protected.PUT("/suppliers", catalogHandler.UpdateSupplier)
		protected.DELETE("/suppliers", catalogHandler.DeleteSupplier)

		protected.GET("/services", catalogHandler.ListServices)
		protected.POST("/services", catalogHandler.CreateService)
		protected.PUT("/services", catalogHandler.UpdateService)
		protected.DELETE("/services", catalogHandler.DeleteService)

		protected.GET("/sales", salesHandler.ListSales)
		protected.POST("/sales", salesHandler.CreateSale)
		protected.PUT("/sales", salesHandler.UpdateSale)
		protected.DELETE("/sales", salesHandler.DeleteSale)

		protected.GET("/analytics", analyticsHandler.Dashboard)
	}

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"message":   "Server is running",
			"timestamp": time.Now(),
		})
	})

	log.Printf("Starting server on port %s", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
