package main

import (
	"context"
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gst-reporting-service/internal/clients/ordersapi"
	"gst-reporting-service/internal/config"
	"gst-reporting-service/internal/database"
	"gst-reporting-service/internal/events"
	"gst-reporting-service/internal/handlers"
	"gst-reporting-service/internal/middleware"
	"gst-reporting-service/internal/repository"
	"gst-reporting-service/internal/services"
)

func main() {
	// Load .env if present (local development)
	_ = godotenv.Load()

	// Load configuration
	cfg := config.Load()

	// Connect to database
	db, err := config.InitDB(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	log.Println("✓ Connected to database")

	// Run automated database migrations
	if err := database.RunMigrations(db); err != nil {
		log.Fatalf("Failed to run database migrations: %v", err)
	}

	// Connect to Redis (optional; repositories fall back to DB-only reads)
	redisClient := initRedis(cfg)

	// Initialize NATS events publisher (non-blocking)
	eventLogger := logrus.New()
	eventLogger.SetFormatter(&logrus.JSONFormatter{})
	eventLogger.SetLevel(logrus.InfoLevel)
	go func() {
		if err := events.InitPublisher(eventLogger); err != nil {
			log.Printf("WARNING: Failed to initialize events publisher: %v (events won't be published)", err)
		} else {
			log.Println("✓ NATS events publisher initialized")
		}
	}()

	// Initialize repositories
	reportRepo := repository.NewReportRepository(db, redisClient)
	billRepo := repository.NewBillRepository(db, redisClient)
	invoiceRepo := repository.NewInvoiceRepository(db, redisClient)

	// Initialize services
	ordersClient := ordersapi.NewClient(cfg.OrdersAPIURL)
	serviceLogger := eventLogger.WithField("component", "report-service")
	reportService := services.NewReportService(reportRepo, billRepo, invoiceRepo, ordersClient, serviceLogger)

	// Initialize handlers
	reportHandler := handlers.NewReportHandler(reportService)
	billHandler := handlers.NewBillHandler(billRepo, reportService)
	invoiceHandler := handlers.NewInvoiceHandler(invoiceRepo, reportService)

	// Setup router
	router := setupRouter(reportHandler, billHandler, invoiceHandler, db)

	// Start server
	log.Printf("GST Reporting Service starting on port %s (env: %s)", cfg.Port, cfg.Environment)
	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// initRedis connects to Redis from REDIS_URL. A missing or unreachable Redis
// is not fatal; caching is simply disabled.
func initRedis(cfg *config.Config) *redis.Client {
	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		log.Printf("WARNING: Invalid REDIS_URL: %v (caching disabled)", err)
		return nil
	}

	client := redis.NewClient(opts)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		log.Printf("WARNING: Redis unavailable: %v (caching disabled)", err)
		return nil
	}

	log.Println("✓ Connected to Redis")
	return client
}

// setupRouter configures the HTTP router
func setupRouter(
	reportHandler *handlers.ReportHandler,
	billHandler *handlers.BillHandler,
	invoiceHandler *handlers.InvoiceHandler,
	db *gorm.DB,
) *gin.Engine {
	router := gin.Default()

	// CORS middleware
	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, store-name, api-version, access-token")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	router.Use(middleware.SecurityHeaders())
	router.Use(middleware.StoreCredentials())

	// Health checks
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "healthy",
			"service": "gst-reporting-service",
		})
	})

	// Liveness probe - simple check that the service is running
	router.GET("/livez", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// Readiness probe - check that DB is accessible
	router.GET("/readyz", func(c *gin.Context) {
		sqlDB, err := db.DB()
		if err != nil {
			c.JSON(503, gin.H{"status": "error", "message": "database not available"})
			return
		}
		if err := sqlDB.Ping(); err != nil {
			c.JSON(503, gin.H{"status": "error", "message": "database ping failed"})
			return
		}
		c.JSON(200, gin.H{"status": "ok"})
	})

	v1 := router.Group("/api/v1")
	{
		// Statutory report endpoints; all require the store credential headers
		reports := v1.Group("/reports")
		reports.Use(middleware.RequireStoreCredentials())
		{
			reports.GET("/gstr1", reportHandler.GSTR1)
			reports.GET("/hsn-sales", reportHandler.HSNSales)
			reports.GET("/hsn-purchase", reportHandler.HSNPurchase)
			reports.GET("/supply-summary", reportHandler.SupplySummary)
			reports.GET("/document-summary", reportHandler.DocumentSummary)
			reports.GET("/itc", reportHandler.ITC)
			reports.GET("/orders", reportHandler.Orders)
			reports.GET("/saved", reportHandler.Saved)
		}

		// Purchase bill CRUD
		bills := v1.Group("/bills")
		{
			bills.GET("", billHandler.List)
			bills.GET("/tax-calculations", billHandler.TaxCalculations)
			bills.GET("/:id", billHandler.Get)
			bills.POST("", billHandler.Create)
			bills.PUT("/:id", billHandler.Update)
			bills.DELETE("/:id", billHandler.Delete)
		}

		// Offline invoice CRUD
		invoices := v1.Group("/invoices")
		{
			invoices.GET("", invoiceHandler.List)
			invoices.GET("/summary", invoiceHandler.Summary)
			invoices.GET("/full/:id", invoiceHandler.GetFull)
			invoices.GET("/:id", invoiceHandler.Get)
			invoices.POST("", invoiceHandler.Create)
			invoices.PUT("/:id", invoiceHandler.Update)
			invoices.DELETE("/:id", invoiceHandler.Delete)
		}
	}

	return router
}
