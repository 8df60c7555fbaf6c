package main

import (
	"context"
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"shop_backend/internal/config"
	"shop_backend/internal/database"
	"shop_backend/internal/handlers"
	"shop_backend/internal/middleware"
	"shop_backend/internal/redis"
	"shop_backend/internal/repository"
	"shop_backend/internal/services"
	"shop_backend/pkg/cbu"
	"shop_backend/pkg/sms"
)

func main() {
	// Load configuration
	cfg := config.Load()

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatal("Failed to initialize logger:", err)
	}
	defer logger.Sync()

	// Initialize database
	db, err := database.Initialize(cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}

	// Initialize Redis
	redisClient, err := redis.Initialize(cfg.RedisURL)
	if err != nil {
		logger.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	defer redisClient.Close()

	// Initialize object storage
	media, err := services.NewMediaService(services.MediaConfig{
		Endpoint:  cfg.MinioEndpoint,
		AccessKey: cfg.MinioAccessKey,
		SecretKey: cfg.MinioSecretKey,
		Bucket:    cfg.MinioBucket,
		UseSSL:    cfg.MinioUseSSL,
	})
	if err != nil {
		logger.Fatal("Failed to connect to object storage", zap.Error(err))
	}

	// Initialize external clients
	rateClient := cbu.NewClient(cfg.CBUAPIURL)
	smsClient := sms.NewClient(cfg.SMSAPIURL, cfg.SMSEmail, cfg.SMSPassword)

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	productRepo := repository.NewProductRepository(db)
	contentRepo := repository.NewContentRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	branchRepo := repository.NewBranchRepository(db)
	settingsRepo := repository.NewSettingsRepository(db)
	txManager := repository.NewTxManager(db)

	// Seed the settings singleton before anything reads it
	defaultShipping, err := decimal.NewFromString(cfg.DefaultShippingCost)
	if err != nil {
		logger.Fatal("Invalid default shipping cost", zap.Error(err))
	}
	if err := settingsRepo.Ensure(defaultShipping); err != nil {
		logger.Fatal("Failed to seed settings", zap.Error(err))
	}

	// Initialize services
	authService := services.NewAuthService(
		userRepo, redisClient, smsClient, cfg.JWTSecret,
		time.Duration(cfg.CodeTTLMinutes)*time.Minute,
		time.Duration(cfg.AccessTTLHours)*time.Hour,
		time.Duration(cfg.RefreshTTLHours)*time.Hour,
	)
	catalogService := services.NewCatalogService(categoryRepo, productRepo, settingsRepo, media)
	contentService := services.NewContentService(contentRepo, productRepo, media)
	orderService := services.NewOrderService(orderRepo, productRepo, settingsRepo, txManager)
	branchService := services.NewBranchService(branchRepo)
	settingsService := services.NewSettingsService(settingsRepo)
	currencyService := services.NewCurrencyService(settingsRepo, rateClient, redisClient, logger)

	// Start the daily exchange rate job
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	currencyService.Start(ctx)
	defer currencyService.Stop()

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	catalogHandler := handlers.NewCatalogHandler(catalogService, media)
	contentHandler := handlers.NewContentHandler(contentService, media)
	orderHandler := handlers.NewOrderHandler(orderService)
	settingsHandler := handlers.NewSettingsHandler(settingsService, branchService, currencyService)

	// Setup routes
	router := gin.Default()

	api := router.Group("/api")
	{
		// Auth
		api.POST("/auth/signup", authHandler.SignUp)
		api.POST("/auth/verify", authHandler.VerifyCode)
		api.POST("/auth/resend", authHandler.ResendCode)
		api.POST("/auth/login", authHandler.Login)
		api.POST("/auth/refresh", authHandler.Refresh)

		// Public catalog
		api.GET("/categories", catalogHandler.GetCategories)
		api.GET("/categories/top", catalogHandler.GetTopCategories)
		api.GET("/categories/:slug", catalogHandler.GetCategory)
		api.GET("/products", catalogHandler.GetProducts)
		api.GET("/products/:slug", catalogHandler.GetProduct)

		// Public content
		api.GET("/banners", contentHandler.GetBanners)
		api.GET("/brands", contentHandler.GetBrands)
		api.GET("/sections", contentHandler.GetSections)
		api.GET("/sections/:code", contentHandler.GetSection)
		api.POST("/contacts", contentHandler.SubmitContact)
		api.GET("/branches", settingsHandler.GetBranches)
		api.GET("/settings", settingsHandler.GetSettings)
	}

	authed := api.Group("")
	authed.Use(middleware.AuthRequired(cfg.JWTSecret))
	{
		authed.GET("/auth/me", authHandler.Me)

		authed.POST("/orders", orderHandler.CreateOrder)
		authed.GET("/orders/my", orderHandler.GetMyOrders)
		authed.GET("/orders/:id", orderHandler.GetOrder)
		authed.GET("/orders/:id/amounts", orderHandler.GetAmounts)
		authed.POST("/orders/:id/cancel", orderHandler.CancelOrder)
	}

	staff := api.Group("/admin")
	staff.Use(middleware.AuthRequired(cfg.JWTSecret), middleware.StaffRequired())
	{
		staff.GET("/orders", orderHandler.GetAllOrders)
		staff.POST("/orders/:id/approve", orderHandler.ApproveOrder)
		staff.POST("/orders/:id/cancel", orderHandler.CancelOrder)
		staff.PUT("/orders/:id/process", orderHandler.SetProcess)
		staff.PUT("/orders/:id/provider", orderHandler.SetProvider)

		staff.POST("/categories", catalogHandler.CreateCategory)
		staff.PUT("/categories/:id", catalogHandler.UpdateCategory)
		staff.POST("/categories/:id/image", catalogHandler.UploadCategoryImage)
		staff.DELETE("/categories/:id", catalogHandler.DeleteCategory)

		staff.POST("/products", catalogHandler.CreateProduct)
		staff.PATCH("/products/:id", catalogHandler.UpdateProduct)
		staff.DELETE("/products/:id", catalogHandler.DeleteProduct)
		staff.POST("/products/:id/gallery", catalogHandler.UploadGalleryImage)
		staff.DELETE("/gallery/:id", catalogHandler.DeleteGalleryImage)
		staff.POST("/products/:id/characteristics", catalogHandler.AddCharacteristic)
		staff.DELETE("/characteristics/:id", catalogHandler.DeleteCharacteristic)

		staff.POST("/banners", contentHandler.CreateBanner)
		staff.PUT("/banners/:id", contentHandler.UpdateBanner)
		staff.DELETE("/banners/:id", contentHandler.DeleteBanner)
		staff.POST("/brands", contentHandler.CreateBrand)
		staff.PUT("/brands/:id", contentHandler.UpdateBrand)
		staff.DELETE("/brands/:id", contentHandler.DeleteBrand)
		staff.POST("/sections", contentHandler.CreateSection)
		staff.PUT("/sections/:code/products", contentHandler.SetSectionProducts)
		staff.DELETE("/sections/:code", contentHandler.DeleteSection)
		staff.GET("/contacts", contentHandler.GetContacts)

		staff.POST("/branches", settingsHandler.CreateBranch)
		staff.PUT("/branches/:id", settingsHandler.UpdateBranch)
		staff.DELETE("/branches/:id", settingsHandler.DeleteBranch)
		staff.PUT("/settings/shipping-cost", settingsHandler.UpdateShippingCost)
		staff.POST("/settings/refresh-rate", settingsHandler.RefreshRate)
	}

	// Start server
	logger.Info("Server starting", zap.String("port", cfg.ServerPort))
	if err := router.Run(":" + cfg.ServerPort); err != nil {
		logger.Fatal("Failed to start server", zap.Error(err))
	}
}
