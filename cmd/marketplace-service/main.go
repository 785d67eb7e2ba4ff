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

	"marketplace-backend/internal/api"
	"marketplace-backend/internal/api/handlers"
	apimiddleware "marketplace-backend/internal/api/middleware"
	"marketplace-backend/internal/config"
	"marketplace-backend/internal/domain"
	"marketplace-backend/internal/infrastructure/mysql"
	"marketplace-backend/internal/infrastructure/redis"
	"marketplace-backend/internal/infrastructure/s3"
	"marketplace-backend/internal/infrastructure/websocket"
	"marketplace-backend/internal/services"
	"marketplace-backend/pkg/logger"
	"marketplace-backend/pkg/utils"

	redisClient "github.com/go-redis/redis/v8"
	_ "github.com/go-sql-driver/mysql"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

func main() {
	log := logger.New()
	log.Info("Starting Marketplace Service")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Error("Failed to load config", "error", err)
		os.Exit(1)
	}

	// Initialize Redis
	rdb := redisClient.NewClient(&redisClient.Options{
		Addr:     cfg.Redis.Address,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	// Test Redis connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Error("Failed to connect to Redis", "error", err)
		os.Exit(1)
	}
	log.Info("Connected to Redis", "address", cfg.Redis.Address)

	// Initialize MySQL
	db := utils.InitializeMysql(cfg, log, ctx)
	defer db.Close()

	// Initialize object storage
	store, err := s3.New(cfg)
	if err != nil {
		log.Error("Failed to initialize object storage", "error", err)
		os.Exit(1)
	}

	// Initialize repositories
	adminRepo := mysql.NewAdminRepository(db)
	sellerRepo := mysql.NewSellerRepository(db)
	customerRepo := mysql.NewCustomerRepository(db)
	sellerInfoRepo := mysql.NewSellerInfoRepository(db)
	productRepo := mysql.NewProductRepository(db)
	categoryRepo := mysql.NewCategoryRepository(db)
	reviewRepo := mysql.NewReviewRepository(db)
	reportRepo := mysql.NewReportRepository(db)
	conversationRepo := mysql.NewConversationRepository(db)
	messageRepo := mysql.NewMessageRepository(db)

	// Initialize Redis based components
	catalogCache := redis.NewCatalogCache(rdb)
	eventPublisher := redis.NewEventPublisher(rdb)
	eventSubscriber := redis.NewEventSubscriber(rdb, log)
	activityCounter := redis.NewActivityCounter(rdb)

	// Initialize services
	tokenService := services.NewTokenService(&cfg.Auth)
	imageService := services.NewImageService(store)

	adminAccounts := services.NewAccountService(adminRepo, domain.RoleAdmin, tokenService, imageService, log)
	sellerAccounts := services.NewAccountService(sellerRepo, domain.RoleSeller, tokenService, imageService, log)
	customerAccounts := services.NewAccountService(customerRepo, domain.RoleCustomer, tokenService, imageService, log)

	catalogService := services.NewCatalogService(productRepo, categoryRepo, sellerInfoRepo, catalogCache, imageService, log)
	reviewService := services.NewReviewService(reviewRepo, productRepo, catalogCache, log)
	reportService := services.NewReportService(reportRepo, sellerRepo, eventPublisher, log)
	chatService := services.NewChatService(conversationRepo, messageRepo, sellerRepo, eventPublisher, log)
	shippingService := services.NewShippingService(sellerInfoRepo)
	statsService := services.NewStatsService(sellerRepo, customerRepo, productRepo, reportRepo)

	// Initialize websocket gateway
	registry := websocket.NewPresenceRegistry()
	gateway := websocket.NewGateway(registry, cfg.Realtime.PingInterval, cfg.Realtime.PongTimeout, log)

	// Initialize maintenance jobs
	maintenance := services.NewMaintenance(
		[]domain.AccountRepository{adminRepo, sellerRepo, customerRepo},
		reviewRepo, productRepo, catalogCache, log)

	// Initialize activity listener
	listener := services.NewActivityListener(eventSubscriber, activityCounter, log)
	listenerCtx, stopListener := context.WithCancel(context.Background())
	defer stopListener()
	go func() {
		if err := listener.Run(listenerCtx); err != nil && !errors.Is(err, context.Canceled) {
			log.Error("Activity listener stopped", "error", err)
		}
	}()

	// Initialize Echo
	e := echo.New()
	e.HideBanner = true
	e.Validator = api.NewValidator()

	// Middleware
	e.Use(middleware.RequestID())
	e.Use(middleware.LoggerWithConfig(middleware.LoggerConfig{
		Format: `{"time":"${time_rfc3339}","id":"${id}","remote_ip":"${remote_ip}","host":"${host}","method":"${method}","uri":"${uri}","user_agent":"${user_agent}","status":${status},"error":"${error}","latency":${latency},"latency_human":"${latency_human}","bytes_in":${bytes_in},"bytes_out":${bytes_out}}` + "\n",
	}))
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{
			echo.GET, echo.HEAD, echo.PUT, echo.PATCH,
			echo.POST, echo.DELETE, echo.OPTIONS,
		},
		AllowHeaders: []string{
			echo.HeaderOrigin,
			echo.HeaderContentType,
			echo.HeaderAccept,
			echo.HeaderAuthorization,
			echo.HeaderXRequestedWith,
		},
		AllowCredentials: true,
		MaxAge:           86400,
	}))

	// Initialize handlers
	adminAccountHandler := handlers.NewAccountHandler(adminAccounts, log)
	sellerAccountHandler := handlers.NewAccountHandler(sellerAccounts, log)
	customerAccountHandler := handlers.NewAccountHandler(customerAccounts, log)
	adminHandler := handlers.NewAdminHandler(statsService, activityCounter, sellerAccounts, customerAccounts, catalogService, log)
	sellerHandler := handlers.NewSellerHandler(catalogService, shippingService, chatService, imageService, log)
	customerHandler := handlers.NewCustomerHandler(reviewService, reportService, chatService, imageService, log)
	publicHandler := handlers.NewPublicHandler(catalogService, reviewService, log)
	wsHandler := handlers.NewWebSocketHandler(gateway)

	// Public routes
	public := e.Group("/api/v1")
	public.GET("/products", publicHandler.ListProducts)
	public.GET("/products/search", publicHandler.QuickSearch)
	public.GET("/products/:id", publicHandler.GetProduct)
	public.GET("/products/:id/reviews", publicHandler.ListProductReviews)
	public.GET("/categories", publicHandler.ListCategories)
	public.GET("/categories/:id", publicHandler.GetCategory)

	// Admin routes. New admins are provisioned by an existing admin, so
	// signup sits behind the auth group.
	admin := e.Group("/api/v1/admin")
	admin.POST("/login", adminAccountHandler.Login)
	admin.POST("/refresh", adminAccountHandler.Refresh)
	adminAuth := admin.Group("", apimiddleware.RequireRole(tokenService, domain.RoleAdmin))
	adminAuth.POST("/signup", adminAccountHandler.SignUp)
	adminAuth.POST("/logout", adminAccountHandler.Logout)
	adminAuth.GET("/profile", adminAccountHandler.Profile)
	adminAuth.PATCH("/profile", adminAccountHandler.UpdateProfile)
	adminAuth.DELETE("/profile", adminAccountHandler.DeleteAccount)
	adminAuth.PUT("/profile/avatar", adminAccountHandler.UpdateAvatar)
	adminAuth.DELETE("/profile/avatar", adminAccountHandler.DeleteAvatar)
	adminAuth.GET("/statistics", adminHandler.Statistics)
	adminAuth.GET("/activity", adminHandler.ActivityCounts)
	adminAuth.GET("/sellers", adminHandler.SearchSellers)
	adminAuth.POST("/sellers", adminHandler.CreateSeller)
	adminAuth.GET("/sellers/:id", adminHandler.GetSeller)
	adminAuth.DELETE("/sellers/:id", adminHandler.DeleteSeller)
	adminAuth.GET("/customers", adminHandler.SearchCustomers)
	adminAuth.DELETE("/customers/:id", adminHandler.DeleteCustomer)
	adminAuth.DELETE("/products/:id", adminHandler.DeleteProduct)
	adminAuth.POST("/categories", adminHandler.CreateCategory)
	adminAuth.PATCH("/categories/:id", adminHandler.UpdateCategory)
	adminAuth.PUT("/categories/:id/image", adminHandler.UpdateCategoryImage)
	adminAuth.DELETE("/categories/:id/image", adminHandler.DeleteCategoryImage)
	adminAuth.DELETE("/categories/:id", adminHandler.DeleteCategory)

	// Seller routes
	seller := e.Group("/api/v1/seller")
	seller.POST("/signup", sellerAccountHandler.SignUp)
	seller.POST("/login", sellerAccountHandler.Login)
	seller.POST("/refresh", sellerAccountHandler.Refresh)
	sellerAuth := seller.Group("", apimiddleware.RequireRole(tokenService, domain.RoleSeller))
	sellerAuth.POST("/logout", sellerAccountHandler.Logout)
	sellerAuth.GET("/profile", sellerAccountHandler.Profile)
	sellerAuth.PATCH("/profile", sellerAccountHandler.UpdateProfile)
	sellerAuth.DELETE("/profile", sellerAccountHandler.DeleteAccount)
	sellerAuth.PUT("/profile/avatar", sellerAccountHandler.UpdateAvatar)
	sellerAuth.DELETE("/profile/avatar", sellerAccountHandler.DeleteAvatar)
	sellerAuth.GET("/shipping", sellerHandler.GetShipping)
	sellerAuth.PUT("/shipping", sellerHandler.UpdateShipping)
	sellerAuth.GET("/products", sellerHandler.ListOwnProducts)
	sellerAuth.POST("/products", sellerHandler.CreateProduct)
	sellerAuth.PATCH("/products/:id", sellerHandler.UpdateProduct)
	sellerAuth.DELETE("/products/:id", sellerHandler.DeleteProduct)
	sellerAuth.POST("/products/:id/images", sellerHandler.AddProductImages)
	sellerAuth.DELETE("/products/:id/images/:imageKey", sellerHandler.RemoveProductImage)
	sellerAuth.GET("/conversations", sellerHandler.ListConversations)
	sellerAuth.GET("/conversations/:id/messages", sellerHandler.ListMessages)
	sellerAuth.POST("/conversations/:id/messages", sellerHandler.SendMessage)

	// Customer routes
	customer := e.Group("/api/v1/customer")
	customer.POST("/signup", customerAccountHandler.SignUp)
	customer.POST("/login", customerAccountHandler.Login)
	customer.POST("/refresh", customerAccountHandler.Refresh)
	customerAuth := customer.Group("", apimiddleware.RequireRole(tokenService, domain.RoleCustomer))
	customerAuth.POST("/logout", customerAccountHandler.Logout)
	customerAuth.GET("/profile", customerAccountHandler.Profile)
	customerAuth.PATCH("/profile", customerAccountHandler.UpdateProfile)
	customerAuth.DELETE("/profile", customerAccountHandler.DeleteAccount)
	customerAuth.PUT("/profile/avatar", customerAccountHandler.UpdateAvatar)
	customerAuth.DELETE("/profile/avatar", customerAccountHandler.DeleteAvatar)
	customerAuth.POST("/products/:productId/reviews", customerHandler.CreateReview)
	customerAuth.PATCH("/reviews/:id", customerHandler.UpdateReview)
	customerAuth.DELETE("/reviews/:id", customerHandler.DeleteReview)
	customerAuth.POST("/reports", customerHandler.CreateReport)
	customerAuth.PATCH("/reports/:id", customerHandler.UpdateReport)
	customerAuth.DELETE("/reports/:id", customerHandler.DeleteReport)
	customerAuth.POST("/conversations", customerHandler.OpenConversation)
	customerAuth.GET("/conversations", customerHandler.ListConversations)
	customerAuth.GET("/conversations/:id/messages", customerHandler.ListMessages)
	customerAuth.POST("/conversations/:id/messages", customerHandler.SendMessage)

	// Realtime chat endpoint
	e.GET("/ws", wsHandler.HandleConnection)

	// Health check endpoint
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]interface{}{
			"status":    "ok",
			"service":   "marketplace",
			"timestamp": time.Now().Format(time.RFC3339),
			"port":      cfg.Server.Port,
			"version":   "1.0.0",
		})
	})

	// Start background jobs
	if err := maintenance.Start(context.Background()); err != nil {
		log.Error("Failed to start maintenance jobs", "error", err)
		os.Exit(1)
	}

	// Start server
	serverAddr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	log.Info("Starting marketplace server", "address", serverAddr)

	go func() {
		if err := e.Start(serverAddr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down marketplace service...")

	ctx, cancel = context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := maintenance.Stop(); err != nil {
		log.Error("Failed to stop maintenance jobs", "error", err)
	}
	stopListener()

	if err := e.Shutdown(ctx); err != nil {
		log.Error("Server forced to shutdown", "error", err)
	}

	log.Info("Marketplace service stopped")
}
