package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"reputation-service/internal/clients"
	"reputation-service/internal/config"
	"reputation-service/internal/events"
	"reputation-service/internal/handlers"
	"reputation-service/internal/metrics"
	"reputation-service/internal/middleware"
	"reputation-service/internal/models"
	"reputation-service/internal/notify"
	"reputation-service/internal/repository"
	"reputation-service/internal/services"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize database
	db, err := initDatabase(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	// Auto-migrate database schema
	if err := migrateDatabase(db); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	// Initialize providers
	smsProvider := initSMSProvider(cfg)
	emailProvider := initEmailProvider(cfg)

	// Initialize repositories
	clientRepo := repository.NewClientRepository(db)
	leadRepo := repository.NewLeadRepository(db)
	reviewRepo := repository.NewReviewRepository(db)
	contactRepo := repository.NewContactRepository(db)
	profileRepo := repository.NewProfileRepository(db)

	// Initialize Redis client for review-request rate limiting (optional)
	var redisClient *redis.Client
	if cfg.Redis.Host != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := redisClient.Ping(ctx).Err(); err != nil {
			log.Printf("Warning: Failed to connect to Redis: %v - SMS rate limiting will use in-memory fallback", err)
			redisClient = nil
		} else {
			log.Println("Redis connected for SMS rate limiting")
		}
	}

	// Initialize SMS rate limiter (if enabled)
	var smsRateLimiter *middleware.SMSRateLimiter
	if cfg.SMS.RateLimitEnabled {
		smsRateLimiter = middleware.NewSMSRateLimiterWithConfig(redisClient, logrus.StandardLogger(), middleware.SMSRateLimitConfig{
			TenantHourlyLimit:   cfg.SMS.TenantHourlyLimit,
			TenantDailyLimit:    cfg.SMS.TenantDailyLimit,
			RecipientDailyLimit: cfg.SMS.RecipientDailyLimit,
			RedisKeyPrefix:      "sms:ratelimit:",
		})
		log.Printf("SMS rate limiting enabled (tenant: %d/hour, %d/day; recipient: %d/day)",
			cfg.SMS.TenantHourlyLimit, cfg.SMS.TenantDailyLimit, cfg.SMS.RecipientDailyLimit)
	}

	// Initialize NATS publisher (optional - service works without it)
	var publisher *events.Publisher
	if cfg.NATS.URL != "" {
		publisher, err = events.NewPublisher(cfg.NATS.URL, cfg.NATS.MaxReconnects, cfg.NATS.ReconnectWait)
		if err != nil {
			log.Printf("Warning: Failed to connect to NATS: %v - domain events disabled", err)
		}
	}

	// Initialize identity verifier (optional - dev falls back to headers)
	var verifier middleware.TokenVerifier
	if cfg.Identity.URL != "" {
		verifier = clients.NewIdentityClient(cfg.Identity.URL, cfg.Identity.APIKey)
	} else {
		log.Println("Warning: Identity service not configured - trusting X-User-ID headers")
	}

	// Messaging policy and notifier
	policy := &notify.Policy{
		DefaultFromNumber: cfg.App.DefaultFromNumber,
		DefaultFromEmail:  cfg.App.DefaultFromEmail,
		DefaultFromName:   cfg.App.DefaultFromName,
	}
	notifier := handlers.NewNotifier(smsProvider, emailProvider)

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler(db)
	leadHandler := handlers.NewLeadHandler(clientRepo, leadRepo, notifier, policy, publisher)
	reviewHandler := handlers.NewReviewHandler(clientRepo, reviewRepo, notifier, policy, publisher)
	contactHandler := handlers.NewContactHandler(clientRepo, contactRepo, notifier, policy, publisher)
	reviewRequestHandler := handlers.NewReviewRequestHandler(clientRepo, contactRepo, notifier, policy, smsRateLimiter)
	webhookHandler := handlers.NewWebhookHandler(clientRepo, leadRepo, notifier, policy, publisher, cfg.App.PublicBaseURL)
	clientHandler := handlers.NewClientHandler(clientRepo, profileRepo)
	userHandler := handlers.NewUserHandler(clientRepo, profileRepo)

	// Setup router
	router := setupRouter(cfg, verifier,
		healthHandler, leadHandler, reviewHandler, contactHandler,
		reviewRequestHandler, webhookHandler, clientHandler, userHandler)

	// Start server with graceful shutdown
	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		log.Printf("Starting Reputation Service on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down Reputation Service...")

	publisher.Close()

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Reputation Service stopped")
}

// initDatabase initializes the database connection
func initDatabase(cfg *config.Config) (*gorm.DB, error) {
	gormConfig := &gorm.Config{}
	if cfg.App.Environment == "production" {
		gormConfig.Logger = logger.Default.LogMode(logger.Silent)
	} else {
		gormConfig.Logger = logger.Default.LogMode(logger.Info)
	}

	db, err := gorm.Open(postgres.Open(cfg.Database.DSN()), gormConfig)
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}

	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)

	return db, nil
}

// migrateDatabase runs database migrations. GORM AutoMigrate only adds
// tables, columns and indexes; it never drops or rewrites existing data.
func migrateDatabase(db *gorm.DB) error {
	modelsToMigrate := []interface{}{
		&models.Client{},
		&models.Lead{},
		&models.Review{},
		&models.CustomerContact{},
		&models.Profile{},
		&models.ClientUser{},
	}

	for _, model := range modelsToMigrate {
		if err := db.AutoMigrate(model); err != nil {
			return fmt.Errorf("failed to migrate %T: %w", model, err)
		}
	}

	log.Println("Database migration completed successfully")
	return nil
}

// initSMSProvider initializes the SMS provider with failover chain.
// Priority: Twilio (primary - also serves the voice webhooks) -> AWS SNS.
func initSMSProvider(cfg *config.Config) services.Provider {
	var providers []services.Provider

	if cfg.SMS.TwilioAccountSID != "" && cfg.SMS.TwilioAuthToken != "" {
		twilio := services.NewTwilioProvider(&services.ProviderConfig{
			TwilioAccountSID: cfg.SMS.TwilioAccountSID,
			TwilioAuthToken:  cfg.SMS.TwilioAuthToken,
			TwilioFrom:       cfg.SMS.TwilioFrom,
		})
		providers = append(providers, twilio)
		log.Println("SMS provider configured: Twilio (primary)")
	}

	if cfg.SMS.AWSRegion != "" && cfg.SMS.SNSFrom != "" {
		snsProvider, err := services.NewSNSProvider(&services.ProviderConfig{
			AWSRegion:          cfg.SMS.AWSRegion,
			AWSAccessKeyID:     cfg.SMS.AWSAccessKeyID,
			AWSSecretAccessKey: cfg.SMS.AWSSecretAccessKey,
			SNSFrom:            cfg.SMS.SNSFrom,
		})
		if err != nil {
			log.Printf("Warning: Failed to initialize AWS SNS: %v", err)
		} else {
			providers = append(providers, snsProvider)
			log.Printf("SMS provider configured: AWS SNS (fallback) - region: %s", cfg.SMS.AWSRegion)
		}
	}

	if len(providers) == 0 {
		log.Println("Warning: No SMS provider configured - SMS sends will be dropped")
		return nil
	}
	if len(providers) == 1 {
		log.Printf("SMS provider initialized: %s", providers[0].GetName())
		return providers[0]
	}

	failover := services.NewFailoverProvider("SMS", providers, &services.FailoverConfig{
		EnableFailover: cfg.SMS.EnableFailover,
		MaxRetries:     1,
		RetryDelay:     2 * time.Second,
	})
	log.Printf("SMS failover chain initialized: %s (failover=%v)", failover.GetName(), cfg.SMS.EnableFailover)
	return failover
}

// initEmailProvider initializes the email provider with failover chain.
// Priority: AWS SES (primary) -> SendGrid.
func initEmailProvider(cfg *config.Config) services.Provider {
	var providers []services.Provider

	if cfg.Email.SESFrom != "" && cfg.SMS.AWSRegion != "" {
		sesProvider, err := services.NewSESProvider(&services.ProviderConfig{
			AWSRegion:          cfg.SMS.AWSRegion,
			AWSAccessKeyID:     cfg.SMS.AWSAccessKeyID,
			AWSSecretAccessKey: cfg.SMS.AWSSecretAccessKey,
			SESFrom:            cfg.Email.SESFrom,
			SESFromName:        cfg.Email.SESFromName,
		})
		if err != nil {
			log.Printf("Warning: Failed to initialize AWS SES: %v", err)
		} else {
			providers = append(providers, sesProvider)
			log.Printf("Email provider configured: AWS SES (primary) - region: %s", cfg.SMS.AWSRegion)
		}
	}

	if cfg.Email.SendGridAPIKey != "" {
		sendgrid := services.NewSendGridProvider(&services.ProviderConfig{
			SendGridAPIKey: cfg.Email.SendGridAPIKey,
			SendGridFrom:   cfg.Email.SendGridFrom,
		})
		providers = append(providers, sendgrid)
		log.Println("Email provider configured: SendGrid (fallback)")
	}

	if len(providers) == 0 {
		log.Println("Warning: No email provider configured - email sends will be dropped")
		return nil
	}
	if len(providers) == 1 {
		log.Printf("Email provider initialized: %s", providers[0].GetName())
		return providers[0]
	}

	failover := services.NewFailoverProvider("EMAIL", providers, &services.FailoverConfig{
		EnableFailover: cfg.Email.EnableFailover,
		MaxRetries:     1,
		RetryDelay:     2 * time.Second,
	})
	log.Printf("Email failover chain initialized: %s (failover=%v)", failover.GetName(), cfg.Email.EnableFailover)
	return failover
}

// setupRouter configures the Gin router with middleware and routes
func setupRouter(
	cfg *config.Config,
	verifier middleware.TokenVerifier,
	healthHandler *handlers.HealthHandler,
	leadHandler *handlers.LeadHandler,
	reviewHandler *handlers.ReviewHandler,
	contactHandler *handlers.ContactHandler,
	reviewRequestHandler *handlers.ReviewRequestHandler,
	webhookHandler *handlers.WebhookHandler,
	clientHandler *handlers.ClientHandler,
	userHandler *handlers.UserHandler,
) *gin.Engine {
	if cfg.App.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	router := gin.New()

	router.Use(middleware.Logger())
	router.Use(middleware.Recovery())
	router.Use(metrics.Middleware())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-User-ID", "X-Role"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	// Health check endpoints
	router.GET("/health", healthHandler.Health)
	router.GET("/livez", healthHandler.Livez)
	router.GET("/readyz", healthHandler.Readyz)

	// Prometheus scrape endpoint
	router.GET("/metrics", metrics.Handler())

	// Public intake endpoints, hit by tenant websites
	public := router.Group("/api/v1")
	{
		public.POST("/leads", leadHandler.Create)
		public.POST("/reviews", reviewHandler.Create)
	}

	// Authenticated console endpoints
	api := router.Group("/api/v1")
	api.Use(middleware.Auth(verifier))
	{
		api.POST("/contacts", contactHandler.Create)
		api.POST("/review-requests", reviewRequestHandler.Send)

		clientRoutes := api.Group("/clients")
		{
			clientRoutes.GET("/:id", clientHandler.Get)
			clientRoutes.GET("/:id/leads", leadHandler.ListByClient)
			clientRoutes.GET("/:id/reviews", reviewHandler.ListByClient)
			clientRoutes.GET("/:id/contacts", contactHandler.ListByClient)

			admin := clientRoutes.Group("")
			admin.Use(middleware.AdminOnly())
			{
				admin.GET("", clientHandler.List)
				admin.POST("", clientHandler.Create)
				admin.PUT("/:id", clientHandler.Update)
				admin.DELETE("/:id", clientHandler.Delete)

				admin.GET("/:id/users", userHandler.ListByClient)
				admin.POST("/:id/users", userHandler.Create)
				admin.DELETE("/:id/users/:userId", userHandler.Unlink)
			}
		}
	}

	// Telephony webhooks (no auth - the caller is the phone switch)
	webhooks := router.Group("/webhooks")
	{
		webhooks.POST("/voice", webhookHandler.Voice)
		webhooks.POST("/voice/status", webhookHandler.VoiceStatus)
	}

	return router
}
