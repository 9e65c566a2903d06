package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/ujjwalsingh108/sms-web-sub003/internal/auth"
	"github.com/ujjwalsingh108/sms-web-sub003/internal/cache"
	"github.com/ujjwalsingh108/sms-web-sub003/internal/config"
	"github.com/ujjwalsingh108/sms-web-sub003/internal/database"
	"github.com/ujjwalsingh108/sms-web-sub003/internal/handlers"
	"github.com/ujjwalsingh108/sms-web-sub003/internal/metrics"
	"github.com/ujjwalsingh108/sms-web-sub003/internal/middleware"
	erpnats "github.com/ujjwalsingh108/sms-web-sub003/internal/nats"
	"github.com/ujjwalsingh108/sms-web-sub003/internal/redis"
	"github.com/ujjwalsingh108/sms-web-sub003/internal/repository"
	"github.com/ujjwalsingh108/sms-web-sub003/internal/scheduler"
	"github.com/ujjwalsingh108/sms-web-sub003/internal/services"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{
		TimestampFormat: time.RFC3339Nano,
	})
	if cfg.IsProduction() {
		logger.SetLevel(logrus.InfoLevel)
	} else {
		logger.SetLevel(logrus.DebugLevel)
	}

	// Database
	db, err := database.NewConnection(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err := database.AutoMigrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	logger.Info("Database connected and migrated")

	// Redis (optional, resolver cache degrades to local-only without it)
	redisClient, err := redis.NewClient(cfg.Redis)
	if err != nil {
		logger.WithError(err).Warn("Redis unavailable, using local cache only")
		redisClient = nil
	}
	defer func() {
		if redisClient != nil {
			redisClient.Close()
		}
	}()

	schoolCache := cache.NewSchoolCache(cache.CacheConfig{
		RedisClient: redisClient,
		Logger:      logger,
		TTL:         5 * time.Minute,
	})

	// NATS (optional, activity events are best-effort)
	var natsClient *erpnats.Client
	var publisher *erpnats.Publisher
	if cfg.NATS.Enabled {
		natsClient, err = erpnats.NewClient(erpnats.Config{
			URL:           cfg.NATS.URL,
			MaxReconnects: cfg.NATS.MaxReconnects,
			ReconnectWait: time.Duration(cfg.NATS.ReconnectWait) * time.Second,
		}, logger)
		if err != nil {
			logger.WithError(err).Warn("NATS unavailable, activity events disabled")
		} else {
			publisher = erpnats.NewPublisher(natsClient, logger)
			defer natsClient.Close()
		}
	}

	// Repositories
	schoolRepo := repository.NewSchoolRepository(db)
	membershipRepo := repository.NewMembershipRepository(db)
	activityRepo := repository.NewActivityRepository(db)
	studentRepo := repository.NewStudentRepository(db)

	// Services
	activityService := services.NewActivityService(activityRepo, publisher, logger)
	schoolService := services.NewSchoolService(schoolRepo, schoolCache, activityService, logger)
	membershipService := services.NewMembershipService(membershipRepo, activityService, logger)
	resolverService := services.NewResolverService(schoolRepo, membershipRepo, schoolCache, logger)

	// Session verifier
	verifier := auth.NewVerifier(cfg.Auth, logger)

	// Handlers
	healthHandler := handlers.NewHealthHandler(db)
	schoolHandler := handlers.NewSchoolHandler(schoolService, logger)
	membershipHandler := handlers.NewMembershipHandler(membershipService, logger)
	activityHandler := handlers.NewActivityHandler(activityService, logger)
	resolverHandler := handlers.NewResolverHandler(resolverService, logger)
	studentHandler := handlers.NewStudentHandler(studentRepo, schoolRepo, resolverService, logger)

	// Router
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(middleware.Recovery(logger))
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(logger))
	router.Use(metrics.Middleware())
	router.Use(middleware.SetupCORS(cfg.Domain.BaseDomain))
	router.Use(middleware.Authenticate(verifier))

	router.GET("/health", healthHandler.Health)
	router.GET("/ready", healthHandler.Ready)
	router.GET("/metrics", metrics.Handler())

	v1 := router.Group("/api/v1")
	{
		v1.GET("/tenants/resolve", middleware.SchoolSubdomain(), resolverHandler.Resolve)

		dashboard := v1.Group("/dashboard", middleware.RequireAuth(), middleware.SchoolSubdomain())
		{
			dashboard.GET("/students", studentHandler.ListStudents)
			dashboard.POST("/students", studentHandler.CreateStudent)
		}

		admin := v1.Group("/admin", middleware.RequireAuth())
		{
			admin.POST("/schools", schoolHandler.CreateSchool)
			admin.GET("/schools", schoolHandler.ListSchools)
			admin.GET("/schools/:id", schoolHandler.GetSchool)
			admin.PATCH("/schools/:id", schoolHandler.UpdateSchool)
			admin.DELETE("/schools/:id", schoolHandler.DeleteSchool)

			admin.POST("/members", membershipHandler.Invite)
			admin.POST("/members/:id/approve", membershipHandler.Approve)
			admin.POST("/members/:id/reject", membershipHandler.Reject)
			admin.GET("/tenants/:id/members", membershipHandler.ListByTenant)

			admin.GET("/activity", activityHandler.ListActivity)
		}
	}

	// Retention cleanup
	cleanup := scheduler.NewCleanupScheduler(activityRepo, cfg.Retention, logger)
	if err := cleanup.Start(); err != nil {
		logger.WithError(err).Warn("Cleanup scheduler failed to start")
	}
	defer cleanup.Stop()

	// The route guard wraps the router so hostname dispatch and header
	// injection happen before gin matches a route
	guard := middleware.NewRouteGuard(verifier, cfg.Domain, router, logger)

	server := &http.Server{
		Addr:         cfg.GetServerAddress(),
		Handler:      guard,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.WithField("address", server.Addr).Info("Server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.WithError(err).Error("Forced shutdown")
	}
	logger.Info("Server stopped")
}
