package main

import (
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"accounts-service/internal/audit"
	"accounts-service/internal/authz"
	"accounts-service/internal/cache"
	"accounts-service/internal/config"
	"accounts-service/internal/events"
	"accounts-service/internal/handlers"
	"accounts-service/internal/middleware"
	"accounts-service/internal/models"
	"accounts-service/internal/permissions"
	"accounts-service/internal/ratelimit"
	"accounts-service/internal/repository"
	"accounts-service/internal/services"
)

func main() {
	// Container health check mode.
	if len(os.Args) > 1 && os.Args[1] == "health" {
		resp, err := http.Get("http://localhost:8080/health")
		if err != nil || resp.StatusCode != http.StatusOK {
			os.Exit(1)
		}
		os.Exit(0)
	}

	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetLevel(logrus.InfoLevel)
	logrus.SetFormatter(&logrus.JSONFormatter{})

	cfg := config.Load()

	db, err := config.InitDB(cfg)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	sqlDB, _ := db.DB()
	defer sqlDB.Close()

	if err := db.AutoMigrate(&models.Account{}, &models.AuditLog{}); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	handlers.SetDB(db)

	// Permission cache; degrades to no caching when Redis is unreachable.
	permCache, err := cache.NewPermissionCache(
		cfg.RedisHost,
		cfg.RedisPort,
		cfg.RedisPassword,
		cfg.RedisDB,
		cfg.CacheTTL,
	)
	if err != nil {
		log.Printf("Warning: Failed to initialize permission cache: %v. Continuing without caching.", err)
	} else if permCache.IsAvailable() {
		log.Println("Permission cache initialized successfully")
		defer permCache.Close()
	} else {
		log.Println("Permission cache unavailable (Redis not connected). Continuing without caching.")
	}

	// Separate Redis client for login rate limit counters.
	var limiterStore ratelimit.CounterStore
	limiterClient := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.RedisHost, cfg.RedisPort),
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	limiterStore = ratelimit.NewRedisCounterStore(limiterClient)
	loginLimiter := ratelimit.NewLimiter(limiterStore, cfg.LoginRateLimit, cfg.LoginRateWindow)

	// Repositories
	accountRepo := repository.NewAccountRepository(db)
	auditRepo := repository.NewAuditRepository(db)

	// Audit sinks: persist, log, and mirror to NATS once it connects.
	publisherSink := audit.NewPublisherSink(nil, logger)
	auditSink := audit.NewMultiSink(
		audit.NewStoreSink(auditRepo, logger),
		audit.NewLogSink(logger),
		publisherSink,
	)

	// NATS connects in the background so a broker outage never blocks startup.
	go func() {
		publisher, err := events.NewPublisher(logger)
		if err != nil {
			log.Printf("WARNING: Failed to initialize events publisher: %v (events won't be published)", err)
			return
		}
		publisherSink.SetPublisher(publisher)
		log.Println("NATS events publisher initialized")
	}()

	// Services
	accountService := services.NewAccountService(accountRepo, auditSink, permCache)
	authService := services.NewAuthService(accountRepo, cfg.JWTSecret, cfg.TokenTTL)

	// Handlers
	accountHandler := handlers.NewAccountHandler(accountService, cfg.DefaultPageSize, cfg.MaxPageSize)
	rbacHandler := handlers.NewRBACHandler()
	auditHandler := handlers.NewAuditHandler(auditRepo, cfg.DefaultPageSize, cfg.MaxPageSize)
	authHandler := handlers.NewAuthHandler(authService)

	guard := middleware.NewGuard(auditSink)

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.SetupCORS(cfg.Environment))
	router.Use(middleware.ErrorHandler())

	// Health endpoints, no auth.
	router.GET("/health", handlers.HealthCheck)
	router.GET("/ready", handlers.ReadinessCheck)

	// Public auth routes: tenant context plus rate limiting, no bearer token.
	publicAuth := router.Group("/api/v1/auth")
	publicAuth.Use(middleware.TenantMiddleware())
	publicAuth.Use(loginLimiter.Middleware("login"))
	{
		publicAuth.POST("/login", authHandler.Login)
	}

	// Internal service-to-service routes, guarded by the shared API key.
	internal := router.Group("/api/v1/internal")
	internal.Use(middleware.TenantMiddleware())
	internal.Use(middleware.InternalAuthMiddleware(cfg.InternalAPIKey))
	{
		// Called by the onboarding flow when a new tenant is provisioned.
		internal.POST("/bootstrap-super-admin", accountHandler.BootstrapSuperAdmin)
	}

	// Protected API routes.
	api := router.Group("/api/v1")
	api.Use(middleware.TenantMiddleware())
	api.Use(middleware.AuthMiddleware(authService, accountRepo, permCache))
	{
		accounts := api.Group("/accounts")
		{
			accounts.POST("/admins",
				guard.RequirePermission(permissions.ModuleUsers, permissions.ActionCreate),
				accountHandler.CreateAdmin)
			accounts.POST("/center-admins",
				guard.RequirePermission(permissions.ModuleUsers, permissions.ActionCreate),
				accountHandler.CreateCenterAdmin)
			accounts.POST("/staff",
				guard.RequirePermission(permissions.ModuleUsers, permissions.ActionCreate),
				accountHandler.CreateStaff)

			accounts.GET("",
				guard.RequirePermission(permissions.ModuleUsers, permissions.ActionView),
				accountHandler.ListAccounts)
			accounts.GET("/subordinates",
				guard.RequirePermission(permissions.ModuleUsers, permissions.ActionView),
				accountHandler.ListSubordinates)
			accounts.GET("/:id",
				guard.RequirePermission(permissions.ModuleUsers, permissions.ActionView),
				accountHandler.GetAccount)

			accounts.PUT("/:id/permissions",
				guard.RequirePermission(permissions.ModuleUsers, permissions.ActionAssignRole),
				accountHandler.UpdatePermissions)
			accounts.POST("/:id/deactivate",
				guard.RequirePermission(permissions.ModuleUsers, permissions.ActionDelete),
				accountHandler.Deactivate)
			accounts.POST("/:id/reactivate",
				guard.RequirePermission(permissions.ModuleUsers, permissions.ActionUpdate),
				accountHandler.Reactivate)
		}

		rbac := api.Group("/rbac")
		{
			rbac.GET("/modules",
				guard.RequirePermission(permissions.ModuleUsers, permissions.ActionView),
				rbacHandler.ListModules)
			rbac.GET("/presets",
				guard.RequirePermission(permissions.ModuleUsers, permissions.ActionView),
				rbacHandler.ListPresets)
			rbac.GET("/presets/:key",
				guard.RequirePermission(permissions.ModuleUsers, permissions.ActionView),
				rbacHandler.GetPreset)
			rbac.POST("/validate",
				guard.RequireAnyPermission(
					authz.Pair{Module: permissions.ModuleUsers, Action: permissions.ActionCreate},
					authz.Pair{Module: permissions.ModuleUsers, Action: permissions.ActionAssignRole},
				),
				rbacHandler.ValidateSubset)
			// Any authenticated caller may ask about its own grants.
			rbac.POST("/check", rbacHandler.CheckPermission)
		}

		api.GET("/audit-logs",
			guard.RequirePermission(permissions.ModuleSettings, permissions.ActionView),
			auditHandler.ListAuditLogs)
	}

	log.Printf("accounts-service listening on :%s", cfg.Port)
	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
