package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"blogcms/database"
	"blogcms/docs"
	"blogcms/internal/cache"
	"blogcms/internal/config"
	"blogcms/internal/controllers"
	"blogcms/internal/logger"
	"blogcms/internal/media"
	"blogcms/internal/middleware"
	"blogcms/internal/repository"
	"blogcms/internal/services"
	"blogcms/routes"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

const version = "1.0.0"

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	appLogger, err := logger.New(cfg.LogLevel, cfg.IsProduction())
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	slog.SetDefault(appLogger)

	if err := run(cfg, appLogger); err != nil {
		appLogger.Error("server stopped with error", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, appLogger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Swagger Documentation
	docs.SwaggerInfo.Title = "Blog CMS API"
	docs.SwaggerInfo.Version = version
	docs.SwaggerInfo.Schemes = []string{"http", "https"}

	db, err := database.Connect(cfg, appLogger)
	if err != nil {
		return err
	}
	if err := database.MigrateDatabase(db); err != nil {
		return err
	}
	database.MonitorDBConnections(ctx, db, appLogger)

	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		redisClient, err = cache.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			appLogger.Warn("redis unavailable, article cache disabled", "error", err)
			redisClient = nil
		} else {
			defer redisClient.Close()
		}
	}

	var articleRepo repository.ArticleRepository
	if redisClient != nil {
		articleRepo = repository.NewCachedArticleRepository(db, redisClient, cfg.CacheTTL, appLogger)
	} else {
		articleRepo = repository.NewArticleRepository(db)
	}
	categoryRepo := repository.NewCategoryRepository(db)
	accountRepo := repository.NewAccountRepository(db)
	sessionRepo := repository.NewSessionRepository(db)

	store, err := media.NewStore(ctx, cfg.Media)
	if err != nil {
		return err
	}
	uploader := media.NewUploader(store, cfg.Media.MaxBytes, appLogger)
	var staticDir string
	if fs, ok := store.(*media.FSStore); ok {
		staticDir = fs.Dir()
	}

	authService := services.NewAuthService(accountRepo, sessionRepo, services.AuthConfig{
		Secret:     cfg.JWTSecret,
		SessionTTL: cfg.SessionTTL,
	}, appLogger)

	sweeper := services.NewSessionSweeper(authService, 15*time.Minute, appLogger)
	sweeper.Start()
	defer sweeper.Stop()

	loginLimiter := middleware.NewRateLimiter(cfg.LoginRateLimit, cfg.LoginWindow)
	go loginLimiter.Run(ctx)

	// Initialize controllers
	articleController := controllers.NewArticleController(articleRepo, categoryRepo, appLogger)
	categoryController := controllers.NewCategoryController(categoryRepo)
	authController := controllers.NewAuthController(authService)
	accountController := controllers.NewAccountController(accountRepo, authService, appLogger)
	dashboardController := controllers.NewDashboardController(articleRepo, categoryRepo, accountRepo)
	mediaController := controllers.NewMediaController(uploader)
	healthController := controllers.NewHealthController(db, redisClient, sweeper, version)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery(), middleware.RequestLogger(appLogger), middleware.CORS(cfg.CorsAllowedOrigins))

	requireAuth := middleware.AuthMiddleware(authService)

	router.GET("/", healthController.Health)
	routes.RegisterArticleRoutes(router, articleController, requireAuth)
	routes.RegisterCategoryRoutes(router, categoryController, requireAuth)
	routes.RegisterAuthRoutes(router, authController, requireAuth, loginLimiter.Middleware())
	routes.RegisterAdminRoutes(router, dashboardController, accountController, requireAuth)
	routes.RegisterMediaRoutes(router, mediaController, requireAuth, staticDir)
	routes.RegisterHealthRoutes(router, healthController)
	routes.RegisterSwaggerRoutes(router)

	server := &http.Server{
		Addr:           ":" + cfg.Port,
		Handler:        router,
		ReadTimeout:    30 * time.Second,
		WriteTimeout:   30 * time.Second,
		IdleTimeout:    60 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	errCh := make(chan error, 1)
	go func() {
		appLogger.Info("server starting",
			"port", cfg.Port,
			"env", cfg.Env,
			"media_driver", store.Driver(),
			"cache", redisClient != nil,
			"docs", "http://localhost:"+cfg.Port+"/swagger/index.html")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	appLogger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
