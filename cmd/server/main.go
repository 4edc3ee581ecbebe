package main

import (
	"context"
	"log"
	"os"

	"github.com/boardhub/api/internal/auth"
	"github.com/boardhub/api/internal/cache"
	"github.com/boardhub/api/internal/config"
	"github.com/boardhub/api/internal/database"
	"github.com/boardhub/api/internal/handler"
	"github.com/boardhub/api/internal/middleware"
	"github.com/boardhub/api/internal/ratelimit"
	"github.com/boardhub/api/internal/scheduler"
	"github.com/boardhub/api/internal/store"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	godotenv.Load()

	cfg := config.Load()

	// Initialize database
	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Auto migrate
	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	// Initialize Redis cache for revocation lookups
	var redisCache *cache.RedisCache
	redisCache, err = cache.NewRedisCache(cfg.RedisURL)
	if err != nil {
		log.Printf("Warning: Failed to connect to Redis: %v", err)
		// Continue without Redis cache (fail-open)
	}

	// Build components explicitly; handlers hold their collaborators.
	revocations := auth.NewRevocationStore(db, redisCache)
	articles := store.NewArticles(db)
	limiter := ratelimit.New(articles)
	locks := ratelimit.NewLocks()

	userHandler := handler.NewUserHandler(db, cfg.JWTSecret, revocations)
	boardHandler := handler.NewBoardHandler(db)
	articleHandler := handler.NewArticleHandler(db, limiter, locks)

	// Start the background revocation sweeper if enabled
	var sweeper *scheduler.RevocationSweeper
	if cfg.SweeperEnabled {
		sweeper = scheduler.NewRevocationSweeper(revocations, scheduler.SweeperConfig{
			Interval: cfg.SweeperInterval,
		})
		go sweeper.Start(context.Background())
		log.Println("Background revocation sweeper started")
	}

	// Setup router
	r := gin.Default()

	// CORS middleware
	r.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	})

	r.Use(middleware.MetricsMiddleware())

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// Prometheus metrics
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Sweeper status
	r.GET("/scheduler/status", func(c *gin.Context) {
		if sweeper != nil {
			c.JSON(200, sweeper.GetStatus())
		} else {
			c.JSON(200, gin.H{"enabled": false, "message": "Sweeper is disabled"})
		}
	})

	// API routes
	api := r.Group("/api")
	{
		// Public: no valid token required. Logout endpoints stay public so
		// an expired or already-revoked token can still be logged out.
		api.POST("/users/signUp", userHandler.SignUp)
		api.POST("/users/login", userHandler.Login)
		api.POST("/users/logout", userHandler.Logout)
		api.POST("/users/logout/all", userHandler.LogoutAll)
		api.POST("/users/token/validation", userHandler.ValidateToken)

		authed := api.Group("")
		authed.Use(middleware.AuthMiddleware(cfg.JWTSecret, revocations))
		{
			// Users
			authed.GET("/users", userHandler.List)
			authed.DELETE("/users/:id", userHandler.Delete)

			// Boards
			authed.GET("/boards", boardHandler.List)
			authed.GET("/boards/:boardId", boardHandler.Get)

			// Articles
			authed.POST("/boards/:boardId/articles", articleHandler.Write)
			authed.GET("/boards/:boardId/articles", articleHandler.List)
			authed.GET("/boards/:boardId/articles/:articleId", articleHandler.Get)
			authed.PUT("/boards/:boardId/articles/:articleId", articleHandler.Edit)
			authed.DELETE("/boards/:boardId/articles/:articleId", articleHandler.Delete)
		}
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "4000"
	}

	log.Printf("API server starting on port %s", port)
	if err := r.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
