package main

import (
	"context"
	"database/sql"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus"

	usercmd "github.com/payhere/user-service/internal/command"
	"github.com/payhere/user-service/internal/config"
	"github.com/payhere/user-service/internal/database"
	"github.com/payhere/user-service/internal/events"
	"github.com/payhere/user-service/internal/handler"
	"github.com/payhere/user-service/internal/metrics"
	"github.com/payhere/user-service/internal/middleware"
	userqry "github.com/payhere/user-service/internal/query"
	redisClient "github.com/payhere/user-service/internal/redis"
	"github.com/payhere/user-service/internal/repository"
	"github.com/payhere/user-service/internal/token"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Database connection (write store)
	if err := database.RunMigrations(cfg.DatabaseURL); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	db, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		log.Fatalf("Failed to ping database: %v", err)
	}

	// Redis connection (read model store + sessions + event streaming)
	redis, err := redisClient.NewClient(cfg.RedisAddr, cfg.RedisPassword, 0)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer redis.Close()

	// --- CQRS wiring ---
	publisher := events.NewPublisher(redis.Client)
	issuer := token.NewIssuer(cfg.JWTSecret, cfg.AccessTTL, cfg.RefreshTTL)

	writeRepo := repository.NewUserWriteRepository(db)
	readRepo := repository.NewUserReadRepository(db, redis.Client)
	sessions := repository.NewSessionRepository(redis.Client, cfg.RefreshTTL)

	commandSvc := usercmd.NewUserCommandService(writeRepo, readRepo, sessions, issuer, publisher)
	authQuerySvc := userqry.NewAuthQueryService(writeRepo, sessions, issuer)
	userQuerySvc := userqry.NewUserQueryService(readRepo)

	authHandler := handler.NewAuthHandler(commandSvc, authQuerySvc)
	userHandler := handler.NewUserHandler(commandSvc, userQuerySvc)

	// Setup router
	registry := prometheus.NewRegistry()
	collector := metrics.NewCollector(registry)

	router := gin.Default()
	router.Use(middleware.LoggingMiddleware())
	router.Use(collector.Middleware())

	auth := router.Group("/v1/auth")
	{
		auth.POST("/signup", authHandler.SignUp)
		auth.POST("/login", authHandler.Login)
		auth.POST("/refresh", authHandler.ResignToken)
		auth.POST("/logout", middleware.AuthMiddleware(cfg.JWTSecret), authHandler.Logout)
	}

	users := router.Group("/v1/users", middleware.AuthMiddleware(cfg.JWTSecret))
	{
		users.GET("/:userId", userHandler.GetUser)
		users.PATCH("/:userId", userHandler.UpdateUser)
		users.DELETE("/:userId", userHandler.DeleteUser)
	}

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(metrics.Handler(registry)))

	// Audit consumer for user lifecycle events
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		subscriber := events.NewSubscriber(redis.Client, events.SubscriberConfig{
			Group:    "user-service-audit",
			Consumer: "audit-consumer-1",
			Stream:   events.UserEventsStream,
			Handler:  events.AuditLogger{}.Handle,
		})
		if err := subscriber.Start(ctx); err != nil {
			log.Printf("Subscriber stopped: %v", err)
		}
	}()

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan
		log.Println("Shutting down...")
		cancel()
	}()

	log.Printf("User service starting on port %s", cfg.Port)
	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
