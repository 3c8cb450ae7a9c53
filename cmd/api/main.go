package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/websocket/v2"
	"go.uber.org/zap"

	"github.com/clubstats/backend/internal/api/handlers"
	redisCache "github.com/clubstats/backend/internal/cache/redis"
	"github.com/clubstats/backend/internal/chatbot"
	graphneo4j "github.com/clubstats/backend/internal/graph/neo4j"
	"github.com/clubstats/backend/internal/metrics"
	"github.com/clubstats/backend/internal/middleware/ratelimit"
	"github.com/clubstats/backend/internal/middleware/security"
	"github.com/clubstats/backend/internal/middleware/validation"
	"github.com/clubstats/backend/internal/recorder"
	"github.com/clubstats/backend/internal/stats"
	"github.com/clubstats/backend/internal/storage/sqlite"
	"github.com/clubstats/backend/pkg/config"
	appLogger "github.com/clubstats/backend/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	err = appLogger.Init(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.OutputPath)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer appLogger.Sync()

	appLogger.Info("Starting club stats chatbot API server")

	metrics.Init()

	sqliteClient, err := sqlite.NewClient(cfg.SQLite.Path)
	if err != nil {
		appLogger.Fatal("Failed to create SQLite client", zap.Error(err))
	}
	defer sqliteClient.Close()

	if err = sqliteClient.InitSchema(); err != nil {
		appLogger.Fatal("Failed to initialize schema", zap.Error(err))
	}

	graphClient, err := graphneo4j.NewClient(
		cfg.Neo4j.URI,
		cfg.Neo4j.Username,
		cfg.Neo4j.Password,
		cfg.Neo4j.Database,
	)
	if err != nil {
		appLogger.Fatal("Failed to create Neo4j client", zap.Error(err))
	}
	defer graphClient.Close(context.Background())

	rosterNames, err := graphClient.ListPlayerNames(context.Background())
	if err != nil {
		appLogger.Warn("Failed to load roster, player detection disabled", zap.Error(err))
	}
	tables := stats.DefaultTables(rosterNames)
	appLogger.Info("Static tables loaded", zap.Int("roster_size", tables.Roster.Len()))

	var cache chatbot.ResponseCache
	var redisClient *redisCache.Client
	if cfg.Redis.Enabled {
		client, err := redisCache.NewClient(cfg.Redis.Host, cfg.Redis.Port, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			appLogger.Warn("Redis unavailable, response cache disabled", zap.Error(err))
		} else {
			defer client.Close()
			redisClient = client
			cache = client
		}
	}

	rec := recorder.New(sqliteClient, cfg.Chatbot.RecorderQueueSize, appLogger.GetLogger())
	defer rec.Stop()

	engine := chatbot.NewEngine(tables, graphClient, cache, rec, chatbot.EngineConfig{
		QueryTimeout:    time.Duration(cfg.Chatbot.QueryTimeoutSec) * time.Second,
		CacheTTL:        time.Duration(cfg.Chatbot.CacheTTLSec) * time.Second,
		RecordThreshold: cfg.Chatbot.RecordThreshold,
		Debug:           cfg.Chatbot.Debug,
	}, appLogger.GetLogger())

	app := fiber.New(fiber.Config{
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		BodyLimit:    cfg.Server.BodyLimit,
	})

	app.Use(recover.New())
	app.Use(fiberlogger.New())
	app.Use(security.HeadersMiddleware(security.HeadersConfig{
		IsDevelopment: cfg.Chatbot.Debug,
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET, POST, DELETE, OPTIONS",
	}))

	limiter := ratelimit.New(ratelimit.Config{
		MaxRequestsPerMinute: 60,
		Logger:               appLogger.GetLogger(),
	})
	defer limiter.Stop()
	app.Use(limiter.Middleware())

	app.Use(validation.Middleware(validation.Config{
		MaxQuestionLength: cfg.Chatbot.MaxQuestionLength,
		MaxContextLength:  cfg.Chatbot.MaxContextLength,
		Logger:            appLogger.GetLogger(),
	}))

	askHandler := handlers.NewAskHandler(engine, cfg.Chatbot.MaxQuestionLength, cfg.Chatbot.MaxContextLength)
	unansweredHandler := handlers.NewUnansweredHandler(rec)
	wsHandler := handlers.NewWebSocketHandler(engine)

	api := app.Group("/api/v1")

	api.Post("/ask", askHandler.HandleAsk)

	api.Get("/unanswered", unansweredHandler.List)
	api.Post("/unanswered/:id/handled", unansweredHandler.MarkHandled)
	api.Delete("/unanswered/handled", unansweredHandler.PurgeHandled)
	api.Delete("/unanswered/:id", unansweredHandler.Delete)
	api.Delete("/unanswered", unansweredHandler.DeleteAll)

	if redisClient != nil {
		api.Delete("/cache", handlers.NewCacheHandler(redisClient).Invalidate)
	}

	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now().Unix(),
		})
	})

	app.Get("/metrics", metrics.MetricsHandler())

	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws/ask", websocket.New(wsHandler.HandleConnection))

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	appLogger.Info("Server starting", zap.String("address", addr))

	go func() {
		if err := app.Listen(addr); err != nil {
			appLogger.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	appLogger.Info("Server shutting down gracefully...")
	app.Shutdown()
	appLogger.Info("Server stopped")
}
