package librarian

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/BogdanTibuleac/SmartLibrarian-RAG/internal/api"
	"github.com/BogdanTibuleac/SmartLibrarian-RAG/internal/config"
	"github.com/BogdanTibuleac/SmartLibrarian-RAG/internal/services/cache"
	"github.com/BogdanTibuleac/SmartLibrarian-RAG/internal/services/database"
	"github.com/BogdanTibuleac/SmartLibrarian-RAG/internal/services/embeddings"
	"github.com/BogdanTibuleac/SmartLibrarian-RAG/internal/services/generation"
	"github.com/BogdanTibuleac/SmartLibrarian-RAG/internal/services/moderation"
	"github.com/BogdanTibuleac/SmartLibrarian-RAG/internal/services/reaper"
	"github.com/BogdanTibuleac/SmartLibrarian-RAG/internal/services/recommend"
	"github.com/BogdanTibuleac/SmartLibrarian-RAG/internal/services/retrieval"
	"github.com/BogdanTibuleac/SmartLibrarian-RAG/internal/services/usage"
	"github.com/BogdanTibuleac/SmartLibrarian-RAG/internal/services/vectorstore"

	"github.com/gofiber/fiber/v2"
	fiberlog "github.com/gofiber/fiber/v2/log"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
)

// Server is one Smart Librarian instance: the HTTP app plus the owned
// infrastructure handles it tears down on shutdown.
type Server struct {
	config *config.Config
	app    *fiber.App
	db     *database.DB
}

// NewServer creates a Server instance with the given configuration.
// The cfg parameter is required and must not be nil.
func NewServer(cfg *config.Config) *Server {
	if cfg == nil {
		panic("config cannot be nil - use config.LoadFromFile() to create config")
	}
	return &Server{config: cfg}
}

// Run starts the server and blocks until shutdown.
func (s *Server) Run() error {
	if err := s.config.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	setupLogLevel(s.config)

	listenAddr := ":" + s.config.Server.Port

	s.app = createFiberApp(s.config)

	// === Infrastructure ===
	db, err := database.New(s.config.Database)
	if err != nil {
		return fmt.Errorf("failed to connect database: %w", err)
	}
	s.db = db
	defer func() {
		if err := s.db.Close(); err != nil {
			fiberlog.Errorf("Failed to close database connection: %v", err)
		}
	}()

	if err := s.db.Migrate(); err != nil {
		return err
	}

	// === Domain services ===
	embedder := embeddings.NewOpenAIEmbedder(s.config.OpenAI)

	startupCtx, startupCancel := context.WithTimeout(context.Background(), 5*time.Minute)
	store, err := vectorstore.Load(startupCtx, s.config.Library.DataPath, embedder, s.config.Library.EmbedConcurrency)
	startupCancel()
	if err != nil {
		return fmt.Errorf("failed to load corpus: %w", err)
	}

	retrieverHandle := retrieval.NewHandle(
		retrieval.NewOrchestrator(embedder, store, s.config.Retrieval),
	)

	answerCache := cache.NewAnswerCache(s.db)
	recommender := recommend.NewService(
		answerCache,
		retrieverHandle,
		generation.NewService(s.config.OpenAI),
		moderation.NewService(s.config.OpenAI),
		usage.PricingFromConfig(s.config.Pricing),
		s.config.Cache.FuzzyThreshold,
	)

	sweeper := reaper.NewScheduler(
		answerCache,
		time.Duration(s.config.Cache.TTLDays)*24*time.Hour,
		time.Duration(s.config.Cache.ReapIntervalMinutes)*time.Minute,
	)

	reaperCtx, reaperCancel := context.WithCancel(context.Background())
	defer reaperCancel()
	if s.config.Cache.ReapIntervalMinutes > 0 {
		go sweeper.Start(reaperCtx)
	}

	// === Middleware & routes ===
	setupMiddleware(s.app, s.config)
	setupRoutes(s.app, s.config, s.db, recommender, sweeper, embedder, retrieverHandle)

	fmt.Printf("Smart Librarian starting on %s\n", listenAddr)
	fmt.Printf("   Environment: %s\n", s.config.Server.Environment)
	fmt.Printf("   Go version: %s\n", runtime.Version())
	fmt.Printf("   Indexed documents: %d\n", store.Count())

	// Graceful shutdown handling
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	serverErrChan := make(chan error, 1)
	go func() {
		if err := s.app.Listen(listenAddr); err != nil {
			serverErrChan <- err
		}
	}()

	select {
	case sig := <-sigChan:
		fiberlog.Infof("Received signal: %v. Starting graceful shutdown...", sig)
	case err := <-serverErrChan:
		return fmt.Errorf("server error: %w", err)
	}

	sweeper.Stop()

	fiberlog.Info("Server shutting down gracefully...")
	if err := s.app.ShutdownWithTimeout(30 * time.Second); err != nil {
		return fmt.Errorf("shutdown error: %w", err)
	}
	fiberlog.Info("Server shutdown completed successfully")
	return nil
}

func createFiberApp(cfg *config.Config) *fiber.App {
	isProd := cfg.IsProduction()

	return fiber.New(fiber.Config{
		AppName:           "SmartLibrarian v1.0",
		EnablePrintRoutes: !isProd,
		ReadTimeout:       2 * time.Minute,
		WriteTimeout:      2 * time.Minute,
		IdleTimeout:       5 * time.Minute,
		CaseSensitive:     true,
		ServerHeader:      "SmartLibrarian",
	})
}

func setupMiddleware(app *fiber.App, cfg *config.Config) {
	isProd := cfg.IsProduction()

	// Recover middleware (must be first)
	app.Use(recover.New(recover.Config{
		EnableStackTrace: !isProd,
	}))

	app.Use(requestid.New())

	// Request timeout: bound every external call chain by the request
	// deadline so a slow provider cannot pin a handler forever.
	app.Use(func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), 60*time.Second)
		defer cancel()
		c.SetUserContext(ctx)
		return c.Next()
	})

	app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
	}))

	if isProd {
		app.Use(logger.New(logger.Config{
			Format: "${time} ${status} ${method} ${path} ${latency} ${bytesSent}b\n",
			Output: os.Stdout,
		}))
	} else {
		app.Use(logger.New(logger.Config{
			Format: "[${time}] ${status} - ${latency} ${method} ${path} ${error}\n",
			Output: os.Stdout,
		}))
	}

	allowedOrigins := cfg.Server.AllowedOrigins
	if allowedOrigins == "" {
		allowedOrigins = "http://localhost:5173"
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: allowedOrigins,
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept",
	}))
}

func setupRoutes(
	app *fiber.App,
	cfg *config.Config,
	db *database.DB,
	recommender *recommend.Service,
	sweeper *reaper.Scheduler,
	embedder retrieval.Embedder,
	handle *retrieval.Handle,
) {
	chatHandler := api.NewChatHandler(recommender)
	feedbackHandler := api.NewFeedbackHandler(recommender)
	adminHandler := api.NewAdminHandler(cfg, sweeper, embedder, handle)
	healthHandler := api.NewHealthHandler(db)

	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "Smart Librarian backend is running."})
	})
	app.Get("/health", healthHandler.HealthCheck)

	app.Post("/chat", chatHandler.Recommend)
	app.Post("/chat/cover", chatHandler.RecommendCover)
	app.Post("/feedback", feedbackHandler.Submit)

	admin := app.Group("/admin")
	admin.Post("/reap", adminHandler.Reap)
	admin.Post("/reindex", adminHandler.Reindex)
}

func setupLogLevel(cfg *config.Config) {
	switch cfg.GetNormalizedLogLevel() {
	case "debug":
		fiberlog.SetLevel(fiberlog.LevelDebug)
	case "warn":
		fiberlog.SetLevel(fiberlog.LevelWarn)
	case "error":
		fiberlog.SetLevel(fiberlog.LevelError)
	default:
		fiberlog.SetLevel(fiberlog.LevelInfo)
	}
}
