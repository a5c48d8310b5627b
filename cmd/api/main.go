package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"careerpilot/career-audit/internal/config"
	"careerpilot/career-audit/internal/handlers"
	"careerpilot/career-audit/internal/repositories"
	"careerpilot/career-audit/internal/services"
)

func main() {
	// Load configuration
	cfg := config.Load()
	log.Println("✅ Config loaded successfully")

	// Initialize database
	db, err := config.InitDatabase(cfg)
	if err != nil {
		log.Fatalf("❌ Failed to initialize database: %v", err)
	}

	// Initialize repositories
	userRepo := repositories.NewUserRepository(db)
	auditRepo := repositories.NewAuditRepository(db)
	log.Println("✅ Repositories initialized successfully")

	// Initialize Gemini AI
	inference, err := services.NewInferenceService(cfg.Gemini.APIKey, cfg.Pipeline.RetryMaxAttempts)
	if err != nil {
		log.Fatalf("❌ Failed to initialize Gemini AI: %v", err)
	}
	log.Println("✅ Gemini AI initialized successfully")

	// Initialize Qdrant
	vectorStore, err := services.NewVectorStore(
		cfg.Qdrant.URL,
		cfg.Qdrant.APIKey,
		cfg.Qdrant.Collection,
	)
	if err != nil {
		log.Fatalf("❌ Failed to initialize Qdrant: %v", err)
	}

	if err := vectorStore.InitCollection(); err != nil {
		log.Fatalf("❌ Failed to initialize Qdrant collection: %v", err)
	}
	log.Println("✅ Qdrant initialized successfully")

	// Initialize pipeline services
	timeouts := services.PipelineTimeouts{
		Inference: cfg.Pipeline.InferenceTimeout,
		Enrich:    cfg.Pipeline.EnrichTimeout,
		Persist:   cfg.Pipeline.PersistTimeout,
	}

	pipeline := services.NewPipeline(
		services.NewTextExtractor(),
		services.NewGitHubEnricher(cfg.GitHub.Token),
		services.NewAuditSynthesizer(inference),
		services.NewEmbeddingIndexer(inference, cfg.Pipeline.EmbedConcurrency),
		inference,
		userRepo,
		auditRepo,
		vectorStore,
		timeouts,
	)
	log.Println("✅ Audit pipeline initialized")

	planner := services.NewPlannerService(inference, userRepo, auditRepo, timeouts)
	log.Println("✅ Planner service initialized")

	// Initialize Handlers
	auditHandler := handlers.NewAuditHandler(pipeline, cfg.Server.MaxUploadSize)
	matchHandler := handlers.NewMatchHandler(pipeline)
	plannerHandler := handlers.NewPlannerHandler(planner)
	resultHandler := handlers.NewResultHandler(userRepo, auditRepo)
	log.Println("✅ Handlers initialized")

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "Career Audit API",
		ReadTimeout:  90 * time.Second,
		WriteTimeout: 90 * time.Second,
		BodyLimit:    int(cfg.Server.MaxUploadSize),
		ErrorHandler: customErrorHandler,
	})

	// Middleware
	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format:     "[${time}] ${status} - ${latency} ${method} ${path}\n",
		TimeFormat: "2006-01-02 15:04:05",
	}))

	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))

	// Routes
	api := app.Group("/api/v1")

	// Health check
	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now(),
		})
	})

	// API endpoints
	api.Post("/audit", auditHandler.HandleAudit)
	api.Post("/match", matchHandler.HandleMatch)
	api.Post("/sprint", plannerHandler.HandleSprint)
	api.Post("/projects", plannerHandler.HandleProjects)
	api.Get("/audits/:externalID/latest", resultHandler.HandleLatestAudit)
	api.Post("/profiles/similar", matchHandler.HandleSimilarProfiles)

	// Root route
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "Career Audit API",
			"version": "1.0.0",
			"endpoints": []string{
				"POST /api/v1/audit",
				"POST /api/v1/match",
				"POST /api/v1/sprint",
				"POST /api/v1/projects",
				"GET /api/v1/audits/:externalID/latest",
				"POST /api/v1/profiles/similar",
			},
		})
	})

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		log.Println("\n🛑 Shutting down server...")
		if err := app.Shutdown(); err != nil {
			log.Printf("❌ Server forced to shutdown: %v", err)
		}
	}()

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Printf("🚀 Server starting on %s\n", addr)
	log.Printf("📖 API Documentation: http://localhost%s\n", addr)

	if err := app.Listen(addr); err != nil {
		log.Fatalf("❌ Failed to start server: %v", err)
	}
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	}

	return c.Status(code).JSON(fiber.Map{
		"error": err.Error(),
		"code":  code,
	})
}
