package main

import (
	"context"
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
	"github.com/robfig/cron/v3"

	"talentbridge/job-intake/internal/config"
	"talentbridge/job-intake/internal/handlers"
	"talentbridge/job-intake/internal/intake"
	"talentbridge/job-intake/internal/repositories"
	"talentbridge/job-intake/internal/services"
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
	docRepo := repositories.NewDocumentRepository(db)
	jobRepo := repositories.NewJobRepository(db)
	employerRepo := repositories.NewEmployerRepository(db)
	log.Println("✅ Repositories initialized successfully")

	// Initialize services
	storageService := services.NewStorageService(cfg.Storage.UploadPath)
	if err := storageService.EnsureUploadDir(); err != nil {
		log.Fatalf("❌ Failed to create upload directory: %v", err)
	}

	pdfParser := services.NewPDFParserService()

	// Initialize Gemini AI
	geminiService, err := services.NewGeminiService(cfg.Gemini.APIKey)
	if err != nil {
		log.Fatalf("❌ Failed to initialize Gemini AI: %v", err)
	}
	log.Println("✅ Gemini AI initialized successfully")

	// Initialize Qdrant
	qdrantService, err := services.NewQdrantService(
		cfg.Qdrant.URL,
		cfg.Qdrant.APIKey,
		cfg.Qdrant.Collection,
	)
	if err != nil {
		log.Fatalf("❌ Failed to initialize Qdrant: %v", err)
	}

	if err := qdrantService.InitCollection(); err != nil {
		log.Fatalf("❌ Failed to initialize Qdrant collection: %v", err)
	}
	log.Println("✅ Qdrant initialized successfully")

	// Redis backs the enrichment cache; the service degrades without it.
	ctx := context.Background()
	redisClient, err := config.InitRedis(ctx, cfg)
	if err != nil {
		log.Printf("⚠️  Redis unavailable, enrichment cache disabled: %v\n", err)
		redisClient = nil
	} else if redisClient != nil {
		log.Println("✅ Redis initialized successfully")
	}

	// Intake pipeline
	extractionService := services.NewExtractionService(
		geminiService,
		pdfParser,
		cfg.Worker.RetryMaxAttempts,
	)
	enrichmentService := services.NewEnrichmentService(
		geminiService,
		qdrantService,
		redisClient,
		cfg.Intake.EnrichmentCacheTTL,
		cfg.Worker.RetryMaxAttempts,
	)
	briefingService := services.NewBriefingService(geminiService, cfg.Worker.RetryMaxAttempts)
	jobIndexer := services.NewJobIndexer(geminiService, qdrantService)
	log.Println("✅ Services initialized successfully")

	// Session store and import worker
	sessionStore := intake.NewStore(cfg.Intake.SessionTTL)

	worker := services.NewWorker(
		sessionStore,
		extractionService,
		enrichmentService,
		cfg.Worker.Concurrency,
		cfg.Intake.ExtractionTimeout,
		cfg.Intake.EnrichmentTimeout,
	)
	worker.Start(ctx)
	log.Println("✅ Import worker started successfully")

	// Session janitor: expire idle sessions, recover stuck imports.
	janitor := cron.New()
	_, err = janitor.AddFunc(fmt.Sprintf("@every %s", cfg.Intake.JanitorInterval), func() {
		expired, recovered := sessionStore.Sweep(cfg.Intake.ExtractionTimeout)
		if expired > 0 || recovered > 0 {
			log.Printf("🧹 Session janitor: %d expired, %d stuck imports recovered\n", expired, recovered)
		}
	})
	if err != nil {
		log.Fatalf("❌ Failed to schedule session janitor: %v", err)
	}
	janitor.Start()
	log.Println("✅ Session janitor started successfully")

	// Initialize handlers
	uploadHandler := handlers.NewUploadHandler(
		docRepo,
		storageService,
		cfg.Storage.MaxFileSize,
	)
	intakeHandler := handlers.NewIntakeHandler(
		sessionStore,
		worker,
		briefingService,
		jobIndexer,
		docRepo,
		jobRepo,
		employerRepo,
	)
	sessionHandler := handlers.NewSessionHandler(sessionStore)
	log.Println("✅ Handlers initialized")

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "Job Intake API",
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		BodyLimit:    int(cfg.Storage.MaxFileSize),
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
			"status":   "healthy",
			"sessions": sessionStore.Len(),
			"time":     time.Now(),
		})
	})

	// API endpoints
	api.Post("/upload", uploadHandler.HandleUpload)

	sessions := api.Group("/intake/sessions")
	sessions.Post("/", intakeHandler.HandleCreateSession)
	sessions.Get("/:id", sessionHandler.HandleGetSession)
	sessions.Post("/:id/import", intakeHandler.HandleImport)
	sessions.Post("/:id/briefing", intakeHandler.HandleBriefing)
	sessions.Post("/:id/answers", intakeHandler.HandleAnswers)
	sessions.Post("/:id/restart", intakeHandler.HandleRestart)
	sessions.Post("/:id/submit", intakeHandler.HandleSubmit)

	// Root route
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "Job Intake API",
			"version": "1.0.0",
			"endpoints": []string{
				"POST /api/v1/upload",
				"POST /api/v1/intake/sessions",
				"GET /api/v1/intake/sessions/:id",
				"POST /api/v1/intake/sessions/:id/import",
				"POST /api/v1/intake/sessions/:id/briefing",
				"POST /api/v1/intake/sessions/:id/answers",
				"POST /api/v1/intake/sessions/:id/restart",
				"POST /api/v1/intake/sessions/:id/submit",
			},
		})
	})

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		log.Println("\n🛑 Shutting down server...")
		janitor.Stop()
		worker.Stop()
		if err := app.Shutdown(); err != nil {
			log.Printf("❌ Server forced to shutdown: %v", err)
		}
	}()

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Printf("🚀 Server starting on %s\n", addr)

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
