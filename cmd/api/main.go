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

	"interviewiq/backend/internal/config"
	"interviewiq/backend/internal/handlers"
	"interviewiq/backend/internal/middleware"
	"interviewiq/backend/internal/repositories"
	"interviewiq/backend/internal/services"
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
	jdRepo := repositories.NewJobDescriptionRepository(db)
	questionRepo := repositories.NewQuestionRepository(db)
	responseRepo := repositories.NewResponseRepository(db)
	log.Println("✅ Repositories initialized successfully")

	// Initialize services
	authService := services.NewAuthService(userRepo, cfg.JWT.Secret, cfg.JWT.Expiration)
	pdfParser := services.NewPDFParserService()

	geminiService, err := services.NewGeminiService(cfg.Gemini.APIKey, cfg.Gemini.Model)
	if err != nil {
		log.Fatalf("❌ Failed to initialize Gemini AI: %v", err)
	}
	log.Println("✅ Gemini AI initialized successfully")

	transcriber := services.NewTranscriptionService(cfg.Whisper.BaseURL, cfg.Whisper.Model)

	storageService, err := services.NewStorageService(
		cfg.Storage.Endpoint,
		cfg.Storage.AccessKeyID,
		cfg.Storage.SecretAccessKey,
		cfg.Storage.Bucket,
		cfg.Storage.PublicURL,
		cfg.Storage.UseSSL,
	)
	if err != nil {
		log.Fatalf("❌ Failed to initialize storage: %v", err)
	}
	log.Println("✅ Storage initialized successfully")

	questionGenerator := services.NewQuestionGeneratorService(geminiService)
	evaluatorService := services.NewEvaluatorService(geminiService)
	jdService := services.NewJobDescriptionService(jdRepo, questionGenerator)

	pipeline := services.NewResponsePipeline(
		questionRepo,
		jdRepo,
		responseRepo,
		transcriber,
		storageService,
		evaluatorService,
		cfg.Storage.MaxAudioSize,
	)
	log.Println("✅ Services initialized successfully")

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	jdHandler := handlers.NewJobDescriptionHandler(jdService, jdRepo, questionRepo, pdfParser)
	responseHandler := handlers.NewResponseHandler(pipeline, questionRepo, responseRepo, storageService)
	log.Println("✅ Handlers initialized")

	// Create Fiber app. The body limit leaves headroom above the audio
	// limit so oversize uploads reach the pipeline's own size check.
	app := fiber.New(fiber.Config{
		AppName:      "InterviewIQ API",
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		BodyLimit:    int(cfg.Storage.MaxAudioSize) + 1024*1024,
		ErrorHandler: customErrorHandler,
	})

	// Middleware
	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format:     "[${time}] ${status} - ${latency} ${method} ${path}\n",
		TimeFormat: "2006-01-02 15:04:05",
	}))

	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.CORS.AllowOrigins,
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))

	// Routes
	api := app.Group("/api")

	// Health check
	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now(),
		})
	})

	auth := api.Group("/auth")
	auth.Post("/register", authHandler.HandleRegister)
	auth.Post("/login", authHandler.HandleLogin)

	authenticated := api.Group("", middleware.JWTAuth(authService))

	jds := authenticated.Group("/job-descriptions")
	jds.Post("", jdHandler.HandleCreate)
	jds.Post("/upload", jdHandler.HandleCreateFromUpload)
	jds.Get("", jdHandler.HandleList)
	jds.Get("/:id/questions", jdHandler.HandleGetQuestions)
	jds.Delete("/:id", jdHandler.HandleDelete)

	questions := authenticated.Group("/questions")
	questions.Post("/:id/responses", responseHandler.HandleSubmit)
	questions.Get("/:id/responses", responseHandler.HandleList)

	responses := authenticated.Group("/responses")
	responses.Get("/:id/audio", responseHandler.HandleGetAudio)

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
