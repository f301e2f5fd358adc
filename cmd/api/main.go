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

	"alfredoptarigan/skillsync/internal/app"
	"alfredoptarigan/skillsync/internal/config"
	"alfredoptarigan/skillsync/internal/handlers"
	"alfredoptarigan/skillsync/internal/services"
)

func main() {
	// Load configuration
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("❌ %v", err)
	}
	log.Println("✅ Config loaded successfully")

	ctx := context.Background()
	application, err := app.New(ctx, cfg, app.Options{WithDatabase: true, WithChat: true})
	if err != nil {
		log.Fatalf("❌ Failed to initialize application: %v", err)
	}
	defer application.Close()

	// Initialize Handlers
	uploadHandler := handlers.NewUploadHandler(
		application.DocRepo,
		application.Storage,
		cfg.Storage.MaxFileSize,
	)
	analyzeHandler := handlers.NewAnalyzeHandler(
		application.Analyzer,
		application.DocRepo,
		application.Storage,
		application.Extractor,
		services.GenerationOptions{
			Temperature: cfg.LLM.DefaultTemperature,
			MaxTokens:   cfg.LLM.DefaultMaxTokens,
		},
		cfg.Storage.MaxFileSize,
	)
	reportHandler := handlers.NewReportHandler(application.AnalysisRepo)
	chatHandler := handlers.NewChatHandler(application.Chat, application.AnalysisRepo)
	log.Println("✅ Handlers initialized")

	// Create Fiber app
	server := fiber.New(fiber.Config{
		AppName:      "SkillSync API",
		ReadTimeout:  30 * time.Second,
		WriteTimeout: cfg.LLM.Timeout*2 + 30*time.Second,
		BodyLimit:    int(cfg.Storage.MaxFileSize) + 1<<20,
		ErrorHandler: customErrorHandler,
	})

	// Middleware
	server.Use(recover.New())
	server.Use(logger.New(logger.Config{
		Format:     "[${time}] ${status} - ${latency} ${method} ${path}\n",
		TimeFormat: "2006-01-02 15:04:05",
	}))

	server.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))

	// Routes
	api := server.Group("/api/v1")

	// Health check
	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":   "healthy",
			"provider": application.LLM.Provider(),
			"chat":     cfg.ChatEnabled(),
			"catalog":  application.Catalog != nil,
			"time":     time.Now(),
		})
	})

	// API endpoints
	api.Post("/upload", uploadHandler.HandleUpload)
	api.Post("/analyze", analyzeHandler.HandleAnalyze)
	api.Get("/reports", reportHandler.HandleListReports)
	api.Get("/reports/:id", reportHandler.HandleGetReport)
	api.Get("/reports/:id/download", reportHandler.HandleDownloadReport)
	api.Post("/chat", chatHandler.HandleChat)
	api.Delete("/chat/:session_id", chatHandler.HandleResetChat)

	// Root route
	server.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "SkillSync API",
			"version": "1.0.0",
			"endpoints": []string{
				"POST /api/v1/upload",
				"POST /api/v1/analyze",
				"GET /api/v1/reports",
				"GET /api/v1/reports/:id",
				"GET /api/v1/reports/:id/download",
				"POST /api/v1/chat",
				"DELETE /api/v1/chat/:session_id",
			},
		})
	})

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		log.Println("\n🛑 Shutting down server...")
		if err := server.Shutdown(); err != nil {
			log.Printf("❌ Server forced to shutdown: %v", err)
		}
	}()

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Printf("🚀 Server starting on %s\n", addr)
	log.Printf("📖 API Documentation: http://localhost%s\n", addr)

	if err := server.Listen(addr); err != nil {
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
