package app

import (
	"context"
	"fmt"
	"log"

	"gorm.io/gorm"

	"alfredoptarigan/skillsync/internal/config"
	"alfredoptarigan/skillsync/internal/repositories"
	"alfredoptarigan/skillsync/internal/services"
)

type Options struct {
	// WithDatabase connects Postgres and enables persistence. The CLI and the
	// MCP server run without it.
	WithDatabase bool
	WithChat     bool
}

// App holds the services shared by the HTTP API, the CLI and the MCP server.
type App struct {
	Config *config.Config

	DB           *gorm.DB
	DocRepo      repositories.DocumentRepository
	AnalysisRepo repositories.AnalysisRepository

	Storage   services.StorageService
	Extractor services.TextExtractor
	LLM       services.LLMService
	Embedder  services.Embedder
	Catalog   services.CourseCatalog
	Jobs      services.JobRecommender
	Courses   services.CourseRecommender
	Analyzer  services.AnalyzerService
	Chat      services.ChatService
	Publisher services.EventPublisher
}

func New(ctx context.Context, cfg *config.Config, opts Options) (*App, error) {
	a := &App{
		Config:    cfg,
		Extractor: services.NewTextExtractor(),
		Publisher: services.NewNoopPublisher(),
	}

	if opts.WithDatabase {
		db, err := config.InitDatabase(cfg)
		if err != nil {
			return nil, err
		}
		a.DB = db
		a.DocRepo = repositories.NewDocumentRepository(db)
		a.AnalysisRepo = repositories.NewAnalysisRepository(db)
		log.Println("✅ Repositories initialized successfully")

		storage, err := services.NewStorageService(ctx, cfg.Storage)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize storage: %w", err)
		}
		a.Storage = storage
		log.Printf("✅ Storage initialized (%s)\n", storage.Driver())

		if cfg.RabbitMQ.URL != "" {
			publisher, err := services.NewAMQPPublisher(cfg.RabbitMQ.URL, cfg.RabbitMQ.Exchange)
			if err != nil {
				log.Printf("⚠️ Report events disabled: %v\n", err)
			} else {
				a.Publisher = publisher
			}
		}
	}

	llm, err := services.NewLLMService(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize %s: %w", cfg.LLM.Provider, err)
	}
	a.LLM = llm
	log.Printf("✅ LLM provider %s initialized\n", llm.Provider())

	var retriever *services.CatalogRetriever
	if cfg.CatalogEnabled() {
		if err := a.initCatalog(ctx); err != nil {
			log.Printf("⚠️ Course catalog disabled: %v\n", err)
		} else {
			retriever = services.NewCatalogRetriever(a.Catalog, a.Embedder, 5)
		}
	}

	extractor := services.NewJSONExtractor(cfg.Extraction.Mode)
	cache := services.NewJobCache(ctx, cfg.Redis.URL, cfg.Redis.CacheTTL)
	a.Jobs = services.NewJobRecommender(services.NewJobSearcher(cfg.JobSearch, cache, nil))
	a.Courses = services.NewCourseRecommender(llm, extractor, retriever)

	a.Analyzer = services.NewAnalyzerService(services.AnalyzerDeps{
		LLM:          llm,
		Extractor:    extractor,
		Courses:      a.Courses,
		Jobs:         a.Jobs,
		AnalysisRepo: a.AnalysisRepo,
		Publisher:    a.Publisher,
		Timeout:      cfg.LLM.Timeout,
	})
	log.Println("✅ Analyzer service initialized")

	if opts.WithChat {
		chat, err := services.NewChatService(ctx, cfg.Gemini.APIKey, "")
		if err != nil {
			return nil, err
		}
		a.Chat = chat
		if cfg.ChatEnabled() {
			log.Println("✅ Chat assistant initialized")
		} else {
			log.Println("⚠️ GEMINI_API_KEY not set, chat assistant disabled")
		}
	}

	return a, nil
}

// initCatalog connects Qdrant and the Gemini embedder for the course catalog.
func (a *App) initCatalog(ctx context.Context) error {
	gemini, err := services.NewGeminiService(a.Config.Gemini.APIKey, "")
	if err != nil {
		return err
	}

	catalog, err := services.NewQdrantCatalog(a.Config.Qdrant.URL, a.Config.Qdrant.APIKey, a.Config.Qdrant.Collection)
	if err != nil {
		return err
	}

	if err := catalog.InitCollection(ctx); err != nil {
		return err
	}

	a.Embedder = gemini
	a.Catalog = catalog
	log.Println("✅ Course catalog initialized")
	return nil
}

// Ingester returns the catalog ingester, or an error when the catalog is
// not configured.
func (a *App) Ingester() (*services.CatalogIngester, error) {
	if a.Catalog == nil {
		return nil, fmt.Errorf("course catalog requires QDRANT_URL and GEMINI_API_KEY")
	}
	chunker := services.NewTextChunker(services.DefaultChunkSize, services.DefaultChunkOverlap)
	return services.NewCatalogIngester(a.Catalog, a.Embedder, chunker, a.Extractor), nil
}

func (a *App) Close() {
	if err := a.Publisher.Close(); err != nil {
		log.Printf("⚠️ Failed to close event publisher: %v\n", err)
	}

	if a.DB != nil {
		if sqlDB, err := a.DB.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
}
