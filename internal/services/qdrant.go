package services

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"strconv"

	"github.com/google/uuid"
	"github.com/qdrant/go-client/qdrant"
)

const (
	CourseCatalogDocType = "course_catalog"
	embeddingVectorSize  = 768
)

// CourseCatalog stores embedded course catalog chunks for retrieval.
type CourseCatalog interface {
	InitCollection(ctx context.Context) error
	UpsertChunk(ctx context.Context, source string, index int, text string, embedding []float32) error
	SearchSimilar(ctx context.Context, queryEmbedding []float32, limit int) ([]SearchResult, error)
	DeleteSource(ctx context.Context, source string) error
}

type SearchResult struct {
	ID      string
	Score   float32
	Text    string
	Source  string
	DocType string
}

type qdrantCatalog struct {
	client         *qdrant.Client
	collectionName string
	vectorSize     uint64
}

func NewQdrantCatalog(urlStr, apiKey, collectionName string) (CourseCatalog, error) {
	parsed, err := url.Parse(urlStr)
	if err != nil {
		return nil, fmt.Errorf("invalid Qdrant URL: %w", err)
	}

	// gRPC port unless the URL names one
	port := 6334
	if p := parsed.Port(); p != "" {
		if v, err := strconv.Atoi(p); err == nil {
			port = v
		}
	}

	client, err := qdrant.NewClient(&qdrant.Config{
		Host:   parsed.Hostname(),
		Port:   port,
		APIKey: apiKey,
		UseTLS: parsed.Scheme == "https",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create qdrant client: %w", err)
	}

	return &qdrantCatalog{
		client:         client,
		collectionName: collectionName,
		vectorSize:     embeddingVectorSize,
	}, nil
}

// InitCollection implements CourseCatalog.
func (q *qdrantCatalog) InitCollection(ctx context.Context) error {
	exists, err := q.client.CollectionExists(ctx, q.collectionName)
	if err != nil {
		return fmt.Errorf("failed to check collection: %w", err)
	}

	if exists {
		log.Printf("✅ Qdrant collection '%s' already exists\n", q.collectionName)
		return nil
	}

	err = q.client.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: q.collectionName,
		VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
			Size:     q.vectorSize,
			Distance: qdrant.Distance_Cosine,
		}),
	})
	if err != nil {
		return fmt.Errorf("failed to create collection: %w", err)
	}

	log.Printf("✅ Qdrant collection '%s' created successfully\n", q.collectionName)
	return nil
}

// ChunkPointID is stable for a source and chunk index, so re-ingesting a
// file overwrites its previous points.
func ChunkPointID(source string, index int) string {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(fmt.Sprintf("%s#%d", source, index))).String()
}

// UpsertChunk implements CourseCatalog.
func (q *qdrantCatalog) UpsertChunk(ctx context.Context, source string, index int, text string, embedding []float32) error {
	pointID := ChunkPointID(source, index)

	_, err := q.client.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: q.collectionName,
		Points: []*qdrant.PointStruct{{
			Id:      qdrant.NewID(pointID),
			Vectors: qdrant.NewVectors(embedding...),
			Payload: qdrant.NewValueMap(map[string]any{
				"doc_id":   pointID,
				"doc_type": CourseCatalogDocType,
				"source":   source,
				"chunk":    index,
				"text":     text,
			}),
		}},
	})
	if err != nil {
		return fmt.Errorf("failed to upsert point: %w", err)
	}

	return nil
}

// SearchSimilar implements CourseCatalog.
func (q *qdrantCatalog) SearchSimilar(ctx context.Context, queryEmbedding []float32, limit int) ([]SearchResult, error) {
	points, err := q.client.Query(ctx, &qdrant.QueryPoints{
		CollectionName: q.collectionName,
		Query:          qdrant.NewQuery(queryEmbedding...),
		Filter: &qdrant.Filter{
			Must: []*qdrant.Condition{
				qdrant.NewMatch("doc_type", CourseCatalogDocType),
			},
		},
		Limit:       qdrant.PtrOf(uint64(limit)),
		WithPayload: qdrant.NewWithPayload(true),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to search: %w", err)
	}

	results := make([]SearchResult, 0, len(points))
	for _, point := range points {
		results = append(results, SearchResult{
			ID:      payloadString(point.Payload, "doc_id"),
			Score:   point.Score,
			Text:    payloadString(point.Payload, "text"),
			Source:  payloadString(point.Payload, "source"),
			DocType: payloadString(point.Payload, "doc_type"),
		})
	}

	return results, nil
}

// DeleteSource implements CourseCatalog.
func (q *qdrantCatalog) DeleteSource(ctx context.Context, source string) error {
	_, err := q.client.Delete(ctx, &qdrant.DeletePoints{
		CollectionName: q.collectionName,
		Points: &qdrant.PointsSelector{
			PointsSelectorOneOf: &qdrant.PointsSelector_Filter{
				Filter: &qdrant.Filter{
					Must: []*qdrant.Condition{
						qdrant.NewMatch("source", source),
					},
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to delete source %s: %w", source, err)
	}

	return nil
}

func payloadString(payload map[string]*qdrant.Value, key string) string {
	if value, ok := payload[key]; ok {
		if s, ok := value.GetKind().(*qdrant.Value_StringValue); ok {
			return s.StringValue
		}
	}
	return ""
}

// CatalogRetriever embeds a query and renders matching catalog entries as
// prompt context.
type CatalogRetriever struct {
	catalog  CourseCatalog
	embedder Embedder
	limit    int
}

func NewCatalogRetriever(catalog CourseCatalog, embedder Embedder, limit int) *CatalogRetriever {
	if limit <= 0 {
		limit = 5
	}
	return &CatalogRetriever{catalog: catalog, embedder: embedder, limit: limit}
}

func (r *CatalogRetriever) Retrieve(ctx context.Context, query string) (string, error) {
	embedding, err := r.embedder.GenerateEmbedding(ctx, query)
	if err != nil {
		return "", fmt.Errorf("failed to embed query: %w", err)
	}

	results, err := r.catalog.SearchSimilar(ctx, embedding, r.limit)
	if err != nil {
		return "", err
	}

	return FormatRAGContext(results), nil
}

// CatalogIngester chunks, embeds and stores catalog documents.
type CatalogIngester struct {
	catalog   CourseCatalog
	embedder  Embedder
	chunker   TextChunker
	extractor TextExtractor
}

func NewCatalogIngester(catalog CourseCatalog, embedder Embedder, chunker TextChunker, extractor TextExtractor) *CatalogIngester {
	return &CatalogIngester{catalog: catalog, embedder: embedder, chunker: chunker, extractor: extractor}
}

// IngestDocument replaces every stored chunk of source with the chunks of
// data and returns how many were stored.
func (i *CatalogIngester) IngestDocument(ctx context.Context, source string, data []byte) (int, error) {
	text, err := i.extractor.ExtractText(data, source, "")
	if err != nil {
		return 0, err
	}

	if err := i.catalog.DeleteSource(ctx, source); err != nil {
		return 0, err
	}

	chunks := i.chunker.Chunk(text)
	stored := 0
	for idx, chunk := range chunks {
		embedding, err := i.embedder.GenerateEmbedding(ctx, chunk)
		if err != nil {
			log.Printf("   ❌ Failed to generate embedding for chunk %d: %v", idx+1, err)
			continue
		}

		if err := i.catalog.UpsertChunk(ctx, source, idx, chunk, embedding); err != nil {
			log.Printf("   ❌ Failed to store chunk %d: %v", idx+1, err)
			continue
		}
		stored++

		if stored%5 == 0 || idx == len(chunks)-1 {
			log.Printf("   📊 Progress: %d/%d chunks stored", stored, len(chunks))
		}
	}

	if stored == 0 && len(chunks) > 0 {
		return 0, fmt.Errorf("no chunks of %s were stored", source)
	}

	return stored, nil
}
