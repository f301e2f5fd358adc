package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"alfredoptarigan/skillsync/internal/app"
	"alfredoptarigan/skillsync/internal/config"
	"alfredoptarigan/skillsync/internal/services"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Ingest course catalog documents into Qdrant",
	Long:  "Extract, chunk and embed every .pdf, .docx and .txt file in a directory and store the chunks in the course catalog collection.",
	RunE:  runIngest,
}

var ingestDir string

func init() {
	ingestCmd.Flags().StringVarP(&ingestDir, "dir", "d", "./reference_docs", "Directory containing catalog documents")

	rootCmd.AddCommand(ingestCmd)
}

func runIngest(_ *cobra.Command, _ []string) error {
	log.Println("🚀 Starting course catalog ingestion...")

	cfg := config.Load()
	if !cfg.CatalogEnabled() {
		return fmt.Errorf("ingestion requires QDRANT_URL and GEMINI_API_KEY")
	}

	ctx := context.Background()
	application, err := app.New(ctx, cfg, app.Options{})
	if err != nil {
		return err
	}
	defer application.Close()

	ingester, err := application.Ingester()
	if err != nil {
		return err
	}

	files, err := catalogFiles(ingestDir)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("no catalog documents found in %s", ingestDir)
	}

	successCount := 0
	failCount := 0

	for _, path := range files {
		source := filepath.Base(path)
		log.Printf("\n📄 Processing: %s", source)

		data, err := os.ReadFile(path)
		if err != nil {
			log.Printf("   ❌ Failed to read file: %v", err)
			failCount++
			continue
		}

		stored, err := ingester.IngestDocument(ctx, source, data)
		if err != nil {
			log.Printf("   ❌ Failed to ingest: %v", err)
			failCount++
			continue
		}

		log.Printf("   ✅ Stored %d chunks", stored)
		successCount++
	}

	log.Println("\n" + strings.Repeat("=", 60))
	log.Printf("📊 Ingestion Summary:")
	log.Printf("   ✅ Successful: %d documents", successCount)
	log.Printf("   ❌ Failed: %d documents", failCount)
	log.Println(strings.Repeat("=", 60))

	if failCount > 0 {
		return fmt.Errorf("%d documents failed to ingest", failCount)
	}

	log.Println("✅ All documents ingested successfully!")
	return nil
}

// catalogFiles lists supported documents directly inside dir, sorted by name.
func catalogFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", dir, err)
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if _, ok := services.SupportedExtensions[strings.ToLower(filepath.Ext(entry.Name()))]; ok {
			files = append(files, filepath.Join(dir, entry.Name()))
		}
	}
	return files, nil
}
