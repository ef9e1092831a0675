package main

import (
	"context"
	"log"
	"os"
	"strings"

	"talentbridge/job-intake/internal/config"
	"talentbridge/job-intake/internal/repositories"
	"talentbridge/job-intake/internal/services"
)

// Backfills the published-jobs vector collection from the jobs table.
// Run after wiping the Qdrant collection or when indexing was down
// while jobs were being submitted.
func main() {
	log.Println("🚀 Starting job index backfill...")

	// Load configuration
	cfg := config.Load()

	db, err := config.InitDatabase(cfg)
	if err != nil {
		log.Fatalf("❌ Failed to initialize database: %v", err)
	}

	jobRepo := repositories.NewJobRepository(db)

	// Initialize services
	geminiService, err := services.NewGeminiService(cfg.Gemini.APIKey)
	if err != nil {
		log.Fatalf("❌ Failed to initialize Gemini: %v", err)
	}

	qdrantService, err := services.NewQdrantService(
		cfg.Qdrant.URL,
		cfg.Qdrant.APIKey,
		cfg.Qdrant.Collection,
	)
	if err != nil {
		log.Fatalf("❌ Failed to initialize Qdrant: %v", err)
	}

	if err := qdrantService.InitCollection(); err != nil {
		log.Fatalf("❌ Failed to initialize collection: %v", err)
	}

	indexer := services.NewJobIndexer(geminiService, qdrantService)

	ctx := context.Background()

	jobs, err := jobRepo.FindPendingApproval(1000)
	if err != nil {
		log.Fatalf("❌ Failed to load submitted jobs: %v", err)
	}

	log.Printf("📄 Found %d submitted jobs to index\n", len(jobs))

	successCount := 0
	failCount := 0

	for i := range jobs {
		job := &jobs[i]
		log.Printf("\n📄 Indexing: %s at %s", job.Title, job.CompanyName)
		log.Printf("   ID: %s", job.ID)

		if err := indexer.IndexJob(ctx, job); err != nil {
			log.Printf("   ❌ Failed to index: %v", err)
			failCount++
			continue
		}

		log.Printf("   ✅ Indexed successfully")
		successCount++
	}

	// Summary
	log.Println("\n" + strings.Repeat("=", 60))
	log.Printf("📊 Backfill Summary:")
	log.Printf("   ✅ Successful: %d jobs", successCount)
	log.Printf("   ❌ Failed: %d jobs", failCount)
	log.Println(strings.Repeat("=", 60))

	if failCount > 0 {
		log.Println("⚠️  Some jobs failed to index. Please check the logs above.")
		os.Exit(1)
	}

	log.Println("✅ All submitted jobs indexed successfully!")
}
