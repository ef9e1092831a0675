package services

import (
	"context"
	"fmt"
	"strings"

	"talentbridge/job-intake/internal/models"
)

// JobIndexer embeds submitted jobs into the published-jobs vector
// collection so future enrichment calls can retrieve them as context.
type JobIndexer interface {
	IndexJob(ctx context.Context, job *models.Job) error
}

type jobIndexer struct {
	gemini GeminiService
	qdrant QdrantService
}

func NewJobIndexer(gemini GeminiService, qdrant QdrantService) JobIndexer {
	return &jobIndexer{gemini: gemini, qdrant: qdrant}
}

// IndexJob implements JobIndexer.
func (j *jobIndexer) IndexJob(ctx context.Context, job *models.Job) error {
	text := indexText(job)

	embedding, err := j.gemini.GenerateEmbedding(ctx, text)
	if err != nil {
		return fmt.Errorf("failed to embed job %s: %w", job.ID, err)
	}

	if err := j.qdrant.IndexJob(ctx, job.ID.String(), job.Title, job.CompanyName, text, embedding); err != nil {
		return fmt.Errorf("failed to index job %s: %w", job.ID, err)
	}

	return nil
}

// indexText flattens the fields that carry retrieval signal.
func indexText(job *models.Job) string {
	parts := []string{
		job.Title + " at " + job.CompanyName,
		job.Description,
	}
	if len(job.Skills) > 0 {
		parts = append(parts, "Skills: "+strings.Join(job.Skills, ", "))
	}
	if job.Industry != "" {
		parts = append(parts, "Industry: "+job.Industry)
	}
	if job.Location != "" {
		parts = append(parts, "Location: "+job.Location)
	}
	return strings.Join(parts, "\n")
}
