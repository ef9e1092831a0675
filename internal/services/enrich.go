package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"talentbridge/job-intake/internal/intake"
)

// EnrichmentService produces the best-effort company/context patch for a
// reconciled draft. Failures here never fail the intake flow.
type EnrichmentService interface {
	Enrich(ctx context.Context, draft intake.JobDraft) (*intake.EnrichmentPatch, error)
}

type enrichmentService struct {
	gemini        GeminiService
	qdrant        QdrantService
	cache         *redis.Client // nil disables caching
	promptBuilder *PromptBuilder
	cacheTTL      time.Duration
	maxRetries    int
}

func NewEnrichmentService(
	gemini GeminiService,
	qdrant QdrantService,
	cache *redis.Client,
	cacheTTL time.Duration,
	maxRetries int,
) EnrichmentService {
	return &enrichmentService{
		gemini:        gemini,
		qdrant:        qdrant,
		cache:         cache,
		promptBuilder: NewPromptBuilder(),
		cacheTTL:      cacheTTL,
		maxRetries:    maxRetries,
	}
}

// Enrich implements EnrichmentService. Company-level results are cached
// in redis; a cache outage degrades to a direct call.
func (e *enrichmentService) Enrich(ctx context.Context, draft intake.JobDraft) (*intake.EnrichmentPatch, error) {
	cacheKey := enrichCacheKey(draft.CompanyName)

	if patch := e.cachedPatch(ctx, cacheKey); patch != nil {
		return patch, nil
	}

	similarContext := e.retrieveSimilarContext(ctx, draft)

	prompt := e.promptBuilder.BuildEnrichmentPrompt(
		draft.Title,
		draft.CompanyName,
		draft.Description,
		draft.Location,
		draft.Skills,
		string(draft.RemoteMode),
		similarContext,
	)

	response, err := e.gemini.GenerateTextWithRetry(ctx, prompt, 0.3, e.maxRetries)
	if err != nil {
		return nil, fmt.Errorf("enrichment call failed: %w", err)
	}

	var patch intake.EnrichmentPatch
	if err := json.Unmarshal([]byte(extractJSON(response)), &patch); err != nil {
		return nil, fmt.Errorf("failed to parse enrichment response: %w", err)
	}

	e.storePatch(ctx, cacheKey, &patch)
	return &patch, nil
}

// retrieveSimilarContext grounds the enrichment prompt with similar
// published postings. Retrieval failure only degrades the prompt.
func (e *enrichmentService) retrieveSimilarContext(ctx context.Context, draft intake.JobDraft) string {
	if e.qdrant == nil {
		return ""
	}

	query := draft.Title + " " + draft.CompanyName + "\n" + draft.Description
	embedding, err := e.gemini.GenerateEmbedding(ctx, query)
	if err != nil {
		log.Printf("⚠️  Failed to embed enrichment query: %v\n", err)
		return ""
	}

	results, err := e.qdrant.SearchSimilarJobs(ctx, embedding, 3)
	if err != nil {
		log.Printf("⚠️  Failed to search similar jobs: %v\n", err)
		return ""
	}

	return FormatSimilarJobs(results)
}

func (e *enrichmentService) cachedPatch(ctx context.Context, key string) *intake.EnrichmentPatch {
	if e.cache == nil || key == "" {
		return nil
	}

	raw, err := e.cache.Get(ctx, key).Result()
	if err != nil {
		if err != redis.Nil {
			log.Printf("⚠️  Enrichment cache read failed: %v\n", err)
		}
		return nil
	}

	var patch intake.EnrichmentPatch
	if err := json.Unmarshal([]byte(raw), &patch); err != nil {
		return nil
	}
	return &patch
}

func (e *enrichmentService) storePatch(ctx context.Context, key string, patch *intake.EnrichmentPatch) {
	if e.cache == nil || key == "" {
		return
	}

	raw, err := json.Marshal(patch)
	if err != nil {
		return
	}
	if err := e.cache.Set(ctx, key, raw, e.cacheTTL).Err(); err != nil {
		log.Printf("⚠️  Enrichment cache write failed: %v\n", err)
	}
}

func enrichCacheKey(companyName string) string {
	name := strings.ToLower(strings.TrimSpace(companyName))
	if name == "" {
		return ""
	}
	return "enrich:" + strings.ReplaceAll(name, " ", "_")
}
