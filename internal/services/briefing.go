package services

import (
	"context"
	"encoding/json"
	"fmt"

	"talentbridge/job-intake/internal/intake"
)

// BriefingResult pairs the extracted intake data with the completeness
// percentage the extraction model reports for the narrative itself.
// That number is a separate metric from the derived draft score and the
// two are never unified.
type BriefingResult struct {
	Data         intake.ExtractedBriefing
	Completeness int
}

// BriefingService extracts structured intake details from a free-text
// employer briefing. Calls are repeatable; each result merges additively.
type BriefingService interface {
	Extract(ctx context.Context, narrative string) (*BriefingResult, error)
}

type briefingService struct {
	gemini        GeminiService
	promptBuilder *PromptBuilder
	maxRetries    int
}

func NewBriefingService(gemini GeminiService, maxRetries int) BriefingService {
	return &briefingService{
		gemini:        gemini,
		promptBuilder: NewPromptBuilder(),
		maxRetries:    maxRetries,
	}
}

type briefingPayload struct {
	intake.ExtractedBriefing
	Completeness intake.FlexInt `json:"completeness"`
}

// Extract implements BriefingService.
func (b *briefingService) Extract(ctx context.Context, narrative string) (*BriefingResult, error) {
	prompt := b.promptBuilder.BuildBriefingPrompt(narrative)

	response, err := b.gemini.GenerateTextWithRetry(ctx, prompt, 0.2, b.maxRetries)
	if err != nil {
		return nil, fmt.Errorf("briefing extraction call failed: %w", err)
	}

	var payload briefingPayload
	if err := json.Unmarshal([]byte(extractJSON(response)), &payload); err != nil {
		return nil, fmt.Errorf("failed to parse briefing response: %w", err)
	}

	completeness := 0
	if v := payload.Completeness.Ptr(); v != nil {
		completeness = *v
	}

	return &BriefingResult{
		Data:         payload.ExtractedBriefing,
		Completeness: completeness,
	}, nil
}
