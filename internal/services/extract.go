package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"talentbridge/job-intake/internal/intake"
)

// ErrNoUsableData is returned when a source yields nothing the
// reconciler could merge. The caller surfaces it as a retryable
// extraction failure and returns the session to source selection.
var ErrNoUsableData = errors.New("extraction returned no usable data")

// ExtractionService turns one of the three import sources into the
// single PartialProfile shape. Each source has its own adapter; the
// reconciler never sees which source produced the profile.
type ExtractionService interface {
	FromURL(ctx context.Context, pageURL string) (*intake.PartialProfile, error)
	FromText(ctx context.Context, text string) (*intake.PartialProfile, error)
	FromPDF(ctx context.Context, filePath string) (*intake.PartialProfile, error)
}

type extractionService struct {
	gemini        GeminiService
	pdfParser     PDFParserService
	httpClient    *http.Client
	promptBuilder *PromptBuilder
	maxRetries    int
}

func NewExtractionService(gemini GeminiService, pdfParser PDFParserService, maxRetries int) ExtractionService {
	return &extractionService{
		gemini:        gemini,
		pdfParser:     pdfParser,
		httpClient:    &http.Client{Timeout: 30 * time.Second},
		promptBuilder: NewPromptBuilder(),
		maxRetries:    maxRetries,
	}
}

// FromURL implements ExtractionService.
func (e *extractionService) FromURL(ctx context.Context, pageURL string) (*intake.PartialProfile, error) {
	pageText, err := e.fetchReadableText(ctx, pageURL)
	if err != nil {
		return nil, err
	}

	prompt := e.promptBuilder.BuildJobExtractionPrompt(pageText)
	return e.extractProfile(ctx, prompt, adaptFromURLParse)
}

// FromText implements ExtractionService.
func (e *extractionService) FromText(ctx context.Context, text string) (*intake.PartialProfile, error) {
	text = CleanText(text)
	if text == "" {
		return nil, ErrNoUsableData
	}

	prompt := e.promptBuilder.BuildJobExtractionPrompt(text)
	return e.extractProfile(ctx, prompt, adaptFromTextParse)
}

// FromPDF implements ExtractionService.
func (e *extractionService) FromPDF(ctx context.Context, filePath string) (*intake.PartialProfile, error) {
	pdfText, err := e.pdfParser.ExtractText(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to parse PDF: %w", err)
	}

	prompt := e.promptBuilder.BuildPDFExtractionPrompt(pdfText)
	return e.extractProfile(ctx, prompt, adaptFromPDFParse)
}

// fetchReadableText downloads a page and reduces it to visible text.
func (e *extractionService) fetchReadableText(ctx context.Context, pageURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return "", fmt.Errorf("invalid URL: %w", err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (compatible; JobIntakeBot/1.0)")

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to fetch URL: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("failed to fetch URL: status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 2<<20))
	if err != nil {
		return "", fmt.Errorf("failed to read page body: %w", err)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(body)))
	if err != nil {
		return "", fmt.Errorf("failed to parse HTML: %w", err)
	}

	// Strip chrome the extraction model should not see.
	doc.Find("script, style, noscript, nav, header, footer, iframe").Remove()

	text := CleanText(doc.Find("body").Text())
	if len(text) < 40 {
		return "", ErrNoUsableData
	}

	return text, nil
}

// extractProfile runs one extraction prompt and adapts the raw payload
// into the canonical partial-profile shape.
func (e *extractionService) extractProfile(ctx context.Context, prompt string, adapt func([]byte) (*intake.PartialProfile, error)) (*intake.PartialProfile, error) {
	response, err := e.gemini.GenerateTextWithRetry(ctx, prompt, 0.2, e.maxRetries)
	if err != nil {
		return nil, fmt.Errorf("extraction call failed: %w", err)
	}

	profile, err := adapt([]byte(extractJSON(response)))
	if err != nil {
		return nil, fmt.Errorf("failed to parse extraction response: %w", err)
	}

	if profile.Empty() {
		return nil, ErrNoUsableData
	}
	return profile, nil
}

// adaptFromURLParse and adaptFromTextParse share the URL/text payload
// shape, which already matches PartialProfile field-for-field.
func adaptFromURLParse(data []byte) (*intake.PartialProfile, error) {
	var profile intake.PartialProfile
	if err := json.Unmarshal(data, &profile); err != nil {
		return nil, fmt.Errorf("failed to unmarshal profile: %w", err)
	}
	return &profile, nil
}

func adaptFromTextParse(data []byte) (*intake.PartialProfile, error) {
	return adaptFromURLParse(data)
}

// pdfProfilePayload is the PDF extraction shape, which differs
// field-by-field from the URL/text shape.
type pdfProfilePayload struct {
	JobTitle         string             `json:"job_title"`
	Company          string             `json:"company"`
	Overview         string             `json:"overview"`
	Responsibilities intake.FlexStrings `json:"responsibilities"`
	City             string             `json:"city"`
	Workplace        string             `json:"workplace"`
	ContractType     string             `json:"contract_type"`
	Seniority        string             `json:"seniority"`
	Skills           intake.FlexStrings `json:"skills"`
	HardRequirements intake.FlexStrings `json:"hard_requirements"`
	BonusPoints      intake.FlexStrings `json:"bonus_points"`
	Salary           struct {
		Min intake.FlexInt `json:"min"`
		Max intake.FlexInt `json:"max"`
	} `json:"salary"`
	Sector string             `json:"sector"`
	Stack  intake.FlexStrings `json:"stack"`
}

// adaptFromPDFParse maps the PDF payload onto PartialProfile so the
// reconciler never branches on source type.
func adaptFromPDFParse(data []byte) (*intake.PartialProfile, error) {
	var payload pdfProfilePayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("failed to unmarshal PDF profile: %w", err)
	}

	return &intake.PartialProfile{
		Title:           payload.JobTitle,
		CompanyName:     payload.Company,
		Description:     payload.Overview,
		Requirements:    payload.Responsibilities,
		Location:        payload.City,
		RemoteMode:      payload.Workplace,
		EmploymentType:  payload.ContractType,
		ExperienceLevel: payload.Seniority,
		Skills:          payload.Skills,
		MustHaves:       payload.HardRequirements,
		NiceToHaves:     payload.BonusPoints,
		SalaryMin:       payload.Salary.Min,
		SalaryMax:       payload.Salary.Max,
		Industry:        payload.Sector,
		TechEnvironment: payload.Stack,
	}, nil
}

// extractJSON tries to extract JSON from text that might contain markdown or other formatting
func extractJSON(text string) string {
	// Remove markdown code blocks
	text = strings.ReplaceAll(text, "```json", "")
	text = strings.ReplaceAll(text, "```", "")

	// Find JSON object boundaries
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start != -1 && end != -1 && end > start {
		return text[start : end+1]
	}

	return text
}
