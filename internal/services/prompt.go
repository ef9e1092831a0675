package services

import (
	"fmt"
	"strings"
)

type PromptBuilder struct{}

func NewPromptBuilder() *PromptBuilder {
	return &PromptBuilder{}
}

// BuildJobExtractionPrompt creates the prompt for parsing a job posting
// out of page text or pasted text. URL and text imports share this shape.
func (pb *PromptBuilder) BuildJobExtractionPrompt(sourceText string) string {
	return fmt.Sprintf(`You are a recruiting assistant extracting a structured job posting from raw text.

SOURCE TEXT:
%s

Extract every field you can find. Omit fields that are not present in the text — do not invent values.

Return your response in the following JSON format:
{
  "title": "<job title>",
  "company_name": "<hiring company>",
  "description": "<role description, 2-6 sentences>",
  "requirements": ["<requirement>", ...],
  "location": "<city/region>",
  "remote_mode": "<onsite|hybrid|remote>",
  "employment_type": "<full-time|part-time|contract|...>",
  "experience_level": "<junior|mid|senior|lead|...>",
  "skills": ["<skill>", ...],
  "must_haves": ["<hard requirement>", ...],
  "nice_to_haves": ["<bonus qualification>", ...],
  "salary_min": <annual minimum as number>,
  "salary_max": <annual maximum as number>,
  "industry": "<industry>",
  "tech_environment": ["<tool or technology>", ...]
}

Return ONLY the JSON object.`, sourceText)
}

// BuildPDFExtractionPrompt creates the prompt for parsing an uploaded
// job-description PDF. The PDF model answers with a different payload
// shape than the URL/text prompt, so its output goes through an adapter
// before reconciliation.
func (pb *PromptBuilder) BuildPDFExtractionPrompt(pdfText string) string {
	return fmt.Sprintf(`You are a recruiting assistant extracting a structured job description from the text of an uploaded PDF.

PDF TEXT:
%s

Extract every field you can find. Omit fields not present in the document — do not invent values.

Return your response in the following JSON format:
{
  "job_title": "<job title>",
  "company": "<hiring company>",
  "overview": "<role overview, 2-6 sentences>",
  "responsibilities": ["<responsibility>", ...],
  "city": "<city/region>",
  "workplace": "<onsite|hybrid|remote>",
  "contract_type": "<full-time|part-time|contract|...>",
  "seniority": "<junior|mid|senior|lead|...>",
  "skills": ["<skill>", ...],
  "hard_requirements": ["<hard requirement>", ...],
  "bonus_points": ["<bonus qualification>", ...],
  "salary": {"min": <number>, "max": <number>},
  "sector": "<industry>",
  "stack": ["<tool or technology>", ...]
}

Return ONLY the JSON object.`, pdfText)
}

// BuildEnrichmentPrompt creates the prompt for the best-effort company
// and context enrichment call.
func (pb *PromptBuilder) BuildEnrichmentPrompt(title, companyName, description, location string, skills []string, remoteMode, similarContext string) string {
	return fmt.Sprintf(`You are a recruiting-market analyst enriching a job posting with company and market context.

JOB:
- Title: %s
- Company: %s
- Location: %s
- Remote mode: %s
- Skills: %s
- Description: %s

SIMILAR PUBLISHED POSTINGS (for context, may be empty):
%s

Infer supplementary fields where you have reasonable confidence; omit anything you cannot infer.

Return your response in the following JSON format:
{
  "industry": "<industry>",
  "company_size_band": "<1-10|11-50|51-200|201-1000|1000+>",
  "funding_stage": "<bootstrapped|seed|series-a|series-b+|public>",
  "tech_environment": ["<tool or technology>", ...],
  "hiring_urgency": "<standard|urgent|asap>",
  "normalized_skills": ["<cleaned skill>", ...]
}

Return ONLY the JSON object.`,
		title, companyName, location, remoteMode, strings.Join(skills, ", "), description, similarContext)
}

// BuildBriefingPrompt creates the prompt for the intake-briefing
// extraction over a free-text hiring narrative. The model reports its
// own completeness percentage for the narrative.
func (pb *PromptBuilder) BuildBriefingPrompt(narrative string) string {
	return fmt.Sprintf(`You are a recruiting assistant extracting structured intake details from an employer's free-text hiring briefing.

BRIEFING:
%s

Extract only what the briefing states. Omit anything not mentioned — do not invent values.

Return your response in the following JSON format:
{
  "team_size": <number of people on the team>,
  "vacancy_reason": "<why the position is open>",
  "pipeline_candidates": <number of candidates already in the pipeline>,
  "decision_makers": <number of people involved in the hiring decision>,
  "remote_days_per_week": <number of remote days per week>,
  "culture_notes": "<team culture, 1-3 sentences>",
  "career_path": "<growth/career path, 1-3 sentences>",
  "completeness": <0-100, how completely the briefing covers these topics>
}

Return ONLY the JSON object.`, narrative)
}

// FormatSimilarJobs renders retrieved postings as prompt context.
func FormatSimilarJobs(results []SimilarJob) string {
	if len(results) == 0 {
		return "No similar postings found."
	}

	var parts []string
	for i, result := range results {
		parts = append(parts, fmt.Sprintf("--- Posting %d: %s at %s (similarity %.2f) ---\n%s",
			i+1, result.Title, result.CompanyName, result.Score, strings.TrimSpace(result.Text)))
	}

	return strings.Join(parts, "\n\n")
}
