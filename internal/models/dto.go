package models

import (
	"talentbridge/job-intake/internal/intake"
)

type UploadResponse struct {
	ID           string `json:"id"`
	Filename     string `json:"filename"`
	OriginalName string `json:"original_name"`
}

type ImportRequest struct {
	Source     string `json:"source" validate:"required,oneof=url text pdf"`
	URL        string `json:"url" validate:"omitempty,url"`
	Text       string `json:"text"`
	DocumentID string `json:"document_id" validate:"omitempty,uuid"`
}

type BriefingRequest struct {
	Narrative string `json:"narrative" validate:"required,min=10"`
}

type AnswersRequest struct {
	Answers intake.QuickAnswers `json:"answers"`
}

type SubmitRequest struct {
	Mode       string `json:"mode" validate:"required,oneof=draft publish"`
	EmployerID string `json:"employer_id" validate:"required,uuid"`
}

type SessionResponse struct {
	ID                   string          `json:"id"`
	State                string          `json:"state"`
	Draft                intake.JobDraft `json:"draft"`
	CompletenessScore    int             `json:"completeness_score"`
	FilledFieldCount     int             `json:"filled_field_count"`
	MissingFields        []string        `json:"missing_fields"`
	BriefingCompleteness *int            `json:"briefing_completeness,omitempty"`
	Error                string          `json:"error,omitempty"`
}

// NewSessionResponse maps a session snapshot onto the wire shape.
func NewSessionResponse(v intake.SessionView) SessionResponse {
	missing := make([]string, 0, len(v.MissingFields))
	for _, f := range v.MissingFields {
		missing = append(missing, string(f))
	}
	return SessionResponse{
		ID:                   v.ID.String(),
		State:                string(v.State),
		Draft:                v.Draft,
		CompletenessScore:    v.Score,
		FilledFieldCount:     v.FilledFieldCount,
		MissingFields:        missing,
		BriefingCompleteness: v.BriefingCompleteness,
		Error:                v.LastError,
	}
}

type BriefingResponse struct {
	Session              SessionResponse `json:"session"`
	BriefingCompleteness int             `json:"briefing_completeness"`
}

type SubmitResponse struct {
	JobID             string `json:"job_id"`
	Status            string `json:"status"`
	CompletenessScore int    `json:"completeness_score"`
}
