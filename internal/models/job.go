package models

import (
	"time"

	"github.com/google/uuid"

	"talentbridge/job-intake/internal/intake"
)

type JobStatus string

const (
	StatusDraft           JobStatus = "draft"
	StatusPendingApproval JobStatus = "pending_approval"
)

// Job is the persisted record a finished intake session flattens into.
// List fields are stored as jsonb through gorm's json serializer.
type Job struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	EmployerID uuid.UUID `gorm:"type:uuid;not null" json:"employer_id"`
	Status     JobStatus `gorm:"not null;default:'draft'" json:"status"`

	Title           string   `gorm:"type:text;not null" json:"title"`
	CompanyName     string   `gorm:"type:text;not null" json:"company_name"`
	Description     string   `gorm:"type:text" json:"description"`
	Requirements    string   `gorm:"type:text" json:"requirements"`
	Location        string   `gorm:"type:text" json:"location"`
	RemoteMode      string   `gorm:"type:text" json:"remote_mode"`
	EmploymentType  string   `gorm:"type:text" json:"employment_type"`
	ExperienceLevel string   `gorm:"type:text" json:"experience_level"`
	Skills          []string `gorm:"serializer:json;type:jsonb" json:"skills"`
	MustHaves       []string `gorm:"serializer:json;type:jsonb" json:"must_haves"`
	NiceToHaves     []string `gorm:"serializer:json;type:jsonb" json:"nice_to_haves"`
	SalaryMin       *int     `gorm:"type:integer" json:"salary_min,omitempty"`
	SalaryMax       *int     `gorm:"type:integer" json:"salary_max,omitempty"`

	Industry        string   `gorm:"type:text" json:"industry"`
	CompanySizeBand string   `gorm:"type:text" json:"company_size_band"`
	FundingStage    string   `gorm:"type:text" json:"funding_stage"`
	TechEnvironment []string `gorm:"serializer:json;type:jsonb" json:"tech_environment"`
	HiringUrgency   string   `gorm:"type:text;default:'standard'" json:"hiring_urgency"`

	TeamSize           *int   `gorm:"type:integer" json:"team_size,omitempty"`
	VacancyReason      string `gorm:"type:text" json:"vacancy_reason"`
	PipelineCandidates *int   `gorm:"type:integer" json:"pipeline_candidates,omitempty"`
	DecisionMakers     *int   `gorm:"type:integer" json:"decision_makers,omitempty"`
	RemoteDaysPerWeek  *int   `gorm:"type:integer" json:"remote_days_per_week,omitempty"`
	CultureNotes       string `gorm:"type:text" json:"culture_notes"`
	CareerPath         string `gorm:"type:text" json:"career_path"`

	// Denormalized snapshot of the derived score at submit time.
	CompletenessScore int `gorm:"type:integer" json:"completeness_score"`

	CreatedAt time.Time `gorm:"type:timestamp;default:now()" json:"created_at"`
	UpdatedAt time.Time `gorm:"type:timestamp;default:now()" json:"updated_at"`
}

func (Job) TableName() string {
	return "jobs"
}

// NewJobFromDraft flattens a reconciled draft into a job record.
func NewJobFromDraft(d intake.JobDraft, employerID uuid.UUID, status JobStatus, score int) *Job {
	now := time.Now()
	return &Job{
		ID:                 uuid.New(),
		EmployerID:         employerID,
		Status:             status,
		Title:              d.Title,
		CompanyName:        d.CompanyName,
		Description:        d.Description,
		Requirements:       d.Requirements,
		Location:           d.Location,
		RemoteMode:         string(d.RemoteMode),
		EmploymentType:     d.EmploymentType,
		ExperienceLevel:    d.ExperienceLevel,
		Skills:             d.Skills,
		MustHaves:          d.MustHaves,
		NiceToHaves:        d.NiceToHaves,
		SalaryMin:          d.SalaryMin,
		SalaryMax:          d.SalaryMax,
		Industry:           d.Industry,
		CompanySizeBand:    d.CompanySizeBand,
		FundingStage:       d.FundingStage,
		TechEnvironment:    d.TechEnvironment,
		HiringUrgency:      string(d.HiringUrgency),
		TeamSize:           d.TeamSize,
		VacancyReason:      d.VacancyReason,
		PipelineCandidates: d.PipelineCandidates,
		DecisionMakers:     d.DecisionMakers,
		RemoteDaysPerWeek:  d.RemoteDaysPerWeek,
		CultureNotes:       d.CultureNotes,
		CareerPath:         d.CareerPath,
		CompletenessScore:  score,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
}
