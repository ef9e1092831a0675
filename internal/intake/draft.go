// Package intake implements the job-intake reconciliation core: the
// canonical draft shape, multi-source merge rules, completeness scoring,
// the quick-question set and the draft/publish state machine.
package intake

// RemoteMode is the workplace arrangement of a posting.
type RemoteMode string

const (
	RemoteOnsite RemoteMode = "onsite"
	RemoteHybrid RemoteMode = "hybrid"
	RemoteRemote RemoteMode = "remote"
)

// ParseRemoteMode returns the RemoteMode for a raw value, or "" when the
// value is not one of the known modes.
func ParseRemoteMode(s string) RemoteMode {
	switch RemoteMode(s) {
	case RemoteOnsite, RemoteHybrid, RemoteRemote:
		return RemoteMode(s)
	}
	return ""
}

// HiringUrgency is how fast the employer wants the vacancy filled.
type HiringUrgency string

const (
	UrgencyStandard HiringUrgency = "standard"
	UrgencyUrgent   HiringUrgency = "urgent"
	UrgencyASAP     HiringUrgency = "asap"
)

// ParseHiringUrgency returns the HiringUrgency for a raw value, or "" for
// unknown values. UrgencyStandard is the draft default, so a parsed
// "standard" carries no new information for merge purposes.
func ParseHiringUrgency(s string) HiringUrgency {
	switch HiringUrgency(s) {
	case UrgencyStandard, UrgencyUrgent, UrgencyASAP:
		return HiringUrgency(s)
	}
	return ""
}

// JobDraft is the canonical in-progress posting being assembled from
// imports, enrichment, briefing extraction and quick-question answers.
// It has no identity until it is submitted and persisted as a job record.
type JobDraft struct {
	Title           string     `json:"title"`
	CompanyName     string     `json:"company_name"`
	Description     string     `json:"description"`
	Requirements    string     `json:"requirements"`
	Location        string     `json:"location"`
	RemoteMode      RemoteMode `json:"remote_mode,omitempty"`
	EmploymentType  string     `json:"employment_type"`
	ExperienceLevel string     `json:"experience_level"`
	Skills          []string   `json:"skills"`
	MustHaves       []string   `json:"must_haves"`
	NiceToHaves     []string   `json:"nice_to_haves"`
	SalaryMin       *int       `json:"salary_min"`
	SalaryMax       *int       `json:"salary_max"`

	// Enrichment fields, each independently nullable.
	Industry        string        `json:"industry"`
	CompanySizeBand string        `json:"company_size_band"`
	FundingStage    string        `json:"funding_stage"`
	TechEnvironment []string      `json:"tech_environment"`
	HiringUrgency   HiringUrgency `json:"hiring_urgency"`

	// Intake-narrative fields, merged additively only.
	TeamSize           *int   `json:"team_size"`
	VacancyReason      string `json:"vacancy_reason"`
	PipelineCandidates *int   `json:"pipeline_candidates"`
	DecisionMakers     *int   `json:"decision_makers"`
	RemoteDaysPerWeek  *int   `json:"remote_days_per_week"`
	CultureNotes       string `json:"culture_notes"`
	CareerPath         string `json:"career_path"`
}

// NewJobDraft returns an empty draft with defaults applied.
func NewJobDraft() JobDraft {
	return JobDraft{HiringUrgency: UrgencyStandard}
}

// Field names one canonical draft field.
type Field string

const (
	FieldTitle              Field = "title"
	FieldCompanyName        Field = "company_name"
	FieldDescription        Field = "description"
	FieldRequirements       Field = "requirements"
	FieldLocation           Field = "location"
	FieldRemoteMode         Field = "remote_mode"
	FieldEmploymentType     Field = "employment_type"
	FieldExperienceLevel    Field = "experience_level"
	FieldSkills             Field = "skills"
	FieldMustHaves          Field = "must_haves"
	FieldNiceToHaves        Field = "nice_to_haves"
	FieldSalaryRange        Field = "salary_range"
	FieldIndustry           Field = "industry"
	FieldCompanySizeBand    Field = "company_size_band"
	FieldFundingStage       Field = "funding_stage"
	FieldTechEnvironment    Field = "tech_environment"
	FieldHiringUrgency      Field = "hiring_urgency"
	FieldTeamSize           Field = "team_size"
	FieldVacancyReason      Field = "vacancy_reason"
	FieldPipelineCandidates Field = "pipeline_candidates"
	FieldDecisionMakers     Field = "decision_makers"
	FieldRemoteDaysPerWeek  Field = "remote_days_per_week"
	FieldCultureNotes       Field = "culture_notes"
	FieldCareerPath         Field = "career_path"
)

// canonicalFields is the fixed 24-field enumeration behind the filled
// count, the completeness score and the quick-question set. The salary
// range counts as a single field, present when either bound is set.
// HiringUrgency is present only when it differs from the default.
var canonicalFields = []struct {
	Name    Field
	Present func(d *JobDraft) bool
}{
	{FieldTitle, func(d *JobDraft) bool { return d.Title != "" }},
	{FieldCompanyName, func(d *JobDraft) bool { return d.CompanyName != "" }},
	{FieldDescription, func(d *JobDraft) bool { return d.Description != "" }},
	{FieldRequirements, func(d *JobDraft) bool { return d.Requirements != "" }},
	{FieldLocation, func(d *JobDraft) bool { return d.Location != "" }},
	{FieldRemoteMode, func(d *JobDraft) bool { return d.RemoteMode != "" }},
	{FieldEmploymentType, func(d *JobDraft) bool { return d.EmploymentType != "" }},
	{FieldExperienceLevel, func(d *JobDraft) bool { return d.ExperienceLevel != "" }},
	{FieldSkills, func(d *JobDraft) bool { return len(d.Skills) > 0 }},
	{FieldMustHaves, func(d *JobDraft) bool { return len(d.MustHaves) > 0 }},
	{FieldNiceToHaves, func(d *JobDraft) bool { return len(d.NiceToHaves) > 0 }},
	{FieldSalaryRange, func(d *JobDraft) bool { return d.SalaryMin != nil || d.SalaryMax != nil }},
	{FieldIndustry, func(d *JobDraft) bool { return d.Industry != "" }},
	{FieldCompanySizeBand, func(d *JobDraft) bool { return d.CompanySizeBand != "" }},
	{FieldFundingStage, func(d *JobDraft) bool { return d.FundingStage != "" }},
	{FieldTechEnvironment, func(d *JobDraft) bool { return len(d.TechEnvironment) > 0 }},
	{FieldHiringUrgency, func(d *JobDraft) bool { return d.HiringUrgency != "" && d.HiringUrgency != UrgencyStandard }},
	{FieldTeamSize, func(d *JobDraft) bool { return d.TeamSize != nil }},
	{FieldVacancyReason, func(d *JobDraft) bool { return d.VacancyReason != "" }},
	{FieldPipelineCandidates, func(d *JobDraft) bool { return d.PipelineCandidates != nil }},
	{FieldDecisionMakers, func(d *JobDraft) bool { return d.DecisionMakers != nil }},
	{FieldRemoteDaysPerWeek, func(d *JobDraft) bool { return d.RemoteDaysPerWeek != nil }},
	{FieldCultureNotes, func(d *JobDraft) bool { return d.CultureNotes != "" }},
	{FieldCareerPath, func(d *JobDraft) bool { return d.CareerPath != "" }},
}

// CanonicalFieldCount is the size of the enumerated canonical field list.
const CanonicalFieldCount = 24

// FilledFieldCount counts canonical fields populated in the draft. It is
// a user-facing confidence signal ("N fields auto-filled"), not a gate.
func FilledFieldCount(d *JobDraft) int {
	n := 0
	for _, f := range canonicalFields {
		if f.Present(d) {
			n++
		}
	}
	return n
}

// HasField reports whether one canonical field is populated.
func HasField(d *JobDraft, name Field) bool {
	for _, f := range canonicalFields {
		if f.Name == name {
			return f.Present(d)
		}
	}
	return false
}
