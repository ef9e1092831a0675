package intake

import "strings"

// PartialProfile is the single loosely-typed shape every source adapter
// produces before reconciliation. Any field may be absent; list fields
// tolerate string-or-array payloads and numeric fields tolerate
// string-or-number payloads. The reconciler never branches on which
// source produced the profile.
type PartialProfile struct {
	Title           string      `json:"title"`
	CompanyName     string      `json:"company_name"`
	Description     string      `json:"description"`
	Requirements    FlexStrings `json:"requirements"`
	Location        string      `json:"location"`
	RemoteMode      string      `json:"remote_mode"`
	EmploymentType  string      `json:"employment_type"`
	ExperienceLevel string      `json:"experience_level"`
	Skills          FlexStrings `json:"skills"`
	MustHaves       FlexStrings `json:"must_haves"`
	NiceToHaves     FlexStrings `json:"nice_to_haves"`
	SalaryMin       FlexInt     `json:"salary_min"`
	SalaryMax       FlexInt     `json:"salary_max"`
	Industry        string      `json:"industry"`
	CompanySizeBand string      `json:"company_size_band"`
	FundingStage    string      `json:"funding_stage"`
	TechEnvironment FlexStrings `json:"tech_environment"`
	HiringUrgency   string      `json:"hiring_urgency"`

	TeamSize           FlexInt `json:"team_size"`
	VacancyReason      string  `json:"vacancy_reason"`
	PipelineCandidates FlexInt `json:"pipeline_candidates"`
	DecisionMakers     FlexInt `json:"decision_makers"`
	RemoteDaysPerWeek  FlexInt `json:"remote_days_per_week"`
	CultureNotes       string  `json:"culture_notes"`
	CareerPath         string  `json:"career_path"`
}

// Empty reports whether the profile carries no usable data at all.
func (p *PartialProfile) Empty() bool {
	probe := NewJobDraft()
	merged, _ := Reconcile(probe, *p)
	return FilledFieldCount(&merged) == 0
}

// Reconcile merges a partial profile into the draft and returns the new
// draft plus the canonical filled-field count.
//
// Directly-imported fields follow "latest import wins": a non-empty
// incoming value replaces the current one. Intake-narrative fields are
// additive-only: an incoming value lands only when the destination is
// still empty. In no case does an empty incoming value clobber a
// populated field.
func Reconcile(current JobDraft, incoming PartialProfile) (JobDraft, int) {
	d := current

	setString(&d.Title, incoming.Title)
	setString(&d.CompanyName, incoming.CompanyName)
	setString(&d.Description, incoming.Description)
	setString(&d.Location, incoming.Location)
	setString(&d.EmploymentType, incoming.EmploymentType)
	setString(&d.ExperienceLevel, incoming.ExperienceLevel)
	setString(&d.Industry, incoming.Industry)
	setString(&d.CompanySizeBand, incoming.CompanySizeBand)
	setString(&d.FundingStage, incoming.FundingStage)

	if len(incoming.Requirements) > 0 {
		d.Requirements = strings.Join(incoming.Requirements, "\n")
	}
	setList(&d.Skills, incoming.Skills)
	setList(&d.MustHaves, incoming.MustHaves)
	setList(&d.NiceToHaves, incoming.NiceToHaves)
	setList(&d.TechEnvironment, incoming.TechEnvironment)

	setInt(&d.SalaryMin, incoming.SalaryMin.Ptr())
	setInt(&d.SalaryMax, incoming.SalaryMax.Ptr())

	if m := ParseRemoteMode(incoming.RemoteMode); m != "" {
		d.RemoteMode = m
	}
	if u := ParseHiringUrgency(incoming.HiringUrgency); u != "" && u != UrgencyStandard {
		d.HiringUrgency = u
	}

	// Narrative fields: additive only, a later emptier source never
	// clears them and a later fuller source never rewrites them.
	fillString(&d.VacancyReason, incoming.VacancyReason)
	fillString(&d.CultureNotes, incoming.CultureNotes)
	fillString(&d.CareerPath, incoming.CareerPath)
	fillInt(&d.TeamSize, incoming.TeamSize.Ptr())
	fillInt(&d.PipelineCandidates, incoming.PipelineCandidates.Ptr())
	fillInt(&d.DecisionMakers, incoming.DecisionMakers.Ptr())
	fillInt(&d.RemoteDaysPerWeek, incoming.RemoteDaysPerWeek.Ptr())

	return d, FilledFieldCount(&d)
}

// EnrichmentPatch is the supplementary company/context data returned by
// the enrichment call.
type EnrichmentPatch struct {
	Industry         string      `json:"industry"`
	CompanySizeBand  string      `json:"company_size_band"`
	FundingStage     string      `json:"funding_stage"`
	TechEnvironment  FlexStrings `json:"tech_environment"`
	HiringUrgency    string      `json:"hiring_urgency"`
	NormalizedSkills FlexStrings `json:"normalized_skills"`
}

// ApplyEnrichment merges an enrichment patch into the draft. Enrichment
// is strictly fill-only: a field is written only while it is still empty
// or still at its default, so values set by the user or by a primary
// import are never overwritten.
func ApplyEnrichment(current JobDraft, patch EnrichmentPatch) JobDraft {
	d := current

	fillString(&d.Industry, patch.Industry)
	fillString(&d.CompanySizeBand, patch.CompanySizeBand)
	fillString(&d.FundingStage, patch.FundingStage)

	if len(d.TechEnvironment) == 0 && len(patch.TechEnvironment) > 0 {
		setList(&d.TechEnvironment, patch.TechEnvironment)
	}
	if len(d.Skills) == 0 && len(patch.NormalizedSkills) > 0 {
		setList(&d.Skills, patch.NormalizedSkills)
	}
	if d.HiringUrgency == "" || d.HiringUrgency == UrgencyStandard {
		if u := ParseHiringUrgency(patch.HiringUrgency); u != "" {
			d.HiringUrgency = u
		}
	}

	return d
}

// ExtractedBriefing is the structured result of one intake-briefing
// extraction over a free-text narrative.
type ExtractedBriefing struct {
	TeamSize           FlexInt `json:"team_size"`
	VacancyReason      string  `json:"vacancy_reason"`
	PipelineCandidates FlexInt `json:"pipeline_candidates"`
	DecisionMakers     FlexInt `json:"decision_makers"`
	RemoteDaysPerWeek  FlexInt `json:"remote_days_per_week"`
	CultureNotes       string  `json:"culture_notes"`
	CareerPath         string  `json:"career_path"`
}

// ApplyBriefing merges a briefing extraction additively. Applying two
// extractions in either order yields the same set of populated fields.
func ApplyBriefing(current JobDraft, b ExtractedBriefing) JobDraft {
	d := current
	fillInt(&d.TeamSize, b.TeamSize.Ptr())
	fillString(&d.VacancyReason, b.VacancyReason)
	fillInt(&d.PipelineCandidates, b.PipelineCandidates.Ptr())
	fillInt(&d.DecisionMakers, b.DecisionMakers.Ptr())
	fillInt(&d.RemoteDaysPerWeek, b.RemoteDaysPerWeek.Ptr())
	fillString(&d.CultureNotes, b.CultureNotes)
	fillString(&d.CareerPath, b.CareerPath)
	return d
}

// QuickAnswers carries the user's answers to the follow-up questions.
// Answers feed the same additive path as briefing extraction.
type QuickAnswers struct {
	VacancyReason      string  `json:"vacancy_reason"`
	HiringUrgency      string  `json:"hiring_urgency"`
	DecisionMakers     FlexInt `json:"decision_makers"`
	PipelineCandidates FlexInt `json:"pipeline_candidates"`
	TeamSize           FlexInt `json:"team_size"`
	RemoteDaysPerWeek  FlexInt `json:"remote_days_per_week"`
}

// ApplyAnswers merges quick-question answers additively. An urgency
// answer lands while the draft is still at the default.
func ApplyAnswers(current JobDraft, a QuickAnswers) JobDraft {
	d := current
	fillString(&d.VacancyReason, a.VacancyReason)
	fillInt(&d.DecisionMakers, a.DecisionMakers.Ptr())
	fillInt(&d.PipelineCandidates, a.PipelineCandidates.Ptr())
	fillInt(&d.TeamSize, a.TeamSize.Ptr())
	fillInt(&d.RemoteDaysPerWeek, a.RemoteDaysPerWeek.Ptr())
	if d.HiringUrgency == "" || d.HiringUrgency == UrgencyStandard {
		if u := ParseHiringUrgency(a.HiringUrgency); u != "" {
			d.HiringUrgency = u
		}
	}
	return d
}

// setString: import wins when the incoming value is non-empty.
func setString(dst *string, incoming string) {
	if s := strings.TrimSpace(incoming); s != "" {
		*dst = s
	}
}

// fillString: additive, only an empty destination accepts a value.
func fillString(dst *string, incoming string) {
	if *dst != "" {
		return
	}
	if s := strings.TrimSpace(incoming); s != "" {
		*dst = s
	}
}

// setList copies the incoming slice so the draft never aliases the
// decoded payload's backing array.
func setList(dst *[]string, incoming []string) {
	if len(incoming) > 0 {
		*dst = append([]string(nil), incoming...)
	}
}

func setInt(dst **int, incoming *int) {
	if incoming != nil {
		v := *incoming
		*dst = &v
	}
}

func fillInt(dst **int, incoming *int) {
	if *dst == nil && incoming != nil {
		v := *incoming
		*dst = &v
	}
}
