package intake

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScoreEmptyDraft(t *testing.T) {
	draft := NewJobDraft()
	assert.Equal(t, 0, Score(&draft))
}

func TestScoreMonotonicOnFill(t *testing.T) {
	draft := NewJobDraft()
	prev := Score(&draft)

	steps := []func(d *JobDraft){
		func(d *JobDraft) { d.Title = "Backend Engineer" },
		func(d *JobDraft) { d.CompanyName = "Acme" },
		func(d *JobDraft) { d.Description = "Build the platform." },
		func(d *JobDraft) { d.SalaryMin = intPtr(60000) },
		func(d *JobDraft) { d.Skills = []string{"Go"} },
		func(d *JobDraft) { d.Location = "Berlin" },
		func(d *JobDraft) { d.TeamSize = intPtr(6) },
		func(d *JobDraft) { d.CultureNotes = "async-first" },
	}

	for _, step := range steps {
		step(&draft)
		score := Score(&draft)
		assert.GreaterOrEqual(t, score, prev)
		prev = score
	}
}

func TestScoreDropsWhenFieldCleared(t *testing.T) {
	draft := NewJobDraft()
	draft.Title = "Backend Engineer"
	draft.CompanyName = "Acme"
	withTitle := Score(&draft)

	draft.Title = ""
	assert.Less(t, Score(&draft), withTitle)
}

func TestScoreWeighsCoreFieldsHigher(t *testing.T) {
	titleOnly := NewJobDraft()
	titleOnly.Title = "Backend Engineer"

	notesOnly := NewJobDraft()
	notesOnly.CultureNotes = "flat hierarchy"

	assert.Greater(t, Score(&titleOnly), Score(&notesOnly))
}

func TestScoreBounds(t *testing.T) {
	full := NewJobDraft()
	full.Title = "Backend Engineer"
	full.CompanyName = "Acme"
	full.Description = "Build the checkout platform."
	full.Requirements = "5y Go"
	full.Location = "Berlin"
	full.RemoteMode = RemoteHybrid
	full.EmploymentType = "full-time"
	full.ExperienceLevel = "senior"
	full.Skills = []string{"Go"}
	full.MustHaves = []string{"Go"}
	full.NiceToHaves = []string{"Kafka"}
	full.SalaryMin = intPtr(70000)
	full.SalaryMax = intPtr(90000)
	full.Industry = "e-commerce"
	full.CompanySizeBand = "51-200"
	full.FundingStage = "series-b"
	full.TechEnvironment = []string{"AWS"}
	full.HiringUrgency = UrgencyUrgent
	full.TeamSize = intPtr(6)
	full.VacancyReason = "growth"
	full.PipelineCandidates = intPtr(2)
	full.DecisionMakers = intPtr(3)
	full.RemoteDaysPerWeek = intPtr(2)
	full.CultureNotes = "pairing-heavy"
	full.CareerPath = "staff track"

	assert.Equal(t, CanonicalFieldCount, FilledFieldCount(&full))
	assert.Equal(t, 100, Score(&full))
}
