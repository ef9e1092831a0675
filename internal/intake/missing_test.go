package intake

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMissingFieldsEmptyDraft(t *testing.T) {
	draft := NewJobDraft()

	missing := MissingFields(&draft)

	// The default urgency counts as unanswered.
	assert.Equal(t, []Field{
		FieldVacancyReason,
		FieldHiringUrgency,
		FieldDecisionMakers,
		FieldPipelineCandidates,
		FieldTeamSize,
		FieldRemoteDaysPerWeek,
	}, missing)
}

func TestMissingFieldsShrinkAsAnswersLand(t *testing.T) {
	draft := NewJobDraft()
	draft = ApplyAnswers(draft, QuickAnswers{
		VacancyReason: "growth",
		HiringUrgency: "urgent",
		TeamSize:      FlexInt{Value: intPtr(4)},
	})

	missing := MissingFields(&draft)

	assert.Equal(t, []Field{
		FieldDecisionMakers,
		FieldPipelineCandidates,
		FieldRemoteDaysPerWeek,
	}, missing)
}

func TestMissingFieldsNoneLeft(t *testing.T) {
	draft := NewJobDraft()
	draft = ApplyAnswers(draft, QuickAnswers{
		VacancyReason:      "backfill",
		HiringUrgency:      "asap",
		DecisionMakers:     FlexInt{Value: intPtr(2)},
		PipelineCandidates: FlexInt{Value: intPtr(1)},
		TeamSize:           FlexInt{Value: intPtr(7)},
		RemoteDaysPerWeek:  FlexInt{Value: intPtr(3)},
	})

	assert.Empty(t, MissingFields(&draft))
}
