package intake

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanTransition(t *testing.T) {
	tests := []struct {
		name    string
		from    State
		to      State
		allowed bool
	}{
		{"Selection to importing", StateSelection, StateImporting, true},
		{"Importing to review", StateImporting, StateReview, true},
		{"Importing back to selection on failure", StateImporting, StateSelection, true},
		{"Review to submitting", StateReview, StateSubmitting, true},
		{"Review back to selection on restart", StateReview, StateSelection, true},
		{"Submitting back to review on failure", StateSubmitting, StateReview, true},
		{"Selection cannot jump to review", StateSelection, StateReview, false},
		{"Selection cannot jump to submitting", StateSelection, StateSubmitting, false},
		{"Review cannot re-enter importing directly", StateReview, StateImporting, false},
		{"Submitting cannot return to selection", StateSubmitting, StateSelection, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.allowed, CanTransition(tt.from, tt.to))
		})
	}
}

func TestParseSubmitMode(t *testing.T) {
	mode, err := ParseSubmitMode("draft")
	require.NoError(t, err)
	assert.Equal(t, SubmitDraft, mode)

	mode, err = ParseSubmitMode("publish")
	require.NoError(t, err)
	assert.Equal(t, SubmitPublish, mode)

	_, err = ParseSubmitMode("archive")
	assert.Error(t, err)
}

func publishableDraft() JobDraft {
	d := NewJobDraft()
	d.Title = "Backend Engineer"
	d.CompanyName = "Acme"
	d.SalaryMin = intPtr(60000)
	d.SalaryMax = intPtr(80000)
	return d
}

func TestValidateForSave(t *testing.T) {
	d := NewJobDraft()
	err := ValidateForSave(&d)

	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, FieldTitle, vErr.Field)

	d.Title = "Backend Engineer"
	err = ValidateForSave(&d)
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, FieldCompanyName, vErr.Field)

	d.CompanyName = "Acme"
	assert.NoError(t, ValidateForSave(&d))
}

func TestValidateForPublishSalaryRequired(t *testing.T) {
	d := publishableDraft()
	d.SalaryMax = nil

	err := ValidateForPublish(&d, true)

	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, FieldSalaryRange, vErr.Field)

	// The same draft still saves fine.
	assert.NoError(t, ValidateForSave(&d))
}

func TestValidateForPublishSalaryOrdering(t *testing.T) {
	d := publishableDraft()
	d.SalaryMin = intPtr(80000)
	d.SalaryMax = intPtr(80000)

	err := ValidateForPublish(&d, true)

	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, FieldSalaryRange, vErr.Field)
	assert.Contains(t, vErr.Reason, "below")
}

func TestValidateForPublishRequiresVerification(t *testing.T) {
	d := publishableDraft()

	err := ValidateForPublish(&d, false)

	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Contains(t, vErr.Reason, "verification")

	// Draft save is still allowed for an unverified account.
	assert.NoError(t, Validate(&d, SubmitDraft, false))
}

func TestValidateForPublishHappyPath(t *testing.T) {
	d := publishableDraft()
	assert.NoError(t, Validate(&d, SubmitPublish, true))
}

func TestErrInvalidTransitionMessage(t *testing.T) {
	err := &ErrInvalidTransition{From: StateSelection, To: StateSubmitting}

	var target *ErrInvalidTransition
	assert.True(t, errors.As(err, &target))
	assert.Contains(t, err.Error(), string(StateSelection))
	assert.Contains(t, err.Error(), string(StateSubmitting))
}
