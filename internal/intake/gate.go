// Draft/publish state machine for an intake session.
//
// Valid state graph:
//
//	selection ──► importing ──► review ──► submitting ──► (persisted)
//	    ▲             │            │            │
//	    └─────────────┴────────────┘◄───────────┘
//
// importing falls back to selection on parser failure, review returns to
// selection on restart, and submitting returns to review on validation
// or persistence failure. A persisted session leaves the flow entirely.
package intake

import "fmt"

// State is the lifecycle state of an intake session.
type State string

const (
	StateSelection  State = "selection"
	StateImporting  State = "importing"
	StateReview     State = "review"
	StateSubmitting State = "submitting"
)

// validTransitions lists every allowed (from → to) pair.
var validTransitions = map[State][]State{
	StateSelection:  {StateImporting},
	StateImporting:  {StateReview, StateSelection},
	StateReview:     {StateSubmitting, StateSelection},
	StateSubmitting: {StateReview},
}

// CanTransition reports whether moving from → to is permitted.
func CanTransition(from, to State) bool {
	for _, s := range validTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// ErrInvalidTransition is returned when a session operation is attempted
// in the wrong state.
type ErrInvalidTransition struct {
	From State
	To   State
}

func (e *ErrInvalidTransition) Error() string {
	return fmt.Sprintf("invalid intake transition %s → %s", e.From, e.To)
}

// SubmitMode selects between saving an unfinished draft and submitting
// the posting for approval.
type SubmitMode string

const (
	SubmitDraft   SubmitMode = "draft"
	SubmitPublish SubmitMode = "publish"
)

// ParseSubmitMode converts a raw string to a SubmitMode, returning an
// error for unknown values.
func ParseSubmitMode(s string) (SubmitMode, error) {
	switch SubmitMode(s) {
	case SubmitDraft, SubmitPublish:
		return SubmitMode(s), nil
	}
	return "", fmt.Errorf("unknown submit mode %q", s)
}

// ValidationError names the specific constraint a save or publish
// attempt failed on, so the caller can surface it at the right field.
type ValidationError struct {
	Field  Field
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// ValidateForSave checks the draft-save constraints: title and company
// name must be present.
func ValidateForSave(d *JobDraft) error {
	if d.Title == "" {
		return &ValidationError{Field: FieldTitle, Reason: "title is required"}
	}
	if d.CompanyName == "" {
		return &ValidationError{Field: FieldCompanyName, Reason: "company name is required"}
	}
	return nil
}

// ValidateForPublish checks the pending-approval constraints on top of
// the save constraints: both salary bounds present, min < max, and the
// account allowed to publish. canPublish comes from the caller's
// verification check so the gate stays testable in isolation.
func ValidateForPublish(d *JobDraft, canPublish bool) error {
	if err := ValidateForSave(d); err != nil {
		return err
	}
	if d.SalaryMin == nil || d.SalaryMax == nil {
		return &ValidationError{Field: FieldSalaryRange, Reason: "salary range is required to submit for approval"}
	}
	if *d.SalaryMin >= *d.SalaryMax {
		return &ValidationError{Field: FieldSalaryRange, Reason: "salary minimum must be below the maximum"}
	}
	if !canPublish {
		return &ValidationError{Field: FieldCompanyName, Reason: "complete account verification before submitting for approval"}
	}
	return nil
}

// Validate dispatches on the submit mode.
func Validate(d *JobDraft, mode SubmitMode, canPublish bool) error {
	if mode == SubmitPublish {
		return ValidateForPublish(d, canPublish)
	}
	return ValidateForSave(d)
}
