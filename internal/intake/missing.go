package intake

// quickQuestionFields is the fixed set of fields behind the follow-up
// question flow. HiringUrgency counts as missing while it is still at
// the default.
var quickQuestionFields = []Field{
	FieldVacancyReason,
	FieldHiringUrgency,
	FieldDecisionMakers,
	FieldPipelineCandidates,
	FieldTeamSize,
	FieldRemoteDaysPerWeek,
}

// MissingFields returns the quick-question fields still unanswered, in
// question order. Answers must flow back through ApplyAnswers, not
// around the merge rules.
func MissingFields(d *JobDraft) []Field {
	var missing []Field
	for _, name := range quickQuestionFields {
		if !HasField(d, name) {
			missing = append(missing, name)
		}
	}
	return missing
}
