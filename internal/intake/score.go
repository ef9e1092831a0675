package intake

// fieldWeights biases the completeness score toward the fields that
// matter most for a publishable posting. Fields missing from this map
// carry weight 1.
var fieldWeights = map[Field]int{
	FieldTitle:         8,
	FieldCompanyName:   8,
	FieldDescription:   6,
	FieldSalaryRange:   6,
	FieldSkills:        4,
	FieldLocation:      3,
	FieldRemoteMode:    3,
	FieldRequirements:  3,
	FieldMustHaves:     2,
	FieldVacancyReason: 2,
	FieldTeamSize:      2,
}

// Score derives the 0-100 intake completeness signal from canonical
// field presence. It is pure and recomputed on every draft mutation;
// populating a field never lowers it and clearing one never raises it.
func Score(d *JobDraft) int {
	total := 0
	filled := 0
	for _, f := range canonicalFields {
		w := fieldWeights[f.Name]
		if w == 0 {
			w = 1
		}
		total += w
		if f.Present(d) {
			filled += w
		}
	}
	if total == 0 {
		return 0
	}
	return filled * 100 / total
}
