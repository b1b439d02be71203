package resume

import "careerpilot/internal/api"

// Autofill holds profile fields derived from a résumé's parsed data. Zero
// values mean the parsed data had nothing to offer for that field.
type Autofill struct {
	CurrentRole     string
	Industry        string
	YearsExperience float64
}

// AutofillFromParsed derives profile fields from parsed résumé data. Role and
// industry come from the most recent experience entry; years of experience is
// the sum of all entry durations, with missing durations counted as zero.
func AutofillFromParsed(parsed *api.ParsedResume) Autofill {
	if parsed == nil {
		return Autofill{}
	}

	out := Autofill{YearsExperience: TotalYears(parsed.Experience)}
	if len(parsed.Experience) > 0 {
		// The backend orders experience most recent first.
		out.CurrentRole = parsed.Experience[0].Title
		out.Industry = parsed.Experience[0].Industry
	}
	return out
}

// TotalYears sums duration_years across experience entries. An empty list
// yields 0.
func TotalYears(entries []api.ExperienceEntry) float64 {
	var total float64
	for _, e := range entries {
		total += e.DurationYears
	}
	return total
}
