package intake

import (
	"slices"
	"strings"

	"careerpilot/internal/api"
)

// WizardFormState is the union of every wizard question's answer. It is
// created with defaults, mutated field by field, flattened into the intake
// payload on submit, and discarded on reset.
type WizardFormState struct {
	// Step 1: basic profile
	DreamRole   string
	TopTasks    []string
	Strengths   []string
	CurrentRole string
	Industry    string
	YearsExp    float64

	// Step 2: target role
	Timeline           string
	SalaryExpectation  string
	LocationPreference string
	WillingToRelocate  bool

	// Step 3: work preferences
	WorkEnvironment      string
	WorkStyle            string
	TeamSize             string
	ManagementInterest   bool
	PreferredCompanySize string

	// Step 4: learning preferences
	LearningStyles      []string
	WeeklyLearningHours int
	LearningBudget      string

	// Step 5: motivation
	Motivations    []string
	MotivationNote string

	ResumeID int64
}

// NewFormState returns the form with its defaults, matching the shape the
// wizard presents on first mount.
func NewFormState() WizardFormState {
	return WizardFormState{
		TopTasks:  make([]string, 3),
		Strengths: make([]string, 2),
	}
}

// Intake flattens the form into the generation payload.
func (f WizardFormState) Intake() api.PlanIntake {
	return api.PlanIntake{
		DreamRole:            strings.TrimSpace(f.DreamRole),
		TopTasks:             nonBlank(f.TopTasks),
		Strengths:            nonBlank(f.Strengths),
		CurrentRole:          f.CurrentRole,
		Industry:             f.Industry,
		YearsExperience:      f.YearsExp,
		Timeline:             f.Timeline,
		WorkEnvironment:      f.WorkEnvironment,
		WorkStyle:            f.WorkStyle,
		TeamSize:             f.TeamSize,
		ManagementInterest:   f.ManagementInterest,
		LearningStyles:       f.LearningStyles,
		WeeklyLearningHours:  f.WeeklyLearningHours,
		LearningBudget:       f.LearningBudget,
		Motivations:          f.Motivations,
		MotivationNote:       f.MotivationNote,
		SalaryExpectation:    f.SalaryExpectation,
		LocationPreference:   f.LocationPreference,
		WillingToRelocate:    f.WillingToRelocate,
		PreferredCompanySize: f.PreferredCompanySize,
		ResumeID:             f.ResumeID,
	}
}

// ToggleArrayItem removes item if present (preserving the order of the rest)
// and appends it otherwise. Applying it twice returns the original selection.
func ToggleArrayItem[T comparable](arr []T, item T) []T {
	if i := slices.Index(arr, item); i >= 0 {
		out := make([]T, 0, len(arr)-1)
		out = append(out, arr[:i]...)
		return append(out, arr[i+1:]...)
	}
	out := make([]T, 0, len(arr)+1)
	out = append(out, arr...)
	return append(out, item)
}

// nonBlank filters out empty and whitespace-only entries.
func nonBlank(items []string) []string {
	out := make([]string, 0, len(items))
	for _, s := range items {
		if strings.TrimSpace(s) != "" {
			out = append(out, s)
		}
	}
	return out
}

// countNonBlank counts entries that survive trimming.
func countNonBlank(items []string) int {
	n := 0
	for _, s := range items {
		if strings.TrimSpace(s) != "" {
			n++
		}
	}
	return n
}
