package cli

import (
	"strings"
	"testing"

	"careerpilot/internal/intake"
)

func completeForm() intake.WizardFormState {
	return intake.WizardFormState{
		DreamRole:      "Staff Engineer",
		TopTasks:       []string{"design systems", "mentor", "review"},
		Strengths:      []string{"debugging", "writing"},
		LearningStyles: []string{"reading"},
	}
}

func TestValidateIntake(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*intake.WizardFormState)
		wantErr string
	}{
		{
			name:   "complete form",
			mutate: func(f *intake.WizardFormState) {},
		},
		{
			// The motivation selection gates the last step's own
			// Continue, not the generate action.
			name:   "no motivation still generates",
			mutate: func(f *intake.WizardFormState) { f.Motivations = nil },
		},
		{
			name:    "missing dream role",
			mutate:  func(f *intake.WizardFormState) { f.DreamRole = "  " },
			wantErr: "dream role",
		},
		{
			name: "too few tasks",
			mutate: func(f *intake.WizardFormState) {
				f.TopTasks = []string{"a", "", "  "}
			},
			wantErr: "at least 3 tasks",
		},
		{
			name: "too few strengths",
			mutate: func(f *intake.WizardFormState) {
				f.Strengths = []string{"x"}
			},
			wantErr: "at least 2 of your strengths",
		},
		{
			name:    "no learning style",
			mutate:  func(f *intake.WizardFormState) { f.LearningStyles = nil },
			wantErr: "learning style",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			form := completeForm()
			tt.mutate(&form)

			err := validateIntake(form)
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("validateIntake() error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatal("validateIntake() accepted an invalid form")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not mention %q", err.Error(), tt.wantErr)
			}
		})
	}
}
