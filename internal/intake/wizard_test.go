package intake

import (
	"slices"
	"testing"
)

func validBasicProfile() WizardFormState {
	form := NewFormState()
	form.DreamRole = "Staff Engineer"
	form.TopTasks = []string{"design systems", "mentor", "review code"}
	form.Strengths = []string{"communication", "debugging"}
	return form
}

func TestAdvanceBasicProfileValidation(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(*WizardFormState)
		wantAdvance bool
		wantError   string
	}{
		{
			name:        "complete profile advances",
			mutate:      func(f *WizardFormState) {},
			wantAdvance: true,
		},
		{
			name:        "blank dream role rejected",
			mutate:      func(f *WizardFormState) { f.DreamRole = "" },
			wantAdvance: false,
			wantError:   msgDreamRoleRequired,
		},
		{
			name:        "whitespace dream role rejected",
			mutate:      func(f *WizardFormState) { f.DreamRole = "   " },
			wantAdvance: false,
			wantError:   msgDreamRoleRequired,
		},
		{
			name:        "two non-blank tasks rejected",
			mutate:      func(f *WizardFormState) { f.TopTasks = []string{"a", "", "  "} },
			wantAdvance: false,
			wantError:   msgTopTasksRequired,
		},
		{
			name:        "one strength rejected",
			mutate:      func(f *WizardFormState) { f.Strengths = []string{"x"} },
			wantAdvance: false,
			wantError:   msgStrengthsRequired,
		},
		{
			name: "role checked before tasks and strengths",
			mutate: func(f *WizardFormState) {
				f.DreamRole = ""
				f.TopTasks = nil
				f.Strengths = nil
			},
			wantAdvance: false,
			wantError:   msgDreamRoleRequired,
		},
		{
			name: "tasks checked before strengths",
			mutate: func(f *WizardFormState) {
				f.TopTasks = []string{"a", "", "  "}
				f.Strengths = []string{"x"}
			},
			wantAdvance: false,
			wantError:   msgTopTasksRequired,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := NewWizard()
			w.Form = validBasicProfile()
			tt.mutate(&w.Form)

			advanced := w.Advance()
			if advanced != tt.wantAdvance {
				t.Fatalf("Advance() = %v, want %v", advanced, tt.wantAdvance)
			}
			if w.VisibleError() != tt.wantError {
				t.Errorf("VisibleError() = %q, want %q", w.VisibleError(), tt.wantError)
			}
			wantStep := StepBasicProfile
			if tt.wantAdvance {
				wantStep = StepTargetRole
			}
			if w.Current() != wantStep {
				t.Errorf("Current() = %v, want %v", w.Current(), wantStep)
			}
		})
	}
}

func TestAdvanceLaterStepGates(t *testing.T) {
	w := NewWizard()
	w.Form = validBasicProfile()

	// Steps 1-3: basic profile gate, then two ungated steps.
	for i := 0; i < 3; i++ {
		if !w.Advance() {
			t.Fatalf("step %d: Advance() rejected: %s", i, w.VisibleError())
		}
	}
	if w.Current() != StepLearningPreferences {
		t.Fatalf("Current() = %v, want %v", w.Current(), StepLearningPreferences)
	}

	// Step 4 requires at least one learning style.
	if w.Advance() {
		t.Fatal("Advance() succeeded without a learning style")
	}
	if w.VisibleError() != msgLearningStyleRequired {
		t.Errorf("VisibleError() = %q, want %q", w.VisibleError(), msgLearningStyleRequired)
	}
	w.Form.LearningStyles = []string{"hands-on"}
	if !w.Advance() {
		t.Fatalf("Advance() rejected with a learning style: %s", w.VisibleError())
	}

	// Step 5 requires a motivation to continue.
	if w.Advance() {
		t.Fatal("Advance() succeeded without a motivation")
	}
	if w.VisibleError() != msgMotivationRequired {
		t.Errorf("VisibleError() = %q, want %q", w.VisibleError(), msgMotivationRequired)
	}
}

func TestBackClearsVisibleError(t *testing.T) {
	w := NewWizard()
	if w.Advance() {
		t.Fatal("Advance() succeeded on an empty form")
	}
	if w.VisibleError() == "" {
		t.Fatal("expected a visible error after rejected advance")
	}
	w.Back()
	if w.VisibleError() != "" {
		t.Errorf("VisibleError() = %q after Back, want empty", w.VisibleError())
	}
	if w.Current() != StepBasicProfile {
		t.Errorf("Current() = %v, want %v", w.Current(), StepBasicProfile)
	}
}

func TestSubmitPolicySkipsMotivation(t *testing.T) {
	// The final submit re-validates only the basic-profile rules; a missing
	// motivation selection does not block generation.
	form := validBasicProfile()
	form.LearningStyles = []string{"reading"}
	form.Motivations = nil

	if err := DefaultSubmitPolicy().ValidateForSubmit(form); err != nil {
		t.Fatalf("ValidateForSubmit() = %v, want nil", err)
	}

	form.TopTasks = []string{"a", "", "  "}
	err := DefaultSubmitPolicy().ValidateForSubmit(form)
	if err == nil {
		t.Fatal("ValidateForSubmit() accepted an incomplete basic profile")
	}
}

func TestToggleArrayItem(t *testing.T) {
	tests := []struct {
		name string
		arr  []string
		item string
		want []string
	}{
		{
			name: "add to empty",
			arr:  nil,
			item: "growth",
			want: []string{"growth"},
		},
		{
			name: "add appends",
			arr:  []string{"impact", "salary"},
			item: "growth",
			want: []string{"impact", "salary", "growth"},
		},
		{
			name: "remove preserves order",
			arr:  []string{"impact", "growth", "salary"},
			item: "growth",
			want: []string{"impact", "salary"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ToggleArrayItem(tt.arr, tt.item)
			if !slices.Equal(got, tt.want) {
				t.Errorf("ToggleArrayItem(%v, %q) = %v, want %v", tt.arr, tt.item, got, tt.want)
			}
		})
	}
}

func TestToggleArrayItemInvolution(t *testing.T) {
	cases := [][]string{
		nil,
		{"a"},
		{"a", "b", "c"},
	}
	for _, arr := range cases {
		twice := ToggleArrayItem(ToggleArrayItem(arr, "x"), "x")
		if !slices.Equal(twice, arr) {
			t.Errorf("toggling %q twice on %v = %v, want original", "x", arr, twice)
		}
	}

	// Also when the item starts out present.
	arr := []string{"a", "x", "b"}
	twice := ToggleArrayItem(ToggleArrayItem(arr, "x"), "x")
	want := []string{"a", "b", "x"}
	if !slices.Equal(twice, want) {
		t.Errorf("remove-then-add on %v = %v, want %v", arr, twice, want)
	}
}

func TestIntakeFiltersBlankEntries(t *testing.T) {
	form := validBasicProfile()
	form.TopTasks = []string{"design", "", "  ", "mentor", "review"}
	form.DreamRole = "  Architect  "

	intake := form.Intake()
	if intake.DreamRole != "Architect" {
		t.Errorf("DreamRole = %q, want trimmed value", intake.DreamRole)
	}
	want := []string{"design", "mentor", "review"}
	if !slices.Equal(intake.TopTasks, want) {
		t.Errorf("TopTasks = %v, want %v", intake.TopTasks, want)
	}
}
