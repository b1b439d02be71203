package intake

import (
	"strings"

	"careerpilot/internal/errors"
)

// Step identifies one wizard step.
type Step int

const (
	StepBasicProfile Step = iota
	StepTargetRole
	StepWorkPreferences
	StepLearningPreferences
	StepMotivation
)

// stepCount is the number of wizard steps.
const stepCount = 5

// String returns the step's display name.
func (s Step) String() string {
	switch s {
	case StepBasicProfile:
		return "Basic Profile"
	case StepTargetRole:
		return "Target Role"
	case StepWorkPreferences:
		return "Work Preferences"
	case StepLearningPreferences:
		return "Learning Preferences"
	case StepMotivation:
		return "Motivation"
	default:
		return "Unknown"
	}
}

// Validation messages shown inline when a step refuses to advance.
const (
	msgDreamRoleRequired     = "Please enter your dream role"
	msgTopTasksRequired      = "Please list at least 3 tasks you would love to do"
	msgStrengthsRequired     = "Please list at least 2 of your strengths"
	msgLearningStyleRequired = "Please select at least one learning style"
	msgMotivationRequired    = "Please select at least one motivation"
)

// Wizard sequences the five intake steps. Advancing runs the current step's
// validation predicate; on failure a single visible error is recorded and the
// step does not change.
type Wizard struct {
	Form         WizardFormState
	current      Step
	visibleError string
}

// NewWizard creates a wizard positioned on the first step.
func NewWizard() *Wizard {
	return &Wizard{Form: NewFormState()}
}

// Current returns the active step.
func (w *Wizard) Current() Step {
	return w.current
}

// VisibleError returns the error from the last rejected advance, or "".
func (w *Wizard) VisibleError() string {
	return w.visibleError
}

// Advance validates the current step and moves forward on success. It returns
// false when validation rejects the step or the wizard is already on the last
// step.
func (w *Wizard) Advance() bool {
	if msg := validateStep(w.current, w.Form); msg != "" {
		w.visibleError = msg
		return false
	}
	w.visibleError = ""
	if w.current >= stepCount-1 {
		return false
	}
	w.current++
	return true
}

// Back moves to the previous step. Validation never blocks going back.
func (w *Wizard) Back() {
	w.visibleError = ""
	if w.current > 0 {
		w.current--
	}
}

// Reset discards all answers and returns to the first step.
func (w *Wizard) Reset() {
	w.Form = NewFormState()
	w.current = StepBasicProfile
	w.visibleError = ""
}

// validateStep returns "" when the fields owned by the step are complete, or
// the single inline message to show. Step-1 checks run role, then tasks, then
// strengths; the first failure wins.
func validateStep(step Step, form WizardFormState) string {
	switch step {
	case StepBasicProfile:
		if strings.TrimSpace(form.DreamRole) == "" {
			return msgDreamRoleRequired
		}
		if countNonBlank(form.TopTasks) < 3 {
			return msgTopTasksRequired
		}
		if countNonBlank(form.Strengths) < 2 {
			return msgStrengthsRequired
		}
	case StepLearningPreferences:
		if len(form.LearningStyles) < 1 {
			return msgLearningStyleRequired
		}
	case StepMotivation:
		if len(form.Motivations) < 1 {
			return msgMotivationRequired
		}
	}
	return ""
}

// SubmitPolicy declares which steps the final "generate" action re-validates.
// The product only re-checks the basic-profile rules at submit time: a
// motivation selection gates the step-5 Continue button but not the final
// submission. Centralized here so the rule is stated once instead of being
// re-implemented inline at the call site.
type SubmitPolicy struct {
	Steps []Step
}

// DefaultSubmitPolicy re-validates only the basic-profile step.
func DefaultSubmitPolicy() SubmitPolicy {
	return SubmitPolicy{Steps: []Step{StepBasicProfile}}
}

// ValidateForSubmit applies the policy to the form. It returns nil when every
// policed step passes.
func (p SubmitPolicy) ValidateForSubmit(form WizardFormState) error {
	for _, step := range p.Steps {
		if msg := validateStep(step, form); msg != "" {
			return errors.NewValidationError(errors.ErrCodeInvalidIntake, msg, nil)
		}
	}
	return nil
}
