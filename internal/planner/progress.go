package planner

// progressMessages are the staged status lines shown while a generation job
// runs. The backend's progress value selects one.
var progressMessages = [6]string{
	"Reviewing your profile...",
	"Mapping your target role...",
	"Analyzing skill gaps...",
	"Drafting your plan phases...",
	"Selecting certifications and milestones...",
	"Finalizing your career plan...",
}

// MessageIndex maps a 0-100 progress value to a message slot: one slot per 20
// points, clamped to the last entry. Out-of-range values clamp at both ends.
func MessageIndex(progress int) int {
	if progress < 0 {
		return 0
	}
	idx := progress / 20
	if idx > len(progressMessages)-1 {
		return len(progressMessages) - 1
	}
	return idx
}

// MessageFor returns the staged message for a progress value.
func MessageFor(progress int) string {
	return progressMessages[MessageIndex(progress)]
}
