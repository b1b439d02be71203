package formatters

import (
	"strings"
	"testing"

	"careerpilot/internal/api"
)

func TestRegistrySelectsByType(t *testing.T) {
	registry := NewFormatterRegistry()

	tests := []struct {
		name   string
		data   any
		format string
		want   string
	}{
		{
			name:   "plan text",
			data:   api.CareerPlan{Summary: "Move into platform work"},
			format: "text",
			want:   "=== CAREER PLAN ===",
		},
		{
			name:   "plan markdown",
			data:   &api.CareerPlan{Summary: "Move into platform work"},
			format: "markdown",
			want:   "# Career Plan",
		},
		{
			name:   "tailored text",
			data:   api.TailoredResume{TargetCompany: "Initech", TargetTitle: "SRE"},
			format: "text",
			want:   "Target: Initech - SRE",
		},
		{
			name:   "stories text",
			data:   []api.StarStory{{ID: "1", Title: "Migration"}},
			format: "text",
			want:   "=== STAR STORIES ===",
		},
		{
			name:   "saved text",
			data:   []api.SavedComparison{{ID: 4, Title: "Hooli - SRE"}},
			format: "text",
			want:   "4. Hooli - SRE",
		},
		{
			name:   "resume list text",
			data:   []api.Resume{{ID: 3, Filename: "cv.pdf"}},
			format: "text",
			want:   "3. cv.pdf",
		},
		{
			name:   "keyword match text",
			data:   &api.KeywordMatch{Score: 82, MissingKeywords: []string{"terraform"}},
			format: "text",
			want:   "Score: 82/100",
		},
		{
			name:   "stories markdown reuses text rendering",
			data:   []api.StarStory{{ID: "1", Title: "Migration"}},
			format: "markdown",
			want:   "=== STAR STORIES ===",
		},
		{
			name:   "resume list markdown reuses text rendering",
			data:   []api.Resume{{ID: 3, Filename: "cv.pdf"}},
			format: "markdown",
			want:   "3. cv.pdf",
		},
		{
			name:   "keyword match markdown reuses text rendering",
			data:   &api.KeywordMatch{Score: 82, MissingKeywords: []string{"terraform"}},
			format: "markdown",
			want:   "Score: 82/100",
		},
		{
			name:   "json fallback",
			data:   map[string]int{"count": 2},
			format: "json",
			want:   `"count": 2`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := registry.Format(tt.data, tt.format)
			if err != nil {
				t.Fatalf("Format() error: %v", err)
			}
			if !strings.Contains(got, tt.want) {
				t.Errorf("output missing %q:\n%s", tt.want, got)
			}
		})
	}
}

func TestRegistryUnknownFormat(t *testing.T) {
	registry := NewFormatterRegistry()
	if _, err := registry.Format(api.CareerPlan{}, "yaml"); err == nil {
		t.Error("Format() accepted an unregistered format")
	}
}

func TestEmptySectionsRenderPlaceholders(t *testing.T) {
	registry := NewFormatterRegistry()

	out, err := registry.Format(api.TailoredResume{TargetCompany: "Initech", TargetTitle: "SRE"}, "text")
	if err != nil {
		t.Fatalf("Format() error: %v", err)
	}

	for _, placeholder := range []string{
		placeholderSummary,
		placeholderCompetencies,
		placeholderExperience,
		placeholderEducation,
		placeholderCertifications,
		placeholderAlignment,
	} {
		if !strings.Contains(out, placeholder) {
			t.Errorf("output missing placeholder %q", placeholder)
		}
	}

	planOut, err := registry.Format(api.CareerPlan{}, "markdown")
	if err != nil {
		t.Fatalf("Format() error: %v", err)
	}
	if !strings.Contains(planOut, placeholderTimeline) || !strings.Contains(planOut, placeholderPhases) {
		t.Error("empty plan missing timeline or phases placeholder")
	}
}
