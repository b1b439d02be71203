package formatters

import (
	"encoding/json"
	"fmt"
	"strings"

	"careerpilot/internal/api"
)

// Placeholder strings for sections the backend returned empty. Output never
// renders a blank section.
const (
	placeholderSummary        = "No summary provided."
	placeholderCompetencies   = "No key competencies identified."
	placeholderExperience     = "No experience entries."
	placeholderEducation      = "No education entries."
	placeholderCertifications = "No certifications listed."
	placeholderAlignment      = "No alignment statement provided."
	placeholderTimeline       = "No timeline estimated."
	placeholderPhases         = "No phases planned."
)

// Formatter interface for different output formats
type Formatter interface {
	Format(data any) (string, error)
	SupportedType() string
}

// FormatterRegistry manages all available formatters
type FormatterRegistry struct {
	formatters map[string]map[string]Formatter // format -> type -> formatter
}

// NewFormatterRegistry creates a new formatter registry with default formatters
func NewFormatterRegistry() *FormatterRegistry {
	registry := &FormatterRegistry{
		formatters: make(map[string]map[string]Formatter),
	}

	registry.RegisterFormatter("json", "any", &JSONFormatter{})
	registry.RegisterFormatter("text", "CareerPlan", &PlanTextFormatter{})
	registry.RegisterFormatter("markdown", "CareerPlan", &PlanMarkdownFormatter{})
	registry.RegisterFormatter("text", "TailoredResume", &TailoredTextFormatter{})
	registry.RegisterFormatter("markdown", "TailoredResume", &TailoredMarkdownFormatter{})
	registry.RegisterFormatter("text", "StarStories", &StoriesTextFormatter{})
	registry.RegisterFormatter("text", "SavedComparisons", &SavedTextFormatter{})
	registry.RegisterFormatter("text", "AnalysisBundle", &AnalysisTextFormatter{})
	registry.RegisterFormatter("text", "Resume", &ResumeTextFormatter{})
	registry.RegisterFormatter("text", "Resumes", &ResumesTextFormatter{})
	registry.RegisterFormatter("text", "KeywordMatch", &KeywordsTextFormatter{})

	// Types without a dedicated markdown renderer reuse their text
	// formatter, so every advertised format works for every data type.
	registry.RegisterFormatter("markdown", "StarStories", &StoriesTextFormatter{})
	registry.RegisterFormatter("markdown", "SavedComparisons", &SavedTextFormatter{})
	registry.RegisterFormatter("markdown", "AnalysisBundle", &AnalysisTextFormatter{})
	registry.RegisterFormatter("markdown", "Resume", &ResumeTextFormatter{})
	registry.RegisterFormatter("markdown", "Resumes", &ResumesTextFormatter{})
	registry.RegisterFormatter("markdown", "KeywordMatch", &KeywordsTextFormatter{})

	return registry
}

// RegisterFormatter registers a new formatter for a specific format and data type
func (fr *FormatterRegistry) RegisterFormatter(format, dataType string, formatter Formatter) {
	if fr.formatters[format] == nil {
		fr.formatters[format] = make(map[string]Formatter)
	}
	fr.formatters[format][dataType] = formatter
}

// Format formats data using the appropriate formatter
func (fr *FormatterRegistry) Format(data any, format string) (string, error) {
	dataType := getDataType(data)

	if formatters, exists := fr.formatters[format]; exists {
		if formatter, exists := formatters[dataType]; exists {
			return formatter.Format(data)
		}
		if formatter, exists := formatters["any"]; exists {
			return formatter.Format(data)
		}
	}

	return "", fmt.Errorf("no formatter found for format '%s' and type '%s'", format, dataType)
}

// GetSupportedFormats returns all supported formats
func (fr *FormatterRegistry) GetSupportedFormats() []string {
	formats := make([]string, 0, len(fr.formatters))
	for format := range fr.formatters {
		formats = append(formats, format)
	}
	return formats
}

func getDataType(data any) string {
	switch data.(type) {
	case api.CareerPlan, *api.CareerPlan:
		return "CareerPlan"
	case api.TailoredResume, *api.TailoredResume:
		return "TailoredResume"
	case []api.StarStory:
		return "StarStories"
	case []api.SavedComparison:
		return "SavedComparisons"
	case api.AnalysisBundle, *api.AnalysisBundle:
		return "AnalysisBundle"
	case api.Resume, *api.Resume:
		return "Resume"
	case []api.Resume:
		return "Resumes"
	case api.KeywordMatch, *api.KeywordMatch:
		return "KeywordMatch"
	default:
		return "any"
	}
}

func orPlaceholder(s, placeholder string) string {
	if strings.TrimSpace(s) == "" {
		return placeholder
	}
	return s
}

// JSONFormatter handles JSON formatting for any data type
type JSONFormatter struct{}

func (jf *JSONFormatter) Format(data any) (string, error) {
	jsonData, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return "", err
	}
	return string(jsonData), nil
}

func (jf *JSONFormatter) SupportedType() string {
	return "any"
}

func asPlan(data any) (*api.CareerPlan, error) {
	switch v := data.(type) {
	case api.CareerPlan:
		return &v, nil
	case *api.CareerPlan:
		return v, nil
	}
	return nil, fmt.Errorf("expected CareerPlan, got %T", data)
}

// PlanTextFormatter handles text formatting for career plans
type PlanTextFormatter struct{}

func (ptf *PlanTextFormatter) Format(data any) (string, error) {
	plan, err := asPlan(data)
	if err != nil {
		return "", err
	}

	var output strings.Builder

	output.WriteString("=== CAREER PLAN ===\n\n")
	output.WriteString(orPlaceholder(plan.Summary, placeholderSummary))
	output.WriteString("\n\n")
	output.WriteString("Estimated Timeline: ")
	output.WriteString(orPlaceholder(plan.EstimatedTimeline, placeholderTimeline))
	output.WriteString("\n\n")

	output.WriteString("=== PHASES ===\n")
	if len(plan.Phases) == 0 {
		output.WriteString(placeholderPhases)
		output.WriteString("\n")
	}
	for i, phase := range plan.Phases {
		output.WriteString(fmt.Sprintf("\n%d. %s (%s)\n", i+1, phase.Title, phase.Duration))
		output.WriteString("   ")
		output.WriteString(phase.Description)
		output.WriteString("\n")
		for _, action := range phase.Actions {
			output.WriteString(fmt.Sprintf("   - %s\n", action))
		}
	}

	if len(plan.SkillsToBuild) > 0 {
		output.WriteString("\n=== SKILLS TO BUILD ===\n")
		for _, skill := range plan.SkillsToBuild {
			output.WriteString(fmt.Sprintf("- %s\n", skill))
		}
	}

	if len(plan.Certifications) > 0 {
		output.WriteString("\n=== CERTIFICATIONS ===\n")
		for _, cert := range plan.Certifications {
			output.WriteString(fmt.Sprintf("- %s (%s): %s\n", cert.Name, cert.Provider, cert.Relevance))
		}
	}

	if len(plan.Milestones) > 0 {
		output.WriteString("\n=== MILESTONES ===\n")
		for i, milestone := range plan.Milestones {
			output.WriteString(fmt.Sprintf("%d. %s\n", i+1, milestone))
		}
	}

	return output.String(), nil
}

func (ptf *PlanTextFormatter) SupportedType() string {
	return "CareerPlan"
}

// PlanMarkdownFormatter handles markdown formatting for career plans
type PlanMarkdownFormatter struct{}

func (pmf *PlanMarkdownFormatter) Format(data any) (string, error) {
	plan, err := asPlan(data)
	if err != nil {
		return "", err
	}

	var output strings.Builder

	output.WriteString("# Career Plan\n\n")
	output.WriteString(orPlaceholder(plan.Summary, placeholderSummary))
	output.WriteString("\n\n")
	output.WriteString("**Estimated Timeline:** ")
	output.WriteString(orPlaceholder(plan.EstimatedTimeline, placeholderTimeline))
	output.WriteString("\n\n")

	output.WriteString("## Phases\n\n")
	if len(plan.Phases) == 0 {
		output.WriteString(placeholderPhases)
		output.WriteString("\n\n")
	}
	for i, phase := range plan.Phases {
		output.WriteString(fmt.Sprintf("### %d. %s (%s)\n\n", i+1, phase.Title, phase.Duration))
		output.WriteString(phase.Description)
		output.WriteString("\n\n")
		for _, action := range phase.Actions {
			output.WriteString(fmt.Sprintf("- %s\n", action))
		}
		if len(phase.Actions) > 0 {
			output.WriteString("\n")
		}
	}

	if len(plan.SkillsToBuild) > 0 {
		output.WriteString("## Skills to Build\n\n")
		for _, skill := range plan.SkillsToBuild {
			output.WriteString(fmt.Sprintf("- %s\n", skill))
		}
		output.WriteString("\n")
	}

	if len(plan.Certifications) > 0 {
		output.WriteString("## Certifications\n\n")
		for _, cert := range plan.Certifications {
			output.WriteString(fmt.Sprintf("- **%s** (%s): %s\n", cert.Name, cert.Provider, cert.Relevance))
		}
		output.WriteString("\n")
	}

	if len(plan.Milestones) > 0 {
		output.WriteString("## Milestones\n\n")
		for i, milestone := range plan.Milestones {
			output.WriteString(fmt.Sprintf("%d. %s\n", i+1, milestone))
		}
	}

	return output.String(), nil
}

func (pmf *PlanMarkdownFormatter) SupportedType() string {
	return "CareerPlan"
}

func asTailored(data any) (*api.TailoredResume, error) {
	switch v := data.(type) {
	case api.TailoredResume:
		return &v, nil
	case *api.TailoredResume:
		return v, nil
	}
	return nil, fmt.Errorf("expected TailoredResume, got %T", data)
}

// TailoredTextFormatter handles text formatting for tailored resumes
type TailoredTextFormatter struct{}

func (ttf *TailoredTextFormatter) Format(data any) (string, error) {
	result, err := asTailored(data)
	if err != nil {
		return "", err
	}

	var output strings.Builder

	output.WriteString("=== TAILORED RESUME ===\n")
	output.WriteString(fmt.Sprintf("Target: %s - %s\n\n", result.TargetCompany, result.TargetTitle))

	output.WriteString("=== SUMMARY ===\n")
	output.WriteString(orPlaceholder(result.Summary, placeholderSummary))
	output.WriteString("\n\n")

	output.WriteString("=== KEY COMPETENCIES ===\n")
	if len(result.Competencies) == 0 {
		output.WriteString(placeholderCompetencies)
		output.WriteString("\n")
	}
	for _, c := range result.Competencies {
		output.WriteString(fmt.Sprintf("- %s\n", c))
	}
	output.WriteString("\n")

	output.WriteString("=== EXPERIENCE ===\n")
	if len(result.Experience) == 0 {
		output.WriteString(placeholderExperience)
		output.WriteString("\n")
	}
	for _, exp := range result.Experience {
		output.WriteString(fmt.Sprintf("\n%s, %s (%s)\n", exp.Title, exp.Company, exp.Duration))
		for _, h := range exp.Highlights {
			output.WriteString(fmt.Sprintf("- %s\n", h))
		}
	}
	output.WriteString("\n")

	output.WriteString("=== EDUCATION ===\n")
	if len(result.Education) == 0 {
		output.WriteString(placeholderEducation)
		output.WriteString("\n")
	}
	for _, edu := range result.Education {
		output.WriteString(fmt.Sprintf("- %s, %s (%s)\n", edu.Degree, edu.Institution, edu.Year))
	}
	output.WriteString("\n")

	output.WriteString("=== CERTIFICATIONS ===\n")
	if len(result.Certifications) == 0 {
		output.WriteString(placeholderCertifications)
		output.WriteString("\n")
	}
	for _, cert := range result.Certifications {
		output.WriteString(fmt.Sprintf("- %s\n", cert))
	}
	output.WriteString("\n")

	output.WriteString("=== ALIGNMENT ===\n")
	output.WriteString(orPlaceholder(result.AlignmentStatement, placeholderAlignment))
	output.WriteString("\n")

	return output.String(), nil
}

func (ttf *TailoredTextFormatter) SupportedType() string {
	return "TailoredResume"
}

// TailoredMarkdownFormatter handles markdown formatting for tailored resumes
type TailoredMarkdownFormatter struct{}

func (tmf *TailoredMarkdownFormatter) Format(data any) (string, error) {
	result, err := asTailored(data)
	if err != nil {
		return "", err
	}

	var output strings.Builder

	output.WriteString("# Tailored Resume\n\n")
	output.WriteString(fmt.Sprintf("**Target:** %s - %s\n\n", result.TargetCompany, result.TargetTitle))

	output.WriteString("## Summary\n\n")
	output.WriteString(orPlaceholder(result.Summary, placeholderSummary))
	output.WriteString("\n\n")

	output.WriteString("## Key Competencies\n\n")
	if len(result.Competencies) == 0 {
		output.WriteString(placeholderCompetencies)
		output.WriteString("\n")
	}
	for _, c := range result.Competencies {
		output.WriteString(fmt.Sprintf("- %s\n", c))
	}
	output.WriteString("\n")

	output.WriteString("## Experience\n\n")
	if len(result.Experience) == 0 {
		output.WriteString(placeholderExperience)
		output.WriteString("\n")
	}
	for _, exp := range result.Experience {
		output.WriteString(fmt.Sprintf("### %s, %s (%s)\n\n", exp.Title, exp.Company, exp.Duration))
		for _, h := range exp.Highlights {
			output.WriteString(fmt.Sprintf("- %s\n", h))
		}
		if len(exp.Highlights) > 0 {
			output.WriteString("\n")
		}
	}

	output.WriteString("## Education\n\n")
	if len(result.Education) == 0 {
		output.WriteString(placeholderEducation)
		output.WriteString("\n")
	}
	for _, edu := range result.Education {
		output.WriteString(fmt.Sprintf("- %s, %s (%s)\n", edu.Degree, edu.Institution, edu.Year))
	}
	output.WriteString("\n")

	output.WriteString("## Certifications\n\n")
	if len(result.Certifications) == 0 {
		output.WriteString(placeholderCertifications)
		output.WriteString("\n")
	}
	for _, cert := range result.Certifications {
		output.WriteString(fmt.Sprintf("- %s\n", cert))
	}
	output.WriteString("\n")

	output.WriteString("## Alignment\n\n")
	output.WriteString(orPlaceholder(result.AlignmentStatement, placeholderAlignment))
	output.WriteString("\n")

	return output.String(), nil
}

func (tmf *TailoredMarkdownFormatter) SupportedType() string {
	return "TailoredResume"
}

// StoriesTextFormatter handles text formatting for STAR story lists
type StoriesTextFormatter struct{}

func (stf *StoriesTextFormatter) Format(data any) (string, error) {
	stories, ok := data.([]api.StarStory)
	if !ok {
		return "", fmt.Errorf("expected []StarStory, got %T", data)
	}

	var output strings.Builder

	output.WriteString("=== STAR STORIES ===\n\n")
	if len(stories) == 0 {
		output.WriteString("No stories yet.\n")
		return output.String(), nil
	}

	for i, story := range stories {
		output.WriteString(fmt.Sprintf("%d. %s [%s]\n", i+1, story.Title, story.ID))
		output.WriteString("   Situation: ")
		output.WriteString(story.Situation)
		output.WriteString("\n   Task: ")
		output.WriteString(story.Task)
		output.WriteString("\n   Action: ")
		output.WriteString(story.Action)
		output.WriteString("\n   Result: ")
		output.WriteString(story.Result)
		output.WriteString("\n")
		if len(story.KeyThemes) > 0 {
			output.WriteString(fmt.Sprintf("   Themes: %s\n", strings.Join(story.KeyThemes, ", ")))
		}
		output.WriteString("\n")
	}

	return output.String(), nil
}

func (stf *StoriesTextFormatter) SupportedType() string {
	return "StarStories"
}

// SavedTextFormatter handles text formatting for saved comparison lists
type SavedTextFormatter struct{}

func (stf *SavedTextFormatter) Format(data any) (string, error) {
	items, ok := data.([]api.SavedComparison)
	if !ok {
		return "", fmt.Errorf("expected []SavedComparison, got %T", data)
	}

	var output strings.Builder

	output.WriteString("=== SAVED COMPARISONS ===\n\n")
	if len(items) == 0 {
		output.WriteString("Nothing saved yet.\n")
		return output.String(), nil
	}

	for _, item := range items {
		output.WriteString(fmt.Sprintf("%d. %s", item.ID, item.Title))
		if item.CreatedAt != "" {
			output.WriteString(fmt.Sprintf(" (saved %s)", item.CreatedAt))
		}
		output.WriteString("\n")
	}

	return output.String(), nil
}

func (stf *SavedTextFormatter) SupportedType() string {
	return "SavedComparisons"
}

// AnalysisTextFormatter handles text formatting for analysis bundles
type AnalysisTextFormatter struct{}

func (atf *AnalysisTextFormatter) Format(data any) (string, error) {
	var bundle *api.AnalysisBundle
	switch v := data.(type) {
	case api.AnalysisBundle:
		bundle = &v
	case *api.AnalysisBundle:
		bundle = v
	default:
		return "", fmt.Errorf("expected AnalysisBundle, got %T", data)
	}

	var output strings.Builder

	output.WriteString("=== ANALYSIS ===\n\n")

	if bundle.Trajectory != nil {
		output.WriteString("Trajectory: ")
		output.WriteString(bundle.Trajectory.Direction)
		output.WriteString("\n")
		output.WriteString(bundle.Trajectory.Assessment)
		output.WriteString("\n")
		if len(bundle.Trajectory.NextRoles) > 0 {
			output.WriteString(fmt.Sprintf("Next roles: %s\n", strings.Join(bundle.Trajectory.NextRoles, ", ")))
		}
		output.WriteString("\n")
	}

	if bundle.KeywordMatch != nil {
		output.WriteString(fmt.Sprintf("Keyword Match: %d/100\n", bundle.KeywordMatch.Score))
		if len(bundle.KeywordMatch.MatchedKeywords) > 0 {
			output.WriteString(fmt.Sprintf("Matched: %s\n", strings.Join(bundle.KeywordMatch.MatchedKeywords, ", ")))
		}
		if len(bundle.KeywordMatch.MissingKeywords) > 0 {
			output.WriteString(fmt.Sprintf("Missing: %s\n", strings.Join(bundle.KeywordMatch.MissingKeywords, ", ")))
		}
		output.WriteString("\n")
	}

	if len(bundle.SkillGaps) > 0 {
		output.WriteString("Skill Gaps:\n")
		for _, gap := range bundle.SkillGaps {
			output.WriteString(fmt.Sprintf("- %s (%s): %s\n", gap.Skill, gap.Importance, gap.Suggestion))
		}
		output.WriteString("\n")
	}

	if bundle.OverallNotes != "" {
		output.WriteString("Notes:\n")
		output.WriteString(bundle.OverallNotes)
		output.WriteString("\n")
	}

	return output.String(), nil
}

func (atf *AnalysisTextFormatter) SupportedType() string {
	return "AnalysisBundle"
}

// ResumeTextFormatter handles text formatting for a single résumé record
type ResumeTextFormatter struct{}

func (rf *ResumeTextFormatter) Format(data any) (string, error) {
	var res *api.Resume
	switch v := data.(type) {
	case api.Resume:
		res = &v
	case *api.Resume:
		res = v
	default:
		return "", fmt.Errorf("expected Resume, got %T", data)
	}

	var output strings.Builder

	output.WriteString(fmt.Sprintf("=== RESUME %d ===\n\n", res.ID))
	output.WriteString(fmt.Sprintf("File: %s\n", res.Filename))
	if res.CreatedAt != "" {
		output.WriteString(fmt.Sprintf("Uploaded: %s\n", res.CreatedAt))
	}
	output.WriteString(fmt.Sprintf("Skills: %d\n", res.SkillsCount))

	if res.ParsedData != nil {
		parsed := res.ParsedData
		output.WriteString("\n")
		if parsed.Name != "" {
			output.WriteString(fmt.Sprintf("Name: %s\n", parsed.Name))
		}
		if parsed.Email != "" {
			output.WriteString(fmt.Sprintf("Email: %s\n", parsed.Email))
		}
		if len(parsed.Skills) > 0 {
			output.WriteString(fmt.Sprintf("Skills: %s\n", strings.Join(parsed.Skills, ", ")))
		}
		if len(parsed.Experience) > 0 {
			output.WriteString("\nExperience:\n")
			for _, exp := range parsed.Experience {
				output.WriteString(fmt.Sprintf("- %s, %s (%.1f years)\n",
					exp.Title, exp.Company, exp.DurationYears))
			}
		}
		if len(parsed.Education) > 0 {
			output.WriteString("\nEducation:\n")
			for _, edu := range parsed.Education {
				output.WriteString(fmt.Sprintf("- %s, %s (%s)\n", edu.Degree, edu.Institution, edu.Year))
			}
		}
	}

	return output.String(), nil
}

func (rf *ResumeTextFormatter) SupportedType() string {
	return "Resume"
}

// ResumesTextFormatter handles text formatting for résumé lists
type ResumesTextFormatter struct{}

func (rf *ResumesTextFormatter) Format(data any) (string, error) {
	resumes, ok := data.([]api.Resume)
	if !ok {
		return "", fmt.Errorf("expected []Resume, got %T", data)
	}

	var output strings.Builder

	output.WriteString("=== RESUMES ===\n\n")
	if len(resumes) == 0 {
		output.WriteString("No resumes uploaded yet.\n")
		return output.String(), nil
	}

	for _, res := range resumes {
		output.WriteString(fmt.Sprintf("%d. %s", res.ID, res.Filename))
		if res.CreatedAt != "" {
			output.WriteString(fmt.Sprintf(" (uploaded %s)", res.CreatedAt))
		}
		output.WriteString("\n")
	}

	return output.String(), nil
}

func (rf *ResumesTextFormatter) SupportedType() string {
	return "Resumes"
}

// KeywordsTextFormatter handles text formatting for keyword match reports
type KeywordsTextFormatter struct{}

func (kf *KeywordsTextFormatter) Format(data any) (string, error) {
	var match *api.KeywordMatch
	switch v := data.(type) {
	case api.KeywordMatch:
		match = &v
	case *api.KeywordMatch:
		match = v
	default:
		return "", fmt.Errorf("expected KeywordMatch, got %T", data)
	}

	var output strings.Builder

	output.WriteString("=== KEYWORD MATCH ===\n\n")
	output.WriteString(fmt.Sprintf("Score: %d/100\n", match.Score))
	if len(match.MatchedKeywords) > 0 {
		output.WriteString(fmt.Sprintf("Matched: %s\n", strings.Join(match.MatchedKeywords, ", ")))
	}
	if len(match.MissingKeywords) > 0 {
		output.WriteString(fmt.Sprintf("Missing: %s\n", strings.Join(match.MissingKeywords, ", ")))
	}

	return output.String(), nil
}

func (kf *KeywordsTextFormatter) SupportedType() string {
	return "KeywordMatch"
}

// Global formatter registry
var GlobalRegistry = NewFormatterRegistry()
