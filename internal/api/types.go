package api

import "encoding/json"

// JobStatus is the lifecycle state of an asynchronous generation job.
type JobStatus string

const (
	JobStatusPending    JobStatus = "pending"
	JobStatusProcessing JobStatus = "processing"
	JobStatusCompleted  JobStatus = "completed"
	JobStatusFailed     JobStatus = "failed"
)

// Terminal reports whether the job has reached a final state.
func (s JobStatus) Terminal() bool {
	return s == JobStatusCompleted || s == JobStatusFailed
}

// Resume is a server-owned résumé record. Clients hold read-only copies.
type Resume struct {
	ID          int64         `json:"id"`
	Filename    string        `json:"filename"`
	ParsedData  *ParsedResume `json:"parsed_data,omitempty"`
	SkillsCount int           `json:"skills_count"`
	CreatedAt   string        `json:"created_at"`
}

// ParsedResume is the backend's structured extraction of an uploaded document.
type ParsedResume struct {
	Name       string            `json:"name"`
	Email      string            `json:"email"`
	Skills     []string          `json:"skills"`
	Experience []ExperienceEntry `json:"experience"`
	Education  []EducationEntry  `json:"education"`
}

// ExperienceEntry is one work-history item in a parsed résumé.
type ExperienceEntry struct {
	Title         string  `json:"title"`
	Company       string  `json:"company"`
	Industry      string  `json:"industry"`
	DurationYears float64 `json:"duration_years"`
	Description   string  `json:"description"`
}

// EducationEntry is one education item in a parsed résumé.
type EducationEntry struct {
	Degree      string `json:"degree"`
	Institution string `json:"institution"`
	Year        string `json:"year"`
}

// PlanIntake is the flattened payload sent to plan generation.
type PlanIntake struct {
	DreamRole            string   `json:"dream_role"`
	TopTasks             []string `json:"top_tasks"`
	Strengths            []string `json:"strengths"`
	CurrentRole          string   `json:"current_role"`
	Industry             string   `json:"industry"`
	YearsExperience      float64  `json:"years_experience"`
	Timeline             string   `json:"timeline"`
	WorkEnvironment      string   `json:"work_environment"`
	WorkStyle            string   `json:"work_style"`
	TeamSize             string   `json:"team_size"`
	ManagementInterest   bool     `json:"management_interest"`
	LearningStyles       []string `json:"learning_styles"`
	WeeklyLearningHours  int      `json:"weekly_learning_hours"`
	LearningBudget       string   `json:"learning_budget"`
	Motivations          []string `json:"motivations"`
	MotivationNote       string   `json:"motivation_note"`
	SalaryExpectation    string   `json:"salary_expectation"`
	LocationPreference   string   `json:"location_preference"`
	WillingToRelocate    bool     `json:"willing_to_relocate"`
	PreferredCompanySize string   `json:"preferred_company_size"`
	ResumeID             int64    `json:"resume_id,omitempty"`
}

// PlanJob identifies a submitted asynchronous generation job.
type PlanJob struct {
	JobID string `json:"job_id"`
}

// PlanJobStatus is one poll response for a generation job.
type PlanJobStatus struct {
	Status   JobStatus   `json:"status"`
	Progress int         `json:"progress"`
	Message  string      `json:"message"`
	Plan     *CareerPlan `json:"plan,omitempty"`
	Error    string      `json:"error,omitempty"`
}

// CareerPlan is the generated career plan returned by the backend.
type CareerPlan struct {
	Summary           string              `json:"summary"`
	EstimatedTimeline string              `json:"estimated_timeline"`
	Phases            []PlanPhase         `json:"phases"`
	SkillsToBuild     []string            `json:"skills_to_build"`
	Certifications    []CertificationRec  `json:"certifications"`
	Milestones        []string            `json:"milestones"`
}

// planAlias avoids recursion inside CareerPlan.UnmarshalJSON.
type planAlias CareerPlan

// UnmarshalJSON is the single normalization boundary for the backend's mixed
// key casing: some responses carry estimatedTimeline, others
// estimated_timeline. Callers never see the camelCase variant.
func (p *CareerPlan) UnmarshalJSON(data []byte) error {
	var raw struct {
		planAlias
		EstimatedTimelineCamel string `json:"estimatedTimeline"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*p = CareerPlan(raw.planAlias)
	if p.EstimatedTimeline == "" {
		p.EstimatedTimeline = raw.EstimatedTimelineCamel
	}
	return nil
}

// PlanPhase is one stage of a career plan.
type PlanPhase struct {
	Title       string   `json:"title"`
	Duration    string   `json:"duration"`
	Description string   `json:"description"`
	Actions     []string `json:"actions"`
}

// CertificationRec is a recommended certification.
type CertificationRec struct {
	Name      string `json:"name"`
	Provider  string `json:"provider"`
	Relevance string `json:"relevance"`
}

// TailorRequest selects a base résumé and a target posting. Either JobURL or
// Company+JobTitle must be set.
type TailorRequest struct {
	BaseResumeID int64  `json:"base_resume_id"`
	JobURL       string `json:"job_url,omitempty"`
	Company      string `json:"company,omitempty"`
	JobTitle     string `json:"job_title,omitempty"`
}

// TailoredResume is a résumé variant produced for a specific job or company.
type TailoredResume struct {
	ID                 int64                `json:"id"`
	BaseResumeID       int64                `json:"base_resume_id"`
	TargetCompany      string               `json:"target_company"`
	TargetTitle        string               `json:"target_title"`
	Summary            string               `json:"summary"`
	Competencies       []string             `json:"competencies"`
	Experience         []TailoredExperience `json:"experience"`
	Education          []EducationEntry     `json:"education"`
	Certifications     []string             `json:"certifications"`
	AlignmentStatement string               `json:"alignment_statement"`
}

// TailoredExperience is one rewritten work-history item.
type TailoredExperience struct {
	Title      string   `json:"title"`
	Company    string   `json:"company"`
	Duration   string   `json:"duration"`
	Highlights []string `json:"highlights"`
}

// KeywordMatch reports keyword coverage between a résumé and a posting.
type KeywordMatch struct {
	Score           int      `json:"score"`
	MatchedKeywords []string `json:"matched_keywords"`
	MissingKeywords []string `json:"missing_keywords"`
}

// SkillGap is one missing or weak skill against a target role.
type SkillGap struct {
	Skill      string `json:"skill"`
	Importance string `json:"importance"`
	Suggestion string `json:"suggestion"`
}

// TrajectoryAnalysis summarizes career direction.
type TrajectoryAnalysis struct {
	Direction  string   `json:"direction"`
	Assessment string   `json:"assessment"`
	NextRoles  []string `json:"next_roles"`
}

// AnalysisBundle is the combined enrichment analysis for a comparison.
type AnalysisBundle struct {
	Trajectory    *TrajectoryAnalysis `json:"trajectory,omitempty"`
	SkillGaps     []SkillGap          `json:"skill_gaps,omitempty"`
	KeywordMatch  *KeywordMatch       `json:"keyword_match,omitempty"`
	OverallNotes  string              `json:"overall_notes,omitempty"`
}

// StarStory is an interview narrative in Situation/Task/Action/Result form.
// IDs are strings because locally generated stories carry a non-numeric ID
// and never round-trip to the backend; the backend itself assigns numeric ids.
type StarStory struct {
	ID                 string   `json:"id"`
	Title              string   `json:"title"`
	Situation          string   `json:"situation"`
	Task               string   `json:"task"`
	Action             string   `json:"action"`
	Result             string   `json:"result"`
	KeyThemes          []string `json:"key_themes"`
	TalkingPoints      []string `json:"talking_points"`
	ProbingQuestions   []string `json:"probing_questions"`
	ChallengeQuestions []string `json:"challenge_questions"`
}

// storyAlias avoids recursion inside StarStory.UnmarshalJSON.
type storyAlias StarStory

// UnmarshalJSON is the normalization boundary for story ids: the backend
// emits them as JSON numbers while locally generated stories carry strings.
// Callers always see a string.
func (s *StarStory) UnmarshalJSON(data []byte) error {
	var raw struct {
		storyAlias
		ID json.RawMessage `json:"id"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*s = StarStory(raw.storyAlias)
	s.ID = ""
	if len(raw.ID) > 0 && string(raw.ID) != "null" {
		var str string
		if err := json.Unmarshal(raw.ID, &str); err == nil {
			s.ID = str
		} else {
			s.ID = string(raw.ID)
		}
	}
	return nil
}

// StarStoryFields are the editable narrative fields of a story.
type StarStoryFields struct {
	Situation string `json:"situation"`
	Task      string `json:"task"`
	Action    string `json:"action"`
	Result    string `json:"result"`
}

// GenerateStoryRequest selects the source material for story generation.
type GenerateStoryRequest struct {
	ResumeID      int64 `json:"resume_id"`
	ExperienceIDs []int `json:"experience_ids"`
}

// SavedComparison is a persisted tailored-resume comparison.
type SavedComparison struct {
	ID            int64           `json:"id"`
	Title         string          `json:"title"`
	TargetCompany string          `json:"target_company"`
	TargetTitle   string          `json:"target_title"`
	CreatedAt     string          `json:"created_at"`
	Comparison    *TailoredResume `json:"comparison,omitempty"`
}

// ExportFormat is a supported export document format.
type ExportFormat string

const (
	ExportFormatPDF  ExportFormat = "pdf"
	ExportFormatDOCX ExportFormat = "docx"
)

// ExportResult carries an exported document returned by the backend.
type ExportResult struct {
	Filename string `json:"filename"`
	Content  []byte `json:"content"`
}

// BulkDeleteResult acknowledges which items the backend actually removed.
type BulkDeleteResult struct {
	DeletedIDs []int64 `json:"deleted_ids"`
}
