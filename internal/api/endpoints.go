package api

import (
	"context"
	"fmt"
	"io"
)

// Career plan generation.

// GenerateCareerPlanAsync submits an intake for asynchronous plan generation
// and returns the job id to poll.
func (c *Client) GenerateCareerPlanAsync(ctx context.Context, intake PlanIntake) (string, error) {
	var job PlanJob
	err := c.post(ctx, "/api/career-plan/generate-async", intake, &job,
		"Failed to start career plan generation")
	if err != nil {
		return "", err
	}
	return job.JobID, nil
}

// GetCareerPlanJobStatus polls one generation job.
func (c *Client) GetCareerPlanJobStatus(ctx context.Context, jobID string) (PlanJobStatus, error) {
	var status PlanJobStatus
	err := c.get(ctx, "/api/career-plan/jobs/"+jobID, &status,
		"Failed to check plan generation status")
	return status, err
}

// GenerateCareerPlan generates a plan synchronously. Used as the fallback when
// asynchronous submission is unavailable.
func (c *Client) GenerateCareerPlan(ctx context.Context, intake PlanIntake) (*CareerPlan, error) {
	var out struct {
		Plan *CareerPlan `json:"plan"`
	}
	err := c.post(ctx, "/api/career-plan/generate", intake, &out,
		"Failed to generate career plan")
	if err != nil {
		return nil, err
	}
	return out.Plan, nil
}

// GenerateDetailedCareerPlan requests the long-form plan for a target role.
func (c *Client) GenerateDetailedCareerPlan(ctx context.Context, resumeID int64, targetRole string) (*CareerPlan, error) {
	body := map[string]any{"resume_id": resumeID, "target_role": targetRole}
	var out struct {
		Plan *CareerPlan `json:"plan"`
	}
	err := c.post(ctx, "/api/career-plan/detailed", body, &out,
		"Failed to generate detailed career plan")
	if err != nil {
		return nil, err
	}
	return out.Plan, nil
}

// Résumés.

// UploadResume uploads a résumé document and returns the parsed server record.
func (c *Client) UploadResume(ctx context.Context, filename string, content io.Reader) (*Resume, error) {
	var resume Resume
	err := c.postMultipart(ctx, "/api/resumes", "file", filename, content, &resume,
		"Failed to upload resume")
	if err != nil {
		return nil, err
	}
	return &resume, nil
}

// GetResume fetches one résumé by id.
func (c *Client) GetResume(ctx context.Context, id int64) (*Resume, error) {
	var resume Resume
	err := c.get(ctx, fmt.Sprintf("/api/resumes/%d", id), &resume,
		"Failed to load resume")
	if err != nil {
		return nil, err
	}
	return &resume, nil
}

// GetResumes fetches all résumés for the current account.
func (c *Client) GetResumes(ctx context.Context) ([]Resume, error) {
	var resumes []Resume
	err := c.get(ctx, "/api/resumes", &resumes,
		"Failed to load resumes")
	return resumes, err
}

// Tailoring and enrichment.

// TailorResume produces a résumé variant targeted at a specific posting.
func (c *Client) TailorResume(ctx context.Context, req TailorRequest) (*TailoredResume, error) {
	var tailored TailoredResume
	err := c.post(ctx, "/api/tailor", req, &tailored,
		"Failed to tailor resume")
	if err != nil {
		return nil, err
	}
	return &tailored, nil
}

// GetKeywordMatch reports keyword coverage for a tailored comparison.
func (c *Client) GetKeywordMatch(ctx context.Context, comparisonID int64) (*KeywordMatch, error) {
	var match KeywordMatch
	err := c.get(ctx, fmt.Sprintf("/api/tailor/%d/keywords", comparisonID), &match,
		"Failed to load keyword analysis")
	if err != nil {
		return nil, err
	}
	return &match, nil
}

// AnalyzeAll runs the combined enrichment analysis for a comparison.
func (c *Client) AnalyzeAll(ctx context.Context, resumeID int64, targetRole string) (*AnalysisBundle, error) {
	body := map[string]any{"resume_id": resumeID, "target_role": targetRole}
	var bundle AnalysisBundle
	err := c.post(ctx, "/api/analysis/all", body, &bundle,
		"Failed to run full analysis")
	if err != nil {
		return nil, err
	}
	return &bundle, nil
}

// AnalyzeCareerTrajectory analyzes career direction for a résumé.
func (c *Client) AnalyzeCareerTrajectory(ctx context.Context, resumeID int64) (*TrajectoryAnalysis, error) {
	body := map[string]any{"resume_id": resumeID}
	var trajectory TrajectoryAnalysis
	err := c.post(ctx, "/api/analysis/trajectory", body, &trajectory,
		"Failed to analyze career trajectory")
	if err != nil {
		return nil, err
	}
	return &trajectory, nil
}

// GetSkillGaps lists skill gaps between a résumé and a target role.
func (c *Client) GetSkillGaps(ctx context.Context, resumeID int64, targetRole string) ([]SkillGap, error) {
	body := map[string]any{"resume_id": resumeID, "target_role": targetRole}
	var gaps []SkillGap
	err := c.post(ctx, "/api/analysis/skill-gaps", body, &gaps,
		"Failed to load skill gaps")
	return gaps, err
}

// STAR stories.

// ListStarStories lists stories for a résumé.
func (c *Client) ListStarStories(ctx context.Context, resumeID int64) ([]StarStory, error) {
	var stories []StarStory
	err := c.get(ctx, fmt.Sprintf("/api/resumes/%d/star-stories", resumeID), &stories,
		"Failed to load stories")
	return stories, err
}

// GenerateStarStory generates a story from the selected experiences. The
// result is not persisted; callers follow up with CreateStarStory.
func (c *Client) GenerateStarStory(ctx context.Context, req GenerateStoryRequest) (*StarStory, error) {
	var story StarStory
	err := c.post(ctx, "/api/star-stories/generate", req, &story,
		"Failed to generate story")
	if err != nil {
		return nil, err
	}
	return &story, nil
}

// CreateStarStory persists a generated story.
func (c *Client) CreateStarStory(ctx context.Context, resumeID int64, story StarStory) (*StarStory, error) {
	body := struct {
		ResumeID int64 `json:"resume_id"`
		StarStory
	}{ResumeID: resumeID, StarStory: story}
	var created StarStory
	err := c.post(ctx, "/api/star-stories", body, &created,
		"Failed to save story")
	if err != nil {
		return nil, err
	}
	return &created, nil
}

// UpdateStarStory updates the narrative fields of a persisted story. Callers
// must not pass locally generated (non-numeric) story ids.
func (c *Client) UpdateStarStory(ctx context.Context, storyID string, fields StarStoryFields) error {
	return c.put(ctx, "/api/star-stories/"+storyID, fields,
		nil, "Failed to update story")
}

// DeleteStarStory deletes a persisted story. Callers must not pass locally
// generated (non-numeric) story ids.
func (c *Client) DeleteStarStory(ctx context.Context, storyID string) error {
	return c.delete(ctx, "/api/star-stories/"+storyID, nil,
		"Failed to delete story")
}

// Saved comparisons.

// SaveComparison persists the currently displayed comparison under a title.
func (c *Client) SaveComparison(ctx context.Context, title string, comparison TailoredResume) (*SavedComparison, error) {
	body := struct {
		Title      string         `json:"title"`
		Comparison TailoredResume `json:"comparison"`
	}{Title: title, Comparison: comparison}
	var saved SavedComparison
	err := c.post(ctx, "/api/saved-comparisons", body, &saved,
		"Failed to save comparison")
	if err != nil {
		return nil, err
	}
	return &saved, nil
}

// GetSavedComparisons lists saved comparisons.
func (c *Client) GetSavedComparisons(ctx context.Context) ([]SavedComparison, error) {
	var items []SavedComparison
	err := c.get(ctx, "/api/saved-comparisons", &items,
		"Failed to load saved comparisons")
	return items, err
}

// DeleteComparison deletes one saved comparison.
func (c *Client) DeleteComparison(ctx context.Context, id int64) error {
	return c.delete(ctx, fmt.Sprintf("/api/saved-comparisons/%d", id), nil,
		"Failed to delete comparison")
}

// BulkDeleteSavedItems deletes multiple saved items and returns the ids the
// backend acknowledged.
func (c *Client) BulkDeleteSavedItems(ctx context.Context, ids []int64) (*BulkDeleteResult, error) {
	body := map[string]any{"ids": ids}
	var result BulkDeleteResult
	err := c.post(ctx, "/api/saved-items/bulk-delete", body, &result,
		"Failed to delete selected items")
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// ExportSavedItems exports saved items as a single document.
func (c *Client) ExportSavedItems(ctx context.Context, ids []int64, format ExportFormat) (*ExportResult, error) {
	body := map[string]any{"ids": ids, "format": format}
	var result ExportResult
	err := c.post(ctx, "/api/saved-items/export", body, &result,
		"Failed to export selected items")
	if err != nil {
		return nil, err
	}
	return &result, nil
}
