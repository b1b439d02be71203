package stories

import (
	"context"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"careerpilot/internal/api"
	"careerpilot/internal/errors"
)

// localIDPrefix marks stories that exist only in this session. Local stories
// never round-trip to the backend's update or delete endpoints.
const localIDPrefix = "story_local_"

// StoryAPI is the backend surface the manager needs.
type StoryAPI interface {
	ListStarStories(ctx context.Context, resumeID int64) ([]api.StarStory, error)
	GenerateStarStory(ctx context.Context, req api.GenerateStoryRequest) (*api.StarStory, error)
	CreateStarStory(ctx context.Context, resumeID int64, story api.StarStory) (*api.StarStory, error)
	UpdateStarStory(ctx context.Context, storyID string, fields api.StarStoryFields) error
	DeleteStarStory(ctx context.Context, storyID string) error
}

// Manager owns the STAR story list for one résumé: generation, persistence,
// edits and deletion. Generated stories that the backend refuses to persist
// are kept locally under a local ID instead of being dropped.
type Manager struct {
	api      StoryAPI
	logger   *errors.Logger
	resumeID int64

	stories  []api.StarStory
	expanded map[string]bool
}

// NewManager creates a story manager for the given résumé.
func NewManager(storyAPI StoryAPI, resumeID int64, logger *errors.Logger) *Manager {
	return &Manager{
		api:      storyAPI,
		logger:   logger,
		resumeID: resumeID,
		expanded: make(map[string]bool),
	}
}

// Refresh replaces the list with the backend's persisted stories. Local
// stories already in the list survive a refresh.
func (m *Manager) Refresh(ctx context.Context) error {
	remote, err := m.api.ListStarStories(ctx, m.resumeID)
	if err != nil {
		return err
	}

	var local []api.StarStory
	for _, s := range m.stories {
		if IsLocalID(s.ID) {
			local = append(local, s)
		}
	}
	m.stories = append(remote, local...)
	return nil
}

// Stories returns the current list.
func (m *Manager) Stories() []api.StarStory {
	out := make([]api.StarStory, len(m.stories))
	copy(out, m.stories)
	return out
}

// Generate produces a story from the selected experiences and attempts to
// persist it. If persistence fails, the generated story is retained locally
// and a warning is returned alongside it; generation output is never lost.
func (m *Manager) Generate(ctx context.Context, experienceIDs []int) (*api.StarStory, string, error) {
	if len(experienceIDs) == 0 {
		return nil, "", errors.NewValidationError(errors.ErrCodeInvalidIntake,
			"Select at least one experience to generate a story from", nil)
	}

	story, err := m.api.GenerateStarStory(ctx, api.GenerateStoryRequest{
		ResumeID:      m.resumeID,
		ExperienceIDs: experienceIDs,
	})
	if err != nil {
		return nil, "", err
	}

	created, err := m.api.CreateStarStory(ctx, m.resumeID, *story)
	if err != nil {
		story.ID = localIDPrefix + uuid.NewString()
		m.stories = append(m.stories, *story)
		if m.logger != nil {
			m.logger.Warn("Story persistence failed, keeping story locally",
				"story_id", story.ID, "error", err)
		}
		return story, "The story was generated but could not be saved", nil
	}

	m.stories = append(m.stories, *created)
	return created, "", nil
}

// SaveEdits pushes the four editable narrative fields to the backend and
// applies them to the list. Local stories are edited in place only.
func (m *Manager) SaveEdits(ctx context.Context, storyID string, fields api.StarStoryFields) error {
	idx := m.indexOf(storyID)
	if idx < 0 {
		return errors.NewValidationError(errors.ErrCodeNotFound,
			"Story not found", nil).WithContext("story_id", storyID)
	}

	if !IsLocalID(storyID) {
		if err := m.api.UpdateStarStory(ctx, storyID, fields); err != nil {
			return err
		}
	}

	m.stories[idx].Situation = fields.Situation
	m.stories[idx].Task = fields.Task
	m.stories[idx].Action = fields.Action
	m.stories[idx].Result = fields.Result
	return nil
}

// Delete removes a story. Persisted stories are deleted on the backend first;
// local stories are removed from the list without an API call.
func (m *Manager) Delete(ctx context.Context, storyID string) error {
	idx := m.indexOf(storyID)
	if idx < 0 {
		return errors.NewValidationError(errors.ErrCodeNotFound,
			"Story not found", nil).WithContext("story_id", storyID)
	}

	if !IsLocalID(storyID) {
		if err := m.api.DeleteStarStory(ctx, storyID); err != nil {
			return err
		}
	}

	m.stories = append(m.stories[:idx], m.stories[idx+1:]...)
	delete(m.expanded, storyID)
	return nil
}

// ToggleExpanded flips a story's expand/collapse flag and reports the new
// state. The flag is per story and purely local.
func (m *Manager) ToggleExpanded(storyID string) bool {
	m.expanded[storyID] = !m.expanded[storyID]
	return m.expanded[storyID]
}

// IsExpanded reports a story's expand/collapse flag.
func (m *Manager) IsExpanded(storyID string) bool {
	return m.expanded[storyID]
}

func (m *Manager) indexOf(storyID string) int {
	for i := range m.stories {
		if m.stories[i].ID == storyID {
			return i
		}
	}
	return -1
}

// IsLocalID reports whether a story ID belongs to a session-local story. Any
// non-numeric ID is treated as local; only backend-assigned numeric IDs may
// reach the update and delete endpoints.
func IsLocalID(id string) bool {
	if strings.HasPrefix(id, localIDPrefix) {
		return true
	}
	_, err := strconv.ParseInt(id, 10, 64)
	return err != nil
}
