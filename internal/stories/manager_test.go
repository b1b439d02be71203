package stories

import (
	"context"
	"strings"
	"testing"

	"careerpilot/internal/api"
	"careerpilot/internal/errors"
)

type fakeStoryAPI struct {
	remote    []api.StarStory
	generated *api.StarStory
	createErr error

	updateIDs []string
	deleteIDs []string
}

func (f *fakeStoryAPI) ListStarStories(ctx context.Context, resumeID int64) ([]api.StarStory, error) {
	return f.remote, nil
}

func (f *fakeStoryAPI) GenerateStarStory(ctx context.Context, req api.GenerateStoryRequest) (*api.StarStory, error) {
	return f.generated, nil
}

func (f *fakeStoryAPI) CreateStarStory(ctx context.Context, resumeID int64, story api.StarStory) (*api.StarStory, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	created := story
	created.ID = "301"
	return &created, nil
}

func (f *fakeStoryAPI) UpdateStarStory(ctx context.Context, storyID string, fields api.StarStoryFields) error {
	f.updateIDs = append(f.updateIDs, storyID)
	return nil
}

func (f *fakeStoryAPI) DeleteStarStory(ctx context.Context, storyID string) error {
	f.deleteIDs = append(f.deleteIDs, storyID)
	return nil
}

func TestGeneratePersists(t *testing.T) {
	backend := &fakeStoryAPI{generated: &api.StarStory{Title: "Migration win"}}
	m := NewManager(backend, 1, nil)

	story, warning, err := m.Generate(context.Background(), []int{0, 2})
	if err != nil {
		t.Fatalf("Generate() error: %v", err)
	}
	if warning != "" {
		t.Errorf("warning = %q, want none on successful persistence", warning)
	}
	if story.ID != "301" {
		t.Errorf("story id = %q, want the backend-assigned id", story.ID)
	}
	if len(m.Stories()) != 1 {
		t.Errorf("list length = %d, want 1", len(m.Stories()))
	}
}

func TestGenerateKeepsStoryWhenPersistenceFails(t *testing.T) {
	backend := &fakeStoryAPI{
		generated: &api.StarStory{Title: "Outage recovery"},
		createErr: errors.NewAPIError(errors.ErrCodeAPIFailure, "backend down", nil),
	}
	m := NewManager(backend, 1, nil)

	story, warning, err := m.Generate(context.Background(), []int{1})
	if err != nil {
		t.Fatalf("Generate() error: %v", err)
	}
	if warning == "" {
		t.Error("no warning despite failed persistence")
	}
	if !strings.HasPrefix(story.ID, "story_local_") {
		t.Errorf("story id = %q, want a story_local_ prefix", story.ID)
	}
	if !IsLocalID(story.ID) {
		t.Errorf("IsLocalID(%q) = false, want true", story.ID)
	}
	if len(m.Stories()) != 1 {
		t.Errorf("list length = %d, want the local story retained", len(m.Stories()))
	}
}

func TestGenerateRequiresExperienceSelection(t *testing.T) {
	m := NewManager(&fakeStoryAPI{}, 1, nil)
	_, _, err := m.Generate(context.Background(), nil)
	if err == nil {
		t.Fatal("Generate() accepted an empty experience selection")
	}
}

func TestSaveEditsSkipsAPIForLocalStories(t *testing.T) {
	backend := &fakeStoryAPI{
		generated: &api.StarStory{Title: "Local only"},
		createErr: errors.NewAPIError(errors.ErrCodeAPIFailure, "backend down", nil),
	}
	m := NewManager(backend, 1, nil)
	story, _, err := m.Generate(context.Background(), []int{0})
	if err != nil {
		t.Fatal(err)
	}

	fields := api.StarStoryFields{Situation: "S", Task: "T", Action: "A", Result: "R"}
	if err := m.SaveEdits(context.Background(), story.ID, fields); err != nil {
		t.Fatalf("SaveEdits() error: %v", err)
	}
	if len(backend.updateIDs) != 0 {
		t.Errorf("update calls = %v, local ids must never reach the backend", backend.updateIDs)
	}
	if got := m.Stories()[0]; got.Situation != "S" || got.Result != "R" {
		t.Errorf("edited story = %+v, fields not applied locally", got)
	}
}

func TestSaveEditsUpdatesPersistedStories(t *testing.T) {
	backend := &fakeStoryAPI{remote: []api.StarStory{{ID: "42", Title: "Persisted"}}}
	m := NewManager(backend, 1, nil)
	if err := m.Refresh(context.Background()); err != nil {
		t.Fatal(err)
	}

	if err := m.SaveEdits(context.Background(), "42", api.StarStoryFields{Situation: "S"}); err != nil {
		t.Fatalf("SaveEdits() error: %v", err)
	}
	if len(backend.updateIDs) != 1 || backend.updateIDs[0] != "42" {
		t.Errorf("update calls = %v, want exactly [42]", backend.updateIDs)
	}
}

func TestDeleteSkipsAPIForLocalStories(t *testing.T) {
	backend := &fakeStoryAPI{
		remote:    []api.StarStory{{ID: "42", Title: "Persisted"}},
		generated: &api.StarStory{Title: "Local"},
		createErr: errors.NewAPIError(errors.ErrCodeAPIFailure, "backend down", nil),
	}
	m := NewManager(backend, 1, nil)
	if err := m.Refresh(context.Background()); err != nil {
		t.Fatal(err)
	}
	local, _, err := m.Generate(context.Background(), []int{0})
	if err != nil {
		t.Fatal(err)
	}

	if err := m.Delete(context.Background(), local.ID); err != nil {
		t.Fatalf("Delete(local) error: %v", err)
	}
	if len(backend.deleteIDs) != 0 {
		t.Errorf("delete calls = %v, local ids must never reach the backend", backend.deleteIDs)
	}

	if err := m.Delete(context.Background(), "42"); err != nil {
		t.Fatalf("Delete(persisted) error: %v", err)
	}
	if len(backend.deleteIDs) != 1 || backend.deleteIDs[0] != "42" {
		t.Errorf("delete calls = %v, want exactly [42]", backend.deleteIDs)
	}
	if len(m.Stories()) != 0 {
		t.Errorf("list length = %d, want 0 after both deletions", len(m.Stories()))
	}
}

func TestRefreshKeepsLocalStories(t *testing.T) {
	backend := &fakeStoryAPI{
		generated: &api.StarStory{Title: "Local"},
		createErr: errors.NewAPIError(errors.ErrCodeAPIFailure, "backend down", nil),
	}
	m := NewManager(backend, 1, nil)
	if _, _, err := m.Generate(context.Background(), []int{0}); err != nil {
		t.Fatal(err)
	}

	backend.remote = []api.StarStory{{ID: "7", Title: "Remote"}}
	if err := m.Refresh(context.Background()); err != nil {
		t.Fatal(err)
	}

	stories := m.Stories()
	if len(stories) != 2 {
		t.Fatalf("list length = %d, want remote plus surviving local", len(stories))
	}
	if !IsLocalID(stories[1].ID) {
		t.Errorf("second story id = %q, want the local one", stories[1].ID)
	}
}

func TestToggleExpanded(t *testing.T) {
	m := NewManager(&fakeStoryAPI{}, 1, nil)
	if !m.ToggleExpanded("9") {
		t.Error("first toggle = false, want true")
	}
	if m.ToggleExpanded("9") {
		t.Error("second toggle = true, want false")
	}
	if m.IsExpanded("9") {
		t.Error("IsExpanded = true after an even number of toggles")
	}
}

func TestIsLocalID(t *testing.T) {
	tests := []struct {
		id   string
		want bool
	}{
		{"42", false},
		{"story_local_abc", true},
		{"draft-1", true},
		{"", true},
	}
	for _, tt := range tests {
		if got := IsLocalID(tt.id); got != tt.want {
			t.Errorf("IsLocalID(%q) = %v, want %v", tt.id, got, tt.want)
		}
	}
}
