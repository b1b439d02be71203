package resume

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"careerpilot/internal/api"
	"careerpilot/internal/errors"
)

type fakeResumeAPI struct {
	resumes    []api.Resume
	uploaded   *api.Resume
	uploadErr  error
	getCalls   int
	uploadName string
}

func (f *fakeResumeAPI) GetResumes(ctx context.Context) ([]api.Resume, error) {
	return f.resumes, nil
}

func (f *fakeResumeAPI) GetResume(ctx context.Context, id int64) (*api.Resume, error) {
	f.getCalls++
	for _, r := range f.resumes {
		if r.ID == id {
			c := r
			return &c, nil
		}
	}
	return nil, errors.NewAPIError(errors.ErrCodeNotFound, "Resume not found", nil)
}

func (f *fakeResumeAPI) UploadResume(ctx context.Context, filename string, content io.Reader) (*api.Resume, error) {
	f.uploadName = filename
	if f.uploadErr != nil {
		return nil, f.uploadErr
	}
	return f.uploaded, nil
}

func TestRepositorySnapshotsAreIsolated(t *testing.T) {
	backend := &fakeResumeAPI{
		resumes: []api.Resume{
			{ID: 1, Filename: "cv.pdf", ParsedData: &api.ParsedResume{
				Skills: []string{"Go"},
			}},
		},
	}
	repo := NewRepository(backend, nil)
	if err := repo.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh() error: %v", err)
	}

	snap := repo.All()
	snap[0].ParsedData.Skills[0] = "mutated"
	snap[0].Filename = "mutated.pdf"

	got, err := repo.Get(1)
	if err != nil {
		t.Fatalf("Get(1) error: %v", err)
	}
	if got.Filename != "cv.pdf" {
		t.Errorf("cached filename = %q, want %q", got.Filename, "cv.pdf")
	}
	if got.ParsedData.Skills[0] != "Go" {
		t.Errorf("cached skill = %q, snapshot mutation leaked into the cache", got.ParsedData.Skills[0])
	}
}

func TestRepositoryGetMissing(t *testing.T) {
	repo := NewRepository(&fakeResumeAPI{}, nil)
	_, err := repo.Get(42)
	if err == nil {
		t.Fatal("Get(42) succeeded on an empty repository")
	}
	appErr, ok := err.(*errors.AppError)
	if !ok || appErr.Code != errors.ErrCodeNotFound {
		t.Errorf("error = %v, want code %s", err, errors.ErrCodeNotFound)
	}
}

func TestUploadReportsCheckpoints(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "resume.pdf")
	if err := os.WriteFile(path, []byte("%PDF-1.4 test"), 0o644); err != nil {
		t.Fatal(err)
	}

	backend := &fakeResumeAPI{
		uploaded: &api.Resume{ID: 7, Filename: "resume.pdf", ParsedData: &api.ParsedResume{
			Experience: []api.ExperienceEntry{
				{Title: "Staff Engineer", Industry: "Fintech", DurationYears: 4},
				{Title: "Engineer", Industry: "Retail", DurationYears: 2.5},
				{Title: "Intern", Industry: "Retail"},
			},
		}},
	}
	repo := NewRepository(backend, nil)

	var checkpoints []int
	res, fill, err := repo.Upload(context.Background(), path, UploadOptions{}, func(p int) {
		checkpoints = append(checkpoints, p)
	})
	if err != nil {
		t.Fatalf("Upload() error: %v", err)
	}
	if backend.uploadName != "resume.pdf" {
		t.Errorf("upload filename = %q, want base name of the path", backend.uploadName)
	}
	if len(checkpoints) != 3 || checkpoints[0] != 10 || checkpoints[1] != 50 || checkpoints[2] != 100 {
		t.Errorf("checkpoints = %v, want [10 50 100]", checkpoints)
	}
	if res.ID != 7 {
		t.Errorf("resume id = %d, want 7", res.ID)
	}
	if got, err := repo.Get(7); err != nil || got == nil {
		t.Errorf("uploaded resume not cached: %v", err)
	}
	if fill.CurrentRole != "Staff Engineer" || fill.Industry != "Fintech" {
		t.Errorf("autofill role/industry = %q/%q, want from the most recent entry", fill.CurrentRole, fill.Industry)
	}
	if fill.YearsExperience != 6.5 {
		t.Errorf("autofill years = %v, want 6.5", fill.YearsExperience)
	}
}

func TestUploadValidation(t *testing.T) {
	dir := t.TempDir()
	txt := filepath.Join(dir, "resume.txt")
	if err := os.WriteFile(txt, []byte("plain text"), 0o644); err != nil {
		t.Fatal(err)
	}
	big := filepath.Join(dir, "big.pdf")
	if err := os.WriteFile(big, make([]byte, 2048), 0o644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		path string
		opts UploadOptions
		code string
	}{
		{"missing file", filepath.Join(dir, "absent.pdf"), UploadOptions{}, errors.ErrCodeFileNotFound},
		{"unsupported extension", txt, UploadOptions{}, errors.ErrCodeUploadRejected},
		{"directory", dir, UploadOptions{}, errors.ErrCodeUploadRejected},
		{"oversized", big, UploadOptions{MaxSizeBytes: 1024}, errors.ErrCodeUploadRejected},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			backend := &fakeResumeAPI{}
			repo := NewRepository(backend, nil)
			_, _, err := repo.Upload(context.Background(), tt.path, tt.opts, nil)
			if err == nil {
				t.Fatal("Upload() accepted an invalid file")
			}
			appErr, ok := err.(*errors.AppError)
			if !ok {
				t.Fatalf("error type = %T, want *errors.AppError", err)
			}
			if appErr.Code != tt.code {
				t.Errorf("error code = %s, want %s", appErr.Code, tt.code)
			}
			if backend.uploadName != "" {
				t.Error("request was sent despite failed validation")
			}
		})
	}
}

func TestSelectFollowsAutofillPath(t *testing.T) {
	backend := &fakeResumeAPI{
		resumes: []api.Resume{
			{ID: 3, Filename: "old.docx", ParsedData: &api.ParsedResume{
				Experience: []api.ExperienceEntry{
					{Title: "Analyst", Industry: "Banking", DurationYears: 3},
				},
			}},
		},
	}
	repo := NewRepository(backend, nil)

	res, fill, err := repo.Select(context.Background(), 3)
	if err != nil {
		t.Fatalf("Select() error: %v", err)
	}
	if res.ID != 3 {
		t.Errorf("resume id = %d, want 3", res.ID)
	}
	if fill.CurrentRole != "Analyst" || fill.Industry != "Banking" || fill.YearsExperience != 3 {
		t.Errorf("autofill = %+v, want role/industry/years from the fetched resume", fill)
	}
	if backend.getCalls != 1 {
		t.Errorf("GetResume calls = %d, want 1", backend.getCalls)
	}
}

func TestTotalYearsEmptyList(t *testing.T) {
	if got := TotalYears(nil); got != 0 {
		t.Errorf("TotalYears(nil) = %v, want 0", got)
	}
	if fill := AutofillFromParsed(nil); fill != (Autofill{}) {
		t.Errorf("AutofillFromParsed(nil) = %+v, want zero value", fill)
	}
}
