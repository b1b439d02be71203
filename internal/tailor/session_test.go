package tailor

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"careerpilot/internal/api"
)

type fakeSessionAPI struct {
	tailored *api.TailoredResume

	resumeCalls   int
	keywordCalls  int
	analysisCalls int
	saveCalls     int
	savedTitle    string
	exportIDs     []int64
	exportFormat  api.ExportFormat
}

func (f *fakeSessionAPI) TailorResume(ctx context.Context, req api.TailorRequest) (*api.TailoredResume, error) {
	return f.tailored, nil
}

func (f *fakeSessionAPI) GetResume(ctx context.Context, id int64) (*api.Resume, error) {
	f.resumeCalls++
	return &api.Resume{ID: id, Filename: "base.pdf"}, nil
}

func (f *fakeSessionAPI) GetKeywordMatch(ctx context.Context, comparisonID int64) (*api.KeywordMatch, error) {
	f.keywordCalls++
	return &api.KeywordMatch{Score: 82}, nil
}

func (f *fakeSessionAPI) AnalyzeAll(ctx context.Context, resumeID int64, targetRole string) (*api.AnalysisBundle, error) {
	f.analysisCalls++
	return &api.AnalysisBundle{OverallNotes: "solid"}, nil
}

func (f *fakeSessionAPI) SaveComparison(ctx context.Context, title string, comparison api.TailoredResume) (*api.SavedComparison, error) {
	f.saveCalls++
	f.savedTitle = title
	return &api.SavedComparison{ID: 99, Title: title}, nil
}

func (f *fakeSessionAPI) ExportSavedItems(ctx context.Context, ids []int64, format api.ExportFormat) (*api.ExportResult, error) {
	f.exportIDs = ids
	f.exportFormat = format
	return &api.ExportResult{Filename: "comparison.pdf", Content: []byte("%PDF-1.4")}, nil
}

func newTestSession(t *testing.T) (*Session, *fakeSessionAPI) {
	t.Helper()
	backend := &fakeSessionAPI{
		tailored: &api.TailoredResume{
			ID:            11,
			BaseResumeID:  5,
			TargetCompany: "Initech",
			TargetTitle:   "Platform Engineer",
		},
	}
	s, err := NewSession(context.Background(), backend, api.TailorRequest{BaseResumeID: 5}, nil)
	if err != nil {
		t.Fatalf("NewSession() error: %v", err)
	}
	return s, backend
}

func TestActivateFetchesEachTabOnce(t *testing.T) {
	s, backend := newTestSession(t)
	ctx := context.Background()

	for _, tab := range Tabs {
		for range 3 {
			if _, err := s.Activate(ctx, tab); err != nil {
				t.Fatalf("Activate(%s) error: %v", tab, err)
			}
		}
	}

	if backend.resumeCalls != 1 {
		t.Errorf("original tab fetches = %d, want 1", backend.resumeCalls)
	}
	if backend.keywordCalls != 1 {
		t.Errorf("keyword tab fetches = %d, want 1", backend.keywordCalls)
	}
	if backend.analysisCalls != 1 {
		t.Errorf("analysis tab fetches = %d, want 1", backend.analysisCalls)
	}
}

func TestActivateReturnsCachedContent(t *testing.T) {
	s, _ := newTestSession(t)

	got, err := s.Activate(context.Background(), TabKeywords)
	if err != nil {
		t.Fatalf("Activate(keywords) error: %v", err)
	}
	match, ok := got.(*api.KeywordMatch)
	if !ok || match.Score != 82 {
		t.Errorf("keywords content = %#v, want the fetched match", got)
	}
}

func TestSaveUsesDerivedTitle(t *testing.T) {
	s, backend := newTestSession(t)

	saved, err := s.Save(context.Background())
	if err != nil {
		t.Fatalf("Save() error: %v", err)
	}
	if backend.savedTitle != "Initech - Platform Engineer" {
		t.Errorf("saved title = %q, want %q", backend.savedTitle, "Initech - Platform Engineer")
	}
	if saved.ID != 99 {
		t.Errorf("saved id = %d, want 99", saved.ID)
	}

	if _, err := s.Save(context.Background()); err != nil {
		t.Fatalf("second Save() error: %v", err)
	}
	if backend.saveCalls != 1 {
		t.Errorf("save calls = %d, want 1 for repeated saves", backend.saveCalls)
	}
}

func TestExportWritesReturnedDocument(t *testing.T) {
	s, backend := newTestSession(t)
	dir := t.TempDir()

	path, err := s.Export(context.Background(), api.ExportFormatPDF, dir)
	if err != nil {
		t.Fatalf("Export() error: %v", err)
	}
	if backend.exportFormat != api.ExportFormatPDF {
		t.Errorf("export format = %s, want pdf", backend.exportFormat)
	}
	if len(backend.exportIDs) != 1 || backend.exportIDs[0] != 99 {
		t.Errorf("export ids = %v, want the saved comparison id", backend.exportIDs)
	}
	if filepath.Base(path) != "comparison.pdf" {
		t.Errorf("export path = %q, want the backend filename", path)
	}
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading export: %v", err)
	}
	if string(content) != "%PDF-1.4" {
		t.Errorf("export content = %q, want backend bytes verbatim", content)
	}
}

func TestExportRejectsUnknownFormat(t *testing.T) {
	s, backend := newTestSession(t)

	_, err := s.Export(context.Background(), api.ExportFormat("rtf"), t.TempDir())
	if err == nil {
		t.Fatal("Export() accepted an unsupported format")
	}
	if backend.saveCalls != 0 {
		t.Error("comparison was saved despite a rejected format")
	}
}
