package tailor

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"careerpilot/internal/api"
	"careerpilot/internal/errors"
)

// Tab identifies one view of a comparison session.
type Tab string

const (
	TabTailored Tab = "tailored"
	TabOriginal Tab = "original"
	TabKeywords Tab = "keywords"
	TabAnalysis Tab = "analysis"
)

// Tabs is the fixed tab order of a comparison session.
var Tabs = []Tab{TabTailored, TabOriginal, TabKeywords, TabAnalysis}

// SessionAPI is the backend surface a comparison session needs.
type SessionAPI interface {
	TailorResume(ctx context.Context, req api.TailorRequest) (*api.TailoredResume, error)
	GetResume(ctx context.Context, id int64) (*api.Resume, error)
	GetKeywordMatch(ctx context.Context, comparisonID int64) (*api.KeywordMatch, error)
	AnalyzeAll(ctx context.Context, resumeID int64, targetRole string) (*api.AnalysisBundle, error)
	SaveComparison(ctx context.Context, title string, comparison api.TailoredResume) (*api.SavedComparison, error)
	ExportSavedItems(ctx context.Context, ids []int64, format api.ExportFormat) (*api.ExportResult, error)
}

// Session holds one tailored-resume comparison and its lazily loaded tabs.
// Activating a tab fetches its data exactly once; revisiting a tab reuses the
// cached result.
type Session struct {
	api    SessionAPI
	logger *errors.Logger

	tailored *api.TailoredResume
	original *api.Resume
	keywords *api.KeywordMatch
	analysis *api.AnalysisBundle
	loaded   map[Tab]bool

	savedID int64
}

// NewSession tailors the base résumé for the requested job and opens a
// comparison session on the result.
func NewSession(ctx context.Context, sessionAPI SessionAPI, req api.TailorRequest, logger *errors.Logger) (*Session, error) {
	tailored, err := sessionAPI.TailorResume(ctx, req)
	if err != nil {
		return nil, err
	}

	return &Session{
		api:      sessionAPI,
		logger:   logger,
		tailored: tailored,
		loaded:   map[Tab]bool{TabTailored: true},
	}, nil
}

// Tailored returns the tailored résumé the session was opened on.
func (s *Session) Tailored() *api.TailoredResume {
	return s.tailored
}

// Activate loads the given tab's data if this is its first activation and
// returns the tab's content.
func (s *Session) Activate(ctx context.Context, tab Tab) (any, error) {
	if !s.loaded[tab] {
		if err := s.fetch(ctx, tab); err != nil {
			return nil, err
		}
		s.loaded[tab] = true
	}

	switch tab {
	case TabTailored:
		return s.tailored, nil
	case TabOriginal:
		return s.original, nil
	case TabKeywords:
		return s.keywords, nil
	case TabAnalysis:
		return s.analysis, nil
	}
	return nil, errors.NewValidationError(errors.ErrCodeInvalidFormat,
		fmt.Sprintf("Unknown tab: %s", tab), nil)
}

func (s *Session) fetch(ctx context.Context, tab Tab) error {
	switch tab {
	case TabOriginal:
		original, err := s.api.GetResume(ctx, s.tailored.BaseResumeID)
		if err != nil {
			return err
		}
		s.original = original
	case TabKeywords:
		keywords, err := s.api.GetKeywordMatch(ctx, s.tailored.ID)
		if err != nil {
			return err
		}
		s.keywords = keywords
	case TabAnalysis:
		analysis, err := s.api.AnalyzeAll(ctx, s.tailored.BaseResumeID, s.tailored.TargetTitle)
		if err != nil {
			return err
		}
		s.analysis = analysis
	}
	return nil
}

// Title derives the persistence title from the comparison's target.
func (s *Session) Title() string {
	return fmt.Sprintf("%s - %s", s.tailored.TargetCompany, s.tailored.TargetTitle)
}

// Save persists the displayed comparison under its derived title. Saving
// twice reuses the first saved record.
func (s *Session) Save(ctx context.Context) (*api.SavedComparison, error) {
	if s.savedID != 0 {
		return &api.SavedComparison{
			ID:            s.savedID,
			Title:         s.Title(),
			TargetCompany: s.tailored.TargetCompany,
			TargetTitle:   s.tailored.TargetTitle,
		}, nil
	}

	saved, err := s.api.SaveComparison(ctx, s.Title(), *s.tailored)
	if err != nil {
		return nil, err
	}
	s.savedID = saved.ID

	if s.logger != nil {
		s.logger.Info("Comparison saved", "comparison_id", saved.ID, "title", saved.Title)
	}
	return saved, nil
}

// Export saves the comparison if needed, asks the backend to render it in the
// requested format, and writes the returned document under dir. It returns
// the written file's path.
func (s *Session) Export(ctx context.Context, format api.ExportFormat, dir string) (string, error) {
	if format != api.ExportFormatPDF && format != api.ExportFormatDOCX {
		return "", errors.NewValidationError(errors.ErrCodeInvalidFormat,
			fmt.Sprintf("Unsupported export format: %s", format), nil)
	}

	if _, err := s.Save(ctx); err != nil {
		return "", err
	}

	result, err := s.api.ExportSavedItems(ctx, []int64{s.savedID}, format)
	if err != nil {
		return "", err
	}

	name := result.Filename
	if name == "" {
		name = fmt.Sprintf("comparison-%d.%s", s.savedID, format)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, result.Content, 0o644); err != nil {
		return "", errors.NewIOError(errors.ErrCodeFileNotReadable,
			fmt.Sprintf("Cannot write export file: %s", path), err)
	}
	return path, nil
}
