package resume

import (
	"context"
	"io"
	"sync"

	"careerpilot/internal/api"
	"careerpilot/internal/errors"
)

// ResumeAPI is the backend surface the repository needs.
type ResumeAPI interface {
	GetResumes(ctx context.Context) ([]api.Resume, error)
	GetResume(ctx context.Context, id int64) (*api.Resume, error)
	UploadResume(ctx context.Context, filename string, content io.Reader) (*api.Resume, error)
}

// Repository caches the server-owned résumé list for the plan, tailor and
// story flows. Reads return snapshot copies so callers can never mutate the
// cache; all methods are safe for concurrent use.
type Repository struct {
	mu      sync.RWMutex
	resumes []api.Resume

	api    ResumeAPI
	logger *errors.Logger
}

// NewRepository creates an empty repository backed by the given API.
func NewRepository(resumeAPI ResumeAPI, logger *errors.Logger) *Repository {
	return &Repository{
		api:    resumeAPI,
		logger: logger,
	}
}

// Refresh replaces the cached list with the backend's current one.
func (r *Repository) Refresh(ctx context.Context) error {
	resumes, err := r.api.GetResumes(ctx)
	if err != nil {
		return err
	}

	r.mu.Lock()
	r.resumes = resumes
	r.mu.Unlock()

	if r.logger != nil {
		r.logger.Debug("Resume cache refreshed", "count", len(resumes))
	}
	return nil
}

// All returns a snapshot copy of the cached résumés.
func (r *Repository) All() []api.Resume {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]api.Resume, len(r.resumes))
	for i, res := range r.resumes {
		out[i] = cloneResume(res)
	}
	return out
}

// Get returns a snapshot of the cached résumé with the given id, or a
// not-found error when it is absent.
func (r *Repository) Get(id int64) (*api.Resume, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, res := range r.resumes {
		if res.ID == id {
			c := cloneResume(res)
			return &c, nil
		}
	}
	return nil, errors.NewValidationError(errors.ErrCodeNotFound,
		"Resume not found", nil).WithContext("resume_id", id)
}

// Select fetches one résumé from the backend, caches it, and returns the
// auto-fill derived from its parsed data. Choosing an existing résumé follows
// the same auto-fill path as a fresh upload.
func (r *Repository) Select(ctx context.Context, id int64) (*api.Resume, Autofill, error) {
	res, err := r.api.GetResume(ctx, id)
	if err != nil {
		return nil, Autofill{}, err
	}
	r.put(*res)
	return res, AutofillFromParsed(res.ParsedData), nil
}

// Len returns the number of cached résumés.
func (r *Repository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.resumes)
}

// put inserts or replaces one résumé in the cache.
func (r *Repository) put(res api.Resume) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.resumes {
		if r.resumes[i].ID == res.ID {
			r.resumes[i] = res
			return
		}
	}
	r.resumes = append(r.resumes, res)
}

// cloneResume deep-copies the parsed data so snapshots share nothing with the
// cache.
func cloneResume(res api.Resume) api.Resume {
	if res.ParsedData == nil {
		return res
	}
	parsed := *res.ParsedData
	parsed.Skills = append([]string(nil), res.ParsedData.Skills...)
	parsed.Experience = append([]api.ExperienceEntry(nil), res.ParsedData.Experience...)
	parsed.Education = append([]api.EducationEntry(nil), res.ParsedData.Education...)
	res.ParsedData = &parsed
	return res
}
