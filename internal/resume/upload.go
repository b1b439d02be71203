package resume

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"careerpilot/internal/api"
	"careerpilot/internal/errors"
)

// allowedExtensions are the document types the backend can parse.
var allowedExtensions = map[string]bool{
	".pdf":  true,
	".doc":  true,
	".docx": true,
}

const defaultMaxUploadBytes = 10 << 20 // 10 MB

// Upload progress is reported at fixed checkpoints rather than byte-accurately.
const (
	progressValidated = 10
	progressSent      = 50
	progressDone      = 100
)

// ProgressFunc receives upload progress checkpoints in the range 0-100.
type ProgressFunc func(percent int)

// UploadOptions configures résumé uploads.
type UploadOptions struct {
	// MaxSizeBytes rejects files larger than this before any request is made.
	MaxSizeBytes int64
}

// Upload validates and uploads one résumé document, caches the result, and
// returns it together with the auto-fill derived from its parsed data.
func (r *Repository) Upload(ctx context.Context, path string, opts UploadOptions, onProgress ProgressFunc) (*api.Resume, Autofill, error) {
	if opts.MaxSizeBytes <= 0 {
		opts.MaxSizeBytes = defaultMaxUploadBytes
	}

	if err := validateUpload(path, opts.MaxSizeBytes); err != nil {
		return nil, Autofill{}, err
	}
	report(onProgress, progressValidated)

	f, err := os.Open(path)
	if err != nil {
		return nil, Autofill{}, errors.NewIOError(errors.ErrCodeFileNotReadable,
			fmt.Sprintf("Cannot open file: %s", path), err)
	}
	defer f.Close()

	res, err := r.api.UploadResume(ctx, filepath.Base(path), f)
	if err != nil {
		return nil, Autofill{}, err
	}
	report(onProgress, progressSent)

	r.put(*res)
	report(onProgress, progressDone)

	if r.logger != nil {
		r.logger.Info("Resume uploaded",
			"resume_id", res.ID,
			"filename", res.Filename,
			"skills_count", res.SkillsCount)
	}
	return res, AutofillFromParsed(res.ParsedData), nil
}

// validateUpload checks extension and size before touching the network.
func validateUpload(path string, maxSize int64) error {
	info, err := os.Stat(path)
	if err != nil {
		return errors.NewIOError(errors.ErrCodeFileNotFound,
			fmt.Sprintf("File not found: %s", path), err)
	}
	if info.IsDir() {
		return errors.NewValidationError(errors.ErrCodeUploadRejected,
			fmt.Sprintf("Not a file: %s", path), nil)
	}

	ext := strings.ToLower(filepath.Ext(path))
	if !allowedExtensions[ext] {
		return errors.NewValidationError(errors.ErrCodeUploadRejected,
			"Unsupported file type, use PDF, DOC or DOCX", nil).
			WithContext("extension", ext)
	}

	if info.Size() > maxSize {
		return errors.NewValidationError(errors.ErrCodeUploadRejected,
			fmt.Sprintf("File exceeds the %d MB upload limit", maxSize>>20), nil).
			WithContext("size_bytes", info.Size())
	}
	return nil
}

func report(onProgress ProgressFunc, percent int) {
	if onProgress != nil {
		onProgress(percent)
	}
}
