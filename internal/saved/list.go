package saved

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"careerpilot/internal/api"
	"careerpilot/internal/errors"
)

// SavedAPI is the backend surface the list needs.
type SavedAPI interface {
	GetSavedComparisons(ctx context.Context) ([]api.SavedComparison, error)
	DeleteComparison(ctx context.Context, id int64) error
	BulkDeleteSavedItems(ctx context.Context, ids []int64) (*api.BulkDeleteResult, error)
	ExportSavedItems(ctx context.Context, ids []int64, format api.ExportFormat) (*api.ExportResult, error)
}

// List manages the saved-comparison collection: refresh, per-item delete,
// and a multi-select mode for bulk delete and export. Cache mutations happen
// only after the backend acknowledges them; a failed delete leaves the list
// untouched.
type List struct {
	api    SavedAPI
	logger *errors.Logger

	items     []api.SavedComparison
	selecting bool
	selected  map[int64]bool
}

// NewList creates an empty list backed by the given API.
func NewList(savedAPI SavedAPI, logger *errors.Logger) *List {
	return &List{
		api:      savedAPI,
		logger:   logger,
		selected: make(map[int64]bool),
	}
}

// Refresh replaces the cached items with the backend's current ones.
func (l *List) Refresh(ctx context.Context) error {
	items, err := l.api.GetSavedComparisons(ctx)
	if err != nil {
		return err
	}
	l.items = items
	l.pruneSelection()
	return nil
}

// Items returns a copy of the cached items.
func (l *List) Items() []api.SavedComparison {
	out := make([]api.SavedComparison, len(l.items))
	copy(out, l.items)
	return out
}

// EnterSelection switches to multi-select mode with an empty selection.
func (l *List) EnterSelection() {
	l.selecting = true
	l.selected = make(map[int64]bool)
}

// ExitSelection leaves multi-select mode and clears the selection.
func (l *List) ExitSelection() {
	l.selecting = false
	l.selected = make(map[int64]bool)
}

// Selecting reports whether the list is in multi-select mode.
func (l *List) Selecting() bool {
	return l.selecting
}

// Toggle flips one item's selection and reports the new state.
func (l *List) Toggle(id int64) bool {
	if l.selected[id] {
		delete(l.selected, id)
		return false
	}
	l.selected[id] = true
	return true
}

// SelectAll selects every cached item.
func (l *List) SelectAll() {
	for _, item := range l.items {
		l.selected[item.ID] = true
	}
}

// DeselectAll clears the selection without leaving selection mode.
func (l *List) DeselectAll() {
	l.selected = make(map[int64]bool)
}

// Selected returns the selected ids in list order.
func (l *List) Selected() []int64 {
	out := make([]int64, 0, len(l.selected))
	for _, item := range l.items {
		if l.selected[item.ID] {
			out = append(out, item.ID)
		}
	}
	return out
}

// ConfirmMessage is the prompt shown before a bulk delete.
func (l *List) ConfirmMessage() string {
	n := len(l.Selected())
	if n == 1 {
		return "Delete 1 item?"
	}
	return fmt.Sprintf("Delete %d items?", n)
}

// DeleteOne removes a single confirmed item. The caller confirms before
// calling; the cache changes only if the backend call succeeds.
func (l *List) DeleteOne(ctx context.Context, id int64) error {
	if err := l.api.DeleteComparison(ctx, id); err != nil {
		return err
	}
	l.remove([]int64{id})
	return nil
}

// BulkDelete removes the confirmed selection. Only the ids the backend
// acknowledges are dropped from the cache; a failed call leaves it unchanged.
// It returns how many items were removed.
func (l *List) BulkDelete(ctx context.Context) (int, error) {
	ids := l.Selected()
	if len(ids) == 0 {
		return 0, errors.NewValidationError(errors.ErrCodeInvalidIntake,
			"Nothing selected", nil)
	}

	result, err := l.api.BulkDeleteSavedItems(ctx, ids)
	if err != nil {
		return 0, err
	}

	l.remove(result.DeletedIDs)
	l.ExitSelection()
	if l.logger != nil {
		l.logger.Info("Saved items deleted",
			"requested", len(ids), "deleted", len(result.DeletedIDs))
	}
	return len(result.DeletedIDs), nil
}

// Export renders the selection in the requested format and writes the
// returned document under dir, returning the written file's path.
func (l *List) Export(ctx context.Context, format api.ExportFormat, dir string) (string, error) {
	ids := l.Selected()
	if len(ids) == 0 {
		return "", errors.NewValidationError(errors.ErrCodeInvalidIntake,
			"Nothing selected", nil)
	}

	result, err := l.api.ExportSavedItems(ctx, ids, format)
	if err != nil {
		return "", err
	}

	name := result.Filename
	if name == "" {
		name = fmt.Sprintf("saved-items.%s", format)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, result.Content, 0o644); err != nil {
		return "", errors.NewIOError(errors.ErrCodeFileNotReadable,
			fmt.Sprintf("Cannot write export file: %s", path), err)
	}
	return path, nil
}

// remove drops the given ids from the cache, preserving order.
func (l *List) remove(ids []int64) {
	drop := make(map[int64]bool, len(ids))
	for _, id := range ids {
		drop[id] = true
	}

	kept := l.items[:0]
	for _, item := range l.items {
		if !drop[item.ID] {
			kept = append(kept, item)
		}
	}
	l.items = kept
	l.pruneSelection()
}

// pruneSelection drops selections that no longer match a cached item.
func (l *List) pruneSelection() {
	present := make(map[int64]bool, len(l.items))
	for _, item := range l.items {
		present[item.ID] = true
	}
	for id := range l.selected {
		if !present[id] {
			delete(l.selected, id)
		}
	}
}
