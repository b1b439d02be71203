package saved

import (
	"context"
	"testing"

	"careerpilot/internal/api"
	"careerpilot/internal/errors"
)

type fakeSavedAPI struct {
	items      []api.SavedComparison
	deleteErr  error
	bulkErr    error
	bulkResult *api.BulkDeleteResult
	bulkIDs    []int64
}

func (f *fakeSavedAPI) GetSavedComparisons(ctx context.Context) ([]api.SavedComparison, error) {
	return f.items, nil
}

func (f *fakeSavedAPI) DeleteComparison(ctx context.Context, id int64) error {
	return f.deleteErr
}

func (f *fakeSavedAPI) BulkDeleteSavedItems(ctx context.Context, ids []int64) (*api.BulkDeleteResult, error) {
	f.bulkIDs = ids
	if f.bulkErr != nil {
		return nil, f.bulkErr
	}
	if f.bulkResult != nil {
		return f.bulkResult, nil
	}
	return &api.BulkDeleteResult{DeletedIDs: ids}, nil
}

func (f *fakeSavedAPI) ExportSavedItems(ctx context.Context, ids []int64, format api.ExportFormat) (*api.ExportResult, error) {
	return &api.ExportResult{Filename: "saved.docx", Content: []byte("doc")}, nil
}

func threeItems() []api.SavedComparison {
	return []api.SavedComparison{
		{ID: 1, Title: "Initech - Platform Engineer"},
		{ID: 2, Title: "Hooli - SRE"},
		{ID: 3, Title: "Pied Piper - Backend Engineer"},
	}
}

func newTestList(t *testing.T, backend *fakeSavedAPI) *List {
	t.Helper()
	l := NewList(backend, nil)
	if err := l.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh() error: %v", err)
	}
	return l
}

func TestBulkDeleteAppliesAcknowledgedDelta(t *testing.T) {
	backend := &fakeSavedAPI{
		items: threeItems(),
		// The backend acknowledges only one of the two requested ids.
		bulkResult: &api.BulkDeleteResult{DeletedIDs: []int64{1}},
	}
	l := newTestList(t, backend)
	l.EnterSelection()
	l.Toggle(1)
	l.Toggle(3)

	n, err := l.BulkDelete(context.Background())
	if err != nil {
		t.Fatalf("BulkDelete() error: %v", err)
	}
	if n != 1 {
		t.Errorf("deleted count = %d, want the acknowledged 1", n)
	}
	if len(backend.bulkIDs) != 2 {
		t.Errorf("requested ids = %v, want both selected ids", backend.bulkIDs)
	}

	items := l.Items()
	if len(items) != 2 || items[0].ID != 2 || items[1].ID != 3 {
		t.Errorf("remaining ids = %v, want [2 3]", items)
	}
	if l.Selecting() {
		t.Error("still in selection mode after a bulk delete")
	}
}

func TestFailedDeleteLeavesListUnchanged(t *testing.T) {
	backendErr := errors.NewAPIError(errors.ErrCodeAPIFailure, "item is referenced elsewhere", nil)

	t.Run("single", func(t *testing.T) {
		backend := &fakeSavedAPI{items: threeItems(), deleteErr: backendErr}
		l := newTestList(t, backend)

		err := l.DeleteOne(context.Background(), 2)
		if err == nil {
			t.Fatal("DeleteOne() succeeded despite a backend error")
		}
		appErr := err.(*errors.AppError)
		if appErr.Message != "item is referenced elsewhere" {
			t.Errorf("error message = %q, want the backend's verbatim", appErr.Message)
		}
		if len(l.Items()) != 3 {
			t.Errorf("list length = %d, want the unchanged 3", len(l.Items()))
		}
	})

	t.Run("bulk", func(t *testing.T) {
		backend := &fakeSavedAPI{items: threeItems(), bulkErr: backendErr}
		l := newTestList(t, backend)
		l.EnterSelection()
		l.SelectAll()

		if _, err := l.BulkDelete(context.Background()); err == nil {
			t.Fatal("BulkDelete() succeeded despite a backend error")
		}
		if len(l.Items()) != 3 {
			t.Errorf("list length = %d, want the unchanged 3", len(l.Items()))
		}
		if len(l.Selected()) != 3 {
			t.Error("selection was cleared despite the failed delete")
		}
	})
}

func TestSelectionModeLifecycle(t *testing.T) {
	l := newTestList(t, &fakeSavedAPI{items: threeItems()})

	l.EnterSelection()
	if !l.Selecting() {
		t.Fatal("EnterSelection() did not enable selection mode")
	}

	if !l.Toggle(2) {
		t.Error("first toggle = false, want selected")
	}
	if l.Toggle(2) {
		t.Error("second toggle = true, want deselected")
	}

	l.SelectAll()
	if got := l.Selected(); len(got) != 3 || got[0] != 1 || got[2] != 3 {
		t.Errorf("Selected() after SelectAll = %v, want [1 2 3] in list order", got)
	}

	l.DeselectAll()
	if len(l.Selected()) != 0 {
		t.Error("DeselectAll() left items selected")
	}
	if !l.Selecting() {
		t.Error("DeselectAll() left selection mode")
	}

	l.ExitSelection()
	if l.Selecting() {
		t.Error("ExitSelection() did not leave selection mode")
	}
}

func TestConfirmMessagePluralization(t *testing.T) {
	l := newTestList(t, &fakeSavedAPI{items: threeItems()})
	l.EnterSelection()

	l.Toggle(1)
	if got := l.ConfirmMessage(); got != "Delete 1 item?" {
		t.Errorf("ConfirmMessage() = %q, want singular form", got)
	}

	l.Toggle(2)
	if got := l.ConfirmMessage(); got != "Delete 2 items?" {
		t.Errorf("ConfirmMessage() = %q, want plural form", got)
	}
}

func TestBulkDeleteRequiresSelection(t *testing.T) {
	l := newTestList(t, &fakeSavedAPI{items: threeItems()})
	l.EnterSelection()

	if _, err := l.BulkDelete(context.Background()); err == nil {
		t.Fatal("BulkDelete() accepted an empty selection")
	}
}
