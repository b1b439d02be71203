package cli

import (
	"fmt"
	"strconv"

	"careerpilot/internal/api"
	"careerpilot/internal/common"
	"careerpilot/internal/errors"
	"careerpilot/internal/observability"
	"careerpilot/internal/saved"

	"github.com/spf13/cobra"
)

var savedCmd = &cobra.Command{
	Use:   "saved",
	Short: "Manage saved comparisons",
}

var savedListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved comparisons",
	PreRunE: func(cmd *cobra.Command, args []string) error {
		return applyFormatDefaults(cmd, &savedConfig)
	},
	RunE: runSavedList,
}

var savedDeleteCmd = &cobra.Command{
	Use:   "delete [id...]",
	Short: "Delete saved comparisons",
	Long: `Delete one or more saved comparisons. A single id is deleted directly;
multiple ids go through the bulk endpoint and only the items the backend
acknowledges are reported as deleted.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSavedDelete,
}

var savedExportCmd = &cobra.Command{
	Use:   "export [id...]",
	Short: "Export saved comparisons as a document",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runSavedExport,
}

var (
	savedConfig       common.CommandConfig
	savedYes          bool
	savedExportFormat string
	savedExportDir    string
)

func init() {
	savedListCmd.Flags().StringVarP(&savedConfig.OutputFile, "output", "o", "", "Output file path (default: stdout)")
	savedListCmd.Flags().StringVar(&savedConfig.OutputFormat, "format", "", "Output format: json or text")
	_ = savedListCmd.RegisterFlagCompletionFunc("format", formatCompletion)

	savedDeleteCmd.Flags().BoolVarP(&savedYes, "yes", "y", false, "Delete without asking for confirmation")

	savedExportCmd.Flags().StringVar(&savedExportFormat, "format", string(api.ExportFormatPDF), "Export format: pdf or docx")
	savedExportCmd.Flags().StringVar(&savedExportDir, "dir", "", "Directory for the exported document (default: configured export dir)")

	savedCmd.AddCommand(savedListCmd)
	savedCmd.AddCommand(savedDeleteCmd)
	savedCmd.AddCommand(savedExportCmd)
}

// parseSavedIDs converts id arguments, rejecting the whole command on the
// first malformed one.
func parseSavedIDs(args []string) ([]int64, error) {
	ids := make([]int64, 0, len(args))
	for _, arg := range args {
		id, err := strconv.ParseInt(arg, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid saved item id %q", arg)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// loadSelection refreshes the saved list and selects the given ids, erroring
// on ids the backend does not know.
func loadSelection(cmd *cobra.Command, list *saved.List, ids []int64) error {
	if err := list.Refresh(cmd.Context()); err != nil {
		return fmt.Errorf("failed to load saved comparisons: %w", err)
	}

	known := make(map[int64]bool)
	for _, item := range list.Items() {
		known[item.ID] = true
	}

	list.EnterSelection()
	for _, id := range ids {
		if !known[id] {
			return errors.NewValidationError(errors.ErrCodeNotFound,
				fmt.Sprintf("No saved item with id %d", id), nil)
		}
		list.Toggle(id)
	}
	return nil
}

func runSavedList(cmd *cobra.Command, args []string) error {
	logger := getLoggerFromContext(cmd.Context())

	svc, cleanup, err := newAppServices(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	list := saved.NewList(svc.client, logger)
	if err := list.Refresh(cmd.Context()); err != nil {
		return fmt.Errorf("failed to load saved comparisons: %w", err)
	}

	return svc.output.HandleOutput(list.Items(), savedConfig)
}

func runSavedDelete(cmd *cobra.Command, args []string) error {
	logger := getLoggerFromContext(cmd.Context())

	ids, err := parseSavedIDs(args)
	if err != nil {
		return err
	}

	svc, cleanup, err := newAppServices(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	list := saved.NewList(svc.client, logger)
	if err := loadSelection(cmd, list, ids); err != nil {
		return err
	}

	if !savedYes {
		if !common.Confirm(cmd.InOrStdin(), cmd.ErrOrStderr(), list.ConfirmMessage()) {
			return errors.NewValidationError(errors.ErrCodeNotConfirmed,
				"Deletion cancelled", nil)
		}
	}

	var deleted int
	if len(ids) == 1 {
		err = list.DeleteOne(cmd.Context(), ids[0])
		if err == nil {
			deleted = 1
		}
	} else {
		deleted, err = list.BulkDelete(cmd.Context())
	}
	observability.Count(cmd.Context(), svc.metrics.SavedItemsDeleted, err == nil)
	if err != nil {
		return fmt.Errorf("failed to delete saved items: %w", err)
	}

	if deleted < len(ids) {
		fmt.Fprintf(cmd.ErrOrStderr(), "Deleted %d of %d items; the rest were not acknowledged by the server\n",
			deleted, len(ids))
	} else {
		fmt.Fprintf(cmd.ErrOrStderr(), "Deleted %d item(s)\n", deleted)
	}
	return nil
}

func runSavedExport(cmd *cobra.Command, args []string) error {
	cfg := getConfigFromContext(cmd.Context())
	logger := getLoggerFromContext(cmd.Context())

	format := api.ExportFormat(savedExportFormat)
	if format != api.ExportFormatPDF && format != api.ExportFormatDOCX {
		return errors.NewValidationError(errors.ErrCodeInvalidFormat,
			fmt.Sprintf("Unsupported export format: %s", savedExportFormat), nil)
	}

	ids, err := parseSavedIDs(args)
	if err != nil {
		return err
	}

	svc, cleanup, err := newAppServices(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	list := saved.NewList(svc.client, logger)
	if err := loadSelection(cmd, list, ids); err != nil {
		return err
	}

	dir := savedExportDir
	if dir == "" {
		dir = cfg.Upload.ExportDir
	}
	path, err := list.Export(cmd.Context(), format, dir)
	observability.Count(cmd.Context(), svc.metrics.SavedItemsExported, err == nil)
	if err != nil {
		return fmt.Errorf("failed to export saved items: %w", err)
	}

	fmt.Fprintf(cmd.ErrOrStderr(), "Exported %d item(s) to %s\n", len(ids), path)
	return nil
}
