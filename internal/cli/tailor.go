package cli

import (
	"fmt"

	"careerpilot/internal/api"
	"careerpilot/internal/common"
	"careerpilot/internal/errors"
	"careerpilot/internal/observability"
	"careerpilot/internal/tailor"

	"github.com/spf13/cobra"
)

var tailorCmd = &cobra.Command{
	Use:   "tailor",
	Short: "Tailor a resume for a specific job posting",
	Long: `Tailor a base resume for a specific posting and open a comparison on
the result. The target is either a job posting URL or a company plus job
title. The comparison has four views: tailored, original, keywords, and
analysis; pick one with --tab. The comparison can also be saved for later
and exported as a PDF or DOCX document.`,
	PreRunE: func(cmd *cobra.Command, args []string) error {
		if tailorRequest.JobURL == "" &&
			(tailorRequest.Company == "" || tailorRequest.JobTitle == "") {
			return errors.NewValidationError(errors.ErrCodeInvalidIntake,
				"Provide --job-url, or both --company and --title", nil)
		}
		return applyFormatDefaults(cmd, &tailorConfig)
	},
	RunE: runTailor,
}

var (
	tailorConfig    common.CommandConfig
	tailorRequest   api.TailorRequest
	tailorTab       string
	tailorSave      bool
	tailorExport    string
	tailorExportDir string
)

func init() {
	flags := tailorCmd.Flags()
	flags.Int64Var(&tailorRequest.BaseResumeID, "resume", 0, "Base resume id")
	flags.StringVar(&tailorRequest.JobURL, "job-url", "", "Job posting URL")
	flags.StringVar(&tailorRequest.Company, "company", "", "Target company")
	flags.StringVar(&tailorRequest.JobTitle, "title", "", "Target job title")
	flags.StringVar(&tailorTab, "tab", string(tailor.TabTailored), "View to print: tailored, original, keywords, or analysis")
	flags.BoolVar(&tailorSave, "save", false, "Save the comparison for later")
	flags.StringVar(&tailorExport, "export", "", "Export the comparison as pdf or docx")
	flags.StringVar(&tailorExportDir, "export-dir", "", "Directory for the exported document (default: configured export dir)")
	_ = tailorCmd.MarkFlagRequired("resume")

	flags.StringVarP(&tailorConfig.OutputFile, "output", "o", "", "Output file path (default: stdout)")
	flags.StringVar(&tailorConfig.OutputFormat, "format", "", "Output format: json, text, or markdown")
	_ = tailorCmd.RegisterFlagCompletionFunc("format", formatCompletion)
	_ = tailorCmd.RegisterFlagCompletionFunc("tab", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		tabs := make([]string, len(tailor.Tabs))
		for i, tab := range tailor.Tabs {
			tabs[i] = string(tab)
		}
		return tabs, cobra.ShellCompDirectiveNoFileComp
	})
}

func runTailor(cmd *cobra.Command, args []string) error {
	cfg := getConfigFromContext(cmd.Context())
	logger := getLoggerFromContext(cmd.Context())

	svc, cleanup, err := newAppServices(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	logger.Info("Starting resume tailoring",
		"resume_id", tailorRequest.BaseResumeID,
		"company", tailorRequest.Company,
		"job_title", tailorRequest.JobTitle,
		"output_format", tailorConfig.OutputFormat)

	session, err := tailor.NewSession(cmd.Context(), svc.client, tailorRequest, logger)
	observability.Count(cmd.Context(), svc.metrics.ResumesTailored, err == nil)
	if err != nil {
		return fmt.Errorf("failed to tailor resume: %w", err)
	}

	view, err := session.Activate(cmd.Context(), tailor.Tab(tailorTab))
	if err != nil {
		return err
	}
	if err := svc.output.HandleOutput(view, tailorConfig); err != nil {
		return err
	}

	if tailorSave {
		saved, err := session.Save(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to save comparison: %w", err)
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "Saved as %q (id %d)\n", saved.Title, saved.ID)
	}

	if tailorExport != "" {
		dir := tailorExportDir
		if dir == "" {
			dir = cfg.Upload.ExportDir
		}
		path, err := session.Export(cmd.Context(), api.ExportFormat(tailorExport), dir)
		if err != nil {
			return fmt.Errorf("failed to export comparison: %w", err)
		}
		observability.Count(cmd.Context(), svc.metrics.SavedItemsExported, true)
		fmt.Fprintf(cmd.ErrOrStderr(), "Exported to %s\n", path)
	}

	logger.Info("Resume tailoring completed successfully")
	return nil
}
