package cli

import (
	"fmt"
	"strconv"

	"careerpilot/internal/common"
	"careerpilot/internal/observability"
	"careerpilot/internal/resume"

	"github.com/spf13/cobra"
)

var resumeCmd = &cobra.Command{
	Use:   "resume",
	Short: "Upload and inspect resumes",
}

var resumeListCmd = &cobra.Command{
	Use:   "list",
	Short: "List uploaded resumes",
	PreRunE: func(cmd *cobra.Command, args []string) error {
		return applyFormatDefaults(cmd, &resumeConfig)
	},
	RunE: runResumeList,
}

var resumeShowCmd = &cobra.Command{
	Use:   "show [resume-id]",
	Short: "Show one resume with its parsed content",
	Args:  cobra.ExactArgs(1),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		return applyFormatDefaults(cmd, &resumeConfig)
	},
	RunE: runResumeShow,
}

var resumeUploadCmd = &cobra.Command{
	Use:   "upload [file]",
	Short: "Upload a resume document",
	Long: `Upload a resume document for parsing. PDF, DOC and DOCX files up to
the configured size limit are accepted. Progress is reported on stderr and the
parsed record is printed when the backend is done.`,
	Args: cobra.ExactArgs(1),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		return applyFormatDefaults(cmd, &resumeConfig)
	},
	RunE: runResumeUpload,
}

var resumeConfig common.CommandConfig

func init() {
	for _, cmd := range []*cobra.Command{resumeListCmd, resumeShowCmd, resumeUploadCmd} {
		cmd.Flags().StringVarP(&resumeConfig.OutputFile, "output", "o", "", "Output file path (default: stdout)")
		cmd.Flags().StringVar(&resumeConfig.OutputFormat, "format", "", "Output format: json, text, or markdown")
		_ = cmd.RegisterFlagCompletionFunc("format", formatCompletion)
	}

	resumeCmd.AddCommand(resumeListCmd)
	resumeCmd.AddCommand(resumeShowCmd)
	resumeCmd.AddCommand(resumeUploadCmd)
}

func runResumeList(cmd *cobra.Command, args []string) error {
	logger := getLoggerFromContext(cmd.Context())

	svc, cleanup, err := newAppServices(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	repo := resume.NewRepository(svc.client, logger)
	if err := repo.Refresh(cmd.Context()); err != nil {
		return fmt.Errorf("failed to load resumes: %w", err)
	}

	return svc.output.HandleOutput(repo.All(), resumeConfig)
}

func runResumeShow(cmd *cobra.Command, args []string) error {
	logger := getLoggerFromContext(cmd.Context())

	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid resume id %q", args[0])
	}

	svc, cleanup, err := newAppServices(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	repo := resume.NewRepository(svc.client, logger)
	res, autofill, err := repo.Select(cmd.Context(), id)
	if err != nil {
		return fmt.Errorf("failed to load resume: %w", err)
	}

	if autofill.YearsExperience > 0 {
		logger.Info("Resume profile",
			"current_role", autofill.CurrentRole,
			"industry", autofill.Industry,
			"years_experience", autofill.YearsExperience)
	}
	return svc.output.HandleOutput(res, resumeConfig)
}

func runResumeUpload(cmd *cobra.Command, args []string) error {
	cfg := getConfigFromContext(cmd.Context())
	logger := getLoggerFromContext(cmd.Context())

	svc, cleanup, err := newAppServices(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	repo := resume.NewRepository(svc.client, logger)
	res, autofill, err := repo.Upload(cmd.Context(), args[0],
		resume.UploadOptions{MaxSizeBytes: cfg.Upload.MaxFileSize},
		func(percent int) {
			fmt.Fprintf(cmd.ErrOrStderr(), "Uploading... %d%%\n", percent)
		})
	observability.Count(cmd.Context(), svc.metrics.ResumesUploaded, err == nil)
	if err != nil {
		return fmt.Errorf("failed to upload resume: %w", err)
	}

	if autofill != (resume.Autofill{}) {
		fmt.Fprintf(cmd.ErrOrStderr(), "Detected: %s in %s, %.1f years of experience\n",
			autofill.CurrentRole, autofill.Industry, autofill.YearsExperience)
	}
	return svc.output.HandleOutput(res, resumeConfig)
}
