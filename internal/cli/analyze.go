package cli

import (
	"fmt"

	"careerpilot/internal/api"
	"careerpilot/internal/common"

	"github.com/spf13/cobra"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Analyze a resume's career trajectory",
	Long: `Analyze where a resume's career history is heading. Always reports the
trajectory assessment; with --target-role it also reports the skill gaps
between the resume and that role.`,
	PreRunE: func(cmd *cobra.Command, args []string) error {
		return applyFormatDefaults(cmd, &analyzeConfig)
	},
	RunE: runAnalyze,
}

var (
	analyzeConfig     common.CommandConfig
	analyzeResumeID   int64
	analyzeTargetRole string
)

func init() {
	flags := analyzeCmd.Flags()
	flags.Int64Var(&analyzeResumeID, "resume", 0, "Resume id to analyze")
	flags.StringVar(&analyzeTargetRole, "target-role", "", "Role to compare the resume against")
	_ = analyzeCmd.MarkFlagRequired("resume")

	flags.StringVarP(&analyzeConfig.OutputFile, "output", "o", "", "Output file path (default: stdout)")
	flags.StringVar(&analyzeConfig.OutputFormat, "format", "", "Output format: json or text")
	_ = analyzeCmd.RegisterFlagCompletionFunc("format", formatCompletion)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	logger := getLoggerFromContext(cmd.Context())

	svc, cleanup, err := newAppServices(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	trajectory, err := svc.client.AnalyzeCareerTrajectory(cmd.Context(), analyzeResumeID)
	if err != nil {
		return fmt.Errorf("failed to analyze career trajectory: %w", err)
	}

	bundle := api.AnalysisBundle{Trajectory: trajectory}
	if analyzeTargetRole != "" {
		gaps, err := svc.client.GetSkillGaps(cmd.Context(), analyzeResumeID, analyzeTargetRole)
		if err != nil {
			return fmt.Errorf("failed to load skill gaps: %w", err)
		}
		bundle.SkillGaps = gaps
	}

	if err := svc.output.HandleOutput(&bundle, analyzeConfig); err != nil {
		return err
	}
	logger.Info("Analysis completed", "resume_id", analyzeResumeID, "target_role", analyzeTargetRole)
	return nil
}
