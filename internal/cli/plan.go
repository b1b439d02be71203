package cli

import (
	"fmt"
	"time"

	"careerpilot/internal/common"
	"careerpilot/internal/errors"
	"careerpilot/internal/intake"
	"careerpilot/internal/observability"
	"careerpilot/internal/planner"

	"github.com/spf13/cobra"
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Generate personalized career plans",
}

var planGenerateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a career plan from your intake answers",
	Long: `Generate a personalized career plan. The intake mirrors the five-step
wizard: basic profile, target role, work preferences, learning preferences,
and motivation. A dream role, at least 3 tasks you would love to do, at least
2 strengths, a learning style, and a motivation are required.

Generation runs as a background job on the backend; progress is reported on
stderr while the command polls. If the backend cannot accept a background
job the plan is generated synchronously instead.`,
	PreRunE: func(cmd *cobra.Command, args []string) error {
		return applyFormatDefaults(cmd, &planConfig)
	},
	RunE: runPlanGenerate,
}

var planDetailedCmd = &cobra.Command{
	Use:   "detailed",
	Short: "Generate a long-form plan for a target role",
	PreRunE: func(cmd *cobra.Command, args []string) error {
		return applyFormatDefaults(cmd, &planConfig)
	},
	RunE: runPlanDetailed,
}

var planConfig common.CommandConfig
var planForm intake.WizardFormState
var planTargetRole string
var planResumeID int64

func init() {
	gen := planGenerateCmd.Flags()
	gen.Int64Var(&planForm.ResumeID, "resume", 0, "Resume id to base the plan on")
	gen.StringVar(&planForm.DreamRole, "dream-role", "", "The role you are working toward")
	gen.StringArrayVar(&planForm.TopTasks, "task", nil, "A task you would love to do (repeat at least 3 times)")
	gen.StringArrayVar(&planForm.Strengths, "strength", nil, "One of your strengths (repeat at least 2 times)")
	gen.StringVar(&planForm.CurrentRole, "current-role", "", "Your current role")
	gen.StringVar(&planForm.Industry, "industry", "", "Your current industry")
	gen.Float64Var(&planForm.YearsExp, "years", 0, "Years of experience")
	gen.StringVar(&planForm.Timeline, "timeline", "", "Transition timeline (e.g. 6-12 months)")
	gen.StringVar(&planForm.SalaryExpectation, "salary", "", "Salary expectation")
	gen.StringVar(&planForm.LocationPreference, "location", "", "Location preference")
	gen.BoolVar(&planForm.WillingToRelocate, "relocate", false, "Willing to relocate")
	gen.StringVar(&planForm.WorkEnvironment, "work-environment", "", "Preferred work environment (remote, hybrid, office)")
	gen.StringVar(&planForm.WorkStyle, "work-style", "", "Preferred work style")
	gen.StringVar(&planForm.TeamSize, "team-size", "", "Preferred team size")
	gen.BoolVar(&planForm.ManagementInterest, "management", false, "Interested in management")
	gen.StringVar(&planForm.PreferredCompanySize, "company-size", "", "Preferred company size")
	gen.StringArrayVar(&planForm.LearningStyles, "learning-style", nil, "A learning style that works for you (repeatable)")
	gen.IntVar(&planForm.WeeklyLearningHours, "learning-hours", 0, "Weekly hours available for learning")
	gen.StringVar(&planForm.LearningBudget, "learning-budget", "", "Learning budget")
	gen.StringArrayVar(&planForm.Motivations, "motivation", nil, "What motivates this change (repeatable)")
	gen.StringVar(&planForm.MotivationNote, "motivation-note", "", "Anything else about your motivation")

	det := planDetailedCmd.Flags()
	det.Int64Var(&planResumeID, "resume", 0, "Resume id to base the plan on")
	det.StringVar(&planTargetRole, "target-role", "", "Role to plan toward")
	_ = planDetailedCmd.MarkFlagRequired("resume")
	_ = planDetailedCmd.MarkFlagRequired("target-role")

	for _, cmd := range []*cobra.Command{planGenerateCmd, planDetailedCmd} {
		cmd.Flags().StringVarP(&planConfig.OutputFile, "output", "o", "", "Output file path (default: stdout)")
		cmd.Flags().StringVar(&planConfig.OutputFormat, "format", "", "Output format: json, text, or markdown")
		_ = cmd.RegisterFlagCompletionFunc("format", formatCompletion)
	}

	planCmd.AddCommand(planGenerateCmd)
	planCmd.AddCommand(planDetailedCmd)
}

// validateIntake walks the form through the step gates a user must pass to
// reach the final step, then applies the submission policy. The motivation
// gate belongs to the last step's own Continue, not to the generate action,
// so it is never run here.
func validateIntake(form intake.WizardFormState) error {
	w := intake.NewWizard()
	w.Form = form
	for w.Current() < intake.StepMotivation {
		if !w.Advance() {
			return errors.NewValidationError(errors.ErrCodeInvalidIntake,
				fmt.Sprintf("%s: %s", w.Current(), w.VisibleError()), nil)
		}
	}
	return intake.DefaultSubmitPolicy().ValidateForSubmit(form)
}

func runPlanGenerate(cmd *cobra.Command, args []string) error {
	cfg := getConfigFromContext(cmd.Context())
	logger := getLoggerFromContext(cmd.Context())

	if err := validateIntake(planForm); err != nil {
		return err
	}

	svc, cleanup, err := newAppServices(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	controller := planner.NewController(svc.client, planner.Options{
		PollInterval:    cfg.Polling.Interval,
		MaxAttempts:     cfg.Polling.MaxAttempts,
		MinPollInterval: cfg.Polling.MinInterval,
		Metrics:         svc.metrics,
	}, logger)

	logger.Info("Starting career plan generation",
		"resume_id", planForm.ResumeID,
		"dream_role", planForm.DreamRole,
		"output_format", planConfig.OutputFormat)

	start := time.Now()
	plan, err := controller.Generate(cmd.Context(), planForm.Intake(),
		func(progress int, message string) {
			fmt.Fprintf(cmd.ErrOrStderr(), "[%3d%%] %s\n", progress, message)
		})

	outcome := "completed"
	if err != nil {
		outcome = "failed"
	}
	svc.metrics.RecordPlanDuration(cmd.Context(), start, outcome)
	observability.Count(cmd.Context(), svc.metrics.PlansGenerated, err == nil)

	if err != nil {
		return fmt.Errorf("failed to generate career plan: %w", err)
	}

	if err := svc.output.HandleOutput(plan, planConfig); err != nil {
		return err
	}
	logger.Info("Career plan generated", "duration", time.Since(start).String())
	return nil
}

func runPlanDetailed(cmd *cobra.Command, args []string) error {
	logger := getLoggerFromContext(cmd.Context())

	svc, cleanup, err := newAppServices(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	plan, err := svc.client.GenerateDetailedCareerPlan(cmd.Context(), planResumeID, planTargetRole)
	observability.Count(cmd.Context(), svc.metrics.PlansGenerated, err == nil)
	if err != nil {
		return fmt.Errorf("failed to generate detailed career plan: %w", err)
	}

	if err := svc.output.HandleOutput(plan, planConfig); err != nil {
		return err
	}
	logger.Info("Detailed career plan generated", "target_role", planTargetRole)
	return nil
}
