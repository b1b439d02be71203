package cli

import (
	"fmt"

	"careerpilot/internal/api"
	"careerpilot/internal/common"
	"careerpilot/internal/errors"
	"careerpilot/internal/observability"
	"careerpilot/internal/stories"

	"github.com/spf13/cobra"
)

var storiesCmd = &cobra.Command{
	Use:   "stories",
	Short: "Generate and manage STAR interview stories",
}

var storiesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stories for a resume",
	PreRunE: func(cmd *cobra.Command, args []string) error {
		return applyFormatDefaults(cmd, &storiesConfig)
	},
	RunE: runStoriesList,
}

var storiesGenerateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a story from selected experiences",
	Long: `Generate a STAR interview story from one or more experience entries of
a resume. The generated story is persisted; if persistence fails the story is
still printed so the generation result is not lost.`,
	PreRunE: func(cmd *cobra.Command, args []string) error {
		return applyFormatDefaults(cmd, &storiesConfig)
	},
	RunE: runStoriesGenerate,
}

var storiesEditCmd = &cobra.Command{
	Use:   "edit [story-id]",
	Short: "Edit a story's narrative fields",
	Args:  cobra.ExactArgs(1),
	RunE:  runStoriesEdit,
}

var storiesDeleteCmd = &cobra.Command{
	Use:   "delete [story-id]",
	Short: "Delete a story",
	Args:  cobra.ExactArgs(1),
	RunE:  runStoriesDelete,
}

var (
	storiesConfig      common.CommandConfig
	storiesResumeID    int64
	storiesExperiences []int
	storiesFields      api.StarStoryFields
	storiesYes         bool
)

func init() {
	storiesCmd.PersistentFlags().Int64Var(&storiesResumeID, "resume", 0, "Resume id the stories belong to")
	_ = storiesCmd.MarkPersistentFlagRequired("resume")

	storiesGenerateCmd.Flags().IntSliceVar(&storiesExperiences, "experience", nil, "Experience entry to draw from (repeatable)")

	edit := storiesEditCmd.Flags()
	edit.StringVar(&storiesFields.Situation, "situation", "", "Situation text")
	edit.StringVar(&storiesFields.Task, "task", "", "Task text")
	edit.StringVar(&storiesFields.Action, "action", "", "Action text")
	edit.StringVar(&storiesFields.Result, "result", "", "Result text")

	storiesDeleteCmd.Flags().BoolVarP(&storiesYes, "yes", "y", false, "Delete without asking for confirmation")

	for _, cmd := range []*cobra.Command{storiesListCmd, storiesGenerateCmd} {
		cmd.Flags().StringVarP(&storiesConfig.OutputFile, "output", "o", "", "Output file path (default: stdout)")
		cmd.Flags().StringVar(&storiesConfig.OutputFormat, "format", "", "Output format: json or text")
		_ = cmd.RegisterFlagCompletionFunc("format", formatCompletion)
	}

	storiesCmd.AddCommand(storiesListCmd)
	storiesCmd.AddCommand(storiesGenerateCmd)
	storiesCmd.AddCommand(storiesEditCmd)
	storiesCmd.AddCommand(storiesDeleteCmd)
}

func runStoriesList(cmd *cobra.Command, args []string) error {
	logger := getLoggerFromContext(cmd.Context())

	svc, cleanup, err := newAppServices(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	manager := stories.NewManager(svc.client, storiesResumeID, logger)
	if err := manager.Refresh(cmd.Context()); err != nil {
		return fmt.Errorf("failed to load stories: %w", err)
	}

	return svc.output.HandleOutput(manager.Stories(), storiesConfig)
}

func runStoriesGenerate(cmd *cobra.Command, args []string) error {
	logger := getLoggerFromContext(cmd.Context())

	svc, cleanup, err := newAppServices(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	manager := stories.NewManager(svc.client, storiesResumeID, logger)
	story, warning, err := manager.Generate(cmd.Context(), storiesExperiences)
	observability.Count(cmd.Context(), svc.metrics.StoriesGenerated, err == nil)
	if err != nil {
		return fmt.Errorf("failed to generate story: %w", err)
	}
	observability.Count(cmd.Context(), svc.metrics.StoriesSaved, warning == "")

	if warning != "" {
		fmt.Fprintf(cmd.ErrOrStderr(), "Warning: %s\n", warning)
	}
	if err := svc.output.HandleOutput([]api.StarStory{*story}, storiesConfig); err != nil {
		return err
	}
	logger.Info("Story generated", "story_id", story.ID, "persisted", warning == "")
	return nil
}

func runStoriesEdit(cmd *cobra.Command, args []string) error {
	logger := getLoggerFromContext(cmd.Context())
	storyID := args[0]

	if stories.IsLocalID(storyID) {
		return errors.NewValidationError(errors.ErrCodeNotFound,
			"Unsaved stories only live inside the session that generated them", nil)
	}

	svc, cleanup, err := newAppServices(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	manager := stories.NewManager(svc.client, storiesResumeID, logger)
	if err := manager.Refresh(cmd.Context()); err != nil {
		return fmt.Errorf("failed to load stories: %w", err)
	}

	// Fields not passed on the command line keep their current text.
	var fields api.StarStoryFields
	for _, story := range manager.Stories() {
		if story.ID == storyID {
			fields = api.StarStoryFields{
				Situation: story.Situation,
				Task:      story.Task,
				Action:    story.Action,
				Result:    story.Result,
			}
			break
		}
	}
	if cmd.Flags().Changed("situation") {
		fields.Situation = storiesFields.Situation
	}
	if cmd.Flags().Changed("task") {
		fields.Task = storiesFields.Task
	}
	if cmd.Flags().Changed("action") {
		fields.Action = storiesFields.Action
	}
	if cmd.Flags().Changed("result") {
		fields.Result = storiesFields.Result
	}

	if err := manager.SaveEdits(cmd.Context(), storyID, fields); err != nil {
		return fmt.Errorf("failed to update story: %w", err)
	}
	logger.Info("Story updated", "story_id", storyID)
	return nil
}

func runStoriesDelete(cmd *cobra.Command, args []string) error {
	logger := getLoggerFromContext(cmd.Context())
	storyID := args[0]

	if !storiesYes {
		if !common.Confirm(cmd.InOrStdin(), cmd.ErrOrStderr(), "Delete this story?") {
			return errors.NewValidationError(errors.ErrCodeNotConfirmed,
				"Deletion cancelled", nil)
		}
	}

	svc, cleanup, err := newAppServices(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	manager := stories.NewManager(svc.client, storiesResumeID, logger)
	if err := manager.Refresh(cmd.Context()); err != nil {
		return fmt.Errorf("failed to load stories: %w", err)
	}

	if err := manager.Delete(cmd.Context(), storyID); err != nil {
		return fmt.Errorf("failed to delete story: %w", err)
	}
	logger.Info("Story deleted", "story_id", storyID)
	return nil
}
