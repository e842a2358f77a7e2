package commands

import (
	"github.com/spf13/cobra"

	"github.com/fivetwenty-io/acsf-client/internal/constants"
	"github.com/fivetwenty-io/acsf-client/pkg/acsf"
)

// NewTasksCommand creates the tasks command group.
func NewTasksCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "tasks",
		Aliases: []string{"task"},
		Short:   "Manage WIP tasks",
		Long:    "List, follow, pause and stop the factory's WIP tasks",
	}

	cmd.AddCommand(newTasksListCommand())
	cmd.AddCommand(newTasksStatusCommand())
	cmd.AddCommand(newTasksWaitCommand())
	cmd.AddCommand(newTasksPauseCommand(true))
	cmd.AddCommand(newTasksPauseCommand(false))
	cmd.AddCommand(newTasksStopCommand())
	cmd.AddCommand(newTasksDeleteCommand())
	cmd.AddCommand(newTasksLogsCommand())

	return cmd
}

func newTasksListCommand() *cobra.Command {
	var (
		limit  int
		page   int
		status string
		group  string
		class  string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List WIP tasks",
		Long:  "List WIP tasks, optionally filtered by status, group or class",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient(cmd.Context(), cmd)
			if err != nil {
				return err
			}

			options := map[string]any{"limit": limit, "page": page}
			for key, value := range map[string]string{"status": status, "group": group, "class": class} {
				if value != "" {
					options[key] = value
				}
			}

			resp, err := client.Tasks().List(cmd.Context(), options)
			if err != nil {
				return err
			}

			return renderList(cmd.OutOrStdout(), resp, "data", []string{"id", "name", "group_name", "status_string", "added"})
		},
	}

	cmd.Flags().IntVar(&limit, "limit", constants.DefaultPageSize, "results per page (max 100)")
	cmd.Flags().IntVar(&page, "page", 1, "page number")
	cmd.Flags().StringVar(&status, "status", "", "filter by status (processing, error, not-started)")
	cmd.Flags().StringVar(&group, "group", "", "filter by task group")
	cmd.Flags().StringVar(&class, "class", "", "filter by task class")

	return cmd
}

func newTasksStatusCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "status TASK_ID",
		Short: "Show task status",
		Long:  "Fetch the current status of a WIP task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			task, err := taskFromArgs(cmd, args)
			if err != nil {
				return err
			}

			snapshot, err := task.Status(cmd.Context())
			if err != nil {
				return err
			}

			return renderResponse(cmd.OutOrStdout(), snapshot)
		},
	}
}

func newTasksWaitCommand() *cobra.Command {
	var opts waitOptions

	cmd := &cobra.Command{
		Use:   "wait TASK_ID",
		Short: "Wait for a task to finish",
		Long: `Poll a WIP task until it completes, fails or is cancelled, printing its
status after every poll. Exits non-zero when the task ends in an error state.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			task, err := taskFromArgs(cmd, args)
			if err != nil {
				return err
			}

			return waitForTask(cmd.Context(), cmd.OutOrStdout(), task, opts)
		},
	}

	addWaitFlags(cmd, &opts, false)

	return cmd
}

func newTasksPauseCommand(pause bool) *cobra.Command {
	var (
		level  string
		reason string
	)

	use, short := "resume TASK_ID", "Resume a task"
	if pause {
		use, short = "pause TASK_ID", "Pause a task"
	}

	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Long:  short + ". --level family applies to the task and all its children",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			task, err := taskFromArgs(cmd, args)
			if err != nil {
				return err
			}

			options := map[string]any{"level": level}
			if reason != "" {
				options["reason"] = reason
			}

			resp, err := task.Pause(cmd.Context(), pause, options)
			if err != nil {
				return err
			}

			return renderResponse(cmd.OutOrStdout(), resp)
		},
	}

	cmd.Flags().StringVar(&level, "level", "family", "task or family")
	cmd.Flags().StringVar(&reason, "reason", "", "reason recorded with the change")

	return cmd
}

func newTasksStopCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "stop TASK_ID",
		Short: "Terminate a task",
		Long:  "Terminate a task and its descendants. Does not wait for termination",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			task, err := taskFromArgs(cmd, args)
			if err != nil {
				return err
			}

			resp, err := task.Stop(cmd.Context())
			if err != nil {
				return err
			}

			return renderResponse(cmd.OutOrStdout(), resp)
		},
	}
}

func newTasksDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete TASK_ID",
		Short: "Delete a task",
		Long:  "Delete a WIP task record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			task, err := taskFromArgs(cmd, args)
			if err != nil {
				return err
			}

			resp, err := task.Delete(cmd.Context())
			if err != nil {
				return err
			}

			return renderResponse(cmd.OutOrStdout(), resp)
		},
	}
}

func newTasksLogsCommand() *cobra.Command {
	var level string

	cmd := &cobra.Command{
		Use:   "logs TASK_ID",
		Short: "Show task logs",
		Long:  "Display the log messages recorded for a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			task, err := taskFromArgs(cmd, args)
			if err != nil {
				return err
			}

			options := map[string]any{}
			if level != "" {
				options["level"] = level
			}

			resp, err := task.Logs(cmd.Context(), options)
			if err != nil {
				return err
			}

			return renderList(cmd.OutOrStdout(), resp, "data", []string{"timestamp", "level", "message"})
		},
	}

	cmd.Flags().StringVar(&level, "level", "", "minimum log level")

	return cmd
}

func taskFromArgs(cmd *cobra.Command, args []string) (acsf.TaskEntity, error) {
	taskID, err := parseID(args[0], constants.ErrInvalidTaskID)
	if err != nil {
		return nil, err
	}

	client, err := newClient(cmd.Context(), cmd)
	if err != nil {
		return nil, err
	}

	return client.Task(taskID), nil
}
