package cli

import (
	"errors"
	"strings"

	"todo-cli/internal/api"
	"todo-cli/internal/model"

	"github.com/spf13/cobra"
)

func newTasksCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tasks",
		Short: "Task commands",
	}

	cmd.AddCommand(newTasksListCmd(app))
	cmd.AddCommand(newTasksAddCmd(app))
	cmd.AddCommand(newTasksShowCmd(app))
	cmd.AddCommand(newTasksEditCmd(app))
	cmd.AddCommand(newTasksDoneCmd(app))
	cmd.AddCommand(newTasksUndoneCmd(app))
	cmd.AddCommand(newTasksRmCmd(app))

	return cmd
}

func parseFilter(s string) (model.TaskFilter, error) {
	switch model.TaskFilter(strings.TrimSpace(s)) {
	case "", model.FilterAll:
		return model.FilterAll, nil
	case model.FilterPending:
		return model.FilterPending, nil
	case model.FilterCompleted:
		return model.FilterCompleted, nil
	default:
		return "", errors.New("invalid --status (want all|pending|completed)")
	}
}

func newTasksListCmd(app *App) *cobra.Command {
	var status string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tasks",
		RunE: func(cmd *cobra.Command, args []string) error {
			filter, err := parseFilter(status)
			if err != nil {
				return writeErr(err)
			}
			if err := app.requireAuth(cmd); err != nil {
				return writeErr(err)
			}
			tasks, err := app.client.ListTasks(cmd.Context(), filter)
			if err != nil {
				return writeErr(err)
			}
			if tasks == nil {
				tasks = []model.Task{}
			}
			return writeOut(cmd, app, tasks)
		},
	}

	cmd.Flags().StringVar(&status, "status", "all", "Filter: all|pending|completed")
	return cmd
}

func newTasksAddCmd(app *App) *cobra.Command {
	var description string

	cmd := &cobra.Command{
		Use:   "add <title>",
		Short: "Create a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			title := strings.TrimSpace(args[0])
			if title == "" {
				return writeErr(errors.New("title is empty"))
			}
			if err := app.requireAuth(cmd); err != nil {
				return writeErr(err)
			}
			task, err := app.client.CreateTask(cmd.Context(), api.TaskCreate{Title: title, Description: description})
			if err != nil {
				return writeErr(err)
			}
			return writeOut(cmd, app, task)
		},
	}

	cmd.Flags().StringVar(&description, "description", "", "Optional description")
	return cmd
}

func newTasksShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show <task-id>",
		Short: "Show one task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.requireAuth(cmd); err != nil {
				return writeErr(err)
			}
			// The backend has no GET-by-id the client uses; list and pick.
			tasks, err := app.client.ListTasks(cmd.Context(), model.FilterAll)
			if err != nil {
				return writeErr(err)
			}
			for _, t := range tasks {
				if t.ID == args[0] {
					return writeOut(cmd, app, t)
				}
			}
			return writeErr(errors.New("task not found: "+args[0]))
		},
	}
}

func newTasksEditCmd(app *App) *cobra.Command {
	var title string
	var description string

	cmd := &cobra.Command{
		Use:   "edit <task-id>",
		Short: "Update a task's title/description",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var upd api.TaskUpdate
			if cmd.Flags().Changed("title") {
				t := strings.TrimSpace(title)
				if t == "" {
					return writeErr(errors.New("title is empty"))
				}
				upd.Title = &t
			}
			if cmd.Flags().Changed("description") {
				upd.Description = &description
			}
			if upd.Title == nil && upd.Description == nil {
				return writeErr(errors.New("nothing to change; pass --title and/or --description"))
			}
			if err := app.requireAuth(cmd); err != nil {
				return writeErr(err)
			}
			task, err := app.client.UpdateTask(cmd.Context(), args[0], upd)
			if err != nil {
				return writeErr(err)
			}
			return writeOut(cmd, app, task)
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "New title")
	cmd.Flags().StringVar(&description, "description", "", "New description")
	return cmd
}

func newTasksDoneCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "done <task-id>",
		Short: "Mark a task completed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.requireAuth(cmd); err != nil {
				return writeErr(err)
			}
			task, err := app.client.CompleteTask(cmd.Context(), args[0])
			if err != nil {
				return writeErr(err)
			}
			return writeOut(cmd, app, task)
		},
	}
}

func newTasksUndoneCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "undone <task-id>",
		Short: "Mark a task pending again",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.requireAuth(cmd); err != nil {
				return writeErr(err)
			}
			task, err := app.client.IncompleteTask(cmd.Context(), args[0])
			if err != nil {
				return writeErr(err)
			}
			return writeOut(cmd, app, task)
		},
	}
}

func newTasksRmCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "rm <task-id>",
		Short: "Delete a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.requireAuth(cmd); err != nil {
				return writeErr(err)
			}
			if err := app.client.DeleteTask(cmd.Context(), args[0]); err != nil {
				return writeErr(err)
			}
			return writeOut(cmd, app, map[string]string{"deleted": args[0]})
		},
	}
}
