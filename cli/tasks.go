package cli

import (
	"fmt"
	"strings"
	"time"

	"taskflow-cli/tasks"
	"taskflow-cli/types"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var tasksCmd = &cobra.Command{
	Use:   "tasks",
	Short: "List and manage your tasks",
}

var (
	listCompleted bool
	listActive    bool
	listPriority  string
	listLimit     int
	listOffset    int
)

var tasksListCmd = &cobra.Command{
	Use:   "list",
	Short: "List tasks",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		if err := requireAuth(a); err != nil {
			return err
		}

		opts := tasks.ListOptions{
			Priority: listPriority,
			Limit:    listLimit,
			Offset:   listOffset,
		}
		if listCompleted && listActive {
			return fmt.Errorf("--completed and --active are mutually exclusive")
		}
		if listCompleted {
			v := true
			opts.Completed = &v
		}
		if listActive {
			v := false
			opts.Completed = &v
		}
		if opts.Priority != "" && !types.ValidPriority(opts.Priority) {
			return fmt.Errorf("priority must be low, medium or high")
		}

		items, err := a.tasks.List(cmd.Context(), opts)
		if err != nil {
			return err
		}
		if len(items) == 0 {
			fmt.Println("No tasks")
			return nil
		}
		for _, t := range items {
			fmt.Println(formatTask(t))
		}
		return nil
	},
}

var (
	addDescription string
	addPriority    string
	addDue         string
)

var tasksAddCmd = &cobra.Command{
	Use:   "add <title>",
	Short: "Create a task",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		if err := requireAuth(a); err != nil {
			return err
		}

		due, err := parseDue(addDue)
		if err != nil {
			return err
		}

		created, err := a.tasks.Create(cmd.Context(), types.CreateTaskData{
			Title:       strings.Join(args, " "),
			Description: addDescription,
			Priority:    addPriority,
			DueDate:     due,
		})
		if err != nil {
			return err
		}
		fmt.Println("Created", formatTask(created))
		return nil
	},
}

var tasksShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a single task",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		if err := requireAuth(a); err != nil {
			return err
		}
		id, err := taskID(args[0])
		if err != nil {
			return err
		}

		t, err := a.tasks.Get(cmd.Context(), id)
		if err != nil {
			return err
		}
		fmt.Println(formatTask(t))
		if t.Description != "" {
			fmt.Println("  " + t.Description)
		}
		fmt.Printf("  created %s, updated %s\n",
			t.CreatedAt.Format(time.RFC3339), t.UpdatedAt.Format(time.RFC3339))
		return nil
	},
}

var (
	editTitle       string
	editDescription string
	editPriority    string
	editDue         string
	editCompleted   bool
)

var tasksEditCmd = &cobra.Command{
	Use:   "edit <id>",
	Short: "Update fields of a task",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		if err := requireAuth(a); err != nil {
			return err
		}
		id, err := taskID(args[0])
		if err != nil {
			return err
		}

		var data types.UpdateTaskData
		changed := false
		if cmd.Flags().Changed("title") {
			if strings.TrimSpace(editTitle) == "" {
				return fmt.Errorf("title must not be empty")
			}
			data.Title = &editTitle
			changed = true
		}
		if cmd.Flags().Changed("description") {
			data.Description = &editDescription
			changed = true
		}
		if cmd.Flags().Changed("priority") {
			if !types.ValidPriority(editPriority) {
				return fmt.Errorf("priority must be low, medium or high")
			}
			data.Priority = &editPriority
			changed = true
		}
		if cmd.Flags().Changed("due") {
			due, err := parseDue(editDue)
			if err != nil {
				return err
			}
			data.DueDate = due
			changed = true
		}
		if cmd.Flags().Changed("completed") {
			data.Completed = &editCompleted
			changed = true
		}
		if !changed {
			return fmt.Errorf("nothing to update")
		}

		updated, err := a.tasks.Update(cmd.Context(), id, data)
		if err != nil {
			return err
		}
		fmt.Println("Updated", formatTask(updated))
		return nil
	},
}

var tasksDoneCmd = &cobra.Command{
	Use:   "done <id>",
	Short: "Toggle a task's completion",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		if err := requireAuth(a); err != nil {
			return err
		}
		id, err := taskID(args[0])
		if err != nil {
			return err
		}

		t, err := a.tasks.ToggleCompletion(cmd.Context(), id)
		if err != nil {
			return err
		}
		fmt.Println(formatTask(t))
		return nil
	},
}

var tasksRmCmd = &cobra.Command{
	Use:   "rm <id>",
	Short: "Delete a task",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		if err := requireAuth(a); err != nil {
			return err
		}
		id, err := taskID(args[0])
		if err != nil {
			return err
		}

		if err := a.tasks.Delete(cmd.Context(), id); err != nil {
			return err
		}
		fmt.Println("Deleted", id)
		return nil
	},
}

// taskID validates the id argument before anything goes over the wire.
func taskID(arg string) (string, error) {
	arg = strings.TrimSpace(arg)
	if _, err := uuid.Parse(arg); err != nil {
		return "", fmt.Errorf("invalid task id %q", arg)
	}
	return arg, nil
}

// parseDue accepts YYYY-MM-DD or full RFC 3339.
func parseDue(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return &t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return nil, fmt.Errorf("invalid due date %q (want YYYY-MM-DD)", s)
	}
	return &t, nil
}

func formatTask(t types.Task) string {
	marker := "[ ]"
	if t.Completed {
		marker = "[x]"
	}
	line := fmt.Sprintf("%s %s  %s (%s)", marker, shortID(t.ID), t.Title, t.Priority)
	if t.DueDate != nil {
		line += " due " + t.DueDate.Format("2006-01-02")
	}
	return line
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func init() {
	tasksListCmd.Flags().BoolVar(&listCompleted, "completed", false, "only completed tasks")
	tasksListCmd.Flags().BoolVar(&listActive, "active", false, "only active tasks")
	tasksListCmd.Flags().StringVar(&listPriority, "priority", "", "filter by priority (low|medium|high)")
	tasksListCmd.Flags().IntVar(&listLimit, "limit", 0, "limit number of results")
	tasksListCmd.Flags().IntVar(&listOffset, "offset", 0, "offset for pagination")

	tasksAddCmd.Flags().StringVar(&addDescription, "description", "", "task description")
	tasksAddCmd.Flags().StringVar(&addPriority, "priority", "", "priority (low|medium|high)")
	tasksAddCmd.Flags().StringVar(&addDue, "due", "", "due date (YYYY-MM-DD)")

	tasksEditCmd.Flags().StringVar(&editTitle, "title", "", "new title")
	tasksEditCmd.Flags().StringVar(&editDescription, "description", "", "new description")
	tasksEditCmd.Flags().StringVar(&editPriority, "priority", "", "new priority (low|medium|high)")
	tasksEditCmd.Flags().StringVar(&editDue, "due", "", "new due date (YYYY-MM-DD)")
	tasksEditCmd.Flags().BoolVar(&editCompleted, "completed", false, "completion state")

	tasksCmd.AddCommand(tasksListCmd, tasksAddCmd, tasksShowCmd, tasksEditCmd, tasksDoneCmd, tasksRmCmd)
	rootCmd.AddCommand(tasksCmd)
}
