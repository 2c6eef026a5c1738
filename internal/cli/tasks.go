package cli

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/me/studyplan/internal/engine"
	"github.com/spf13/cobra"
)

func newTasksCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tasks",
		Short: "Manage tasks",
	}
	cmd.AddCommand(newTasksListCmd(), newTasksAddCmd())
	return cmd
}

func newTasksListCmd() *cobra.Command {
	var status string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tasks",
		RunE: func(cmd *cobra.Command, args []string) error {
			tasks, page, err := client.ListTasks(status)
			if err != nil {
				return fmt.Errorf("list tasks: %w", err)
			}

			if len(tasks) == 0 {
				fmt.Println("No tasks found.")
				return nil
			}

			fmt.Printf("%-14s  %-3s  %-6s  %-16s  %-10s  %s\n", "ID", "PRI", "EST", "DEADLINE", "STATUS", "TITLE")
			fmt.Printf("%-14s  %-3s  %-6s  %-16s  %-10s  %s\n", "--", "---", "---", "--------", "------", "-----")
			for _, task := range tasks {
				deadline := "-"
				if task.Deadline != "" {
					deadline = fmt.Sprintf("%s (%s)", task.Deadline, humanize.Time(engine.At(task.Deadline, 0)))
				}
				fmt.Printf("%-14s  %-3d  %-6s  %-16s  %-10s  %s\n",
					task.ID, task.Priority, fmt.Sprintf("%dm", task.EstimatedMinutes),
					deadline, task.Status, task.Title)
			}

			if page != nil && page.HasMore {
				fmt.Printf("\n(%d of %d shown)\n", len(tasks), page.Total)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&status, "status", "", "Filter by status (pending, scheduled, completed, delegated)")
	return cmd
}

func newTasksAddCmd() *cobra.Command {
	var subject, deadline string
	var priority, estimate int

	cmd := &cobra.Command{
		Use:   "add <title>",
		Short: "Create a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			task, err := client.CreateTask(TaskDraft{
				Title:            args[0],
				Subject:          subject,
				Priority:         priority,
				Deadline:         deadline,
				EstimatedMinutes: estimate,
			})
			if err != nil {
				return fmt.Errorf("create task: %w", err)
			}
			fmt.Printf("Task created: %s\n", task.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&subject, "subject", "", "Subject or course name")
	cmd.Flags().IntVar(&priority, "priority", 3, "Priority 1 (lowest) to 5 (highest)")
	cmd.Flags().StringVar(&deadline, "deadline", "", "Deadline as YYYY-MM-DD")
	cmd.Flags().IntVar(&estimate, "estimate", 60, "Estimated minutes of work")
	return cmd
}
