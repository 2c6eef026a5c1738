package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/me/studyplan/internal/engine"
	"github.com/spf13/cobra"
)

// parseClock parses "HH:MM" into minutes since midnight.
func parseClock(s string) (int, error) {
	parts := strings.SplitN(s, ":", 2)
	if len(parts) != 2 {
		return 0, fmt.Errorf("invalid time %q, want HH:MM", s)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 23 {
		return 0, fmt.Errorf("invalid hour in %q", s)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 {
		return 0, fmt.Errorf("invalid minute in %q", s)
	}
	return h*60 + m, nil
}

func newCheckCmd() *cobra.Command {
	var taskID, date, start string
	var duration int

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Check a proposed placement for conflicts",
		RunE: func(cmd *cobra.Command, args []string) error {
			startMinutes, err := parseClock(start)
			if err != nil {
				return err
			}

			result, err := client.CheckPlacement(taskID, date, startMinutes, duration)
			if err != nil {
				return fmt.Errorf("check: %w", err)
			}

			if !result.HasConflicts {
				fmt.Printf("No conflicts on %s at %s.\n", date, start)
				return nil
			}

			for _, c := range result.Conflicts {
				fmt.Printf("[%s] %s: %s\n", c.Severity, c.Type, c.Description)
				fmt.Printf("  conflict id: %s\n", c.ID)
				if len(c.AlternativeSlots) > 0 {
					slots := make([]string, len(c.AlternativeSlots))
					for i, s := range c.AlternativeSlots {
						slots[i] = engine.ClockMinutes(s)
					}
					fmt.Printf("  alternatives: %s\n", strings.Join(slots, ", "))
				}
			}
			fmt.Println("\nRun 'studyplan resolve <conflict-id>' to see resolution options.")
			return nil
		},
	}

	cmd.Flags().StringVar(&taskID, "task", "", "Task ID being placed")
	cmd.Flags().StringVar(&date, "date", "", "Date as YYYY-MM-DD")
	cmd.Flags().StringVar(&start, "start", "09:00", "Start time as HH:MM")
	cmd.Flags().IntVar(&duration, "duration", 60, "Duration in minutes")
	cmd.MarkFlagRequired("date")
	return cmd
}

func newResolveCmd() *cobra.Command {
	var option string

	cmd := &cobra.Command{
		Use:   "resolve <conflict-id>",
		Short: "Show resolution options for a conflict, or apply one with --option",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			conflictID := args[0]

			if option == "" {
				opts, err := client.ResolutionOptions(conflictID)
				if err != nil {
					return fmt.Errorf("options: %w", err)
				}
				for _, opt := range opts {
					fmt.Printf("%-20s  impact=%-6s  effort=%-6s  %s\n", opt.ID, opt.Impact, opt.Effort, opt.Description)
				}
				fmt.Println("\nApply one with --option <id>.")
				return nil
			}

			result, err := client.ResolveConflict(conflictID, option)
			if err != nil {
				return fmt.Errorf("resolve: %w", err)
			}

			fmt.Printf("Applied %s.\n", result.Applied)
			for _, task := range result.UpdatedTasks {
				fmt.Printf("  task %s: %q (%dm, priority %d, status %s)\n",
					task.ID, task.Title, task.EstimatedMinutes, task.Priority, task.Status)
			}
			for _, block := range result.UpdatedBlocks {
				fmt.Printf("  block %s: %s %s-%s\n", block.ID, block.Date,
					engine.ClockMinutes(block.StartMinutes), engine.ClockMinutes(block.EndMinutes()))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&option, "option", "", "Resolution option ID to apply")
	return cmd
}
