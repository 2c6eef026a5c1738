package cli

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/me/studyplan/internal/engine"
	"github.com/me/studyplan/pkg/model"
	"github.com/spf13/cobra"
)

func newPlanCmd() *cobra.Command {
	var (
		morning, evening, workdaysOnly, commit bool
		sessionMinutes, breakMinutes           int
	)

	cmd := &cobra.Command{
		Use:   "plan <task-id>...",
		Short: "Auto-schedule tasks into study sessions",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := client.AutoSchedule(args, model.SchedulingPreferences{
				PreferMorning:     morning,
				PreferEvening:     evening,
				MaxSessionMinutes: sessionMinutes,
				BreakMinutes:      breakMinutes,
				WorkdaysOnly:      workdaysOnly,
			})
			if err != nil {
				return fmt.Errorf("plan: %w", err)
			}

			fmt.Println(result.Message)
			if len(result.Schedule) == 0 {
				return nil
			}

			fmt.Printf("\n%-12s  %-13s  %-6s  %-6s  %s\n", "DATE", "TIME", "PART", "WHEN", "TITLE")
			for _, entry := range result.Schedule {
				part := "-"
				if entry.Parts > 1 {
					part = fmt.Sprintf("%d/%d", entry.Part, entry.Parts)
				}
				window := fmt.Sprintf("%s-%s",
					engine.ClockMinutes(entry.StartMinutes),
					engine.ClockMinutes(entry.StartMinutes+entry.DurationMinutes))
				fmt.Printf("%-12s  %-13s  %-6s  %-6s  %s\n",
					entry.Date, window, part, humanize.Time(entry.StartsAt), entry.Title)
			}

			if result.Insights != nil {
				fmt.Printf("\n%s\n", result.Insights.Summary)
				for _, tip := range result.Insights.Tips {
					fmt.Printf("  - %s\n", tip)
				}
			}

			if !commit {
				fmt.Println("\nDry plan only. Re-run with --commit to save it.")
				return nil
			}

			blocks, err := client.CommitSchedule(result.Schedule)
			if err != nil {
				return fmt.Errorf("commit: %w", err)
			}
			fmt.Printf("\nCommitted %d block(s).\n", len(blocks))
			return nil
		},
	}

	cmd.Flags().BoolVar(&morning, "morning", false, "Prefer morning sessions")
	cmd.Flags().BoolVar(&evening, "evening", false, "Prefer evening sessions")
	cmd.Flags().BoolVar(&workdaysOnly, "workdays-only", false, "Skip weekends")
	cmd.Flags().IntVar(&sessionMinutes, "session", 0, "Max session length in minutes")
	cmd.Flags().IntVar(&breakMinutes, "break", 0, "Break between sessions in minutes")
	cmd.Flags().BoolVar(&commit, "commit", false, "Persist the plan as time blocks")
	return cmd
}
