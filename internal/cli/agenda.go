package cli

import (
	"fmt"

	"github.com/me/studyplan/internal/engine"
	"github.com/spf13/cobra"
)

func newAgendaCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "agenda <date>",
		Short: "Show the time blocks for a date",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			date := args[0]
			blocks, err := client.BlocksByDate(date)
			if err != nil {
				return fmt.Errorf("agenda: %w", err)
			}

			if len(blocks) == 0 {
				fmt.Printf("Nothing planned on %s.\n", date)
				return nil
			}

			total := 0
			fmt.Printf("%-13s  %-12s  %-14s  %s\n", "TIME", "TYPE", "ID", "TITLE")
			for _, b := range blocks {
				fmt.Printf("%s-%s  %-12s  %-14s  %s\n",
					engine.ClockMinutes(b.StartMinutes), engine.ClockMinutes(b.EndMinutes()),
					b.Type, b.ID, b.Title)
				if b.Type.Counts() {
					total += b.DurationMinutes
				}
			}
			fmt.Printf("\n%d committed minute(s) on %s.\n", total, date)
			return nil
		},
	}
}
