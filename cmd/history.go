package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/triagez/internal/store"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recorded interview outcomes",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		outcome, _ := cmd.Flags().GetString("outcome")

		s, err := openEventStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		ctx := cmd.Context()
		repo := s.EventRepo()

		events, err := repo.QueryInterviews(ctx, store.QueryOpts{Limit: limit})
		if err != nil {
			return fmt.Errorf("query interviews: %w", err)
		}
		if len(events) == 0 {
			fmt.Println("No interviews recorded yet.")
			return nil
		}

		fmt.Printf("%-5s  %-19s  %-10s  %-18s  %3s  %5s  %6s  %s\n",
			"ID", "Timestamp", "Outcome", "Department", "Q", "Top", "Time", "Symptoms")
		fmt.Println(strings.Repeat("─", 100))
		for _, e := range events {
			if outcome != "" && e.Outcome != outcome {
				continue
			}
			dept := e.Department
			if dept == "" {
				dept = "-"
			}
			fmt.Printf("%-5d  %-19s  %-10s  %-18s  %3d  %5.2f  %6s  %s\n",
				e.ID,
				e.Timestamp.Local().Format("2006-01-02 15:04:05"),
				e.Outcome,
				truncate(dept, 18),
				e.QuestionCount,
				e.TopScore,
				e.Duration.Round(time.Second).String(),
				strings.Join(e.Symptoms, ", "),
			)
		}

		counts, err := repo.InterviewOutcomeCounts(ctx)
		if err != nil {
			return fmt.Errorf("query outcome counts: %w", err)
		}
		fmt.Println()
		fmt.Printf("%-10s  %6s  %10s\n", "Outcome", "Count", "Avg Q")
		fmt.Println(strings.Repeat("─", 30))
		for _, c := range counts {
			fmt.Printf("%-10s  %6d  %10.1f\n", c.Outcome, c.Count, c.AvgQuestions)
		}
		return nil
	},
}

func init() {
	historyCmd.Flags().IntP("limit", "n", 20, "Number of interviews to show")
	historyCmd.Flags().StringP("outcome", "o", "", "Filter by outcome (recommend, exhausted, no_match)")
}
