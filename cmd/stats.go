package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show per-session answer statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		summaries, err := s.EventRepo().SessionSummaries(cmd.Context(), limit)
		if err != nil {
			return fmt.Errorf("query sessions: %w", err)
		}

		if len(summaries) == 0 {
			fmt.Println("No answers recorded yet.")
			return nil
		}

		fmt.Printf("%-36s  %8s  %7s  %8s  %s\n", "Session", "Answered", "Correct", "Accuracy", "Last answer")
		fmt.Println(strings.Repeat("─", 90))

		var answered, correct int
		for _, sum := range summaries {
			fmt.Printf("%-36s  %8d  %7d  %7.0f%%  %s\n",
				sum.SessionID, sum.Answered, sum.Correct, accuracy(sum.Correct, sum.Answered),
				sum.LastAnswer.Local().Format("2006-01-02 15:04:05"))
			answered += sum.Answered
			correct += sum.Correct
		}

		fmt.Println(strings.Repeat("─", 90))
		fmt.Printf("%-36s  %8d  %7d  %7.0f%%\n", "TOTAL", answered, correct, accuracy(correct, answered))
		return nil
	},
}

func accuracy(correct, answered int) float64 {
	if answered == 0 {
		return 0
	}
	return 100 * float64(correct) / float64(answered)
}

func init() {
	statsCmd.Flags().IntP("limit", "n", 20, "Number of sessions to show (0 = all)")
}
