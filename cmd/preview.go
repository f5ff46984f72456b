package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/hpquiz/internal/logger"
	"github.com/abhisek/hpquiz/internal/questiongen"
	"github.com/abhisek/hpquiz/internal/quiz"
)

var previewCmd = &cobra.Command{
	Use:   "preview",
	Short: "Preview a generated question batch (no database)",
	Long: `Generate one batch of questions and answer them on stdin.

This is a stateless developer tool: no session, no event log, no
difficulty changes. Useful for evaluating question quality and prompts.`,
	RunE: runPreview,
}

func init() {
	previewCmd.Flags().String("difficulty", "medium", "Difficulty: easy, medium, or hard")
	previewCmd.Flags().String("target", "baseline", "Lean: baseline, harder, or easier")
	previewCmd.Flags().Int("count", 5, "Number of questions to generate")
}

func runPreview(cmd *cobra.Command, args []string) error {
	diffVal, _ := cmd.Flags().GetString("difficulty")
	targetVal, _ := cmd.Flags().GetString("target")
	count, _ := cmd.Flags().GetInt("count")

	difficulty, err := quiz.ParseDifficulty(strings.ToLower(diffVal))
	if err != nil {
		return err
	}
	var target quiz.Target
	switch t := quiz.Target(strings.ToLower(targetVal)); t {
	case quiz.Baseline, quiz.Harder, quiz.Easier:
		target = t
	default:
		return fmt.Errorf("invalid target %q: must be baseline, harder, or easier", targetVal)
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	// No event repo: preview calls are not recorded.
	ctx := context.Background()
	gen, err := newGenerator(ctx, cfg, nil, logger.Nop())
	if err != nil {
		return err
	}

	fmt.Printf("Topic: %s (%s, %s, provider %s)\n", cfg.QuestionGen.Topic, difficulty, target, cfg.LLM.Provider)
	fmt.Printf("Generating %d questions...\n\n", count)

	questions, err := gen.Generate(ctx, questiongen.Request{
		Difficulty: difficulty,
		Target:     target,
		Count:      count,
	})
	if err != nil {
		return fmt.Errorf("generate: %w", err)
	}

	scanner := bufio.NewScanner(os.Stdin)
	var correct int
	for i, q := range questions {
		fmt.Printf("── Question %d/%d [%s] ──\n", i+1, len(questions), q.Difficulty)
		fmt.Println(q.Text)
		for j, o := range q.Options {
			fmt.Printf("  %d) %s\n", j+1, o.Text)
		}

		fmt.Print("\nYour answer: ")
		if !scanner.Scan() {
			fmt.Println("\n(input closed)")
			break
		}
		answer := strings.TrimSpace(scanner.Text())
		if answer == "" {
			fmt.Print("(skipped)\n\n")
			continue
		}

		if n, err := strconv.Atoi(answer); err == nil && n >= 1 && n <= len(q.Options) && q.Options[n-1].ID == q.CorrectOptionID {
			correct++
			fmt.Println("\033[32m✓ Correct!\033[0m")
		} else {
			fmt.Printf("\033[31m✗ Wrong.\033[0m Answer: %s\n", q.CorrectText())
		}
		fmt.Println()
	}

	fmt.Printf("── Summary: %d/%d correct ──\n", correct, len(questions))
	return nil
}
