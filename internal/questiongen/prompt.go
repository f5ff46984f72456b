package questiongen

import (
	"fmt"
	"strings"

	"github.com/abhisek/hpquiz/internal/quiz"
)

const systemPrompt = `You are a quiz master writing multiple-choice trivia questions.

Rules:
- Generate exactly the requested number of questions about the given topic and difficulty.
- Each question has exactly 4 options with short unique ids (e.g. "a", "b", "c", "d"); exactly one option is correct.
- Distractors should be plausible to a fan of the topic, not obviously wrong.
- Set correct_option_id to the id of the correct option and difficulty to "easy", "medium", or "hard".
- Keep question text under 300 characters and self-contained.
- If the target is "harder", make the questions noticeably harder than the stated difficulty; if "easier", noticeably easier; otherwise match it.
- Prefer topics similar to the "answered correctly" examples and avoid the topics of the "answered wrong" examples.
- Do not ask any question from the "already asked" list, including rewordings or paraphrases.`

// buildUserMessage constructs the user message from a Request and Config limits.
func buildUserMessage(req Request, cfg Config) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Topic: %s\n", cfg.Topic)
	fmt.Fprintf(&b, "Difficulty: %s\n", req.Difficulty)
	fmt.Fprintf(&b, "Target: %s (aim for %s)\n", req.Target, targetDifficulty(req.Difficulty, req.Target))
	fmt.Fprintf(&b, "Recent results: %s\n", formatHistory(req.History))
	fmt.Fprintf(&b, "Number of questions: %d\n", req.Count)

	b.WriteString("\nAlready asked:\n")
	b.WriteString(buildList(req.Avoid, cfg.MaxAvoid))

	b.WriteString("\n\nAnswered correctly:\n")
	b.WriteString(buildList(req.CorrectExamples, cfg.MaxExamples))

	b.WriteString("\n\nAnswered wrong:\n")
	b.WriteString(buildList(req.WrongExamples, cfg.MaxExamples))

	return b.String()
}

// buildList formats texts as a numbered list, keeping the most recent max
// entries. Returns "None" if there are no texts.
func buildList(texts []string, max int) string {
	if len(texts) == 0 {
		return "None"
	}

	if max > 0 && len(texts) > max {
		texts = texts[len(texts)-max:]
	}

	var b strings.Builder
	for i, t := range texts {
		fmt.Fprintf(&b, "%d. %s\n", i+1, t)
	}
	return strings.TrimRight(b.String(), "\n")
}

// formatHistory renders outcomes as e.g. "correct, wrong, correct".
func formatHistory(history []bool) string {
	if len(history) == 0 {
		return "none yet"
	}
	parts := make([]string, len(history))
	for i, ok := range history {
		if ok {
			parts[i] = "correct"
		} else {
			parts[i] = "wrong"
		}
	}
	return strings.Join(parts, ", ")
}

// targetDifficulty is the rung the model is asked to aim for.
func targetDifficulty(d quiz.Difficulty, t quiz.Target) quiz.Difficulty {
	switch t {
	case quiz.Harder:
		return d.Step(quiz.Increase)
	case quiz.Easier:
		return d.Step(quiz.Decrease)
	default:
		return d
	}
}
