package adaptive

import "github.com/abhisek/hpquiz/internal/quiz"

// Decide maps a window of outcomes to a difficulty direction.
//
// At most one wrong answer in a window of the given size reads as "too
// easy"; at most one correct answer reads as "too hard". The increase
// check runs first, so it wins when both hold (size <= 2).
func Decide(window []bool, size int) quiz.Direction {
	if len(window) == 0 {
		return quiz.None
	}
	correct := countCorrect(window)
	switch {
	case correct >= size-1:
		return quiz.Increase
	case correct <= 1:
		return quiz.Decrease
	default:
		return quiz.None
	}
}

// Lean returns the generation target suggested by a possibly partial
// window, so prefetching can anticipate the next transition. It leans only
// when the transition is already decided: size-1 correct answers for
// harder, size-1 wrong answers for easier. On a full window it agrees with
// Decide.
func Lean(window []bool, size int) quiz.Target {
	if len(window) == 0 {
		return quiz.Baseline
	}
	correct := countCorrect(window)
	switch {
	case correct >= size-1:
		return quiz.Harder
	case len(window)-correct >= size-1:
		return quiz.Easier
	default:
		return quiz.Baseline
	}
}

// TargetFor maps a transition direction to a generator target.
func TargetFor(dir quiz.Direction) quiz.Target {
	switch dir {
	case quiz.Increase:
		return quiz.Harder
	case quiz.Decrease:
		return quiz.Easier
	default:
		return quiz.Baseline
	}
}

func countCorrect(window []bool) int {
	n := 0
	for _, ok := range window {
		if ok {
			n++
		}
	}
	return n
}
