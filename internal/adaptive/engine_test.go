package adaptive

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/abhisek/hpquiz/internal/quiz"
)

func TestDecide(t *testing.T) {
	const T, F = true, false

	tests := []struct {
		name   string
		window []bool
		size   int
		want   quiz.Direction
	}{
		{"empty", nil, 5, quiz.None},
		{"four of five", []bool{T, T, T, T, F}, 5, quiz.Increase},
		{"all correct", []bool{T, T, T, T, T}, 5, quiz.Increase},
		{"one of five", []bool{F, F, T, F, F}, 5, quiz.Decrease},
		{"none correct", []bool{F, F, F, F, F}, 5, quiz.Decrease},
		{"three of five", []bool{T, F, T, F, T}, 5, quiz.None},
		{"two of five", []bool{T, F, F, T, F}, 5, quiz.None},
		{"size two tie goes up", []bool{T, F}, 2, quiz.Increase},
		{"size two both wrong", []bool{F, F}, 2, quiz.Increase},
		{"size three one correct", []bool{T, F, F}, 3, quiz.Decrease},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Decide(tt.window, tt.size))
		})
	}
}

func TestLeanUsesPartialWindow(t *testing.T) {
	tests := []struct {
		name   string
		window []bool
		want   quiz.Target
	}{
		{"empty", nil, quiz.Baseline},
		{"one correct", []bool{true}, quiz.Baseline},
		{"one wrong", []bool{false}, quiz.Baseline},
		{"two wrong", []bool{false, false}, quiz.Baseline},
		{"mixed", []bool{true, true, false}, quiz.Baseline},
		{"increase decided", []bool{true, true, true, true}, quiz.Harder},
		{"decrease decided", []bool{false, false, false, false}, quiz.Easier},
		{"decrease decided with one correct", []bool{false, true, false, false, false}, quiz.Easier},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Lean(tt.window, 5))
		})
	}
}

func TestLeanAgreesWithDecideOnFullWindow(t *testing.T) {
	for mask := range 1 << 5 {
		window := make([]bool, 5)
		for i := range window {
			window[i] = mask&(1<<i) != 0
		}
		assert.Equal(t, TargetFor(Decide(window, 5)), Lean(window, 5), "window %v", window)
	}
}

func TestTargetFor(t *testing.T) {
	assert.Equal(t, quiz.Harder, TargetFor(quiz.Increase))
	assert.Equal(t, quiz.Easier, TargetFor(quiz.Decrease))
	assert.Equal(t, quiz.Baseline, TargetFor(quiz.None))
}
