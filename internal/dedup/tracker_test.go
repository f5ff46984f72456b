package dedup

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/hpquiz/internal/quiz"
)

func q(id, text string) quiz.Question {
	return quiz.Question{
		ID:              id,
		Text:            text,
		Options:         []quiz.Option{{ID: "a", Text: "yes"}, {ID: "b", Text: "no"}},
		CorrectOptionID: "a",
		Difficulty:      quiz.Medium,
	}
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "who is the boy who lived?", Normalize("  Who is the Boy Who Lived?\n"))
	assert.Equal(t, Normalize("ÉCOLE"), Normalize("école"))
	assert.Equal(t, "", Normalize("   "))
}

func TestFilterNew_Idempotent(t *testing.T) {
	tr := NewTracker(10)
	batch := []quiz.Question{q("1", "What house is Harry in?"), q("2", "Who is Dobby's master?")}

	first := tr.FilterNew(batch)
	require.Len(t, first, 2)

	second := tr.FilterNew(batch)
	assert.Empty(t, second)
}

func TestFilterNew_InBatchDuplicatesFirstWins(t *testing.T) {
	tr := NewTracker(10)
	got := tr.FilterNew([]quiz.Question{
		q("1", "What is Hedwig?"),
		q("2", "  what is hedwig?  "),
		q("3", "Who teaches Potions?"),
		q("4", ""),
	})

	require.Len(t, got, 2)
	assert.Equal(t, "1", got[0].ID)
	assert.Equal(t, "3", got[1].ID)
}

func TestFilterNew_SkipsServedTexts(t *testing.T) {
	tr := NewTracker(10)
	tr.MarkServed("Who is the Half-Blood Prince?")

	got := tr.FilterNew([]quiz.Question{q("1", "who is the half-blood prince?")})
	assert.Empty(t, got)
	assert.True(t, tr.Seen("WHO IS THE HALF-BLOOD PRINCE?"))
}

func TestAvoidList_RingEvictsOldest(t *testing.T) {
	tr := NewTracker(3)
	for i := range 5 {
		tr.FilterNew([]quiz.Question{q(fmt.Sprint(i), fmt.Sprintf("Question %d", i))})
	}

	assert.Equal(t, []string{"Question 2", "Question 3", "Question 4"}, tr.AvoidList())
	// Evicted texts stay in the seen set.
	assert.True(t, tr.Seen("question 0"))
	assert.Equal(t, 5, tr.Len())
}

func TestAvoidList_PadsWithMostRecentSeen(t *testing.T) {
	tr := NewTracker(4)
	tr.MarkServed("Served A")
	tr.MarkServed("Served B")
	tr.MarkServed("Served C")
	tr.FilterNew([]quiz.Question{q("1", "Generated 1")})

	got := tr.AvoidList()
	assert.Equal(t, []string{"Generated 1", "Served C", "Served B", "Served A"}, got)

	// Deterministic across calls.
	assert.Equal(t, got, tr.AvoidList())
}

func TestAvoidList_PaddingBounded(t *testing.T) {
	tr := NewTracker(2)
	for i := range 10 {
		tr.MarkServed(fmt.Sprintf("Served %d", i))
	}
	assert.Equal(t, []string{"Served 9", "Served 8"}, tr.AvoidList())
}

func TestAvoidList_Empty(t *testing.T) {
	assert.Empty(t, NewTracker(5).AvoidList())
}
