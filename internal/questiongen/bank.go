package questiongen

import (
	"context"
	"fmt"
	"math/rand/v2"

	"github.com/google/uuid"

	"github.com/abhisek/hpquiz/internal/dedup"
	"github.com/abhisek/hpquiz/internal/quiz"
)

// cannedQuestion is a bank entry; the first choice is the correct one.
// Choices are shuffled on every build.
type cannedQuestion struct {
	text    string
	choices [4]string
}

var cannedQuestions = map[quiz.Difficulty][]cannedQuestion{
	quiz.Easy: {
		{"Who is the boy who lived?", [4]string{"Harry", "Ron", "Hermione", "Draco"}},
		{"What is the name of Harry's snowy owl?", [4]string{"Hedwig", "Errol", "Pigwidgeon", "Hermes"}},
		{"Which house does the Sorting Hat place Harry in?", [4]string{"Gryffindor", "Slytherin", "Ravenclaw", "Hufflepuff"}},
		{"What position does Harry play on his Quidditch team?", [4]string{"Seeker", "Keeper", "Chaser", "Beater"}},
		{"Who is the headmaster of Hogwarts when Harry arrives?", [4]string{"Albus Dumbledore", "Severus Snape", "Minerva McGonagall", "Cornelius Fudge"}},
		{"What platform does the Hogwarts Express leave from?", [4]string{"Nine and three-quarters", "Seven and a half", "Ten", "Nine"}},
		{"What is the name of the Weasleys' home?", [4]string{"The Burrow", "Shell Cottage", "Grimmauld Place", "Spinner's End"}},
	},
	quiz.Medium: {
		{"What is the core of Harry's wand?", [4]string{"Phoenix feather", "Dragon heartstring", "Unicorn hair", "Thestral hair"}},
		{"Who is the Half-Blood Prince?", [4]string{"Severus Snape", "Tom Riddle", "Sirius Black", "Remus Lupin"}},
		{"What form does Hermione's Patronus take?", [4]string{"Otter", "Cat", "Hare", "Swan"}},
		{"Which spell disarms an opponent?", [4]string{"Expelliarmus", "Stupefy", "Petrificus Totalus", "Impedimenta"}},
		{"What creature guards the Philosopher's Stone's first chamber?", [4]string{"A three-headed dog", "A troll", "A dragon", "A basilisk"}},
		{"Who betrayed Harry's parents to Voldemort?", [4]string{"Peter Pettigrew", "Sirius Black", "Severus Snape", "Igor Karkaroff"}},
		{"What does the Marauder's Map reveal when activated?", [4]string{"Everyone's location in Hogwarts", "Hidden treasure", "The future", "Secret passwords"}},
	},
	quiz.Hard: {
		{"What is the name of Dumbledore's brother?", [4]string{"Aberforth", "Ariana", "Percival", "Elphias"}},
		{"What was the first Horcrux Harry destroyed?", [4]string{"Tom Riddle's diary", "Marvolo Gaunt's ring", "Slytherin's locket", "Hufflepuff's cup"}},
		{"What is the incantation for the Patronus Charm?", [4]string{"Expecto Patronum", "Lumos Maxima", "Protego Horribilis", "Finite Incantatem"}},
		{"Who killed Nagini?", [4]string{"Neville Longbottom", "Ron Weasley", "Harry Potter", "Molly Weasley"}},
		{"What is the name of the goblin who helps break into Gringotts?", [4]string{"Griphook", "Ragnok", "Gornuk", "Bogrod"}},
		{"Which Hogwarts ghost is Helena Ravenclaw?", [4]string{"The Grey Lady", "The Fat Lady", "Moaning Myrtle", "The Bloody Baron"}},
		{"What is Voldemort's mother's name?", [4]string{"Merope Gaunt", "Morfin Gaunt", "Mary Riddle", "Eileen Prince"}},
	},
}

// Bank serves canned questions when no primary content is available.
// Every call mints fresh ids so repeated texts never collide on id.
type Bank struct{}

// NewBank returns the built-in question bank.
func NewBank() *Bank { return &Bank{} }

// Fallback returns up to count canned questions for d in a fixed order.
// A count of zero or less returns every entry for d.
func (b *Bank) Fallback(d quiz.Difficulty, count int) []quiz.Question {
	if !d.Valid() {
		d = quiz.Medium
	}
	entries := cannedQuestions[d]
	if count > 0 && count < len(entries) {
		entries = entries[:count]
	}
	out := make([]quiz.Question, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.build(d))
	}
	return out
}

// Size returns the number of canned questions for d.
func (b *Bank) Size(d quiz.Difficulty) int {
	return len(cannedQuestions[d])
}

func (c cannedQuestion) build(d quiz.Difficulty) quiz.Question {
	q := quiz.Question{
		ID:         uuid.NewString(),
		Text:       c.text,
		Difficulty: d,
	}
	for _, text := range c.choices {
		q.Options = append(q.Options, quiz.Option{ID: uuid.NewString(), Text: text})
	}
	q.CorrectOptionID = q.Options[0].ID
	rand.Shuffle(len(q.Options), func(i, j int) {
		q.Options[i], q.Options[j] = q.Options[j], q.Options[i]
	})
	return q
}

// FallbackGenerator adapts a Bank to the Generator interface for running
// without an LLM provider.
type FallbackGenerator struct {
	bank *Bank
}

// NewFallbackGenerator wraps bank as a Generator.
func NewFallbackGenerator(bank *Bank) *FallbackGenerator {
	return &FallbackGenerator{bank: bank}
}

// Generate returns bank questions for the target rung that are not in
// req.Avoid. It fails only when every candidate is avoided.
func (g *FallbackGenerator) Generate(_ context.Context, req Request) ([]quiz.Question, error) {
	d := targetDifficulty(req.Difficulty, req.Target)
	avoid := make(map[string]bool, len(req.Avoid))
	for _, t := range req.Avoid {
		avoid[dedup.Normalize(t)] = true
	}

	var out []quiz.Question
	for _, q := range g.bank.Fallback(d, 0) {
		if req.Count > 0 && len(out) == req.Count {
			break
		}
		if avoid[dedup.Normalize(q.Text)] {
			continue
		}
		out = append(out, q)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("question bank exhausted for %s: %w", d, ErrEmptyBatch)
	}
	return out, nil
}
