// Package app is the terminal quiz client. It drives the quiz service
// in-process with a Bubble Tea program.
package app

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"charm.land/bubbles/v2/key"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/hpquiz/internal/quiz"
	"github.com/abhisek/hpquiz/internal/service"
	"github.com/abhisek/hpquiz/internal/ui/components"
	"github.com/abhisek/hpquiz/internal/ui/layout"
	"github.com/abhisek/hpquiz/internal/ui/theme"
)

// QuizService is the subset of service.Service the client needs.
type QuizService interface {
	StartSession(ctx context.Context) (string, error)
	NextQuestion(ctx context.Context, sessionID string) (*service.NextResult, error)
	SubmitAnswer(ctx context.Context, sessionID, questionID, optionID string) (*service.SubmitResult, error)
}

// Options tune the client display.
type Options struct {
	// WindowSize is the answer window length shown in the progress bar.
	WindowSize int
}

type phase int

const (
	phaseStarting phase = iota
	phaseLoading
	phaseQuestion
	phaseSubmitting
	phaseFeedback
	phaseError
)

type sessionStartedMsg struct {
	id  string
	err error
}

type questionMsg struct {
	res *service.NextResult
	err error
}

type answerMsg struct {
	res *service.SubmitResult
	err error
}

// Model is the root Bubble Tea model.
type Model struct {
	ctx  context.Context
	svc  QuizService
	opts Options
	keys components.KeyMap

	phase     phase
	sessionID string
	question  quiz.Question
	choice    components.MultiChoice
	banner    string
	result    *service.SubmitResult
	err       error

	difficulty quiz.Difficulty
	answered   int
	correct    int
	windowLen  int

	width  int
	height int
}

// New creates the client model.
func New(ctx context.Context, svc QuizService, opts Options) Model {
	if opts.WindowSize <= 0 {
		opts.WindowSize = 5
	}
	return Model{
		ctx:  ctx,
		svc:  svc,
		opts: opts,
		keys: components.DefaultKeyMap(),
	}
}

func (m Model) Init() tea.Cmd {
	return m.startSession()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case sessionStartedMsg:
		if msg.err != nil {
			return m.fail(msg.err), nil
		}
		m.sessionID = msg.id
		m.phase = phaseLoading
		return m, m.fetchNext()

	case questionMsg:
		if msg.err != nil {
			return m.fail(msg.err), nil
		}
		m.question = msg.res.Question
		m.choice = components.NewMultiChoice(m.question.Text, optionTexts(m.question))
		m.banner = popupMessage(msg.res.Popup)
		m.result = nil
		if m.difficulty == "" {
			m.difficulty = m.question.Difficulty
		}
		m.phase = phaseQuestion
		return m, nil

	case answerMsg:
		if msg.err != nil {
			return m.fail(msg.err), nil
		}
		m.applyResult(msg.res)
		return m, nil

	case tea.KeyPressMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Quit) {
		return m, tea.Quit
	}

	switch m.phase {
	case phaseQuestion:
		m.choice, _ = m.choice.Update(msg)
		if m.choice.Submitted {
			m.phase = phaseSubmitting
			return m, m.submit(m.question.Options[m.choice.ChosenIndex].ID)
		}

	case phaseFeedback:
		if key.Matches(msg, m.keys.Continue) {
			m.phase = phaseLoading
			return m, m.fetchNext()
		}

	case phaseError:
		if key.Matches(msg, m.keys.Retry) {
			m.err = nil
			if m.sessionID == "" {
				m.phase = phaseStarting
				return m, m.startSession()
			}
			m.phase = phaseLoading
			return m, m.fetchNext()
		}
	}

	return m, nil
}

func (m *Model) applyResult(res *service.SubmitResult) {
	m.result = res
	m.answered++
	if res.Correct {
		m.correct++
	}
	if res.Difficulty != "" {
		m.difficulty = res.Difficulty
	}
	if res.WindowCompleted {
		m.windowLen = 0
	} else {
		m.windowLen++
	}
	if res.Known {
		m.choice.Reveal(m.choice.IndexOf(res.CorrectAnswerText))
	}
	m.phase = phaseFeedback
}

func (m Model) fail(err error) Model {
	m.err = err
	m.phase = phaseError
	return m
}

func (m Model) startSession() tea.Cmd {
	return func() tea.Msg {
		id, err := m.svc.StartSession(m.ctx)
		return sessionStartedMsg{id: id, err: err}
	}
}

func (m Model) fetchNext() tea.Cmd {
	id := m.sessionID
	return func() tea.Msg {
		res, err := m.svc.NextQuestion(m.ctx, id)
		return questionMsg{res: res, err: err}
	}
}

func (m Model) submit(optionID string) tea.Cmd {
	id, qid := m.sessionID, m.question.ID
	return func() tea.Msg {
		res, err := m.svc.SubmitAnswer(m.ctx, id, qid, optionID)
		return answerMsg{res: res, err: err}
	}
}

func (m Model) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true

	if m.width == 0 || m.height == 0 {
		return v
	}

	if layout.IsTooSmall(m.width, m.height) {
		v.SetContent(layout.RenderMinSizeMessage(m.width, m.height))
		return v
	}

	header := layout.RenderHeader(m.title(), layout.HeaderStats{
		Difficulty: string(m.difficulty),
		Correct:    m.correct,
		Answered:   m.answered,
	}, m.width)
	footer := layout.RenderFooter(m.keyHints(), m.width)

	v.SetContent(layout.RenderFrame(header, m.render(m.width), footer, m.width, m.height))
	return v
}

func (m Model) title() string {
	switch m.phase {
	case phaseQuestion, phaseSubmitting, phaseFeedback:
		n := m.answered
		if m.phase != phaseFeedback {
			n++
		}
		return fmt.Sprintf("Question %d", n)
	default:
		return "Harry Potter Quiz"
	}
}

func (m Model) keyHints() []layout.KeyHint {
	var bindings []key.Binding
	switch m.phase {
	case phaseQuestion:
		bindings = []key.Binding{m.keys.Up, m.keys.Down, m.keys.Submit}
	case phaseFeedback:
		bindings = []key.Binding{m.keys.Continue}
	case phaseError:
		bindings = []key.Binding{m.keys.Retry}
	}
	bindings = append(bindings, m.keys.Quit)

	hints := make([]layout.KeyHint, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		hints = append(hints, layout.KeyHint{Key: h.Key, Description: h.Desc})
	}
	return hints
}

// render draws the content area for the current phase.
func (m Model) render(width int) string {
	center := lipgloss.NewStyle().Width(width).Align(lipgloss.Center)

	switch m.phase {
	case phaseStarting:
		return center.Foreground(theme.TextDim).Render("\n\nOpening the Great Hall...")
	case phaseLoading:
		return center.Foreground(theme.TextDim).Render("\n\nSummoning the next question...")
	case phaseError:
		return center.Render("\n\n" + theme.Incorrect.Render(errorMessage(m.err)) + "\n\n" +
			theme.Hint.Render("Press r to try again."))
	}

	cardWidth := min(width-8, 72)
	var b strings.Builder
	b.WriteString("\n")

	if m.banner != "" {
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, theme.Banner.Render(m.banner)))
		b.WriteString("\n\n")
	}

	card := theme.Card.Width(cardWidth).Render(m.choice.View())
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, card))
	b.WriteString("\n\n")

	if m.phase == phaseFeedback && m.result != nil {
		b.WriteString(center.Render(m.feedback()))
		b.WriteString("\n\n")
	}

	progress := components.NewWindowProgress("Window", m.windowLen, m.opts.WindowSize, cardWidth)
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, progress.View()))

	return b.String()
}

func (m Model) feedback() string {
	r := m.result
	if r.Correct {
		return theme.Correct.Render("Correct!")
	}
	s := theme.Incorrect.Render("Not quite")
	if r.Known && r.CorrectAnswerText != "" {
		s += "\n" + theme.Dimmed.Render("Correct answer: "+r.CorrectAnswerText)
	}
	return s
}

func optionTexts(q quiz.Question) []string {
	out := make([]string, len(q.Options))
	for i, o := range q.Options {
		out[i] = o.Text
	}
	return out
}

func popupMessage(p quiz.Popup) string {
	switch p {
	case quiz.PopupTooEasy:
		return "Too easy! Turning up the difficulty."
	case quiz.PopupTooHard:
		return "Too hard! Easing the difficulty."
	default:
		return ""
	}
}

func errorMessage(err error) string {
	switch {
	case errors.Is(err, quiz.ErrNoQuestionsAvailable):
		return "No new questions are ready yet."
	case errors.Is(err, quiz.ErrUnknownSession):
		return "The session has ended."
	default:
		return fmt.Sprintf("Something went wrong: %v", err)
	}
}

// Run starts the Bubble Tea program.
func Run(ctx context.Context, svc QuizService, opts Options) error {
	p := tea.NewProgram(New(ctx, svc, opts))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run quiz client: %w", err)
	}
	return nil
}
