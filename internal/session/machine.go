// Package session implements the state machine for a single play-through of
// one game: Presenting(i) -> Answered(i) -> ... -> Completed.
//
// The machine is not safe for concurrent use and owns no timer of its own.
// The caller drives the countdown through Tick and must serialize all calls;
// the application store pairs it with a cancellable scheduler and enforces
// the "cancel before transition" rule from there.
package session

import (
	"github.com/google/uuid"

	"cyberaware/internal/domain"
	"cyberaware/internal/progression"
)

const (
	// QuestionTimeLimit is the uniform countdown for every question, in
	// ticks. Per-scenario TimeLimit values in content data are ignored.
	QuestionTimeLimit = 25
	// PerfectTimeMargin is the remaining time at answer that counts as a
	// perfect-timing answer.
	PerfectTimeMargin = 5
	// TimedOut is the selection value for a countdown expiry.
	TimedOut = -1
)

// Phase is the machine's current state.
type Phase string

const (
	PhasePresenting Phase = "presenting"
	PhaseAnswered   Phase = "answered"
	PhaseCompleted  Phase = "completed"
)

// Machine runs one session over a game's ordered scenario list.
type Machine struct {
	runID         string
	game          domain.GameDefinition
	phase         Phase
	index         int
	timeLeft      int
	score         int
	correctCount  int
	perfectTiming bool
	lastResult    domain.AnswerResult
}

// New starts a session at Presenting(0) with a full countdown.
func New(game domain.GameDefinition) *Machine {
	return &Machine{
		runID:    uuid.NewString(),
		game:     game,
		phase:    PhasePresenting,
		timeLeft: QuestionTimeLimit,
	}
}

// RunID identifies this run. Timer callbacks carry it so a callback scheduled
// for an abandoned run can be told apart from the current one.
func (m *Machine) RunID() string { return m.runID }

func (m *Machine) GameID() string                  { return m.game.ID }
func (m *Machine) Phase() Phase                    { return m.phase }
func (m *Machine) Index() int                      { return m.index }
func (m *Machine) TimeLeft() int                   { return m.timeLeft }
func (m *Machine) Score() int                      { return m.score }
func (m *Machine) CorrectCount() int               { return m.correctCount }
func (m *Machine) PerfectTiming() bool             { return m.perfectTiming }
func (m *Machine) TotalQuestions() int             { return len(m.game.Scenarios) }
func (m *Machine) LastResult() domain.AnswerResult { return m.lastResult }

// Current returns the active scenario while the session is not completed.
func (m *Machine) Current() (domain.Scenario, bool) {
	if m.phase == PhaseCompleted || m.index >= len(m.game.Scenarios) {
		return domain.Scenario{}, false
	}
	return m.game.Scenarios[m.index], true
}

// Tick decrements the countdown during Presenting. When it reaches zero the
// question is force-answered as a timeout, and Tick reports the transition so
// the caller can cancel the timer and notify.
func (m *Machine) Tick() (expired bool) {
	if m.phase != PhasePresenting {
		return false
	}
	m.timeLeft--
	if m.timeLeft > 0 {
		return false
	}
	m.timeLeft = 0
	_, _ = m.Submit(TimedOut)
	return true
}

// Submit records a selection for the active question and moves to Answered.
// TimedOut (or any negative index) is the implicit no-selection outcome and
// always scores as incorrect. An answer with PerfectTimeMargin or more ticks
// remaining sets the session-wide perfect-timing flag; once set it stays set.
func (m *Machine) Submit(option int) (domain.AnswerResult, error) {
	switch m.phase {
	case PhaseCompleted:
		return domain.AnswerNone, domain.ErrSessionCompleted
	case PhaseAnswered:
		return domain.AnswerNone, domain.ErrNotPresenting
	}

	scenario := m.game.Scenarios[m.index]
	if option >= len(scenario.Options) {
		return domain.AnswerNone, domain.ErrOptionOutOfRange
	}

	if option >= 0 && m.timeLeft >= PerfectTimeMargin {
		m.perfectTiming = true
	}

	m.phase = PhaseAnswered
	if option == scenario.CorrectIndex {
		m.score += progression.PointsPerCorrect
		m.correctCount++
		m.lastResult = domain.AnswerCorrect
		return domain.AnswerCorrect, nil
	}
	m.lastResult = domain.AnswerWrong
	return domain.AnswerWrong, nil
}

// Advance moves from Answered to the next question, or to Completed when the
// scenario list is exhausted.
func (m *Machine) Advance() (completed bool, err error) {
	switch m.phase {
	case PhaseCompleted:
		return false, domain.ErrSessionCompleted
	case PhasePresenting:
		return false, domain.ErrNotAnswered
	}

	m.index++
	m.lastResult = domain.AnswerNone
	if m.index >= len(m.game.Scenarios) {
		m.phase = PhaseCompleted
		return true, nil
	}
	m.phase = PhasePresenting
	m.timeLeft = QuestionTimeLimit
	return false, nil
}

// Summary is the hand-off for completion accrual. It is meaningful once the
// machine reaches Completed, and also describes a partial run for display
// when the player quits early.
func (m *Machine) Summary() domain.SessionSummary {
	return domain.SessionSummary{
		GameID:         m.game.ID,
		Score:          m.score,
		TotalQuestions: len(m.game.Scenarios),
		CorrectCount:   m.correctCount,
		PerfectTiming:  m.perfectTiming,
	}
}
