// Package app owns the single application state and the operations that
// mutate it. All external actions go through the Store; it mutates state,
// persists the durable records best-effort, and fans change notifications
// out to subscribers in registration order.
package app

import (
	"context"
	"strings"
	"sync"
	"time"

	"cyberaware/internal/domain"
	"cyberaware/internal/persist"
	"cyberaware/internal/progression"
	"cyberaware/internal/session"
)

// CatalogRepository loads game content (from cache/backing store).
type CatalogRepository interface {
	Games(ctx context.Context) ([]domain.GameDefinition, error)
}

type subscriber struct {
	id int
	fn func(State)
}

// Store is the single owner of application state. Operations are safe for
// concurrent use; each one runs to completion, then notifies synchronously.
type Store struct {
	records *persist.Store
	catalog domain.Catalog
	sched   Scheduler
	now     func() time.Time

	mu               sync.Mutex
	view             domain.View
	gameID           string
	userName         string
	isLoggedIn       bool
	progress         domain.UserProgress
	leaderboard      []domain.LeaderboardEntry
	currentGameScore int
	lastResult       domain.AnswerResult
	lastCompletion   *CompletionState
	sess             *session.Machine
	cancelTimer      func()

	subMu  sync.Mutex
	subs   []subscriber
	nextID int
}

// NewStore loads the persisted records and builds the initial state: the
// dashboard for a logged-in user, the login view otherwise. now may be nil
// for wall-clock time.
func NewStore(records *persist.Store, cat domain.Catalog, sched Scheduler, now func() time.Time) *Store {
	if now == nil {
		now = time.Now
	}
	ctx := context.Background()
	auth := records.LoadAuth(ctx)

	view := domain.ViewLogin
	if auth.IsLoggedIn {
		view = domain.ViewDashboard
	}
	return &Store{
		records:     records,
		catalog:     cat,
		sched:       sched,
		now:         now,
		view:        view,
		userName:    auth.UserName,
		isLoggedIn:  auth.IsLoggedIn,
		progress:    records.LoadProgress(ctx),
		leaderboard: records.LoadLeaderboard(ctx),
	}
}

// Subscribe registers a change callback and returns its unsubscribe func.
// Callbacks run synchronously, in registration order, once per completed
// external action.
func (s *Store) Subscribe(fn func(State)) (unsubscribe func()) {
	s.subMu.Lock()
	s.nextID++
	id := s.nextID
	s.subs = append(s.subs, subscriber{id: id, fn: fn})
	s.subMu.Unlock()

	return func() {
		s.subMu.Lock()
		for i, sub := range s.subs {
			if sub.id == id {
				s.subs = append(s.subs[:i], s.subs[i+1:]...)
				break
			}
		}
		s.subMu.Unlock()
	}
}

// State returns the current snapshot.
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Catalog exposes the fixed game catalog for rendering.
func (s *Store) Catalog() domain.Catalog {
	return s.catalog
}

// Navigate switches views. Entering the game view starts a session for the
// given game; a missing game id falls back to the dashboard and an unknown
// one to game selection. Navigating anywhere else discards any run in
// progress.
func (s *Store) Navigate(view domain.View, gameID string) {
	s.mu.Lock()
	if view == domain.ViewGame {
		if gameID == "" {
			view, gameID = domain.ViewDashboard, ""
		} else if _, ok := s.catalog.Game(gameID); !ok {
			view, gameID = domain.ViewGameSelect, ""
		}
	}
	if view == domain.ViewGame {
		s.startSessionLocked(gameID)
	} else {
		s.discardSessionLocked()
		gameID = ""
	}
	s.view = view
	s.gameID = gameID
	snap := s.snapshotLocked()
	s.mu.Unlock()
	s.notify(snap)
}

// SetUserName updates the display name and persists it.
func (s *Store) SetUserName(name string) {
	s.mu.Lock()
	s.userName = name
	s.saveAuthLocked()
	snap := s.snapshotLocked()
	s.mu.Unlock()
	s.notify(snap)
}

// Login records the display name (falling back to the default when blank)
// and switches to the dashboard.
func (s *Store) Login(name string) {
	s.mu.Lock()
	name = strings.TrimSpace(name)
	if name == "" {
		name = persist.DefaultUserName
	}
	s.userName = name
	s.isLoggedIn = true
	s.view = domain.ViewDashboard
	s.gameID = ""
	s.saveAuthLocked()
	snap := s.snapshotLocked()
	s.mu.Unlock()
	s.notify(snap)
}

// Logout returns to the login view, clearing the active game and any run in
// progress.
func (s *Store) Logout() {
	s.mu.Lock()
	s.discardSessionLocked()
	s.isLoggedIn = false
	s.view = domain.ViewLogin
	s.gameID = ""
	s.saveAuthLocked()
	snap := s.snapshotLocked()
	s.mu.Unlock()
	s.notify(snap)
}

// SubmitAnswer records a selection for the active question. session.TimedOut
// submits the implicit no-selection outcome. The countdown is cancelled
// before the transition so it can never fire against the answered state.
func (s *Store) SubmitAnswer(option int) (domain.AnswerResult, error) {
	s.mu.Lock()
	if s.sess == nil {
		s.mu.Unlock()
		return domain.AnswerNone, domain.ErrNoActiveSession
	}
	if cur, ok := s.sess.Current(); ok && option >= len(cur.Options) {
		s.mu.Unlock()
		return domain.AnswerNone, domain.ErrOptionOutOfRange
	}
	s.cancelTimerLocked()
	result, err := s.sess.Submit(option)
	if err != nil {
		s.mu.Unlock()
		return domain.AnswerNone, err
	}
	s.lastResult = result
	s.currentGameScore = s.sess.Score()
	snap := s.snapshotLocked()
	s.mu.Unlock()
	s.notify(snap)
	return result, nil
}

// AdvanceQuestion moves past the feedback for an answered question. On the
// last question it completes the session and runs accrual exactly once.
func (s *Store) AdvanceQuestion() error {
	s.mu.Lock()
	if s.sess == nil {
		s.mu.Unlock()
		return domain.ErrNoActiveSession
	}
	completed, err := s.sess.Advance()
	if err != nil {
		s.mu.Unlock()
		return err
	}
	s.lastResult = domain.AnswerNone
	if completed {
		s.completeSessionLocked()
	} else {
		s.startTimerLocked()
	}
	snap := s.snapshotLocked()
	s.mu.Unlock()
	s.notify(snap)
	return nil
}

// QuitSession abandons the run without accrual. The running score stays
// readable for display; nothing durable changes.
func (s *Store) QuitSession() {
	s.mu.Lock()
	if s.sess == nil {
		s.mu.Unlock()
		return
	}
	s.discardSessionLocked()
	s.view = domain.ViewGameSelect
	s.gameID = ""
	snap := s.snapshotLocked()
	s.mu.Unlock()
	s.notify(snap)
}

// ResetProgress restores progress to its zeroed default on explicit request.
func (s *Store) ResetProgress() {
	s.mu.Lock()
	s.progress = persist.DefaultProgress()
	s.lastCompletion = nil
	s.records.SaveProgress(context.Background(), s.progress)
	snap := s.snapshotLocked()
	s.mu.Unlock()
	s.notify(snap)
}

// RankProgress reports where the user's XP sits on the rank ladder.
func (s *Store) RankProgress() progression.RankProgress {
	s.mu.Lock()
	xp := s.progress.TotalXP
	s.mu.Unlock()
	return progression.LevelProgress(xp)
}

// DailyChallengeGameID returns today's deterministically selected game.
func (s *Store) DailyChallengeGameID() string {
	return progression.DailyGameID(progression.DateString(s.now()), s.catalog)
}

// DailyChallengeCompleted reports whether today's challenge is already done.
func (s *Store) DailyChallengeCompleted() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return progression.DailyCompleted(s.progress, progression.DateString(s.now()))
}

// CategoryAccuracy returns the per-category breakdown in canonical order.
func (s *Store) CategoryAccuracy() []CategoryAccuracy {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]CategoryAccuracy, 0, len(domain.Categories()))
	for _, c := range domain.Categories() {
		stats := s.progress.CategoryStats[c]
		acc := CategoryAccuracy{
			Category: c,
			Label:    domain.CategoryLabel(c),
			Correct:  stats.Correct,
			Total:    stats.Total,
		}
		if stats.Total > 0 {
			acc.Accuracy = float64(stats.Correct) / float64(stats.Total)
		}
		out = append(out, acc)
	}
	return out
}

func (s *Store) startSessionLocked(gameID string) {
	s.discardSessionLocked()
	game, _ := s.catalog.Game(gameID)
	s.sess = session.New(game)
	s.currentGameScore = 0
	s.lastResult = domain.AnswerNone
	s.lastCompletion = nil
	s.startTimerLocked()
}

// completeSessionLocked runs accrual for the finished machine and persists
// the affected records. The countdown was already cancelled when the final
// answer was recorded.
func (s *Store) completeSessionLocked() {
	sum := s.sess.Summary()
	ctx := context.Background()
	var result progression.AccrualResult
	s.leaderboard, result = progression.ApplyCompletion(
		&s.progress, s.leaderboard, s.catalog, s.userName, sum, s.now(),
	)
	s.records.SaveProgress(ctx, s.progress)
	s.records.SaveLeaderboard(ctx, s.leaderboard)
	s.currentGameScore = sum.Score
	s.lastCompletion = &CompletionState{
		Summary:    sum,
		XPGained:   result.XPGained,
		DailyBonus: result.DailyBonus,
	}
	s.sess = nil
}

// discardSessionLocked drops a run without accrual, cancelling its timer
// first.
func (s *Store) discardSessionLocked() {
	s.cancelTimerLocked()
	if s.sess != nil {
		s.currentGameScore = s.sess.Score()
		s.sess = nil
	}
}

func (s *Store) startTimerLocked() {
	s.cancelTimerLocked()
	if s.sched == nil {
		return
	}
	runID := s.sess.RunID()
	s.cancelTimer = s.sched.Every(func() { s.tick(runID) })
}

func (s *Store) cancelTimerLocked() {
	if s.cancelTimer != nil {
		s.cancelTimer()
		s.cancelTimer = nil
	}
}

// tick is the countdown callback. Cancellation on every transition out of
// Presenting is the primary guard; the run id check catches the one callback
// that may already be in flight when its timer is cancelled.
func (s *Store) tick(runID string) {
	s.mu.Lock()
	if s.sess == nil || s.sess.RunID() != runID || s.sess.Phase() != session.PhasePresenting {
		s.mu.Unlock()
		return
	}
	if expired := s.sess.Tick(); expired {
		s.cancelTimerLocked()
		s.lastResult = s.sess.LastResult()
		s.currentGameScore = s.sess.Score()
	}
	snap := s.snapshotLocked()
	s.mu.Unlock()
	s.notify(snap)
}

func (s *Store) saveAuthLocked() {
	s.records.SaveAuth(context.Background(), domain.AuthRecord{
		IsLoggedIn: s.isLoggedIn,
		UserName:   s.userName,
	})
}

func (s *Store) snapshotLocked() State {
	snap := State{
		View:             s.view,
		GameID:           s.gameID,
		UserName:         s.userName,
		IsLoggedIn:       s.isLoggedIn,
		Progress:         cloneProgress(s.progress),
		Leaderboard:      append([]domain.LeaderboardEntry(nil), s.leaderboard...),
		CurrentGameScore: s.currentGameScore,
		LastResult:       s.lastResult,
	}
	if s.lastCompletion != nil {
		c := *s.lastCompletion
		snap.LastCompletion = &c
	}
	if s.sess != nil {
		snap.Session = &SessionState{
			GameID:         s.sess.GameID(),
			Phase:          s.sess.Phase(),
			Index:          s.sess.Index(),
			TotalQuestions: s.sess.TotalQuestions(),
			Score:          s.sess.Score(),
			CorrectCount:   s.sess.CorrectCount(),
			TimeLeft:       s.sess.TimeLeft(),
			PerfectTiming:  s.sess.PerfectTiming(),
		}
	}
	return snap
}

func (s *Store) notify(snap State) {
	s.subMu.Lock()
	subs := append([]subscriber(nil), s.subs...)
	s.subMu.Unlock()
	for _, sub := range subs {
		sub.fn(snap)
	}
}
