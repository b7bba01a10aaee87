package app_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"cyberaware/internal/app"
	"cyberaware/internal/domain"
	"cyberaware/internal/infra/memory"
	"cyberaware/internal/persist"
	"cyberaware/internal/progression"
	"cyberaware/internal/session"
)

// manualScheduler hands the countdown callback to the test, which fires
// ticks explicitly.
type manualScheduler struct {
	fn      func()
	cancels int
}

func (m *manualScheduler) Every(fn func()) (cancel func()) {
	m.fn = fn
	return func() {
		m.cancels++
		m.fn = nil
	}
}

func (m *manualScheduler) fire(t *testing.T) {
	t.Helper()
	if m.fn == nil {
		t.Fatalf("no countdown running")
	}
	m.fn()
}

func testCatalog() domain.Catalog {
	return domain.NewCatalog([]domain.GameDefinition{
		{
			ID:       "phishing",
			Category: domain.CategoryPhishing,
			Scenarios: []domain.Scenario{
				{ID: "q1", Options: []string{"a", "b"}, CorrectIndex: 0},
				{ID: "q2", Options: []string{"a", "b", "c"}, CorrectIndex: 2},
			},
		},
		{
			ID:       "url",
			Category: domain.CategoryURLs,
			Scenarios: []domain.Scenario{
				{ID: "q1", Options: []string{"a", "b"}, CorrectIndex: 1},
			},
		},
	})
}

func newTestStore(t *testing.T) (*app.Store, *manualScheduler, *persist.Store) {
	t.Helper()
	records := persist.NewStore(memory.NewKV())
	sched := &manualScheduler{}
	now := time.Date(2025, time.April, 10, 12, 0, 0, 0, time.UTC)
	store := app.NewStore(records, testCatalog(), sched, func() time.Time { return now })
	return store, sched, records
}

func TestInitialStateLoggedOut(t *testing.T) {
	store, _, _ := newTestStore(t)
	st := store.State()
	if st.View != domain.ViewLogin || st.IsLoggedIn {
		t.Fatalf("fresh state: %+v", st)
	}
	if st.UserName != persist.DefaultUserName {
		t.Fatalf("user name: %q", st.UserName)
	}
	if st.Session != nil {
		t.Fatalf("fresh state has a session")
	}
}

func TestLoginDefaultsBlankName(t *testing.T) {
	store, _, records := newTestStore(t)

	store.Login("   ")
	st := store.State()
	if !st.IsLoggedIn || st.View != domain.ViewDashboard {
		t.Fatalf("after login: %+v", st)
	}
	if st.UserName != persist.DefaultUserName {
		t.Fatalf("blank name must default: %q", st.UserName)
	}

	// Login state survives a restart through the auth record.
	auth := records.LoadAuth(context.Background())
	if !auth.IsLoggedIn || auth.UserName != persist.DefaultUserName {
		t.Fatalf("persisted auth: %+v", auth)
	}
}

func TestNewStoreResumesLoggedInUser(t *testing.T) {
	records := persist.NewStore(memory.NewKV())
	records.SaveAuth(context.Background(), domain.AuthRecord{IsLoggedIn: true, UserName: "Alice"})

	store := app.NewStore(records, testCatalog(), &manualScheduler{}, nil)
	st := store.State()
	if st.View != domain.ViewDashboard || st.UserName != "Alice" {
		t.Fatalf("resumed state: %+v", st)
	}
}

func TestNavigateGameFallbacks(t *testing.T) {
	store, _, _ := newTestStore(t)
	store.Login("Alice")

	store.Navigate(domain.ViewGame, "")
	if st := store.State(); st.View != domain.ViewDashboard || st.Session != nil {
		t.Fatalf("missing id: %+v", st)
	}

	store.Navigate(domain.ViewGame, "no-such-game")
	if st := store.State(); st.View != domain.ViewGameSelect || st.Session != nil {
		t.Fatalf("unknown id: %+v", st)
	}
}

func TestNavigateGameStartsSession(t *testing.T) {
	store, sched, _ := newTestStore(t)
	store.Login("Alice")

	store.Navigate(domain.ViewGame, "phishing")
	st := store.State()
	if st.View != domain.ViewGame || st.GameID != "phishing" {
		t.Fatalf("view: %+v", st)
	}
	if st.Session == nil {
		t.Fatalf("no session started")
	}
	if st.Session.Phase != session.PhasePresenting || st.Session.TimeLeft != session.QuestionTimeLimit {
		t.Fatalf("session: %+v", st.Session)
	}
	if sched.fn == nil {
		t.Fatalf("countdown not running")
	}

	// Navigating away discards the run and stops the countdown.
	store.Navigate(domain.ViewDashboard, "")
	if st := store.State(); st.Session != nil {
		t.Fatalf("session survived navigation: %+v", st.Session)
	}
	if sched.fn != nil {
		t.Fatalf("countdown still running after navigation")
	}
}

func TestAnswerFlowToCompletion(t *testing.T) {
	store, sched, _ := newTestStore(t)
	store.Login("Alice")
	store.Navigate(domain.ViewGame, "phishing")

	res, err := store.SubmitAnswer(0)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if res != domain.AnswerCorrect {
		t.Fatalf("result: %s", res)
	}
	if sched.fn != nil {
		t.Fatalf("countdown must stop when the answer lands")
	}
	st := store.State()
	if st.LastResult != domain.AnswerCorrect || st.CurrentGameScore != progression.PointsPerCorrect {
		t.Fatalf("after answer: result=%s score=%d", st.LastResult, st.CurrentGameScore)
	}

	if err := store.AdvanceQuestion(); err != nil {
		t.Fatalf("advance: %v", err)
	}
	if sched.fn == nil {
		t.Fatalf("countdown must restart for the next question")
	}

	if _, err := store.SubmitAnswer(1); err != nil { // wrong
		t.Fatalf("submit: %v", err)
	}
	if err := store.AdvanceQuestion(); err != nil {
		t.Fatalf("final advance: %v", err)
	}

	st = store.State()
	if st.Session != nil {
		t.Fatalf("session must clear on completion")
	}
	if st.LastCompletion == nil {
		t.Fatalf("completion state missing")
	}
	sum := st.LastCompletion.Summary
	if sum.Score != progression.PointsPerCorrect || sum.CorrectCount != 1 || sum.TotalQuestions != 2 {
		t.Fatalf("summary: %+v", sum)
	}
	if st.Progress.GamesPlayed != 1 || st.Progress.TotalScore != progression.PointsPerCorrect {
		t.Fatalf("progress: %+v", st.Progress)
	}
	if len(st.Leaderboard) != 1 || st.Leaderboard[0].Name != "Alice" {
		t.Fatalf("leaderboard: %+v", st.Leaderboard)
	}
}

func TestCompletionPersists(t *testing.T) {
	store, _, records := newTestStore(t)
	store.Login("Alice")
	store.Navigate(domain.ViewGame, "url")

	if _, err := store.SubmitAnswer(1); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if err := store.AdvanceQuestion(); err != nil {
		t.Fatalf("advance: %v", err)
	}

	p := records.LoadProgress(context.Background())
	if p.GamesPlayed != 1 || p.HighScores["url"] != progression.PointsPerCorrect {
		t.Fatalf("persisted progress: %+v", p)
	}
	lb := records.LoadLeaderboard(context.Background())
	if len(lb) != 1 || lb[0].Score != progression.PointsPerCorrect {
		t.Fatalf("persisted leaderboard: %+v", lb)
	}
}

func TestDailyBonusAwardedOnce(t *testing.T) {
	store, _, _ := newTestStore(t)
	store.Login("Alice")

	daily := store.DailyChallengeGameID()
	if daily == "" {
		t.Fatalf("no daily game")
	}
	if store.DailyChallengeCompleted() {
		t.Fatalf("daily marked complete before playing")
	}

	playThrough := func() *app.CompletionState {
		store.Navigate(domain.ViewGame, daily)
		for store.State().Session != nil {
			if _, err := store.SubmitAnswer(0); err != nil {
				t.Fatalf("submit: %v", err)
			}
			if err := store.AdvanceQuestion(); err != nil {
				t.Fatalf("advance: %v", err)
			}
		}
		return store.State().LastCompletion
	}

	first := playThrough()
	if first == nil || !first.DailyBonus {
		t.Fatalf("first daily run: %+v", first)
	}
	if !store.DailyChallengeCompleted() {
		t.Fatalf("daily not marked complete")
	}

	second := playThrough()
	if second == nil || second.DailyBonus {
		t.Fatalf("bonus re-awarded on the same date: %+v", second)
	}
}

func TestCountdownExpiryForcesTimeout(t *testing.T) {
	store, sched, _ := newTestStore(t)
	store.Login("Alice")
	store.Navigate(domain.ViewGame, "phishing")

	for i := 0; i < session.QuestionTimeLimit; i++ {
		sched.fire(t)
	}

	st := store.State()
	if st.Session == nil || st.Session.Phase != session.PhaseAnswered {
		t.Fatalf("after expiry: %+v", st.Session)
	}
	if st.LastResult != domain.AnswerWrong || st.Session.Score != 0 {
		t.Fatalf("timeout outcome: result=%s score=%d", st.LastResult, st.Session.Score)
	}
	if sched.fn != nil {
		t.Fatalf("countdown still running after expiry")
	}
}

func TestStaleTickIsIgnored(t *testing.T) {
	store, sched, _ := newTestStore(t)
	store.Login("Alice")
	store.Navigate(domain.ViewGame, "phishing")

	stale := sched.fn
	// A new run replaces the countdown; the old callback may still be in
	// flight and must not touch the new session.
	store.Navigate(domain.ViewGame, "phishing")

	stale()
	if st := store.State(); st.Session.TimeLeft != session.QuestionTimeLimit {
		t.Fatalf("stale tick moved the new countdown: %d", st.Session.TimeLeft)
	}

	sched.fire(t)
	if st := store.State(); st.Session.TimeLeft != session.QuestionTimeLimit-1 {
		t.Fatalf("live tick lost: %d", st.Session.TimeLeft)
	}
}

func TestQuitDiscardsWithoutAccrual(t *testing.T) {
	store, sched, records := newTestStore(t)
	store.Login("Alice")
	store.Navigate(domain.ViewGame, "phishing")

	if _, err := store.SubmitAnswer(0); err != nil {
		t.Fatalf("submit: %v", err)
	}
	store.QuitSession()

	st := store.State()
	if st.View != domain.ViewGameSelect || st.Session != nil {
		t.Fatalf("after quit: %+v", st)
	}
	// The abandoned run's score stays visible, but nothing durable moved.
	if st.CurrentGameScore != progression.PointsPerCorrect {
		t.Fatalf("running score lost: %d", st.CurrentGameScore)
	}
	if st.Progress.GamesPlayed != 0 || st.Progress.TotalScore != 0 {
		t.Fatalf("quit accrued progress: %+v", st.Progress)
	}
	if p := records.LoadProgress(context.Background()); p.GamesPlayed != 0 {
		t.Fatalf("quit persisted progress: %+v", p)
	}
	if sched.fn != nil {
		t.Fatalf("countdown still running after quit")
	}
}

func TestSubmitWithoutSession(t *testing.T) {
	store, _, _ := newTestStore(t)
	store.Login("Alice")

	if _, err := store.SubmitAnswer(0); !errors.Is(err, domain.ErrNoActiveSession) {
		t.Fatalf("submit without session: %v", err)
	}
	if err := store.AdvanceQuestion(); !errors.Is(err, domain.ErrNoActiveSession) {
		t.Fatalf("advance without session: %v", err)
	}
}

func TestSubmitOptionOutOfRange(t *testing.T) {
	store, sched, _ := newTestStore(t)
	store.Login("Alice")
	store.Navigate(domain.ViewGame, "phishing")

	if _, err := store.SubmitAnswer(5); !errors.Is(err, domain.ErrOptionOutOfRange) {
		t.Fatalf("out of range: %v", err)
	}
	// The rejected submit must not have cancelled the countdown.
	if sched.fn == nil {
		t.Fatalf("countdown stopped by rejected answer")
	}
}

func TestResetProgress(t *testing.T) {
	store, _, records := newTestStore(t)
	store.Login("Alice")
	store.Navigate(domain.ViewGame, "url")
	if _, err := store.SubmitAnswer(1); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if err := store.AdvanceQuestion(); err != nil {
		t.Fatalf("advance: %v", err)
	}

	store.ResetProgress()
	st := store.State()
	if st.Progress.TotalScore != 0 || st.Progress.GamesPlayed != 0 {
		t.Fatalf("reset progress: %+v", st.Progress)
	}
	if st.LastCompletion != nil {
		t.Fatalf("completion survived reset")
	}
	if p := records.LoadProgress(context.Background()); p.TotalScore != 0 {
		t.Fatalf("reset not persisted: %+v", p)
	}
}

func TestSubscribersNotifiedInOrder(t *testing.T) {
	store, _, _ := newTestStore(t)

	var order []int
	unsubA := store.Subscribe(func(app.State) { order = append(order, 1) })
	defer unsubA()
	unsubB := store.Subscribe(func(app.State) { order = append(order, 2) })

	store.Login("Alice")
	if len(order) != 2 || order[0] != 1 || order[1] != 2 {
		t.Fatalf("notification order: %v", order)
	}

	unsubB()
	order = nil
	store.Logout()
	if len(order) != 1 || order[0] != 1 {
		t.Fatalf("after unsubscribe: %v", order)
	}
}

func TestCategoryAccuracy(t *testing.T) {
	store, _, _ := newTestStore(t)
	store.Login("Alice")
	store.Navigate(domain.ViewGame, "url")
	if _, err := store.SubmitAnswer(1); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if err := store.AdvanceQuestion(); err != nil {
		t.Fatalf("advance: %v", err)
	}

	breakdown := store.CategoryAccuracy()
	if len(breakdown) != len(domain.Categories()) {
		t.Fatalf("breakdown size: %d", len(breakdown))
	}
	for _, acc := range breakdown {
		if acc.Category == domain.CategoryURLs {
			if acc.Correct != 1 || acc.Total != 1 || acc.Accuracy != 1 {
				t.Fatalf("url accuracy: %+v", acc)
			}
		} else if acc.Total != 0 || acc.Accuracy != 0 {
			t.Fatalf("untouched category: %+v", acc)
		}
	}
}

func TestRankProgress(t *testing.T) {
	store, _, _ := newTestStore(t)
	rp := store.RankProgress()
	if rp.Current.ID != "rookie" {
		t.Fatalf("fresh rank: %+v", rp.Current)
	}
}
