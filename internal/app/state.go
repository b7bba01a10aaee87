package app

import (
	"cyberaware/internal/domain"
	"cyberaware/internal/session"
)

// State is a read-only snapshot of the application. Subscribers and State()
// callers receive value copies; mutating one has no effect on the store.
type State struct {
	View             domain.View               `json:"view"`
	GameID           string                    `json:"gameId,omitempty"`
	UserName         string                    `json:"userName"`
	IsLoggedIn       bool                      `json:"isLoggedIn"`
	Progress         domain.UserProgress       `json:"progress"`
	Leaderboard      []domain.LeaderboardEntry `json:"leaderboard"`
	CurrentGameScore int                       `json:"currentGameScore"`
	LastResult       domain.AnswerResult       `json:"lastResult,omitempty"`
	Session          *SessionState             `json:"session,omitempty"`
	LastCompletion   *CompletionState          `json:"lastCompletion,omitempty"`
}

// SessionState mirrors the in-progress run for rendering.
type SessionState struct {
	GameID         string        `json:"gameId"`
	Phase          session.Phase `json:"phase"`
	Index          int           `json:"index"`
	TotalQuestions int           `json:"totalQuestions"`
	Score          int           `json:"score"`
	CorrectCount   int           `json:"correctCount"`
	TimeLeft       int           `json:"timeLeft"`
	PerfectTiming  bool          `json:"perfectTiming"`
}

// CompletionState describes the most recently finished session, including
// what accrual awarded, so the result screen can show the daily bonus.
type CompletionState struct {
	Summary    domain.SessionSummary `json:"summary"`
	XPGained   int                   `json:"xpGained"`
	DailyBonus bool                  `json:"dailyBonus"`
}

// CategoryAccuracy is the per-category breakdown behind the insights view.
type CategoryAccuracy struct {
	Category domain.Category `json:"category"`
	Label    string          `json:"label"`
	Correct  int             `json:"correct"`
	Total    int             `json:"total"`
	Accuracy float64         `json:"accuracy"`
}

func cloneProgress(p domain.UserProgress) domain.UserProgress {
	out := p
	out.Badges = append([]domain.Badge(nil), p.Badges...)
	out.HighScores = make(map[string]int, len(p.HighScores))
	for k, v := range p.HighScores {
		out.HighScores[k] = v
	}
	out.CategoryStats = make(map[domain.Category]domain.CategoryStats, len(p.CategoryStats))
	for k, v := range p.CategoryStats {
		out.CategoryStats[k] = v
	}
	return out
}
