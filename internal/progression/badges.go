package progression

import (
	"time"

	"cyberaware/internal/domain"
)

// BadgeCatalog returns the fixed, ordered badge definitions, all unearned.
// A user's badge list always holds exactly one record per entry here;
// persistence reconciles stored lists against this set.
func BadgeCatalog() []domain.Badge {
	return []domain.Badge{
		{ID: "first-game", Name: "First Steps", Description: "Complete your first game", Icon: "🎮"},
		{ID: "score-100", Name: "Century", Description: "Reach 100 total points", Icon: "💯"},
		{ID: "score-500", Name: "Cyber Scout", Description: "Reach 500 total points", Icon: "⭐"},
		{ID: "perfect-round", Name: "Perfect Round", Description: "Answer all questions correctly in one game", Icon: "🏆"},
		{ID: "speed-demon", Name: "Quick Thinker", Description: "Complete a scenario with 5+ seconds left", Icon: "⚡"},
		{ID: "three-games", Name: "Triple Threat", Description: "Play 3 different games", Icon: "🎯"},
		{ID: "daily", Name: "Daily Defender", Description: "Complete the daily challenge", Icon: "📅"},
		{ID: "level-defender", Name: "Defender", Description: "Reach Defender rank", Icon: "🛡️"},
		{ID: "level-guardian", Name: "Guardian", Description: "Reach Guardian rank", Icon: "⚔️"},
		{ID: "level-expert", Name: "Cyber Expert", Description: "Reach Cyber Expert rank", Icon: "👑"},
		{ID: "all-categories", Name: "All-Rounder", Description: "Play at least one game in every category", Icon: "🌟"},
	}
}

// EvaluateBadges awards every badge whose condition holds, using
// earn-if-unearned semantics only: an EarnedAt already set is never touched.
// It must run after all counters for the session have been applied.
func EvaluateBadges(p *domain.UserProgress, sum domain.SessionSummary, now time.Time) {
	earn := func(id string) {
		for i := range p.Badges {
			if p.Badges[i].ID == id && p.Badges[i].EarnedAt == 0 {
				p.Badges[i].EarnedAt = now.UnixMilli()
			}
		}
	}

	if p.GamesPlayed >= 1 {
		earn("first-game")
	}
	if p.TotalScore >= 100 {
		earn("score-100")
	}
	if p.TotalScore >= 500 {
		earn("score-500")
	}
	if sum.TotalQuestions > 0 && sum.Score >= sum.TotalQuestions*PointsPerCorrect {
		earn("perfect-round")
	}
	if sum.PerfectTiming {
		earn("speed-demon")
	}
	if len(p.HighScores) >= 3 {
		earn("three-games")
	}
	if p.DailyCompletedAt != "" {
		earn("daily")
	}
	switch RankForXP(p.TotalXP).ID {
	case "defender":
		earn("level-defender")
	case "guardian":
		earn("level-guardian")
	case "expert":
		earn("level-expert")
	}
	played := 0
	for _, c := range domain.Categories() {
		if p.CategoryStats[c].Total > 0 {
			played++
		}
	}
	if played == len(domain.Categories()) {
		earn("all-categories")
	}
}
