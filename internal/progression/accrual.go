package progression

import (
	"sort"
	"time"

	"cyberaware/internal/domain"
)

const (
	// PointsPerCorrect is the score awarded for one correct answer.
	PointsPerCorrect = 10
	// XPPerCorrect is the XP awarded per correct answer on completion.
	XPPerCorrect = 10
	// DailyBonusXP is the one-per-day bonus for finishing the daily challenge.
	DailyBonusXP = 25
	// LeaderboardSize caps the durable leaderboard.
	LeaderboardSize = 10
)

// AccrualResult reports what a completed session earned, for display.
type AccrualResult struct {
	XPGained   int  `json:"xpGained"`
	DailyBonus bool `json:"dailyBonus"`
}

// ApplyCompletion folds a finished session into the user's progress and the
// leaderboard. Counters only move up; replaying the daily challenge on the
// same date never re-awards the bonus. The returned leaderboard is sorted
// descending by score (stable, so ties keep their existing order) and capped.
func ApplyCompletion(
	p *domain.UserProgress,
	leaderboard []domain.LeaderboardEntry,
	cat domain.Catalog,
	userName string,
	sum domain.SessionSummary,
	now time.Time,
) ([]domain.LeaderboardEntry, AccrualResult) {
	today := DateString(now)

	p.TotalScore += sum.Score

	xpGained := sum.CorrectCount * XPPerCorrect
	isDaily := DailyGameID(today, cat) == sum.GameID
	awardBonus := isDaily && p.DailyCompletedAt != today
	if awardBonus {
		xpGained += DailyBonusXP
	}
	p.TotalXP += xpGained
	p.GamesPlayed++
	p.LastPlayed = now.UnixMilli()

	if p.HighScores == nil {
		p.HighScores = make(map[string]int)
	}
	if existing, ok := p.HighScores[sum.GameID]; !ok || sum.Score > existing {
		p.HighScores[sum.GameID] = sum.Score
	}

	if game, ok := cat.Game(sum.GameID); ok {
		if stats, known := p.CategoryStats[game.Category]; known {
			stats.Correct += sum.CorrectCount
			stats.Total += sum.TotalQuestions
			p.CategoryStats[game.Category] = stats
		}
	}

	if awardBonus {
		p.DailyCompletedAt = today
	}

	leaderboard = append(leaderboard, domain.LeaderboardEntry{
		Name:  userName,
		Score: sum.Score,
		Date:  now.UnixMilli(),
	})
	leaderboard = CapLeaderboard(leaderboard)

	EvaluateBadges(p, sum, now)

	return leaderboard, AccrualResult{XPGained: xpGained, DailyBonus: awardBonus}
}

// CapLeaderboard sorts entries descending by score and truncates to the cap.
// The sort is stable: equal scores keep their existing order.
func CapLeaderboard(entries []domain.LeaderboardEntry) []domain.LeaderboardEntry {
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Score > entries[j].Score
	})
	if len(entries) > LeaderboardSize {
		entries = entries[:LeaderboardSize]
	}
	return entries
}
