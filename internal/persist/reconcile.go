package persist

import (
	"encoding/json"

	"cyberaware/internal/domain"
	"cyberaware/internal/progression"
)

// storedProgress is the loosely-shaped on-disk form. Pointer fields tell an
// absent value apart from a zero so legacy records can be migrated
// field-by-field instead of trusted wholesale.
type storedProgress struct {
	TotalScore       *int                                     `json:"totalScore"`
	TotalXP          *int                                     `json:"totalXP"`
	GamesPlayed      *int                                     `json:"gamesPlayed"`
	Badges           []domain.Badge                           `json:"badges"`
	LastPlayed       *int64                                   `json:"lastPlayed"`
	HighScores       map[string]int                           `json:"highScores"`
	CategoryStats    map[domain.Category]domain.CategoryStats `json:"categoryStats"`
	DailyCompletedAt string                                   `json:"dailyCompletedAt"`
}

// decodeProgress validates the raw record shape and reconciles schema drift:
// badges missing from the stored list are added unearned, absent category
// counters are zeroed in, and a record predating XP gets its XP seeded from
// its score. Any parse or shape failure yields the full default instead.
func decodeProgress(raw []byte) domain.UserProgress {
	var stored storedProgress
	if err := json.Unmarshal(raw, &stored); err != nil {
		return DefaultProgress()
	}

	p := DefaultProgress()
	if stored.TotalScore != nil && *stored.TotalScore > 0 {
		p.TotalScore = *stored.TotalScore
	}
	if stored.TotalXP != nil {
		if *stored.TotalXP > 0 {
			p.TotalXP = *stored.TotalXP
		}
	} else {
		// One-time migration: records written before XP existed carry
		// score only.
		p.TotalXP = p.TotalScore
	}
	if stored.GamesPlayed != nil && *stored.GamesPlayed > 0 {
		p.GamesPlayed = *stored.GamesPlayed
	}
	if stored.LastPlayed != nil && *stored.LastPlayed > 0 {
		p.LastPlayed = *stored.LastPlayed
	}
	for id, score := range stored.HighScores {
		if score < 0 {
			score = 0
		}
		p.HighScores[id] = score
	}
	for c, stats := range stored.CategoryStats {
		if _, known := p.CategoryStats[c]; known && stats.Correct >= 0 && stats.Total >= 0 {
			p.CategoryStats[c] = stats
		}
	}
	p.DailyCompletedAt = stored.DailyCompletedAt
	p.Badges = mergeBadges(stored.Badges)
	return p
}

// mergeBadges produces exactly one record per catalog entry, in catalog
// order. Earned timestamps survive; names, descriptions, and icons always
// come from the current catalog, and stored badges with unknown ids drop out.
func mergeBadges(stored []domain.Badge) []domain.Badge {
	earned := make(map[string]int64, len(stored))
	for _, b := range stored {
		if b.EarnedAt > 0 {
			earned[b.ID] = b.EarnedAt
		}
	}
	badges := progression.BadgeCatalog()
	for i := range badges {
		if at, ok := earned[badges[i].ID]; ok {
			badges[i].EarnedAt = at
		}
	}
	return badges
}
