// Package progression holds the pure rules that turn session results into
// durable progress: XP and ranks, the daily challenge, badge awards, and the
// leaderboard ordering.
package progression

import "cyberaware/internal/domain"

// RankLevels is the fixed ladder, ascending by MinXP starting at zero.
var RankLevels = []domain.RankLevel{
	{ID: "rookie", Name: "Rookie", MinXP: 0, Icon: "🌱", Color: "#94a3b8"},
	{ID: "defender", Name: "Defender", MinXP: 100, Icon: "🛡️", Color: "#34d399"},
	{ID: "guardian", Name: "Guardian", MinXP: 300, Icon: "⚔️", Color: "#22d3ee"},
	{ID: "sentinel", Name: "Sentinel", MinXP: 600, Icon: "🔰", Color: "#a78bfa"},
	{ID: "expert", Name: "Cyber Expert", MinXP: 1000, Icon: "👑", Color: "#fbbf24"},
}

// RankForXP returns the highest rank whose threshold the XP meets. The ladder
// is scanned in ascending order keeping the last qualifying entry, so equal
// thresholds resolve to the later-defined rank.
func RankForXP(xp int) domain.RankLevel {
	current := RankLevels[0]
	for _, rank := range RankLevels {
		if xp >= rank.MinXP {
			current = rank
		}
	}
	return current
}

// NextRank returns the ladder entry after the current one, or false at the top.
func NextRank(xp int) (domain.RankLevel, bool) {
	current := RankForXP(xp)
	for i, rank := range RankLevels {
		if rank.ID == current.ID && i < len(RankLevels)-1 {
			return RankLevels[i+1], true
		}
	}
	return domain.RankLevel{}, false
}

// RankProgress describes where an XP total sits on the ladder. Progress is
// the fraction toward the next rank, clamped to [0,1]; it is exactly 1 at the
// top rank.
type RankProgress struct {
	Current  domain.RankLevel  `json:"current"`
	Next     *domain.RankLevel `json:"next,omitempty"`
	Progress float64           `json:"progress"`
}

func LevelProgress(xp int) RankProgress {
	current := RankForXP(xp)
	next, ok := NextRank(xp)
	if !ok {
		return RankProgress{Current: current, Progress: 1}
	}
	progress := float64(xp-current.MinXP) / float64(next.MinXP-current.MinXP)
	if progress > 1 {
		progress = 1
	}
	if progress < 0 {
		progress = 0
	}
	return RankProgress{Current: current, Next: &next, Progress: progress}
}
