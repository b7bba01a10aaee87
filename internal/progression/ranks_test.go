package progression

import "testing"

func TestRankForXPIsMonotonic(t *testing.T) {
	prev := RankForXP(0)
	for xp := 0; xp <= 1500; xp++ {
		rank := RankForXP(xp)
		if rank.MinXP < prev.MinXP {
			t.Fatalf("rank regressed at xp=%d: %s -> %s", xp, prev.ID, rank.ID)
		}
		prev = rank
	}
}

func TestRankForXPAtThresholds(t *testing.T) {
	for _, rank := range RankLevels {
		if got := RankForXP(rank.MinXP); got.ID != rank.ID {
			t.Fatalf("RankForXP(%d) = %s, want %s", rank.MinXP, got.ID, rank.ID)
		}
	}
	if got := RankForXP(RankLevels[1].MinXP - 1); got.ID != "rookie" {
		t.Fatalf("expected rookie just below defender threshold, got %s", got.ID)
	}
}

func TestNextRank(t *testing.T) {
	next, ok := NextRank(0)
	if !ok || next.ID != "defender" {
		t.Fatalf("expected defender after rookie, got %+v ok=%v", next, ok)
	}
	if _, ok := NextRank(5000); ok {
		t.Fatalf("expected no rank above the top of the ladder")
	}
}

func TestLevelProgress(t *testing.T) {
	p := LevelProgress(0)
	if p.Current.ID != "rookie" || p.Progress != 0 {
		t.Fatalf("expected fresh rookie at 0 progress, got %+v", p)
	}

	p = LevelProgress(50)
	if p.Progress != 0.5 {
		t.Fatalf("expected halfway to defender, got %v", p.Progress)
	}
	if p.Next == nil || p.Next.ID != "defender" {
		t.Fatalf("expected next rank defender, got %+v", p.Next)
	}

	p = LevelProgress(2000)
	if p.Current.ID != "expert" || p.Next != nil || p.Progress != 1 {
		t.Fatalf("expected completed ladder at top rank, got %+v", p)
	}
}
