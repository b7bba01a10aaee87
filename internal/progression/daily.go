package progression

import (
	"fmt"
	"time"

	"cyberaware/internal/domain"
)

// DateString formats a local calendar date as zero-padded YYYY-MM-DD. It is
// the sole key for daily-challenge selection and completion tracking.
func DateString(t time.Time) string {
	return fmt.Sprintf("%04d-%02d-%02d", t.Year(), int(t.Month()), t.Day())
}

// DailyIndex folds the date string into a 32-bit accumulator and maps it onto
// n games. The fold must stay bit-for-bit stable across releases: the same
// date has to pick the same game on every machine without coordination.
func DailyIndex(date string, n int) int {
	if n <= 0 {
		return 0
	}
	var h int32
	for _, c := range []byte(date) {
		h = (h << 5) - h + int32(c)
	}
	abs := int64(h)
	if abs < 0 {
		abs = -abs
	}
	return int(abs % int64(n))
}

// DailyGameID picks the daily-challenge game for a date from the catalog's
// fixed ordering.
func DailyGameID(date string, cat domain.Catalog) string {
	games := cat.Games()
	if len(games) == 0 {
		return ""
	}
	return games[DailyIndex(date, len(games))].ID
}

// DailyCompleted reports whether the stored completion date is the given day.
func DailyCompleted(p domain.UserProgress, date string) bool {
	return p.DailyCompletedAt == date
}
