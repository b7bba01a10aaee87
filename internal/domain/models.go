package domain

// View identifies a presentation screen. The engine only uses it for
// navigation bookkeeping; rendering is up to the client.
type View string

const (
	ViewLogin      View = "login"
	ViewDashboard  View = "dashboard"
	ViewGameSelect View = "gameSelect"
	ViewGame       View = "game"
	ViewInsights   View = "insights"
)

// Difficulty tags a scenario for presentation purposes.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// Scenario is a single timed question inside a game.
//
// TimeLimit is the per-scenario override carried by content data; the session
// machine currently enforces a uniform limit for every question and ignores
// it. Both values stay visible so the discrepancy is testable.
type Scenario struct {
	ID           string     `json:"id"`
	Question     string     `json:"question"`
	Options      []string   `json:"options"`
	CorrectIndex int        `json:"correctIndex"`
	Explanation  string     `json:"explanation"`
	Difficulty   Difficulty `json:"difficulty"`
	TimeLimit    int        `json:"timeLimit,omitempty"`
}

// GameDefinition is an immutable mini-game: an ordered list of scenarios
// under one category. Owned by the catalog, never mutated at runtime.
type GameDefinition struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Icon        string     `json:"icon"`
	Category    Category   `json:"category"`
	Scenarios   []Scenario `json:"scenarios"`
}

// Badge is a one-way achievement flag. EarnedAt is a unix-millisecond
// timestamp; zero means locked. Once set it is never cleared or overwritten.
type Badge struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
	EarnedAt    int64  `json:"earnedAt,omitempty"`
}

// LeaderboardEntry is one completed round on the local leaderboard.
type LeaderboardEntry struct {
	Name  string `json:"name"`
	Score int    `json:"score"`
	Date  int64  `json:"date"`
}

// CategoryStats counts correct answers against questions seen per category.
type CategoryStats struct {
	Correct int `json:"correct"`
	Total   int `json:"total"`
}

// UserProgress is the durable aggregate of one user's lifetime activity.
// Total score, total XP, high scores, and category totals only increase.
type UserProgress struct {
	TotalScore       int                        `json:"totalScore"`
	TotalXP          int                        `json:"totalXP"`
	GamesPlayed      int                        `json:"gamesPlayed"`
	Badges           []Badge                    `json:"badges"`
	LastPlayed       int64                      `json:"lastPlayed"`
	HighScores       map[string]int             `json:"highScores"`
	CategoryStats    map[Category]CategoryStats `json:"categoryStats"`
	DailyCompletedAt string                     `json:"dailyCompletedAt,omitempty"`
}

// AuthRecord is the persisted login state. There is no real authentication,
// just a display name.
type AuthRecord struct {
	IsLoggedIn bool   `json:"isLoggedIn"`
	UserName   string `json:"userName"`
}

// RankLevel is one tier on the fixed ascending XP ladder.
type RankLevel struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	MinXP int    `json:"minXP"`
	Icon  string `json:"icon"`
	Color string `json:"color"`
}

// AnswerResult tags the outcome of the most recent submission.
type AnswerResult string

const (
	AnswerNone    AnswerResult = ""
	AnswerCorrect AnswerResult = "correct"
	AnswerWrong   AnswerResult = "wrong"
)

// SessionSummary is the hand-off from a completed session to the
// progression engine.
type SessionSummary struct {
	GameID         string `json:"gameId"`
	Score          int    `json:"score"`
	TotalQuestions int    `json:"totalQuestions"`
	CorrectCount   int    `json:"correctCount"`
	PerfectTiming  bool   `json:"perfectTiming"`
}
