package ports

import "context"

// PlayerResult is one seat's outcome of a finished game.
type PlayerResult struct {
	UserID    string
	Username  string
	Place     int
	Score     int
	MoonsShot int
	IsBot     bool
}

// GameResult describes a finished game.
type GameResult struct {
	GameID  string
	Hands   int
	Players []PlayerResult
}

// ResultsPort records finished games.
type ResultsPort interface {
	// RecordGame writes leaderboard entries and updates stats for human players.
	RecordGame(ctx context.Context, result GameResult) error
}
