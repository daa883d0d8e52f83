package ports

import "context"

// PlayerStats is the per-user Hearts record kept in storage.
type PlayerStats struct {
	GamesPlayed int `json:"games_played"`
	GamesWon    int `json:"games_won"`
	TotalPoints int `json:"total_points"`
	BestScore   int `json:"best_score"`
	MoonsShot   int `json:"moons_shot"`
}

// StatsPort creates and reads per-user stats.
type StatsPort interface {
	// InitStatsOnce creates an empty stats record.
	// Returns created=false when the record already existed.
	InitStatsOnce(ctx context.Context, userID string) (bool, error)
	// GetStats returns the stored record, or a zero record when none exists.
	GetStats(ctx context.Context, userID string) (PlayerStats, error)
}
