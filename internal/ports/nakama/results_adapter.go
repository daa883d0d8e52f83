package nakama

import (
	"context"
	"errors"
	"fmt"

	"github.com/heroiclabs/nakama-common/api"
	"github.com/heroiclabs/nakama-common/runtime"

	"hearts/internal/ports"
)

// LeaderboardModule is the subset of runtime.NakamaModule used to record wins.
type LeaderboardModule interface {
	LeaderboardRecordWrite(ctx context.Context, id, ownerID, username string, score, subscore int64, metadata map[string]interface{}, overrideOperator *int) (*api.LeaderboardRecord, error)
}

// NakamaResultsAdapter records finished games on the wins leaderboard and in per-user stats.
type NakamaResultsAdapter struct {
	leaderboard   LeaderboardModule
	leaderboardID string
	stats         *NakamaStatsAdapter
}

// NewNakamaResultsAdapter creates a results adapter backed by nk.
func NewNakamaResultsAdapter(nk runtime.NakamaModule, leaderboardID string) *NakamaResultsAdapter {
	return newResultsAdapter(nk, nk, leaderboardID)
}

func newResultsAdapter(leaderboard LeaderboardModule, storage StorageModule, leaderboardID string) *NakamaResultsAdapter {
	return &NakamaResultsAdapter{
		leaderboard:   leaderboard,
		leaderboardID: leaderboardID,
		stats:         NewNakamaStatsAdapter(storage),
	}
}

// RecordGame writes a leaderboard record and updates stats for every human.
// Bots are skipped. Every player is attempted; failures are joined.
func (a *NakamaResultsAdapter) RecordGame(ctx context.Context, result ports.GameResult) error {
	var errs []error
	for _, p := range result.Players {
		if p.IsBot || p.UserID == "" {
			continue
		}

		won := p.Place == 1
		var wins int64
		if won {
			wins = 1
		}
		metadata := map[string]interface{}{
			"game_id": result.GameID,
			"score":   p.Score,
			"place":   p.Place,
		}
		if _, err := a.leaderboard.LeaderboardRecordWrite(ctx, a.leaderboardID, p.UserID, p.Username, wins, 0, metadata, nil); err != nil {
			errs = append(errs, fmt.Errorf("leaderboard write for %s: %w", p.UserID, err))
		}

		err := a.stats.Update(ctx, p.UserID, func(s *ports.PlayerStats) {
			s.GamesPlayed++
			if won {
				s.GamesWon++
			}
			s.TotalPoints += p.Score
			if s.GamesPlayed == 1 || p.Score < s.BestScore {
				s.BestScore = p.Score
			}
			s.MoonsShot += p.MoonsShot
		})
		if err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

var _ ports.ResultsPort = (*NakamaResultsAdapter)(nil)
