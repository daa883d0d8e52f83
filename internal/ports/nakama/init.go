package nakama

import (
	"context"
	"database/sql"

	"github.com/heroiclabs/nakama-common/runtime"

	"hearts/internal/bot"
	"hearts/internal/config"
)

// InitModule wires config, bots, the leaderboard, RPCs and the match handler.
func InitModule(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, initializer runtime.Initializer) error {
	if err := config.LoadGameConfig(gameConfigPath); err != nil {
		logger.Warn("InitModule: Using default game config: %v", err)
	}
	if err := bot.LoadIdentities(botIdentitiesPath); err != nil {
		logger.Warn("InitModule: Using synthetic bot identities: %v", err)
	} else {
		bot.ProvisionBots(ctx, nk, logger)
	}

	leaderboardID := config.GetGameConfig().Leaderboard()
	if err := nk.LeaderboardCreate(ctx, leaderboardID, true, "desc", "incr", "", nil, false); err != nil {
		logger.Error("InitModule: Failed to create leaderboard %s: %v", leaderboardID, err)
		return err
	}

	if err := RegisterRPCs(initializer); err != nil {
		return err
	}

	if err := initializer.RegisterMatch(MatchNameHearts, NewMatch); err != nil {
		return err
	}

	if err := initializer.RegisterAfterAuthenticateDevice(AfterAuthenticateDevice); err != nil {
		return err
	}

	logger.Info("Hearts Go module loaded.")
	return nil
}
