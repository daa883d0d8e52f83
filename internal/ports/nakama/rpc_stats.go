package nakama

import (
	"context"
	"database/sql"
	"encoding/json"
	"strings"

	"github.com/heroiclabs/nakama-common/runtime"

	"hearts/internal/ports"
)

// gRPC status codes used for RPC errors.
const (
	codeInvalidArgument = 3
	codeInternal        = 13
	codeUnauthenticated = 16
)

// StatsResponse is the payload of the get_stats RPC.
type StatsResponse struct {
	UserID string            `json:"user_id"`
	Stats  ports.PlayerStats `json:"stats"`
}

type statsRequest struct {
	UserID string `json:"user_id"`
}

func rpcGetStats(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
	callerID, _ := ctx.Value(runtime.RUNTIME_CTX_USER_ID).(string)
	return getStats(ctx, logger, NewNakamaStatsAdapter(nk), callerID, payload)
}

// getStats returns the stats of the user named in payload, or of the caller.
func getStats(ctx context.Context, logger runtime.Logger, stats ports.StatsPort, callerID, payload string) (string, error) {
	var req statsRequest
	if strings.TrimSpace(payload) != "" {
		if err := json.Unmarshal([]byte(payload), &req); err != nil {
			return "", runtime.NewError("invalid request payload", codeInvalidArgument)
		}
	}
	userID := req.UserID
	if userID == "" {
		userID = callerID
	}
	if userID == "" {
		return "", runtime.NewError("user id required", codeUnauthenticated)
	}

	record, err := stats.GetStats(ctx, userID)
	if err != nil {
		logger.Error("GetStats: Failed for %s: %v", userID, err)
		return "", runtime.NewError("failed to read stats", codeInternal)
	}

	b, err := json.Marshal(StatsResponse{UserID: userID, Stats: record})
	if err != nil {
		return "", runtime.NewError("failed to encode stats", codeInternal)
	}
	return string(b), nil
}
