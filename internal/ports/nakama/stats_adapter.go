package nakama

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/heroiclabs/nakama-common/api"
	"github.com/heroiclabs/nakama-common/runtime"

	"hearts/internal/ports"
)

// maxStatsWriteAttempts bounds retries of a conflicting stats update.
const maxStatsWriteAttempts = 3

// StorageModule is the subset of runtime.NakamaModule used for stats records.
type StorageModule interface {
	StorageRead(ctx context.Context, reads []*runtime.StorageRead) ([]*api.StorageObject, error)
	StorageWrite(ctx context.Context, writes []*runtime.StorageWrite) ([]*api.StorageObjectAck, error)
}

// NakamaStatsAdapter keeps one stats object per user in Nakama storage.
type NakamaStatsAdapter struct {
	storage StorageModule
}

// NewNakamaStatsAdapter creates a new stats adapter.
func NewNakamaStatsAdapter(storage StorageModule) *NakamaStatsAdapter {
	return &NakamaStatsAdapter{storage: storage}
}

// InitStatsOnce writes an empty record unless one exists.
func (a *NakamaStatsAdapter) InitStatsOnce(ctx context.Context, userID string) (bool, error) {
	if userID == "" {
		return false, fmt.Errorf("userID is required")
	}
	if err := a.write(ctx, userID, ports.PlayerStats{}, "*"); err != nil {
		if errors.Is(err, runtime.ErrStorageRejectedVersion) {
			return false, nil
		}
		return false, fmt.Errorf("failed to init stats: %w", err)
	}
	return true, nil
}

// GetStats returns the stored record, or a zero record when none exists.
func (a *NakamaStatsAdapter) GetStats(ctx context.Context, userID string) (ports.PlayerStats, error) {
	stats, _, err := a.read(ctx, userID)
	return stats, err
}

// Update applies fn to the stored record with optimistic concurrency,
// retrying when another writer got there first.
func (a *NakamaStatsAdapter) Update(ctx context.Context, userID string, fn func(*ports.PlayerStats)) error {
	var err error
	for attempt := 0; attempt < maxStatsWriteAttempts; attempt++ {
		var stats ports.PlayerStats
		var version string
		stats, version, err = a.read(ctx, userID)
		if err != nil {
			return err
		}
		if version == "" {
			version = "*"
		}
		fn(&stats)
		err = a.write(ctx, userID, stats, version)
		if err == nil || !errors.Is(err, runtime.ErrStorageRejectedVersion) {
			break
		}
	}
	if err != nil {
		return fmt.Errorf("failed to update stats for user %s: %w", userID, err)
	}
	return nil
}

func (a *NakamaStatsAdapter) read(ctx context.Context, userID string) (ports.PlayerStats, string, error) {
	var stats ports.PlayerStats
	objects, err := a.storage.StorageRead(ctx, []*runtime.StorageRead{{
		Collection: statsCollection,
		Key:        statsKey,
		UserID:     userID,
	}})
	if err != nil {
		return stats, "", fmt.Errorf("failed to read stats: %w", err)
	}
	if len(objects) == 0 {
		return stats, "", nil
	}
	if err := json.Unmarshal([]byte(objects[0].GetValue()), &stats); err != nil {
		return stats, "", fmt.Errorf("failed to unmarshal stats: %w", err)
	}
	return stats, objects[0].GetVersion(), nil
}

func (a *NakamaStatsAdapter) write(ctx context.Context, userID string, stats ports.PlayerStats, version string) error {
	value, err := json.Marshal(stats)
	if err != nil {
		return fmt.Errorf("failed to marshal stats: %w", err)
	}
	_, err = a.storage.StorageWrite(ctx, []*runtime.StorageWrite{{
		Collection:      statsCollection,
		Key:             statsKey,
		UserID:          userID,
		Value:           string(value),
		Version:         version,
		PermissionRead:  runtime.STORAGE_PERMISSION_PUBLIC_READ,
		PermissionWrite: runtime.STORAGE_PERMISSION_NO_WRITE,
	}})
	return err
}

var _ ports.StatsPort = (*NakamaStatsAdapter)(nil)
