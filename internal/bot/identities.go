package bot

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/heroiclabs/nakama-common/runtime"
)

// BotIdentity is one entry of the bot account pool.
type BotIdentity struct {
	DeviceID    string `json:"device_id"`
	UserID      string `json:"user_id"`
	Username    string `json:"username"`
	DisplayName string `json:"display_name"`
	Level       string `json:"level"` // "random" or "greedy"
	AvatarIndex int    `json:"avatar_index"`
}

// Roster is a pool of bot identities indexed by Nakama user id.
type Roster struct {
	mu         sync.RWMutex
	identities []BotIdentity
	byUserID   map[string]BotIdentity
}

// NewRoster builds a roster from identities.
func NewRoster(identities []BotIdentity) *Roster {
	r := &Roster{
		identities: append([]BotIdentity{}, identities...),
		byUserID:   make(map[string]BotIdentity),
	}
	for _, id := range r.identities {
		if id.UserID != "" {
			r.byUserID[id.UserID] = id
		}
	}
	return r
}

// ReadRoster loads a roster from a JSON file.
func ReadRoster(path string) (*Roster, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read bot identities: %w", err)
	}
	var identities []BotIdentity
	if err := json.Unmarshal(data, &identities); err != nil {
		return nil, fmt.Errorf("failed to unmarshal bot identities: %w", err)
	}
	return NewRoster(identities), nil
}

// Identity returns an identity by index (mod pool size). An empty pool, or an
// entry that was never provisioned, yields a synthetic identity with a
// distinct user id per index.
func (r *Roster) Identity(index int) BotIdentity {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if len(r.identities) == 0 {
		return syntheticIdentity(index)
	}
	if index < 0 {
		index = -index
	}
	id := r.identities[index%len(r.identities)]
	if id.UserID != "" {
		return id
	}
	synthetic := syntheticIdentity(index)
	if id.DisplayName != "" {
		synthetic.DisplayName = id.DisplayName
	}
	synthetic.Level = id.Level
	synthetic.AvatarIndex = id.AvatarIndex
	return synthetic
}

func syntheticIdentity(index int) BotIdentity {
	return BotIdentity{
		UserID:      fmt.Sprintf("bot-%d", index),
		Username:    fmt.Sprintf("bot%d", index),
		DisplayName: fmt.Sprintf("AI Player %d", index),
	}
}

// IsBot reports whether userID belongs to the pool.
func (r *Roster) IsBot(userID string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.byUserID[userID]
	return ok
}

// LevelFor returns the configured level of a bot, or fallback.
func (r *Roster) LevelFor(userID string, fallback BotLevel) BotLevel {
	r.mu.RLock()
	id, ok := r.byUserID[userID]
	r.mu.RUnlock()
	if !ok || id.Level == "" {
		return fallback
	}
	level, err := ParseLevel(id.Level)
	if err != nil {
		return fallback
	}
	return level
}

// DeviceAccounts is the subset of runtime.NakamaModule used to provision bots.
type DeviceAccounts interface {
	AuthenticateDevice(ctx context.Context, id, username string, create bool) (string, string, bool, error)
	AccountUpdateId(ctx context.Context, userID, username string, metadata map[string]interface{}, displayName, timezone, location, langTag, avatarUrl string) error
}

// Provision ensures that every identity with a device id has a Nakama account
// flagged with is_bot metadata, and records the resulting user ids.
func (r *Roster) Provision(ctx context.Context, nk DeviceAccounts, logger runtime.Logger) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	ready := 0
	for i := range r.identities {
		identity := &r.identities[i]
		if identity.DeviceID == "" {
			continue
		}

		userID, username, _, err := nk.AuthenticateDevice(ctx, identity.DeviceID, identity.Username, true)
		if err != nil {
			logger.Error("ProvisionBots: Failed to authenticate bot %s: %v", identity.Username, err)
			continue
		}
		identity.UserID = userID
		identity.Username = username

		metadata := map[string]interface{}{
			"is_bot":       true,
			"level":        identity.Level,
			"avatar_index": identity.AvatarIndex,
		}
		if err := nk.AccountUpdateId(ctx, userID, identity.Username, metadata, identity.DisplayName, "", "", "", ""); err != nil {
			logger.Warn("ProvisionBots: Failed to update bot account %s: %v", userID, err)
		}

		r.byUserID[userID] = *identity
		ready++
		logger.Info("ProvisionBots: Bot %s (%s) is ready. Level: %s", identity.DisplayName, userID, identity.Level)
	}
	return ready
}

var (
	defaultRoster = NewRoster(nil)
	loadOnce      sync.Once
	provisionOnce sync.Once
	loadErr       error
)

// LoadIdentities loads the shared bot pool from the given path, once.
func LoadIdentities(path string) error {
	loadOnce.Do(func() {
		r, err := ReadRoster(path)
		if err != nil {
			loadErr = err
			return
		}
		defaultRoster = r
	})
	return loadErr
}

// ProvisionBots provisions the shared pool once per process.
func ProvisionBots(ctx context.Context, nk DeviceAccounts, logger runtime.Logger) {
	provisionOnce.Do(func() {
		n := defaultRoster.Provision(ctx, nk, logger)
		logger.Info("ProvisionBots: %d bot accounts ready", n)
	})
}

// GetBotIdentity returns an identity from the shared pool.
func GetBotIdentity(index int) BotIdentity {
	return defaultRoster.Identity(index)
}

// IsBot reports whether userID belongs to the shared pool.
func IsBot(userID string) bool {
	return defaultRoster.IsBot(userID)
}

// LevelFor returns the level of a bot in the shared pool, or fallback.
func LevelFor(userID string, fallback BotLevel) BotLevel {
	return defaultRoster.LevelFor(userID, fallback)
}
