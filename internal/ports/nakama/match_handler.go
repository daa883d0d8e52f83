package nakama

import (
	"context"
	"database/sql"
	"math/rand"
	"strconv"
	"strings"
	"time"

	"github.com/heroiclabs/nakama-common/runtime"

	"hearts/internal/app"
	"hearts/internal/bot"
	"hearts/internal/config"
	"hearts/internal/domain"
	"hearts/internal/ports"
)

// MatchState holds the authoritative runtime state for the Nakama match handler.
type MatchState struct {
	Seats     [domain.NumPlayers]string   `json:"seats"`      // user IDs, empty string means seat is empty
	Names     [domain.NumPlayers]string   `json:"names"`      // display names by seat
	OwnerSeat int                         `json:"owner_seat"` // seat index of the match owner, -1 if none
	Tick      int64                       `json:"tick"`
	Presences map[string]runtime.Presence `json:"-"` // UserId -> Presence for targeted messaging
	App       *app.Service                `json:"-"`
	Game      *app.Game                   `json:"-"` // nil while in lobby
	Bots      map[string]*bot.Agent       `json:"-"` // bot agents keyed by user ID

	BotsEnabled          bool         `json:"bots_enabled"`
	BotMinDelay          int          `json:"bot_min_delay"`
	BotMaxDelay          int          `json:"bot_max_delay"`
	BotAutoFillDelay     int          `json:"bot_auto_fill_delay"`
	BotLevel             bot.BotLevel `json:"bot_level"`
	BotWaitUntil         int64        `json:"bot_wait_until"`          // tick when automated seats act
	LastSinglePlayerTick int64        `json:"last_single_player_tick"` // tick when a lone human started waiting

	TurnDuration    int   `json:"turn_duration"`
	TurnDeadline    int64 `json:"turn_deadline"` // tick after which a connected human is played for
	TrickPauseTicks int   `json:"trick_pause_ticks"`
	HandPauseTicks  int   `json:"hand_pause_ticks"`
	PauseUntil      int64 `json:"pause_until"`

	MoonsShot       [domain.NumPlayers]int `json:"moons_shot"`
	ResultsRecorded bool                   `json:"results_recorded"`
	Results         ports.ResultsPort      `json:"-"`

	autopilot  bot.Brain
	identities func(int) bot.BotIdentity
	rng        *rand.Rand
}

// newMatchState builds a lobby with defaults taken from the loaded game config.
func newMatchState(rng *rand.Rand) *MatchState {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	cfg := config.GetGameConfig()
	level, err := bot.ParseLevel(cfg.BotLevel())
	if err != nil {
		level = bot.BotLevelGreedy
	}
	return &MatchState{
		OwnerSeat:        -1,
		Presences:        make(map[string]runtime.Presence),
		App:              app.NewService(rng),
		Bots:             make(map[string]*bot.Agent),
		BotsEnabled:      true,
		BotMinDelay:      1,
		BotMaxDelay:      3,
		BotAutoFillDelay: cfg.BotAutoFillDelay(),
		BotLevel:         level,
		TurnDuration:     cfg.TurnDuration(),
		TrickPauseTicks:  cfg.TrickPause(),
		HandPauseTicks:   cfg.HandPause(),
		autopilot:        bot.NewGreedyBot(),
		identities:       bot.GetBotIdentity,
		rng:              rng,
	}
}

// applyEnv overrides bot settings from the runtime environment.
func (ms *MatchState) applyEnv(env map[string]string, logger runtime.Logger) {
	if val, ok := env[EnvBotsEnabled]; ok {
		ms.BotsEnabled = val == "true"
	}
	readInt := func(key string, dst *int) {
		val, ok := env[key]
		if !ok {
			return
		}
		i, err := strconv.Atoi(strings.TrimSpace(val))
		if err != nil || i < 0 {
			logger.Warn("MatchInit: Ignoring invalid %s=%q", key, val)
			return
		}
		*dst = i
	}
	readInt(EnvBotMinDelay, &ms.BotMinDelay)
	readInt(EnvBotMaxDelay, &ms.BotMaxDelay)
	readInt(EnvBotAutoFillDelay, &ms.BotAutoFillDelay)
	if val, ok := env[EnvBotLevel]; ok {
		level, err := bot.ParseLevel(val)
		if err != nil {
			logger.Warn("MatchInit: %v", err)
		} else {
			ms.BotLevel = level
		}
	}
	if ms.BotMaxDelay < ms.BotMinDelay {
		ms.BotMaxDelay = ms.BotMinDelay
	}
}

func (ms *MatchState) GetOpenSeatsCount() int {
	count := 0
	for _, seat := range ms.Seats {
		if seat == "" {
			count++
		}
	}
	return count
}

func (ms *MatchState) GetOccupiedSeatCount() int {
	return len(ms.Seats) - ms.GetOpenSeatsCount()
}

func (ms *MatchState) GetHumanPlayerCount() int {
	count := 0
	for _, seat := range ms.Seats {
		if seat != "" && !ms.isBot(seat) {
			count++
		}
	}
	return count
}

// isBot reports whether the given user id represents a bot seat.
func (ms *MatchState) isBot(userID string) bool {
	if _, ok := ms.Bots[userID]; ok {
		return true
	}
	return bot.IsBot(userID)
}

// connectedHuman reports whether userID is a human with a live presence.
func (ms *MatchState) connectedHuman(userID string) bool {
	if userID == "" || ms.isBot(userID) {
		return false
	}
	_, ok := ms.Presences[userID]
	return ok
}

func (ms *MatchState) seatOf(userID string) int {
	if userID == "" {
		return -1
	}
	for i, seat := range ms.Seats {
		if seat == userID {
			return i
		}
	}
	return -1
}

// userForPlayer maps a domain player id to the seated user id.
func (ms *MatchState) userForPlayer(playerID string) string {
	if ms.Game == nil {
		return ""
	}
	idx := ms.Game.State.PlayerIndex(playerID)
	if idx < 0 {
		return ""
	}
	return ms.Seats[idx]
}

// gameRunning reports whether a game is in progress and not yet over.
func (ms *MatchState) gameRunning() bool {
	return ms.Game != nil && ms.Game.State.Phase != domain.PhaseGameOver
}

// releaseDepartedSeats frees every seat held by a human without a presence and
// returns the freed seat indexes. Only valid outside a running game.
func (ms *MatchState) releaseDepartedSeats() []int {
	var freed []int
	for i, userID := range ms.Seats {
		if userID == "" || ms.isBot(userID) {
			continue
		}
		if _, ok := ms.Presences[userID]; ok {
			continue
		}
		ms.Seats[i] = ""
		ms.Names[i] = ""
		freed = append(freed, i)
	}
	return freed
}

func (ms *MatchState) botDelay() int64 {
	span := ms.BotMaxDelay - ms.BotMinDelay + 1
	if span <= 0 {
		return int64(ms.BotMinDelay)
	}
	return int64(ms.BotMinDelay + ms.rng.Intn(span))
}

func (ms *MatchState) resetTurnTimer() {
	ms.TurnDeadline = ms.Tick + int64(ms.TurnDuration)
}

// findFirstHumanSeat returns the first seat index held by a human or -1 if none exist.
func findFirstHumanSeat(seats []string, isHuman func(string) bool) int {
	for i, userID := range seats {
		if userID != "" && isHuman(userID) {
			return i
		}
	}
	return -1
}

// shouldTerminateNoHumans returns true when no connected human remains.
func shouldTerminateNoHumans(seats []string, isHuman func(string) bool) bool {
	return findFirstHumanSeat(seats, isHuman) == -1
}

// NewMatch is the factory function registered with Nakama.
func NewMatch(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule) (runtime.Match, error) {
	return &matchHandler{}, nil
}

type matchHandler struct{}

// MatchInit is called when the match is created.
func (mh *matchHandler) MatchInit(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, params map[string]interface{}) (interface{}, int, string) {
	logger.Debug("MatchInit: Initializing match handler.")

	state := newMatchState(nil)
	state.Tick = 0
	state.Results = NewNakamaResultsAdapter(nk, config.GetGameConfig().Leaderboard())
	if env, ok := ctx.Value(runtime.RUNTIME_CTX_ENV).(map[string]string); ok {
		state.applyEnv(env, logger)
	}

	label, err := buildLabel(true, labelPhaseLobby, state.GetOpenSeatsCount())
	if err != nil {
		logger.Error("MatchInit: Failed to marshal label: %v", err)
		return nil, 0, ""
	}

	tickRate := 1 // one tick per second; every delay is counted in ticks
	return state, tickRate, label
}

func (mh *matchHandler) MatchJoinAttempt(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presence runtime.Presence, metadata map[string]string) (interface{}, bool, string) {
	matchState, ok := state.(*MatchState)
	if !ok {
		return state, false, "state not found"
	}

	// A seated player may always reconnect.
	if matchState.seatOf(presence.GetUserId()) >= 0 {
		return state, true, ""
	}
	if matchState.gameRunning() {
		return state, false, "Game in progress"
	}
	if matchState.GetOpenSeatsCount() > 0 {
		return state, true, ""
	}
	for _, seat := range matchState.Seats {
		if matchState.isBot(seat) {
			return state, true, ""
		}
	}
	return state, false, "Match full"
}

func (mh *matchHandler) MatchJoin(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presences []runtime.Presence) interface{} {
	matchState, ok := state.(*MatchState)
	if !ok {
		logger.Error("MatchJoin: state not found")
		return state
	}

	var rejoined []runtime.Presence
	for _, p := range presences {
		userID := p.GetUserId()
		matchState.Presences[userID] = p

		if seat := matchState.seatOf(userID); seat >= 0 {
			logger.Info("MatchJoin: User %s reconnected to seat %d", userID, seat)
			rejoined = append(rejoined, p)
			continue
		}
		if !mh.assignSeat(matchState, logger, p) {
			logger.Warn("MatchJoin: User %s joined but no seat (empty or bot) was available.", userID)
		}
	}

	mh.refreshOwner(matchState, logger)
	mh.updateLabel(matchState, dispatcher, logger)
	mh.broadcastMatchState(matchState, dispatcher, logger, nil)
	for _, p := range rejoined {
		mh.sendPrivateHand(matchState, dispatcher, logger, p)
	}
	return matchState
}

// assignSeat seats a new human in the first empty seat, or in place of a lobby bot.
func (mh *matchHandler) assignSeat(state *MatchState, logger runtime.Logger, p runtime.Presence) bool {
	for i, seat := range state.Seats {
		if seat == "" {
			state.Seats[i] = p.GetUserId()
			state.Names[i] = p.GetUsername()
			return true
		}
	}
	if state.gameRunning() {
		return false
	}
	for i, seat := range state.Seats {
		if state.isBot(seat) {
			logger.Info("MatchJoin: Replacing bot %s with human %s in seat %d", seat, p.GetUserId(), i)
			delete(state.Bots, seat)
			state.Seats[i] = p.GetUserId()
			state.Names[i] = p.GetUsername()
			return true
		}
	}
	return false
}

// refreshOwner keeps ownership on a connected human.
func (mh *matchHandler) refreshOwner(state *MatchState, logger runtime.Logger) {
	if state.OwnerSeat >= 0 && state.connectedHuman(state.Seats[state.OwnerSeat]) {
		return
	}
	state.OwnerSeat = findFirstHumanSeat(state.Seats[:], state.connectedHuman)
	if state.OwnerSeat >= 0 {
		logger.Debug("Owner set to human seat %d.", state.OwnerSeat)
	}
}

// MatchLeave is called when one or more players leave the match. In the lobby
// the seat is freed; during a game it is kept and played automatically.
func (mh *matchHandler) MatchLeave(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presences []runtime.Presence) interface{} {
	matchState, ok := state.(*MatchState)
	if !ok {
		logger.Error("MatchLeave: state not found")
		return state
	}

	for _, p := range presences {
		userID := p.GetUserId()
		delete(matchState.Presences, userID)
		seat := matchState.seatOf(userID)
		if seat < 0 {
			continue
		}
		if matchState.gameRunning() {
			logger.Info("MatchLeave: User %s left seat %d mid-game; seat is now automated.", userID, seat)
			continue
		}
		matchState.Seats[seat] = ""
		matchState.Names[seat] = ""
		logger.Debug("MatchLeave: User %s left, seat %d freed.", userID, seat)
	}

	if shouldTerminateNoHumans(matchState.Seats[:], matchState.connectedHuman) {
		logger.Info("MatchLeave: Terminating match with no humans.")
		return nil
	}

	mh.refreshOwner(matchState, logger)
	mh.updateLabel(matchState, dispatcher, logger)
	mh.broadcastMatchState(matchState, dispatcher, logger, nil)
	return matchState
}

func (mh *matchHandler) MatchLoop(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, messages []runtime.MatchData) interface{} {
	matchState, ok := state.(*MatchState)
	if !ok {
		return state
	}

	matchState.Tick = tick

	for _, msg := range messages {
		switch msg.GetOpCode() {
		case OpStartGame:
			mh.handleStartGame(ctx, matchState, dispatcher, logger, msg)
		case OpSelectPassCard:
			mh.handleSelectPassCard(ctx, matchState, dispatcher, logger, msg)
		case OpPlayCard:
			mh.handlePlayCard(ctx, matchState, dispatcher, logger, msg)
		default:
			logger.Warn("MatchLoop: Unknown opcode received: %d", msg.GetOpCode())
		}
	}

	if matchState.BotsEnabled {
		mh.autoFillLobby(matchState, dispatcher, logger)
	}
	mh.processGame(ctx, matchState, dispatcher, logger)

	return matchState
}

func (mh *matchHandler) MatchTerminate(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, graceSeconds int) interface{} {
	logger.Debug("MatchTerminate: Match terminated with %d grace seconds", graceSeconds)
	return state
}

func (mh *matchHandler) MatchSignal(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, data string) (interface{}, string) {
	return state, ""
}
