package nakama

const (
	// RpcQuickMatch is the Nakama RPC id clients call to find or create a lobby-capable match.
	RpcQuickMatch = "quick_match"
	// RpcGetStats returns the caller's Hearts stats record.
	RpcGetStats = "get_stats"

	// MatchNameHearts is the authoritative match handler name registered with Nakama.
	MatchNameHearts = "hearts_match"

	// GameLabel is the value of the "game" key in every match label.
	GameLabel = "hearts"
)

// Match label keys.
const (
	MatchLabelKeyOpen      = "open"
	MatchLabelKeyGame      = "game"
	MatchLabelKeyPhase     = "phase"
	MatchLabelKeyOpenSeats = "open_seats"

	labelPhaseLobby = "lobby"
)

// Op codes for client messages and server events.
const (
	// Client -> Server
	OpStartGame      int64 = 1
	OpSelectPassCard int64 = 2
	OpPlayCard       int64 = 3

	// Server -> Client events
	OpStateSnapshot  int64 = 100
	OpGameStarted    int64 = 101
	OpHandDealt      int64 = 102 // send privately
	OpPassSelection  int64 = 103 // send privately
	OpCardsPassed    int64 = 104 // send privately
	OpCardPlayed     int64 = 105
	OpTrickCompleted int64 = 106
	OpHandScored     int64 = 107
	OpGameEnded      int64 = 108
	OpGameError      int64 = 109
)

// Runtime environment keys read in MatchInit.
const (
	EnvBotsEnabled      = "hearts_bots_enabled"
	EnvBotMinDelay      = "hearts_bot_min_delay_sec"
	EnvBotMaxDelay      = "hearts_bot_max_delay_sec"
	EnvBotAutoFillDelay = "hearts_bot_auto_fill_delay_sec"
	EnvBotLevel         = "hearts_bot_level"
)

// Storage layout.
const (
	statsCollection = "hearts"
	statsKey        = "stats"
)

// Data files, relative to the Nakama working directory.
const (
	gameConfigPath    = "data/game_config.json"
	botIdentitiesPath = "data/bot_identities.json"
)
