package app

import "hearts/internal/domain"

// EventKind identifies emitted domain events for Nakama dispatch.
type EventKind string

const (
	EventGameStarted    EventKind = "game_started"
	EventHandStarted    EventKind = "hand_started"
	EventHandDealt      EventKind = "hand_dealt"
	EventPassSelection  EventKind = "pass_selection"
	EventCardsPassed    EventKind = "cards_passed"
	EventCardPlayed     EventKind = "card_played"
	EventTrickCompleted EventKind = "trick_completed"
	EventHandScored     EventKind = "hand_scored"
	EventGameEnded      EventKind = "game_ended"
)

// Event is a domain/app event with optional targeted recipients.
type Event struct {
	Kind       EventKind
	Payload    any
	Recipients []string // player IDs; empty means broadcast
}

type GameStartedPayload struct {
	GameID  string
	Players []PlayerInfo
}

type PlayerInfo struct {
	PlayerID string
	Name     string
}

type HandStartedPayload struct {
	HandNumber    int
	PassDirection domain.PassDirection
	Phase         domain.Phase
	FirstPlayerID string
}

type HandDealtPayload struct {
	PlayerID string
	Hand     []domain.Card
}

type PassSelectionPayload struct {
	PlayerID      string
	SelectedCards []string
	IsReady       bool
}

type CardsPassedPayload struct {
	PlayerID string
	Given    []domain.Card
	Received []domain.Card
	Hand     []domain.Card
}

type CardPlayedPayload struct {
	PlayerID     string
	Card         domain.Card
	NextPlayerID string
	HeartsBroken bool
	TrickFull    bool
}

type TrickCompletedPayload struct {
	WinnerID string
	Cards    []domain.PlayedCard
	Points   int
}

type HandScoredPayload struct {
	HandNumber  int
	HandScores  map[string]int
	Scores      map[string]int
	MoonShooter string
}

type GameEndedPayload struct {
	Standings []domain.Standing
}
