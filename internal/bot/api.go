package bot

import (
	"errors"

	"hearts/internal/domain"
)

var (
	// ErrNoValidPlays is returned when a brain is asked to play with no legal card.
	ErrNoValidPlays = errors.New("no valid plays")
	// ErrHandTooSmall is returned when fewer than three cards are offered for passing.
	ErrHandTooSmall = errors.New("hand too small to pass")
	// ErrNotSeated is returned when an agent's id is not a player in the game.
	ErrNotSeated = errors.New("agent not seated in game")
)

// Brain is the interface that all bot strategies must implement.
type Brain interface {
	// SelectCardsToPass returns exactly three cards drawn from hand.
	SelectCardsToPass(hand []domain.Card, dir domain.PassDirection) ([]domain.Card, error)
	// SelectCardToPlay returns one of domain.ValidPlays(state, playerID).
	SelectCardToPlay(state domain.GameState, playerID string) (domain.Card, error)
}
