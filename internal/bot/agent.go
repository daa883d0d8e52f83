package bot

import (
	"fmt"

	"hearts/internal/domain"
)

// Agent represents an autonomous bot player.
type Agent struct {
	ID       string
	Name     string
	Strategy Brain
}

// ChoosePass asks the agent for its three pass cards in the current state.
func (a *Agent) ChoosePass(state domain.GameState) ([]domain.Card, error) {
	player, ok := state.Player(a.ID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotSeated, a.ID)
	}
	return a.Strategy.SelectCardsToPass(player.Hand, state.PassDirection)
}

// Play asks the agent for the card it plays on its turn.
func (a *Agent) Play(state domain.GameState) (domain.Card, error) {
	if state.PlayerIndex(a.ID) < 0 {
		return domain.Card{}, fmt.Errorf("%w: %s", ErrNotSeated, a.ID)
	}
	return a.Strategy.SelectCardToPlay(state, a.ID)
}
