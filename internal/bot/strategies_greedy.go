package bot

import (
	"fmt"

	botinternal "hearts/internal/bot/internal"
	"hearts/internal/domain"
)

// GreedyBot passes its most dangerous cards, leads low, ducks under point
// tricks and sheds high cards while a trick is still clean.
type GreedyBot struct {
	rules []PlayRule
}

// NewGreedyBot returns a GreedyBot with the standard rule pipeline.
func NewGreedyBot() *GreedyBot {
	return &GreedyBot{rules: []PlayRule{&SafeLeadRule{}, &DuckPointsRule{}, &ShedHighRule{}}}
}

func (b *GreedyBot) SelectCardsToPass(hand []domain.Card, _ domain.PassDirection) ([]domain.Card, error) {
	if len(hand) < domain.PassSize {
		return nil, fmt.Errorf("%w: %d cards", ErrHandTooSmall, len(hand))
	}
	return botinternal.DangerOrder(hand)[:domain.PassSize], nil
}

func (b *GreedyBot) SelectCardToPlay(state domain.GameState, playerID string) (domain.Card, error) {
	valid := domain.ValidPlays(state, playerID)
	if len(valid) == 0 {
		return domain.Card{}, fmt.Errorf("%w: %s", ErrNoValidPlays, playerID)
	}
	rules := b.rules
	if len(rules) == 0 {
		rules = NewGreedyBot().rules
	}
	ctx := &PlayContext{State: state, PlayerID: playerID, Valid: valid}
	if c, ok := runPipeline(rules, ctx); ok {
		return c, nil
	}
	return valid[0], nil
}
