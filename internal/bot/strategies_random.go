package bot

import (
	"fmt"
	"math/rand"

	"hearts/internal/domain"
)

// RandomBot draws uniformly from the legal options.
type RandomBot struct {
	rng *rand.Rand
}

// NewRandomBot returns a RandomBot using rng.
func NewRandomBot(rng *rand.Rand) *RandomBot {
	return &RandomBot{rng: rng}
}

func (b *RandomBot) SelectCardsToPass(hand []domain.Card, _ domain.PassDirection) ([]domain.Card, error) {
	if len(hand) < domain.PassSize {
		return nil, fmt.Errorf("%w: %d cards", ErrHandTooSmall, len(hand))
	}
	perm := b.rng.Perm(len(hand))
	out := make([]domain.Card, 0, domain.PassSize)
	for _, i := range perm[:domain.PassSize] {
		out = append(out, hand[i])
	}
	return out, nil
}

func (b *RandomBot) SelectCardToPlay(state domain.GameState, playerID string) (domain.Card, error) {
	valid := domain.ValidPlays(state, playerID)
	if len(valid) == 0 {
		return domain.Card{}, fmt.Errorf("%w: %s", ErrNoValidPlays, playerID)
	}
	return valid[b.rng.Intn(len(valid))], nil
}
