package internal

import (
	"sort"

	"hearts/internal/domain"
)

// Danger tiers, most dangerous first.
const (
	tierQueenOfSpades = iota
	tierHighHeart
	tierOther
)

func dangerTier(c domain.Card) int {
	switch {
	case c.IsQueenOfSpades():
		return tierQueenOfSpades
	case c.Suit == domain.Hearts && c.Rank >= domain.Queen:
		return tierHighHeart
	default:
		return tierOther
	}
}

// DangerOrder returns a copy of hand ordered from the card most worth passing
// to the least: the Queen of Spades, then Hearts from the Queen up, then the
// rest by descending rank with Hearts ahead of other suits at the same rank.
// Remaining ties keep hand order.
func DangerOrder(hand []domain.Card) []domain.Card {
	out := make([]domain.Card, len(hand))
	copy(out, hand)
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if ta, tb := dangerTier(a), dangerTier(b); ta != tb {
			return ta < tb
		}
		if a.Rank != b.Rank {
			return a.Rank > b.Rank
		}
		return a.Suit == domain.Hearts && b.Suit != domain.Hearts
	})
	return out
}
