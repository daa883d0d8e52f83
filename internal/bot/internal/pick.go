package internal

import "hearts/internal/domain"

// Lowest returns the lowest-ranked card, the first one on ties.
func Lowest(cards []domain.Card) (domain.Card, bool) {
	if len(cards) == 0 {
		return domain.Card{}, false
	}
	best := cards[0]
	for _, c := range cards[1:] {
		if c.Rank < best.Rank {
			best = c
		}
	}
	return best, true
}

// Highest returns the highest-ranked card, the first one on ties.
func Highest(cards []domain.Card) (domain.Card, bool) {
	if len(cards) == 0 {
		return domain.Card{}, false
	}
	best := cards[0]
	for _, c := range cards[1:] {
		if c.Rank > best.Rank {
			best = c
		}
	}
	return best, true
}

// Without returns the cards for which drop is false.
func Without(cards []domain.Card, drop func(domain.Card) bool) []domain.Card {
	out := make([]domain.Card, 0, len(cards))
	for _, c := range cards {
		if !drop(c) {
			out = append(out, c)
		}
	}
	return out
}

// IsHeart reports whether c is a Heart.
func IsHeart(c domain.Card) bool {
	return c.Suit == domain.Hearts
}

// IsQueenOfSpades reports whether c is the Queen of Spades.
func IsQueenOfSpades(c domain.Card) bool {
	return c.IsQueenOfSpades()
}
