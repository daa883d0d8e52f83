package domain

import (
	"math/rand"
	"sort"
)

// DeckSize is the number of cards in a full deck.
const DeckSize = 52

// NewDeck returns a sorted 52-card deck.
func NewDeck() []Card {
	deck := make([]Card, 0, DeckSize)
	for _, s := range Suits {
		for _, r := range Ranks {
			deck = append(deck, NewCard(r, s))
		}
	}
	return deck
}

// ShuffleDeck returns a shuffled copy of the given deck.
func ShuffleDeck(deck []Card, rng *rand.Rand) []Card {
	out := make([]Card, len(deck))
	copy(out, deck)
	rng.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	return out
}

// ShuffledDeck returns a fresh deck shuffled with rng.
func ShuffledDeck(rng *rand.Rand) []Card {
	return ShuffleDeck(NewDeck(), rng)
}

// SortHand orders a hand by suit (clubs, diamonds, spades, hearts) then ascending rank.
func SortHand(cards []Card) {
	sort.Slice(cards, func(i, j int) bool {
		return cardOrder(cards[i]) < cardOrder(cards[j])
	})
}

func cardOrder(c Card) int {
	return int(c.Suit)*16 + int(c.Rank)
}

// validateDeck checks that deck holds exactly the 52 distinct cards.
func validateDeck(deck []Card) bool {
	if len(deck) != DeckSize {
		return false
	}
	seen := make(map[string]bool, DeckSize)
	for _, c := range deck {
		if c.Rank < Two || c.Rank > Ace || c.Suit < Clubs || c.Suit > Hearts {
			return false
		}
		if c.ID != CardID(c.Rank, c.Suit) || seen[c.ID] {
			return false
		}
		seen[c.ID] = true
	}
	return true
}
