package domain

// IndexOfCard returns the position of the card with id in hand, or -1.
func IndexOfCard(hand []Card, id string) int {
	for i, c := range hand {
		if c.ID == id {
			return i
		}
	}
	return -1
}

// ContainsCard reports whether hand holds the card with id.
func ContainsCard(hand []Card, id string) bool {
	return IndexOfCard(hand, id) >= 0
}

// FindCard returns the card with id from hand.
func FindCard(hand []Card, id string) (Card, bool) {
	if i := IndexOfCard(hand, id); i >= 0 {
		return hand[i], true
	}
	return Card{}, false
}

// RemoveCards returns a new hand without the given cards. Cards not held are ignored.
func RemoveCards(hand []Card, remove []Card) []Card {
	drop := make(map[string]bool, len(remove))
	for _, c := range remove {
		drop[c.ID] = true
	}
	out := make([]Card, 0, len(hand))
	for _, c := range hand {
		if !drop[c.ID] {
			out = append(out, c)
		}
	}
	return out
}

// CardsOfSuit returns the cards of hand with the given suit, in hand order.
func CardsOfSuit(hand []Card, suit Suit) []Card {
	out := make([]Card, 0, len(hand))
	for _, c := range hand {
		if c.Suit == suit {
			out = append(out, c)
		}
	}
	return out
}

func filterCards(hand []Card, keep func(Card) bool) []Card {
	out := make([]Card, 0, len(hand))
	for _, c := range hand {
		if keep(c) {
			out = append(out, c)
		}
	}
	return out
}

func onlyHearts(hand []Card) bool {
	for _, c := range hand {
		if c.Suit != Hearts {
			return false
		}
	}
	return true
}
