package domain

// ValidPlays returns the cards playerID may legally play, in hand order.
//
// Leading the first trick requires the Two of Clubs when held. Otherwise a lead
// may not be a Heart until hearts are broken, unless the hand holds only
// Hearts. A follower must follow suit when able. A void follower on the first
// trick may not discard Hearts or the Queen of Spades while holding anything
// else. Returns nil for an unknown player.
func ValidPlays(state GameState, playerID string) []Card {
	idx := state.PlayerIndex(playerID)
	if idx < 0 {
		return nil
	}
	hand := state.Players[idx].Hand
	trick := state.CurrentTrick

	if len(trick.Cards) == 0 {
		if state.FirstTrick {
			if c, ok := FindCard(hand, TwoOfClubs.ID); ok {
				return []Card{c}
			}
		}
		if !state.HeartsBroken && !onlyHearts(hand) {
			return filterCards(hand, func(c Card) bool { return c.Suit != Hearts })
		}
		return cloneCards(hand)
	}

	lead := trick.Cards[0].Card.Suit
	if trick.LeadingSuit != nil {
		lead = *trick.LeadingSuit
	}
	if follow := CardsOfSuit(hand, lead); len(follow) > 0 {
		return follow
	}
	if state.FirstTrick {
		safe := filterCards(hand, func(c Card) bool { return PointValue(c) == 0 })
		if len(safe) > 0 {
			return safe
		}
	}
	return cloneCards(hand)
}

// IsValidPlay reports whether card is among the legal plays for playerID.
func IsValidPlay(state GameState, playerID string, card Card) bool {
	return ContainsCard(ValidPlays(state, playerID), card.ID)
}

// DetermineTrickWinner returns the player who played the highest card of the
// leading suit. ok is false for an empty trick or one without a leading suit.
func DetermineTrickWinner(trick Trick) (string, bool) {
	if len(trick.Cards) == 0 || trick.LeadingSuit == nil {
		return "", false
	}
	lead := *trick.LeadingSuit
	winner := ""
	best := Rank(0)
	for _, pc := range trick.Cards {
		if pc.Card.Suit == lead && pc.Card.Rank > best {
			best = pc.Card.Rank
			winner = pc.PlayerID
		}
	}
	return winner, winner != ""
}

// TrickContainsHearts reports whether any Heart was played to the trick.
func TrickContainsHearts(trick Trick) bool {
	for _, pc := range trick.Cards {
		if pc.Card.Suit == Hearts {
			return true
		}
	}
	return false
}

// TrickContainsPoints reports whether the trick holds a Heart or the Queen of Spades.
func TrickContainsPoints(trick Trick) bool {
	for _, pc := range trick.Cards {
		if PointValue(pc.Card) > 0 {
			return true
		}
	}
	return false
}
