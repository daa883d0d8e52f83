package bot

import (
	"testing"

	"hearts/internal/domain"
)

var deckByID = func() map[string]domain.Card {
	m := make(map[string]domain.Card, domain.DeckSize)
	for _, c := range domain.NewDeck() {
		m[c.ID] = c
	}
	return m
}()

func cards(t *testing.T, ids ...string) []domain.Card {
	t.Helper()
	out := make([]domain.Card, 0, len(ids))
	for _, id := range ids {
		c, ok := deckByID[id]
		if !ok {
			t.Fatalf("unknown card %q", id)
		}
		out = append(out, c)
	}
	return out
}

func cardIDs(cs []domain.Card) []string {
	out := make([]string, len(cs))
	for i, c := range cs {
		out[i] = c.ID
	}
	return out
}

// tableState builds a playing state where seat 0 is to act with hand and the
// given cards already on the table, played by seats 1, 2 and 3 in order.
func tableState(t *testing.T, firstTrick, heartsBroken bool, hand []domain.Card, table ...string) domain.GameState {
	t.Helper()
	var s domain.GameState
	for i := range s.Players {
		s.Players[i] = domain.Player{ID: domain.PlayerIDForSeat(i), Name: domain.PlayerIDForSeat(i)}
	}
	s.Players[0].Hand = hand
	s.Phase = domain.PhasePlaying
	s.FirstTrick = firstTrick
	s.HeartsBroken = heartsBroken
	played := cards(t, table...)
	leader := (domain.NumPlayers - len(played)) % domain.NumPlayers
	for i, c := range played {
		s.CurrentTrick.Cards = append(s.CurrentTrick.Cards, domain.PlayedCard{PlayerID: domain.PlayerIDForSeat(leader + i), Card: c})
	}
	if len(played) > 0 {
		suit := played[0].Suit
		s.CurrentTrick.LeadingSuit = &suit
	}
	s.CurrentPlayerIndex = 0
	return s
}
