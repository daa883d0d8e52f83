package domain

import (
	"fmt"
	"strings"
)

// NewGame creates a game in the dealing phase for exactly four named players.
// deck must be a full shuffled deck; it is copied into the state.
func NewGame(names []string, deck []Card) (GameState, error) {
	if len(names) != NumPlayers {
		return GameState{}, fmt.Errorf("%w: got %d, want %d", ErrInvalidPlayerCount, len(names), NumPlayers)
	}
	seen := make(map[string]bool, NumPlayers)
	for _, n := range names {
		key := strings.TrimSpace(n)
		if key == "" || seen[key] {
			return GameState{}, fmt.Errorf("%w: %q", ErrInvalidPlayerName, n)
		}
		seen[key] = true
	}
	if !validateDeck(deck) {
		return GameState{}, ErrInvalidDeck
	}

	var state GameState
	for i, n := range names {
		state.Players[i] = Player{ID: PlayerIDForSeat(i), Name: strings.TrimSpace(n)}
	}
	state.HandNumber = 0
	state.resetHand(deck)
	return state, nil
}

// resetHand clears every hand-scoped field and installs a copy of deck.
func (s *GameState) resetHand(deck []Card) {
	for i := range s.Players {
		p := &s.Players[i]
		p.Hand = []Card{}
		p.TricksTaken = [][]Card{}
		p.HandScore = 0
		p.SelectedCards = []string{}
		p.IsReady = false
	}
	s.Phase = PhaseDealing
	s.PassDirection = PassDirectionForHand(s.HandNumber)
	s.CurrentPlayerIndex = 0
	s.CurrentTrick = Trick{Cards: []PlayedCard{}}
	s.CompletedTricks = []Trick{}
	s.HeartsBroken = false
	s.FirstTrick = true
	s.Deck = append([]Card{}, deck...)
}

// DealCards deals the deck round-robin, sorts every hand and hands the turn to
// the holder of the Two of Clubs.
func DealCards(state GameState) (GameState, error) {
	if state.Phase != PhaseDealing {
		return GameState{}, fmt.Errorf("%w: deal during %s", ErrWrongPhase, state.Phase)
	}
	if len(state.Deck) != DeckSize {
		return GameState{}, fmt.Errorf("%w: %d cards left to deal", ErrInvalidDeck, len(state.Deck))
	}

	next := state.Clone()
	for i := range next.Players {
		next.Players[i].Hand = make([]Card, 0, HandSize)
	}
	for i, c := range next.Deck {
		seat := i % NumPlayers
		next.Players[seat].Hand = append(next.Players[seat].Hand, c)
	}
	next.Deck = []Card{}
	for i := range next.Players {
		SortHand(next.Players[i].Hand)
	}
	next.CurrentPlayerIndex = next.twoOfClubsHolder()

	if next.PassDirection == PassNone {
		next.Phase = PhasePlaying
	} else {
		next.Phase = PhasePassing
	}
	return next, nil
}

func (s GameState) twoOfClubsHolder() int {
	for i, p := range s.Players {
		if ContainsCard(p.Hand, TwoOfClubs.ID) {
			return i
		}
	}
	return 0
}

// SelectCardToPass toggles cardID in the player's pass selection.
func SelectCardToPass(state GameState, playerID, cardID string) (GameState, error) {
	if state.Phase != PhasePassing {
		return GameState{}, fmt.Errorf("%w: select during %s", ErrWrongPhase, state.Phase)
	}
	idx := state.PlayerIndex(playerID)
	if idx < 0 {
		return GameState{}, fmt.Errorf("%w: %s", ErrUnknownPlayer, playerID)
	}
	if !ContainsCard(state.Players[idx].Hand, cardID) {
		return GameState{}, fmt.Errorf("%w: %s", ErrCardNotInHand, cardID)
	}

	next := state.Clone()
	p := &next.Players[idx]
	if pos := indexOfString(p.SelectedCards, cardID); pos >= 0 {
		p.SelectedCards = append(p.SelectedCards[:pos], p.SelectedCards[pos+1:]...)
	} else {
		if len(p.SelectedCards) >= PassSize {
			return GameState{}, fmt.Errorf("%w: %s already has %d", ErrTooManySelected, playerID, PassSize)
		}
		p.SelectedCards = append(p.SelectedCards, cardID)
	}
	p.IsReady = len(p.SelectedCards) == PassSize
	return next, nil
}

func indexOfString(list []string, s string) int {
	for i, v := range list {
		if v == s {
			return i
		}
	}
	return -1
}

// senderOffset is the seat offset of the player whose cards a seat receives.
func senderOffset(dir PassDirection) int {
	switch dir {
	case PassLeft:
		return 3
	case PassRight:
		return 1
	case PassAcross:
		return 2
	default:
		return 0
	}
}

// ExecutePass exchanges every player's three selected cards at once.
func ExecutePass(state GameState) (GameState, error) {
	if state.Phase != PhasePassing {
		return GameState{}, fmt.Errorf("%w: %w: pass during %s", ErrPlayersNotReady, ErrWrongPhase, state.Phase)
	}
	for _, p := range state.Players {
		if !p.IsReady {
			return GameState{}, fmt.Errorf("%w: %s has %d of %d", ErrPlayersNotReady, p.ID, len(p.SelectedCards), PassSize)
		}
	}

	next := state.Clone()
	var outgoing [NumPlayers][]Card
	for i, p := range next.Players {
		for _, id := range p.SelectedCards {
			c, ok := FindCard(p.Hand, id)
			if !ok {
				return GameState{}, fmt.Errorf("%w: %s selected %s", ErrCardNotInHand, p.ID, id)
			}
			outgoing[i] = append(outgoing[i], c)
		}
	}

	offset := senderOffset(next.PassDirection)
	for i := range next.Players {
		p := &next.Players[i]
		from := (i + offset) % NumPlayers
		hand := RemoveCards(p.Hand, outgoing[i])
		hand = append(hand, outgoing[from]...)
		SortHand(hand)
		p.Hand = hand
		p.SelectedCards = []string{}
		p.IsReady = false
	}
	next.CurrentPlayerIndex = next.twoOfClubsHolder()
	next.Phase = PhasePlaying
	return next, nil
}

// PlayCard plays cardID for the current player.
func PlayCard(state GameState, playerID, cardID string) (GameState, error) {
	if state.Phase != PhasePlaying {
		return GameState{}, fmt.Errorf("%w: %w: play during %s", ErrNotYourTurn, ErrWrongPhase, state.Phase)
	}
	idx := state.PlayerIndex(playerID)
	if idx < 0 {
		return GameState{}, fmt.Errorf("%w: %w: %s", ErrNotYourTurn, ErrUnknownPlayer, playerID)
	}
	if idx != state.CurrentPlayerIndex {
		return GameState{}, fmt.Errorf("%w: %s, waiting on %s", ErrNotYourTurn, playerID, state.Players[state.CurrentPlayerIndex].ID)
	}
	if state.CurrentTrick.IsComplete() {
		return GameState{}, fmt.Errorf("%w: %s cannot play %s before the trick is collected", ErrTrickFull, playerID, cardID)
	}
	card, ok := FindCard(state.Players[idx].Hand, cardID)
	if !ok {
		return GameState{}, fmt.Errorf("%w: %w: %s", ErrIllegalPlay, ErrCardNotInHand, cardID)
	}
	if !IsValidPlay(state, playerID, card) {
		return GameState{}, fmt.Errorf("%w: %s by %s", ErrIllegalPlay, cardID, playerID)
	}

	next := state.Clone()
	p := &next.Players[idx]
	p.Hand = RemoveCards(p.Hand, []Card{card})
	if len(next.CurrentTrick.Cards) == 0 {
		suit := card.Suit
		next.CurrentTrick.LeadingSuit = &suit
	}
	next.CurrentTrick.Cards = append(next.CurrentTrick.Cards, PlayedCard{PlayerID: playerID, Card: card})
	if card.Suit == Hearts {
		next.HeartsBroken = true
	}
	next.CurrentPlayerIndex = (idx + 1) % NumPlayers
	return next, nil
}

// CompleteTrick awards a full trick to its winner, who leads next. After the
// last trick of the hand the scores are applied.
func CompleteTrick(state GameState) (GameState, error) {
	if !state.CurrentTrick.IsComplete() {
		return GameState{}, fmt.Errorf("%w: %d of %d cards", ErrTrickNotComplete, len(state.CurrentTrick.Cards), NumPlayers)
	}
	winnerID, ok := DetermineTrickWinner(state.CurrentTrick)
	if !ok {
		return GameState{}, fmt.Errorf("%w: no winner", ErrTrickNotComplete)
	}

	next := state.Clone()
	trick := next.CurrentTrick
	trick.WinnerID = winnerID
	won := make([]Card, 0, len(trick.Cards))
	for _, pc := range trick.Cards {
		won = append(won, pc.Card)
	}
	winner := next.PlayerIndex(winnerID)
	next.Players[winner].TricksTaken = append(next.Players[winner].TricksTaken, won)
	next.CurrentPlayerIndex = winner
	next.CompletedTricks = append(next.CompletedTricks, trick)
	next.CurrentTrick = Trick{Cards: []PlayedCard{}}
	next.FirstTrick = false

	if len(next.CompletedTricks) == TricksPerHand {
		return ApplyScores(next), nil
	}
	return next, nil
}

// StartNewHand moves a finished hand to the next deal, keeping cumulative scores.
func StartNewHand(state GameState, deck []Card) (GameState, error) {
	if state.Phase != PhaseHandComplete {
		return GameState{}, fmt.Errorf("%w: new hand during %s", ErrWrongPhase, state.Phase)
	}
	if !validateDeck(deck) {
		return GameState{}, ErrInvalidDeck
	}
	next := state.Clone()
	next.HandNumber++
	next.resetHand(deck)
	return next, nil
}
