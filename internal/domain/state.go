package domain

import "strconv"

// Phase represents the lifecycle stage of a hand.
type Phase string

const (
	// PhaseDealing is the state before cards are dealt for the hand.
	PhaseDealing Phase = "dealing"
	// PhasePassing is the state where each player picks three cards to pass.
	PhasePassing Phase = "passing"
	// PhasePlaying is the state where tricks are played.
	PhasePlaying Phase = "playing"
	// PhaseHandComplete is the state after a hand was scored and the game goes on.
	PhaseHandComplete Phase = "hand_complete"
	// PhaseGameOver is the terminal state once a player reaches GameOverScore.
	PhaseGameOver Phase = "game_over"
)

// PassDirection determines who receives a player's passed cards.
type PassDirection string

const (
	PassLeft   PassDirection = "left"
	PassRight  PassDirection = "right"
	PassAcross PassDirection = "across"
	PassNone   PassDirection = "none"
)

var passCycle = [...]PassDirection{PassLeft, PassRight, PassAcross, PassNone}

// PassDirectionForHand returns the pass direction used for the given hand number.
func PassDirectionForHand(handNumber int) PassDirection {
	n := handNumber % len(passCycle)
	if n < 0 {
		n += len(passCycle)
	}
	return passCycle[n]
}

const (
	// NumPlayers is the fixed table size.
	NumPlayers = 4
	// HandSize is the number of cards dealt to each player.
	HandSize = 13
	// PassSize is the number of cards each player passes.
	PassSize = 3
	// TricksPerHand is the number of tricks in a hand.
	TricksPerHand = 13
)

// Player holds the state of one seat.
type Player struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	Hand          []Card   `json:"hand"`
	TricksTaken   [][]Card `json:"tricks_taken"`
	Score         int      `json:"score"`
	HandScore     int      `json:"hand_score"`
	SelectedCards []string `json:"selected_cards"`
	IsReady       bool     `json:"is_ready"`
}

// PlayedCard is one entry of a trick.
type PlayedCard struct {
	PlayerID string `json:"player_id"`
	Card     Card   `json:"card"`
}

// Trick is the set of cards played in one round, in play order.
type Trick struct {
	Cards       []PlayedCard `json:"cards"`
	LeadingSuit *Suit        `json:"leading_suit,omitempty"`
	WinnerID    string       `json:"winner_id,omitempty"`
}

// IsComplete reports whether every player has played to the trick.
func (t Trick) IsComplete() bool {
	return len(t.Cards) == NumPlayers
}

// GameState is an immutable snapshot of a game. Transitions return new values.
type GameState struct {
	Phase              Phase              `json:"phase"`
	Players            [NumPlayers]Player `json:"players"`
	CurrentPlayerIndex int                `json:"current_player_index"`
	CurrentTrick       Trick              `json:"current_trick"`
	CompletedTricks    []Trick            `json:"completed_tricks"`
	PassDirection      PassDirection      `json:"pass_direction"`
	HeartsBroken       bool               `json:"hearts_broken"`
	FirstTrick         bool               `json:"first_trick"`
	HandNumber         int                `json:"hand_number"`
	Deck               []Card             `json:"deck"`
}

// Clone returns a deep copy that shares no slices with s.
func (s GameState) Clone() GameState {
	out := s
	for i := range s.Players {
		out.Players[i] = s.Players[i].clone()
	}
	out.CurrentTrick = s.CurrentTrick.clone()
	if s.CompletedTricks != nil {
		out.CompletedTricks = make([]Trick, len(s.CompletedTricks))
		for i, t := range s.CompletedTricks {
			out.CompletedTricks[i] = t.clone()
		}
	}
	out.Deck = cloneCards(s.Deck)
	return out
}

func (p Player) clone() Player {
	out := p
	out.Hand = cloneCards(p.Hand)
	if p.TricksTaken != nil {
		out.TricksTaken = make([][]Card, len(p.TricksTaken))
		for i, t := range p.TricksTaken {
			out.TricksTaken[i] = cloneCards(t)
		}
	}
	if p.SelectedCards != nil {
		out.SelectedCards = append([]string{}, p.SelectedCards...)
	}
	return out
}

func (t Trick) clone() Trick {
	out := t
	if t.Cards != nil {
		out.Cards = append([]PlayedCard{}, t.Cards...)
	}
	if t.LeadingSuit != nil {
		s := *t.LeadingSuit
		out.LeadingSuit = &s
	}
	return out
}

func cloneCards(cards []Card) []Card {
	if cards == nil {
		return nil
	}
	return append([]Card{}, cards...)
}

// PlayerIndex returns the seat index of the player with the given id, or -1.
func (s GameState) PlayerIndex(playerID string) int {
	for i, p := range s.Players {
		if p.ID == playerID {
			return i
		}
	}
	return -1
}

// Player returns a copy of the player with the given id.
func (s GameState) Player(playerID string) (Player, bool) {
	idx := s.PlayerIndex(playerID)
	if idx < 0 {
		return Player{}, false
	}
	return s.Players[idx].clone(), true
}

// CurrentPlayer returns a copy of the player whose turn it is.
func (s GameState) CurrentPlayer() Player {
	return s.Players[s.CurrentPlayerIndex].clone()
}

// CardCount returns the number of cards in the undealt deck, hands, the current
// trick and completed tricks. It is DeckSize for every reachable state.
func (s GameState) CardCount() int {
	n := len(s.Deck) + len(s.CurrentTrick.Cards)
	for _, p := range s.Players {
		n += len(p.Hand)
	}
	for _, t := range s.CompletedTricks {
		n += len(t.Cards)
	}
	return n
}

// PlayerIDForSeat returns the player id assigned to a seat index.
func PlayerIDForSeat(seat int) string {
	return "p" + strconv.Itoa(seat)
}
