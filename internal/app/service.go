package app

import (
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"hearts/internal/domain"
)

// Service contains Hearts use-cases operating on domain state.
type Service struct {
	rng *rand.Rand
}

// NewService constructs a Service with provided rng or a time-seeded default.
func NewService(rng *rand.Rand) *Service {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Service{rng: rng}
}

var (
	ErrNoGame   = errors.New("no game in progress")
	ErrGameOver = errors.New("game is over")
)

// Game is a running game. State is replaced wholesale by every successful action.
type Game struct {
	ID    string
	State domain.GameState
}

// NewGame creates and deals a game for four named players.
func (s *Service) NewGame(names []string) (*Game, []Event, error) {
	state, err := domain.NewGame(names, s.shuffledDeck())
	if err != nil {
		return nil, nil, err
	}
	g := &Game{ID: uuid.NewString(), State: state}

	players := make([]PlayerInfo, 0, domain.NumPlayers)
	for _, p := range state.Players {
		players = append(players, PlayerInfo{PlayerID: p.ID, Name: p.Name})
	}
	events := []Event{{
		Kind:    EventGameStarted,
		Payload: GameStartedPayload{GameID: g.ID, Players: players},
	}}

	dealt, err := s.deal(g)
	if err != nil {
		return nil, nil, err
	}
	return g, append(events, dealt...), nil
}

// deal deals the current hand and reports each player's cards privately.
func (s *Service) deal(g *Game) ([]Event, error) {
	next, err := domain.DealCards(g.State)
	if err != nil {
		return nil, err
	}
	g.State = next

	events := make([]Event, 0, domain.NumPlayers+1)
	events = append(events, Event{
		Kind: EventHandStarted,
		Payload: HandStartedPayload{
			HandNumber:    next.HandNumber,
			PassDirection: next.PassDirection,
			Phase:         next.Phase,
			FirstPlayerID: next.Players[next.CurrentPlayerIndex].ID,
		},
	})
	for _, p := range next.Players {
		events = append(events, Event{
			Kind:       EventHandDealt,
			Payload:    HandDealtPayload{PlayerID: p.ID, Hand: p.Hand},
			Recipients: []string{p.ID},
		})
	}
	return events, nil
}

// SelectPassCard toggles a pass selection and tells only the selecting player.
func (s *Service) SelectPassCard(g *Game, playerID, cardID string) ([]Event, error) {
	if err := check(g); err != nil {
		return nil, err
	}
	next, err := domain.SelectCardToPass(g.State, playerID, cardID)
	if err != nil {
		return nil, err
	}
	g.State = next

	p, _ := next.Player(playerID)
	return []Event{{
		Kind:       EventPassSelection,
		Payload:    PassSelectionPayload{PlayerID: p.ID, SelectedCards: p.SelectedCards, IsReady: p.IsReady},
		Recipients: []string{p.ID},
	}}, nil
}

// AllReady reports whether every player has chosen three cards to pass.
func (g *Game) AllReady() bool {
	for _, p := range g.State.Players {
		if !p.IsReady {
			return false
		}
	}
	return true
}

// ExecutePass performs the exchange and tells each player what they gave and got.
func (s *Service) ExecutePass(g *Game) ([]Event, error) {
	if err := check(g); err != nil {
		return nil, err
	}
	before := g.State
	next, err := domain.ExecutePass(before)
	if err != nil {
		return nil, err
	}
	g.State = next

	events := make([]Event, 0, domain.NumPlayers)
	for i, p := range next.Players {
		old := before.Players[i]
		given := make([]domain.Card, 0, domain.PassSize)
		for _, id := range old.SelectedCards {
			if c, ok := domain.FindCard(old.Hand, id); ok {
				given = append(given, c)
			}
		}
		received := make([]domain.Card, 0, domain.PassSize)
		for _, c := range p.Hand {
			if !domain.ContainsCard(old.Hand, c.ID) {
				received = append(received, c)
			}
		}
		events = append(events, Event{
			Kind:       EventCardsPassed,
			Payload:    CardsPassedPayload{PlayerID: p.ID, Given: given, Received: received, Hand: p.Hand},
			Recipients: []string{p.ID},
		})
	}
	return events, nil
}

// PlayCard plays a card for playerID. A full trick stays on the table until CompleteTrick.
func (s *Service) PlayCard(g *Game, playerID, cardID string) ([]Event, error) {
	if err := check(g); err != nil {
		return nil, err
	}
	next, err := domain.PlayCard(g.State, playerID, cardID)
	if err != nil {
		return nil, err
	}
	g.State = next

	trick := next.CurrentTrick
	played := trick.Cards[len(trick.Cards)-1]
	return []Event{{
		Kind: EventCardPlayed,
		Payload: CardPlayedPayload{
			PlayerID:     playerID,
			Card:         played.Card,
			NextPlayerID: next.Players[next.CurrentPlayerIndex].ID,
			HeartsBroken: next.HeartsBroken,
			TrickFull:    trick.IsComplete(),
		},
	}}, nil
}

// CompleteTrick collects a full trick and reports scoring when the hand ends.
func (s *Service) CompleteTrick(g *Game) ([]Event, error) {
	if err := check(g); err != nil {
		return nil, err
	}
	next, err := domain.CompleteTrick(g.State)
	if err != nil {
		return nil, err
	}
	g.State = next

	last := next.CompletedTricks[len(next.CompletedTricks)-1]
	points := 0
	for _, pc := range last.Cards {
		points += domain.PointValue(pc.Card)
	}
	events := []Event{{
		Kind:    EventTrickCompleted,
		Payload: TrickCompletedPayload{WinnerID: last.WinnerID, Cards: last.Cards, Points: points},
	}}

	if next.Phase != domain.PhaseHandComplete && next.Phase != domain.PhaseGameOver {
		return events, nil
	}

	scored := HandScoredPayload{
		HandNumber: next.HandNumber,
		HandScores: make(map[string]int, domain.NumPlayers),
		Scores:     make(map[string]int, domain.NumPlayers),
	}
	if id, ok := domain.ShootMoon(next.Players[:]); ok {
		scored.MoonShooter = id
	}
	for _, p := range next.Players {
		scored.HandScores[p.ID] = p.HandScore
		scored.Scores[p.ID] = p.Score
	}
	events = append(events, Event{Kind: EventHandScored, Payload: scored})

	if next.Phase == domain.PhaseGameOver {
		events = append(events, Event{
			Kind:    EventGameEnded,
			Payload: GameEndedPayload{Standings: domain.Standings(next.Players[:])},
		})
	}
	return events, nil
}

// StartNextHand shuffles a fresh deck and deals the next hand.
func (s *Service) StartNextHand(g *Game) ([]Event, error) {
	if err := check(g); err != nil {
		return nil, err
	}
	next, err := domain.StartNewHand(g.State, s.shuffledDeck())
	if err != nil {
		return nil, err
	}
	g.State = next
	return s.deal(g)
}

func (s *Service) shuffledDeck() []domain.Card {
	return domain.ShuffledDeck(s.rng)
}

func check(g *Game) error {
	if g == nil {
		return ErrNoGame
	}
	if g.State.Phase == domain.PhaseGameOver {
		return fmt.Errorf("%w: game %s", ErrGameOver, g.ID)
	}
	return nil
}
