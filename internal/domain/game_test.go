package domain

import (
	"encoding/json"
	"errors"
	"math/rand"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestNewGame(t *testing.T) {
	deck := NewDeck()
	tests := []struct {
		name    string
		names   []string
		deck    []Card
		wantErr error
	}{
		{"ok", []string{"Ann", "Bob", "Cid", "Dee"}, deck, nil},
		{"three players", []string{"Ann", "Bob", "Cid"}, deck, ErrInvalidPlayerCount},
		{"five players", []string{"Ann", "Bob", "Cid", "Dee", "Eve"}, deck, ErrInvalidPlayerCount},
		{"duplicate name", []string{"Ann", "Bob", "Ann", "Dee"}, deck, ErrInvalidPlayerName},
		{"blank name", []string{"Ann", " ", "Cid", "Dee"}, deck, ErrInvalidPlayerName},
		{"short deck", []string{"Ann", "Bob", "Cid", "Dee"}, deck[:40], ErrInvalidDeck},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := NewGame(tt.names, tt.deck)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("err = %v, want %v", err, tt.wantErr)
			}
			if err != nil {
				return
			}
			if s.Phase != PhaseDealing || s.HandNumber != 0 || s.PassDirection != PassLeft {
				t.Errorf("unexpected start: phase %s hand %d dir %s", s.Phase, s.HandNumber, s.PassDirection)
			}
			if !s.FirstTrick || s.HeartsBroken {
				t.Errorf("flags: first trick %v hearts broken %v", s.FirstTrick, s.HeartsBroken)
			}
			if s.CardCount() != DeckSize {
				t.Errorf("card count = %d", s.CardCount())
			}
			for i, p := range s.Players {
				if p.ID != PlayerIDForSeat(i) || p.Name != tt.names[i] || len(p.Hand) != 0 {
					t.Errorf("player %d = %+v", i, p)
				}
			}
		})
	}
}

func TestPassDirectionForHand(t *testing.T) {
	want := []PassDirection{PassLeft, PassRight, PassAcross, PassNone, PassLeft, PassRight}
	for n, dir := range want {
		if got := PassDirectionForHand(n); got != dir {
			t.Errorf("hand %d: %s, want %s", n, got, dir)
		}
	}
}

func TestDealCards(t *testing.T) {
	s, err := NewGame([]string{"Ann", "Bob", "Cid", "Dee"}, NewDeck())
	if err != nil {
		t.Fatal(err)
	}
	dealt, err := DealCards(s)
	if err != nil {
		t.Fatalf("DealCards: %v", err)
	}
	if dealt.Phase != PhasePassing {
		t.Errorf("phase = %s, want passing", dealt.Phase)
	}
	if len(dealt.Deck) != 0 {
		t.Errorf("deck still holds %d cards", len(dealt.Deck))
	}
	// An unshuffled deck deals every fourth card to the same seat.
	want := []string{"2C", "6C", "10C", "AC", "5D", "9D", "KD", "4S", "8S", "QS", "3H", "7H", "JH"}
	if diff := cmp.Diff(want, ids(dealt.Players[0].Hand)); diff != "" {
		t.Errorf("seat 0 hand (-want +got):\n%s", diff)
	}
	if dealt.CurrentPlayerIndex != 0 {
		t.Errorf("current player = %d, want holder of 2C", dealt.CurrentPlayerIndex)
	}
	if len(s.Deck) != DeckSize {
		t.Error("DealCards mutated its input deck")
	}

	if _, err := DealCards(dealt); !errors.Is(err, ErrWrongPhase) {
		t.Errorf("second deal err = %v, want ErrWrongPhase", err)
	}
}

func TestDealCardsNoPassHand(t *testing.T) {
	s, err := NewGame([]string{"Ann", "Bob", "Cid", "Dee"}, NewDeck())
	if err != nil {
		t.Fatal(err)
	}
	s.HandNumber = 3
	s.PassDirection = PassDirectionForHand(3)
	dealt, err := DealCards(s)
	if err != nil {
		t.Fatal(err)
	}
	if dealt.Phase != PhasePlaying {
		t.Errorf("phase = %s, want playing", dealt.Phase)
	}
}

func TestDealtHandsAreSorted(t *testing.T) {
	s := dealtGame(t, 11)
	for _, p := range s.Players {
		if len(p.Hand) != HandSize {
			t.Fatalf("%s holds %d cards", p.ID, len(p.Hand))
		}
		for i := 1; i < len(p.Hand); i++ {
			if cardOrder(p.Hand[i-1]) >= cardOrder(p.Hand[i]) {
				t.Errorf("%s hand not sorted: %v", p.ID, ids(p.Hand))
				break
			}
		}
	}
	if !ContainsCard(s.Players[s.CurrentPlayerIndex].Hand, "2C") {
		t.Error("current player does not hold the Two of Clubs")
	}
}

func TestSelectCardToPass(t *testing.T) {
	s := dealtGame(t, 5)
	h := s.Players[0].Hand

	var err error
	for _, c := range h[:3] {
		if s, err = SelectCardToPass(s, "p0", c.ID); err != nil {
			t.Fatalf("select %s: %v", c, err)
		}
	}
	if !s.Players[0].IsReady {
		t.Error("three selections should mark the player ready")
	}
	if _, err := SelectCardToPass(s, "p0", h[3].ID); !errors.Is(err, ErrTooManySelected) {
		t.Errorf("fourth selection err = %v, want ErrTooManySelected", err)
	}

	toggled, err := SelectCardToPass(s, "p0", h[1].ID)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{h[0].ID, h[2].ID}, toggled.Players[0].SelectedCards); diff != "" {
		t.Errorf("after deselect (-want +got):\n%s", diff)
	}
	if toggled.Players[0].IsReady {
		t.Error("deselect should clear ready")
	}
	if len(s.Players[0].SelectedCards) != 3 {
		t.Error("SelectCardToPass mutated its input")
	}

	if _, err := SelectCardToPass(s, "p9", h[0].ID); !errors.Is(err, ErrUnknownPlayer) {
		t.Errorf("unknown player err = %v", err)
	}
	if _, err := SelectCardToPass(s, "p1", h[0].ID); !errors.Is(err, ErrCardNotInHand) {
		t.Errorf("foreign card err = %v", err)
	}
}

func selectFirstThree(t *testing.T, s GameState) GameState {
	t.Helper()
	for _, p := range s.Players {
		for _, c := range p.Hand[:PassSize] {
			var err error
			if s, err = SelectCardToPass(s, p.ID, c.ID); err != nil {
				t.Fatalf("select %s for %s: %v", c, p.ID, err)
			}
		}
	}
	return s
}

func TestExecutePass(t *testing.T) {
	tests := []struct {
		dir    PassDirection
		target func(i int) int
	}{
		{PassLeft, func(i int) int { return (i + 1) % NumPlayers }},
		{PassRight, func(i int) int { return (i + 3) % NumPlayers }},
		{PassAcross, func(i int) int { return (i + 2) % NumPlayers }},
	}
	for _, tt := range tests {
		t.Run(string(tt.dir), func(t *testing.T) {
			s := dealtGame(t, 21)
			s.PassDirection = tt.dir
			s = selectFirstThree(t, s)
			before := s.Clone()

			got, err := ExecutePass(s)
			if err != nil {
				t.Fatalf("ExecutePass: %v", err)
			}
			if got.Phase != PhasePlaying {
				t.Errorf("phase = %s", got.Phase)
			}
			for i, p := range before.Players {
				passed := p.Hand[:PassSize]
				recv := got.Players[tt.target(i)]
				for _, c := range passed {
					if !ContainsCard(recv.Hand, c.ID) {
						t.Errorf("%s passed %s but %s did not receive it", p.ID, c, recv.ID)
					}
					if ContainsCard(got.Players[i].Hand, c.ID) {
						t.Errorf("%s still holds passed %s", p.ID, c)
					}
				}
				if len(got.Players[i].Hand) != HandSize {
					t.Errorf("%s holds %d cards", p.ID, len(got.Players[i].Hand))
				}
				if got.Players[i].IsReady || len(got.Players[i].SelectedCards) != 0 {
					t.Errorf("%s selection not reset", p.ID)
				}
			}
			if !ContainsCard(got.Players[got.CurrentPlayerIndex].Hand, "2C") {
				t.Error("current player after pass does not hold 2C")
			}
			if diff := cmp.Diff(before, s); diff != "" {
				t.Errorf("ExecutePass mutated its input:\n%s", diff)
			}
		})
	}
}

func TestExecutePassErrors(t *testing.T) {
	s := dealtGame(t, 2)
	if _, err := ExecutePass(s); !errors.Is(err, ErrPlayersNotReady) {
		t.Errorf("nobody ready err = %v", err)
	}
	s.Phase = PhasePlaying
	_, err := ExecutePass(s)
	if !errors.Is(err, ErrPlayersNotReady) || !errors.Is(err, ErrWrongPhase) {
		t.Errorf("wrong phase err = %v, want both kinds", err)
	}
}

func TestPlayCard(t *testing.T) {
	s := playingState([NumPlayers][]Card{
		hand(t, "2C", "9H"),
		hand(t, "5C", "KH"),
		hand(t, "3D", "QS"),
		hand(t, "AC", "2H"),
	})

	if _, err := PlayCard(s, "p1", "5C"); !errors.Is(err, ErrNotYourTurn) {
		t.Errorf("out of turn err = %v", err)
	}
	if _, err := PlayCard(s, "p0", "9H"); !errors.Is(err, ErrIllegalPlay) {
		t.Errorf("illegal lead err = %v", err)
	}
	if _, err := PlayCard(s, "p0", "AS"); !errors.Is(err, ErrCardNotInHand) {
		t.Errorf("missing card err = %v", err)
	}

	next, err := PlayCard(s, "p0", "2C")
	if err != nil {
		t.Fatalf("PlayCard: %v", err)
	}
	if next.CurrentTrick.LeadingSuit == nil || *next.CurrentTrick.LeadingSuit != Clubs {
		t.Errorf("leading suit = %v", next.CurrentTrick.LeadingSuit)
	}
	if next.CurrentPlayerIndex != 1 {
		t.Errorf("current player = %d, want 1", next.CurrentPlayerIndex)
	}
	if diff := cmp.Diff([]string{"9H"}, ids(next.Players[0].Hand)); diff != "" {
		t.Errorf("hand after play (-want +got):\n%s", diff)
	}
	if len(s.Players[0].Hand) != 2 || len(s.CurrentTrick.Cards) != 0 {
		t.Error("PlayCard mutated its input")
	}

	// p2 is void in clubs on the first trick and must keep the Queen of Spades.
	next, err = PlayCard(next, "p1", "5C")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := PlayCard(next, "p2", "QS"); !errors.Is(err, ErrIllegalPlay) {
		t.Errorf("first trick QS err = %v", err)
	}
	if next, err = PlayCard(next, "p2", "3D"); err != nil {
		t.Fatal(err)
	}
	if next, err = PlayCard(next, "p3", "AC"); err != nil {
		t.Fatal(err)
	}
	if _, err := PlayCard(next, "p0", "9H"); !errors.Is(err, ErrTrickFull) {
		t.Errorf("full trick err = %v", err)
	} else if !strings.Contains(err.Error(), "p0 cannot play 9H") {
		t.Errorf("full trick err = %q, want player and card in the message", err)
	}

	s.Phase = PhasePassing
	_, err = PlayCard(s, "p0", "2C")
	if !errors.Is(err, ErrNotYourTurn) || !errors.Is(err, ErrWrongPhase) {
		t.Errorf("wrong phase err = %v, want both kinds", err)
	}
}

func TestPlayCardBreaksHearts(t *testing.T) {
	s := playingState([NumPlayers][]Card{
		hand(t, "3C"),
		hand(t, "7H"),
		hand(t, "4C"),
		hand(t, "5C"),
	})
	s.FirstTrick = false
	s, err := PlayCard(s, "p0", "3C")
	if err != nil {
		t.Fatal(err)
	}
	if s.HeartsBroken {
		t.Fatal("hearts broken too early")
	}
	s, err = PlayCard(s, "p1", "7H")
	if err != nil {
		t.Fatal(err)
	}
	if !s.HeartsBroken {
		t.Error("discarding a heart should break hearts")
	}
}

func TestCompleteTrick(t *testing.T) {
	s := playingState([NumPlayers][]Card{
		hand(t, "3D"),
		hand(t, "4D"),
		hand(t, "5D"),
		hand(t, "6D"),
	})
	if _, err := CompleteTrick(s); !errors.Is(err, ErrTrickNotComplete) {
		t.Errorf("empty trick err = %v", err)
	}

	full := withTrick(s, 1, hand(t, "2C", "KC", "AH", "5C")...)
	got, err := CompleteTrick(full)
	if err != nil {
		t.Fatalf("CompleteTrick: %v", err)
	}
	// Seats 1, 2, 3, 0 played; the King of Clubs from seat 2 wins.
	if got.CurrentPlayerIndex != 2 {
		t.Errorf("leader = %d, want 2", got.CurrentPlayerIndex)
	}
	if got.FirstTrick {
		t.Error("first trick flag not cleared")
	}
	if len(got.CompletedTricks) != 1 || got.CompletedTricks[0].WinnerID != "p2" {
		t.Errorf("completed tricks = %+v", got.CompletedTricks)
	}
	if len(got.CurrentTrick.Cards) != 0 || got.CurrentTrick.LeadingSuit != nil {
		t.Errorf("current trick not reset: %+v", got.CurrentTrick)
	}
	if diff := cmp.Diff([][]Card{hand(t, "2C", "KC", "AH", "5C")}, got.Players[2].TricksTaken); diff != "" {
		t.Errorf("tricks taken (-want +got):\n%s", diff)
	}
	if got.Phase != PhasePlaying {
		t.Errorf("phase = %s", got.Phase)
	}
}

// playHand plays the lowest legal card for every seat until the hand ends.
func playHand(t *testing.T, s GameState) GameState {
	t.Helper()
	for s.Phase == PhasePlaying {
		for !s.CurrentTrick.IsComplete() {
			p := s.Players[s.CurrentPlayerIndex]
			valid := ValidPlays(s, p.ID)
			if len(valid) == 0 {
				t.Fatalf("%s has no legal play", p.ID)
			}
			var err error
			if s, err = PlayCard(s, p.ID, valid[0].ID); err != nil {
				t.Fatalf("PlayCard: %v", err)
			}
			if s.CardCount() != DeckSize {
				t.Fatalf("card count = %d", s.CardCount())
			}
		}
		var err error
		if s, err = CompleteTrick(s); err != nil {
			t.Fatalf("CompleteTrick: %v", err)
		}
	}
	return s
}

func TestFullHand(t *testing.T) {
	s := dealtGame(t, 42)
	s = selectFirstThree(t, s)
	s, err := ExecutePass(s)
	if err != nil {
		t.Fatal(err)
	}
	s = playHand(t, s)

	if s.Phase != PhaseHandComplete {
		t.Fatalf("phase = %s, want hand_complete", s.Phase)
	}
	if len(s.CompletedTricks) != TricksPerHand {
		t.Errorf("completed tricks = %d", len(s.CompletedTricks))
	}
	total := 0
	for _, p := range s.Players {
		total += p.Score
		if p.Score != p.HandScore {
			t.Errorf("%s score %d != hand score %d after first hand", p.ID, p.Score, p.HandScore)
		}
	}
	if total != TotalPoints && total != 3*TotalPoints {
		t.Errorf("total points = %d", total)
	}

	next, err := StartNewHand(s, ShuffledDeck(rand.New(rand.NewSource(43))))
	if err != nil {
		t.Fatalf("StartNewHand: %v", err)
	}
	if next.HandNumber != 1 || next.PassDirection != PassRight || next.Phase != PhaseDealing {
		t.Errorf("next hand: number %d dir %s phase %s", next.HandNumber, next.PassDirection, next.Phase)
	}
	for i, p := range next.Players {
		if p.Score != s.Players[i].Score {
			t.Errorf("%s lost cumulative score", p.ID)
		}
		if p.HandScore != 0 || len(p.TricksTaken) != 0 || len(p.Hand) != 0 {
			t.Errorf("%s hand state not reset: %+v", p.ID, p)
		}
	}
	if !next.FirstTrick || next.HeartsBroken || len(next.CompletedTricks) != 0 {
		t.Error("hand flags not reset")
	}
	if next.CardCount() != DeckSize {
		t.Errorf("card count = %d", next.CardCount())
	}
}

func TestStartNewHandWrongPhase(t *testing.T) {
	s := dealtGame(t, 1)
	if _, err := StartNewHand(s, NewDeck()); !errors.Is(err, ErrWrongPhase) {
		t.Errorf("err = %v, want ErrWrongPhase", err)
	}
	s.Phase = PhaseHandComplete
	if _, err := StartNewHand(s, NewDeck()[:10]); !errors.Is(err, ErrInvalidDeck) {
		t.Errorf("err = %v, want ErrInvalidDeck", err)
	}
}

func TestCloneDoesNotAlias(t *testing.T) {
	s := withTrick(dealtGame(t, 9), 0, hand(t, "2C")...)
	s.Players[0].Hand = hand(t, "2D", "3D")
	s.Players[0].TricksTaken = [][]Card{hand(t, "3C", "4C", "5C", "6C")}
	s.Players[0].SelectedCards = []string{"AH"}
	s.CompletedTricks = []Trick{s.CurrentTrick}
	c := s.Clone()

	c.Players[0].Hand[0] = QueenOfSpades
	c.Players[0].TricksTaken[0][0] = QueenOfSpades
	c.Players[0].SelectedCards[0] = "QS"
	c.CurrentTrick.Cards[0].Card = QueenOfSpades
	*c.CurrentTrick.LeadingSuit = Hearts
	c.CompletedTricks[0].Cards[0].PlayerID = "p3"

	if s.Players[0].Hand[0].IsQueenOfSpades() ||
		s.Players[0].TricksTaken[0][0].IsQueenOfSpades() ||
		s.Players[0].SelectedCards[0] != "AH" ||
		s.CurrentTrick.Cards[0].Card.IsQueenOfSpades() ||
		*s.CurrentTrick.LeadingSuit != Clubs ||
		s.CompletedTricks[0].Cards[0].PlayerID != "p0" {
		t.Error("clone shares memory with the original")
	}
}

func TestStateJSONRoundTrip(t *testing.T) {
	s := dealtGame(t, 17)
	s = selectFirstThree(t, s)
	s, err := ExecutePass(s)
	if err != nil {
		t.Fatal(err)
	}
	p := s.Players[s.CurrentPlayerIndex]
	if s, err = PlayCard(s, p.ID, "2C"); err != nil {
		t.Fatal(err)
	}

	raw, err := json.Marshal(s)
	if err != nil {
		t.Fatal(err)
	}
	var back GameState
	if err := json.Unmarshal(raw, &back); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(s, back); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}
