package domain

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestPointValue(t *testing.T) {
	tests := []struct {
		card string
		want int
	}{
		{"2H", 1},
		{"AH", 1},
		{"QS", 13},
		{"KS", 0},
		{"QC", 0},
		{"2C", 0},
	}
	for _, tt := range tests {
		if got := PointValue(parseCard(t, tt.card)); got != tt.want {
			t.Errorf("PointValue(%s) = %d, want %d", tt.card, got, tt.want)
		}
	}
}

func allPointCards(t *testing.T) []Card {
	t.Helper()
	out := CardsOfSuit(NewDeck(), Hearts)
	return append(out, QueenOfSpades)
}

func TestHandScore(t *testing.T) {
	if got := HandScore(nil); got != 0 {
		t.Errorf("HandScore(nil) = %d", got)
	}
	tricks := [][]Card{hand(t, "2C", "3H", "4H", "5C"), hand(t, "QS", "2S", "3S", "4S")}
	if got := HandScore(tricks); got != 15 {
		t.Errorf("HandScore = %d, want 15", got)
	}
	if got := HandScore([][]Card{allPointCards(t)}); got != TotalPoints {
		t.Errorf("HandScore(all points) = %d, want %d", got, TotalPoints)
	}
}

func TestShootMoon(t *testing.T) {
	players := []Player{
		{ID: "p0", TricksTaken: [][]Card{hand(t, "2C", "3C", "4C", "5C")}},
		{ID: "p1", TricksTaken: [][]Card{allPointCards(t)}},
		{ID: "p2"},
		{ID: "p3"},
	}
	if id, ok := ShootMoon(players); !ok || id != "p1" {
		t.Errorf("ShootMoon = %q, %v; want p1", id, ok)
	}

	players[1].TricksTaken = [][]Card{hand(t, "QS", "2H")}
	players[2].TricksTaken = [][]Card{CardsOfSuit(NewDeck(), Hearts)[1:]}
	if id, ok := ShootMoon(players); ok {
		t.Errorf("split points reported a moon shot by %q", id)
	}
}

func scoredState(scores [NumPlayers]int, tricks [NumPlayers][][]Card) GameState {
	s := playingState([NumPlayers][]Card{})
	for i := range s.Players {
		s.Players[i].Score = scores[i]
		s.Players[i].TricksTaken = tricks[i]
	}
	return s
}

func TestApplyScores(t *testing.T) {
	t.Run("shoot the moon", func(t *testing.T) {
		s := scoredState([NumPlayers]int{10, 20, 30, 40}, [NumPlayers][][]Card{nil, {allPointCards(t)}, nil, nil})
		got := ApplyScores(s)

		var scores, handScores []int
		for _, p := range got.Players {
			scores = append(scores, p.Score)
			handScores = append(handScores, p.HandScore)
		}
		if diff := cmp.Diff([]int{36, 20, 56, 66}, scores); diff != "" {
			t.Errorf("scores (-want +got):\n%s", diff)
		}
		if diff := cmp.Diff([]int{26, 0, 26, 26}, handScores); diff != "" {
			t.Errorf("hand scores (-want +got):\n%s", diff)
		}
		if got.Phase != PhaseHandComplete {
			t.Errorf("phase = %s, want %s", got.Phase, PhaseHandComplete)
		}
		if s.Players[0].Score != 10 {
			t.Error("ApplyScores mutated its input")
		}
	})

	tests := []struct {
		name      string
		points    []string
		wantScore int
		wantPhase Phase
	}{
		{"reaches one hundred", []string{"2H", "3H"}, 100, PhaseGameOver},
		{"stops at ninety nine", []string{"2H"}, 99, PhaseHandComplete},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := scoredState([NumPlayers]int{98, 0, 0, 0}, [NumPlayers][][]Card{{hand(t, tt.points...)}})
			got := ApplyScores(s)
			if got.Players[0].Score != tt.wantScore {
				t.Errorf("score = %d, want %d", got.Players[0].Score, tt.wantScore)
			}
			if got.Phase != tt.wantPhase {
				t.Errorf("phase = %s, want %s", got.Phase, tt.wantPhase)
			}
		})
	}
}

func TestStandings(t *testing.T) {
	players := []Player{
		{ID: "p0", Name: "Ann", Score: 104},
		{ID: "p1", Name: "Bob", Score: 40},
		{ID: "p2", Name: "Cid", Score: 62},
		{ID: "p3", Name: "Dee", Score: 40},
	}
	want := []Standing{
		{Place: 1, PlayerID: "p1", Name: "Bob", Score: 40},
		{Place: 1, PlayerID: "p3", Name: "Dee", Score: 40},
		{Place: 3, PlayerID: "p2", Name: "Cid", Score: 62},
		{Place: 4, PlayerID: "p0", Name: "Ann", Score: 104},
	}
	if diff := cmp.Diff(want, Standings(players)); diff != "" {
		t.Errorf("Standings mismatch (-want +got):\n%s", diff)
	}
}
