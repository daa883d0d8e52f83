package bot

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"

	"hearts/internal/domain"
)

func TestGreedyBot_SelectCardsToPass(t *testing.T) {
	tests := []struct {
		name string
		hand []string
		want []string
	}{
		{
			name: "queen of spades and high hearts first",
			hand: []string{"2C", "AC", "3D", "QS", "AS", "2H", "QH", "AH"},
			want: []string{"QS", "AH", "QH"},
		},
		{
			name: "then descending rank",
			hand: []string{"2C", "KC", "9D", "AS", "5H", "JH"},
			want: []string{"AS", "KC", "JH"},
		},
		{
			name: "hearts win rank ties",
			hand: []string{"JC", "JD", "3S", "JH", "2H"},
			want: []string{"JH", "JC", "JD"},
		},
	}
	b := NewGreedyBot()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := b.SelectCardsToPass(cards(t, tt.hand...), domain.PassLeft)
			if err != nil {
				t.Fatalf("SelectCardsToPass: %v", err)
			}
			if diff := cmp.Diff(tt.want, cardIDs(got)); diff != "" {
				t.Errorf("pass mismatch (-want +got):\n%s", diff)
			}
		})
	}

	if _, err := b.SelectCardsToPass(cards(t, "2C", "3C"), domain.PassLeft); !errors.Is(err, ErrHandTooSmall) {
		t.Errorf("short hand err = %v", err)
	}
}

func TestGreedyBot_SelectCardToPlay(t *testing.T) {
	tests := []struct {
		name         string
		firstTrick   bool
		heartsBroken bool
		hand         []string
		table        []string
		want         string
	}{
		{
			name:       "opening lead",
			firstTrick: true,
			hand:       []string{"2C", "9C", "4D"},
			want:       "2C",
		},
		{
			name:         "lowest non-heart lead",
			heartsBroken: true,
			hand:         []string{"9C", "5D", "2H", "KS"},
			want:         "5D",
		},
		{
			name:         "only hearts left to lead",
			heartsBroken: true,
			hand:         []string{"9H", "4H", "KH"},
			want:         "4H",
		},
		{
			name:  "duck under points",
			hand:  []string{"3S", "9S", "KS"},
			table: []string{"10S", "5H"},
			want:  "3S",
		},
		{
			name:  "keep the queen when ducking",
			hand:  []string{"QS", "KS"},
			table: []string{"AS", "2H"},
			want:  "KS",
		},
		{
			name:  "queen forced",
			hand:  []string{"QS", "2D"},
			table: []string{"4S", "3H"},
			want:  "QS",
		},
		{
			name:  "shed high on a clean trick",
			hand:  []string{"3D", "JD", "AD", "2C"},
			table: []string{"5D"},
			want:  "AD",
		},
		{
			name:  "void and clean sheds highest",
			hand:  []string{"4C", "KC", "QS"},
			table: []string{"7D", "8D"},
			want:  "KC",
		},
	}
	b := NewGreedyBot()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := tableState(t, tt.firstTrick, tt.heartsBroken, cards(t, tt.hand...), tt.table...)
			got, err := b.SelectCardToPlay(s, "p0")
			if err != nil {
				t.Fatalf("SelectCardToPlay: %v", err)
			}
			if got.ID != tt.want {
				t.Errorf("played %s, want %s", got, tt.want)
			}
			if !domain.IsValidPlay(s, "p0", got) {
				t.Errorf("%s is not a legal play", got)
			}
		})
	}
}

func TestRandomBot(t *testing.T) {
	b := NewRandomBot(rand.New(rand.NewSource(1)))
	hand := cards(t, "2C", "5C", "9D", "QS", "3H", "AH")

	for i := 0; i < 50; i++ {
		got, err := b.SelectCardsToPass(hand, domain.PassAcross)
		if err != nil {
			t.Fatal(err)
		}
		if len(got) != domain.PassSize {
			t.Fatalf("passed %d cards", len(got))
		}
		seen := map[string]bool{}
		for _, c := range got {
			if seen[c.ID] || !domain.ContainsCard(hand, c.ID) {
				t.Fatalf("bad pass %v", cardIDs(got))
			}
			seen[c.ID] = true
		}
	}

	s := tableState(t, false, false, cards(t, "3C", "JC", "QS", "4H"), "8C")
	counts := map[string]int{}
	for i := 0; i < 200; i++ {
		c, err := b.SelectCardToPlay(s, "p0")
		if err != nil {
			t.Fatal(err)
		}
		counts[c.ID]++
	}
	if diff := cmp.Diff([]string{"3C", "JC"}, sortedKeys(counts)); diff != "" {
		t.Errorf("random bot played outside the legal set (-want +got):\n%s", diff)
	}
}

func sortedKeys(m map[string]int) []string {
	out := make([]string, 0, len(m))
	for _, id := range []string{"3C", "JC", "QS", "4H"} {
		if m[id] > 0 {
			out = append(out, id)
		}
	}
	return out
}

func TestSelectCardToPlayNoValidPlays(t *testing.T) {
	s := tableState(t, false, false, nil)
	for _, b := range []Brain{NewGreedyBot(), NewRandomBot(rand.New(rand.NewSource(2)))} {
		if _, err := b.SelectCardToPlay(s, "p0"); !errors.Is(err, ErrNoValidPlays) {
			t.Errorf("%T err = %v, want ErrNoValidPlays", b, err)
		}
	}
}
