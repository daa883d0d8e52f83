package sim

import (
	"errors"
	"testing"

	"hearts/internal/bot"
	"hearts/internal/domain"
)

var mixed = [domain.NumPlayers]bot.BotLevel{bot.BotLevelGreedy, bot.BotLevelRandom, bot.BotLevelGreedy, bot.BotLevelRandom}

func TestSelfPlayManySeeds(t *testing.T) {
	for seed := int64(1); seed <= 100; seed++ {
		res, err := RunGame(Config{Seed: seed, Levels: mixed})
		if err != nil {
			t.Fatalf("self-play failed: %v", err)
		}
		if res.Final.Phase != domain.PhaseGameOver {
			t.Fatalf("seed %d: phase = %s, want game_over", seed, res.Final.Phase)
		}
		top := 0
		for _, p := range res.Final.Players {
			if p.Score > top {
				top = p.Score
			}
		}
		if top < domain.GameOverScore {
			t.Fatalf("seed %d: game ended with top score %d", seed, top)
		}
		if len(res.Winners()) == 0 {
			t.Fatalf("seed %d: no winner", seed)
		}
	}
}

func TestRunGameDeterministic(t *testing.T) {
	a, err := RunGame(Config{Seed: 42, Levels: mixed})
	if err != nil {
		t.Fatal(err)
	}
	b, err := RunGame(Config{Seed: 42, Levels: mixed})
	if err != nil {
		t.Fatal(err)
	}
	if a.Steps != b.Steps || a.Hands != b.Hands {
		t.Fatalf("same seed diverged: %d/%d steps, %d/%d hands", a.Steps, b.Steps, a.Hands, b.Hands)
	}
	for i := range a.Standings {
		if a.Standings[i] != b.Standings[i] {
			t.Fatalf("standing %d differs: %+v vs %+v", i, a.Standings[i], b.Standings[i])
		}
	}
}

func TestRunGameStepLimit(t *testing.T) {
	_, err := RunGame(Config{Seed: 1, Levels: mixed, MaxSteps: 10})
	if err == nil {
		t.Fatal("RunGame() succeeded with a 10 step limit")
	}
}

func TestRunGameRejectsBadNames(t *testing.T) {
	_, err := RunGame(Config{Seed: 1, Levels: mixed, Names: []string{"a", "b", "c"}})
	if !errors.Is(err, domain.ErrInvalidPlayerCount) {
		t.Fatalf("RunGame() error = %v, want ErrInvalidPlayerCount", err)
	}
}

func TestCheckInvariants(t *testing.T) {
	base, err := domain.NewGame([]string{"a", "b", "c", "d"}, domain.NewDeck())
	if err != nil {
		t.Fatal(err)
	}
	dealt, err := domain.DealCards(base)
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name    string
		prev    domain.GameState
		next    func() domain.GameState
		wantErr bool
	}{
		{
			name:    "Dealt",
			prev:    base,
			next:    func() domain.GameState { return dealt },
			wantErr: false,
		},
		{
			name: "LostCard",
			prev: dealt,
			next: func() domain.GameState {
				s := dealt.Clone()
				s.Players[0].Hand = s.Players[0].Hand[1:]
				return s
			},
			wantErr: true,
		},
		{
			name: "DuplicateCard",
			prev: dealt,
			next: func() domain.GameState {
				s := dealt.Clone()
				s.Players[0].Hand[0] = s.Players[1].Hand[0]
				return s
			},
			wantErr: true,
		},
		{
			name: "HeartsUnbroken",
			prev: func() domain.GameState { s := dealt.Clone(); s.HeartsBroken = true; return s }(),
			next: func() domain.GameState { return dealt },
			wantErr: true,
		},
		{
			name: "ScoreDecreased",
			prev: func() domain.GameState { s := dealt.Clone(); s.Players[2].Score = 10; return s }(),
			next: func() domain.GameState { return dealt },
			wantErr: true,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			err := checkInvariants(test.prev, test.next())
			if (err != nil) != test.wantErr {
				t.Fatalf("checkInvariants() error = %v, wantErr %t", err, test.wantErr)
			}
		})
	}
}

func TestRunMany(t *testing.T) {
	summary, results, err := RunMany(7, 5, mixed)
	if err != nil {
		t.Fatal(err)
	}
	if summary.Games != 5 || len(results) != 5 {
		t.Fatalf("games = %d, results = %d, want 5", summary.Games, len(results))
	}
	wins := 0
	for _, seat := range summary.Seats {
		wins += seat.Wins
	}
	if wins < summary.Games {
		t.Fatalf("wins = %d over %d games", wins, summary.Games)
	}
	if summary.Seats[1].Level != bot.BotLevelRandom {
		t.Fatalf("seat 1 level = %v, want random", summary.Seats[1].Level)
	}
}

func FuzzSelfPlay(f *testing.F) {
	f.Add(int64(1))
	f.Add(int64(42))
	f.Add(int64(20250211))
	f.Fuzz(func(t *testing.T, seed int64) {
		if _, err := RunGame(Config{Seed: seed, Levels: mixed}); err != nil {
			t.Fatalf("self-play failed: %v", err)
		}
	})
}
