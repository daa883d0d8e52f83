package sim

import (
	"hearts/internal/bot"
	"hearts/internal/domain"
)

// SeatSummary aggregates one seat over many games.
type SeatSummary struct {
	PlayerID   string
	Level      bot.BotLevel
	Wins       int
	TotalScore int
	MoonShots  int
}

// AverageScore is the mean final score per game.
func (s SeatSummary) AverageScore(games int) float64 {
	if games == 0 {
		return 0
	}
	return float64(s.TotalScore) / float64(games)
}

// Summary aggregates a batch of games. Shared first places count as a win for each.
type Summary struct {
	Games int
	Hands int
	Seats [domain.NumPlayers]SeatSummary
}

// RunMany plays games with consecutive seeds starting at seed.
func RunMany(seed int64, games int, levels [domain.NumPlayers]bot.BotLevel) (Summary, []Result, error) {
	var summary Summary
	for i := range summary.Seats {
		summary.Seats[i] = SeatSummary{PlayerID: domain.PlayerIDForSeat(i), Level: levels[i]}
	}

	results := make([]Result, 0, games)
	for g := 0; g < games; g++ {
		res, err := RunGame(Config{Seed: seed + int64(g), Levels: levels})
		if err != nil {
			return summary, results, err
		}
		results = append(results, res)
		summary.add(res)
	}
	return summary, results, nil
}

func (s *Summary) add(res Result) {
	s.Games++
	s.Hands += res.Hands
	for _, st := range res.Standings {
		seat := res.Final.PlayerIndex(st.PlayerID)
		if seat < 0 {
			continue
		}
		s.Seats[seat].TotalScore += st.Score
		if st.Place == 1 {
			s.Seats[seat].Wins++
		}
	}
	for id, n := range res.MoonShots {
		if seat := res.Final.PlayerIndex(id); seat >= 0 {
			s.Seats[seat].MoonShots += n
		}
	}
}
