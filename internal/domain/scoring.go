package domain

import "sort"

const (
	// GameOverScore ends the game once any cumulative score reaches it.
	GameOverScore = 100
	// TotalPoints is the number of points in one hand.
	TotalPoints = 26
)

// PointValue is 1 for a Heart, 13 for the Queen of Spades and 0 otherwise.
func PointValue(c Card) int {
	switch {
	case c.Suit == Hearts:
		return 1
	case c.IsQueenOfSpades():
		return 13
	default:
		return 0
	}
}

// HandScore sums the point value of every card in the won tricks.
func HandScore(tricks [][]Card) int {
	total := 0
	for _, t := range tricks {
		for _, c := range t {
			total += PointValue(c)
		}
	}
	return total
}

// ShootMoon returns the player who took all 26 points this hand.
func ShootMoon(players []Player) (string, bool) {
	for _, p := range players {
		if HandScore(p.TricksTaken) == TotalPoints {
			return p.ID, true
		}
	}
	return "", false
}

// ApplyScores records each player's hand score, adds it to the cumulative
// scores and moves the game to hand_complete or game_over.
//
// A player who shoots the moon keeps their score and shows a hand score of 0;
// everyone else takes 26.
func ApplyScores(state GameState) GameState {
	next := state.Clone()
	shooter, moon := ShootMoon(next.Players[:])
	for i := range next.Players {
		p := &next.Players[i]
		switch {
		case moon && p.ID == shooter:
			p.HandScore = 0
		case moon:
			p.HandScore = TotalPoints
		default:
			p.HandScore = HandScore(p.TricksTaken)
		}
		p.Score += p.HandScore
	}

	next.Phase = PhaseHandComplete
	for _, p := range next.Players {
		if p.Score >= GameOverScore {
			next.Phase = PhaseGameOver
			break
		}
	}
	return next
}

// Standing is one row of the final table.
type Standing struct {
	Place    int    `json:"place"`
	PlayerID string `json:"player_id"`
	Name     string `json:"name"`
	Score    int    `json:"score"`
}

// Standings ranks players by ascending cumulative score; the lowest score wins.
// Tied players share a place and keep seat order.
func Standings(players []Player) []Standing {
	out := make([]Standing, len(players))
	for i, p := range players {
		out[i] = Standing{PlayerID: p.ID, Name: p.Name, Score: p.Score}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Score < out[j].Score })
	for i := range out {
		if i > 0 && out[i].Score == out[i-1].Score {
			out[i].Place = out[i-1].Place
		} else {
			out[i].Place = i + 1
		}
	}
	return out
}
