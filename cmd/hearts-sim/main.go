// Command hearts-sim plays bot-only Hearts games and prints standings.
package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/pterm/pterm"

	"hearts/internal/bot"
	"hearts/internal/domain"
	"hearts/internal/sim"
)

func main() {
	games := flag.Int("games", 20, "number of games to play")
	seed := flag.Int64("seed", 1, "seed of the first game; later games use consecutive seeds")
	levels := flag.String("levels", "greedy,random,greedy,random", "comma separated bot level per seat")
	verbose := flag.Bool("v", false, "print standings and the last trick of every game")
	flag.Parse()

	seatLevels, err := parseLevels(*levels)
	if err != nil {
		pterm.Error.Println(err)
		os.Exit(2)
	}
	if *games <= 0 {
		pterm.Error.Println("games must be positive")
		os.Exit(2)
	}

	pterm.DefaultHeader.Println("Hearts self-play")
	pterm.Info.Printfln("Playing %d games from seed %d with levels %s", *games, *seed, *levels)

	summary, results, err := sim.RunMany(*seed, *games, seatLevels)
	if err != nil {
		pterm.Error.Printfln("Simulation failed after %d games:\n%v", len(results), err)
		os.Exit(1)
	}

	if *verbose {
		for _, res := range results {
			printGame(res)
		}
	}
	printSummary(summary)
}

func parseLevels(s string) ([domain.NumPlayers]bot.BotLevel, error) {
	var out [domain.NumPlayers]bot.BotLevel
	parts := strings.Split(s, ",")
	if len(parts) != domain.NumPlayers {
		return out, fmt.Errorf("need %d levels, got %d", domain.NumPlayers, len(parts))
	}
	for i, part := range parts {
		level, err := bot.ParseLevel(part)
		if err != nil {
			return out, err
		}
		out[i] = level
	}
	return out, nil
}

func printGame(res sim.Result) {
	pterm.DefaultSection.Printfln("Seed %d: %d hands, %d steps", res.Seed, res.Hands, res.Steps)
	data := pterm.TableData{{"Place", "Player", "Score", "Moons"}}
	for _, s := range res.Standings {
		data = append(data, []string{
			strconv.Itoa(s.Place),
			s.Name,
			strconv.Itoa(s.Score),
			strconv.Itoa(res.MoonShots[s.PlayerID]),
		})
	}
	if err := pterm.DefaultTable.WithHasHeader().WithData(data).Render(); err != nil {
		pterm.Error.Println(err)
	}

	if n := len(res.Final.CompletedTricks); n > 0 {
		last := res.Final.CompletedTricks[n-1]
		cards := make([]string, 0, len(last.Cards))
		for _, pc := range last.Cards {
			cards = append(cards, formatCard(pc.Card))
		}
		pterm.Info.Printfln("Last trick: %s (won by %s)", strings.Join(cards, " "), last.WinnerID)
	}
}

func printSummary(summary sim.Summary) {
	pterm.DefaultSection.Println("Summary")
	data := pterm.TableData{{"Seat", "Level", "Wins", "Win %", "Avg score", "Moons"}}
	for _, seat := range summary.Seats {
		winRate := 100 * float64(seat.Wins) / float64(summary.Games)
		data = append(data, []string{
			seat.PlayerID,
			seat.Level.String(),
			strconv.Itoa(seat.Wins),
			fmt.Sprintf("%.1f", winRate),
			fmt.Sprintf("%.1f", seat.AverageScore(summary.Games)),
			strconv.Itoa(seat.MoonShots),
		})
	}
	if err := pterm.DefaultTable.WithHasHeader().WithBoxed().WithData(data).Render(); err != nil {
		pterm.Error.Println(err)
	}
	pterm.Success.Printfln("%d games, %d hands", summary.Games, summary.Hands)
}

func formatCard(c domain.Card) string {
	var suit string
	switch c.Suit {
	case domain.Clubs:
		suit = pterm.Gray("♣")
	case domain.Diamonds:
		suit = pterm.LightRed("♦")
	case domain.Hearts:
		suit = pterm.LightRed("♥")
	default:
		suit = pterm.Gray("♠")
	}
	return c.Rank.String() + suit
}
