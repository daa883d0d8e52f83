// Package sim drives bots through complete games and checks engine invariants
// after every transition.
package sim

import (
	"errors"
	"fmt"
	"math/rand"
	"strings"

	"hearts/internal/app"
	"hearts/internal/bot"
	"hearts/internal/domain"
)

// DefaultMaxSteps bounds a single game; a real game needs a few hundred steps.
const DefaultMaxSteps = 20000

// ErrStepLimit is returned when a game does not finish within MaxSteps.
var ErrStepLimit = errors.New("step limit reached")

// Config describes one self-play game.
type Config struct {
	Seed     int64
	Levels   [domain.NumPlayers]bot.BotLevel
	Names    []string
	MaxSteps int
}

// ActionRecord is one applied action, kept for failure reports.
type ActionRecord struct {
	Hand     int
	Step     int
	Phase    domain.Phase
	PlayerID string
	Action   string
}

func (r ActionRecord) String() string {
	return fmt.Sprintf("[h%d s%d %s %s] %s", r.Hand, r.Step, r.PlayerID, r.Phase, r.Action)
}

// Result summarises a finished game.
type Result struct {
	Seed      int64
	GameID    string
	Hands     int
	Steps     int
	Standings []domain.Standing
	MoonShots map[string]int
	Final     domain.GameState
}

// Winners returns the ids of every player in first place.
func (r Result) Winners() []string {
	var out []string
	for _, s := range r.Standings {
		if s.Place == 1 {
			out = append(out, s.PlayerID)
		}
	}
	return out
}

type runner struct {
	cfg     Config
	svc     *app.Service
	game    *app.Game
	agents  [domain.NumPlayers]*bot.Agent
	records []ActionRecord
	moons   map[string]int
	step    int
}

// RunGame plays one game to completion.
func RunGame(cfg Config) (Result, error) {
	if cfg.MaxSteps <= 0 {
		cfg.MaxSteps = DefaultMaxSteps
	}
	names := cfg.Names
	if len(names) == 0 {
		names = make([]string, domain.NumPlayers)
		for i := range names {
			names[i] = fmt.Sprintf("%s-%d", cfg.Levels[i], i+1)
		}
	}

	r := &runner{
		cfg:   cfg,
		svc:   app.NewService(rand.New(rand.NewSource(cfg.Seed))),
		moons: make(map[string]int),
	}
	game, events, err := r.svc.NewGame(names)
	if err != nil {
		return Result{}, err
	}
	for i, p := range game.State.Players {
		brain, err := bot.NewBrain(cfg.Levels[i], rand.New(rand.NewSource(cfg.Seed+int64(i)+1)))
		if err != nil {
			return Result{}, err
		}
		r.agents[i] = &bot.Agent{ID: p.ID, Name: p.Name, Strategy: brain}
	}
	r.game = game
	r.observe(events)
	if err := checkInvariants(domain.GameState{}, game.State); err != nil {
		return Result{}, r.failure("", err.Error())
	}

	for game.State.Phase != domain.PhaseGameOver {
		if r.step >= cfg.MaxSteps {
			return Result{}, r.failure("", ErrStepLimit.Error())
		}
		if err := r.advance(); err != nil {
			return Result{}, err
		}
	}

	final := game.State
	return Result{
		Seed:      cfg.Seed,
		GameID:    game.ID,
		Hands:     final.HandNumber + 1,
		Steps:     r.step,
		Standings: domain.Standings(final.Players[:]),
		MoonShots: r.moons,
		Final:     final,
	}, nil
}

// advance applies the next action for the current phase.
func (r *runner) advance() error {
	state := r.game.State
	switch state.Phase {
	case domain.PhasePassing:
		for i, agent := range r.agents {
			if state.Players[i].IsReady {
				continue
			}
			cards, err := agent.ChoosePass(r.game.State)
			if err != nil {
				return r.failure(agent.ID, fmt.Sprintf("choose pass: %v", err))
			}
			for _, c := range cards {
				if err := r.apply(agent.ID, "select "+c.ID, func() ([]app.Event, error) {
					return r.svc.SelectPassCard(r.game, agent.ID, c.ID)
				}); err != nil {
					return err
				}
			}
		}
		return r.apply("", "pass "+string(state.PassDirection), func() ([]app.Event, error) {
			return r.svc.ExecutePass(r.game)
		})

	case domain.PhasePlaying:
		if state.CurrentTrick.IsComplete() {
			return r.apply("", "complete trick", func() ([]app.Event, error) {
				return r.svc.CompleteTrick(r.game)
			})
		}
		agent := r.agents[state.CurrentPlayerIndex]
		card, err := agent.Play(state)
		if err != nil {
			return r.failure(agent.ID, fmt.Sprintf("choose play: %v", err))
		}
		return r.apply(agent.ID, "play "+card.ID, func() ([]app.Event, error) {
			return r.svc.PlayCard(r.game, agent.ID, card.ID)
		})

	case domain.PhaseHandComplete:
		return r.apply("", "next hand", func() ([]app.Event, error) {
			return r.svc.StartNextHand(r.game)
		})
	}
	return r.failure("", fmt.Sprintf("unexpected phase %s", state.Phase))
}

func (r *runner) apply(playerID, action string, fn func() ([]app.Event, error)) error {
	prev := r.game.State
	r.step++
	r.records = append(r.records, ActionRecord{
		Hand:     prev.HandNumber,
		Step:     r.step,
		Phase:    prev.Phase,
		PlayerID: playerID,
		Action:   action,
	})
	events, err := fn()
	if err != nil {
		return r.failure(playerID, fmt.Sprintf("apply error: %v", err))
	}
	r.observe(events)
	if err := checkInvariants(prev, r.game.State); err != nil {
		return r.failure(playerID, err.Error())
	}
	return nil
}

func (r *runner) observe(events []app.Event) {
	for _, ev := range events {
		if p, ok := ev.Payload.(app.HandScoredPayload); ok && p.MoonShooter != "" {
			r.moons[p.MoonShooter]++
		}
	}
}

// checkInvariants compares consecutive states. prev is the zero state before the first deal.
func checkInvariants(prev, next domain.GameState) error {
	if n := next.CardCount(); n != domain.DeckSize {
		return fmt.Errorf("card count mismatch: %d", n)
	}
	if id, dup := duplicateCard(next); dup {
		return fmt.Errorf("duplicate card detected: %s", id)
	}
	if n := len(next.CurrentTrick.Cards); n > domain.NumPlayers {
		return fmt.Errorf("invalid trick size: %d", n)
	}
	if prev.HeartsBroken && !next.HeartsBroken && prev.HandNumber == next.HandNumber {
		return fmt.Errorf("hearts un-broken within hand %d", next.HandNumber)
	}
	for i := range next.Players {
		if next.Players[i].Score < prev.Players[i].Score {
			return fmt.Errorf("score of %s decreased from %d to %d", next.Players[i].ID, prev.Players[i].Score, next.Players[i].Score)
		}
	}

	switch next.Phase {
	case domain.PhasePlaying:
		if !next.CurrentTrick.IsComplete() {
			current := next.CurrentPlayer()
			if len(domain.ValidPlays(next, current.ID)) == 0 {
				return fmt.Errorf("no valid plays for %s holding %d cards", current.ID, len(current.Hand))
			}
		}
	case domain.PhaseHandComplete, domain.PhaseGameOver:
		if prev.Phase != domain.PhasePlaying {
			break
		}
		total := 0
		for _, p := range next.Players {
			total += p.HandScore
		}
		if total != domain.TotalPoints && total != 3*domain.TotalPoints {
			return fmt.Errorf("hand %d distributed %d points", next.HandNumber, total)
		}
	}
	return nil
}

func duplicateCard(state domain.GameState) (string, bool) {
	seen := make(map[string]bool, domain.DeckSize)
	check := func(cards []domain.Card) (string, bool) {
		for _, c := range cards {
			if seen[c.ID] {
				return c.ID, true
			}
			seen[c.ID] = true
		}
		return "", false
	}
	if id, dup := check(state.Deck); dup {
		return id, true
	}
	for _, p := range state.Players {
		if id, dup := check(p.Hand); dup {
			return id, true
		}
	}
	for _, pc := range state.CurrentTrick.Cards {
		if id, dup := check([]domain.Card{pc.Card}); dup {
			return id, true
		}
	}
	for _, t := range state.CompletedTricks {
		for _, pc := range t.Cards {
			if id, dup := check([]domain.Card{pc.Card}); dup {
				return id, true
			}
		}
	}
	return "", false
}

func (r *runner) failure(playerID, reason string) error {
	start := 0
	if len(r.records) > 20 {
		start = len(r.records) - 20
	}
	var log strings.Builder
	for _, rec := range r.records[start:] {
		log.WriteString(rec.String())
		log.WriteByte('\n')
	}
	phase := domain.Phase("")
	hand := 0
	if r.game != nil {
		phase = r.game.State.Phase
		hand = r.game.State.HandNumber
	}
	return fmt.Errorf("seed=%d hand=%d step=%d phase=%s player=%s reason=%s\nlast actions:\n%s",
		r.cfg.Seed, hand, r.step, phase, playerID, reason, log.String())
}
