package bot

import (
	botinternal "hearts/internal/bot/internal"
	"hearts/internal/domain"
)

// PlayContext holds the state for the card selection pipeline.
type PlayContext struct {
	State    domain.GameState
	PlayerID string
	Valid    []domain.Card
	Choice   *domain.Card
}

// PlayRule is one step of a play pipeline. A rule that sets ctx.Choice ends the pipeline.
type PlayRule interface {
	Name() string
	Apply(ctx *PlayContext)
}

func (ctx *PlayContext) choose(c domain.Card, ok bool) {
	if ok {
		ctx.Choice = &c
	}
}

func (ctx *PlayContext) leading() bool {
	return len(ctx.State.CurrentTrick.Cards) == 0
}

// SafeLeadRule leads the lowest non-Heart, or the lowest card when only Hearts are legal.
type SafeLeadRule struct{}

func (r *SafeLeadRule) Name() string { return "SafeLead" }

func (r *SafeLeadRule) Apply(ctx *PlayContext) {
	if !ctx.leading() {
		return
	}
	if c, ok := botinternal.Lowest(botinternal.Without(ctx.Valid, botinternal.IsHeart)); ok {
		ctx.choose(c, true)
		return
	}
	ctx.choose(botinternal.Lowest(ctx.Valid))
}

// DuckPointsRule plays low into a trick that already holds points, keeping the
// Queen of Spades unless it is the only legal card.
type DuckPointsRule struct{}

func (r *DuckPointsRule) Name() string { return "DuckPoints" }

func (r *DuckPointsRule) Apply(ctx *PlayContext) {
	if ctx.leading() || !domain.TrickContainsPoints(ctx.State.CurrentTrick) {
		return
	}
	if c, ok := botinternal.Lowest(botinternal.Without(ctx.Valid, botinternal.IsQueenOfSpades)); ok {
		ctx.choose(c, true)
		return
	}
	ctx.choose(botinternal.Lowest(ctx.Valid))
}

// ShedHighRule plays the highest legal card into a trick with no points yet.
type ShedHighRule struct{}

func (r *ShedHighRule) Name() string { return "ShedHigh" }

func (r *ShedHighRule) Apply(ctx *PlayContext) {
	ctx.choose(botinternal.Highest(ctx.Valid))
}

// runPipeline applies rules in order until one makes a choice.
func runPipeline(rules []PlayRule, ctx *PlayContext) (domain.Card, bool) {
	for _, r := range rules {
		r.Apply(ctx)
		if ctx.Choice != nil {
			return *ctx.Choice, true
		}
	}
	return domain.Card{}, false
}
