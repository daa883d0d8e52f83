package bot

import (
	"fmt"
	"math/rand"
	"time"
)

// NewBrain creates a new AI brain based on the specified level. rng drives the
// random strategy; nil seeds one from the clock.
func NewBrain(level BotLevel, rng *rand.Rand) (Brain, error) {
	switch level {
	case BotLevelRandom:
		if rng == nil {
			rng = rand.New(rand.NewSource(time.Now().UnixNano()))
		}
		return &RandomBot{rng: rng}, nil
	case BotLevelGreedy:
		return NewGreedyBot(), nil
	default:
		return nil, fmt.Errorf("unknown bot level: %d", level)
	}
}
