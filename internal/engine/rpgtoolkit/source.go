// Package rpgtoolkit connects the game to rpg-toolkit: dice rolls feed the
// random source, and game events are published on a toolkit event bus.
package rpgtoolkit

import (
	"log/slog"

	"github.com/KirkDiggler/rpg-toolkit/dice"

	"github.com/KirkDiggler/rpg-dungeon/internal/errors"
	"github.com/KirkDiggler/rpg-dungeon/internal/pkg/random"
)

// DiceResolution is the die size rolled for one uniform value
const DiceResolution = 1 << 24

// DiceSourceConfig configures a DiceSource
type DiceSourceConfig struct {
	Roller dice.Roller
	// Fallback answers when the roller fails
	Fallback random.Source
}

// Validate checks that all required dependencies are provided
func (c *DiceSourceConfig) Validate() error {
	vb := errors.NewValidationBuilder()
	if c.Roller == nil {
		vb.RequiredField("Roller")
	}
	if c.Fallback == nil {
		vb.RequiredField("Fallback")
	}
	return vb.Build()
}

// DiceSource is a random.Source backed by a toolkit dice roller
type DiceSource struct {
	roller   dice.Roller
	fallback random.Source
}

var _ random.Source = (*DiceSource)(nil)

// NewDiceSource creates a source rolling a DiceResolution-sided die
func NewDiceSource(cfg *DiceSourceConfig) (*DiceSource, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid dice source config")
	}
	return &DiceSource{roller: cfg.Roller, fallback: cfg.Fallback}, nil
}

// Float64 maps a roll of 1..DiceResolution onto [0, 1)
func (s *DiceSource) Float64() float64 {
	roll, err := s.roller.Roll(DiceResolution)
	if err != nil || roll < 1 || roll > DiceResolution {
		slog.Warn("Dice roll failed, using fallback source", "roll", roll, "error", err)
		return s.fallback.Float64()
	}
	return float64(roll-1) / DiceResolution
}
