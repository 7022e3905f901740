package combat

import (
	"context"
	"log/slog"
	"math"

	"github.com/KirkDiggler/rpg-dungeon/internal/entities"
	"github.com/KirkDiggler/rpg-dungeon/internal/errors"
	"github.com/KirkDiggler/rpg-dungeon/internal/pkg/random"
)

// Action speeds
const (
	// SurrenderSpeed is returned by an actor that gives up the fight
	SurrenderSpeed = -1.0
	// GuardSpeed is the time raising the guard costs
	GuardSpeed = 1.0
)

// MaxTurns bounds a single Resolve call
const MaxTurns = 10000

// Outcome is how a fight ended, from the player's point of view
type Outcome int

const (
	OutcomeUnknown Outcome = iota
	OutcomeVictory
	OutcomeDefeat
	OutcomeSurrender
)

func (o Outcome) String() string {
	switch o {
	case OutcomeVictory:
		return "victory"
	case OutcomeDefeat:
		return "defeat"
	case OutcomeSurrender:
		return "surrender"
	default:
		return "unknown"
	}
}

// Step is what happens after a turn
type Step int

const (
	// StepContinue lets the same actor act again
	StepContinue Step = iota
	// StepPass hands the turn to the opponent
	StepPass
	// StepEnd finishes the fight
	StepEnd
)

// Actor takes turns in a fight. Act returns the time its action cost,
// or SurrenderSpeed to give up.
type Actor interface {
	Act(ctx context.Context, fight *entities.Fight) (float64, error)
}

// Checkpoint is called before every turn with the fight state about to be played
type Checkpoint func(ctx context.Context, fight *entities.Fight) error

// SchedulerConfig configures a Scheduler
type SchedulerConfig struct {
	Random     random.Source
	Checkpoint Checkpoint
}

// Validate checks the configuration
func (c *SchedulerConfig) Validate() error {
	vb := errors.NewValidationBuilder()
	if c.Random == nil {
		vb.RequiredField("random")
	}
	return vb.Build()
}

// Scheduler runs the speed-weighted turn loop of a fight
type Scheduler struct {
	rng        random.Source
	checkpoint Checkpoint
}

// NewScheduler creates a scheduler
func NewScheduler(cfg *SchedulerConfig) (*Scheduler, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid scheduler config")
	}
	return &Scheduler{rng: cfg.Random, checkpoint: cfg.Checkpoint}, nil
}

// ResolveInput is the fight to resolve and who plays each side
type ResolveInput struct {
	Fight   *entities.Fight
	Dungeon *entities.Dungeon
	Player  Actor
	Enemy   Actor
}

// Resolve plays turns until the fight ends. A fight that has already been
// started continues from its stored times and next actor.
func (s *Scheduler) Resolve(ctx context.Context, input *ResolveInput) (Outcome, error) {
	if input == nil || input.Fight == nil || input.Dungeon == nil {
		return OutcomeUnknown, errors.InvalidArgument("fight and dungeon are required")
	}
	if input.Player == nil || input.Enemy == nil {
		return OutcomeUnknown, errors.InvalidArgument("both actors are required")
	}

	fight := input.Fight
	s.start(fight)

	for turn := 0; turn < MaxTurns; turn++ {
		if err := ctx.Err(); err != nil {
			return OutcomeUnknown, errors.Wrap(err, "fight interrupted")
		}
		if s.checkpoint != nil {
			if err := s.checkpoint(ctx, fight); err != nil {
				return OutcomeUnknown, err
			}
		}

		side := fight.Next
		actor := input.Player
		opponentHP := func() int { return fight.Enemy.HP }
		if side == entities.SideEnemy {
			actor = input.Enemy
			opponentHP = func() int { return input.Dungeon.HP }
		}

		speed, err := actor.Act(ctx, fight)
		if err != nil {
			return OutcomeUnknown, err
		}

		step, outcome := Advance(fight, side, speed, opponentHP())
		if step == StepEnd {
			slog.DebugContext(ctx, "Fight ended",
				"enemy", fight.Enemy.Info.Key,
				"outcome", outcome.String(),
				"turns", turn+1)
			return outcome, nil
		}
	}

	return OutcomeUnknown, errors.Internalf("fight against %s exceeded %d turns", fight.Enemy.Info.Key, MaxTurns)
}

// start rolls the opening order of a fresh fight
func (s *Scheduler) start(fight *entities.Fight) {
	if fight.Started {
		return
	}
	fight.Started = true
	fight.PlayerTime++
	fight.Next = entities.SidePlayer
	if !fight.Enemy.Info.Boss && random.Flip(s.rng) {
		fight.Next = entities.SideEnemy
	}
}

// Advance books the time spent by side and decides who acts next.
func Advance(fight *entities.Fight, side entities.Side, speed float64, opponentHP int) (Step, Outcome) {
	opponent := side.Opponent()

	t := fight.Time(side) - speed
	t += math.Abs(math.Ceil(fight.Time(opponent)))
	fight.SetTime(side, t)
	fight.SetTime(opponent, 0)

	if speed == SurrenderSpeed {
		if side == entities.SidePlayer {
			return StepEnd, OutcomeSurrender
		}
		return StepEnd, OutcomeVictory
	}
	if opponentHP <= 0 {
		if side == entities.SidePlayer {
			return StepEnd, OutcomeVictory
		}
		return StepEnd, OutcomeDefeat
	}
	if t > 0 {
		fight.Next = side
		return StepContinue, OutcomeUnknown
	}

	fight.SetTime(opponent, 1)
	fight.Next = opponent
	return StepPass, OutcomeUnknown
}
