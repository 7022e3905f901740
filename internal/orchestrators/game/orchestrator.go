// Package game runs player sessions: the castle, dungeon exploration and
// fights, saving progress after every step.
package game

import (
	"context"
	"log/slog"

	"github.com/KirkDiggler/rpg-dungeon/internal/engine/encounter"
	"github.com/KirkDiggler/rpg-dungeon/internal/engine/loot"
	"github.com/KirkDiggler/rpg-dungeon/internal/entities"
	"github.com/KirkDiggler/rpg-dungeon/internal/errors"
	"github.com/KirkDiggler/rpg-dungeon/internal/pkg/random"
	"github.com/KirkDiggler/rpg-dungeon/internal/repositories/player"
)

// Config holds the dependencies for the game orchestrator
type Config struct {
	Players player.Repository
	Random  random.Source
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()

	if c.Players == nil {
		vb.RequiredField("Players")
	}
	if c.Random == nil {
		vb.RequiredField("Random")
	}

	return vb.Build()
}

type orchestrator struct {
	players    player.Repository
	rng        random.Source
	loot       *loot.Table
	encounters *encounter.Selector
}

// NewOrchestrator creates a new game orchestrator with the provided dependencies
func NewOrchestrator(cfg *Config) (Service, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	return &orchestrator{
		players:    cfg.Players,
		rng:        cfg.Random,
		loot:       loot.New(cfg.Random),
		encounters: encounter.NewSelector(cfg.Random),
	}, nil
}

// exitSignal unwinds a session when the player chooses to leave
type exitSignal struct{}

func (exitSignal) Error() string { return "player left the session" }

var errExit error = exitSignal{}

// Play runs a session until the player exits
func (o *orchestrator) Play(ctx context.Context, input *PlayInput) (*PlayOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	vb := errors.NewValidationBuilder()
	errors.ValidateRequired("player_id", input.PlayerID, vb)
	if input.Decider == nil {
		vb.RequiredField("decider")
	}
	if input.Notifier == nil {
		vb.RequiredField("notifier")
	}
	if err := vb.Build(); err != nil {
		return nil, err
	}

	s := &session{
		o:        o,
		decider:  input.Decider,
		notifier: input.Notifier,
	}
	if err := s.load(ctx, input.PlayerID); err != nil {
		return nil, err
	}
	p := s.player

	slog.InfoContext(ctx, "Session started",
		"player_id", p.ID,
		"level", p.Level(),
		"in_dungeon", p.InDungeon(),
		"in_fight", p.InFight())

	for {
		var err error
		switch {
		case p.InFight():
			err = s.fight(ctx)
		case p.InDungeon():
			err = s.dungeon(ctx)
		default:
			err = s.castle(ctx)
		}

		if errors.Is(err, errExit) {
			if err := s.save(ctx); err != nil {
				return nil, err
			}
			slog.InfoContext(ctx, "Session ended",
				"player_id", p.ID,
				"suspended", p.InFight())
			return &PlayOutput{Player: p, Suspended: p.InFight()}, nil
		}
		if err != nil {
			slog.ErrorContext(ctx, "Session failed", "player_id", p.ID, "error", err)
			return nil, err
		}
		if err := s.save(ctx); err != nil {
			return nil, err
		}
	}
}

// session is the state of one Play call
type session struct {
	o        *orchestrator
	player   *entities.Player
	decider  Decider
	notifier Notifier
}

func (s *session) load(ctx context.Context, id string) error {
	out, err := s.o.players.Get(ctx, player.GetInput{ID: id})
	if err == nil {
		s.player = out.Player
		return nil
	}
	if !errors.IsNotFound(err) {
		return errors.Wrapf(err, "failed to load player %s", id)
	}

	s.player = entities.NewPlayer(id)
	if err := s.save(ctx); err != nil {
		return err
	}
	s.notify(ctx, EventCreated, map[string]any{
		"gold": s.player.Gold,
		"xp":   s.player.XP,
	}, nil)
	return nil
}

func (s *session) save(ctx context.Context) error {
	if _, err := s.o.players.Save(ctx, player.SaveInput{Player: s.player}); err != nil {
		return errors.Wrapf(err, "failed to save player %s", s.player.ID)
	}
	return nil
}

// ask prompts until the player picks one of the prompt's options.
// Choosing to exit is always possible and unwinds the session.
func (s *session) ask(ctx context.Context, prompt *Prompt) (*Action, error) {
	for {
		action, err := s.decider.Decide(ctx, prompt)
		if err != nil {
			return nil, errors.Wrap(err, "failed to get decision")
		}
		if action == nil {
			s.reject(ctx, errors.InvalidAction("no action chosen"))
			continue
		}
		if action.Kind == ActionExit {
			return nil, errExit
		}
		if prompt.Allows(action.Kind) {
			return action, nil
		}
		s.reject(ctx, errors.InvalidActionf("%s is not possible here", action.Kind).
			WithMeta("prompt", string(prompt.Kind)))
	}
}

func (s *session) confirm(ctx context.Context, subject string) (bool, error) {
	action, err := s.ask(ctx, &Prompt{
		Kind:    PromptConfirm,
		Subject: subject,
		Options: []ActionKind{ActionYes, ActionNo},
		View:    s.view(),
	})
	if err != nil {
		return false, err
	}
	return action.Kind == ActionYes, nil
}

func (s *session) notify(ctx context.Context, kind EventKind, data map[string]any, feed []entities.FeedEntry) {
	event := &Event{Kind: kind, PlayerID: s.player.ID, Data: data, Feed: feed}
	if err := s.notifier.Notify(ctx, event); err != nil {
		slog.WarnContext(ctx, "Failed to deliver event",
			"player_id", s.player.ID,
			"event", string(kind),
			"error", err)
	}
}

// reject reports a refused action. The session stays where it is.
func (s *session) reject(ctx context.Context, err error) {
	slog.DebugContext(ctx, "Action rejected",
		"player_id", s.player.ID,
		"reason", string(errors.GetReason(err)),
		"error", err)
	s.notify(ctx, EventRejected, map[string]any{
		"code":    errors.GetCode(err).String(),
		"reason":  string(errors.GetReason(err)),
		"message": errors.GetMessage(err),
	}, nil)
}
