package game

import (
	"context"
	"log/slog"

	"github.com/KirkDiggler/rpg-dungeon/internal/engine/combat"
	"github.com/KirkDiggler/rpg-dungeon/internal/engine/items"
	"github.com/KirkDiggler/rpg-dungeon/internal/entities"
	"github.com/KirkDiggler/rpg-dungeon/internal/errors"
	"github.com/KirkDiggler/rpg-dungeon/internal/pkg/random"
)

// Feed lengths shown to the player
const (
	promptFeedSize  = 5
	outcomeFeedSize = 4
)

var fightOptions = []ActionKind{ActionAttack, ActionGuard, ActionUseItem, ActionSurrender, ActionExit}

func (s *session) fight(ctx context.Context) error {
	d := s.player.Dungeon
	fight := d.Fight

	scheduler, err := combat.NewScheduler(&combat.SchedulerConfig{
		Random: s.o.rng,
		Checkpoint: func(ctx context.Context, _ *entities.Fight) error {
			return s.save(ctx)
		},
	})
	if err != nil {
		return err
	}

	outcome, err := scheduler.Resolve(ctx, &combat.ResolveInput{
		Fight:   fight,
		Dungeon: d,
		Player:  &playerActor{s: s},
		Enemy:   combat.NewEnemyActor(s.o.rng, s.player),
	})
	if err != nil {
		return err
	}

	slog.InfoContext(ctx, "Fight finished",
		"player_id", s.player.ID,
		"enemy", fight.Enemy.Info.Key,
		"outcome", outcome.String())

	switch outcome {
	case combat.OutcomeVictory:
		s.victory(ctx, fight)
	case combat.OutcomeDefeat:
		s.defeat(ctx, fight)
	case combat.OutcomeSurrender:
		s.surrender(ctx, fight)
	default:
		return errors.Internalf("fight ended without an outcome")
	}
	return nil
}

func (s *session) victory(ctx context.Context, fight *entities.Fight) {
	p := s.player
	d := p.Dungeon
	enemy := fight.Enemy.Info

	data := map[string]any{
		"enemy": enemy.Key,
		"name":  enemy.Name,
		"gold":  enemy.Gold,
		"xp":    enemy.XP,
	}
	if pack, ok := enemy.DropPack(); ok && random.Chance(s.o.rng, pack.Rarity) {
		if item, ok := s.o.loot.Pick(pack, p.Reputation()); ok {
			p.Inventory.Add(item, 1)
			data["item"] = item.Name()
		}
	}

	d.Stats.EnemiesSlain++
	p.Gold += enemy.Gold
	p.XP += enemy.XP
	s.notify(ctx, EventVictory, data, fight.Feed.Last(outcomeFeedSize))

	if enemy.Boss {
		region := p.Region()
		d.LastRegionBoss = region
		s.notify(ctx, EventRegion, map[string]any{
			"region": region.Key(),
			"name":   region.Name(),
		}, nil)
	}

	d.Fight = nil
	d.Advance(p.MaxHP())
}

func (s *session) defeat(ctx context.Context, fight *entities.Fight) {
	d := s.player.Dungeon
	d.SetHP(0, s.player.MaxHP())
	d.Fight = nil
	d.Step++
	s.notify(ctx, EventDefeat, map[string]any{
		"enemy": fight.Enemy.Info.Key,
		"name":  fight.Enemy.Info.Name,
	}, fight.Feed.Last(outcomeFeedSize))
}

func (s *session) surrender(ctx context.Context, fight *entities.Fight) {
	stats := s.player.Dungeon.Stats
	lost := s.player.Forfeit()
	data := statsData(stats)
	data["enemy"] = fight.Enemy.Info.Key
	data["lost"] = itemNames(lost)
	s.notify(ctx, EventSurrender, data, fight.Feed.Last(outcomeFeedSize))
}

// playerActor takes the player's turns by asking the decider
type playerActor struct {
	s *session
}

var _ combat.Actor = (*playerActor)(nil)

func (a *playerActor) Act(ctx context.Context, fight *entities.Fight) (float64, error) {
	s := a.s
	for {
		action, err := s.ask(ctx, &Prompt{Kind: PromptFight, Options: fightOptions, View: s.view()})
		if err != nil {
			return 0, err
		}

		switch action.Kind {
		case ActionAttack:
			return combat.PlayerAttack(s.o.rng, s.player, fight), nil
		case ActionGuard:
			if !fight.RaiseGuard() {
				s.reject(ctx, errors.InvalidAction("your guard is already up"))
				continue
			}
			fight.Feed.Append(entities.FeedEntry{
				Actor:  entities.SidePlayer,
				Action: entities.FeedGuard,
				Amount: fight.Guard,
			})
			return combat.GuardSpeed, nil
		case ActionUseItem:
			effect, err := s.useItem(ctx, items.PlaceFight, action.Index)
			if err != nil {
				return 0, err
			}
			if effect == nil || effect.Declined {
				continue
			}
			return effect.Speed, nil
		case ActionSurrender:
			ok, err := s.confirm(ctx, string(ActionSurrender))
			if err != nil {
				return 0, err
			}
			if ok {
				return combat.SurrenderSpeed, nil
			}
		}
	}
}
