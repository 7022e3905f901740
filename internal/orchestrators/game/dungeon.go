package game

import (
	"context"

	"github.com/KirkDiggler/rpg-dungeon/internal/engine/encounter"
	"github.com/KirkDiggler/rpg-dungeon/internal/engine/items"
	"github.com/KirkDiggler/rpg-dungeon/internal/entities"
	"github.com/KirkDiggler/rpg-dungeon/internal/entities/catalog"
	"github.com/KirkDiggler/rpg-dungeon/internal/errors"
	"github.com/KirkDiggler/rpg-dungeon/internal/pkg/random"
)

// EncounterChancePerStep is how much each step since the last encounter
// raises the odds of the next one.
const EncounterChancePerStep = .2

// ResurrectSubject is the confirm prompt asked before an ankh is spent
const ResurrectSubject = "resurrect"

var dungeonOptions = []ActionKind{ActionExplore, ActionUseItem, ActionReturn, ActionExit}

func (s *session) dungeon(ctx context.Context) error {
	p := s.player
	d := p.Dungeon

	s.checkLevelUp(ctx)
	if d.Dead() {
		s.die(ctx)
		return nil
	}

	action, err := s.ask(ctx, &Prompt{Kind: PromptDungeon, Options: dungeonOptions, View: s.view()})
	if err != nil {
		return err
	}

	switch action.Kind {
	case ActionExplore:
		return s.explore(ctx)
	case ActionUseItem:
		_, err := s.useItem(ctx, items.PlaceDungeon, action.Index)
		return err
	case ActionReturn:
		ok, err := s.confirm(ctx, string(ActionReturn))
		if err != nil || !ok {
			return err
		}
		stats := p.Leave()
		s.notify(ctx, EventReturned, statsData(stats), nil)
	}
	return nil
}

// checkLevelUp rescales HP to the new cap, keeping the same share of health
func (s *session) checkLevelUp(ctx context.Context) {
	p := s.player
	d := p.Dungeon
	level := p.Level()
	if level <= d.LevelMark {
		return
	}

	from := d.LevelMark
	maxHP := p.MaxHP()
	d.SetHP(random.Round(float64(maxHP)*float64(d.HP)/float64(entities.MaxHP(from))), maxHP)
	d.LevelMark = level
	s.notify(ctx, EventLevelUp, map[string]any{
		"from":   from,
		"level":  level,
		"hp":     d.HP,
		"max_hp": maxHP,
	}, nil)
}

func (s *session) die(ctx context.Context) {
	stats := s.player.Dungeon.Stats
	lost := s.player.Forfeit()
	data := statsData(stats)
	data["lost"] = itemNames(lost)
	s.notify(ctx, EventDeath, data, nil)
}

func (s *session) explore(ctx context.Context) error {
	p := s.player
	d := p.Dungeon

	if boss, ok := d.GateBoss(p.Region()); ok {
		s.startFight(ctx, boss)
		return nil
	}
	if random.Chance(s.o.rng, EncounterChancePerStep*float64(d.StepsSinceEncounter())) {
		return s.encounter(ctx)
	}

	enemy, ok := s.o.loot.Enemy(p.Reputation())
	if !ok {
		return errors.Internalf("no enemy can appear at reputation %d", p.Reputation())
	}
	s.startFight(ctx, enemy)
	return nil
}

func (s *session) encounter(ctx context.Context) error {
	p := s.player
	d := p.Dungeon

	kind := s.o.encounters.Select(p.Reputation())
	enc := s.o.encounters.Prepare(kind, p)

	accept := true
	if enc.NeedsAnswer() {
		action, err := s.ask(ctx, &Prompt{
			Kind:    PromptEncounter,
			Subject: kind.String(),
			Options: []ActionKind{ActionYes, ActionNo},
			Data:    encounterData(enc),
			View:    s.view(),
		})
		if err != nil {
			return err
		}
		accept = action.Kind == ActionYes
	}
	// an ankh is only spent after a second yes
	if accept && kind == encounter.KindResurrection && p.Inventory.Has(catalog.MustItem(catalog.ItemAnkh)) {
		ok, err := s.confirm(ctx, ResurrectSubject)
		if err != nil {
			return err
		}
		accept = ok
	}

	d.LastEncounter = d.Step
	result, err := s.o.encounters.Resolve(enc, p, accept)
	switch {
	case err == nil:
		s.notify(ctx, EventEncounter, resultData(result), nil)
	case errors.IsRejection(err):
		s.reject(ctx, err)
	default:
		return errors.Wrapf(err, "failed to resolve %s", kind)
	}

	d.Advance(p.MaxHP())
	if result != nil && result.Boss != nil {
		s.startFight(ctx, *result.Boss)
	}
	return nil
}

func (s *session) startFight(ctx context.Context, enemy catalog.EnemyInfo) {
	s.player.Dungeon.Fight = entities.NewFight(enemy)
	s.notify(ctx, EventFight, map[string]any{
		"enemy":  enemy.Key,
		"name":   enemy.Name,
		"boss":   enemy.Boss,
		"max_hp": enemy.MaxHP,
	}, nil)
}

func statsData(stats entities.Statistics) map[string]any {
	return map[string]any{
		"enemies_slain":    stats.EnemiesSlain,
		"healing_consumed": stats.HealingConsumed,
		"chests_opened":    stats.ChestsOpened,
		"books_read":       stats.BooksRead,
		"items_purchased":  stats.ItemsPurchased,
	}
}

func encounterData(enc *encounter.Encounter) map[string]any {
	data := map[string]any{"kind": enc.Kind.String()}
	if enc.Kind != encounter.KindMerchant {
		return data
	}
	data["abandoned"] = enc.Abandoned
	if !enc.Abandoned {
		data["offer"] = enc.Offer.Name()
		data["price"] = enc.Price
	}
	return data
}

func resultData(result *encounter.Result) map[string]any {
	data := map[string]any{
		"kind":     result.Kind.String(),
		"accepted": result.Accepted,
	}
	if !result.Item.IsZero() {
		data["item"] = result.Item.Name()
	}
	if result.Gold > 0 {
		data["gold"] = result.Gold
	}
	if result.Paid > 0 {
		data["paid"] = result.Paid
	}
	if result.HPLost > 0 {
		data["hp_lost"] = result.HPLost
	}
	if result.XP > 0 {
		data["xp"] = result.XP
	}
	if result.Boss != nil {
		data["boss"] = result.Boss.Key
	}
	return data
}
