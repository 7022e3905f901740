package game

import (
	"context"
	"strings"

	"github.com/KirkDiggler/rpg-dungeon/internal/engine/items"
	"github.com/KirkDiggler/rpg-dungeon/internal/entities/catalog"
	"github.com/KirkDiggler/rpg-dungeon/internal/errors"
)

var castleOptions = []ActionKind{ActionDescend, ActionUseItem, ActionUnequipAll, ActionExit}

func (s *session) castle(ctx context.Context) error {
	action, err := s.ask(ctx, &Prompt{Kind: PromptCastle, Options: castleOptions, View: s.view()})
	if err != nil {
		return err
	}

	p := s.player
	switch action.Kind {
	case ActionDescend:
		ok, err := s.confirm(ctx, string(ActionDescend))
		if err != nil || !ok {
			return err
		}
		d := p.Descend()
		s.notify(ctx, EventDescended, map[string]any{
			"hp":     d.HP,
			"max_hp": p.MaxHP(),
			"level":  p.Level(),
		}, nil)
	case ActionUseItem:
		_, err := s.useItem(ctx, items.PlaceCastle, action.Index)
		return err
	case ActionUnequipAll:
		removed := p.UnequipAll()
		s.notify(ctx, EventEquipment, map[string]any{
			"unequipped": itemNames(removed),
			"count":      len(removed),
		}, nil)
	}
	return nil
}

// useItem asks for the upgrade target when needed and applies the item.
// A rejected use is reported and returns a nil effect.
func (s *session) useItem(ctx context.Context, place items.Place, position int) (*items.Effect, error) {
	p := s.player
	slot := items.SlotNone

	stack, err := p.Inventory.At(position)
	if err != nil {
		s.reject(ctx, err)
		return nil, nil
	}
	if items.NeedsSlot(stack.Item) && items.Usable(stack.Item.Class, place) {
		action, err := s.ask(ctx, &Prompt{
			Kind:    PromptSlot,
			Subject: stack.Item.Key,
			Options: []ActionKind{ActionWeapon, ActionArmor, ActionNo},
			View:    s.view(),
		})
		if err != nil {
			return nil, err
		}
		switch action.Kind {
		case ActionWeapon:
			slot = items.SlotWeapon
		case ActionArmor:
			slot = items.SlotArmor
		}
	}

	effect, err := items.Use(&items.UseInput{
		Player:   p,
		Place:    place,
		Position: position,
		Slot:     slot,
	})
	if err != nil {
		if errors.IsRejection(err) {
			s.reject(ctx, err)
			return nil, nil
		}
		return nil, errors.Wrapf(err, "failed to use item %d", position)
	}
	if effect.Declined {
		return effect, nil
	}

	if !effect.Equipped.IsZero() {
		data := map[string]any{"equipped": effect.Equipped.Name()}
		if !effect.Replaced.IsZero() {
			data["replaced"] = effect.Replaced.Name()
		}
		s.notify(ctx, EventEquipment, data, nil)
		return effect, nil
	}

	data := map[string]any{
		"item":     effect.Item.Name(),
		"consumed": effect.Consumed,
	}
	if effect.Healed > 0 {
		data["healed"] = effect.Healed
	}
	if effect.XPGained > 0 {
		data["xp_gained"] = effect.XPGained
	}
	if !effect.Upgraded.IsZero() {
		data["upgraded"] = effect.Upgraded.Name()
	}
	if effect.Wiped {
		data["wiped"] = true
	}
	if effect.Resisted {
		data["resisted"] = true
	}
	s.notify(ctx, EventItemUsed, data, nil)
	return effect, nil
}

func itemNames(list []catalog.Item) string {
	names := make([]string, len(list))
	for i, item := range list {
		names[i] = item.Name()
	}
	return strings.Join(names, ", ")
}
