// Package items applies inventory items to a player in the castle, while
// exploring or on a fight turn.
package items

import (
	"github.com/KirkDiggler/rpg-dungeon/internal/entities"
	"github.com/KirkDiggler/rpg-dungeon/internal/entities/catalog"
	"github.com/KirkDiggler/rpg-dungeon/internal/errors"
)

// Place is where an item is being used
type Place int

const (
	PlaceCastle Place = iota
	PlaceDungeon
	PlaceFight
)

func (p Place) String() string {
	switch p {
	case PlaceDungeon:
		return "dungeon"
	case PlaceFight:
		return "fight"
	default:
		return "castle"
	}
}

// Usable reports whether items of a class can be used at a place
func Usable(class catalog.Class, place Place) bool {
	switch place {
	case PlaceFight:
		return class.UsableInFight()
	case PlaceDungeon:
		return class.UsableInDungeon()
	default:
		return class.UsableInCastle()
	}
}

// Slot names an equipment slot
type Slot int

const (
	SlotNone Slot = iota
	SlotWeapon
	SlotArmor
)

func (s Slot) String() string {
	switch s {
	case SlotWeapon:
		return "weapon"
	case SlotArmor:
		return "armor"
	default:
		return "none"
	}
}

// NeedsSlot reports whether using the item asks which equipped piece it targets
func NeedsSlot(item catalog.Item) bool {
	return item.Class == catalog.ClassUsable && item.Key == catalog.ItemScrollUpgrade
}

// UseInput selects an inventory item and where it is used
type UseInput struct {
	Player *entities.Player
	Place  Place
	// Position is the 1-based inventory position
	Position int
	// Slot is the upgrade target; SlotNone declines the upgrade
	Slot Slot
}

// Effect describes what using an item did
type Effect struct {
	Item     catalog.Item
	Consumed bool
	Declined bool
	Healed   int
	XPGained int64
	// Upgraded is the gear after an upgrade
	Upgraded catalog.Item
	// Equipped and Replaced are set when gear was put on
	Equipped catalog.Item
	Replaced catalog.Item
	Wiped    bool
	Resisted bool
	// Speed is the fight time the use costs, 0 when no turn was spent
	Speed float64
}

// Use applies the item at the input position. Rejections leave the player
// untouched.
func Use(input *UseInput) (*Effect, error) {
	if input == nil || input.Player == nil {
		return nil, errors.InvalidArgument("player is required")
	}
	player := input.Player
	switch input.Place {
	case PlaceFight:
		if !player.InFight() {
			return nil, errors.InvalidAction("you are not in a fight")
		}
	case PlaceDungeon:
		if !player.InDungeon() || player.InFight() {
			return nil, errors.InvalidAction("you are not exploring")
		}
	}

	stack, err := player.Inventory.At(input.Position)
	if err != nil {
		return nil, err
	}
	item := stack.Item
	if !Usable(item.Class, input.Place) {
		return nil, errors.InvalidActionf("%s can't be used here", item.Name()).
			WithMeta("item", item.Key).
			WithMeta("place", input.Place.String())
	}

	var effect *Effect
	switch item.Class {
	case catalog.ClassHealing:
		effect, err = heal(player, item, input.Place)
	case catalog.ClassBattle:
		effect = wipeout(player.Dungeon.Fight, item)
	case catalog.ClassUsable:
		effect, err = useScroll(player, item, input.Slot)
	case catalog.ClassWeapon, catalog.ClassArmor:
		effect = &Effect{Item: item, Equipped: item, Replaced: player.Equip(item)}
	default:
		return nil, errors.InvalidActionf("%s can't be used", item.Name())
	}
	if err != nil {
		return nil, err
	}

	if effect.Consumed {
		player.Inventory.Remove(item, 1)
		if input.Place == PlaceFight {
			effect.Speed = item.Speed()
			player.Dungeon.Fight.Feed.Append(entities.FeedEntry{
				Actor:  entities.SidePlayer,
				Action: entities.FeedItem,
				Amount: effect.Healed,
				Item:   item.Name(),
			})
		}
	}
	if input.Place == PlaceFight {
		appendOutcome(player.Dungeon.Fight, effect)
	}
	return effect, nil
}

func heal(player *entities.Player, item catalog.Item, place Place) (*Effect, error) {
	dungeon := player.Dungeon
	if dungeon == nil {
		return nil, errors.InvalidAction("you can only eat in the dungeon")
	}
	if dungeon.HP >= player.MaxHP() {
		if place != PlaceFight {
			return nil, errors.InvalidAction("you are already at full health")
		}
		return &Effect{Item: item, Consumed: true}, nil
	}

	healed := dungeon.Heal(item.HealAmount(), player.MaxHP())
	dungeon.Stats.HealingConsumed++
	return &Effect{Item: item, Consumed: true, Healed: healed}, nil
}

func wipeout(fight *entities.Fight, item catalog.Item) *Effect {
	if fight.Enemy.Info.Boss {
		return &Effect{Item: item, Consumed: true, Resisted: true}
	}
	fight.Enemy.HP = 0
	return &Effect{Item: item, Consumed: true, Wiped: true}
}

func useScroll(player *entities.Player, item catalog.Item, slot Slot) (*Effect, error) {
	switch item.Key {
	case catalog.ItemPotionExp:
		gained := entities.XPForLevel(player.Level()+1) - player.XP
		player.XP += gained
		return &Effect{Item: item, Consumed: true, XPGained: gained}, nil
	case catalog.ItemScrollUpgrade:
		return upgrade(player, item, slot)
	default:
		return nil, errors.InvalidActionf("%s can't be used", item.Name())
	}
}

func upgrade(player *entities.Player, item catalog.Item, slot Slot) (*Effect, error) {
	var gear *catalog.Item
	switch slot {
	case SlotWeapon:
		gear = &player.Weapon
	case SlotArmor:
		gear = &player.Armor
	default:
		return &Effect{Item: item, Declined: true}, nil
	}

	if gear.IsDefaultGear() {
		return nil, errors.IllegalUpgrade("there is nothing equipped to upgrade").
			WithMeta("slot", slot.String())
	}
	if gear.Level >= catalog.MaxGearLevel {
		return nil, errors.IllegalUpgrade("that is already upgraded as far as it goes").
			WithMeta("slot", slot.String()).
			WithMeta("level", gear.Level)
	}

	*gear = gear.WithLevel(gear.Level + 1)
	return &Effect{Item: item, Consumed: true, Upgraded: *gear}, nil
}

func appendOutcome(fight *entities.Fight, effect *Effect) {
	switch {
	case effect.Wiped:
		fight.Feed.Append(entities.FeedEntry{Actor: entities.SidePlayer, Action: entities.FeedWipeout})
	case effect.Resisted:
		fight.Feed.Append(entities.FeedEntry{Actor: entities.SideEnemy, Action: entities.FeedResist})
	}
}
