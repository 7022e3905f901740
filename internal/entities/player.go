package entities

import (
	"github.com/KirkDiggler/rpg-dungeon/internal/entities/catalog"
)

// Starter kit values
const (
	StartingGold = 25
	StartingXP   = 1
)

// Player is the persistent character behind one external identity
type Player struct {
	ID        string
	Gold      int64
	XP        int64
	Weapon    catalog.Item
	Armor     catalog.Item
	Inventory Inventory
	Dungeon   *Dungeon
}

// NewPlayer creates a player with the starter kit
func NewPlayer(id string) *Player {
	p := &Player{
		ID:     id,
		Gold:   StartingGold,
		XP:     StartingXP,
		Weapon: catalog.Fists(),
		Armor:  catalog.Naked(),
	}
	p.Inventory.Add(catalog.MustItem(catalog.ItemFoodRation), 3)
	p.Inventory.Add(catalog.MustItem(catalog.ItemPotionHealing), 1)
	p.Inventory.Add(catalog.MustItem(catalog.ItemScrollUpgrade), 1)
	p.Inventory.Add(catalog.Armor("SHIRT", 0), 1)
	p.Inventory.Add(catalog.Weapon("SHORTSWORD", 0), 1)
	p.Inventory.Add(catalog.Weapon("AXE", 0), 1)
	p.Inventory.Add(catalog.Weapon("DAGGER", 1), 2)
	return p
}

// Level is the player's current level
func (p *Player) Level() int {
	return Level(p.XP)
}

// MaxHP is the player's current HP cap
func (p *Player) MaxHP() int {
	return MaxHP(p.Level())
}

// NextLevelXP is the experience total needed for the next level
func (p *Player) NextLevelXP() int64 {
	return XPForLevel(p.Level() + 1)
}

// InDungeon reports whether the player is exploring
func (p *Player) InDungeon() bool {
	return p.Dungeon != nil
}

// InFight reports whether the player is in a fight
func (p *Player) InFight() bool {
	return p.Dungeon != nil && p.Dungeon.Fight != nil
}

// Reputation is the experience earned since descending; 0 in the castle
func (p *Player) Reputation() int64 {
	if p.Dungeon == nil {
		return 0
	}
	return p.Dungeon.Reputation(p.XP)
}

// Region is the region the player's reputation has reached
func (p *Player) Region() catalog.Region {
	return catalog.RegionFor(p.Reputation())
}

// Descend starts a new dungeon run at full health
func (p *Player) Descend() *Dungeon {
	p.Dungeon = &Dungeon{
		HP:             p.MaxHP(),
		LevelMark:      p.Level(),
		LastRegionBoss: catalog.RegionSewers,
		ReputationMark: p.XP,
	}
	return p.Dungeon
}

// Leave ends the dungeon run and returns the final statistics
func (p *Player) Leave() Statistics {
	var stats Statistics
	if p.Dungeon != nil {
		stats = p.Dungeon.Stats
	}
	p.Dungeon = nil
	return stats
}

// Forfeit strips equipped gear without returning it to the inventory and
// ends the dungeon run. It returns the lost gear.
func (p *Player) Forfeit() []catalog.Item {
	var lost []catalog.Item
	if !p.Weapon.IsDefaultGear() {
		lost = append(lost, p.Weapon)
	}
	if !p.Armor.IsDefaultGear() {
		lost = append(lost, p.Armor)
	}
	p.Weapon = catalog.Fists()
	p.Armor = catalog.Naked()
	p.Leave()
	return lost
}

// Equip puts gear on. The gear leaves the inventory and the previously
// equipped piece goes back in unless it is FISTS or NAKED.
// It returns the replaced gear, or the zero Item when nothing went back.
func (p *Player) Equip(gear catalog.Item) catalog.Item {
	var slot *catalog.Item
	switch gear.Class {
	case catalog.ClassWeapon:
		slot = &p.Weapon
	case catalog.ClassArmor:
		slot = &p.Armor
	default:
		return catalog.Item{}
	}

	replaced := *slot
	*slot = gear
	p.Inventory.Remove(gear, 1)
	if replaced.IsDefaultGear() {
		return catalog.Item{}
	}
	p.Inventory.Add(replaced, 1)
	return replaced
}

// UnequipAll returns non-default gear to the inventory and restores the defaults
func (p *Player) UnequipAll() []catalog.Item {
	var removed []catalog.Item
	if !p.Weapon.IsDefaultGear() {
		p.Inventory.Add(p.Weapon, 1)
		removed = append(removed, p.Weapon)
	}
	if !p.Armor.IsDefaultGear() {
		p.Inventory.Add(p.Armor, 1)
		removed = append(removed, p.Armor)
	}
	p.Weapon = catalog.Fists()
	p.Armor = catalog.Naked()
	return removed
}
