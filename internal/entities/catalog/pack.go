package catalog

import "slices"

// Unweighted marks a pack whose items are picked uniformly and that is never
// chosen by its own rarity.
const Unweighted = -1.0

// Pack keys
const (
	PackWeapons     = "WEAPONS"
	PackArmor       = "ARMOR"
	PackHealies     = "HEALIES"
	PackItems       = "ITEMS"
	PackBattle      = "BATTLE"
	PackUsable      = "USABLE"
	PackAllNoRarity = "ALL_NO_RARITY"
	PackEnemyDrop   = "ENEMY_DROP"
	PackYog         = "YOG"
)

// Pack is an ordered group of items sharing one combined rarity.
type Pack struct {
	Key    string
	Rarity float64
	Items  []Item
}

// Weighted reports whether the pack takes part in rarity rolls.
func (p Pack) Weighted() bool {
	return p.Rarity >= 0
}

var packs = buildPacks()

func buildPacks() map[string]Pack {
	var weaponItems, armorItems []Item
	for _, w := range weapons {
		if !w.Default() {
			weaponItems = append(weaponItems, Weapon(w.Key, 0))
		}
	}
	for _, a := range armor {
		if !a.Default() {
			armorItems = append(armorItems, Armor(a.Key, 0))
		}
	}
	healing := ItemsOf(ClassHealing)
	plain := ItemsOf(ClassPlain)
	battle := ItemsOf(ClassBattle)
	usable := ItemsOf(ClassUsable)

	return map[string]Pack{
		PackWeapons:     {Key: PackWeapons, Rarity: GearRarity, Items: weaponItems},
		PackArmor:       {Key: PackArmor, Rarity: GearRarity, Items: armorItems},
		PackHealies:     {Key: PackHealies, Rarity: healingRarity, Items: healing},
		PackItems:       {Key: PackItems, Rarity: 1, Items: plain},
		PackBattle:      {Key: PackBattle, Rarity: Unweighted, Items: battle},
		PackUsable:      {Key: PackUsable, Rarity: Unweighted, Items: usable},
		PackAllNoRarity: {Key: PackAllNoRarity, Rarity: Unweighted, Items: concat(plain, battle, usable)},
		PackEnemyDrop:   {Key: PackEnemyDrop, Rarity: .05, Items: concat(weaponItems, armorItems, healing)},
		PackYog:         {Key: PackYog, Rarity: 1, Items: []Item{Weapon("HSWORD", 0), Armor("HERO", 0)}},
	}
}

func concat(groups ...[]Item) []Item {
	var out []Item
	for _, g := range groups {
		out = append(out, g...)
	}
	return out
}

// PackByKey returns a copy of a pack.
func PackByKey(key string) (Pack, bool) {
	p, ok := packs[key]
	if !ok {
		return Pack{}, false
	}
	p.Items = slices.Clone(p.Items)
	return p, true
}

// MustPack is PackByKey for keys known at compile time.
func MustPack(key string) Pack {
	p, ok := PackByKey(key)
	if !ok {
		panic("catalog: unknown pack " + key)
	}
	return p
}
