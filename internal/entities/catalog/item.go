package catalog

import (
	"fmt"
	"math"
)

// Item keys referenced by game rules
const (
	ItemKey           = "KEY"
	ItemAnkh          = "ANKH"
	ItemScrollUpgrade = "SCROLL_UPGRADE"
	ItemPotionExp     = "POTION_EXP"
	ItemScrollWipeout = "SCROLL_WIPEOUT"
	ItemPotionHealing = "POTION_HEALING"
	ItemFoodRation    = "FOOD_RATION"
	ItemMeatRaw       = "FOOD_MEAT_RAW"
	ItemMeatCooked    = "FOOD_MEAT_COOKED"
)

// ItemInfo is a static non-gear item entry.
type ItemInfo struct {
	Key         string
	Name        string
	Description string
	Class       Class
	Reputation  int64
	Rarity      float64
	Speed       float64
	Heal        int
}

const healingRarity = .3

var items = []ItemInfo{
	{
		Key: ItemAnkh, Name: "Blessed Ankh", Class: ClassPlain, Reputation: 5000, Rarity: .005,
		Description: "Used to resurrect beings. Useless without a resurrection device.",
	},
	{
		Key: ItemKey, Name: "Key", Class: ClassPlain, Reputation: 0, Rarity: .55,
		Description: "Unlocks a single locked chest. It stays stuck in the keyhole.",
	},
	{
		Key: ItemScrollUpgrade, Name: "Scroll of Upgrade", Class: ClassUsable, Reputation: 20, Rarity: .05, Speed: 1,
		Description: fmt.Sprintf("Raises one piece of equipped gear by a level, up to level %d.", MaxGearLevel),
	},
	{
		Key: ItemPotionExp, Name: "Potion of Experience", Class: ClassUsable, Reputation: 0, Rarity: .05, Speed: 1,
		Description: "Drinking this potion instantly raises your experience level.",
	},
	{
		Key: ItemScrollWipeout, Name: "Scroll of Wipeout", Class: ClassBattle, Reputation: 2000, Rarity: .005, Speed: 1,
		Description: "Instantly kills most enemies. Bosses are unaffected.",
	},
	{Key: ItemPotionHealing, Name: "Potion of Healing", Class: ClassHealing, Rarity: healingRarity, Speed: .5, Heal: 1000},
	{Key: ItemFoodRation, Name: "Ration of Food", Class: ClassHealing, Rarity: healingRarity, Speed: .5, Heal: 30},
	{Key: ItemMeatRaw, Name: "Raw Steak", Class: ClassHealing, Rarity: healingRarity, Speed: .5, Heal: 10},
	{Key: ItemMeatCooked, Name: "Cooked Steak", Class: ClassHealing, Rarity: healingRarity, Speed: .5, Heal: 20},
}

// Item references a catalog entry. Gear references also carry an upgrade level.
// Items are comparable and identify inventory stacks.
type Item struct {
	Class Class
	Key   string
	Level int
}

// NewItem returns a reference to a non-gear item.
func NewItem(key string) (Item, bool) {
	info, ok := ItemByKey(key)
	if !ok {
		return Item{}, false
	}
	return Item{Class: info.Class, Key: key}, true
}

// MustItem is NewItem for keys known at compile time.
func MustItem(key string) Item {
	item, ok := NewItem(key)
	if !ok {
		panic(fmt.Sprintf("catalog: unknown item %q", key))
	}
	return item
}

// Items returns every non-gear item entry.
func Items() []ItemInfo {
	out := make([]ItemInfo, len(items))
	copy(out, items)
	return out
}

// ItemsOf returns references to every non-gear item of a class.
func ItemsOf(class Class) []Item {
	var out []Item
	for _, info := range items {
		if info.Class == class {
			out = append(out, Item{Class: class, Key: info.Key})
		}
	}
	return out
}

// ItemByKey looks up a non-gear item entry.
func ItemByKey(key string) (ItemInfo, bool) {
	for _, info := range items {
		if info.Key == key {
			return info, true
		}
	}
	return ItemInfo{}, false
}

// Info returns the non-gear entry the reference points at.
func (i Item) Info() (ItemInfo, bool) {
	if i.Class.IsGear() {
		return ItemInfo{}, false
	}
	info, ok := ItemByKey(i.Key)
	if !ok || info.Class != i.Class {
		return ItemInfo{}, false
	}
	return info, true
}

// Valid reports whether the reference resolves to a catalog entry.
func (i Item) Valid() bool {
	if i.Class.IsGear() {
		_, ok := i.Gear()
		return ok && i.Level >= 0 && i.Level <= MaxGearLevel
	}
	_, ok := i.Info()
	return ok
}

// IsZero reports whether i is the empty reference.
func (i Item) IsZero() bool {
	return i == Item{}
}

// Name returns the display name; gear names include the level.
func (i Item) Name() string {
	if gear, ok := i.Gear(); ok {
		return fmt.Sprintf("%s +%d", gear.Name, i.Level)
	}
	if info, ok := i.Info(); ok {
		return info.Name
	}
	return i.Key
}

// Reputation is the reputation needed for the item to drop.
func (i Item) Reputation() int64 {
	if gear, ok := i.Gear(); ok {
		return gear.Reputation()
	}
	info, _ := i.Info()
	return info.Reputation
}

// Rarity is the item's individual drop weight.
func (i Item) Rarity() float64 {
	if i.Class.IsGear() {
		return GearRarity
	}
	info, _ := i.Info()
	return info.Rarity
}

// Speed is the time an item costs on a fight turn. For weapons it is the attack speed.
func (i Item) Speed() float64 {
	if gear, ok := i.Gear(); ok {
		return gear.Speed
	}
	info, _ := i.Info()
	return info.Speed
}

// HealAmount is the HP a healing item restores.
func (i Item) HealAmount() int {
	info, _ := i.Info()
	return info.Heal
}

// BasePrice is the merchant price before reputation markup and haggling.
func (i Item) BasePrice() int64 {
	return int64(math.Round((1-i.Rarity())*100)) + 10 + i.Reputation()
}
