package catalog

import "math"

// MaxGearLevel is the highest level a scroll of upgrade can reach.
const MaxGearLevel = 5

// GearRarity is the individual drop weight of every piece of gear.
const GearRarity = .1

// Default gear keys
const (
	WeaponFists = "FISTS"
	ArmorNaked  = "NAKED"
)

// GearInfo is a static weapon or armor entry.
type GearInfo struct {
	Key    string
	Name   string
	Class  Class
	Tier   int
	Speed  float64
	Region Region
}

// Reputation is the reputation needed for the gear to drop.
func (g GearInfo) Reputation() int64 {
	return g.Region.Threshold() + int64(g.Tier)*10
}

// Default reports whether the gear is what a player wears with nothing equipped.
func (g GearInfo) Default() bool {
	return g.Key == WeaponFists || g.Key == ArmorNaked
}

var weapons = []GearInfo{
	{Key: WeaponFists, Name: "Fists", Class: ClassWeapon, Tier: 1, Speed: 1, Region: RegionSewers},
	{Key: "STICK", Name: "Stick", Class: ClassWeapon, Tier: 2, Speed: 1, Region: RegionSewers},
	{Key: "DAGGER", Name: "Dagger", Class: ClassWeapon, Tier: 2, Speed: .5, Region: RegionSewers},
	{Key: "PITCHFORK", Name: "Pitchfork", Class: ClassWeapon, Tier: 3, Speed: 2, Region: RegionSewers},
	{Key: "AXE", Name: "Hatchet", Class: ClassWeapon, Tier: 3, Speed: 1, Region: RegionSewers},
	{Key: "SHORTSWORD", Name: "Shortsword", Class: ClassWeapon, Tier: 4, Speed: 1, Region: RegionPrison},
	{Key: "SPEAR", Name: "Spear", Class: ClassWeapon, Tier: 5, Speed: 2, Region: RegionPrison},
	{Key: "SWORD", Name: "Sword", Class: ClassWeapon, Tier: 6, Speed: 1, Region: RegionCaves},
	{Key: "BAXE", Name: "Battle Axe", Class: ClassWeapon, Tier: 7, Speed: 2, Region: RegionCaves},
	{Key: "GSWORD", Name: "Greatsword", Class: ClassWeapon, Tier: 7, Speed: 1, Region: RegionLostCity},
	{Key: "ESWORD", Name: "Spiritual Sword", Class: ClassWeapon, Tier: 7, Speed: .5, Region: RegionLostCity},
	{Key: "HAMMER", Name: "War Hammer", Class: ClassWeapon, Tier: 10, Speed: 3, Region: RegionHell},
	{Key: "HSPEAR", Name: "Heroic Spear", Class: ClassWeapon, Tier: 9, Speed: 2, Region: RegionHell},
	{Key: "HSWORD", Name: "Heroic Sword", Class: ClassWeapon, Tier: 9, Speed: 1, Region: RegionHell},
}

var armor = []GearInfo{
	{Key: ArmorNaked, Name: "Nothing", Class: ClassArmor, Tier: 0, Region: RegionSewers},
	{Key: "RAGS", Name: "Worn Shirt", Class: ClassArmor, Tier: 1, Region: RegionSewers},
	{Key: "SHIRT", Name: "Shirt", Class: ClassArmor, Tier: 2, Region: RegionSewers},
	{Key: "ROBE", Name: "Robe", Class: ClassArmor, Tier: 3, Region: RegionPrison},
	{Key: "LEATHER", Name: "Leather Jacket", Class: ClassArmor, Tier: 4, Region: RegionPrison},
	{Key: "CHAINMAIL", Name: "Chain mail", Class: ClassArmor, Tier: 5, Region: RegionCaves},
	{Key: "SCALE", Name: "Reinforced Breastplate", Class: ClassArmor, Tier: 6, Region: RegionLostCity},
	{Key: "PLATE", Name: "Heavy Breastplate", Class: ClassArmor, Tier: 7, Region: RegionHell},
	{Key: "HERO", Name: "Heroic Breastplate", Class: ClassArmor, Tier: 8, Region: RegionHell},
}

// Weapon returns a weapon reference at the given level.
func Weapon(key string, level int) Item {
	return Item{Class: ClassWeapon, Key: key, Level: level}
}

// Armor returns an armor reference at the given level.
func Armor(key string, level int) Item {
	return Item{Class: ClassArmor, Key: key, Level: level}
}

// Fists is the weapon of a player with nothing equipped.
func Fists() Item {
	return Weapon(WeaponFists, 0)
}

// Naked is the armor of a player with nothing equipped.
func Naked() Item {
	return Armor(ArmorNaked, 0)
}

// Weapons returns every weapon entry.
func Weapons() []GearInfo {
	out := make([]GearInfo, len(weapons))
	copy(out, weapons)
	return out
}

// ArmorPieces returns every armor entry.
func ArmorPieces() []GearInfo {
	out := make([]GearInfo, len(armor))
	copy(out, armor)
	return out
}

// GearByKey looks up a weapon or armor entry.
func GearByKey(class Class, key string) (GearInfo, bool) {
	var table []GearInfo
	switch class {
	case ClassWeapon:
		table = weapons
	case ClassArmor:
		table = armor
	default:
		return GearInfo{}, false
	}
	for _, g := range table {
		if g.Key == key {
			return g, true
		}
	}
	return GearInfo{}, false
}

// Gear returns the gear entry the reference points at.
func (i Item) Gear() (GearInfo, bool) {
	return GearByKey(i.Class, i.Key)
}

// IsDefaultGear reports whether i is FISTS or NAKED.
func (i Item) IsDefaultGear() bool {
	gear, ok := i.Gear()
	return ok && gear.Default()
}

// WithLevel returns the same gear at another level.
func (i Item) WithLevel(level int) Item {
	i.Level = level
	return i
}

// AttackRange is a weapon's damage range at its level.
func (i Item) AttackRange() Range {
	gear, ok := i.Gear()
	if !ok || gear.Class != ClassWeapon {
		return Range{}
	}
	top := gear.Tier*gear.Tier + i.Level*gear.Tier
	return Range{Min: roundInt(float64(top) * .8), Max: top}
}

// DefenseRange is an armor's defense range at its level.
func (i Item) DefenseRange() Range {
	gear, ok := i.Gear()
	if !ok || gear.Class != ClassArmor {
		return Range{}
	}
	return Range{
		Min: gear.Tier*5 + i.Level*3,
		Max: gear.Tier*6 + i.Level*4,
	}
}

func roundInt(v float64) int {
	return int(math.Round(v))
}
