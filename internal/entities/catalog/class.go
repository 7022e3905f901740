package catalog

// Class is the closed set of item families. It decides where an item can be
// used and how it is identified in persisted records.
type Class int

const (
	ClassUnknown Class = iota
	// ClassPlain items have no use on their own (keys, ankhs).
	ClassPlain
	// ClassUsable items work anywhere (scrolls of upgrade, potions of experience).
	ClassUsable
	// ClassBattle items only work in a fight.
	ClassBattle
	// ClassHealing items work in the dungeon and in a fight.
	ClassHealing
	ClassWeapon
	ClassArmor
)

func (c Class) String() string {
	switch c {
	case ClassPlain:
		return "plain"
	case ClassUsable:
		return "usable"
	case ClassBattle:
		return "battle"
	case ClassHealing:
		return "healing"
	case ClassWeapon:
		return "weapon"
	case ClassArmor:
		return "armor"
	default:
		return "unknown"
	}
}

// IsGear reports whether items of the class are equipped rather than consumed.
func (c Class) IsGear() bool {
	return c == ClassWeapon || c == ClassArmor
}

// UsableInFight reports whether the class can be used on a fight turn.
func (c Class) UsableInFight() bool {
	switch c {
	case ClassUsable, ClassBattle, ClassHealing:
		return true
	}
	return false
}

// UsableInDungeon reports whether the class can be used while exploring.
func (c Class) UsableInDungeon() bool {
	switch c {
	case ClassUsable, ClassHealing:
		return true
	}
	return false
}

// UsableInCastle reports whether the class can be used in the castle.
// Gear is equipped there.
func (c Class) UsableInCastle() bool {
	switch c {
	case ClassUsable, ClassWeapon, ClassArmor:
		return true
	}
	return false
}
