package catalog

import "slices"

// Range is an inclusive integer interval.
type Range struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// Offset shifts both ends of the range.
func (r Range) Offset(n int) Range {
	return Range{Min: r.Min + n, Max: r.Max + n}
}

// Behavior selects how an enemy takes its turn.
type Behavior int

const (
	// BehaviorStrike attacks with the enemy's attack range every turn.
	BehaviorStrike Behavior = iota
	// BehaviorPump charges for several turns and then lands a heavy blow.
	BehaviorPump
)

// Boss keys
const (
	BossGoo   = "GOO"
	BossTengu = "TENGU"
	BossDM300 = "DM300"
	BossKing  = "KING"
	BossYog   = "YOG"
)

// EnemyInfo is a static enemy or boss entry.
type EnemyInfo struct {
	Key      string
	Name     string
	Boss     bool
	Attack   Range
	Defense  Range
	Speed    float64
	Region   Region
	Offset   int64
	XP       int64
	MaxHP    int
	Gold     int64
	Drops    string
	Behavior Behavior
}

// Reputation is the reputation an ordinary enemy needs to appear.
// Bosses are gated by region instead and report 0.
func (e EnemyInfo) Reputation() int64 {
	if e.Boss {
		return 0
	}
	return e.Region.Threshold() + e.Offset
}

// DropPack returns the loot pack rolled on victory.
func (e EnemyInfo) DropPack() (Pack, bool) {
	if e.Drops == "" {
		return Pack{}, false
	}
	return PackByKey(e.Drops)
}

func enemy(key, name string, minAttack, maxAttack int, speed float64, region Region, offset, xp int64, maxHP int, gold int64) EnemyInfo {
	return EnemyInfo{
		Key:     key,
		Name:    name,
		Attack:  Range{Min: minAttack, Max: maxAttack},
		Defense: Range{Min: roundInt(float64(maxHP) * .06), Max: roundInt(float64(maxHP) * .1)},
		Speed:   speed,
		Region:  region,
		Offset:  offset,
		XP:      xp,
		MaxHP:   maxHP,
		Gold:    gold,
		Drops:   PackEnemyDrop,
	}
}

var enemies = []EnemyInfo{
	enemy("RAT", "Rat", 1, 4, 1, RegionSewers, 0, 2, 8, 2),
	enemy("ALBINO_RAT", "White rat", 2, 5, 1, RegionSewers, 10, 4, 10, 3),
	enemy("GNOLL", "Gnoll", 3, 7, 1, RegionSewers, 20, 5, 15, 6),
	enemy("CRAB", "Crab", 5, 5, .5, RegionSewers, 35, 7, 25, 7),
	enemy("PLAGUE_RAT", "Plague rat", 1, 7, 1, RegionSewers, 45, 8, 20, 8),
	enemy("GNOLL_HUNTER", "Gnoll hunter", 3, 9, 1, RegionSewers, 65, 10, 25, 12),
	enemy("MUTANT_FLY", "Mutant fly", 1, 3, .5, RegionPrison, 0, 10, 20, 5),
	enemy("SKELETON", "Skeleton", 3, 8, 1, RegionPrison, 40, 30, 30, 6),
	enemy("THIEF", "Thief", 3, 4, .5, RegionPrison, 100, 10, 40, 12),
	enemy("GNOLL_SHAMAN", "Gnoll shaman", 6, 12, 2, RegionPrison, 300, 75, 40, 10),
	enemy("GUARD", "Guard", 8, 10, 2, RegionPrison, 400, 80, 55, 20),
	enemy("BAT", "Bat", 3, 4, .3, RegionCaves, 0, 50, 30, 15),
	enemy("GNOLL_BRUTE", "Gnoll brute", 4, 7, 1, RegionCaves, 400, 100, 50, 30),
	enemy("SPIDER", "Cave spider", 3, 5, 1, RegionCaves, 1500, 150, 40, 10),
	enemy("DWARF_MONK", "Dwarf monk", 5, 6, .5, RegionLostCity, 0, 200, 70, 20),
	enemy("DWARF_WARLOCK", "Dwarf mage", 7, 10, 2, RegionLostCity, 700, 300, 60, 25),
	enemy("FIRE_ELEMENTAL", "Fireball", 6, 9, 1, RegionLostCity, 1000, 500, 80, 10),
	enemy("GOLEM", "Golem", 9, 10, 2, RegionLostCity, 3000, 600, 110, 40),
	enemy("SUCCUBUS", "Succubus", 6, 8, 1, RegionHell, 0, 700, 80, 80),
	enemy("EVIL_EYE", "Malicious eye", 30, 40, 3, RegionHell, 2800, 750, 120, 60),
	enemy("SCORPIO", "Scorpio", 8, 13, 1, RegionHell, 5000, 800, 90, 50),
	enemy("IMP", "Demon", 10, 15, .5, RegionHell, 10000, 1000, 200, 200),
}

var bosses = []EnemyInfo{
	{
		Key: BossGoo, Name: "The Goo", Boss: true, Region: RegionSewers,
		Attack: Range{Min: 10, Max: 15}, Defense: Range{Min: 5, Max: 10}, Speed: 1,
		XP: 30, MaxHP: 100, Gold: 50, Behavior: BehaviorPump,
	},
	{
		Key: BossTengu, Name: "Tengu", Boss: true, Region: RegionPrison,
		Attack: Range{Min: 5, Max: 12}, Defense: Range{Min: 5, Max: 10}, Speed: .5,
		XP: 120, MaxHP: 120, Gold: 100,
	},
	{
		Key: BossDM300, Name: "DM-300", Boss: true, Region: RegionCaves,
		Attack: Range{Min: 18, Max: 23}, Defense: Range{Min: 15, Max: 20}, Speed: 2,
		XP: 230, MaxHP: 180, Gold: 250,
	},
	{
		Key: BossKing, Name: "The King of Dwarves", Boss: true, Region: RegionLostCity,
		Attack: Range{Min: 15, Max: 20}, Defense: Range{Min: 10, Max: 10}, Speed: 1,
		XP: 700, MaxHP: 200, Gold: 500,
	},
	{
		Key: BossYog, Name: "Yog-Dzewa", Boss: true, Region: RegionHell,
		Attack: Range{Min: 35, Max: 40}, Defense: Range{Min: 25, Max: 35}, Speed: 1,
		XP: 1000, MaxHP: 500, Gold: 1000, Drops: PackYog,
	},
}

// Enemies returns every ordinary enemy.
func Enemies() []EnemyInfo {
	return slices.Clone(enemies)
}

// Bosses returns every boss in region order.
func Bosses() []EnemyInfo {
	return slices.Clone(bosses)
}

// EnemiesIn returns the ordinary enemies living in a region.
func EnemiesIn(region Region) []EnemyInfo {
	var out []EnemyInfo
	for _, e := range enemies {
		if e.Region == region {
			out = append(out, e)
		}
	}
	return out
}

// EnemyByKey looks an ordinary enemy up by key.
func EnemyByKey(key string) (EnemyInfo, bool) {
	return findByKey(enemies, key)
}

// BossByKey looks a boss up by key.
func BossByKey(key string) (EnemyInfo, bool) {
	return findByKey(bosses, key)
}

func findByKey(table []EnemyInfo, key string) (EnemyInfo, bool) {
	for _, e := range table {
		if e.Key == key {
			return e, true
		}
	}
	return EnemyInfo{}, false
}
