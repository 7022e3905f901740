// Package catalog holds the static game tables: regions, enemies, bosses,
// gear, items and loot packs. Tables are read-only; accessors return copies.
package catalog

// Region is a dungeon depth band unlocked by reputation.
type Region int

// Regions in descent order
const (
	RegionSewers Region = iota
	RegionPrison
	RegionCaves
	RegionLostCity
	RegionHell
)

type regionInfo struct {
	key       string
	name      string
	threshold int64
	boss      string
}

var regions = []regionInfo{
	{key: "SEWERS", name: "Sewers", threshold: 0, boss: BossGoo},
	{key: "PRISON", name: "Prison", threshold: 100, boss: BossTengu},
	{key: "CAVES", name: "Caves", threshold: 1100, boss: BossDM300},
	{key: "LOST_CITY", name: "Lost city", threshold: 6100, boss: BossKing},
	{key: "HELL", name: "Helltropolis", threshold: 16100, boss: BossYog},
}

// Regions returns every region in descent order.
func Regions() []Region {
	out := make([]Region, len(regions))
	for i := range regions {
		out[i] = Region(i)
	}
	return out
}

// RegionFor returns the deepest region whose threshold the reputation reaches.
func RegionFor(reputation int64) Region {
	current := RegionSewers
	for i, r := range regions {
		if r.threshold <= reputation {
			current = Region(i)
		}
	}
	return current
}

// RegionByKey looks a region up by its stable key.
func RegionByKey(key string) (Region, bool) {
	for i, r := range regions {
		if r.key == key {
			return Region(i), true
		}
	}
	return 0, false
}

// Valid reports whether r is a known region.
func (r Region) Valid() bool {
	return r >= 0 && int(r) < len(regions)
}

// Key returns the stable key used in persisted records.
func (r Region) Key() string {
	if !r.Valid() {
		return ""
	}
	return regions[r].key
}

// Name returns the display name.
func (r Region) Name() string {
	if !r.Valid() {
		return "Unknown"
	}
	return regions[r].name
}

func (r Region) String() string {
	return r.Key()
}

// Threshold is the reputation needed to reach the region.
func (r Region) Threshold() int64 {
	if !r.Valid() {
		return 0
	}
	return regions[r].threshold
}

// Boss returns the boss that lives at the bottom of the region.
func (r Region) Boss() EnemyInfo {
	if !r.Valid() {
		return EnemyInfo{}
	}
	boss, _ := BossByKey(regions[r].boss)
	return boss
}

// GateBoss returns the boss that must be beaten before exploring r:
// the boss of the region above it. The first region has none.
func (r Region) GateBoss() (EnemyInfo, bool) {
	if r <= RegionSewers || !r.Valid() {
		return EnemyInfo{}, false
	}
	return (r - 1).Boss(), true
}
