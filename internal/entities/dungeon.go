package entities

import (
	"github.com/KirkDiggler/rpg-dungeon/internal/entities/catalog"
)

// Statistics counts what happened during one dungeon run
type Statistics struct {
	EnemiesSlain    int `json:"enemies_slain"`
	HealingConsumed int `json:"healing_consumed"`
	ChestsOpened    int `json:"chests_opened"`
	BooksRead       int `json:"books_read"`
	ItemsPurchased  int `json:"items_purchased"`
}

// Dungeon is the state of one dungeon run
type Dungeon struct {
	HP             int
	Step           int
	LastEncounter  int
	LevelMark      int
	LastRegionBoss catalog.Region
	ReputationMark int64
	Stats          Statistics
	Fight          *Fight
}

// Reputation is the experience gained since the run started, never negative
func (d *Dungeon) Reputation(xp int64) int64 {
	if xp < d.ReputationMark {
		return 0
	}
	return xp - d.ReputationMark
}

// SetHP sets HP clamped to [0, maxHP]
func (d *Dungeon) SetHP(hp, maxHP int) {
	switch {
	case hp < 0:
		hp = 0
	case hp > maxHP:
		hp = maxHP
	}
	d.HP = hp
}

// Heal adds HP up to maxHP and returns the amount actually gained
func (d *Dungeon) Heal(amount, maxHP int) int {
	before := d.HP
	d.SetHP(d.HP+amount, maxHP)
	return d.HP - before
}

// Damage removes HP down to zero
func (d *Dungeon) Damage(amount int) {
	d.HP -= amount
	if d.HP < 0 {
		d.HP = 0
	}
}

// Dead reports whether the run ended in death
func (d *Dungeon) Dead() bool {
	return d.HP <= 0
}

// GateBoss returns the boss blocking exploration of region, if it is
// still undefeated for this run.
func (d *Dungeon) GateBoss(region catalog.Region) (catalog.EnemyInfo, bool) {
	if region == d.LastRegionBoss {
		return catalog.EnemyInfo{}, false
	}
	return region.GateBoss()
}

// StepsSinceEncounter is the exploration distance since the last encounter
func (d *Dungeon) StepsSinceEncounter() int {
	return d.Step - d.LastEncounter
}

// TurnHeal is the HP regained after an encounter or a won fight
const TurnHeal = 1

// Advance moves one step deeper and regains TurnHeal HP
func (d *Dungeon) Advance(maxHP int) {
	d.Step++
	d.Heal(TurnHeal, maxHP)
}
