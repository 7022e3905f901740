package entities

import (
	"github.com/KirkDiggler/rpg-dungeon/internal/entities/catalog"
)

// MaxGuard caps the guard a player can raise in one fight
const MaxGuard = 5

// Side identifies one of the two combatants
type Side int

const (
	SidePlayer Side = iota
	SideEnemy
)

// Opponent returns the other side
func (s Side) Opponent() Side {
	if s == SidePlayer {
		return SideEnemy
	}
	return SidePlayer
}

func (s Side) String() string {
	if s == SideEnemy {
		return "enemy"
	}
	return "player"
}

// Enemy is a live copy of a catalog enemy or boss
type Enemy struct {
	Info catalog.EnemyInfo
	HP   int
	// Pump counts charge-up turns for enemies with pump behavior
	Pump int
}

// NewEnemy spawns an enemy at full health
func NewEnemy(info catalog.EnemyInfo) Enemy {
	return Enemy{Info: info, HP: info.MaxHP}
}

// Fight is an in-progress battle inside a dungeon run
type Fight struct {
	Enemy      Enemy
	Guard      int
	PlayerTime float64
	EnemyTime  float64
	Next       Side
	// Started is set once the opening turn order has been rolled
	Started bool
	Feed    Feed
}

// NewFight starts a fight against an enemy at full health
func NewFight(info catalog.EnemyInfo) *Fight {
	return &Fight{Enemy: NewEnemy(info)}
}

// Time returns the time budget of a side
func (f *Fight) Time(side Side) float64 {
	if side == SideEnemy {
		return f.EnemyTime
	}
	return f.PlayerTime
}

// SetTime sets the time budget of a side
func (f *Fight) SetTime(side Side, t float64) {
	if side == SideEnemy {
		f.EnemyTime = t
		return
	}
	f.PlayerTime = t
}

// RaiseGuard adds 2 guard up to MaxGuard. It reports false when the guard
// was already at the cap and nothing changed.
func (f *Fight) RaiseGuard() bool {
	if f.Guard >= MaxGuard {
		return false
	}
	f.Guard += 2
	if f.Guard > MaxGuard {
		f.Guard = MaxGuard
	}
	return true
}
