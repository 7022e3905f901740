package combat

import (
	"context"

	"github.com/KirkDiggler/rpg-dungeon/internal/entities"
	"github.com/KirkDiggler/rpg-dungeon/internal/entities/catalog"
	"github.com/KirkDiggler/rpg-dungeon/internal/pkg/random"
)

// Pump behavior
const (
	// PumpTurns is the turn on which a pumping enemy charges instead of hitting
	PumpTurns = 4
	// PumpSpeed is the time a charge costs
	PumpSpeed = 3.0
	// PumpBlockGuard is the guard that fully blocks a charged blow
	PumpBlockGuard = PumpTurns - 1

	pumpCharged = PumpTurns + 1
)

var pumpBlow = catalog.Range{Min: 45, Max: 50}

// EnemyActor plays the enemy side of a fight
type EnemyActor struct {
	rng     random.Source
	player  *entities.Player
	dungeon *entities.Dungeon
}

// NewEnemyActor creates the enemy side for a player's fight
func NewEnemyActor(rng random.Source, player *entities.Player) *EnemyActor {
	return &EnemyActor{rng: rng, player: player, dungeon: player.Dungeon}
}

// Act takes the enemy's turn and returns the time it costs
func (a *EnemyActor) Act(_ context.Context, fight *entities.Fight) (float64, error) {
	info := fight.Enemy.Info
	attack := info.Attack

	if info.Behavior == catalog.BehaviorPump {
		if fight.Enemy.Pump == pumpCharged {
			fight.Enemy.Pump = 0
			attack = pumpBlow
			if fight.Guard >= PumpBlockGuard {
				attack = catalog.Range{}
				fight.Feed.Append(entities.FeedEntry{Actor: entities.SidePlayer, Action: entities.FeedResist})
			}
		} else {
			fight.Enemy.Pump++
			if fight.Enemy.Pump == PumpTurns {
				fight.Enemy.Pump = pumpCharged
				fight.Feed.Append(entities.FeedEntry{Actor: entities.SideEnemy, Action: entities.FeedPump})
				return PumpSpeed, nil
			}
		}
	}

	strike := Hit(a.rng, attack, a.player.Armor.DefenseRange(), fight.Guard)
	a.dungeon.Damage(strike.Damage)
	fight.Feed.Append(entities.FeedEntry{
		Actor:    entities.SideEnemy,
		Action:   entities.FeedAttack,
		Amount:   strike.Damage,
		Critical: strike.Critical,
		Dodged:   strike.Dodged(),
	})

	return info.Speed, nil
}
