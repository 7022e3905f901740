// Package combat resolves fights: damage rolls, enemy behavior and the
// speed-weighted turn schedule.
package combat

import (
	"math"

	"github.com/KirkDiggler/rpg-dungeon/internal/entities"
	"github.com/KirkDiggler/rpg-dungeon/internal/entities/catalog"
	"github.com/KirkDiggler/rpg-dungeon/internal/pkg/random"
)

// CritChance is the probability that a hit deals double damage
const CritChance = .1

// Strike is the outcome of one attack roll
type Strike struct {
	Damage   int
	Critical bool
}

// Dodged reports whether the defender took no damage
func (s Strike) Dodged() bool {
	return s.Damage == 0
}

// CalculateAttack converts an attack value and an opposing defense value into
// damage. Defense is read as a percentage reduction capped at 100.
// Weak hits of 3 or less can be dodged outright with the same probability.
// The dodge is decided on the reduced value; a critical then doubles it.
func CalculateAttack(rng random.Source, attack, defense int, critical bool) int {
	fraction := math.Min(math.Max(float64(defense)*.01, 0), 1)

	value := random.Round(float64(attack) * (1 - fraction))
	if value <= 3 && random.Chance(rng, fraction) {
		value = 0
	}
	if value < 0 {
		value = 0
	}
	if critical {
		value *= 2
	}
	return value
}

// Hit rolls an attack from the attacker's range against the defender's range.
// Each point of guard adds 2 to the defense roll.
func Hit(rng random.Source, attack, defense catalog.Range, guard int) Strike {
	critical := random.Chance(rng, CritChance)
	atk := random.IntRange(rng, attack.Min, attack.Max)
	def := random.IntRange(rng, defense.Min, defense.Max) + guard*2

	return Strike{
		Damage:   CalculateAttack(rng, atk, def, critical),
		Critical: critical,
	}
}

// PlayerAttackRange is the player's weapon range shifted by a tenth of their level
func PlayerAttackRange(player *entities.Player) catalog.Range {
	return player.Weapon.AttackRange().Offset(random.Round(float64(player.Level()) * .1))
}

// PlayerAttack resolves a basic hit on the enemy and returns the weapon speed.
func PlayerAttack(rng random.Source, player *entities.Player, fight *entities.Fight) float64 {
	strike := Hit(rng, PlayerAttackRange(player), fight.Enemy.Info.Defense, 0)

	fight.Enemy.HP -= strike.Damage
	if fight.Enemy.HP < 0 {
		fight.Enemy.HP = 0
	}
	fight.Feed.Append(entities.FeedEntry{
		Actor:    entities.SidePlayer,
		Action:   entities.FeedAttack,
		Amount:   strike.Damage,
		Critical: strike.Critical,
		Dodged:   strike.Dodged(),
	})

	return player.Weapon.Speed()
}
