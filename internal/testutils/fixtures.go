package testutils

import (
	"github.com/KirkDiggler/rpg-dungeon/internal/entities"
	"github.com/KirkDiggler/rpg-dungeon/internal/entities/catalog"
)

// TestPlayerID is the default player used by fixtures
const TestPlayerID = "player-test-001"

// CreateTestPlayer creates a castle player with the starter kit
func CreateTestPlayer(id string) *entities.Player {
	if id == "" {
		id = TestPlayerID
	}
	return entities.NewPlayer(id)
}

// CreateExploringPlayer creates a player who just descended with the given
// experience, so reputation starts at zero
func CreateExploringPlayer(id string, xp int64) *entities.Player {
	p := CreateTestPlayer(id)
	p.XP = xp
	p.Descend()
	return p
}

// CreateFightingPlayer creates an exploring player in a fresh fight
func CreateFightingPlayer(id string, enemy catalog.EnemyInfo) *entities.Player {
	p := CreateExploringPlayer(id, entities.StartingXP)
	p.Dungeon.Fight = entities.NewFight(enemy)
	return p
}

// Rat is the weakest ordinary enemy
func Rat() catalog.EnemyInfo {
	rat, ok := catalog.EnemyByKey("RAT")
	if !ok {
		panic("testutils: rat missing from catalog")
	}
	return rat
}
