package rpgtoolkit

import (
	"github.com/KirkDiggler/rpg-toolkit/core"

	"github.com/KirkDiggler/rpg-dungeon/internal/entities/catalog"
)

// Entity types published on the bus
const (
	EntityTypePlayer = "player"
	EntityTypeEnemy  = "enemy"
	EntityTypeBoss   = "boss"
)

// PlayerEntity identifies a player to implement core.Entity interface
type PlayerEntity struct {
	ID string
}

// GetID returns the player's ID
func (p *PlayerEntity) GetID() string {
	return p.ID
}

// GetType returns the entity type for rpg-toolkit
func (p *PlayerEntity) GetType() string {
	return EntityTypePlayer
}

// EnemyEntity wraps a catalog enemy to implement core.Entity interface
type EnemyEntity struct {
	catalog.EnemyInfo
}

// GetID returns the enemy's catalog key
func (e *EnemyEntity) GetID() string {
	return e.Key
}

// GetType returns the entity type for rpg-toolkit
func (e *EnemyEntity) GetType() string {
	if e.Boss {
		return EntityTypeBoss
	}
	return EntityTypeEnemy
}

// Compile-time check that our entity wrappers implement core.Entity
var (
	_ core.Entity = (*PlayerEntity)(nil)
	_ core.Entity = (*EnemyEntity)(nil)
)

// lookupEnemy finds an ordinary enemy or a boss by key
func lookupEnemy(key string) (*EnemyEntity, bool) {
	if info, ok := catalog.EnemyByKey(key); ok {
		return &EnemyEntity{EnemyInfo: info}, true
	}
	if info, ok := catalog.BossByKey(key); ok {
		return &EnemyEntity{EnemyInfo: info}, true
	}
	return nil, false
}
