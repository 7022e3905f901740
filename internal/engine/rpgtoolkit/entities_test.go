package rpgtoolkit

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/KirkDiggler/rpg-dungeon/internal/entities/catalog"
)

func TestPlayerEntity(t *testing.T) {
	entity := &PlayerEntity{ID: "player-123"}

	assert.Equal(t, "player-123", entity.GetID())
	assert.Equal(t, EntityTypePlayer, entity.GetType())
}

func TestEnemyEntity(t *testing.T) {
	t.Run("ordinary enemy", func(t *testing.T) {
		entity, ok := lookupEnemy("RAT")

		assert.True(t, ok)
		assert.Equal(t, "RAT", entity.GetID())
		assert.Equal(t, EntityTypeEnemy, entity.GetType())
		assert.Equal(t, "Rat", entity.Name)
	})

	t.Run("boss", func(t *testing.T) {
		entity, ok := lookupEnemy(catalog.BossYog)

		assert.True(t, ok)
		assert.Equal(t, catalog.BossYog, entity.GetID())
		assert.Equal(t, EntityTypeBoss, entity.GetType())
	})

	t.Run("unknown key", func(t *testing.T) {
		_, ok := lookupEnemy("DRAGON")
		assert.False(t, ok)
	})
}
