package items_test

import (
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/KirkDiggler/rpg-dungeon/internal/engine/items"
	"github.com/KirkDiggler/rpg-dungeon/internal/entities"
	"github.com/KirkDiggler/rpg-dungeon/internal/entities/catalog"
	"github.com/KirkDiggler/rpg-dungeon/internal/errors"
)

type ItemsTestSuite struct {
	suite.Suite
	player *entities.Player
}

func TestItemsSuite(t *testing.T) {
	suite.Run(t, new(ItemsTestSuite))
}

func (s *ItemsTestSuite) SetupTest() {
	s.player = &entities.Player{
		ID:     "p1",
		XP:     entities.XPForLevel(2),
		Weapon: catalog.Fists(),
		Armor:  catalog.Naked(),
	}
}

// give puts a single stack in the inventory and returns its position
func (s *ItemsTestSuite) give(item catalog.Item, quantity int) int {
	s.player.Inventory.Add(item, quantity)
	for i, stack := range s.player.Inventory.Stacks() {
		if stack.Item == item {
			return i + 1
		}
	}
	s.FailNow("item not added")
	return 0
}

func (s *ItemsTestSuite) fight(enemy catalog.EnemyInfo) *entities.Fight {
	s.player.Descend()
	fight := entities.NewFight(enemy)
	s.player.Dungeon.Fight = fight
	return fight
}

func (s *ItemsTestSuite) TestInvalidPosition() {
	s.give(catalog.MustItem(catalog.ItemFoodRation), 1)

	_, err := items.Use(&items.UseInput{Player: s.player, Place: items.PlaceCastle, Position: 5})

	s.Error(err)
	s.True(errors.IsInvalidAction(err))
	s.Equal(errors.CodeOutOfRange, errors.GetCode(err))
}

func (s *ItemsTestSuite) TestUsability() {
	s.Run("plain items are never usable", func() {
		for _, place := range []items.Place{items.PlaceCastle, items.PlaceDungeon, items.PlaceFight} {
			s.False(items.Usable(catalog.ClassPlain, place), place.String())
		}
	})

	s.Run("gear only in the castle", func() {
		s.True(items.Usable(catalog.ClassWeapon, items.PlaceCastle))
		s.False(items.Usable(catalog.ClassWeapon, items.PlaceDungeon))
		s.False(items.Usable(catalog.ClassArmor, items.PlaceFight))
	})

	s.Run("battle items only in a fight", func() {
		s.True(items.Usable(catalog.ClassBattle, items.PlaceFight))
		s.False(items.Usable(catalog.ClassBattle, items.PlaceDungeon))
		s.False(items.Usable(catalog.ClassBattle, items.PlaceCastle))
	})

	s.Run("healing outside the castle", func() {
		s.False(items.Usable(catalog.ClassHealing, items.PlaceCastle))
		s.True(items.Usable(catalog.ClassHealing, items.PlaceDungeon))
		s.True(items.Usable(catalog.ClassHealing, items.PlaceFight))
	})
}

func (s *ItemsTestSuite) TestKeyIsRejected() {
	pos := s.give(catalog.MustItem(catalog.ItemKey), 1)

	_, err := items.Use(&items.UseInput{Player: s.player, Place: items.PlaceCastle, Position: pos})

	s.True(errors.IsInvalidAction(err))
	s.Equal(1, s.player.Inventory.Quantity(catalog.MustItem(catalog.ItemKey)))
}

func (s *ItemsTestSuite) TestHealing() {
	ration := catalog.MustItem(catalog.ItemFoodRation)

	s.Run("rejected at full health while exploring", func() {
		s.SetupTest()
		pos := s.give(ration, 2)
		s.player.Descend()

		_, err := items.Use(&items.UseInput{Player: s.player, Place: items.PlaceDungeon, Position: pos})

		s.True(errors.IsInvalidAction(err))
		s.Equal(2, s.player.Inventory.Quantity(ration))
		s.Equal(0, s.player.Dungeon.Stats.HealingConsumed)
	})

	s.Run("heals up to the cap", func() {
		s.SetupTest()
		pos := s.give(ration, 2)
		s.player.Descend()
		s.player.Dungeon.HP = s.player.MaxHP() - 12

		effect, err := items.Use(&items.UseInput{Player: s.player, Place: items.PlaceDungeon, Position: pos})

		s.Require().NoError(err)
		s.Equal(12, effect.Healed)
		s.True(effect.Consumed)
		s.Equal(0.0, effect.Speed)
		s.Equal(s.player.MaxHP(), s.player.Dungeon.HP)
		s.Equal(1, s.player.Inventory.Quantity(ration))
		s.Equal(1, s.player.Dungeon.Stats.HealingConsumed)
	})

	s.Run("wasted at full health in a fight", func() {
		s.SetupTest()
		pos := s.give(ration, 1)
		rat, _ := catalog.EnemyByKey("RAT")
		fight := s.fight(rat)

		effect, err := items.Use(&items.UseInput{Player: s.player, Place: items.PlaceFight, Position: pos})

		s.Require().NoError(err)
		s.True(effect.Consumed)
		s.Equal(0, effect.Healed)
		s.Equal(ration.Speed(), effect.Speed)
		s.False(s.player.Inventory.Has(ration))
		s.Equal(entities.FeedItem, fight.Feed.Last(1)[0].Action)
	})
}

func (s *ItemsTestSuite) TestWipeout() {
	scroll := catalog.MustItem(catalog.ItemScrollWipeout)

	s.Run("kills an ordinary enemy", func() {
		s.SetupTest()
		pos := s.give(scroll, 1)
		rat, _ := catalog.EnemyByKey("RAT")
		fight := s.fight(rat)

		effect, err := items.Use(&items.UseInput{Player: s.player, Place: items.PlaceFight, Position: pos})

		s.Require().NoError(err)
		s.True(effect.Wiped)
		s.Equal(0, fight.Enemy.HP)
		s.Equal(1.0, effect.Speed)
		s.False(s.player.Inventory.Has(scroll))
		s.Equal(entities.FeedWipeout, fight.Feed.Last(1)[0].Action)
	})

	s.Run("bosses resist but the scroll is spent", func() {
		s.SetupTest()
		pos := s.give(scroll, 1)
		goo, _ := catalog.BossByKey(catalog.BossGoo)
		fight := s.fight(goo)

		effect, err := items.Use(&items.UseInput{Player: s.player, Place: items.PlaceFight, Position: pos})

		s.Require().NoError(err)
		s.True(effect.Resisted)
		s.Equal(goo.MaxHP, fight.Enemy.HP)
		s.False(s.player.Inventory.Has(scroll))
	})

	s.Run("useless outside a fight", func() {
		s.SetupTest()
		pos := s.give(scroll, 1)
		s.player.Descend()

		_, err := items.Use(&items.UseInput{Player: s.player, Place: items.PlaceDungeon, Position: pos})

		s.True(errors.IsInvalidAction(err))
		s.True(s.player.Inventory.Has(scroll))
	})
}

func (s *ItemsTestSuite) TestUpgrade() {
	scroll := catalog.MustItem(catalog.ItemScrollUpgrade)

	s.Run("raises the weapon a level", func() {
		s.SetupTest()
		s.player.Weapon = catalog.Weapon("DAGGER", 1)
		pos := s.give(scroll, 1)

		effect, err := items.Use(&items.UseInput{Player: s.player, Place: items.PlaceCastle, Position: pos, Slot: items.SlotWeapon})

		s.Require().NoError(err)
		s.Equal(catalog.Weapon("DAGGER", 2), s.player.Weapon)
		s.Equal(catalog.Weapon("DAGGER", 2), effect.Upgraded)
		s.False(s.player.Inventory.Has(scroll))
	})

	s.Run("default gear cannot be upgraded", func() {
		s.SetupTest()
		pos := s.give(scroll, 1)

		_, err := items.Use(&items.UseInput{Player: s.player, Place: items.PlaceCastle, Position: pos, Slot: items.SlotArmor})

		s.True(errors.IsIllegalUpgrade(err))
		s.Equal(catalog.Naked(), s.player.Armor)
		s.True(s.player.Inventory.Has(scroll))
	})

	s.Run("maximum level cannot be upgraded", func() {
		s.SetupTest()
		s.player.Armor = catalog.Armor("SHIRT", catalog.MaxGearLevel)
		pos := s.give(scroll, 1)

		_, err := items.Use(&items.UseInput{Player: s.player, Place: items.PlaceCastle, Position: pos, Slot: items.SlotArmor})

		s.True(errors.IsIllegalUpgrade(err))
		s.Equal(catalog.MaxGearLevel, s.player.Armor.Level)
		s.True(s.player.Inventory.Has(scroll))
	})

	s.Run("declining keeps the scroll", func() {
		s.SetupTest()
		s.player.Weapon = catalog.Weapon("DAGGER", 1)
		pos := s.give(scroll, 1)

		effect, err := items.Use(&items.UseInput{Player: s.player, Place: items.PlaceCastle, Position: pos})

		s.Require().NoError(err)
		s.True(effect.Declined)
		s.True(s.player.Inventory.Has(scroll))
		s.Equal(1, s.player.Weapon.Level)
	})

	s.True(items.NeedsSlot(scroll))
	s.False(items.NeedsSlot(catalog.MustItem(catalog.ItemPotionExp)))
}

func (s *ItemsTestSuite) TestExperiencePotion() {
	potion := catalog.MustItem(catalog.ItemPotionExp)
	s.player.XP = entities.XPForLevel(3) + 2
	pos := s.give(potion, 1)

	effect, err := items.Use(&items.UseInput{Player: s.player, Place: items.PlaceCastle, Position: pos})

	s.Require().NoError(err)
	s.Equal(4, s.player.Level())
	s.Equal(entities.XPForLevel(4), s.player.XP)
	s.Equal(entities.XPForLevel(4)-entities.XPForLevel(3)-2, effect.XPGained)
}

func (s *ItemsTestSuite) TestEquip() {
	dagger := catalog.Weapon("DAGGER", 1)
	axe := catalog.Weapon("AXE", 0)
	s.give(dagger, 2)
	s.give(axe, 1)

	s.Run("defaults do not go back", func() {
		pos := s.positionOf(dagger)
		effect, err := items.Use(&items.UseInput{Player: s.player, Place: items.PlaceCastle, Position: pos})

		s.Require().NoError(err)
		s.Equal(dagger, s.player.Weapon)
		s.True(effect.Replaced.IsZero())
		s.Equal(1, s.player.Inventory.Quantity(dagger))
		s.False(s.player.Inventory.Has(catalog.Fists()))
	})

	s.Run("replaced gear goes back", func() {
		pos := s.positionOf(axe)
		effect, err := items.Use(&items.UseInput{Player: s.player, Place: items.PlaceCastle, Position: pos})

		s.Require().NoError(err)
		s.Equal(axe, s.player.Weapon)
		s.Equal(dagger, effect.Replaced)
		s.Equal(2, s.player.Inventory.Quantity(dagger))
	})

	s.Run("not while exploring", func() {
		s.player.Descend()
		pos := s.positionOf(dagger)
		_, err := items.Use(&items.UseInput{Player: s.player, Place: items.PlaceDungeon, Position: pos})

		s.True(errors.IsInvalidAction(err))
		s.Equal(axe, s.player.Weapon)
	})
}

func (s *ItemsTestSuite) positionOf(item catalog.Item) int {
	for i, stack := range s.player.Inventory.Stacks() {
		if stack.Item == item && stack.Quantity > 0 {
			return i + 1
		}
	}
	s.FailNow("item not in inventory")
	return 0
}
