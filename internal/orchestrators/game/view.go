package game

import (
	"github.com/KirkDiggler/rpg-dungeon/internal/entities"
)

// view snapshots the player's state for a prompt
func (s *session) view() *View {
	return NewView(s.player)
}

// NewView builds the state shown to a player
func NewView(p *entities.Player) *View {
	v := &View{
		PlayerID:    p.ID,
		Level:       p.Level(),
		XP:          p.XP,
		NextLevelXP: p.NextLevelXP(),
		Gold:        p.Gold,
		Weapon:      p.Weapon.Name(),
		Armor:       p.Armor.Name(),
		MaxHP:       p.MaxHP(),
	}
	for i, stack := range p.Inventory.Stacks() {
		v.Inventory = append(v.Inventory, StackView{
			Position: i + 1,
			Key:      stack.Item.Key,
			Name:     stack.Item.Name(),
			Class:    stack.Item.Class.String(),
			Quantity: stack.Quantity,
		})
	}

	d := p.Dungeon
	if d == nil {
		return v
	}
	v.InDungeon = true
	v.HP = d.HP
	v.Step = d.Step
	v.Region = p.Region().Name()
	v.Reputation = p.Reputation()

	if d.Fight == nil {
		return v
	}
	f := d.Fight
	v.Enemy = &EnemyView{
		Key:   f.Enemy.Info.Key,
		Name:  f.Enemy.Info.Name,
		Boss:  f.Enemy.Info.Boss,
		HP:    f.Enemy.HP,
		MaxHP: f.Enemy.Info.MaxHP,
	}
	v.Guard = f.Guard
	v.Feed = f.Feed.Last(promptFeedSize)
	return v
}
