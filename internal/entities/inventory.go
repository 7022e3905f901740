package entities

import (
	"github.com/KirkDiggler/rpg-dungeon/internal/entities/catalog"
	"github.com/KirkDiggler/rpg-dungeon/internal/errors"
)

// Stack is a quantity of one item reference
type Stack struct {
	Item     catalog.Item
	Quantity int
}

// Inventory is an ordered list of stacks, one per distinct item reference.
// Positions exposed to players are 1-based.
type Inventory struct {
	stacks []Stack
}

// NewInventory builds an inventory from stacks in order. Stacks of the same
// item are merged.
func NewInventory(stacks ...Stack) Inventory {
	var inv Inventory
	for _, s := range stacks {
		inv.restore(s)
	}
	return inv
}

func (inv *Inventory) restore(s Stack) {
	if i := inv.index(s.Item); i >= 0 {
		inv.stacks[i].Quantity += s.Quantity
		return
	}
	inv.stacks = append(inv.stacks, s)
}

func (inv *Inventory) index(item catalog.Item) int {
	for i, s := range inv.stacks {
		if s.Item == item {
			return i
		}
	}
	return -1
}

// Add puts quantity of item into the inventory
func (inv *Inventory) Add(item catalog.Item, quantity int) {
	if quantity <= 0 {
		return
	}
	if i := inv.index(item); i >= 0 {
		inv.stacks[i].Quantity += quantity
		return
	}
	inv.stacks = append(inv.stacks, Stack{Item: item, Quantity: quantity})
}

// Remove takes quantity of item out. It reports false and changes nothing
// when there is not enough.
func (inv *Inventory) Remove(item catalog.Item, quantity int) bool {
	i := inv.index(item)
	if i < 0 || inv.stacks[i].Quantity < quantity {
		return false
	}
	inv.stacks[i].Quantity -= quantity
	if inv.stacks[i].Quantity <= 0 {
		inv.stacks = append(inv.stacks[:i], inv.stacks[i+1:]...)
	}
	return true
}

// Quantity returns how many of item the inventory holds
func (inv *Inventory) Quantity(item catalog.Item) int {
	if i := inv.index(item); i >= 0 {
		return inv.stacks[i].Quantity
	}
	return 0
}

// Has reports whether at least one of item is held
func (inv *Inventory) Has(item catalog.Item) bool {
	return inv.Quantity(item) > 0
}

// Stacks returns a copy of the stacks in order
func (inv *Inventory) Stacks() []Stack {
	out := make([]Stack, len(inv.stacks))
	copy(out, inv.stacks)
	return out
}

// Len returns the number of stacks
func (inv *Inventory) Len() int {
	return len(inv.stacks)
}

// At returns the stack at a 1-based position. A stack left with no quantity
// is removed and reported as missing.
func (inv *Inventory) At(position int) (Stack, error) {
	if position < 1 || position > len(inv.stacks) {
		return Stack{}, errors.InvalidPosition(position, len(inv.stacks))
	}
	s := inv.stacks[position-1]
	if s.Quantity <= 0 {
		inv.stacks = append(inv.stacks[:position-1], inv.stacks[position:]...)
		return Stack{}, errors.InsufficientResource("you don't have that item").
			WithMeta("position", position)
	}
	return s, nil
}
