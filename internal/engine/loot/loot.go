// Package loot implements reputation-gated weighted selection of items,
// enemies and gold.
package loot

import (
	"math"
	"slices"

	"github.com/KirkDiggler/rpg-dungeon/internal/entities/catalog"
	"github.com/KirkDiggler/rpg-dungeon/internal/pkg/random"
)

// Gated is anything unlocked by reputation.
type Gated interface {
	Reputation() int64
}

// Eligible keeps candidates whose threshold the reputation reaches, in order.
func Eligible[T Gated](candidates []T, reputation int64) []T {
	var out []T
	for _, c := range candidates {
		if c.Reputation() <= reputation {
			out = append(out, c)
		}
	}
	return out
}

// Table draws from packs with one random source.
type Table struct {
	rng random.Source
}

// New creates a loot table.
func New(rng random.Source) *Table {
	return &Table{rng: rng}
}

// DrawInput describes one loot roll.
type DrawInput struct {
	Packs      []catalog.Pack
	Reputation int64
	// Multiplier scales every pack's rarity for this roll
	Multiplier float64
	// Fallback is drawn from uniformly when no pack wins
	Fallback *catalog.Pack
}

// Draw tries packs in descending rarity order, each with probability
// rarity×multiplier, and picks from the first that succeeds. Unweighted packs
// and packs with nothing eligible take no part in the roll.
func (t *Table) Draw(input *DrawInput) (catalog.Item, bool) {
	var candidates []catalog.Pack
	for _, p := range input.Packs {
		if p.Weighted() && len(Eligible(p.Items, input.Reputation)) > 0 {
			candidates = append(candidates, p)
		}
	}
	slices.SortStableFunc(candidates, func(a, b catalog.Pack) int {
		return cmpDesc(a.Rarity, b.Rarity)
	})

	for _, p := range candidates {
		if random.Chance(t.rng, p.Rarity*input.Multiplier) {
			return t.Pick(p, input.Reputation)
		}
	}

	if input.Fallback == nil {
		return catalog.Item{}, false
	}
	return t.uniform(Eligible(input.Fallback.Items, input.Reputation))
}

// Pick selects one eligible item from a pack that has already been chosen.
// Unweighted packs pick uniformly. Weighted packs yield the eligible item with
// the highest individual rarity, first in pack order on ties.
func (t *Table) Pick(pack catalog.Pack, reputation int64) (catalog.Item, bool) {
	eligible := Eligible(pack.Items, reputation)
	if len(eligible) == 0 {
		return catalog.Item{}, false
	}
	if !pack.Weighted() {
		return t.uniform(eligible)
	}

	slices.SortStableFunc(eligible, func(a, b catalog.Item) int {
		return cmpDesc(a.Rarity(), b.Rarity())
	})
	return eligible[0], true
}

func (t *Table) uniform(items []catalog.Item) (catalog.Item, bool) {
	if len(items) == 0 {
		return catalog.Item{}, false
	}
	return items[random.Index(t.rng, len(items))], true
}

// Enemy picks a uniformly random ordinary enemy of the reputation's region
// that the reputation has unlocked.
func (t *Table) Enemy(reputation int64) (catalog.EnemyInfo, bool) {
	region := catalog.RegionFor(reputation)
	eligible := Eligible(catalog.EnemiesIn(region), reputation)
	if len(eligible) == 0 {
		return catalog.EnemyInfo{}, false
	}
	return eligible[random.Index(t.rng, len(eligible))], true
}

// Gold is a random share of the current gold: round(gold × rand × top) + 1.
func (t *Table) Gold(current int64, top float64) int64 {
	return int64(math.Round(float64(current)*t.rng.Float64()*top)) + 1
}

func cmpDesc(a, b float64) int {
	switch {
	case a > b:
		return -1
	case a < b:
		return 1
	}
	return 0
}
