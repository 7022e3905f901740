// Package encounter selects and resolves the non-combat events met while
// exploring the dungeon.
package encounter

import (
	"github.com/KirkDiggler/rpg-dungeon/internal/engine/loot"
	"github.com/KirkDiggler/rpg-dungeon/internal/entities"
	"github.com/KirkDiggler/rpg-dungeon/internal/entities/catalog"
	"github.com/KirkDiggler/rpg-dungeon/internal/errors"
	"github.com/KirkDiggler/rpg-dungeon/internal/pkg/random"
)

// Kind is an encounter type
type Kind int

const (
	KindMerchant Kind = iota
	KindChest
	KindLoot
	KindScrollbook
	KindResurrection
)

var kinds = []Kind{KindMerchant, KindChest, KindLoot, KindScrollbook, KindResurrection}

// Kinds returns every encounter type in selection order
func Kinds() []Kind {
	out := make([]Kind, len(kinds))
	copy(out, kinds)
	return out
}

func (k Kind) String() string {
	switch k {
	case KindMerchant:
		return "merchant"
	case KindChest:
		return "chest"
	case KindLoot:
		return "loot"
	case KindScrollbook:
		return "scrollbook"
	case KindResurrection:
		return "resurrection"
	default:
		return "unknown"
	}
}

// Reputation is the reputation needed to meet the encounter
func (k Kind) Reputation() int64 {
	if k == KindResurrection {
		return catalog.RegionHell.Threshold() + 15000
	}
	return 0
}

// Reward rolls
const (
	merchantMultiplier = 1.5
	chestMultiplier    = 2.0
	lootMultiplier     = .8

	abandonedShopGold = .2
	chestGold         = .4
	lootGold          = .1

	scrollChance  = .2
	wipeoutChance = .85
	minBookXP     = 10
	maxBookXP     = 50
)

// Encounter is a prepared encounter waiting for the player's answer
type Encounter struct {
	Kind Kind
	// Offer and Price are the merchant's wares
	Offer catalog.Item
	Price int64
	// Abandoned marks a merchant with nothing left to sell
	Abandoned bool
}

// NeedsAnswer reports whether the player has to accept or decline
func (e *Encounter) NeedsAnswer() bool {
	return e.Kind != KindLoot
}

// Result is what resolving an encounter changed
type Result struct {
	Kind     Kind
	Accepted bool
	Item     catalog.Item
	Gold     int64
	Paid     int64
	HPLost   int
	XP       int64
	// Boss is set when the encounter starts a boss fight
	Boss *catalog.EnemyInfo
}

// Selector picks encounters and rolls their rewards
type Selector struct {
	rng   random.Source
	table *loot.Table
}

// NewSelector creates a selector drawing from rng
func NewSelector(rng random.Source) *Selector {
	return &Selector{rng: rng, table: loot.New(rng)}
}

// Select picks an encounter type uniformly among those the reputation unlocked
func (s *Selector) Select(reputation int64) Kind {
	eligible := loot.Eligible(kinds, reputation)
	return eligible[random.Index(s.rng, len(eligible))]
}

// Prepare rolls everything the player needs to see before answering
func (s *Selector) Prepare(kind Kind, player *entities.Player) *Encounter {
	enc := &Encounter{Kind: kind}
	if kind != KindMerchant {
		return enc
	}

	reputation := player.Reputation()
	item, ok := s.table.Draw(&loot.DrawInput{
		Packs: []catalog.Pack{
			catalog.MustPack(catalog.PackArmor),
			catalog.MustPack(catalog.PackWeapons),
			catalog.MustPack(catalog.PackHealies),
		},
		Reputation: reputation,
		Multiplier: merchantMultiplier,
	})
	if !ok {
		enc.Abandoned = true
		return enc
	}
	enc.Offer = item
	enc.Price = s.price(item.BasePrice() + reputation*5)
	return enc
}

// price shifts base up or down by less than half
func (s *Selector) price(base int64) int64 {
	var amount int64
	if half := random.Round(float64(base) * .5); half > 0 {
		amount = int64(random.Index(s.rng, half))
	}
	if random.Flip(s.rng) {
		amount = -amount
	}
	return base + amount
}

// Resolve applies the player's answer. Rejections leave the player untouched.
func (s *Selector) Resolve(enc *Encounter, player *entities.Player, accept bool) (*Result, error) {
	if player.Dungeon == nil {
		return nil, errors.InvalidAction("encounters only happen in the dungeon")
	}

	result := &Result{Kind: enc.Kind, Accepted: accept}
	if enc.Kind == KindLoot {
		result.Accepted = true
		s.loot(player, result)
		return result, nil
	}
	if !accept {
		return result, nil
	}

	switch enc.Kind {
	case KindMerchant:
		if enc.Abandoned {
			s.breakIn(player, result)
			return result, nil
		}
		if err := buy(enc, player, result); err != nil {
			return nil, err
		}
		return result, nil
	case KindChest:
		if err := s.openChest(player, result); err != nil {
			return nil, err
		}
		return result, nil
	case KindScrollbook:
		s.read(player, result)
		return result, nil
	case KindResurrection:
		if !player.Inventory.Remove(catalog.MustItem(catalog.ItemAnkh), 1) {
			return nil, errors.InsufficientResource("you don't have an ankh")
		}
		yog := catalog.RegionHell.Boss()
		result.Boss = &yog
		return result, nil
	}
	return nil, errors.InvalidActionf("unknown encounter %d", int(enc.Kind))
}

func buy(enc *Encounter, player *entities.Player, result *Result) error {
	if player.Gold < enc.Price {
		return errors.InsufficientResource("not enough gold").
			WithMeta("price", enc.Price).
			WithMeta("gold", player.Gold)
	}
	player.Gold -= enc.Price
	player.Inventory.Add(enc.Offer, 1)
	player.Dungeon.Stats.ItemsPurchased++
	result.Item = enc.Offer
	result.Paid = enc.Price
	return nil
}

func (s *Selector) breakIn(player *entities.Player, result *Result) {
	if random.Flip(s.rng) {
		result.Gold = s.table.Gold(player.Gold, abandonedShopGold)
		player.Gold += result.Gold
		return
	}
	result.HPLost = halveHP(player)
}

func (s *Selector) openChest(player *entities.Player, result *Result) error {
	if !player.Inventory.Remove(catalog.MustItem(catalog.ItemKey), 1) {
		return errors.InsufficientResource("you don't have a key")
	}
	player.Dungeon.Stats.ChestsOpened++

	fallback := catalog.MustPack(catalog.PackAllNoRarity)
	item, ok := s.table.Draw(&loot.DrawInput{
		Packs: []catalog.Pack{
			catalog.MustPack(catalog.PackWeapons),
			catalog.MustPack(catalog.PackArmor),
			catalog.MustPack(catalog.PackHealies),
		},
		Reputation: player.Reputation(),
		Multiplier: chestMultiplier,
		Fallback:   &fallback,
	})
	s.reward(player, result, item, ok, chestGold)
	return nil
}

func (s *Selector) loot(player *entities.Player, result *Result) {
	fallback := catalog.MustPack(catalog.PackHealies)
	item, ok := s.table.Draw(&loot.DrawInput{
		Packs:      []catalog.Pack{catalog.MustPack(catalog.PackItems)},
		Reputation: player.Reputation(),
		Multiplier: lootMultiplier,
		Fallback:   &fallback,
	})
	s.reward(player, result, item, ok, lootGold)
}

// reward hands over the drawn item, or a share of gold when nothing was drawn
func (s *Selector) reward(player *entities.Player, result *Result, item catalog.Item, ok bool, gold float64) {
	if ok {
		player.Inventory.Add(item, 1)
		result.Item = item
		return
	}
	result.Gold = s.table.Gold(player.Gold, gold)
	player.Gold += result.Gold
}

func (s *Selector) read(player *entities.Player, result *Result) {
	player.Dungeon.Stats.BooksRead++

	if random.Flip(s.rng) {
		result.HPLost = halveHP(player)
		return
	}
	if random.Chance(s.rng, scrollChance) {
		scroll := catalog.MustItem(catalog.ItemScrollUpgrade)
		if random.Chance(s.rng, wipeoutChance) {
			scroll = catalog.MustItem(catalog.ItemScrollWipeout)
		}
		player.Inventory.Add(scroll, 1)
		result.Item = scroll
		return
	}
	result.XP = int64(random.IntRange(s.rng, minBookXP, maxBookXP))
	player.XP += result.XP
}

func halveHP(player *entities.Player) int {
	before := player.Dungeon.HP
	player.Dungeon.SetHP(before/2, player.MaxHP())
	return before - player.Dungeon.HP
}
