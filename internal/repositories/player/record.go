package player

import (
	"encoding/json"

	"github.com/KirkDiggler/rpg-dungeon/internal/entities"
	"github.com/KirkDiggler/rpg-dungeon/internal/entities/catalog"
	"github.com/KirkDiggler/rpg-dungeon/internal/errors"
	"github.com/KirkDiggler/rpg-dungeon/internal/identity"
)

// recordVersion is bumped whenever the stored layout changes incompatibly
const recordVersion = 1

// record is the stored form of a player. Catalog references are kept as
// identity strings so that catalog structs never leak into storage.
type record struct {
	Version   int            `json:"version"`
	ID        string         `json:"id"`
	Gold      int64          `json:"gold"`
	XP        int64          `json:"xp"`
	Weapon    string         `json:"weapon"`
	Armor     string         `json:"armor"`
	Inventory []stackRecord  `json:"inventory"`
	Dungeon   *dungeonRecord `json:"dungeon,omitempty"`
}

type stackRecord struct {
	Item     string `json:"item"`
	Quantity int    `json:"quantity"`
}

type dungeonRecord struct {
	HP             int                 `json:"hp"`
	Step           int                 `json:"step"`
	LastEncounter  int                 `json:"last_encounter"`
	LevelMark      int                 `json:"level_mark"`
	LastRegionBoss string              `json:"last_region_boss"`
	ReputationMark int64               `json:"reputation_mark"`
	Stats          entities.Statistics `json:"stats"`
	Fight          *fightRecord        `json:"fight,omitempty"`
}

type fightRecord struct {
	Enemy      string               `json:"enemy"`
	EnemyHP    int                  `json:"enemy_hp"`
	Pump       int                  `json:"pump,omitempty"`
	Guard      int                  `json:"guard"`
	PlayerTime float64              `json:"player_time"`
	EnemyTime  float64              `json:"enemy_time"`
	Next       string               `json:"next"`
	Started    bool                 `json:"started"`
	Feed       []entities.FeedEntry `json:"feed,omitempty"`
}

// Marshal encodes a player into its stored JSON form
func Marshal(p *entities.Player) ([]byte, error) {
	rec, err := toRecord(p)
	if err != nil {
		return nil, err
	}
	data, err := json.Marshal(rec)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to marshal player %s", p.ID)
	}
	return data, nil
}

// Unmarshal decodes a stored player. Anything that does not decode cleanly
// is reported as corrupt persistence for that record.
func Unmarshal(data []byte) (*entities.Player, error) {
	var rec record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, errors.CorruptPersistencef("player record is not valid JSON: %v", err)
	}
	p, err := fromRecord(&rec)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to decode player %s", rec.ID).WithMeta("player_id", rec.ID)
	}
	return p, nil
}

func toRecord(p *entities.Player) (*record, error) {
	weapon, err := identity.EncodeItem(p.Weapon)
	if err != nil {
		return nil, errors.Wrap(err, "failed to encode weapon")
	}
	armor, err := identity.EncodeItem(p.Armor)
	if err != nil {
		return nil, errors.Wrap(err, "failed to encode armor")
	}

	rec := &record{
		Version:   recordVersion,
		ID:        p.ID,
		Gold:      p.Gold,
		XP:        p.XP,
		Weapon:    weapon,
		Armor:     armor,
		Inventory: make([]stackRecord, 0, p.Inventory.Len()),
	}
	for _, s := range p.Inventory.Stacks() {
		id, err := identity.EncodeItem(s.Item)
		if err != nil {
			return nil, errors.Wrap(err, "failed to encode inventory")
		}
		rec.Inventory = append(rec.Inventory, stackRecord{Item: id, Quantity: s.Quantity})
	}

	if d := p.Dungeon; d != nil {
		rec.Dungeon = &dungeonRecord{
			HP:             d.HP,
			Step:           d.Step,
			LastEncounter:  d.LastEncounter,
			LevelMark:      d.LevelMark,
			LastRegionBoss: d.LastRegionBoss.Key(),
			ReputationMark: d.ReputationMark,
			Stats:          d.Stats,
		}
		if f := d.Fight; f != nil {
			rec.Dungeon.Fight = &fightRecord{
				Enemy:      identity.EncodeEnemy(f.Enemy.Info),
				EnemyHP:    f.Enemy.HP,
				Pump:       f.Enemy.Pump,
				Guard:      f.Guard,
				PlayerTime: f.PlayerTime,
				EnemyTime:  f.EnemyTime,
				Next:       f.Next.String(),
				Started:    f.Started,
				Feed:       f.Feed.Entries(),
			}
		}
	}
	return rec, nil
}

func fromRecord(rec *record) (*entities.Player, error) {
	if rec.Version != recordVersion {
		return nil, errors.CorruptPersistencef("unsupported record version %d", rec.Version)
	}
	if rec.ID == "" {
		return nil, errors.CorruptPersistence("record has no player id")
	}

	weapon, err := identity.DecodeItem(rec.Weapon)
	if err != nil {
		return nil, err
	}
	armor, err := identity.DecodeItem(rec.Armor)
	if err != nil {
		return nil, err
	}
	if weapon.Class != catalog.ClassWeapon || armor.Class != catalog.ClassArmor {
		return nil, errors.CorruptPersistence("equipped gear is in the wrong slot")
	}

	stacks := make([]entities.Stack, 0, len(rec.Inventory))
	for _, s := range rec.Inventory {
		item, err := identity.DecodeItem(s.Item)
		if err != nil {
			return nil, err
		}
		stacks = append(stacks, entities.Stack{Item: item, Quantity: s.Quantity})
	}

	p := &entities.Player{
		ID:        rec.ID,
		Gold:      rec.Gold,
		XP:        rec.XP,
		Weapon:    weapon,
		Armor:     armor,
		Inventory: entities.NewInventory(stacks...),
	}
	if rec.Dungeon == nil {
		return p, nil
	}

	d := rec.Dungeon
	region, ok := catalog.RegionByKey(d.LastRegionBoss)
	if !ok {
		return nil, errors.CorruptPersistencef("unknown region %q", d.LastRegionBoss)
	}
	p.Dungeon = &entities.Dungeon{
		HP:             d.HP,
		Step:           d.Step,
		LastEncounter:  d.LastEncounter,
		LevelMark:      d.LevelMark,
		LastRegionBoss: region,
		ReputationMark: d.ReputationMark,
		Stats:          d.Stats,
	}
	if d.Fight == nil {
		return p, nil
	}

	f := d.Fight
	enemy, err := identity.DecodeEnemy(f.Enemy)
	if err != nil {
		return nil, err
	}
	var next entities.Side
	switch f.Next {
	case entities.SidePlayer.String():
		next = entities.SidePlayer
	case entities.SideEnemy.String():
		next = entities.SideEnemy
	default:
		return nil, errors.CorruptPersistencef("unknown fight side %q", f.Next)
	}
	p.Dungeon.Fight = &entities.Fight{
		Enemy:      entities.Enemy{Info: enemy, HP: f.EnemyHP, Pump: f.Pump},
		Guard:      f.Guard,
		PlayerTime: f.PlayerTime,
		EnemyTime:  f.EnemyTime,
		Next:       next,
		Started:    f.Started,
		Feed:       entities.NewFeed(f.Feed),
	}
	return p, nil
}
