// Package identity encodes catalog references as stable "<token>:<key>" strings
// for persisted records. Gear tokens carry the upgrade level: "WI-2:DAGGER".
package identity

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/KirkDiggler/rpg-dungeon/internal/entities/catalog"
	"github.com/KirkDiggler/rpg-dungeon/internal/errors"
)

// Tokens
const (
	TokenEnemy   = "E"
	TokenBoss    = "B"
	TokenPlain   = "I"
	TokenUsable  = "UI"
	TokenBattle  = "BI"
	TokenHealing = "HI"
	TokenWeapon  = "WI"
	TokenArmor   = "AI"
)

var classTokens = map[catalog.Class]string{
	catalog.ClassPlain:   TokenPlain,
	catalog.ClassUsable:  TokenUsable,
	catalog.ClassBattle:  TokenBattle,
	catalog.ClassHealing: TokenHealing,
	catalog.ClassWeapon:  TokenWeapon,
	catalog.ClassArmor:   TokenArmor,
}

var tokenClasses = map[string]catalog.Class{
	TokenPlain:   catalog.ClassPlain,
	TokenUsable:  catalog.ClassUsable,
	TokenBattle:  catalog.ClassBattle,
	TokenHealing: catalog.ClassHealing,
	TokenWeapon:  catalog.ClassWeapon,
	TokenArmor:   catalog.ClassArmor,
}

// EncodeItem returns the identity of an item reference.
func EncodeItem(item catalog.Item) (string, error) {
	token, ok := classTokens[item.Class]
	if !ok || !item.Valid() {
		return "", errors.InvalidArgumentf("cannot encode item %+v", item)
	}
	if item.Class.IsGear() {
		return fmt.Sprintf("%s-%d:%s", token, item.Level, item.Key), nil
	}
	return token + ":" + item.Key, nil
}

// DecodeItem resolves an item identity against the catalog.
func DecodeItem(id string) (catalog.Item, error) {
	token, key, ok := strings.Cut(id, ":")
	if !ok || key == "" {
		return catalog.Item{}, corrupt(id, "malformed identity")
	}

	level := 0
	if base, lvl, hasLevel := strings.Cut(token, "-"); hasLevel {
		n, err := strconv.Atoi(lvl)
		if err != nil || n < 0 || n > catalog.MaxGearLevel {
			return catalog.Item{}, corrupt(id, "malformed gear level")
		}
		token, level = base, n
		if token != TokenWeapon && token != TokenArmor {
			return catalog.Item{}, corrupt(id, "level on non-gear token")
		}
	} else if token == TokenWeapon || token == TokenArmor {
		return catalog.Item{}, corrupt(id, "gear token without level")
	}

	class, ok := tokenClasses[token]
	if !ok {
		return catalog.Item{}, corrupt(id, "unknown token")
	}

	item := catalog.Item{Class: class, Key: key, Level: level}
	if !item.Valid() {
		return catalog.Item{}, corrupt(id, "unknown key")
	}
	return item, nil
}

// EncodeEnemy returns the identity of an enemy or boss.
func EncodeEnemy(info catalog.EnemyInfo) string {
	if info.Boss {
		return TokenBoss + ":" + info.Key
	}
	return TokenEnemy + ":" + info.Key
}

// DecodeEnemy resolves an enemy or boss identity against the catalog.
func DecodeEnemy(id string) (catalog.EnemyInfo, error) {
	token, key, ok := strings.Cut(id, ":")
	if !ok || key == "" {
		return catalog.EnemyInfo{}, corrupt(id, "malformed identity")
	}

	var (
		info  catalog.EnemyInfo
		found bool
	)
	switch token {
	case TokenEnemy:
		info, found = catalog.EnemyByKey(key)
	case TokenBoss:
		info, found = catalog.BossByKey(key)
	default:
		return catalog.EnemyInfo{}, corrupt(id, "unknown token")
	}
	if !found {
		return catalog.EnemyInfo{}, corrupt(id, "unknown key")
	}
	return info, nil
}

func corrupt(id, why string) error {
	return errors.CorruptPersistencef("%s: %q", why, id).WithMeta("identity", id)
}
