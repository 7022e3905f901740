package v1_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/KirkDiggler/rpg-dungeon/internal/entities"
	"github.com/KirkDiggler/rpg-dungeon/internal/errors"
	v1 "github.com/KirkDiggler/rpg-dungeon/internal/handlers/game/v1"
	"github.com/KirkDiggler/rpg-dungeon/internal/orchestrators/game"
	"github.com/KirkDiggler/rpg-dungeon/internal/testutils"
)

func TestPromptKeepsItsView(t *testing.T) {
	view := game.NewView(testutils.CreateFightingPlayer(testutils.TestPlayerID, testutils.Rat()))
	raw, err := v1.Encode(&v1.Message{Prompt: &game.Prompt{
		Kind:    game.PromptFight,
		Options: []game.ActionKind{game.ActionAttack, game.ActionGuard},
		View:    view,
	}})
	require.NoError(t, err)

	promptField := raw.GetFields()["prompt"].GetStructValue()
	require.NotNil(t, promptField)
	assert.Equal(t, "fight", promptField.GetFields()["kind"].GetStringValue())

	msg, err := v1.Decode(raw)
	require.NoError(t, err)
	require.NotNil(t, msg.Prompt)
	assert.Nil(t, msg.Event)
	assert.Equal(t, []game.ActionKind{game.ActionAttack, game.ActionGuard}, msg.Prompt.Options)
	require.NotNil(t, msg.Prompt.View.Enemy)
	assert.Equal(t, view.Enemy.Name, msg.Prompt.View.Enemy.Name)
	assert.Equal(t, view.HP, msg.Prompt.View.HP)
	assert.Equal(t, view.Inventory, msg.Prompt.View.Inventory)
}

func TestEventCarriesFeed(t *testing.T) {
	raw, err := v1.Encode(&v1.Message{Event: &game.Event{
		Kind:     game.EventVictory,
		PlayerID: "p1",
		Data:     map[string]any{"gold": 2, "enemy": "RAT"},
		Feed: []entities.FeedEntry{
			{Actor: entities.SideEnemy, Action: entities.FeedAttack, Amount: 4, Critical: true},
		},
	}})
	require.NoError(t, err)

	msg, err := v1.Decode(raw)
	require.NoError(t, err)
	require.NotNil(t, msg.Event)
	assert.Equal(t, "RAT", msg.Event.Data["enemy"])
	assert.EqualValues(t, 2, msg.Event.Data["gold"])
	require.Len(t, msg.Event.Feed, 1)
	assert.Equal(t, entities.SideEnemy, msg.Event.Feed[0].Actor)
	assert.True(t, msg.Event.Feed[0].Critical)
}

func TestDecodeAction(t *testing.T) {
	raw, err := structpb.NewStruct(map[string]any{
		"action": map[string]any{"kind": "use", "index": 3},
	})
	require.NoError(t, err)

	msg, err := v1.Decode(raw)
	require.NoError(t, err)
	assert.Equal(t, &game.Action{Kind: game.ActionUseItem, Index: 3}, msg.Action)
}

func TestDecodeRejectsMalformedAction(t *testing.T) {
	raw, err := structpb.NewStruct(map[string]any{"action": []any{"use"}})
	require.NoError(t, err)

	_, err = v1.Decode(raw)
	assert.True(t, errors.IsInvalidArgument(err))

	_, err = v1.Decode(nil)
	assert.True(t, errors.IsInvalidArgument(err))
}
