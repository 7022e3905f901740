package player_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KirkDiggler/rpg-dungeon/internal/repositories/player"
	"github.com/KirkDiggler/rpg-dungeon/internal/testutils"
)

func TestVerifyReportsBrokenRecords(t *testing.T) {
	client, mr, cleanup := testutils.CreateTestRedis(t)
	defer cleanup()
	repo, err := player.NewRedis(&player.RedisConfig{Client: client})
	require.NoError(t, err)
	ctx := context.Background()

	_, err = repo.Save(ctx, player.SaveInput{Player: testutils.CreateTestPlayer("healthy")})
	require.NoError(t, err)

	require.NoError(t, mr.Set(player.Key("broken"), `{"version":1,"id":"broken","weapon":"WI-0:BANANA","armor":"AI-0:NAKED"}`))
	_, err = mr.SAdd("player:ids", "broken", "gone")
	require.NoError(t, err)

	out, err := player.Verify(ctx, repo)
	require.NoError(t, err)

	assert.Equal(t, 3, out.Checked)
	require.Len(t, out.Problems, 2)
	assert.Equal(t, "broken", out.Problems[0].ID)
	assert.Equal(t, "corrupt", out.Problems[0].Reason)
	assert.Equal(t, "gone", out.Problems[1].ID)
	assert.Equal(t, "missing", out.Problems[1].Reason)

	// verification leaves the bad record in place
	assert.True(t, mr.Exists(player.Key("broken")))
}

func TestVerifyCleanStore(t *testing.T) {
	repo := player.NewMemory()
	ctx := context.Background()
	_, err := repo.Save(ctx, player.SaveInput{Player: testutils.CreateTestPlayer("amy")})
	require.NoError(t, err)

	out, err := player.Verify(ctx, repo)
	require.NoError(t, err)
	assert.Equal(t, 1, out.Checked)
	assert.Empty(t, out.Problems)

	_, err = player.Verify(ctx, nil)
	assert.Error(t, err)
}
