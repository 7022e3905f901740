package main

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KirkDiggler/rpg-dungeon/internal/config"
	"github.com/KirkDiggler/rpg-dungeon/internal/engine/rpgtoolkit"
	"github.com/KirkDiggler/rpg-dungeon/internal/pkg/random"
	"github.com/KirkDiggler/rpg-dungeon/internal/repositories/player"
	"github.com/KirkDiggler/rpg-dungeon/internal/testutils"
)

func TestNewLoggerFormats(t *testing.T) {
	testCases := []struct {
		format string
		want   string
	}{
		{format: config.LogFormatJSON, want: `"msg":"hello"`},
		{format: config.LogFormatText, want: "msg=hello"},
		{format: config.LogFormatPretty, want: "hello"},
	}
	for _, tc := range testCases {
		t.Run(tc.format, func(t *testing.T) {
			var buf bytes.Buffer
			newLogger(config.LogConfig{Level: "info", Format: tc.format}, &buf).Info("hello", "player_id", "p1")
			assert.Contains(t, buf.String(), tc.want)
			assert.Contains(t, buf.String(), "p1")
		})
	}
}

func TestNewLoggerLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(config.LogConfig{Level: "warn", Format: config.LogFormatText}, &buf)
	logger.Info("quiet")
	logger.Warn("loud")
	assert.NotContains(t, buf.String(), "quiet")
	assert.Contains(t, buf.String(), "loud")
}

func TestOpenStores(t *testing.T) {
	ctx := context.Background()

	t.Run("memory", func(t *testing.T) {
		st, err := openStores(ctx, config.StorageConfig{Driver: config.StorageMemory})
		require.NoError(t, err)
		defer st.close()
		assert.NotNil(t, st.players)
		assert.NotNil(t, st.leases)
	})

	t.Run("sqlite", func(t *testing.T) {
		st, err := openStores(ctx, config.StorageConfig{
			Driver: config.StorageSQLite,
			SQLite: config.SQLiteConfig{Path: filepath.Join(t.TempDir(), "players.db")},
		})
		require.NoError(t, err)
		defer st.close()

		_, err = st.players.Save(ctx, player.SaveInput{Player: testutils.CreateTestPlayer("")})
		require.NoError(t, err)
	})

	t.Run("redis", func(t *testing.T) {
		_, mr, cleanup := testutils.CreateTestRedis(t)
		defer cleanup()

		st, err := openStores(ctx, config.StorageConfig{
			Driver: config.StorageRedis,
			Redis:  config.RedisConfig{Addrs: []string{mr.Addr()}},
		})
		require.NoError(t, err)
		defer st.close()

		_, err = st.players.Save(ctx, player.SaveInput{Player: testutils.CreateTestPlayer("")})
		require.NoError(t, err)
		assert.True(t, mr.Exists(player.Key(testutils.TestPlayerID)))
	})

	t.Run("unknown", func(t *testing.T) {
		_, err := openStores(ctx, config.StorageConfig{Driver: "tape"})
		require.Error(t, err)
		assert.True(t, strings.Contains(err.Error(), "tape"))
	})
}

func TestNewRandom(t *testing.T) {
	seeded, err := newRandom(config.GameConfig{Seed: 7})
	require.NoError(t, err)
	assert.IsType(t, &random.Seeded{}, seeded)

	dice, err := newRandom(config.GameConfig{})
	require.NoError(t, err)
	assert.IsType(t, &rpgtoolkit.DiceSource{}, dice)
	v := dice.Float64()
	assert.True(t, v >= 0 && v < 1)
}
