package main

import (
	"context"
	"io"
	"log/slog"
	"strings"

	"github.com/KirkDiggler/rpg-toolkit/dice"
	charmlog "github.com/charmbracelet/log"

	"github.com/KirkDiggler/rpg-dungeon/internal/config"
	"github.com/KirkDiggler/rpg-dungeon/internal/engine/rpgtoolkit"
	"github.com/KirkDiggler/rpg-dungeon/internal/errors"
	"github.com/KirkDiggler/rpg-dungeon/internal/pkg/random"
	redisclient "github.com/KirkDiggler/rpg-dungeon/internal/redis"
	"github.com/KirkDiggler/rpg-dungeon/internal/repositories/lease"
	"github.com/KirkDiggler/rpg-dungeon/internal/repositories/player"
)

// newLogger builds the slog logger selected by cfg
func newLogger(cfg config.LogConfig, w io.Writer) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = slog.LevelInfo
	}

	switch cfg.Format {
	case config.LogFormatText:
		return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
	case config.LogFormatPretty:
		pretty := charmlog.NewWithOptions(w, charmlog.Options{
			ReportTimestamp: true,
			Prefix:          "rpg-dungeon",
			Level:           charmlog.Level(level),
		})
		return slog.New(pretty)
	}
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level}))
}

// stores holds the repositories for the configured driver
type stores struct {
	players player.Repository
	leases  lease.Repository
	close   func()
}

// openStores connects the configured storage driver
func openStores(ctx context.Context, cfg config.StorageConfig) (*stores, error) {
	switch strings.ToLower(cfg.Driver) {
	case config.StorageRedis:
		client, err := redisclient.Connect(ctx, cfg.Redis.Addrs, &redisclient.Options{
			Password:     cfg.Redis.Password,
			DB:           cfg.Redis.DB,
			PoolSize:     cfg.Redis.PoolSize,
			DialTimeout:  cfg.Redis.DialTimeout,
			ReadTimeout:  cfg.Redis.ReadTimeout,
			WriteTimeout: cfg.Redis.WriteTimeout,
		})
		if err != nil {
			return nil, err
		}
		players, err := player.NewRedis(&player.RedisConfig{Client: client})
		if err != nil {
			_ = client.Close()
			return nil, err
		}
		leases, err := lease.NewRedis(&lease.RedisConfig{Client: client})
		if err != nil {
			_ = client.Close()
			return nil, err
		}
		return &stores{
			players: players,
			leases:  leases,
			close:   func() { _ = client.Close() },
		}, nil

	case config.StorageSQLite:
		repo, err := player.NewSQLite(&player.SQLiteConfig{Path: cfg.SQLite.Path})
		if err != nil {
			return nil, err
		}
		// an embedded database serves one process, so leases stay in memory
		return &stores{
			players: repo,
			leases:  lease.NewMemory(nil),
			close:   func() { _ = repo.Close() },
		}, nil

	case config.StorageMemory:
		return &stores{
			players: player.NewMemory(),
			leases:  lease.NewMemory(nil),
			close:   func() {},
		}, nil
	}
	return nil, errors.InvalidArgumentf("unknown storage driver %q", cfg.Driver)
}

// newRandom returns a seeded stream for a nonzero seed and toolkit dice
// otherwise
func newRandom(cfg config.GameConfig) (random.Source, error) {
	if cfg.Seed != 0 {
		return random.NewSeeded(cfg.Seed), nil
	}
	seed, err := random.NewSeed()
	if err != nil {
		return nil, err
	}
	src, err := rpgtoolkit.NewDiceSource(&rpgtoolkit.DiceSourceConfig{
		Roller:   dice.DefaultRoller,
		Fallback: random.NewSeeded(seed),
	})
	if err != nil {
		return nil, err
	}
	return src, nil
}
