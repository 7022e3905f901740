package lease

import (
	"context"

	redis "github.com/redis/go-redis/v9"

	"github.com/KirkDiggler/rpg-dungeon/internal/errors"
	"github.com/KirkDiggler/rpg-dungeon/internal/pkg/clock"
	redisclient "github.com/KirkDiggler/rpg-dungeon/internal/redis"
)

var (
	renewScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("PEXPIRE", KEYS[1], ARGV[2])
end
return 0
`)

	releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)
)

// RedisConfig contains configuration for the Redis lease repository.
type RedisConfig struct {
	Client redisclient.Client
	Clock  clock.Clock
}

// Validate validates the RedisConfig.
func (cfg *RedisConfig) Validate() error {
	if cfg == nil {
		return errors.InvalidArgument("config cannot be nil")
	}
	if cfg.Client == nil {
		return errors.InvalidArgument("client cannot be nil")
	}
	return nil
}

type redisRepository struct {
	client redisclient.Client
	clock  clock.Clock
}

var _ Repository = (*redisRepository)(nil)

// NewRedis creates a lease repository backed by redis keys with a TTL
func NewRedis(cfg *RedisConfig) (Repository, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	c := cfg.Clock
	if c == nil {
		c = clock.New()
	}
	return &redisRepository{client: cfg.Client, clock: c}, nil
}

func (r *redisRepository) Acquire(ctx context.Context, input AcquireInput) (*AcquireOutput, error) {
	if err := validate(input.PlayerID, input.Holder, input.TTL, true); err != nil {
		return nil, err
	}

	ok, err := r.client.SetNX(ctx, Key(input.PlayerID), input.Holder, input.TTL).Result()
	if err != nil {
		return nil, errors.Wrap(err, "failed to acquire lease")
	}
	if !ok {
		return nil, errors.AlreadyExists("player already has an active session").
			WithMeta("player_id", input.PlayerID)
	}
	return &AcquireOutput{ExpiresAt: r.clock.Now().Add(input.TTL)}, nil
}

func (r *redisRepository) Renew(ctx context.Context, input RenewInput) (*RenewOutput, error) {
	if err := validate(input.PlayerID, input.Holder, input.TTL, true); err != nil {
		return nil, err
	}

	n, err := renewScript.Run(ctx, r.client, []string{Key(input.PlayerID)}, input.Holder, input.TTL.Milliseconds()).Int()
	if err != nil {
		return nil, errors.Wrap(err, "failed to renew lease")
	}
	if n == 0 {
		return nil, errors.NotFoundf("session lease for %s was lost", input.PlayerID)
	}
	return &RenewOutput{ExpiresAt: r.clock.Now().Add(input.TTL)}, nil
}

func (r *redisRepository) Release(ctx context.Context, input ReleaseInput) (*ReleaseOutput, error) {
	if err := validate(input.PlayerID, input.Holder, 0, false); err != nil {
		return nil, err
	}

	n, err := releaseScript.Run(ctx, r.client, []string{Key(input.PlayerID)}, input.Holder).Int()
	if err != nil {
		return nil, errors.Wrap(err, "failed to release lease")
	}
	return &ReleaseOutput{Released: n > 0}, nil
}
