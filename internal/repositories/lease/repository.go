// Package lease keeps a single active session per player
package lease

import (
	"context"
	"time"

	"github.com/KirkDiggler/rpg-dungeon/internal/errors"
)

// Repository hands out exclusive, expiring session leases
type Repository interface {
	// Acquire takes the lease for a player
	// Returns errors.AlreadyExists if another holder owns a live lease
	// Returns errors.InvalidArgument for validation failures
	Acquire(ctx context.Context, input AcquireInput) (*AcquireOutput, error)

	// Renew extends a lease the holder still owns
	// Returns errors.NotFound if the lease expired or changed hands
	Renew(ctx context.Context, input RenewInput) (*RenewOutput, error)

	// Release gives the lease up if the holder still owns it
	Release(ctx context.Context, input ReleaseInput) (*ReleaseOutput, error)
}

// AcquireInput defines the input for acquiring a lease
type AcquireInput struct {
	PlayerID string
	Holder   string
	TTL      time.Duration
}

// AcquireOutput defines the output for acquiring a lease
type AcquireOutput struct {
	ExpiresAt time.Time
}

// RenewInput defines the input for renewing a lease
type RenewInput struct {
	PlayerID string
	Holder   string
	TTL      time.Duration
}

// RenewOutput defines the output for renewing a lease
type RenewOutput struct {
	ExpiresAt time.Time
}

// ReleaseInput defines the input for releasing a lease
type ReleaseInput struct {
	PlayerID string
	Holder   string
}

// ReleaseOutput defines the output for releasing a lease
type ReleaseOutput struct {
	// Released is false when the lease had already expired or changed hands
	Released bool
}

const keyPrefix = "lease:"

// Key returns the storage key of a player's lease
func Key(playerID string) string {
	return keyPrefix + playerID
}

func validate(playerID, holder string, ttl time.Duration, needTTL bool) error {
	vb := errors.NewValidationBuilder()
	errors.ValidateRequired("player_id", playerID, vb)
	errors.ValidateRequired("holder", holder, vb)
	if needTTL && ttl <= 0 {
		vb.InvalidField("ttl", "must be positive")
	}
	return vb.Build()
}
