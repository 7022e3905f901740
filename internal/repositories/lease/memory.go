package lease

import (
	"context"
	"sync"
	"time"

	"github.com/KirkDiggler/rpg-dungeon/internal/errors"
	"github.com/KirkDiggler/rpg-dungeon/internal/pkg/clock"
)

type held struct {
	holder    string
	expiresAt time.Time
}

type memoryRepository struct {
	mu     sync.Mutex
	clock  clock.Clock
	leases map[string]held
}

// NewMemory creates an in-process lease repository. A nil clock uses real time.
func NewMemory(c clock.Clock) Repository {
	if c == nil {
		c = clock.New()
	}
	return &memoryRepository{clock: c, leases: make(map[string]held)}
}

// live returns the unexpired lease of a player. Callers hold the lock.
func (r *memoryRepository) live(playerID string) (held, bool) {
	h, ok := r.leases[playerID]
	if !ok {
		return held{}, false
	}
	if !r.clock.Now().Before(h.expiresAt) {
		delete(r.leases, playerID)
		return held{}, false
	}
	return h, true
}

func (r *memoryRepository) Acquire(_ context.Context, input AcquireInput) (*AcquireOutput, error) {
	if err := validate(input.PlayerID, input.Holder, input.TTL, true); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.live(input.PlayerID); ok {
		return nil, errors.AlreadyExists("player already has an active session").
			WithMeta("player_id", input.PlayerID)
	}
	h := held{holder: input.Holder, expiresAt: r.clock.Now().Add(input.TTL)}
	r.leases[input.PlayerID] = h
	return &AcquireOutput{ExpiresAt: h.expiresAt}, nil
}

func (r *memoryRepository) Renew(_ context.Context, input RenewInput) (*RenewOutput, error) {
	if err := validate(input.PlayerID, input.Holder, input.TTL, true); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	h, ok := r.live(input.PlayerID)
	if !ok || h.holder != input.Holder {
		return nil, errors.NotFoundf("session lease for %s was lost", input.PlayerID)
	}
	h.expiresAt = r.clock.Now().Add(input.TTL)
	r.leases[input.PlayerID] = h
	return &RenewOutput{ExpiresAt: h.expiresAt}, nil
}

func (r *memoryRepository) Release(_ context.Context, input ReleaseInput) (*ReleaseOutput, error) {
	if err := validate(input.PlayerID, input.Holder, 0, false); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	h, ok := r.live(input.PlayerID)
	if !ok || h.holder != input.Holder {
		return &ReleaseOutput{}, nil
	}
	delete(r.leases, input.PlayerID)
	return &ReleaseOutput{Released: true}, nil
}
