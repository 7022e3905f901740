package player

import (
	"context"
	"slices"
	"sync"

	"github.com/KirkDiggler/rpg-dungeon/internal/errors"
)

// memoryRepository keeps encoded records in a map. Records go through the
// same codec as the durable stores so saved players never alias live ones.
type memoryRepository struct {
	mu      sync.RWMutex
	records map[string][]byte
}

// NewMemory creates an in-process player repository
func NewMemory() Repository {
	return &memoryRepository{records: make(map[string][]byte)}
}

func (r *memoryRepository) Get(_ context.Context, input GetInput) (*GetOutput, error) {
	if input.ID == "" {
		return nil, errors.InvalidArgument(errPlayerIDEmpty)
	}

	r.mu.RLock()
	data, ok := r.records[input.ID]
	r.mu.RUnlock()
	if !ok {
		return nil, errors.NotFoundf("player with ID %s not found", input.ID)
	}

	p, err := Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return &GetOutput{Player: p}, nil
}

func (r *memoryRepository) Save(_ context.Context, input SaveInput) (*SaveOutput, error) {
	if err := validateSave(input); err != nil {
		return nil, err
	}
	data, err := Marshal(input.Player)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	r.records[input.Player.ID] = data
	r.mu.Unlock()

	return &SaveOutput{Player: input.Player}, nil
}

func (r *memoryRepository) List(_ context.Context, _ ListInput) (*ListOutput, error) {
	r.mu.RLock()
	ids := make([]string, 0, len(r.records))
	for id := range r.records {
		ids = append(ids, id)
	}
	r.mu.RUnlock()

	slices.Sort(ids)
	return &ListOutput{IDs: ids}, nil
}
