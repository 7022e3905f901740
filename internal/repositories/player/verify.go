package player

import (
	"context"

	"github.com/KirkDiggler/rpg-dungeon/internal/errors"
)

// Problem is a stored record that cannot be loaded
type Problem struct {
	ID     string
	Reason string
	Err    error
}

// VerifyOutput reports the health of every stored record
type VerifyOutput struct {
	Checked  int
	Problems []Problem
}

// Verify loads every listed player and reports the ones that fail to
// decode or that the index lists but the store no longer holds. It never
// modifies records.
func Verify(ctx context.Context, repo Repository) (*VerifyOutput, error) {
	if repo == nil {
		return nil, errors.InvalidArgument("repository is required")
	}
	list, err := repo.List(ctx, ListInput{})
	if err != nil {
		return nil, errors.Wrap(err, "failed to list players")
	}

	out := &VerifyOutput{}
	for _, id := range list.IDs {
		if err := ctx.Err(); err != nil {
			return nil, errors.Wrap(err, "verification interrupted")
		}
		out.Checked++
		_, err := repo.Get(ctx, GetInput{ID: id})
		switch {
		case err == nil:
			continue
		case errors.IsCorruptPersistence(err):
			out.Problems = append(out.Problems, Problem{ID: id, Reason: "corrupt", Err: err})
		case errors.IsNotFound(err):
			out.Problems = append(out.Problems, Problem{ID: id, Reason: "missing", Err: err})
		default:
			return nil, errors.Wrapf(err, "failed to load player %s", id)
		}
	}
	return out, nil
}
