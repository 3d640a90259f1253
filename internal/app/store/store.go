package store

import (
	"context"

	"codeprep/internal/domain/model"
)

// ProblemStore holds each generated problem's hidden test cases, keyed by the
// opaque problem id. Entries are written once by the generation flow, read
// once per grading attempt, and deleted only when every case passes.
//
// Lookups return common.ErrNotFound for unknown or already-evicted ids; Put
// for an existing id returns common.ErrConflict (ids are unique by
// construction upstream, so a collision is a logic error).
type ProblemStore interface {
	Put(ctx context.Context, id string, cases []model.TestCase) error
	Get(ctx context.Context, id string) ([]model.TestCase, error)
	Delete(ctx context.Context, id string) error
}
