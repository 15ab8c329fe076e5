package store

import (
	"context"
	"errors"

	"github.com/repbook/repbook/pkg/program"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("store: not found")

// Persistence is the backend collaborator for program data. Exercise
// mutations return the day's authoritative row set so callers can reconcile
// optimistic state — including server-assigned identities for inserts —
// against what was actually persisted.
type Persistence interface {
	Programs(ctx context.Context) ([]program.Program, error)
	SaveProgram(ctx context.Context, p program.Program) error
	DeleteProgram(ctx context.Context, id string) error

	Days(ctx context.Context, programID string) ([]program.Day, error)
	SaveDay(ctx context.Context, d program.Day) error
	DeleteDay(ctx context.Context, id string) error

	Exercises(ctx context.Context, dayID string) ([]program.Exercise, error)
	UpsertExercise(ctx context.Context, e program.Exercise) ([]program.Exercise, error)
	InsertExercise(ctx context.Context, e program.Exercise) ([]program.Exercise, error)
	DeleteExercises(ctx context.Context, dayID string, ids []string) ([]program.Exercise, error)
	ReorderExercises(ctx context.Context, dayID string, ids []string) ([]program.Exercise, error)
}
