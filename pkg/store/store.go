package store

import (
	"context"
	"errors"
	"time"

	"gymmando/pkg/domain"
)

// ErrMissingFields is returned by CreateWorkout when a required field is
// absent. The gateway re-checks completeness on its own so a broken caller
// can never persist a half-filled record.
var ErrMissingFields = errors.New("workout missing required fields")

// DefaultQueryLimit bounds result sets when the caller does not say how
// many rows it wants.
const DefaultQueryLimit = 10

// WorkoutQuery describes a filtered read over one user's workouts.
// Zero values mean "no filter". Exercise matches as a case-insensitive
// substring. From/To bound created_at inclusively.
type WorkoutQuery struct {
	Exercise string
	From     time.Time
	To       time.Time
	OrderBy  string
	Asc      bool
	Limit    int
}

// WorkoutStore defines persistence operations for workout records. Every
// operation is scoped by the caller-supplied user id; a record belonging
// to another user behaves exactly like a record that does not exist.
//
// The (value, ok, error) shape keeps "not found" distinct from
// infrastructure failure: ok=false with a nil error means the record is
// absent (or not the caller's), a non-nil error means the store itself
// misbehaved.
type WorkoutStore interface {
	CreateWorkout(ctx context.Context, w domain.Workout) (domain.Workout, error)
	GetWorkout(ctx context.Context, id, userID string) (domain.Workout, bool, error)
	QueryWorkouts(ctx context.Context, userID string, q WorkoutQuery) ([]domain.Workout, error)
	UpdateWorkout(ctx context.Context, id, userID string, patch domain.WorkoutDraft) (domain.Workout, bool, error)
	DeleteWorkout(ctx context.Context, id, userID string) (bool, error)
}

// MissingWorkoutFields lists which of the required fields are absent or
// empty on w, in the canonical field-name order used in user responses.
func MissingWorkoutFields(w domain.Workout) []string {
	var missing []string
	if w.Exercise == "" {
		missing = append(missing, "exercise")
	}
	if w.Sets == 0 {
		missing = append(missing, "sets")
	}
	if w.Reps == 0 {
		missing = append(missing, "reps")
	}
	if w.Weight == "" {
		missing = append(missing, "weight")
	}
	return missing
}
