package domain

import "time"

// Intent classifies what a user turn asks the system to do with
// workout records.
type Intent string

const (
	IntentCreate  Intent = "create"
	IntentRead    Intent = "read"
	IntentUpdate  Intent = "update"
	IntentDelete  Intent = "delete"
	IntentUnknown Intent = ""
)

// ParseIntent normalizes a raw intent string. Anything unrecognized maps
// to IntentUnknown so callers can decide how to degrade.
func ParseIntent(raw string) Intent {
	switch Intent(raw) {
	case IntentCreate, IntentRead, IntentUpdate, IntentDelete:
		return Intent(raw)
	default:
		return IntentUnknown
	}
}

// Workout is a single logged exercise session as persisted in the store.
// ID and UserID never change after creation.
type Workout struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Exercise  string    `json:"exercise"`
	Sets      int       `json:"sets"`
	Reps      int       `json:"reps"`
	Weight    string    `json:"weight"`
	RestTime  *int      `json:"rest_time,omitempty"`
	Comments  string    `json:"comments,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// WorkoutDraft carries partially extracted workout fields. Nil means the
// field was not mentioned by the user; it is never defaulted. The same
// shape doubles as a merge-patch for updates: only non-nil fields are
// applied to the stored record.
type WorkoutDraft struct {
	Exercise *string `json:"exercise"`
	Sets     *int    `json:"sets"`
	Reps     *int    `json:"reps"`
	Weight   *string `json:"weight"`
	RestTime *int    `json:"rest_time"`
	Comments *string `json:"comments"`
}

// Empty reports whether the draft carries no field values at all.
func (d WorkoutDraft) Empty() bool {
	return d.Exercise == nil && d.Sets == nil && d.Reps == nil &&
		d.Weight == nil && d.RestTime == nil && d.Comments == nil
}
