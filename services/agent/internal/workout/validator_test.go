package workout

import (
	"reflect"
	"testing"

	"gymmando/pkg/domain"
)

func TestValidate(t *testing.T) {
	exercise := "squats"
	sets := 3
	reps := 10
	weight := "135 lbs"
	empty := ""

	tests := []struct {
		name         string
		draft        domain.WorkoutDraft
		wantComplete bool
		wantMissing  []string
	}{
		{
			name:         "all fields present",
			draft:        domain.WorkoutDraft{Exercise: &exercise, Sets: &sets, Reps: &reps, Weight: &weight},
			wantComplete: true,
		},
		{
			name:        "empty draft misses everything",
			draft:       domain.WorkoutDraft{},
			wantMissing: []string{"exercise", "sets", "reps", "weight"},
		},
		{
			name:        "exercise only",
			draft:       domain.WorkoutDraft{Exercise: &exercise},
			wantMissing: []string{"sets", "reps", "weight"},
		},
		{
			name:        "empty string counts as missing",
			draft:       domain.WorkoutDraft{Exercise: &empty, Sets: &sets, Reps: &reps, Weight: &weight},
			wantMissing: []string{"exercise"},
		},
		{
			name:        "missing weight only",
			draft:       domain.WorkoutDraft{Exercise: &exercise, Sets: &sets, Reps: &reps},
			wantMissing: []string{"weight"},
		},
		{
			name:         "optional fields do not affect verdict",
			draft:        domain.WorkoutDraft{Exercise: &exercise, Sets: &sets, Reps: &reps, Weight: &weight, RestTime: &sets, Comments: &exercise},
			wantComplete: true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			complete, missing := Validate(tc.draft)
			if complete != tc.wantComplete {
				t.Fatalf("complete = %v, want %v", complete, tc.wantComplete)
			}
			if !reflect.DeepEqual(missing, tc.wantMissing) {
				t.Fatalf("missing = %v, want %v", missing, tc.wantMissing)
			}
		})
	}
}
