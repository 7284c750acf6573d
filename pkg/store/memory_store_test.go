package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"gymmando/pkg/domain"
)

func intPtr(v int) *int { return &v }

func seedWorkout(t *testing.T, s *MemoryStore, userID, exercise string, createdAt time.Time) domain.Workout {
	t.Helper()
	w, err := s.CreateWorkout(context.Background(), domain.Workout{
		UserID:    userID,
		Exercise:  exercise,
		Sets:      3,
		Reps:      10,
		Weight:    "135 lbs",
		CreatedAt: createdAt,
	})
	if err != nil {
		t.Fatalf("create workout: %v", err)
	}
	return w
}

func TestCreateThenGetRoundTrip(t *testing.T) {
	s := NewMemoryStore()
	rest := 90
	created, err := s.CreateWorkout(context.Background(), domain.Workout{
		UserID:   "user-1",
		Exercise: "squats",
		Sets:     3,
		Reps:     10,
		Weight:   "135 lbs",
		RestTime: &rest,
		Comments: "felt strong",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.ID == "" {
		t.Fatalf("expected assigned id")
	}
	if created.CreatedAt.IsZero() {
		t.Fatalf("expected assigned created_at")
	}

	got, ok, err := s.GetWorkout(context.Background(), created.ID, "user-1")
	if err != nil || !ok {
		t.Fatalf("get: ok=%v err=%v", ok, err)
	}
	if got.Exercise != "squats" || got.Sets != 3 || got.Reps != 10 || got.Weight != "135 lbs" {
		t.Fatalf("round trip mismatch: %+v", got)
	}
	if got.RestTime == nil || *got.RestTime != 90 {
		t.Fatalf("rest time mismatch: %+v", got.RestTime)
	}
	if got.Comments != "felt strong" {
		t.Fatalf("comments mismatch: %q", got.Comments)
	}
}

func TestCreateRejectsMissingFields(t *testing.T) {
	s := NewMemoryStore()
	_, err := s.CreateWorkout(context.Background(), domain.Workout{
		UserID:   "user-1",
		Exercise: "squats",
	})
	if !errors.Is(err, ErrMissingFields) {
		t.Fatalf("expected ErrMissingFields, got %v", err)
	}
}

func TestUpdateMergesOnlyPatchedFields(t *testing.T) {
	s := NewMemoryStore()
	w := seedWorkout(t, s, "user-1", "squats", time.Time{})

	updated, ok, err := s.UpdateWorkout(context.Background(), w.ID, "user-1", domain.WorkoutDraft{
		Sets: intPtr(5),
	})
	if err != nil || !ok {
		t.Fatalf("update: ok=%v err=%v", ok, err)
	}
	if updated.Sets != 5 {
		t.Fatalf("sets not updated: %d", updated.Sets)
	}

	got, ok, err := s.GetWorkout(context.Background(), w.ID, "user-1")
	if err != nil || !ok {
		t.Fatalf("get after update: ok=%v err=%v", ok, err)
	}
	if got.Sets != 5 || got.Reps != 10 || got.Exercise != "squats" || got.Weight != "135 lbs" {
		t.Fatalf("unpatched fields changed: %+v", got)
	}
}

func TestForeignOwnerBehavesAsNotFound(t *testing.T) {
	s := NewMemoryStore()
	w := seedWorkout(t, s, "user-1", "squats", time.Time{})

	if _, ok, err := s.GetWorkout(context.Background(), w.ID, "user-2"); ok || err != nil {
		t.Fatalf("get with foreign owner: ok=%v err=%v", ok, err)
	}
	if _, ok, err := s.UpdateWorkout(context.Background(), w.ID, "user-2", domain.WorkoutDraft{Sets: intPtr(5)}); ok || err != nil {
		t.Fatalf("update with foreign owner: ok=%v err=%v", ok, err)
	}
	if ok, err := s.DeleteWorkout(context.Background(), w.ID, "user-2"); ok || err != nil {
		t.Fatalf("delete with foreign owner: ok=%v err=%v", ok, err)
	}

	// Record must be untouched.
	got, ok, err := s.GetWorkout(context.Background(), w.ID, "user-1")
	if err != nil || !ok {
		t.Fatalf("owner get: ok=%v err=%v", ok, err)
	}
	if got.Sets != 3 {
		t.Fatalf("record mutated by foreign owner: %+v", got)
	}
}

func TestQueryExerciseSubstringCaseInsensitive(t *testing.T) {
	s := NewMemoryStore()
	now := time.Now().UTC()
	seedWorkout(t, s, "user-1", "Squats", now.Add(-3*time.Hour))
	seedWorkout(t, s, "user-1", "Back Squats", now.Add(-2*time.Hour))
	seedWorkout(t, s, "user-1", "Lunges", now.Add(-time.Hour))

	res, err := s.QueryWorkouts(context.Background(), "user-1", WorkoutQuery{Exercise: "squat"})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(res) != 2 {
		t.Fatalf("expected 2 matches, got %d", len(res))
	}
	for _, w := range res {
		if w.Exercise == "Lunges" {
			t.Fatalf("lunges should be excluded")
		}
	}
}

func TestQueryOrderingAndLimit(t *testing.T) {
	s := NewMemoryStore()
	now := time.Now().UTC()
	for i := 0; i < 15; i++ {
		seedWorkout(t, s, "user-1", "squats", now.Add(time.Duration(-i)*time.Hour))
	}

	res, err := s.QueryWorkouts(context.Background(), "user-1", WorkoutQuery{})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(res) != DefaultQueryLimit {
		t.Fatalf("expected default limit %d, got %d", DefaultQueryLimit, len(res))
	}
	for i := 1; i < len(res); i++ {
		if res[i].CreatedAt.After(res[i-1].CreatedAt) {
			t.Fatalf("expected descending created_at order")
		}
	}

	asc, err := s.QueryWorkouts(context.Background(), "user-1", WorkoutQuery{Asc: true, Limit: 3})
	if err != nil {
		t.Fatalf("query asc: %v", err)
	}
	if len(asc) != 3 {
		t.Fatalf("expected limit 3, got %d", len(asc))
	}
	for i := 1; i < len(asc); i++ {
		if asc[i].CreatedAt.Before(asc[i-1].CreatedAt) {
			t.Fatalf("expected ascending created_at order")
		}
	}
}

func TestQueryDateRangeInclusive(t *testing.T) {
	s := NewMemoryStore()
	day := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	early := seedWorkout(t, s, "user-1", "squats", day.AddDate(0, 0, -5))
	mid := seedWorkout(t, s, "user-1", "squats", day)
	seedWorkout(t, s, "user-1", "squats", day.AddDate(0, 0, 5))

	res, err := s.QueryWorkouts(context.Background(), "user-1", WorkoutQuery{
		From: early.CreatedAt,
		To:   mid.CreatedAt,
	})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(res) != 2 {
		t.Fatalf("expected inclusive range to keep boundary rows, got %d", len(res))
	}
}

func TestStoreFailureIsDistinguishable(t *testing.T) {
	s := NewMemoryStore()
	w := seedWorkout(t, s, "user-1", "squats", time.Time{})

	infra := errors.New("connection refused")
	s.FailWith(infra)

	if _, _, err := s.GetWorkout(context.Background(), w.ID, "user-1"); !errors.Is(err, infra) {
		t.Fatalf("expected infrastructure error, got %v", err)
	}
	if _, err := s.QueryWorkouts(context.Background(), "user-1", WorkoutQuery{}); !errors.Is(err, infra) {
		t.Fatalf("expected infrastructure error, got %v", err)
	}
	if _, err := s.CreateWorkout(context.Background(), w); !errors.Is(err, infra) {
		t.Fatalf("expected infrastructure error, got %v", err)
	}
}

func TestDeleteRemovesRecord(t *testing.T) {
	s := NewMemoryStore()
	w := seedWorkout(t, s, "user-1", "squats", time.Time{})

	ok, err := s.DeleteWorkout(context.Background(), w.ID, "user-1")
	if err != nil || !ok {
		t.Fatalf("delete: ok=%v err=%v", ok, err)
	}
	if _, ok, _ := s.GetWorkout(context.Background(), w.ID, "user-1"); ok {
		t.Fatalf("record still present after delete")
	}
	if ok, _ := s.DeleteWorkout(context.Background(), w.ID, "user-1"); ok {
		t.Fatalf("second delete should report not found")
	}
}
