package store

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"gymmando/pkg/domain"
)

// MemoryStore keeps workouts in-process. It mirrors the Postgres gateway's
// semantics (owner scoping, substring matching, ordering, limits) so tests
// and local runs exercise the same behavior without a database.
type MemoryStore struct {
	mu       sync.RWMutex
	workouts map[string]domain.Workout
	order    []string
	failErr  error
}

// NewMemoryStore initializes an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{workouts: make(map[string]domain.Workout)}
}

// FailWith makes every subsequent operation return err, simulating an
// unavailable backing store.
func (m *MemoryStore) FailWith(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failErr = err
}

func (m *MemoryStore) checkFail() error {
	if m.failErr != nil {
		return fmt.Errorf("memory store: %w", m.failErr)
	}
	return nil
}

// CreateWorkout stores a new record, assigning id and created_at when absent.
func (m *MemoryStore) CreateWorkout(_ context.Context, w domain.Workout) (domain.Workout, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.checkFail(); err != nil {
		return domain.Workout{}, err
	}
	if missing := MissingWorkoutFields(w); len(missing) > 0 {
		return domain.Workout{}, fmt.Errorf("%w: %v", ErrMissingFields, missing)
	}
	if w.ID == "" {
		w.ID = uuid.NewString()
	}
	if w.CreatedAt.IsZero() {
		w.CreatedAt = time.Now().UTC()
	}
	if _, exists := m.workouts[w.ID]; !exists {
		m.order = append(m.order, w.ID)
	}
	m.workouts[w.ID] = w
	return w, nil
}

// GetWorkout returns the record matched on both id and user id.
func (m *MemoryStore) GetWorkout(_ context.Context, id, userID string) (domain.Workout, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if err := m.checkFail(); err != nil {
		return domain.Workout{}, false, err
	}
	w, ok := m.workouts[id]
	if !ok || w.UserID != userID {
		return domain.Workout{}, false, nil
	}
	return w, true, nil
}

// QueryWorkouts filters, orders, and limits the user's records.
func (m *MemoryStore) QueryWorkouts(_ context.Context, userID string, q WorkoutQuery) ([]domain.Workout, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if err := m.checkFail(); err != nil {
		return nil, err
	}
	var res []domain.Workout
	for _, id := range m.order {
		w, ok := m.workouts[id]
		if !ok || w.UserID != userID {
			continue
		}
		if q.Exercise != "" && !strings.Contains(strings.ToLower(w.Exercise), strings.ToLower(q.Exercise)) {
			continue
		}
		if !q.From.IsZero() && w.CreatedAt.Before(q.From) {
			continue
		}
		if !q.To.IsZero() && w.CreatedAt.After(q.To) {
			continue
		}
		res = append(res, w)
	}
	sortWorkouts(res, q.OrderBy, q.Asc)
	limit := q.Limit
	if limit <= 0 {
		limit = DefaultQueryLimit
	}
	if len(res) > limit {
		res = res[:limit]
	}
	return res, nil
}

// UpdateWorkout merges non-nil patch fields into the matched record.
func (m *MemoryStore) UpdateWorkout(_ context.Context, id, userID string, patch domain.WorkoutDraft) (domain.Workout, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.checkFail(); err != nil {
		return domain.Workout{}, false, err
	}
	w, ok := m.workouts[id]
	if !ok || w.UserID != userID {
		return domain.Workout{}, false, nil
	}
	if patch.Exercise != nil {
		w.Exercise = *patch.Exercise
	}
	if patch.Sets != nil {
		w.Sets = *patch.Sets
	}
	if patch.Reps != nil {
		w.Reps = *patch.Reps
	}
	if patch.Weight != nil {
		w.Weight = *patch.Weight
	}
	if patch.RestTime != nil {
		rest := *patch.RestTime
		w.RestTime = &rest
	}
	if patch.Comments != nil {
		w.Comments = *patch.Comments
	}
	m.workouts[id] = w
	return w, true, nil
}

// DeleteWorkout removes the matched record.
func (m *MemoryStore) DeleteWorkout(_ context.Context, id, userID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.checkFail(); err != nil {
		return false, err
	}
	w, ok := m.workouts[id]
	if !ok || w.UserID != userID {
		return false, nil
	}
	delete(m.workouts, id)
	for i, oid := range m.order {
		if oid == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	return true, nil
}

func sortWorkouts(ws []domain.Workout, orderBy string, asc bool) {
	less := func(a, b domain.Workout) bool {
		switch orderBy {
		case "exercise":
			return a.Exercise < b.Exercise
		case "sets":
			return a.Sets < b.Sets
		case "reps":
			return a.Reps < b.Reps
		default:
			return a.CreatedAt.Before(b.CreatedAt)
		}
	}
	sort.SliceStable(ws, func(i, j int) bool {
		if asc {
			return less(ws[i], ws[j])
		}
		return less(ws[j], ws[i])
	})
}
