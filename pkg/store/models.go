package store

import (
	"time"

	"gymmando/pkg/domain"
)

// WorkoutModel is the GORM model for the workouts table. Column names
// match the wire schema consumed by the query tool.
type WorkoutModel struct {
	ID        string `gorm:"primaryKey"`
	UserID    string `gorm:"not null;index"`
	Exercise  string `gorm:"not null"`
	Sets      int    `gorm:"not null"`
	Reps      int    `gorm:"not null"`
	Weight    string `gorm:"not null"`
	RestTime  *int
	Comments  string
	CreatedAt time.Time `gorm:"not null;index"`
}

// TableName keeps the table name aligned with the original schema.
func (WorkoutModel) TableName() string { return "workouts" }

func workoutToModel(w domain.Workout) WorkoutModel {
	return WorkoutModel{
		ID:        w.ID,
		UserID:    w.UserID,
		Exercise:  w.Exercise,
		Sets:      w.Sets,
		Reps:      w.Reps,
		Weight:    w.Weight,
		RestTime:  w.RestTime,
		Comments:  w.Comments,
		CreatedAt: w.CreatedAt,
	}
}

func workoutFromModel(m WorkoutModel) domain.Workout {
	return domain.Workout{
		ID:        m.ID,
		UserID:    m.UserID,
		Exercise:  m.Exercise,
		Sets:      m.Sets,
		Reps:      m.Reps,
		Weight:    m.Weight,
		RestTime:  m.RestTime,
		Comments:  m.Comments,
		CreatedAt: m.CreatedAt,
	}
}
