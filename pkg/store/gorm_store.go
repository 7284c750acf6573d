package store

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"gymmando/pkg/domain"
)

const migrateLockID int64 = 49164916

// orderColumns is the set of columns a caller may order by. Anything else
// silently falls back to created_at so model-proposed order_by values can
// never smuggle SQL into the query.
var orderColumns = map[string]bool{
	"created_at": true,
	"exercise":   true,
	"sets":       true,
	"reps":       true,
}

// GormStore implements WorkoutStore using GORM + Postgres.
type GormStore struct {
	db *gorm.DB
}

// NewGormStore opens the DB and runs auto-migrations under an advisory
// lock so concurrently starting instances do not race on DDL.
func NewGormStore(dsn string) (*GormStore, error) {
	gormLog := gormlogger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		gormlogger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  gormlogger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{Logger: gormLog})
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if err := withMigrationLock(db, func(tx *gorm.DB) error {
		if err := tx.AutoMigrate(&WorkoutModel{}); err != nil {
			return fmt.Errorf("auto migrate: %w", err)
		}
		return nil
	}); err != nil {
		return nil, err
	}
	return &GormStore{db: db}, nil
}

func withMigrationLock(db *gorm.DB, fn func(*gorm.DB) error) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("get sql db: %w", err)
	}
	conn, err := sqlDB.Conn(ctx)
	if err != nil {
		return fmt.Errorf("open sql conn: %w", err)
	}
	defer conn.Close()
	if err := execAdvisory(ctx, conn, "SELECT pg_advisory_lock($1)", migrateLockID); err != nil {
		return fmt.Errorf("acquire migrate lock: %w", err)
	}
	defer func() {
		_ = execAdvisory(ctx, conn, "SELECT pg_advisory_unlock($1)", migrateLockID)
	}()
	return fn(db)
}

func execAdvisory(ctx context.Context, conn *sql.Conn, query string, lockID int64) error {
	_, err := conn.ExecContext(ctx, query, lockID)
	return err
}

// CreateWorkout inserts a new record. It refuses incomplete records even
// if upstream validation was skipped, and fills in id and created_at when
// the caller left them empty.
func (s *GormStore) CreateWorkout(ctx context.Context, w domain.Workout) (domain.Workout, error) {
	if missing := MissingWorkoutFields(w); len(missing) > 0 {
		return domain.Workout{}, fmt.Errorf("%w: %v", ErrMissingFields, missing)
	}
	if w.ID == "" {
		w.ID = uuid.NewString()
	}
	if w.CreatedAt.IsZero() {
		w.CreatedAt = time.Now().UTC()
	}
	model := workoutToModel(w)
	if err := s.db.WithContext(ctx).Create(&model).Error; err != nil {
		return domain.Workout{}, fmt.Errorf("insert workout: %w", err)
	}
	return workoutFromModel(model), nil
}

// GetWorkout returns one record matched on both id and user id.
func (s *GormStore) GetWorkout(ctx context.Context, id, userID string) (domain.Workout, bool, error) {
	var model WorkoutModel
	err := s.db.WithContext(ctx).First(&model, "id = ? AND user_id = ?", id, userID).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return domain.Workout{}, false, nil
		}
		return domain.Workout{}, false, fmt.Errorf("get workout: %w", err)
	}
	return workoutFromModel(model), true, nil
}

// QueryWorkouts returns the user's records matching q, newest first unless
// the query asks otherwise.
func (s *GormStore) QueryWorkouts(ctx context.Context, userID string, q WorkoutQuery) ([]domain.Workout, error) {
	tx := s.db.WithContext(ctx).Where("user_id = ?", userID)
	if q.Exercise != "" {
		tx = tx.Where("exercise ILIKE ?", "%"+q.Exercise+"%")
	}
	if !q.From.IsZero() {
		tx = tx.Where("created_at >= ?", q.From)
	}
	if !q.To.IsZero() {
		tx = tx.Where("created_at <= ?", q.To)
	}
	orderBy := q.OrderBy
	if !orderColumns[orderBy] {
		orderBy = "created_at"
	}
	direction := "DESC"
	if q.Asc {
		direction = "ASC"
	}
	limit := q.Limit
	if limit <= 0 {
		limit = DefaultQueryLimit
	}
	var models []WorkoutModel
	if err := tx.Order(orderBy + " " + direction).Limit(limit).Find(&models).Error; err != nil {
		return nil, fmt.Errorf("query workouts: %w", err)
	}
	res := make([]domain.Workout, 0, len(models))
	for _, m := range models {
		res = append(res, workoutFromModel(m))
	}
	return res, nil
}

// UpdateWorkout merges the non-nil patch fields into the record matched on
// both id and user id. A foreign-owner id reports not-found exactly like a
// missing one.
func (s *GormStore) UpdateWorkout(ctx context.Context, id, userID string, patch domain.WorkoutDraft) (domain.Workout, bool, error) {
	updates := patchColumns(patch)
	if len(updates) == 0 {
		return s.GetWorkout(ctx, id, userID)
	}
	res := s.db.WithContext(ctx).Model(&WorkoutModel{}).
		Where("id = ? AND user_id = ?", id, userID).
		Updates(updates)
	if res.Error != nil {
		return domain.Workout{}, false, fmt.Errorf("update workout: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.Workout{}, false, nil
	}
	return s.GetWorkout(ctx, id, userID)
}

// DeleteWorkout removes the record matched on both id and user id.
func (s *GormStore) DeleteWorkout(ctx context.Context, id, userID string) (bool, error) {
	res := s.db.WithContext(ctx).Delete(&WorkoutModel{}, "id = ? AND user_id = ?", id, userID)
	if res.Error != nil {
		return false, fmt.Errorf("delete workout: %w", res.Error)
	}
	return res.RowsAffected > 0, nil
}

func patchColumns(patch domain.WorkoutDraft) map[string]any {
	updates := map[string]any{}
	if patch.Exercise != nil {
		updates["exercise"] = *patch.Exercise
	}
	if patch.Sets != nil {
		updates["sets"] = *patch.Sets
	}
	if patch.Reps != nil {
		updates["reps"] = *patch.Reps
	}
	if patch.Weight != nil {
		updates["weight"] = *patch.Weight
	}
	if patch.RestTime != nil {
		updates["rest_time"] = *patch.RestTime
	}
	if patch.Comments != nil {
		updates["comments"] = *patch.Comments
	}
	return updates
}
