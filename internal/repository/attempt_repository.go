package repository

import (
	"context"
	"time"

	"github.com/lshigami/examdesk/internal/model"
	"gorm.io/gorm"
)

type AttemptRepository interface {
	Create(ctx context.Context, attempt *model.TestAttempt) error
	FindByID(ctx context.Context, id uint) (*model.TestAttempt, error)
	FindInProgress(ctx context.Context, testID uint, studentID string) (*model.TestAttempt, error)
	FindAllByTestAndStudent(ctx context.Context, testID uint, studentID string) ([]model.TestAttempt, error)
	FindCompletedByTest(ctx context.Context, testID uint) ([]model.TestAttempt, error)
	// Complete seals an in-progress attempt. It reports false, and changes nothing, when the
	// attempt was already completed (or does not exist).
	Complete(ctx context.Context, id uint, seal AttemptSeal) (bool, error)
}

type AttemptSeal struct {
	EndTime       time.Time
	Score         int
	NegativeMarks float64
	TotalPossible int
}

type attemptRepository struct {
	db *gorm.DB
}

func NewAttemptRepository(db *gorm.DB) AttemptRepository {
	return &attemptRepository{db: db}
}

func (r *attemptRepository) Create(ctx context.Context, attempt *model.TestAttempt) error {
	return r.db.WithContext(ctx).Create(attempt).Error
}

func (r *attemptRepository) FindByID(ctx context.Context, id uint) (*model.TestAttempt, error) {
	var attempt model.TestAttempt
	if err := r.db.WithContext(ctx).First(&attempt, id).Error; err != nil {
		return nil, err
	}
	return &attempt, nil
}

func (r *attemptRepository) FindInProgress(ctx context.Context, testID uint, studentID string) (*model.TestAttempt, error) {
	var attempt model.TestAttempt
	err := r.db.WithContext(ctx).
		Where("test_id = ? AND student_id = ? AND status = ?", testID, studentID, model.AttemptStatusInProgress).
		Order("id ASC").
		First(&attempt).Error
	if err != nil {
		return nil, err
	}
	return &attempt, nil
}

func (r *attemptRepository) FindAllByTestAndStudent(ctx context.Context, testID uint, studentID string) ([]model.TestAttempt, error) {
	var attempts []model.TestAttempt
	err := r.db.WithContext(ctx).
		Where("test_id = ? AND student_id = ?", testID, studentID).
		Order("start_time DESC").
		Find(&attempts).Error
	return attempts, err
}

// FindCompletedByTest returns completed attempts in insertion order; rankings rely on this
// order to break score ties.
func (r *attemptRepository) FindCompletedByTest(ctx context.Context, testID uint) ([]model.TestAttempt, error) {
	var attempts []model.TestAttempt
	err := r.db.WithContext(ctx).
		Where("test_id = ? AND status = ?", testID, model.AttemptStatusCompleted).
		Order("id ASC").
		Find(&attempts).Error
	return attempts, err
}

func (r *attemptRepository) Complete(ctx context.Context, id uint, seal AttemptSeal) (bool, error) {
	res := r.db.WithContext(ctx).Model(&model.TestAttempt{}).
		Where("id = ? AND status = ?", id, model.AttemptStatusInProgress).
		Updates(map[string]interface{}{
			"status":         model.AttemptStatusCompleted,
			"end_time":       seal.EndTime,
			"score":          seal.Score,
			"negative_marks": seal.NegativeMarks,
			"total_possible": seal.TotalPossible,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}
