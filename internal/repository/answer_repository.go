package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/lshigami/examdesk/internal/model"
	"gorm.io/gorm"
)

type AnswerRepository interface {
	Create(ctx context.Context, answer *model.Answer) error
	Update(ctx context.Context, answer *model.Answer) error
	FindByAttempt(ctx context.Context, attemptID uint) ([]model.Answer, error)
	FindByAttemptAndQuestion(ctx context.Context, attemptID, questionID uint) (*model.Answer, error)
	// Upsert writes answer keyed by (attempt, question). The existence check and the write are
	// separate statements, so two concurrent writers for the same pair can race; the unique
	// index rejects the loser.
	Upsert(ctx context.Context, answer *model.Answer) error
	SetCorrectness(ctx context.Context, answerID uint, isCorrect *bool) error
}

type answerRepository struct {
	db *gorm.DB
}

func NewAnswerRepository(db *gorm.DB) AnswerRepository {
	return &answerRepository{db: db}
}

func (r *answerRepository) Create(ctx context.Context, answer *model.Answer) error {
	return r.db.WithContext(ctx).Create(answer).Error
}

func (r *answerRepository) Update(ctx context.Context, answer *model.Answer) error {
	return r.db.WithContext(ctx).Save(answer).Error
}

func (r *answerRepository) FindByAttempt(ctx context.Context, attemptID uint) ([]model.Answer, error) {
	var answers []model.Answer
	err := r.db.WithContext(ctx).
		Where("attempt_id = ?", attemptID).
		Order("question_id ASC").
		Find(&answers).Error
	return answers, err
}

func (r *answerRepository) FindByAttemptAndQuestion(ctx context.Context, attemptID, questionID uint) (*model.Answer, error) {
	var answer model.Answer
	err := r.db.WithContext(ctx).
		Where("attempt_id = ? AND question_id = ?", attemptID, questionID).
		First(&answer).Error
	if err != nil {
		return nil, err
	}
	return &answer, nil
}

func (r *answerRepository) Upsert(ctx context.Context, answer *model.Answer) error {
	existing, err := r.FindByAttemptAndQuestion(ctx, answer.AttemptID, answer.QuestionID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("failed to check existing answer: %w", err)
	}
	if existing != nil {
		existing.Value = answer.Value
		existing.SavedAt = answer.SavedAt
		if err := r.Update(ctx, existing); err != nil {
			return err
		}
		*answer = *existing
		return nil
	}
	return r.Create(ctx, answer)
}

func (r *answerRepository) SetCorrectness(ctx context.Context, answerID uint, isCorrect *bool) error {
	return r.db.WithContext(ctx).Model(&model.Answer{}).
		Where("id = ?", answerID).
		Update("is_correct", isCorrect).Error
}
