package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/facebookgo/clock"
	"github.com/lshigami/examdesk/internal/apperr"
	"github.com/lshigami/examdesk/internal/dto"
	"github.com/lshigami/examdesk/internal/model"
	"github.com/lshigami/examdesk/internal/repository"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

type AttemptService interface {
	// StartAttempt resumes the student's in-progress attempt on the test, or creates one. The
	// bool reports whether an existing attempt was resumed.
	StartAttempt(ctx context.Context, testID uint, studentID string) (*model.TestAttempt, bool, error)
	ListAttempts(ctx context.Context, testID uint, studentID string) ([]dto.TestAttemptSummaryDTO, error)
	// GetResult reviews a completed attempt with the answer key revealed.
	GetResult(ctx context.Context, attemptID uint, studentID string) (*dto.AttemptResultDTO, error)
}

type attemptService struct {
	testRepo       repository.TestRepository
	attemptRepo    repository.AttemptRepository
	answerRepo     repository.AnswerRepository
	scoreConverter ScoreConverterService
	clock          clock.Clock
}

func NewAttemptService(
	testRepo repository.TestRepository,
	attemptRepo repository.AttemptRepository,
	answerRepo repository.AnswerRepository,
	scoreConverter ScoreConverterService,
	clk clock.Clock,
) AttemptService {
	return &attemptService{
		testRepo:       testRepo,
		attemptRepo:    attemptRepo,
		answerRepo:     answerRepo,
		scoreConverter: scoreConverter,
		clock:          clk,
	}
}

func (s *attemptService) StartAttempt(ctx context.Context, testID uint, studentID string) (*model.TestAttempt, bool, error) {
	const op = "StartAttempt"

	if _, err := s.testRepo.FindByID(ctx, testID); err != nil {
		return nil, false, lookupErr(op, "test", testID, err)
	}

	existing, err := s.attemptRepo.FindInProgress(ctx, testID, studentID)
	if err == nil {
		log.Info().Uint("attemptID", existing.ID).Str("studentID", studentID).Msg("Resuming in-progress attempt")
		return existing, true, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, fmt.Errorf("%s: failed to look up open attempt: %w", op, err)
	}

	attempt := &model.TestAttempt{
		TestID:    testID,
		StudentID: studentID,
		StartTime: s.clock.Now(),
		Status:    model.AttemptStatusInProgress,
	}
	if err := s.attemptRepo.Create(ctx, attempt); err != nil {
		// lost a race with another tab starting the same test
		if existing, findErr := s.attemptRepo.FindInProgress(ctx, testID, studentID); findErr == nil {
			return existing, true, nil
		}
		log.Error().Err(err).Uint("testID", testID).Str("studentID", studentID).Msg("Failed to create attempt")
		return nil, false, fmt.Errorf("%s: failed to create attempt: %w", op, err)
	}
	log.Info().Uint("attemptID", attempt.ID).Uint("testID", testID).Str("studentID", studentID).Msg("Attempt started")
	return attempt, false, nil
}

func (s *attemptService) ListAttempts(ctx context.Context, testID uint, studentID string) ([]dto.TestAttemptSummaryDTO, error) {
	attempts, err := s.attemptRepo.FindAllByTestAndStudent(ctx, testID, studentID)
	if err != nil {
		log.Error().Err(err).Uint("testID", testID).Str("studentID", studentID).Msg("Failed to list attempts")
		return nil, fmt.Errorf("error fetching attempts: %w", err)
	}
	out := make([]dto.TestAttemptSummaryDTO, 0, len(attempts))
	for _, a := range attempts {
		out = append(out, dto.TestAttemptSummaryDTO{
			ID:            a.ID,
			TestID:        a.TestID,
			StartTime:     a.StartTime,
			EndTime:       a.EndTime,
			Status:        string(a.Status),
			Score:         a.Score,
			TotalPossible: a.TotalPossible,
		})
	}
	return out, nil
}

func (s *attemptService) GetResult(ctx context.Context, attemptID uint, studentID string) (*dto.AttemptResultDTO, error) {
	const op = "GetAttemptResult"

	attempt, err := s.attemptRepo.FindByID(ctx, attemptID)
	if err != nil {
		return nil, lookupErr(op, "attempt", attemptID, err)
	}
	if attempt.StudentID != studentID {
		return nil, apperr.Newf(apperr.KindForbidden, op, "attempt %d belongs to another student", attemptID)
	}
	if !attempt.IsCompleted() {
		return nil, apperr.Newf(apperr.KindValidationFailure, op, "attempt %d is still in progress", attemptID)
	}

	test, err := s.testRepo.FindByIDWithQuestions(ctx, attempt.TestID)
	if err != nil {
		return nil, lookupErr(op, "test", attempt.TestID, err)
	}
	answers, err := s.answerRepo.FindByAttempt(ctx, attemptID)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to load answers: %w", op, err)
	}
	byQuestion := make(map[uint]model.Answer, len(answers))
	for _, a := range answers {
		byQuestion[a.QuestionID] = a
	}

	summary := s.scoreConverter.Summarize(attempt.Score, attempt.TotalPossible, test.PassingPercentage)
	resp := &dto.AttemptResultDTO{
		AttemptID:         attempt.ID,
		TestID:            test.ID,
		TestTitle:         test.Title,
		StudentID:         attempt.StudentID,
		StartTime:         attempt.StartTime,
		EndTime:           attempt.EndTime,
		Score:             attempt.Score,
		NegativeMarks:     attempt.NegativeMarks,
		TotalPossible:     attempt.TotalPossible,
		Percentage:        summary.Percentage,
		PassingPercentage: test.PassingPercentage,
		Passed:            summary.Passed,
		Answers:           make([]dto.AnswerReviewDTO, 0, len(test.Questions)),
	}
	for _, q := range test.Questions {
		review := dto.AnswerReviewDTO{
			QuestionID:    q.ID,
			Prompt:        q.Prompt,
			Type:          string(q.Type),
			Options:       append([]string(nil), q.Options...),
			Marks:         q.Marks,
			CorrectAnswer: q.CorrectAnswer,
		}
		if a, ok := byQuestion[q.ID]; ok {
			review.Value = a.Value
			review.IsCorrect = a.IsCorrect
		}
		resp.Answers = append(resp.Answers, review)
	}
	return resp, nil
}
