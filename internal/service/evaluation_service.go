package service

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/facebookgo/clock"
	"github.com/lshigami/examdesk/internal/apperr"
	"github.com/lshigami/examdesk/internal/cache"
	"github.com/lshigami/examdesk/internal/grading"
	"github.com/lshigami/examdesk/internal/repository"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"
)

// EvaluationResult is the outcome of the single evaluation pass that sealed an attempt.
type EvaluationResult struct {
	AttemptID     uint
	TestID        uint
	StudentID     string
	RawScore      int
	NegativeMarks float64
	Score         int
	TotalPossible int
	Percentage    int
	Passed        bool
	Items         []grading.Item
	Flagged       []uint
	CompletedAt   time.Time
}

// PartialFailure reports whether some questions could not be graded.
func (r *EvaluationResult) PartialFailure() bool { return len(r.Flagged) > 0 }

type EvaluationService interface {
	// Evaluate grades the attempt's saved answers and seals it. It returns AlreadyCompleted,
	// without writing anything, when another evaluation got there first.
	Evaluate(ctx context.Context, attemptID uint) (*EvaluationResult, error)
}

type evaluationService struct {
	db             *gorm.DB
	testRepo       repository.TestRepository
	questionRepo   repository.QuestionRepository
	attemptRepo    repository.AttemptRepository
	answerRepo     repository.AnswerRepository
	scoreConverter ScoreConverterService
	cache          cache.Store
	clock          clock.Clock

	inflight singleflight.Group
}

func NewEvaluationService(
	db *gorm.DB,
	testRepo repository.TestRepository,
	questionRepo repository.QuestionRepository,
	attemptRepo repository.AttemptRepository,
	answerRepo repository.AnswerRepository,
	scoreConverter ScoreConverterService,
	store cache.Store,
	clk clock.Clock,
) EvaluationService {
	return &evaluationService{
		db:             db,
		testRepo:       testRepo,
		questionRepo:   questionRepo,
		attemptRepo:    attemptRepo,
		answerRepo:     answerRepo,
		scoreConverter: scoreConverter,
		cache:          store,
		clock:          clk,
	}
}

func (s *evaluationService) Evaluate(ctx context.Context, attemptID uint) (*EvaluationResult, error) {
	v, err, shared := s.inflight.Do(strconv.FormatUint(uint64(attemptID), 10), func() (interface{}, error) {
		return s.evaluate(ctx, attemptID)
	})
	if shared {
		log.Debug().Uint("attemptID", attemptID).Msg("Coalesced concurrent evaluation")
	}
	if err != nil {
		return nil, err
	}
	return v.(*EvaluationResult), nil
}

func (s *evaluationService) evaluate(ctx context.Context, attemptID uint) (*EvaluationResult, error) {
	const op = "EvaluateAttempt"

	attempt, err := s.attemptRepo.FindByID(ctx, attemptID)
	if err != nil {
		return nil, lookupErr(op, "attempt", attemptID, err)
	}
	if attempt.IsCompleted() {
		return nil, apperr.Newf(apperr.KindAlreadyCompleted, op, "attempt %d is already completed", attemptID)
	}
	test, err := s.testRepo.FindByID(ctx, attempt.TestID)
	if err != nil {
		return nil, lookupErr(op, "test", attempt.TestID, err)
	}
	questions, err := s.questionRepo.FindByTestID(ctx, attempt.TestID)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to load questions: %w", op, err)
	}
	answers, err := s.answerRepo.FindByAttempt(ctx, attemptID)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to load answers: %w", op, err)
	}

	values := make(map[uint]*string, len(answers))
	answerIDs := make(map[uint]uint, len(answers))
	for _, a := range answers {
		values[a.QuestionID] = a.Value
		answerIDs[a.QuestionID] = a.ID
	}

	graded := grading.Evaluate(grading.PolicyFor(test), questions, values)
	for _, item := range graded.Flagged {
		log.Warn().Err(item.Err).Uint("attemptID", attemptID).Uint("questionID", item.QuestionID).
			Str("outcome", string(item.Outcome)).Msg("Question could not be graded, scored as unanswered")
	}
	for _, item := range graded.Items {
		if item.MatchedByIndex {
			log.Info().Uint("attemptID", attemptID).Uint("questionID", item.QuestionID).Msg("Multiple-choice answer matched by option index")
		}
	}

	completedAt := s.clock.Now()
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		sealed, err := repository.NewAttemptRepository(tx).Complete(ctx, attemptID, repository.AttemptSeal{
			EndTime:       completedAt,
			Score:         graded.FinalScore,
			NegativeMarks: graded.NegativeMarks,
			TotalPossible: graded.TotalPossible,
		})
		if err != nil {
			return fmt.Errorf("failed to seal attempt: %w", err)
		}
		if !sealed {
			return apperr.Newf(apperr.KindAlreadyCompleted, op, "attempt %d is already completed", attemptID)
		}

		answerRepo := repository.NewAnswerRepository(tx)
		for _, item := range graded.Items {
			id, ok := answerIDs[item.QuestionID]
			if !ok {
				continue
			}
			if err := answerRepo.SetCorrectness(ctx, id, item.IsCorrect); err != nil {
				return fmt.Errorf("failed to record correctness for question %d: %w", item.QuestionID, err)
			}
		}
		return nil
	})
	if err != nil {
		if apperr.KindOf(err) == apperr.KindAlreadyCompleted {
			return nil, err
		}
		log.Error().Err(err).Uint("attemptID", attemptID).Msg("Failed to persist evaluation")
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if _, err := s.cache.Incr(ctx, rankingVersionKey(attempt.TestID)); err != nil {
		log.Warn().Err(err).Uint("testID", attempt.TestID).Msg("Failed to invalidate ranking cache")
	}

	summary := s.scoreConverter.Summarize(graded.FinalScore, graded.TotalPossible, test.PassingPercentage)
	result := &EvaluationResult{
		AttemptID:     attemptID,
		TestID:        attempt.TestID,
		StudentID:     attempt.StudentID,
		RawScore:      graded.RawScore,
		NegativeMarks: graded.NegativeMarks,
		Score:         graded.FinalScore,
		TotalPossible: graded.TotalPossible,
		Percentage:    summary.Percentage,
		Passed:        summary.Passed,
		Items:         graded.Items,
		CompletedAt:   completedAt,
	}
	for _, item := range graded.Flagged {
		result.Flagged = append(result.Flagged, item.QuestionID)
	}

	log.Info().Uint("attemptID", attemptID).Int("score", result.Score).Int("total", result.TotalPossible).
		Float64("negative", result.NegativeMarks).Int("flagged", len(result.Flagged)).Msg("Attempt evaluated")
	return result, nil
}
