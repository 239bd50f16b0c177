package service

import (
	"context"
	"fmt"

	"github.com/facebookgo/clock"
	"github.com/lshigami/examdesk/config"
	"github.com/lshigami/examdesk/internal/apperr"
	"github.com/lshigami/examdesk/internal/model"
	"github.com/lshigami/examdesk/internal/repository"
	"github.com/lshigami/examdesk/internal/session"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// FlushResult reports which entries reached durable storage. Entries with a nil value count as
// saved without a write: erasing an answer is not persisted.
type FlushResult struct {
	Saved  []session.Entry
	Failed []uint
}

type AnswerSyncService interface {
	Flush(ctx context.Context, attemptID uint, entries []session.Entry) (FlushResult, error)
}

type answerSyncService struct {
	attemptRepo repository.AttemptRepository
	answerRepo  repository.AnswerRepository
	clock       clock.Clock
	batchSize   int
}

func NewAnswerSyncService(
	attemptRepo repository.AttemptRepository,
	answerRepo repository.AnswerRepository,
	clk clock.Clock,
	cfg *config.Config,
) AnswerSyncService {
	batch := cfg.Session.SyncBatchSize
	if batch <= 0 {
		batch = 5
	}
	return &answerSyncService{attemptRepo: attemptRepo, answerRepo: answerRepo, clock: clk, batchSize: batch}
}

func (s *answerSyncService) Flush(ctx context.Context, attemptID uint, entries []session.Entry) (FlushResult, error) {
	const op = "FlushAnswers"
	var result FlushResult

	attempt, err := s.attemptRepo.FindByID(ctx, attemptID)
	if err != nil {
		return result, lookupErr(op, "attempt", attemptID, err)
	}
	if attempt.IsCompleted() {
		return result, apperr.Newf(apperr.KindAlreadyCompleted, op, "attempt %d is already completed", attemptID)
	}

	var writes []session.Entry
	for _, e := range entries {
		if e.Value == nil {
			result.Saved = append(result.Saved, e)
			continue
		}
		writes = append(writes, e)
	}

	for start := 0; start < len(writes); start += s.batchSize {
		end := min(start+s.batchSize, len(writes))
		batch := writes[start:end]
		errs := make([]error, len(batch))

		var g errgroup.Group
		for i, e := range batch {
			g.Go(func() error {
				errs[i] = s.answerRepo.Upsert(ctx, &model.Answer{
					AttemptID:  attemptID,
					QuestionID: e.QuestionID,
					Value:      e.Value,
					SavedAt:    s.clock.Now(),
				})
				return errs[i]
			})
		}
		_ = g.Wait() // per-entry errors are in errs

		for i, e := range batch {
			if errs[i] != nil {
				log.Warn().Err(errs[i]).Uint("attemptID", attemptID).Uint("questionID", e.QuestionID).Msg("Failed to save answer")
				result.Failed = append(result.Failed, e.QuestionID)
				continue
			}
			result.Saved = append(result.Saved, e)
		}
	}

	if len(result.Failed) > 0 {
		return result, apperr.New(apperr.KindPersistenceFailure, op,
			fmt.Errorf("failed to save answers for questions %v", result.Failed))
	}
	log.Debug().Uint("attemptID", attemptID).Int("saved", len(result.Saved)).Msg("Answers flushed")
	return result, nil
}
