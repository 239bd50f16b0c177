package service

import (
	"context"
	"time"

	"github.com/facebookgo/clock"
	"github.com/lshigami/examdesk/internal/apperr"
	"github.com/lshigami/examdesk/internal/model"
	"github.com/lshigami/examdesk/internal/repository"
	"github.com/lshigami/examdesk/internal/session"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// SessionState is everything needed to resume an attempt. When Redirect is set the attempt is
// already completed and only Attempt is populated.
type SessionState struct {
	Attempt          model.TestAttempt
	Test             model.Test
	Questions        []model.Question
	Answers          []session.Entry // one per question, in question order
	Deadline         time.Time
	RemainingSeconds int
	Expired          bool
	Redirect         bool
}

func (s *SessionState) QuestionIDs() []uint {
	ids := make([]uint, len(s.Questions))
	for i, q := range s.Questions {
		ids[i] = q.ID
	}
	return ids
}

type AttemptLoaderService interface {
	Load(ctx context.Context, testID, attemptID uint, studentID string) (*SessionState, error)
}

type attemptLoaderService struct {
	testRepo     repository.TestRepository
	questionRepo repository.QuestionRepository
	attemptRepo  repository.AttemptRepository
	answerRepo   repository.AnswerRepository
	clock        clock.Clock
}

func NewAttemptLoaderService(
	testRepo repository.TestRepository,
	questionRepo repository.QuestionRepository,
	attemptRepo repository.AttemptRepository,
	answerRepo repository.AnswerRepository,
	clk clock.Clock,
) AttemptLoaderService {
	return &attemptLoaderService{
		testRepo:     testRepo,
		questionRepo: questionRepo,
		attemptRepo:  attemptRepo,
		answerRepo:   answerRepo,
		clock:        clk,
	}
}

func (s *attemptLoaderService) Load(ctx context.Context, testID, attemptID uint, studentID string) (*SessionState, error) {
	const op = "LoadAttempt"

	attempt, err := s.attemptRepo.FindByID(ctx, attemptID)
	if err != nil {
		return nil, lookupErr(op, "attempt", attemptID, err)
	}
	if attempt.TestID != testID {
		return nil, apperr.Newf(apperr.KindNotFound, op, "attempt %d does not belong to test %d", attemptID, testID)
	}
	if attempt.StudentID != studentID {
		log.Warn().Uint("attemptID", attemptID).Str("studentID", studentID).Msg("Attempt requested by a student who does not own it")
		return nil, apperr.Newf(apperr.KindForbidden, op, "attempt %d belongs to another student", attemptID)
	}
	if attempt.IsCompleted() {
		return &SessionState{Attempt: *attempt, Redirect: true}, nil
	}

	var (
		test      *model.Test
		questions []model.Question
		answers   []model.Answer
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		t, err := s.testRepo.FindByID(gctx, testID)
		if err != nil {
			return lookupErr(op, "test", testID, err)
		}
		test = t
		return nil
	})
	g.Go(func() error {
		qs, err := s.questionRepo.FindByTestID(gctx, testID)
		if err != nil {
			return err
		}
		questions = qs
		return nil
	})
	g.Go(func() error {
		as, err := s.answerRepo.FindByAttempt(gctx, attemptID)
		if err != nil {
			return err
		}
		answers = as
		return nil
	})
	if err := g.Wait(); err != nil {
		log.Error().Err(err).Uint("attemptID", attemptID).Msg("Failed to load attempt")
		return nil, err
	}

	saved := make(map[uint]*string, len(answers))
	for _, a := range answers {
		saved[a.QuestionID] = a.Value
	}
	entries := make([]session.Entry, len(questions))
	for i, q := range questions {
		// answers to questions no longer on the test are dropped
		entries[i] = session.Entry{QuestionID: q.ID, Value: saved[q.ID]}
	}

	deadline := attempt.Deadline(test)
	remaining := session.RemainingSeconds(deadline, s.clock.Now())
	return &SessionState{
		Attempt:          *attempt,
		Test:             *test,
		Questions:        questions,
		Answers:          entries,
		Deadline:         deadline,
		RemainingSeconds: remaining,
		Expired:          remaining == 0,
	}, nil
}
