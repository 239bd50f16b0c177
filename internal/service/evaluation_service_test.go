package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/lshigami/examdesk/internal/apperr"
	"github.com/lshigami/examdesk/internal/model"
	"github.com/lshigami/examdesk/internal/testutil"
)

func TestEvaluate_ScenarioA_PersistsScoreAndCorrectness(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	test := seedScenario(t, e.db, 50)
	q1, q2 := test.Questions[0].ID, test.Questions[1].ID
	a := testutil.SeedAttempt(t, e.db, test.ID, "student-1", e.clock.Now())
	testutil.SeedAnswer(t, e.db, a.ID, q1, "B")
	testutil.SeedAnswer(t, e.db, a.ID, q2, "false")

	res, err := e.eval.Evaluate(ctx, a.ID)
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if res.RawScore != 3 || res.NegativeMarks != 1 || res.Score != 2 || res.TotalPossible != 5 {
		t.Fatalf("unexpected result %+v", res)
	}
	if res.Percentage != 40 || !res.Passed {
		t.Fatalf("percentage=%d passed=%v", res.Percentage, res.Passed)
	}

	stored := e.attempt(t, a.ID)
	if stored.Status != model.AttemptStatusCompleted || stored.Score != 2 || stored.TotalPossible != 5 || stored.NegativeMarks != 1 {
		t.Fatalf("attempt not sealed: %+v", stored)
	}
	if stored.EndTime == nil || !stored.EndTime.Equal(e.clock.Now()) {
		t.Fatalf("end time = %v", stored.EndTime)
	}

	answers := e.storedAnswers(t, a.ID)
	if c := answers[q1].IsCorrect; c == nil || !*c {
		t.Fatalf("q1 should be marked correct")
	}
	if c := answers[q2].IsCorrect; c == nil || *c {
		t.Fatalf("q2 should be marked incorrect")
	}
}

func TestEvaluate_ScenarioB_NoDeduction(t *testing.T) {
	e := newEnv(t)
	test := seedScenario(t, e.db, 0)
	a := testutil.SeedAttempt(t, e.db, test.ID, "student-1", e.clock.Now())
	testutil.SeedAnswer(t, e.db, a.ID, test.Questions[0].ID, "B")
	testutil.SeedAnswer(t, e.db, a.ID, test.Questions[1].ID, "false")

	res, err := e.eval.Evaluate(context.Background(), a.ID)
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if res.Score != 3 || res.NegativeMarks != 0 || res.TotalPossible != 5 {
		t.Fatalf("unexpected result %+v", res)
	}
}

func TestEvaluate_SecondPassChangesNothing(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	test := seedScenario(t, e.db, 50)
	a := testutil.SeedAttempt(t, e.db, test.ID, "student-1", e.clock.Now())
	testutil.SeedAnswer(t, e.db, a.ID, test.Questions[0].ID, "B")

	if _, err := e.eval.Evaluate(ctx, a.ID); err != nil {
		t.Fatalf("first Evaluate: %v", err)
	}
	// a late answer must not be picked up by a second evaluation
	testutil.SeedAnswer(t, e.db, a.ID, test.Questions[1].ID, "true")

	_, err := e.eval.Evaluate(ctx, a.ID)
	if !errors.Is(err, apperr.ErrAlreadyCompleted) {
		t.Fatalf("expected AlreadyCompleted, got %v", err)
	}
	if got := e.attempt(t, a.ID).Score; got != 3 {
		t.Fatalf("score mutated to %d", got)
	}
}

func TestEvaluate_ConcurrentSubmitsScoreOnce(t *testing.T) {
	e := newEnv(t)
	test := seedScenario(t, e.db, 50)
	a := testutil.SeedAttempt(t, e.db, test.ID, "student-1", e.clock.Now())
	testutil.SeedAnswer(t, e.db, a.ID, test.Questions[0].ID, "B")
	testutil.SeedAnswer(t, e.db, a.ID, test.Questions[1].ID, "false")

	const callers = 8
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes []*EvaluationResult
		failures  []error
	)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := e.eval.Evaluate(context.Background(), a.ID)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				failures = append(failures, err)
				return
			}
			successes = append(successes, res)
		}()
	}
	wg.Wait()

	if len(successes) == 0 {
		t.Fatalf("no evaluation succeeded: %v", failures)
	}
	for _, err := range failures {
		if !errors.Is(err, apperr.ErrAlreadyCompleted) {
			t.Fatalf("unexpected error %v", err)
		}
	}
	first := successes[0]
	for _, res := range successes[1:] {
		if res != first {
			t.Fatalf("successful callers must share the single evaluation")
		}
	}
	if got := e.attempt(t, a.ID).Score; got != 2 {
		t.Fatalf("score = %d", got)
	}
}

func TestEvaluate_UnansweredAndFaultyQuestionsScoreZero(t *testing.T) {
	e := newEnv(t)
	test := testutil.SeedTest(t, e.db, "Optics", 30, 25,
		testutil.MC(4, "", "x", "y"),
		testutil.TF(2, "false"),
		testutil.TF(2, "true"),
	)
	a := testutil.SeedAttempt(t, e.db, test.ID, "student-1", e.clock.Now())
	testutil.SeedAnswer(t, e.db, a.ID, test.Questions[0].ID, "x")
	testutil.SeedAnswer(t, e.db, a.ID, test.Questions[1].ID, "false")

	res, err := e.eval.Evaluate(context.Background(), a.ID)
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if res.Score != 2 || res.NegativeMarks != 0 || res.TotalPossible != 8 {
		t.Fatalf("unexpected result %+v", res)
	}
	if !res.PartialFailure() || len(res.Flagged) != 1 || res.Flagged[0] != test.Questions[0].ID {
		t.Fatalf("flagged = %v", res.Flagged)
	}
	if c := e.storedAnswers(t, a.ID)[test.Questions[0].ID].IsCorrect; c != nil {
		t.Fatalf("faulty question must stay ungraded, got %v", *c)
	}
}

func TestEvaluate_InvalidatesRankingCache(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	test := seedScenario(t, e.db, 0)
	a := testutil.SeedAttempt(t, e.db, test.ID, "student-1", e.clock.Now())

	if _, err := e.ranking.Rank(ctx, test.ID); err != nil {
		t.Fatalf("Rank: %v", err)
	}
	if !e.cache.has(rankingCacheKey(test.ID, 0)) {
		t.Fatalf("rankings should be cached")
	}
	if _, err := e.eval.Evaluate(ctx, a.ID); err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	entries, err := e.ranking.Rank(ctx, test.ID)
	if err != nil || len(entries) != 1 || entries[0].AttemptID != a.ID {
		t.Fatalf("rankings after evaluation = %+v, %v", entries, err)
	}
	if !e.cache.has(rankingCacheKey(test.ID, 1)) {
		t.Fatalf("rankings should be cached under the bumped version")
	}
}

func TestEvaluate_UnknownAttempt(t *testing.T) {
	e := newEnv(t)
	if _, err := e.eval.Evaluate(context.Background(), 404); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("expected NotFound, got %v", err)
	}
}
