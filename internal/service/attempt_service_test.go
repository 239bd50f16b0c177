package service

import (
	"context"
	"errors"
	"testing"

	"github.com/lshigami/examdesk/internal/apperr"
	"github.com/lshigami/examdesk/internal/testutil"
)

func TestStartAttempt_ResumesOpenAttempt(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	test := seedScenario(t, e.db, 0)

	first, resumed, err := e.attemptS.StartAttempt(ctx, test.ID, "student-1")
	if err != nil || resumed {
		t.Fatalf("first start: resumed=%v err=%v", resumed, err)
	}
	if !first.StartTime.Equal(e.clock.Now()) {
		t.Fatalf("start time = %v", first.StartTime)
	}

	again, resumed, err := e.attemptS.StartAttempt(ctx, test.ID, "student-1")
	if err != nil || !resumed || again.ID != first.ID {
		t.Fatalf("expected resume of %d, got %+v resumed=%v err=%v", first.ID, again, resumed, err)
	}

	otherStudent, _, err := e.attemptS.StartAttempt(ctx, test.ID, "student-2")
	if err != nil || otherStudent.ID == first.ID {
		t.Fatalf("students must not share attempts")
	}
}

func TestStartAttempt_AfterCompletionCreatesNew(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	test := seedScenario(t, e.db, 0)
	done := testutil.SeedCompletedAttempt(t, e.db, test.ID, "student-1", 4, 5)

	next, resumed, err := e.attemptS.StartAttempt(ctx, test.ID, "student-1")
	if err != nil || resumed || next.ID == done.ID {
		t.Fatalf("expected a fresh attempt, got %+v resumed=%v err=%v", next, resumed, err)
	}

	history, err := e.attemptS.ListAttempts(ctx, test.ID, "student-1")
	if err != nil || len(history) != 2 {
		t.Fatalf("history = %+v err=%v", history, err)
	}
}

func TestStartAttempt_UnknownTest(t *testing.T) {
	e := newEnv(t)
	if _, _, err := e.attemptS.StartAttempt(context.Background(), 77, "student-1"); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("expected NotFound, got %v", err)
	}
}

func TestGetResult_RevealsKeyOnlyAfterCompletion(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	test := seedScenario(t, e.db, 50)
	a := testutil.SeedAttempt(t, e.db, test.ID, "student-1", e.clock.Now())
	testutil.SeedAnswer(t, e.db, a.ID, test.Questions[0].ID, "B")

	if _, err := e.attemptS.GetResult(ctx, a.ID, "student-1"); !errors.Is(err, apperr.ErrValidationFailure) {
		t.Fatalf("in-progress result should be refused, got %v", err)
	}
	if _, err := e.eval.Evaluate(ctx, a.ID); err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if _, err := e.attemptS.GetResult(ctx, a.ID, "student-2"); !errors.Is(err, apperr.ErrForbidden) {
		t.Fatalf("expected Forbidden, got %v", err)
	}

	res, err := e.attemptS.GetResult(ctx, a.ID, "student-1")
	if err != nil {
		t.Fatalf("GetResult: %v", err)
	}
	if res.Score != 3 || res.TotalPossible != 5 || res.Percentage != 60 || !res.Passed {
		t.Fatalf("unexpected result %+v", res)
	}
	if len(res.Answers) != 2 || res.Answers[0].CorrectAnswer != "B" || res.Answers[1].CorrectAnswer != "true" {
		t.Fatalf("answer keys not revealed: %+v", res.Answers)
	}
	if c := res.Answers[0].IsCorrect; c == nil || !*c {
		t.Fatalf("q1 should be correct")
	}
	if res.Answers[1].Value != nil || res.Answers[1].IsCorrect != nil {
		t.Fatalf("unanswered question should have no value: %+v", res.Answers[1])
	}
}
