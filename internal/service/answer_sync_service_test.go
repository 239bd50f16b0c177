package service

import (
	"context"
	"errors"
	"testing"

	"github.com/lshigami/examdesk/internal/apperr"
	"github.com/lshigami/examdesk/internal/session"
	"github.com/lshigami/examdesk/internal/testutil"
)

func tfQuestions(n int) []testutil.QuestionSpec {
	specs := make([]testutil.QuestionSpec, n)
	for i := range specs {
		specs[i] = testutil.TF(1, "true")
	}
	return specs
}

func entriesFor(ids []uint, value string) []session.Entry {
	out := make([]session.Entry, len(ids))
	for i, id := range ids {
		out[i] = session.Entry{QuestionID: id, Value: testutil.PtrString(value)}
	}
	return out
}

func questionIDs(t *testing.T, e *env, testID uint) []uint {
	t.Helper()
	test, err := e.tests.FindByIDWithQuestions(context.Background(), testID)
	if err != nil {
		t.Fatalf("load test: %v", err)
	}
	ids := make([]uint, len(test.Questions))
	for i, q := range test.Questions {
		ids[i] = q.ID
	}
	return ids
}

func TestFlush_WritesEveryBatch(t *testing.T) {
	e := newEnv(t)
	test := testutil.SeedTest(t, e.db, "Thermo", 30, 0, tfQuestions(7)...)
	a := testutil.SeedAttempt(t, e.db, test.ID, "student-1", e.clock.Now())
	ids := questionIDs(t, e, test.ID)

	res, err := e.syncer.Flush(context.Background(), a.ID, entriesFor(ids, "true"))
	if err != nil {
		t.Fatalf("Flush: %v", err)
	}
	if len(res.Saved) != 7 || len(res.Failed) != 0 {
		t.Fatalf("unexpected result %+v", res)
	}
	if n := len(e.storedAnswers(t, a.ID)); n != 7 {
		t.Fatalf("expected 7 stored answers, got %d", n)
	}
}

func TestFlush_UpsertIsIdempotent(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	test := seedScenario(t, e.db, 0)
	a := testutil.SeedAttempt(t, e.db, test.ID, "student-1", e.clock.Now())
	q := test.Questions[1].ID

	for _, v := range []string{"true", "true", "false"} {
		if _, err := e.syncer.Flush(ctx, a.ID, entriesFor([]uint{q}, v)); err != nil {
			t.Fatalf("Flush(%s): %v", v, err)
		}
	}
	stored := e.storedAnswers(t, a.ID)
	if len(stored) != 1 {
		t.Fatalf("expected one row, got %d", len(stored))
	}
	if got := stored[q].Value; got == nil || *got != "false" {
		t.Fatalf("latest value not kept: %v", got)
	}
}

func TestFlush_EraseIsNotWritten(t *testing.T) {
	e := newEnv(t)
	test := seedScenario(t, e.db, 0)
	a := testutil.SeedAttempt(t, e.db, test.ID, "student-1", e.clock.Now())
	q := test.Questions[0].ID
	testutil.SeedAnswer(t, e.db, a.ID, q, "B")

	res, err := e.syncer.Flush(context.Background(), a.ID, []session.Entry{{QuestionID: q}})
	if err != nil {
		t.Fatalf("Flush: %v", err)
	}
	if len(res.Saved) != 1 {
		t.Fatalf("erased entry should count as handled: %+v", res)
	}
	if got := e.storedAnswers(t, a.ID)[q].Value; got == nil || *got != "B" {
		t.Fatalf("stored answer changed: %v", got)
	}
}

func TestFlush_PartialFailureKeepsOthers(t *testing.T) {
	e := newEnv(t)
	test := testutil.SeedTest(t, e.db, "Waves", 30, 0, tfQuestions(6)...)
	a := testutil.SeedAttempt(t, e.db, test.ID, "student-1", e.clock.Now())
	ids := questionIDs(t, e, test.ID)
	e.answers.failFor = map[uint]bool{ids[1]: true, ids[5]: true}

	res, err := e.syncer.Flush(context.Background(), a.ID, entriesFor(ids, "false"))
	if !errors.Is(err, apperr.ErrPersistenceFailure) {
		t.Fatalf("expected PersistenceFailure, got %v", err)
	}
	if len(res.Failed) != 2 || res.Failed[0] != ids[1] || res.Failed[1] != ids[5] {
		t.Fatalf("failed = %v", res.Failed)
	}
	if len(res.Saved) != 4 {
		t.Fatalf("saved = %d", len(res.Saved))
	}
	if n := len(e.storedAnswers(t, a.ID)); n != 4 {
		t.Fatalf("expected 4 stored answers, got %d", n)
	}
}

func TestFlush_RefusesCompletedAttempt(t *testing.T) {
	e := newEnv(t)
	test := seedScenario(t, e.db, 0)
	a := testutil.SeedCompletedAttempt(t, e.db, test.ID, "student-1", 3, 5)

	_, err := e.syncer.Flush(context.Background(), a.ID, entriesFor([]uint{test.Questions[0].ID}, "A"))
	if !errors.Is(err, apperr.ErrAlreadyCompleted) {
		t.Fatalf("expected AlreadyCompleted, got %v", err)
	}
	if n := len(e.storedAnswers(t, a.ID)); n != 0 {
		t.Fatalf("completed attempt was written to")
	}
}
